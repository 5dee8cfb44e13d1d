package scripts

import (
	"context"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Voter is whoever casts a vote. Users are identified by UserID, anonymous
// visitors by their SessionID.
type Voter struct {
	UserID    string
	SessionID string
}

func (v Voter) key(sessionVoting bool) (string, bool) {
	if v.UserID != "" {
		return "user:" + v.UserID, true
	}

	if sessionVoting && v.SessionID != "" {
		return "session:" + v.SessionID, true
	}

	return "", false
}

// VoteRegistry remembers which voter voted for which version.
type VoteRegistry interface {
	HasVoted(ctx context.Context, voterKey, recordID string) (bool, error)
	RecordVote(ctx context.Context, voterKey, recordID string) error
	RemoveVote(ctx context.Context, voterKey, recordID string) error
	CountVotes(ctx context.Context, recordID string) (int, error)
}

// ToggleVote records a vote for a version, or withdraws it when the voter
// has already voted. It reports whether the voter now has a vote on record.
func (m *Manager) ToggleVote(ctx context.Context, voter Voter, recordID string) (bool, error) {
	if m.votes == nil {
		return false, errors.Wrap(ErrVoteNotAllowed, "voting is not configured")
	}

	key, ok := voter.key(m.cfg.SessionVoting)
	if !ok {
		return false, errors.Wrapf(ErrVoteNotAllowed, "anonymous vote for %s", recordID)
	}

	if err := m.store.View(ctx, func(tx Tx) error {
		_, err := tx.Get(recordID)
		return err
	}); err != nil {
		return false, err
	}

	voted, err := m.votes.HasVoted(ctx, key, recordID)
	if err != nil {
		return false, err
	}

	if voted {
		if err := m.votes.RemoveVote(ctx, key, recordID); err != nil {
			return false, err
		}

		m.log.Debug("vote withdrawn", zap.String("record", recordID), zap.String("voter", key))
		return false, nil
	}

	if err := m.votes.RecordVote(ctx, key, recordID); err != nil {
		return false, err
	}

	m.log.Debug("vote recorded", zap.String("record", recordID), zap.String("voter", key))
	return true, nil
}

func (m *Manager) Votes(ctx context.Context, recordID string) (int, error) {
	if m.votes == nil {
		return 0, nil
	}
	return m.votes.CountVotes(ctx, recordID)
}
