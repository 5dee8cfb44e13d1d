package memstore

import (
	"context"

	scripts "github.com/bjageman/botc-scripts"
	"github.com/pkg/errors"
)

func (db *DB) HasVoted(ctx context.Context, voterKey, recordID string) (bool, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	if db.closed {
		return false, ErrDatabaseClosed
	}

	_, ok := db.e.votes[recordID][voterKey]
	return ok, nil
}

func (db *DB) RecordVote(ctx context.Context, voterKey, recordID string) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if db.closed {
		return ErrDatabaseClosed
	}

	if _, err := db.e.findByID(recordID); err != nil {
		return errors.Wrap(err, "could not record vote")
	}

	voters, ok := db.e.votes[recordID]
	if !ok {
		voters = make(map[string]struct{})
		db.e.votes[recordID] = voters
	}

	voters[voterKey] = struct{}{}
	return nil
}

func (db *DB) RemoveVote(ctx context.Context, voterKey, recordID string) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if db.closed {
		return ErrDatabaseClosed
	}

	voters, ok := db.e.votes[recordID]
	if !ok {
		return errors.Wrapf(scripts.ErrNotFound, "no votes for record %s", recordID)
	}

	if _, ok := voters[voterKey]; !ok {
		return errors.Wrapf(scripts.ErrNotFound, "voter %s did not vote for record %s", voterKey, recordID)
	}

	delete(voters, voterKey)
	if len(voters) == 0 {
		delete(db.e.votes, recordID)
	}

	return nil
}

func (db *DB) CountVotes(ctx context.Context, recordID string) (int, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	if db.closed {
		return 0, ErrDatabaseClosed
	}

	return db.e.countVotes(recordID), nil
}
