package scripts

import (
	"context"
	"sort"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Submission is a single upload of a script.
type Submission struct {
	ScriptID string
	Content  Content
	Version  string
	Metadata Metadata
}

// Change describes what changed between a version and the one before it.
// Version is the newer end of the pair, PreviousVersion the older one.
type Change struct {
	Version         Version `json:"version"`
	PreviousVersion Version `json:"previous_version"`
	ChangeSet
}

// Detail is what a script page shows: the selected version and the changes
// leading up to it.
type Detail struct {
	Record  *Record
	History []Change
}

// Manager decides whether an upload is a new version or an edit of the
// latest one, and builds version histories.
type Manager struct {
	store Store
	votes VoteRegistry
	cfg   *Config
	cache *diffCache
	log   *zap.Logger
}

type ManagerOption func(m *Manager)

func WithVoteRegistry(votes VoteRegistry) ManagerOption {
	return func(m *Manager) {
		m.votes = votes
	}
}

func NewManager(store Store, cfg *Config, opts ...ManagerOption) (*Manager, error) {
	var c Config
	if cfg != nil {
		c = *cfg
	}
	cfg = &c

	cfg.applyDefaults()

	cache, err := newDiffCache(cfg)
	if err != nil {
		return nil, err
	}

	m := &Manager{
		store: store,
		cfg:   cfg,
		cache: cache,
		log:   cfg.Logger,
	}

	for _, o := range opts {
		o(m)
	}

	return m, nil
}

// Submit stores an upload. Content equal to the latest version, entry by
// entry and in order, updates that version's metadata in place. Any other
// content demotes the latest version and becomes the new latest, unless its
// version number is already taken by the script: that fails with
// ErrVersionExists before anything is written.
func (m *Manager) Submit(ctx context.Context, s Submission) (*Record, error) {
	v, err := ParseVersion(s.Version)
	if err != nil {
		return nil, err
	}

	if s.ScriptID == "" {
		return nil, errors.Wrap(ErrInvalidSubmission, "script id is empty")
	}

	if len(s.Content) == 0 {
		return nil, errors.Wrapf(ErrInvalidSubmission, "script %s has no content", s.ScriptID)
	}

	md := s.Metadata.Clone()
	if md.Uploader == "" {
		if !m.cfg.AllowAnonymous {
			return nil, errors.Wrapf(ErrAnonymousUpload, "script %s", s.ScriptID)
		}
		md.Notes = ""
	}

	if author := s.Content.Author(); author != "" {
		md.Author = author
	}

	if md.ScriptType == "" {
		md.ScriptType = Full
	}

	var result *Record
	err = m.store.Update(ctx, func(tx Tx) error {
		latest, err := tx.FindLatest(s.ScriptID)
		if err != nil {
			if !errors.Is(err, ErrNotFound) {
				return err
			}

			result, err = tx.CreateVersion(s.ScriptID, s.Content, v, md)
			if err != nil {
				return errors.Wrapf(err, "could not create first version of script %s", s.ScriptID)
			}

			m.log.Info("created first version",
				zap.String("script", s.ScriptID),
				zap.Stringer("version", v))
			return nil
		}

		if latest.Content.Equal(s.Content) {
			result, err = tx.UpdateVersion(latest.ID, latest.Metadata.merge(md))
			if err != nil {
				return errors.Wrapf(err, "could not update version %s of script %s", latest.Version, s.ScriptID)
			}

			m.log.Info("updated latest version in place",
				zap.String("script", s.ScriptID),
				zap.Stringer("version", latest.Version),
				zap.Stringer("requested", v))
			return nil
		}

		if err := m.ensureVersionIsFree(tx, s.ScriptID, v); err != nil {
			return err
		}

		if err := tx.SetLatestFlag(latest.ID, false); err != nil {
			return errors.Wrapf(err, "could not demote version %s of script %s", latest.Version, s.ScriptID)
		}

		result, err = tx.CreateVersion(s.ScriptID, s.Content, v, md)
		if err != nil {
			return errors.Wrapf(err, "could not create version %s of script %s", v, s.ScriptID)
		}

		m.log.Info("created new version",
			zap.String("script", s.ScriptID),
			zap.Stringer("version", v),
			zap.Stringer("previous", latest.Version))
		return nil
	})

	if err != nil {
		m.logConsistency(s.ScriptID, err)
		return nil, err
	}

	return result, nil
}

func (m *Manager) ensureVersionIsFree(tx Tx, scriptID string, v Version) error {
	versions, err := tx.ListVersions(scriptID)
	if err != nil {
		return err
	}

	for _, r := range versions {
		if r.Version.Equal(v) {
			return errors.Wrapf(ErrVersionExists, "script %s already has version %s", scriptID, r.Version)
		}
	}

	return nil
}

// BuildHistory walks the versions of a script from newest to oldest and
// diffs every adjacent pair. Versions above the viewpoint are skipped. Each
// change is reported under the newer version of its pair. The viewpoint must
// be one of the script's versions.
func (m *Manager) BuildHistory(ctx context.Context, scriptID string, viewpoint Version) ([]Change, error) {
	var versions []*Record
	if err := m.store.View(ctx, func(tx Tx) error {
		var err error
		versions, err = m.listSorted(tx, scriptID)
		return err
	}); err != nil {
		m.logConsistency(scriptID, err)
		return nil, err
	}

	if _, err := findVersion(versions, scriptID, viewpoint); err != nil {
		return nil, err
	}

	return m.history(versions, viewpoint), nil
}

func (m *Manager) history(versions []*Record, viewpoint Version) []Change {
	limit := viewpoint.InternalInteger()

	var changes []Change
	var newer *Record
	for _, r := range versions {
		if r.Version.InternalInteger() > limit {
			continue
		}

		if newer != nil {
			cs, hit := m.cache.diff(r.Content, newer.Content)
			if !hit {
				m.log.Debug("diff cache miss",
					zap.String("script", r.ScriptID),
					zap.Stringer("version", newer.Version),
					zap.Stringer("previous", r.Version))
			}

			changes = append(changes, Change{
				Version:         newer.Version,
				PreviousVersion: r.Version,
				ChangeSet:       cs,
			})
		}

		newer = r
	}

	return changes
}

// listSorted returns the versions of a script, newest first.
func (m *Manager) listSorted(tx Tx, scriptID string) ([]*Record, error) {
	versions, err := tx.ListVersions(scriptID)
	if err != nil {
		return nil, err
	}

	if len(versions) == 0 {
		return nil, errors.Wrapf(ErrNotFound, "script %s has no versions", scriptID)
	}

	var latest int
	for _, r := range versions {
		if r.Latest {
			latest++
		}
	}

	if latest > 1 {
		return nil, errors.Wrapf(ErrConsistencyViolation, "script %s has %d latest versions", scriptID, latest)
	}

	sort.SliceStable(versions, func(i, j int) bool {
		return versions[j].Version.Less(versions[i].Version)
	})

	return versions, nil
}

func findVersion(versions []*Record, scriptID string, v Version) (*Record, error) {
	for _, r := range versions {
		if r.Version.Equal(v) {
			return r, nil
		}
	}

	return nil, errors.Wrapf(ErrNotFound, "script %s has no version %s", scriptID, v)
}

// Detail returns the requested version of a script, or its highest version
// when v is nil, together with the history as seen from that version.
func (m *Manager) Detail(ctx context.Context, scriptID string, v *Version) (*Detail, error) {
	var versions []*Record
	if err := m.store.View(ctx, func(tx Tx) error {
		var err error
		versions, err = m.listSorted(tx, scriptID)
		return err
	}); err != nil {
		m.logConsistency(scriptID, err)
		return nil, err
	}

	selected := versions[0]
	if v != nil {
		var err error
		if selected, err = findVersion(versions, scriptID, *v); err != nil {
			return nil, err
		}
	}

	return &Detail{
		Record:  selected,
		History: m.history(versions, selected.Version),
	}, nil
}

func (m *Manager) Latest(ctx context.Context, scriptID string) (*Record, error) {
	var latest *Record
	if err := m.store.View(ctx, func(tx Tx) error {
		var err error
		latest, err = tx.FindLatest(scriptID)
		return err
	}); err != nil {
		m.logConsistency(scriptID, err)
		return nil, err
	}

	return latest, nil
}

func (m *Manager) logConsistency(scriptID string, err error) {
	if errors.Is(err, ErrConsistencyViolation) {
		m.log.Warn("store reported more than one latest version",
			zap.String("script", scriptID),
			zap.Error(err))
	}
}
