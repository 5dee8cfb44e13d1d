package scripts

import (
	"context"

	"github.com/bjageman/botc-scripts/options"
)

// Store owns version records. Update must run its callback as one atomic
// unit: if two submissions for the same script can interleave, the store
// ends up with two latest versions and reads report ErrConsistencyViolation.
type Store interface {
	Update(ctx context.Context, cb func(tx Tx) error) error
	View(ctx context.Context, cb func(tx Tx) error) error
}

type Tx interface {
	// FindLatest returns ErrNotFound when the script has no versions and
	// ErrConsistencyViolation when it has more than one latest version.
	FindLatest(scriptID string) (*Record, error)
	// ListVersions returns the versions of a script in no particular order.
	ListVersions(scriptID string) ([]*Record, error)
	// CreateVersion stores a new record flagged as latest.
	CreateVersion(scriptID string, content Content, v Version, md Metadata) (*Record, error)
	UpdateVersion(recordID string, md Metadata) (*Record, error)
	SetLatestFlag(recordID string, latest bool) error
	Get(recordID string) (*Record, error)
	Find(opts *options.FindOptions) ([]*Record, error)
}
