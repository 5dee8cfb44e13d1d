package memstore

import (
	"context"

	scripts "github.com/bjageman/botc-scripts"
	"github.com/bjageman/botc-scripts/options"
	"github.com/pkg/errors"
)

var ErrTxIsReadOnly = errors.New("transaction is read only")
var ErrKeyAlreadyExists = errors.New("key already exists")

// Tx is a unit of work against the store. Writes are applied immediately
// and undone in reverse order on rollback.
type Tx struct {
	readOnly  bool
	e         *engine
	ctx       context.Context
	rollbacks []func()
}

var _ scripts.Tx = (*Tx)(nil)

func (x *Tx) FindLatest(scriptID string) (*scripts.Record, error) {
	var latest []*entry
	x.e.scanScript(scriptID, func(ent *entry) bool {
		if ent.rec.Latest {
			latest = append(latest, ent)
		}
		return true
	})

	switch len(latest) {
	case 0:
		return nil, errors.Wrapf(scripts.ErrNotFound, "script %s has no latest version", scriptID)
	case 1:
		return x.view(latest[0]), nil
	default:
		return nil, errors.Wrapf(
			scripts.ErrConsistencyViolation,
			"script %s has %d latest versions", scriptID, len(latest),
		)
	}
}

func (x *Tx) ListVersions(scriptID string) ([]*scripts.Record, error) {
	var result []*scripts.Record
	x.e.scanScript(scriptID, func(ent *entry) bool {
		result = append(result, x.view(ent))
		return true
	})

	return result, nil
}

func (x *Tx) Get(recordID string) (*scripts.Record, error) {
	ent, err := x.e.findByID(recordID)
	if err != nil {
		return nil, err
	}

	return x.view(ent), nil
}

func (x *Tx) Find(opts *options.FindOptions) ([]*scripts.Record, error) {
	if opts == nil {
		opts = options.Find()
	}

	if err := x.ctx.Err(); err != nil {
		return nil, err
	}

	found := x.e.find(opts)
	result := make([]*scripts.Record, 0, len(found))
	for _, ent := range found {
		result = append(result, x.view(ent))
	}

	return result, nil
}

func (x *Tx) CreateVersion(
	scriptID string,
	content scripts.Content,
	v scripts.Version,
	md scripts.Metadata,
) (*scripts.Record, error) {
	if x.readOnly {
		return nil, ErrTxIsReadOnly
	}

	if v.IsZero() {
		return nil, errors.Wrapf(scripts.ErrMalformedVersion, "script %s", scriptID)
	}

	now := x.e.now()
	rec := &scripts.Record{
		ScriptID:  scriptID,
		Version:   v,
		Latest:    true,
		Content:   content.Clone(),
		Metadata:  md.Clone(),
		CreatedAt: now,
		UpdatedAt: now,
	}

	ent, err := x.e.insert(rec)
	if err != nil {
		return nil, err
	}

	x.rollbacks = append(x.rollbacks, func() {
		x.e.remove(ent)
	})

	return x.view(ent), nil
}

func (x *Tx) UpdateVersion(recordID string, md scripts.Metadata) (*scripts.Record, error) {
	if x.readOnly {
		return nil, ErrTxIsReadOnly
	}

	ent, err := x.e.findByID(recordID)
	if err != nil {
		return nil, err
	}

	x.remember(ent)
	ent.rec.Metadata = md.Clone()
	ent.rec.UpdatedAt = x.e.now()

	return x.view(ent), nil
}

func (x *Tx) SetLatestFlag(recordID string, latest bool) error {
	if x.readOnly {
		return ErrTxIsReadOnly
	}

	ent, err := x.e.findByID(recordID)
	if err != nil {
		return err
	}

	x.remember(ent)
	ent.rec.Latest = latest
	ent.rec.UpdatedAt = x.e.now()

	return nil
}

func (x *Tx) Count() int {
	return x.e.count()
}

// remember saves the current state of a record for rollback.
func (x *Tx) remember(ent *entry) {
	prev := cloneRecord(ent.rec)
	x.rollbacks = append(x.rollbacks, func() {
		ent.rec = prev
	})
}

func (x *Tx) view(ent *entry) *scripts.Record {
	rec := cloneRecord(ent.rec)
	rec.Votes = x.e.countVotes(rec.ID)
	return rec
}

func (x *Tx) rollback() {
	for i := len(x.rollbacks) - 1; i >= 0; i-- {
		x.rollbacks[i]()
	}
	x.rollbacks = nil
}

func (x *Tx) commit() {
	x.rollbacks = nil
}
