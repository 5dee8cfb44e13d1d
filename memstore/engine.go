package memstore

import (
	"time"

	scripts "github.com/bjageman/botc-scripts"
	"github.com/bjageman/botc-scripts/options"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/tidwall/btree"
)

const castPanic = "how could primary keys item not be of type *entry"

type entryIterator func(ent *entry) bool

type engine struct {
	pks   *btree.BTree
	chars *characterIndex
	ids   map[string]*entry
	votes map[string]map[string]struct{}
	now   func() time.Time
}

func newEngine() *engine {
	return &engine{
		pks:   btree.NewNonConcurrent(byPrimaryKeys),
		chars: newCharacterIndex(),
		ids:   make(map[string]*entry),
		votes: make(map[string]map[string]struct{}),
		now:   time.Now,
	}
}

func (e *engine) insert(rec *scripts.Record) (*entry, error) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}

	if _, ok := e.ids[rec.ID]; ok {
		return nil, errors.Wrapf(ErrKeyAlreadyExists, "record %s", rec.ID)
	}

	ent := newEntry(rec)
	if existing := e.pks.Set(ent); existing != nil {
		_ = e.pks.Set(existing)
		return nil, errors.Wrapf(ErrKeyAlreadyExists, "record %s", rec.ID)
	}

	e.ids[rec.ID] = ent
	e.chars.add(ent)
	return ent, nil
}

func (e *engine) remove(ent *entry) {
	e.pks.Delete(ent)
	e.chars.remove(ent)
	delete(e.ids, ent.rec.ID)
}

func (e *engine) findByID(id string) (*entry, error) {
	ent, ok := e.ids[id]
	if !ok {
		return nil, errors.Wrapf(scripts.ErrNotFound, "record %s", id)
	}
	return ent, nil
}

func (e *engine) scanScript(scriptID string, ir entryIterator) {
	e.pks.Ascend(scriptPivot(scriptID), func(item interface{}) bool {
		ent, ok := item.(*entry)
		if !ok {
			panic(castPanic)
		}

		if ent.key.scriptID != scriptID {
			return false
		}

		return ir(ent)
	})
}

func (e *engine) scan(o options.Order, ir entryIterator) {
	iter := func(item interface{}) bool {
		ent, ok := item.(*entry)
		if !ok {
			panic(castPanic)
		}
		return ir(ent)
	}

	if o == options.Descend {
		e.pks.Descend(nil, iter)
	} else {
		e.pks.Ascend(nil, iter)
	}
}

func (e *engine) find(opts *options.FindOptions) []*entry {
	var found []*entry
	match := func(ent *entry) bool {
		if opts.Latest && !ent.rec.Latest {
			return true
		}

		if opts.Character != "" && !ent.rec.Content.Contains(opts.Character) {
			return true
		}

		if opts.Uploader != "" && ent.rec.Uploader != opts.Uploader {
			return true
		}

		found = append(found, ent)
		return true
	}

	switch {
	case opts.Character != "":
		for _, ent := range e.chars.lookup(opts.Character) {
			if opts.ScriptID == "" || ent.key.scriptID == opts.ScriptID {
				match(ent)
			}
		}
	case opts.ScriptID != "":
		e.scanScript(opts.ScriptID, match)
	default:
		e.scan(opts.O, match)
		return found
	}

	if opts.O == options.Descend {
		for i, j := 0, len(found)-1; i < j; i, j = i+1, j-1 {
			found[i], found[j] = found[j], found[i]
		}
	}

	return found
}

func (e *engine) countVotes(recordID string) int {
	return len(e.votes[recordID])
}

func (e *engine) count() int {
	return e.pks.Len()
}
