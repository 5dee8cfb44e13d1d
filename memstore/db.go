// Package memstore is an in-memory version store. Every Update runs under
// a single write lock, which gives Manager.Submit the isolation it needs.
package memstore

import (
	"context"
	"sync"

	scripts "github.com/bjageman/botc-scripts"
	"github.com/pkg/errors"
)

var ErrDatabaseClosed = errors.New("database closed")

type DB struct {
	e      *engine
	mu     sync.RWMutex
	closed bool
}

var _ scripts.Store = (*DB)(nil)
var _ scripts.VoteRegistry = (*DB)(nil)

func New() *DB {
	return &DB{e: newEngine()}
}

func (db *DB) Close() error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if db.closed {
		return ErrDatabaseClosed
	}

	db.e = nil
	db.closed = true
	return nil
}

func (db *DB) Count() int {
	db.mu.RLock()
	defer db.mu.RUnlock()

	if db.closed {
		return 0
	}

	return db.e.count()
}

func (db *DB) begin(ctx context.Context, readOnly bool) (*Tx, error) {
	if db.closed {
		return nil, ErrDatabaseClosed
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return &Tx{e: db.e, ctx: ctx, readOnly: readOnly}, nil
}

func (db *DB) View(ctx context.Context, cb func(tx scripts.Tx) error) error {
	db.mu.RLock()
	defer db.mu.RUnlock()

	tx, err := db.begin(ctx, true)
	if err != nil {
		return err
	}

	return cb(tx)
}

func (db *DB) Update(ctx context.Context, cb func(tx scripts.Tx) error) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	tx, err := db.begin(ctx, false)
	if err != nil {
		return err
	}

	if err := cb(tx); err != nil {
		tx.rollback()
		return errors.Wrap(err, "db write failed. rolled back")
	}

	tx.commit()
	return nil
}
