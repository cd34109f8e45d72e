// Copyright 2026 Dolthub, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package rowstore is the backing store for dictionary objects: a small set of named tables holding typed rows,
// read and written inside transactions. Implementations exist for memory, bolt and MySQL.
package rowstore

import (
	"context"

	"gopkg.in/src-d/go-errors.v1"
)

var (
	ErrRowNotFound    = errors.NewKind("row %d not found in %s")
	ErrTableNotFound  = errors.NewKind("dictionary table %s does not exist")
	ErrReadOnlyTx     = errors.NewKind("cannot modify %s in a read only transaction")
	ErrTxDone         = errors.NewKind("transaction has already been committed or rolled back")
	ErrRecordShape    = errors.NewKind("row of %s with id %d has %d fields, table has %d")
	ErrWrongTable     = errors.NewKind("record of table %s written to table %s")
	ErrUnknownBackend = errors.NewKind("unknown store backend %q")
	ErrBadKey         = errors.NewKind("invalid search key on %s: %s")
)

// Store is a transactional container of dictionary tables.
type Store interface {
	// Init makes sure every given table exists.
	Init(ctx context.Context, defs ...*TableDef) error
	// Begin starts a transaction. Any number of read transactions may run concurrently with each other.
	Begin(ctx context.Context, writable bool) (Tx, error)
	Close() error
}

// Tx is a store transaction, the unit of atomicity for one restore, store or drop of an object graph.
type Tx interface {
	Table(def *TableDef) (Table, error)
	Writable() bool
	Commit() error
	Rollback() error
}

// Table gives access to the rows of one dictionary table inside a transaction.
type Table interface {
	Def() *TableDef
	// Insert stores a new row and returns its assigned id.
	Insert(ctx context.Context, rec *Record) (uint64, error)
	// Update replaces the row with the given id.
	Update(ctx context.Context, id uint64, rec *Record) error
	// Get returns the row with the given id or an ErrRowNotFound error.
	Get(ctx context.Context, id uint64) (*Record, error)
	// Find returns every row matching key in row id order.
	Find(ctx context.Context, key Key) ([]*Record, error)
	// Delete removes the row with the given id or returns an ErrRowNotFound error.
	Delete(ctx context.Context, id uint64) error
	// DeleteMatching removes every row matching key and returns how many were removed.
	DeleteMatching(ctx context.Context, key Key) (int, error)
}

// View runs fn in a read only transaction.
func View(ctx context.Context, s Store, fn func(tx Tx) error) error {
	tx, err := s.Begin(ctx, false)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	return fn(tx)
}

// Update runs fn in a writable transaction, committing if fn succeeds and rolling back otherwise. Callbacks
// registered on the transaction with OnCommit and OnRollback run once its outcome is known.
func Update(ctx context.Context, s Store, fn func(tx Tx) error) (err error) {
	tx, err := s.Begin(ctx, true)
	if err != nil {
		return err
	}

	htx := &hookedTx{Tx: tx}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
			for i := len(htx.onRollback) - 1; i >= 0; i-- {
				htx.onRollback[i]()
			}
			return
		}
		for _, hook := range htx.onCommit {
			hook()
		}
	}()

	if err = fn(htx); err != nil {
		return err
	}
	return tx.Commit()
}

// hookedTx is the transaction handed to the function run by Update.
type hookedTx struct {
	Tx
	onCommit   []func()
	onRollback []func()
}

// OnCommit registers fn to run after tx has committed. For a transaction not started by Update the outcome is
// unknown, and fn runs immediately.
func OnCommit(tx Tx, fn func()) {
	if htx, ok := tx.(*hookedTx); ok {
		htx.onCommit = append(htx.onCommit, fn)
		return
	}
	fn()
}

// OnRollback registers fn to undo in-memory changes made during tx if it is rolled back. Callbacks run in reverse
// registration order. For a transaction not started by Update, fn is never called.
func OnRollback(tx Tx, fn func()) {
	if htx, ok := tx.(*hookedTx); ok {
		htx.onRollback = append(htx.onRollback, fn)
	}
}

func checkRecord(def *TableDef, rec *Record) error {
	if rec.def != def && rec.def.Name != def.Name {
		return ErrWrongTable.New(rec.def.Name, def.Name)
	}
	return nil
}
