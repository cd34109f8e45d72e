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

package rowstore

import (
	"context"
	"sync"

	"github.com/google/btree"
)

const memTreeDegree = 16

type memRow struct {
	id  uint64
	rec *Record
}

func lessMemRow(a, b memRow) bool {
	return a.id < b.id
}

type memTable struct {
	rows *btree.BTreeG[memRow]
	seq  uint64
}

func newMemTable() *memTable {
	return &memTable{rows: btree.NewG[memRow](memTreeDegree, lessMemRow)}
}

// MemStore is an in memory Store. Transactions work on copy-on-write clones of the committed trees, so a
// rolled back writer leaves no trace and readers never observe a partially applied write. Writers are serialized.
type MemStore struct {
	writeMu sync.Mutex

	mu     sync.Mutex
	tables map[string]*memTable
}

var _ Store = (*MemStore)(nil)

func NewMemStore() *MemStore {
	return &MemStore{tables: make(map[string]*memTable)}
}

func (s *MemStore) Init(_ context.Context, defs ...*TableDef) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, def := range defs {
		if _, ok := s.tables[def.Name]; !ok {
			s.tables[def.Name] = newMemTable()
		}
	}
	return nil
}

func (s *MemStore) snapshot() map[string]*memTable {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := make(map[string]*memTable, len(s.tables))
	for name, t := range s.tables {
		snap[name] = &memTable{rows: t.rows.Clone(), seq: t.seq}
	}
	return snap
}

func (s *MemStore) Begin(ctx context.Context, writable bool) (Tx, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if writable {
		s.writeMu.Lock()
	}
	return &memTx{store: s, tables: s.snapshot(), writable: writable}, nil
}

func (s *MemStore) Close() error {
	return nil
}

type memTx struct {
	store    *MemStore
	tables   map[string]*memTable
	writable bool
	done     bool
}

func (tx *memTx) Table(def *TableDef) (Table, error) {
	if tx.done {
		return nil, ErrTxDone.New()
	}
	t, ok := tx.tables[def.Name]
	if !ok {
		return nil, ErrTableNotFound.New(def.Name)
	}
	return &memTableTx{tx: tx, def: def, t: t}, nil
}

func (tx *memTx) Writable() bool {
	return tx.writable
}

func (tx *memTx) Commit() error {
	if tx.done {
		return ErrTxDone.New()
	}
	tx.done = true
	if !tx.writable {
		return nil
	}

	tx.store.mu.Lock()
	tx.store.tables = tx.tables
	tx.store.mu.Unlock()
	tx.store.writeMu.Unlock()
	return nil
}

func (tx *memTx) Rollback() error {
	if tx.done {
		return nil
	}
	tx.done = true
	if tx.writable {
		tx.store.writeMu.Unlock()
	}
	return nil
}

type memTableTx struct {
	tx  *memTx
	def *TableDef
	t   *memTable
}

func (mt *memTableTx) Def() *TableDef {
	return mt.def
}

func (mt *memTableTx) checkWritable() error {
	if mt.tx.done {
		return ErrTxDone.New()
	}
	if !mt.tx.writable {
		return ErrReadOnlyTx.New(mt.def.Name)
	}
	return nil
}

func (mt *memTableTx) Insert(_ context.Context, rec *Record) (uint64, error) {
	if err := mt.checkWritable(); err != nil {
		return 0, err
	}
	if err := checkRecord(mt.def, rec); err != nil {
		return 0, err
	}

	mt.t.seq++
	id := mt.t.seq
	mt.t.rows.ReplaceOrInsert(memRow{id: id, rec: rec.withID(id)})
	return id, nil
}

func (mt *memTableTx) Update(_ context.Context, id uint64, rec *Record) error {
	if err := mt.checkWritable(); err != nil {
		return err
	}
	if err := checkRecord(mt.def, rec); err != nil {
		return err
	}
	if _, ok := mt.t.rows.Get(memRow{id: id}); !ok {
		return ErrRowNotFound.New(id, mt.def.Name)
	}

	mt.t.rows.ReplaceOrInsert(memRow{id: id, rec: rec.withID(id)})
	return nil
}

func (mt *memTableTx) Get(_ context.Context, id uint64) (*Record, error) {
	if mt.tx.done {
		return nil, ErrTxDone.New()
	}
	row, ok := mt.t.rows.Get(memRow{id: id})
	if !ok {
		return nil, ErrRowNotFound.New(id, mt.def.Name)
	}
	return row.rec.Clone(), nil
}

func (mt *memTableTx) Find(_ context.Context, key Key) ([]*Record, error) {
	if mt.tx.done {
		return nil, ErrTxDone.New()
	}
	if err := key.validate(mt.def); err != nil {
		return nil, err
	}

	var recs []*Record
	mt.t.rows.Ascend(func(row memRow) bool {
		if key.Matches(row.rec) {
			recs = append(recs, row.rec.Clone())
		}
		return true
	})
	return recs, nil
}

func (mt *memTableTx) Delete(_ context.Context, id uint64) error {
	if err := mt.checkWritable(); err != nil {
		return err
	}
	if _, ok := mt.t.rows.Delete(memRow{id: id}); !ok {
		return ErrRowNotFound.New(id, mt.def.Name)
	}
	return nil
}

func (mt *memTableTx) DeleteMatching(_ context.Context, key Key) (int, error) {
	if err := mt.checkWritable(); err != nil {
		return 0, err
	}
	if err := key.validate(mt.def); err != nil {
		return 0, err
	}

	var ids []uint64
	mt.t.rows.Ascend(func(row memRow) bool {
		if key.Matches(row.rec) {
			ids = append(ids, row.id)
		}
		return true
	})
	for _, id := range ids {
		mt.t.rows.Delete(memRow{id: id})
	}
	return len(ids), nil
}
