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
	"encoding/binary"
	"time"

	bolt "go.etcd.io/bbolt"
)

// BoltStore keeps every dictionary table in its own bucket of a bolt file. Row ids are the bucket sequence and
// keys are the big endian encoding of the id, so cursor order is row id order.
type BoltStore struct {
	db *bolt.DB
}

var _ Store = (*BoltStore)(nil)

// OpenBoltStore opens or creates the bolt file at path. If the file is locked by another process the open fails
// with bolt.ErrTimeout after timeout.
func OpenBoltStore(path string, timeout time.Duration) (*BoltStore, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: timeout})
	if err != nil {
		return nil, err
	}
	return &BoltStore{db: db}, nil
}

func (s *BoltStore) Init(_ context.Context, defs ...*TableDef) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		for _, def := range defs {
			if _, err := tx.CreateBucketIfNotExists([]byte(def.Name)); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *BoltStore) Begin(ctx context.Context, writable bool) (Tx, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	tx, err := s.db.Begin(writable)
	if err != nil {
		return nil, err
	}
	return &boltTx{tx: tx}, nil
}

func (s *BoltStore) Close() error {
	return s.db.Close()
}

// Path returns the location of the underlying file.
func (s *BoltStore) Path() string {
	return s.db.Path()
}

type boltTx struct {
	tx   *bolt.Tx
	done bool
}

func (tx *boltTx) Table(def *TableDef) (Table, error) {
	if tx.done {
		return nil, ErrTxDone.New()
	}
	b := tx.tx.Bucket([]byte(def.Name))
	if b == nil {
		return nil, ErrTableNotFound.New(def.Name)
	}
	return &boltTable{tx: tx, def: def, b: b}, nil
}

func (tx *boltTx) Writable() bool {
	return tx.tx.Writable()
}

func (tx *boltTx) Commit() error {
	if tx.done {
		return ErrTxDone.New()
	}
	tx.done = true
	if !tx.tx.Writable() {
		return tx.tx.Rollback()
	}
	return tx.tx.Commit()
}

func (tx *boltTx) Rollback() error {
	if tx.done {
		return nil
	}
	tx.done = true
	return tx.tx.Rollback()
}

type boltTable struct {
	tx  *boltTx
	def *TableDef
	b   *bolt.Bucket
}

func rowKey(id uint64) []byte {
	k := make([]byte, 8)
	binary.BigEndian.PutUint64(k, id)
	return k
}

func (bt *boltTable) Def() *TableDef {
	return bt.def
}

func (bt *boltTable) checkWritable() error {
	if bt.tx.done {
		return ErrTxDone.New()
	}
	if !bt.tx.tx.Writable() {
		return ErrReadOnlyTx.New(bt.def.Name)
	}
	return nil
}

func (bt *boltTable) put(id uint64, rec *Record) error {
	data, err := encodeRecord(rec)
	if err != nil {
		return err
	}
	return bt.b.Put(rowKey(id), data)
}

func (bt *boltTable) Insert(_ context.Context, rec *Record) (uint64, error) {
	if err := bt.checkWritable(); err != nil {
		return 0, err
	}
	if err := checkRecord(bt.def, rec); err != nil {
		return 0, err
	}

	id, err := bt.b.NextSequence()
	if err != nil {
		return 0, err
	}
	if err = bt.put(id, rec); err != nil {
		return 0, err
	}
	return id, nil
}

func (bt *boltTable) Update(_ context.Context, id uint64, rec *Record) error {
	if err := bt.checkWritable(); err != nil {
		return err
	}
	if err := checkRecord(bt.def, rec); err != nil {
		return err
	}
	if bt.b.Get(rowKey(id)) == nil {
		return ErrRowNotFound.New(id, bt.def.Name)
	}
	return bt.put(id, rec)
}

func (bt *boltTable) Get(_ context.Context, id uint64) (*Record, error) {
	if bt.tx.done {
		return nil, ErrTxDone.New()
	}
	data := bt.b.Get(rowKey(id))
	if data == nil {
		return nil, ErrRowNotFound.New(id, bt.def.Name)
	}
	return decodeRecord(bt.def, id, data)
}

func (bt *boltTable) Find(ctx context.Context, key Key) ([]*Record, error) {
	if bt.tx.done {
		return nil, ErrTxDone.New()
	}
	if err := key.validate(bt.def); err != nil {
		return nil, err
	}

	var recs []*Record
	err := bt.b.ForEach(func(k, v []byte) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		rec, err := decodeRecord(bt.def, binary.BigEndian.Uint64(k), v)
		if err != nil {
			return err
		}
		if key.Matches(rec) {
			recs = append(recs, rec)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return recs, nil
}

func (bt *boltTable) Delete(_ context.Context, id uint64) error {
	if err := bt.checkWritable(); err != nil {
		return err
	}
	k := rowKey(id)
	if bt.b.Get(k) == nil {
		return ErrRowNotFound.New(id, bt.def.Name)
	}
	return bt.b.Delete(k)
}

func (bt *boltTable) DeleteMatching(ctx context.Context, key Key) (int, error) {
	if err := bt.checkWritable(); err != nil {
		return 0, err
	}
	recs, err := bt.Find(ctx, key)
	if err != nil {
		return 0, err
	}
	for _, rec := range recs {
		if err = bt.b.Delete(rowKey(rec.ID())); err != nil {
			return 0, err
		}
	}
	return len(recs), nil
}
