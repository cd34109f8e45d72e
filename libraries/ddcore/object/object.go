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

// Package object defines the lifecycle every dictionary object goes through: it is constructed fresh or restored
// from a backing row, has its children restored, is validated, and is stored or dropped again.
//
// The phases are small interfaces rather than one base type. A type that owns child collections implements
// RestoreChildren, StoreChildren and DropChildren by visiting those collections in one fixed order, chosen so that
// a collection is always restored before any collection whose items reference it.
package object

import (
	"context"

	"github.com/dolthub/dictionary/store/rowstore"
)

// ID is the identity of a dictionary object, assigned by the backing store the first time the object is stored.
type ID uint64

// InvalidObjectID is the id of an object that has never been stored.
const InvalidObjectID ID = 0

func (id ID) IsValid() bool {
	return id != InvalidObjectID
}

type Identifiable interface {
	ID() ID
	SetID(id ID)
	Name() string
}

// Orderable objects have a 1-based position within the collection that owns them.
type Orderable interface {
	OrdinalPosition() uint
	SetOrdinalPosition(pos uint)
}

// Hideable objects may be skipped by visible-only iteration.
type Hideable interface {
	IsHidden() bool
}

type Validator interface {
	// Validate checks the invariants that must hold before the object may be stored.
	Validate() error
}

type Restorer interface {
	// RestoreAttributes populates the object's own fields from one backing row.
	RestoreAttributes(rec *rowstore.Record) error
	// RestoreChildren loads the object's child collections.
	RestoreChildren(ctx context.Context, tx rowstore.Tx) error
}

type Storer interface {
	// StoreAttributes writes the object's own fields into rec.
	StoreAttributes(rec *rowstore.Record) error
	// StoreChildren persists the object's child collections. It runs after the object itself has been stored, so
	// the object's ID is valid.
	StoreChildren(ctx context.Context, tx rowstore.Tx) error
}

type Dropper interface {
	// DropChildren deletes the rows of the object's child collections.
	DropChildren(ctx context.Context, tx rowstore.Tx) error
}

// Object is the full lifecycle contract of a dictionary object.
type Object interface {
	Identifiable
	Validator
	Restorer
	Storer
	Dropper
	// ObjectType is a short type name used in errors and serialized documents.
	ObjectType() string
	// ObjectTable describes the table the object is stored in.
	ObjectTable() *rowstore.TableDef
}

// Store validates obj and writes it, inserting it when it has never been stored and updating it otherwise, then
// stores its children. An id assigned by the insert is taken back if tx is rolled back.
func Store(ctx context.Context, tx rowstore.Tx, obj Object) error {
	if err := obj.Validate(); err != nil {
		return err
	}

	tbl, err := tx.Table(obj.ObjectTable())
	if err != nil {
		return err
	}

	rec := tbl.Def().NewRecord()
	if err = obj.StoreAttributes(rec); err != nil {
		return err
	}

	if obj.ID().IsValid() {
		err = tbl.Update(ctx, uint64(obj.ID()), rec)
	} else {
		var id uint64
		id, err = tbl.Insert(ctx, rec)
		if err == nil {
			obj.SetID(ID(id))
			rowstore.OnRollback(tx, func() { obj.SetID(InvalidObjectID) })
		}
	}
	if err != nil {
		return err
	}

	return obj.StoreChildren(ctx, tx)
}

// Drop deletes obj's children and then obj itself. Objects which were never stored have nothing to drop.
func Drop(ctx context.Context, tx rowstore.Tx, obj Object) error {
	if !obj.ID().IsValid() {
		return nil
	}
	if err := obj.DropChildren(ctx, tx); err != nil {
		return err
	}

	tbl, err := tx.Table(obj.ObjectTable())
	if err != nil {
		return err
	}
	return tbl.Delete(ctx, uint64(obj.ID()))
}

// Restore loads the object with the given id into obj: attributes, then children, then validation.
func Restore(ctx context.Context, tx rowstore.Tx, id ID, obj Object) error {
	tbl, err := tx.Table(obj.ObjectTable())
	if err != nil {
		return err
	}

	rec, err := tbl.Get(ctx, uint64(id))
	if err != nil {
		if rowstore.ErrRowNotFound.Is(err) {
			return ErrObjectNotFound.New(obj.ObjectType(), id)
		}
		return err
	}

	return RestoreFromRecord(ctx, tx, rec, obj)
}

// RestoreFromRecord runs the restore phases for an already fetched row.
func RestoreFromRecord(ctx context.Context, tx rowstore.Tx, rec *rowstore.Record, obj Object) error {
	obj.SetID(ID(rec.ID()))
	if err := obj.RestoreAttributes(rec); err != nil {
		return err
	}
	if err := obj.RestoreChildren(ctx, tx); err != nil {
		return err
	}
	return obj.Validate()
}
