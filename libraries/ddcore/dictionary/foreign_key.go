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

package dictionary

import (
	"context"
	"strings"

	"github.com/dolthub/dictionary/libraries/ddcore/collection"
	"github.com/dolthub/dictionary/libraries/ddcore/object"
	"github.com/dolthub/dictionary/libraries/ddcore/systables"
	"github.com/dolthub/dictionary/store/rowstore"
)

// ForeignKey is a foreign key constraint of a Table.
//
// When the foreign key references its own table the unique constraint it relies on is an Index of that table and
// is held as a reference to it. Constraints of other tables are only known by name.
type ForeignKey struct {
	object.Entity
	object.Ordinal
	table *Table

	uniqueConstraint     *Index
	uniqueConstraintName string
	matchOption          ForeignKeyMatch
	updateRule           ForeignKeyRule
	deleteRule           ForeignKeyRule
	referencedSchema     string
	referencedTable      string

	elements *collection.Collection[*ForeignKeyElement]
}

var _ object.Object = (*ForeignKey)(nil)

func newForeignKey(t *Table) *ForeignKey {
	return &ForeignKey{
		table:       t,
		matchOption: MatchNone,
		updateRule:  RuleNoAction,
		deleteRule:  RuleNoAction,
		elements:    collection.New[*ForeignKeyElement](),
	}
}

func (fk *ForeignKey) Table() *Table                    { return fk.table }
func (fk *ForeignKey) MatchOption() ForeignKeyMatch     { return fk.matchOption }
func (fk *ForeignKey) SetMatchOption(m ForeignKeyMatch) { fk.matchOption = m }
func (fk *ForeignKey) UpdateRule() ForeignKeyRule       { return fk.updateRule }
func (fk *ForeignKey) SetUpdateRule(r ForeignKeyRule)   { fk.updateRule = r }
func (fk *ForeignKey) DeleteRule() ForeignKeyRule       { return fk.deleteRule }
func (fk *ForeignKey) SetDeleteRule(r ForeignKeyRule)   { fk.deleteRule = r }
func (fk *ForeignKey) ReferencedTableSchema() string    { return fk.referencedSchema }
func (fk *ForeignKey) ReferencedTableName() string      { return fk.referencedTable }

// ReferencesOwnTable returns whether the referenced table is the table that owns the foreign key.
func (fk *ForeignKey) ReferencesOwnTable() bool {
	return strings.EqualFold(fk.referencedSchema, fk.table.schemaName) && strings.EqualFold(fk.referencedTable, fk.table.Name())
}

// UniqueConstraint returns the index of the owning table backing this foreign key, or nil when the constraint
// belongs to another table.
func (fk *ForeignKey) UniqueConstraint() *Index {
	return fk.uniqueConstraint
}

// UniqueConstraintName returns the name of the referenced unique constraint.
func (fk *ForeignKey) UniqueConstraintName() string {
	if fk.uniqueConstraint != nil {
		return fk.uniqueConstraint.Name()
	}
	return fk.uniqueConstraintName
}

// SetUniqueConstraint makes idx, an index of the owning table, the constraint backing this foreign key.
func (fk *ForeignKey) SetUniqueConstraint(idx *Index) {
	fk.uniqueConstraint = idx
	fk.uniqueConstraintName = idx.Name()
}

// SetUniqueConstraintName names a constraint of another table.
func (fk *ForeignKey) SetUniqueConstraintName(name string) {
	fk.uniqueConstraint = nil
	fk.uniqueConstraintName = name
}

func (fk *ForeignKey) Elements() *collection.Collection[*ForeignKeyElement] {
	return fk.elements
}

// AddElement appends a key part pairing column c of the owning table with a column of the referenced table.
func (fk *ForeignKey) AddElement(c *Column, referencedColumn string) *ForeignKeyElement {
	e := newForeignKeyElement(fk)
	e.column = c
	e.referencedColumn = referencedColumn
	return fk.elements.PushBack(e)
}

func (fk *ForeignKey) ObjectType() string {
	return "foreign key"
}

func (fk *ForeignKey) ObjectTable() *rowstore.TableDef {
	return fk.table.d.ForeignKeys
}

func (fk *ForeignKey) Validate() error {
	if fk.table == nil {
		return object.Invalid(fk, "no table associated with foreign key")
	}
	if fk.Name() == "" {
		return object.Invalid(fk, "foreign key name is empty")
	}
	if fk.referencedTable == "" {
		return object.Invalid(fk, "no referenced table")
	}
	if fk.elements.Size() == 0 {
		return object.Invalid(fk, "no elements associated with foreign key")
	}

	if fk.uniqueConstraint != nil {
		if !fk.table.ownsIndex(fk.uniqueConstraint) {
			return object.Invalid(fk, "unique constraint '%s' is not an index of table '%s'", fk.uniqueConstraint.Name(), fk.table.Name())
		}
		if !fk.uniqueConstraint.IsUnique() {
			return object.Invalid(fk, "index '%s' is not a unique constraint", fk.uniqueConstraint.Name())
		}
	} else if fk.ReferencesOwnTable() {
		return object.Invalid(fk, "no unique constraint associated with self-referencing foreign key")
	} else if fk.uniqueConstraintName == "" {
		return object.Invalid(fk, "no unique constraint associated with foreign key")
	}
	return nil
}

func (fk *ForeignKey) RestoreAttributes(rec *rowstore.Record) error {
	fk.SetName(rec.String(systables.ForeignKeysName))
	if err := object.CheckParentConsistency(fk, fk.table, rec.Uint(systables.ForeignKeysTableID)); err != nil {
		return err
	}

	fk.uniqueConstraintName = rec.String(systables.ForeignKeysUniqueConstraintName)
	fk.uniqueConstraint = nil
	if !rec.IsNull(systables.ForeignKeysUniqueConstraintID) {
		idxID := object.ID(rec.Uint(systables.ForeignKeysUniqueConstraintID))
		if fk.uniqueConstraint = fk.table.IndexByID(idxID); fk.uniqueConstraint == nil {
			return object.ErrReferenceNotFound.New(fk.ObjectType(), fk.Name(), "index", idxID)
		}
	}

	fk.matchOption = ForeignKeyMatch(rec.Int(systables.ForeignKeysMatchOption))
	fk.updateRule = ForeignKeyRule(rec.Int(systables.ForeignKeysUpdateRule))
	fk.deleteRule = ForeignKeyRule(rec.Int(systables.ForeignKeysDeleteRule))
	fk.referencedSchema = rec.String(systables.ForeignKeysReferencedTableSchema)
	fk.referencedTable = rec.String(systables.ForeignKeysReferencedTableName)
	return nil
}

func (fk *ForeignKey) StoreAttributes(rec *rowstore.Record) error {
	rec.SetUint(systables.ForeignKeysTableID, uint64(fk.table.ID()))
	rec.SetString(systables.ForeignKeysName, fk.Name())
	if fk.uniqueConstraint != nil {
		if !fk.uniqueConstraint.ID().IsValid() {
			return object.Invalid(fk, "unique constraint '%s' has not been stored", fk.uniqueConstraint.Name())
		}
		rec.SetUint(systables.ForeignKeysUniqueConstraintID, uint64(fk.uniqueConstraint.ID()))
	} else {
		rec.SetNull(systables.ForeignKeysUniqueConstraintID)
	}
	rec.SetString(systables.ForeignKeysUniqueConstraintName, fk.UniqueConstraintName())
	rec.SetInt(systables.ForeignKeysMatchOption, int64(fk.matchOption))
	rec.SetInt(systables.ForeignKeysUpdateRule, int64(fk.updateRule))
	rec.SetInt(systables.ForeignKeysDeleteRule, int64(fk.deleteRule))
	rec.SetString(systables.ForeignKeysReferencedTableSchema, fk.referencedSchema)
	rec.SetString(systables.ForeignKeysReferencedTableName, fk.referencedTable)
	return nil
}

func (fk *ForeignKey) elementKey() rowstore.Key {
	return rowstore.NewParentKey(systables.ForeignKeyColumnUsageForeignKeyID, uint64(fk.ID()))
}

func (fk *ForeignKey) RestoreChildren(ctx context.Context, tx rowstore.Tx) error {
	return fk.elements.RestoreItems(ctx, tx, fk.table.d.ForeignKeyColumnUsage, fk.elementKey(),
		func() *ForeignKeyElement { return newForeignKeyElement(fk) }, byOrdinal[*ForeignKeyElement])
}

func (fk *ForeignKey) StoreChildren(ctx context.Context, tx rowstore.Tx) error {
	return fk.elements.StoreItems(ctx, tx)
}

func (fk *ForeignKey) DropChildren(ctx context.Context, tx rowstore.Tx) error {
	return fk.elements.DropItems(ctx, tx, fk.table.d.ForeignKeyColumnUsage, fk.elementKey())
}

// ForeignKeyElement is one key part of a foreign key.
type ForeignKeyElement struct {
	object.Entity
	object.Ordinal
	foreignKey       *ForeignKey
	column           *Column
	referencedColumn string
}

var _ object.Object = (*ForeignKeyElement)(nil)

func newForeignKeyElement(fk *ForeignKey) *ForeignKeyElement {
	return &ForeignKeyElement{foreignKey: fk}
}

func (e *ForeignKeyElement) ForeignKey() *ForeignKey      { return e.foreignKey }
func (e *ForeignKeyElement) Column() *Column              { return e.column }
func (e *ForeignKeyElement) ReferencedColumnName() string { return e.referencedColumn }

// Name returns the name of the referencing column.
func (e *ForeignKeyElement) Name() string {
	if e.column == nil {
		return ""
	}
	return e.column.Name()
}

func (e *ForeignKeyElement) ObjectType() string {
	return "foreign key element"
}

func (e *ForeignKeyElement) ObjectTable() *rowstore.TableDef {
	return e.foreignKey.table.d.ForeignKeyColumnUsage
}

func (e *ForeignKeyElement) Validate() error {
	if e.foreignKey == nil {
		return object.Invalid(e, "no foreign key associated with element")
	}
	if !e.foreignKey.table.ownsColumn(e.column) {
		return object.Invalid(e, "element of foreign key '%s' does not reference a column of table '%s'", e.foreignKey.Name(), e.foreignKey.table.Name())
	}
	if e.referencedColumn == "" {
		return object.Invalid(e, "no referenced column")
	}
	return nil
}

func (e *ForeignKeyElement) RestoreAttributes(rec *rowstore.Record) error {
	if err := object.CheckParentConsistency(e, e.foreignKey, rec.Uint(systables.ForeignKeyColumnUsageForeignKeyID)); err != nil {
		return err
	}

	colID := object.ID(rec.Uint(systables.ForeignKeyColumnUsageColumnID))
	if e.column = e.foreignKey.table.ColumnByID(colID); e.column == nil {
		return object.ErrReferenceNotFound.New(e.foreignKey.ObjectType(), e.foreignKey.Name(), "column", colID)
	}
	e.SetOrdinalPosition(uint(rec.Uint(systables.ForeignKeyColumnUsageOrdinalPosition)))
	e.referencedColumn = rec.String(systables.ForeignKeyColumnUsageReferencedColumnName)
	return nil
}

func (e *ForeignKeyElement) StoreAttributes(rec *rowstore.Record) error {
	if !e.column.ID().IsValid() {
		return object.Invalid(e, "column '%s' has not been stored", e.column.Name())
	}
	rec.SetUint(systables.ForeignKeyColumnUsageForeignKeyID, uint64(e.foreignKey.ID()))
	rec.SetUint(systables.ForeignKeyColumnUsageOrdinalPosition, uint64(e.OrdinalPosition()))
	rec.SetUint(systables.ForeignKeyColumnUsageColumnID, uint64(e.column.ID()))
	rec.SetString(systables.ForeignKeyColumnUsageReferencedColumnName, e.referencedColumn)
	return nil
}

func (e *ForeignKeyElement) RestoreChildren(context.Context, rowstore.Tx) error { return nil }
func (e *ForeignKeyElement) StoreChildren(context.Context, rowstore.Tx) error   { return nil }
func (e *ForeignKeyElement) DropChildren(context.Context, rowstore.Tx) error    { return nil }
