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

// Package dictionary contains the concrete dictionary objects: a Table and everything it owns.
//
// A Table owns five collections, and they are always visited in the same order: columns, indexes, foreign keys,
// partitions, triggers. Each collection may only hold references into collections that come before it, so
// restoring in this order lets every reference be resolved by id against objects which are already loaded, and
// storing in this order guarantees a referenced object has an id before anything that points at it is written.
// Drops run in the reverse order.
package dictionary

import (
	"context"
	"strings"

	"github.com/dolthub/dictionary/libraries/ddcore/collection"
	"github.com/dolthub/dictionary/libraries/ddcore/object"
	"github.com/dolthub/dictionary/libraries/ddcore/properties"
	"github.com/dolthub/dictionary/libraries/ddcore/systables"
	"github.com/dolthub/dictionary/store/rowstore"
)

// TableOptionKeys are the keys accepted in a table's options.
var TableOptionKeys = []string{
	"avg_row_length",
	"checksum",
	"compress",
	"connection_string",
	"delay_key_write",
	"encrypt_type",
	"key_block_size",
	"max_rows",
	"min_rows",
	"pack_keys",
	"row_type",
	"stats_auto_recalc",
	"stats_persistent",
	"stats_sample_pages",
	"tablespace",
}

// Table is the root of a dictionary object graph.
type Table struct {
	object.Entity
	d *systables.Descriptors

	schemaName          string
	engine              string
	collationID         uint64
	comment             string
	rowFormat           RowFormat
	hidden              bool
	partitionType       PartitionType
	partitionExpression string
	options             *properties.Properties
	sePrivateData       *properties.Properties
	sePrivateID         uint64

	columns     *collection.Collection[*Column]
	indexes     *collection.Collection[*Index]
	foreignKeys *collection.Collection[*ForeignKey]
	partitions  *collection.Collection[*Partition]
	triggers    *collection.Collection[*Trigger]
}

var _ object.Object = (*Table)(nil)

// NewTable returns a new, never stored table.
func NewTable(d *systables.Descriptors, schemaName, name string) *Table {
	t := newTable(d)
	t.schemaName = schemaName
	t.SetName(name)
	return t
}

func newTable(d *systables.Descriptors) *Table {
	return &Table{
		d:             d,
		engine:        "InnoDB",
		rowFormat:     RowFormatDynamic,
		options:       properties.NewWithKeys(TableOptionKeys...),
		sePrivateData: properties.New(),
		columns:       collection.New[*Column](),
		indexes:       collection.New[*Index](),
		foreignKeys:   collection.New[*ForeignKey](),
		partitions:    collection.New[*Partition](),
		triggers:      collection.New[*Trigger](),
	}
}

// RestoreTable loads the table with the given id and its whole object graph.
func RestoreTable(ctx context.Context, tx rowstore.Tx, d *systables.Descriptors, id object.ID) (*Table, error) {
	t := newTable(d)
	if err := object.Restore(ctx, tx, id, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *Table) Descriptors() *systables.Descriptors { return t.d }

func (t *Table) SchemaName() string           { return t.schemaName }
func (t *Table) SetSchemaName(name string)    { t.schemaName = name }
func (t *Table) Engine() string               { return t.engine }
func (t *Table) SetEngine(engine string)      { t.engine = engine }
func (t *Table) CollationID() uint64          { return t.collationID }
func (t *Table) SetCollationID(id uint64)     { t.collationID = id }
func (t *Table) Comment() string              { return t.comment }
func (t *Table) SetComment(comment string)    { t.comment = comment }
func (t *Table) RowFormat() RowFormat         { return t.rowFormat }
func (t *Table) SetRowFormat(f RowFormat)     { t.rowFormat = f }
func (t *Table) IsHidden() bool               { return t.hidden }
func (t *Table) SetHidden(hidden bool)        { t.hidden = hidden }
func (t *Table) SEPrivateID() uint64          { return t.sePrivateID }
func (t *Table) SetSEPrivateID(id uint64)     { t.sePrivateID = id }
func (t *Table) PartitionType() PartitionType { return t.partitionType }

// SetPartitioning sets the partitioning scheme. The expression is ignored for PartitionTypeNone.
func (t *Table) SetPartitioning(typ PartitionType, expression string) {
	t.partitionType = typ
	t.partitionExpression = expression
}

func (t *Table) PartitionExpression() string {
	return t.partitionExpression
}

// Options returns the table's options. Only TableOptionKeys may be set.
func (t *Table) Options() *properties.Properties {
	return t.options
}

// SEPrivateData returns the storage engine's private attributes of this table.
func (t *Table) SEPrivateData() *properties.Properties {
	return t.sePrivateData
}

func (t *Table) Columns() *collection.Collection[*Column]         { return t.columns }
func (t *Table) Indexes() *collection.Collection[*Index]          { return t.indexes }
func (t *Table) ForeignKeys() *collection.Collection[*ForeignKey] { return t.foreignKeys }
func (t *Table) Partitions() *collection.Collection[*Partition]   { return t.partitions }
func (t *Table) Triggers() *collection.Collection[*Trigger]       { return t.triggers }

// AddColumn appends a new column.
func (t *Table) AddColumn(name string, typ ColumnType) *Column {
	c := newColumn(t)
	c.SetName(name)
	c.typ = typ
	return t.columns.PushBack(c)
}

// AddIndex appends a new index. Elements are added to the returned index.
func (t *Table) AddIndex(name string, typ IndexType) *Index {
	idx := newIndex(t)
	idx.SetName(name)
	idx.typ = typ
	return t.indexes.PushBack(idx)
}

// AddForeignKey appends a new foreign key referencing the given table.
func (t *Table) AddForeignKey(name, referencedSchema, referencedTable string) *ForeignKey {
	fk := newForeignKey(t)
	fk.SetName(name)
	fk.referencedSchema = referencedSchema
	fk.referencedTable = referencedTable
	return t.foreignKeys.PushBack(fk)
}

// AddPartition appends a new partition.
func (t *Table) AddPartition(name string) *Partition {
	p := newPartition(t)
	p.SetName(name)
	p.engine = t.engine
	return t.partitions.PushBack(p)
}

// AddTrigger appends a new trigger. It fires after every existing trigger with the same timing and event.
func (t *Table) AddTrigger(name string, timing TriggerTiming, event TriggerEvent, statement string) *Trigger {
	var order uint64
	t.triggers.Iter(func(tr *Trigger) bool {
		if tr.timing == timing && tr.event == event && tr.actionOrder > order {
			order = tr.actionOrder
		}
		return false
	})

	tr := newTrigger(t)
	tr.SetName(name)
	tr.timing = timing
	tr.event = event
	tr.statement = statement
	tr.actionOrder = order + 1
	return t.triggers.PushBack(tr)
}

func (t *Table) DropColumn(c *Column)          { t.columns.Remove(c) }
func (t *Table) DropIndex(idx *Index)          { t.indexes.Remove(idx) }
func (t *Table) DropForeignKey(fk *ForeignKey) { t.foreignKeys.Remove(fk) }
func (t *Table) DropPartition(p *Partition)    { t.partitions.Remove(p) }
func (t *Table) DropTrigger(tr *Trigger)       { t.triggers.Remove(tr) }

// DropAllTriggers marks every trigger as removed so that the trigger list can be rebuilt.
func (t *Table) DropAllTriggers() {
	t.triggers.RemoveAll()
}

// ColumnByID returns the live column with the given id, or nil.
func (t *Table) ColumnByID(id object.ID) *Column {
	c, _ := t.columns.Find(func(c *Column) bool { return c.ID() == id })
	return c
}

// ColumnByName returns the live column with the given name, or nil. Column names are case-insensitive.
func (t *Table) ColumnByName(name string) *Column {
	c, _ := t.columns.Find(func(c *Column) bool { return strings.EqualFold(c.Name(), name) })
	return c
}

func (t *Table) IndexByID(id object.ID) *Index {
	idx, _ := t.indexes.Find(func(idx *Index) bool { return idx.ID() == id })
	return idx
}

func (t *Table) IndexByName(name string) *Index {
	idx, _ := t.indexes.Find(func(idx *Index) bool { return strings.EqualFold(idx.Name(), name) })
	return idx
}

func (t *Table) ForeignKeyByName(name string) *ForeignKey {
	fk, _ := t.foreignKeys.Find(func(fk *ForeignKey) bool { return strings.EqualFold(fk.Name(), name) })
	return fk
}

func (t *Table) PartitionByName(name string) *Partition {
	p, _ := t.partitions.Find(func(p *Partition) bool { return strings.EqualFold(p.Name(), name) })
	return p
}

func (t *Table) TriggerByName(name string) *Trigger {
	tr, _ := t.triggers.Find(func(tr *Trigger) bool { return tr.Name() == name })
	return tr
}

func (t *Table) ObjectType() string {
	return "table"
}

func (t *Table) ObjectTable() *rowstore.TableDef {
	return t.d.Tables
}

func (t *Table) Validate() error {
	if t.Name() == "" {
		return object.Invalid(t, "table name is empty")
	}
	if t.schemaName == "" {
		return object.Invalid(t, "no schema associated with table")
	}
	if t.columns.Size() == 0 {
		return object.Invalid(t, "no columns associated with table")
	}

	seen := make(map[string]struct{}, t.columns.Size())
	var dup string
	t.columns.Iter(func(c *Column) bool {
		key := strings.ToLower(c.Name())
		if _, ok := seen[key]; ok {
			dup = c.Name()
			return true
		}
		seen[key] = struct{}{}
		return false
	})
	if dup != "" {
		return object.Invalid(t, "duplicate column name '%s'", dup)
	}

	if t.partitionType == PartitionTypeNone && t.partitions.Size() > 0 {
		return object.Invalid(t, "table is not partitioned but has partitions")
	}
	return nil
}

// ValidateTree validates the table and every object it owns, parents before children. Running it before a store
// rejects an invalid graph before anything has been written.
func (t *Table) ValidateTree() error {
	objs := []object.Validator{t}
	t.Columns().Iter(func(c *Column) bool {
		objs = append(objs, c)
		for _, e := range c.Elements().Items() {
			objs = append(objs, e)
		}
		return false
	})
	t.Indexes().Iter(func(idx *Index) bool {
		objs = append(objs, idx)
		for _, e := range idx.Elements().Items() {
			objs = append(objs, e)
		}
		return false
	})
	t.ForeignKeys().Iter(func(fk *ForeignKey) bool {
		objs = append(objs, fk)
		for _, e := range fk.Elements().Items() {
			objs = append(objs, e)
		}
		return false
	})
	t.Partitions().Iter(func(p *Partition) bool {
		objs = append(objs, p)
		for _, pi := range p.Indexes().Items() {
			objs = append(objs, pi)
		}
		return false
	})
	t.Triggers().Iter(func(tr *Trigger) bool {
		objs = append(objs, tr)
		return false
	})

	for _, obj := range objs {
		if err := obj.Validate(); err != nil {
			return err
		}
	}
	return nil
}

func (t *Table) RestoreAttributes(rec *rowstore.Record) error {
	t.schemaName = rec.String(systables.TablesSchemaName)
	t.SetName(rec.String(systables.TablesName))
	t.engine = rec.String(systables.TablesEngine)
	t.collationID = rec.Uint(systables.TablesCollationID)
	t.comment = rec.String(systables.TablesComment)
	t.rowFormat = RowFormat(rec.Int(systables.TablesRowFormat))
	t.hidden = rec.Bool(systables.TablesHidden)
	t.partitionType = PartitionType(rec.Int(systables.TablesPartitionType))
	t.partitionExpression = ""
	if !rec.IsNull(systables.TablesPartitionExpression) {
		t.partitionExpression = rec.String(systables.TablesPartitionExpression)
	}
	t.sePrivateID = nullableUint(rec, systables.TablesSEPrivateID)

	var err error
	if t.options, err = object.ParseProperties(t, "options", rec.String(systables.TablesOptions), TableOptionKeys...); err != nil {
		return err
	}
	t.sePrivateData, err = object.ParseProperties(t, "se_private_data", rec.String(systables.TablesSEPrivateData))
	return err
}

func (t *Table) StoreAttributes(rec *rowstore.Record) error {
	rec.SetString(systables.TablesSchemaName, t.schemaName)
	rec.SetString(systables.TablesName, t.Name())
	rec.SetString(systables.TablesEngine, t.engine)
	rec.SetUint(systables.TablesCollationID, t.collationID)
	rec.SetString(systables.TablesComment, t.comment)
	rec.SetInt(systables.TablesRowFormat, int64(t.rowFormat))
	rec.SetBool(systables.TablesHidden, t.hidden)
	rec.SetInt(systables.TablesPartitionType, int64(t.partitionType))
	if t.partitionType == PartitionTypeNone {
		rec.SetNull(systables.TablesPartitionExpression)
	} else {
		rec.SetString(systables.TablesPartitionExpression, t.partitionExpression)
	}
	rec.SetString(systables.TablesOptions, t.options.RawString())
	rec.SetString(systables.TablesSEPrivateData, t.sePrivateData.RawString())
	setNullableUint(rec, systables.TablesSEPrivateID, t.sePrivateID)
	return nil
}

func (t *Table) childKey(field int) rowstore.Key {
	return rowstore.NewParentKey(field, uint64(t.ID()))
}

func (t *Table) RestoreChildren(ctx context.Context, tx rowstore.Tx) error {
	err := t.columns.RestoreItems(ctx, tx, t.d.Columns, t.childKey(systables.ColumnsTableID),
		func() *Column { return newColumn(t) }, byOrdinal[*Column])
	if err != nil {
		return err
	}

	err = t.indexes.RestoreItems(ctx, tx, t.d.Indexes, t.childKey(systables.IndexesTableID),
		func() *Index { return newIndex(t) }, byOrdinal[*Index])
	if err != nil {
		return err
	}

	err = t.foreignKeys.RestoreItems(ctx, tx, t.d.ForeignKeys, t.childKey(systables.ForeignKeysTableID),
		func() *ForeignKey { return newForeignKey(t) }, nil)
	if err != nil {
		return err
	}

	err = t.partitions.RestoreItems(ctx, tx, t.d.Partitions, t.childKey(systables.PartitionsTableID),
		func() *Partition { return newPartition(t) }, byOrdinal[*Partition])
	if err != nil {
		return err
	}

	return t.triggers.RestoreItems(ctx, tx, t.d.Triggers, t.childKey(systables.TriggersTableID),
		func() *Trigger { return newTrigger(t) }, triggerLess)
}

func (t *Table) StoreChildren(ctx context.Context, tx rowstore.Tx) error {
	if err := t.columns.StoreItems(ctx, tx); err != nil {
		return err
	}
	if err := t.indexes.StoreItems(ctx, tx); err != nil {
		return err
	}
	if err := t.foreignKeys.StoreItems(ctx, tx); err != nil {
		return err
	}
	if err := t.partitions.StoreItems(ctx, tx); err != nil {
		return err
	}
	return t.triggers.StoreItems(ctx, tx)
}

func (t *Table) DropChildren(ctx context.Context, tx rowstore.Tx) error {
	if err := t.triggers.DropItems(ctx, tx, t.d.Triggers, t.childKey(systables.TriggersTableID)); err != nil {
		return err
	}
	if err := t.partitions.DropItems(ctx, tx, t.d.Partitions, t.childKey(systables.PartitionsTableID)); err != nil {
		return err
	}
	if err := t.foreignKeys.DropItems(ctx, tx, t.d.ForeignKeys, t.childKey(systables.ForeignKeysTableID)); err != nil {
		return err
	}
	if err := t.indexes.DropItems(ctx, tx, t.d.Indexes, t.childKey(systables.IndexesTableID)); err != nil {
		return err
	}
	return t.columns.DropItems(ctx, tx, t.d.Columns, t.childKey(systables.ColumnsTableID))
}

// ownsColumn returns whether c is a live column of this table.
func (t *Table) ownsColumn(c *Column) bool {
	return c != nil && c.table == t && t.columns.Contains(c)
}

func (t *Table) ownsIndex(idx *Index) bool {
	return idx != nil && idx.table == t && t.indexes.Contains(idx)
}
