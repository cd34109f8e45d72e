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

	"github.com/dolthub/dictionary/libraries/ddcore/collection"
	"github.com/dolthub/dictionary/libraries/ddcore/object"
	"github.com/dolthub/dictionary/libraries/ddcore/properties"
	"github.com/dolthub/dictionary/libraries/ddcore/systables"
	"github.com/dolthub/dictionary/store/rowstore"
)

// IndexOptionKeys are the keys accepted in an index's options.
var IndexOptionKeys = []string{
	"block_size",
	"flags",
	"parser_name",
}

// Index is an index of a Table. Its elements reference columns of the same table.
type Index struct {
	object.Entity
	object.Ordinal
	table *Table

	typ               IndexType
	algorithm         IndexAlgorithm
	algorithmExplicit bool
	visible           bool
	generated         bool
	hidden            bool
	comment           string
	engine            string
	options           *properties.Properties
	sePrivateData     *properties.Properties

	elements *collection.Collection[*IndexElement]
}

var _ object.Object = (*Index)(nil)

func newIndex(t *Table) *Index {
	return &Index{
		table:         t,
		typ:           IndexTypeMultiple,
		algorithm:     IndexAlgorithmBTree,
		visible:       true,
		engine:        t.engine,
		options:       properties.NewWithKeys(IndexOptionKeys...),
		sePrivateData: properties.New(),
		elements:      collection.New[*IndexElement](),
	}
}

func (idx *Index) Table() *Table { return idx.table }

func (idx *Index) Type() IndexType                       { return idx.typ }
func (idx *Index) SetType(typ IndexType)                 { idx.typ = typ }
func (idx *Index) Algorithm() IndexAlgorithm             { return idx.algorithm }
func (idx *Index) IsAlgorithmExplicit() bool             { return idx.algorithmExplicit }
func (idx *Index) IsVisible() bool                       { return idx.visible }
func (idx *Index) SetVisible(visible bool)               { idx.visible = visible }
func (idx *Index) IsGenerated() bool                     { return idx.generated }
func (idx *Index) SetGenerated(generated bool)           { idx.generated = generated }
func (idx *Index) IsHidden() bool                        { return idx.hidden }
func (idx *Index) SetHidden(hidden bool)                 { idx.hidden = hidden }
func (idx *Index) Comment() string                       { return idx.comment }
func (idx *Index) SetComment(comment string)             { idx.comment = comment }
func (idx *Index) Engine() string                        { return idx.engine }
func (idx *Index) SetEngine(engine string)               { idx.engine = engine }
func (idx *Index) Options() *properties.Properties       { return idx.options }
func (idx *Index) SEPrivateData() *properties.Properties { return idx.sePrivateData }

// SetAlgorithm sets the index algorithm. explicit records whether it was given by the user.
func (idx *Index) SetAlgorithm(algorithm IndexAlgorithm, explicit bool) {
	idx.algorithm = algorithm
	idx.algorithmExplicit = explicit
}

// IsUnique returns whether the index enforces uniqueness and so may back a foreign key.
func (idx *Index) IsUnique() bool {
	return idx.typ == IndexTypePrimary || idx.typ == IndexTypeUnique
}

func (idx *Index) Elements() *collection.Collection[*IndexElement] {
	return idx.elements
}

// AddElement appends an element on column c, which must be a column of the index's table.
func (idx *Index) AddElement(c *Column) *IndexElement {
	e := newIndexElement(idx)
	e.column = c
	return idx.elements.PushBack(e)
}

// Columns returns the columns of the index's elements in element order.
func (idx *Index) Columns() []*Column {
	cols := make([]*Column, 0, idx.elements.Size())
	idx.elements.Iter(func(e *IndexElement) bool {
		cols = append(cols, e.column)
		return false
	})
	return cols
}

func (idx *Index) ObjectType() string {
	return "index"
}

func (idx *Index) ObjectTable() *rowstore.TableDef {
	return idx.table.d.Indexes
}

func (idx *Index) Validate() error {
	if idx.table == nil {
		return object.Invalid(idx, "no table associated with index")
	}
	if idx.Name() == "" {
		return object.Invalid(idx, "index name is empty")
	}
	if idx.elements.Size() == 0 {
		return object.Invalid(idx, "no elements associated with index")
	}
	return nil
}

func (idx *Index) RestoreAttributes(rec *rowstore.Record) error {
	idx.SetName(rec.String(systables.IndexesName))
	if err := object.CheckParentConsistency(idx, idx.table, rec.Uint(systables.IndexesTableID)); err != nil {
		return err
	}

	idx.typ = IndexType(rec.Int(systables.IndexesType))
	idx.algorithm = IndexAlgorithm(rec.Int(systables.IndexesAlgorithm))
	idx.algorithmExplicit = rec.Bool(systables.IndexesIsAlgorithmExplicit)
	idx.visible = rec.Bool(systables.IndexesIsVisible)
	idx.generated = rec.Bool(systables.IndexesIsGenerated)
	idx.hidden = rec.Bool(systables.IndexesHidden)
	idx.SetOrdinalPosition(uint(rec.Uint(systables.IndexesOrdinalPosition)))
	idx.comment = rec.String(systables.IndexesComment)
	idx.engine = rec.String(systables.IndexesEngine)

	var err error
	if idx.options, err = object.ParseProperties(idx, "options", rec.String(systables.IndexesOptions), IndexOptionKeys...); err != nil {
		return err
	}
	idx.sePrivateData, err = object.ParseProperties(idx, "se_private_data", rec.String(systables.IndexesSEPrivateData))
	return err
}

func (idx *Index) StoreAttributes(rec *rowstore.Record) error {
	rec.SetUint(systables.IndexesTableID, uint64(idx.table.ID()))
	rec.SetString(systables.IndexesName, idx.Name())
	rec.SetInt(systables.IndexesType, int64(idx.typ))
	rec.SetInt(systables.IndexesAlgorithm, int64(idx.algorithm))
	rec.SetBool(systables.IndexesIsAlgorithmExplicit, idx.algorithmExplicit)
	rec.SetBool(systables.IndexesIsVisible, idx.visible)
	rec.SetBool(systables.IndexesIsGenerated, idx.generated)
	rec.SetBool(systables.IndexesHidden, idx.hidden)
	rec.SetUint(systables.IndexesOrdinalPosition, uint64(idx.OrdinalPosition()))
	rec.SetString(systables.IndexesComment, idx.comment)
	rec.SetString(systables.IndexesOptions, idx.options.RawString())
	rec.SetString(systables.IndexesSEPrivateData, idx.sePrivateData.RawString())
	rec.SetString(systables.IndexesEngine, idx.engine)
	return nil
}

func (idx *Index) elementKey() rowstore.Key {
	return rowstore.NewParentKey(systables.IndexColumnUsageIndexID, uint64(idx.ID()))
}

func (idx *Index) RestoreChildren(ctx context.Context, tx rowstore.Tx) error {
	return idx.elements.RestoreItems(ctx, tx, idx.table.d.IndexColumnUsage, idx.elementKey(),
		func() *IndexElement { return newIndexElement(idx) }, byOrdinal[*IndexElement])
}

func (idx *Index) StoreChildren(ctx context.Context, tx rowstore.Tx) error {
	return idx.elements.StoreItems(ctx, tx)
}

func (idx *Index) DropChildren(ctx context.Context, tx rowstore.Tx) error {
	return idx.elements.DropItems(ctx, tx, idx.table.d.IndexColumnUsage, idx.elementKey())
}

// IndexElement is one key part of an index.
type IndexElement struct {
	object.Entity
	object.Ordinal
	index  *Index
	column *Column

	length     uint64
	lengthNull bool
	order      IndexElementOrder
	hidden     bool
}

var _ object.Object = (*IndexElement)(nil)

func newIndexElement(idx *Index) *IndexElement {
	return &IndexElement{index: idx, lengthNull: true, order: OrderAsc}
}

func (e *IndexElement) Index() *Index   { return e.index }
func (e *IndexElement) Column() *Column { return e.column }

// Name returns the name of the indexed column.
func (e *IndexElement) Name() string {
	if e.column == nil {
		return ""
	}
	return e.column.Name()
}

// Length returns the prefix length of the key part. It is only meaningful when IsLengthNull is false.
func (e *IndexElement) Length() uint64 { return e.length }

func (e *IndexElement) SetLength(n uint64) {
	e.length = n
	e.lengthNull = false
}

func (e *IndexElement) IsLengthNull() bool               { return e.lengthNull }
func (e *IndexElement) Order() IndexElementOrder         { return e.order }
func (e *IndexElement) SetOrder(order IndexElementOrder) { e.order = order }
func (e *IndexElement) IsHidden() bool                   { return e.hidden }
func (e *IndexElement) SetHidden(hidden bool)            { e.hidden = hidden }

func (e *IndexElement) ObjectType() string {
	return "index element"
}

func (e *IndexElement) ObjectTable() *rowstore.TableDef {
	return e.index.table.d.IndexColumnUsage
}

func (e *IndexElement) Validate() error {
	if e.index == nil {
		return object.Invalid(e, "no index associated with index element")
	}
	if e.column == nil {
		return object.Invalid(e, "no column associated with element of index '%s'", e.index.Name())
	}
	if !e.index.table.ownsColumn(e.column) {
		return object.Invalid(e, "column is not a column of table '%s'", e.index.table.Name())
	}
	return nil
}

func (e *IndexElement) RestoreAttributes(rec *rowstore.Record) error {
	if err := object.CheckParentConsistency(e, e.index, rec.Uint(systables.IndexColumnUsageIndexID)); err != nil {
		return err
	}

	colID := object.ID(rec.Uint(systables.IndexColumnUsageColumnID))
	if e.column = e.index.table.ColumnByID(colID); e.column == nil {
		return object.ErrReferenceNotFound.New(e.index.ObjectType(), e.index.Name(), "column", colID)
	}

	e.SetOrdinalPosition(uint(rec.Uint(systables.IndexColumnUsageOrdinalPosition)))
	e.lengthNull = rec.IsNull(systables.IndexColumnUsageLength)
	if !e.lengthNull {
		e.length = rec.Uint(systables.IndexColumnUsageLength)
	}
	e.order = IndexElementOrder(rec.Int(systables.IndexColumnUsageOrder))
	e.hidden = rec.Bool(systables.IndexColumnUsageHidden)
	return nil
}

func (e *IndexElement) StoreAttributes(rec *rowstore.Record) error {
	if !e.column.ID().IsValid() {
		return object.Invalid(e, "column has not been stored")
	}

	rec.SetUint(systables.IndexColumnUsageIndexID, uint64(e.index.ID()))
	rec.SetUint(systables.IndexColumnUsageOrdinalPosition, uint64(e.OrdinalPosition()))
	rec.SetUint(systables.IndexColumnUsageColumnID, uint64(e.column.ID()))
	if e.lengthNull {
		rec.SetNull(systables.IndexColumnUsageLength)
	} else {
		rec.SetUint(systables.IndexColumnUsageLength, e.length)
	}
	rec.SetInt(systables.IndexColumnUsageOrder, int64(e.order))
	rec.SetBool(systables.IndexColumnUsageHidden, e.hidden)
	return nil
}

func (e *IndexElement) RestoreChildren(context.Context, rowstore.Tx) error { return nil }
func (e *IndexElement) StoreChildren(context.Context, rowstore.Tx) error   { return nil }
func (e *IndexElement) DropChildren(context.Context, rowstore.Tx) error    { return nil }
