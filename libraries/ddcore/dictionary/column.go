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

// ColumnOptionKeys are the keys accepted in a column's options.
var ColumnOptionKeys = []string{
	"column_format",
	"geom_type",
	"interval_count",
	"storage",
	"treat_bit_as_char",
	"is_array",
}

// Column is a column of a Table.
type Column struct {
	object.Entity
	object.Ordinal
	table *Table

	typ              ColumnType
	nullable         bool
	unsigned         bool
	autoIncrement    bool
	charLength       uint64
	numericPrecision uint64
	numericScale     uint64
	numericScaleNull bool
	collationID      uint64
	hasNoDefault     bool

	// default_value and default_value_utf8 distinguish "no default" (NULL) from "default is the empty string".
	defaultValue         []byte
	defaultValueNull     bool
	defaultValueUTF8     string
	defaultValueUTF8Null bool

	generationExpression string
	comment              string
	hidden               ColumnHidden
	options              *properties.Properties
	sePrivateData        *properties.Properties

	elements *collection.Collection[*ColumnTypeElement]
}

var _ object.Object = (*Column)(nil)

func newColumn(t *Table) *Column {
	return &Column{
		table:                t,
		nullable:             true,
		numericScaleNull:     true,
		defaultValueNull:     true,
		defaultValueUTF8Null: true,
		options:              properties.NewWithKeys(ColumnOptionKeys...),
		sePrivateData:        properties.New(),
		elements:             collection.New[*ColumnTypeElement](),
	}
}

// Table returns the table that owns this column.
func (c *Column) Table() *Table { return c.table }

func (c *Column) Type() ColumnType                 { return c.typ }
func (c *Column) SetType(typ ColumnType)           { c.typ = typ }
func (c *Column) IsNullable() bool                 { return c.nullable }
func (c *Column) SetNullable(nullable bool)        { c.nullable = nullable }
func (c *Column) IsUnsigned() bool                 { return c.unsigned }
func (c *Column) SetUnsigned(unsigned bool)        { c.unsigned = unsigned }
func (c *Column) IsAutoIncrement() bool            { return c.autoIncrement }
func (c *Column) SetAutoIncrement(ai bool)         { c.autoIncrement = ai }
func (c *Column) CharLength() uint64               { return c.charLength }
func (c *Column) SetCharLength(n uint64)           { c.charLength = n }
func (c *Column) NumericPrecision() uint64         { return c.numericPrecision }
func (c *Column) SetNumericPrecision(n uint64)     { c.numericPrecision = n }
func (c *Column) CollationID() uint64              { return c.collationID }
func (c *Column) SetCollationID(id uint64)         { c.collationID = id }
func (c *Column) HasNoDefault() bool               { return c.hasNoDefault }
func (c *Column) SetHasNoDefault(b bool)           { c.hasNoDefault = b }
func (c *Column) GenerationExpression() string     { return c.generationExpression }
func (c *Column) SetGenerationExpression(s string) { c.generationExpression = s }
func (c *Column) Comment() string                  { return c.comment }
func (c *Column) SetComment(comment string)        { c.comment = comment }
func (c *Column) Hidden() ColumnHidden             { return c.hidden }
func (c *Column) SetHidden(h ColumnHidden)         { c.hidden = h }
func (c *Column) IsHidden() bool                   { return c.hidden != HiddenVisible }

func (c *Column) NumericScale() uint64 { return c.numericScale }

func (c *Column) SetNumericScale(n uint64) {
	c.numericScale = n
	c.numericScaleNull = false
}

func (c *Column) IsNumericScaleNull() bool { return c.numericScaleNull }

func (c *Column) SetNumericScaleNull(null bool) { c.numericScaleNull = null }

// DefaultValue returns the binary default value. It is only meaningful when IsDefaultValueNull is false.
func (c *Column) DefaultValue() []byte { return c.defaultValue }

func (c *Column) SetDefaultValue(v []byte) {
	c.defaultValue = append([]byte(nil), v...)
	c.defaultValueNull = false
}

func (c *Column) IsDefaultValueNull() bool { return c.defaultValueNull }

func (c *Column) SetDefaultValueNull(null bool) { c.defaultValueNull = null }

// DefaultValueUTF8 returns the default value as it is shown to users.
func (c *Column) DefaultValueUTF8() string { return c.defaultValueUTF8 }

func (c *Column) SetDefaultValueUTF8(v string) {
	c.defaultValueUTF8 = v
	c.defaultValueUTF8Null = false
}

func (c *Column) IsDefaultValueUTF8Null() bool { return c.defaultValueUTF8Null }

func (c *Column) SetDefaultValueUTF8Null(null bool) { c.defaultValueUTF8Null = null }

func (c *Column) Options() *properties.Properties       { return c.options }
func (c *Column) SEPrivateData() *properties.Properties { return c.sePrivateData }

// Elements returns the ENUM or SET values of the column.
func (c *Column) Elements() *collection.Collection[*ColumnTypeElement] {
	return c.elements
}

// AddElement appends an ENUM or SET value.
func (c *Column) AddElement(name []byte) *ColumnTypeElement {
	e := newColumnTypeElement(c)
	e.name = append([]byte(nil), name...)
	return c.elements.PushBack(e)
}

func (c *Column) ObjectType() string {
	return "column"
}

func (c *Column) ObjectTable() *rowstore.TableDef {
	return c.table.d.Columns
}

func (c *Column) Validate() error {
	if c.table == nil {
		return object.Invalid(c, "no table associated with column")
	}
	if c.Name() == "" {
		return object.Invalid(c, "column name is empty")
	}
	if c.typ.HasElements() && c.elements.Size() == 0 {
		return object.Invalid(c, "%s column has no elements", c.typ)
	}
	if !c.typ.HasElements() && c.elements.Size() > 0 {
		return object.Invalid(c, "%s column may not have elements", c.typ)
	}
	return nil
}

func (c *Column) RestoreAttributes(rec *rowstore.Record) error {
	c.SetName(rec.String(systables.ColumnsName))
	if err := object.CheckParentConsistency(c, c.table, rec.Uint(systables.ColumnsTableID)); err != nil {
		return err
	}

	c.SetOrdinalPosition(uint(rec.Uint(systables.ColumnsOrdinalPosition)))
	c.typ = ColumnType(rec.Int(systables.ColumnsType))
	c.nullable = rec.Bool(systables.ColumnsIsNullable)
	c.unsigned = rec.Bool(systables.ColumnsIsUnsigned)
	c.autoIncrement = rec.Bool(systables.ColumnsIsAutoIncrement)
	c.charLength = rec.Uint(systables.ColumnsCharLength)
	c.numericPrecision = rec.Uint(systables.ColumnsNumericPrecision)
	c.numericScaleNull = rec.IsNull(systables.ColumnsNumericScale)
	if !c.numericScaleNull {
		c.numericScale = rec.Uint(systables.ColumnsNumericScale)
	}
	c.collationID = rec.Uint(systables.ColumnsCollationID)
	c.hasNoDefault = rec.Bool(systables.ColumnsHasNoDefault)

	c.defaultValueNull = rec.IsNull(systables.ColumnsDefaultValue)
	c.defaultValue = nil
	if !c.defaultValueNull {
		c.defaultValue = rec.Binary(systables.ColumnsDefaultValue)
	}
	c.defaultValueUTF8Null = rec.IsNull(systables.ColumnsDefaultValueUTF8)
	c.defaultValueUTF8 = ""
	if !c.defaultValueUTF8Null {
		c.defaultValueUTF8 = rec.String(systables.ColumnsDefaultValueUTF8)
	}

	c.generationExpression = rec.String(systables.ColumnsGenerationExpression)
	c.comment = rec.String(systables.ColumnsComment)
	c.hidden = ColumnHidden(rec.Int(systables.ColumnsHidden))

	var err error
	if c.options, err = object.ParseProperties(c, "options", rec.String(systables.ColumnsOptions), ColumnOptionKeys...); err != nil {
		return err
	}
	c.sePrivateData, err = object.ParseProperties(c, "se_private_data", rec.String(systables.ColumnsSEPrivateData))
	return err
}

func (c *Column) StoreAttributes(rec *rowstore.Record) error {
	rec.SetUint(systables.ColumnsTableID, uint64(c.table.ID()))
	rec.SetString(systables.ColumnsName, c.Name())
	rec.SetUint(systables.ColumnsOrdinalPosition, uint64(c.OrdinalPosition()))
	rec.SetInt(systables.ColumnsType, int64(c.typ))
	rec.SetBool(systables.ColumnsIsNullable, c.nullable)
	rec.SetBool(systables.ColumnsIsUnsigned, c.unsigned)
	rec.SetBool(systables.ColumnsIsAutoIncrement, c.autoIncrement)
	rec.SetUint(systables.ColumnsCharLength, c.charLength)
	rec.SetUint(systables.ColumnsNumericPrecision, c.numericPrecision)
	if c.numericScaleNull {
		rec.SetNull(systables.ColumnsNumericScale)
	} else {
		rec.SetUint(systables.ColumnsNumericScale, c.numericScale)
	}
	rec.SetUint(systables.ColumnsCollationID, c.collationID)
	rec.SetBool(systables.ColumnsHasNoDefault, c.hasNoDefault)
	if c.defaultValueNull {
		rec.SetNull(systables.ColumnsDefaultValue)
	} else {
		rec.SetBinary(systables.ColumnsDefaultValue, c.defaultValue)
	}
	if c.defaultValueUTF8Null {
		rec.SetNull(systables.ColumnsDefaultValueUTF8)
	} else {
		rec.SetString(systables.ColumnsDefaultValueUTF8, c.defaultValueUTF8)
	}
	rec.SetString(systables.ColumnsGenerationExpression, c.generationExpression)
	rec.SetString(systables.ColumnsComment, c.comment)
	rec.SetInt(systables.ColumnsHidden, int64(c.hidden))
	rec.SetString(systables.ColumnsOptions, c.options.RawString())
	rec.SetString(systables.ColumnsSEPrivateData, c.sePrivateData.RawString())
	return nil
}

func (c *Column) elementKey() rowstore.Key {
	return rowstore.NewParentKey(systables.ColumnTypeElementsColumnID, uint64(c.ID()))
}

func (c *Column) RestoreChildren(ctx context.Context, tx rowstore.Tx) error {
	return c.elements.RestoreItems(ctx, tx, c.table.d.ColumnTypeElements, c.elementKey(),
		func() *ColumnTypeElement { return newColumnTypeElement(c) }, byOrdinal[*ColumnTypeElement])
}

func (c *Column) StoreChildren(ctx context.Context, tx rowstore.Tx) error {
	return c.elements.StoreItems(ctx, tx)
}

func (c *Column) DropChildren(ctx context.Context, tx rowstore.Tx) error {
	return c.elements.DropItems(ctx, tx, c.table.d.ColumnTypeElements, c.elementKey())
}

// ColumnTypeElement is one value of an ENUM or SET column. Its ordinal position is the element index.
type ColumnTypeElement struct {
	object.Entity
	object.Ordinal
	column *Column
	name   []byte
}

var _ object.Object = (*ColumnTypeElement)(nil)

func newColumnTypeElement(c *Column) *ColumnTypeElement {
	return &ColumnTypeElement{column: c}
}

func (e *ColumnTypeElement) Column() *Column { return e.column }

// Name returns the element value. Values are stored as binary since they are in the column's character set.
func (e *ColumnTypeElement) Name() string { return string(e.name) }

func (e *ColumnTypeElement) Value() []byte { return e.name }

func (e *ColumnTypeElement) ObjectType() string {
	return "column type element"
}

func (e *ColumnTypeElement) ObjectTable() *rowstore.TableDef {
	return e.column.table.d.ColumnTypeElements
}

func (e *ColumnTypeElement) Validate() error {
	if e.column == nil {
		return object.Invalid(e, "no column associated with element")
	}
	return nil
}

func (e *ColumnTypeElement) RestoreAttributes(rec *rowstore.Record) error {
	e.name = rec.Binary(systables.ColumnTypeElementsName)
	if err := object.CheckParentConsistency(e, e.column, rec.Uint(systables.ColumnTypeElementsColumnID)); err != nil {
		return err
	}
	e.SetOrdinalPosition(uint(rec.Uint(systables.ColumnTypeElementsElementIndex)))
	return nil
}

func (e *ColumnTypeElement) StoreAttributes(rec *rowstore.Record) error {
	rec.SetUint(systables.ColumnTypeElementsColumnID, uint64(e.column.ID()))
	rec.SetUint(systables.ColumnTypeElementsElementIndex, uint64(e.OrdinalPosition()))
	rec.SetBinary(systables.ColumnTypeElementsName, e.name)
	return nil
}

func (e *ColumnTypeElement) RestoreChildren(context.Context, rowstore.Tx) error { return nil }
func (e *ColumnTypeElement) StoreChildren(context.Context, rowstore.Tx) error   { return nil }
func (e *ColumnTypeElement) DropChildren(context.Context, rowstore.Tx) error    { return nil }
