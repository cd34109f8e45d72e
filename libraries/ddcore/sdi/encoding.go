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

package sdi

import (
	"sort"
	"time"

	"github.com/dolthub/dictionary/libraries/ddcore/dictionary"
	"github.com/dolthub/dictionary/libraries/ddcore/properties"
	"github.com/dolthub/dictionary/libraries/ddcore/systables"
)

// The encoded types mirror the dictionary tables field for field. Fields may only be appended, and any change to
// them is a change of SDIVersion. References between objects are written as 0-based positions ("opx") in the
// owning table's collections, since object ids are not portable between dictionaries.

type encodedColumnElement struct {
	Name  []byte `json:"name"`
	Index uint   `json:"index"`
}

type encodedColumn struct {
	Name                 string                 `json:"name"`
	Type                 int64                  `json:"type"`
	IsNullable           bool                   `json:"is_nullable"`
	IsUnsigned           bool                   `json:"is_unsigned"`
	IsAutoIncrement      bool                   `json:"is_auto_increment"`
	OrdinalPosition      uint                   `json:"ordinal_position"`
	CharLength           uint64                 `json:"char_length"`
	NumericPrecision     uint64                 `json:"numeric_precision"`
	NumericScale         *uint64                `json:"numeric_scale"`
	CollationID          uint64                 `json:"collation_id"`
	HasNoDefault         bool                   `json:"has_no_default"`
	DefaultValueNull     bool                   `json:"default_value_null"`
	DefaultValue         []byte                 `json:"default_value"`
	DefaultValueUTF8Null bool                   `json:"default_value_utf8_null"`
	DefaultValueUTF8     string                 `json:"default_value_utf8"`
	GenerationExpression string                 `json:"generation_expression"`
	Comment              string                 `json:"comment"`
	Hidden               int64                  `json:"hidden"`
	Options              map[string]string      `json:"options"`
	SEPrivateData        map[string]string      `json:"se_private_data"`
	Elements             []encodedColumnElement `json:"elements"`
}

type encodedIndexElement struct {
	OrdinalPosition uint    `json:"ordinal_position"`
	Length          *uint64 `json:"length"`
	Order           int64   `json:"order"`
	Hidden          bool    `json:"hidden"`
	ColumnOpx       int     `json:"column_opx"`
}

type encodedIndex struct {
	Name                string                `json:"name"`
	Type                int64                 `json:"type"`
	Algorithm           int64                 `json:"algorithm"`
	IsAlgorithmExplicit bool                  `json:"is_algorithm_explicit"`
	IsVisible           bool                  `json:"is_visible"`
	IsGenerated         bool                  `json:"is_generated"`
	Hidden              bool                  `json:"hidden"`
	OrdinalPosition     uint                  `json:"ordinal_position"`
	Comment             string                `json:"comment"`
	Options             map[string]string     `json:"options"`
	SEPrivateData       map[string]string     `json:"se_private_data"`
	Engine              string                `json:"engine"`
	Elements            []encodedIndexElement `json:"elements"`
}

type encodedForeignKeyElement struct {
	ColumnOpx            int    `json:"column_opx"`
	OrdinalPosition      uint   `json:"ordinal_position"`
	ReferencedColumnName string `json:"referenced_column_name"`
}

type encodedForeignKey struct {
	Name                      string                     `json:"name"`
	MatchOption               int64                      `json:"match_option"`
	UpdateRule                int64                      `json:"update_rule"`
	DeleteRule                int64                      `json:"delete_rule"`
	UniqueConstraintName      string                     `json:"unique_constraint_name"`
	UniqueConstraintOpx       *int                       `json:"unique_constraint_opx"`
	ReferencedTableSchemaName string                     `json:"referenced_table_schema_name"`
	ReferencedTableName       string                     `json:"referenced_table_name"`
	Elements                  []encodedForeignKeyElement `json:"elements"`
}

type encodedPartitionIndex struct {
	IndexOpx      int               `json:"index_opx"`
	Options       map[string]string `json:"options"`
	SEPrivateData map[string]string `json:"se_private_data"`
}

type encodedPartition struct {
	Name          string                  `json:"name"`
	Number        uint                    `json:"number"`
	Engine        string                  `json:"engine"`
	Description   *string                 `json:"description_utf8"`
	Comment       string                  `json:"comment"`
	Options       map[string]string       `json:"options"`
	SEPrivateData map[string]string       `json:"se_private_data"`
	SEPrivateID   uint64                  `json:"se_private_id"`
	Indexes       []encodedPartitionIndex `json:"indexes"`
}

type encodedTrigger struct {
	Name            string `json:"name"`
	EventType       int64  `json:"event_type"`
	ActionTiming    int64  `json:"action_timing"`
	ActionOrder     uint64 `json:"action_order"`
	ActionStatement string `json:"action_statement"`
	Definer         string `json:"definer"`
	SQLMode         uint64 `json:"sql_mode"`
	Created         int64  `json:"created"`
	LastAltered     int64  `json:"last_altered"`
}

type encodedTable struct {
	Name                string              `json:"name"`
	SchemaName          string              `json:"schema_ref"`
	Engine              string              `json:"engine"`
	CollationID         uint64              `json:"collation_id"`
	Comment             string              `json:"comment"`
	RowFormat           int64               `json:"row_format"`
	Hidden              bool                `json:"hidden"`
	PartitionType       int64               `json:"partition_type"`
	PartitionExpression string              `json:"partition_expression"`
	Options             map[string]string   `json:"options"`
	SEPrivateData       map[string]string   `json:"se_private_data"`
	SEPrivateID         uint64              `json:"se_private_id"`
	Columns             []encodedColumn     `json:"columns"`
	Indexes             []encodedIndex      `json:"indexes"`
	ForeignKeys         []encodedForeignKey `json:"foreign_keys"`
	Partitions          []encodedPartition  `json:"partitions"`
	Triggers            []encodedTrigger    `json:"triggers"`
}

func encodeTable(tbl *dictionary.Table) encodedTable {
	et := encodedTable{
		Name:                tbl.Name(),
		SchemaName:          tbl.SchemaName(),
		Engine:              tbl.Engine(),
		CollationID:         tbl.CollationID(),
		Comment:             tbl.Comment(),
		RowFormat:           int64(tbl.RowFormat()),
		Hidden:              tbl.IsHidden(),
		PartitionType:       int64(tbl.PartitionType()),
		PartitionExpression: tbl.PartitionExpression(),
		Options:             tbl.Options().Map(),
		SEPrivateData:       tbl.SEPrivateData().Map(),
		SEPrivateID:         tbl.SEPrivateID(),
	}

	tbl.Columns().Iter(func(c *dictionary.Column) bool {
		et.Columns = append(et.Columns, encodeColumn(c))
		return false
	})
	tbl.Indexes().Iter(func(idx *dictionary.Index) bool {
		et.Indexes = append(et.Indexes, encodeIndex(tbl, idx))
		return false
	})
	tbl.ForeignKeys().Iter(func(fk *dictionary.ForeignKey) bool {
		et.ForeignKeys = append(et.ForeignKeys, encodeForeignKey(tbl, fk))
		return false
	})
	tbl.Partitions().Iter(func(p *dictionary.Partition) bool {
		et.Partitions = append(et.Partitions, encodePartition(tbl, p))
		return false
	})
	tbl.Triggers().Iter(func(tr *dictionary.Trigger) bool {
		et.Triggers = append(et.Triggers, encodedTrigger{
			Name:            tr.Name(),
			EventType:       int64(tr.Event()),
			ActionTiming:    int64(tr.Timing()),
			ActionOrder:     tr.ActionOrder(),
			ActionStatement: tr.Statement(),
			Definer:         tr.Definer(),
			SQLMode:         tr.SQLMode(),
			Created:         tr.Created().UnixMicro(),
			LastAltered:     tr.LastAltered().UnixMicro(),
		})
		return false
	})
	return et
}

func encodeColumn(c *dictionary.Column) encodedColumn {
	ec := encodedColumn{
		Name:                 c.Name(),
		Type:                 int64(c.Type()),
		IsNullable:           c.IsNullable(),
		IsUnsigned:           c.IsUnsigned(),
		IsAutoIncrement:      c.IsAutoIncrement(),
		OrdinalPosition:      c.OrdinalPosition(),
		CharLength:           c.CharLength(),
		NumericPrecision:     c.NumericPrecision(),
		CollationID:          c.CollationID(),
		HasNoDefault:         c.HasNoDefault(),
		DefaultValueNull:     c.IsDefaultValueNull(),
		DefaultValueUTF8Null: c.IsDefaultValueUTF8Null(),
		GenerationExpression: c.GenerationExpression(),
		Comment:              c.Comment(),
		Hidden:               int64(c.Hidden()),
		Options:              c.Options().Map(),
		SEPrivateData:        c.SEPrivateData().Map(),
	}
	if !c.IsNumericScaleNull() {
		scale := c.NumericScale()
		ec.NumericScale = &scale
	}
	if !c.IsDefaultValueNull() {
		ec.DefaultValue = append([]byte{}, c.DefaultValue()...)
	}
	if !c.IsDefaultValueUTF8Null() {
		ec.DefaultValueUTF8 = c.DefaultValueUTF8()
	}
	c.Elements().Iter(func(e *dictionary.ColumnTypeElement) bool {
		ec.Elements = append(ec.Elements, encodedColumnElement{Name: e.Value(), Index: e.OrdinalPosition()})
		return false
	})
	return ec
}

func encodeIndex(tbl *dictionary.Table, idx *dictionary.Index) encodedIndex {
	ei := encodedIndex{
		Name:                idx.Name(),
		Type:                int64(idx.Type()),
		Algorithm:           int64(idx.Algorithm()),
		IsAlgorithmExplicit: idx.IsAlgorithmExplicit(),
		IsVisible:           idx.IsVisible(),
		IsGenerated:         idx.IsGenerated(),
		Hidden:              idx.IsHidden(),
		OrdinalPosition:     idx.OrdinalPosition(),
		Comment:             idx.Comment(),
		Options:             idx.Options().Map(),
		SEPrivateData:       idx.SEPrivateData().Map(),
		Engine:              idx.Engine(),
	}
	idx.Elements().Iter(func(e *dictionary.IndexElement) bool {
		ee := encodedIndexElement{
			OrdinalPosition: e.OrdinalPosition(),
			Order:           int64(e.Order()),
			Hidden:          e.IsHidden(),
			ColumnOpx:       tbl.Columns().IndexOf(e.Column()),
		}
		if !e.IsLengthNull() {
			length := e.Length()
			ee.Length = &length
		}
		ei.Elements = append(ei.Elements, ee)
		return false
	})
	return ei
}

func encodeForeignKey(tbl *dictionary.Table, fk *dictionary.ForeignKey) encodedForeignKey {
	efk := encodedForeignKey{
		Name:                      fk.Name(),
		MatchOption:               int64(fk.MatchOption()),
		UpdateRule:                int64(fk.UpdateRule()),
		DeleteRule:                int64(fk.DeleteRule()),
		UniqueConstraintName:      fk.UniqueConstraintName(),
		ReferencedTableSchemaName: fk.ReferencedTableSchema(),
		ReferencedTableName:       fk.ReferencedTableName(),
	}
	if fk.UniqueConstraint() != nil {
		opx := tbl.Indexes().IndexOf(fk.UniqueConstraint())
		efk.UniqueConstraintOpx = &opx
	}
	fk.Elements().Iter(func(e *dictionary.ForeignKeyElement) bool {
		efk.Elements = append(efk.Elements, encodedForeignKeyElement{
			ColumnOpx:            tbl.Columns().IndexOf(e.Column()),
			OrdinalPosition:      e.OrdinalPosition(),
			ReferencedColumnName: e.ReferencedColumnName(),
		})
		return false
	})
	return efk
}

func encodePartition(tbl *dictionary.Table, p *dictionary.Partition) encodedPartition {
	ep := encodedPartition{
		Name:          p.Name(),
		Number:        p.Number(),
		Engine:        p.Engine(),
		Comment:       p.Comment(),
		Options:       p.Options().Map(),
		SEPrivateData: p.SEPrivateData().Map(),
		SEPrivateID:   p.SEPrivateID(),
	}
	if !p.IsDescriptionNull() {
		desc := p.Description()
		ep.Description = &desc
	}
	p.Indexes().Iter(func(pi *dictionary.PartitionIndex) bool {
		ep.Indexes = append(ep.Indexes, encodedPartitionIndex{
			IndexOpx:      tbl.Indexes().IndexOf(pi.Index()),
			Options:       pi.Options().Map(),
			SEPrivateData: pi.SEPrivateData().Map(),
		})
		return false
	})
	return ep
}

func decodeProperties(dst *properties.Properties, src map[string]string) error {
	for k, v := range src {
		if err := dst.SetChecked(k, v); err != nil {
			return err
		}
	}
	return nil
}

func (et encodedTable) decodeTable(d *systables.Descriptors) (*dictionary.Table, error) {
	tbl := dictionary.NewTable(d, et.SchemaName, et.Name)
	tbl.SetEngine(et.Engine)
	tbl.SetCollationID(et.CollationID)
	tbl.SetComment(et.Comment)
	tbl.SetRowFormat(dictionary.RowFormat(et.RowFormat))
	tbl.SetHidden(et.Hidden)
	tbl.SetPartitioning(dictionary.PartitionType(et.PartitionType), et.PartitionExpression)
	tbl.SetSEPrivateID(et.SEPrivateID)
	if err := decodeProperties(tbl.Options(), et.Options); err != nil {
		return nil, err
	}
	if err := decodeProperties(tbl.SEPrivateData(), et.SEPrivateData); err != nil {
		return nil, err
	}

	for _, ec := range et.Columns {
		if err := ec.decodeColumn(tbl); err != nil {
			return nil, err
		}
	}
	columns := tbl.Columns().Items()

	for _, ei := range et.Indexes {
		if err := ei.decodeIndex(tbl, columns); err != nil {
			return nil, err
		}
	}
	indexes := tbl.Indexes().Items()

	for _, efk := range et.ForeignKeys {
		if err := efk.decodeForeignKey(tbl, columns, indexes); err != nil {
			return nil, err
		}
	}
	for _, ep := range et.Partitions {
		if err := ep.decodePartition(tbl, indexes); err != nil {
			return nil, err
		}
	}
	for _, etr := range et.Triggers {
		tr := tbl.AddTrigger(etr.Name, dictionary.TriggerTiming(etr.ActionTiming), dictionary.TriggerEvent(etr.EventType), etr.ActionStatement)
		tr.SetActionOrder(etr.ActionOrder)
		tr.SetDefiner(etr.Definer)
		tr.SetSQLMode(etr.SQLMode)
		tr.SetTimes(time.UnixMicro(etr.Created), time.UnixMicro(etr.LastAltered))
	}

	return tbl, nil
}

func (ec encodedColumn) decodeColumn(tbl *dictionary.Table) error {
	c := tbl.AddColumn(ec.Name, dictionary.ColumnType(ec.Type))
	c.SetNullable(ec.IsNullable)
	c.SetUnsigned(ec.IsUnsigned)
	c.SetAutoIncrement(ec.IsAutoIncrement)
	c.SetCharLength(ec.CharLength)
	c.SetNumericPrecision(ec.NumericPrecision)
	if ec.NumericScale != nil {
		c.SetNumericScale(*ec.NumericScale)
	}
	c.SetCollationID(ec.CollationID)
	c.SetHasNoDefault(ec.HasNoDefault)
	if !ec.DefaultValueNull {
		c.SetDefaultValue(ec.DefaultValue)
	}
	if !ec.DefaultValueUTF8Null {
		c.SetDefaultValueUTF8(ec.DefaultValueUTF8)
	}
	c.SetGenerationExpression(ec.GenerationExpression)
	c.SetComment(ec.Comment)
	c.SetHidden(dictionary.ColumnHidden(ec.Hidden))
	if err := decodeProperties(c.Options(), ec.Options); err != nil {
		return err
	}
	if err := decodeProperties(c.SEPrivateData(), ec.SEPrivateData); err != nil {
		return err
	}

	sort.SliceStable(ec.Elements, func(i, j int) bool { return ec.Elements[i].Index < ec.Elements[j].Index })
	for _, ee := range ec.Elements {
		c.AddElement(ee.Name)
	}
	return nil
}

func (ei encodedIndex) decodeIndex(tbl *dictionary.Table, columns []*dictionary.Column) error {
	idx := tbl.AddIndex(ei.Name, dictionary.IndexType(ei.Type))
	idx.SetAlgorithm(dictionary.IndexAlgorithm(ei.Algorithm), ei.IsAlgorithmExplicit)
	idx.SetVisible(ei.IsVisible)
	idx.SetGenerated(ei.IsGenerated)
	idx.SetHidden(ei.Hidden)
	idx.SetComment(ei.Comment)
	idx.SetEngine(ei.Engine)
	if err := decodeProperties(idx.Options(), ei.Options); err != nil {
		return err
	}
	if err := decodeProperties(idx.SEPrivateData(), ei.SEPrivateData); err != nil {
		return err
	}

	for _, ee := range ei.Elements {
		if ee.ColumnOpx < 0 || ee.ColumnOpx >= len(columns) {
			return ErrInvalidSDI.New("index '" + ei.Name + "' references a column out of range")
		}
		e := idx.AddElement(columns[ee.ColumnOpx])
		if ee.Length != nil {
			e.SetLength(*ee.Length)
		}
		e.SetOrder(dictionary.IndexElementOrder(ee.Order))
		e.SetHidden(ee.Hidden)
	}
	return nil
}

func (efk encodedForeignKey) decodeForeignKey(tbl *dictionary.Table, columns []*dictionary.Column, indexes []*dictionary.Index) error {
	fk := tbl.AddForeignKey(efk.Name, efk.ReferencedTableSchemaName, efk.ReferencedTableName)
	fk.SetMatchOption(dictionary.ForeignKeyMatch(efk.MatchOption))
	fk.SetUpdateRule(dictionary.ForeignKeyRule(efk.UpdateRule))
	fk.SetDeleteRule(dictionary.ForeignKeyRule(efk.DeleteRule))

	if efk.UniqueConstraintOpx != nil {
		opx := *efk.UniqueConstraintOpx
		if opx < 0 || opx >= len(indexes) {
			return ErrInvalidSDI.New("foreign key '" + efk.Name + "' references an index out of range")
		}
		fk.SetUniqueConstraint(indexes[opx])
	} else {
		fk.SetUniqueConstraintName(efk.UniqueConstraintName)
	}

	for _, ee := range efk.Elements {
		if ee.ColumnOpx < 0 || ee.ColumnOpx >= len(columns) {
			return ErrInvalidSDI.New("foreign key '" + efk.Name + "' references a column out of range")
		}
		fk.AddElement(columns[ee.ColumnOpx], ee.ReferencedColumnName)
	}
	return nil
}

func (ep encodedPartition) decodePartition(tbl *dictionary.Table, indexes []*dictionary.Index) error {
	p := tbl.AddPartition(ep.Name)
	p.SetEngine(ep.Engine)
	p.SetComment(ep.Comment)
	p.SetSEPrivateID(ep.SEPrivateID)
	if ep.Description != nil {
		p.SetDescription(*ep.Description)
	}
	if err := decodeProperties(p.Options(), ep.Options); err != nil {
		return err
	}
	if err := decodeProperties(p.SEPrivateData(), ep.SEPrivateData); err != nil {
		return err
	}

	for _, epi := range ep.Indexes {
		if epi.IndexOpx < 0 || epi.IndexOpx >= len(indexes) {
			return ErrInvalidSDI.New("partition '" + ep.Name + "' references an index out of range")
		}
		pi := p.AddIndex(indexes[epi.IndexOpx])
		if err := decodeProperties(pi.Options(), epi.Options); err != nil {
			return err
		}
		if err := decodeProperties(pi.SEPrivateData(), epi.SEPrivateData); err != nil {
			return err
		}
	}
	return nil
}
