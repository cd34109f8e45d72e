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

// Package systables describes the tables the dictionary is stored in. Descriptors are plain values built by
// NewDescriptors and handed to whoever needs them; nothing in this package is global state.
//
// The field position constants below are the column layout of each table and are what records are indexed by.
// Appending a field is a format change and must bump DDVersion.
package systables

import (
	"github.com/dolthub/dictionary/store/rowstore"
)

// DDVersion is the version of the dictionary table layout. It is written to the dd_properties table and to every
// serialized dictionary document.
const DDVersion uint64 = 80023

// Field positions in the tables table.
const (
	TablesSchemaName = iota
	TablesName
	TablesEngine
	TablesCollationID
	TablesComment
	TablesRowFormat
	TablesHidden
	TablesPartitionType
	TablesPartitionExpression
	TablesOptions
	TablesSEPrivateData
	TablesSEPrivateID
)

// Field positions in the columns table.
const (
	ColumnsTableID = iota
	ColumnsName
	ColumnsOrdinalPosition
	ColumnsType
	ColumnsIsNullable
	ColumnsIsUnsigned
	ColumnsIsAutoIncrement
	ColumnsCharLength
	ColumnsNumericPrecision
	ColumnsNumericScale
	ColumnsCollationID
	ColumnsHasNoDefault
	ColumnsDefaultValue
	ColumnsDefaultValueUTF8
	ColumnsGenerationExpression
	ColumnsComment
	ColumnsHidden
	ColumnsOptions
	ColumnsSEPrivateData
)

// Field positions in the column_type_elements table.
const (
	ColumnTypeElementsColumnID = iota
	ColumnTypeElementsElementIndex
	ColumnTypeElementsName
)

// Field positions in the indexes table.
const (
	IndexesTableID = iota
	IndexesName
	IndexesType
	IndexesAlgorithm
	IndexesIsAlgorithmExplicit
	IndexesIsVisible
	IndexesIsGenerated
	IndexesHidden
	IndexesOrdinalPosition
	IndexesComment
	IndexesOptions
	IndexesSEPrivateData
	IndexesEngine
)

// Field positions in the index_column_usage table.
const (
	IndexColumnUsageIndexID = iota
	IndexColumnUsageOrdinalPosition
	IndexColumnUsageColumnID
	IndexColumnUsageLength
	IndexColumnUsageOrder
	IndexColumnUsageHidden
)

// Field positions in the foreign_keys table.
const (
	ForeignKeysTableID = iota
	ForeignKeysName
	ForeignKeysUniqueConstraintID
	ForeignKeysUniqueConstraintName
	ForeignKeysMatchOption
	ForeignKeysUpdateRule
	ForeignKeysDeleteRule
	ForeignKeysReferencedTableSchema
	ForeignKeysReferencedTableName
)

// Field positions in the foreign_key_column_usage table.
const (
	ForeignKeyColumnUsageForeignKeyID = iota
	ForeignKeyColumnUsageOrdinalPosition
	ForeignKeyColumnUsageColumnID
	ForeignKeyColumnUsageReferencedColumnName
)

// Field positions in the partitions table.
const (
	PartitionsTableID = iota
	PartitionsName
	PartitionsNumber
	PartitionsEngine
	PartitionsDescriptionUTF8
	PartitionsComment
	PartitionsOptions
	PartitionsSEPrivateData
	PartitionsSEPrivateID
)

// Field positions in the index_partitions table.
const (
	IndexPartitionsPartitionID = iota
	IndexPartitionsIndexID
	IndexPartitionsOptions
	IndexPartitionsSEPrivateData
)

// Field positions in the triggers table.
const (
	TriggersTableID = iota
	TriggersName
	TriggersEventType
	TriggersActionTiming
	TriggersActionOrder
	TriggersActionStatement
	TriggersDefiner
	TriggersSQLMode
	TriggersCreated
	TriggersLastAltered
)

// Field positions in the dd_properties table.
const (
	DDPropertiesProperties = iota
)

// Descriptors holds one table definition per dictionary table.
type Descriptors struct {
	Tables                *rowstore.TableDef
	Columns               *rowstore.TableDef
	ColumnTypeElements    *rowstore.TableDef
	Indexes               *rowstore.TableDef
	IndexColumnUsage      *rowstore.TableDef
	ForeignKeys           *rowstore.TableDef
	ForeignKeyColumnUsage *rowstore.TableDef
	Partitions            *rowstore.TableDef
	IndexPartitions       *rowstore.TableDef
	Triggers              *rowstore.TableDef
	DDProperties          *rowstore.TableDef
}

func uintField(name string) rowstore.FieldDef {
	return rowstore.FieldDef{Name: name, Kind: rowstore.UintKind}
}

func intField(name string) rowstore.FieldDef {
	return rowstore.FieldDef{Name: name, Kind: rowstore.IntKind}
}

func boolField(name string) rowstore.FieldDef {
	return rowstore.FieldDef{Name: name, Kind: rowstore.BoolKind}
}

func strField(name string) rowstore.FieldDef {
	return rowstore.FieldDef{Name: name, Kind: rowstore.StringKind}
}

func nullable(f rowstore.FieldDef) rowstore.FieldDef {
	f.Nullable = true
	return f
}

// NewDescriptors builds the definitions of every dictionary table.
func NewDescriptors() *Descriptors {
	return &Descriptors{
		Tables: &rowstore.TableDef{
			Name: "tables",
			Fields: []rowstore.FieldDef{
				strField("schema_name"),
				strField("name"),
				strField("engine"),
				uintField("collation_id"),
				strField("comment"),
				intField("row_format"),
				boolField("hidden"),
				intField("partition_type"),
				nullable(strField("partition_expression")),
				strField("options"),
				strField("se_private_data"),
				nullable(uintField("se_private_id")),
			},
		},
		Columns: &rowstore.TableDef{
			Name: "columns",
			Fields: []rowstore.FieldDef{
				uintField("table_id"),
				strField("name"),
				uintField("ordinal_position"),
				intField("type"),
				boolField("is_nullable"),
				boolField("is_unsigned"),
				boolField("is_auto_increment"),
				uintField("char_length"),
				uintField("numeric_precision"),
				nullable(uintField("numeric_scale")),
				uintField("collation_id"),
				boolField("has_no_default"),
				nullable(rowstore.FieldDef{Name: "default_value", Kind: rowstore.BinaryKind}),
				nullable(strField("default_value_utf8")),
				strField("generation_expression"),
				strField("comment"),
				intField("hidden"),
				strField("options"),
				strField("se_private_data"),
			},
		},
		ColumnTypeElements: &rowstore.TableDef{
			Name: "column_type_elements",
			Fields: []rowstore.FieldDef{
				uintField("column_id"),
				uintField("element_index"),
				{Name: "name", Kind: rowstore.BinaryKind},
			},
		},
		Indexes: &rowstore.TableDef{
			Name: "indexes",
			Fields: []rowstore.FieldDef{
				uintField("table_id"),
				strField("name"),
				intField("type"),
				intField("algorithm"),
				boolField("is_algorithm_explicit"),
				boolField("is_visible"),
				boolField("is_generated"),
				boolField("hidden"),
				uintField("ordinal_position"),
				strField("comment"),
				strField("options"),
				strField("se_private_data"),
				strField("engine"),
			},
		},
		IndexColumnUsage: &rowstore.TableDef{
			Name: "index_column_usage",
			Fields: []rowstore.FieldDef{
				uintField("index_id"),
				uintField("ordinal_position"),
				uintField("column_id"),
				nullable(uintField("length")),
				intField("order"),
				boolField("hidden"),
			},
		},
		ForeignKeys: &rowstore.TableDef{
			Name: "foreign_keys",
			Fields: []rowstore.FieldDef{
				uintField("table_id"),
				strField("name"),
				nullable(uintField("unique_constraint_id")),
				strField("unique_constraint_name"),
				intField("match_option"),
				intField("update_rule"),
				intField("delete_rule"),
				strField("referenced_table_schema"),
				strField("referenced_table_name"),
			},
		},
		ForeignKeyColumnUsage: &rowstore.TableDef{
			Name: "foreign_key_column_usage",
			Fields: []rowstore.FieldDef{
				uintField("foreign_key_id"),
				uintField("ordinal_position"),
				uintField("column_id"),
				strField("referenced_column_name"),
			},
		},
		Partitions: &rowstore.TableDef{
			Name: "partitions",
			Fields: []rowstore.FieldDef{
				uintField("table_id"),
				strField("name"),
				uintField("number"),
				strField("engine"),
				nullable(strField("description_utf8")),
				strField("comment"),
				strField("options"),
				strField("se_private_data"),
				nullable(uintField("se_private_id")),
			},
		},
		IndexPartitions: &rowstore.TableDef{
			Name: "index_partitions",
			Fields: []rowstore.FieldDef{
				uintField("partition_id"),
				uintField("index_id"),
				strField("options"),
				strField("se_private_data"),
			},
		},
		Triggers: &rowstore.TableDef{
			Name: "triggers",
			Fields: []rowstore.FieldDef{
				uintField("table_id"),
				strField("name"),
				intField("event_type"),
				intField("action_timing"),
				uintField("action_order"),
				strField("action_statement"),
				strField("definer"),
				uintField("sql_mode"),
				intField("created"),
				intField("last_altered"),
			},
		},
		DDProperties: &rowstore.TableDef{
			Name: "dd_properties",
			Fields: []rowstore.FieldDef{
				strField("properties"),
			},
		},
	}
}

// All returns every table definition, in creation order.
func (d *Descriptors) All() []*rowstore.TableDef {
	return []*rowstore.TableDef{
		d.Tables,
		d.Columns,
		d.ColumnTypeElements,
		d.Indexes,
		d.IndexColumnUsage,
		d.ForeignKeys,
		d.ForeignKeyColumnUsage,
		d.Partitions,
		d.IndexPartitions,
		d.Triggers,
		d.DDProperties,
	}
}
