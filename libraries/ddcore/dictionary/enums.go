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

import "fmt"

func enumName(names []string, v int64, typeName string) string {
	if v >= 0 && v < int64(len(names)) {
		return names[v]
	}
	return fmt.Sprintf("%s(%d)", typeName, v)
}

// ColumnType is the SQL type of a column. Values are persisted and must not be reordered.
type ColumnType int64

const (
	ColumnTypeUnknown ColumnType = iota
	ColumnTypeTiny
	ColumnTypeShort
	ColumnTypeLong
	ColumnTypeLongLong
	ColumnTypeInt24
	ColumnTypeFloat
	ColumnTypeDouble
	ColumnTypeNewDecimal
	ColumnTypeDate
	ColumnTypeTime
	ColumnTypeDatetime
	ColumnTypeTimestamp
	ColumnTypeYear
	ColumnTypeVarchar
	ColumnTypeString
	ColumnTypeBlob
	ColumnTypeJSON
	ColumnTypeEnum
	ColumnTypeSet
	ColumnTypeBit
	ColumnTypeGeometry
)

var columnTypeNames = []string{
	"UNKNOWN", "TINY", "SHORT", "LONG", "LONGLONG", "INT24", "FLOAT", "DOUBLE", "NEWDECIMAL", "DATE", "TIME",
	"DATETIME", "TIMESTAMP", "YEAR", "VARCHAR", "STRING", "BLOB", "JSON", "ENUM", "SET", "BIT", "GEOMETRY",
}

func (t ColumnType) String() string {
	return enumName(columnTypeNames, int64(t), "ColumnType")
}

// HasElements returns whether columns of this type carry a list of ENUM or SET values.
func (t ColumnType) HasElements() bool {
	return t == ColumnTypeEnum || t == ColumnTypeSet
}

// ColumnHidden says who, if anyone, a column is hidden from.
type ColumnHidden int64

const (
	HiddenVisible ColumnHidden = iota
	// HiddenSE columns are added by the storage engine.
	HiddenSE
	// HiddenSQL columns are added by the server, e.g. for functional indexes.
	HiddenSQL
	// HiddenUser columns were declared INVISIBLE.
	HiddenUser
)

var columnHiddenNames = []string{"VISIBLE", "SE", "SQL", "USER"}

func (h ColumnHidden) String() string {
	return enumName(columnHiddenNames, int64(h), "ColumnHidden")
}

type IndexType int64

const (
	IndexTypePrimary IndexType = iota + 1
	IndexTypeUnique
	IndexTypeMultiple
	IndexTypeFulltext
	IndexTypeSpatial
)

var indexTypeNames = []string{"", "PRIMARY", "UNIQUE", "MULTIPLE", "FULLTEXT", "SPATIAL"}

func (t IndexType) String() string {
	return enumName(indexTypeNames, int64(t), "IndexType")
}

type IndexAlgorithm int64

const (
	IndexAlgorithmSEDefault IndexAlgorithm = iota + 1
	IndexAlgorithmBTree
	IndexAlgorithmRTree
	IndexAlgorithmHash
	IndexAlgorithmFulltext
)

var indexAlgorithmNames = []string{"", "SE_SPECIFIC", "BTREE", "RTREE", "HASH", "FULLTEXT"}

func (a IndexAlgorithm) String() string {
	return enumName(indexAlgorithmNames, int64(a), "IndexAlgorithm")
}

type IndexElementOrder int64

const (
	OrderUndef IndexElementOrder = iota + 1
	OrderAsc
	OrderDesc
)

var indexElementOrderNames = []string{"", "UNDEF", "ASC", "DESC"}

func (o IndexElementOrder) String() string {
	return enumName(indexElementOrderNames, int64(o), "IndexElementOrder")
}

type ForeignKeyMatch int64

const (
	MatchNone ForeignKeyMatch = iota + 1
	MatchPartial
	MatchFull
)

var foreignKeyMatchNames = []string{"", "NONE", "PARTIAL", "FULL"}

func (m ForeignKeyMatch) String() string {
	return enumName(foreignKeyMatchNames, int64(m), "ForeignKeyMatch")
}

// ForeignKeyRule is the referential action taken on update or delete of a referenced row.
type ForeignKeyRule int64

const (
	RuleNoAction ForeignKeyRule = iota + 1
	RuleRestrict
	RuleCascade
	RuleSetNull
	RuleSetDefault
)

var foreignKeyRuleNames = []string{"", "NO ACTION", "RESTRICT", "CASCADE", "SET NULL", "SET DEFAULT"}

func (r ForeignKeyRule) String() string {
	return enumName(foreignKeyRuleNames, int64(r), "ForeignKeyRule")
}

type RowFormat int64

const (
	RowFormatFixed RowFormat = iota + 1
	RowFormatDynamic
	RowFormatCompressed
	RowFormatRedundant
	RowFormatCompact
)

var rowFormatNames = []string{"", "FIXED", "DYNAMIC", "COMPRESSED", "REDUNDANT", "COMPACT"}

func (f RowFormat) String() string {
	return enumName(rowFormatNames, int64(f), "RowFormat")
}

type PartitionType int64

const (
	PartitionTypeNone PartitionType = iota
	PartitionTypeHash
	PartitionTypeKey
	PartitionTypeRange
	PartitionTypeList
)

var partitionTypeNames = []string{"NONE", "HASH", "KEY", "RANGE", "LIST"}

func (t PartitionType) String() string {
	return enumName(partitionTypeNames, int64(t), "PartitionType")
}

type TriggerEvent int64

const (
	EventInsert TriggerEvent = iota + 1
	EventUpdate
	EventDelete
)

var triggerEventNames = []string{"", "INSERT", "UPDATE", "DELETE"}

func (e TriggerEvent) String() string {
	return enumName(triggerEventNames, int64(e), "TriggerEvent")
}

type TriggerTiming int64

const (
	TimingBefore TriggerTiming = iota + 1
	TimingAfter
)

var triggerTimingNames = []string{"", "BEFORE", "AFTER"}

func (t TriggerTiming) String() string {
	return enumName(triggerTimingNames, int64(t), "TriggerTiming")
}
