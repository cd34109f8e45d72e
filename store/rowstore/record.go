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
	"fmt"

	"github.com/goccy/go-json"
)

// FieldKind is the storage type of a single field of a dictionary table.
type FieldKind uint8

const (
	IntKind FieldKind = iota
	UintKind
	BoolKind
	StringKind
	BinaryKind
)

func (k FieldKind) String() string {
	switch k {
	case IntKind:
		return "int"
	case UintKind:
		return "uint"
	case BoolKind:
		return "bool"
	case StringKind:
		return "string"
	case BinaryKind:
		return "binary"
	}
	return fmt.Sprintf("FieldKind(%d)", uint8(k))
}

// FieldDef describes one field of a dictionary table.
type FieldDef struct {
	Name     string
	Kind     FieldKind
	Nullable bool
}

// TableDef describes a dictionary table. Every table has an implicit, store assigned row id which is not part
// of Fields. Field positions are what records are indexed by.
type TableDef struct {
	Name   string
	Fields []FieldDef
}

// FieldIndex returns the position of the field with the given name, or -1.
func (td *TableDef) FieldIndex(name string) int {
	for i, f := range td.Fields {
		if f.Name == name {
			return i
		}
	}
	return -1
}

// NewRecord returns an empty record for this table with every field set to its zero value.
func (td *TableDef) NewRecord() *Record {
	return &Record{def: td, values: make([]Value, len(td.Fields))}
}

// Value is a single field value. Which member is meaningful depends on the FieldKind of the field. Null is the
// explicit NULL flag and is only ever set on nullable fields.
type Value struct {
	Null bool   `json:"n,omitempty"`
	Int  int64  `json:"i,omitempty"`
	Uint uint64 `json:"u,omitempty"`
	Str  string `json:"s,omitempty"`
	Bin  []byte `json:"b,omitempty"`
}

// Record is one backing row of a dictionary table.
type Record struct {
	def    *TableDef
	id     uint64
	values []Value
}

// Def returns the table the record belongs to.
func (r *Record) Def() *TableDef {
	return r.def
}

// ID returns the row id, or 0 if the record has never been stored.
func (r *Record) ID() uint64 {
	return r.id
}

func (r *Record) field(idx int, kind FieldKind) *Value {
	if idx < 0 || idx >= len(r.values) {
		panic(fmt.Sprintf("field index %d out of range for table %s", idx, r.def.Name))
	}
	if fk := r.def.Fields[idx].Kind; fk != kind {
		panic(fmt.Sprintf("field %s.%s is %s, accessed as %s", r.def.Name, r.def.Fields[idx].Name, fk, kind))
	}
	return &r.values[idx]
}

func (r *Record) IsNull(idx int) bool {
	if idx < 0 || idx >= len(r.values) {
		panic(fmt.Sprintf("field index %d out of range for table %s", idx, r.def.Name))
	}
	return r.values[idx].Null
}

// SetNull marks a nullable field as NULL. Setting a non-nullable field to NULL is a programming error.
func (r *Record) SetNull(idx int) {
	if !r.def.Fields[idx].Nullable {
		panic(fmt.Sprintf("field %s.%s is not nullable", r.def.Name, r.def.Fields[idx].Name))
	}
	r.values[idx] = Value{Null: true}
}

func (r *Record) Int(idx int) int64 {
	return r.field(idx, IntKind).Int
}

func (r *Record) SetInt(idx int, v int64) {
	*r.field(idx, IntKind) = Value{Int: v}
}

func (r *Record) Uint(idx int) uint64 {
	return r.field(idx, UintKind).Uint
}

func (r *Record) SetUint(idx int, v uint64) {
	*r.field(idx, UintKind) = Value{Uint: v}
}

func (r *Record) Bool(idx int) bool {
	return r.field(idx, BoolKind).Int != 0
}

func (r *Record) SetBool(idx int, v bool) {
	var i int64
	if v {
		i = 1
	}
	*r.field(idx, BoolKind) = Value{Int: i}
}

func (r *Record) String(idx int) string {
	return r.field(idx, StringKind).Str
}

func (r *Record) SetString(idx int, v string) {
	*r.field(idx, StringKind) = Value{Str: v}
}

func (r *Record) Binary(idx int) []byte {
	b := r.field(idx, BinaryKind).Bin
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}

func (r *Record) SetBinary(idx int, v []byte) {
	b := make([]byte, len(v))
	copy(b, v)
	*r.field(idx, BinaryKind) = Value{Bin: b}
}

// Clone returns a deep copy of the record.
func (r *Record) Clone() *Record {
	values := make([]Value, len(r.values))
	for i, v := range r.values {
		values[i] = v
		if v.Bin != nil {
			values[i].Bin = append([]byte(nil), v.Bin...)
		}
	}
	return &Record{def: r.def, id: r.id, values: values}
}

func (r *Record) withID(id uint64) *Record {
	c := r.Clone()
	c.id = id
	return c
}

// Key is a search key selecting every row of a table whose unsigned Field equals Value. It is how children are
// found for their parent, e.g. all index rows whose table_id is N.
type Key struct {
	Field int
	Value uint64
}

// NewParentKey returns a key selecting rows whose parent id field equals id.
func NewParentKey(field int, id uint64) Key {
	return Key{Field: field, Value: id}
}

// Matches returns whether the record satisfies the key.
func (k Key) Matches(r *Record) bool {
	return !r.values[k.Field].Null && r.values[k.Field].Uint == k.Value
}

func (k Key) validate(def *TableDef) error {
	if k.Field < 0 || k.Field >= len(def.Fields) {
		return ErrBadKey.New(def.Name, fmt.Sprintf("field %d out of range", k.Field))
	}
	if def.Fields[k.Field].Kind != UintKind {
		return ErrBadKey.New(def.Name, fmt.Sprintf("field %s is not unsigned", def.Fields[k.Field].Name))
	}
	return nil
}

type encodedRecord struct {
	Values []Value `json:"v"`
}

func encodeRecord(r *Record) ([]byte, error) {
	return json.Marshal(encodedRecord{Values: r.values})
}

func decodeRecord(def *TableDef, id uint64, data []byte) (*Record, error) {
	var enc encodedRecord
	if err := json.Unmarshal(data, &enc); err != nil {
		return nil, fmt.Errorf("decoding row %d of %s: %w", id, def.Name, err)
	}
	if len(enc.Values) != len(def.Fields) {
		return nil, ErrRecordShape.New(def.Name, id, len(enc.Values), len(def.Fields))
	}
	return &Record{def: def, id: id, values: enc.Values}, nil
}
