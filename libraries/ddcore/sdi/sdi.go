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

// Package sdi serializes dictionary tables to and from serialized dictionary information (SDI), a self-describing
// JSON document that can be stored next to a table's data and imported into another dictionary.
package sdi

import (
	"github.com/goccy/go-json"
	"github.com/tidwall/gjson"
	"gopkg.in/src-d/go-errors.v1"

	"github.com/dolthub/dictionary/libraries/ddcore/dictionary"
	"github.com/dolthub/dictionary/libraries/ddcore/systables"
)

// SDIVersion is the version of the document layout written by Serialize. Deserialize only accepts documents with
// this version.
const SDIVersion uint64 = 80019

// ObjectTypeTable is the dd_object_type of a serialized table.
const ObjectTypeTable = "Table"

var (
	ErrInvalidSDI  = errors.NewKind("invalid SDI: %s")
	ErrSDIVersion  = errors.NewKind("unsupported SDI version %d, expected %d")
	ErrDDVersion   = errors.NewKind("SDI was written by dictionary version %d, expected %d")
	ErrObjectType  = errors.NewKind("SDI holds a %q, expected %q")
	ErrInvalidName = errors.NewKind("SDI object has no name")
)

type envelope struct {
	SDIVersion   uint64          `json:"sdi_version"`
	DDVersion    uint64          `json:"dd_version"`
	DDObjectType string          `json:"dd_object_type"`
	DDObject     json.RawMessage `json:"dd_object"`
}

// Info is the header of an SDI document.
type Info struct {
	SDIVersion uint64
	DDVersion  uint64
	ObjectType string
	SchemaName string
	Name       string
}

// Header reads the header of an SDI document without decoding the object it holds.
func Header(data []byte) (Info, error) {
	if !gjson.ValidBytes(data) {
		return Info{}, ErrInvalidSDI.New("document is not valid json")
	}

	res := gjson.GetManyBytes(data, "sdi_version", "dd_version", "dd_object_type", "dd_object.schema_ref", "dd_object.name")
	if !res[0].Exists() || !res[1].Exists() || !res[2].Exists() {
		return Info{}, ErrInvalidSDI.New("missing version or object type")
	}

	return Info{
		SDIVersion: res[0].Uint(),
		DDVersion:  res[1].Uint(),
		ObjectType: res[2].String(),
		SchemaName: res[3].String(),
		Name:       res[4].String(),
	}, nil
}

// Serialize writes tbl as an SDI document. The table does not need to be stored; references between its children
// are written by position.
func Serialize(tbl *dictionary.Table) ([]byte, error) {
	obj, err := json.Marshal(encodeTable(tbl))
	if err != nil {
		return nil, err
	}

	return json.Marshal(envelope{
		SDIVersion:   SDIVersion,
		DDVersion:    systables.DDVersion,
		DDObjectType: ObjectTypeTable,
		DDObject:     obj,
	})
}

// Deserialize builds a new, unstored table from an SDI document. The table has no object ids and its children are
// linked by reference, so it can be stored with object.Store into the dictionary described by d.
func Deserialize(d *systables.Descriptors, data []byte) (*dictionary.Table, error) {
	info, err := Header(data)
	if err != nil {
		return nil, err
	}

	if info.SDIVersion != SDIVersion {
		return nil, ErrSDIVersion.New(info.SDIVersion, SDIVersion)
	}
	if info.DDVersion != systables.DDVersion {
		return nil, ErrDDVersion.New(info.DDVersion, systables.DDVersion)
	}
	if info.ObjectType != ObjectTypeTable {
		return nil, ErrObjectType.New(info.ObjectType, ObjectTypeTable)
	}

	var env envelope
	if err = json.Unmarshal(data, &env); err != nil {
		return nil, ErrInvalidSDI.Wrap(err, err.Error())
	}

	var et encodedTable
	if err = json.Unmarshal(env.DDObject, &et); err != nil {
		return nil, ErrInvalidSDI.Wrap(err, err.Error())
	}
	if et.Name == "" {
		return nil, ErrInvalidName.New()
	}

	tbl, err := et.decodeTable(d)
	if err != nil {
		return nil, err
	}

	if err = tbl.ValidateTree(); err != nil {
		return nil, err
	}
	return tbl, nil
}
