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
	"context"
	"fmt"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dolthub/dictionary/libraries/ddcore/dictionary"
	"github.com/dolthub/dictionary/libraries/ddcore/dtestutils"
	"github.com/dolthub/dictionary/libraries/ddcore/object"
	"github.com/dolthub/dictionary/libraries/ddcore/systables"
	"github.com/dolthub/dictionary/store/rowstore"
)

func TestSerializeRoundTrip(t *testing.T) {
	d := systables.NewDescriptors()
	orig := dtestutils.EmployeesTable(d)

	doc, err := Serialize(orig)
	require.NoError(t, err)

	tbl, err := Deserialize(d, doc)
	require.NoError(t, err)
	assertSameTable(t, orig, tbl)

	// serializing the copy produces the same document
	again, err := Serialize(tbl)
	require.NoError(t, err)
	assert.JSONEq(t, string(doc), string(again))
}

func TestDeserializedTableCanBeStored(t *testing.T) {
	ctx := context.Background()
	d := systables.NewDescriptors()
	s := rowstore.NewMemStore()
	require.NoError(t, s.Init(ctx, d.All()...))

	doc, err := Serialize(dtestutils.EmployeesTable(d))
	require.NoError(t, err)
	tbl, err := Deserialize(d, doc)
	require.NoError(t, err)
	assert.False(t, tbl.ID().IsValid())

	require.NoError(t, rowstore.Update(ctx, s, func(tx rowstore.Tx) error {
		return object.Store(ctx, tx, tbl)
	}))
	require.True(t, tbl.ID().IsValid())

	var loaded *dictionary.Table
	require.NoError(t, rowstore.View(ctx, s, func(tx rowstore.Tx) (err error) {
		loaded, err = dictionary.RestoreTable(ctx, tx, d, tbl.ID())
		return err
	}))
	assertSameTable(t, tbl, loaded)

	fk := loaded.ForeignKeyByName("fk_manager")
	require.NotNil(t, fk)
	assert.Same(t, loaded.IndexByName("PRIMARY"), fk.UniqueConstraint())
}

func TestSerializeUnstoredReferences(t *testing.T) {
	d := systables.NewDescriptors()
	doc, err := Serialize(dtestutils.EmployeesTable(d))
	require.NoError(t, err)

	var env envelope
	require.NoError(t, json.Unmarshal(doc, &env))
	var et encodedTable
	require.NoError(t, json.Unmarshal(env.DDObject, &et))

	require.Len(t, et.ForeignKeys, 2)
	require.NotNil(t, et.ForeignKeys[0].UniqueConstraintOpx)
	assert.Equal(t, 0, *et.ForeignKeys[0].UniqueConstraintOpx)
	assert.Nil(t, et.ForeignKeys[1].UniqueConstraintOpx)
	assert.Equal(t, "PRIMARY", et.ForeignKeys[1].UniqueConstraintName)

	require.Len(t, et.Indexes, dtestutils.EmployeeIndexes)
	assert.Equal(t, 3, et.Indexes[3].Elements[0].ColumnOpx)
	require.NotNil(t, et.Indexes[3].Elements[0].Length)
	assert.Equal(t, uint64(16), *et.Indexes[3].Elements[0].Length)
	assert.Nil(t, et.Indexes[0].Elements[0].Length)
	assert.Nil(t, et.Columns[1].NumericScale)
	assert.Equal(t, []byte("retired"), et.Columns[4].Elements[1].Name)
}

func TestHeader(t *testing.T) {
	d := systables.NewDescriptors()
	doc, err := Serialize(dtestutils.EmployeesTable(d))
	require.NoError(t, err)

	info, err := Header(doc)
	require.NoError(t, err)
	assert.Equal(t, Info{
		SDIVersion: SDIVersion,
		DDVersion:  systables.DDVersion,
		ObjectType: ObjectTypeTable,
		SchemaName: dtestutils.TestSchema,
		Name:       dtestutils.EmployeesName,
	}, info)

	_, err = Header([]byte("{not json"))
	assert.True(t, ErrInvalidSDI.Is(err))
	_, err = Header([]byte(`{"sdi_version": 1}`))
	assert.True(t, ErrInvalidSDI.Is(err))
}

func document(sdiVersion, ddVersion uint64, objectType, object string) []byte {
	return []byte(fmt.Sprintf(`{"sdi_version":%d,"dd_version":%d,"dd_object_type":%q,"dd_object":%s}`,
		sdiVersion, ddVersion, objectType, object))
}

const minimalTable = `{"name":"t1","schema_ref":"db1","engine":"InnoDB","row_format":2,
	"columns":[{"name":"c1","type":%d,"is_nullable":true,"default_value_null":true,"default_value_utf8_null":true}],
	"indexes":[{"name":"PRIMARY","type":1,"algorithm":2,"is_visible":true,"elements":[{"column_opx":%d,"order":2}]}]}`

func TestDeserializeErrors(t *testing.T) {
	d := systables.NewDescriptors()
	valid := fmt.Sprintf(minimalTable, dictionary.ColumnTypeLong, 0)

	tbl, err := Deserialize(d, document(SDIVersion, systables.DDVersion, ObjectTypeTable, valid))
	require.NoError(t, err)
	assert.Equal(t, []string{"c1"}, dtestutils.ColumnNames(tbl))
	assert.Equal(t, dictionary.IndexTypePrimary, tbl.IndexByName("PRIMARY").Type())

	tests := []struct {
		name string
		doc  []byte
		kind interface{ Is(error) bool }
	}{
		{"sdi version", document(SDIVersion+1, systables.DDVersion, ObjectTypeTable, valid), ErrSDIVersion},
		{"dd version", document(SDIVersion, systables.DDVersion-1, ObjectTypeTable, valid), ErrDDVersion},
		{"object type", document(SDIVersion, systables.DDVersion, "Schema", valid), ErrObjectType},
		{"no name", document(SDIVersion, systables.DDVersion, ObjectTypeTable, `{"schema_ref":"db1"}`), ErrInvalidName},
		{"bad object", document(SDIVersion, systables.DDVersion, ObjectTypeTable, `{"name":7}`), ErrInvalidSDI},
		{
			"column out of range",
			document(SDIVersion, systables.DDVersion, ObjectTypeTable, fmt.Sprintf(minimalTable, dictionary.ColumnTypeLong, 1)),
			ErrInvalidSDI,
		},
		{
			"enum without elements",
			document(SDIVersion, systables.DDVersion, ObjectTypeTable, fmt.Sprintf(minimalTable, dictionary.ColumnTypeEnum, 0)),
			object.ErrValidation,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			tbl, err := Deserialize(d, test.doc)
			assert.Nil(t, tbl)
			require.Error(t, err)
			assert.True(t, test.kind.Is(err), "unexpected error: %v", err)
		})
	}
}

func TestPackUnpack(t *testing.T) {
	d := systables.NewDescriptors()
	doc, err := Serialize(dtestutils.EmployeesTable(d))
	require.NoError(t, err)

	packed := Pack(doc)
	unpacked, err := Unpack(packed)
	require.NoError(t, err)
	assert.Equal(t, doc, unpacked)

	corrupt := append([]byte(nil), packed...)
	corrupt[0] ^= 0xff
	_, err = Unpack(corrupt)
	assert.True(t, ErrChecksum.Is(err))

	_, err = Unpack(packed[:4])
	assert.True(t, ErrInvalidSDI.Is(err))

	_, err = Unpack(append(packed[:checksumSize:checksumSize], 0xff, 0xff, 0xff))
	assert.True(t, ErrInvalidSDI.Is(err))
}

func assertSameTable(t *testing.T, expected, actual *dictionary.Table) {
	t.Helper()

	assert.Equal(t, expected.Name(), actual.Name())
	assert.Equal(t, expected.SchemaName(), actual.SchemaName())
	assert.Equal(t, expected.Comment(), actual.Comment())
	assert.Equal(t, expected.PartitionType(), actual.PartitionType())
	assert.Equal(t, expected.PartitionExpression(), actual.PartitionExpression())
	assert.True(t, expected.Options().Equals(actual.Options()))
	assert.True(t, expected.SEPrivateData().Equals(actual.SEPrivateData()))
	assert.Equal(t, dtestutils.ColumnNames(expected), dtestutils.ColumnNames(actual))
	assert.Equal(t, dtestutils.IndexNames(expected), dtestutils.IndexNames(actual))

	for i, c := range expected.Columns().Items() {
		ac := actual.Columns().At(i)
		assert.Equal(t, c.Type(), ac.Type(), c.Name())
		assert.Equal(t, c.IsNullable(), ac.IsNullable(), c.Name())
		assert.Equal(t, c.IsNumericScaleNull(), ac.IsNumericScaleNull(), c.Name())
		assert.Equal(t, c.IsDefaultValueNull(), ac.IsDefaultValueNull(), c.Name())
		assert.Equal(t, c.Comment(), ac.Comment(), c.Name())
		assert.True(t, c.Options().Equals(ac.Options()), c.Name())
		assert.Equal(t, c.Elements().Size(), ac.Elements().Size(), c.Name())
	}

	for i, idx := range expected.Indexes().Items() {
		aidx := actual.Indexes().At(i)
		assert.Equal(t, idx.Type(), aidx.Type())
		require.Equal(t, idx.Elements().Size(), aidx.Elements().Size())
		for j, e := range idx.Elements().Items() {
			ae := aidx.Elements().At(j)
			assert.Equal(t, e.Column().Name(), ae.Column().Name())
			assert.Same(t, ae.Column(), actual.ColumnByName(e.Column().Name()))
			assert.Equal(t, e.IsLengthNull(), ae.IsLengthNull())
			assert.Equal(t, e.Length(), ae.Length())
		}
	}

	require.Equal(t, expected.ForeignKeys().Size(), actual.ForeignKeys().Size())
	for i, fk := range expected.ForeignKeys().Items() {
		afk := actual.ForeignKeys().At(i)
		assert.Equal(t, fk.Name(), afk.Name())
		assert.Equal(t, fk.UniqueConstraintName(), afk.UniqueConstraintName())
		assert.Equal(t, fk.DeleteRule(), afk.DeleteRule())
		assert.Equal(t, fk.UpdateRule(), afk.UpdateRule())
		if fk.UniqueConstraint() != nil {
			assert.Same(t, actual.IndexByName(fk.UniqueConstraint().Name()), afk.UniqueConstraint())
		}
	}

	require.Equal(t, expected.Partitions().Size(), actual.Partitions().Size())
	for i, p := range expected.Partitions().Items() {
		ap := actual.Partitions().At(i)
		assert.Equal(t, p.Name(), ap.Name())
		assert.Equal(t, p.Number(), ap.Number())
		require.Equal(t, p.Indexes().Size(), ap.Indexes().Size())
		for j, pi := range p.Indexes().Items() {
			assert.Same(t, actual.IndexByName(pi.Index().Name()), ap.Indexes().At(j).Index())
		}
	}

	require.Equal(t, expected.Triggers().Size(), actual.Triggers().Size())
	for _, tr := range expected.Triggers().Items() {
		atr := actual.TriggerByName(tr.Name())
		require.NotNil(t, atr, tr.Name())
		assert.Equal(t, tr.ActionOrder(), atr.ActionOrder(), tr.Name())
		assert.Equal(t, tr.Statement(), atr.Statement(), tr.Name())
		assert.True(t, tr.Created().Equal(atr.Created()), tr.Name())
		assert.True(t, tr.LastAltered().Equal(atr.LastAltered()), tr.Name())
	}
}
