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

package object

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dolthub/dictionary/store/rowstore"
)

var thingDef = &rowstore.TableDef{
	Name: "things",
	Fields: []rowstore.FieldDef{
		{Name: "name", Kind: rowstore.StringKind},
		{Name: "options", Kind: rowstore.StringKind},
	},
}

type thing struct {
	Entity
	options      string
	restored     []string
	droppedKids  int
	storedKids   int
	failValidate bool
}

var _ Object = (*thing)(nil)

func (th *thing) ObjectType() string              { return "thing" }
func (th *thing) ObjectTable() *rowstore.TableDef { return thingDef }

func (th *thing) Validate() error {
	if th.failValidate {
		return Invalid(th, "told to fail")
	}
	return nil
}

func (th *thing) RestoreAttributes(rec *rowstore.Record) error {
	th.SetName(rec.String(0))
	if _, err := ParseProperties(th, "options", rec.String(1)); err != nil {
		return err
	}
	th.options = rec.String(1)
	th.restored = append(th.restored, "attributes")
	return nil
}

func (th *thing) RestoreChildren(context.Context, rowstore.Tx) error {
	th.restored = append(th.restored, "children")
	return nil
}

func (th *thing) StoreAttributes(rec *rowstore.Record) error {
	rec.SetString(0, th.Name())
	rec.SetString(1, th.options)
	return nil
}

func (th *thing) StoreChildren(context.Context, rowstore.Tx) error {
	th.storedKids++
	return nil
}

func (th *thing) DropChildren(context.Context, rowstore.Tx) error {
	th.droppedKids++
	return nil
}

func newThingStore(t *testing.T) rowstore.Store {
	s := rowstore.NewMemStore()
	require.NoError(t, s.Init(context.Background(), thingDef))
	return s
}

func TestStoreRestoreDrop(t *testing.T) {
	ctx := context.Background()
	s := newThingStore(t)

	th := &thing{options: "a=1;"}
	th.SetName("t1")
	assert.False(t, th.ID().IsValid())

	require.NoError(t, rowstore.Update(ctx, s, func(tx rowstore.Tx) error {
		return Store(ctx, tx, th)
	}))
	require.True(t, th.ID().IsValid())
	assert.Equal(t, 1, th.storedKids)
	id := th.ID()

	// a second store updates in place
	th.SetName("t1-renamed")
	require.NoError(t, rowstore.Update(ctx, s, func(tx rowstore.Tx) error {
		return Store(ctx, tx, th)
	}))
	assert.Equal(t, id, th.ID())

	restored := &thing{}
	require.NoError(t, rowstore.View(ctx, s, func(tx rowstore.Tx) error {
		return Restore(ctx, tx, id, restored)
	}))
	assert.Equal(t, id, restored.ID())
	assert.Equal(t, "t1-renamed", restored.Name())
	assert.Equal(t, "a=1;", restored.options)
	assert.Equal(t, []string{"attributes", "children"}, restored.restored)

	require.NoError(t, rowstore.Update(ctx, s, func(tx rowstore.Tx) error {
		return Drop(ctx, tx, restored)
	}))
	assert.Equal(t, 1, restored.droppedKids)

	err := rowstore.View(ctx, s, func(tx rowstore.Tx) error {
		return Restore(ctx, tx, id, &thing{})
	})
	assert.True(t, ErrObjectNotFound.Is(err), "unexpected error %v", err)
}

func TestStoreRequiresValidation(t *testing.T) {
	ctx := context.Background()
	s := newThingStore(t)

	th := &thing{failValidate: true}
	th.SetName("bad")
	err := rowstore.Update(ctx, s, func(tx rowstore.Tx) error {
		return Store(ctx, tx, th)
	})
	assert.True(t, ErrValidation.Is(err))
	assert.False(t, th.ID().IsValid())
	assert.Equal(t, 0, th.storedKids)
}

func TestDropNeverStored(t *testing.T) {
	th := &thing{}
	require.NoError(t, Drop(context.Background(), nil, th))
	assert.Equal(t, 0, th.droppedKids)
}

func TestRestoreBadProperties(t *testing.T) {
	ctx := context.Background()
	s := newThingStore(t)

	th := &thing{options: "not a pair"}
	th.SetName("t")
	require.NoError(t, rowstore.Update(ctx, s, func(tx rowstore.Tx) error {
		return Store(ctx, tx, th)
	}))

	err := rowstore.View(ctx, s, func(tx rowstore.Tx) error {
		return Restore(ctx, tx, th.ID(), &thing{})
	})
	assert.True(t, ErrBadProperties.Is(err), "unexpected error %v", err)
}

func TestCheckParentConsistency(t *testing.T) {
	parent := &thing{}
	parent.SetName("p")
	parent.SetID(5)
	child := &thing{}
	child.SetName("c")

	assert.NoError(t, CheckParentConsistency(child, parent, 5))
	assert.True(t, ErrParentMismatch.Is(CheckParentConsistency(child, parent, 6)))
	assert.True(t, ErrParentMismatch.Is(CheckParentConsistency(child, nil, 5)))
}

func TestOrdinal(t *testing.T) {
	var o Ordinal
	assert.Equal(t, uint(0), o.OrdinalPosition())
	o.SetOrdinalPosition(3)
	assert.Equal(t, uint(3), o.OrdinalPosition())
}
