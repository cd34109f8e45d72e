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

package collection

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dolthub/dictionary/libraries/ddcore/object"
	"github.com/dolthub/dictionary/store/rowstore"
)

const (
	widgetParentID = iota
	widgetName
	widgetOrdinal
	widgetHidden
	widgetWeight
)

var widgetDef = &rowstore.TableDef{
	Name: "widgets",
	Fields: []rowstore.FieldDef{
		{Name: "parent_id", Kind: rowstore.UintKind},
		{Name: "name", Kind: rowstore.StringKind},
		{Name: "ordinal_position", Kind: rowstore.UintKind},
		{Name: "hidden", Kind: rowstore.BoolKind},
		{Name: "weight", Kind: rowstore.IntKind},
	},
}

type widget struct {
	object.Entity
	object.Ordinal
	parentID uint64
	hidden   bool
	weight   int64
}

var _ object.Object = (*widget)(nil)

func newWidget(parentID uint64, name string) *widget {
	w := &widget{parentID: parentID}
	w.SetName(name)
	return w
}

func (w *widget) ObjectType() string              { return "widget" }
func (w *widget) ObjectTable() *rowstore.TableDef { return widgetDef }
func (w *widget) IsHidden() bool                  { return w.hidden }

func (w *widget) Validate() error {
	if w.Name() == "" {
		return object.Invalid(w, "name is empty")
	}
	return nil
}

func (w *widget) RestoreAttributes(rec *rowstore.Record) error {
	if rec.Uint(widgetParentID) != w.parentID {
		return object.ErrParentMismatch.New(w.ObjectType(), rec.String(widgetName), rec.Uint(widgetParentID), "parent", "", w.parentID)
	}
	w.SetName(rec.String(widgetName))
	w.SetOrdinalPosition(uint(rec.Uint(widgetOrdinal)))
	w.hidden = rec.Bool(widgetHidden)
	w.weight = rec.Int(widgetWeight)
	return nil
}

func (w *widget) RestoreChildren(context.Context, rowstore.Tx) error { return nil }

func (w *widget) StoreAttributes(rec *rowstore.Record) error {
	rec.SetUint(widgetParentID, w.parentID)
	rec.SetString(widgetName, w.Name())
	rec.SetUint(widgetOrdinal, uint64(w.OrdinalPosition()))
	rec.SetBool(widgetHidden, w.hidden)
	rec.SetInt(widgetWeight, w.weight)
	return nil
}

func (w *widget) StoreChildren(context.Context, rowstore.Tx) error { return nil }
func (w *widget) DropChildren(context.Context, rowstore.Tx) error  { return nil }

func names(c *Collection[*widget]) []string {
	var res []string
	c.Iter(func(w *widget) bool {
		res = append(res, w.Name())
		return false
	})
	return res
}

func requireOrdinals(t *testing.T, c *Collection[*widget]) {
	for i := 0; i < c.Size(); i++ {
		require.Equal(t, uint(i+1), c.At(i).OrdinalPosition(), "item %d (%s)", i, c.At(i).Name())
	}
}

func abcd() *Collection[*widget] {
	c := New[*widget]()
	for _, n := range []string{"A", "B", "C", "D"} {
		c.PushBack(newWidget(1, n))
	}
	return c
}

func TestOrdinalStability(t *testing.T) {
	c := abcd()
	requireOrdinals(t, c)

	c.PushFront(newWidget(1, "Z"))
	assert.Equal(t, []string{"Z", "A", "B", "C", "D"}, names(c))
	requireOrdinals(t, c)

	c.Move(4, 1)
	assert.Equal(t, []string{"Z", "D", "A", "B", "C"}, names(c))
	requireOrdinals(t, c)

	c.Remove(c.At(2))
	assert.Equal(t, []string{"Z", "D", "B", "C"}, names(c))
	requireOrdinals(t, c)

	c.SortItems(func(a, b *widget) bool { return a.Name() < b.Name() })
	assert.Equal(t, []string{"B", "C", "D", "Z"}, names(c))
	requireOrdinals(t, c)

	added := c.Add(func() *widget { return newWidget(1, "E") })
	assert.Equal(t, uint(5), added.OrdinalPosition())
	assert.Same(t, added, c.Back())
}

func TestMove(t *testing.T) {
	c := abcd()
	c.Move(0, 2)
	assert.Equal(t, []string{"B", "C", "A", "D"}, names(c))
	requireOrdinals(t, c)

	c = abcd()
	c.Move(3, 0)
	assert.Equal(t, []string{"D", "A", "B", "C"}, names(c))
	requireOrdinals(t, c)

	c = abcd()
	c.Move(1, 1)
	assert.Equal(t, []string{"A", "B", "C", "D"}, names(c))
}

func TestRemoveIsSoftDelete(t *testing.T) {
	c := abcd()
	b := c.At(1)
	d := c.At(3)

	c.Remove(b)
	assert.Equal(t, 3, c.Size())
	assert.True(t, c.HasRemovedItems())
	assert.False(t, c.Contains(b))
	assert.NotContains(t, names(c), "B")
	assert.Equal(t, uint(3), d.OrdinalPosition())

	c.ClearRemovedItems()
	assert.False(t, c.HasRemovedItems())
	assert.False(t, c.Empty())
}

func TestRemoveClearsVacatedSlot(t *testing.T) {
	c := abcd()
	n := c.Size()
	c.Remove(c.At(1))

	backing := c.items[:n]
	assert.Nil(t, backing[n-1])
	assert.Equal(t, []string{"A", "C", "D"}, names(c))
}

func TestRemoveByIdentity(t *testing.T) {
	c := New[*widget]()
	first := c.PushBack(newWidget(1, "same"))
	second := c.PushBack(newWidget(1, "same"))

	c.Remove(second)
	require.Equal(t, 1, c.Size())
	assert.Same(t, first, c.Front())
}

func TestRemoveAll(t *testing.T) {
	c := abcd()
	c.RemoveAll()
	assert.Equal(t, 0, c.Size())
	assert.True(t, c.HasRemovedItems())
	assert.False(t, c.Empty())

	c.ClearRemovedItems()
	assert.True(t, c.Empty())
}

func TestSortItemsIsStable(t *testing.T) {
	c := New[*widget]()
	for i, n := range []string{"a1", "b1", "a2", "b2", "a3"} {
		w := newWidget(1, n)
		w.weight = int64(i % 2)
		c.PushBack(w)
	}

	c.SortItems(func(a, b *widget) bool { return a.weight < b.weight })
	assert.Equal(t, []string{"a1", "a2", "a3", "b1", "b2"}, names(c))
	requireOrdinals(t, c)
}

func TestIterVisible(t *testing.T) {
	c := abcd()
	c.At(1).hidden = true

	var visible []string
	c.IterVisible(func(w *widget) bool {
		visible = append(visible, w.Name())
		return false
	})
	assert.Equal(t, []string{"A", "C", "D"}, visible)

	var first []string
	c.Iter(func(w *widget) bool {
		first = append(first, w.Name())
		return len(first) == 2
	})
	assert.Equal(t, []string{"A", "B"}, first)
}

func TestContractViolationsPanic(t *testing.T) {
	c := abcd()
	assert.Panics(t, func() { c.At(-1) })
	assert.Panics(t, func() { c.At(4) })
	assert.Panics(t, func() { c.Move(0, 4) })
	assert.Panics(t, func() { c.Move(-1, 0) })
	assert.Panics(t, func() { c.Remove(newWidget(1, "A")) })
	assert.Panics(t, func() { New[*widget]().Front() })

	assert.Panics(t, func() {
		_ = c.RestoreItems(context.Background(), nil, widgetDef, rowstore.NewParentKey(widgetParentID, 1), nil, nil)
	})
}

func newTestStore(t *testing.T) rowstore.Store {
	s := rowstore.NewMemStore()
	require.NoError(t, s.Init(context.Background(), widgetDef))
	return s
}

func storeWidgets(t *testing.T, s rowstore.Store, parentID uint64, names ...string) *Collection[*widget] {
	c := New[*widget]()
	for _, n := range names {
		c.PushBack(newWidget(parentID, n))
	}
	err := rowstore.Update(context.Background(), s, func(tx rowstore.Tx) error {
		return c.StoreItems(context.Background(), tx)
	})
	require.NoError(t, err)
	return c
}

func restoreWidgets(t *testing.T, s rowstore.Store, parentID uint64, less func(a, b *widget) bool) (*Collection[*widget], error) {
	c := New[*widget]()
	err := rowstore.View(context.Background(), s, func(tx rowstore.Tx) error {
		return c.RestoreItems(context.Background(), tx, widgetDef, rowstore.NewParentKey(widgetParentID, parentID), func() *widget {
			return &widget{parentID: parentID}
		}, less)
	})
	return c, err
}

func TestStoreAndRestoreItems(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	stored := storeWidgets(t, s, 7, "c", "a", "b")
	storeWidgets(t, s, 8, "other")

	stored.Iter(func(w *widget) bool {
		assert.True(t, w.ID().IsValid())
		return false
	})

	restored, err := restoreWidgets(t, s, 7, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "a", "b"}, names(restored))
	for i := 0; i < restored.Size(); i++ {
		assert.Equal(t, stored.At(i).ID(), restored.At(i).ID())
	}

	sorted, err := restoreWidgets(t, s, 7, func(a, b *widget) bool { return a.Name() < b.Name() })
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, names(sorted))
	requireOrdinals(t, sorted)

	// a removed item is dropped by the next store and the survivors are renumbered
	sorted.Remove(sorted.At(0))
	err = rowstore.Update(ctx, s, func(tx rowstore.Tx) error {
		return sorted.StoreItems(ctx, tx)
	})
	require.NoError(t, err)
	assert.False(t, sorted.HasRemovedItems())

	again, err := restoreWidgets(t, s, 7, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "b"}, names(again))
	var ordinals []uint
	again.Iter(func(w *widget) bool {
		ordinals = append(ordinals, w.OrdinalPosition())
		return false
	})
	assert.Equal(t, []uint{1, 2}, ordinals)
}

func TestDropItems(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	c := storeWidgets(t, s, 7, "a", "b")
	storeWidgets(t, s, 8, "other")

	err := rowstore.Update(ctx, s, func(tx rowstore.Tx) error {
		return c.DropItems(ctx, tx, widgetDef, rowstore.NewParentKey(widgetParentID, 7))
	})
	require.NoError(t, err)

	gone, err := restoreWidgets(t, s, 7, nil)
	require.NoError(t, err)
	assert.True(t, gone.Empty())

	kept, err := restoreWidgets(t, s, 8, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"other"}, names(kept))
}

func TestRestoreItemsFailsAtomically(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	storeWidgets(t, s, 7, "a", "b")

	// an empty name fails validation during restore
	err := rowstore.Update(ctx, s, func(tx rowstore.Tx) error {
		tbl, err := tx.Table(widgetDef)
		if err != nil {
			return err
		}
		rec := widgetDef.NewRecord()
		rec.SetUint(widgetParentID, 7)
		_, err = tbl.Insert(ctx, rec)
		return err
	})
	require.NoError(t, err)

	c, err := restoreWidgets(t, s, 7, nil)
	assert.True(t, object.ErrValidation.Is(err), "unexpected error %v", err)
	assert.True(t, c.Empty())
}

func TestStoreItemsValidates(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	c := New[*widget]()
	c.PushBack(newWidget(7, ""))
	err := rowstore.Update(ctx, s, func(tx rowstore.Tx) error {
		return c.StoreItems(ctx, tx)
	})
	assert.True(t, object.ErrValidation.Is(err))

	restored, err := restoreWidgets(t, s, 7, nil)
	require.NoError(t, err)
	assert.True(t, restored.Empty())
}

func TestFailedStoreKeepsRemovedItems(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	c := storeWidgets(t, s, 7, "a", "b")
	c.Remove(c.At(1))

	errAbort := errors.New("abort")
	err := rowstore.Update(ctx, s, func(tx rowstore.Tx) error {
		if err := c.StoreItems(ctx, tx); err != nil {
			return err
		}
		return errAbort
	})
	require.ErrorIs(t, err, errAbort)
	assert.True(t, c.HasRemovedItems())

	restored, err := restoreWidgets(t, s, 7, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, names(restored))

	err = rowstore.Update(ctx, s, func(tx rowstore.Tx) error {
		return c.StoreItems(ctx, tx)
	})
	require.NoError(t, err)
	assert.False(t, c.HasRemovedItems())

	restored, err = restoreWidgets(t, s, 7, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, names(restored))
}

func TestFailedStoreTakesBackIDs(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	c := storeWidgets(t, s, 7, "a")
	kept := c.At(0).ID()
	added := c.PushBack(newWidget(7, "b"))
	c.PushBack(newWidget(7, ""))

	err := rowstore.Update(ctx, s, func(tx rowstore.Tx) error {
		return c.StoreItems(ctx, tx)
	})
	require.True(t, object.ErrValidation.Is(err), "unexpected error %v", err)
	assert.False(t, added.ID().IsValid())
	assert.Equal(t, kept, c.At(0).ID())

	c.Remove(c.At(2))
	err = rowstore.Update(ctx, s, func(tx rowstore.Tx) error {
		return c.StoreItems(ctx, tx)
	})
	require.NoError(t, err)
	assert.True(t, added.ID().IsValid())
	assert.False(t, c.HasRemovedItems())

	restored, err := restoreWidgets(t, s, 7, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, names(restored))
}

func TestRemovedSinceStoreIsKept(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	c := storeWidgets(t, s, 7, "a", "b", "c")
	c.Remove(c.At(0))

	err := rowstore.Update(ctx, s, func(tx rowstore.Tx) error {
		if err := c.StoreItems(ctx, tx); err != nil {
			return err
		}
		// removed while the transaction is still open
		c.Remove(c.At(0))
		return nil
	})
	require.NoError(t, err)
	require.True(t, c.HasRemovedItems())
	assert.Equal(t, []string{"c"}, names(c))

	restored, err := restoreWidgets(t, s, 7, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "c"}, names(restored))
}
