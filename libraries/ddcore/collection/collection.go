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
	"fmt"
	"sort"

	"github.com/dolthub/dictionary/libraries/ddcore/object"
	"github.com/dolthub/dictionary/store/rowstore"
)

// Item is a dictionary object that can be owned by a Collection. Items are compared by identity, so T is expected
// to be a pointer type.
type Item interface {
	comparable
	object.Orderable
	object.Object
}

// Collection is an ordered set of child objects owned by one parent. Live items always carry an ordinal position
// equal to their 1-based index. Removed items are kept aside until they have been dropped from the backing store.
type Collection[T Item] struct {
	items   []T
	removed []T
}

// New returns an empty collection.
func New[T Item]() *Collection[T] {
	return &Collection[T]{}
}

// Size returns the number of live items.
func (c *Collection[T]) Size() int {
	return len(c.items)
}

// Empty returns true when there are neither live nor removed items.
func (c *Collection[T]) Empty() bool {
	return len(c.items) == 0 && len(c.removed) == 0
}

// At returns the live item at the 0-based index i. An out of range index panics.
func (c *Collection[T]) At(i int) T {
	c.checkIndex("At", i)
	return c.items[i]
}

func (c *Collection[T]) Front() T {
	return c.At(0)
}

func (c *Collection[T]) Back() T {
	return c.At(len(c.items) - 1)
}

// Items returns a copy of the live sequence.
func (c *Collection[T]) Items() []T {
	items := make([]T, len(c.items))
	copy(items, c.items)
	return items
}

// IndexOf returns the 0-based index of item in the live sequence or -1.
func (c *Collection[T]) IndexOf(item T) int {
	for i, it := range c.items {
		if it == item {
			return i
		}
	}
	return -1
}

// Contains returns whether item is live in this collection.
func (c *Collection[T]) Contains(item T) bool {
	return c.IndexOf(item) >= 0
}

// Find returns the first live item matching pred.
func (c *Collection[T]) Find(pred func(item T) bool) (T, bool) {
	for _, it := range c.items {
		if pred(it) {
			return it, true
		}
	}
	var zero T
	return zero, false
}

// Iter calls cb for each live item in order until cb returns true.
func (c *Collection[T]) Iter(cb func(item T) (stop bool)) {
	for _, it := range c.items {
		if cb(it) {
			return
		}
	}
}

// IterVisible is Iter, skipping items which report themselves as hidden.
func (c *Collection[T]) IterVisible(cb func(item T) (stop bool)) {
	c.Iter(func(item T) bool {
		if h, ok := any(item).(object.Hideable); ok && h.IsHidden() {
			return false
		}
		return cb(item)
	})
}

// PushBack appends item to the live sequence and returns it.
func (c *Collection[T]) PushBack(item T) T {
	c.items = append(c.items, item)
	item.SetOrdinalPosition(uint(len(c.items)))
	return item
}

// PushFront inserts item before every other live item and returns it.
func (c *Collection[T]) PushFront(item T) T {
	var zero T
	c.items = append(c.items, zero)
	copy(c.items[1:], c.items)
	c.items[0] = item
	c.renumber()
	return item
}

// Add builds a fresh item with factory and appends it.
func (c *Collection[T]) Add(factory func() T) T {
	return c.PushBack(factory())
}

// Move takes the live item at oldIdx and reinserts it at newIdx. Both are 0-based indexes into the live sequence,
// and an out of range index panics.
func (c *Collection[T]) Move(oldIdx, newIdx int) {
	c.checkIndex("Move", oldIdx)
	c.checkIndex("Move", newIdx)
	if oldIdx == newIdx {
		return
	}

	item := c.items[oldIdx]
	if oldIdx < newIdx {
		copy(c.items[oldIdx:newIdx], c.items[oldIdx+1:newIdx+1])
	} else {
		copy(c.items[newIdx+1:oldIdx+1], c.items[newIdx:oldIdx])
	}
	c.items[newIdx] = item
	c.renumber()
}

// Remove moves item from the live sequence to the removed items. Removing an item which is not live in this
// collection panics.
func (c *Collection[T]) Remove(item T) {
	i := c.IndexOf(item)
	if i < 0 {
		panic(fmt.Sprintf("%s '%s' is not a live item of this collection", item.ObjectType(), item.Name()))
	}

	copy(c.items[i:], c.items[i+1:])
	var zero T
	c.items[len(c.items)-1] = zero
	c.items = c.items[:len(c.items)-1]
	c.removed = append(c.removed, item)
	c.renumber()
}

// RemoveAll moves every live item to the removed items.
func (c *Collection[T]) RemoveAll() {
	c.removed = append(c.removed, c.items...)
	c.items = nil
}

func (c *Collection[T]) HasRemovedItems() bool {
	return len(c.removed) > 0
}

// ClearRemovedItems forgets the removed items without touching the backing store. It is used once their rows are
// known to be gone.
func (c *Collection[T]) ClearRemovedItems() {
	c.removed = nil
}

// SortItems orders the live sequence by less and renumbers it. The sort is stable, so items that compare equal
// keep their relative order.
func (c *Collection[T]) SortItems(less func(a, b T) bool) {
	sort.SliceStable(c.items, func(i, j int) bool {
		return less(c.items[i], c.items[j])
	})
	c.renumber()
}

// RestoreItems loads every row of def matching key. Each row is restored into a new item built by factory, which
// is responsible for attaching the item to its parent. When less is non-nil the restored items are sorted by it.
// Ordinal positions are always reassigned afterwards. On error the collection is left unchanged.
func (c *Collection[T]) RestoreItems(ctx context.Context, tx rowstore.Tx, def *rowstore.TableDef, key rowstore.Key, factory func() T, less func(a, b T) bool) error {
	if !c.Empty() {
		panic("RestoreItems called on a collection which is not empty")
	}

	tbl, err := tx.Table(def)
	if err != nil {
		return err
	}

	recs, err := tbl.Find(ctx, key)
	if err != nil {
		return err
	}

	restored := New[T]()
	for _, rec := range recs {
		item := factory()
		if err = object.RestoreFromRecord(ctx, tx, rec, item); err != nil {
			return err
		}
		restored.items = append(restored.items, item)
	}

	if less != nil {
		restored.SortItems(less)
	} else {
		restored.renumber()
	}

	c.items = restored.items
	return nil
}

// StoreItems drops the removed items, then stores every live item in order. The removed items are forgotten only
// once tx commits, so a rolled back store drops them again on the next attempt.
func (c *Collection[T]) StoreItems(ctx context.Context, tx rowstore.Tx) error {
	dropped := c.removed
	for _, item := range dropped {
		if err := object.Drop(ctx, tx, item); err != nil {
			return err
		}
	}
	if len(dropped) > 0 {
		rowstore.OnCommit(tx, func() { c.forget(dropped) })
	}

	for _, item := range c.items {
		if err := object.Store(ctx, tx, item); err != nil {
			return err
		}
	}
	return nil
}

// DropItems drops the children of every item, live or removed, and then deletes every row of def matching key.
func (c *Collection[T]) DropItems(ctx context.Context, tx rowstore.Tx, def *rowstore.TableDef, key rowstore.Key) error {
	for _, items := range [][]T{c.items, c.removed} {
		for _, item := range items {
			if !item.ID().IsValid() {
				continue
			}
			if err := item.DropChildren(ctx, tx); err != nil {
				return err
			}
		}
	}

	tbl, err := tx.Table(def)
	if err != nil {
		return err
	}
	_, err = tbl.DeleteMatching(ctx, key)
	return err
}

// forget removes dropped from the removed items, keeping any item removed since.
func (c *Collection[T]) forget(dropped []T) {
	gone := make(map[T]struct{}, len(dropped))
	for _, item := range dropped {
		gone[item] = struct{}{}
	}
	var kept []T
	for _, item := range c.removed {
		if _, ok := gone[item]; !ok {
			kept = append(kept, item)
		}
	}
	c.removed = kept
}

func (c *Collection[T]) renumber() {
	for i, it := range c.items {
		it.SetOrdinalPosition(uint(i + 1))
	}
}

func (c *Collection[T]) checkIndex(op string, i int) {
	if i < 0 || i >= len(c.items) {
		panic(fmt.Sprintf("%s: index %d out of range for collection of size %d", op, i, len(c.items)))
	}
}
