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

// Package ddcache keeps recently acquired dictionary tables in memory. Cached tables are shared between readers and
// must not be modified.
package ddcache

import (
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/dolthub/dictionary/libraries/ddcore/dictionary"
	"github.com/dolthub/dictionary/libraries/ddcore/object"
)

const DefaultSize = 256

// TableCache is an LRU cache of stored tables by object id.
type TableCache struct {
	mu   sync.Mutex
	lru  *lru.Cache[object.ID, *dictionary.Table]
	hits uint64
	miss uint64
	// epoch counts invalidations. A table restored across an invalidation may be stale.
	epoch uint64
}

// New returns a cache holding at most size tables.
func New(size int) (*TableCache, error) {
	l, err := lru.New[object.ID, *dictionary.Table](size)
	if err != nil {
		return nil, err
	}
	return &TableCache{lru: l}, nil
}

func (c *TableCache) Get(id object.ID) (*dictionary.Table, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	tbl, ok := c.lru.Get(id)
	if ok {
		c.hits++
	} else {
		c.miss++
	}
	return tbl, ok
}

// Put caches a stored table. Tables without an id are ignored.
func (c *TableCache) Put(tbl *dictionary.Table) {
	if !tbl.ID().IsValid() {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.lru.Add(tbl.ID(), tbl)
}

// Epoch returns the current invalidation count. Read it before restoring a table and pass it to PutIfCurrent.
func (c *TableCache) Epoch() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.epoch
}

// PutIfCurrent caches tbl unless the cache was invalidated after epoch was read. It returns whether tbl was
// cached.
func (c *TableCache) PutIfCurrent(tbl *dictionary.Table, epoch uint64) bool {
	if !tbl.ID().IsValid() {
		return false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.epoch != epoch {
		return false
	}
	c.lru.Add(tbl.ID(), tbl)
	return true
}

// Invalidate removes the table with the given id, if cached.
func (c *TableCache) Invalidate(id object.ID) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.epoch++
	c.lru.Remove(id)
}

func (c *TableCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.lru.Len()
}

// Stats returns the number of cache hits and misses since the cache was created.
func (c *TableCache) Stats() (hits, misses uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.hits, c.miss
}

func (c *TableCache) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.epoch++
	c.lru.Purge()
}
