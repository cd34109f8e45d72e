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

// Package properties implements the key=value attribute bags attached to dictionary objects, and the escaped
// string format they are persisted in.
package properties

import (
	"fmt"
	"strings"

	"github.com/google/btree"
	"gopkg.in/src-d/go-errors.v1"
)

var (
	ErrInvalidFormat = errors.NewKind("invalid properties string %q: %s")
	ErrKeyNotFound   = errors.NewKind("property %q does not exist")
	ErrInvalidKey    = errors.NewKind("property %q is not a valid key")
	ErrEmptyKey      = errors.NewKind("property keys cannot be empty")
	ErrNotEmpty      = errors.NewKind("cannot assign to a non-empty properties object")
	ErrConversion    = errors.NewKind("cannot convert %q to %s")
)

const treeDegree = 8

type pair struct {
	key   string
	value string
}

func lessPair(a, b pair) bool {
	return a.key < b.key
}

// Properties is an ordered string to string map. Keys are unique and never empty. Iteration and the raw string
// form are in key order, so equal contents always produce the same raw string.
//
// A Properties may be restricted to a fixed set of valid keys, in which case setting or parsing any other key fails.
type Properties struct {
	pairs     *btree.BTreeG[pair]
	validKeys map[string]struct{}
}

// New returns an empty Properties accepting any key.
func New() *Properties {
	return &Properties{pairs: btree.NewG[pair](treeDegree, lessPair)}
}

// NewWithKeys returns an empty Properties accepting only the given keys.
func NewWithKeys(keys ...string) *Properties {
	p := New()
	if len(keys) > 0 {
		p.validKeys = make(map[string]struct{}, len(keys))
		for _, k := range keys {
			p.validKeys[k] = struct{}{}
		}
	}
	return p
}

func (p *Properties) tree() *btree.BTreeG[pair] {
	if p.pairs == nil {
		p.pairs = btree.NewG[pair](treeDegree, lessPair)
	}
	return p.pairs
}

// ValidKey returns whether key may be stored in this Properties.
func (p *Properties) ValidKey(key string) bool {
	if key == "" {
		return false
	}
	if p.validKeys == nil {
		return true
	}
	_, ok := p.validKeys[key]
	return ok
}

func (p *Properties) Size() int {
	if p == nil || p.pairs == nil {
		return 0
	}
	return p.pairs.Len()
}

func (p *Properties) Empty() bool {
	return p.Size() == 0
}

// Clear removes every pair. The valid key set is kept.
func (p *Properties) Clear() {
	p.tree().Clear(false)
}

func (p *Properties) Exists(key string) bool {
	_, ok := p.Get(key)
	return ok
}

// Get returns the value for key and whether it exists.
func (p *Properties) Get(key string) (string, bool) {
	if p.Size() == 0 {
		return "", false
	}
	pr, ok := p.pairs.Get(pair{key: key})
	return pr.value, ok
}

// Value returns the value for a key which must exist. Asking for a missing key is a programming error and panics;
// use Get for a key which may be absent.
func (p *Properties) Value(key string) string {
	v, ok := p.Get(key)
	if !ok {
		panic(fmt.Sprintf("property %q does not exist", key))
	}
	return v
}

// Set inserts or replaces the value of key. An empty key, or one outside the valid key set, is silently ignored.
func (p *Properties) Set(key, value string) {
	_ = p.SetChecked(key, value)
}

// SetChecked is Set which reports keys it refuses to store.
func (p *Properties) SetChecked(key, value string) error {
	if key == "" {
		return ErrEmptyKey.New()
	}
	if !p.ValidKey(key) {
		return ErrInvalidKey.New(key)
	}
	p.tree().ReplaceOrInsert(pair{key: key, value: value})
	return nil
}

// Remove deletes key and returns whether it existed.
func (p *Properties) Remove(key string) bool {
	if p.Size() == 0 {
		return false
	}
	_, ok := p.pairs.Delete(pair{key: key})
	return ok
}

// Iter calls cb for every pair in key order until cb returns true.
func (p *Properties) Iter(cb func(key, value string) (stop bool)) {
	if p.Size() == 0 {
		return
	}
	p.pairs.Ascend(func(pr pair) bool {
		return !cb(pr.key, pr.value)
	})
}

// Keys returns the keys in order.
func (p *Properties) Keys() []string {
	keys := make([]string, 0, p.Size())
	p.Iter(func(key, _ string) bool {
		keys = append(keys, key)
		return false
	})
	return keys
}

// Map returns a copy of the contents as a map.
func (p *Properties) Map() map[string]string {
	m := make(map[string]string, p.Size())
	p.Iter(func(key, value string) bool {
		m[key] = value
		return false
	})
	return m
}

// RawString returns the persisted form of p: every pair escaped and terminated by ';'.
func (p *Properties) RawString() string {
	var sb strings.Builder
	p.Iter(func(key, value string) bool {
		escape(&sb, key)
		sb.WriteByte(assignChar)
		escape(&sb, value)
		sb.WriteByte(sepChar)
		return false
	})
	return sb.String()
}

func (p *Properties) String() string {
	return p.RawString()
}

// Assign copies every pair of other into p, which must be empty.
func (p *Properties) Assign(other *Properties) error {
	if !p.Empty() {
		return ErrNotEmpty.New()
	}

	var err error
	other.Iter(func(key, value string) bool {
		err = p.SetChecked(key, value)
		return err != nil
	})
	if err != nil {
		p.Clear()
	}
	return err
}

// Clone returns a deep copy of p, including its valid key set.
func (p *Properties) Clone() *Properties {
	c := New()
	if p.validKeys != nil {
		c.validKeys = make(map[string]struct{}, len(p.validKeys))
		for k := range p.validKeys {
			c.validKeys[k] = struct{}{}
		}
	}
	if p.Size() > 0 {
		c.pairs = p.pairs.Clone()
	}
	return c
}

// Equals returns whether both objects hold the same pairs.
func (p *Properties) Equals(other *Properties) bool {
	if p.Size() != other.Size() {
		return false
	}
	equal := true
	p.Iter(func(key, value string) bool {
		ov, ok := other.Get(key)
		equal = ok && ov == value
		return !equal
	})
	return equal
}

func (p *Properties) GetInt64(key string) (int64, error) {
	v, ok := p.Get(key)
	if !ok {
		return 0, ErrKeyNotFound.New(key)
	}
	return ToInt64(v)
}

func (p *Properties) GetUint64(key string) (uint64, error) {
	v, ok := p.Get(key)
	if !ok {
		return 0, ErrKeyNotFound.New(key)
	}
	return ToUint64(v)
}

func (p *Properties) GetInt32(key string) (int32, error) {
	v, ok := p.Get(key)
	if !ok {
		return 0, ErrKeyNotFound.New(key)
	}
	return ToInt32(v)
}

func (p *Properties) GetUint32(key string) (uint32, error) {
	v, ok := p.Get(key)
	if !ok {
		return 0, ErrKeyNotFound.New(key)
	}
	return ToUint32(v)
}

func (p *Properties) GetBool(key string) (bool, error) {
	v, ok := p.Get(key)
	if !ok {
		return false, ErrKeyNotFound.New(key)
	}
	return ToBool(v)
}

func (p *Properties) SetInt64(key string, v int64) {
	p.Set(key, FromInt64(v))
}

func (p *Properties) SetUint64(key string, v uint64) {
	p.Set(key, FromUint64(v))
}

func (p *Properties) SetInt32(key string, v int32) {
	p.Set(key, FromInt64(int64(v)))
}

func (p *Properties) SetUint32(key string, v uint32) {
	p.Set(key, FromUint64(uint64(v)))
}

func (p *Properties) SetBool(key string, v bool) {
	p.Set(key, FromBool(v))
}
