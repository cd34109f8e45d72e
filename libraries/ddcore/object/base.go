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

// Entity holds the identity shared by every dictionary object. Embed it to get Identifiable.
type Entity struct {
	id   ID
	name string
}

func (e *Entity) ID() ID {
	return e.id
}

func (e *Entity) SetID(id ID) {
	e.id = id
}

func (e *Entity) Name() string {
	return e.name
}

func (e *Entity) SetName(name string) {
	e.name = name
}

// Ordinal holds a position within an owning collection. Embed it to get Orderable.
type Ordinal struct {
	pos uint
}

func (o *Ordinal) OrdinalPosition() uint {
	return o.pos
}

func (o *Ordinal) SetOrdinalPosition(pos uint) {
	o.pos = pos
}
