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
	"fmt"

	"gopkg.in/src-d/go-errors.v1"

	"github.com/dolthub/dictionary/libraries/ddcore/properties"
)

var (
	// ErrParentMismatch is returned when a restored row belongs to a different parent than the in-memory one.
	ErrParentMismatch = errors.NewKind("%s '%s' belongs to parent %d, not to %s '%s' (%d)")
	// ErrValidation is returned by Validate when an object may not be stored.
	ErrValidation = errors.NewKind("invalid %s '%s': %s")
	// ErrReferenceNotFound is returned when a cross reference cannot be resolved while restoring.
	ErrReferenceNotFound = errors.NewKind("%s '%s' references unknown %s %d")
	// ErrObjectNotFound is returned when restoring an object whose row does not exist.
	ErrObjectNotFound = errors.NewKind("%s %d not found")
	// ErrBadProperties is returned when a properties field of a row cannot be parsed.
	ErrBadProperties = errors.NewKind("cannot restore %s of %s '%s'")
)

// CheckParentConsistency verifies that the parent id read from a child's row is the id of the parent the child
// is being restored under. It guards against attaching a child to the wrong parent.
func CheckParentConsistency(child Object, parent Object, rowParentID uint64) error {
	if parent == nil {
		return ErrParentMismatch.New(child.ObjectType(), child.Name(), rowParentID, "<none>", "", 0)
	}
	if uint64(parent.ID()) != rowParentID {
		return ErrParentMismatch.New(child.ObjectType(), child.Name(), rowParentID, parent.ObjectType(), parent.Name(), parent.ID())
	}
	return nil
}

// Invalid builds a validation error for obj.
func Invalid(obj Object, format string, args ...interface{}) error {
	return ErrValidation.New(obj.ObjectType(), obj.Name(), fmt.Sprintf(format, args...))
}

// ParseProperties parses a raw properties field of obj's row, restricted to validKeys when any are given. A parse
// failure fails the restore as a whole.
func ParseProperties(obj Object, field, raw string, validKeys ...string) (*properties.Properties, error) {
	p, err := properties.ParseWithKeys(raw, validKeys...)
	if err != nil {
		return nil, ErrBadProperties.Wrap(err, field, obj.ObjectType(), obj.Name())
	}
	return p, nil
}
