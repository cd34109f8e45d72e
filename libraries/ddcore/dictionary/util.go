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

package dictionary

import (
	"github.com/dolthub/dictionary/libraries/ddcore/object"
	"github.com/dolthub/dictionary/store/rowstore"
)

func byOrdinal[T object.Orderable](a, b T) bool {
	return a.OrdinalPosition() < b.OrdinalPosition()
}

// nullableUint reads a nullable id field where NULL means 0.
func nullableUint(rec *rowstore.Record, idx int) uint64 {
	if rec.IsNull(idx) {
		return 0
	}
	return rec.Uint(idx)
}

func setNullableUint(rec *rowstore.Record, idx int, v uint64) {
	if v == 0 {
		rec.SetNull(idx)
	} else {
		rec.SetUint(idx, v)
	}
}
