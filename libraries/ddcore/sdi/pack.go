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
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
	"github.com/golang/snappy"
	"gopkg.in/src-d/go-errors.v1"
)

const checksumSize = 8

var ErrChecksum = errors.NewKind("packed SDI checksum mismatch: expected %x, got %x")

// Pack compresses an SDI document for storage in a tablespace. The packed form is the xxhash64 of the document,
// big endian, followed by the snappy encoded document.
func Pack(doc []byte) []byte {
	packed := make([]byte, checksumSize, checksumSize+snappy.MaxEncodedLen(len(doc)))
	binary.BigEndian.PutUint64(packed, xxhash.Sum64(doc))
	return append(packed, snappy.Encode(nil, doc)...)
}

// Unpack reverses Pack, verifying the checksum of the decompressed document.
func Unpack(packed []byte) ([]byte, error) {
	if len(packed) < checksumSize {
		return nil, ErrInvalidSDI.New("packed document is truncated")
	}

	doc, err := snappy.Decode(nil, packed[checksumSize:])
	if err != nil {
		return nil, ErrInvalidSDI.Wrap(err, "cannot decompress packed document")
	}

	expected := binary.BigEndian.Uint64(packed)
	if actual := xxhash.Sum64(doc); actual != expected {
		return nil, ErrChecksum.New(expected, actual)
	}
	return doc, nil
}
