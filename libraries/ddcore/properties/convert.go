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

package properties

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

// ToInt64 parses a decimal string.
func ToInt64(s string) (int64, error) {
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, ErrConversion.New(s, "int64")
	}
	return v, nil
}

// ToUint64 parses a decimal string in the signed domain first so that negative input is reported as a sign
// mismatch rather than a syntax error. Values above math.MaxInt64 fall through to an unsigned parse.
func ToUint64(s string) (uint64, error) {
	v, err := strconv.ParseInt(s, 10, 64)
	if err == nil {
		if v < 0 {
			return 0, ErrConversion.New(s, "uint64")
		}
		return uint64(v), nil
	}

	if errors.Is(err, strconv.ErrRange) && !strings.HasPrefix(s, "-") {
		u, err := strconv.ParseUint(s, 10, 64)
		if err == nil {
			return u, nil
		}
	}
	return 0, ErrConversion.New(s, "uint64")
}

func ToInt32(s string) (int32, error) {
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil || v < math.MinInt32 || v > math.MaxInt32 {
		return 0, ErrConversion.New(s, "int32")
	}
	return int32(v), nil
}

func ToUint32(s string) (uint32, error) {
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil || v < 0 || v > math.MaxUint32 {
		return 0, ErrConversion.New(s, "uint32")
	}
	return uint32(v), nil
}

// ToBool accepts "true" and "false", and otherwise any 64 bit integer, which is true when non-zero.
func ToBool(s string) (bool, error) {
	switch s {
	case "true":
		return true, nil
	case "false":
		return false, nil
	}

	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		return v != 0, nil
	}
	if v, err := strconv.ParseUint(s, 10, 64); err == nil {
		return v != 0, nil
	}
	return false, ErrConversion.New(s, "bool")
}

func FromInt64(v int64) string {
	return strconv.FormatInt(v, 10)
}

func FromUint64(v uint64) string {
	return strconv.FormatUint(v, 10)
}

func FromBool(v bool) string {
	if v {
		return "true"
	}
	return "false"
}
