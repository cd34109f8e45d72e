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
	"strings"
)

const (
	escapeChar = '\\'
	assignChar = '='
	sepChar    = ';'
)

func isSpecial(c byte) bool {
	return c == escapeChar || c == assignChar || c == sepChar
}

// escape appends src to dst, putting an escape character in front of every special character.
func escape(dst *strings.Builder, src string) {
	for i := 0; i < len(src); i++ {
		if isSpecial(src[i]) {
			dst.WriteByte(escapeChar)
		}
		dst.WriteByte(src[i])
	}
}

// Escape returns s with one layer of escaping added.
func Escape(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))
	escape(&sb, s)
	return sb.String()
}

// Unescape removes one layer of escaping. An escape character must be followed by one of the special characters.
func Unescape(s string) (string, error) {
	if strings.IndexByte(s, escapeChar) < 0 {
		return s, nil
	}

	var sb strings.Builder
	sb.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == escapeChar {
			if i+1 >= len(s) || !isSpecial(s[i+1]) {
				return "", ErrInvalidFormat.New(s, "dangling escape character")
			}
			i++
			c = s[i]
		}
		sb.WriteByte(c)
	}
	return sb.String(), nil
}

// eatTo returns the position of the first unescaped stop character in s at or after pos. An unescaped occurrence of
// the other separator is an error. Running out of input is fine when looking for the pair separator, since the
// last pair does not need one, but not when looking for the assignment.
func eatTo(s string, pos int, stop byte) (int, error) {
	other := byte(sepChar)
	if stop == sepChar {
		other = assignChar
	}

	for pos < len(s) {
		switch c := s[pos]; {
		case c == stop:
			return pos, nil
		case c == other:
			return pos, ErrInvalidFormat.New(s, "unexpected '"+string(other)+"'")
		case c == escapeChar:
			if pos+1 >= len(s) || !isSpecial(s[pos+1]) {
				return pos, ErrInvalidFormat.New(s, "dangling escape character")
			}
			pos += 2
		default:
			pos++
		}
	}

	if stop == sepChar {
		return pos, nil
	}
	return pos, ErrInvalidFormat.New(s, "missing '='")
}

// eatStr reads the unescaped string from pos up to the next stop character and returns it together with the
// position following the stop character.
func eatStr(s string, pos int, stop byte) (string, int, error) {
	end, err := eatTo(s, pos, stop)
	if err != nil {
		return "", pos, err
	}

	str, err := Unescape(s[pos:end])
	if err != nil {
		return "", pos, err
	}

	if end < len(s) {
		end++
	}
	return str, end, nil
}

// eatPairs consumes key=value pairs until the end of s, adding them to p.
func eatPairs(s string, p *Properties) error {
	pos := 0
	for pos < len(s) {
		key, next, err := eatStr(s, pos, assignChar)
		if err != nil {
			return err
		}
		if key == "" {
			return ErrInvalidFormat.New(s, "empty key")
		}

		value, next, err := eatStr(s, next, sepChar)
		if err != nil {
			return err
		}

		if err = p.SetChecked(key, value); err != nil {
			return err
		}
		pos = next
	}
	return nil
}

// Parse builds a Properties from its raw string form "k1=v1;k2=v2;". On any format error the result is nil and
// nothing of the input is applied.
func Parse(raw string) (*Properties, error) {
	p := New()
	if err := eatPairs(raw, p); err != nil {
		return nil, err
	}
	return p, nil
}

// ParseWithKeys is Parse for a Properties restricted to the given keys. An unknown key fails the parse.
func ParseWithKeys(raw string, keys ...string) (*Properties, error) {
	p := NewWithKeys(keys...)
	if err := eatPairs(raw, p); err != nil {
		return nil, err
	}
	return p, nil
}
