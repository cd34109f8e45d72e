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
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAndRawString(t *testing.T) {
	p, err := Parse("a=b;b=c")
	require.NoError(t, err)
	assert.Equal(t, 2, p.Size())
	assert.Equal(t, "b", p.Value("a"))
	assert.Equal(t, "c", p.Value("b"))
	assert.Equal(t, "a=b;b=c;", p.RawString())
}

func TestParseEscaping(t *testing.T) {
	p, err := Parse(`\=a=\;b;b\==\=c`)
	require.NoError(t, err)
	assert.Equal(t, ";b", p.Value("=a"))
	assert.Equal(t, "=c", p.Value("b="))
	assert.Equal(t, `\=a=\;b;b\==\=c;`, p.RawString())

	p, err = Parse(`k\\=v\\\;;`)
	require.NoError(t, err)
	assert.Equal(t, `v\;`, p.Value(`k\`))
}

func TestParseRejects(t *testing.T) {
	tests := []string{
		"a",
		";",
		`a\=b`,
		"=",
		"=a",
		"a=b;;",
		"a=b=c",
		`a=b\`,
		`a\x=b`,
		"a=b;c",
	}

	for _, raw := range tests {
		t.Run(raw, func(t *testing.T) {
			p, err := Parse(raw)
			assert.Nil(t, p)
			assert.True(t, ErrInvalidFormat.Is(err), "unexpected error %v", err)
		})
	}
}

func TestParseEmptyValueAllowed(t *testing.T) {
	p, err := Parse("a=;")
	require.NoError(t, err)
	assert.True(t, p.Exists("a"))
	assert.Equal(t, "", p.Value("a"))

	p, err = Parse("a=")
	require.NoError(t, err)
	assert.Equal(t, "", p.Value("a"))

	p, err = Parse("")
	require.NoError(t, err)
	assert.True(t, p.Empty())
}

func TestRoundTripIsCanonical(t *testing.T) {
	inputs := []string{
		"b=2;a=1",
		`x\;=\\;y=\=`,
		"k=;",
		"dup=1;dup=2;",
	}

	for _, raw := range inputs {
		t.Run(raw, func(t *testing.T) {
			first, err := Parse(raw)
			require.NoError(t, err)
			second, err := Parse(first.RawString())
			require.NoError(t, err)
			assert.True(t, first.Equals(second))
			assert.Equal(t, first.RawString(), second.RawString())
		})
	}
}

func TestEmptyKeyIsIgnored(t *testing.T) {
	p := New()
	p.Set("", "x")
	assert.False(t, p.Exists(""))
	assert.True(t, p.Empty())
	assert.True(t, ErrEmptyKey.Is(p.SetChecked("", "x")))
}

func TestValueAndGet(t *testing.T) {
	p := New()
	p.Set("k", "v")

	v, ok := p.Get("k")
	assert.True(t, ok)
	assert.Equal(t, "v", v)

	_, ok = p.Get("missing")
	assert.False(t, ok)
	assert.Panics(t, func() { p.Value("missing") })
}

func TestSetReplacesAndRemove(t *testing.T) {
	p := New()
	p.Set("k", "1")
	p.Set("k", "2")
	assert.Equal(t, 1, p.Size())
	assert.Equal(t, "2", p.Value("k"))

	assert.True(t, p.Remove("k"))
	assert.False(t, p.Remove("k"))
	assert.True(t, p.Empty())
}

func TestAssign(t *testing.T) {
	src, err := Parse("a=1;b=2;")
	require.NoError(t, err)

	dst := New()
	require.NoError(t, dst.Assign(src))
	assert.True(t, dst.Equals(src))

	src.Set("a", "changed")
	assert.Equal(t, "1", dst.Value("a"))

	err = dst.Assign(src)
	assert.True(t, ErrNotEmpty.Is(err))
}

func TestValidKeys(t *testing.T) {
	p := NewWithKeys("a", "b")
	p.Set("c", "x")
	assert.False(t, p.Exists("c"))
	assert.True(t, ErrInvalidKey.Is(p.SetChecked("c", "x")))
	require.NoError(t, p.SetChecked("a", "x"))

	_, err := ParseWithKeys("a=1;c=2;", "a", "b")
	assert.True(t, ErrInvalidKey.Is(err))

	parsed, err := ParseWithKeys("a=1;b=2;", "a", "b")
	require.NoError(t, err)
	assert.Equal(t, "a=1;b=2;", parsed.RawString())

	assert.False(t, parsed.Clone().ValidKey("c"))
}

func TestTypedAccessors(t *testing.T) {
	p := New()
	p.SetInt64("i64", math.MinInt64)
	p.SetUint64("u64", math.MaxUint64)
	p.SetInt32("i32", -7)
	p.SetUint32("u32", math.MaxUint32)
	p.SetBool("b", true)

	i64, err := p.GetInt64("i64")
	require.NoError(t, err)
	assert.Equal(t, int64(math.MinInt64), i64)

	u64, err := p.GetUint64("u64")
	require.NoError(t, err)
	assert.Equal(t, uint64(math.MaxUint64), u64)

	i32, err := p.GetInt32("i32")
	require.NoError(t, err)
	assert.Equal(t, int32(-7), i32)

	u32, err := p.GetUint32("u32")
	require.NoError(t, err)
	assert.Equal(t, uint32(math.MaxUint32), u32)

	b, err := p.GetBool("b")
	require.NoError(t, err)
	assert.True(t, b)
	assert.Equal(t, "true", p.Value("b"))

	_, err = p.GetInt64("missing")
	assert.True(t, ErrKeyNotFound.Is(err))

	_, err = p.GetUint32("i32")
	assert.True(t, ErrConversion.Is(err))
}

func TestConversions(t *testing.T) {
	i32, err := ToInt32("2147483647")
	require.NoError(t, err)
	assert.Equal(t, int32(math.MaxInt32), i32)

	_, err = ToInt32("2147483648")
	assert.True(t, ErrConversion.Is(err))
	_, err = ToInt32("-2147483649")
	assert.True(t, ErrConversion.Is(err))

	_, err = ToUint32("-1")
	assert.True(t, ErrConversion.Is(err))
	_, err = ToUint32("4294967296")
	assert.True(t, ErrConversion.Is(err))

	_, err = ToUint64("-1")
	assert.True(t, ErrConversion.Is(err))
	u64, err := ToUint64("18446744073709551615")
	require.NoError(t, err)
	assert.Equal(t, uint64(math.MaxUint64), u64)
	_, err = ToUint64("18446744073709551616")
	assert.True(t, ErrConversion.Is(err))

	_, err = ToInt64("9223372036854775808")
	assert.True(t, ErrConversion.Is(err))
	_, err = ToInt64("12a")
	assert.True(t, ErrConversion.Is(err))

	boolTests := []struct {
		in       string
		expected bool
	}{
		{"0", false},
		{"false", false},
		{"true", true},
		{"1", true},
		{"-5", true},
		{"18446744073709551615", true},
	}
	for _, test := range boolTests {
		b, err := ToBool(test.in)
		require.NoError(t, err, test.in)
		assert.Equal(t, test.expected, b, test.in)
	}

	_, err = ToBool("")
	assert.True(t, ErrConversion.Is(err))
	_, err = ToBool("yes")
	assert.True(t, ErrConversion.Is(err))
}

func TestEscapeUnescape(t *testing.T) {
	assert.Equal(t, `a\=b\;c\\d`, Escape(`a=b;c\d`))

	s, err := Unescape(`a\=b\;c\\d`)
	require.NoError(t, err)
	assert.Equal(t, `a=b;c\d`, s)

	_, err = Unescape(`abc\`)
	assert.True(t, ErrInvalidFormat.Is(err))
	_, err = Unescape(`a\bc`)
	assert.True(t, ErrInvalidFormat.Is(err))
}
