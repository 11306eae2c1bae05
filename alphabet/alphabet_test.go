package alphabet

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_New(t *testing.T) {
	testCases := []struct {
		name   string
		input  []Symbol
		expect []Symbol
	}{
		{name: "empty", input: nil, expect: []Symbol{}},
		{name: "keeps insertion order", input: []Symbol{"c", "a", "b"}, expect: []Symbol{"c", "a", "b"}},
		{name: "drops duplicates", input: []Symbol{"a", "b", "a"}, expect: []Symbol{"a", "b"}},
		{name: "drops epsilon", input: []Symbol{"a", Epsilon, "b"}, expect: []Symbol{"a", "b"}},
		{name: "drops epsilon text", input: []Symbol{"a", EpsilonText, "b"}, expect: []Symbol{"a", "b"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			actual := New(tc.input...)

			assert.Equal(tc.expect, actual.Symbols())
			assert.False(actual.Has(Epsilon))
			assert.False(actual.Has(EpsilonText))
		})
	}
}

func Test_Alphabet_CopyOnWrite(t *testing.T) {
	assert := assert.New(t)

	orig := New("a", "b")
	added := orig.With("c")
	removed := orig.Without("a")

	assert.Equal([]Symbol{"a", "b"}, orig.Symbols())
	assert.Equal([]Symbol{"a", "b", "c"}, added.Symbols())
	assert.Equal([]Symbol{"b"}, removed.Symbols())
}

func Test_Alphabet_Union(t *testing.T) {
	assert := assert.New(t)

	u := New("a", "b").Union(New("c", "a"))

	assert.Equal([]Symbol{"a", "b", "c"}, u.Symbols())
	assert.True(u.Equal(New("c", "b", "a")))
	assert.False(u.Equal(New("a", "b")))
	assert.Equal("{a, b, c}", u.String())
}

func Test_Alphabet_ZeroValue(t *testing.T) {
	assert := assert.New(t)

	var a Alphabet

	assert.Equal(0, a.Len())
	assert.False(a.Has("a"))
	assert.Equal([]Symbol{"a"}, a.With("a").Symbols())
}

func Test_Split(t *testing.T) {
	testCases := []struct {
		name   string
		input  string
		expect []Symbol
	}{
		{name: "empty", input: "", expect: []Symbol{}},
		{name: "ascii", input: "int", expect: []Symbol{"i", "n", "t"}},
		{name: "multibyte", input: "aεb", expect: []Symbol{"a", "ε", "b"}},
		{name: "combining mark is normalized", input: "e\u0301", expect: []Symbol{"\u00e9"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			assert.Equal(tc.expect, Split(tc.input))
		})
	}
}

func Test_Symbol_String(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("ε", Epsilon.String())
	assert.Equal("a", Symbol("a").String())
	assert.Equal(Epsilon, ParseSymbol("ε"))
	assert.Equal(Epsilon, ParseSymbol(""))
}

func Test_Allocator_Fresh(t *testing.T) {
	testCases := []struct {
		name   string
		taken  []Symbol
		base   Symbol
		count  int
		expect []Symbol
	}{
		{
			name:   "nothing taken",
			base:   "S",
			count:  3,
			expect: []Symbol{"S_1", "S_2", "S_3"},
		},
		{
			name:   "skips collisions",
			taken:  []Symbol{"S", "S_1", "S_3"},
			base:   "S",
			count:  2,
			expect: []Symbol{"S_2", "S_4"},
		},
		{
			name:   "epsilon base",
			base:   Epsilon,
			count:  1,
			expect: []Symbol{"S_1"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			alloc := NewAllocator(New(tc.taken...))

			actual := []Symbol{}
			for i := 0; i < tc.count; i++ {
				actual = append(actual, alloc.Fresh(tc.base))
			}

			assert.Equal(tc.expect, actual)
		})
	}
}

func Test_Allocator_Deterministic(t *testing.T) {
	assert := assert.New(t)

	taken := New("A", "B", "A_1")

	first := NewAllocator(taken)
	second := NewAllocator(taken)

	for i := 0; i < 5; i++ {
		assert.Equal(first.Fresh("A"), second.Fresh("A"))
	}
}
