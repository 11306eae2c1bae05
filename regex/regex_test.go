package regex

import (
	"testing"

	"github.com/dekarrin/flwarrior/alphabet"
	"github.com/dekarrin/flwarrior/automaton"
	"github.com/stretchr/testify/assert"
)

func Test_Parse(t *testing.T) {
	testCases := []struct {
		name   string
		input  string
		expect Node
	}{
		{name: "literal", input: "a", expect: Literal{"a"}},
		{
			name:   "concat",
			input:  "ab",
			expect: Concat{Items: []Node{Literal{"a"}, Literal{"b"}}},
		},
		{
			name:   "alt",
			input:  "a|b|c",
			expect: Alt{Options: []Node{Literal{"a"}, Literal{"b"}, Literal{"c"}}},
		},
		{
			name:   "star binds tighter than concat",
			input:  "ab*",
			expect: Concat{Items: []Node{Literal{"a"}, Star{Literal{"b"}}}},
		},
		{
			name:  "concat binds tighter than alt",
			input: "ab|c",
			expect: Alt{Options: []Node{
				Concat{Items: []Node{Literal{"a"}, Literal{"b"}}},
				Literal{"c"},
			}},
		},
		{
			name:  "group",
			input: "(a|b)*",
			expect: Star{Alt{Options: []Node{
				Literal{"a"}, Literal{"b"},
			}}},
		},
		{
			name:   "escaped metacharacters",
			input:  `\(\*`,
			expect: Concat{Items: []Node{Literal{"("}, Literal{"*"}}},
		},
		{
			name:   "escaped ordinary character",
			input:  `\a`,
			expect: Literal{"a"},
		},
		{
			name:   "double star",
			input:  "a**",
			expect: Star{Star{Literal{"a"}}},
		},
		{
			name:   "space is a literal",
			input:  "a b",
			expect: Concat{Items: []Node{Literal{"a"}, Literal{" "}, Literal{"b"}}},
		},
		{
			name:   "non-ascii literal",
			input:  "ñ",
			expect: Literal{"ñ"},
		},
		{
			name:   "ε is the empty word",
			input:  "aε",
			expect: Concat{Items: []Node{Literal{"a"}, Literal{alphabet.Epsilon}}},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			actual, err := Parse(tc.input)
			if !assert.NoError(err) {
				return
			}

			assert.Equal(tc.expect, actual)
		})
	}
}

func Test_Parse_Errors(t *testing.T) {
	testCases := []struct {
		name      string
		input     string
		expectPos int
	}{
		{name: "empty", input: "", expectPos: 0},
		{name: "unclosed paren", input: "(a", expectPos: 0},
		{name: "unclosed nested paren", input: "a((b)", expectPos: 1},
		{name: "unmatched close paren", input: "a)", expectPos: 1},
		{name: "leading close paren", input: ")a", expectPos: 0},
		{name: "leading star", input: "*a", expectPos: 0},
		{name: "star after open paren", input: "(*a)", expectPos: 1},
		{name: "star after pipe", input: "a|*", expectPos: 2},
		{name: "leading pipe", input: "|a", expectPos: 0},
		{name: "trailing pipe", input: "a|", expectPos: 2},
		{name: "double pipe", input: "a||b", expectPos: 2},
		{name: "empty group", input: "a()", expectPos: 2},
		{name: "empty alternative in group", input: "(a|)", expectPos: 3},
		{name: "trailing backslash", input: `ab\`, expectPos: 3},
		{name: "escaped ε", input: `a\ε`, expectPos: 2},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			_, err := Parse(tc.input)

			assert.ErrorIs(err, ErrSyntax)

			synErr, ok := err.(*SyntaxError)
			if !assert.True(ok, "error should be a *SyntaxError") {
				return
			}
			assert.Equal(tc.expectPos, synErr.Pos)
			assert.Equal(tc.input, synErr.Source)
		})
	}
}

func Test_Node_String(t *testing.T) {
	testCases := []struct {
		name   string
		input  string
		expect string
	}{
		{name: "literal", input: "a", expect: "a"},
		{name: "grouped alt in concat", input: "(a|b)c", expect: "(a|b)c"},
		{name: "redundant group dropped", input: "(ab)c", expect: "abc"},
		{name: "star on group", input: "(ab)*", expect: "(ab)*"},
		{name: "escapes kept", input: `\|\\`, expect: `\|\\`},
		{name: "double star", input: "a**", expect: "a**"},
		{name: "epsilon", input: "a|ε", expect: "a|ε"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			n, err := Parse(tc.input)
			if !assert.NoError(err) {
				return
			}

			assert.Equal(tc.expect, n.String())

			reparsed, err := Parse(n.String())
			if !assert.NoError(err) {
				return
			}
			assert.Equal(n.String(), reparsed.String())
		})
	}
}

func Test_Compile(t *testing.T) {
	testCases := []struct {
		name    string
		expr    string
		accepts []string
		rejects []string
	}{
		{
			name:    "concatenation",
			expr:    "ab",
			accepts: []string{"ab"},
			rejects: []string{"", "a", "b", "ba", "abb"},
		},
		{
			name:    "alternation",
			expr:    "a|b",
			accepts: []string{"a", "b"},
			rejects: []string{"", "ab", "ba", "c"},
		},
		{
			name:    "star",
			expr:    "a*",
			accepts: []string{"", "a", "aaaa"},
			rejects: []string{"b", "ab", "ba"},
		},
		{
			name:    "dragon book example",
			expr:    "(a|b)*abb",
			accepts: []string{"abb", "aabb", "babb", "ababb"},
			rejects: []string{"", "ab", "abba", "bbb"},
		},
		{
			name:    "nested star stays inside its group",
			expr:    "(a*b)*",
			accepts: []string{"", "b", "ab", "aabab"},
			rejects: []string{"a", "ba", "aba"},
		},
		{
			name:    "star of alternation of stars",
			expr:    "(a*|b*)*c",
			accepts: []string{"c", "abc", "bac", "aaabbbc"},
			rejects: []string{"", "ab", "ca"},
		},
		{
			name:    "escaped metacharacters",
			expr:    `\(\)\*`,
			accepts: []string{"()*"},
			rejects: []string{"()", "(", "*"},
		},
		{
			name:    "type keywords",
			expr:    "(int|double|float)",
			accepts: []string{"int", "double", "float"},
			rejects: []string{"in", "intdouble", "char"},
		},
		{
			name:    "ε is the empty word",
			expr:    "a(b|ε)",
			accepts: []string{"a", "ab"},
			rejects: []string{"", "aε", "abε", "b"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			fa, err := Compile(tc.expr)
			if !assert.NoError(err) {
				return
			}

			dfa := fa.Determinize()

			for _, w := range tc.accepts {
				assert.True(fa.AcceptsString(w), "NFA should accept %q", w)
				assert.True(dfa.AcceptsString(w), "DFA should accept %q", w)
			}
			for _, w := range tc.rejects {
				assert.False(fa.AcceptsString(w), "NFA should reject %q", w)
				assert.False(dfa.AcceptsString(w), "DFA should reject %q", w)
			}
		})
	}
}

func Test_Compile_Shape(t *testing.T) {
	testCases := []struct {
		name         string
		expr         string
		expectStates int
		expectAlpha  []alphabet.Symbol
	}{
		{name: "literal", expr: "a", expectStates: 2, expectAlpha: []alphabet.Symbol{"a"}},
		{name: "concat", expr: "ab", expectStates: 4, expectAlpha: []alphabet.Symbol{"a", "b"}},
		{name: "alt", expr: "a|b", expectStates: 6, expectAlpha: []alphabet.Symbol{"a", "b"}},
		{name: "star", expr: "a*", expectStates: 4, expectAlpha: []alphabet.Symbol{"a"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			fa := MustCompile(tc.expr)

			assert.Equal(tc.expectStates, fa.Len())
			assert.Equal(tc.expectAlpha, fa.Alphabet().Symbols())
			assert.Len(fa.EntryStates(), 1)
			assert.Len(fa.ExitStates(), 1)
			assert.NoError(fa.Validate())
		})
	}
}

func Test_Compile_RecordRoundTrip(t *testing.T) {
	testCases := []struct {
		name  string
		expr  string
		words []string
	}{
		{name: "trailing ε", expr: "aε", words: []string{"", "a", "aε", "aa"}},
		{name: "ε option", expr: "(a|ε)b*", words: []string{"", "a", "b", "abb", "ba", "ε"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			fa := MustCompile(tc.expr)
			assert.False(fa.Alphabet().Has(alphabet.EpsilonText))

			loaded, err := automaton.FromRecord(fa.ToRecord("", tc.name))
			if !assert.NoError(err) {
				return
			}

			for _, w := range tc.words {
				assert.Equal(fa.AcceptsString(w), loaded.AcceptsString(w), "word %q", w)
			}
		})
	}
}

func Test_Compile_Error(t *testing.T) {
	assert := assert.New(t)

	_, err := Compile("(ab")

	assert.ErrorIs(err, ErrSyntax)
	assert.Panics(func() { MustCompile("(ab") })
}

func Test_Record(t *testing.T) {
	testCases := []struct {
		name      string
		rec       Record
		accepts   string
		expectErr bool
	}{
		{name: "new record", rec: NewRecord("r1", "digits", "(0|1)*"), accepts: "0110"},
		{name: "empty type is regular", rec: Record{Body: "x"}, accepts: "x"},
		{name: "unknown type", rec: Record{Type: "cfg", Body: "x"}, expectErr: true},
		{name: "bad body", rec: Record{Type: TypeRegular, Body: "x|"}, expectErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			fa, err := tc.rec.Compile()
			if tc.expectErr {
				assert.Error(err)
				return
			}
			if !assert.NoError(err) {
				return
			}
			assert.True(fa.AcceptsString(tc.accepts))
		})
	}
}

func Test_Record_Binary(t *testing.T) {
	assert := assert.New(t)

	rec := NewRecord("r1", "keyword", "if|else")

	data, err := rec.MarshalBinary()
	if !assert.NoError(err) {
		return
	}

	var decoded Record
	if !assert.NoError(decoded.UnmarshalBinary(data)) {
		return
	}
	assert.Equal(rec, decoded)
}
