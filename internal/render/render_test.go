package render

import (
	"strings"
	"testing"

	"github.com/dekarrin/flwarrior/alphabet"
	"github.com/dekarrin/flwarrior/grammar"
	"github.com/dekarrin/flwarrior/lex"
	"github.com/dekarrin/flwarrior/regex"
	"github.com/stretchr/testify/assert"
)

func Test_Trace(t *testing.T) {
	testCases := []struct {
		name   string
		word   string
		expect string
	}{
		{name: "accepted", word: "ab", expect: `"ab": ACCEPTED`},
		{name: "rejected", word: "a", expect: `"a": REJECTED`},
		{name: "empty word", word: "", expect: `"ε": REJECTED`},
	}

	fa := regex.MustCompile("ab")

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			actual := Trace(fa, alphabet.Split(tc.word))
			assert.True(t, strings.HasSuffix(actual, tc.expect), "got:\n%s", actual)
		})
	}
}

func Test_Machine(t *testing.T) {
	assert := assert.New(t)

	nfa := regex.MustCompile("a|b")
	assert.True(strings.HasPrefix(Machine(nfa), "NFA with"))

	dfa := nfa.Determinize()
	assert.True(strings.HasPrefix(Machine(dfa), "DFA with"))
}

func Test_Grammar(t *testing.T) {
	g := grammar.MustParse("S -> a S | b")
	assert.True(t, strings.HasSuffix(Grammar(g), "Type: REGULAR"))
}

func Test_Tokens(t *testing.T) {
	testCases := []struct {
		name        string
		res         lex.Result
		contains    string
		notContains string
	}{
		{
			name:        "nothing",
			res:         lex.Result{},
			contains:    "(no tokens)",
			notContains: "Dropped",
		},
		{
			name: "unmatched",
			res: lex.Result{
				Tokens:    []lex.Token{{Lexeme: "if", Rule: "if", Line: 1, Pos: 1}},
				Unmatched: []lex.Token{{Lexeme: "$", Line: 1, Pos: 4}},
			},
			contains: `"$" (1:4)`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			actual := Tokens(tc.res)
			assert.Contains(actual, tc.contains)
			if tc.notContains != "" {
				assert.NotContains(actual, tc.notContains)
			}
		})
	}
}

func Test_Rules_Empty(t *testing.T) {
	assert.Equal(t, "(no rules)", Rules(nil))
}
