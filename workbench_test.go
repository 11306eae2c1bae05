package flwarrior

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dekarrin/flwarrior/internal/command"
	"github.com/dekarrin/flwarrior/internal/flerrors"
	"github.com/dekarrin/flwarrior/lex"
	"github.com/stretchr/testify/assert"
)

func mustExecute(t *testing.T, wb *Workbench, line string) string {
	cmd, err := command.ParseCommand(line)
	if err != nil {
		t.Fatalf("parsing %q: %v", line, err)
	}
	out, err := wb.Execute(cmd)
	if err != nil {
		t.Fatalf("executing %q: %v", line, err)
	}
	return out
}

func Test_Workbench_Lexer(t *testing.T) {
	assert := assert.New(t)

	wb := &Workbench{}
	mustExecute(t, wb, "rule type -> (int|double|float)")
	mustExecute(t, wb, "rule identifier -> (a|b|c)(a|b|c)*")

	assert.Equal([]lex.Rule{
		{Name: "type", Pattern: "(int|double|float)"},
		{Name: "identifier", Pattern: "(a|b|c)(a|b|c)*"},
	}, wb.Rules())

	out := mustExecute(t, wb, "lex int a $")
	assert.Contains(out, "identifier")
	assert.Contains(out, "type")
	assert.Contains(out, `"$"`)

	mustExecute(t, wb, "clear")
	assert.Empty(wb.Rules())
}

func Test_Workbench_BadRuleNotAdded(t *testing.T) {
	assert := assert.New(t)

	wb := &Workbench{}
	mustExecute(t, wb, "rule if -> if")

	cmd, _ := command.ParseCommand("rule bad -> (a")
	_, err := wb.Execute(cmd)
	assert.ErrorIs(err, flerrors.ErrSyntax)
	assert.Len(wb.Rules(), 1)
}

func Test_Workbench_Machine(t *testing.T) {
	assert := assert.New(t)

	wb := &Workbench{}

	cmd, _ := command.ParseCommand("dfa")
	_, err := wb.Execute(cmd)
	assert.ErrorIs(err, flerrors.ErrCommand)

	mustExecute(t, wb, "compile (a|b)*abb")
	fa, ok := wb.Machine()
	if !assert.True(ok) {
		return
	}
	assert.False(fa.IsDeterministic())

	mustExecute(t, wb, "determinize")
	fa, _ = wb.Machine()
	assert.True(fa.IsDeterministic())

	assert.Contains(mustExecute(t, wb, "run aabb"), "ACCEPTED")
	assert.Contains(mustExecute(t, wb, "run abab"), "REJECTED")
	assert.Contains(mustExecute(t, wb, "run"), "REJECTED")
}

func Test_Workbench_Grammar(t *testing.T) {
	assert := assert.New(t)

	wb := &Workbench{}

	out := mustExecute(t, wb, "grammar S -> a A | a B ; A -> a ; B -> b")
	assert.Contains(out, "REGULAR")

	mustExecute(t, wb, "nondet")
	g, _ := wb.Grammar()
	assert.Equal("S -> a S_1\nS_1 -> A | B\nA -> a\nB -> b", g.String())

	out = mustExecute(t, wb, "nondet")
	assert.True(strings.HasPrefix(out, "Nothing to change"))

	mustExecute(t, wb, "grammar E -> E + T | T ; T -> id")
	assert.Equal("The grammar is CONTEXT_FREE", mustExecute(t, wb, "classify"))

	mustExecute(t, wb, "left recursion")
	g, _ = wb.Grammar()
	assert.Equal("E -> T E_1\nE_1 -> + T E_1 | ε\nT -> id", g.String())
}

func Test_Workbench_LoadAndUse(t *testing.T) {
	assert := assert.New(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "m.flw")
	content := "format = \"FLW\"\ntype = \"MACHINE\"\n\n[[machine]]\nname = \"Even-As\"\nentry = [\"q0\"]\nexit = [\"q0\"]\ntransitions = [\"q0 =(a)=> q1\", \"q1 =(a)=> q0\"]\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	wb := &Workbench{}
	assert.Equal("Nothing has been loaded; try LOAD", mustExecute(t, wb, "list"))

	mustExecute(t, wb, "load "+path)
	assert.Contains(mustExecute(t, wb, "list"), "Even-As")

	mustExecute(t, wb, "use even-as")
	assert.Contains(mustExecute(t, wb, "run aa"), "ACCEPTED")

	cmd, _ := command.ParseCommand("use nope")
	_, err := wb.Execute(cmd)
	assert.ErrorIs(err, flerrors.ErrCommand)
}

func Test_HelpText(t *testing.T) {
	testCases := []struct {
		name      string
		topic     string
		expect    string
		expectErr bool
	}{
		{name: "command", topic: "RUN", expect: "RUN [WORD]"},
		{name: "alias", topic: "DETERMINIZE", expect: "DFA"},
		{name: "unknown", topic: "DANCE", expectErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			actual, err := helpText(tc.topic)
			if tc.expectErr {
				assert.Error(err)
				return
			}
			if !assert.NoError(err) {
				return
			}
			assert.True(strings.HasPrefix(actual, tc.expect))
		})
	}
}

func Test_Workbench_Status(t *testing.T) {
	testCases := []struct {
		name     string
		commands []string
		expect   string
	}{
		{name: "empty", expect: ""},
		{name: "nfa", commands: []string{"compile a|b"}, expect: "nfa"},
		{name: "dfa", commands: []string{"compile a|b", "dfa"}, expect: "dfa"},
		{name: "one rule", commands: []string{"rule if -> if"}, expect: "1 rule"},
		{
			name:     "everything",
			commands: []string{"compile ab", "grammar S -> a", "rule if -> if", "rule id -> (a|b)*"},
			expect:   "nfa, grammar, 2 rules",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			wb := &Workbench{}
			for _, line := range tc.commands {
				mustExecute(t, wb, line)
			}

			assert.Equal(t, tc.expect, wb.Status())
		})
	}
}

func Test_FindDef(t *testing.T) {
	defs := map[string]int{"Foo": 1, "FOO": 2, "fOo": 3, "bar": 4}

	testCases := []struct {
		name      string
		lookup    string
		expect    int
		expectNot bool
	}{
		{name: "exact match", lookup: "fOo", expect: 3},
		{name: "case-insensitive picks first sorted", lookup: "foo", expect: 2},
		{name: "other name", lookup: "BAR", expect: 4},
		{name: "missing", lookup: "baz", expectNot: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			for i := 0; i < 20; i++ {
				actual, ok := findDef(defs, tc.lookup)
				if tc.expectNot {
					assert.False(ok)
					continue
				}
				assert.True(ok)
				assert.Equal(tc.expect, actual)
			}
		})
	}
}
