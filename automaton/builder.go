package automaton

import (
	"github.com/dekarrin/flwarrior/alphabet"
	"github.com/dekarrin/flwarrior/internal/flerrors"
)

// Builder assembles an Automaton one piece at a time. The zero value is ready
// to use. States must be added before any transition that refers to them, and
// a transition's input symbol must be in the alphabet unless it is
// alphabet.Epsilon.
type Builder struct {
	fa Automaton
}

// NewBuilder creates a Builder whose automaton starts with the given input
// symbols.
func NewBuilder(syms ...alphabet.Symbol) *Builder {
	b := &Builder{}
	b.AddSymbol(syms...)
	return b
}

// AddSymbol adds input symbols to the alphabet. Epsilon and symbols already
// present are ignored.
func (b *Builder) AddSymbol(syms ...alphabet.Symbol) {
	b.fa.alphabet = b.fa.alphabet.With(syms...)
}

// AddState adds a new state. It is an error to add a state whose ID is already
// in use or is empty.
func (b *Builder) AddState(id string, entry, exit bool) error {
	if id == "" {
		return flerrors.Malformedf("state ID cannot be empty")
	}
	if b.fa.Has(id) {
		return flerrors.Malformedf("duplicate state %q", id)
	}
	b.fa.addState(State{ID: id, IsEntry: entry, IsExit: exit})
	return nil
}

// AddTransition adds a move from one state to another on input. Adding a move
// that already exists has no effect. An input of "ε" is an epsilon move.
func (b *Builder) AddTransition(from string, input alphabet.Symbol, to string) error {
	input = alphabet.ParseSymbol(string(input))
	if err := b.fa.checkMove(from, input, to); err != nil {
		return err
	}
	b.fa.addMove(from, input, to)
	return nil
}

// Build returns the automaton assembled so far. The Builder may continue to be
// used afterwards without affecting the returned Automaton.
func (b *Builder) Build() Automaton {
	return b.fa.copy()
}

// MustBuild builds an automaton from a map of state IDs to transitions in the
// format given by Transition.String, with the "FROM" part omitted, as in
// "=(a)=> q1". Every input symbol used becomes part of the alphabet. It panics
// if the input is malformed.
//
// This is meant for writing automata as literals in tests and examples.
func MustBuild(from map[string][]string, entries []string, exits []string) Automaton {
	b := NewBuilder()

	entrySet := StateSet{}
	for _, e := range entries {
		entrySet.Add(e)
	}
	exitSet := StateSet{}
	for _, e := range exits {
		exitSet.Add(e)
	}

	ids := make([]string, 0, len(from))
	for k := range from {
		ids = append(ids, k)
	}
	ids = sortEntriesFirst(ids, entrySet)

	for _, id := range ids {
		if err := b.AddState(id, entrySet.Has(id), exitSet.Has(id)); err != nil {
			panic(err.Error())
		}
	}

	// transitions go after all states or the targets might not exist yet
	for _, id := range ids {
		for _, tStr := range from[id] {
			t := MustParseTransition(id + " " + tStr)
			b.AddSymbol(t.Input)
			if err := b.AddTransition(t.From, t.Input, t.To); err != nil {
				panic(err.Error())
			}
		}
	}

	return b.Build()
}
