package automaton

import (
	"github.com/dekarrin/flwarrior/alphabet"
	"github.com/dekarrin/flwarrior/internal/flerrors"
)

// WithState returns a copy of fa with a new state added. It is an error if a
// state with the same ID already exists.
func (fa Automaton) WithState(s State) (Automaton, error) {
	if s.ID == "" {
		return fa, flerrors.Malformedf("state ID cannot be empty")
	}
	if fa.Has(s.ID) {
		return fa, flerrors.Malformedf("duplicate state %q", s.ID)
	}
	c := fa.copy()
	c.addState(s)
	return c, nil
}

// WithoutState returns a copy of fa with the given state and every transition
// into or out of it removed. If there is no such state, fa is returned as-is.
func (fa Automaton) WithoutState(id string) Automaton {
	if !fa.Has(id) {
		return fa
	}

	c := Automaton{alphabet: fa.alphabet}
	for _, existing := range fa.order {
		if existing != id {
			c.addState(fa.states[existing].State)
		}
	}
	for _, t := range fa.Transitions() {
		if t.From != id && t.To != id {
			c.addMove(t.From, t.Input, t.To)
		}
	}
	return c
}

// WithTransition returns a copy of fa with a new move added. Both states must
// exist, and input must be in the alphabet or be alphabet.Epsilon, which may
// also be given as "ε".
func (fa Automaton) WithTransition(from string, input alphabet.Symbol, to string) (Automaton, error) {
	input = alphabet.ParseSymbol(string(input))
	if err := fa.checkMove(from, input, to); err != nil {
		return fa, err
	}
	c := fa.copy()
	c.addMove(from, input, to)
	return c, nil
}

// WithoutTransition returns a copy of fa with the given move removed. If there
// is no such move, fa is returned as-is.
func (fa Automaton) WithoutTransition(from string, input alphabet.Symbol, to string) Automaton {
	st, ok := fa.states[from]
	if !ok {
		return fa
	}

	idx := -1
	for i, target := range st.moves[input] {
		if target == to {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fa
	}

	c := fa.copy()
	cst := c.states[from]
	remaining := append(cst.moves[input][:idx], cst.moves[input][idx+1:]...)
	if len(remaining) == 0 {
		delete(cst.moves, input)
	} else {
		cst.moves[input] = remaining
	}
	return c
}

// WithSymbol returns a copy of fa with sym added to its alphabet.
func (fa Automaton) WithSymbol(sym alphabet.Symbol) Automaton {
	c := fa.copy()
	c.alphabet = c.alphabet.With(sym)
	return c
}

// WithoutSymbol returns a copy of fa with sym removed from its alphabet along
// with every transition on it.
func (fa Automaton) WithoutSymbol(sym alphabet.Symbol) Automaton {
	if !fa.alphabet.Has(sym) {
		return fa
	}
	c := fa.copy()
	c.alphabet = c.alphabet.Without(sym)
	for id := range c.states {
		delete(c.states[id].moves, sym)
	}
	return c
}

// WithEntry returns a copy of fa in which the given state is the only entry
// state.
func (fa Automaton) WithEntry(id string) (Automaton, error) {
	if !fa.Has(id) {
		return fa, flerrors.Malformedf("no state %q", id)
	}
	c := fa.copy()
	for sid, st := range c.states {
		st.IsEntry = sid == id
		c.states[sid] = st
	}
	return c, nil
}

// WithExit returns a copy of fa in which the given state is or is not an exit
// state.
func (fa Automaton) WithExit(id string, exit bool) (Automaton, error) {
	st, ok := fa.states[id]
	if !ok {
		return fa, flerrors.Malformedf("no state %q", id)
	}
	if st.IsExit == exit {
		return fa, nil
	}
	c := fa.copy()
	cst := c.states[id]
	cst.IsExit = exit
	c.states[id] = cst
	return c, nil
}
