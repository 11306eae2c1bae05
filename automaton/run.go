package automaton

import (
	"github.com/dekarrin/flwarrior/alphabet"
	"github.com/dekarrin/flwarrior/internal/util"
)

// EpsilonClosure gives the set of states reachable from any of the given
// states using zero or more epsilon moves. IDs that are not states of the
// automaton are ignored.
func (fa Automaton) EpsilonClosure(ids ...string) StateSet {
	closure := util.NewStringSet()
	checking := util.Stack[string]{}

	for _, id := range ids {
		if fa.Has(id) {
			checking.Push(id)
		}
	}

	for checking.Len() > 0 {
		cur := checking.Pop()
		if closure.Has(cur) {
			continue
		}
		closure.Add(cur)

		for _, next := range fa.states[cur].moves[alphabet.Epsilon] {
			if !closure.Has(next) {
				checking.Push(next)
			}
		}
	}

	return closure
}

// EpsilonClosureOfSet is EpsilonClosure for every state in X.
func (fa Automaton) EpsilonClosureOfSet(X util.ISet[string]) StateSet {
	return fa.EpsilonClosure(X.Elements()...)
}

// Move returns the set of states reachable with exactly one move on input a
// from some state in X. Epsilon moves are not followed. This is the MOVE(T, a)
// function of the subset construction.
func (fa Automaton) Move(X util.ISet[string], a alphabet.Symbol) StateSet {
	moves := util.NewStringSet()
	for _, id := range X.Elements() {
		st, ok := fa.states[id]
		if !ok {
			continue
		}
		for _, next := range st.moves[a] {
			moves.Add(next)
		}
	}
	return moves
}

// Step gives the states that are active after reading input while in the given
// state: the epsilon-closure of every state reachable on input from the
// epsilon-closure of the state. Stepping on alphabet.Epsilon gives the
// epsilon-closure of the state itself. For a deterministic automaton the result
// has at most one element.
//
// If the state does not exist or has no move on input, the result is empty.
func (fa Automaton) Step(state string, input alphabet.Symbol) StateSet {
	start := fa.EpsilonClosure(state)
	if input == alphabet.Epsilon {
		return start
	}
	return fa.EpsilonClosureOfSet(fa.Move(start, input))
}

// initial gives the epsilon-closure of the entry states.
func (fa Automaton) initial() StateSet {
	return fa.EpsilonClosure(fa.EntryStates()...)
}

// isAccepting returns whether any state in X is an exit state.
func (fa Automaton) isAccepting(X StateSet) bool {
	return !X.Intersection(util.StringSetOf(fa.ExitStates())).Empty()
}

// Run begins a simulation of the automaton reading word. The returned
// Simulation produces the set of active states after each prefix of word,
// starting with the empty prefix, so a full run produces len(word)+1 sets.
// Nothing is computed until Next is called.
//
// Each call to Run gives an independent Simulation, so a run may be repeated
// by calling Run again.
func (fa Automaton) Run(word []alphabet.Symbol) *Simulation {
	return &Simulation{
		fa:   fa,
		word: append([]alphabet.Symbol(nil), word...),
		pos:  -1,
	}
}

// Accepts returns whether the automaton accepts word, that is, whether some
// exit state is active after all of word is read. The simulation stops early
// if no state is active.
func (fa Automaton) Accepts(word []alphabet.Symbol) bool {
	sim := fa.Run(word)
	for sim.Next() {
		if sim.Active().Empty() {
			return false
		}
	}
	return sim.Accepting()
}

// AcceptsString is Accepts for the symbols of s, one per character.
func (fa Automaton) AcceptsString(s string) bool {
	return fa.Accepts(alphabet.Split(s))
}

// Simulation is a single lazy run of an Automaton over a word. Call Next to
// advance; after each successful call, Active gives the states active after
// the first Pos symbols of the word.
//
//	sim := fa.Run(word)
//	for sim.Next() {
//		fmt.Println(sim.Pos(), sim.Active())
//	}
type Simulation struct {
	fa     Automaton
	word   []alphabet.Symbol
	pos    int
	active StateSet
}

// Next advances the simulation by one symbol. The first call produces the
// initial set of active states without consuming anything. It returns false
// once the whole word has been consumed.
//
// A run that has no active states keeps producing empty sets until the word
// is exhausted.
func (sim *Simulation) Next() bool {
	if sim.pos < 0 {
		sim.active = sim.fa.initial()
		sim.pos = 0
		return true
	}
	if sim.pos >= len(sim.word) {
		return false
	}

	sym := sim.word[sim.pos]
	if sim.active.Empty() {
		sim.active = util.NewStringSet()
	} else {
		sim.active = sim.fa.EpsilonClosureOfSet(sim.fa.Move(sim.active, sym))
	}
	sim.pos++
	return true
}

// Pos returns the number of symbols consumed so far.
func (sim *Simulation) Pos() int {
	if sim.pos < 0 {
		return 0
	}
	return sim.pos
}

// Active returns a copy of the currently active states. Before the first call
// to Next it is empty.
func (sim *Simulation) Active() StateSet {
	if sim.active == nil {
		return util.NewStringSet()
	}
	return sim.active.Copy()
}

// Accepting returns whether any currently active state is an exit state.
func (sim *Simulation) Accepting() bool {
	return sim.active != nil && sim.fa.isAccepting(sim.active)
}

// Done returns whether every symbol of the word has been consumed.
func (sim *Simulation) Done() bool {
	return sim.pos >= len(sim.word)
}

// Trace runs a fresh simulation over word to completion and returns every
// active set it produced, in order.
func (fa Automaton) Trace(word []alphabet.Symbol) []StateSet {
	sets := make([]StateSet, 0, len(word)+1)
	sim := fa.Run(word)
	for sim.Next() {
		sets = append(sets, sim.Active())
	}
	return sets
}
