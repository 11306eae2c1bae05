// Package automaton contains finite-state automata over alphabets of symbols.
// A single Automaton type represents both deterministic and non-deterministic
// machines; whether a given Automaton is deterministic is a property computed
// from its shape, not declared.
//
// An Automaton is immutable. Use a Builder to create one from scratch, or one
// of the With/Without methods to derive a modified copy.
package automaton

import (
	"fmt"
	"strings"

	"github.com/dekarrin/flwarrior/alphabet"
	"github.com/dekarrin/flwarrior/internal/flerrors"
	"github.com/dekarrin/flwarrior/internal/util"
)

var (
	// ErrUnknownSymbol matches errors caused by a transition on a symbol that
	// is not in the alphabet.
	ErrUnknownSymbol = flerrors.ErrUnknownSymbol

	// ErrMalformed matches errors caused by a machine definition that does
	// not make sense, such as a duplicate state or a move to a state that
	// does not exist.
	ErrMalformed = flerrors.ErrMalformed
)

// UnknownSymbolError is the type of error returned when a transition reads a
// symbol that is not in the alphabet.
type UnknownSymbolError = flerrors.UnknownSymbolError

// StateSet is an unordered set of state IDs.
type StateSet = util.StringSet

// State is a single state of an Automaton. States are identified by ID.
type State struct {
	ID      string
	IsEntry bool
	IsExit  bool
}

func (s State) String() string {
	str := s.ID
	if s.IsExit {
		str = "(" + str + ")"
	}
	if s.IsEntry {
		str = "->" + str
	}
	return str
}

// Transition is a single move from one state to another on an input symbol.
// An Input of alphabet.Epsilon is an epsilon move.
type Transition struct {
	From  string
	Input alphabet.Symbol
	To    string
}

// String gives the transition as "FROM =(INPUT)=> TO".
func (t Transition) String() string {
	return fmt.Sprintf("%s =(%s)=> %s", t.From, t.Input.String(), t.To)
}

// MustParseTransition is like ParseTransition but panics on error.
func MustParseTransition(s string) Transition {
	t, err := ParseTransition(s)
	if err != nil {
		panic(err.Error())
	}
	return t
}

// ParseTransition reads a Transition in the format given by
// Transition.String.
func ParseTransition(s string) (Transition, error) {
	s = strings.TrimSpace(s)

	openIdx := strings.Index(s, " =(")
	closeIdx := strings.LastIndex(s, ")=> ")
	if openIdx < 0 || closeIdx < 0 || closeIdx < openIdx+3 {
		return Transition{}, fmt.Errorf("not a transition of form 'FROM =(INPUT)=> TO': %q", s)
	}

	t := Transition{
		From:  strings.TrimSpace(s[:openIdx]),
		Input: alphabet.ParseSymbol(s[openIdx+3 : closeIdx]),
		To:    strings.TrimSpace(s[closeIdx+4:]),
	}
	if t.From == "" || t.To == "" {
		return Transition{}, fmt.Errorf("transition has empty state: %q", s)
	}
	return t, nil
}

type faState struct {
	State
	moves map[alphabet.Symbol][]string
}

func (fs faState) copy() faState {
	c := faState{State: fs.State, moves: make(map[alphabet.Symbol][]string, len(fs.moves))}
	for sym, targets := range fs.moves {
		c.moves[sym] = append([]string(nil), targets...)
	}
	return c
}

// Automaton is a finite-state automaton. The zero value is an Automaton with
// no states, which accepts nothing.
type Automaton struct {
	order    []string
	states   map[string]faState
	alphabet alphabet.Alphabet
}

func (fa Automaton) copy() Automaton {
	c := Automaton{
		order:    append([]string(nil), fa.order...),
		states:   make(map[string]faState, len(fa.states)),
		alphabet: fa.alphabet,
	}
	for id, st := range fa.states {
		c.states[id] = st.copy()
	}
	return c
}

// addState adds a state with no moves. Caller must ensure it is not already
// present.
func (fa *Automaton) addState(s State) {
	if fa.states == nil {
		fa.states = map[string]faState{}
	}
	fa.states[s.ID] = faState{State: s, moves: map[alphabet.Symbol][]string{}}
	fa.order = append(fa.order, s.ID)
}

// addMove adds a move if it is not already present. Caller must ensure both
// states exist.
func (fa *Automaton) addMove(from string, input alphabet.Symbol, to string) {
	st := fa.states[from]
	if util.InSlice(to, st.moves[input]) {
		return
	}
	st.moves[input] = append(st.moves[input], to)
}

func (fa Automaton) checkMove(from string, input alphabet.Symbol, to string) error {
	if _, ok := fa.states[from]; !ok {
		return flerrors.Malformedf("transition from non-existent state %q", from)
	}
	if _, ok := fa.states[to]; !ok {
		return flerrors.Malformedf("transition to non-existent state %q", to)
	}
	if input != alphabet.Epsilon && !fa.alphabet.Has(input) {
		return &flerrors.UnknownSymbolError{Symbol: string(input), Where: fmt.Sprintf("transition from %q", from)}
	}
	return nil
}

// Alphabet returns the input alphabet of the automaton.
func (fa Automaton) Alphabet() alphabet.Alphabet {
	return fa.alphabet
}

// Len returns the number of states.
func (fa Automaton) Len() int {
	return len(fa.order)
}

// States returns every state in the order they were added.
func (fa Automaton) States() []State {
	states := make([]State, len(fa.order))
	for i, id := range fa.order {
		states[i] = fa.states[id].State
	}
	return states
}

// State returns the state with the given ID, and whether it exists.
func (fa Automaton) State(id string) (State, bool) {
	st, ok := fa.states[id]
	return st.State, ok
}

// Has returns whether the automaton has a state with the given ID.
func (fa Automaton) Has(id string) bool {
	_, ok := fa.states[id]
	return ok
}

// EntryStates returns the IDs of all entry states in state order.
func (fa Automaton) EntryStates() []string {
	var ids []string
	for _, id := range fa.order {
		if fa.states[id].IsEntry {
			ids = append(ids, id)
		}
	}
	return ids
}

// ExitStates returns the IDs of all exit states in state order.
func (fa Automaton) ExitStates() []string {
	var ids []string
	for _, id := range fa.order {
		if fa.states[id].IsExit {
			ids = append(ids, id)
		}
	}
	return ids
}

// inputOrder gives the symbols with moves out of st, epsilon first and then in
// alphabet order.
func (fa Automaton) inputOrder(st faState) []alphabet.Symbol {
	var syms []alphabet.Symbol
	if len(st.moves[alphabet.Epsilon]) > 0 {
		syms = append(syms, alphabet.Epsilon)
	}
	for _, sym := range fa.alphabet.Symbols() {
		if len(st.moves[sym]) > 0 {
			syms = append(syms, sym)
		}
	}
	return syms
}

// Transitions returns every transition. They are ordered by source state, then
// by input (epsilon first, then alphabet order), then by the order they were
// added.
func (fa Automaton) Transitions() []Transition {
	var trans []Transition
	for _, id := range fa.order {
		st := fa.states[id]
		for _, sym := range fa.inputOrder(st) {
			for _, to := range st.moves[sym] {
				trans = append(trans, Transition{From: id, Input: sym, To: to})
			}
		}
	}
	return trans
}

// Targets returns the states reachable from the given state by exactly one
// move on input, without following any epsilon moves.
func (fa Automaton) Targets(from string, input alphabet.Symbol) []string {
	st, ok := fa.states[from]
	if !ok {
		return nil
	}
	return append([]string(nil), st.moves[input]...)
}

// IsDeterministic returns whether the automaton is deterministic: it has at
// most one entry state, no epsilon moves, and at most one target for every
// state and input symbol.
func (fa Automaton) IsDeterministic() bool {
	if len(fa.EntryStates()) > 1 {
		return false
	}
	for _, st := range fa.states {
		for sym, targets := range st.moves {
			if sym == alphabet.Epsilon && len(targets) > 0 {
				return false
			}
			if len(targets) > 1 {
				return false
			}
		}
	}
	return true
}

// Validate returns an error describing every problem that would keep the
// automaton from being useful: no entry state, or states that cannot be
// reached from any entry state. A machine that fails Validate can still be
// run; it just accepts less than its author likely intended.
func (fa Automaton) Validate() error {
	var err error

	entries := fa.EntryStates()
	if len(entries) < 1 {
		err = flerrors.Append(err, flerrors.Malformedf("no entry state"))
	}

	reachable := util.StringSetOf(entries)
	pending := util.Stack[string]{Of: append([]string(nil), entries...)}
	for pending.Len() > 0 {
		cur := pending.Pop()
		for _, targets := range fa.states[cur].moves {
			for _, to := range targets {
				if !reachable.Has(to) {
					reachable.Add(to)
					pending.Push(to)
				}
			}
		}
	}

	if len(entries) > 0 {
		unreachable := util.StringSetOf(fa.order).Difference(reachable)
		for _, id := range fa.order {
			if unreachable.Has(id) {
				err = flerrors.Append(err, flerrors.Malformedf("state %q is unreachable", id))
			}
		}
	}

	if len(fa.ExitStates()) < 1 {
		err = flerrors.Append(err, flerrors.Malformedf("no exit state"))
	}

	return err
}

// String shows the automaton with one state per line, each followed by its
// moves. Exit states are wrapped in an extra set of parentheses.
func (fa Automaton) String() string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("<ENTRY: %s, STATES:", util.StringSetOf(fa.EntryStates()).StringOrdered()))

	for i, id := range fa.order {
		st := fa.states[id]

		var moves []string
		for _, sym := range fa.inputOrder(st) {
			for _, to := range st.moves[sym] {
				moves = append(moves, fmt.Sprintf("=(%s)=> %s", sym.String(), to))
			}
		}

		str := fmt.Sprintf("(%s [%s])", id, strings.Join(moves, ", "))
		if st.IsExit {
			str = "(" + str + ")"
		}

		sb.WriteString("\n\t")
		sb.WriteString(str)
		if i+1 < len(fa.order) {
			sb.WriteRune(',')
		} else {
			sb.WriteRune('\n')
		}
	}

	sb.WriteRune('>')
	return sb.String()
}
