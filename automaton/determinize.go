package automaton

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/dekarrin/flwarrior/alphabet"
	"github.com/dekarrin/flwarrior/internal/util"
)

// UnionEntry is the ID of the entry state created by Union.
const UnionEntry = "union"

// Determinize returns a deterministic automaton that accepts exactly the same
// words as fa.
//
// This is the subset construction, algorithm 3.20 from the purple dragon book.
// Each state of the result stands for a set of states of fa and is named by
// that set in sorted order, as in "{q0, q2}". State IDs that themselves contain
// ", " or braces can make two different sets print the same; the later one
// found gets "#2" appended, then "#3", and so on. Only subsets reachable from
// the entry closure are created, and no state is created for the empty
// subset, so the result may be partial: a missing move rejects. If fa has no
// entry state, the result is a single non-accepting entry state named "{}".
//
// Determinizing an automaton that is already deterministic gives an
// equivalent one that differs only in state names.
func (fa Automaton) Determinize() Automaton {
	dfa := Automaton{alphabet: fa.alphabet}

	// Dstates by subsetKey, and the name each was given in dfa. The worklist
	// is processed in discovery order so the result is the same on every run.
	Dstates := map[string]StateSet{}
	names := map[string]string{}
	var unmarked []string

	addDState := func(X StateSet, entry bool) {
		key := subsetKey(X)
		name := X.StringOrdered()
		for i := 2; dfa.Has(name); i++ {
			name = fmt.Sprintf("%s#%d", X.StringOrdered(), i)
		}

		Dstates[key] = X
		names[key] = name
		unmarked = append(unmarked, key)
		dfa.addState(State{ID: name, IsEntry: entry, IsExit: fa.isAccepting(X)})
	}

	// initially, ε-closure(s₀) is the only state in Dstates, and it is unmarked
	addDState(fa.initial(), true)

	for len(unmarked) > 0 {
		// mark T
		Tkey := unmarked[0]
		unmarked = unmarked[1:]
		T := Dstates[Tkey]

		// for ( each input symbol a )
		for _, a := range fa.alphabet.Symbols() {
			U := fa.EpsilonClosureOfSet(fa.Move(T, a))

			// no move on a from anything in T; leave the transition out
			if U.Empty() {
				continue
			}

			Ukey := subsetKey(U)
			if _, ok := Dstates[Ukey]; !ok {
				// add U as an unmarked state to Dstates
				addDState(U, false)
			}

			// Dtran[T, a] = U
			dfa.addMove(names[Tkey], a, names[Ukey])
		}
	}

	return dfa
}

// subsetKey gives a string that identifies the set X. Each ID is prefixed
// with its length so no two different sets have the same key.
func subsetKey(X StateSet) string {
	var sb strings.Builder
	for _, id := range X.Sorted() {
		sb.WriteString(strconv.Itoa(len(id)))
		sb.WriteByte(':')
		sb.WriteString(id)
	}
	return sb.String()
}

// Union returns an automaton that accepts every word accepted by fa or by
// other.
//
// To keep state IDs distinct, every state from fa is renamed "1:ID" and every
// state from other is renamed "2:ID". A new entry state named UnionEntry has
// an epsilon move to every former entry state, which are no longer entry
// states themselves. Exit states of both stay exit states. The alphabet is the
// union of both alphabets.
func (fa Automaton) Union(other Automaton) Automaton {
	joined := Automaton{alphabet: fa.alphabet.Union(other.alphabet)}
	joined.addState(State{ID: UnionEntry, IsEntry: true})

	parts := []struct {
		prefix string
		fa     Automaton
	}{
		{"1:", fa},
		{"2:", other},
	}

	// add all states first so every move target exists
	for _, p := range parts {
		for _, id := range p.fa.order {
			st := p.fa.states[id]
			joined.addState(State{ID: p.prefix + id, IsExit: st.IsExit})
		}
	}

	for _, p := range parts {
		for _, t := range p.fa.Transitions() {
			joined.addMove(p.prefix+t.From, t.Input, p.prefix+t.To)
		}
		for _, entry := range p.fa.EntryStates() {
			joined.addMove(UnionEntry, alphabet.Epsilon, p.prefix+entry)
		}
	}

	return joined
}

// Renumber returns an equivalent automaton with states renamed "q0", "q1", and
// so on. Entry states are numbered first; the rest keep their current order.
func (fa Automaton) Renumber() Automaton {
	var ordered []string
	ordered = append(ordered, fa.EntryStates()...)
	for _, id := range fa.order {
		if !fa.states[id].IsEntry {
			ordered = append(ordered, id)
		}
	}

	mapping := make(map[string]string, len(ordered))
	for i, id := range ordered {
		mapping[id] = fmt.Sprintf("q%d", i)
	}

	return fa.rename(ordered, mapping)
}

// rename builds a copy of fa with states added in the given order and renamed
// according to mapping.
func (fa Automaton) rename(ordered []string, mapping map[string]string) Automaton {
	renamed := Automaton{alphabet: fa.alphabet}
	for _, id := range ordered {
		st := fa.states[id].State
		st.ID = mapping[id]
		renamed.addState(st)
	}
	for _, t := range fa.Transitions() {
		renamed.addMove(mapping[t.From], t.Input, mapping[t.To])
	}
	return renamed
}

// sortEntriesFirst sorts ids alphabetically, except that members of entries
// come before all others.
func sortEntriesFirst(ids []string, entries util.ISet[string]) []string {
	sorted := append([]string(nil), ids...)
	sort.Slice(sorted, func(i, j int) bool {
		iEntry, jEntry := entries.Has(sorted[i]), entries.Has(sorted[j])
		if iEntry != jEntry {
			return iEntry
		}
		return sorted[i] < sorted[j]
	})
	return sorted
}
