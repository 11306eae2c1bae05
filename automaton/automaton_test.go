package automaton

import (
	"testing"

	"github.com/dekarrin/flwarrior/alphabet"
	"github.com/stretchr/testify/assert"
)

// dragonNFA is the NFA for (a|b)*abb from figure 3.34 of the purple dragon
// book.
func dragonNFA() Automaton {
	return MustBuild(map[string][]string{
		"0":  {"=(ε)=> 1", "=(ε)=> 7"},
		"1":  {"=(ε)=> 2", "=(ε)=> 4"},
		"2":  {"=(a)=> 3"},
		"3":  {"=(ε)=> 6"},
		"4":  {"=(b)=> 5"},
		"5":  {"=(ε)=> 6"},
		"6":  {"=(ε)=> 1", "=(ε)=> 7"},
		"7":  {"=(a)=> 8"},
		"8":  {"=(b)=> 9"},
		"9":  {"=(b)=> 10"},
		"10": {},
	}, []string{"0"}, []string{"10"})
}

// evenAsDFA accepts words over {a, b} with an even number of a's.
func evenAsDFA() Automaton {
	return MustBuild(map[string][]string{
		"even": {"=(a)=> odd", "=(b)=> even"},
		"odd":  {"=(a)=> even", "=(b)=> odd"},
	}, []string{"even"}, []string{"even"})
}

// allWords gives every word over syms of length 0 through maxLen.
func allWords(syms []alphabet.Symbol, maxLen int) [][]alphabet.Symbol {
	words := [][]alphabet.Symbol{{}}
	frontier := [][]alphabet.Symbol{{}}
	for l := 1; l <= maxLen; l++ {
		var next [][]alphabet.Symbol
		for _, w := range frontier {
			for _, s := range syms {
				nw := append(append([]alphabet.Symbol{}, w...), s)
				next = append(next, nw)
			}
		}
		words = append(words, next...)
		frontier = next
	}
	return words
}

func Test_Transition_Parse(t *testing.T) {
	testCases := []struct {
		name      string
		input     string
		expect    Transition
		expectErr bool
	}{
		{name: "symbol", input: "q0 =(a)=> q1", expect: Transition{From: "q0", Input: "a", To: "q1"}},
		{name: "epsilon", input: "q0 =(ε)=> q1", expect: Transition{From: "q0", Input: alphabet.Epsilon, To: "q1"}},
		{name: "set-named states", input: "{0, 1} =(b)=> {2}", expect: Transition{From: "{0, 1}", Input: "b", To: "{2}"}},
		{name: "missing arrow", input: "q0 (a) q1", expectErr: true},
		{name: "missing target", input: "q0 =(a)=> ", expectErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			actual, err := ParseTransition(tc.input)
			if tc.expectErr {
				assert.Error(err)
				return
			}
			if !assert.NoError(err) {
				return
			}

			assert.Equal(tc.expect, actual)
			assert.Equal(tc.input, actual.String())
		})
	}
}

func Test_Builder(t *testing.T) {
	assert := assert.New(t)

	b := NewBuilder("a")
	assert.NoError(b.AddState("q0", true, false))
	assert.NoError(b.AddState("q1", false, true))

	assert.Error(b.AddState("q0", false, false), "duplicate state")
	assert.Error(b.AddState("", false, false), "empty ID")
	assert.Error(b.AddTransition("q0", "a", "nope"))
	assert.Error(b.AddTransition("nope", "a", "q0"))

	err := b.AddTransition("q0", "z", "q1")
	assert.ErrorIs(err, ErrUnknownSymbol)

	assert.NoError(b.AddTransition("q0", "a", "q1"))
	assert.NoError(b.AddTransition("q0", "a", "q1"), "adding existing move is no-op")
	assert.NoError(b.AddTransition("q1", alphabet.Epsilon, "q0"))

	fa := b.Build()

	// further building must not leak into fa
	assert.NoError(b.AddState("q2", false, false))

	assert.Equal(2, fa.Len())
	assert.Equal([]Transition{
		{From: "q0", Input: "a", To: "q1"},
		{From: "q1", Input: alphabet.Epsilon, To: "q0"},
	}, fa.Transitions())
	assert.Equal([]string{"q0"}, fa.EntryStates())
	assert.Equal([]string{"q1"}, fa.ExitStates())
}

func Test_IsDeterministic(t *testing.T) {
	testCases := []struct {
		name   string
		fa     Automaton
		expect bool
	}{
		{name: "empty", fa: Automaton{}, expect: true},
		{name: "dfa", fa: evenAsDFA(), expect: true},
		{name: "epsilon moves", fa: dragonNFA(), expect: false},
		{
			name: "two targets on one symbol",
			fa: MustBuild(map[string][]string{
				"q0": {"=(a)=> q0", "=(a)=> q1"},
				"q1": {},
			}, []string{"q0"}, []string{"q1"}),
			expect: false,
		},
		{
			name: "two entry states",
			fa: MustBuild(map[string][]string{
				"q0": {"=(a)=> q1"},
				"q1": {},
			}, []string{"q0", "q1"}, []string{"q1"}),
			expect: false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			assert.Equal(tc.expect, tc.fa.IsDeterministic())
		})
	}
}

func Test_Step(t *testing.T) {
	testCases := []struct {
		name   string
		fa     Automaton
		state  string
		input  alphabet.Symbol
		expect []string
	}{
		{name: "dfa move", fa: evenAsDFA(), state: "even", input: "a", expect: []string{"odd"}},
		{name: "dfa self loop", fa: evenAsDFA(), state: "odd", input: "b", expect: []string{"odd"}},
		{name: "unknown state", fa: evenAsDFA(), state: "nope", input: "a", expect: []string{}},
		{name: "symbol not in alphabet", fa: evenAsDFA(), state: "even", input: "c", expect: []string{}},
		{
			name:   "nfa follows closures on both sides",
			fa:     dragonNFA(),
			state:  "0",
			input:  "a",
			expect: []string{"1", "2", "3", "4", "6", "7", "8"},
		},
		{
			name:   "stepping on epsilon is the closure",
			fa:     dragonNFA(),
			state:  "0",
			input:  alphabet.Epsilon,
			expect: []string{"0", "1", "2", "4", "7"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			actual := tc.fa.Step(tc.state, tc.input)

			assert.ElementsMatch(tc.expect, actual.Elements())
		})
	}
}

func Test_Step_DeterministicHasAtMostOneTarget(t *testing.T) {
	assert := assert.New(t)

	dfa := dragonNFA().Determinize()
	for _, st := range dfa.States() {
		for _, sym := range dfa.Alphabet().Symbols() {
			assert.LessOrEqual(dfa.Step(st.ID, sym).Len(), 1, "step from %s on %s", st.ID, sym)
		}
	}
}

func Test_Run(t *testing.T) {
	assert := assert.New(t)

	fa := evenAsDFA()
	word := alphabet.Split("aba")

	var positions []int
	var sets [][]string
	sim := fa.Run(word)
	for sim.Next() {
		positions = append(positions, sim.Pos())
		sets = append(sets, sim.Active().Sorted())
	}

	assert.Equal([]int{0, 1, 2, 3}, positions)
	assert.Equal([][]string{{"even"}, {"odd"}, {"odd"}, {"even"}}, sets)
	assert.True(sim.Done())
	assert.True(sim.Accepting())
	assert.False(sim.Next(), "exhausted simulation stays exhausted")

	// a second run reproduces the same sequence
	assert.Equal(len(word)+1, len(fa.Trace(word)))
	assert.Equal(fa.Trace(word), fa.Trace(word))
}

func Test_Run_ContinuesAfterDeath(t *testing.T) {
	assert := assert.New(t)

	fa := MustBuild(map[string][]string{
		"q0": {"=(a)=> q1"},
		"q1": {},
	}, []string{"q0"}, []string{"q1"})

	sets := fa.Trace(alphabet.Split("aaa"))

	if !assert.Len(sets, 4) {
		return
	}
	assert.Equal([]string{"q0"}, sets[0].Sorted())
	assert.Equal([]string{"q1"}, sets[1].Sorted())
	assert.True(sets[2].Empty())
	assert.True(sets[3].Empty())
}

func Test_Accepts(t *testing.T) {
	testCases := []struct {
		name   string
		fa     Automaton
		input  string
		expect bool
	}{
		{name: "even: empty", fa: evenAsDFA(), input: "", expect: true},
		{name: "even: one a", fa: evenAsDFA(), input: "a", expect: false},
		{name: "even: two a", fa: evenAsDFA(), input: "abab", expect: true},
		{name: "even: foreign symbol", fa: evenAsDFA(), input: "c", expect: false},
		{name: "dragon: abb", fa: dragonNFA(), input: "abb", expect: true},
		{name: "dragon: babb", fa: dragonNFA(), input: "babb", expect: true},
		{name: "dragon: ab", fa: dragonNFA(), input: "ab", expect: false},
		{name: "dragon: empty", fa: dragonNFA(), input: "", expect: false},
		{name: "no states", fa: Automaton{}, input: "", expect: false},
		{
			name: "no reachable exit rejects empty word",
			fa: MustBuild(map[string][]string{
				"q0": {"=(a)=> q0"},
				"q1": {},
			}, []string{"q0"}, []string{"q1"}),
			input:  "",
			expect: false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			assert.Equal(tc.expect, tc.fa.AcceptsString(tc.input))
		})
	}
}

func Test_Determinize(t *testing.T) {
	assert := assert.New(t)

	nfa := dragonNFA()
	dfa := nfa.Determinize()

	assert.True(dfa.IsDeterministic())
	assert.Equal(5, dfa.Len())
	assert.Equal([]string{"{0, 1, 2, 4, 7}"}, dfa.EntryStates())
	assert.Equal([]string{"{1, 10, 2, 4, 5, 6, 7}"}, dfa.ExitStates())
	assert.True(dfa.Alphabet().Equal(nfa.Alphabet()))

	for _, w := range allWords(nfa.Alphabet().Symbols(), 7) {
		assert.Equal(nfa.Accepts(w), dfa.Accepts(w), "word %q", alphabet.Join(w))
	}
}

func Test_Determinize_PreservesLanguage(t *testing.T) {
	testCases := []struct {
		name string
		fa   Automaton
	}{
		{name: "dfa", fa: evenAsDFA()},
		{name: "dragon nfa", fa: dragonNFA()},
		{
			name: "multiple entries",
			fa: MustBuild(map[string][]string{
				"a0": {"=(a)=> a1"},
				"a1": {},
				"b0": {"=(b)=> b1"},
				"b1": {"=(b)=> b1"},
			}, []string{"a0", "b0"}, []string{"a1", "b1"}),
		},
		{
			name: "epsilon cycle",
			fa: MustBuild(map[string][]string{
				"q0": {"=(ε)=> q1"},
				"q1": {"=(ε)=> q0", "=(a)=> q2"},
				"q2": {"=(ε)=> q0"},
			}, []string{"q0"}, []string{"q2"}),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			dfa := tc.fa.Determinize()

			assert.True(dfa.IsDeterministic())
			for _, w := range allWords(tc.fa.Alphabet().Symbols(), 6) {
				assert.Equal(tc.fa.Accepts(w), dfa.Accepts(w), "word %q", alphabet.Join(w))
			}
		})
	}
}

func Test_Determinize_Idempotent(t *testing.T) {
	assert := assert.New(t)

	once := dragonNFA().Determinize()
	twice := once.Determinize()

	assert.Equal(once.Len(), twice.Len())
	assert.Equal(once.Renumber().String(), twice.Renumber().String())
}

func Test_Determinize_StateIDsThatLookLikeSets(t *testing.T) {
	assert := assert.New(t)

	b := NewBuilder()
	b.AddSymbol("x", "y")
	assert.NoError(b.AddState("s", true, false))
	assert.NoError(b.AddState("a", false, true))
	assert.NoError(b.AddState("b", false, false))
	assert.NoError(b.AddState("a, b", false, false))
	assert.NoError(b.AddTransition("s", "x", "a"))
	assert.NoError(b.AddTransition("s", "x", "b"))
	assert.NoError(b.AddTransition("s", "y", "a, b"))
	fa := b.Build()

	dfa := fa.Determinize()

	assert.Equal([]State{
		{ID: "{s}", IsEntry: true},
		{ID: "{a, b}", IsExit: true},
		{ID: "{a, b}#2"},
	}, dfa.States())
	assert.True(dfa.IsDeterministic())

	for _, w := range []string{"", "x", "y", "xx", "yx"} {
		assert.Equal(fa.AcceptsString(w), dfa.AcceptsString(w), "word %q", w)
	}
	assert.True(dfa.AcceptsString("x"))
	assert.False(dfa.AcceptsString("y"))
}

func Test_Determinize_NoEntry(t *testing.T) {
	assert := assert.New(t)

	fa := MustBuild(map[string][]string{
		"q0": {"=(a)=> q0"},
	}, nil, []string{"q0"})

	dfa := fa.Determinize()

	assert.Equal([]State{{ID: "{}", IsEntry: true}}, dfa.States())
	assert.False(dfa.AcceptsString(""))
	assert.False(dfa.AcceptsString("a"))
}

func Test_Union(t *testing.T) {
	assert := assert.New(t)

	left := evenAsDFA()
	right := MustBuild(map[string][]string{
		"s": {"=(c)=> t"},
		"t": {},
	}, []string{"s"}, []string{"t"})

	u := left.Union(right)

	assert.Equal([]string{UnionEntry}, u.EntryStates())
	assert.ElementsMatch([]string{"1:even", "2:t"}, u.ExitStates())
	assert.Equal([]alphabet.Symbol{"a", "b", "c"}, u.Alphabet().Symbols())
	assert.ElementsMatch([]string{"1:even", "2:s"}, u.Targets(UnionEntry, alphabet.Epsilon))

	for _, w := range allWords(u.Alphabet().Symbols(), 4) {
		expect := left.Accepts(w) || right.Accepts(w)
		assert.Equal(expect, u.Accepts(w), "word %q", alphabet.Join(w))
	}

	// originals untouched
	assert.Equal([]string{"even"}, left.EntryStates())
}

func Test_Renumber(t *testing.T) {
	assert := assert.New(t)

	fa := MustBuild(map[string][]string{
		"b": {"=(x)=> a"},
		"a": {"=(x)=> b"},
	}, []string{"b"}, []string{"a"})

	renum := fa.Renumber()

	assert.Equal([]State{{ID: "q0", IsEntry: true}, {ID: "q1", IsExit: true}}, renum.States())
	assert.Equal([]Transition{
		{From: "q0", Input: "x", To: "q1"},
		{From: "q1", Input: "x", To: "q0"},
	}, renum.Transitions())
}

func Test_String(t *testing.T) {
	assert := assert.New(t)

	fa := MustBuild(map[string][]string{
		"q0": {"=(a)=> q1", "=(ε)=> q1"},
		"q1": {},
	}, []string{"q0"}, []string{"q1"})

	expect := "<ENTRY: {q0}, STATES:\n" +
		"\t(q0 [=(ε)=> q1, =(a)=> q1]),\n" +
		"\t((q1 []))\n" +
		">"

	assert.Equal(expect, fa.String())
}

func Test_Validate(t *testing.T) {
	testCases := []struct {
		name      string
		fa        Automaton
		expectErr bool
	}{
		{name: "good dfa", fa: evenAsDFA()},
		{name: "good nfa", fa: dragonNFA()},
		{name: "empty", fa: Automaton{}, expectErr: true},
		{
			name: "unreachable state",
			fa: MustBuild(map[string][]string{
				"q0": {"=(a)=> q0"},
				"q1": {},
			}, []string{"q0"}, []string{"q0"}),
			expectErr: true,
		},
		{
			name: "no exit",
			fa: MustBuild(map[string][]string{
				"q0": {"=(a)=> q0"},
			}, []string{"q0"}, nil),
			expectErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			err := tc.fa.Validate()
			if tc.expectErr {
				assert.Error(err)
			} else {
				assert.NoError(err)
			}
		})
	}
}
