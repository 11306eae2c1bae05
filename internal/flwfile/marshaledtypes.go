package flwfile

import (
	"strings"

	"github.com/dekarrin/flwarrior/alphabet"
	"github.com/dekarrin/flwarrior/automaton"
	"github.com/dekarrin/flwarrior/grammar"
	"github.com/dekarrin/flwarrior/lex"
	"github.com/dekarrin/flwarrior/regex"
)

type topLevelManifest struct {
	Format string   `toml:"format"`
	Type   string   `toml:"type"`
	Files  []string `toml:"files"`
}

// topLevelDefinitions is the top-level structure containing all keys in any
// non-manifest FLW file. Only the table that matches Type may be present.
type topLevelDefinitions struct {
	Format   string       `toml:"format"`
	Type     string       `toml:"type"`
	Rules    []lex.Rule   `toml:"rule"`
	Machines []machine    `toml:"machine"`
	Grammars []grammarDef `toml:"grammar"`
	Regexes  []regexDef   `toml:"regex"`
}

// merge appends every definition in other to defs.
func (defs *topLevelDefinitions) merge(other topLevelDefinitions) {
	defs.Rules = append(defs.Rules, other.Rules...)
	defs.Machines = append(defs.Machines, other.Machines...)
	defs.Grammars = append(defs.Grammars, other.Grammars...)
	defs.Regexes = append(defs.Regexes, other.Regexes...)
}

type machine struct {
	Name        string   `toml:"name"`
	Alphabet    []string `toml:"alphabet"`
	States      []string `toml:"states"`
	Entry       []string `toml:"entry"`
	Exit        []string `toml:"exit"`
	Transitions []string `toml:"transitions"`
}

// toAutomaton builds the automaton. States are added in the order they are
// listed in states, then in the order they are first mentioned in entry, exit,
// and transitions.
func (m machine) toAutomaton() (automaton.Automaton, error) {
	var trans []automaton.Transition
	for _, tStr := range m.Transitions {
		t, err := automaton.ParseTransition(tStr)
		if err != nil {
			return automaton.Automaton{}, err
		}
		trans = append(trans, t)
	}

	entries := stringSetOf(m.Entry)
	exits := stringSetOf(m.Exit)

	var order []string
	seen := map[string]bool{}
	see := func(ids ...string) {
		for _, id := range ids {
			id = strings.TrimSpace(id)
			if !seen[id] {
				seen[id] = true
				order = append(order, id)
			}
		}
	}
	see(m.States...)
	see(m.Entry...)
	see(m.Exit...)
	for _, t := range trans {
		see(t.From, t.To)
	}

	b := automaton.NewBuilder()
	for _, sym := range m.Alphabet {
		b.AddSymbol(alphabet.ParseSymbol(sym))
	}
	for _, t := range trans {
		b.AddSymbol(t.Input)
	}
	for _, id := range order {
		if err := b.AddState(id, entries.Has(id), exits.Has(id)); err != nil {
			return automaton.Automaton{}, err
		}
	}
	for _, t := range trans {
		if err := b.AddTransition(t.From, t.Input, t.To); err != nil {
			return automaton.Automaton{}, err
		}
	}

	return b.Build(), nil
}

func stringSetOf(ids []string) automaton.StateSet {
	set := automaton.StateSet{}
	for _, id := range ids {
		set.Add(strings.TrimSpace(id))
	}
	return set
}

type grammarDef struct {
	Name  string   `toml:"name"`
	Start string   `toml:"start"`
	Rules []string `toml:"rules"`
}

// toGrammar parses the rules. The start symbol is the first head unless one is
// given.
func (gd grammarDef) toGrammar() (grammar.Grammar, error) {
	g, err := grammar.Parse(strings.Join(gd.Rules, ";"))
	if err != nil {
		return g, err
	}
	if gd.Start != "" {
		return g.WithStartSymbol(alphabet.Symbol(gd.Start))
	}
	return g, nil
}

type regexDef struct {
	Name string `toml:"name"`
	Body string `toml:"body"`
}

func (rd regexDef) toRecord() regex.Record {
	return regex.NewRecord("", rd.Name, rd.Body)
}
