// Package grammar contains formal grammars made of production rules, along
// with Chomsky classification and the rewrites that prepare a grammar for
// top-down parsing: left factoring and left recursion removal.
//
// Unlike the usual textbook presentation, a rule head may have more than one
// symbol, so that context-sensitive and unrestricted grammars can be
// represented and classified. The rewrites only ever touch rules whose head is
// a single non-terminal.
package grammar

import (
	"fmt"
	"strings"

	"github.com/dekarrin/flwarrior/alphabet"
	"github.com/dekarrin/flwarrior/internal/flerrors"
	"github.com/dekarrin/flwarrior/internal/util"
)

var (
	// ErrUnknownSymbol matches errors caused by a rule that uses a symbol that
	// is neither a terminal nor a non-terminal of the grammar.
	ErrUnknownSymbol = flerrors.ErrUnknownSymbol

	// ErrInvalidHead matches errors caused by a rule head that is empty,
	// contains epsilon, or contains no non-terminal.
	ErrInvalidHead = flerrors.ErrInvalidHead

	// ErrMalformed matches errors caused by a grammar definition that does not
	// make sense otherwise.
	ErrMalformed = flerrors.ErrMalformed
)

// UnknownSymbolError is the type of error returned for a symbol that is in
// neither alphabet of the grammar.
type UnknownSymbolError = flerrors.UnknownSymbolError

// InvalidHeadError is the type of error returned for a bad rule head.
type InvalidHeadError = flerrors.InvalidHeadError

// Word is a sequence of symbols, used for both the head and the bodies of a
// rule. The epsilon word is a Word holding only alphabet.Epsilon.
type Word []alphabet.Symbol

// Epsilon is the word that produces the empty string.
var Epsilon = Word{alphabet.Epsilon}

// IsEpsilon returns whether w is the epsilon word.
func (w Word) IsEpsilon() bool {
	return len(w) == 1 && w[0] == alphabet.Epsilon
}

// Copy returns a duplicate of w.
func (w Word) Copy() Word {
	w2 := make(Word, len(w))
	copy(w2, w)
	return w2
}

// Equal returns whether w and o hold the same symbols in the same order.
func (w Word) Equal(o Word) bool {
	return util.EqualSlices(w, o)
}

// Has returns whether sym appears anywhere in w.
func (w Word) Has(sym alphabet.Symbol) bool {
	for i := range w {
		if w[i] == sym {
			return true
		}
	}
	return false
}

// String gives the symbols of w separated by spaces, or "ε" for the epsilon
// word.
func (w Word) String() string {
	if w.IsEpsilon() || len(w) == 0 {
		return alphabet.EpsilonText
	}
	return strings.Join(alphabet.Strings(w), " ")
}

// Strings gives the symbols of w as strings. The epsilon word gives []string{""}.
func (w Word) Strings() []string {
	return alphabet.Strings(w)
}

// key gives a value usable as a map key that is unique for each distinct Word.
func (w Word) key() string {
	return strings.Join(alphabet.Strings(w), "\x00")
}

// Rule is every production of one head, in order.
type Rule struct {
	Head   Word
	Bodies []Word
}

// Copy returns a deep-copied duplicate of r.
func (r Rule) Copy() Rule {
	r2 := Rule{Head: r.Head.Copy(), Bodies: make([]Word, len(r.Bodies))}
	for i := range r.Bodies {
		r2.Bodies[i] = r.Bodies[i].Copy()
	}
	return r2
}

// HasBody returns whether body is one of the productions of r.
func (r Rule) HasBody(body Word) bool {
	for i := range r.Bodies {
		if r.Bodies[i].Equal(body) {
			return true
		}
	}
	return false
}

// String gives the rule as "HEAD -> BODY | BODY".
func (r Rule) String() string {
	bodies := make([]string, len(r.Bodies))
	for i := range r.Bodies {
		bodies[i] = r.Bodies[i].String()
	}
	return r.Head.String() + " -> " + strings.Join(bodies, " | ")
}

// Grammar is a formal grammar. It is immutable; the With/Without methods and
// the rewrites all return a new Grammar. The zero value is an empty grammar
// with no rules.
type Grammar struct {
	start        alphabet.Symbol
	terminals    alphabet.Alphabet
	nonTerminals alphabet.Alphabet

	// rules are kept in a slice because their order is meaningful to a
	// reader; rulesByHead indexes into it.
	rules       []Rule
	rulesByHead map[string]int
}

// New creates a Grammar. Rules that share a head are merged, and duplicate
// bodies are dropped. An empty body is taken to be the epsilon word.
//
// Every problem found is reported, not only the first: a head that is empty,
// contains epsilon, or has no non-terminal gives an error matching
// ErrInvalidHead; a symbol in neither alphabet gives one matching
// ErrUnknownSymbol; anything else wrong, such as a symbol in both alphabets,
// a start symbol that is not a non-terminal, or epsilon alongside other
// symbols in a body, gives one matching ErrMalformed.
//
// The start symbol may be left as alphabet.Epsilon to indicate that it is not
// yet chosen.
func New(start alphabet.Symbol, terminals, nonTerminals alphabet.Alphabet, rules ...Rule) (Grammar, error) {
	g := Grammar{
		start:        start,
		terminals:    terminals,
		nonTerminals: nonTerminals,
	}

	var err error

	for _, t := range terminals.Symbols() {
		if nonTerminals.Has(t) {
			err = flerrors.Append(err, flerrors.Malformedf("symbol %q is both a terminal and a non-terminal", t))
		}
	}
	if start != alphabet.Epsilon && !nonTerminals.Has(start) {
		err = flerrors.Append(err, flerrors.Malformedf("start symbol %q is not a non-terminal", start))
	}

	for _, r := range rules {
		if ruleErr := g.checkHead(r.Head); ruleErr != nil {
			err = flerrors.Append(err, ruleErr)
			continue
		}
		g.addHead(r.Head)

		for _, body := range r.Bodies {
			if len(body) == 0 {
				body = Epsilon
			}
			if bodyErr := g.checkBody(r.Head, body); bodyErr != nil {
				err = flerrors.Append(err, bodyErr)
				continue
			}
			g.addBody(r.Head, body)
		}
	}

	if err != nil {
		return Grammar{}, err
	}
	return g, nil
}

// MustNew is like New but panics on error.
func MustNew(start alphabet.Symbol, terminals, nonTerminals alphabet.Alphabet, rules ...Rule) Grammar {
	g, err := New(start, terminals, nonTerminals, rules...)
	if err != nil {
		panic(err.Error())
	}
	return g
}

func (g Grammar) checkHead(head Word) error {
	if len(head) == 0 {
		return &flerrors.InvalidHeadError{Head: head.Strings(), Reason: "is empty"}
	}
	if head.Has(alphabet.Epsilon) {
		return &flerrors.InvalidHeadError{Head: head.Strings(), Reason: "contains ε"}
	}

	var err error
	hasNonTerm := false
	for _, sym := range head {
		if g.nonTerminals.Has(sym) {
			hasNonTerm = true
		} else if !g.terminals.Has(sym) {
			err = flerrors.Append(err, &flerrors.UnknownSymbolError{Symbol: string(sym), Where: "head " + head.String()})
		}
	}
	if err != nil {
		return err
	}
	if !hasNonTerm {
		return &flerrors.InvalidHeadError{Head: head.Strings(), Reason: "has no non-terminal"}
	}
	return nil
}

func (g Grammar) checkBody(head, body Word) error {
	if body.IsEpsilon() {
		return nil
	}

	var err error
	for _, sym := range body {
		if sym == alphabet.Epsilon {
			err = flerrors.Append(err, flerrors.Malformedf("%s -> %s: ε must be the only symbol of a body", head, body))
		} else if !g.terminals.Has(sym) && !g.nonTerminals.Has(sym) {
			err = flerrors.Append(err, &flerrors.UnknownSymbolError{Symbol: string(sym), Where: fmt.Sprintf("body of %s", head)})
		}
	}
	return err
}

// addHead adds a rule with no bodies if there is none for head. Caller must
// have checked head.
func (g *Grammar) addHead(head Word) {
	if g.rulesByHead == nil {
		g.rulesByHead = map[string]int{}
	}
	if _, ok := g.rulesByHead[head.key()]; ok {
		return
	}
	g.rules = append(g.rules, Rule{Head: head.Copy(), Bodies: []Word{}})
	g.rulesByHead[head.key()] = len(g.rules) - 1
}

// addBody adds body to the rule for head if it is not already there. Caller
// must have checked both and added the head.
func (g *Grammar) addBody(head, body Word) {
	idx := g.rulesByHead[head.key()]
	r := g.rules[idx]
	if r.HasBody(body) {
		return
	}
	r.Bodies = append(r.Bodies, body.Copy())
	g.rules[idx] = r
}

// insertRule places r immediately after the rule at idx.
func (g *Grammar) insertRule(r Rule, idx int) {
	// explicitly copy the end of the slice; saving a sub-slice and then
	// appending to the front would alias it
	postList := make([]Rule, len(g.rules)-(idx+1))
	copy(postList, g.rules[idx+1:])
	g.rules = append(g.rules[:idx+1], r)
	g.rules = append(g.rules, postList...)

	g.reindex()
}

func (g *Grammar) reindex() {
	g.rulesByHead = make(map[string]int, len(g.rules))
	for i := range g.rules {
		g.rulesByHead[g.rules[i].Head.key()] = i
	}
}

// Copy makes a duplicate deep copy of the grammar.
func (g Grammar) Copy() Grammar {
	g2 := Grammar{
		start:        g.start,
		terminals:    g.terminals,
		nonTerminals: g.nonTerminals,
		rules:        make([]Rule, len(g.rules)),
	}
	for i := range g.rules {
		g2.rules[i] = g.rules[i].Copy()
	}
	g2.reindex()
	return g2
}

// StartSymbol returns the start symbol, or alphabet.Epsilon if none is set.
func (g Grammar) StartSymbol() alphabet.Symbol {
	return g.start
}

// Terminals returns the terminal alphabet.
func (g Grammar) Terminals() alphabet.Alphabet {
	return g.terminals
}

// NonTerminals returns the non-terminal alphabet.
func (g Grammar) NonTerminals() alphabet.Alphabet {
	return g.nonTerminals
}

// IsTerminal returns whether sym is a terminal of the grammar.
func (g Grammar) IsTerminal(sym alphabet.Symbol) bool {
	return g.terminals.Has(sym)
}

// IsNonTerminal returns whether sym is a non-terminal of the grammar.
func (g Grammar) IsNonTerminal(sym alphabet.Symbol) bool {
	return g.nonTerminals.Has(sym)
}

// Rules returns a copy of every rule, in order.
func (g Grammar) Rules() []Rule {
	rules := make([]Rule, len(g.rules))
	for i := range g.rules {
		rules[i] = g.rules[i].Copy()
	}
	return rules
}

// Rule returns the rule for the given head, and whether there is one.
func (g Grammar) Rule(head ...alphabet.Symbol) (Rule, bool) {
	idx, ok := g.rulesByHead[Word(head).key()]
	if !ok {
		return Rule{}, false
	}
	return g.rules[idx].Copy(), true
}

// String gives each rule on its own line.
func (g Grammar) String() string {
	lines := make([]string, len(g.rules))
	for i := range g.rules {
		lines[i] = g.rules[i].String()
	}
	return strings.Join(lines, "\n")
}

// Equal returns whether g and o have the same start symbol, alphabets, and
// rules. Alphabet order is ignored but rule and body order is not.
func (g Grammar) Equal(o Grammar) bool {
	if g.start != o.start || !g.terminals.Equal(o.terminals) || !g.nonTerminals.Equal(o.nonTerminals) {
		return false
	}
	if len(g.rules) != len(o.rules) {
		return false
	}
	for i := range g.rules {
		r1, r2 := g.rules[i], o.rules[i]
		if !r1.Head.Equal(r2.Head) || len(r1.Bodies) != len(r2.Bodies) {
			return false
		}
		for j := range r1.Bodies {
			if !r1.Bodies[j].Equal(r2.Bodies[j]) {
				return false
			}
		}
	}
	return true
}
