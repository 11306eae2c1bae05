package grammar

import (
	"github.com/dekarrin/flwarrior/alphabet"
	"github.com/dekarrin/flwarrior/internal/flerrors"
)

// WithTerminal returns a new Grammar with sym added to the terminals. It is an
// error if sym is ε or is already a non-terminal.
func (g Grammar) WithTerminal(sym alphabet.Symbol) (Grammar, error) {
	if sym == alphabet.Epsilon {
		return Grammar{}, flerrors.Malformedf("ε cannot be a terminal")
	}
	if g.nonTerminals.Has(sym) {
		return Grammar{}, flerrors.Malformedf("%q is already a non-terminal", sym)
	}
	g = g.Copy()
	g.terminals = g.terminals.With(sym)
	return g, nil
}

// WithNonTerminal returns a new Grammar with sym added to the non-terminals.
// It is an error if sym is ε or is already a terminal.
func (g Grammar) WithNonTerminal(sym alphabet.Symbol) (Grammar, error) {
	if sym == alphabet.Epsilon {
		return Grammar{}, flerrors.Malformedf("ε cannot be a non-terminal")
	}
	if g.terminals.Has(sym) {
		return Grammar{}, flerrors.Malformedf("%q is already a terminal", sym)
	}
	g = g.Copy()
	g.nonTerminals = g.nonTerminals.With(sym)
	return g, nil
}

// WithoutTerminal returns a new Grammar with sym removed from the terminals,
// along with every head and body that uses it.
func (g Grammar) WithoutTerminal(sym alphabet.Symbol) Grammar {
	g = g.withoutSymbol(sym)
	g.terminals = g.terminals.Without(sym)
	return g
}

// WithoutNonTerminal returns a new Grammar with sym removed from the
// non-terminals, along with every head and body that uses it. If sym was the
// start symbol, the grammar is left with no start symbol.
func (g Grammar) WithoutNonTerminal(sym alphabet.Symbol) Grammar {
	g = g.withoutSymbol(sym)
	g.nonTerminals = g.nonTerminals.Without(sym)
	if g.start == sym {
		g.start = alphabet.Epsilon
	}
	return g
}

func (g Grammar) withoutSymbol(sym alphabet.Symbol) Grammar {
	var kept []Rule
	for _, r := range g.rules {
		if r.Head.Has(sym) {
			continue
		}
		newR := Rule{Head: r.Head.Copy(), Bodies: []Word{}}
		for _, body := range r.Bodies {
			if !body.Has(sym) {
				newR.Bodies = append(newR.Bodies, body.Copy())
			}
		}
		kept = append(kept, newR)
	}

	g2 := Grammar{
		start:        g.start,
		terminals:    g.terminals,
		nonTerminals: g.nonTerminals,
		rules:        kept,
	}
	g2.reindex()
	return g2
}

// WithStartSymbol returns a new Grammar with sym as its start symbol. It is an
// error if sym is not a non-terminal.
func (g Grammar) WithStartSymbol(sym alphabet.Symbol) (Grammar, error) {
	if !g.nonTerminals.Has(sym) {
		return Grammar{}, flerrors.Malformedf("start symbol %q is not a non-terminal", sym)
	}
	g = g.Copy()
	g.start = sym
	return g, nil
}

// WithHead returns a new Grammar with an empty rule for head added at the end.
// Nothing changes if the head already has a rule.
func (g Grammar) WithHead(head ...alphabet.Symbol) (Grammar, error) {
	if err := g.checkHead(head); err != nil {
		return Grammar{}, err
	}
	g = g.Copy()
	g.addHead(head)
	return g, nil
}

// WithoutHead returns a new Grammar without the rule for head.
func (g Grammar) WithoutHead(head ...alphabet.Symbol) Grammar {
	idx, ok := g.rulesByHead[Word(head).key()]
	if !ok {
		return g
	}
	g = g.Copy()
	g.rules = append(g.rules[:idx], g.rules[idx+1:]...)
	g.reindex()
	return g
}

// WithProduction returns a new Grammar in which head can produce body. The rule
// for head is created if needed. An empty body is taken to be ε.
func (g Grammar) WithProduction(head Word, body Word) (Grammar, error) {
	if len(body) == 0 {
		body = Epsilon
	}
	if err := g.checkHead(head); err != nil {
		return Grammar{}, err
	}
	if err := g.checkBody(head, body); err != nil {
		return Grammar{}, err
	}
	g = g.Copy()
	g.addHead(head)
	g.addBody(head, body)
	return g, nil
}

// WithoutProduction returns a new Grammar in which head no longer produces
// body. The rule for head is kept even if it has no bodies left.
func (g Grammar) WithoutProduction(head Word, body Word) Grammar {
	if len(body) == 0 {
		body = Epsilon
	}
	idx, ok := g.rulesByHead[head.key()]
	if !ok {
		return g
	}
	g = g.Copy()
	r := g.rules[idx]
	newBodies := []Word{}
	for _, b := range r.Bodies {
		if !b.Equal(body) {
			newBodies = append(newBodies, b)
		}
	}
	g.rules[idx].Bodies = newBodies
	return g
}
