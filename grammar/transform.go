package grammar

import (
	"github.com/dekarrin/flwarrior/alphabet"
	"github.com/dekarrin/flwarrior/internal/util"
)

// namer hands out fresh non-terminals for the rewrites. A symbol it created is
// used as a base by way of the symbol it was created from, so that factoring
// S twice gives S_1 and S_2 rather than S_1 and S_1_1.
type namer struct {
	alloc *alphabet.Allocator
	bases map[alphabet.Symbol]alphabet.Symbol
}

func newNamer(g Grammar) *namer {
	return &namer{
		alloc: alphabet.NewAllocator(g.terminals, g.nonTerminals),
		bases: map[alphabet.Symbol]alphabet.Symbol{},
	}
}

func (n *namer) fresh(from alphabet.Symbol) alphabet.Symbol {
	base, ok := n.bases[from]
	if !ok {
		base = from
	}
	sym := n.alloc.Fresh(base)
	n.bases[sym] = base
	return sym
}

// appendBody adds body to bodies unless it is already present.
func appendBody(bodies []Word, body Word) []Word {
	for i := range bodies {
		if bodies[i].Equal(body) {
			return bodies
		}
	}
	return append(bodies, body)
}

// RemoveDirectNonDeterminism returns a new Grammar in which no rule has two
// bodies that begin with the same symbol.
//
// Each group of bodies of A that share a leading symbol x is replaced with the
// single body x N, where N is a new non-terminal whose bodies are what
// followed x in each member of the group (ε for a body that was only x). The
// rule for N is placed right after the rule for A and is itself processed, so
// the result has no remaining collisions at any depth.
//
// Rules with a multi-symbol head are left alone.
func (g Grammar) RemoveDirectNonDeterminism() Grammar {
	g = g.Copy()
	names := newNamer(g)

	for i := 0; i < len(g.rules); i++ {
		r := g.rules[i]
		if len(r.Head) != 1 {
			continue
		}

		groups := map[alphabet.Symbol][]Word{}
		for _, body := range r.Bodies {
			groups[body[0]] = append(groups[body[0]], body)
		}

		var newBodies []Word
		var added []Rule
		done := map[alphabet.Symbol]bool{}
		for _, body := range r.Bodies {
			first := body[0]
			group := groups[first]
			if len(group) < 2 {
				newBodies = append(newBodies, body)
				continue
			}
			if done[first] {
				continue
			}
			done[first] = true

			fresh := names.fresh(r.Head[0])
			newBodies = append(newBodies, Word{first, fresh})

			var suffixes []Word
			for _, member := range group {
				suffix := member[1:].Copy()
				if len(suffix) == 0 {
					suffix = Epsilon.Copy()
				}
				suffixes = appendBody(suffixes, suffix)
			}
			added = append(added, Rule{Head: Word{fresh}, Bodies: suffixes})
			g.nonTerminals = g.nonTerminals.With(fresh)
		}

		if len(added) == 0 {
			continue
		}

		g.rules[i].Bodies = newBodies
		for k := range added {
			g.insertRule(added[k], i+k)
		}
	}

	return g
}

// LeftFactor returns a new Grammar in which no rule has two bodies that share
// a common prefix.
//
// This is an implementation of Algorithm 4.21 from the purple dragon book,
// "Left factoring a grammar". The longest prefix α shared by two or more
// bodies of A is found and those bodies are replaced by α A', where A' is a
// new non-terminal producing each remainder. This repeats until no rule
// changes.
//
// Rules with a multi-symbol head are left alone.
func (g Grammar) LeftFactor() Grammar {
	g = g.Copy()
	names := newNamer(g)

	changes := true
	for changes {
		changes = false
		for i := 0; i < len(g.rules); i++ {
			AiRule := g.rules[i]
			if len(AiRule.Head) != 1 {
				continue
			}

			// find the longest common prefix α common to two or more of Aᵢ's
			// alternatives
			var alpha Word
			for j := range AiRule.Bodies {
				for k := j + 1; k < len(AiRule.Bodies); k++ {
					longestPref := util.LongestCommonPrefix(AiRule.Bodies[j], AiRule.Bodies[k])
					if len(longestPref) > len(alpha) {
						alpha = longestPref
					}
				}
			}

			if len(alpha) == 0 || alpha.IsEpsilon() {
				continue
			}
			changes = true

			// Replace all of the A-productions A -> αβ₁ | αβ₂ | ... | αβₙ | γ,
			// where γ represents all alternatives that do not begin with α,
			// by:
			//
			// A  -> αA' | γ
			// A' -> β₁ | β₂ | ... | βₙ
			var gamma []Word
			var betas []Word
			for _, alt := range AiRule.Bodies {
				if util.HasPrefix(alt, alpha) {
					beta := alt[len(alpha):].Copy()
					if len(beta) == 0 {
						beta = Epsilon.Copy()
					}
					betas = appendBody(betas, beta)
				} else {
					gamma = append(gamma, alt)
				}
			}

			APrime := names.fresh(AiRule.Head[0])
			g.nonTerminals = g.nonTerminals.With(APrime)

			factored := append(alpha.Copy(), APrime)
			g.rules[i].Bodies = append([]Word{factored}, gamma...)

			// A' goes immediately after A
			g.insertRule(Rule{Head: Word{APrime}, Bodies: betas}, i)
		}
	}

	return g
}

// RemoveLeftRecursion returns a new Grammar with immediate left recursion
// removed. Each rule of the form
//
//	A -> Aα₁ | ... | Aαₘ | β₁ | ... | βₙ
//
// where no βᵢ starts with A, is replaced by
//
//	A  -> β₁A' | ... | βₙA'
//	A' -> α₁A' | ... | αₘA' | ε
//
// with A' a new non-terminal placed right after A. A body that is only A
// gives an empty α and is dropped. Left recursion through a chain of other
// non-terminals is not removed, and rules with a multi-symbol head are left
// alone.
func (g Grammar) RemoveLeftRecursion() Grammar {
	g = g.Copy()
	names := newNamer(g)

	for i := 0; i < len(g.rules); i++ {
		AiRule := g.rules[i]
		if len(AiRule.Head) != 1 {
			continue
		}
		A := AiRule.Head[0]

		recursive := false
		var alphas, betas []Word
		for _, body := range AiRule.Bodies {
			if body[0] == A {
				recursive = true
				if len(body) > 1 {
					alphas = append(alphas, body[1:])
				}
			} else {
				betas = append(betas, body)
			}
		}
		if !recursive {
			continue
		}

		APrime := names.fresh(A)
		g.nonTerminals = g.nonTerminals.With(APrime)

		newABodies := []Word{}
		for _, b := range betas {
			if b.IsEpsilon() {
				newABodies = appendBody(newABodies, Word{APrime})
			} else {
				newABodies = appendBody(newABodies, append(b.Copy(), APrime))
			}
		}

		var APrimeBodies []Word
		for _, a := range alphas {
			APrimeBodies = appendBody(APrimeBodies, append(a.Copy(), APrime))
		}
		APrimeBodies = appendBody(APrimeBodies, Epsilon.Copy())

		g.rules[i].Bodies = newABodies
		g.insertRule(Rule{Head: Word{APrime}, Bodies: APrimeBodies}, i)

		// A' cannot be left recursive
		i++
	}

	return g
}
