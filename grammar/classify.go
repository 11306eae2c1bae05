package grammar

import (
	"fmt"
	"strings"
)

// Type is a class of the Chomsky hierarchy. Types compare in order of
// increasing generality, so Regular < ContextFree.
type Type int

const (
	Regular Type = iota
	ContextFree
	ContextSensitive
	Unrestricted
)

func (t Type) String() string {
	switch t {
	case Regular:
		return "REGULAR"
	case ContextFree:
		return "CONTEXT_FREE"
	case ContextSensitive:
		return "CONTEXT_SENSITIVE"
	case Unrestricted:
		return "UNRESTRICTED"
	default:
		return fmt.Sprintf("Type(%d)", int(t))
	}
}

// ParseType parses the String form of a Type. Case is ignored.
func ParseType(s string) (Type, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "REGULAR":
		return Regular, nil
	case "CONTEXT_FREE":
		return ContextFree, nil
	case "CONTEXT_SENSITIVE":
		return ContextSensitive, nil
	case "UNRESTRICTED":
		return Unrestricted, nil
	default:
		return Unrestricted, fmt.Errorf("not a grammar type: %q", s)
	}
}

// Classify returns the most specific class of the Chomsky hierarchy that g
// belongs to.
//
// The start symbol producing ε is allowed in every class but Unrestricted, as
// long as the start symbol appears in no production body.
func (g Grammar) Classify() Type {
	if !g.isContextSensitive() {
		return Unrestricted
	}
	if !g.isContextFree() {
		return ContextSensitive
	}
	if !g.isRegular() {
		return ContextFree
	}
	return Regular
}

// epsilonAllowed returns whether head may produce ε without breaking
// monotonicity.
func (g Grammar) epsilonAllowed(head Word) bool {
	if g.start == "" || len(head) != 1 || head[0] != g.start {
		return false
	}
	for _, r := range g.rules {
		for _, body := range r.Bodies {
			if body.Has(g.start) {
				return false
			}
		}
	}
	return true
}

func (g Grammar) isContextSensitive() bool {
	for _, r := range g.rules {
		for _, body := range r.Bodies {
			if body.IsEpsilon() {
				if !g.epsilonAllowed(r.Head) {
					return false
				}
				continue
			}
			if len(body) < len(r.Head) {
				return false
			}
		}
	}
	return true
}

func (g Grammar) isContextFree() bool {
	for _, r := range g.rules {
		if len(r.Head) != 1 {
			return false
		}
	}
	return true
}

func (g Grammar) isRegular() bool {
	for _, r := range g.rules {
		for _, body := range r.Bodies {
			if body.IsEpsilon() {
				// already checked by isContextSensitive
				continue
			}
			if len(body) > 2 || !g.terminals.Has(body[0]) {
				return false
			}
			if len(body) == 2 && !g.nonTerminals.Has(body[1]) {
				return false
			}
		}
	}
	return true
}
