// Package alphabet contains the Symbol type used by every automaton, grammar,
// and expression in FLWarrior, along with ordered sets of symbols and a helper
// for allocating fresh symbol names.
package alphabet

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Symbol is a single atomic token of an alphabet. Symbols are compared by
// value.
type Symbol string

// Epsilon is the symbol that denotes the empty string. It labels epsilon
// transitions and is the sole symbol of an epsilon production body, but it is
// never a member of an Alphabet.
const Epsilon Symbol = ""

// EpsilonText is how Epsilon is displayed and how it may be written in
// textual and record input.
const EpsilonText = "ε"

// String returns the symbol as text, with Epsilon shown as "ε".
func (s Symbol) String() string {
	if s == Epsilon {
		return EpsilonText
	}
	return string(s)
}

// IsEpsilon returns whether s is Epsilon.
func (s Symbol) IsEpsilon() bool {
	return s == Epsilon
}

// ParseSymbol gives the Symbol for the given text. Both "" and "ε" give
// Epsilon.
func ParseSymbol(s string) Symbol {
	if s == EpsilonText {
		return Epsilon
	}
	return Symbol(s)
}

// Split breaks text into one symbol per character. The text is first
// normalized to NFC so that a character written with combining marks is the
// same single symbol as its precomposed form.
func Split(text string) []Symbol {
	text = norm.NFC.String(text)

	syms := make([]Symbol, 0, len(text))
	for _, ch := range text {
		syms = append(syms, Symbol(ch))
	}
	return syms
}

// Join concatenates symbols back into text. Epsilon contributes nothing.
func Join(syms []Symbol) string {
	var sb strings.Builder
	for _, s := range syms {
		sb.WriteString(string(s))
	}
	return sb.String()
}

// Strings converts symbols to their string values. Epsilon becomes "".
func Strings(syms []Symbol) []string {
	strs := make([]string, len(syms))
	for i := range syms {
		strs[i] = string(syms[i])
	}
	return strs
}

// Alphabet is an ordered set of unique symbols. Insertion order is kept. The
// zero value is an empty Alphabet that is ready to use.
//
// Alphabet is a value type; the methods that "modify" it return a new
// Alphabet and leave the original unchanged.
type Alphabet struct {
	order []Symbol
	index map[Symbol]int
}

// New creates an Alphabet from the given symbols. Duplicates after the first
// occurrence are ignored, as are Epsilon and a symbol spelled "ε".
func New(syms ...Symbol) Alphabet {
	var a Alphabet
	for _, s := range syms {
		a = a.with(s)
	}
	return a
}

// FromStrings creates an Alphabet from the given strings, with "ε" and the
// empty string ignored.
func FromStrings(strs ...string) Alphabet {
	var a Alphabet
	for _, s := range strs {
		a = a.with(ParseSymbol(s))
	}
	return a
}

// with is the copy-on-write add. It copies only when something is actually
// added. "ε" always means Epsilon, so it is never added as an ordinary symbol.
func (a Alphabet) with(s Symbol) Alphabet {
	if s == Epsilon || s == EpsilonText || a.Has(s) {
		return a
	}

	newA := Alphabet{
		order: make([]Symbol, len(a.order), len(a.order)+1),
		index: make(map[Symbol]int, len(a.order)+1),
	}
	copy(newA.order, a.order)
	for k, v := range a.index {
		newA.index[k] = v
	}
	newA.index[s] = len(newA.order)
	newA.order = append(newA.order, s)
	return newA
}

// Has returns whether s is in the Alphabet. Has(Epsilon) is always false.
func (a Alphabet) Has(s Symbol) bool {
	_, ok := a.index[s]
	return ok
}

// Len returns the number of symbols in the Alphabet.
func (a Alphabet) Len() int {
	return len(a.order)
}

// Symbols returns the symbols in insertion order. The returned slice is a copy.
func (a Alphabet) Symbols() []Symbol {
	syms := make([]Symbol, len(a.order))
	copy(syms, a.order)
	return syms
}

// Strings returns the symbols in insertion order as strings.
func (a Alphabet) Strings() []string {
	return Strings(a.order)
}

// With returns a new Alphabet that additionally contains the given symbols.
func (a Alphabet) With(syms ...Symbol) Alphabet {
	for _, s := range syms {
		a = a.with(s)
	}
	return a
}

// Without returns a new Alphabet with s removed. The relative order of the
// remaining symbols is kept.
func (a Alphabet) Without(s Symbol) Alphabet {
	if !a.Has(s) {
		return a
	}
	var newA Alphabet
	for _, existing := range a.order {
		if existing != s {
			newA = newA.with(existing)
		}
	}
	return newA
}

// Union returns a new Alphabet with every symbol of a followed by every symbol
// of o that is not already in a.
func (a Alphabet) Union(o Alphabet) Alphabet {
	return a.With(o.order...)
}

// Equal returns whether a and o hold the same symbols, regardless of order.
// Values other than Alphabet and *Alphabet are never equal.
func (a Alphabet) Equal(o any) bool {
	other, ok := o.(Alphabet)
	if !ok {
		otherPtr, ok := o.(*Alphabet)
		if !ok || otherPtr == nil {
			return false
		}
		other = *otherPtr
	}

	if a.Len() != other.Len() {
		return false
	}
	for _, s := range a.order {
		if !other.Has(s) {
			return false
		}
	}
	return true
}

// String shows the Alphabet as "{a, b, c}" in insertion order.
func (a Alphabet) String() string {
	return "{" + strings.Join(a.Strings(), ", ") + "}"
}
