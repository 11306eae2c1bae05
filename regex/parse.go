// Package regex compiles regular expressions into finite automata.
//
// The supported syntax is deliberately small:
//
//	ab      concatenation (implicit)
//	a|b     alternation
//	a*      Kleene star
//	(a|b)   grouping
//	\*      escaped metacharacter, taken literally
//
// The metacharacters are exactly | * ( ) and \. Every other character,
// including whitespace, is a literal that matches itself. Star binds tightest,
// then concatenation, then alternation; all are left-associative.
package regex

import (
	"strings"

	"github.com/dekarrin/flwarrior/alphabet"
	"github.com/dekarrin/flwarrior/internal/flerrors"
)

var (
	// ErrSyntax matches every error caused by malformed expression source.
	ErrSyntax = flerrors.ErrSyntax
)

// SyntaxError is the type of error returned for malformed expression source.
type SyntaxError = flerrors.SyntaxError

const metachars = `|*()\`

// IsMeta returns whether sym has special meaning in an expression.
func IsMeta(sym alphabet.Symbol) bool {
	return len(sym) == 1 && strings.Contains(metachars, string(sym))
}

// Node is a node of a parsed expression.
type Node interface {
	// String gives the expression text for the node. Parsing the result gives
	// an equivalent node.
	String() string

	node()
}

// Literal matches exactly one symbol, or the empty word if Symbol is
// alphabet.Epsilon.
type Literal struct {
	Symbol alphabet.Symbol
}

// Concat matches each of its items in sequence. It always has at least two.
type Concat struct {
	Items []Node
}

// Alt matches any one of its options. It always has at least two.
type Alt struct {
	Options []Node
}

// Star matches zero or more repetitions of Inner.
type Star struct {
	Inner Node
}

func (Literal) node() {}
func (Concat) node()  {}
func (Alt) node()     {}
func (Star) node()    {}

func (n Literal) String() string {
	if n.Symbol == alphabet.Epsilon {
		return alphabet.EpsilonText
	}
	if IsMeta(n.Symbol) {
		return `\` + string(n.Symbol)
	}
	return string(n.Symbol)
}

func (n Concat) String() string {
	var sb strings.Builder
	for _, item := range n.Items {
		if _, isAlt := item.(Alt); isAlt {
			sb.WriteString("(" + item.String() + ")")
		} else {
			sb.WriteString(item.String())
		}
	}
	return sb.String()
}

func (n Alt) String() string {
	opts := make([]string, len(n.Options))
	for i := range n.Options {
		opts[i] = n.Options[i].String()
	}
	return strings.Join(opts, "|")
}

func (n Star) String() string {
	switch n.Inner.(type) {
	case Literal, Star:
		return n.Inner.String() + "*"
	default:
		return "(" + n.Inner.String() + ")*"
	}
}

// Parse parses expression source into a tree of Nodes. The source is
// normalized to NFC and read one character at a time.
//
// An unescaped "ε" stands for the empty word.
//
// A *SyntaxError is returned if the source is empty, has unbalanced
// parentheses, has a star with nothing before it to repeat, has an empty
// alternative or group, ends with an unescaped backslash, or escapes "ε".
func Parse(source string) (Node, error) {
	p := &parser{
		source: source,
		syms:   alphabet.Split(source),
	}

	if len(p.syms) == 0 {
		return nil, p.errorf("expression is empty")
	}

	n, err := p.parseAlt()
	if err != nil {
		return nil, err
	}
	if !p.atEnd() {
		// only a close paren can stop parseAlt before the end
		return nil, p.errorf("unmatched ')'")
	}
	return n, nil
}

type parser struct {
	source string
	syms   []alphabet.Symbol
	pos    int
	depth  int
}

func (p *parser) atEnd() bool {
	return p.pos >= len(p.syms)
}

func (p *parser) peek() alphabet.Symbol {
	if p.atEnd() {
		return alphabet.Epsilon
	}
	return p.syms[p.pos]
}

func (p *parser) errorf(reason string) error {
	return &flerrors.SyntaxError{Source: p.source, Pos: p.pos, Reason: reason}
}

// alt := concat ('|' concat)*
func (p *parser) parseAlt() (Node, error) {
	first, err := p.parseConcat()
	if err != nil {
		return nil, err
	}

	options := []Node{first}
	for !p.atEnd() && p.peek() == "|" {
		p.pos++
		next, err := p.parseConcat()
		if err != nil {
			return nil, err
		}
		options = append(options, next)
	}

	if len(options) == 1 {
		return first, nil
	}
	return Alt{Options: options}, nil
}

// concat := repeat+
func (p *parser) parseConcat() (Node, error) {
	var items []Node
	for !p.atEnd() && p.peek() != "|" && p.peek() != ")" {
		item, err := p.parseRepeat()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	if len(items) == 0 {
		switch {
		case !p.atEnd() && p.peek() == ")" && p.depth == 0:
			return nil, p.errorf("unmatched ')'")
		case !p.atEnd() && p.peek() == ")" && p.pos > 0 && p.syms[p.pos-1] == "(":
			return nil, p.errorf("empty group")
		default:
			return nil, p.errorf("empty alternative")
		}
	}

	if len(items) == 1 {
		return items[0], nil
	}
	return Concat{Items: items}, nil
}

// repeat := atom '*'*
func (p *parser) parseRepeat() (Node, error) {
	n, err := p.parseAtom()
	if err != nil {
		return nil, err
	}
	for !p.atEnd() && p.peek() == "*" {
		p.pos++
		n = Star{Inner: n}
	}
	return n, nil
}

// atom := literal | 'ε' | '\' any | '(' alt ')'
func (p *parser) parseAtom() (Node, error) {
	sym := p.peek()

	switch sym {
	case "*":
		return nil, p.errorf("'*' has nothing to repeat")
	case `\`:
		p.pos++
		if p.atEnd() {
			return nil, p.errorf("trailing '\\' escapes nothing")
		}
		if p.peek() == alphabet.EpsilonText {
			return nil, p.errorf("'ε' is the empty word and cannot be escaped")
		}
		lit := Literal{Symbol: p.peek()}
		p.pos++
		return lit, nil
	case "(":
		openPos := p.pos
		p.pos++
		p.depth++
		inner, err := p.parseAlt()
		if err != nil {
			return nil, err
		}
		if p.atEnd() {
			return nil, &flerrors.SyntaxError{Source: p.source, Pos: openPos, Reason: "'(' is never closed"}
		}
		// parseAlt only stops early at ')'
		p.pos++
		p.depth--
		return inner, nil
	case alphabet.EpsilonText:
		p.pos++
		return Literal{Symbol: alphabet.Epsilon}, nil
	default:
		p.pos++
		return Literal{Symbol: sym}, nil
	}
}
