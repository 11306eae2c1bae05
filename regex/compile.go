package regex

import (
	"fmt"

	"github.com/dekarrin/flwarrior/alphabet"
	"github.com/dekarrin/flwarrior/automaton"
)

// Compile parses source and converts it into a non-deterministic finite
// automaton that accepts exactly the words the expression matches.
func Compile(source string) (automaton.Automaton, error) {
	n, err := Parse(source)
	if err != nil {
		return automaton.Automaton{}, err
	}
	return CompileNode(n), nil
}

// MustCompile is like Compile but panics if the expression cannot be parsed.
func MustCompile(source string) automaton.Automaton {
	fa, err := Compile(source)
	if err != nil {
		panic(err.Error())
	}
	return fa
}

// CompileNode converts a parsed expression into a non-deterministic finite
// automaton.
//
// This is an implementation of algorithm 3.23 from the purple dragon book,
// "The McNaughton-Yamada-Thompson algorithm to convert a regular expression to
// an NFA". Every sub-expression becomes a fragment with exactly one entry and
// one exit state. States are named "q0", "q1", and so on in the order they are
// created; names are unique within one compiled automaton only.
func CompileNode(n Node) automaton.Automaton {
	c := &compiler{b: automaton.NewBuilder()}
	frag := c.fragment(n)

	fa := c.b.Build()

	// neither can fail; both states were just created
	fa, _ = fa.WithEntry(frag.entry)
	fa, _ = fa.WithExit(frag.exit, true)

	return fa
}

type fragment struct {
	entry string
	exit  string
}

type compiler struct {
	b    *automaton.Builder
	next int
}

func (c *compiler) newState() string {
	id := fmt.Sprintf("q%d", c.next)
	c.next++
	c.must(c.b.AddState(id, false, false))
	return id
}

func (c *compiler) link(from string, input alphabet.Symbol, to string) {
	c.must(c.b.AddTransition(from, input, to))
}

// must panics on an error that would mean the compiler itself is broken.
func (c *compiler) must(err error) {
	if err != nil {
		panic(fmt.Sprintf("regex compiler: %s", err.Error()))
	}
}

func (c *compiler) fragment(n Node) fragment {
	switch n := n.(type) {
	case Literal:
		return c.literal(n.Symbol)
	case Concat:
		return c.juxtaposition(n.Items)
	case Alt:
		return c.alternation(n.Options)
	case Star:
		return c.kleeneStar(n.Inner)
	default:
		panic(fmt.Sprintf("regex compiler: unknown node type %T", n))
	}
}

// entry =a=> exit
func (c *compiler) literal(sym alphabet.Symbol) fragment {
	c.b.AddSymbol(sym)

	f := fragment{entry: c.newState(), exit: c.newState()}
	c.link(f.entry, sym, f.exit)
	return f
}

// each fragment's exit =ε=> the next fragment's entry
func (c *compiler) juxtaposition(items []Node) fragment {
	first := c.fragment(items[0])
	last := first
	for _, item := range items[1:] {
		next := c.fragment(item)
		c.link(last.exit, alphabet.Epsilon, next.entry)
		last = next
	}
	return fragment{entry: first.entry, exit: last.exit}
}

// new entry =ε=> each option, each option =ε=> new exit
func (c *compiler) alternation(options []Node) fragment {
	entry := c.newState()

	var parts []fragment
	for _, opt := range options {
		parts = append(parts, c.fragment(opt))
	}

	exit := c.newState()
	for _, part := range parts {
		c.link(entry, alphabet.Epsilon, part.entry)
		c.link(part.exit, alphabet.Epsilon, exit)
	}

	return fragment{entry: entry, exit: exit}
}

// new entry =ε=> inner, inner =ε=> new exit, inner exit =ε=> inner entry, and
// new entry =ε=> new exit. The loop back must stay inside the new pair of
// states or (a*b)* would accept "a".
func (c *compiler) kleeneStar(inner Node) fragment {
	entry := c.newState()
	body := c.fragment(inner)
	exit := c.newState()

	c.link(entry, alphabet.Epsilon, body.entry)
	c.link(body.exit, alphabet.Epsilon, exit)
	c.link(body.exit, alphabet.Epsilon, body.entry)
	c.link(entry, alphabet.Epsilon, exit)

	return fragment{entry: entry, exit: exit}
}
