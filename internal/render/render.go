// Package render turns machines, grammars, and token streams into text tables
// for the terminal.
package render

import (
	"fmt"
	"strings"

	"github.com/dekarrin/flwarrior/alphabet"
	"github.com/dekarrin/flwarrior/automaton"
	"github.com/dekarrin/flwarrior/grammar"
	"github.com/dekarrin/flwarrior/lex"
	"github.com/dekarrin/rosed"
)

// Width is the width that output is wrapped to.
const Width = 80

var tableOpts = rosed.Options{
	TableHeaders:             true,
	NoTrailingLineSeparators: true,
}

// Wrap wraps text to Width.
func Wrap(text string) string {
	return rosed.Edit(text).Wrap(Width).String()
}

// Table lays out data as a table whose first row is the header.
func Table(data [][]string) string {
	return rosed.Edit("").
		InsertTableOpts(0, data, Width, tableOpts).
		String()
}

// Machine gives the transition table of fa. There is one row per state and
// one column per input symbol, plus one for ε if fa is not deterministic. The
// entry state is marked with "->" and exit states with "*".
func Machine(fa automaton.Automaton) string {
	syms := fa.Alphabet().Symbols()
	if !fa.IsDeterministic() {
		syms = append(syms, alphabet.Epsilon)
	}

	header := []string{"", "State"}
	for _, sym := range syms {
		header = append(header, sym.String())
	}
	data := [][]string{header}

	for _, st := range fa.States() {
		var mark string
		if st.IsEntry {
			mark = "->"
		}
		if st.IsExit {
			mark += "*"
		}

		row := []string{mark, st.ID}
		for _, sym := range syms {
			targets := fa.Targets(st.ID, sym)
			if len(targets) == 0 {
				row = append(row, "-")
				continue
			}
			row = append(row, strings.Join(targets, ", "))
		}
		data = append(data, row)
	}

	kind := "NFA"
	if fa.IsDeterministic() {
		kind = "DFA"
	}
	summary := fmt.Sprintf("%s with %d state(s) over %s", kind, fa.Len(), fa.Alphabet().String())

	return summary + "\n" + Table(data)
}

// Trace shows each step of running fa over word, and whether it was accepted.
func Trace(fa automaton.Automaton, word []alphabet.Symbol) string {
	data := [][]string{{"Read", "Active"}}

	sets := fa.Trace(word)
	for i, set := range sets {
		read := "(start)"
		if i > 0 {
			read = word[i-1].String()
		}
		active := set.StringOrdered()
		if set.Empty() {
			active = "(dead)"
		}
		data = append(data, []string{read, active})
	}

	verdict := "REJECTED"
	if fa.Accepts(word) {
		verdict = "ACCEPTED"
	}

	shown := alphabet.Join(word)
	if shown == "" {
		shown = alphabet.EpsilonText
	}

	return Table(data) + "\n" + fmt.Sprintf("%q: %s", shown, verdict)
}

// Grammar gives the rules of g followed by its classification.
func Grammar(g grammar.Grammar) string {
	var sb strings.Builder
	sb.WriteString(g.String())
	sb.WriteString("\n\n")
	sb.WriteString(fmt.Sprintf("Start: %s  T: %s  NT: %s\n", g.StartSymbol(), g.Terminals(), g.NonTerminals()))
	sb.WriteString(fmt.Sprintf("Type: %s", g.Classify()))
	return sb.String()
}

// Rules gives the lexer rules in priority order.
func Rules(rules []lex.Rule) string {
	if len(rules) == 0 {
		return "(no rules)"
	}

	data := [][]string{{"#", "Name", "Pattern"}}
	for i, r := range rules {
		data = append(data, []string{fmt.Sprintf("%d", i+1), r.Name, r.Pattern})
	}
	return Table(data)
}

// Tokens gives the tokens of res, followed by a note on anything unmatched.
func Tokens(res lex.Result) string {
	var out string

	if len(res.Tokens) == 0 {
		out = "(no tokens)"
	} else {
		data := [][]string{{"Line", "Pos", "Lexeme", "Token"}}
		for _, tok := range res.Tokens {
			data = append(data, []string{fmt.Sprintf("%d", tok.Line), fmt.Sprintf("%d", tok.Pos), tok.Lexeme, tok.Rule})
		}
		out = Table(data)
	}

	if len(res.Unmatched) > 0 {
		var unmatched []string
		for _, tok := range res.Unmatched {
			unmatched = append(unmatched, fmt.Sprintf("%q (%d:%d)", tok.Lexeme, tok.Line, tok.Pos))
		}
		out += "\n" + Wrap("Dropped, no rule matched: "+strings.Join(unmatched, ", "))
	}

	return out
}
