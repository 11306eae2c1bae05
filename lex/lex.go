// Package lex is a toy lexical analyzer driven by named regular expressions.
//
// Source text is split on whitespace into lexemes, and each lexeme is given to
// the rules in the order they were declared. The first rule whose expression
// matches the entire lexeme names its token. There is no longest-match
// scanning; "if(" is one lexeme and will only match a rule that accepts all
// three characters.
package lex

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dekarrin/flwarrior/automaton"
	"github.com/dekarrin/flwarrior/internal/flerrors"
	"github.com/dekarrin/flwarrior/regex"
)

// Rule names a class of token and gives the expression that matches it.
type Rule struct {
	Name    string `json:"name" toml:"name"`
	Pattern string `json:"pattern" toml:"pattern"`
}

func (r Rule) String() string {
	return r.Name + " -> " + r.Pattern
}

// Token is one lexeme and the rule that matched it. Rule is empty for a lexeme
// that matched nothing.
type Token struct {
	Lexeme string `json:"lexeme"`
	Rule   string `json:"rule"`

	// Offset is the byte offset of the lexeme in the source. Line and Pos are
	// the one-based line and the one-based character position within it.
	Offset int `json:"offset"`
	Line   int `json:"line"`
	Pos    int `json:"pos"`
}

func (tok Token) String() string {
	if tok.Rule == "" {
		return fmt.Sprintf("(%q, <unmatched>)", tok.Lexeme)
	}
	return fmt.Sprintf("(%q, %s)", tok.Lexeme, tok.Rule)
}

// Result is the output of an analysis.
type Result struct {
	// Tokens holds every lexeme that some rule matched, in source order.
	Tokens []Token

	// Unmatched holds every lexeme that no rule matched, in source order.
	Unmatched []Token
}

// Err returns an error matching flerrors.ErrUnmatched if any lexeme was not
// matched, and nil otherwise.
func (res Result) Err() error {
	if len(res.Unmatched) == 0 {
		return nil
	}
	unmatched := make([]string, len(res.Unmatched))
	for i := range res.Unmatched {
		unmatched[i] = res.Unmatched[i].Lexeme
	}
	return &flerrors.UnmatchedError{Lexemes: unmatched}
}

type compiledRule struct {
	Rule
	dfa automaton.Automaton
}

// Analyzer holds a set of compiled rules. It is safe for concurrent use.
type Analyzer struct {
	rules []compiledRule
}

// NewAnalyzer compiles and determinizes every rule. All rules that fail to
// compile are reported together; each failure matches flerrors.ErrSyntax. An
// empty rule name is also an error.
func NewAnalyzer(rules []Rule) (*Analyzer, error) {
	a := &Analyzer{}

	var err error
	for i, r := range rules {
		if strings.TrimSpace(r.Name) == "" {
			err = flerrors.Append(err, flerrors.Malformedf("rule %d has no name", i+1))
			continue
		}
		nfa, compileErr := regex.Compile(r.Pattern)
		if compileErr != nil {
			err = flerrors.Append(err, flerrors.Wrapf(compileErr, "rule %q", r.Name))
			continue
		}
		a.rules = append(a.rules, compiledRule{Rule: r, dfa: nfa.Determinize()})
	}

	if err != nil {
		return nil, err
	}
	return a, nil
}

// Rules returns the rules of the Analyzer in priority order.
func (a *Analyzer) Rules() []Rule {
	rules := make([]Rule, len(a.rules))
	for i := range a.rules {
		rules[i] = a.rules[i].Rule
	}
	return rules
}

// Match returns the name of the first rule that accepts all of lexeme, and
// whether any did.
func (a *Analyzer) Match(lexeme string) (string, bool) {
	for _, r := range a.rules {
		if r.dfa.AcceptsString(lexeme) {
			return r.Name, true
		}
	}
	return "", false
}

// Analyze splits source into lexemes and matches each one.
func (a *Analyzer) Analyze(source string) Result {
	res := Result{Tokens: []Token{}}

	for _, tok := range splitLexemes(source) {
		name, ok := a.Match(tok.Lexeme)
		if !ok {
			res.Unmatched = append(res.Unmatched, tok)
			continue
		}
		tok.Rule = name
		res.Tokens = append(res.Tokens, tok)
	}

	return res
}

// Analyze compiles rules and uses them to analyze source. Lexemes that match
// no rule are left out of the returned tokens; the error is only for rules
// that cannot be compiled. Use NewAnalyzer and check Result.Err to treat
// unmatched lexemes as a failure.
func Analyze(rules []Rule, source string) ([]Token, error) {
	a, err := NewAnalyzer(rules)
	if err != nil {
		return nil, err
	}
	return a.Analyze(source).Tokens, nil
}

// splitLexemes gives every maximal run of non-whitespace in source.
func splitLexemes(source string) []Token {
	var lexemes []Token

	line := 1
	linePos := 1

	var cur Token
	var sb strings.Builder

	flush := func() {
		if sb.Len() > 0 {
			cur.Lexeme = sb.String()
			lexemes = append(lexemes, cur)
			sb.Reset()
			cur = Token{}
		}
	}

	for offset := 0; offset < len(source); {
		ch, size := utf8.DecodeRuneInString(source[offset:])

		if unicode.IsSpace(ch) {
			flush()
		} else {
			if sb.Len() == 0 {
				cur.Offset = offset
				cur.Line = line
				cur.Pos = linePos
			}
			sb.WriteRune(ch)
		}

		if ch == '\n' {
			line++
			linePos = 1
		} else {
			linePos++
		}
		offset += size
	}
	flush()

	return lexemes
}

// ParseRules reads rules from text with one rule per line in the form
//
//	name -> pattern
//
// Only the first "->" separates the name from the pattern, and surrounding
// whitespace is trimmed from both. Blank lines and lines starting with "#" are
// skipped.
func ParseRules(text string) ([]Rule, error) {
	var rules []Rule
	var err error

	for i, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		name, pattern, found := strings.Cut(line, "->")
		name = strings.TrimSpace(name)
		pattern = strings.TrimSpace(pattern)
		if !found || name == "" || pattern == "" {
			err = flerrors.Append(err, flerrors.Malformedf("line %d: not a rule of form 'NAME -> PATTERN': %q", i+1, line))
			continue
		}
		rules = append(rules, Rule{Name: name, Pattern: pattern})
	}

	if err != nil {
		return nil, err
	}
	return rules, nil
}
