package grammar

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dekarrin/flwarrior/alphabet"
	"github.com/dekarrin/flwarrior/internal/flerrors"
)

// Parse parses a Grammar from text of the form
//
//	S -> a A | b ;
//	A -> a | ε ;
//
// Rules are separated by ";" and symbols by spaces. A symbol that begins with
// an upper-case letter is a non-terminal and anything else is a terminal,
// except "ε" which is the empty word. Heads may have more than one symbol. The
// start symbol is the first non-terminal of the first head.
func Parse(text string) (Grammar, error) {
	var rules []Rule
	var err error
	for i, ruleText := range strings.Split(text, ";") {
		if strings.TrimSpace(ruleText) == "" {
			continue
		}
		r, ruleErr := parseRule(ruleText)
		if ruleErr != nil {
			err = flerrors.Append(err, flerrors.Wrapf(ruleErr, "rule %d", i+1))
			continue
		}
		rules = append(rules, r)
	}
	if err != nil {
		return Grammar{}, err
	}

	var terms, nonTerms alphabet.Alphabet
	var start alphabet.Symbol
	for _, r := range rules {
		for _, w := range append([]Word{r.Head}, r.Bodies...) {
			for _, sym := range w {
				if sym == alphabet.Epsilon {
					continue
				}
				if isNonTerminalName(sym) {
					nonTerms = nonTerms.With(sym)
					if start == alphabet.Epsilon {
						start = sym
					}
				} else {
					terms = terms.With(sym)
				}
			}
		}
	}

	return New(start, terms, nonTerms, rules...)
}

// MustParse is like Parse but panics on error.
func MustParse(text string) Grammar {
	g, err := Parse(text)
	if err != nil {
		panic(err.Error())
	}
	return g
}

func isNonTerminalName(sym alphabet.Symbol) bool {
	ch, _ := utf8.DecodeRuneInString(string(sym))
	return unicode.IsUpper(ch)
}

// parseRule parses a Rule from a string like "S -> X | Y".
func parseRule(r string) (Rule, error) {
	sides := strings.Split(r, "->")
	if len(sides) != 2 {
		return Rule{}, flerrors.Malformedf("not a rule of form 'HEAD -> SYMBOL SYMBOL | SYMBOL ...': %q", strings.TrimSpace(r))
	}

	head, err := parseWord(sides[0])
	if err != nil {
		return Rule{}, flerrors.Wrapf(err, "head")
	}
	if len(head) == 0 {
		return Rule{}, &flerrors.InvalidHeadError{Head: head.Strings(), Reason: "is empty"}
	}

	parsedRule := Rule{Head: head}
	for _, bodyText := range strings.Split(sides[1], "|") {
		body, err := parseWord(bodyText)
		if err != nil {
			return Rule{}, flerrors.Wrapf(err, "body of %s", head)
		}
		if len(body) == 0 {
			return Rule{}, flerrors.Malformedf("%s has an empty alternative; write ε for the empty word", head)
		}
		parsedRule.Bodies = append(parsedRule.Bodies, body)
	}

	return parsedRule, nil
}

func parseWord(text string) (Word, error) {
	var w Word
	for _, field := range strings.Fields(text) {
		sym := alphabet.ParseSymbol(field)
		if sym == alphabet.Epsilon && len(strings.Fields(text)) > 1 {
			return nil, flerrors.Malformedf("ε must be the only symbol of a word: %q", strings.TrimSpace(text))
		}
		w = append(w, sym)
	}
	return w, nil
}
