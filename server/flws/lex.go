package flws

import (
	"github.com/dekarrin/flwarrior/lex"
	"github.com/dekarrin/flwarrior/server/serr"
)

// Lex runs a lexical analysis of source with the given rules. Lexemes that no
// rule matches are given in the Unmatched field of the result; it is not an
// error for there to be any.
//
// If any rule is not valid, the returned error will match
// serr.ErrBadArgument.
func (svc Service) Lex(rules []lex.Rule, source string) (lex.Result, error) {
	if len(rules) == 0 {
		return lex.Result{}, serr.New("at least one rule is required", serr.ErrBadArgument)
	}

	analyzer, err := lex.NewAnalyzer(rules)
	if err != nil {
		return lex.Result{}, serr.New("", err, serr.ErrBadArgument)
	}

	return analyzer.Analyze(source), nil
}
