package command

import (
	"strings"

	"github.com/dekarrin/flwarrior/internal/flerrors"
)

var (
	// VerbAliases maps shorthand verbs (which must be the first words in a
	// command) to their canonical forms. They are all uppercase. A canonical
	// form may include a target after the verb.
	VerbAliases map[string]string = map[string]string{
		"?":              "HELP",
		"/?":             "HELP",
		"/H":             "HELP",
		"-H":             "HELP",
		"H":              "HELP",
		"BYE":            "QUIT",
		"EXIT":           "QUIT",
		"Q":              "QUIT",
		"TOKENIZE":       "LEX",
		"ANALYZE":        "LEX",
		"ADD RULE":       "RULE",
		"LIST RULES":     "RULES",
		"CLEAR RULES":    "CLEAR",
		"REGEX":          "COMPILE",
		"DETERMINIZE":    "DFA",
		"TEST":           "RUN",
		"ACCEPTS":        "RUN",
		"CHECK":          "CLASSIFY",
		"LEFTFACTOR":     "FACTOR",
		"LEFT FACTOR":    "FACTOR",
		"NONDETERMINISM": "NONDET",
		"LEFT RECURSION": "LEFTREC",
		"MACHINE":        "SHOW MACHINE",
		"NFA":            "SHOW MACHINE",
		"DEFS":           "LIST",
	}

	// ShowTargets is every target the SHOW command accepts.
	ShowTargets = []string{"MACHINE", "GRAMMAR", "RULES"}
)

// ParseCommand parses a command from the given text. If it cannot, a non-nil
// error is returned whose flerrors.Message is suitable for showing to the
// user.
//
// If an empty string or a string composed only of whitespace is passed in, nil
// error is returned and a zero value for Command will be returned.
func ParseCommand(toParse string) (Command, error) {
	var parsedCmd Command

	// make entire input upper case to make matching easy
	normalizedCase := strings.ToUpper(toParse)

	// now tokenize our string, collapsing all whitespace
	originalTokens := strings.Fields(normalizedCase)

	// some simple sanity checking, make sure we at least have a command
	if len(originalTokens) < 1 {
		return parsedCmd, nil
	}

	// expand verb aliases up to 2 words long
	verbTokens, consumed := expandVerb(originalTokens, 2)

	parsedCmd.Verb = verbTokens[0]
	if len(verbTokens) > 1 {
		parsedCmd.Target = verbTokens[1]
	}
	parsedCmd.Arg = restAfter(toParse, consumed)

	// next, check args based on the verb
	switch parsedCmd.Verb {
	case "HELP":
		// help takes an optional topic
		if parsedCmd.Arg != "" {
			parsedCmd.Target = strings.ToUpper(strings.Fields(parsedCmd.Arg)[0])
			parsedCmd.Arg = ""
		}
	case "SHOW":
		if parsedCmd.Target == "" {
			if parsedCmd.Arg == "" {
				return parsedCmd, flerrors.Commandf("Show what? Try SHOW followed by one of %s", strings.Join(ShowTargets, ", "))
			}
			parsedCmd.Target = strings.ToUpper(strings.Fields(parsedCmd.Arg)[0])
			parsedCmd.Arg = restAfter(parsedCmd.Arg, 1)
		}
		if !isShowTarget(parsedCmd.Target) {
			return parsedCmd, flerrors.Commandf("I can't show %q; try one of %s", parsedCmd.Target, strings.Join(ShowTargets, ", "))
		}
		if parsedCmd.Arg != "" {
			return parsedCmd, flerrors.Commandf("SHOW %s takes nothing after it", parsedCmd.Target)
		}
	case "RULE":
		if parsedCmd.Arg == "" {
			return parsedCmd, flerrors.Commandf("Type the rule after %s, as in: %s if -> if", originalTokens[0], originalTokens[0])
		}
	case "LEX":
		if parsedCmd.Arg == "" {
			return parsedCmd, flerrors.Commandf("I need some source text to %s", originalTokens[0])
		}
	case "COMPILE":
		if parsedCmd.Arg == "" {
			return parsedCmd, flerrors.Commandf("I need a regular expression to %s", originalTokens[0])
		}
	case "GRAMMAR":
		if parsedCmd.Arg == "" {
			return parsedCmd, flerrors.Commandf("Type the rules after GRAMMAR, as in: GRAMMAR S -> a S | b")
		}
	case "LOAD":
		if parsedCmd.Arg == "" {
			return parsedCmd, flerrors.Commandf("I don't know what file you want to load")
		}
	case "USE":
		if parsedCmd.Arg == "" {
			return parsedCmd, flerrors.Commandf("I don't know which definition you want to use")
		}
	case "RUN":
		// the word is optional; running nothing runs the empty word
	case "RULES", "CLEAR", "DFA", "CLASSIFY", "FACTOR", "NONDET", "LEFTREC", "LIST", "QUIT":
		// these take no additional args, make sure this is true
		if parsedCmd.Arg != "" {
			errMsg := "%s takes nothing after it; type %s by itself"
			return parsedCmd, flerrors.Commandf(errMsg, strings.Join(originalTokens[:consumed], " "), strings.Join(originalTokens[:consumed], " "))
		}
	default:
		return parsedCmd, flerrors.Commandf("I don't know what you mean by %q", strings.Fields(toParse)[0])
	}

	return parsedCmd, nil
}

func isShowTarget(t string) bool {
	for i := range ShowTargets {
		if ShowTargets[i] == t {
			return true
		}
	}
	return false
}

// restAfter returns s with its first n whitespace-separated words removed and
// surrounding whitespace trimmed. Spacing within the rest is kept.
func restAfter(s string, n int) string {
	s = strings.TrimSpace(s)
	for i := 0; i < n && s != ""; i++ {
		end := strings.IndexFunc(s, isSpace)
		if end < 0 {
			return ""
		}
		s = strings.TrimSpace(s[end:])
	}
	return s
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == '\v' || r == '\f'
}

// ExpandAliases takes a slice of tokens of user input and runs alias expansion
// on it. It expects all strings in the given slice to be upper case; failure to
// ensure this may cause the expansion to not work properly. The returned slice
// contains the same tokens but with aliases expanded.
//
// The unexpanded tokens slice is not modified during this operation.
//
// Aliases up to aliasLimit words long are supported. If it is less than 0, it
// is assumed to be 0. Passing 0 means the given tokens will be returned
// unchanged.
//
// Aliases will not be multi-expanded; that is, expansion is not applied to the
// results of an expansion; if the caller needs it, they will need to call
// ExpandAliases again on its output.
func ExpandAliases(tokens []string, aliasLimit int) []string {
	verbTokens, consumed := expandVerb(tokens, aliasLimit)
	return append(verbTokens, tokens[consumed:]...)
}

// expandVerb returns the canonical verb tokens of tokens, and how many tokens
// they were expanded from. The longest alias wins. If there is no alias, the
// first token is returned as-is and consumed is 1.
func expandVerb(tokens []string, aliasLimit int) (verbTokens []string, consumed int) {
	if len(tokens) == 0 {
		return nil, 0
	}

	// only check up to minimum of limit and number of tokens
	if aliasLimit > len(tokens) {
		aliasLimit = len(tokens)
	}

	for curLimit := aliasLimit; curLimit >= 1; curLimit-- {
		checkStr := strings.Join(tokens[:curLimit], " ")
		if expansion, ok := VerbAliases[checkStr]; ok {
			return strings.Fields(expansion), curLimit
		}
	}

	return []string{tokens[0]}, 1
}
