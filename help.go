package flwarrior

import (
	"sort"
	"strings"

	"github.com/dekarrin/flwarrior/internal/command"
	"github.com/dekarrin/flwarrior/internal/flerrors"
	"github.com/dekarrin/flwarrior/internal/render"
)

type helpTopic struct {
	usage string
	desc  string
}

var helpTopics = map[string]helpTopic{
	"HELP":     {"HELP [COMMAND]", "Show all commands, or details on one of them."},
	"QUIT":     {"QUIT", "Leave the workbench."},
	"RULE":     {"RULE NAME -> PATTERN", "Add a lexer rule after the existing ones. Rules declared first win when more than one matches."},
	"RULES":    {"RULES", "List the lexer rules in priority order."},
	"CLEAR":    {"CLEAR", "Remove every lexer rule."},
	"LEX":      {"LEX TEXT", "Split TEXT on whitespace and name the token of each piece. Pieces no rule matches are dropped and listed after the tokens."},
	"COMPILE":  {"COMPILE REGEX", "Build a machine from a regular expression. Supports concatenation, '|', '*', parentheses, and '\\' to escape."},
	"DFA":      {"DFA", "Replace the machine with an equivalent deterministic one."},
	"RUN":      {"RUN [WORD]", "Run the machine over WORD one character at a time and show the states it passes through. No WORD runs the empty word."},
	"GRAMMAR":  {"GRAMMAR RULES", "Enter a grammar, as in 'S -> a S | b ; A -> ε'. Symbols starting with a capital letter are non-terminals."},
	"CLASSIFY": {"CLASSIFY", "Give the place of the grammar in the Chomsky hierarchy."},
	"NONDET":   {"NONDET", "Remove direct non-determinism from the grammar by grouping bodies that share a first symbol."},
	"FACTOR":   {"FACTOR", "Left-factor the grammar on the longest prefix shared by two or more bodies."},
	"LEFTREC":  {"LEFTREC", "Remove immediate left recursion from the grammar."},
	"LOAD":     {"LOAD FILE", "Read an FLW file. Lexer rules in it replace the current ones; machines, grammars, and expressions can then be picked with USE."},
	"USE":      {"USE NAME", "Make a loaded machine, grammar, or expression the current one."},
	"LIST":     {"LIST", "List what the last LOAD brought in."},
	"SHOW":     {"SHOW MACHINE|GRAMMAR|RULES", "Show the current machine, grammar, or lexer rules."},
}

// helpText gives the help for topic, or for every command if topic is empty.
// topic may be an alias.
func helpText(topic string) (string, error) {
	if topic == "" {
		verbs := make([]string, 0, len(helpTopics))
		for v := range helpTopics {
			verbs = append(verbs, v)
		}
		sort.Strings(verbs)

		data := [][]string{{"Command", "Use"}}
		for _, v := range verbs {
			data = append(data, []string{helpTopics[v].usage, firstSentence(helpTopics[v].desc)})
		}
		return render.Table(data) + "\n" + "Type HELP followed by a command for more on it.", nil
	}

	verb := command.ExpandAliases([]string{topic}, 1)[0]
	ht, ok := helpTopics[verb]
	if !ok {
		return "", flerrors.Commandf("There is no command %q", topic)
	}

	return ht.usage + "\n\n" + render.Wrap(ht.desc), nil
}

func firstSentence(s string) string {
	if idx := strings.Index(s, ". "); idx >= 0 {
		return s[:idx+1]
	}
	return s
}
