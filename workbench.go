package flwarrior

import (
	"fmt"
	"strings"

	"github.com/dekarrin/flwarrior/alphabet"
	"github.com/dekarrin/flwarrior/automaton"
	"github.com/dekarrin/flwarrior/grammar"
	"github.com/dekarrin/flwarrior/internal/command"
	"github.com/dekarrin/flwarrior/internal/flerrors"
	"github.com/dekarrin/flwarrior/internal/flwfile"
	"github.com/dekarrin/flwarrior/internal/render"
	"github.com/dekarrin/flwarrior/internal/util"
	"github.com/dekarrin/flwarrior/lex"
	"github.com/dekarrin/flwarrior/regex"
)

// Workbench holds what the user is currently working on: a list of lexer
// rules, a machine, a grammar, and the definitions of the last loaded file.
// Every command replaces these with new values; nothing is changed in place.
//
// The zero value is an empty Workbench ready for use.
type Workbench struct {
	rules    []lex.Rule
	analyzer *lex.Analyzer

	machine    automaton.Automaton
	hasMachine bool

	gram       grammar.Grammar
	hasGrammar bool

	defs     flwfile.Bundle
	defsFrom string
}

// Rules returns the current lexer rules in priority order.
func (wb *Workbench) Rules() []lex.Rule {
	rules := make([]lex.Rule, len(wb.rules))
	copy(rules, wb.rules)
	return rules
}

// Machine returns the current machine and whether there is one.
func (wb *Workbench) Machine() (automaton.Automaton, bool) {
	return wb.machine, wb.hasMachine
}

// Grammar returns the current grammar and whether there is one.
func (wb *Workbench) Grammar() (grammar.Grammar, bool) {
	return wb.gram, wb.hasGrammar
}

// Status gives a short summary of what is being worked on, as in "dfa,
// grammar, 2 rules", or "" if there is nothing yet.
func (wb *Workbench) Status() string {
	var parts []string
	if wb.hasMachine {
		if wb.machine.IsDeterministic() {
			parts = append(parts, "dfa")
		} else {
			parts = append(parts, "nfa")
		}
	}
	if wb.hasGrammar {
		parts = append(parts, "grammar")
	}
	switch len(wb.rules) {
	case 0:
	case 1:
		parts = append(parts, "1 rule")
	default:
		parts = append(parts, fmt.Sprintf("%d rules", len(wb.rules)))
	}
	return strings.Join(parts, ", ")
}

// Execute carries out cmd and returns the text to show the user. QUIT is not
// handled here; it is up to the caller to stop.
//
// The returned error is either a problem with what the user asked for, in
// which case flerrors.Message gives text suitable for them, or nil.
func (wb *Workbench) Execute(cmd command.Command) (string, error) {
	switch cmd.Verb {
	case "HELP":
		return helpText(cmd.Target)
	case "RULE":
		return wb.addRules(cmd.Arg)
	case "RULES":
		return render.Rules(wb.rules), nil
	case "CLEAR":
		wb.rules = nil
		wb.analyzer = nil
		return "All lexer rules removed", nil
	case "LEX":
		return wb.lex(cmd.Arg)
	case "COMPILE":
		fa, err := regex.Compile(cmd.Arg)
		if err != nil {
			return "", err
		}
		wb.setMachine(fa)
		return render.Machine(fa), nil
	case "DFA":
		fa, err := wb.requireMachine()
		if err != nil {
			return "", err
		}
		if fa.IsDeterministic() {
			return "The machine is already deterministic\n" + render.Machine(fa), nil
		}
		wb.setMachine(fa.Determinize())
		return render.Machine(wb.machine), nil
	case "RUN":
		fa, err := wb.requireMachine()
		if err != nil {
			return "", err
		}
		return render.Trace(fa, alphabet.Split(cmd.Arg)), nil
	case "GRAMMAR":
		g, err := grammar.Parse(cmd.Arg)
		if err != nil {
			return "", err
		}
		wb.setGrammar(g)
		return render.Grammar(g), nil
	case "CLASSIFY":
		g, err := wb.requireGrammar()
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("The grammar is %s", g.Classify()), nil
	case "NONDET":
		return wb.transformGrammar(grammar.Grammar.RemoveDirectNonDeterminism)
	case "FACTOR":
		return wb.transformGrammar(grammar.Grammar.LeftFactor)
	case "LEFTREC":
		return wb.transformGrammar(grammar.Grammar.RemoveLeftRecursion)
	case "LOAD":
		return wb.load(cmd.Arg)
	case "USE":
		return wb.use(cmd.Arg)
	case "LIST":
		return wb.list(), nil
	case "SHOW":
		return wb.show(cmd.Target)
	default:
		return "", flerrors.Commandf("I don't know how to %s", cmd.Verb)
	}
}

func (wb *Workbench) setMachine(fa automaton.Automaton) {
	wb.machine = fa
	wb.hasMachine = true
}

func (wb *Workbench) setGrammar(g grammar.Grammar) {
	wb.gram = g
	wb.hasGrammar = true
}

func (wb *Workbench) requireMachine() (automaton.Automaton, error) {
	if !wb.hasMachine {
		return automaton.Automaton{}, flerrors.Commandf("There is no machine yet; COMPILE an expression or USE a loaded one first")
	}
	return wb.machine, nil
}

func (wb *Workbench) requireGrammar() (grammar.Grammar, error) {
	if !wb.hasGrammar {
		return grammar.Grammar{}, flerrors.Commandf("There is no grammar yet; enter one with GRAMMAR or USE a loaded one first")
	}
	return wb.gram, nil
}

func (wb *Workbench) transformGrammar(transform func(grammar.Grammar) grammar.Grammar) (string, error) {
	g, err := wb.requireGrammar()
	if err != nil {
		return "", err
	}

	updated := transform(g)
	if updated.Equal(g) {
		return "Nothing to change\n" + render.Grammar(g), nil
	}
	wb.setGrammar(updated)
	return render.Grammar(updated), nil
}

// addRules adds the rules in text after the existing ones. If any of them do
// not compile, none are added.
func (wb *Workbench) addRules(text string) (string, error) {
	added, err := lex.ParseRules(text)
	if err != nil {
		return "", err
	}

	rules := append(wb.Rules(), added...)
	analyzer, err := lex.NewAnalyzer(rules)
	if err != nil {
		return "", err
	}

	wb.rules = rules
	wb.analyzer = analyzer

	names := make([]string, len(added))
	for i := range added {
		names[i] = added[i].Name
	}
	return fmt.Sprintf("Added rule %s; there are now %d", strings.Join(names, ", "), len(rules)), nil
}

func (wb *Workbench) lex(source string) (string, error) {
	if len(wb.rules) == 0 {
		return "", flerrors.Commandf("There are no lexer rules yet; add one with RULE or LOAD a lexer file")
	}
	if wb.analyzer == nil {
		analyzer, err := lex.NewAnalyzer(wb.rules)
		if err != nil {
			return "", err
		}
		wb.analyzer = analyzer
	}

	return render.Tokens(wb.analyzer.Analyze(source)), nil
}

// load reads an FLW file. Lexer rules in it replace the current ones; other
// definitions are kept aside for USE.
func (wb *Workbench) load(path string) (string, error) {
	bundle, err := flwfile.LoadBundle(path)
	if err != nil {
		return "", flerrors.Wrapf(err, "loading %s", path)
	}

	if len(bundle.Rules) > 0 {
		analyzer, err := lex.NewAnalyzer(bundle.Rules)
		if err != nil {
			return "", flerrors.Wrapf(err, "loading %s", path)
		}
		wb.rules = bundle.Rules
		wb.analyzer = analyzer
	}

	wb.defs = bundle
	wb.defsFrom = path

	msg := fmt.Sprintf("Loaded %d rule(s), %d machine(s), %d grammar(s), and %d expression(s) from %s",
		len(bundle.Rules), len(bundle.Machines), len(bundle.Grammars), len(bundle.Expressions), path)
	return render.Wrap(msg), nil
}

// use makes a loaded definition current. Names are matched ignoring case, and
// machines are checked before grammars and then expressions.
func (wb *Workbench) use(name string) (string, error) {
	if fa, ok := findDef(wb.defs.Machines, name); ok {
		wb.setMachine(fa)
		return render.Machine(fa), nil
	}
	if g, ok := findDef(wb.defs.Grammars, name); ok {
		wb.setGrammar(g)
		return render.Grammar(g), nil
	}
	if rec, ok := findDef(wb.defs.Expressions, name); ok {
		fa, err := rec.Compile()
		if err != nil {
			return "", err
		}
		wb.setMachine(fa)
		return rec.Body + "\n" + render.Machine(fa), nil
	}
	return "", flerrors.Commandf("Nothing named %q has been loaded; try LIST", name)
}

// findDef gives the definition called name. An exact match wins; otherwise the
// first name in sorted order that matches ignoring case is used.
func findDef[E any](defs map[string]E, name string) (E, bool) {
	if d, ok := defs[name]; ok {
		return d, true
	}
	for _, k := range util.OrderedKeys(defs) {
		if strings.EqualFold(k, name) {
			return defs[k], true
		}
	}
	var zero E
	return zero, false
}

func (wb *Workbench) list() string {
	if wb.defsFrom == "" {
		return "Nothing has been loaded; try LOAD"
	}

	data := [][]string{{"Kind", "Name"}}
	add := func(kind string, names []string) {
		for _, n := range names {
			data = append(data, []string{kind, n})
		}
	}
	add("machine", util.OrderedKeys(wb.defs.Machines))
	add("grammar", util.OrderedKeys(wb.defs.Grammars))
	add("regex", util.OrderedKeys(wb.defs.Expressions))

	if len(data) == 1 {
		return "No machines, grammars, or expressions were in " + wb.defsFrom
	}
	return render.Table(data)
}

func (wb *Workbench) show(target string) (string, error) {
	switch target {
	case "MACHINE":
		fa, err := wb.requireMachine()
		if err != nil {
			return "", err
		}
		return render.Machine(fa), nil
	case "GRAMMAR":
		g, err := wb.requireGrammar()
		if err != nil {
			return "", err
		}
		return render.Grammar(g), nil
	case "RULES":
		return render.Rules(wb.rules), nil
	default:
		return "", flerrors.Commandf("I can't show %q", target)
	}
}
