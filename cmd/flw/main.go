/*
Flw works with regular expressions, finite automata, grammars, and lexer rules
from the command line.

Usage:

	flw [flags]
	flw COMMAND [flags] [ARGS...]

The commands are:

	lex [-f FILE] [-r 'NAME -> PATTERN']... [--strict] [TEXT...]
		Split TEXT on whitespace and give the token each piece matches. Rules
		are read from the LEXER file given with -f, then from each -r in
		order; the first rule to match a piece wins. If no TEXT is given, it is
		read from stdin. Pieces that no rule matches are listed after the
		tokens; with --strict they also make flw exit with an error.

	match [-t] REGEX WORD...
		Compile REGEX and say whether it accepts each WORD. With -t/--trace,
		show the states the machine passes through.

	dfa [-f FILE -n NAME] [--renumber] [REGEX]
		Show the deterministic machine for REGEX, or for the machine or
		expression called NAME in FILE. With --renumber, states are renamed
		q0, q1, and so on.

	classify [-f FILE -n NAME] [GRAMMAR]
		Give the place in the Chomsky hierarchy of GRAMMAR, written as in
		'S -> a S | b ; A -> ε', or of the grammar called NAME in FILE.

	factor [-f FILE -n NAME] [--nondet] [GRAMMAR]
		Left-factor a grammar. With --nondet, only bodies that share a first
		symbol are grouped.

	leftrec [-f FILE -n NAME] [GRAMMAR]
		Remove immediate left recursion from a grammar.

	repl [-d] [-f FILE] [--history FILE]
		Start an interactive workbench. FILE is loaded first if given. With
		-d/--direct, input is read directly from stdin instead of going
		through GNU readline even if launched in a tty. Type "HELP" once in a
		session for its commands, and "QUIT" to leave.

The flags are:

	-v, --version
		Give the current version of FLWarrior and then exit.

With no command, flw starts the workbench as with "flw repl".
*/
package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/dekarrin/flwarrior"
	"github.com/dekarrin/flwarrior/alphabet"
	"github.com/dekarrin/flwarrior/automaton"
	"github.com/dekarrin/flwarrior/grammar"
	"github.com/dekarrin/flwarrior/internal/flerrors"
	"github.com/dekarrin/flwarrior/internal/flwfile"
	"github.com/dekarrin/flwarrior/internal/render"
	"github.com/dekarrin/flwarrior/internal/version"
	"github.com/dekarrin/flwarrior/lex"
	"github.com/dekarrin/flwarrior/regex"
	"github.com/spf13/pflag"
)

const (

	// ExitSuccess indicates a successful program execution.
	ExitSuccess = iota

	// ExitCommandError indicates an unsuccessful program execution due to a
	// problem with what was asked for.
	ExitCommandError

	// ExitInitError indicates an unsuccessful program execution due to an issue
	// with the arguments or with initializing the workbench.
	ExitInitError
)

// usageError is an error with the arguments given to a command.
type usageError struct {
	msg string
}

func (e usageError) Error() string {
	return e.msg
}

func usagef(format string, a ...interface{}) error {
	return usageError{msg: fmt.Sprintf(format, a...)}
}

type command struct {
	flags *pflag.FlagSet
	run   func(args []string) error
}

func main() {
	args := os.Args[1:]

	verb := "repl"
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		verb = strings.ToLower(args[0])
		args = args[1:]
	} else if len(args) > 0 && (args[0] == "-v" || args[0] == "--version") {
		fmt.Printf("%s\n", version.Current)
		return
	}

	cmds := commands()
	cmd, ok := cmds[verb]
	if !ok {
		fmt.Fprintf(os.Stderr, "Unknown command %q\nDo -h for help.\n", verb)
		os.Exit(ExitInitError)
	}

	if err := cmd.flags.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "%s\nDo -h for help.\n", err)
		os.Exit(ExitInitError)
	}

	if err := cmd.run(cmd.flags.Args()); err != nil {
		var usageErr usageError
		if errors.As(err, &usageErr) {
			fmt.Fprintf(os.Stderr, "%s\nDo %s -h for help.\n", usageErr.msg, verb)
			os.Exit(ExitInitError)
		}
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", flerrors.Message(err))
		os.Exit(ExitCommandError)
	}
}

func commands() map[string]command {
	cmds := map[string]command{}

	// lex
	{
		fs := pflag.NewFlagSet("lex", pflag.ContinueOnError)
		file := fs.StringP("file", "f", "", "Read lexer rules from the given FLW file.")
		rules := fs.StringArrayP("rule", "r", nil, "Add a rule of the form 'NAME -> PATTERN'. May be given more than once.")
		strict := fs.Bool("strict", false, "Exit with an error if any text is not matched.")
		cmds["lex"] = command{flags: fs, run: func(args []string) error {
			return runLex(*file, *rules, *strict, args)
		}}
	}

	// match
	{
		fs := pflag.NewFlagSet("match", pflag.ContinueOnError)
		trace := fs.BoolP("trace", "t", false, "Show the states the machine passes through.")
		cmds["match"] = command{flags: fs, run: func(args []string) error {
			return runMatch(*trace, args)
		}}
	}

	// dfa
	{
		fs := pflag.NewFlagSet("dfa", pflag.ContinueOnError)
		file := fs.StringP("file", "f", "", "Read the machine or expression from the given FLW file.")
		name := fs.StringP("name", "n", "", "The name of the machine or expression in the file.")
		renumber := fs.Bool("renumber", false, "Rename states to q0, q1, and so on.")
		cmds["dfa"] = command{flags: fs, run: func(args []string) error {
			return runDFA(*file, *name, *renumber, args)
		}}
	}

	// grammar commands
	grammarCmd := func(verb string, extra func(fs *pflag.FlagSet) func(g grammar.Grammar) (string, error)) {
		fs := pflag.NewFlagSet(verb, pflag.ContinueOnError)
		file := fs.StringP("file", "f", "", "Read the grammar from the given FLW file.")
		name := fs.StringP("name", "n", "", "The name of the grammar in the file.")
		do := extra(fs)
		cmds[verb] = command{flags: fs, run: func(args []string) error {
			g, err := loadGrammar(*file, *name, args)
			if err != nil {
				return err
			}
			out, err := do(g)
			if err != nil {
				return err
			}
			fmt.Println(out)
			return nil
		}}
	}

	grammarCmd("classify", func(fs *pflag.FlagSet) func(g grammar.Grammar) (string, error) {
		return func(g grammar.Grammar) (string, error) {
			return g.Classify().String(), nil
		}
	})
	grammarCmd("factor", func(fs *pflag.FlagSet) func(g grammar.Grammar) (string, error) {
		nondet := fs.Bool("nondet", false, "Only group bodies that share a first symbol.")
		return func(g grammar.Grammar) (string, error) {
			if *nondet {
				return render.Grammar(g.RemoveDirectNonDeterminism()), nil
			}
			return render.Grammar(g.LeftFactor()), nil
		}
	})
	grammarCmd("leftrec", func(fs *pflag.FlagSet) func(g grammar.Grammar) (string, error) {
		return func(g grammar.Grammar) (string, error) {
			return render.Grammar(g.RemoveLeftRecursion()), nil
		}
	})

	// repl
	{
		fs := pflag.NewFlagSet("repl", pflag.ContinueOnError)
		direct := fs.BoolP("direct", "d", false, "Force reading directly from stdin instead of going through GNU readline where possible.")
		file := fs.StringP("file", "f", "", "Load the given FLW file before starting.")
		history := fs.String("history", defaultHistoryFile(), "Keep command history in the given file.")
		cmds["repl"] = command{flags: fs, run: func(args []string) error {
			if len(args) > 0 {
				return usagef("Too many arguments")
			}
			return runREPL(*direct, *file, *history)
		}}
	}

	return cmds
}

func runLex(file string, ruleArgs []string, strict bool, args []string) error {
	var rules []lex.Rule
	if file != "" {
		bundle, err := flwfile.LoadBundle(file)
		if err != nil {
			return flerrors.Wrapf(err, "loading %s", file)
		}
		rules = append(rules, bundle.Rules...)
	}
	if len(ruleArgs) > 0 {
		parsed, err := lex.ParseRules(strings.Join(ruleArgs, "\n"))
		if err != nil {
			return err
		}
		rules = append(rules, parsed...)
	}
	if len(rules) == 0 {
		return usagef("No lexer rules given; use -f or -r")
	}

	analyzer, err := lex.NewAnalyzer(rules)
	if err != nil {
		return err
	}

	var source string
	if len(args) > 0 {
		source = strings.Join(args, " ")
	} else {
		data, err := io.ReadAll(bufio.NewReader(os.Stdin))
		if err != nil {
			return fmt.Errorf("read stdin: %w", err)
		}
		source = string(data)
	}

	res := analyzer.Analyze(source)
	fmt.Println(render.Tokens(res))

	if strict {
		return res.Err()
	}
	return nil
}

func runMatch(trace bool, args []string) error {
	if len(args) < 1 {
		return usagef("A regular expression is required")
	}

	fa, err := regex.Compile(args[0])
	if err != nil {
		return err
	}

	words := args[1:]
	if len(words) == 0 {
		words = []string{""}
	}

	for _, w := range words {
		syms := alphabet.Split(w)
		if trace {
			fmt.Println(render.Trace(fa, syms))
			continue
		}

		verdict := "REJECTED"
		if fa.Accepts(syms) {
			verdict = "ACCEPTED"
		}
		fmt.Printf("%q: %s\n", w, verdict)
	}
	return nil
}

func runDFA(file, name string, renumber bool, args []string) error {
	var fa automaton.Automaton

	if file != "" {
		if name == "" {
			return usagef("--name is required with --file")
		}
		bundle, err := flwfile.LoadBundle(file)
		if err != nil {
			return flerrors.Wrapf(err, "loading %s", file)
		}
		if m, ok := bundle.Machines[name]; ok {
			fa = m
		} else if rec, ok := bundle.Expressions[name]; ok {
			fa, err = rec.Compile()
			if err != nil {
				return err
			}
		} else {
			return flerrors.Commandf("No machine or expression named %q in %s", name, file)
		}
	} else {
		if len(args) != 1 {
			return usagef("Exactly one regular expression is required")
		}
		var err error
		fa, err = regex.Compile(args[0])
		if err != nil {
			return err
		}
	}

	dfa := fa.Determinize()
	if renumber {
		dfa = dfa.Renumber()
	}
	fmt.Println(render.Machine(dfa))
	return nil
}

func loadGrammar(file, name string, args []string) (grammar.Grammar, error) {
	if file == "" {
		if len(args) == 0 {
			return grammar.Grammar{}, usagef("A grammar is required")
		}
		return grammar.Parse(strings.Join(args, " "))
	}

	if name == "" {
		return grammar.Grammar{}, usagef("--name is required with --file")
	}
	bundle, err := flwfile.LoadBundle(file)
	if err != nil {
		return grammar.Grammar{}, flerrors.Wrapf(err, "loading %s", file)
	}
	g, ok := bundle.Grammars[name]
	if !ok {
		return grammar.Grammar{}, flerrors.Commandf("No grammar named %q in %s", name, file)
	}
	return g, nil
}

func runREPL(direct bool, file, history string) error {
	eng, err := flwarrior.New(os.Stdin, os.Stdout, flwarrior.Options{
		ForceDirect: direct,
		LoadFile:    file,
		HistoryFile: history,
	})
	if err != nil {
		return err
	}
	defer eng.Close()

	return eng.RunUntilQuit()
}

func defaultHistoryFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".flw_history")
}
