package flwfile

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/dekarrin/flwarrior/automaton"
	"github.com/dekarrin/flwarrior/grammar"
	"github.com/dekarrin/flwarrior/internal/util"
	"github.com/dekarrin/flwarrior/regex"
)

const nameChars = `A-Za-z0-9_.-`

var (
	nameRegexp        = regexp.MustCompile(fmt.Sprintf(`^[%s]+$`, nameChars))
	nameBadCharRegexp = regexp.MustCompile(fmt.Sprintf(`[^%s]`, nameChars))
)

func parseManifest(flw topLevelManifest) (Manifest, error) {
	manif := Manifest{
		Files: flw.Files,
	}

	return manif, nil
}

// parseBundle checks and converts every definition. Names must be unique
// within their kind, ignoring case.
func parseBundle(flw topLevelDefinitions) (Bundle, error) {
	bundle := Bundle{
		Machines:    map[string]automaton.Automaton{},
		Grammars:    map[string]grammar.Grammar{},
		Expressions: map[string]regex.Record{},
	}

	ruleNames := util.NewStringSet()
	for i, r := range flw.Rules {
		if err := checkName(r.Name, ruleNames, "a lexer rule"); err != nil {
			return bundle, fmt.Errorf("rule[%d]: %w", i, err)
		}
		if _, err := regex.Parse(r.Pattern); err != nil {
			return bundle, fmt.Errorf("rule %q: pattern: %w", r.Name, err)
		}
		ruleNames.Add(strings.ToUpper(r.Name))
		bundle.Rules = append(bundle.Rules, r)
	}

	machineNames := util.NewStringSet()
	for i, m := range flw.Machines {
		if err := checkName(m.Name, machineNames, "a machine"); err != nil {
			return bundle, fmt.Errorf("machine[%d]: %w", i, err)
		}
		fa, err := m.toAutomaton()
		if err != nil {
			return bundle, fmt.Errorf("machine %q: %w", m.Name, err)
		}
		if len(fa.EntryStates()) == 0 {
			return bundle, fmt.Errorf("machine %q: must have at least one state in 'entry'", m.Name)
		}
		machineNames.Add(strings.ToUpper(m.Name))
		bundle.Machines[m.Name] = fa
	}

	grammarNames := util.NewStringSet()
	for i, gd := range flw.Grammars {
		if err := checkName(gd.Name, grammarNames, "a grammar"); err != nil {
			return bundle, fmt.Errorf("grammar[%d]: %w", i, err)
		}
		if len(gd.Rules) == 0 {
			return bundle, fmt.Errorf("grammar %q: must have at least one entry in 'rules'", gd.Name)
		}
		g, err := gd.toGrammar()
		if err != nil {
			return bundle, fmt.Errorf("grammar %q: %w", gd.Name, err)
		}
		grammarNames.Add(strings.ToUpper(gd.Name))
		bundle.Grammars[gd.Name] = g
	}

	regexNames := util.NewStringSet()
	for i, rd := range flw.Regexes {
		if err := checkName(rd.Name, regexNames, "a regex"); err != nil {
			return bundle, fmt.Errorf("regex[%d]: %w", i, err)
		}
		rec := rd.toRecord()
		if _, err := rec.Compile(); err != nil {
			return bundle, fmt.Errorf("regex %q: body: %w", rd.Name, err)
		}
		regexNames.Add(strings.ToUpper(rd.Name))
		bundle.Expressions[rd.Name] = rec
	}

	return bundle, nil
}

// checkName returns an error if name is blank, uses a character that is not
// allowed, or is already in conflictSet. conflictSet holds upper-case names.
func checkName(name string, conflictSet util.StringSet, named string) error {
	if name == "" {
		return fmt.Errorf("must have non-blank 'name' field")
	}

	if conflictSet.Has(strings.ToUpper(name)) {
		return fmt.Errorf("name %q has already been used for %s", name, named)
	}

	if !nameRegexp.MatchString(name) {
		badChar := nameBadCharRegexp.FindString(name)
		if badChar == "" {
			// something has gone horribly wrong with coding of regular expressions
			panic(fmt.Sprintf("could not identify bad char in name %q", name))
		}

		return fmt.Errorf("%q has the %q character in it which is not allowed for names", name, badChar)
	}

	return nil
}
