package grammar

import (
	"fmt"

	"github.com/dekarrin/flwarrior/alphabet"
	"github.com/dekarrin/flwarrior/internal/flerrors"
	"github.com/dekarrin/flwarrior/internal/recbin"
)

// Record is the plain, storable form of a grammar.
//
// Type is informational only. FromRecord ignores it and ToRecord always sets
// it from Classify.
type Record struct {
	ID           string             `json:"id"`
	Name         string             `json:"name"`
	Type         string             `json:"type"`
	StartSymbol  string             `json:"startSymbol"`
	Terminals    []string           `json:"alphabetT"`
	NonTerminals []string           `json:"alphabetNT"`
	Transitions  []ProductionRecord `json:"transitions"`
}

// ProductionRecord holds one rule. A body of [""] or ["ε"] is the empty word.
type ProductionRecord struct {
	From []string   `json:"from"`
	To   [][]string `json:"to"`
}

func wordFromStrings(strs []string) Word {
	w := make(Word, len(strs))
	for i := range strs {
		w[i] = alphabet.ParseSymbol(strs[i])
	}
	return w
}

func wordToStrings(w Word) []string {
	strs := make([]string, len(w))
	for i := range w {
		strs[i] = w[i].String()
	}
	return strs
}

// FromRecord creates a Grammar from a Record. Every problem found is
// reported, as with New.
func FromRecord(rec Record) (Grammar, error) {
	rules := make([]Rule, len(rec.Transitions))
	for i, pr := range rec.Transitions {
		rules[i] = Rule{Head: wordFromStrings(pr.From)}
		for _, to := range pr.To {
			rules[i].Bodies = append(rules[i].Bodies, wordFromStrings(to))
		}
	}

	g, err := New(
		alphabet.ParseSymbol(rec.StartSymbol),
		alphabet.FromStrings(rec.Terminals...),
		alphabet.FromStrings(rec.NonTerminals...),
		rules...,
	)
	if err != nil {
		return Grammar{}, flerrors.Wrapf(err, "grammar %q", rec.ID)
	}
	return g, nil
}

// ToRecord gives the Record form of g, with the given ID and name. Epsilon is
// written as "ε".
func (g Grammar) ToRecord(id, name string) Record {
	rec := Record{
		ID:           id,
		Name:         name,
		Type:         g.Classify().String(),
		StartSymbol:  string(g.start),
		Terminals:    g.terminals.Strings(),
		NonTerminals: g.nonTerminals.Strings(),
		Transitions:  []ProductionRecord{},
	}
	if rec.Terminals == nil {
		rec.Terminals = []string{}
	}
	if rec.NonTerminals == nil {
		rec.NonTerminals = []string{}
	}

	for _, r := range g.rules {
		pr := ProductionRecord{From: wordToStrings(r.Head), To: [][]string{}}
		for _, body := range r.Bodies {
			pr.To = append(pr.To, wordToStrings(body))
		}
		rec.Transitions = append(rec.Transitions, pr)
	}

	return rec
}

// MarshalBinary encodes the record using REZI.
func (rec Record) MarshalBinary() ([]byte, error) {
	var w recbin.Writer

	w.String(rec.ID)
	w.String(rec.Name)
	w.String(rec.Type)
	w.String(rec.StartSymbol)
	w.Strings(rec.Terminals)
	w.Strings(rec.NonTerminals)

	w.Int(len(rec.Transitions))
	for _, pr := range rec.Transitions {
		w.Strings(pr.From)
		w.Int(len(pr.To))
		for _, to := range pr.To {
			w.Strings(to)
		}
	}

	return w.Bytes(), nil
}

// UnmarshalBinary decodes a record encoded with MarshalBinary.
func (rec *Record) UnmarshalBinary(data []byte) error {
	r := recbin.NewReader(data)

	var decoded Record
	decoded.ID = r.String("id")
	decoded.Name = r.String("name")
	decoded.Type = r.String("type")
	decoded.StartSymbol = r.String("startSymbol")
	decoded.Terminals = r.Strings("alphabetT")
	decoded.NonTerminals = r.Strings("alphabetNT")

	decoded.Transitions = []ProductionRecord{}
	n := r.Count("transitions")
	for i := 0; i < n && r.Err() == nil; i++ {
		pr := ProductionRecord{
			From: r.Strings(fmt.Sprintf("transition[%d] from", i)),
			To:   [][]string{},
		}
		bodyCount := r.Count(fmt.Sprintf("transition[%d] to", i))
		for j := 0; j < bodyCount && r.Err() == nil; j++ {
			pr.To = append(pr.To, r.Strings(fmt.Sprintf("transition[%d] to[%d]", i, j)))
		}
		decoded.Transitions = append(decoded.Transitions, pr)
	}

	if err := r.Err(); err != nil {
		return err
	}
	*rec = decoded
	return nil
}
