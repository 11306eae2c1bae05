package automaton

import (
	"fmt"

	"github.com/dekarrin/flwarrior/alphabet"
	"github.com/dekarrin/flwarrior/internal/flerrors"
	"github.com/dekarrin/flwarrior/internal/recbin"
)

// Record is the plain, storable form of a machine. It is what is persisted and
// what is sent over the wire; an Automaton is made from one with FromRecord.
//
// The WriteSymbol, HeadDirection, and Memory fields of transitions exist for
// machines with a tape or stack. They are kept in the record but finite
// automata ignore them.
type Record struct {
	ID            string             `json:"id"`
	Name          string             `json:"name"`
	States        []StateRecord      `json:"states"`
	Transitions   []TransitionRecord `json:"transitions"`
	EntryAlphabet []string           `json:"entryAlphabet"`
	Deterministic bool               `json:"deterministic"`
}

type StateRecord struct {
	ID      string `json:"id"`
	IsEntry bool   `json:"isEntry"`
	IsExit  bool   `json:"isExit"`
}

type TransitionRecord struct {
	From string           `json:"from"`
	To   TransitionTarget `json:"to"`
	With TransitionInput  `json:"with"`
}

type TransitionTarget struct {
	NewState      string `json:"newState"`
	WriteSymbol   string `json:"writeSymbol,omitempty"`
	HeadDirection string `json:"headDirection,omitempty"`
}

// TransitionInput is what a transition reads. A Head of "" or "ε" is an
// epsilon move.
type TransitionInput struct {
	Head   string `json:"head"`
	Memory string `json:"memory,omitempty"`
}

// FromRecord creates an Automaton from a Record. The Deterministic field of
// rec is ignored; it is always recomputed from the machine itself.
//
// Every problem found is reported, not only the first. A transition on a
// symbol missing from the entry alphabet gives an error that matches
// flerrors.ErrUnknownSymbol; duplicate states and transitions to or from
// missing states match flerrors.ErrMalformed.
func FromRecord(rec Record) (Automaton, error) {
	var err error

	b := NewBuilder()
	for _, s := range rec.EntryAlphabet {
		b.AddSymbol(alphabet.ParseSymbol(s))
	}

	for _, st := range rec.States {
		if addErr := b.AddState(st.ID, st.IsEntry, st.IsExit); addErr != nil {
			err = flerrors.Append(err, addErr)
		}
	}

	for i, t := range rec.Transitions {
		input := alphabet.ParseSymbol(t.With.Head)
		if addErr := b.AddTransition(t.From, input, t.To.NewState); addErr != nil {
			err = flerrors.Append(err, flerrors.Wrapf(addErr, "transition %d", i))
		}
	}

	if err != nil {
		return Automaton{}, flerrors.Wrapf(err, "machine %q", rec.ID)
	}
	return b.Build(), nil
}

// ToRecord gives the Record form of fa, with the given ID and name.
func (fa Automaton) ToRecord(id, name string) Record {
	rec := Record{
		ID:            id,
		Name:          name,
		States:        []StateRecord{},
		Transitions:   []TransitionRecord{},
		EntryAlphabet: fa.alphabet.Strings(),
		Deterministic: fa.IsDeterministic(),
	}

	for _, st := range fa.States() {
		rec.States = append(rec.States, StateRecord{ID: st.ID, IsEntry: st.IsEntry, IsExit: st.IsExit})
	}
	for _, t := range fa.Transitions() {
		rec.Transitions = append(rec.Transitions, TransitionRecord{
			From: t.From,
			To:   TransitionTarget{NewState: t.To},
			With: TransitionInput{Head: string(t.Input)},
		})
	}

	return rec
}

// MarshalBinary encodes the record using REZI.
func (rec Record) MarshalBinary() ([]byte, error) {
	var w recbin.Writer

	w.String(rec.ID)
	w.String(rec.Name)

	w.Int(len(rec.States))
	for _, st := range rec.States {
		w.String(st.ID)
		w.Bool(st.IsEntry)
		w.Bool(st.IsExit)
	}

	w.Int(len(rec.Transitions))
	for _, t := range rec.Transitions {
		w.String(t.From)
		w.String(t.To.NewState)
		w.String(t.To.WriteSymbol)
		w.String(t.To.HeadDirection)
		w.String(t.With.Head)
		w.String(t.With.Memory)
	}

	w.Strings(rec.EntryAlphabet)
	w.Bool(rec.Deterministic)

	return w.Bytes(), nil
}

// UnmarshalBinary decodes a record encoded with MarshalBinary.
func (rec *Record) UnmarshalBinary(data []byte) error {
	r := recbin.NewReader(data)

	var decoded Record
	decoded.ID = r.String("id")
	decoded.Name = r.String("name")

	decoded.States = []StateRecord{}
	n := r.Count("states")
	for i := 0; i < n && r.Err() == nil; i++ {
		decoded.States = append(decoded.States, StateRecord{
			ID:      r.String(fmt.Sprintf("state[%d] id", i)),
			IsEntry: r.Bool(fmt.Sprintf("state[%d] isEntry", i)),
			IsExit:  r.Bool(fmt.Sprintf("state[%d] isExit", i)),
		})
	}

	decoded.Transitions = []TransitionRecord{}
	n = r.Count("transitions")
	for i := 0; i < n && r.Err() == nil; i++ {
		var t TransitionRecord
		t.From = r.String("transition from")
		t.To.NewState = r.String("transition newState")
		t.To.WriteSymbol = r.String("transition writeSymbol")
		t.To.HeadDirection = r.String("transition headDirection")
		t.With.Head = r.String("transition head")
		t.With.Memory = r.String("transition memory")
		decoded.Transitions = append(decoded.Transitions, t)
	}

	decoded.EntryAlphabet = r.Strings("entryAlphabet")
	decoded.Deterministic = r.Bool("deterministic")

	if err := r.Err(); err != nil {
		return err
	}
	*rec = decoded
	return nil
}
