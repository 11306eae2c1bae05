package regex

import (
	"fmt"

	"github.com/dekarrin/flwarrior/automaton"
	"github.com/dekarrin/flwarrior/internal/recbin"
)

// TypeRegular is the only expression type.
const TypeRegular = "reg"

// Record is the plain, storable form of a named regular expression.
type Record struct {
	ID      string `json:"id"`
	Name    string `json:"name,omitempty"`
	Type    string `json:"type"`
	RefName string `json:"refName"`
	Body    string `json:"body"`
}

// NewRecord creates a Record of TypeRegular.
func NewRecord(id, refName, body string) Record {
	return Record{ID: id, Name: refName, Type: TypeRegular, RefName: refName, Body: body}
}

// Compile compiles the body of the record. An empty Type is taken to be
// TypeRegular; any other type is an error.
func (rec Record) Compile() (automaton.Automaton, error) {
	if rec.Type != "" && rec.Type != TypeRegular {
		return automaton.Automaton{}, fmt.Errorf("unsupported expression type %q", rec.Type)
	}
	return Compile(rec.Body)
}

// MarshalBinary encodes the record using REZI.
func (rec Record) MarshalBinary() ([]byte, error) {
	var w recbin.Writer
	w.String(rec.ID)
	w.String(rec.Name)
	w.String(rec.Type)
	w.String(rec.RefName)
	w.String(rec.Body)
	return w.Bytes(), nil
}

// UnmarshalBinary decodes a record encoded with MarshalBinary.
func (rec *Record) UnmarshalBinary(data []byte) error {
	r := recbin.NewReader(data)

	decoded := Record{
		ID:      r.String("id"),
		Name:    r.String("name"),
		Type:    r.String("type"),
		RefName: r.String("refName"),
		Body:    r.String("body"),
	}

	if err := r.Err(); err != nil {
		return err
	}
	*rec = decoded
	return nil
}
