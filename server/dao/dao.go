// Package dao provides data access objects for use in the FLWarrior server.
//
// The store does not look inside the records it keeps beyond their names; it
// is up to callers to check that a record is valid before storing it.
package dao

import (
	"context"
	"time"

	"github.com/dekarrin/flwarrior/automaton"
	"github.com/dekarrin/flwarrior/grammar"
	"github.com/dekarrin/flwarrior/regex"
	"github.com/google/uuid"
)

// Store holds all the repositories.
type Store interface {
	Machines() MachineRepository
	Grammars() GrammarRepository
	Expressions() ExpressionRepository
	Close() error
}

// Stored is a record along with the data the store keeps about it. The ID of
// the record itself is always the string form of ID.
type Stored[R any] struct {
	ID       uuid.UUID
	Record   R
	Created  time.Time
	Modified time.Time
}

type (
	Machine    = Stored[automaton.Record]
	Grammar    = Stored[grammar.Record]
	Expression = Stored[regex.Record]
)

// Repository keeps records of one kind. Names are unique within a
// Repository; creating or updating a record to have the name of another gives
// ErrConstraintViolation.
type Repository[R any] interface {
	// Create stores a new record under a newly generated ID.
	Create(ctx context.Context, rec R) (Stored[R], error)
	GetByID(ctx context.Context, id uuid.UUID) (Stored[R], error)

	// GetAll returns every record, ordered by ID.
	GetAll(ctx context.Context) ([]Stored[R], error)
	Update(ctx context.Context, id uuid.UUID, rec R) (Stored[R], error)
	Delete(ctx context.Context, id uuid.UUID) (Stored[R], error)
	Close() error
}

type (
	MachineRepository    = Repository[automaton.Record]
	GrammarRepository    = Repository[grammar.Record]
	ExpressionRepository = Repository[regex.Record]
)

// Kind describes one kind of record to a store.
type Kind[R any] struct {
	// Table is the plural name of the kind, used for naming storage.
	Table string

	// NameOf gives the name a record is stored under.
	NameOf func(R) string

	// SetID sets the ID held in a record.
	SetID func(rec *R, id string)
}

var (
	MachineKind = Kind[automaton.Record]{
		Table:  "machines",
		NameOf: func(rec automaton.Record) string { return rec.Name },
		SetID:  func(rec *automaton.Record, id string) { rec.ID = id },
	}

	GrammarKind = Kind[grammar.Record]{
		Table:  "grammars",
		NameOf: func(rec grammar.Record) string { return rec.Name },
		SetID:  func(rec *grammar.Record, id string) { rec.ID = id },
	}

	// ExpressionKind names expressions by RefName, which is how other
	// expressions refer to them.
	ExpressionKind = Kind[regex.Record]{
		Table:  "expressions",
		NameOf: func(rec regex.Record) string { return rec.RefName },
		SetID:  func(rec *regex.Record, id string) { rec.ID = id },
	}
)
