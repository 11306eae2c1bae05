package flws

import (
	"context"
	"fmt"

	"github.com/dekarrin/flwarrior/grammar"
	"github.com/dekarrin/flwarrior/server/dao"
	"github.com/dekarrin/flwarrior/server/serr"
)

// Transform is a change that can be made to a grammar.
type Transform string

const (
	TransformNonDeterminism Transform = "nondeterminism"
	TransformLeftFactor     Transform = "left-factor"
	TransformLeftRecursion  Transform = "left-recursion"
)

func (t Transform) apply(g grammar.Grammar) (grammar.Grammar, error) {
	switch t {
	case TransformNonDeterminism:
		return g.RemoveDirectNonDeterminism(), nil
	case TransformLeftFactor:
		return g.LeftFactor(), nil
	case TransformLeftRecursion:
		return g.RemoveLeftRecursion(), nil
	default:
		return g, serr.New(fmt.Sprintf("unknown transform %q", string(t)), serr.ErrBadArgument)
	}
}

// checkGrammar builds the grammar rec describes and gives the record that
// should be stored for it.
func checkGrammar(rec grammar.Record) (grammar.Record, error) {
	g, err := grammar.FromRecord(rec)
	if err != nil {
		return rec, err
	}
	return g.ToRecord(rec.ID, rec.Name), nil
}

// GetAllGrammars returns all grammars currently in persistence.
func (svc Service) GetAllGrammars(ctx context.Context) ([]dao.Grammar, error) {
	return getAll(ctx, svc.DB.Grammars())
}

// GetGrammar returns the grammar with the given ID. Errors are as for
// GetMachine.
func (svc Service) GetGrammar(ctx context.Context, id string) (dao.Grammar, error) {
	return get(ctx, svc.DB.Grammars(), id)
}

// CreateGrammar stores a new grammar. The record must describe a valid
// grammar; its Type field is recomputed. Errors are as for CreateMachine.
func (svc Service) CreateGrammar(ctx context.Context, rec grammar.Record) (dao.Grammar, error) {
	return create(ctx, svc.DB.Grammars(), dao.GrammarKind, rec, checkGrammar)
}

// UpdateGrammar replaces the grammar with the given ID. Errors are as for
// UpdateMachine.
func (svc Service) UpdateGrammar(ctx context.Context, id string, rec grammar.Record) (dao.Grammar, error) {
	return update(ctx, svc.DB.Grammars(), dao.GrammarKind, id, rec, checkGrammar)
}

// DeleteGrammar deletes the grammar with the given ID and returns it as it
// was just before deletion.
func (svc Service) DeleteGrammar(ctx context.Context, id string) (dao.Grammar, error) {
	return remove(ctx, svc.DB.Grammars(), id)
}

func (svc Service) loadGrammar(ctx context.Context, id string) (grammar.Grammar, dao.Grammar, error) {
	stored, err := svc.GetGrammar(ctx, id)
	if err != nil {
		return grammar.Grammar{}, stored, err
	}
	g, err := grammar.FromRecord(stored.Record)
	if err != nil {
		return g, stored, serr.WrapRecord("stored grammar is not valid", err)
	}
	return g, stored, nil
}

// ClassifyGrammar gives the place in the Chomsky hierarchy of the grammar with
// the given ID.
func (svc Service) ClassifyGrammar(ctx context.Context, id string) (grammar.Type, error) {
	g, _, err := svc.loadGrammar(ctx, id)
	if err != nil {
		return grammar.Unrestricted, err
	}
	return g.Classify(), nil
}

// TransformGrammar applies t to the grammar with the given ID. The result is
// not stored; its ID is empty and its name is that of the original with the
// name of t added.
func (svc Service) TransformGrammar(ctx context.Context, id string, t Transform) (grammar.Record, error) {
	g, stored, err := svc.loadGrammar(ctx, id)
	if err != nil {
		return grammar.Record{}, err
	}
	updated, err := t.apply(g)
	if err != nil {
		return grammar.Record{}, err
	}
	return updated.ToRecord("", stored.Record.Name+"-"+string(t)), nil
}
