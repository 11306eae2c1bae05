package flws

import (
	"context"

	"github.com/dekarrin/flwarrior/automaton"
	"github.com/dekarrin/flwarrior/regex"
	"github.com/dekarrin/flwarrior/server/dao"
	"github.com/dekarrin/flwarrior/server/serr"
)

// checkExpression makes sure rec compiles. An empty Type is filled in and an
// empty Name is taken from RefName.
func checkExpression(rec regex.Record) (regex.Record, error) {
	if rec.Type == "" {
		rec.Type = regex.TypeRegular
	}
	if rec.Name == "" {
		rec.Name = rec.RefName
	}
	if _, err := rec.Compile(); err != nil {
		return rec, err
	}
	return rec, nil
}

// GetAllExpressions returns all expressions currently in persistence.
func (svc Service) GetAllExpressions(ctx context.Context) ([]dao.Expression, error) {
	return getAll(ctx, svc.DB.Expressions())
}

// GetExpression returns the expression with the given ID. Errors are as for
// GetMachine.
func (svc Service) GetExpression(ctx context.Context, id string) (dao.Expression, error) {
	return get(ctx, svc.DB.Expressions(), id)
}

// CreateExpression stores a new expression. Its body must compile. Errors are
// as for CreateMachine; expressions are named by RefName.
func (svc Service) CreateExpression(ctx context.Context, rec regex.Record) (dao.Expression, error) {
	return create(ctx, svc.DB.Expressions(), dao.ExpressionKind, rec, checkExpression)
}

// UpdateExpression replaces the expression with the given ID. Errors are as
// for UpdateMachine.
func (svc Service) UpdateExpression(ctx context.Context, id string, rec regex.Record) (dao.Expression, error) {
	return update(ctx, svc.DB.Expressions(), dao.ExpressionKind, id, rec, checkExpression)
}

// DeleteExpression deletes the expression with the given ID and returns it as
// it was just before deletion.
func (svc Service) DeleteExpression(ctx context.Context, id string) (dao.Expression, error) {
	return remove(ctx, svc.DB.Expressions(), id)
}

// CompileExpression gives the machine for the expression with the given ID.
// The result is not stored; its ID is empty and its name is the RefName of
// the expression.
func (svc Service) CompileExpression(ctx context.Context, id string) (automaton.Record, error) {
	e, err := svc.GetExpression(ctx, id)
	if err != nil {
		return automaton.Record{}, err
	}
	fa, err := e.Record.Compile()
	if err != nil {
		return automaton.Record{}, serr.WrapRecord("stored expression is not valid", err)
	}
	return fa.ToRecord("", e.Record.RefName), nil
}
