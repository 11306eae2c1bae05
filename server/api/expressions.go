package api

import (
	"net/http"

	"github.com/dekarrin/flwarrior/server/result"
)

// HTTPGetAllExpressions returns a HandlerFunc that retrieves all stored
// expressions.
func (api API) HTTPGetAllExpressions() http.HandlerFunc {
	return httpEndpoint(api.UnauthDelay, api.epGetAllExpressions)
}

func (api API) epGetAllExpressions(req *http.Request) result.Result {
	exprs, err := api.Backend.GetAllExpressions(req.Context())
	if err != nil {
		return result.InternalServerError(err.Error())
	}

	resp := make([]ExpressionModel, len(exprs))
	for i := range exprs {
		resp[i] = expressionModel(exprs[i])
	}

	return result.OK(resp, "got all %d expressions", len(resp))
}

// HTTPCreateExpression returns a HandlerFunc that stores a new expression.
func (api API) HTTPCreateExpression() http.HandlerFunc {
	return httpEndpoint(api.UnauthDelay, api.epCreateExpression)
}

func (api API) epCreateExpression(req *http.Request) result.Result {
	var body ExpressionModel
	if err := parseJSON(req, &body); err != nil {
		return result.BadRequest(err.Error(), err.Error())
	}

	created, err := api.Backend.CreateExpression(req.Context(), body.Record)
	if err != nil {
		return serviceErr(err, "expression")
	}

	return result.Created(expressionModel(created), "created expression %s (%q)", created.ID, created.Record.RefName)
}

// HTTPGetExpression returns a HandlerFunc that gets one expression.
func (api API) HTTPGetExpression() http.HandlerFunc {
	return httpEndpoint(api.UnauthDelay, api.epGetExpression)
}

func (api API) epGetExpression(req *http.Request) result.Result {
	id := requireIDParam(req)

	e, err := api.Backend.GetExpression(req.Context(), id)
	if err != nil {
		return serviceErr(err, "expression")
	}

	return result.OK(expressionModel(e), "got expression %s", id)
}

// HTTPUpdateExpression returns a HandlerFunc that replaces one expression.
func (api API) HTTPUpdateExpression() http.HandlerFunc {
	return httpEndpoint(api.UnauthDelay, api.epUpdateExpression)
}

func (api API) epUpdateExpression(req *http.Request) result.Result {
	id := requireIDParam(req)

	var body ExpressionModel
	if err := parseJSON(req, &body); err != nil {
		return result.BadRequest(err.Error(), err.Error())
	}

	updated, err := api.Backend.UpdateExpression(req.Context(), id, body.Record)
	if err != nil {
		return serviceErr(err, "expression")
	}

	return result.OK(expressionModel(updated), "updated expression %s", id)
}

// HTTPDeleteExpression returns a HandlerFunc that deletes one expression.
func (api API) HTTPDeleteExpression() http.HandlerFunc {
	return httpEndpoint(api.UnauthDelay, api.epDeleteExpression)
}

func (api API) epDeleteExpression(req *http.Request) result.Result {
	id := requireIDParam(req)

	if _, err := api.Backend.DeleteExpression(req.Context(), id); err != nil {
		return serviceErr(err, "expression")
	}

	return result.NoContent("deleted expression %s", id)
}

// HTTPCompileExpression returns a HandlerFunc that gives the machine for an
// expression. The machine is not stored.
func (api API) HTTPCompileExpression() http.HandlerFunc {
	return httpEndpoint(api.UnauthDelay, api.epCompileExpression)
}

// POST /expressions/{id}/compile
func (api API) epCompileExpression(req *http.Request) result.Result {
	id := requireIDParam(req)

	fa, err := api.Backend.CompileExpression(req.Context(), id)
	if err != nil {
		return serviceErr(err, "expression")
	}

	return result.OK(MachineModel{Record: fa}, "compiled expression %s", id)
}
