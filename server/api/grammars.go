package api

import (
	"net/http"

	"github.com/dekarrin/flwarrior/server/flws"
	"github.com/dekarrin/flwarrior/server/result"
)

// HTTPGetAllGrammars returns a HandlerFunc that retrieves all stored grammars.
func (api API) HTTPGetAllGrammars() http.HandlerFunc {
	return httpEndpoint(api.UnauthDelay, api.epGetAllGrammars)
}

func (api API) epGetAllGrammars(req *http.Request) result.Result {
	grammars, err := api.Backend.GetAllGrammars(req.Context())
	if err != nil {
		return result.InternalServerError(err.Error())
	}

	resp := make([]GrammarModel, len(grammars))
	for i := range grammars {
		resp[i] = grammarModel(grammars[i])
	}

	return result.OK(resp, "got all %d grammars", len(resp))
}

// HTTPCreateGrammar returns a HandlerFunc that stores a new grammar.
func (api API) HTTPCreateGrammar() http.HandlerFunc {
	return httpEndpoint(api.UnauthDelay, api.epCreateGrammar)
}

func (api API) epCreateGrammar(req *http.Request) result.Result {
	var body GrammarModel
	if err := parseJSON(req, &body); err != nil {
		return result.BadRequest(err.Error(), err.Error())
	}

	created, err := api.Backend.CreateGrammar(req.Context(), body.Record)
	if err != nil {
		return serviceErr(err, "grammar")
	}

	return result.Created(grammarModel(created), "created grammar %s (%q)", created.ID, created.Record.Name)
}

// HTTPGetGrammar returns a HandlerFunc that gets one grammar.
func (api API) HTTPGetGrammar() http.HandlerFunc {
	return httpEndpoint(api.UnauthDelay, api.epGetGrammar)
}

func (api API) epGetGrammar(req *http.Request) result.Result {
	id := requireIDParam(req)

	g, err := api.Backend.GetGrammar(req.Context(), id)
	if err != nil {
		return serviceErr(err, "grammar")
	}

	return result.OK(grammarModel(g), "got grammar %s", id)
}

// HTTPUpdateGrammar returns a HandlerFunc that replaces one grammar.
func (api API) HTTPUpdateGrammar() http.HandlerFunc {
	return httpEndpoint(api.UnauthDelay, api.epUpdateGrammar)
}

func (api API) epUpdateGrammar(req *http.Request) result.Result {
	id := requireIDParam(req)

	var body GrammarModel
	if err := parseJSON(req, &body); err != nil {
		return result.BadRequest(err.Error(), err.Error())
	}

	updated, err := api.Backend.UpdateGrammar(req.Context(), id, body.Record)
	if err != nil {
		return serviceErr(err, "grammar")
	}

	return result.OK(grammarModel(updated), "updated grammar %s", id)
}

// HTTPDeleteGrammar returns a HandlerFunc that deletes one grammar.
func (api API) HTTPDeleteGrammar() http.HandlerFunc {
	return httpEndpoint(api.UnauthDelay, api.epDeleteGrammar)
}

func (api API) epDeleteGrammar(req *http.Request) result.Result {
	id := requireIDParam(req)

	if _, err := api.Backend.DeleteGrammar(req.Context(), id); err != nil {
		return serviceErr(err, "grammar")
	}

	return result.NoContent("deleted grammar %s", id)
}

// HTTPClassifyGrammar returns a HandlerFunc that gives the Chomsky type of a
// grammar.
func (api API) HTTPClassifyGrammar() http.HandlerFunc {
	return httpEndpoint(api.UnauthDelay, api.epClassifyGrammar)
}

func (api API) epClassifyGrammar(req *http.Request) result.Result {
	id := requireIDParam(req)

	typ, err := api.Backend.ClassifyGrammar(req.Context(), id)
	if err != nil {
		return serviceErr(err, "grammar")
	}

	return result.OK(ClassifyModel{Type: typ.String()}, "classified grammar %s as %s", id, typ)
}

// HTTPTransformGrammar returns a HandlerFunc that applies t to a grammar. The
// result is not stored.
func (api API) HTTPTransformGrammar(t flws.Transform) http.HandlerFunc {
	return httpEndpoint(api.UnauthDelay, func(req *http.Request) result.Result {
		return api.epTransformGrammar(req, t)
	})
}

func (api API) epTransformGrammar(req *http.Request, t flws.Transform) result.Result {
	id := requireIDParam(req)

	rec, err := api.Backend.TransformGrammar(req.Context(), id, t)
	if err != nil {
		return serviceErr(err, "grammar")
	}

	return result.OK(GrammarModel{Record: rec}, "applied %s to grammar %s", t, id)
}
