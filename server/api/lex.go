package api

import (
	"net/http"

	"github.com/dekarrin/flwarrior/lex"
	"github.com/dekarrin/flwarrior/server/result"
)

// HTTPLex returns a HandlerFunc that runs a lexical analysis with the rules
// given in the request. Nothing is stored.
func (api API) HTTPLex() http.HandlerFunc {
	return httpEndpoint(api.UnauthDelay, api.epLex)
}

// POST /lex
func (api API) epLex(req *http.Request) result.Result {
	var body LexRequest
	if err := parseJSON(req, &body); err != nil {
		return result.BadRequest(err.Error(), err.Error())
	}

	res, err := api.Backend.Lex(body.Rules, body.Source)
	if err != nil {
		return serviceErr(err, "lexer")
	}

	resp := LexModel{
		Tokens:    res.Tokens,
		Unmatched: res.Unmatched,
	}
	if resp.Tokens == nil {
		resp.Tokens = []lex.Token{}
	}
	if resp.Unmatched == nil {
		resp.Unmatched = []lex.Token{}
	}

	return result.OK(resp, "lexed %d token(s), %d unmatched", len(res.Tokens), len(res.Unmatched))
}
