package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/dekarrin/flwarrior/server/api"
	"github.com/dekarrin/flwarrior/server/flws"
	"github.com/dekarrin/flwarrior/server/middle"
	"github.com/dekarrin/flwarrior/server/result"
	"github.com/go-chi/chi/v5"
)

var (
	paramTypePats = map[string]string{
		"uuid": "[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}",
	}
)

// p is a quick parameter in a URI, made very small to ease readability in route
// listings.
func p(nameType string) string {
	var name string
	var pat string

	parts := strings.SplitN(nameType, ":", 2)
	name = parts[0]
	if len(parts) == 2 {
		// we have a type, if it's a name in the paramTypePats map use that else
		// treat it as a normal pattern
		pat = parts[1]

		if translatedPat, ok := paramTypePats[parts[1]]; ok {
			pat = translatedPat
		}
	}

	if pat == "" {
		return "{" + name + "}"
	}
	return "{" + name + ":" + pat + "}"
}

func newRouter(a api.API, maxBodyBytes int64) chi.Router {
	r := chi.NewRouter()

	r.Mount(api.PathPrefix, newAPIRouter(a, maxBodyBytes))

	return r
}

func newAPIRouter(a api.API, maxBodyBytes int64) chi.Router {
	r := chi.NewRouter()

	r.Use(middle.RequireJSON(maxBodyBytes))

	r.Mount("/machines", newMachinesRouter(a))
	r.Mount("/grammars", newGrammarsRouter(a))
	r.Mount("/expressions", newExpressionsRouter(a))
	r.Mount("/lex", newLexRouter(a))
	r.Mount("/info", newInfoRouter(a))
	r.HandleFunc("/info/", RedirectNoTrailingSlash)

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		result.NotFound().WriteResponse(w)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		time.Sleep(a.UnauthDelay)
		result.MethodNotAllowed(req).WriteResponse(w)
	})

	return r
}

func newMachinesRouter(a api.API) chi.Router {
	r := chi.NewRouter()

	r.Get("/", a.HTTPGetAllMachines())
	r.Post("/", a.HTTPCreateMachine())
	r.Post("/union", a.HTTPUnionMachines())

	r.Route("/"+p("id:uuid"), func(r chi.Router) {
		r.Get("/", a.HTTPGetMachine())
		r.Put("/", a.HTTPUpdateMachine())
		r.Delete("/", a.HTTPDeleteMachine())
		r.Post("/determinize", a.HTTPDeterminizeMachine())
		r.Post("/run", a.HTTPRunMachine())
	})

	return r
}

func newGrammarsRouter(a api.API) chi.Router {
	r := chi.NewRouter()

	r.Get("/", a.HTTPGetAllGrammars())
	r.Post("/", a.HTTPCreateGrammar())

	r.Route("/"+p("id:uuid"), func(r chi.Router) {
		r.Get("/", a.HTTPGetGrammar())
		r.Put("/", a.HTTPUpdateGrammar())
		r.Delete("/", a.HTTPDeleteGrammar())
		r.Post("/classify", a.HTTPClassifyGrammar())
		r.Post("/"+string(flws.TransformNonDeterminism), a.HTTPTransformGrammar(flws.TransformNonDeterminism))
		r.Post("/"+string(flws.TransformLeftFactor), a.HTTPTransformGrammar(flws.TransformLeftFactor))
		r.Post("/"+string(flws.TransformLeftRecursion), a.HTTPTransformGrammar(flws.TransformLeftRecursion))
	})

	return r
}

func newExpressionsRouter(a api.API) chi.Router {
	r := chi.NewRouter()

	r.Get("/", a.HTTPGetAllExpressions())
	r.Post("/", a.HTTPCreateExpression())

	r.Route("/"+p("id:uuid"), func(r chi.Router) {
		r.Get("/", a.HTTPGetExpression())
		r.Put("/", a.HTTPUpdateExpression())
		r.Delete("/", a.HTTPDeleteExpression())
		r.Post("/compile", a.HTTPCompileExpression())
	})

	return r
}

func newLexRouter(a api.API) chi.Router {
	r := chi.NewRouter()

	r.Post("/", a.HTTPLex())

	return r
}

func newInfoRouter(a api.API) chi.Router {
	r := chi.NewRouter()

	r.Get("/", a.HTTPGetInfo())

	return r
}

// RedirectNoTrailingSlash is an http.HandlerFunc that redirects to the same URL as the
// request but with no trailing slash.
func RedirectNoTrailingSlash(w http.ResponseWriter, req *http.Request) {
	redirPath := strings.TrimRight(req.URL.Path, "/")
	result.Redirection(redirPath).WriteResponse(w)
}
