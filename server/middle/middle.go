// Package middle contains middleware for use with the FLWarrior server.
package middle

import (
	"mime"
	"net/http"
	"strings"

	"github.com/dekarrin/flwarrior/server/result"
)

// Middleware is a function that takes a handler and returns a new handler which
// wraps the given one and provides some additional functionality.
type Middleware func(next http.Handler) http.Handler

// DefaultMaxBodyBytes is the request body limit used when none is set.
const DefaultMaxBodyBytes = 1 << 20

// JSONBodyHandler is middleware that checks the body of a request before
// passing it on. POST, PUT, and PATCH requests with a non-empty body must say
// that it is JSON, or an HTTP-415 is returned. The body is cut off after
// maxBytes; reading past that gives an error.
type JSONBodyHandler struct {
	maxBytes int64
	next     http.Handler
}

func (jh *JSONBodyHandler) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	switch req.Method {
	case http.MethodPost, http.MethodPut, http.MethodPatch:
		if req.ContentLength == 0 {
			break
		}
		mediaType, _, err := mime.ParseMediaType(req.Header.Get("Content-Type"))
		if err != nil || !strings.EqualFold(mediaType, "application/json") {
			r := result.UnsupportedMediaType("request body must be application/json", "content-type %q", req.Header.Get("Content-Type"))
			r.WriteResponse(w)
			return
		}
		req.Body = http.MaxBytesReader(w, req.Body, jh.maxBytes)
	}

	jh.next.ServeHTTP(w, req)
}

// RequireJSON returns middleware that checks that request bodies are JSON of
// no more than maxBytes. If maxBytes is less than 1, DefaultMaxBodyBytes is
// used.
func RequireJSON(maxBytes int64) Middleware {
	if maxBytes < 1 {
		maxBytes = DefaultMaxBodyBytes
	}
	return func(next http.Handler) http.Handler {
		return &JSONBodyHandler{
			maxBytes: maxBytes,
			next:     next,
		}
	}
}
