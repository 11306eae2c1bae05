// Package api provides HTTP API endpoints for the FLWarrior server.
package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"mime"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/dekarrin/flwarrior/server/flws"
	"github.com/dekarrin/flwarrior/server/result"
	"github.com/dekarrin/flwarrior/server/serr"
	"github.com/go-chi/chi/v5"
)

const (
	// PathPrefix is the prefix of all paths in the API. Routers should mount
	// a sub-router that routes all requests to the API at this path.
	PathPrefix = "/api/v1"
)

// requireIDParam gets the ID of the main entity being referenced in the URI and
// returns it. It panics if the key is not there.
func requireIDParam(r *http.Request) string {
	id := chi.URLParam(r, "id")
	if id == "" {
		panic("no id parameter in route")
	}
	return id
}

// API holds parameters for endpoints needed to run and a service layer that
// will perform most of the actual logic. To use API, create one and then
// assign the result of its HTTP* methods as handlers to a router or some other
// kind of server mux.
//
// This is exclusively an API for serving external requests. For direct
// programmatic access into the backend of a FLWarrior server via Go code, see
// [flws.Service].
type API struct {
	// Backend is the service that the API calls to perform the requested
	// actions.
	Backend flws.Service

	// UnauthDelay is the amount of time that a request will pause before
	// responding with an HTTP-500 to deprioritize such requests from
	// processing and I/O.
	UnauthDelay time.Duration
}

// v must be a pointer to a type. Will return error such that
// errors.Is(err, serr.ErrBodyUnmarshal) returns true if it is problem decoding
// the JSON itself.
func parseJSON(req *http.Request, v interface{}) error {
	mediaType, _, err := mime.ParseMediaType(req.Header.Get("Content-Type"))
	if err != nil || strings.ToLower(mediaType) != "application/json" {
		return fmt.Errorf("request content-type is not application/json")
	}

	bodyData, err := io.ReadAll(req.Body)
	if err != nil {
		return fmt.Errorf("could not read request body: %w", err)
	}
	defer func() {
		req.Body.Close()
		req.Body = io.NopCloser(bytes.NewBuffer(bodyData))
	}()

	err = json.Unmarshal(bodyData, v)
	if err != nil {
		return serr.New("malformed JSON in request", err, serr.ErrBodyUnmarshal)
	}

	return nil
}

// serviceErr converts an error returned from the backend into a Result. what
// names the entity that was being operated on, for use in messages.
func serviceErr(err error, what string) result.Result {
	if errors.Is(err, serr.ErrNotFound) {
		return result.NotFound("%s: %s", what, err.Error())
	} else if errors.Is(err, serr.ErrAlreadyExists) {
		return result.Conflict("A "+what+" with that name already exists", "%s: %s", what, err.Error())
	} else if errors.Is(err, serr.ErrBadArgument) {
		return result.BadRequest(err.Error(), "%s: %s", what, err.Error())
	}
	return result.InternalServerError("%s: %s", what, err.Error())
}

type EndpointFunc func(req *http.Request) result.Result

func httpEndpoint(unauthDelay time.Duration, ep EndpointFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		defer panicTo500(w, req)
		r := ep(req)

		// if this hasn't been properly created, output error directly and do not
		// try to read properties
		if r.Status == 0 {
			logHttpResponse("ERROR", req, http.StatusInternalServerError, "endpoint result was never populated")
			http.Error(w, "An internal server error occurred", http.StatusInternalServerError)
			return
		}

		// pre-call PrepareMarshaledResponse bc if it fails in call to
		// WriteResponse, it will panic.
		if err := r.PrepareMarshaledResponse(); err != nil {
			newResp := result.Err(http.StatusInternalServerError, "An internal server error occurred", "could not marshal JSON response: "+err.Error())
			logHttpResponse("ERROR", req, newResp.Status, newResp.InternalMsg)
			newResp.WriteResponse(w)
			return
		}

		if r.IsErr {
			logHttpResponse("ERROR", req, r.Status, r.InternalMsg)
		} else {
			logHttpResponse("INFO", req, r.Status, r.InternalMsg)
		}

		if r.Status == http.StatusInternalServerError {
			time.Sleep(unauthDelay)
		}

		r.WriteResponse(w)
	}
}

func panicTo500(w http.ResponseWriter, req *http.Request) (panicVal interface{}) {
	if panicErr := recover(); panicErr != nil {
		r := result.TextErr(
			http.StatusInternalServerError,
			"An internal server error occurred",
			fmt.Sprintf("panic: %v\nSTACK TRACE: %s", panicErr, string(debug.Stack())),
		)
		logHttpResponse("ERROR", req, r.Status, r.InternalMsg)
		r.WriteResponse(w)
		return true
	}
	return false
}

func logHttpResponse(level string, req *http.Request, respStatus int, msg string) {
	if len(level) > 5 {
		level = level[0:5]
	}

	for len(level) < 5 {
		level += " "
	}

	// we don't really care about the ephemeral port from the client end
	remoteAddrParts := strings.SplitN(req.RemoteAddr, ":", 2)
	remoteIP := remoteAddrParts[0]

	log.Printf("%s %s %s %s: HTTP-%d %s", level, remoteIP, req.Method, req.URL.Path, respStatus, msg)
}
