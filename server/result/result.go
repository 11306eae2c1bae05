// Package result holds the outcome of an API endpoint: the status, the body to
// send, and a message for the server log that the client never sees.
package result

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// ErrorResponse is the JSON body sent for every error Result.
type ErrorResponse struct {
	Error  string `json:"error"`
	Status int    `json:"status"`
}

// internalMessage formats the optional log message given to the constructors
// below. If internalMsg is empty, def is used; otherwise its first element
// must be a format string for the rest.
func internalMessage(def string, internalMsg []interface{}) string {
	if len(internalMsg) < 1 {
		return def
	}
	return fmt.Sprintf(internalMsg[0].(string), internalMsg[1:]...)
}

// OK returns an HTTP-200 Result with respObj as the body. internalMsg is an
// optional format string and args for the log.
func OK(respObj interface{}, internalMsg ...interface{}) Result {
	return Response(http.StatusOK, respObj, "%s", internalMessage("OK", internalMsg))
}

// Created returns an HTTP-201 Result with respObj as the body.
func Created(respObj interface{}, internalMsg ...interface{}) Result {
	return Response(http.StatusCreated, respObj, "%s", internalMessage("created", internalMsg))
}

// NoContent returns an HTTP-204 Result.
func NoContent(internalMsg ...interface{}) Result {
	return Response(http.StatusNoContent, nil, "%s", internalMessage("no content", internalMsg))
}

// BadRequest returns an HTTP-400 Result that shows userMsg to the client.
func BadRequest(userMsg string, internalMsg ...interface{}) Result {
	return Err(http.StatusBadRequest, userMsg, "%s", internalMessage("bad request", internalMsg))
}

// NotFound returns an HTTP-404 Result.
func NotFound(internalMsg ...interface{}) Result {
	return Err(http.StatusNotFound, "The requested resource was not found", "%s", internalMessage("not found", internalMsg))
}

// MethodNotAllowed returns an HTTP-405 Result naming the method and path of
// req.
func MethodNotAllowed(req *http.Request, internalMsg ...interface{}) Result {
	userMsg := fmt.Sprintf("Method %s is not allowed for %s", req.Method, req.URL.Path)
	return Err(http.StatusMethodNotAllowed, userMsg, "%s", internalMessage("method not allowed", internalMsg))
}

// Conflict returns an HTTP-409 Result that shows userMsg to the client.
func Conflict(userMsg string, internalMsg ...interface{}) Result {
	return Err(http.StatusConflict, userMsg, "%s", internalMessage("conflict", internalMsg))
}

// UnsupportedMediaType returns an HTTP-415 Result that shows userMsg to the
// client.
func UnsupportedMediaType(userMsg string, internalMsg ...interface{}) Result {
	return Err(http.StatusUnsupportedMediaType, userMsg, "%s", internalMessage("unsupported media type", internalMsg))
}

// InternalServerError returns an HTTP-500 Result. The client only ever sees a
// generic message; the details go in internalMsg.
func InternalServerError(internalMsg ...interface{}) Result {
	return Err(http.StatusInternalServerError, "An internal server error occurred", "%s", internalMessage("internal server error", internalMsg))
}

// Redirection returns an HTTP-308 Result that sends the client to uri.
func Redirection(uri string) Result {
	r := TextErr(http.StatusPermanentRedirect, "Redirecting to "+uri, "redirect -> %s", uri)
	r.IsErr = false
	return r.WithHeader("Location", uri)
}

// Response returns a non-error JSON Result. respObj is not read for
// http.StatusNoContent and may be nil; otherwise it must not be.
func Response(status int, respObj interface{}, internalMsg string, v ...interface{}) Result {
	return Result{
		IsJSON:      true,
		Status:      status,
		InternalMsg: fmt.Sprintf(internalMsg, v...),
		resp:        respObj,
	}
}

// Err returns an error Result with an ErrorResponse body.
func Err(status int, userMsg, internalMsg string, v ...interface{}) Result {
	return Result{
		IsJSON:      true,
		IsErr:       true,
		Status:      status,
		InternalMsg: fmt.Sprintf(internalMsg, v...),
		resp: ErrorResponse{
			Error:  userMsg,
			Status: status,
		},
	}
}

// TextErr is like Err but writes userMsg as plain text.
func TextErr(status int, userMsg, internalMsg string, v ...interface{}) Result {
	return Result{
		IsErr:       true,
		Status:      status,
		InternalMsg: fmt.Sprintf(internalMsg, v...),
		resp:        userMsg,
	}
}

type Result struct {
	Status      int
	IsErr       bool
	IsJSON      bool
	InternalMsg string

	resp interface{}
	hdrs [][2]string

	// set by calling PrepareMarshaledResponse.
	respJSONBytes []byte
}

// WithHeader returns a copy of r that also sets the header name to val. r
// itself is not changed.
func (r Result) WithHeader(name, val string) Result {
	hdrs := make([][2]string, len(r.hdrs), len(r.hdrs)+1)
	copy(hdrs, r.hdrs)

	r.hdrs = append(hdrs, [2]string{name, val})
	r.respJSONBytes = nil
	return r
}

// PrepareMarshaledResponse marshals the body of a JSON Result ahead of
// WriteResponse so that a marshaling error can still be turned into a
// different response. It does nothing for other Results, or if it already
// succeeded.
func (r *Result) PrepareMarshaledResponse() error {
	if r.respJSONBytes != nil {
		return nil
	}

	if r.IsJSON && r.Status != http.StatusNoContent {
		var err error
		r.respJSONBytes, err = json.Marshal(r.resp)
		if err != nil {
			return err
		}
	}

	return nil
}

// WriteResponse writes r to w. It panics if r was never populated or its body
// cannot be marshaled.
func (r Result) WriteResponse(w http.ResponseWriter) {
	if r.Status == 0 {
		panic("result not populated")
	}

	err := r.PrepareMarshaledResponse()
	if err != nil {
		panic(fmt.Sprintf("could not marshal response: %s", err.Error()))
	}

	var respBytes []byte

	if r.IsJSON {
		w.Header().Set("Content-Type", "application/json")
		respBytes = r.respJSONBytes
	} else {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		if r.Status != http.StatusNoContent {
			respBytes = []byte(fmt.Sprintf("%v", r.resp))
		}
	}
	w.Header().Set("X-Content-Type-Options", "nosniff")

	for i := range r.hdrs {
		w.Header().Set(r.hdrs[i][0], r.hdrs[i][1])
	}

	w.WriteHeader(r.Status)

	if r.Status != http.StatusNoContent {
		w.Write(respBytes)
	}
}
