package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dekarrin/flwarrior/server/api"
	"github.com/stretchr/testify/assert"
)

func newTestServer(t *testing.T) FLWServer {
	fs, err := New(Config{UnauthDelayMillis: -1})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { fs.Close() })
	return fs
}

// do sends a request to fs and decodes any JSON response into v if v is not
// nil.
func do(t *testing.T, fs FLWServer, method, path, body string, v interface{}) int {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, api.PathPrefix+path, nil)
	} else {
		req = httptest.NewRequest(method, api.PathPrefix+path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()

	fs.Handler().ServeHTTP(w, req)

	if v != nil && w.Body.Len() > 0 {
		if err := json.Unmarshal(w.Body.Bytes(), v); err != nil {
			t.Fatalf("decode response %q: %v", w.Body.String(), err)
		}
	}
	return w.Code
}

const machineJSON = `{
	"name": "ends-in-b",
	"entryAlphabet": ["a", "b"],
	"states": [
		{"id": "q0", "isEntry": true},
		{"id": "q1", "isExit": true}
	],
	"transitions": [
		{"from": "q0", "to": {"newState": "q0"}, "with": {"head": "a"}},
		{"from": "q0", "to": {"newState": "q0"}, "with": {"head": "b"}},
		{"from": "q0", "to": {"newState": "q1"}, "with": {"head": "b"}}
	]
}`

func Test_Server_Info(t *testing.T) {
	assert := assert.New(t)
	fs := newTestServer(t)

	var info api.InfoModel
	assert.Equal(http.StatusOK, do(t, fs, http.MethodGet, "/info", "", &info))
	assert.NotEmpty(info.Version.Server)
	assert.NotEmpty(info.Version.FLWarrior)
}

func Test_Server_Machines(t *testing.T) {
	assert := assert.New(t)
	fs := newTestServer(t)

	var created api.MachineModel
	if !assert.Equal(http.StatusCreated, do(t, fs, http.MethodPost, "/machines", machineJSON, &created)) {
		return
	}
	assert.False(created.Deterministic)
	assert.Equal(api.PathPrefix+"/machines/"+created.ID, created.URI)

	assert.Equal(http.StatusConflict, do(t, fs, http.MethodPost, "/machines", machineJSON, nil))

	var all []api.MachineModel
	assert.Equal(http.StatusOK, do(t, fs, http.MethodGet, "/machines", "", &all))
	assert.Len(all, 1)

	var run api.RunModel
	assert.Equal(http.StatusOK, do(t, fs, http.MethodPost, "/machines/"+created.ID+"/run", `{"word": "aab"}`, &run))
	assert.True(run.Accepted)
	assert.Equal([][]string{{"q0"}, {"q0"}, {"q0"}, {"q0", "q1"}}, run.Trace)

	var dfa api.MachineModel
	assert.Equal(http.StatusOK, do(t, fs, http.MethodPost, "/machines/"+created.ID+"/determinize", "", &dfa))
	assert.True(dfa.Deterministic)
	assert.Equal("", dfa.URI)

	union := `{"first": "` + created.ID + `", "second": "` + created.ID + `"}`
	var joined api.MachineModel
	assert.Equal(http.StatusOK, do(t, fs, http.MethodPost, "/machines/union", union, &joined))
	assert.Equal("ends-in-b-or-ends-in-b", joined.Name)

	assert.Equal(http.StatusNoContent, do(t, fs, http.MethodDelete, "/machines/"+created.ID, "", nil))
	assert.Equal(http.StatusNotFound, do(t, fs, http.MethodGet, "/machines/"+created.ID, "", nil))
}

func Test_Server_Grammars(t *testing.T) {
	assert := assert.New(t)
	fs := newTestServer(t)

	body := `{
		"name": "expr",
		"startSymbol": "E",
		"alphabetT": ["+", "id"],
		"alphabetNT": ["E", "T"],
		"transitions": [
			{"from": ["E"], "to": [["E", "+", "T"], ["T"]]},
			{"from": ["T"], "to": [["id"]]}
		]
	}`

	var created api.GrammarModel
	if !assert.Equal(http.StatusCreated, do(t, fs, http.MethodPost, "/grammars", body, &created)) {
		return
	}
	assert.Equal("CONTEXT_FREE", created.Type)

	var class api.ClassifyModel
	assert.Equal(http.StatusOK, do(t, fs, http.MethodPost, "/grammars/"+created.ID+"/classify", "", &class))
	assert.Equal("CONTEXT_FREE", class.Type)

	var noLeftRec api.GrammarModel
	assert.Equal(http.StatusOK, do(t, fs, http.MethodPost, "/grammars/"+created.ID+"/left-recursion", "", &noLeftRec))
	assert.Equal("expr-left-recursion", noLeftRec.Name)
	assert.Contains(noLeftRec.NonTerminals, "E_1")
}

func Test_Server_Expressions(t *testing.T) {
	assert := assert.New(t)
	fs := newTestServer(t)

	var created api.ExpressionModel
	if !assert.Equal(http.StatusCreated, do(t, fs, http.MethodPost, "/expressions", `{"refName": "ab-star", "body": "(ab)*"}`, &created)) {
		return
	}
	assert.Equal("reg", created.Type)

	var fa api.MachineModel
	assert.Equal(http.StatusOK, do(t, fs, http.MethodPost, "/expressions/"+created.ID+"/compile", "", &fa))
	assert.Equal("ab-star", fa.Name)
	assert.NotEmpty(fa.States)

	assert.Equal(http.StatusBadRequest, do(t, fs, http.MethodPost, "/expressions", `{"refName": "bad", "body": "(ab"}`, nil))
}

func Test_Server_Lex(t *testing.T) {
	assert := assert.New(t)
	fs := newTestServer(t)

	body := `{
		"rules": [{"name": "num", "pattern": "(0|1)(0|1)*"}],
		"source": "10 2 01"
	}`

	var res api.LexModel
	assert.Equal(http.StatusOK, do(t, fs, http.MethodPost, "/lex", body, &res))
	assert.Len(res.Tokens, 2)
	if assert.Len(res.Unmatched, 1) {
		assert.Equal("2", res.Unmatched[0].Lexeme)
	}
}

func Test_Server_Errors(t *testing.T) {
	testCases := []struct {
		name        string
		method      string
		path        string
		body        string
		contentType string
		expect      int
	}{
		{name: "unknown path", method: http.MethodGet, path: "/tunas", expect: http.StatusNotFound},
		{name: "bad method", method: http.MethodPatch, path: "/info", expect: http.StatusMethodNotAllowed},
		{name: "not json", method: http.MethodPost, path: "/lex", body: "hello", contentType: "text/plain", expect: http.StatusUnsupportedMediaType},
		{name: "malformed json", method: http.MethodPost, path: "/lex", body: "{", contentType: "application/json", expect: http.StatusBadRequest},
		{name: "missing machine", method: http.MethodGet, path: "/machines/3d2d3cf4-8e6b-4a0e-9a9f-1f9e7c3f1b2a", expect: http.StatusNotFound},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			fs := newTestServer(t)

			var req *http.Request
			if tc.body == "" {
				req = httptest.NewRequest(tc.method, api.PathPrefix+tc.path, nil)
			} else {
				req = httptest.NewRequest(tc.method, api.PathPrefix+tc.path, strings.NewReader(tc.body))
			}
			if tc.contentType != "" {
				req.Header.Set("Content-Type", tc.contentType)
			}
			w := httptest.NewRecorder()

			fs.Handler().ServeHTTP(w, req)

			assert.Equal(t, tc.expect, w.Code)
		})
	}
}
