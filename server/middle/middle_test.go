package middle

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_RequireJSON(t *testing.T) {
	testCases := []struct {
		name        string
		method      string
		body        string
		contentType string
		expect      int
	}{
		{name: "get needs nothing", method: http.MethodGet, expect: http.StatusOK},
		{name: "post json", method: http.MethodPost, body: "{}", contentType: "application/json", expect: http.StatusOK},
		{name: "post json with charset", method: http.MethodPost, body: "{}", contentType: "application/json; charset=utf-8", expect: http.StatusOK},
		{name: "post text", method: http.MethodPost, body: "{}", contentType: "text/plain", expect: http.StatusUnsupportedMediaType},
		{name: "put without type", method: http.MethodPut, body: "{}", expect: http.StatusUnsupportedMediaType},
		{name: "post with no body", method: http.MethodPost, expect: http.StatusOK},
	}

	ok := http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, "/", strings.NewReader(tc.body))
			if tc.contentType != "" {
				req.Header.Set("Content-Type", tc.contentType)
			}
			w := httptest.NewRecorder()

			RequireJSON(0)(ok).ServeHTTP(w, req)

			assert.Equal(t, tc.expect, w.Code)
		})
	}
}
