package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"clinic-management-api/pkg/response"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"
)

// serve routes a single request through a mux router so path variables are
// populated the same way as in production.
func serve(t *testing.T, method, pattern, target string, body io.Reader, h http.HandlerFunc) *httptest.ResponseRecorder {
	t.Helper()
	r := mux.NewRouter()
	r.HandleFunc(pattern, h).Methods(method)

	req := httptest.NewRequest(method, target, body)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func jsonBody(t *testing.T, v interface{}) io.Reader {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewReader(b)
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) response.Response {
	t.Helper()
	var resp response.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}
