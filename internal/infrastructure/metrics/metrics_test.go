package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_IndependentRegistries(t *testing.T) {
	a := New()
	b := New()

	a.RecordAllocation("sequential")
	assert.Equal(t, 1.0, testutil.ToFloat64(a.ExpedienteAllocations.WithLabelValues("sequential")))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.ExpedienteAllocations.WithLabelValues("sequential")))
}

func TestMiddleware_UsesRouteTemplate(t *testing.T) {
	m := New()
	r := mux.NewRouter()
	r.Use(m.Middleware)
	r.HandleFunc("/patients/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/patients/42", nil))
	require.Equal(t, http.StatusNotFound, rec.Code)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "/patients/{id}", "404")))
}

func TestHandler_ExposesCounters(t *testing.T) {
	m := New()
	m.RecordDeletionCheck("patient", "blocked")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), `deletion_checks_total{kind="patient",outcome="blocked"} 1`))
}
