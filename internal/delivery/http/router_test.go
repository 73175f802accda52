package http

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"clinic-management-api/internal/delivery/http/middleware"
	"clinic-management-api/internal/infrastructure/metrics"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func newTestRouter(checks map[string]HealthCheck) *mux.Router {
	log := logrus.New()
	log.SetOutput(io.Discard)

	return NewRouter(
		Handlers{},
		middleware.NewAuthMiddleware(nil, log, nil, nil, nil),
		middleware.NewCORSMiddleware(),
		middleware.NewLoggingMiddleware(log),
		metrics.New(),
		checks,
	).Setup()
}

func TestHealthCheck(t *testing.T) {
	healthy := func(ctx context.Context) error { return nil }

	r := newTestRouter(map[string]HealthCheck{"database": healthy, "redis": healthy})
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	r = newTestRouter(map[string]HealthCheck{
		"database": healthy,
		"redis":    func(ctx context.Context) error { return errors.New("connection refused") },
	})
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "connection refused")
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	r := newTestRouter(nil)

	for _, target := range []string{"/api/v1/patients", "/api/v1/admin/users", "/api/v1/auth/me", "/api/v1/reports/dashboard"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code, target)
	}
}

func TestPreflight(t *testing.T) {
	r := newTestRouter(nil)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/api/v1/patients", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestMetricsEndpoint(t *testing.T) {
	r := newTestRouter(nil)

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/patients", nil))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "/api/v1/patients"))
}
