package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"clinic-management-api/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

var noContent = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
})

func requestAs(roleID int) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	return req.WithContext(WithUser(req.Context(), uuid.New(), "jdoe", roleID))
}

func TestRequireRole(t *testing.T) {
	tests := []struct {
		name    string
		handler http.Handler
		roleID  int
		want    int
	}{
		{"admin on admin route", RequireAdmin(noContent), entity.RoleIDAdmin, http.StatusNoContent},
		{"therapist on admin route", RequireAdmin(noContent), entity.RoleIDTherapist, http.StatusForbidden},
		{"therapist on clinical route", RequireClinical(noContent), entity.RoleIDTherapist, http.StatusNoContent},
		{"receptionist on clinical route", RequireClinical(noContent), entity.RoleIDReceptionist, http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			tt.handler.ServeHTTP(rec, requestAs(tt.roleID))
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestRequireRole_NoIdentity(t *testing.T) {
	rec := httptest.NewRecorder()
	RequireAdmin(noContent).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequirePasswordChanged(t *testing.T) {
	req := requestAs(entity.RoleIDTherapist)

	rec := httptest.NewRecorder()
	RequirePasswordChanged(noContent).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = httptest.NewRecorder()
	RequirePasswordChanged(noContent).ServeHTTP(rec, req.WithContext(context.WithValue(req.Context(), MustChangePasswordKey, true)))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestLoggingMiddleware_RequestID(t *testing.T) {
	m := NewLoggingMiddleware(quietLogger())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	m.Handle(noContent).ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", rec.Header().Get(RequestIDHeader))

	rec = httptest.NewRecorder()
	m.Handle(noContent).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	_, err := uuid.Parse(rec.Header().Get(RequestIDHeader))
	assert.NoError(t, err)
}

func TestCORS_Preflight(t *testing.T) {
	rec := httptest.NewRecorder()
	NewCORSMiddleware().Handle(noContent).ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
