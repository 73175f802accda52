package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"clinic-management-api/internal/delivery/dto"
	"clinic-management-api/internal/delivery/http/middleware"
	"clinic-management-api/internal/domain/entity"
	"clinic-management-api/internal/usecase"
	"clinic-management-api/pkg/validator"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAuthUsecase struct {
	usecase.AuthUsecase
	loginFunc  func(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error)
	logoutFunc func(ctx context.Context, userID uuid.UUID, accessTokenID, refreshToken string) error
	resetFunc  func(ctx context.Context, req *dto.ResetPasswordRequest) error
}

func (f *fakeAuthUsecase) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	return f.loginFunc(ctx, req)
}

func (f *fakeAuthUsecase) Logout(ctx context.Context, userID uuid.UUID, accessTokenID, refreshToken string) error {
	return f.logoutFunc(ctx, userID, accessTokenID, refreshToken)
}

func (f *fakeAuthUsecase) ResetPassword(ctx context.Context, req *dto.ResetPasswordRequest) error {
	return f.resetFunc(ctx, req)
}

func TestLogin(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"ok", nil, http.StatusOK},
		{"bad credentials", usecase.ErrInvalidCredentials, http.StatusUnauthorized},
		{"inactive", usecase.ErrUserInactive, http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewAuthHandler(&fakeAuthUsecase{
				loginFunc: func(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
					assert.Equal(t, "jdoe@example.com", req.Login)
					if tt.err != nil {
						return nil, tt.err
					}
					return &dto.TokenResponse{AccessToken: "a", RefreshToken: "r"}, nil
				},
			}, validator.NewValidator())

			body := jsonBody(t, dto.LoginRequest{Login: "jdoe@example.com", Password: "secret123"})
			rec := serve(t, http.MethodPost, "/auth/login", "/auth/login", body, h.Login)
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestLogin_MissingPassword(t *testing.T) {
	h := NewAuthHandler(&fakeAuthUsecase{}, validator.NewValidator())

	rec := serve(t, http.MethodPost, "/auth/login", "/auth/login", jsonBody(t, dto.LoginRequest{Login: "jdoe"}), h.Login)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Validation failed", decode(t, rec).Message)
}

func TestLogout_UsesTokenFromContext(t *testing.T) {
	userID := uuid.New()
	var gotToken, gotRefresh string
	h := NewAuthHandler(&fakeAuthUsecase{
		logoutFunc: func(ctx context.Context, id uuid.UUID, accessTokenID, refreshToken string) error {
			assert.Equal(t, userID, id)
			gotToken, gotRefresh = accessTokenID, refreshToken
			return nil
		},
	}, validator.NewValidator())

	req := httptest.NewRequest(http.MethodPost, "/auth/logout", strings.NewReader(`{"refresh_token":"rt"}`))
	ctx := middleware.WithUser(req.Context(), userID, "jdoe", entity.RoleIDTherapist)
	ctx = context.WithValue(ctx, middleware.TokenIDKey, "jti-1")
	rec := httptest.NewRecorder()
	h.Logout(rec, req.WithContext(ctx))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "jti-1", gotToken)
	assert.Equal(t, "rt", gotRefresh)
}

func TestLogout_NoIdentity(t *testing.T) {
	h := NewAuthHandler(&fakeAuthUsecase{}, validator.NewValidator())

	rec := httptest.NewRecorder()
	h.Logout(rec, httptest.NewRequest(http.MethodPost, "/auth/logout", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestResetPassword(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"accepted", nil, http.StatusOK},
		{"rate limited", usecase.ErrRateLimited, http.StatusTooManyRequests},
		{"mail down", usecase.ErrPasswordResetUnavail, http.StatusServiceUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewAuthHandler(&fakeAuthUsecase{
				resetFunc: func(ctx context.Context, req *dto.ResetPasswordRequest) error {
					return tt.err
				},
			}, validator.NewValidator())

			body := jsonBody(t, dto.ResetPasswordRequest{Email: "jdoe@example.com"})
			rec := serve(t, http.MethodPost, "/auth/reset-password", "/auth/reset-password", body, h.ResetPassword)
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}
