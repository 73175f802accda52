package middleware

import (
	"context"
	"net/http"
	"strings"

	"clinic-management-api/internal/domain/repository"
	"clinic-management-api/internal/service"
	"clinic-management-api/pkg/jwt"
	"clinic-management-api/pkg/response"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type contextKey string

const (
	UserIDKey             contextKey = "user_id"
	UsernameKey           contextKey = "username"
	UserEmailKey          contextKey = "user_email"
	RoleIDKey             contextKey = "role_id"
	TokenIDKey            contextKey = "token_id"
	MustChangePasswordKey contextKey = "must_change_password"
)

type AuthMiddleware struct {
	db         *gorm.DB
	log        *logrus.Logger
	jwtService *jwt.JWTService
	tokenStore service.TokenStore
	userRepo   repository.UserRepository
}

func NewAuthMiddleware(
	db *gorm.DB,
	log *logrus.Logger,
	jwtService *jwt.JWTService,
	tokenStore service.TokenStore,
	userRepo repository.UserRepository,
) *AuthMiddleware {
	return &AuthMiddleware{
		db:         db,
		log:        log,
		jwtService: jwtService,
		tokenStore: tokenStore,
		userRepo:   userRepo,
	}
}

func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			response.Unauthorized(w, "Authorization header is required")
			return
		}

		// Extract token from "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Unauthorized(w, "Invalid authorization header format")
			return
		}

		claims, err := m.jwtService.ValidateToken(parts[1])
		if err != nil {
			response.Unauthorized(w, "Invalid or expired token")
			return
		}

		if claims.TokenType != jwt.AccessToken {
			response.Unauthorized(w, "Invalid token type")
			return
		}

		// Check if token exists in Redis (not revoked)
		exists, err := m.tokenStore.Exists(r.Context(), jwt.AccessToken, claims.UserID, claims.TokenID)
		if err != nil {
			m.log.Warnf("Failed to check access token: %+v", err)
			response.InternalServerError(w, "Failed to validate token")
			return
		}
		if !exists {
			response.Unauthorized(w, "Token has been revoked")
			return
		}

		// Role and active flag are read from the database so that changes made
		// by an administrator apply before the token expires.
		user, err := m.userRepo.FindByID(r.Context(), m.db, claims.UserID)
		if err != nil {
			m.log.Warnf("Failed to load user for token: %+v", err)
			response.InternalServerError(w, "Failed to validate token")
			return
		}
		if user == nil {
			response.Unauthorized(w, "User no longer exists")
			return
		}
		if !user.Active() {
			response.Forbidden(w, "User account is inactive")
			return
		}

		ctx := context.WithValue(r.Context(), UserIDKey, user.ID)
		ctx = context.WithValue(ctx, UsernameKey, user.Username)
		ctx = context.WithValue(ctx, UserEmailKey, user.Email)
		ctx = context.WithValue(ctx, RoleIDKey, user.RoleID)
		ctx = context.WithValue(ctx, TokenIDKey, claims.TokenID)
		ctx = context.WithValue(ctx, MustChangePasswordKey, user.MustChangePassword)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// WithUser returns ctx carrying the identity Authenticate would set. It is
// used by background commands and tests.
func WithUser(ctx context.Context, userID uuid.UUID, username string, roleID int) context.Context {
	ctx = context.WithValue(ctx, UserIDKey, userID)
	ctx = context.WithValue(ctx, UsernameKey, username)
	return context.WithValue(ctx, RoleIDKey, roleID)
}

// GetUserIDFromContext extracts user ID from context
func GetUserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	userID, ok := ctx.Value(UserIDKey).(uuid.UUID)
	return userID, ok
}

// GetUsernameFromContext extracts the username, used for created_by/updated_by.
func GetUsernameFromContext(ctx context.Context) (string, bool) {
	username, ok := ctx.Value(UsernameKey).(string)
	return username, ok
}

// GetUserEmailFromContext extracts user email from context
func GetUserEmailFromContext(ctx context.Context) (string, bool) {
	email, ok := ctx.Value(UserEmailKey).(string)
	return email, ok
}

// GetTokenIDFromContext extracts token ID from context
func GetTokenIDFromContext(ctx context.Context) (string, bool) {
	tokenID, ok := ctx.Value(TokenIDKey).(string)
	return tokenID, ok
}

// GetRoleIDFromContext extracts role ID from context
func GetRoleIDFromContext(ctx context.Context) (int, bool) {
	roleID, ok := ctx.Value(RoleIDKey).(int)
	return roleID, ok
}

// Actor returns the authenticated user's id (nil when absent) and username.
func Actor(ctx context.Context) (*uuid.UUID, string) {
	username, _ := GetUsernameFromContext(ctx)
	if id, ok := GetUserIDFromContext(ctx); ok {
		return &id, username
	}
	return nil, username
}
