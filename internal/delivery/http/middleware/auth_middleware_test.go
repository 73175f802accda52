package middleware

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"clinic-management-api/config"
	"clinic-management-api/internal/domain/entity"
	"clinic-management-api/internal/domain/repository/mocks"
	"clinic-management-api/internal/service"
	"clinic-management-api/pkg/jwt"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type authFixture struct {
	jwt        *jwt.JWTService
	tokenStore service.TokenStore
	users      map[uuid.UUID]*entity.User
	middleware *AuthMiddleware
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	log := quietLogger()

	f := &authFixture{
		jwt:        jwt.NewJWTService(config.JWTConfig{Secret: "test", AccessExpiry: time.Minute, RefreshExpiry: time.Hour}),
		tokenStore: service.NewTokenStore(client),
		users:      map[uuid.UUID]*entity.User{},
	}
	userRepo := &mocks.UserRepository{
		FindByIDFunc: func(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.User, error) {
			return f.users[id], nil
		},
	}
	f.middleware = NewAuthMiddleware(nil, log, f.jwt, f.tokenStore, userRepo)
	return f
}

// issue stores a user and returns a live access token for it.
func (f *authFixture) issue(t *testing.T, user *entity.User) string {
	t.Helper()
	f.users[user.ID] = user
	token, tokenID, err := f.jwt.GenerateAccessToken(jwt.Subject{UserID: user.ID, Username: user.Username, RoleID: user.RoleID})
	require.NoError(t, err)
	require.NoError(t, f.tokenStore.Save(context.Background(), jwt.AccessToken, user.ID, tokenID, time.Minute))
	return token
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func testUser(roleID int, active bool) *entity.User {
	return &entity.User{ID: uuid.New(), Username: "jdoe", Email: "jdoe@example.com", RoleID: roleID, IsActive: &active}
}

func (f *authFixture) do(token string, next http.Handler) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/patients", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	f.middleware.Authenticate(next).ServeHTTP(rec, req)
	return rec
}

func TestAuthenticate_SetsIdentity(t *testing.T) {
	f := newAuthFixture(t)
	user := testUser(entity.RoleIDTherapist, true)
	token := f.issue(t, user)

	var gotID uuid.UUID
	var gotRole int
	rec := f.do(token, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID, _ = GetUserIDFromContext(r.Context())
		gotRole, _ = GetRoleIDFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, user.ID, gotID)
	assert.Equal(t, entity.RoleIDTherapist, gotRole)
}

func TestAuthenticate_RoleReadFromDatabase(t *testing.T) {
	f := newAuthFixture(t)
	user := testUser(entity.RoleIDTherapist, true)
	token := f.issue(t, user)
	user.RoleID = entity.RoleIDAdmin

	var gotRole int
	f.do(token, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotRole, _ = GetRoleIDFromContext(r.Context())
	}))

	assert.Equal(t, entity.RoleIDAdmin, gotRole)
}

func TestAuthenticate_Rejects(t *testing.T) {
	f := newAuthFixture(t)
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("next handler must not run")
	})

	t.Run("missing header", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, f.do("", next).Code)
	})

	t.Run("garbage token", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, f.do("not-a-jwt", next).Code)
	})

	t.Run("revoked", func(t *testing.T) {
		user := testUser(entity.RoleIDAdmin, true)
		token := f.issue(t, user)
		require.NoError(t, f.tokenStore.RevokeAll(context.Background(), user.ID))
		assert.Equal(t, http.StatusUnauthorized, f.do(token, next).Code)
	})

	t.Run("refresh token", func(t *testing.T) {
		user := testUser(entity.RoleIDAdmin, true)
		f.users[user.ID] = user
		token, _, err := f.jwt.GenerateRefreshToken(jwt.Subject{UserID: user.ID})
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, f.do(token, next).Code)
	})

	t.Run("deactivated user", func(t *testing.T) {
		token := f.issue(t, testUser(entity.RoleIDAdmin, false))
		assert.Equal(t, http.StatusForbidden, f.do(token, next).Code)
	})

	t.Run("deleted user", func(t *testing.T) {
		user := testUser(entity.RoleIDAdmin, true)
		token := f.issue(t, user)
		delete(f.users, user.ID)
		assert.Equal(t, http.StatusUnauthorized, f.do(token, next).Code)
	})
}
