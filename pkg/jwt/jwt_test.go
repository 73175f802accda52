package jwt

import (
	"testing"
	"time"

	"clinic-management-api/config"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(access time.Duration) *JWTService {
	return NewJWTService(config.JWTConfig{
		Secret:        "test-secret",
		AccessExpiry:  access,
		RefreshExpiry: time.Hour,
	})
}

func TestGenerateAndValidateAccessToken(t *testing.T) {
	svc := newTestService(time.Minute)
	sub := Subject{UserID: uuid.New(), Username: "jdoe", Email: "jdoe@example.com", RoleID: 2}

	token, tokenID, err := svc.GenerateAccessToken(sub)
	require.NoError(t, err)
	require.NotEmpty(t, tokenID)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, sub.UserID, claims.UserID)
	assert.Equal(t, "jdoe", claims.Username)
	assert.Equal(t, 2, claims.RoleID)
	assert.Equal(t, AccessToken, claims.TokenType)
	assert.Equal(t, tokenID, claims.TokenID)
}

func TestRefreshTokenType(t *testing.T) {
	svc := newTestService(time.Minute)

	token, _, err := svc.GenerateRefreshToken(Subject{UserID: uuid.New()})
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, RefreshToken, claims.TokenType)
}

func TestValidateToken_WrongSecret(t *testing.T) {
	token, _, err := newTestService(time.Minute).GenerateAccessToken(Subject{UserID: uuid.New()})
	require.NoError(t, err)

	other := NewJWTService(config.JWTConfig{Secret: "other", AccessExpiry: time.Minute})
	_, err = other.ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateToken_Expired(t *testing.T) {
	token, _, err := newTestService(-time.Minute).GenerateAccessToken(Subject{UserID: uuid.New()})
	require.NoError(t, err)

	_, err = newTestService(time.Minute).ValidateToken(token)
	assert.Error(t, err)
}
