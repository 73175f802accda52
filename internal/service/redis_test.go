package service

import (
	"context"
	"testing"
	"time"

	"clinic-management-api/pkg/jwt"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, client
}

func TestTokenStore_Lifecycle(t *testing.T) {
	mr, client := newTestRedis(t)
	store := NewTokenStore(client)
	ctx := context.Background()
	uid := uuid.New()

	require.NoError(t, store.Save(ctx, jwt.AccessToken, uid, "a1", time.Minute))
	require.NoError(t, store.Save(ctx, jwt.RefreshToken, uid, "r1", time.Hour))
	assert.True(t, mr.Exists("access_token:"+uid.String()+":a1"))

	ok, err := store.Exists(ctx, jwt.AccessToken, uid, "a1")
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, store.Revoke(ctx, jwt.AccessToken, uid, "a1"))
	ok, err = store.Exists(ctx, jwt.AccessToken, uid, "a1")
	require.NoError(t, err)
	assert.False(t, ok)

	mr.FastForward(2 * time.Hour)
	ok, err = store.Exists(ctx, jwt.RefreshToken, uid, "r1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestTokenStore_RevokeAll(t *testing.T) {
	mr, client := newTestRedis(t)
	store := NewTokenStore(client)
	ctx := context.Background()
	uid, other := uuid.New(), uuid.New()

	for _, id := range []string{"a1", "a2"} {
		require.NoError(t, store.Save(ctx, jwt.AccessToken, uid, id, time.Minute))
	}
	require.NoError(t, store.Save(ctx, jwt.RefreshToken, uid, "r1", time.Minute))
	require.NoError(t, store.Save(ctx, jwt.AccessToken, other, "b1", time.Minute))

	require.NoError(t, store.RevokeAll(ctx, uid))

	assert.Len(t, mr.Keys(), 1)
	assert.True(t, mr.Exists(TokenKey(jwt.AccessToken, other, "b1")))
}

func TestRateLimiter(t *testing.T) {
	mr, client := newTestRedis(t)
	limiter := NewRateLimiter(client, "rl:reset:", 3, 15*time.Minute)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := limiter.Allow(ctx, "ana@clinic.test")
		require.NoError(t, err)
	}

	retry, err := limiter.Allow(ctx, "ana@clinic.test")
	assert.ErrorIs(t, err, ErrRateLimited)
	assert.Greater(t, retry, time.Duration(0))
	assert.LessOrEqual(t, retry, 15*time.Minute)

	// other keys are counted separately
	_, err = limiter.Allow(ctx, "luis@clinic.test")
	assert.NoError(t, err)

	mr.FastForward(16 * time.Minute)
	_, err = limiter.Allow(ctx, "ana@clinic.test")
	assert.NoError(t, err)
}
