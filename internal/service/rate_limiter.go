package service

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

var ErrRateLimited = errors.New("too many attempts, try again later")

// fixedWindowScript increments the counter and starts the window on the first
// hit. It returns the count and the remaining window in milliseconds.
// redis.Script switches to EVALSHA after the first call.
var fixedWindowScript = redis.NewScript(`
	local count = redis.call('INCR', KEYS[1])
	if count == 1 then
		redis.call('PEXPIRE', KEYS[1], ARGV[1])
	end
	local ttl = redis.call('PTTL', KEYS[1])
	return {count, ttl}
`)

// RateLimiter allows a bounded number of attempts per key within a window.
type RateLimiter interface {
	// Allow records an attempt. When the limit is exceeded it returns
	// ErrRateLimited and how long until the window resets.
	Allow(ctx context.Context, key string) (time.Duration, error)
}

type redisRateLimiter struct {
	redisClient *redis.Client
	prefix      string
	limit       int
	window      time.Duration
}

func NewRateLimiter(redisClient *redis.Client, prefix string, limit int, window time.Duration) RateLimiter {
	return &redisRateLimiter{
		redisClient: redisClient,
		prefix:      prefix,
		limit:       limit,
		window:      window,
	}
}

func (l *redisRateLimiter) Allow(ctx context.Context, key string) (time.Duration, error) {
	res, err := fixedWindowScript.Run(ctx, l.redisClient, []string{l.prefix + key}, l.window.Milliseconds()).Int64Slice()
	if err != nil {
		return 0, err
	}

	count, ttl := res[0], time.Duration(res[1])*time.Millisecond
	if count > int64(l.limit) {
		return ttl, ErrRateLimited
	}
	return 0, nil
}
