package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLimiter(t *testing.T, limit int) (*FixedWindowLimiter, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	limiter, err := NewFixedWindowLimiter(client, "test:ratelimit", limit, time.Minute)
	require.NoError(t, err)
	return limiter, mr
}

func allow(t *testing.T, limiter *FixedWindowLimiter, key string) bool {
	t.Helper()
	ok, err := limiter.Allow(context.Background(), key)
	require.NoError(t, err)
	return ok
}

func TestFixedWindowLimiter(t *testing.T) {
	limiter, _ := newLimiter(t, 2)

	assert.True(t, allow(t, limiter, "user-1"), "first attempt should pass")
	assert.True(t, allow(t, limiter, "user-1"), "second attempt should pass")
	assert.False(t, allow(t, limiter, "user-1"), "third attempt should be blocked")
	assert.True(t, allow(t, limiter, "user-2"), "other keys have their own quota")
}

func TestFixedWindowLimiterNextWindow(t *testing.T) {
	limiter, _ := newLimiter(t, 1)
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return base }

	require.True(t, allow(t, limiter, "k"))
	require.False(t, allow(t, limiter, "k"))

	limiter.now = func() time.Time { return base.Add(time.Minute) }
	assert.True(t, allow(t, limiter, "k"))
}

func TestFixedWindowLimiterRedisDown(t *testing.T) {
	limiter, mr := newLimiter(t, 1)
	mr.Close()
	ok, err := limiter.Allow(context.Background(), "user-1")
	assert.Error(t, err)
	assert.False(t, ok)
}

func TestFixedWindowLimiterNil(t *testing.T) {
	var limiter *FixedWindowLimiter
	ok, err := limiter.Allow(context.Background(), "user-1")
	assert.NoError(t, err)
	assert.True(t, ok)
}

func TestFixedWindowLimiterRequiresClient(t *testing.T) {
	limiter, err := NewFixedWindowLimiter(nil, "x", 1, time.Second)
	assert.Error(t, err)
	assert.Nil(t, limiter)
}
