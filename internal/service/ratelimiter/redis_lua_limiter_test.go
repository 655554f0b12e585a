package ratelimiter

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedisLuaLimiter(t *testing.T) (*RedisLuaLimiter, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewRedisLuaLimiter(rdb, nil), mr
}

func TestAllow_NilLimiter_FailOpen(t *testing.T) {
	var limiter *RedisLuaLimiter
	allowed, retryAfter, err := limiter.Allow(context.Background(), "any", 1)
	require.NoError(t, err)
	assert.True(t, allowed)
	assert.Zero(t, retryAfter)
}

func TestNewRedisLuaLimiter_NilClient(t *testing.T) {
	assert.Nil(t, NewRedisLuaLimiter(nil, nil))
}

func TestAllow_NoBucketConfig_FailOpen(t *testing.T) {
	limiter, _ := newTestRedisLuaLimiter(t)
	allowed, retryAfter, err := limiter.Allow(context.Background(), "unknown-bucket", 1)
	require.NoError(t, err)
	assert.True(t, allowed)
	assert.Zero(t, retryAfter)
}

func TestAllow_ExhaustsAndRefills(t *testing.T) {
	limiter, _ := newTestRedisLuaLimiter(t)
	now := time.Unix(1_700_000_000, 0)
	limiter.now = func() time.Time { return now }
	limiter.SetBucketConfig("oracle", BucketConfig{Capacity: 3, RefillRate: 2})
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		allowed, retryAfter, err := limiter.Allow(ctx, "oracle", 1)
		require.NoError(t, err)
		assert.True(t, allowed, "call %d", i)
		assert.Zero(t, retryAfter)
	}

	allowed, retryAfter, err := limiter.Allow(ctx, "oracle", 1)
	require.NoError(t, err)
	assert.False(t, allowed)
	assert.Equal(t, 500*time.Millisecond, retryAfter)

	now = now.Add(time.Second)
	allowed, _, err = limiter.Allow(ctx, "oracle", 1)
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestAllow_RedisDownFailsOpen(t *testing.T) {
	limiter, mr := newTestRedisLuaLimiter(t)
	limiter.SetBucketConfig("oracle", NewBucketConfigFromPerMinute(60))
	mr.Close()

	allowed, _, err := limiter.Allow(context.Background(), "oracle", 1)
	assert.Error(t, err)
	assert.True(t, allowed)
}

func TestNewBucketConfigFromPerMinute(t *testing.T) {
	cfg := NewBucketConfigFromPerMinute(60)
	assert.Equal(t, int64(60), cfg.Capacity)
	assert.Equal(t, 1.0, cfg.RefillRate)
	assert.Equal(t, BucketConfig{}, NewBucketConfigFromPerMinute(0))
}

func TestSetBucketConfig_NilSafe(_ *testing.T) {
	var limiter *RedisLuaLimiter
	limiter.SetBucketConfig("key", BucketConfig{Capacity: 1, RefillRate: 1})
}

func TestConversions(t *testing.T) {
	assert.Equal(t, int64(5), toInt64(int64(5)))
	assert.Equal(t, int64(7), toInt64(7.9))
	assert.Equal(t, int64(0), toInt64("x"))
	assert.Equal(t, 1.5, toFloat64("1.5"))
	assert.Equal(t, 2.0, toFloat64(int64(2)))
	assert.Equal(t, 0.0, toFloat64("nan?"))
}
