// Package ratelimiter provides a Redis-backed token bucket shared by every
// process that talks to the same upstream.
package ratelimiter

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Limiter admits or rejects a unit of work against a named bucket.
type Limiter interface {
	Allow(ctx context.Context, key string, cost int64) (allowed bool, retryAfter time.Duration, err error)
}

type BucketConfig struct {
	Capacity   int64
	RefillRate float64
}

// NewBucketConfigFromPerMinute allows bursts of perMinute and refills evenly.
func NewBucketConfigFromPerMinute(perMinute int) BucketConfig {
	if perMinute <= 0 {
		return BucketConfig{}
	}
	return BucketConfig{
		Capacity:   int64(perMinute),
		RefillRate: float64(perMinute) / 60.0,
	}
}

type RedisLuaLimiter struct {
	redis   redis.Scripter
	buckets map[string]BucketConfig
	script  *redis.Script
	now     func() time.Time
	mu      sync.RWMutex
}

func NewRedisLuaLimiter(rdb redis.Scripter, buckets map[string]BucketConfig) *RedisLuaLimiter {
	if rdb == nil {
		return nil
	}
	if buckets == nil {
		buckets = map[string]BucketConfig{}
	}
	return &RedisLuaLimiter{
		redis:   rdb,
		buckets: buckets,
		script:  redis.NewScript(luaTokenBucketScript),
		now:     time.Now,
	}
}

// Redis truncates Lua numbers to integers, so fractional values are returned
// as strings.
const luaTokenBucketScript = `
local key = KEYS[1]
local capacity = tonumber(ARGV[1])
local refill_rate = tonumber(ARGV[2])
local now = tonumber(ARGV[3])
local cost = tonumber(ARGV[4])

local tokens = capacity
local last_refill = now

local data = redis.call("HMGET", key, "tokens", "last_refill")
if data[1] then
  tokens = tonumber(data[1])
end
if data[2] then
  last_refill = tonumber(data[2])
end

local delta = math.max(0, now - last_refill)
tokens = math.min(capacity, tokens + delta * refill_rate)

local allowed = 0
local retry_after = 0
if tokens >= cost then
  tokens = tokens - cost
  allowed = 1
elseif refill_rate > 0 then
  retry_after = (cost - tokens) / refill_rate
end

redis.call("HSET", key, "tokens", tostring(tokens), "last_refill", tostring(now))
redis.call("EXPIRE", key, math.ceil(capacity / refill_rate) + 60)

return { allowed, tostring(tokens), tostring(retry_after) }
`

// Allow takes cost tokens from the bucket named key. Unknown buckets and
// Redis failures admit the call; the error is still returned for logging.
func (l *RedisLuaLimiter) Allow(ctx context.Context, key string, cost int64) (bool, time.Duration, error) {
	if l == nil || l.redis == nil {
		return true, 0, nil
	}
	l.mu.RLock()
	cfg, ok := l.buckets[key]
	l.mu.RUnlock()
	if !ok || cfg.Capacity <= 0 || cfg.RefillRate <= 0 {
		return true, 0, nil
	}
	if cost <= 0 {
		cost = 1
	}

	nowSec := float64(l.now().UnixNano()) / 1e9
	res, err := l.script.Run(ctx, l.redis, []string{"rate:" + key}, cfg.Capacity, cfg.RefillRate, nowSec, cost).Slice()
	if err != nil {
		slog.Error("redis rate limiter script error", slog.String("key", key), slog.Any("error", err))
		return true, 0, fmt.Errorf("op=ratelimiter.allow: %w", err)
	}
	if len(res) < 3 {
		slog.Error("redis rate limiter unexpected script result", slog.String("key", key), slog.Any("result", res))
		return true, 0, nil
	}

	allowed := toInt64(res[0]) == 1
	retryAfter := time.Duration(toFloat64(res[2]) * float64(time.Second))
	return allowed, retryAfter, nil
}

// SetBucketConfig updates or creates the bucket configuration for key.
func (l *RedisLuaLimiter) SetBucketConfig(key string, cfg BucketConfig) {
	if l == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.buckets == nil {
		l.buckets = map[string]BucketConfig{}
	}
	l.buckets[key] = cfg
}

func toInt64(v interface{}) int64 {
	switch t := v.(type) {
	case int64:
		return t
	case int:
		return int64(t)
	case float64:
		return int64(t)
	default:
		return 0
	}
}

func toFloat64(v interface{}) float64 {
	switch t := v.(type) {
	case string:
		f, err := strconv.ParseFloat(t, 64)
		if err != nil {
			return 0
		}
		return f
	case float64:
		return t
	case int64:
		return float64(t)
	default:
		return 0
	}
}
