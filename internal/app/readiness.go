// Package app assembles the HTTP router and its readiness checks.
package app

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Pinger is the minimal interface for a database pool capable of Ping.
type Pinger interface{ Ping(ctx context.Context) error }

// RedisPingResult is the minimal return type of a Redis client's Ping.
type RedisPingResult interface{ Err() error }

// RedisClient is the minimal interface for a Redis client needed for readiness.
type RedisClient interface{ Ping(ctx context.Context) RedisPingResult }

type goRedisPinger struct{ rdb redis.Cmdable }

func (p goRedisPinger) Ping(ctx context.Context) RedisPingResult { return p.rdb.Ping(ctx) }

// NewRedisPinger adapts a go-redis client for BuildReadinessChecks.
func NewRedisPinger(rdb redis.Cmdable) RedisClient {
	if rdb == nil {
		return nil
	}
	return goRedisPinger{rdb: rdb}
}

// BuildReadinessChecks returns the db and redis readiness checks. A nil
// dependency makes its check fail rather than pass silently.
func BuildReadinessChecks(pool Pinger, rdb RedisClient) (
	func(ctx context.Context) error,
	func(ctx context.Context) error,
) {
	dbCheck := func(ctx context.Context) error {
		if pool == nil {
			return fmt.Errorf("db not configured")
		}
		return pool.Ping(ctx)
	}
	redisCheck := func(ctx context.Context) error {
		if rdb == nil {
			return fmt.Errorf("redis not configured")
		}
		return rdb.Ping(ctx).Err()
	}
	return dbCheck, redisCheck
}
