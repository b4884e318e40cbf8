package middleware

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisLimiterTimeout = 250 * time.Millisecond

// RedisRateLimiter counts requests in fixed windows shared by every server
// instance. Redis errors fail open.
type RedisRateLimiter struct {
	client   *redis.Client
	logger   *slog.Logger
	prefix   string
	requests int
	window   time.Duration
}

func NewRedisRateLimiter(client *redis.Client, requests, windowSeconds int, logger *slog.Logger) *RedisRateLimiter {
	requests, window := normalizeLimits(requests, windowSeconds)
	return &RedisRateLimiter{
		client:   client,
		logger:   logger,
		prefix:   "bugtracker:ratelimit:",
		requests: requests,
		window:   window,
	}
}

func (rl *RedisRateLimiter) Limit() int {
	return rl.requests
}

func (rl *RedisRateLimiter) Allow(ctx context.Context, key string) (bool, int, time.Time) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), redisLimiterTimeout)
	defer cancel()

	redisKey := rl.prefix + key
	var incr *redis.IntCmd
	var ttlCmd *redis.DurationCmd
	_, err := rl.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, redisKey)
		ttlCmd = pipe.TTL(ctx, redisKey)
		return nil
	})
	if err != nil {
		rl.logger.Error("redis rate limiter error", "op", "incr", "error", err)
		return true, rl.requests, time.Now().Add(rl.window)
	}
	count := incr.Val()

	ttl, expire := windowReset(ttlCmd.Val(), rl.window)
	if expire {
		if err := rl.client.Expire(ctx, redisKey, rl.window).Err(); err != nil {
			rl.logger.Error("redis rate limiter error", "op", "expire", "error", err)
		}
	}

	remaining := rl.requests - int(count)
	if remaining < 0 {
		remaining = 0
	}
	return int(count) <= rl.requests, remaining, time.Now().Add(ttl)
}

// windowReset turns a TTL reply into the time left in the window. Redis
// answers -1 for a key without expiry and -2 for a missing one; both mean
// the expiry has to be set again.
func windowReset(ttl, window time.Duration) (time.Duration, bool) {
	if ttl < 0 {
		return window, true
	}
	if ttl == 0 {
		return window, false
	}
	return ttl, false
}
