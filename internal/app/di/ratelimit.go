package di

import (
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"task_backend/internal/shared/ratelimiter"
)

// NewAuthRateLimiter creates the limiter for the signup and login endpoints.
// If Redis is available, it returns a Redis-backed implementation.
// Otherwise, it falls back to an in-memory limiter. perMinute <= 0 disables limiting.
func NewAuthRateLimiter(rdb *redis.Client, perMinute int) ratelimiter.Limiter {
	if perMinute <= 0 {
		slog.Info("auth rate limiting disabled")
		return nil
	}
	if rdb != nil {
		return ratelimiter.NewRedisLimiter(rdb, perMinute, time.Minute, "rl:auth:")
	}
	slog.Warn("Redis unavailable. Auth rate limiting is per instance.")
	return ratelimiter.NewRateLimiter(perMinute, time.Minute)
}
