package di

import (
	"context"
	"database/sql"
	"time"

	"github.com/redis/go-redis/v9"

	"user_backend/internal/platform/http/handler"
	"user_backend/internal/platform/ratelimit"
)

// NewRateLimiter returns a Redis-backed limiter, or nil when Redis is unavailable
// so that the router skips rate limiting.
func NewRateLimiter(rdb *redis.Client, limit int, window time.Duration) *ratelimit.Limiter {
	if rdb == nil {
		return nil
	}
	return ratelimit.New(rdb, limit, window)
}

// NewStatusHandler builds the status handler with a database check and,
// if Redis is available, a Redis check.
func NewStatusHandler(info handler.ServiceInfo, sqlDB *sql.DB, rdb *redis.Client) *handler.StatusHandler {
	checks := map[string]handler.CheckFunc{"database": sqlDB.PingContext}
	if rdb != nil {
		checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	}
	return handler.NewStatusHandler(info, checks)
}
