// Package ratelimit provides a Redis-backed fixed-window rate limiter for gin.
package ratelimit

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const defaultPrefix = "ratelimit"

// Limiter counts requests per client in fixed windows stored in Redis.
// A nil client disables limiting.
type Limiter struct {
	rdb    *redis.Client
	limit  int64
	window time.Duration
	prefix string
}

// New creates a Limiter allowing limit requests per window.
func New(rdb *redis.Client, limit int, window time.Duration) *Limiter {
	return &Limiter{
		rdb:    rdb,
		limit:  int64(limit),
		window: window,
		prefix: defaultPrefix,
	}
}

func (l *Limiter) key(client string) string {
	return fmt.Sprintf("%s:%s", l.prefix, client)
}

// Allow records one hit for client and reports whether it is within the limit,
// along with the number of requests left in the current window.
func (l *Limiter) Allow(ctx context.Context, client string) (bool, int64, error) {
	if l.rdb == nil {
		return true, l.limit, nil
	}

	key := l.key(client)
	var incr *redis.IntCmd
	_, err := l.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, key)
		// NX only sets a TTL on a key that has none: the first hit opens the
		// window and a counter left without expiry gets one on its next hit.
		pipe.ExpireNX(ctx, key, l.window)
		return nil
	})
	if err != nil {
		return true, l.limit, err
	}

	n := incr.Val()
	remaining := l.limit - n
	if remaining < 0 {
		remaining = 0
	}
	return n <= l.limit, remaining, nil
}

// Middleware rejects requests over the limit with 429.
// Redis errors are logged and the request is let through.
func (l *Limiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if l.rdb == nil {
			c.Next()
			return
		}

		allowed, remaining, err := l.Allow(c.Request.Context(), c.ClientIP())
		if err != nil {
			slog.Warn("rate limiter unavailable, allowing request", "error", err, "remote_addr", c.ClientIP())
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.FormatInt(l.limit, 10))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

		if !allowed {
			slog.Warn("rate limit exceeded", "remote_addr", c.ClientIP(), "path", c.FullPath())
			c.Header("Retry-After", strconv.Itoa(int(l.window.Seconds())))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}
		c.Next()
	}
}
