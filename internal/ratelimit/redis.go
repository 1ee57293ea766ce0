// Package ratelimit implements the per-visitor request limiter in front of
// the demo endpoints. Counters live in Redis so multiple instances share
// one window.
package ratelimit

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/captureclient/demo-engine/pkg/logging"
)

// Limiter is a fixed-window counter: up to limit requests per key per
// window. Redis errors fail open so an unavailable Redis never takes the
// demo down with it.
type Limiter struct {
	client *redis.Client
	limit  int
	window time.Duration
	logger *logging.Logger
}

func NewLimiter(client *redis.Client, limit int, window time.Duration, logger *logging.Logger) *Limiter {
	if client == nil {
		panic("ratelimit: redis client cannot be nil")
	}
	if limit <= 0 {
		limit = 10
	}
	if window <= 0 {
		window = time.Minute
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Limiter{client: client, limit: limit, window: window, logger: logger}
}

// Allow reports whether key may make another request in the current window.
func (l *Limiter) Allow(ctx context.Context, key string) bool {
	redisKey := fmt.Sprintf("ratelimit:%s", key)

	count, err := l.client.Incr(ctx, redisKey).Result()
	if err != nil {
		l.logger.Warn("ratelimit: redis unavailable, failing open", "error", err)
		return true
	}
	if count == 1 {
		if err := l.client.Expire(ctx, redisKey, l.window).Err(); err != nil {
			l.logger.Warn("ratelimit: failed to set window expiry", "error", err)
		}
	}
	return count <= int64(l.limit)
}

// Middleware rejects requests over the limit with 429, keyed by client IP.
// Mount behind chi's RealIP middleware.
func (l *Limiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !l.Allow(r.Context(), clientIP(r)) {
			http.Error(w, "Rate limit exceeded. Please try again in a minute.", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
