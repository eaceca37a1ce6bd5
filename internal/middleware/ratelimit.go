package middleware

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/AnshRaj112/calorie-burn-analyzer/internal/logging"
	"github.com/AnshRaj112/calorie-burn-analyzer/internal/metrics"
)

// SubmitKeyPrefix is the Redis key prefix for feedback submission counters.
const SubmitKeyPrefix = "ratelimit:feedback:"

// SubmitLimiter is a fixed-window counter in Redis, shared by every replica.
// It fails open: any Redis error lets the request through.
type SubmitLimiter struct {
	client *redis.Client
	max    int
	window time.Duration
	keyFn  func(*http.Request) string
}

// NewSubmitLimiter returns nil when client is nil; a nil limiter is a no-op.
func NewSubmitLimiter(client *redis.Client, max int, window time.Duration, keyFn func(*http.Request) string) *SubmitLimiter {
	if client == nil {
		return nil
	}
	return &SubmitLimiter{client: client, max: max, window: window, keyFn: keyFn}
}

// Hit counts one submission for key and returns the count in the current window.
// The window is set whenever the counter has no TTL, not only on the first hit,
// so a failed EXPIRE is repaired by the next submission.
func (l *SubmitLimiter) Hit(ctx context.Context, key string) (int64, error) {
	redisKey := SubmitKeyPrefix + key

	var incr *redis.IntCmd
	var ttl *redis.DurationCmd
	_, err := l.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, redisKey)
		ttl = pipe.TTL(ctx, redisKey)
		return nil
	})
	if err != nil {
		return 0, err
	}

	count := incr.Val()
	if ttl.Val() < 0 {
		if err := l.client.Expire(ctx, redisKey, l.window).Err(); err != nil {
			return count, err
		}
	}
	return count, nil
}

// Middleware rejects submissions over the limit with 429.
func (l *SubmitLimiter) Middleware(next http.Handler) http.Handler {
	if l == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
		count, err := l.Hit(ctx, l.keyFn(r))
		cancel()
		if err != nil {
			logging.Ctx(r.Context()).Warn().Err(err).Msg("submit limiter unavailable, allowing request")
			next.ServeHTTP(w, r)
			return
		}

		remaining := int64(l.max) - count
		if remaining < 0 {
			remaining = 0
		}
		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(l.max))
		w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

		if count > int64(l.max) {
			metrics.RateLimited.WithLabelValues("feedback_submit").Inc()
			w.Header().Set("Retry-After", strconv.Itoa(int(l.window.Seconds())))
			writeTooMany(w, r, "Too many feedback submissions. Please try again later.")
			return
		}
		next.ServeHTTP(w, r)
	})
}
