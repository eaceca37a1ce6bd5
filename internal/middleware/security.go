package middleware

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/AnshRaj112/calorie-burn-analyzer/internal/metrics"
)

const (
	headerXContentTypeOptions     = "X-Content-Type-Options"
	headerXFrameOptions           = "X-Frame-Options"
	headerReferrerPolicy          = "Referrer-Policy"
	headerContentSecurityPolicy   = "Content-Security-Policy"
	headerStrictTransportSecurity = "Strict-Transport-Security"
)

// SecurityHeaders sets security-related response headers. Pages only load
// their own stylesheet and images.
func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(headerXContentTypeOptions, "nosniff")
		w.Header().Set(headerXFrameOptions, "DENY")
		w.Header().Set(headerReferrerPolicy, "strict-origin-when-cross-origin")
		w.Header().Set(headerContentSecurityPolicy, "default-src 'self'; img-src 'self' data:; form-action 'self'")
		next.ServeHTTP(w, r)
	})
}

// StrictTransport adds HSTS. Production only.
func StrictTransport(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(headerStrictTransportSecurity, "max-age=31536000; includeSubDomains")
		next.ServeHTTP(w, r)
	})
}

// HostCheck returns 403 when r.Host does not match allowedHost (e.g. calories.example.com).
// allowedHost should be the bare hostname without scheme or port. Empty disables the check.
func HostCheck(allowedHost string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if allowedHost == "" {
				next.ServeHTTP(w, r)
				return
			}
			reqHost := r.Host
			if host, _, err := net.SplitHostPort(reqHost); err == nil {
				reqHost = host
			}
			if !strings.EqualFold(strings.TrimSpace(reqHost), strings.TrimSpace(allowedHost)) {
				w.WriteHeader(http.StatusForbidden)
				w.Write([]byte("Forbidden"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// --- Per-IP token bucket limiting ---

const (
	globalRateLimitRPS   = 5
	globalRateLimitBurst = 20
	limiterCleanupEvery  = 5 * time.Minute
	limiterIdleTTL       = 30 * time.Minute
)

type limiterEntry struct {
	limiter *rate.Limiter
	lastUse time.Time
}

// IPRateLimiter keeps one token bucket per client key.
type IPRateLimiter struct {
	name  string
	limit rate.Limit
	burst int
	keyFn func(*http.Request) string

	mu      sync.Mutex
	entries map[string]*limiterEntry
	cleanup sync.Once
}

// NewIPRateLimiter builds a limiter; keyFn is usually a clientip resolver.
func NewIPRateLimiter(name string, limit rate.Limit, burst int, keyFn func(*http.Request) string) *IPRateLimiter {
	return &IPRateLimiter{
		name:    name,
		limit:   limit,
		burst:   burst,
		keyFn:   keyFn,
		entries: make(map[string]*limiterEntry),
	}
}

// Allow takes one token from key's bucket.
func (l *IPRateLimiter) Allow(key string) bool {
	l.mu.Lock()
	e, ok := l.entries[key]
	if !ok {
		e = &limiterEntry{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.entries[key] = e
	}
	e.lastUse = time.Now()
	l.mu.Unlock()
	return e.limiter.Allow()
}

// Sweep drops buckets idle for longer than ttl and returns how many went.
func (l *IPRateLimiter) Sweep(now time.Time, ttl time.Duration) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for k, e := range l.entries {
		if now.Sub(e.lastUse) > ttl {
			delete(l.entries, k)
			n++
		}
	}
	return n
}

func (l *IPRateLimiter) startCleanup() {
	l.cleanup.Do(func() {
		go func() {
			ticker := time.NewTicker(limiterCleanupEvery)
			defer ticker.Stop()
			for now := range ticker.C {
				l.Sweep(now, limiterIdleTTL)
			}
		}()
	})
}

// Middleware returns 429 once the caller's bucket is empty.
func (l *IPRateLimiter) Middleware(next http.Handler) http.Handler {
	l.startCleanup()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !l.Allow(l.keyFn(r)) {
			metrics.RateLimited.WithLabelValues(l.name).Inc()
			writeTooMany(w, r, "Too many requests. Please slow down.")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GlobalRateLimit limits each client to 5 req/s, burst 20.
func GlobalRateLimit(keyFn func(*http.Request) string) func(http.Handler) http.Handler {
	return NewIPRateLimiter("global", globalRateLimitRPS, globalRateLimitBurst, keyFn).Middleware
}

// ProductionSecurity returns middlewares for production: StrictTransport → HostCheck → GlobalRateLimit.
// SecurityHeaders is applied in every environment.
func ProductionSecurity(allowedHost string, keyFn func(*http.Request) string) []func(http.Handler) http.Handler {
	return []func(http.Handler) http.Handler{
		StrictTransport,
		HostCheck(allowedHost),
		GlobalRateLimit(keyFn),
	}
}

// writeTooMany answers JSON for API routes and plain text for pages.
func writeTooMany(w http.ResponseWriter, r *http.Request, message string) {
	if strings.HasPrefix(r.URL.Path, "/api/") {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"success":false,"message":"` + message + `"}`))
		return
	}
	http.Error(w, message, http.StatusTooManyRequests)
}
