package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AnshRaj112/calorie-burn-analyzer/internal/logging"
	"github.com/AnshRaj112/calorie-burn-analyzer/internal/metrics"
	"github.com/AnshRaj112/calorie-burn-analyzer/pkg/clientip"
)

var noContent = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
})

func TestRequestIDGenerated(t *testing.T) {
	var seen string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = logging.RequestIDFromContext(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))

	assert.NotEmpty(t, seen)
	assert.Equal(t, seen, rec.Header().Get(RequestIDHeader))
}

func TestRequestIDPropagated(t *testing.T) {
	var seen string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = logging.RequestIDFromContext(r.Context())
	}))

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set(RequestIDHeader, "req-123")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, "req-123", seen)
	assert.Equal(t, "req-123", rec.Header().Get(RequestIDHeader))
}

func TestSecurityHeaders(t *testing.T) {
	rec := httptest.NewRecorder()
	SecurityHeaders(noContent).ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))

	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	assert.Contains(t, rec.Header().Get("Content-Security-Policy"), "default-src 'self'")
	assert.Empty(t, rec.Header().Get("Strict-Transport-Security"))
}

func TestHostCheck(t *testing.T) {
	h := HostCheck("calories.example.com")(noContent)

	req := httptest.NewRequest("GET", "/", nil)
	req.Host = "Calories.Example.com:443"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	req.Host = "evil.example.com"
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = httptest.NewRecorder()
	HostCheck("")(noContent).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestIPRateLimiterPerClient(t *testing.T) {
	l := NewIPRateLimiter("test", 0.001, 2, clientip.RealClientIP)
	h := l.Middleware(noContent)

	call := func(addr, path string) *httptest.ResponseRecorder {
		req := httptest.NewRequest("GET", path, nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusNoContent, call("10.0.0.1:1", "/").Code)
	assert.Equal(t, http.StatusNoContent, call("10.0.0.1:2", "/").Code)

	page := call("10.0.0.1:3", "/contact")
	assert.Equal(t, http.StatusTooManyRequests, page.Code)
	assert.Contains(t, page.Header().Get("Content-Type"), "text/plain")

	api := call("10.0.0.1:4", "/api/feedback")
	assert.Equal(t, http.StatusTooManyRequests, api.Code)
	assert.JSONEq(t, `{"success":false,"message":"Too many requests. Please slow down."}`, api.Body.String())

	assert.Equal(t, http.StatusNoContent, call("10.0.0.2:1", "/").Code, "other clients keep their own bucket")
}

func TestIPRateLimiterSweep(t *testing.T) {
	l := NewIPRateLimiter("test", 1, 1, clientip.RealClientIP)
	l.Allow("a")
	l.Allow("b")

	assert.Equal(t, 0, l.Sweep(time.Now(), time.Hour))
	assert.Equal(t, 2, l.Sweep(time.Now().Add(2*time.Hour), time.Hour))
}

func TestProductionSecurityAddsHSTS(t *testing.T) {
	r := chi.NewRouter()
	r.Use(ProductionSecurity("", clientip.RealClientIP)...)
	r.Get("/", noContent)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Contains(t, rec.Header().Get("Strict-Transport-Security"), "max-age=")
}

func TestCORSAllowsConfiguredOrigin(t *testing.T) {
	h := CORS([]string{"http://localhost:3000"})(noContent)

	req := httptest.NewRequest("OPTIONS", "/api/feedback", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "POST")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest("GET", "/api/feedback", nil)
	req.Header.Set("Origin", "http://evil.example")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestSubmitLimiterNilIsNoop(t *testing.T) {
	l := NewSubmitLimiter(nil, 1, time.Minute, clientip.RealClientIP)
	require.Nil(t, l)

	rec := httptest.NewRecorder()
	l.Middleware(noContent).ServeHTTP(rec, httptest.NewRequest("POST", "/contact", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestSubmitLimiterFailsOpen(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		MaxRetries:  -1,
		DialTimeout: 200 * time.Millisecond,
	})
	t.Cleanup(func() { _ = client.Close() })

	l := NewSubmitLimiter(client, 1, time.Minute, clientip.RealClientIP)
	rec := httptest.NewRecorder()
	l.Middleware(noContent).ServeHTTP(rec, httptest.NewRequest("POST", "/api/feedback", nil))

	assert.Equal(t, http.StatusNoContent, rec.Code)
}

// failFirstExpire makes the first EXPIRE sent through the client time out.
type failFirstExpire struct {
	failed atomic.Bool
}

func (h *failFirstExpire) DialHook(next redis.DialHook) redis.DialHook { return next }

func (h *failFirstExpire) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		if cmd.Name() == "expire" && h.failed.CompareAndSwap(false, true) {
			return context.DeadlineExceeded
		}
		return next(ctx, cmd)
	}
}

func (h *failFirstExpire) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return next
}

func newMiniredisClient(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func submitFrom(h http.Handler, remoteAddr string) int {
	req := httptest.NewRequest("POST", "/api/feedback", nil)
	req.RemoteAddr = remoteAddr
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec.Code
}

func TestSubmitLimiterRecoversFromFailedExpire(t *testing.T) {
	mr, client := newMiniredisClient(t)
	client.AddHook(&failFirstExpire{})

	h := NewSubmitLimiter(client, 2, time.Minute, clientip.RealClientIP).Middleware(noContent)

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		codes = append(codes, submitFrom(h, "192.0.2.10:1234"))
	}
	assert.Equal(t, []int{http.StatusNoContent, http.StatusNoContent, http.StatusTooManyRequests}, codes)

	ttl := mr.TTL(SubmitKeyPrefix + "192.0.2.10")
	assert.Greater(t, ttl, time.Duration(0))
	assert.LessOrEqual(t, ttl, time.Minute)

	mr.FastForward(time.Minute + time.Second)
	assert.Equal(t, http.StatusNoContent, submitFrom(h, "192.0.2.10:1234"))
}

func TestSubmitLimiterRepairsCounterWithoutTTL(t *testing.T) {
	mr, client := newMiniredisClient(t)
	key := SubmitKeyPrefix + "192.0.2.20"
	require.NoError(t, mr.Set(key, "7"))

	h := NewSubmitLimiter(client, 2, time.Minute, clientip.RealClientIP).Middleware(noContent)

	assert.Equal(t, http.StatusTooManyRequests, submitFrom(h, "192.0.2.20:1234"))
	assert.Greater(t, mr.TTL(key), time.Duration(0))

	mr.FastForward(2 * time.Minute)
	assert.Equal(t, http.StatusNoContent, submitFrom(h, "192.0.2.20:1234"))
}

func TestSubmitLimiterHeaders(t *testing.T) {
	_, client := newMiniredisClient(t)
	h := NewSubmitLimiter(client, 3, time.Minute, clientip.RealClientIP).Middleware(noContent)

	req := httptest.NewRequest("POST", "/api/feedback", nil)
	req.RemoteAddr = "192.0.2.30:1234"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "3", rec.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "2", rec.Header().Get("X-RateLimit-Remaining"))
}

func TestObserveRecordsRoutePattern(t *testing.T) {
	counter := metrics.HTTPRequests.WithLabelValues("GET", "/items/{id}", "204")
	before := testutil.ToFloat64(counter)

	r := chi.NewRouter()
	r.Use(Observe)
	r.Get("/items/{id}", noContent)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest("GET", "/items/42", nil))

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, before+1, testutil.ToFloat64(counter))
}
