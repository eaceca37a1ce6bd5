package routes

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AnshRaj112/calorie-burn-analyzer/internal/controllers"
	"github.com/AnshRaj112/calorie-burn-analyzer/internal/handlers"
	"github.com/AnshRaj112/calorie-burn-analyzer/internal/models"
	"github.com/AnshRaj112/calorie-burn-analyzer/internal/store"
)

type constPredictor float64

func (c constPredictor) Predict(models.FeatureRecord) (float64, error) { return float64(c), nil }

func newRouter(t *testing.T, opts Options) http.Handler {
	t.Helper()
	h, err := handlers.New(
		controllers.NewPredictionController(constPredictor(42)),
		controllers.NewFeedbackController(store.NewMemoryStore(), controllers.FeedbackOptions{}),
	)
	require.NoError(t, err)

	r := chi.NewRouter()
	SetupRoutes(r, h, opts)
	return r
}

func do(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRoutesServePages(t *testing.T) {
	r := newRouter(t, Options{})

	for _, path := range []string{"/", "/home", "/prediction", "/contact", "/?page=Contact"} {
		rec := do(r, http.MethodGet, path, "")
		assert.Equal(t, http.StatusOK, rec.Code, path)
	}
	assert.Equal(t, http.StatusNotFound, do(r, http.MethodGet, "/admin", "").Code)
}

func TestRoutesHealthAndMetrics(t *testing.T) {
	r := newRouter(t, Options{})

	rec := do(r, http.MethodGet, "/health", "")
	assert.Equal(t, "OK", rec.Body.String())

	rec = do(r, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

func TestRoutesStaticFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "style.css"), []byte("body{}"), 0o644))

	r := newRouter(t, Options{StaticDir: dir})

	rec := do(r, http.MethodGet, "/static/style.css", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "body{}", rec.Body.String())
}

func TestRoutesAPI(t *testing.T) {
	r := newRouter(t, Options{})

	rec := do(r, http.MethodPost, "/api/predict",
		`{"gender":"Female","age":30,"height_cm":165,"weight_kg":60,"duration_min":30,"heart_rate":120,"body_temp_c":38.5}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"formatted":"42.00"`)

	rec = do(r, http.MethodPost, "/api/feedback", `{"name":"a","email":"b","feedback_message":"c"}`)
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec = do(r, http.MethodGet, "/api/feedback?limit=1", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"total":1`)
}

func TestRoutesSubmitLimitOnlyOnSubmissions(t *testing.T) {
	reject := func(http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
		})
	}
	r := newRouter(t, Options{SubmitLimit: reject})

	assert.Equal(t, http.StatusTooManyRequests, do(r, http.MethodPost, "/api/feedback", `{}`).Code)
	assert.Equal(t, http.StatusTooManyRequests, do(r, http.MethodPost, "/contact", "").Code)
	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/api/feedback", "").Code)
	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/contact", "").Code)
}
