package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/AnshRaj112/calorie-burn-analyzer/internal/handlers"
)

// Options holds what the routes need besides the handler.
type Options struct {
	StaticDir string
	// SubmitLimit wraps the feedback submission routes; nil means unlimited.
	SubmitLimit func(http.Handler) http.Handler
}

func SetupRoutes(r chi.Router, h *handlers.Handler, opts Options) {
	submitLimit := opts.SubmitLimit
	if submitLimit == nil {
		submitLimit = func(next http.Handler) http.Handler { return next }
	}

	// Health and metrics
	r.Get("/health", handlers.Health)
	r.Handle("/metrics", promhttp.Handler())

	// Static images and stylesheet
	if opts.StaticDir != "" {
		r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.Dir(opts.StaticDir))))
	}

	// Pages
	r.Get("/", h.Index)
	r.Get("/home", h.HomePage)
	r.Get("/prediction", h.PredictionPage)
	r.Post("/prediction", h.Predict)
	r.Get("/contact", h.ContactPage)
	r.With(submitLimit).Post("/contact", h.SubmitContact)

	// JSON API
	r.Route("/api", func(r chi.Router) {
		r.Post("/predict", h.APIPredict)
		r.Get("/feedback", h.APIListFeedback)
		r.With(submitLimit).Post("/feedback", h.APISubmitFeedback)
	})
}
