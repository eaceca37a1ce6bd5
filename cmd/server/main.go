package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/AnshRaj112/calorie-burn-analyzer/internal/config"
	"github.com/AnshRaj112/calorie-burn-analyzer/internal/controllers"
	"github.com/AnshRaj112/calorie-burn-analyzer/internal/database"
	"github.com/AnshRaj112/calorie-burn-analyzer/internal/handlers"
	"github.com/AnshRaj112/calorie-burn-analyzer/internal/logging"
	"github.com/AnshRaj112/calorie-burn-analyzer/internal/middleware"
	"github.com/AnshRaj112/calorie-burn-analyzer/internal/models"
	"github.com/AnshRaj112/calorie-burn-analyzer/internal/prediction"
	"github.com/AnshRaj112/calorie-burn-analyzer/internal/routes"
	"github.com/AnshRaj112/calorie-burn-analyzer/internal/store"
	"github.com/AnshRaj112/calorie-burn-analyzer/pkg/clientip"
)

const serviceName = "calorie-burn-analyzer"

func main() {
	// Load env
	envErr := godotenv.Load()

	cfg := config.Load()
	logging.Init(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	logging.SetLogger(logging.With().Str("service", serviceName).Logger())
	if envErr != nil {
		logging.Debug().Msg("No .env file found")
	}
	if err := cfg.Validate(); err != nil {
		logging.Fatal().Err(err).Msg("Invalid configuration")
	}

	ctx := context.Background()

	// Load the model once; the app cannot serve predictions without it.
	model, err := prediction.NewLoader(cfg.ModelPath, cfg.ModelFormat).Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load model")
	}
	logging.Info().
		Str("path", model.Path()).
		Str("format", model.Format()).
		Int("estimators", model.Estimators()).
		Strs("features", models.FeatureNames[:]).
		Msg("Model loaded")

	// Redis is optional: without it feedback submissions are not rate limited.
	var redisClient *redis.Client
	if cfg.RedisURI != "" {
		redisClient, err = database.ConnectRedis(ctx, cfg.RedisURI)
		if err != nil {
			logging.Warn().Err(err).Msg("Redis unavailable, feedback submissions will not be rate limited")
		} else {
			defer redisClient.Close()
		}
	}

	feedbackStore, closeStore, err := openFeedbackStore(ctx, cfg)
	if err != nil {
		logging.Fatal().Err(err).Str("backend", cfg.FeedbackStore).Msg("Failed to connect to feedback store")
	}
	defer closeStore()

	h, err := handlers.New(
		controllers.NewPredictionController(model),
		controllers.NewFeedbackController(feedbackStore, controllers.FeedbackOptions{
			RecentLimit: cfg.RecentFeedbackSize,
			Timeout:     cfg.StoreTimeout,
		}),
	)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to parse page templates")
	}

	clientIP := clientip.Resolver(cfg.TrustProxy)

	// Setup router
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Observe)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.CORS(cfg.AllowedOrigins))

	// Production: HSTS → HostCheck → per-IP GlobalRateLimit
	if cfg.IsProduction() {
		r.Use(middleware.ProductionSecurity(cfg.AllowedHost, clientIP)...)
		logging.Info().Msg("Production security enabled (HSTS, host check, per-IP rate limiting)")
	}

	submitLimiter := middleware.NewSubmitLimiter(redisClient, cfg.SubmitRateLimit, cfg.SubmitRateWindow, clientIP)
	routes.SetupRoutes(r, h, routes.Options{
		StaticDir:   cfg.StaticDir,
		SubmitLimit: submitLimiter.Middleware,
	})

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logging.Info().Str("port", cfg.Port).Str("env", cfg.Environment).Str("store", cfg.FeedbackStore).
			Msg("Smart Calorie Burn Analyzer running")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	<-shutdownCh

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logging.Error().Err(err).Msg("Graceful shutdown failed")
	}
	logging.Info().Msg("Server stopped")
}

// openFeedbackStore connects the configured backend and wraps it with metrics.
// The returned func releases the connection.
func openFeedbackStore(ctx context.Context, cfg *config.Config) (store.FeedbackStore, func(), error) {
	switch cfg.FeedbackStore {
	case config.StorePostgres:
		db, err := database.ConnectPostgres(ctx, cfg.PostgresURI)
		if err != nil {
			return nil, nil, err
		}
		return store.NewInstrumented(config.StorePostgres, store.NewPostgresStore(db)), func() { _ = db.Close() }, nil

	case config.StoreMemory:
		logging.Warn().Msg("Using in-memory feedback store; feedback is lost on restart")
		return store.NewInstrumented(config.StoreMemory, store.NewMemoryStore()), func() {}, nil

	default:
		logging.Info().Str("uri", maskURI(cfg.MongoURI)).Msg("Connecting to MongoDB...")
		client, err := database.ConnectMongo(ctx, cfg.MongoURI)
		if err != nil {
			return nil, nil, err
		}
		col := client.Database(cfg.MongoDatabase).Collection(cfg.MongoCollection)
		return store.NewInstrumented(config.StoreMongo, store.NewMongoStore(col)), func() { _ = database.DisconnectMongo(client) }, nil
	}
}

// maskURI hides the password of a user:pass@host URI for logging.
func maskURI(uri string) string {
	at := strings.LastIndex(uri, "@")
	scheme := strings.Index(uri, "://")
	if at < 0 || scheme < 0 || at < scheme+3 {
		return uri
	}
	creds := uri[scheme+3 : at]
	if colon := strings.Index(creds, ":"); colon >= 0 {
		return uri[:scheme+3] + creds[:colon] + ":***" + uri[at:]
	}
	return uri
}
