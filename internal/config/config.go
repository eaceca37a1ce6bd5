package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Feedback store backends.
const (
	StoreMongo    = "mongo"
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

type Config struct {
	Port           string
	Environment    string   // ENV: production, development, etc.
	AllowedOrigins []string // CORS: from ALLOWED_ORIGINS or FRONTEND_URL
	AllowedHost    string   // production host check; empty disables it
	TrustProxy     bool     // take the client IP from X-Forwarded-For

	ModelPath   string
	ModelFormat string // xgboost, lightgbm or sklearn

	FeedbackStore      string // mongo, postgres or memory
	MongoURI           string
	MongoDatabase      string
	MongoCollection    string
	PostgresURI        string
	RedisURI           string // optional; enables the feedback submission limiter
	StoreTimeout       time.Duration
	RecentFeedbackSize int

	// Feedback submissions allowed per client IP per window (Redis only).
	SubmitRateLimit  int
	SubmitRateWindow time.Duration

	StaticDir string

	LogLevel  string
	LogFormat string
}

func Load() *Config {
	env := strings.ToLower(strings.TrimSpace(getEnv("ENV", "development")))

	allowedOrigins := parseOrigins(getEnv("ALLOWED_ORIGINS", ""))
	if len(allowedOrigins) == 0 {
		for _, u := range []string{getEnv("FRONTEND_URL", "http://localhost:8080"), getEnv("FRONTEND_URL_2", "")} {
			u = strings.TrimSpace(u)
			if u != "" && !containsOrigin(allowedOrigins, u) {
				allowedOrigins = append(allowedOrigins, u)
			}
		}
	}

	logFormat := "console"
	if env == "production" {
		logFormat = "json"
	}

	return &Config{
		Port:               getEnv("PORT", "8080"),
		Environment:        env,
		AllowedOrigins:     allowedOrigins,
		AllowedHost:        getEnv("ALLOWED_HOST", ""),
		TrustProxy:         getBoolEnv("TRUST_PROXY", false),
		ModelPath:          getEnv("MODEL_PATH", "calories_model"),
		ModelFormat:        strings.ToLower(getEnv("MODEL_FORMAT", "xgboost")),
		FeedbackStore:      strings.ToLower(getEnv("FEEDBACK_STORE", StoreMongo)),
		MongoURI:           getEnv("MONGODB_URI", getEnv("MONGO_URI", "mongodb://localhost:27017")),
		MongoDatabase:      getEnv("MONGODB_DATABASE", "calorie_burn_db"),
		MongoCollection:    getEnv("MONGODB_COLLECTION", "feedback"),
		PostgresURI:        getEnv("POSTGRES_URI", "postgres://localhost:5432/calorie_burn_db?sslmode=disable"),
		RedisURI:           getEnv("REDIS_URI", ""),
		StoreTimeout:       getDurationEnv("STORE_TIMEOUT", 5*time.Second),
		RecentFeedbackSize: getIntEnv("RECENT_FEEDBACK_LIMIT", 5),
		SubmitRateLimit:    getIntEnv("SUBMIT_RATE_LIMIT", 10),
		SubmitRateWindow:   getDurationEnv("SUBMIT_RATE_WINDOW", 10*time.Minute),
		StaticDir:          getEnv("STATIC_DIR", "static"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		LogFormat:          getEnv("LOG_FORMAT", logFormat),
	}
}

// Validate reports settings the server cannot start with.
func (c *Config) Validate() error {
	switch c.FeedbackStore {
	case StoreMongo, StorePostgres, StoreMemory:
	default:
		return fmt.Errorf("unknown FEEDBACK_STORE %q (want mongo, postgres or memory)", c.FeedbackStore)
	}
	switch c.ModelFormat {
	case "xgboost", "lightgbm", "sklearn":
	default:
		return fmt.Errorf("unknown MODEL_FORMAT %q (want xgboost, lightgbm or sklearn)", c.ModelFormat)
	}
	if strings.TrimSpace(c.ModelPath) == "" {
		return fmt.Errorf("MODEL_PATH is required")
	}
	if c.RecentFeedbackSize <= 0 {
		return fmt.Errorf("RECENT_FEEDBACK_LIMIT must be > 0, got %d", c.RecentFeedbackSize)
	}
	if c.StoreTimeout <= 0 {
		return fmt.Errorf("STORE_TIMEOUT must be > 0, got %s", c.StoreTimeout)
	}
	if c.RedisURI != "" && (c.SubmitRateLimit <= 0 || c.SubmitRateWindow <= 0) {
		return fmt.Errorf("SUBMIT_RATE_LIMIT and SUBMIT_RATE_WINDOW must be > 0 when REDIS_URI is set")
	}
	return nil
}

// IsProduction returns true when ENV is set to "production".
func (c *Config) IsProduction() bool {
	return strings.ToLower(strings.TrimSpace(c.Environment)) == "production"
}

func parseOrigins(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

func containsOrigin(list []string, o string) bool {
	o = strings.TrimSpace(strings.ToLower(o))
	for _, v := range list {
		if strings.TrimSpace(strings.ToLower(v)) == o {
			return true
		}
	}
	return false
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
