package config

import (
	"os"
	"strconv"
	"time"
)

const (
	ValidationSourceRemote  = "remote"
	ValidationSourceBuiltin = "builtin"
	ValidationSourceFile    = "file"
)

type Config struct {
	APIPort  string
	LogLevel string

	RecommenderBaseURL    string
	ClassifierBaseURL     string
	SalesBaseURL          string
	BackendTimeoutSeconds int

	ValidationSource             string
	ValidationFile               string
	ValidationLoadTimeoutSeconds int

	MaxImageBytes       int64
	RecommendationCount int

	APIRateLimitRPS   float64
	APIRateLimitBurst int

	MetricsEnabled bool

	BreakerEnabled            bool
	BreakerMinRequests        int
	BreakerFailureRatio       float64
	BreakerOpenTimeoutSeconds int
}

func Load() Config {
	return Config{
		APIPort:  mustEnv("API_PORT", "8080"),
		LogLevel: mustEnv("LOG_LEVEL", "info"),

		RecommenderBaseURL:    mustEnv("RECOMMENDER_BASE_URL", "https://recommencer3g.onrender.com"),
		ClassifierBaseURL:     mustEnv("CLASSIFIER_BASE_URL", "https://classifier-images.onrender.com"),
		SalesBaseURL:          mustEnv("SALES_BASE_URL", "https://sales-prediction-g5xo.onrender.com"),
		BackendTimeoutSeconds: mustEnvInt("BACKEND_TIMEOUT_SECONDS", 0),

		ValidationSource:             mustEnv("VALIDATION_SOURCE", ValidationSourceRemote),
		ValidationFile:               mustEnv("VALIDATION_FILE", "./configs/valid-data.yaml"),
		ValidationLoadTimeoutSeconds: mustEnvInt("VALIDATION_LOAD_TIMEOUT_SECONDS", 15),

		MaxImageBytes:       int64(mustEnvInt("MAX_IMAGE_BYTES", 10<<20)),
		RecommendationCount: mustEnvInt("RECOMMENDATION_COUNT", 5),

		APIRateLimitRPS:   mustEnvFloat("API_RATE_LIMIT_RPS", 20),
		APIRateLimitBurst: mustEnvInt("API_RATE_LIMIT_BURST", 40),

		MetricsEnabled: mustEnvBool("METRICS_ENABLED", true),

		BreakerEnabled:            mustEnvBool("BREAKER_ENABLED", false),
		BreakerMinRequests:        mustEnvInt("BREAKER_MIN_REQUESTS", 10),
		BreakerFailureRatio:       mustEnvFloat("BREAKER_FAILURE_RATIO", 0.5),
		BreakerOpenTimeoutSeconds: mustEnvInt("BREAKER_OPEN_TIMEOUT_SECONDS", 30),
	}
}

// BackendTimeout is zero when backend calls are unbounded.
func (c Config) BackendTimeout() time.Duration {
	if c.BackendTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(c.BackendTimeoutSeconds) * time.Second
}

// ValidationLoadTimeout bounds the startup metadata load. Non-positive values
// fall back to 15 seconds.
func (c Config) ValidationLoadTimeout() time.Duration {
	if c.ValidationLoadTimeoutSeconds <= 0 {
		return 15 * time.Second
	}
	return time.Duration(c.ValidationLoadTimeoutSeconds) * time.Second
}

func (c Config) BreakerOpenTimeout() time.Duration {
	return time.Duration(c.BreakerOpenTimeoutSeconds) * time.Second
}

func mustEnv(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func mustEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func mustEnvFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}

func mustEnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return parsed
}
