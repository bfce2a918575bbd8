package config

import (
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App       AppConfig
	HTTP      ServerConfig
	Backend   BackendConfig
	Reconcile ReconcileConfig
	Jobs      JobsConfig
	Log       LogConfig
}

type AppConfig struct {
	ServiceName string
	APIKey      string
}

type ServerConfig struct {
	Host string
	Port string
}

type BackendConfig struct {
	BaseURL     string
	APIKey      string
	HTTPTimeout time.Duration
}

type ReconcileConfig struct {
	MaxAttempts int32
	BackoffStep time.Duration
	StaleAfter  time.Duration
	BatchSize   int32
}

type JobsConfig struct {
	ReconcileInterval time.Duration
}

type LogConfig struct {
	Level string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	backendBaseURL := os.Getenv("BACKEND_BASE_URL")
	if backendBaseURL == "" {
		return nil, errors.New("BACKEND_BASE_URL environment variable is required")
	}

	return &Config{
		App: AppConfig{
			ServiceName: getEnv("APP_SERVICE_NAME", "donations-gateway"),
			APIKey:      getEnv("APP_API_KEY", ""),
		},
		HTTP: ServerConfig{
			Host: getEnv("HTTP_HOST", "0.0.0.0"),
			Port: getEnv("HTTP_PORT", "8080"),
		},
		Backend: BackendConfig{
			BaseURL:     backendBaseURL,
			APIKey:      getEnv("BACKEND_API_KEY", ""),
			HTTPTimeout: getSecondsEnv("BACKEND_HTTP_TIMEOUT_SECONDS", 10*time.Second),
		},
		Reconcile: ReconcileConfig{
			MaxAttempts: int32(getIntEnv("VERIFY_MAX_ATTEMPTS", 3)),
			BackoffStep: getSecondsEnv("VERIFY_BACKOFF_STEP_SECONDS", 2*time.Second),
			StaleAfter:  getMinutesEnv("RECONCILE_STALE_AFTER_MINUTES", 15*time.Minute),
			BatchSize:   int32(getIntEnv("RECONCILE_BATCH_SIZE", 100)),
		},
		Jobs: JobsConfig{
			ReconcileInterval: getMinutesEnv("RECONCILE_INTERVAL_MINUTES", 2*time.Minute),
		},
		Log: LogConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getMinutesEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if minutes, err := strconv.Atoi(value); err == nil {
			return time.Duration(minutes) * time.Minute
		}
	}
	return defaultValue
}

func getSecondsEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if seconds, err := strconv.Atoi(value); err == nil {
			return time.Duration(seconds) * time.Second
		}
	}
	return defaultValue
}
