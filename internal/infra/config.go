package infra

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config represents application configuration loaded from environment variables.
type Config struct {
	AppEnv             string
	Port               string
	DatabaseURL        string
	DBMaxConns         int
	DBMinConns         int
	StoragePath        string
	StorageBaseURL     string
	ManifestPath       string
	ProviderAPIKey     string
	ProviderBaseURL    string
	ProviderTimeout    time.Duration
	WorkerConcurrency  int
	JobPollInterval    time.Duration
	MaxJobAttempts     int
	RetryBackoffBase   time.Duration
	QueueClaimTimeout  time.Duration
	ComposePreviewMode bool
	ComposeDebugFrames bool
	FFmpegBin          string
	HTTPReadTimeout    time.Duration
	HTTPWriteTimeout   time.Duration
	HTTPIdleTimeout    time.Duration
}

// LoadConfig loads configuration from environment variables and applies defaults where needed.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		AppEnv:             getEnv("APP_ENV", "development"),
		Port:               getEnv("PORT", "8080"),
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		DBMaxConns:         getEnvInt("DB_MAX_CONNS", 8),
		DBMinConns:         getEnvInt("DB_MIN_CONNS", 1),
		StoragePath:        getEnv("STORAGE_PATH", "./storage"),
		StorageBaseURL:     getEnv("STORAGE_BASE_URL", "http://localhost:8080/static"),
		ManifestPath:       os.Getenv("MANIFEST_PATH"),
		ProviderAPIKey:     os.Getenv("PROVIDER_API_KEY"),
		ProviderBaseURL:    getEnv("PROVIDER_BASE_URL", "https://api.mediaforge.dev/v1"),
		ProviderTimeout:    time.Second * time.Duration(getEnvInt("PROVIDER_TIMEOUT_SECONDS", 120)),
		WorkerConcurrency:  getEnvInt("WORKER_CONCURRENCY", 3),
		JobPollInterval:    time.Second * time.Duration(getEnvInt("JOB_POLL_INTERVAL_SECONDS", 2)),
		MaxJobAttempts:     getEnvInt("MAX_JOB_ATTEMPTS", 3),
		RetryBackoffBase:   time.Second * time.Duration(getEnvInt("RETRY_BACKOFF_BASE_SECONDS", 5)),
		QueueClaimTimeout:  time.Second * time.Duration(getEnvInt("QUEUE_CLAIM_TIMEOUT_SECONDS", 900)),
		ComposePreviewMode: getEnvBool("COMPOSE_PREVIEW_MODE", false),
		ComposeDebugFrames: getEnvBool("COMPOSE_DEBUG_FRAMES", false),
		FFmpegBin:          getEnv("FFMPEG_BIN", "ffmpeg"),
		HTTPReadTimeout:    time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 15)),
		HTTPWriteTimeout:   time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 30)),
		HTTPIdleTimeout:    time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 60)),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	if cfg.WorkerConcurrency < 1 {
		cfg.WorkerConcurrency = 1
	}
	if cfg.MaxJobAttempts < 1 {
		cfg.MaxJobAttempts = 1
	}
	if cfg.DBMaxConns < 1 {
		cfg.DBMaxConns = 1
	}
	if cfg.DBMinConns < 0 {
		cfg.DBMinConns = 0
	}
	if cfg.DBMinConns > cfg.DBMaxConns {
		cfg.DBMinConns = cfg.DBMaxConns
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
