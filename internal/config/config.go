package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type AppConfig struct {
	// Artifact locations. Each may be a local file path or an http(s) URL
	// fetched once at startup.
	ModelPath      string
	MetadataPath   string
	HistoricalPath string

	// StaticDir holds the optional web UI; it is only mounted when present.
	StaticDir string

	Port string

	// RequestTimeout bounds a single prediction call.
	RequestTimeout time.Duration

	// HTTPTimeout applies to outbound artifact fetches.
	HTTPTimeout time.Duration

	// FetchMaxRetries controls retries for remote artifact fetches.
	FetchMaxRetries int

	// StatsInterval controls how often the counter heartbeat is logged.
	StatsInterval time.Duration

	// AllowedOrigins configures CORS for the browser frontend.
	AllowedOrigins string
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}

	cfg := &AppConfig{}

	cfg.ModelPath = getenvDefault("MODEL_PATH", "models/ensemble_model.json")
	cfg.MetadataPath = getenvDefault("METADATA_PATH", "models/feature_metadata.yaml")
	cfg.HistoricalPath = getenvDefault("HISTORICAL_PATH", "data/historical_temps.csv")
	cfg.StaticDir = getenvDefault("STATIC_DIR", "static")

	cfg.Port = getenvDefault("PORT", "8000")
	cfg.AllowedOrigins = getenvDefault("ALLOWED_ORIGINS", "*")
	cfg.FetchMaxRetries = getenvInt("FETCH_MAX_RETRIES", 3)

	var err error
	if cfg.RequestTimeout, err = getenvDuration("REQUEST_TIMEOUT", "5s"); err != nil {
		return nil, fmt.Errorf("invalid REQUEST_TIMEOUT: %w", err)
	}
	if cfg.HTTPTimeout, err = getenvDuration("HTTP_TIMEOUT", "30s"); err != nil {
		return nil, fmt.Errorf("invalid HTTP_TIMEOUT: %w", err)
	}
	if cfg.StatsInterval, err = getenvDuration("STATS_INTERVAL", "1m"); err != nil {
		return nil, fmt.Errorf("invalid STATS_INTERVAL: %w", err)
	}

	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}

func getenvDuration(key, def string) (time.Duration, error) {
	return time.ParseDuration(getenvDefault(key, def))
}
