package api

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/openmarket/orders/internal/shared/breaker"
)

// Config carries environment-driven settings for the API process.
type Config struct {
	Port                 string
	UserDirectoryBaseURL string
	CatalogBaseURL       string
	PoolWorkers          int
	PoolQueueDepth       int
	Breaker              breaker.Settings
}

// LoadConfig reads a local .env file if present, then environment variables,
// applying defaults and validating basic constraints.
func LoadConfig() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Port:                 envDefault("PORT", "8080"),
		UserDirectoryBaseURL: envDefault("USER_DIRECTORY_BASE_URL", "http://localhost:8081"),
		CatalogBaseURL:       envDefault("CATALOG_BASE_URL", "http://localhost:8082"),
		PoolWorkers:          4,
		PoolQueueDepth:       64,
	}
	var err error
	if cfg.PoolWorkers, err = envPositiveInt("POOL_WORKERS", cfg.PoolWorkers); err != nil {
		return Config{}, err
	}
	if cfg.PoolQueueDepth, err = envPositiveInt("POOL_QUEUE_DEPTH", cfg.PoolQueueDepth); err != nil {
		return Config{}, err
	}
	if cfg.Breaker.MinSamples, err = envPositiveInt("BREAKER_MIN_SAMPLES", 0); err != nil {
		return Config{}, err
	}
	if raw := strings.TrimSpace(os.Getenv("BREAKER_RESET_TIMEOUT")); raw != "" {
		timeout, err := time.ParseDuration(raw)
		if err != nil || timeout <= 0 {
			return Config{}, fmt.Errorf("BREAKER_RESET_TIMEOUT must be a positive duration")
		}
		cfg.Breaker.ResetTimeout = timeout
	}
	return cfg, nil
}

func envDefault(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}

func envPositiveInt(key string, fallback int) (int, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		return 0, fmt.Errorf("%s must be a positive integer", key)
	}
	return value, nil
}
