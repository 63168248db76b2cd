// Package config loads process configuration from the environment, with an
// optional .env file for local development.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	ProviderOpenAI = "openai"
	ProviderLocal  = "local"
)

type Config struct {
	// Generation backend
	Provider   string
	APIKey     string
	BaseURL    string
	Model      string
	GenTimeout time.Duration

	// HTTP server
	Host string
	Port int

	// Session store; empty RedisAddr selects the in-memory store.
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	LogLevel string
}

func Load() (*Config, error) {
	// Missing .env is fine; the environment may already be populated.
	_ = godotenv.Load()

	cfg := &Config{
		Provider:      envOr("TRIPWEAVE_PROVIDER", ProviderLocal),
		APIKey:        os.Getenv("TRIPWEAVE_API_KEY"),
		BaseURL:       envOr("TRIPWEAVE_BASE_URL", "https://api.openai.com/v1"),
		Model:         envOr("TRIPWEAVE_MODEL", "gpt-4o-mini"),
		Host:          envOr("TRIPWEAVE_HOST", "127.0.0.1"),
		RedisAddr:     os.Getenv("TRIPWEAVE_REDIS_ADDR"),
		RedisPassword: os.Getenv("TRIPWEAVE_REDIS_PASSWORD"),
		LogLevel:      envOr("TRIPWEAVE_LOG_LEVEL", "info"),
	}

	var err error
	if cfg.Port, err = envInt("TRIPWEAVE_PORT", 8000); err != nil {
		return nil, err
	}
	if cfg.RedisDB, err = envInt("TRIPWEAVE_REDIS_DB", 0); err != nil {
		return nil, err
	}
	timeoutSec, err := envInt("TRIPWEAVE_GEN_TIMEOUT_SECONDS", 60)
	if err != nil {
		return nil, err
	}
	cfg.GenTimeout = time.Duration(timeoutSec) * time.Second

	if cfg.Provider == ProviderOpenAI && cfg.APIKey == "" {
		return nil, fmt.Errorf("TRIPWEAVE_API_KEY is required for provider %q", cfg.Provider)
	}
	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: expected an integer, got %q", key, v)
	}
	return n, nil
}
