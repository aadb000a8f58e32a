package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
)

// Config carries process-scoped configuration. Every value is injected into
// the components that need it at startup; nothing reads the environment after
// FromEnv returns.
type Config struct {
	Addr        string
	Environment string
	DatabaseDSN string

	AuthSecret string
	TokenTTL   time.Duration

	AdminUsername string
	AdminPassword string
}

const defaultTokenTTL = 24 * time.Hour

// FromEnv builds a Config from TRACKER_* environment variables, applying
// defaults where a variable is unset.
func FromEnv() (Config, error) {
	cfg := Config{
		Addr:          getEnv("TRACKER_ADDR", ":8080"),
		Environment:   getEnv("TRACKER_ENV", "development"),
		DatabaseDSN:   strings.TrimSpace(os.Getenv("TRACKER_PG_DSN")),
		AuthSecret:    strings.TrimSpace(os.Getenv("TRACKER_AUTH_SECRET")),
		AdminUsername: getEnv("TRACKER_ADMIN_USERNAME", "admin"),
		AdminPassword: getEnv("TRACKER_ADMIN_PASSWORD", "admin123"),
		TokenTTL:      defaultTokenTTL,
	}

	if raw := strings.TrimSpace(os.Getenv("TRACKER_TOKEN_TTL")); raw != "" {
		ttl, err := time.ParseDuration(raw)
		if err != nil {
			return Config{}, fmt.Errorf("parse TRACKER_TOKEN_TTL: %w", err)
		}
		if ttl <= 0 {
			return Config{}, errors.New("TRACKER_TOKEN_TTL must be positive")
		}
		cfg.TokenTTL = ttl
	}

	if cfg.AuthSecret == "" {
		return Config{}, errors.New("TRACKER_AUTH_SECRET is required")
	}
	if cfg.DatabaseDSN == "" {
		return Config{}, errors.New("TRACKER_PG_DSN is required")
	}
	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists && strings.TrimSpace(value) != "" {
		return strings.TrimSpace(value)
	}
	return defaultValue
}
