// Package config loads server settings from the environment, with a .env file
// picked up for local development.
package config

import (
	"errors"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds every runtime setting of the server.
type Config struct {
	Port        string
	DBPath      string
	JWTSecret   string
	TokenTTL    time.Duration
	FrontendURL string
}

// Load reads the configuration. A missing .env file is fine; a missing
// JWT_SECRET is not.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return nil, errors.New("JWT_SECRET is required")
	}

	return &Config{
		Port:        getEnv("PORT", "8080"),
		DBPath:      getEnv("DB_PATH", "./data/billbook.db"),
		JWTSecret:   secret,
		TokenTTL:    getEnvDuration("TOKEN_TTL_HOURS", 168), // 7 days
		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:3000"),
	}, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvDuration(key string, fallbackHours int) time.Duration {
	if value := os.Getenv(key); value != "" {
		if hours, err := strconv.Atoi(value); err == nil && hours > 0 {
			return time.Duration(hours) * time.Hour
		}
		slog.Warn("Ignoring invalid duration", "key", key, "value", value)
	}
	return time.Duration(fallbackHours) * time.Hour
}
