// Package config provides environment-based configuration for the vault admin API
// and file-based configuration for its command line client.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration for the admin API server.
type Config struct {
	// Database configuration
	DatabaseDSN string

	// Authentication
	JWTSecret string
	JWTExpiry time.Duration

	// Server configuration
	APIHost   string
	APIPort   int
	APIPrefix string

	// Graceful shutdown timeout
	ShutdownTimeout time.Duration

	// SigningLogPageSize caps the number of entries returned per list request.
	SigningLogPageSize int

	// Logging
	LogLevel  string
	LogFormat string
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := LoadWithDefaults()
	cfg.JWTSecret = getEnv("JWT_SECRET", "")

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that required configuration values are set.
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if len(c.JWTSecret) < 32 {
		return fmt.Errorf("JWT_SECRET must be at least 32 characters")
	}
	if c.SigningLogPageSize < 1 || c.SigningLogPageSize > 1000 {
		return fmt.Errorf("SIGNINGLOG_PAGE_SIZE must be between 1 and 1000, got %d", c.SigningLogPageSize)
	}
	if !strings.HasPrefix(c.APIPrefix, "/") {
		return fmt.Errorf("API_PREFIX must start with '/', got %q", c.APIPrefix)
	}
	return nil
}

// LoadWithDefaults loads configuration with defaults for development.
// It does not validate required fields, useful for testing.
func LoadWithDefaults() *Config {
	return &Config{
		DatabaseDSN:        getEnv("DATABASE_URL", "postgres://localhost:5432/signingvault?sslmode=disable"),
		JWTSecret:          getEnv("JWT_SECRET", "development-secret-key-min-32-chars"),
		JWTExpiry:          getDurationEnv("JWT_EXPIRY", 24*time.Hour),
		APIHost:            getEnv("API_HOST", "0.0.0.0"),
		APIPort:            getIntEnv("API_PORT", 8080),
		APIPrefix:          getEnv("API_PREFIX", "/1.0"),
		ShutdownTimeout:    getDurationEnv("SHUTDOWN_TIMEOUT", 30*time.Second),
		SigningLogPageSize: getIntEnv("SIGNINGLOG_PAGE_SIZE", 50),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		LogFormat:          getEnv("LOG_FORMAT", "json"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
