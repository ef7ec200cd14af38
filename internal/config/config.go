package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPPort    string
	AppEnv      string
	LogLevel    string
	DatabaseDSN string // empty keeps every collection in memory only

	JWTSecret     string
	JWTExpiration time.Duration
	CORSOrigins   string

	DefaultCategory string
	AlertWindowDays int
	SeedDemoData    bool
}

const minSecretLength = 32

// Load reads an optional .env file and then the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		HTTPPort:        getEnv("HTTP_PORT", "8080"),
		AppEnv:          getEnv("APP_ENV", "development"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		DatabaseDSN:     getEnv("DATABASE_DSN", ""),
		JWTSecret:       getEnv("JWT_SECRET", ""),
		CORSOrigins:     getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
		DefaultCategory: getEnv("DEFAULT_CATEGORY", "Medicamento"),
	}

	var err error
	if cfg.JWTExpiration, err = time.ParseDuration(getEnv("JWT_EXPIRATION", "24h")); err != nil {
		return nil, fmt.Errorf("JWT_EXPIRATION: %w", err)
	}
	if cfg.AlertWindowDays, err = strconv.Atoi(getEnv("ALERT_EXPIRY_WINDOW_DAYS", "30")); err != nil {
		return nil, fmt.Errorf("ALERT_EXPIRY_WINDOW_DAYS: %w", err)
	}
	if cfg.SeedDemoData, err = strconv.ParseBool(getEnv("SEED_DEMO_DATA", "true")); err != nil {
		return nil, fmt.Errorf("SEED_DEMO_DATA: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is not set")
	}
	if len(c.JWTSecret) < minSecretLength {
		return fmt.Errorf("JWT_SECRET must be at least %d characters", minSecretLength)
	}
	if c.JWTExpiration <= 0 {
		return fmt.Errorf("JWT_EXPIRATION must be positive")
	}
	if c.AlertWindowDays < 0 {
		return fmt.Errorf("ALERT_EXPIRY_WINDOW_DAYS must not be negative")
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.AppEnv, "production")
}

// Origins splits CORS_ALLOWED_ORIGINS into trimmed entries.
func (c *Config) Origins() []string {
	var out []string
	for _, o := range strings.Split(c.CORSOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
