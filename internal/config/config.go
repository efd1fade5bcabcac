// Package config loads all runtime configuration from environment variables.
// No config files and no third-party config framework are used.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all runtime configuration for snftrack.
type Config struct {
	HTTP    HTTPConfig
	DB      DBConfig
	Log     LogConfig
	Session SessionConfig
	App     AppConfig
	Worker  WorkerConfig
	OTel    OTelConfig
}

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	Port int
}

// DBConfig holds database connection configuration.
type DBConfig struct {
	Driver   string // "memory" (default), "sqlite", or "postgres"
	DSN      string // required when Driver == "postgres"
	File     string // SQLite database file path (default: "snftrack.db")
	MaxConns int    // Postgres only
}

// LogConfig controls structured logging output.
type LogConfig struct {
	Level  string
	Format string
}

// SessionConfig holds session cookie signing and expiry settings.
type SessionConfig struct {
	Secret string //nolint:gosec // intentional: holds the cookie signing secret loaded from env
	TTL    time.Duration
}

// AppConfig holds application-level settings such as seed credentials and
// the raw data directory.
type AppConfig struct {
	DataDir            string
	SeedAdminUsername  string
	SeedAdminPassword  string
	SeedClientUsername string
	SeedClientPassword string
}

// WorkerConfig holds background worker settings.
type WorkerConfig struct {
	Concurrency int
}

// OTelConfig holds OpenTelemetry exporter settings.
type OTelConfig struct {
	OTLPEndpoint string
}

// Load reads configuration from environment variables, applies defaults,
// and returns an error if any required field is absent.
func Load() (*Config, error) {
	cfg := &Config{}

	// HTTP
	cfg.HTTP.Port = envInt("HTTP_PORT", 8080)

	// DB
	cfg.DB.Driver = envStr("DB_DRIVER", "memory")
	cfg.DB.File = envStr("DB_FILE", "snftrack.db")
	cfg.DB.DSN = os.Getenv("DB_DSN")
	if cfg.DB.Driver == "postgres" && cfg.DB.DSN == "" {
		return nil, errors.New("DB_DSN is required when DB_DRIVER=postgres")
	}
	cfg.DB.MaxConns = envInt("DB_MAX_CONNS", 25)

	// Log
	cfg.Log.Level = envStr("LOG_LEVEL", "info")
	cfg.Log.Format = envStr("LOG_FORMAT", "json")

	// Session (secret required)
	cfg.Session.Secret = os.Getenv("SESSION_SECRET")
	if cfg.Session.Secret == "" {
		return nil, errors.New("SESSION_SECRET is required")
	}
	var err error
	cfg.Session.TTL, err = envDuration("SESSION_TTL", 24*time.Hour)
	if err != nil {
		return nil, fmt.Errorf("SESSION_TTL: %w", err)
	}

	// App
	cfg.App.DataDir = envStr("DATA_DIR", "data")
	cfg.App.SeedAdminUsername = envStr("SEED_ADMIN_USERNAME", "admin")
	cfg.App.SeedAdminPassword = os.Getenv("SEED_ADMIN_PASSWORD")
	cfg.App.SeedClientUsername = envStr("SEED_CLIENT_USERNAME", "facility")
	cfg.App.SeedClientPassword = os.Getenv("SEED_CLIENT_PASSWORD")

	// Worker
	cfg.Worker.Concurrency = envInt("WORKER_CONCURRENCY", 10)

	// OTel
	cfg.OTel.OTLPEndpoint = os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")

	return cfg, nil
}

func envStr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func envDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q: %w", v, err)
	}
	return d, nil
}
