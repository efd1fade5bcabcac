package config_test

import (
	"os"
	"testing"
	"time"

	"github.com/gridwell/snftrack/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingSessionSecret(t *testing.T) {
	t.Setenv("SESSION_SECRET", "")
	_, err := config.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SESSION_SECRET")
}

func TestLoad_MissingDBDSN(t *testing.T) {
	// DB_DSN is only required when DB_DRIVER=postgres.
	t.Setenv("SESSION_SECRET", "test-secret")
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("DB_DSN", "")
	_, err := config.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DB_DSN")
}

func TestLoad_MemoryNoDBDSN(t *testing.T) {
	// The default in-memory driver needs no DSN.
	t.Setenv("SESSION_SECRET", "test-secret")
	t.Setenv("DB_DRIVER", "memory")
	t.Setenv("DB_DSN", "")
	_, err := config.Load()
	require.NoError(t, err)
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("SESSION_SECRET", "test-secret")
	// Clear optional vars to ensure defaults apply
	os.Unsetenv("HTTP_PORT")
	os.Unsetenv("LOG_LEVEL")
	os.Unsetenv("LOG_FORMAT")
	os.Unsetenv("DB_DRIVER")
	os.Unsetenv("DB_FILE")
	os.Unsetenv("SESSION_TTL")
	os.Unsetenv("DATA_DIR")
	os.Unsetenv("WORKER_CONCURRENCY")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.HTTP.Port)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "memory", cfg.DB.Driver)
	assert.Equal(t, "snftrack.db", cfg.DB.File)
	assert.Equal(t, 24*time.Hour, cfg.Session.TTL)
	assert.Equal(t, "data", cfg.App.DataDir)
	assert.Equal(t, "admin", cfg.App.SeedAdminUsername)
	assert.Equal(t, "facility", cfg.App.SeedClientUsername)
	assert.Equal(t, 10, cfg.Worker.Concurrency)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("SESSION_SECRET", "test-secret")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_FILE", "test.db")
	t.Setenv("SESSION_TTL", "45m")
	t.Setenv("DATA_DIR", "/tmp/rawdata")
	t.Setenv("WORKER_CONCURRENCY", "20")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, "sqlite", cfg.DB.Driver)
	assert.Equal(t, "test.db", cfg.DB.File)
	assert.Equal(t, 45*time.Minute, cfg.Session.TTL)
	assert.Equal(t, "/tmp/rawdata", cfg.App.DataDir)
	assert.Equal(t, 20, cfg.Worker.Concurrency)
}

func TestLoad_InvalidSessionTTL(t *testing.T) {
	t.Setenv("SESSION_SECRET", "test-secret")
	t.Setenv("SESSION_TTL", "not-a-duration")
	_, err := config.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SESSION_TTL")
}
