package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("BACKEND_URL", "http://backend.local/api")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, DataSourceHTTP, cfg.DataSource)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, 10*time.Second, cfg.BackendTimeout)
	assert.Equal(t, time.Hour, cfg.BookingDuration)
	assert.Equal(t, "Asia/Kolkata", cfg.Location().String())
	assert.Error(t, cfg.RequireTelegram())
}

func TestLoad_Postgres(t *testing.T) {
	t.Setenv("DATA_SOURCE", "postgres")
	t.Setenv("DB_DSN", "")

	_, err := Load()
	assert.ErrorContains(t, err, "DB_DSN")

	t.Setenv("DB_DSN", "postgres://localhost/priests")
	t.Setenv("TIMEZONE", "UTC")
	t.Setenv("SESSION_IDLE_TIMEOUT", "5m")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 5*time.Minute, cfg.SessionIdleTimeout)
	assert.Equal(t, time.UTC, cfg.Location())
}

func TestLoad_Invalid(t *testing.T) {
	t.Setenv("BACKEND_URL", "http://backend.local")

	t.Setenv("BOOKING_DURATION", "an hour")
	_, err := Load()
	assert.ErrorContains(t, err, "BOOKING_DURATION")

	t.Setenv("BOOKING_DURATION", "")
	t.Setenv("DATA_SOURCE", "mongo")
	_, err = Load()
	assert.ErrorContains(t, err, "DATA_SOURCE")

	t.Setenv("DATA_SOURCE", "")
	t.Setenv("TIMEZONE", "Mars/Olympus")
	_, err = Load()
	assert.ErrorContains(t, err, "TIMEZONE")

	t.Setenv("TIMEZONE", "")
	t.Setenv("LOG_LEVEL", "loud")
	_, err = Load()
	assert.ErrorContains(t, err, "LOG_LEVEL")

	t.Setenv("LOG_LEVEL", "WARN")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "WARN", cfg.LogLevel)
}
