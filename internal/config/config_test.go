package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Setenv("DB_HOST", "test-host")
	t.Setenv("DB_MAX_OPEN_CONNS", "20")
	t.Setenv("MINIO_USE_SSL", "true")
	t.Setenv("BOOKING_CONFIRMATION_WINDOW", "24h")
	t.Setenv("REDIS_ADDR", "localhost:6379")

	cfg := Load()

	assert.Equal(t, "test-host", cfg.Database.Host)
	assert.Equal(t, 20, cfg.Database.MaxOpenConns)
	assert.True(t, cfg.MinIO.UseSSL)
	assert.Equal(t, 24*time.Hour, cfg.Booking.ConfirmationWindow)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
}

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, 48*time.Hour, cfg.Booking.ConfirmationWindow)
	assert.Equal(t, "@every 5m", cfg.Booking.ExpirySchedule)
	assert.Equal(t, 7*24*time.Hour, cfg.Auth.SessionTTL)
}

func TestValidate(t *testing.T) {
	t.Run("development gets a fallback secret", func(t *testing.T) {
		cfg := &AppConfig{Env: "development", Auth: AuthConfig{SessionTTL: time.Hour}, Booking: BookingConfig{ConfirmationWindow: time.Hour}}
		require.NoError(t, cfg.Validate())
		assert.NotEmpty(t, cfg.Auth.JWTSecret)
	})

	t.Run("production requires a secret", func(t *testing.T) {
		cfg := &AppConfig{Env: "production", Auth: AuthConfig{SessionTTL: time.Hour}, Booking: BookingConfig{ConfirmationWindow: time.Hour}}
		assert.Error(t, cfg.Validate())
	})

	t.Run("non-positive window", func(t *testing.T) {
		cfg := &AppConfig{Auth: AuthConfig{JWTSecret: "s", SessionTTL: time.Hour}}
		assert.Error(t, cfg.Validate())
	})
}

func TestGetEnv(t *testing.T) {
	key := "TEST_ENV_VAR"
	os.Setenv(key, "value")
	defer os.Unsetenv(key)

	assert.Equal(t, "value", getEnv(key, "default"))
	assert.Equal(t, "default", getEnv("NON_EXISTENT", "default"))
}

func TestGetEnvBool(t *testing.T) {
	key := "TEST_BOOL_VAR"

	os.Setenv(key, "true")
	assert.True(t, getEnvBool(key, false))

	os.Setenv(key, "false")
	assert.False(t, getEnvBool(key, true))

	os.Setenv(key, "invalid")
	assert.True(t, getEnvBool(key, true))

	os.Unsetenv(key)
	assert.True(t, getEnvBool(key, true))
}

func TestGetEnvInt(t *testing.T) {
	key := "TEST_INT_VAR"

	os.Setenv(key, "123")
	assert.Equal(t, 123, getEnvInt(key, 0))

	os.Setenv(key, "invalid")
	assert.Equal(t, 10, getEnvInt(key, 10))

	os.Unsetenv(key)
	assert.Equal(t, 10, getEnvInt(key, 10))
}

func TestGetEnvDuration(t *testing.T) {
	key := "TEST_DURATION_VAR"

	os.Setenv(key, "90m")
	assert.Equal(t, 90*time.Minute, getEnvDuration(key, time.Second))

	os.Setenv(key, "soon")
	assert.Equal(t, time.Second, getEnvDuration(key, time.Second))

	os.Unsetenv(key)
	assert.Equal(t, time.Second, getEnvDuration(key, time.Second))
}
