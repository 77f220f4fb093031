package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadRequiresSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	for _, k := range []string{"PORT", "WEB_PORT", "DATABASE_URL", "REDIS_ADDR", "SESSION_TTL", "REMINDER_SCHEDULE", "RATE_LIMIT_RPS"} {
		t.Setenv(k, "")
	}

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "50051", cfg.GRPCPort)
	assert.Equal(t, "8080", cfg.WebPort)
	assert.Empty(t, cfg.DatabaseURL)
	assert.Empty(t, cfg.RedisAddr)
	assert.Equal(t, time.Duration(0), cfg.SessionTTL)
	assert.Equal(t, "0 * * * *", cfg.ReminderSchedule)
	assert.Equal(t, 5.0, cfg.RateLimitRPS)
	assert.Equal(t, 10, cfg.RateLimitBurst)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("SESSION_TTL", "12h")
	t.Setenv("RATE_LIMIT_BURST", "3")
	t.Setenv("SMTP_PORT", "not-a-number")
	t.Setenv("REDIS_ADDR", "localhost:6379")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 12*time.Hour, cfg.SessionTTL)
	assert.Equal(t, 3, cfg.RateLimitBurst)
	assert.Equal(t, 587, cfg.SMTPPort, "bad values fall back to defaults")
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
}
