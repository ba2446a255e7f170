package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://traubling@localhost/traubling")
	t.Setenv("JWT_ACCESS_SECRET", "access-secret-access-secret-access-secret")
	t.Setenv("JWT_REFRESH_SECRET", "refresh-secret-refresh-secret-refresh-secret")
	t.Setenv("AUTH_CALLBACK_SECRET", "callback")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "0.0.0.0:8080", cfg.Addr())
	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Equal(t, 30*time.Minute, cfg.AccessTokenTTL)
	assert.Equal(t, 24*time.Hour, cfg.RefreshTokenTTL)
	assert.Equal(t, "traubling.notifications", cfg.KafkaTopic)
	assert.Empty(t, cfg.KafkaBrokers)
	assert.Equal(t, 200, cfg.OutboxBatchSize)
}

func TestLoadMissingRequired(t *testing.T) {
	setRequired(t)
	t.Setenv("DATABASE_URL", "")

	_, err := Load()
	assert.ErrorContains(t, err, "DATABASE_URL")
}

func TestLoadOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("DB_DRIVER", "mysql")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092,")
	t.Setenv("RATE_LIMIT_RPS", "2.5")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.HTTPPort)
	assert.Equal(t, "mysql", cfg.DBDriver)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.KafkaBrokers)
	assert.InDelta(t, 2.5, cfg.RateLimitRPS, 0.0001)
}

func TestLoadInvalidNumber(t *testing.T) {
	setRequired(t)
	t.Setenv("HTTP_PORT", "eighty")

	_, err := Load()
	assert.ErrorContains(t, err, "HTTP_PORT")
}

func TestValidate(t *testing.T) {
	setRequired(t)
	cfg, err := Load()
	require.NoError(t, err)

	cfg.DBDriver = "oracle"
	cfg.JWTRefreshSecret = cfg.JWTAccessSecret
	cfg.SMTPHost = "smtp.example.com"

	err = cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DB_DRIVER")
	assert.Contains(t, err.Error(), "must differ")
	assert.Contains(t, err.Error(), "SMTP_FROM")
}
