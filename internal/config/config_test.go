package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	for _, key := range []string{
		"DB_DSN", "ENV", "HTTP_ADDR", "REDIS_ADDR", "SEAT_CACHE_TTL", "TELEGRAM_TOKEN",
		"TELEGRAM_CHAT_ID", "MIGRATIONS_ENABLED", "SEAT_REPAIR_INTERVAL",
	} {
		t.Setenv(key, "")
	}
}

func TestFromEnv_Defaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("DB_DSN", "postgres://localhost/bookticket")

	cfg, err := fromEnv()
	require.NoError(t, err)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, 30*time.Second, cfg.SeatCacheTTL)
	assert.Equal(t, time.Hour, cfg.RepairInterval)
	assert.True(t, cfg.MigrationsEnabled)
	assert.False(t, cfg.CacheEnabled())
	assert.False(t, cfg.NotificationsEnabled())
}

func TestFromEnv_MissingDSN(t *testing.T) {
	clearEnv(t)

	_, err := fromEnv()
	assert.ErrorContains(t, err, "DB_DSN")
}

func TestFromEnv_Notifications(t *testing.T) {
	clearEnv(t)
	t.Setenv("DB_DSN", "postgres://localhost/bookticket")
	t.Setenv("TELEGRAM_TOKEN", "123:abc")
	t.Setenv("TELEGRAM_CHAT_ID", "-100200300")
	t.Setenv("REDIS_ADDR", "localhost:6379")

	cfg, err := fromEnv()
	require.NoError(t, err)
	assert.Equal(t, int64(-100200300), cfg.TelegramChatID)
	assert.True(t, cfg.NotificationsEnabled())
	assert.True(t, cfg.CacheEnabled())
}

func TestFromEnv_InvalidChatID(t *testing.T) {
	clearEnv(t)
	t.Setenv("DB_DSN", "postgres://localhost/bookticket")
	t.Setenv("TELEGRAM_CHAT_ID", "staff")

	_, err := fromEnv()
	assert.ErrorContains(t, err, "TELEGRAM_CHAT_ID")
}
