package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DBDSN             string
	Environment       string
	HTTPAddr          string
	RedisAddr         string
	SeatCacheTTL      time.Duration
	TelegramToken     string
	TelegramChatID    int64
	MigrationsEnabled bool
	RepairInterval    time.Duration
}

func Load() (*Config, error) {
	// Пытаемся загрузить .env файл (игнорируем ошибку, если файла нет)
	if err := godotenv.Load(".env"); err != nil {
		log.Println("⚠️  No .env file found, using environment variables")
	} else {
		log.Println("✅ Loaded configuration from .env file")
	}

	return fromEnv()
}

func fromEnv() (*Config, error) {
	cfg := &Config{
		DBDSN:         os.Getenv("DB_DSN"),
		Environment:   getEnv("ENV", "development"),
		HTTPAddr:      getEnv("HTTP_ADDR", ":8080"),
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		TelegramToken: os.Getenv("TELEGRAM_TOKEN"),
	}

	// Проверяем обязательные поля
	if cfg.DBDSN == "" {
		return nil, fmt.Errorf("DB_DSN is required but not set")
	}

	var err error
	if cfg.MigrationsEnabled, err = strconv.ParseBool(getEnv("MIGRATIONS_ENABLED", "true")); err != nil {
		return nil, fmt.Errorf("parse MIGRATIONS_ENABLED: %w", err)
	}
	if cfg.SeatCacheTTL, err = time.ParseDuration(getEnv("SEAT_CACHE_TTL", "30s")); err != nil {
		return nil, fmt.Errorf("parse SEAT_CACHE_TTL: %w", err)
	}
	if cfg.RepairInterval, err = time.ParseDuration(getEnv("SEAT_REPAIR_INTERVAL", "1h")); err != nil {
		return nil, fmt.Errorf("parse SEAT_REPAIR_INTERVAL: %w", err)
	}

	// Уведомления включаются только вместе с чатом
	if chat := os.Getenv("TELEGRAM_CHAT_ID"); chat != "" {
		if cfg.TelegramChatID, err = strconv.ParseInt(chat, 10, 64); err != nil {
			return nil, fmt.Errorf("parse TELEGRAM_CHAT_ID: %w", err)
		}
	}

	return cfg, nil
}

// NotificationsEnabled заданы и токен бота, и чат сотрудников
func (c *Config) NotificationsEnabled() bool {
	return c.TelegramToken != "" && c.TelegramChatID != 0
}

// CacheEnabled задан адрес Redis
func (c *Config) CacheEnabled() bool {
	return c.RedisAddr != ""
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
