// Package config загружает конфигурацию сервера из переменных окружения.
package config

import (
	"errors"
	"os"
	"strconv"
)

// Драйверы хранилища, выбираются при старте процесса.
const (
	StorageSQLite = "sqlite"
	StorageMemory = "memory"
)

// Config содержит конфигурацию сервера.
// TokenSecret загружается один раз при старте и не меняется до завершения
// процесса: один и тот же секрет подписывает и проверяет токены.
type Config struct {
	Addr          string
	StorageDriver string
	DatabasePath  string
	TokenSecret   string
	LogLevel      string

	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	MailFrom     string
}

// Load читает конфигурацию из переменных окружения.
func Load() (*Config, error) {
	cfg := &Config{
		Addr:          getString("SERVER_ADDR", ":8080"),
		StorageDriver: getString("STORAGE_DRIVER", StorageSQLite),
		DatabasePath:  getString("DATABASE_PATH", "usersvc.db"),
		TokenSecret:   getString("TOKEN_SECRET", ""),
		LogLevel:      getString("LOG_LEVEL", "info"),
		SMTPHost:      getString("SMTP_HOST", ""),
		SMTPPort:      getInt("SMTP_PORT", 587),
		SMTPUser:      getString("SMTP_USER", ""),
		SMTPPassword:  getString("SMTP_PASSWORD", ""),
		MailFrom:      getString("MAIL_FROM", "no-reply@example.com"),
	}

	if cfg.TokenSecret == "" {
		return nil, errors.New("TOKEN_SECRET is required")
	}

	if cfg.StorageDriver != StorageSQLite && cfg.StorageDriver != StorageMemory {
		return nil, errors.New("STORAGE_DRIVER must be sqlite or memory")
	}

	return cfg, nil
}

func getString(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}

	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
