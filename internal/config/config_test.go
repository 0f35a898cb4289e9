package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("TOKEN_SECRET", "test-secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, StorageSQLite, cfg.StorageDriver)
	assert.Equal(t, "usersvc.db", cfg.DatabasePath)
	assert.Equal(t, "test-secret", cfg.TokenSecret)
	assert.Equal(t, 587, cfg.SMTPPort)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("TOKEN_SECRET", "test-secret")
	t.Setenv("SERVER_ADDR", ":9090")
	t.Setenv("STORAGE_DRIVER", "memory")
	t.Setenv("SMTP_PORT", "2525")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, StorageMemory, cfg.StorageDriver)
	assert.Equal(t, 2525, cfg.SMTPPort)
}

func TestLoad_MissingSecret(t *testing.T) {
	t.Setenv("TOKEN_SECRET", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_BadDriver(t *testing.T) {
	t.Setenv("TOKEN_SECRET", "test-secret")
	t.Setenv("STORAGE_DRIVER", "mongodb")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_BadInt(t *testing.T) {
	t.Setenv("TOKEN_SECRET", "test-secret")
	t.Setenv("SMTP_PORT", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)

	// Нечисловое значение игнорируется в пользу значения по умолчанию
	assert.Equal(t, 587, cfg.SMTPPort)
}
