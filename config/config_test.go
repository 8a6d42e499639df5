package config

import (
	"testing"

	logrustest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("CI", "")
	t.Setenv("ENV", string(Development))
	t.Setenv("JWT_SECRET", "")
	t.Setenv("DB_NAME", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.ServerHost)
	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, "localhost", cfg.DBHost)
	assert.Equal(t, "foodgram", cfg.DBName)
	assert.Equal(t, "media", cfg.MediaDir)
	assert.Equal(t, "info", cfg.LogLevel)
	// Development falls back to a fixed secret.
	assert.NotEmpty(t, cfg.JWTSecret)
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("CI", "")
	t.Setenv("ENV", string(Development))
	t.Setenv("SERVER_PORT", "9000")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_USER", "foodgram")
	t.Setenv("DB_PASSWORD", "hunter2")
	t.Setenv("DB_NAME", "foodgram_prod")
	t.Setenv("JWT_SECRET", "super-secret")
	t.Setenv("REDIS_DB", "2")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.ServerPort)
	assert.Equal(t, "super-secret", cfg.JWTSecret)
	assert.Equal(t, 2, cfg.RedisDB)
	assert.Contains(t, cfg.DSN(), "host=db.internal")
	assert.Contains(t, cfg.DSN(), "user=foodgram")
	assert.Contains(t, cfg.DSN(), "dbname=foodgram_prod")
}

func TestLoadConfigTestEnvironment(t *testing.T) {
	t.Setenv("CI", "")
	t.Setenv("ENV", string(Test))
	t.Setenv("JWT_SECRET", "")

	hook := logrustest.NewGlobal()
	defer hook.Reset()

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.NotEmpty(t, cfg.JWTSecret)
	// The insecure-secret warning stays out of test output.
	assert.Empty(t, hook.AllEntries())
}

func TestLoadConfigProductionRequiresSecret(t *testing.T) {
	t.Setenv("CI", "")
	t.Setenv("ENV", string(Production))
	t.Setenv("JWT_SECRET", "")

	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestLoadConfigRejectsBadRedisDB(t *testing.T) {
	t.Setenv("CI", "")
	t.Setenv("ENV", string(Development))
	t.Setenv("REDIS_DB", "not-a-number")

	_, err := LoadConfig()
	assert.Error(t, err)
}
