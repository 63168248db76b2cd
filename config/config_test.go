package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ProviderLocal, cfg.Provider)
	assert.Equal(t, "127.0.0.1", cfg.Host)
	assert.Equal(t, 8000, cfg.Port)
	assert.Equal(t, 60*time.Second, cfg.GenTimeout)
	assert.Empty(t, cfg.RedisAddr)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("TRIPWEAVE_PROVIDER", ProviderOpenAI)
	t.Setenv("TRIPWEAVE_API_KEY", "sk-test")
	t.Setenv("TRIPWEAVE_MODEL", "gpt-4o")
	t.Setenv("TRIPWEAVE_PORT", "9001")
	t.Setenv("TRIPWEAVE_REDIS_ADDR", "localhost:6379")
	t.Setenv("TRIPWEAVE_GEN_TIMEOUT_SECONDS", "15")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ProviderOpenAI, cfg.Provider)
	assert.Equal(t, "sk-test", cfg.APIKey)
	assert.Equal(t, "gpt-4o", cfg.Model)
	assert.Equal(t, 9001, cfg.Port)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.Equal(t, 15*time.Second, cfg.GenTimeout)
}

func TestLoadOpenAIRequiresAPIKey(t *testing.T) {
	t.Setenv("TRIPWEAVE_PROVIDER", ProviderOpenAI)
	t.Setenv("TRIPWEAVE_API_KEY", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TRIPWEAVE_API_KEY")
}

func TestLoadRejectsBadIntegers(t *testing.T) {
	t.Setenv("TRIPWEAVE_PORT", "eighty")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TRIPWEAVE_PORT")
}
