package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultsWithEnvSecrets(t *testing.T) {
	t.Setenv("LLM_API_KEY", "gsk-test")
	t.Setenv("HUBSPOT_ACCESS_TOKEN", "pat-test")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "lead-agent", cfg.App.Name)
	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, "gsk-test", cfg.LLM.APIKey)
	assert.Equal(t, "https://api.groq.com/openai/v1", cfg.LLM.BaseURL)
	assert.Equal(t, "pat-test", cfg.HubSpot.AccessToken)
	assert.Equal(t, "https://api.hubapi.com", cfg.HubSpot.BaseURL)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("LLM_API_KEY", "gsk-test")
	t.Setenv("HUBSPOT_ACCESS_TOKEN", "pat-test")
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("REDIS_ENABLED", "true")
	t.Setenv("REDIS_ADDRESS", "redis:6379")
	t.Setenv("LOGGING_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.HTTP.Addr)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, "redis:6379", cfg.Redis.Address)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoad_MissingSecretsFails(t *testing.T) {
	t.Setenv("LLM_API_KEY", "")
	t.Setenv("HUBSPOT_ACCESS_TOKEN", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "LLM_API_KEY")
	assert.Contains(t, err.Error(), "HUBSPOT_ACCESS_TOKEN")
}

func TestRedisTTL(t *testing.T) {
	assert.Equal(t, 24*time.Hour, RedisConfig{}.TTL())
	assert.Equal(t, 24*time.Hour, RedisConfig{TTLHours: -1}.TTL())
	assert.Equal(t, 6*time.Hour, RedisConfig{TTLHours: 6}.TTL())
}
