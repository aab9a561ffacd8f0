package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("APP_ENV", "development")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 100, cfg.Search.CandidateLimit)
	assert.Equal(t, 2*time.Hour, cfg.Search.CategoryTTL)
	assert.Equal(t, 10*time.Minute, cfg.Search.CategoryCleanup)
	assert.Equal(t, 20, cfg.Search.CategoryLimit)
	assert.Equal(t, "listing", cfg.Search.ListingEventsTopic)
	assert.Equal(t, []string{"*"}, cfg.Server.CorsOrigins)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("SEARCH_RESULT_LIMIT", "50")
	t.Setenv("SEARCH_CATEGORY_TTL", "30m")
	t.Setenv("SERVER_CORS_ORIGINS", "https://a.example,https://b.example")
	t.Setenv("LOG_JSON", "true")
	t.Setenv("SEARCH_CANDIDATE_LIMIT", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 50, cfg.Search.ResultLimit)
	assert.Equal(t, 100, cfg.Search.CandidateLimit, "invalid values fall back to defaults")
	assert.Equal(t, 30*time.Minute, cfg.Search.CategoryTTL)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.CorsOrigins)
	assert.True(t, cfg.Log.JSON)
}

func TestValidate(t *testing.T) {
	t.Run("result limit above candidate limit", func(t *testing.T) {
		t.Setenv("SEARCH_RESULT_LIMIT", "500")
		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("default password outside development", func(t *testing.T) {
		t.Setenv("APP_ENV", "production")
		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("production with password", func(t *testing.T) {
		t.Setenv("APP_ENV", "production")
		t.Setenv("DB_PASSWORD", "s3cret")
		_, err := Load()
		assert.NoError(t, err)
	})
}
