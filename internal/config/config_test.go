package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnv_Defaults(t *testing.T) {
	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, CacheBackendMemory, cfg.CacheBackend)
	assert.Equal(t, 24*time.Hour, cfg.StateCacheTTL)
	assert.Equal(t, 5, cfg.RecommendationLimit)
	assert.Equal(t, 20, cfg.ExtendedRecommendationLimit)
	assert.Equal(t, 1, cfg.QuestionnaireVersion)
	assert.True(t, cfg.IsDevelopment())
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("CACHE_BACKEND", "badger")
	t.Setenv("STATE_CACHE_TTL", "90")
	t.Setenv("PREFERENCE_CACHE_TTL", "15m")
	t.Setenv("BREAKER_FAILURE_RATIO", "0.25")
	t.Setenv("RANDOM_SEED", "42")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, CacheBackendBadger, cfg.CacheBackend)
	assert.Equal(t, 90*time.Second, cfg.StateCacheTTL)
	assert.Equal(t, 15*time.Minute, cfg.PreferenceCacheTTL)
	assert.Equal(t, 0.25, cfg.BreakerFailureRatio)
	assert.Equal(t, int64(42), cfg.RandomSeed)
}

func TestFromEnv_Invalid(t *testing.T) {
	tests := map[string]map[string]string{
		"unknown cache backend":      {"CACHE_BACKEND": "redis"},
		"extended below top limit":   {"RECOMMENDATION_LIMIT": "10", "EXTENDED_RECOMMENDATION_LIMIT": "3"},
		"production without db":      {"ENVIRONMENT": "production"},
		"failure ratio out of range": {"BREAKER_FAILURE_RATIO": "1.5"},
	}

	for name, env := range tests {
		t.Run(name, func(t *testing.T) {
			for k, v := range env {
				t.Setenv(k, v)
			}
			_, err := FromEnv()
			assert.Error(t, err)
		})
	}
}
