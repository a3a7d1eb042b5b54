package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "frankfurter", cfg.Upstream.Provider)
	assert.Equal(t, 30*time.Minute, cfg.Cache.LatestTTL)
	assert.Equal(t, 24*time.Hour, cfg.Cache.HistoricalTTL)
	assert.Equal(t, 100, cfg.RateLimit.Limit)
	assert.Equal(t, 60*time.Second, cfg.RateLimit.Window)
	assert.Equal(t, 3, cfg.Resilience.MaxRetries)
	assert.Equal(t, 0.5, cfg.Resilience.FailureRatio)
	assert.Equal(t, time.Minute, cfg.Resilience.SamplingWindow)
	assert.Equal(t, uint32(10), cfg.Resilience.MinimumThroughput)
	assert.Equal(t, 30*time.Second, cfg.Resilience.BreakDuration)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("RATE_LIMIT_REQUESTS", "5")
	t.Setenv("CACHE_LATEST_TTL", "10m")
	t.Setenv("UPSTREAM_PROVIDER", "exchangerate-host")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 5, cfg.RateLimit.Limit)
	assert.Equal(t, 10*time.Minute, cfg.Cache.LatestTTL)
	assert.Equal(t, "exchangerate-host", cfg.Upstream.Provider)
}
