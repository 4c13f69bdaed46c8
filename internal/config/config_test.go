package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("HTTP_ADDR", "")
	t.Setenv("PORT", "")
	t.Setenv("NEARBY_RADIUS_KM", "")
	t.Setenv("TRUST_PROXY_HEADERS", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, 10.0, cfg.NearbyRadiusKm)
	assert.Equal(t, 24*time.Hour, cfg.JWTExpiry)
	assert.Equal(t, time.Duration(0), cfg.ReferenceCacheTTL)
	assert.Equal(t, "citydirectory/changes", cfg.MQTTTopic)
	assert.False(t, cfg.TrustProxyHeaders)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("HTTP_ADDR", "")
	t.Setenv("PORT", "9090")
	t.Setenv("MONGO_DB", "directory_test")
	t.Setenv("NEARBY_RADIUS_KM", "5.5")
	t.Setenv("REFERENCE_CACHE_TTL", "10m")
	t.Setenv("RATE_LIMIT_MAX", "3")
	t.Setenv("LOG_LEVEL", " DEBUG ")
	t.Setenv("TRUST_PROXY_HEADERS", "true")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "directory_test", cfg.MongoDB)
	assert.Equal(t, 5.5, cfg.NearbyRadiusKm)
	assert.Equal(t, 10*time.Minute, cfg.ReferenceCacheTTL)
	assert.Equal(t, 3, cfg.RateLimitMax)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.True(t, cfg.TrustProxyHeaders)
}

func TestLoad_HTTPAddrBeatsPort(t *testing.T) {
	t.Setenv("HTTP_ADDR", "127.0.0.1:7000")
	t.Setenv("PORT", "9090")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:7000", cfg.HTTPAddr)
}

func TestLoad_CollectsErrors(t *testing.T) {
	t.Setenv("HTTP_READ_TIMEOUT", "soon")
	t.Setenv("NEARBY_RADIUS_KM", "far")
	t.Setenv("TRAVEL_SPEED_KMH", "-1")
	t.Setenv("TRUST_PROXY_HEADERS", "sometimes")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid HTTP_READ_TIMEOUT")
	assert.Contains(t, err.Error(), "invalid TRUST_PROXY_HEADERS")
	assert.Contains(t, err.Error(), "invalid NEARBY_RADIUS_KM")
	assert.Contains(t, err.Error(), "TRAVEL_SPEED_KMH must be > 0")
}
