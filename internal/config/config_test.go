package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/ctdo-kriging-service/internal/domain"
)

const testMapboxToken = "pk.test-token"

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "data/ctdo_profiles.csv", cfg.DatasetPath)
	assert.Equal(t, ',', cfg.DatasetDelimiter)
	assert.Equal(t, domain.Coordinate{Lon: -73.6339, Lat: -42.6772}, cfg.GridNorthwest)
	assert.Equal(t, domain.Coordinate{Lon: -73.4832, Lat: -42.7561}, cfg.GridSoutheast)
	assert.InDelta(t, 0.01, cfg.GridStep, 1e-15)
	assert.Equal(t, 6, cfg.VariogramLags)
	assert.Equal(t, domain.BoundsFromDepth, cfg.BoundsPolicy)
	assert.False(t, cfg.CacheEnabled)
	assert.Equal(t, 10*time.Minute, cfg.CacheTTL)
	assert.Equal(t, []string{"*"}, cfg.AllowedOrigins)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.False(t, cfg.MapboxEnabled)
	assert.Empty(t, cfg.MapboxToken)
	assert.Equal(t, 5*time.Second, cfg.MapboxTimeout)
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("DATASET_PATH", "/srv/ctdo/pilpilehue.csv")
	t.Setenv("DATASET_DELIMITER", ";")
	t.Setenv("GRID_NORTHWEST", "-74.0, -42.5")
	t.Setenv("GRID_SOUTHEAST", "-73.5,-43.0")
	t.Setenv("GRID_STEP", "0.005")
	t.Setenv("VARIOGRAM_LAGS", "8")
	t.Setenv("COLOR_BOUNDS_POLICY", "dataset")
	t.Setenv("SURFACE_CACHE_ENABLED", "true")
	t.Setenv("SURFACE_CACHE_TTL", "1h")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://localhost:8050, https://dash.example.org")
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("SHUTDOWN_TIMEOUT", "30s")
	t.Setenv("MAPBOX_TOKEN", testMapboxToken)
	t.Setenv("MAPBOX_TIMEOUT", "10s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/srv/ctdo/pilpilehue.csv", cfg.DatasetPath)
	assert.Equal(t, ';', cfg.DatasetDelimiter)
	assert.Equal(t, domain.Coordinate{Lon: -74.0, Lat: -42.5}, cfg.GridNorthwest)
	assert.Equal(t, domain.Coordinate{Lon: -73.5, Lat: -43.0}, cfg.GridSoutheast)
	assert.InDelta(t, 0.005, cfg.GridStep, 1e-15)
	assert.Equal(t, 8, cfg.VariogramLags)
	assert.Equal(t, domain.BoundsFromDataset, cfg.BoundsPolicy)
	assert.True(t, cfg.CacheEnabled)
	assert.Equal(t, time.Hour, cfg.CacheTTL)
	assert.Equal(t, []string{"http://localhost:8050", "https://dash.example.org"}, cfg.AllowedOrigins)
	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.True(t, cfg.MapboxEnabled)
	assert.Equal(t, testMapboxToken, cfg.MapboxToken)
	assert.Equal(t, 10*time.Second, cfg.MapboxTimeout)
}

func TestLoad_InvalidShutdownTimeout(t *testing.T) {
	t.Setenv("SHUTDOWN_TIMEOUT", "not-a-duration")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SHUTDOWN_TIMEOUT")
}

func TestLoad_NegativeShutdownTimeout(t *testing.T) {
	t.Setenv("SHUTDOWN_TIMEOUT", "-1s")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SHUTDOWN_TIMEOUT")
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{"GRID_NORTHWEST", "-73.6339"},
		{"GRID_NORTHWEST", "west,-42.6"},
		{"GRID_SOUTHEAST", "-73.48,-142.0"},
		{"GRID_STEP", "0"},
		{"GRID_STEP", "fine"},
		{"VARIOGRAM_LAGS", "0"},
		{"VARIOGRAM_LAGS", "six"},
		{"COLOR_BOUNDS_POLICY", "surface"},
		{"SURFACE_CACHE_TTL", "-5m"},
		{"DATASET_DELIMITER", ";;"},
		{"DATASET_DELIMITER", `"`},
		{"MAPBOX_TIMEOUT", "bad"},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.key)
		})
	}
}

func TestLoad_TabDelimiter(t *testing.T) {
	t.Setenv("DATASET_DELIMITER", `\t`)
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, '\t', cfg.DatasetDelimiter)
}

func TestLoad_MapboxEnabledWithoutToken(t *testing.T) {
	t.Setenv("MAPBOX_ENABLED", "true")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MAPBOX_TOKEN")
}

func TestLoad_MapboxTokenImpliesEnabled(t *testing.T) {
	t.Setenv("MAPBOX_TOKEN", testMapboxToken)
	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.MapboxEnabled)
}

func TestLoad_MapboxExplicitlyDisabled(t *testing.T) {
	t.Setenv("MAPBOX_TOKEN", testMapboxToken)
	t.Setenv("MAPBOX_ENABLED", "false")
	cfg, err := Load()
	require.NoError(t, err)
	assert.False(t, cfg.MapboxEnabled)
}
