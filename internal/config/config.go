package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"

	"github.com/couchcryptid/ctdo-kriging-service/internal/domain"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	DatasetPath      string
	DatasetDelimiter rune

	// Study area and interpolation settings.
	GridNorthwest  domain.Coordinate
	GridSoutheast  domain.Coordinate
	GridStep       float64
	VariogramLags  int
	BoundsPolicy   domain.BoundsPolicy
	CacheEnabled   bool
	CacheTTL       time.Duration
	AllowedOrigins []string

	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Mapbox geocoding configuration.
	MapboxToken   string
	MapboxEnabled bool
	MapboxTimeout time.Duration
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	mapboxTimeout, err := parsePositiveDuration("MAPBOX_TIMEOUT", "5s")
	if err != nil {
		return nil, err
	}
	cacheTTL, err := parsePositiveDuration("SURFACE_CACHE_TTL", "10m")
	if err != nil {
		return nil, err
	}

	delimiter, err := parseDelimiter(sharedcfg.EnvOrDefault("DATASET_DELIMITER", ","))
	if err != nil {
		return nil, err
	}

	northwest, err := parseCoordinate("GRID_NORTHWEST", sharedcfg.EnvOrDefault("GRID_NORTHWEST", "-73.6339,-42.6772"))
	if err != nil {
		return nil, err
	}
	southeast, err := parseCoordinate("GRID_SOUTHEAST", sharedcfg.EnvOrDefault("GRID_SOUTHEAST", "-73.4832,-42.7561"))
	if err != nil {
		return nil, err
	}

	step, err := strconv.ParseFloat(sharedcfg.EnvOrDefault("GRID_STEP", "0.01"), 64)
	if err != nil || step <= 0 {
		return nil, errors.New("invalid GRID_STEP")
	}

	lags, err := strconv.Atoi(sharedcfg.EnvOrDefault("VARIOGRAM_LAGS", "6"))
	if err != nil || lags < 1 {
		return nil, errors.New("invalid VARIOGRAM_LAGS")
	}

	policy, err := domain.ParseBoundsPolicy(sharedcfg.EnvOrDefault("COLOR_BOUNDS_POLICY", string(domain.BoundsFromDepth)))
	if err != nil {
		return nil, fmt.Errorf("COLOR_BOUNDS_POLICY: %w", err)
	}

	mapboxToken := os.Getenv("MAPBOX_TOKEN")
	mapboxEnabled := mapboxToken != ""
	if v := os.Getenv("MAPBOX_ENABLED"); v != "" {
		mapboxEnabled = v == "true"
	}

	cfg := &Config{
		DatasetPath:      sharedcfg.EnvOrDefault("DATASET_PATH", "data/ctdo_profiles.csv"),
		DatasetDelimiter: delimiter,
		GridNorthwest:    northwest,
		GridSoutheast:    southeast,
		GridStep:         step,
		VariogramLags:    lags,
		BoundsPolicy:     policy,
		CacheEnabled:     sharedcfg.EnvOrDefault("SURFACE_CACHE_ENABLED", "false") == "true",
		CacheTTL:         cacheTTL,
		AllowedOrigins:   splitList(sharedcfg.EnvOrDefault("CORS_ALLOWED_ORIGINS", "*")),
		HTTPAddr:         sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:         sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:        sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout:  shutdownTimeout,

		MapboxToken:   mapboxToken,
		MapboxEnabled: mapboxEnabled,
		MapboxTimeout: mapboxTimeout,
	}

	if cfg.DatasetPath == "" {
		return nil, errors.New("DATASET_PATH is required")
	}
	if cfg.MapboxEnabled && cfg.MapboxToken == "" {
		return nil, errors.New("MAPBOX_ENABLED is true but MAPBOX_TOKEN is not set")
	}

	return cfg, nil
}

func parsePositiveDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(sharedcfg.EnvOrDefault(key, def))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

// parseCoordinate reads a "lon,lat" pair.
func parseCoordinate(key, s string) (domain.Coordinate, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return domain.Coordinate{}, fmt.Errorf("invalid %s: want \"lon,lat\", got %q", key, s)
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil || lon < -180 || lon > 180 {
		return domain.Coordinate{}, fmt.Errorf("invalid %s longitude %q", key, parts[0])
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil || lat < -90 || lat > 90 {
		return domain.Coordinate{}, fmt.Errorf("invalid %s latitude %q", key, parts[1])
	}
	return domain.Coordinate{Lon: lon, Lat: lat}, nil
}

func parseDelimiter(s string) (rune, error) {
	if s == `\t` || s == "tab" {
		return '\t', nil
	}
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 || size != len(s) || r == '"' || r == '\r' || r == '\n' || r == utf8.RuneError {
		return 0, fmt.Errorf("invalid DATASET_DELIMITER %q", s)
	}
	return r, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
