package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	httpadapter "github.com/couchcryptid/ctdo-kriging-service/internal/adapter/http"
	"github.com/couchcryptid/ctdo-kriging-service/internal/adapter/mapbox"
	"github.com/couchcryptid/ctdo-kriging-service/internal/config"
	"github.com/couchcryptid/ctdo-kriging-service/internal/dataset"
	"github.com/couchcryptid/ctdo-kriging-service/internal/domain"
	"github.com/couchcryptid/ctdo-kriging-service/internal/observability"
	"github.com/couchcryptid/ctdo-kriging-service/internal/surface"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	data, err := dataset.Load(cfg.DatasetPath, dataset.Options{Delimiter: cfg.DatasetDelimiter})
	if err != nil {
		logger.Error("failed to load dataset", "path", cfg.DatasetPath, "error", err)
		os.Exit(1)
	}
	metrics.StationsLoaded.Set(float64(len(data.Stations())))
	metrics.ReadingsLoaded.Set(float64(data.Len()))
	logger.Info("dataset loaded",
		"path", cfg.DatasetPath,
		"readings", data.Len(),
		"stations", len(data.Stations()),
		"depths", len(data.Depths()),
	)

	// The grid is shared read-only by every request.
	grid, err := domain.BuildGrid(cfg.GridNorthwest, cfg.GridSoutheast, cfg.GridStep)
	if err != nil {
		logger.Error("failed to build grid",
			"northwest", cfg.GridNorthwest,
			"southeast", cfg.GridSoutheast,
			"step", cfg.GridStep,
			"error", err,
		)
		os.Exit(1)
	}
	metrics.GridPoints.Set(float64(grid.Size()))
	logger.Info("grid built", "rows", grid.Rows(), "cols", grid.Cols(), "step", grid.Step())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Station place labels (feature-flagged via MAPBOX_ENABLED / MAPBOX_TOKEN).
	stations := data.Stations()
	if cfg.MapboxEnabled {
		metrics.GeocodeEnabled.Set(1)
		client := mapbox.NewClient(cfg.MapboxToken, cfg.MapboxTimeout, metrics, logger)
		stations = domain.LabelStations(ctx, stations, client, logger)
		logger.Info("mapbox station labels enabled", "timeout", cfg.MapboxTimeout)
	} else {
		logger.Info("mapbox station labels disabled")
	}

	engine := surface.New(data, grid, surface.Options{
		Lags:         cfg.VariogramLags,
		BoundsPolicy: cfg.BoundsPolicy,
	}, logger, metrics)

	var interpolator surface.Interpolator = engine
	if cfg.CacheEnabled {
		interpolator = surface.NewCachedEngine(engine, cfg.CacheTTL, metrics)
		logger.Info("surface cache enabled", "ttl", cfg.CacheTTL)
	}

	api := httpadapter.NewAPI(data, stations, grid, interpolator, logger)
	srv := httpadapter.NewServer(cfg.HTTPAddr, api, engine, cfg.AllowedOrigins, logger)

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}

	logger.Info("shutdown complete")
}
