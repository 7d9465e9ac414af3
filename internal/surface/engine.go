// Package surface turns a (depth, variable) selection into a kriged surface over
// the study grid.
package surface

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/ctdo-kriging-service/internal/dataset"
	"github.com/couchcryptid/ctdo-kriging-service/internal/domain"
	"github.com/couchcryptid/ctdo-kriging-service/internal/kriging"
	"github.com/couchcryptid/ctdo-kriging-service/internal/observability"
)

// Interpolation outcomes recorded in metrics.
const (
	outcomeSuccess          = "success"
	outcomeUnknownSelector  = "unknown_selector"
	outcomeInsufficientData = "insufficient_data"
	outcomeFailed           = "failed"
	outcomeCancelled        = "cancelled"
)

// Interpolator produces the surface for one selection.
type Interpolator interface {
	Interpolate(ctx context.Context, depth float64, variableKey string) (Surface, error)
}

// Surface is the kriged estimate of one variable at one depth. Values and
// Variances are indexed [lat][lon] to match LatLine and LonLine. A Surface is
// shared read-only once returned.
type Surface struct {
	Variable   domain.Variable         `json:"variable"`
	Depth      float64                 `json:"depth"`
	LonLine    []float64               `json:"lon"`
	LatLine    []float64               `json:"lat"`
	Values     [][]float64             `json:"values"`
	Variances  [][]float64             `json:"variances"`
	Samples    []domain.Sample         `json:"samples"`
	Model      kriging.LinearVariogram `json:"model"`
	Lags       []kriging.Lag           `json:"lags,omitempty"`
	Bounds     domain.Bounds           `json:"bounds"`
	ComputedAt time.Time               `json:"computed_at"`
}

// Options tunes the engine.
type Options struct {
	// Lags is the number of experimental variogram bins. Zero means kriging.DefaultLags.
	Lags int
	// BoundsPolicy picks the values behind the colour-scale bounds. Empty means depth.
	BoundsPolicy domain.BoundsPolicy
}

// Engine fits a fresh model per request against the shared dataset and grid.
// It holds no mutable state and is safe for concurrent use.
type Engine struct {
	data    *dataset.Dataset
	grid    domain.Grid
	opts    Options
	logger  *slog.Logger
	metrics *observability.Metrics
}

// New creates an Engine over an immutable dataset and grid.
func New(data *dataset.Dataset, grid domain.Grid, opts Options, logger *slog.Logger, metrics *observability.Metrics) *Engine {
	if opts.BoundsPolicy == "" {
		opts.BoundsPolicy = domain.BoundsFromDepth
	}
	return &Engine{
		data:    data,
		grid:    grid,
		opts:    opts,
		logger:  logger,
		metrics: metrics,
	}
}

// CheckReadiness returns nil once a dataset and a non-empty grid are in place.
func (e *Engine) CheckReadiness(_ context.Context) error {
	if e.data == nil || e.data.Len() == 0 {
		return errors.New("dataset not loaded")
	}
	if e.grid.Empty() {
		return domain.ErrDegenerateGrid
	}
	return nil
}

// Interpolate kriges variableKey at exactly depth over the grid. It fails with
// ErrUnknownSelector, ErrDegenerateGrid, ErrInsufficientData,
// ErrInterpolationFailed or the context error; a failure never carries a
// partial surface.
func (e *Engine) Interpolate(ctx context.Context, depth float64, variableKey string) (Surface, error) {
	v, err := domain.ResolveVariable(variableKey)
	if err != nil {
		e.metrics.Interpolations.WithLabelValues("unknown", outcomeUnknownSelector).Inc()
		return Surface{}, err
	}
	if e.grid.Empty() {
		e.metrics.Interpolations.WithLabelValues(v.Key, outcomeFailed).Inc()
		return Surface{}, domain.ErrDegenerateGrid
	}

	start := domain.Clock().Now()
	s, err := e.interpolate(ctx, depth, v)
	e.metrics.Interpolations.WithLabelValues(v.Key, outcome(err)).Inc()
	if err != nil {
		e.logger.Debug("interpolation failed",
			"variable", v.Key,
			"depth", depth,
			"error", err,
		)
		return Surface{}, err
	}

	elapsed := domain.Clock().Since(start)
	e.metrics.InterpolationDuration.Observe(elapsed.Seconds())
	e.logger.Debug("surface interpolated",
		"variable", v.Key,
		"depth", depth,
		"samples", len(s.Samples),
		"slope", s.Model.Slope,
		"nugget", s.Model.Nugget,
		"duration", elapsed,
	)
	return s, nil
}

func (e *Engine) interpolate(ctx context.Context, depth float64, v domain.Variable) (Surface, error) {
	samples := e.data.Samples(depth, v.Field)
	points := make([]kriging.Point, len(samples))
	for i, s := range samples {
		points[i] = kriging.Point{X: s.Lon, Y: s.Lat, Z: s.Value}
	}

	model, err := kriging.NewOrdinary(points, kriging.Options{Lags: e.opts.Lags})
	if err != nil {
		return Surface{}, fmt.Errorf("%s at depth %g: %w", v.Key, depth, err)
	}

	lonLine, latLine := e.grid.LonLine(), e.grid.LatLine()
	values, variances, err := model.Grid(ctx, lonLine, latLine)
	if err != nil {
		return Surface{}, fmt.Errorf("%s at depth %g: %w", v.Key, depth, err)
	}

	return Surface{
		Variable:   v,
		Depth:      depth,
		LonLine:    lonLine,
		LatLine:    latLine,
		Values:     values,
		Variances:  variances,
		Samples:    samples,
		Model:      model.Variogram(),
		Lags:       model.Lags(),
		Bounds:     e.bounds(v.Field, samples),
		ComputedAt: domain.Clock().Now().UTC(),
	}, nil
}

func (e *Engine) bounds(field domain.Field, samples []domain.Sample) domain.Bounds {
	if e.opts.BoundsPolicy == domain.BoundsFromDataset {
		return domain.DisplayBounds(e.data.Values(field))
	}
	values := make([]float64, len(samples))
	for i, s := range samples {
		values[i] = s.Value
	}
	return domain.DisplayBounds(values)
}

func outcome(err error) string {
	switch {
	case err == nil:
		return outcomeSuccess
	case errors.Is(err, domain.ErrInsufficientData):
		return outcomeInsufficientData
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return outcomeCancelled
	default:
		return outcomeFailed
	}
}
