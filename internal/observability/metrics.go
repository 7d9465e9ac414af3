package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "ctdo"

// Metrics holds the Prometheus counters, histograms, and gauges for the kriging service.
type Metrics struct {
	// Interpolation metrics.
	Interpolations        *prometheus.CounterVec // labels: variable, outcome={success,insufficient_data,failed,cancelled}
	InterpolationDuration prometheus.Histogram
	SurfaceCache          *prometheus.CounterVec // labels: result={hit,miss}

	// Dataset and grid loaded at startup.
	StationsLoaded prometheus.Gauge
	ReadingsLoaded prometheus.Gauge
	GridPoints     prometheus.Gauge

	// Geocoding metrics.
	GeocodeRequests    *prometheus.CounterVec // labels: outcome={success,error,empty}
	GeocodeAPIDuration prometheus.Histogram
	GeocodeEnabled     prometheus.Gauge
}

// NewMetrics creates and registers all service metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		Interpolations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "interpolations_total",
			Help:      "Surface interpolation requests by variable and outcome.",
		}, []string{"variable", "outcome"}),
		InterpolationDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "interpolation_duration_seconds",
			Help:      "Duration of a variogram fit plus grid evaluation.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}),
		SurfaceCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "surface_cache_total",
			Help:      "Surface cache lookups by result.",
		}, []string{"result"}),
		StationsLoaded: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "stations_loaded",
			Help:      "Number of stations in the loaded dataset.",
		}),
		ReadingsLoaded: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "readings_loaded",
			Help:      "Number of station x depth readings in the loaded dataset.",
		}),
		GridPoints: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "grid_points",
			Help:      "Number of points in the interpolation grid.",
		}),
		GeocodeRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "geocode_requests_total",
			Help:      "Reverse geocoding requests by outcome.",
		}, []string{"outcome"}),
		GeocodeAPIDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "geocode_api_duration_seconds",
			Help:      "Mapbox API request duration in seconds.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),
		GeocodeEnabled: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "geocode_enabled",
			Help:      "1 when station labelling is enabled, 0 otherwise.",
		}),
	}

	prometheus.MustRegister(
		m.Interpolations,
		m.InterpolationDuration,
		m.SurfaceCache,
		m.StationsLoaded,
		m.ReadingsLoaded,
		m.GridPoints,
		m.GeocodeRequests,
		m.GeocodeAPIDuration,
		m.GeocodeEnabled,
	)

	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		Interpolations:        prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: namespace, Name: "interpolations_total"}, []string{"variable", "outcome"}),
		InterpolationDuration: prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: namespace, Name: "interpolation_duration_seconds"}),
		SurfaceCache:          prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: namespace, Name: "surface_cache_total"}, []string{"result"}),
		StationsLoaded:        prometheus.NewGauge(prometheus.GaugeOpts{Namespace: namespace, Name: "stations_loaded"}),
		ReadingsLoaded:        prometheus.NewGauge(prometheus.GaugeOpts{Namespace: namespace, Name: "readings_loaded"}),
		GridPoints:            prometheus.NewGauge(prometheus.GaugeOpts{Namespace: namespace, Name: "grid_points"}),
		GeocodeRequests:       prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: namespace, Name: "geocode_requests_total"}, []string{"outcome"}),
		GeocodeAPIDuration:    prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: namespace, Name: "geocode_api_duration_seconds"}),
		GeocodeEnabled:        prometheus.NewGauge(prometheus.GaugeOpts{Namespace: namespace, Name: "geocode_enabled"}),
	}
}
