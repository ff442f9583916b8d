package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsRegistry holds all Prometheus metrics for the stylist service
type MetricsRegistry struct {
	// HTTP Metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight *prometheus.GaugeVec

	// Palette cache metrics
	PaletteCacheHits   prometheus.Counter
	PaletteCacheMisses prometheus.Counter
	PaletteLoads       *prometheus.CounterVec
	PaletteSize        prometheus.Gauge

	// Colour pipeline metrics
	ExtractionDuration prometheus.Histogram
	ExtractionOutcomes *prometheus.CounterVec
	MatchesPerUpload   prometheus.Histogram

	// Pairing metrics
	PairingCandidates prometheus.Counter
	PairingOutcomes   *prometheus.CounterVec
	PairingDuration   prometheus.Histogram
}

// NewMetricsRegistry registers every metric with reg. Pass
// prometheus.DefaultRegisterer in the server and a fresh
// prometheus.NewRegistry() in tests.
func NewMetricsRegistry(reg prometheus.Registerer) *MetricsRegistry {
	factory := promauto.With(reg)

	return &MetricsRegistry{
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stylist_http_requests_total",
				Help: "Total HTTP requests processed by endpoint, method, and status code",
			},
			[]string{"endpoint", "method", "status_code"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "stylist_http_request_duration_seconds",
				Help:    "HTTP request latency distribution in seconds",
				Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"endpoint", "method"},
		),
		HTTPRequestsInFlight: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "stylist_http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed by method",
			},
			[]string{"method"},
		),

		PaletteCacheHits: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "stylist_palette_cache_hits_total",
				Help: "Palette lookups served from cache",
			},
		),
		PaletteCacheMisses: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "stylist_palette_cache_misses_total",
				Help: "Palette lookups that had to load from the store",
			},
		),
		PaletteLoads: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stylist_palette_loads_total",
				Help: "Palette loads from the store by result",
			},
			[]string{"result"},
		),
		PaletteSize: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "stylist_palette_colours",
				Help: "Number of colours in the most recently loaded palette",
			},
		),

		ExtractionDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "stylist_colour_extraction_duration_seconds",
				Help:    "Time spent preprocessing and clustering one upload",
				Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
		),
		ExtractionOutcomes: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stylist_colour_extractions_total",
				Help: "Colour derivations by outcome",
			},
			[]string{"outcome"},
		),
		MatchesPerUpload: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "stylist_palette_matches_per_upload",
				Help:    "Palette colours associated with each uploaded item",
				Buckets: []float64{0, 1, 2, 3, 5, 10},
			},
		),

		PairingCandidates: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "stylist_pairing_candidates_total",
				Help: "Candidate (top, bottom) combinations examined by the generator",
			},
		),
		PairingOutcomes: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stylist_pairing_outcomes_total",
				Help: "Generator results by outcome",
			},
			[]string{"outcome"},
		),
		PairingDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "stylist_pairing_duration_seconds",
				Help:    "Duration of one pairing generation run",
				Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30},
			},
		),
	}
}
