package observability

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// pipeline. Every metric is registered on a private registry so values can be
// exported to a node-exporter textfile at the end of a batch run.
type Metrics struct {
	registry *prometheus.Registry

	// Collection metrics.
	PostsFetched   *prometheus.CounterVec // labels: subreddit
	PostsKept      *prometheus.CounterVec // labels: subreddit
	PostsDuplicate prometheus.Counter
	FetchErrors    *prometheus.CounterVec // labels: subreddit

	// Classification metrics.
	PostsClassified *prometheus.CounterVec // labels: sentiment, risk_level

	// Location metrics.
	PlacesExtracted    prometheus.Counter
	GeocodeRequests    *prometheus.CounterVec // labels: outcome={success,empty,error}
	GeocodeCache       *prometheus.CounterVec // labels: result={hit,miss}
	GeocodeAPIDuration prometheus.Histogram

	// Stage metrics.
	StageRuns     *prometheus.CounterVec   // labels: stage, outcome={success,error}
	StageDuration *prometheus.HistogramVec // labels: stage
}

// NewMetrics creates all pipeline metrics registered on a fresh private registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		PostsFetched: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "crisis_etl",
			Name:      "posts_fetched_total",
			Help:      "Total posts fetched from subreddit listings.",
		}, []string{"subreddit"}),
		PostsKept: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "crisis_etl",
			Name:      "posts_kept_total",
			Help:      "Total posts kept after keyword filtering and deduplication.",
		}, []string{"subreddit"}),
		PostsDuplicate: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "crisis_etl",
			Name:      "posts_duplicate_total",
			Help:      "Total posts dropped because their id was already collected.",
		}),
		FetchErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "crisis_etl",
			Name:      "fetch_errors_total",
			Help:      "Subreddit fetches that failed and were skipped.",
		}, []string{"subreddit"}),
		PostsClassified: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "crisis_etl",
			Name:      "posts_classified_total",
			Help:      "Posts labeled by the classifier, by sentiment and risk level.",
		}, []string{"sentiment", "risk_level"}),
		PlacesExtracted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "crisis_etl",
			Name:      "places_extracted_total",
			Help:      "Place mentions extracted from post content.",
		}),
		GeocodeRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "crisis_etl",
			Name:      "geocode_requests_total",
			Help:      "Geocoding API requests by outcome.",
		}, []string{"outcome"}),
		GeocodeCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "crisis_etl",
			Name:      "geocode_cache_total",
			Help:      "Geocoding cache lookups by result.",
		}, []string{"result"}),
		GeocodeAPIDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "crisis_etl",
			Name:      "geocode_api_duration_seconds",
			Help:      "Nominatim API request duration in seconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		StageRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "crisis_etl",
			Name:      "stage_runs_total",
			Help:      "Stage executions by outcome.",
		}, []string{"stage", "outcome"}),
		StageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "crisis_etl",
			Name:      "stage_duration_seconds",
			Help:      "Duration of a complete stage run.",
			Buckets:   []float64{0.1, 0.5, 1, 5, 15, 30, 60, 120, 300},
		}, []string{"stage"}),
	}

	m.registry.MustRegister(
		m.PostsFetched,
		m.PostsKept,
		m.PostsDuplicate,
		m.FetchErrors,
		m.PostsClassified,
		m.PlacesExtracted,
		m.GeocodeRequests,
		m.GeocodeCache,
		m.GeocodeAPIDuration,
		m.StageRuns,
		m.StageDuration,
	)

	return m
}

// NewMetricsForTesting creates Metrics on a fresh registry. Each call is
// fully isolated, so parallel tests never trip "already registered" panics.
func NewMetricsForTesting() *Metrics {
	return NewMetrics()
}

// WriteTextfile exports current metric values in the node-exporter textfile
// collector format. An empty path disables the export.
func (m *Metrics) WriteTextfile(path string) error {
	if path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
