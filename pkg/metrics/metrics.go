package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "surf_forecast"

// Metrics holds the Prometheus collectors for the forecast service.
// All helper methods are safe to call on a nil receiver so domain code can run without metrics.
type Metrics struct {
	ForecastRequests *prometheus.CounterVec // labels: outcome
	ComposeDuration  prometheus.Histogram

	// Raw blob access.
	BlobFetches       *prometheus.CounterVec   // labels: kind={atmospheric,oceanic}, outcome={ok,not_found,error}
	BlobFetchDuration *prometheus.HistogramVec // labels: kind
	SkippedSamples    *prometheus.CounterVec   // labels: kind

	CacheLookups *prometheus.CounterVec // labels: result={hit,miss,error}

	// Location index.
	LocationIndexSize prometheus.Gauge
	IndexRefreshes    *prometheus.CounterVec // labels: trigger, outcome
}

// NewMetrics creates and registers all collectors with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := build()
	prometheus.MustRegister(
		m.ForecastRequests,
		m.ComposeDuration,
		m.BlobFetches,
		m.BlobFetchDuration,
		m.SkippedSamples,
		m.CacheLookups,
		m.LocationIndexSize,
		m.IndexRefreshes,
	)
	return m
}

// NewForTesting creates unregistered collectors to avoid
// "already registered" panics when called from multiple tests.
func NewForTesting() *Metrics {
	return build()
}

func build() *Metrics {
	return &Metrics{
		ForecastRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "forecast_requests_total",
			Help:      "Forecast compositions by outcome.",
		}, []string{"outcome"}),
		ComposeDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "forecast_compose_duration_seconds",
			Help:      "End to end duration of one forecast composition.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),
		BlobFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "blob_fetches_total",
			Help:      "Raw blob reads by source kind and outcome.",
		}, []string{"kind", "outcome"}),
		BlobFetchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "blob_fetch_duration_seconds",
			Help:      "Raw blob read latency by source kind.",
			Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"kind"}),
		SkippedSamples: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "raw_samples_skipped_total",
			Help:      "Raw samples dropped because they were corrupt or truncated.",
		}, []string{"kind"}),
		CacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "forecast_cache_lookups_total",
			Help:      "Composed forecast cache lookups by result.",
		}, []string{"result"}),
		LocationIndexSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "location_index_size",
			Help:      "Number of locations in the active index.",
		}),
		IndexRefreshes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "location_index_refreshes_total",
			Help:      "Location index rebuilds by trigger and outcome.",
		}, []string{"trigger", "outcome"}),
	}
}

// ObserveForecast records one composition.
func (m *Metrics) ObserveForecast(outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.ForecastRequests.WithLabelValues(outcome).Inc()
	m.ComposeDuration.Observe(elapsed.Seconds())
}

// ObserveBlobFetch records one raw blob read.
func (m *Metrics) ObserveBlobFetch(kind, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.BlobFetches.WithLabelValues(kind, outcome).Inc()
	m.BlobFetchDuration.WithLabelValues(kind).Observe(elapsed.Seconds())
}

// AddSkippedSamples counts dropped raw samples.
func (m *Metrics) AddSkippedSamples(kind string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.SkippedSamples.WithLabelValues(kind).Add(float64(n))
}

// ObserveCache records a cache lookup result.
func (m *Metrics) ObserveCache(result string) {
	if m == nil {
		return
	}
	m.CacheLookups.WithLabelValues(result).Inc()
}

// ObserveIndexRefresh records an index rebuild and, on success, the new size.
func (m *Metrics) ObserveIndexRefresh(trigger string, size int, err error) {
	if m == nil {
		return
	}
	if err != nil {
		m.IndexRefreshes.WithLabelValues(trigger, "error").Inc()
		return
	}
	m.IndexRefreshes.WithLabelValues(trigger, "ok").Inc()
	m.LocationIndexSize.Set(float64(size))
}
