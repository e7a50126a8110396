// Package metrics defines the Prometheus collectors used by the service and
// exposes an HTTP handler for scraping.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus collectors for the service.
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge
	AnalysesTotal        *prometheus.CounterVec
	FetchAttemptsTotal   *prometheus.CounterVec
	StageDuration        *prometheus.HistogramVec
	TokensPerDocument    prometheus.Histogram
	DistinctTokens       prometheus.Histogram
	EventsPublishedTotal *prometheus.CounterVec
}

// New creates all collectors and registers them, together with the Go and
// process collectors, on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests by method, path, and status.",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency in seconds.",
				Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
			},
			[]string{"method", "path"},
		),
		HTTPRequestsInFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed.",
			},
		),
		AnalysesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wordfreq_analyses_total",
				Help: "Total pipeline runs by outcome (ok, empty, timeout, error).",
			},
			[]string{"outcome"},
		),
		FetchAttemptsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wordfreq_fetch_attempts_total",
				Help: "Total HTTP fetch attempts by result (ok, status, timeout, network).",
			},
			[]string{"result"},
		),
		StageDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "wordfreq_stage_duration_seconds",
				Help:    "Pipeline stage latency in seconds.",
				Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30},
			},
			[]string{"stage"},
		),
		TokensPerDocument: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "wordfreq_tokens_per_document",
				Help:    "Number of tokens produced by segmentation per analysed page.",
				Buckets: prometheus.ExponentialBuckets(10, 4, 8),
			},
		),
		DistinctTokens: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "wordfreq_distinct_tokens",
				Help:    "Number of distinct tokens per analysed page.",
				Buckets: prometheus.ExponentialBuckets(10, 4, 7),
			},
		),
		EventsPublishedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wordfreq_events_published_total",
				Help: "Analysis events handed to Kafka by status (ok, error).",
			},
			[]string{"status"},
		),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.HTTPRequestsInFlight,
		m.AnalysesTotal,
		m.FetchAttemptsTotal,
		m.StageDuration,
		m.TokensPerDocument,
		m.DistinctTokens,
		m.EventsPublishedTotal,
	)

	return m
}

// ObserveStage records how long one pipeline stage took.
func (m *Metrics) ObserveStage(stage string, d time.Duration) {
	m.StageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

// ObserveFetchAttempt counts one HTTP attempt made by the fetcher.
func (m *Metrics) ObserveFetchAttempt(result string) {
	m.FetchAttemptsTotal.WithLabelValues(result).Inc()
}

// ObserveAnalysis records the outcome of one pipeline run.
func (m *Metrics) ObserveAnalysis(outcome string, tokens, distinct int) {
	m.AnalysesTotal.WithLabelValues(outcome).Inc()
	if outcome == "ok" {
		m.TokensPerDocument.Observe(float64(tokens))
		m.DistinctTokens.Observe(float64(distinct))
	}
}

// ObservePublish counts one event publication.
func (m *Metrics) ObservePublish(err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.EventsPublishedTotal.WithLabelValues(status).Inc()
}

// Handler returns the Prometheus scrape HTTP handler for this registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
