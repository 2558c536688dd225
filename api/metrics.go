package handler

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Submission outcomes besides the ErrorKind labels
const (
	outcomeSuccess          = "success"
	outcomeMethodNotAllowed = "method_not_allowed"
)

// Metrics holds all Prometheus metrics for the survey function
type Metrics struct {
	registry *prometheus.Registry

	Submissions      *prometheus.CounterVec
	UpstreamDuration *prometheus.HistogramVec
}

// NewMetrics creates the metrics on their own registry
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		Submissions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "managers_survey_submissions_total",
			Help: "Total number of survey submissions by outcome",
		}, []string{"outcome"}),
		UpstreamDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "managers_survey_upstream_duration_seconds",
			Help:    "Duration of Supabase calls",
			Buckets: prometheus.DefBuckets,
		}, []string{"operation"}),
	}
}

// RecordOutcome increments the submissions counter for outcome
func (m *Metrics) RecordOutcome(outcome string) {
	if m == nil {
		return
	}
	m.Submissions.WithLabelValues(outcome).Inc()
}

// ObserveUpstream records how long a Supabase call took
func (m *Metrics) ObserveUpstream(operation string, start time.Time) {
	if m == nil {
		return
	}
	m.UpstreamDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}

// Handler serves the registry in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
