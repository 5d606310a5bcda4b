package server

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Run outcomes used as the "outcome" label.
const (
	outcomeOK       = "ok"
	outcomeInvalid  = "invalid"
	outcomeRejected = "rejected"
	outcomeFailed   = "failed"
)

// Metrics collects simulation counters for the /metrics endpoint.
type Metrics struct {
	RunsTotal    *prometheus.CounterVec
	PathsTotal   prometheus.Counter
	RunDuration  prometheus.Histogram
	HTTPRequests *prometheus.CounterVec
	registry     *prometheus.Registry
}

// NewMetrics registers the simulation metrics on a fresh registry, so
// several servers can live in one process (tests do this).
func NewMetrics() *Metrics {
	m := &Metrics{
		RunsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "range_touch",
			Name:      "runs_total",
			Help:      "Simulation runs by outcome",
		}, []string{"outcome"}),
		PathsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "range_touch",
			Name:      "paths_simulated_total",
			Help:      "Price paths simulated by successful runs",
		}),
		RunDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "range_touch",
			Name:      "run_duration_seconds",
			Help:      "Wall time of successful simulation runs",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 10),
		}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "range_touch",
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status",
		}, []string{"route", "status"}),
		registry: prometheus.NewRegistry(),
	}
	m.registry.MustRegister(m.RunsTotal, m.PathsTotal, m.RunDuration, m.HTTPRequests)
	return m
}

// Registry exposes the registry backing /metrics.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
