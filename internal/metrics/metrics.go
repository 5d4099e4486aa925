// Package metrics holds the Prometheus collectors for classification and
// outbound provider traffic. A nil *Metrics is valid and records nothing,
// which keeps wiring optional in tests and the offline CLI.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "wikinaturalist"

// Provider request outcomes.
const (
	OutcomeOK       = "ok"
	OutcomeNotFound = "not_found"
	OutcomeError    = "error"
)

// Metrics contains the application collectors and the registry they live in.
type Metrics struct {
	registry *prometheus.Registry

	Classifications  *prometheus.CounterVec
	NodesVisited     prometheus.Histogram
	ProviderRequests *prometheus.CounterVec
	ProviderDuration *prometheus.HistogramVec
	CacheLookups     *prometheus.CounterVec
}

// New creates the collectors and registers them on a private registry
// together with the Go runtime and process collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),

		Classifications: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "classifier",
				Name:      "classifications_total",
				Help:      "Total number of classified names by source and resulting group",
			},
			[]string{"source", "group"},
		),

		NodesVisited: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "resolver",
				Name:      "nodes_visited",
				Help:      "Graph nodes visited per name resolution",
				Buckets:   []float64{1, 2, 5, 10, 20, 50, 100, 200, 500},
			},
		),

		ProviderRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "provider",
				Name:      "requests_total",
				Help:      "Total number of outbound provider requests by outcome",
			},
			[]string{"provider", "outcome"},
		),

		ProviderDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "provider",
				Name:      "request_duration_seconds",
				Help:      "Outbound provider request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"provider"},
		),

		CacheLookups: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "cache",
				Name:      "lookups_total",
				Help:      "Claims cache lookups by result (hit/miss)",
			},
			[]string{"result"},
		),
	}

	m.registry.MustRegister(
		prometheus.NewGoCollector(),
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		m.Classifications,
		m.NodesVisited,
		m.ProviderRequests,
		m.ProviderDuration,
		m.CacheLookups,
	)

	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RecordClassification increments the classification counter.
func (m *Metrics) RecordClassification(source, group string) {
	if m == nil {
		return
	}
	m.Classifications.WithLabelValues(source, group).Inc()
}

// ObserveNodesVisited records how many graph nodes one resolution touched.
func (m *Metrics) ObserveNodesVisited(n int) {
	if m == nil {
		return
	}
	m.NodesVisited.Observe(float64(n))
}

// ObserveProviderRequest records one outbound request.
func (m *Metrics) ObserveProviderRequest(provider, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.ProviderRequests.WithLabelValues(provider, outcome).Inc()
	m.ProviderDuration.WithLabelValues(provider).Observe(d.Seconds())
}

// RecordCacheLookup counts a claims cache hit or miss.
func (m *Metrics) RecordCacheLookup(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.CacheLookups.WithLabelValues(result).Inc()
}
