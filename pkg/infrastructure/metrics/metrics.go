// Package metrics provides Prometheus metrics for planning runs and promise queries.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "mrp"

// Metrics holds the collectors registered for one registry
type Metrics struct {
	// RunsTotal tracks planning runs by status
	RunsTotal *prometheus.CounterVec
	// RunDuration tracks planning run duration in seconds
	RunDuration prometheus.Histogram
	// ShortagesTotal tracks shortages found by urgency
	ShortagesTotal *prometheus.CounterVec
	// SuggestionsTotal tracks procurement suggestions produced
	SuggestionsTotal prometheus.Counter
	// UnsourcedShortagesTotal tracks shortages skipped for lack of a supplier
	UnsourcedShortagesTotal prometheus.Counter
	// PromiseQueriesTotal tracks ATP/CTP queries by kind and outcome
	PromiseQueriesTotal *prometheus.CounterVec
	// PromiseQueryDuration tracks ATP/CTP query duration in seconds
	PromiseQueryDuration *prometheus.HistogramVec
	// BOMCacheRequests tracks BOM cache lookups by result
	BOMCacheRequests *prometheus.CounterVec
}

// New registers the planning collectors on reg
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		RunsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "planning",
				Name:      "runs_total",
				Help:      "Total number of planning runs by status",
			},
			[]string{"status"},
		),
		RunDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "planning",
				Name:      "run_duration_seconds",
				Help:      "Duration of planning runs in seconds",
				Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10, 30, 60, 120},
			},
		),
		ShortagesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "planning",
				Name:      "shortages_total",
				Help:      "Total number of shortages identified by urgency",
			},
			[]string{"urgency"},
		),
		SuggestionsTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "procurement",
				Name:      "suggestions_total",
				Help:      "Total number of procurement suggestions produced",
			},
		),
		UnsourcedShortagesTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "procurement",
				Name:      "unsourced_shortages_total",
				Help:      "Total number of shortages with no active supplier",
			},
		),
		PromiseQueriesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "promise",
				Name:      "queries_total",
				Help:      "Total number of ATP/CTP queries by kind and outcome",
			},
			[]string{"kind", "outcome"},
		),
		PromiseQueryDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "promise",
				Name:      "query_duration_seconds",
				Help:      "Duration of ATP/CTP queries in seconds",
				Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
			},
			[]string{"kind"},
		),
		BOMCacheRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "bom_cache",
				Name:      "requests_total",
				Help:      "Total number of BOM cache lookups by result",
			},
			[]string{"result"},
		),
	}
}

// ObserveRun records a finished planning run
func (m *Metrics) ObserveRun(status string, duration time.Duration) {
	m.RunsTotal.WithLabelValues(status).Inc()
	m.RunDuration.Observe(duration.Seconds())
}

// ObservePromise records a finished ATP or CTP query; outcome is e.g. fulfilled, short, error
func (m *Metrics) ObservePromise(kind, outcome string, duration time.Duration) {
	m.PromiseQueriesTotal.WithLabelValues(kind, outcome).Inc()
	m.PromiseQueryDuration.WithLabelValues(kind).Observe(duration.Seconds())
}
