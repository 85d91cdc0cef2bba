// Package metrics holds the application-wide Prometheus instruments. Feature
// modules with richer needs (the aggregator) register their own.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the shared instruments.
type Metrics struct {
	// HTTP request latency by method and route pattern.
	HTTPLatency *prometheus.HistogramVec

	// Sessions created since process start.
	SessionsCreated prometheus.Counter

	// Exports served, by format (csv, xlsx) and table.
	Exports *prometheus.CounterVec

	// Chart PNGs rendered, by chart name.
	ChartsRendered *prometheus.CounterVec

	// Snapshots archived to the database.
	SnapshotsArchived prometheus.Counter
}

// New creates and registers all shared metrics.
func New() *Metrics {
	return &Metrics{
		HTTPLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "agridash_http_request_duration_seconds",
			Help:    "HTTP request duration by method and route",
			Buckets: []float64{0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"method", "route"}),

		SessionsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "agridash_sessions_created_total",
			Help: "Total dashboard sessions created",
		}),

		Exports: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "agridash_exports_total",
			Help: "Total table exports served by format and table",
		}, []string{"format", "table"}),

		ChartsRendered: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "agridash_charts_rendered_total",
			Help: "Total chart images rendered by chart name",
		}, []string{"chart"}),

		SnapshotsArchived: promauto.NewCounter(prometheus.CounterOpts{
			Name: "agridash_snapshots_archived_total",
			Help: "Total snapshots persisted to the archive",
		}),
	}
}

// ObserveHTTP records one request's duration.
func (m *Metrics) ObserveHTTP(method, route string, d time.Duration) {
	if m != nil {
		m.HTTPLatency.WithLabelValues(method, route).Observe(d.Seconds())
	}
}

// IncrementSessions records a session creation.
func (m *Metrics) IncrementSessions() {
	if m != nil {
		m.SessionsCreated.Inc()
	}
}

// IncrementExports records one served export.
func (m *Metrics) IncrementExports(format, table string) {
	if m != nil {
		m.Exports.WithLabelValues(format, table).Inc()
	}
}

// IncrementCharts records one rendered chart.
func (m *Metrics) IncrementCharts(chart string) {
	if m != nil {
		m.ChartsRendered.WithLabelValues(chart).Inc()
	}
}

// IncrementArchived records one archived snapshot.
func (m *Metrics) IncrementArchived() {
	if m != nil {
		m.SnapshotsArchived.Inc()
	}
}
