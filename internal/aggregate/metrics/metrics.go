// Package metrics provides observability for the aggregate module.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the render-path instruments.
type Metrics struct {
	// Full dashboard render latency, filter to response.
	RenderLatency prometheus.Histogram

	// Render outcomes by status: ok, invalid_filter, error.
	RenderOutcome *prometheus.CounterVec
}

// New creates a Metrics instance with all aggregate module metrics registered.
func New() *Metrics {
	return &Metrics{
		RenderLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "agridash_render_duration_seconds",
			Help:    "Duration of dashboard aggregation per filter change",
			Buckets: []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1},
		}),
		RenderOutcome: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "agridash_render_outcomes_total",
			Help: "Total dashboard renders by outcome",
		}, []string{"status"}),
	}
}

// ObserveRender records one render's duration.
func (m *Metrics) ObserveRender(d time.Duration) {
	if m != nil {
		m.RenderLatency.Observe(d.Seconds())
	}
}

// IncrementOutcome records a render outcome.
func (m *Metrics) IncrementOutcome(status string) {
	if m != nil {
		m.RenderOutcome.WithLabelValues(status).Inc()
	}
}
