package core

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// PrometheusMetricsRecorder exports operation outcomes and latencies.
type PrometheusMetricsRecorder struct {
	Operations *prometheus.CounterVec
	Duration   *prometheus.HistogramVec
}

// NewPrometheusMetricsRecorder registers the service metrics with reg. A nil
// registerer uses the default registry.
func NewPrometheusMetricsRecorder(reg prometheus.Registerer) *PrometheusMetricsRecorder {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)
	return &PrometheusMetricsRecorder{
		Operations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "diocese_operations_total",
			Help: "Directory engine operations by name and result",
		}, []string{"operation", "result"}),
		Duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "diocese_operation_duration_seconds",
			Help:    "Duration of directory engine operations including storage round trips",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"operation"}),
	}
}

// Observe implements MetricsRecorder.
func (m *PrometheusMetricsRecorder) Observe(_ context.Context, operation string, success bool, duration time.Duration) {
	if m == nil || operation == "" {
		return
	}
	result := "success"
	if !success {
		result = "error"
	}
	m.Operations.WithLabelValues(operation, result).Inc()
	m.Duration.WithLabelValues(operation).Observe(duration.Seconds())
}
