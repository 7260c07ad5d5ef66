package graph

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// GraphMetrics holds Prometheus metrics for graph builds and evaluations.
type GraphMetrics struct {
	buildsTotal        *prometheus.CounterVec
	nodesGauge         prometheus.Gauge
	edgesGauge         prometheus.Gauge
	generationGauge    prometheus.Gauge
	evaluationsTotal   *prometheus.CounterVec
	evaluationDuration *prometheus.HistogramVec
	diagnosticsTotal   *prometheus.CounterVec
}

var (
	graphMetricsInstance *GraphMetrics
	graphMetricsOnce     sync.Once
)

// GetGraphMetrics returns the singleton graph metrics instance.
func GetGraphMetrics() *GraphMetrics {
	graphMetricsOnce.Do(func() {
		graphMetricsInstance = newGraphMetrics()
	})
	return graphMetricsInstance
}

// MustRegister registers all graph metric collectors with the given
// Prometheus registry, for hosts serving /metrics from a custom registry
// rather than the default global one.
func (m *GraphMetrics) MustRegister(registry *prometheus.Registry) {
	registry.MustRegister(
		m.buildsTotal,
		m.nodesGauge,
		m.edgesGauge,
		m.generationGauge,
		m.evaluationsTotal,
		m.evaluationDuration,
		m.diagnosticsTotal,
	)
}

// Init pre-initializes common label combinations with zero values so that
// metrics appear in scrape output immediately after startup. Idempotent.
func (m *GraphMetrics) Init() {
	for _, status := range []string{"ok", "error"} {
		m.buildsTotal.WithLabelValues(status)
	}
	for _, result := range []string{"valid", "invalid"} {
		m.evaluationsTotal.WithLabelValues(result)
		m.evaluationDuration.WithLabelValues(result)
	}
}

func newGraphMetrics() *GraphMetrics {
	return &GraphMetrics{
		buildsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "routing",
				Subsystem: "graph",
				Name:      "builds_total",
				Help:      "Total number of graph build attempts by status",
			},
			[]string{"status"},
		),
		nodesGauge: promauto.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "routing",
				Subsystem: "graph",
				Name:      "nodes",
				Help:      "Node count of the most recently built graph",
			},
		),
		edgesGauge: promauto.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "routing",
				Subsystem: "graph",
				Name:      "edges",
				Help:      "Edge count of the most recently built graph",
			},
		),
		generationGauge: promauto.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "routing",
				Subsystem: "graph",
				Name:      "generation",
				Help:      "Generation of the currently published snapshot",
			},
		),
		evaluationsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "routing",
				Subsystem: "graph",
				Name:      "evaluations_total",
				Help:      "Total number of satisfiability checks by result",
			},
			[]string{"result"},
		),
		evaluationDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "routing",
				Subsystem: "graph",
				Name:      "evaluation_duration_seconds",
				Help:      "Duration of satisfiability checks",
				Buckets:   prometheus.ExponentialBuckets(0.000001, 4, 12),
			},
			[]string{"result"},
		),
		diagnosticsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "routing",
				Subsystem: "graph",
				Name:      "diagnostics_total",
				Help:      "Total number of invalid results by diagnostic code",
			},
			[]string{"code"},
		),
	}
}
