package capability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// CapabilityMetrics holds Prometheus metrics for catalog reloads.
type CapabilityMetrics struct {
	reloadsTotal    *prometheus.CounterVec
	connectorsGauge prometheus.Gauge
}

var (
	capabilityMetricsInstance *CapabilityMetrics
	capabilityMetricsOnce     sync.Once
)

// GetCapabilityMetrics returns the singleton capability metrics instance.
func GetCapabilityMetrics() *CapabilityMetrics {
	capabilityMetricsOnce.Do(func() {
		capabilityMetricsInstance = newCapabilityMetrics()
	})
	return capabilityMetricsInstance
}

// MustRegister registers all capability metric collectors with the given
// Prometheus registry.
func (m *CapabilityMetrics) MustRegister(registry *prometheus.Registry) {
	registry.MustRegister(
		m.reloadsTotal,
		m.connectorsGauge,
	)
}

// Init pre-initializes common label combinations with zero values. Idempotent.
func (m *CapabilityMetrics) Init() {
	for _, status := range []string{"ok", "error"} {
		m.reloadsTotal.WithLabelValues(status)
	}
}

func newCapabilityMetrics() *CapabilityMetrics {
	return &CapabilityMetrics{
		reloadsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "routing",
				Subsystem: "capability",
				Name:      "reloads_total",
				Help:      "Total number of catalog reload attempts by status",
			},
			[]string{"status"},
		),
		connectorsGauge: promauto.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "routing",
				Subsystem: "capability",
				Name:      "connectors",
				Help:      "Connector count of the most recently loaded catalog",
			},
		),
	}
}
