package cache

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ResultCacheMetrics holds Prometheus metrics for the result cache.
type ResultCacheMetrics struct {
	hitsTotal         prometheus.Counter
	missesTotal       prometheus.Counter
	flushesTotal      prometheus.Counter
	sizeGauge         prometheus.Gauge
	operationDuration prometheus.Histogram
}

var (
	resultCacheMetricsInstance *ResultCacheMetrics
	resultCacheMetricsOnce     sync.Once
)

// GetResultCacheMetrics returns the singleton result cache metrics instance.
func GetResultCacheMetrics() *ResultCacheMetrics {
	resultCacheMetricsOnce.Do(func() {
		resultCacheMetricsInstance = newResultCacheMetrics()
	})
	return resultCacheMetricsInstance
}

// MustRegister registers all cache metric collectors with the given
// Prometheus registry, for hosts serving /metrics from a custom registry
// rather than the default global one.
func (m *ResultCacheMetrics) MustRegister(registry *prometheus.Registry) {
	registry.MustRegister(
		m.hitsTotal,
		m.missesTotal,
		m.flushesTotal,
		m.sizeGauge,
		m.operationDuration,
	)
}

func newResultCacheMetrics() *ResultCacheMetrics {
	return &ResultCacheMetrics{
		hitsTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: "routing",
				Subsystem: "cache",
				Name:      "hits_total",
				Help:      "Total number of result cache hits",
			},
		),
		missesTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: "routing",
				Subsystem: "cache",
				Name:      "misses_total",
				Help:      "Total number of result cache misses",
			},
		),
		flushesTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: "routing",
				Subsystem: "cache",
				Name:      "flushes_total",
				Help:      "Total number of whole-cache generation flushes",
			},
		),
		sizeGauge: promauto.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "routing",
				Subsystem: "cache",
				Name:      "entries",
				Help:      "Current number of cached results",
			},
		),
		operationDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: "routing",
				Subsystem: "cache",
				Name:      "operation_duration_seconds",
				Help:      "Duration of GetOrEval calls including compute on miss",
				Buckets:   prometheus.ExponentialBuckets(0.000001, 4, 12),
			},
		),
	}
}
