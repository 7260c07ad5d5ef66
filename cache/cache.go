package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/finrouted/kgraph/graph"
	"github.com/finrouted/kgraph/internal/observability"
	"github.com/finrouted/kgraph/types"
)

// cacheTracerName is the OpenTelemetry tracer name for cache operations.
const cacheTracerName = "kgraph/cache"

// Cache memoizes evaluation results for one graph generation at a time.
type Cache struct {
	logger observability.Logger

	mu         sync.RWMutex
	generation uint64
	entries    map[string]graph.Result

	hits    int64
	misses  int64
	flushes int64
}

// New creates an empty result cache.
func New(logger observability.Logger) *Cache {
	if logger == nil {
		logger = observability.NopLogger()
	}
	return &Cache{
		logger:  logger,
		entries: make(map[string]graph.Result),
	}
}

// Key derives the cache key for a query: the context fingerprint plus the
// predicate fingerprint. The generation is not part of the key because it
// partitions the whole cache instead.
func Key(qc *types.Context, p *types.Predicate) string {
	return qc.Fingerprint() + ":" + p.Fingerprint()
}

// GetOrEval returns the cached result for key if it was computed against the
// given generation, otherwise runs compute, stores the result, and returns
// it. A generation newer than the cache's stored one flushes every entry
// first; results computed against an older generation are returned but never
// stored, so the cache can only move forward.
func (c *Cache) GetOrEval(ctx context.Context, generation uint64, key string, compute func() graph.Result) graph.Result {
	_, span := otel.Tracer(cacheTracerName).Start(ctx, "cache.GetOrEval",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.Int64("cache.generation", int64(generation)),
		),
	)
	defer span.End()

	start := time.Now()
	defer func() {
		GetResultCacheMetrics().operationDuration.Observe(time.Since(start).Seconds())
	}()

	c.mu.RLock()
	if c.generation == generation {
		if res, ok := c.entries[key]; ok {
			c.mu.RUnlock()
			atomic.AddInt64(&c.hits, 1)
			GetResultCacheMetrics().hitsTotal.Inc()
			span.SetAttributes(attribute.Bool("cache.hit", true))
			return res
		}
	}
	c.mu.RUnlock()

	atomic.AddInt64(&c.misses, 1)
	GetResultCacheMetrics().missesTotal.Inc()
	span.SetAttributes(attribute.Bool("cache.hit", false))

	res := compute()

	c.mu.Lock()
	defer c.mu.Unlock()

	switch {
	case generation < c.generation:
		// Stale caller still holding a superseded snapshot. Its result is
		// correct for that snapshot but must not re-tag the cache backwards.
		return res
	case generation > c.generation:
		// Tagging a fresh cache with its first generation drops nothing and
		// is not a flush.
		if c.generation != 0 {
			atomic.AddInt64(&c.flushes, 1)
			GetResultCacheMetrics().flushesTotal.Inc()
			c.logger.Debug("result cache flushed",
				observability.Uint64("generation", generation))
		}
		c.entries = make(map[string]graph.Result)
		c.generation = generation
	}

	c.entries[key] = res
	GetResultCacheMetrics().sizeGauge.Set(float64(len(c.entries)))
	return res
}

// Generation returns the generation the cached entries belong to.
func (c *Cache) Generation() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.generation
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Stats contains cache statistics.
type Stats struct {
	// Hits is the number of cache hits.
	Hits int64

	// Misses is the number of cache misses.
	Misses int64

	// Flushes is the number of whole-cache generation flushes.
	Flushes int64

	// Size is the current number of entries.
	Size int64
}

// HitRate returns the cache hit rate as a percentage.
func (s Stats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total) * 100
}

// Stats returns cache statistics.
func (c *Cache) Stats() Stats {
	c.mu.RLock()
	size := int64(len(c.entries))
	c.mu.RUnlock()

	return Stats{
		Hits:    atomic.LoadInt64(&c.hits),
		Misses:  atomic.LoadInt64(&c.misses),
		Flushes: atomic.LoadInt64(&c.flushes),
		Size:    size,
	}
}
