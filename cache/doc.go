// Package cache provides the generation-scoped memoization cache for
// evaluation results.
//
// Results are partitioned by the generation of the graph snapshot they were
// computed against. An entry whose generation does not match the cache's
// stored generation is treated as a miss, and a newer generation flushes the
// whole cache: graphs are rebuilt wholesale and are small enough that full
// memoization between rebuilds is cheap and predictable, so there is no
// per-entry eviction policy.
//
// # Example Usage
//
//	c := cache.New(logger)
//	snap := store.Current()
//	key := cache.Key(qc, predicate)
//	res := c.GetOrEval(ctx, snap.Generation, key, func() graph.Result {
//	    return graph.Check(ctx, snap.Graph, qc, predicate)
//	})
//
// # Thread Safety
//
// The cache is safe for concurrent use.
package cache
