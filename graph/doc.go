// Package graph implements the knowledge-graph engine that decides whether a
// routing-rule predicate has at least one valid realization for the platform's
// connector configuration.
//
// The package provides:
//
//   - A Builder that compiles connector capability knowledge into an
//     immutable node arena (value nodes, context nodes, aggregators) with
//     idempotent edge insertion and finalize-time cycle rejection
//   - A memoized recursive evaluator (Check) with a dynamic cycle guard,
//     fail-closed handling of unknown attributes, and first-conflict
//     diagnostics
//   - A Store publishing generation-tagged snapshots with a single atomic
//     pointer swap
//   - OpenTelemetry tracing and Prometheus metrics for builds and
//     evaluations
//
// # Example Usage
//
//	b := graph.NewBuilder(logger)
//	ctxNode, _ := b.MakeContext(types.NewValue(types.KeyConnector, "adyen"))
//	conn, _ := b.Value(types.NewValue(types.KeyConnector, "adyen"))
//	us, _ := b.Value(types.NewValue(types.KeyCountry, "US"))
//	usd, _ := b.Value(types.NewValue(types.KeyCurrency, "USD"))
//	cond, _ := b.MakeAggregator(graph.AggregatorAll, []graph.NodeID{us, usd})
//	_ = b.AddEdge(ctxNode, conn, graph.Positive)
//	_ = b.AddEdge(conn, cond, graph.Positive)
//	g, err := b.Finalize()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	qc := types.NewContext(types.NewValue(types.KeyCountry, "US"))
//	res := graph.Check(ctx, g, qc, types.ValueIs(types.NewValue(types.KeyConnector, "adyen")))
//	if !res.IsValid() {
//	    fmt.Println(res.Diagnostic())
//	}
//
// # Thread Safety
//
// A finalized Graph is immutable and safe for unbounded concurrent reads.
// Builders are single-threaded scratch state and must not be shared.
package graph
