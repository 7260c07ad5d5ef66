// Package capability ingests connector capability descriptors and compiles
// them into the knowledge graph.
//
// Descriptors arrive as YAML documents listing, per connector, the payment
// method combinations the connector supports. The package provides:
//
//   - Loading with ${VAR} and ${VAR:-default} environment substitution
//   - Structural validation with field-path error messages
//   - Compilation into an immutable graph: one context node per connector,
//     one All aggregator per payment-method entry over literal membership
//     sets, an Any root across payment methods
//   - A file watcher that rebuilds and atomically publishes a new snapshot
//     on change, keeping the previous generation in service when a reload
//     fails
//
// # Example Usage
//
//	store := graph.NewStore(logger)
//	w, err := capability.NewWatcher("capabilities.yaml", store,
//	    capability.WithLogger(logger))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := w.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	defer w.Stop()
//
//	snap := store.Current()
package capability
