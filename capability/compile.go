package capability

import (
	"fmt"

	"github.com/finrouted/kgraph/graph"
	"github.com/finrouted/kgraph/internal/observability"
	"github.com/finrouted/kgraph/types"
)

// Compile builds an immutable knowledge graph from a connector capability
// catalog. Per connector it creates a context node anchored at the connector
// identity, a value node for the connector, one All aggregator per
// payment-method entry over literal membership sets, and an Any root across
// the payment methods.
func Compile(catalog *Catalog, logger observability.Logger) (*graph.Graph, error) {
	if logger == nil {
		logger = observability.NopLogger()
	}
	if err := Validate(catalog); err != nil {
		return nil, err
	}

	b := graph.NewBuilder(logger)
	for _, conn := range catalog.Connectors {
		if err := compileConnector(b, conn); err != nil {
			return nil, fmt.Errorf("connector %q: %w", conn.Name, err)
		}
	}

	g, err := b.Finalize()
	if err != nil {
		return nil, err
	}

	logger.Debug("capability catalog compiled",
		observability.Int("connectors", len(catalog.Connectors)),
		observability.Int("nodes", g.NodeCount()),
		observability.Int("edges", g.EdgeCount()))

	return g, nil
}

// compileConnector wires one connector's capability entries into the build.
func compileConnector(b *graph.Builder, conn Connector) error {
	identity := types.NewValue(types.KeyConnector, conn.Name)

	ctxNode, err := b.MakeContext(identity)
	if err != nil {
		return err
	}
	connNode, err := b.Value(identity)
	if err != nil {
		return err
	}

	branches := make([]graph.NodeID, 0, len(conn.PaymentMethods))
	for i, pm := range conn.PaymentMethods {
		branch, err := compilePaymentMethod(b, pm)
		if err != nil {
			return fmt.Errorf("payment_methods[%d]: %w", i, err)
		}
		branches = append(branches, branch)
	}

	root := branches[0]
	if len(branches) > 1 {
		if root, err = b.MakeAggregator(graph.AggregatorAny, branches); err != nil {
			return err
		}
	}

	if err := b.AddEdge(ctxNode, connNode, graph.Positive); err != nil {
		return err
	}
	return b.AddEdge(connNode, root, graph.Positive)
}

// compilePaymentMethod builds the conjunction for one payment-method entry.
func compilePaymentMethod(b *graph.Builder, pm PaymentMethod) (graph.NodeID, error) {
	method, err := b.Value(types.NewValue(types.KeyPaymentMethod, pm.Method))
	if err != nil {
		return graph.InvalidNode, err
	}

	parts := []graph.NodeID{method}
	domains := []struct {
		key     types.Key
		members []string
	}{
		{types.KeyPaymentMethodType, pm.MethodTypes},
		{types.KeyCardNetwork, pm.CardNetworks},
		{types.KeyCountry, pm.Countries},
		{types.KeyCurrency, pm.Currencies},
		{types.KeyCaptureMethod, pm.CaptureMethods},
		{types.KeyAuthenticationType, pm.AuthenticationTypes},
	}
	for _, d := range domains {
		if len(d.members) == 0 {
			continue
		}
		set, err := b.MakeInSet(d.key, d.members)
		if err != nil {
			return graph.InvalidNode, err
		}
		parts = append(parts, set)
	}

	if len(parts) == 1 {
		return method, nil
	}
	return b.MakeAggregator(graph.AggregatorAll, parts)
}
