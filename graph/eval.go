package graph

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/finrouted/kgraph/types"
)

// graphTracerName is the OpenTelemetry tracer name for evaluations.
const graphTracerName = "kgraph/graph"

// Check reports whether the predicate has at least one valid realization in
// the graph under the given query context. Evaluation is pure CPU with no
// suspension points; the ctx parameter only propagates trace spans.
//
// Rule rejection is never an error: missing information, contradictions and
// even dynamically detected cycles all degrade to an invalid result with a
// diagnostic, because rejecting a rule is safe while failing the request
// path is not.
func Check(ctx context.Context, g *Graph, qc *types.Context, p *types.Predicate) Result {
	_, span := otel.Tracer(graphTracerName).Start(ctx, "graph.Check",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("graph.build_id", g.buildID),
			attribute.Int("predicate.size", p.Size()),
			attribute.Int("context.size", qc.Len()),
		),
	)
	defer span.End()

	start := time.Now()
	ev := &evaluator{
		g:        g,
		qc:       qc,
		memo:     make(map[NodeID]Result),
		visiting: make(map[NodeID]struct{}),
	}

	res := ev.run(p)

	resultLabel := "valid"
	if !res.IsValid() {
		resultLabel = "invalid"
		span.SetAttributes(attribute.String("result.diagnostic", string(res.Diagnostic().Code)))
		GetGraphMetrics().diagnosticsTotal.WithLabelValues(string(res.Diagnostic().Code)).Inc()
	}
	span.SetAttributes(attribute.String("result", resultLabel))
	GetGraphMetrics().evaluationsTotal.WithLabelValues(resultLabel).Inc()
	GetGraphMetrics().evaluationDuration.WithLabelValues(resultLabel).
		Observe(time.Since(start).Seconds())

	return res
}

// evaluator holds the per-call state of one Check invocation. The memo is
// keyed by node id alone because the query context is fixed for the whole
// call; it guarantees each node resolves at most once even when the DAG
// re-converges.
type evaluator struct {
	g        *Graph
	qc       *types.Context
	memo     map[NodeID]Result
	visiting map[NodeID]struct{}
}

// run applies the fail-closed context scan and then descends the predicate.
func (ev *evaluator) run(p *types.Predicate) Result {
	for _, v := range ev.qc.Values() {
		if !ev.g.knows(v) {
			return Invalid(&Diagnostic{
				Code:   CodeUnknownAttribute,
				Value:  v,
				NodeID: InvalidNode,
				Reason: "context attribute is not present anywhere in the graph",
			})
		}
	}
	return ev.checkPredicate(p)
}

// checkPredicate evaluates one predicate tree node against the graph.
func (ev *evaluator) checkPredicate(p *types.Predicate) Result {
	if p == nil {
		return Invalid(&Diagnostic{
			Code:   CodeMalformedPredicate,
			NodeID: InvalidNode,
			Reason: "nil predicate node",
		})
	}

	switch p.Kind {
	case types.PredicateValue:
		return ev.checkValue(p.Value)

	case types.PredicateNot:
		if len(p.Children) != 1 {
			return Invalid(&Diagnostic{
				Code:   CodeMalformedPredicate,
				NodeID: InvalidNode,
				Reason: fmt.Sprintf("not predicate has %d children, want 1", len(p.Children)),
			})
		}
		if child := ev.checkPredicate(p.Children[0]); !child.IsValid() {
			return Valid()
		}
		return Invalid(&Diagnostic{
			Code:   CodeNegationFailed,
			NodeID: InvalidNode,
			Reason: "negated predicate is satisfiable",
		})

	case types.PredicateAll:
		// Left-to-right with short-circuit on the first invalid child keeps
		// diagnostics deterministic.
		for _, child := range p.Children {
			if res := ev.checkPredicate(child); !res.IsValid() {
				return res
			}
		}
		return Valid()

	case types.PredicateAny:
		var first *Diagnostic
		for _, child := range p.Children {
			res := ev.checkPredicate(child)
			if res.IsValid() {
				return res
			}
			if first == nil {
				first = res.Diagnostic()
			}
		}
		if first == nil {
			return Invalid(&Diagnostic{
				Code:   CodeMalformedPredicate,
				NodeID: InvalidNode,
				Reason: "any predicate has no children",
			})
		}
		return Invalid(first)

	default:
		return Invalid(&Diagnostic{
			Code:   CodeMalformedPredicate,
			NodeID: InvalidNode,
			Reason: fmt.Sprintf("unknown predicate kind %q", p.Kind),
		})
	}
}

// checkValue resolves a leaf predicate value against the graph.
func (ev *evaluator) checkValue(v types.Value) Result {
	id, ok := ev.g.valueIdx[v]
	if !ok {
		return Invalid(&Diagnostic{
			Code:   CodeUnknownAttribute,
			Value:  v,
			NodeID: InvalidNode,
			Reason: "value is not present anywhere in the graph",
		})
	}
	return ev.satisfy(id)
}

// satisfy resolves whether the node holds under the query context, following
// positive and negative edges and aggregator combinators.
func (ev *evaluator) satisfy(id NodeID) Result {
	if res, ok := ev.memo[id]; ok {
		return res
	}
	if _, ok := ev.visiting[id]; ok {
		// Re-entry into a node still being resolved. Treated as invalid,
		// never as non-termination; not memoized because the verdict is a
		// property of the path, not the node.
		return Invalid(&Diagnostic{
			Code:   CodeCyclicDependency,
			NodeID: id,
			Reason: "node depends on itself",
		})
	}
	ev.visiting[id] = struct{}{}
	defer delete(ev.visiting, id)

	n := ev.g.node(id)
	var res Result

	switch n.kind {
	case ValueNode:
		if cv, ok := ev.qc.Get(n.value.Key); ok && cv.Value != n.value.Value {
			res = Invalid(&Diagnostic{
				Code:   CodeValueMismatch,
				Value:  n.value,
				NodeID: id,
				Reason: fmt.Sprintf("context holds %s", cv),
			})
		} else {
			// A leaf with no outgoing edges is vacuously valid: there is no
			// constraint left to fail.
			res = ev.checkEdges(n)
		}

	case ContextNode:
		res = ev.checkEdges(n)

	case AggregatorNode:
		res = ev.satisfyAggregator(n)

	default:
		res = Invalid(&Diagnostic{
			Code:   CodeMalformedPredicate,
			NodeID: id,
			Reason: fmt.Sprintf("unknown node kind %d", n.kind),
		})
	}

	if d := res.Diagnostic(); d == nil || d.Code != CodeCyclicDependency {
		ev.memo[id] = res
	}
	return res
}

// satisfyAggregator mirrors the predicate-level All/Any/InSet semantics at
// the graph level, with the same left-to-right short-circuit rules.
func (ev *evaluator) satisfyAggregator(n *node) Result {
	switch n.agg {
	case AggregatorAll:
		for _, child := range n.children {
			if res := ev.satisfy(child); !res.IsValid() {
				return res
			}
		}
		return ev.checkEdges(n)

	case AggregatorAny:
		var first *Diagnostic
		for _, child := range n.children {
			res := ev.satisfy(child)
			if res.IsValid() {
				return ev.checkEdges(n)
			}
			if first == nil {
				first = res.Diagnostic()
			}
		}
		return Invalid(first)

	case AggregatorInSet:
		cv, ok := ev.qc.Get(n.setKey)
		if !ok {
			// The context does not constrain this domain.
			return ev.checkEdges(n)
		}
		if _, in := n.members[cv.Value]; in {
			return ev.checkEdges(n)
		}
		return Invalid(&Diagnostic{
			Code:   CodeNotInSet,
			Value:  cv,
			NodeID: n.id,
			Reason: fmt.Sprintf("not among the %d supported values for %s", len(n.members), n.setKey),
		})

	default:
		return Invalid(&Diagnostic{
			Code:   CodeMalformedPredicate,
			NodeID: n.id,
			Reason: fmt.Sprintf("unknown aggregator kind %d", n.agg),
		})
	}
}

// checkEdges verifies the node's outgoing edges: positive targets must hold,
// negative targets must not.
func (ev *evaluator) checkEdges(n *node) Result {
	for _, e := range n.edges {
		target := ev.satisfy(e.To)
		switch e.Strength {
		case Positive:
			if !target.IsValid() {
				return target
			}
		case Negative:
			if target.IsValid() {
				tn := ev.g.node(e.To)
				return Invalid(&Diagnostic{
					Code:   CodeNegativeViolated,
					Value:  tn.value,
					NodeID: e.To,
					Reason: "excluded configuration holds in this context",
				})
			}
		}
	}
	return Valid()
}
