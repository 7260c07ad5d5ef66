package graph

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/finrouted/kgraph/internal/observability"
	"github.com/finrouted/kgraph/types"
)

// Builder accumulates scratch state for one graph build. Construction is
// single-threaded and purely in-memory; the scratch is discarded after
// Finalize whether or not the build succeeds, so a failed build cannot
// corrupt a published graph.
type Builder struct {
	logger     observability.Logger
	nodes      []node
	valueIdx   map[types.Value]NodeID
	contextIdx map[types.Value]NodeID
	contexts   []NodeID
	edgeSet    map[edgeKey]struct{}
	edges      int
	spent      bool
}

// edgeKey identifies one (from, to, strength) triple for idempotent insertion.
type edgeKey struct {
	from     NodeID
	to       NodeID
	strength Strength
}

// NewBuilder creates an empty graph builder.
func NewBuilder(logger observability.Logger) *Builder {
	if logger == nil {
		logger = observability.NopLogger()
	}
	return &Builder{
		logger:     logger,
		valueIdx:   make(map[types.Value]NodeID),
		contextIdx: make(map[types.Value]NodeID),
		edgeSet:    make(map[edgeKey]struct{}),
	}
}

// MakeContext creates a context node anchoring one connector/configuration.
// Two context nodes with the same identity in one build are a construction
// error.
func (b *Builder) MakeContext(identity types.Value) (NodeID, error) {
	if b.spent {
		return InvalidNode, ErrBuilderSpent
	}
	if !identity.Key.Valid() {
		return InvalidNode, fmt.Errorf("%w: %q", ErrUnknownKey, identity.Key)
	}
	if _, exists := b.contextIdx[identity]; exists {
		return InvalidNode, fmt.Errorf("%w: %s", ErrDuplicateContext, identity)
	}

	id := b.append(node{kind: ContextNode, value: identity})
	b.contextIdx[identity] = id
	b.contexts = append(b.contexts, id)
	return id, nil
}

// Value interns the value node for the given attribute value, creating it on
// first reference. Repeated calls with the same value return the same node.
func (b *Builder) Value(v types.Value) (NodeID, error) {
	if b.spent {
		return InvalidNode, ErrBuilderSpent
	}
	if !v.Key.Valid() {
		return InvalidNode, fmt.Errorf("%w: %q", ErrUnknownKey, v.Key)
	}
	if id, ok := b.valueIdx[v]; ok {
		return id, nil
	}

	id := b.append(node{kind: ValueNode, value: v})
	b.valueIdx[v] = id
	return id, nil
}

// AddEdge connects two nodes with the given relation strength. Re-adding an
// identical (from, to, strength) edge is a no-op. Self-edges are rejected
// immediately; longer cycles are rejected by Finalize.
func (b *Builder) AddEdge(from, to NodeID, s Strength) error {
	if b.spent {
		return ErrBuilderSpent
	}
	if !b.valid(from) {
		return fmt.Errorf("%w: from %d", ErrUnknownNode, from)
	}
	if !b.valid(to) {
		return fmt.Errorf("%w: to %d", ErrUnknownNode, to)
	}
	if from == to {
		return fmt.Errorf("%w: self edge on node %d", ErrCyclicAggregator, from)
	}

	key := edgeKey{from: from, to: to, strength: s}
	if _, exists := b.edgeSet[key]; exists {
		return nil
	}
	b.edgeSet[key] = struct{}{}
	b.nodes[from].edges = append(b.nodes[from].edges, Edge{To: to, Strength: s})
	b.edges++
	return nil
}

// MakeAggregator creates an All or Any combinator over the given children.
// Children must be node ids previously handed out by this builder, which
// rules out forward references by construction. Use MakeInSet for the
// literal-set variant.
func (b *Builder) MakeAggregator(kind AggregatorKind, children []NodeID) (NodeID, error) {
	if b.spent {
		return InvalidNode, ErrBuilderSpent
	}
	if kind == AggregatorInSet {
		return InvalidNode, fmt.Errorf("in-set aggregators carry literal members, use MakeInSet")
	}
	if len(children) == 0 {
		return InvalidNode, ErrEmptyAggregator
	}
	for _, child := range children {
		if !b.valid(child) {
			return InvalidNode, fmt.Errorf("%w: child %d", ErrUnknownNode, child)
		}
	}

	kids := make([]NodeID, len(children))
	copy(kids, children)
	return b.append(node{kind: AggregatorNode, agg: kind, children: kids}), nil
}

// MakeInSet creates a membership-test aggregator over an explicit literal
// set of values for one attribute key. Every member is also interned as a
// value node so that contexts mentioning it resolve in the graph.
func (b *Builder) MakeInSet(key types.Key, members []string) (NodeID, error) {
	if b.spent {
		return InvalidNode, ErrBuilderSpent
	}
	if !key.Valid() {
		return InvalidNode, fmt.Errorf("%w: %q", ErrUnknownKey, key)
	}
	if len(members) == 0 {
		return InvalidNode, ErrEmptyAggregator
	}

	set := make(map[string]struct{}, len(members))
	for _, m := range members {
		set[m] = struct{}{}
		if _, err := b.Value(types.NewValue(key, m)); err != nil {
			return InvalidNode, err
		}
	}
	return b.append(node{kind: AggregatorNode, agg: AggregatorInSet, setKey: key, members: set}), nil
}

// Finalize validates the scratch state and promotes it to an immutable
// graph. The builder is spent afterwards regardless of the outcome.
func (b *Builder) Finalize() (*Graph, error) {
	if b.spent {
		return nil, ErrBuilderSpent
	}
	b.spent = true

	if cycle := b.detectCycle(); cycle != nil {
		GetGraphMetrics().buildsTotal.WithLabelValues("error").Inc()
		return nil, &CycleError{Cycle: cycle}
	}

	g := &Graph{
		buildID:    uuid.NewString(),
		nodes:      b.nodes,
		valueIdx:   b.valueIdx,
		contextIdx: b.contextIdx,
		contexts:   b.contexts,
		edges:      b.edges,
	}
	for i := range g.nodes {
		g.nodes[i].id = NodeID(i)
	}

	GetGraphMetrics().buildsTotal.WithLabelValues("ok").Inc()
	GetGraphMetrics().nodesGauge.Set(float64(len(g.nodes)))
	GetGraphMetrics().edgesGauge.Set(float64(g.edges))

	b.logger.Info("knowledge graph finalized",
		observability.String("buildId", g.buildID),
		observability.Int("nodes", len(g.nodes)),
		observability.Int("edges", g.edges),
		observability.Int("contexts", len(g.contexts)))

	return g, nil
}

// append adds a node to the scratch arena and returns its id.
func (b *Builder) append(n node) NodeID {
	id := NodeID(len(b.nodes))
	n.id = id
	b.nodes = append(b.nodes, n)
	return id
}

// valid reports whether id was handed out by this builder.
func (b *Builder) valid(id NodeID) bool {
	return id >= 0 && int(id) < len(b.nodes)
}

// DFS colors for cycle detection.
const (
	colorWhite uint8 = iota
	colorGrey
	colorBlack
)

// detectCycle runs a depth-first search over aggregator children and edge
// targets and returns the first cycle found, or nil. Traversal stops at
// context boundaries: a context node reached as a target contributes no
// further references.
func (b *Builder) detectCycle() []NodeID {
	colors := make([]uint8, len(b.nodes))
	var stack []NodeID

	var visit func(id NodeID) []NodeID
	visit = func(id NodeID) []NodeID {
		colors[id] = colorGrey
		stack = append(stack, id)

		for _, ref := range b.references(id) {
			switch colors[ref] {
			case colorGrey:
				return b.extractCycle(stack, ref)
			case colorWhite:
				if cycle := visit(ref); cycle != nil {
					return cycle
				}
			}
		}

		stack = stack[:len(stack)-1]
		colors[id] = colorBlack
		return nil
	}

	for id := range b.nodes {
		if colors[id] == colorWhite {
			if cycle := visit(NodeID(id)); cycle != nil {
				return cycle
			}
		}
	}
	return nil
}

// references returns the outgoing node references of id for validation
// purposes, honoring the context boundary.
func (b *Builder) references(id NodeID) []NodeID {
	n := &b.nodes[id]
	refs := make([]NodeID, 0, len(n.children)+len(n.edges))
	refs = append(refs, n.children...)
	for _, e := range n.edges {
		if b.nodes[e.To].kind == ContextNode {
			continue
		}
		refs = append(refs, e.To)
	}
	return refs
}

// extractCycle slices the visitation stack from the re-entered node and
// closes the loop.
func (b *Builder) extractCycle(stack []NodeID, entry NodeID) []NodeID {
	for i, id := range stack {
		if id == entry {
			cycle := make([]NodeID, 0, len(stack)-i+1)
			cycle = append(cycle, stack[i:]...)
			cycle = append(cycle, entry)
			return cycle
		}
	}
	return []NodeID{entry, entry}
}
