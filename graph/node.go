package graph

import "github.com/finrouted/kgraph/types"

// NodeID is a stable small-integer index into the graph's node arena. Edges
// and aggregator children reference nodes by index rather than by pointer,
// which keeps the arena free of ownership cycles and makes snapshot
// replacement a single pointer swap.
type NodeID int32

// InvalidNode marks the absence of a node reference.
const InvalidNode NodeID = -1

// Strength tags the relation an edge expresses about its target.
type Strength uint8

// Edge strengths.
const (
	// Positive requires the target to hold.
	Positive Strength = iota

	// Negative requires the target to not hold.
	Negative
)

// String returns the strength name.
func (s Strength) String() string {
	switch s {
	case Positive:
		return "positive"
	case Negative:
		return "negative"
	default:
		return "unknown"
	}
}

// NodeKind discriminates the role of a node in the graph.
type NodeKind uint8

// Node roles.
const (
	// ValueNode is a leaf identified by one attribute value.
	ValueNode NodeKind = iota

	// ContextNode anchors one connector/configuration.
	ContextNode

	// AggregatorNode is a boolean combinator over child nodes.
	AggregatorNode
)

// String returns the kind name.
func (k NodeKind) String() string {
	switch k {
	case ValueNode:
		return "value"
	case ContextNode:
		return "context"
	case AggregatorNode:
		return "aggregator"
	default:
		return "unknown"
	}
}

// AggregatorKind discriminates the boolean combinator variants.
type AggregatorKind uint8

// Aggregator variants.
const (
	// AggregatorAll is a conjunction of its children.
	AggregatorAll AggregatorKind = iota

	// AggregatorAny is a disjunction of its children.
	AggregatorAny

	// AggregatorInSet is a membership test against an explicit literal set.
	AggregatorInSet
)

// String returns the aggregator kind name.
func (k AggregatorKind) String() string {
	switch k {
	case AggregatorAll:
		return "all"
	case AggregatorAny:
		return "any"
	case AggregatorInSet:
		return "in_set"
	default:
		return "unknown"
	}
}

// Edge connects a node to a target with a relation strength. Edges are
// stored in insertion order on their source node.
type Edge struct {
	To       NodeID
	Strength Strength
}

// node is one arena entry. Which fields are populated depends on the kind:
// value and context nodes carry their identity value, aggregators carry
// their variant plus children or literal-set members.
type node struct {
	id       NodeID
	kind     NodeKind
	value    types.Value
	agg      AggregatorKind
	children []NodeID
	setKey   types.Key
	members  map[string]struct{}
	edges    []Edge
}
