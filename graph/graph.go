package graph

import "github.com/finrouted/kgraph/types"

// Graph is an immutable snapshot of the knowledge graph. All mutation
// happens in a Builder; once Finalize returns, the arena is never written
// again and may be read by unboundedly many goroutines without locking.
type Graph struct {
	buildID    string
	nodes      []node
	valueIdx   map[types.Value]NodeID
	contextIdx map[types.Value]NodeID
	contexts   []NodeID
	edges      int
}

// BuildID returns the unique id assigned to this build.
func (g *Graph) BuildID() string {
	return g.buildID
}

// NodeCount returns the number of nodes in the arena.
func (g *Graph) NodeCount() int {
	return len(g.nodes)
}

// EdgeCount returns the number of edges in the graph.
func (g *Graph) EdgeCount() int {
	return g.edges
}

// ContextCount returns the number of context nodes.
func (g *Graph) ContextCount() int {
	return len(g.contexts)
}

// Lookup returns the node id interned for the given attribute value.
func (g *Graph) Lookup(v types.Value) (NodeID, bool) {
	id, ok := g.valueIdx[v]
	return id, ok
}

// knows reports whether the value appears anywhere in the graph, either as
// an interned value node or as a context-node identity.
func (g *Graph) knows(v types.Value) bool {
	if _, ok := g.valueIdx[v]; ok {
		return true
	}
	_, ok := g.contextIdx[v]
	return ok
}

// node returns the arena entry for the given id.
func (g *Graph) node(id NodeID) *node {
	return &g.nodes[id]
}
