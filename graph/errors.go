package graph

import (
	"errors"
	"fmt"
	"strings"
)

// Construction errors. All are raised by the Builder; a failed build never
// replaces a published graph.
var (
	// ErrDuplicateContext indicates a context node with the same identity
	// already exists in this build.
	ErrDuplicateContext = errors.New("duplicate context node")

	// ErrEmptyAggregator indicates an aggregator was constructed with no
	// children or an in-set with no members.
	ErrEmptyAggregator = errors.New("aggregator requires at least one child")

	// ErrCyclicAggregator indicates node references form a cycle.
	ErrCyclicAggregator = errors.New("cyclic aggregator reference")

	// ErrUnknownNode indicates an edge or aggregator referenced a node id
	// this builder never handed out.
	ErrUnknownNode = errors.New("unknown node reference")

	// ErrUnknownKey indicates an attribute key outside the closed domain set.
	ErrUnknownKey = errors.New("unknown attribute key")

	// ErrBuilderSpent indicates the builder was used after Finalize. The
	// scratch state is discarded on Finalize regardless of its outcome.
	ErrBuilderSpent = errors.New("builder already finalized")
)

// CycleError reports the node cycle that caused Finalize to fail.
type CycleError struct {
	// Cycle lists the node ids along the offending cycle, first node
	// repeated at the end.
	Cycle []NodeID
}

// Error implements the error interface.
func (e *CycleError) Error() string {
	parts := make([]string, len(e.Cycle))
	for i, id := range e.Cycle {
		parts[i] = fmt.Sprintf("%d", id)
	}
	return fmt.Sprintf("cyclic aggregator reference: %s", strings.Join(parts, " -> "))
}

// Unwrap returns ErrCyclicAggregator for errors.Is compatibility.
func (e *CycleError) Unwrap() error {
	return ErrCyclicAggregator
}
