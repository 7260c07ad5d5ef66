package graph

import (
	"fmt"

	"github.com/finrouted/kgraph/types"
)

// DiagnosticCode classifies why an evaluation came back invalid.
type DiagnosticCode string

// Diagnostic codes.
const (
	// CodeUnknownAttribute marks a context or predicate value that is not
	// interned anywhere in the graph. The engine fails closed on these.
	CodeUnknownAttribute DiagnosticCode = "unknown_attribute"

	// CodeValueMismatch marks a value node contradicted by the context's
	// observed value for the same attribute domain.
	CodeValueMismatch DiagnosticCode = "value_mismatch"

	// CodeNotInSet marks a context value outside an aggregator's literal
	// membership set.
	CodeNotInSet DiagnosticCode = "not_in_set"

	// CodeNegativeViolated marks a negative edge whose target held.
	CodeNegativeViolated DiagnosticCode = "negative_edge_violated"

	// CodeNegationFailed marks a Not predicate whose child was satisfiable.
	CodeNegationFailed DiagnosticCode = "negation_failed"

	// CodeCyclicDependency marks re-entry into a node still being resolved.
	// Finalize rejects static cycles, so this is a dynamic backstop.
	CodeCyclicDependency DiagnosticCode = "cyclic_dependency"

	// CodeMalformedPredicate marks a predicate tree the evaluator cannot
	// interpret. Rejection is always safe, so malformed input degrades to
	// an invalid result rather than a panic.
	CodeMalformedPredicate DiagnosticCode = "malformed_predicate"
)

// Diagnostic captures the first conflicting node or edge encountered on the
// losing path, for operator-facing explanations.
type Diagnostic struct {
	Code   DiagnosticCode
	Value  types.Value
	NodeID NodeID
	Reason string
}

// String renders the diagnostic for human consumption.
func (d *Diagnostic) String() string {
	if d.Value != (types.Value{}) {
		return fmt.Sprintf("%s: %s: %s", d.Code, d.Value, d.Reason)
	}
	return fmt.Sprintf("%s: %s", d.Code, d.Reason)
}

// Result is the outcome of a satisfiability check: valid, or invalid with a
// diagnostic explaining the first conflict.
type Result struct {
	diag *Diagnostic
}

// Valid returns a valid result.
func Valid() Result {
	return Result{}
}

// Invalid returns an invalid result carrying the given diagnostic.
func Invalid(d *Diagnostic) Result {
	return Result{diag: d}
}

// IsValid reports whether the check found at least one valid realization.
func (r Result) IsValid() bool {
	return r.diag == nil
}

// Diagnostic returns the conflict explanation, or nil for valid results.
func (r Result) Diagnostic() *Diagnostic {
	return r.diag
}

// String renders the result.
func (r Result) String() string {
	if r.diag == nil {
		return "valid"
	}
	return "invalid (" + r.diag.String() + ")"
}
