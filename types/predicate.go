package types

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// PredicateKind discriminates the closed set of predicate node variants.
// Every consumer switches exhaustively over these so that adding a kind is a
// compile-visible change at each consumption site.
type PredicateKind string

// Predicate node variants.
const (
	PredicateValue PredicateKind = "value"
	PredicateNot   PredicateKind = "not"
	PredicateAll   PredicateKind = "all"
	PredicateAny   PredicateKind = "any"
)

// Predicate is a boolean expression tree over attribute-value comparisons,
// produced by the rule-authoring DSL compiler and consumed read-only by the
// evaluator.
type Predicate struct {
	Kind     PredicateKind
	Value    Value
	Children []*Predicate
}

// ValueIs creates a leaf predicate asserting one attribute value.
func ValueIs(v Value) *Predicate {
	return &Predicate{Kind: PredicateValue, Value: v}
}

// Not creates a negation of the given predicate.
func Not(p *Predicate) *Predicate {
	return &Predicate{Kind: PredicateNot, Children: []*Predicate{p}}
}

// All creates a conjunction over the given predicates.
func All(children ...*Predicate) *Predicate {
	return &Predicate{Kind: PredicateAll, Children: children}
}

// Any creates a disjunction over the given predicates.
func Any(children ...*Predicate) *Predicate {
	return &Predicate{Kind: PredicateAny, Children: children}
}

// Fingerprint returns a stable hex digest of the predicate structure.
func (p *Predicate) Fingerprint() string {
	var sb strings.Builder
	p.canonical(&sb)
	sum := sha256.Sum256([]byte(sb.String()))
	return hex.EncodeToString(sum[:])
}

// canonical writes an unambiguous textual form of the tree.
func (p *Predicate) canonical(sb *strings.Builder) {
	if p == nil {
		sb.WriteString("nil")
		return
	}
	switch p.Kind {
	case PredicateValue:
		sb.WriteString("v(")
		sb.WriteString(p.Value.String())
		sb.WriteByte(')')
	case PredicateNot:
		sb.WriteString("n(")
		for i, child := range p.Children {
			if i > 0 {
				sb.WriteByte(',')
			}
			child.canonical(sb)
		}
		sb.WriteByte(')')
	case PredicateAll:
		sb.WriteString("a(")
		for i, child := range p.Children {
			if i > 0 {
				sb.WriteByte(',')
			}
			child.canonical(sb)
		}
		sb.WriteByte(')')
	case PredicateAny:
		sb.WriteString("o(")
		for i, child := range p.Children {
			if i > 0 {
				sb.WriteByte(',')
			}
			child.canonical(sb)
		}
		sb.WriteByte(')')
	default:
		sb.WriteString("?(")
		sb.WriteString(string(p.Kind))
		sb.WriteByte(')')
	}
}

// Size returns the number of nodes in the predicate tree.
func (p *Predicate) Size() int {
	if p == nil {
		return 0
	}
	n := 1
	for _, child := range p.Children {
		n += child.Size()
	}
	return n
}
