// Package ssa models the target equation that a bounded model checker hands
// to a decision procedure: an ordered sequence of SSA steps plus the claim
// counts symex attached to it.
//
// A Step is an opaque handle with one field (Kind) that the driver is
// allowed to mutate in place, and the rest (Condition, location metadata)
// fixed at construction.
package ssa

import "fmt"

// Kind is the discriminator of an SSA step.
type Kind uint8

const (
	// Assignment records x := e.
	Assignment Kind = iota
	// Assume restricts the trace to states where Condition holds.
	Assume
	// Assert is a claim: the negation of Condition is a property violation.
	Assert
	// Renumber is a housekeeping marker emitted by symex (e.g. thread
	// context switch); it carries no condition semantics of its own.
	Renumber
	// Output is a side-effecting step (printf-style); ignored by the
	// encoder beyond ordering.
	Output
	// Skip is a step the encoder must ignore entirely. Any step may be
	// turned into Skip; a Skip step may only be turned back into Assert
	// while no encoding of the owning Equation is in flight (see
	// Equation.encoding).
	Skip
)

func (k Kind) String() string {
	switch k {
	case Assignment:
		return "ASSIGNMENT"
	case Assume:
		return "ASSUME"
	case Assert:
		return "ASSERT"
	case Renumber:
		return "RENUMBER"
	case Output:
		return "OUTPUT"
	case Skip:
		return "SKIP"
	default:
		return fmt.Sprintf("KIND(%d)", uint8(k))
	}
}

// SourceLocation is fixed metadata attached to a Step at construction.
type SourceLocation struct {
	File     string
	Line     int
	Function string
}

func (l SourceLocation) String() string {
	if l.File == "" {
		return "<unknown>"
	}
	return fmt.Sprintf("%s:%d", l.File, l.Line)
}

// LTL comment tags recognized by pkg/ltl when masking assertions.
const (
	CommentLTLBad        = "LTL_BAD"
	CommentLTLFailing    = "LTL_FAILING"
	CommentLTLSucceeding = "LTL_SUCCEEDING"
	CommentLTLGood       = "LTL_GOOD"
)

// Step is one entry in a target Equation. Condition and Location are
// immutable after construction; Kind may be mutated through
// Equation.SetKind, subject to the SKIP->ASSERT restriction documented
// there.
type Step struct {
	kind      Kind
	Condition Expr
	Comment   string
	Location  SourceLocation
	// LHS identifies the assignment target for Assignment steps; empty
	// for all other kinds. Used by the duplicate-assignment check and by
	// pkg/slicer's dependency graph.
	LHS string
	// Reads lists the symbols Condition mentions, for pkg/slicer's
	// cone-of-influence closure. Distinct from the boolean Atoms Condition
	// compiles to: Reads is symbol-level (SSA variable names), Atoms are
	// opaque proposition names.
	Reads []string
}

// NewStep constructs a Step. Condition may be nil for Renumber/Output/Skip
// steps, which the encoder ignores regardless.
func NewStep(kind Kind, cond Expr, comment string, loc SourceLocation) *Step {
	return &Step{kind: kind, Condition: cond, Comment: comment, Location: loc}
}

// Kind returns the step's current kind.
func (s *Step) Kind() Kind { return s.kind }
