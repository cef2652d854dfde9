package ssa

import "fmt"

// ErrEncodingInFlight is returned by SetKind when an attempt is made to
// restore a SKIP step to ASSERT while the Equation is checked out for
// encoding (see Equation.BeginEncoding/EndEncoding).
var ErrEncodingInFlight = fmt.Errorf("ssa: cannot restore SKIP to ASSERT while an encoding is in flight")

// Equation is an opaque handle over an ordered sequence of SSA steps, the
// "target equation" handed to a decision procedure: order is significant
// and preserved by every operation in this package; slicing (pkg/slicer) is
// the only thing permitted to drop steps, and it may never reorder them.
type Equation struct {
	steps     []*Step
	encoding  bool
	metadata  map[string]string
}

// NewEquation builds an Equation from steps, in the given order.
func NewEquation(steps []*Step) *Equation {
	return &Equation{steps: steps, metadata: map[string]string{}}
}

// Steps returns the live (non-SKIP) steps in order. Callers that need to see
// SKIP steps (e.g. the LTL driver's restoration logic) use All instead.
func (e *Equation) Steps() []*Step {
	out := make([]*Step, 0, len(e.steps))
	for _, s := range e.steps {
		if s.kind != Skip {
			out = append(out, s)
		}
	}
	return out
}

// All returns every step, including those currently marked SKIP, in order.
func (e *Equation) All() []*Step {
	return e.steps
}

// Len returns the total number of steps, including SKIP.
func (e *Equation) Len() int { return len(e.steps) }

// SetKind mutates the kind of step s in place. Restoring a SKIP step to
// ASSERT while an encoding of this Equation is in flight is rejected.
func (e *Equation) SetKind(s *Step, k Kind) error {
	if e.encoding && s.kind == Skip && k == Assert {
		return ErrEncodingInFlight
	}
	s.kind = k
	return nil
}

// BeginEncoding/EndEncoding bracket the window during which a backend holds
// this Equation for encode+solve. The VC pipeline and the LTL driver call
// these around each solver invocation.
func (e *Equation) BeginEncoding() { e.encoding = true }
func (e *Equation) EndEncoding()   { e.encoding = false }

// SetMetadata attaches an opaque string to the equation (e.g. a trace
// metadata filename configured via options); GetMetadata retrieves it.
func (e *Equation) SetMetadata(key, value string) { e.metadata[key] = value }
func (e *Equation) GetMetadata(key string) (string, bool) {
	v, ok := e.metadata[key]
	return v, ok
}

// Assertions returns the live (non-SKIP) ASSERT steps, in order.
func (e *Equation) Assertions() []*Step {
	var out []*Step
	for _, s := range e.steps {
		if s.kind == Assert {
			out = append(out, s)
		}
	}
	return out
}

// Slice returns a new Equation containing only the steps for which keep
// returns true, preserving order. Used by pkg/slicer; never reorders.
func (e *Equation) Slice(keep func(*Step) bool) *Equation {
	var kept []*Step
	for _, s := range e.steps {
		if keep(s) {
			kept = append(kept, s)
		}
	}
	return NewEquation(kept)
}

// SymexResult pairs an Equation with the claim counts symex attached to it.
// Owned by the VC pipeline for the duration of one cycle.
type SymexResult struct {
	Equation        *Equation
	TotalClaims     int
	RemainingClaims int
}
