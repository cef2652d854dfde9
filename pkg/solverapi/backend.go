// Package solverapi is the uniform contract over concrete decision
// procedures. Backend.Run returns an explicit Verdict so the driver can
// distinguish UNSAT/SAT/EMITTED/ERROR without relying on error-typing.
package solverapi

import (
	"context"
	"time"

	"github.com/opencorebmc/bmc/pkg/ssa"
)

// Verdict is the outcome of one backend Run.
type Verdict int

const (
	UNSAT Verdict = iota
	SAT
	EMITTED
	ERROR
)

func (v Verdict) String() string {
	switch v {
	case UNSAT:
		return "UNSAT"
	case SAT:
		return "SAT"
	case EMITTED:
		return "EMITTED"
	case ERROR:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Metrics are the post-hoc, underapproximation-widening-relevant
// measurements a backend may expose after an UNSAT solve. A backend that
// cannot produce them (e.g. the text emitter) returns zero values. The
// exploration loop reads UnsatCoreSize only when UWModel is set; the VC
// pipeline logs the two durations for every result that is not EMITTED.
type Metrics struct {
	UnsatCoreSize    int
	AssumptionCount  int
	EncodeDuration   time.Duration
	SolveDuration    time.Duration
}

// Model is the satisfying assignment returned alongside a SAT verdict,
// consumed by pkg/trace to build a counterexample.
type Model interface {
	// Value returns the truth value the solver assigned to the named atom
	// in the model that made the equation satisfiable.
	Value(name ssa.Atom) bool
}

// Result is returned by Backend.Run.
type Result struct {
	Verdict Verdict
	Model   Model
	Metrics Metrics
	Err     error
}

// Backend composes encode+solve+(optional)post-hoc-metrics for one
// Equation. Implementations must clear their internal caches once encoding
// completes, to bound peak memory.
type Backend interface {
	Run(ctx context.Context, eq *ssa.Equation) Result
}
