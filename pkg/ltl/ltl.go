// Package ltl implements the tri-state LTL driver: up to three solver
// queries over the same Equation, masking assertion kinds in place between
// stages and always restoring them afterward.
//
// runStage wraps each stage in a scoped mutation with a defer so restoration
// happens on every exit path, including a panic from the backend call.
package ltl

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/opencorebmc/bmc/pkg/solverapi"
	"github.com/opencorebmc/bmc/pkg/ssa"
)

// Outcome is the tri-state (quad, really) verdict, ordered from most to
// least severe as Outcome's underlying value: BAD is the lowest (0), GOOD
// the highest (3), so "report the lowest severity outcome observed" reduces
// to a linear scan.
type Outcome int

const (
	Bad Outcome = iota
	Failing
	Succeeding
	Good
)

func (o Outcome) String() string {
	switch o {
	case Bad:
		return "LTL_BAD"
	case Failing:
		return "LTL_FAILING"
	case Succeeding:
		return "LTL_SUCCEEDING"
	default:
		return "LTL_GOOD"
	}
}

// BackendFactory constructs a fresh in-process solver instance for one LTL
// stage: each stage uses a fresh backend rather than reusing one across
// stages.
type BackendFactory func() solverapi.Backend

var stageTags = []string{ssa.CommentLTLBad, ssa.CommentLTLFailing, ssa.CommentLTLSucceeding}
var stageOutcomes = []Outcome{Bad, Failing, Succeeding}

// Run executes the tri-state protocol over eq and returns the first stage's
// outcome to come back SAT, or Good if none do. eq is never re-sliced
// between stages, and is restored to its original step kinds on every exit
// path.
func Run(ctx context.Context, eq *ssa.Equation, newBackend BackendFactory, log logrus.FieldLogger) (Outcome, error) {
	for i, tag := range stageTags {
		sat, err := runStage(ctx, eq, tag, newBackend, log)
		if err != nil {
			return Good, err
		}
		if sat {
			return stageOutcomes[i], nil
		}
	}
	return Good, nil
}

// runStage masks every live assertion whose comment != tag to SKIP, solves
// if at least one assertion matching tag remains, and restores every step
// it masked before returning — on every exit path.
func runStage(ctx context.Context, eq *ssa.Equation, tag string, newBackend BackendFactory, log logrus.FieldLogger) (sat bool, err error) {
	var masked []*ssa.Step
	matched := false
	for _, s := range eq.Assertions() {
		if s.Comment == tag {
			matched = true
			continue
		}
		if err := eq.SetKind(s, ssa.Skip); err != nil {
			return false, err
		}
		masked = append(masked, s)
	}
	defer func() {
		for _, s := range masked {
			// The deferred EndEncoding below runs before this, so
			// SKIP->ASSERT is always legal here.
			_ = eq.SetKind(s, ssa.Assert)
		}
	}()

	if !matched {
		log.Warnf("ltl: no assertion tagged %s; skipping this stage", tag)
		return false, nil
	}

	eq.BeginEncoding()
	defer eq.EndEncoding()
	res := newBackend().Run(ctx, eq)

	return res.Verdict == solverapi.SAT, nil
}
