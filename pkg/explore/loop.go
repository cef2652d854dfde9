// Package explore implements the top-level exploration loop: scheduler mode
// vs enumeration mode, the underapproximation-widening refinement loop,
// interleaving enumeration with checkpoint/resume, and the LTL tri-state
// integration.
//
// It iterates interleavings, aggregates per-item errors without aborting the
// whole run, and delegates solving to a backend constructed fresh per cycle.
package explore

import (
	"context"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	utilerrors "k8s.io/apimachinery/pkg/util/errors"

	"github.com/opencorebmc/bmc/pkg/bmcoptions"
	"github.com/opencorebmc/bmc/pkg/checkpoint"
	"github.com/opencorebmc/bmc/pkg/ltl"
	"github.com/opencorebmc/bmc/pkg/pipeline"
	"github.com/opencorebmc/bmc/pkg/solverapi"
	"github.com/opencorebmc/bmc/pkg/ssa"
	"github.com/opencorebmc/bmc/pkg/status"
	"github.com/opencorebmc/bmc/pkg/symex"
)

// Counters are the process-local, monotonic exploration counters.
type Counters struct {
	InterleavingNumber int
	InterleavingFailed int
	UWLoop             int
	LTLResultsSeen     [4]int // indexed by ltl.Outcome: Bad, Failing, Succeeding, Good
}

// Loop is the top-level driver. NewBackend constructs one fresh Backend per
// VC cycle; for runtime-shared mode, pass a factory that always returns the
// same externally-owned pkg/backend/shared wrapper.
type Loop struct {
	Executor   symex.Executor
	NewBackend func() solverapi.Backend
	Options    bmcoptions.Options
	Sink       *status.Sink
	Out        io.Writer
	Log        logrus.FieldLogger
	Flag       *CheckpointFlag
	PID        int

	Counters Counters
}

// Run executes one top-level invocation: restores from checkpoint if
// configured, then runs scheduler or enumeration mode. The returned bool is
// the process-level "failing" indicator.
func (l *Loop) Run(ctx context.Context) (failing bool, err error) {
	if l.Options.FromCheckpoint {
		if err := checkpoint.Restore(l.Executor, l.Options.CheckpointFile); err != nil {
			l.Sink.Error(err.Error())
			return true, err
		}
	} else {
		l.Executor.SetupForNewExplore()
	}

	if l.Options.Schedule {
		return l.runScheduler(ctx)
	}
	return l.runEnumeration(ctx)
}

func (l *Loop) newPipeline(backend solverapi.Backend) *pipeline.Pipeline {
	return &pipeline.Pipeline{
		Backend:            backend,
		Options:            l.Options,
		Sink:               l.Sink,
		Out:                l.Out,
		Log:                l.Log,
		InterleavingNumber: l.Counters.InterleavingNumber,
	}
}

// runScheduler implements scheduler mode: one schedule formula, looped under
// the underapproximation-widening fixpoint if UWModel is set.
func (l *Loop) runScheduler(ctx context.Context) (bool, error) {
	res, err := l.Executor.GenerateScheduleFormula()
	if err != nil {
		l.Sink.Error(err.Error())
		return true, err
	}
	if !l.Options.UWModel {
		return l.runCycle(ctx, res).Failing, nil
	}

	// UW fixpoint: underapproximation-widening is treated as a fixpoint over
	// unsat-core size. Every solve counts as one UW iteration; each later
	// iteration asks symex to regenerate the schedule formula with its
	// underapproximation widened, since backends here are stateless across
	// cycles rather than incrementally re-assumable.
	firstUW := true
	for {
		l.Counters.UWLoop++
		if !firstUW {
			l.Sink.Status(fmt.Sprintf("UW loop %d", l.Counters.UWLoop))
		}
		firstUW = false

		outcome := l.runCycle(ctx, res)
		if outcome.Metrics.UnsatCoreSize == 0 {
			return outcome.Failing, nil
		}

		res, err = l.Executor.GenerateScheduleFormula()
		if err != nil {
			l.Sink.Error(err.Error())
			return true, err
		}
	}
}

// runEnumeration implements enumeration mode. Checkpoint and
// schedule-advance failures are non-fatal to the run as a whole under
// AllRuns; they are logged individually via Sink.Error as they occur and
// also collected, so the caller gets back one aggregate error rather than
// only the last one observed.
func (l *Loop) runEnumeration(ctx context.Context) (bool, error) {
	overallFailing := false
	var errs []error
	for {
		l.Counters.InterleavingNumber++
		if !l.Options.KInduction && l.Counters.InterleavingNumber > 1 {
			l.Sink.Status(fmt.Sprintf("Interleaving %d", l.Counters.InterleavingNumber))
		}

		res, err := l.Executor.GetNextFormula()
		if err != nil {
			l.Sink.Error(err.Error())
			errs = append(errs, err)
			overallFailing = true
			break
		}

		var failing bool
		if l.Options.LTL {
			failing = l.runLTLCycle(ctx, res)
		} else {
			failing = l.runCycle(ctx, res).Failing
		}

		if failing {
			l.Counters.InterleavingFailed++
			if l.Options.CheckpointOnCex {
				if _, err := checkpoint.Save(l.Executor, l.Options.CheckpointFile, l.PID); err != nil {
					l.Sink.Error(err.Error())
					errs = append(errs, err)
				}
			}
			overallFailing = true
			if !l.Options.AllRuns {
				return true, utilerrors.NewAggregate(errs)
			}
		}

		if l.Flag.TestAndClear() {
			if _, err := checkpoint.Save(l.Executor, l.Options.CheckpointFile, l.PID); err != nil {
				l.Sink.Error(err.Error())
				errs = append(errs, err)
			}
		}

		if l.Options.InteractiveIleaves {
			break
		}

		more, err := l.Executor.SetupNextFormula()
		if err != nil {
			l.Sink.Error(err.Error())
			errs = append(errs, err)
			break
		}
		if !more {
			break
		}
	}

	if l.Options.AllRuns {
		l.Sink.Status(fmt.Sprintf("%d interleavings explored, %d failed",
			l.Counters.InterleavingNumber, l.Counters.InterleavingFailed))
	}

	if l.Options.LTL {
		l.Sink.Status(l.lowestLTLOutcome())
		return false, utilerrors.NewAggregate(errs)
	}

	return overallFailing, utilerrors.NewAggregate(errs)
}

// runLTLCycle runs the tri-state protocol for one interleaving's equation
// and records its outcome. LTL cycles never count as a failing verdict; the
// outcome is reported only through the summary status line at loop exit.
func (l *Loop) runLTLCycle(ctx context.Context, res ssa.SymexResult) bool {
	outcome, err := ltl.Run(ctx, res.Equation, l.NewBackend, l.Log)
	if err != nil {
		l.Sink.Error(err.Error())
		return false
	}
	l.Counters.LTLResultsSeen[outcome]++
	return false
}

// lowestLTLOutcome consults the per-outcome counters and reports the lowest
// severity outcome observed across the run.
func (l *Loop) lowestLTLOutcome() string {
	for o := ltl.Bad; o <= ltl.Good; o++ {
		if l.Counters.LTLResultsSeen[o] > 0 {
			return "Final lowest outcome: " + o.String()
		}
	}
	return "No traces seen"
}

func (l *Loop) runCycle(ctx context.Context, res ssa.SymexResult) pipeline.Outcome {
	p := l.newPipeline(l.NewBackend())
	return p.Run(ctx, res)
}
