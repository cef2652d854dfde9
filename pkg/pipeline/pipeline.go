// Package pipeline implements the verification-condition pipeline: slice,
// optionally emit an artifact and return, encode+solve, and interpret the
// verdict against the k-induction option flags.
//
// One call performs build-constraints -> solve -> interpret-result for a
// single cycle, keeping collaborator errors local to that cycle rather than
// aborting the caller's loop.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/opencorebmc/bmc/pkg/bmcoptions"
	"github.com/opencorebmc/bmc/pkg/slicer"
	"github.com/opencorebmc/bmc/pkg/solverapi"
	"github.com/opencorebmc/bmc/pkg/ssa"
	"github.com/opencorebmc/bmc/pkg/status"
	"github.com/opencorebmc/bmc/pkg/trace"
)

// Outcome is what one VC cycle reports back to the exploration loop.
type Outcome struct {
	// Failing is the process-level "failing" indicator.
	Failing bool
	Verdict solverapi.Verdict
	Metrics solverapi.Metrics
}

// Pipeline owns everything one VC cycle needs beyond the equation itself.
type Pipeline struct {
	Backend solverapi.Backend
	Options bmcoptions.Options
	Sink    *status.Sink
	Out     io.Writer
	Log     logrus.FieldLogger

	// InterleavingNumber is the exploration loop's current interleaving
	// counter for this cycle (0 in scheduler mode). Only consulted when
	// Options.SMT is set, to filter to a single interleaving.
	InterleavingNumber int
}

// Run executes one VC cycle over result. It never returns a Go error for
// collaborator failures: those are logged to Sink and folded into
// Outcome.Failing, so that one cycle's error never poisons the caller's loop.
func (p *Pipeline) Run(ctx context.Context, result ssa.SymexResult) Outcome {
	eq := result.Equation

	if p.Options.DoubleAssignCheck {
		if err := slicer.CheckDuplicateAssigns(eq); err != nil {
			p.Sink.Error(err.Error())
			return Outcome{Failing: true}
		}
	}

	eq = p.slice(eq)

	if p.Options.ProgramOnly || p.Options.ProgramToo {
		p.emitProgram(eq)
		if p.Options.ProgramOnly {
			return Outcome{Failing: false}
		}
	}
	if p.Options.DocumentSubgoals || p.Options.ShowVCC {
		p.emitProgram(eq)
		return Outcome{Failing: false}
	}

	if result.RemainingClaims == 0 {
		p.Sink.VerificationSuccessful()
		return Outcome{Failing: false}
	}

	if p.Options.SMT && !p.matchesIleaveFilter() {
		return Outcome{Failing: false}
	}

	eq.BeginEncoding()
	res := p.Backend.Run(ctx, eq)
	eq.EndEncoding()

	if res.Verdict != solverapi.EMITTED {
		p.Log.WithFields(logrus.Fields{
			"encode_duration": res.Metrics.EncodeDuration,
			"solve_duration":  res.Metrics.SolveDuration,
		}).Debug("vc pipeline timings")
	}

	return p.interpret(eq, res)
}

func (p *Pipeline) slice(eq *ssa.Equation) *ssa.Equation {
	switch {
	case p.Options.SliceByTrace != "":
		return slicer.ByTrace(eq, p.Options.SliceByTrace, p.Options.KeepUnused)
	case p.Options.NoSlice:
		return slicer.Simple(eq, p.Options.KeepUnused)
	default:
		return slicer.Full(eq, p.Options.KeepUnused)
	}
}

// matchesIleaveFilter reports whether the current interleaving is the one
// requested by SMTLibIleaveNum. Malformed or absent input never matches, so
// an --smt run with no --smtlib-ileave-num emits nothing rather than
// defaulting to interleaving 0.
func (p *Pipeline) matchesIleaveFilter() bool {
	n, err := strconv.Atoi(p.Options.SMTLibIleaveNum)
	if err != nil {
		return false
	}
	return n == p.InterleavingNumber
}

// emitProgram renders every live assignment/assert/assume as a
// human-readable constraint line with a stable numbering, labeling assert
// and assume steps and leaving assignment steps bare.
func (p *Pipeline) emitProgram(eq *ssa.Equation) {
	n := 0
	for _, s := range eq.Steps() {
		if s.Condition == nil {
			continue
		}
		var label string
		switch s.Kind() {
		case ssa.Assignment:
		case ssa.Assert:
			label = "(assert)"
		case ssa.Assume:
			label = "(assume)"
		default:
			continue
		}
		n++
		fmt.Fprintf(p.Out, "%d: %s%s\n", n, label, ssa.ExprString(s.Condition))
	}
}

func (p *Pipeline) interpret(eq *ssa.Equation, res solverapi.Result) Outcome {
	opt := p.Options
	switch res.Verdict {
	case solverapi.UNSAT:
		if opt.BaseCase {
			p.Sink.Status("No bug has been found in the base case")
			return Outcome{Failing: false, Verdict: res.Verdict, Metrics: res.Metrics}
		}
		p.Sink.VerificationSuccessful()
		return Outcome{Failing: false, Verdict: res.Verdict, Metrics: res.Metrics}

	case solverapi.SAT:
		switch {
		case opt.InductiveStep && opt.ShowCounterExample:
			p.renderTrace(eq, res)
			p.Sink.VerificationFailed()
			return Outcome{Failing: false, Verdict: res.Verdict, Metrics: res.Metrics}
		case opt.InductiveStep:
			p.Sink.Status("inductive step unable to prove property")
			return Outcome{Failing: true, Verdict: res.Verdict, Metrics: res.Metrics}
		case opt.ForwardCondition:
			p.Sink.Status("forward condition unable to prove property")
			return Outcome{Failing: true, Verdict: res.Verdict, Metrics: res.Metrics}
		default:
			p.renderTrace(eq, res)
			p.Sink.VerificationFailed()
			return Outcome{Failing: true, Verdict: res.Verdict, Metrics: res.Metrics}
		}

	case solverapi.EMITTED:
		return Outcome{Failing: true, Verdict: res.Verdict, Metrics: res.Metrics}

	default: // solverapi.ERROR
		p.Sink.DecisionProcedureFailed()
		return Outcome{Failing: true, Verdict: res.Verdict, Metrics: res.Metrics}
	}
}

// renderTrace builds and renders the counterexample. Invoked on exactly the
// two SAT paths that require one; never on UNSAT, EMITTED, or ERROR.
func (p *Pipeline) renderTrace(eq *ssa.Equation, res solverapi.Result) {
	metadataFile, _ := eq.GetMetadata("trace-metadata-file")
	t := trace.Build(eq, res.Model, metadataFile)
	if err := trace.Render(p.Out, t, p.Options.UI); err != nil {
		p.Log.WithError(err).Error("pipeline: failed to render counterexample")
	}
}
