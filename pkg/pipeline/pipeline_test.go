package pipeline

import (
	"bytes"
	"context"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opencorebmc/bmc/pkg/bmcoptions"
	"github.com/opencorebmc/bmc/pkg/solverapi"
	"github.com/opencorebmc/bmc/pkg/ssa"
	"github.com/opencorebmc/bmc/pkg/status"
)

type stubBackend struct {
	res solverapi.Result
}

func (s stubBackend) Run(context.Context, *ssa.Equation) solverapi.Result { return s.res }

type mapModel map[string]bool

func (m mapModel) Value(name ssa.Atom) bool { return m[string(name)] }

func newPipeline(t *testing.T, backend solverapi.Backend, opts bmcoptions.Options) (*Pipeline, *bytes.Buffer) {
	t.Helper()
	log, _ := test.NewNullLogger()
	var out bytes.Buffer
	sink := status.New(&out, log, opts.UI)
	return &Pipeline{Backend: backend, Options: opts, Sink: sink, Out: &out, Log: log}, &out
}

func singleAssertEquation() ssa.SymexResult {
	loc := ssa.SourceLocation{}
	s := ssa.NewStep(ssa.Assert, ssa.Atom("x"), "", loc)
	s.LHS = ""
	eq := ssa.NewEquation([]*ssa.Step{s})
	return ssa.SymexResult{Equation: eq, TotalClaims: 1, RemainingClaims: 1}
}

func TestRunReportsVerificationSuccessfulOnUnsat(t *testing.T) {
	opts, err := bmcoptions.New()
	require.NoError(t, err)
	p, out := newPipeline(t, stubBackend{res: solverapi.Result{Verdict: solverapi.UNSAT}}, opts)

	outcome := p.Run(context.Background(), singleAssertEquation())
	assert.False(t, outcome.Failing)
	assert.Equal(t, solverapi.UNSAT, outcome.Verdict)
	assert.Contains(t, out.String(), "VERIFICATION SUCCESSFUL")
}

func TestRunReportsVerificationFailedOnSat(t *testing.T) {
	opts, err := bmcoptions.New()
	require.NoError(t, err)
	res := solverapi.Result{Verdict: solverapi.SAT, Model: mapModel{"x": false}}
	p, out := newPipeline(t, stubBackend{res: res}, opts)

	outcome := p.Run(context.Background(), singleAssertEquation())
	assert.True(t, outcome.Failing)
	assert.Equal(t, solverapi.SAT, outcome.Verdict)
	assert.Contains(t, out.String(), "VERIFICATION FAILED")
}

func TestRunSkipsSolvingWhenNoClaimsRemain(t *testing.T) {
	opts, err := bmcoptions.New()
	require.NoError(t, err)
	p, out := newPipeline(t, stubBackend{}, opts)

	loc := ssa.SourceLocation{}
	eq := ssa.NewEquation([]*ssa.Step{ssa.NewStep(ssa.Assert, ssa.Atom("x"), "", loc)})
	outcome := p.Run(context.Background(), ssa.SymexResult{Equation: eq, TotalClaims: 1, RemainingClaims: 0})

	assert.False(t, outcome.Failing)
	assert.Contains(t, out.String(), "VERIFICATION SUCCESSFUL")
}

func TestRunFailsFastOnDuplicateAssignment(t *testing.T) {
	opts, err := bmcoptions.New(bmcoptions.WithDoubleAssignCheck(true))
	require.NoError(t, err)
	p, out := newPipeline(t, stubBackend{}, opts)

	loc := ssa.SourceLocation{}
	dup1 := ssa.NewStep(ssa.Assignment, ssa.Atom("x"), "", loc)
	dup1.LHS = "x"
	dup2 := ssa.NewStep(ssa.Assignment, ssa.Atom("x"), "", loc)
	dup2.LHS = "x"
	eq := ssa.NewEquation([]*ssa.Step{dup1, dup2})

	outcome := p.Run(context.Background(), ssa.SymexResult{Equation: eq, TotalClaims: 0, RemainingClaims: 0})
	assert.True(t, outcome.Failing)
	assert.Contains(t, out.String(), "ERROR")
}

func TestRunProgramOnlyStopsBeforeSolving(t *testing.T) {
	opts, err := bmcoptions.New(bmcoptions.WithProgramOnly(true))
	require.NoError(t, err)
	p, out := newPipeline(t, stubBackend{}, opts)

	outcome := p.Run(context.Background(), singleAssertEquation())
	assert.False(t, outcome.Failing)
	assert.Contains(t, out.String(), "1: (assert)x")
}

func TestRunBaseCaseStatusOnUnsat(t *testing.T) {
	opts, err := bmcoptions.New(bmcoptions.WithBaseCase(true))
	require.NoError(t, err)
	p, out := newPipeline(t, stubBackend{res: solverapi.Result{Verdict: solverapi.UNSAT}}, opts)

	outcome := p.Run(context.Background(), singleAssertEquation())
	assert.False(t, outcome.Failing)
	assert.Contains(t, out.String(), "No bug has been found in the base case")
}

func TestRunInductiveStepSatUnableToProveIsFailing(t *testing.T) {
	opts, err := bmcoptions.New(bmcoptions.WithInductiveStep(true))
	require.NoError(t, err)
	res := solverapi.Result{Verdict: solverapi.SAT, Model: mapModel{}}
	p, out := newPipeline(t, stubBackend{res: res}, opts)

	outcome := p.Run(context.Background(), singleAssertEquation())
	assert.True(t, outcome.Failing)
	assert.Contains(t, out.String(), "inductive step unable to prove property")
}

func TestRunForwardConditionSatUnableToProveIsFailing(t *testing.T) {
	opts, err := bmcoptions.New(bmcoptions.WithForwardCondition(true))
	require.NoError(t, err)
	res := solverapi.Result{Verdict: solverapi.SAT, Model: mapModel{}}
	p, out := newPipeline(t, stubBackend{res: res}, opts)

	outcome := p.Run(context.Background(), singleAssertEquation())
	assert.True(t, outcome.Failing)
	assert.Contains(t, out.String(), "forward condition unable to prove property")
}

func TestRunSMTFiltersToMatchingInterleaving(t *testing.T) {
	opts, err := bmcoptions.New(bmcoptions.WithSMT(true), bmcoptions.WithSMTLibIleaveNum("2"))
	require.NoError(t, err)
	p, out := newPipeline(t, stubBackend{res: solverapi.Result{Verdict: solverapi.EMITTED}}, opts)
	p.InterleavingNumber = 1

	outcome := p.Run(context.Background(), singleAssertEquation())
	assert.False(t, outcome.Failing)
	assert.Empty(t, out.String())
}

func TestRunSMTWithUnsetIleaveNumMatchesNothing(t *testing.T) {
	opts, err := bmcoptions.New(bmcoptions.WithSMT(true))
	require.NoError(t, err)
	p, _ := newPipeline(t, stubBackend{res: solverapi.Result{Verdict: solverapi.EMITTED}}, opts)
	p.InterleavingNumber = 0

	outcome := p.Run(context.Background(), singleAssertEquation())
	assert.False(t, outcome.Failing)
}

func TestRunSMTMatchingIleaveNumReachesBackend(t *testing.T) {
	opts, err := bmcoptions.New(bmcoptions.WithSMT(true), bmcoptions.WithSMTLibIleaveNum("1"))
	require.NoError(t, err)
	p, _ := newPipeline(t, stubBackend{res: solverapi.Result{Verdict: solverapi.EMITTED}}, opts)
	p.InterleavingNumber = 1

	outcome := p.Run(context.Background(), singleAssertEquation())
	assert.True(t, outcome.Failing)
	assert.Equal(t, solverapi.EMITTED, outcome.Verdict)
}

func TestRunDecisionProcedureErrorReportsFailure(t *testing.T) {
	opts, err := bmcoptions.New()
	require.NoError(t, err)
	p, out := newPipeline(t, stubBackend{res: solverapi.Result{Verdict: solverapi.ERROR}}, opts)

	outcome := p.Run(context.Background(), singleAssertEquation())
	assert.True(t, outcome.Failing)
	assert.Contains(t, out.String(), "decision procedure failed")
}

func TestRunEmittedIsFailing(t *testing.T) {
	opts, err := bmcoptions.New()
	require.NoError(t, err)
	p, _ := newPipeline(t, stubBackend{res: solverapi.Result{Verdict: solverapi.EMITTED}}, opts)

	outcome := p.Run(context.Background(), singleAssertEquation())
	assert.True(t, outcome.Failing)
	assert.Equal(t, solverapi.EMITTED, outcome.Verdict)
}
