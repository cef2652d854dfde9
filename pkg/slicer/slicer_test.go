package slicer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opencorebmc/bmc/pkg/ssa"
)

func assign(lhs string, reads ...string) *ssa.Step {
	s := ssa.NewStep(ssa.Assignment, ssa.Atom(lhs), "", ssa.SourceLocation{})
	s.LHS = lhs
	s.Reads = reads
	return s
}

func assertStep(comment string, reads ...string) *ssa.Step {
	s := ssa.NewStep(ssa.Assert, ssa.Atom("p"), comment, ssa.SourceLocation{})
	s.Reads = reads
	return s
}

func assumeStep(reads ...string) *ssa.Step {
	s := ssa.NewStep(ssa.Assume, ssa.Atom("q"), "", ssa.SourceLocation{})
	s.Reads = reads
	return s
}

func TestCheckDuplicateAssigns(t *testing.T) {
	eq := ssa.NewEquation([]*ssa.Step{assign("x"), assign("y"), assign("x")})
	err := CheckDuplicateAssigns(eq)
	require.Error(t, err)
	var dup DuplicateAssignment
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "x", string(dup))
}

func TestCheckDuplicateAssignsClean(t *testing.T) {
	eq := ssa.NewEquation([]*ssa.Step{assign("x"), assign("y")})
	assert.NoError(t, CheckDuplicateAssigns(eq))
}

func TestSimpleKeepsOnlyAsserts(t *testing.T) {
	a := assign("x")
	u := assumeStep("x")
	c := assertStep("c1", "x")
	eq := ssa.NewEquation([]*ssa.Step{a, u, c})

	sliced := Simple(eq, false)
	assert.Equal(t, []*ssa.Step{c}, sliced.Steps())
}

func TestSimpleKeepUnusedRetainsEverything(t *testing.T) {
	a := assign("x")
	u := assumeStep("x")
	c := assertStep("c1", "x")
	eq := ssa.NewEquation([]*ssa.Step{a, u, c})

	sliced := Simple(eq, true)
	assert.Equal(t, []*ssa.Step{a, u, c}, sliced.Steps())
}

func TestFullKeepsTransitiveDependencies(t *testing.T) {
	defX := assign("x")
	defY := assign("y", "x")
	unrelated := assign("z")
	guard := assumeStep("y")
	claim := assertStep("c1", "y")
	eq := ssa.NewEquation([]*ssa.Step{defX, defY, unrelated, guard, claim})

	sliced := Full(eq, false)
	got := sliced.Steps()

	assert.Contains(t, got, defX)
	assert.Contains(t, got, defY)
	assert.Contains(t, got, guard)
	assert.Contains(t, got, claim)
	assert.NotContains(t, got, unrelated)
}

func TestFullKeepUnusedRetainsUnreferencedSymbols(t *testing.T) {
	defX := assign("x")
	unrelated := assign("z")
	claim := assertStep("c1", "x")
	eq := ssa.NewEquation([]*ssa.Step{defX, unrelated, claim})

	sliced := Full(eq, true)
	assert.Contains(t, sliced.Steps(), unrelated)
}

func TestByTraceSelectsNamedAssertion(t *testing.T) {
	defX := assign("x")
	defY := assign("y")
	claimA := assertStep("trace-a", "x")
	claimB := assertStep("trace-b", "y")
	eq := ssa.NewEquation([]*ssa.Step{defX, defY, claimA, claimB})

	sliced := ByTrace(eq, "trace-a", false)
	got := sliced.Steps()

	assert.Contains(t, got, defX)
	assert.Contains(t, got, claimA)
	assert.NotContains(t, got, defY)
	assert.NotContains(t, got, claimB)
}

func TestByTraceNoMatchKeepsNoAssertions(t *testing.T) {
	eq := ssa.NewEquation([]*ssa.Step{assign("x"), assertStep("trace-a", "x")})
	sliced := ByTrace(eq, "nonexistent", false)
	assert.Empty(t, sliced.Assertions())
}
