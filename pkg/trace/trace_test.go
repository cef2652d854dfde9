package trace

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opencorebmc/bmc/pkg/bmcoptions"
	"github.com/opencorebmc/bmc/pkg/ssa"
)

type mapModel map[string]bool

func (m mapModel) Value(name ssa.Atom) bool { return m[string(name)] }

func TestBuildExtractsValuesForLiveSteps(t *testing.T) {
	loc := ssa.SourceLocation{File: "main.c", Line: 3, Function: "main"}
	s1 := ssa.NewStep(ssa.Assume, ssa.Atom("x"), "", loc)
	s2 := ssa.NewStep(ssa.Assert, ssa.Not{X: ssa.Atom("x")}, "bound check", loc)
	eq := ssa.NewEquation([]*ssa.Step{s1, s2})

	tr := Build(eq, mapModel{"x": true}, "trace.json")

	require.Len(t, tr.Steps, 2)
	assert.Equal(t, "trace.json", tr.MetadataFile)
	assert.Equal(t, true, tr.Steps[0].Values["x"])
	assert.Equal(t, true, tr.Steps[1].Values["x"])
	assert.Equal(t, "bound check", tr.Steps[1].Comment)
}

func TestBuildSkipsSkippedSteps(t *testing.T) {
	loc := ssa.SourceLocation{}
	s1 := ssa.NewStep(ssa.Assert, ssa.Atom("x"), "", loc)
	eq := ssa.NewEquation([]*ssa.Step{s1})
	require.NoError(t, eq.SetKind(s1, ssa.Skip))

	tr := Build(eq, mapModel{"x": true}, "")
	assert.Empty(t, tr.Steps)
}

func TestBuildHandlesNilCondition(t *testing.T) {
	loc := ssa.SourceLocation{}
	s1 := ssa.NewStep(ssa.Renumber, nil, "", loc)
	eq := ssa.NewEquation([]*ssa.Step{s1})

	tr := Build(eq, mapModel{}, "")
	require.Len(t, tr.Steps, 1)
	assert.Nil(t, tr.Steps[0].Values)
}

func buildSingleStepTrace() *Trace {
	loc := ssa.SourceLocation{File: "main.c", Line: 3, Function: "main"}
	s1 := ssa.NewStep(ssa.Assert, ssa.Atom("x"), "bound check", loc)
	eq := ssa.NewEquation([]*ssa.Step{s1})
	return Build(eq, mapModel{"x": false}, "trace.json")
}

func TestRenderPlainIncludesStateNumbers(t *testing.T) {
	tr := buildSingleStepTrace()
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, tr, bmcoptions.Plain))
	assert.Contains(t, buf.String(), "Counterexample:")
	assert.Contains(t, buf.String(), "State 1:")
	assert.Contains(t, buf.String(), "x=false")
}

func TestRenderOldGUIOmitsStateNumbers(t *testing.T) {
	tr := buildSingleStepTrace()
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, tr, bmcoptions.OldGUI))
	assert.NotContains(t, buf.String(), "State 1:")
	assert.Contains(t, buf.String(), "ASSERT")
}

func TestRenderXMLProducesGotoTraceDocument(t *testing.T) {
	tr := buildSingleStepTrace()
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, tr, bmcoptions.XMLUI))
	assert.Contains(t, buf.String(), "<goto-trace")
	assert.Contains(t, buf.String(), `metadata="trace.json"`)
	assert.Contains(t, buf.String(), `kind="ASSERT"`)
	assert.Contains(t, buf.String(), `comment="bound check"`)
}

func TestStepViewStringOmitsCommentWhenEmpty(t *testing.T) {
	v := StepView{Kind: ssa.Assume, Location: ssa.SourceLocation{File: "f.c", Line: 2}}
	assert.Equal(t, "ASSUME at f.c:2", v.String())
}
