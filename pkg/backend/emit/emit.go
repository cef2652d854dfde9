// Package emit implements the text-emitter backend: it drives the inner
// backend's encode+solve (to exercise the same encoding path every other
// backend uses) and then writes the banner-prefixed native formula text to a
// file or stdout, returning EMITTED so the driver exits without claiming a
// verdict.
package emit

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/opencorebmc/bmc/pkg/solverapi"
	"github.com/opencorebmc/bmc/pkg/ssa"
)

// Config carries the banner fields rendered verbatim at the top of the
// emitted formula file.
type Config struct {
	ToolName    string
	ToolVersion string
}

type backend struct {
	cfg    Config
	inner  solverapi.Backend
	writer io.Writer
	closer io.Closer // nil when writer is process stdout
}

// New returns a text-emitter backend. inner is used to drive encode+solve
// before emission; w is the destination (a file or stdout). If w also
// implements io.Closer and is not stdout, pass closer so Close can release
// it; the backend owns the stream in that case.
func New(cfg Config, inner solverapi.Backend, w io.Writer, closer io.Closer) solverapi.Backend {
	return &backend{cfg: cfg, inner: inner, writer: w, closer: closer}
}

// Close releases the output stream, if this backend owns it.
func (b *backend) Close() error {
	if b.closer != nil {
		return b.closer.Close()
	}
	return nil
}

func (b *backend) Run(ctx context.Context, eq *ssa.Equation) solverapi.Result {
	// Drive the inner backend to exercise the same encode path as every
	// other backend, then discard its verdict: emission mode never claims
	// SAT or UNSAT.
	_ = b.inner.Run(ctx, eq)

	fmt.Fprintf(b.writer, "%%%%%%\n%%%%%% Generated by %s %s\n%%%%%%\n\n", b.cfg.ToolName, b.cfg.ToolVersion)
	fmt.Fprint(b.writer, formulaText(eq))

	return solverapi.Result{Verdict: solverapi.EMITTED}
}

// formulaText renders the native formula text: one s-expression line per
// live assume/assignment/assert step, in equation order.
func formulaText(eq *ssa.Equation) string {
	var b strings.Builder
	for _, step := range eq.Steps() {
		var tag string
		switch step.Kind() {
		case ssa.Assignment:
			tag = "assign"
		case ssa.Assume:
			tag = "assume"
		case ssa.Assert:
			tag = "assert"
		default:
			continue
		}
		if step.Condition == nil {
			continue
		}
		fmt.Fprintf(&b, "(%s %s)\n", tag, ssa.ExprString(step.Condition))
	}
	return b.String()
}
