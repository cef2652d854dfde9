// Package ginisolver is the in-process decision-procedure backend: a
// logic.C circuit builds Tseitin CNF for the formula, go-air/gini solves it,
// and inter.Assumable.Why drives unsat-core extraction.
//
// The BMC encoding it implements is the conjunction of every live
// assignment/assume condition, together with a disjunction of the negations
// of every live assertion. SAT means some assertion can be violated while
// every assumption holds; UNSAT means none can.
package ginisolver

import (
	"context"
	"time"

	"github.com/go-air/gini"
	"github.com/go-air/gini/logic"
	"github.com/go-air/gini/z"

	"github.com/opencorebmc/bmc/pkg/solverapi"
	"github.com/opencorebmc/bmc/pkg/ssa"
)

// Config is the construction-time configuration: is-cpp, integer-vs-bitvector
// encoding, namespace, and the requested unsat-core size bound. CPP,
// IntegerEncoding, and Namespace are stored but not read by Run; the
// encoding is identical either way. CoreSize bounds the unsat-core size this backend
// reports; zero means unbounded.
type Config struct {
	CPP             bool
	IntegerEncoding bool
	Namespace       string
	CoreSize        int
}

type backend struct {
	cfg Config
}

// New returns an in-process backend. Each call to Run constructs a fresh
// gini instance and circuit: backends are stateless across cycles.
func New(cfg Config) solverapi.Backend {
	return &backend{cfg: cfg}
}

type model struct {
	values map[ssa.Atom]bool
}

func (m *model) Value(name ssa.Atom) bool { return m.values[name] }

func (b *backend) Run(_ context.Context, eq *ssa.Equation) solverapi.Result {
	encodeStart := time.Now()

	c := logic.NewCCap(eq.Len())
	g := gini.New()

	enc := &encoder{c: c, lits: map[ssa.Atom]z.Lit{}}
	enc.trueLit = c.Lit()

	var conjuncts []z.Lit
	var negatedAsserts []z.Lit
	for _, step := range eq.Steps() {
		switch step.Kind() {
		case ssa.Assignment, ssa.Assume:
			if step.Condition == nil {
				continue
			}
			conjuncts = append(conjuncts, enc.lit(step.Condition))
		case ssa.Assert:
			if step.Condition == nil {
				continue
			}
			negatedAsserts = append(negatedAsserts, enc.lit(step.Condition).Not())
		}
	}

	mustHold := append([]z.Lit{enc.trueLit}, conjuncts...)
	if len(negatedAsserts) > 0 {
		violation := negatedAsserts[0]
		for _, m := range negatedAsserts[1:] {
			violation = c.Or(violation, m)
		}
		mustHold = append(mustHold, violation)
	}

	c.ToCnf(g)
	// The circuit is no longer needed once its clauses are taught to g;
	// dropping the reference bounds peak memory.
	enc.c = nil

	g.Assume(mustHold...)
	encodeDuration := time.Since(encodeStart)

	solveStart := time.Now()
	outcome := g.Solve()
	solveDuration := time.Since(solveStart)

	metrics := solverapi.Metrics{
		AssumptionCount: len(mustHold),
		EncodeDuration:  encodeDuration,
		SolveDuration:   solveDuration,
	}

	switch outcome {
	case 1: // satisfiable
		values := make(map[ssa.Atom]bool, len(enc.lits))
		for atom, lit := range enc.lits {
			values[atom] = g.Value(lit)
		}
		return solverapi.Result{Verdict: solverapi.SAT, Model: &model{values: values}, Metrics: metrics}
	case -1: // unsatisfiable
		why := g.Why(nil)
		core := len(why)
		if b.cfg.CoreSize > 0 && core > b.cfg.CoreSize {
			core = b.cfg.CoreSize
		}
		metrics.UnsatCoreSize = core
		return solverapi.Result{Verdict: solverapi.UNSAT, Metrics: metrics}
	default:
		return solverapi.Result{Verdict: solverapi.ERROR, Err: errIncomplete}
	}
}

var errIncomplete = incompleteErr{}

type incompleteErr struct{}

func (incompleteErr) Error() string { return "ginisolver: solver returned an inconclusive outcome" }

// encoder lowers ssa.Expr trees into gini logic-circuit literals, caching one
// literal per distinct Atom.
type encoder struct {
	c       *logic.C
	lits    map[ssa.Atom]z.Lit
	trueLit z.Lit
}

func (e *encoder) lit(expr ssa.Expr) z.Lit {
	switch v := expr.(type) {
	case ssa.Atom:
		if m, ok := e.lits[v]; ok {
			return m
		}
		m := e.c.Lit()
		e.lits[v] = m
		return m
	case ssa.Const:
		if bool(v) {
			return e.trueLit
		}
		return e.trueLit.Not()
	case ssa.Not:
		return e.lit(v.X).Not()
	case ssa.And:
		if len(v) == 0 {
			return e.trueLit
		}
		m := e.lit(v[0])
		for _, sub := range v[1:] {
			m = e.c.And(m, e.lit(sub))
		}
		return m
	case ssa.Or:
		if len(v) == 0 {
			return e.trueLit.Not()
		}
		m := e.lit(v[0])
		for _, sub := range v[1:] {
			m = e.c.Or(m, e.lit(sub))
		}
		return m
	default:
		return e.trueLit
	}
}
