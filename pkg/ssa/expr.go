package ssa

import (
	"fmt"
	"strings"
)

// Expr is a boolean condition attached to an SSA step. Real frontends lower
// arbitrary C/C++ expressions (including non-boolean theory atoms) to a
// propositional skeleton before handing the equation to a bit-level/SAT
// backend; Expr models exactly that skeleton, with Atom standing in for an
// opaque, already-lowered theory atom.
//
// Backends translate the skeleton into their own circuit representation by
// switching on the concrete types below (see pkg/backend/ginisolver).
type Expr interface {
	// Walk visits the expression tree in pre-order, calling visit for every
	// Atom encountered. pkg/trace uses it to collect the atoms a step's
	// condition mentions without depending on the concrete Expr types below.
	Walk(visit func(Atom))
	isExpr()
}

// Atom is an uninterpreted, named boolean proposition: the result of one
// theory literal (e.g. "x_3 == y_2 + 1") once it has been abstracted away by
// the front end. Two Atoms with the same Name refer to the same proposition
// anywhere in an Equation.
type Atom string

func (a Atom) Walk(visit func(Atom)) { visit(a) }
func (Atom) isExpr()                 {}

// Const is a literal true/false, useful for SKIP steps and trivial guards.
type Const bool

func (Const) Walk(func(Atom)) {}
func (Const) isExpr()         {}

// Not negates an expression.
type Not struct{ X Expr }

func (n Not) Walk(visit func(Atom)) { n.X.Walk(visit) }
func (Not) isExpr()                 {}

// And is the conjunction of zero or more expressions (true if empty).
type And []Expr

func (a And) Walk(visit func(Atom)) {
	for _, e := range a {
		e.Walk(visit)
	}
}
func (And) isExpr() {}

// Or is the disjunction of zero or more expressions (false if empty).
type Or []Expr

func (o Or) Walk(visit func(Atom)) {
	for _, e := range o {
		e.Walk(visit)
	}
}
func (Or) isExpr() {}

// ExprString renders e as a single-line s-expression, the shared format
// every consumer that needs a human- or solver-readable constraint (the
// text-emitter backend, the program/VCC artifact emitter) uses rather than
// inventing its own.
func ExprString(e Expr) string {
	switch v := e.(type) {
	case Atom:
		return string(v)
	case Const:
		if bool(v) {
			return "true"
		}
		return "false"
	case Not:
		return fmt.Sprintf("(not %s)", ExprString(v.X))
	case And:
		parts := make([]string, len(v))
		for i, sub := range v {
			parts[i] = ExprString(sub)
		}
		return fmt.Sprintf("(and %s)", strings.Join(parts, " "))
	case Or:
		parts := make([]string, len(v))
		for i, sub := range v {
			parts[i] = ExprString(sub)
		}
		return fmt.Sprintf("(or %s)", strings.Join(parts, " "))
	default:
		return "true"
	}
}
