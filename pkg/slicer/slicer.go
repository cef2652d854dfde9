// Package slicer implements the equation-slicing collaborator: full slicing,
// simple (assertion-preserving) slicing, trace-directed slicing, and the
// duplicate-assignment check that gates equation preparation.
//
// Full and trace-directed slicing are cone-of-influence slices over the
// per-step symbol dependency graph, built with github.com/katalvlaran/lvlath/graph:
// nodes are SSA symbols, edges point from a definition to the symbols it
// reads, and lvlath's BFS computes the backward closure from a set of seed
// symbols.
package slicer

import (
	"fmt"

	"github.com/katalvlaran/lvlath/graph"

	"github.com/opencorebmc/bmc/pkg/ssa"
)

// DuplicateAssignment is returned by CheckDuplicateAssigns when two steps
// assign the same LHS symbol.
type DuplicateAssignment string

func (e DuplicateAssignment) Error() string {
	return fmt.Sprintf("slicer: duplicate assignment to %q", string(e))
}

// CheckDuplicateAssigns is the opt-in diagnostic pass run before slicing.
func CheckDuplicateAssigns(eq *ssa.Equation) error {
	seen := make(map[string]struct{})
	for _, step := range eq.Steps() {
		if step.Kind() != ssa.Assignment || step.LHS == "" {
			continue
		}
		if _, ok := seen[step.LHS]; ok {
			return DuplicateAssignment(step.LHS)
		}
		seen[step.LHS] = struct{}{}
	}
	return nil
}

// Simple returns the "simple slice": an assertion-preserving, minimal slice
// that keeps only live ASSERT steps and drops all surrounding context. Used
// when NoSlice is set. keepUnused retains every live step instead, the same
// override Full and ByTrace honor.
func Simple(eq *ssa.Equation, keepUnused bool) *ssa.Equation {
	if keepUnused {
		return retainAll(eq)
	}
	return eq.Slice(func(s *ssa.Step) bool { return s.Kind() == ssa.Assert })
}

// Full returns the default cone-of-influence slice: every live ASSERT step,
// every Assignment that (transitively) defines a symbol those assertions
// read, and every Assume that restricts a symbol in that closure. keepUnused
// retains symbols the cone of influence would otherwise drop.
func Full(eq *ssa.Equation, keepUnused bool) *ssa.Equation {
	if keepUnused {
		return retainAll(eq)
	}
	return coneOfInfluence(eq, eq.Assertions())
}

// ByTrace restricts the equation to steps causally relevant to the single
// named ASSERT step (matched by Step.Comment). If no assertion carries that
// name, the result keeps no assertions at all. keepUnused retains every live
// step instead of narrowing to the named trace's cone of influence.
func ByTrace(eq *ssa.Equation, traceName string, keepUnused bool) *ssa.Equation {
	if keepUnused {
		return retainAll(eq)
	}
	var seeds []*ssa.Step
	for _, s := range eq.Assertions() {
		if s.Comment == traceName {
			seeds = append(seeds, s)
		}
	}
	return coneOfInfluence(eq, seeds)
}

// retainAll is the keep-unused override: it drops nothing beyond steps
// already marked SKIP, so symbols that no assertion's cone of influence
// reaches are retained rather than sliced away.
func retainAll(eq *ssa.Equation) *ssa.Equation {
	return eq.Slice(func(s *ssa.Step) bool { return s.Kind() != ssa.Skip })
}

func coneOfInfluence(eq *ssa.Equation, seeds []*ssa.Step) *ssa.Equation {
	defOf := make(map[string]*ssa.Step)
	readsOf := make(map[*ssa.Step][]string)
	g := graph.NewGraph(true, false)

	for _, s := range eq.Steps() {
		readsOf[s] = s.Reads
		for _, r := range s.Reads {
			g.AddVertex(&graph.Vertex{ID: r, Metadata: map[string]interface{}{}})
		}
		if s.Kind() == ssa.Assignment && s.LHS != "" {
			defOf[s.LHS] = s
			g.AddVertex(&graph.Vertex{ID: s.LHS, Metadata: map[string]interface{}{}})
			for _, r := range s.Reads {
				// s.LHS depends on r: walking the graph from LHS
				// reaches every symbol its definition needs.
				g.AddEdge(s.LHS, r, 1)
			}
		}
	}

	relevant := make(map[string]struct{})
	var queue []string
	for _, seed := range seeds {
		for _, r := range seed.Reads {
			if _, ok := relevant[r]; !ok {
				relevant[r] = struct{}{}
				queue = append(queue, r)
			}
		}
	}
	for len(queue) > 0 {
		sym := queue[0]
		queue = queue[1:]
		if !g.HasVertex(sym) {
			continue
		}
		res, err := g.BFS(sym, nil)
		if err != nil {
			continue
		}
		for _, v := range res.Order {
			if _, ok := relevant[v.ID]; !ok {
				relevant[v.ID] = struct{}{}
			}
		}
	}

	includedAssign := make(map[*ssa.Step]bool)
	for sym := range relevant {
		if s, ok := defOf[sym]; ok {
			includedAssign[s] = true
		}
	}
	includedAssert := make(map[*ssa.Step]bool)
	for _, s := range seeds {
		includedAssert[s] = true
	}

	return eq.Slice(func(s *ssa.Step) bool {
		switch s.Kind() {
		case ssa.Assert:
			return includedAssert[s]
		case ssa.Assignment:
			return includedAssign[s]
		case ssa.Assume:
			for _, r := range readsOf[s] {
				if _, ok := relevant[r]; ok {
					return true
				}
			}
			return false
		default:
			return false
		}
	})
}
