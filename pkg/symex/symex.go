// Package symex declares the symbolic-execution collaborator's interface;
// its subpackage memexec holds a reference in-memory implementation used by
// tests and the CLI's demo mode. A real front end's symbolic executor implements this interface;
// this package only needs pkg/explore and pkg/checkpoint to have something
// real to drive.
package symex

import "github.com/opencorebmc/bmc/pkg/ssa"

// DFSPosition is an opaque, serializable marker of exploration progress:
// the driver never inspects its contents, only round-trips it through
// Executor.
type DFSPosition []byte

// Executor is the symex collaborator contract.
type Executor interface {
	// SetupForNewExplore resets interleaving enumeration state for a new
	// top-level run.
	SetupForNewExplore()
	// GenerateScheduleFormula produces the single schedule formula used by
	// scheduler mode.
	GenerateScheduleFormula() (ssa.SymexResult, error)
	// GetNextFormula produces the next interleaving's formula in
	// enumeration mode.
	GetNextFormula() (ssa.SymexResult, error)
	// SetupNextFormula reports whether another interleaving can be set up
	// after the current one.
	SetupNextFormula() (bool, error)
	// RestoreFromDFSState hands a previously-saved DFS position back to
	// symex before the first enumeration step.
	RestoreFromDFSState(pos DFSPosition) error
	// SaveCheckpoint asks symex to serialize its current DFS position to
	// path; symex owns the file format entirely.
	SaveCheckpoint(path string) error
}
