// Package memexec is a reference in-memory symex.Executor: a fixed list of
// precomputed SymexResult values played back as "interleavings", plus one
// designated schedule formula for scheduler mode. It exists to exercise
// pkg/explore, pkg/pipeline, pkg/ltl and pkg/checkpoint end-to-end without a
// real C/C++ front end.
package memexec

import (
	"encoding/binary"
	"fmt"

	"github.com/opencorebmc/bmc/pkg/ssa"
	"github.com/opencorebmc/bmc/pkg/symex"
)

// Executor plays back a fixed slice of interleavings in order.
type Executor struct {
	Schedule      ssa.SymexResult
	Interleavings []ssa.SymexResult

	cursor int
}

var _ symex.Executor = (*Executor)(nil)

func (e *Executor) SetupForNewExplore() {
	e.cursor = 0
}

func (e *Executor) GenerateScheduleFormula() (ssa.SymexResult, error) {
	return e.Schedule, nil
}

func (e *Executor) GetNextFormula() (ssa.SymexResult, error) {
	if e.cursor >= len(e.Interleavings) {
		return ssa.SymexResult{}, fmt.Errorf("memexec: no more interleavings")
	}
	r := e.Interleavings[e.cursor]
	e.cursor++
	return r, nil
}

func (e *Executor) SetupNextFormula() (bool, error) {
	return e.cursor < len(e.Interleavings), nil
}

func (e *Executor) RestoreFromDFSState(pos symex.DFSPosition) error {
	if len(pos) != 8 {
		return fmt.Errorf("memexec: malformed DFS position")
	}
	cursor := int(binary.BigEndian.Uint64(pos))
	if cursor < 0 || cursor > len(e.Interleavings) {
		return fmt.Errorf("memexec: DFS position %d out of range", cursor)
	}
	e.cursor = cursor
	return nil
}

func (e *Executor) SaveCheckpoint(path string) error {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, uint64(e.cursor))
	return writeFile(path, buf)
}

// writeFile is a tiny indirection so tests can swap it out without touching
// the filesystem; production callers get the real os.WriteFile behavior via
// the default below.
var writeFile = defaultWriteFile
