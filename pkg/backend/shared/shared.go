// Package shared implements the "SMT during symex" backend: a Backend that
// borrows a pre-existing solver instance rather than owning one per cycle.
// The borrowed dependency is injected at construction, never created here,
// and the wrapper never closes it; unlike pkg/backend/emit, this mode never
// owns the resource it drives.
package shared

import (
	"context"

	"github.com/opencorebmc/bmc/pkg/solverapi"
	"github.com/opencorebmc/bmc/pkg/ssa"
)

type backend struct {
	delegate solverapi.Backend
}

// New wraps an already-constructed Backend (e.g. one kept alive across
// symex's own incremental SMT queries) so the VC pipeline can drive it
// through the same Backend contract as any other mode.
func New(delegate solverapi.Backend) solverapi.Backend {
	return &backend{delegate: delegate}
}

func (b *backend) Run(ctx context.Context, eq *ssa.Equation) solverapi.Result {
	return b.delegate.Run(ctx, eq)
}
