// Package checkpoint implements the DFS checkpoint service: it computes the
// checkpoint filename, asks symex to serialize its DFS position there, and
// reverses the path at startup by reading the file and handing the position
// back to symex. The driver never parses the file itself.
package checkpoint

import (
	"fmt"
	"os"

	"github.com/opencorebmc/bmc/pkg/symex"
)

// DefaultFilename returns the default filename pattern when configured is
// empty: "esbmc_checkpoint.<pid>".
func DefaultFilename(configured string, pid int) string {
	if configured != "" {
		return configured
	}
	return fmt.Sprintf("esbmc_checkpoint.%d", pid)
}

// Save asks executor to persist its DFS position to the resolved filename.
func Save(executor symex.Executor, configured string, pid int) (string, error) {
	path := DefaultFilename(configured, pid)
	if err := executor.SaveCheckpoint(path); err != nil {
		return "", fmt.Errorf("checkpoint: save to %s: %w", path, err)
	}
	return path, nil
}

// Restore reads the DFS position from path and hands it to executor. Called
// once, before the first enumeration step, when FromCheckpoint is set.
func Restore(executor symex.Executor, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("checkpoint: read %s: %w", path, err)
	}
	if err := executor.RestoreFromDFSState(symex.DFSPosition(data)); err != nil {
		return fmt.Errorf("checkpoint: restore from %s: %w", path, err)
	}
	return nil
}
