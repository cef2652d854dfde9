package explore

import "sync/atomic"

// CheckpointFlag is a single process-global boolean: set asynchronously by a
// checkpoint-request signal handler, read and cleared at loop-iteration
// boundaries only. The handler performs no allocation and only writes the
// flag; TestAndClear is the only read path, called exclusively from the
// exploration loop between cycles.
type CheckpointFlag struct {
	set atomic.Bool
}

// Set is safe to call from a signal handler.
func (f *CheckpointFlag) Set() { f.set.Store(true) }

// TestAndClear reports whether the flag was set, and clears it. Writes to
// the flag are unordered with respect to this read, but the flag is
// strictly monotonic per iteration (set-then-cleared): a lost update merely
// defers a checkpoint by one iteration.
func (f *CheckpointFlag) TestAndClear() bool {
	return f.set.Swap(false)
}
