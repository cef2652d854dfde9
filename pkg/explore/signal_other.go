//go:build !unix

package explore

// WatchCheckpointSignal is a no-op on non-Unix platforms: there is no
// checkpoint-request signal source there, so the flag remains false for the
// lifetime of the process.
func WatchCheckpointSignal(flag *CheckpointFlag) (stop func()) {
	return func() {}
}
