//go:build unix

package explore

import (
	"os"
	"os/signal"
	"syscall"
)

// WatchCheckpointSignal registers flag to be set whenever the process
// receives SIGUSR1, the POSIX-style checkpoint-request signal. It returns a
// stop function that unregisters the handler.
func WatchCheckpointSignal(flag *CheckpointFlag) (stop func()) {
	notifyCh := make(chan os.Signal, 1)
	signal.Notify(notifyCh, syscall.SIGUSR1)
	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-notifyCh:
				flag.Set()
			case <-done:
				return
			}
		}
	}()
	return func() {
		signal.Stop(notifyCh)
		close(done)
	}
}
