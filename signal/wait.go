package signal

import (
	"context"
	"time"
)

// Wait blocks until either the signal-ready event fires or timeout elapses
// (timeout <= 0 blocks indefinitely). It reports whether the wait was
// interrupted by a signal becoming ready (spec.md §4.5's WAIT_INTERRUPTED)
// as opposed to timing out or the caller's context being canceled.
//
// Composing this with host file/poll handles (vfs.WaitHandles) into a
// single native multi-object wait is a corevm-level concern; this method
// only covers the signal-ready event itself.
func (c *Core) Wait(ctx context.Context, timeout time.Duration) (interrupted bool) {
	var timeoutCh <-chan time.Time
	if timeout > 0 {
		t := time.NewTimer(timeout)
		defer t.Stop()
		timeoutCh = t.C
	}
	select {
	case <-c.ready.Chan():
		return true
	case <-timeoutCh:
		return false
	case <-ctx.Done():
		return false
	}
}
