package corevm

import (
	"context"
	"time"

	"github.com/flinuxgo/core/signal"
	"github.com/flinuxgo/core/vfs"
)

// pollInterval bounds how often a blocking Ppoll re-synchronously checks
// vfs.Poll while waiting for either a ready fd or a signal; vfs.Poll itself
// never blocks (vfs/poll.go), so something has to re-drive it, and
// signal.Core has no general multi-object native wait this core can
// compose into (only the signal-ready event is host-waitable here).
const pollInterval = 2 * time.Millisecond

// Ppoll implements ppoll: poll entries, and if sigmask is non-nil,
// atomically swap the process signal mask for the duration of the call the
// way rt_sigsuspend does (spec.md §8 invariant 5's mask/pending handling
// extends to any blocking wait, not just signal_wait itself). timeout <= 0
// blocks indefinitely.
func (c *Core) Ppoll(ctx context.Context, entries []vfs.PollEntry, timeout time.Duration, sigmask *uint64) ([]vfs.PollResultEntry, error) {
	if sigmask != nil {
		saved, err := c.Signal.RtSigprocmask(ctx, signal.SIG_SETMASK, sigmask)
		if err != nil {
			return nil, err
		}
		defer func() {
			restore := saved
			_, _ = c.Signal.RtSigprocmask(ctx, signal.SIG_SETMASK, &restore)
		}()
	}

	var deadline time.Time
	if timeout > 0 {
		deadline = time.Now().Add(timeout)
	}

	for {
		results, err := c.VFS.Poll(ctx, entries)
		if err != nil {
			return nil, err
		}
		if anyReady(results) {
			return results, nil
		}

		select {
		case <-ctx.Done():
			return results, nil
		default:
		}
		if !deadline.IsZero() && time.Now().After(deadline) {
			return results, nil
		}

		wait := pollInterval
		if !deadline.IsZero() {
			if remaining := time.Until(deadline); remaining < wait {
				wait = remaining
			}
		}
		if c.Signal.Wait(ctx, wait) {
			// A signal became ready; let the caller observe it (e.g. via
			// EINTR at the syscall boundary) rather than keep polling.
			return results, nil
		}
	}
}

func anyReady(results []vfs.PollResultEntry) bool {
	for _, r := range results {
		if r.Revents != 0 {
			return true
		}
	}
	return false
}

// Pselect implements pselect on top of Ppoll: entries are built from the
// three Linux fd_set arguments by the syscall boundary (this core stays at
// the PollEntry abstraction spec.md §3 already defines, rather than
// re-deriving fd_set bit manipulation here).
func (c *Core) Pselect(ctx context.Context, entries []vfs.PollEntry, timeout time.Duration, sigmask *uint64) ([]vfs.PollResultEntry, error) {
	return c.Ppoll(ctx, entries, timeout, sigmask)
}
