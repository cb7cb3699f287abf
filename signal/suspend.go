package signal

import "context"

// RtSigsuspend implements rt_sigsuspend: atomically replace the process
// mask with mask, block until a signal is delivered (or ctx is canceled),
// then restore the original mask. The replace-wait-restore sequence is
// exactly the "temporarily unblock, wait, restore" shape rt_sigprocmask
// plus Wait already give us; this just sequences the two under the
// caller-visible all-or-nothing contract (spec.md §8 invariant 5 extends
// naturally to a mask that's only in effect for the duration of the wait).
func (c *Core) RtSigsuspend(ctx context.Context, mask uint64) (interrupted bool) {
	saved, _ := c.RtSigprocmask(ctx, SIG_SETMASK, &mask)
	defer func() {
		restore := saved
		_, _ = c.RtSigprocmask(ctx, SIG_SETMASK, &restore)
	}()
	return c.Wait(ctx, 0)
}
