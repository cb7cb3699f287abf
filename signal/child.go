package signal

import "context"

// ChildDeathReader is the read end of a child's death pipe: a message-mode
// pipe whose write end was leaked into the child, so the host sees EOF or
// a read error exactly when the child exits (spec.md §4.5 step 6).
type ChildDeathReader interface {
	Read(p []byte) (int, error)
	Close() error
}

// WatchChild blocks on r in its own goroutine until it reports EOF or an
// error, then raises SIGCHLD and bumps the child-wait semaphore. pid is
// carried into the SIGCHLD siginfo.
func (c *Core) WatchChild(ctx context.Context, pid int, r ChildDeathReader) {
	go func() {
		defer r.Close()
		buf := make([]byte, 1)
		for {
			if _, err := r.Read(buf); err != nil {
				break
			}
		}
		c.childSem.increment()
		if err := c.Raise(ctx, SIGCHLD, SigInfo{Pid: int32(pid)}); err != nil {
			c.log.WithError(err).WithField("pid", pid).Error("failed to raise SIGCHLD")
		}
	}()
}

// WaitChild blocks until a child death has been recorded, then consumes
// one unit of the child-wait semaphore (wait4-without-pid, blocking form).
func (c *Core) WaitChild() {
	c.childSem.decrementBlocking()
}

// TryWaitChild is the non-blocking form (WNOHANG).
func (c *Core) TryWaitChild() bool {
	return c.childSem.tryDecrement()
}
