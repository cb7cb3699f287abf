package signal

import (
	"context"

	"github.com/flinuxgo/core/corepkg"
)

// Raise is the self-directed signal-ingress entry point (spec.md §4.5 step
// 1): kill(self, signo) via Kill and the child-death fan-in via WatchChild
// both call this. It never blocks on delivery — it only enqueues a packet for the
// worker.
func (c *Core) Raise(ctx context.Context, signo int, info SigInfo) error {
	if !validSigno(signo) {
		return corepkg.New(corepkg.KindInvalidArgument)
	}
	return c.pipe.Send(packet{kind: packetRaise, signo: int32(signo), info: info})
}

// Pid reports the pid this Core answers to for Kill's self-check. There is
// exactly one guest process per Core (spec.md §1 non-goal: no
// multithreaded/multi-process guest), so this is fixed at construction
// rather than tracked per-thread.
func (c *Core) Pid() int { return c.selfPid }

// Kill implements the kill syscall's self-directed entry point (spec.md
// §4.5 step 1: "a signal arrives via kill entry (self-directed only;
// remote pid -> ESRCH)"). pid 0 and pid == c.Pid() both mean self; kill to
// inter-process pids is spec.md §1's explicit non-goal, so anything else
// is rejected with ESRCH rather than silently accepted or routed anywhere.
func (c *Core) Kill(ctx context.Context, pid, signo int, info SigInfo) error {
	if pid != 0 && pid != c.selfPid {
		return corepkg.New(corepkg.KindNoSearchProcess)
	}
	return c.Raise(ctx, signo, info)
}

// runWorker is the signal worker thread (spec.md §5): it owns the right to
// suspend and rewrite the main thread's context, and is the only goroutine
// permitted to do so.
func (c *Core) runWorker(ctx context.Context) {
	defer close(c.workerDone)
	for {
		pkt, err := c.pipe.Recv()
		if err != nil {
			c.log.WithError(err).Error("signal pipe closed, worker exiting")
			return
		}
		switch pkt.kind {
		case packetShutdown:
			return
		case packetRaise:
			if err := c.handleRaise(ctx, int(pkt.signo), pkt.info); err != nil {
				c.log.WithError(err).WithField("signo", pkt.signo).Error("signal delivery failed")
			}
		case packetReconsider:
			if err := c.handleReconsider(ctx); err != nil {
				c.log.WithError(err).Error("signal reconsideration failed")
			}
		}
	}
}

// handleRaise is packet-handling step 2 for a freshly-raised signal
// (spec.md §4.5 step 2): drop if already pending (first-wins coalescing,
// spec.md §9 open question #2), queue if masked or reentrant, else deliver.
func (c *Core) handleRaise(ctx context.Context, signo int, info SigInfo) error {
	bit := sigbit(signo)

	c.mu.Lock()
	if c.pending&bit != 0 {
		c.mu.Unlock()
		return nil
	}
	masked := c.mask&bit != 0
	if masked || !c.canAcceptSignal {
		c.pending |= bit
		c.info[signo-1] = info
		c.mu.Unlock()
		return nil
	}
	c.mu.Unlock()

	return c.deliver(ctx, signo, info)
}

// handleReconsider re-evaluates pending &^ mask after a mask change or a
// sigreturn (spec.md §4.5 steps 2/5): picks the lowest ready signo, if any,
// and delivers it.
func (c *Core) handleReconsider(ctx context.Context) error {
	c.mu.Lock()
	if !c.canAcceptSignal {
		c.mu.Unlock()
		return nil
	}
	ready := c.pending &^ c.mask
	signo := lowestSignoInSet(ready)
	if signo == 0 {
		c.mu.Unlock()
		return nil
	}
	info := c.info[signo-1]
	c.pending &^= sigbit(signo)
	c.mu.Unlock()

	return c.deliver(ctx, signo, info)
}
