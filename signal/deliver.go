package signal

import (
	"context"

	"github.com/pkg/errors"

	"github.com/flinuxgo/core/corepkg"
	"github.com/flinuxgo/core/dbt"
	"github.com/flinuxgo/core/internal/winproc"
)

// SetDefaultRestorer records the guest-supplied default sigreturn trampoline
// address, used whenever an installed action has no explicit restorer.
func (c *Core) SetDefaultRestorer(addr uintptr) {
	c.mu.Lock()
	c.defaultRestorer = addr
	c.mu.Unlock()
}

// deliver is spec.md §4.5 steps 3-4, combined into a single suspend window
// (see SPEC_FULL.md §7): suspend the main thread, let the translator move
// it to the signal trampoline, build the rt_sigframe directly into guest
// memory, and redirect the context to the handler, all before resuming.
func (c *Core) deliver(ctx context.Context, signo int, info SigInfo) error {
	action := c.snapshotAction(signo)

	if action.Disposition == DispositionIgnore {
		return nil
	}
	if action.Disposition == DispositionDefault {
		c.mu.Lock()
		c.canAcceptSignal = true
		onDefault := c.OnDefaultAction
		c.mu.Unlock()
		if onDefault != nil {
			onDefault(signo)
		} else {
			c.log.WithField("signo", signo).Warn("default action, no handler installed; dropping")
		}
		return nil
	}

	c.mu.Lock()
	c.canAcceptSignal = false
	c.mu.Unlock()

	return c.mainThread.WithSuspended(func(regs *winproc.Context) error {
		dctx := toDbtContext(regs)
		if err := c.translator.DeliverSignal(ctx, &dctx); err != nil {
			return errors.Wrap(err, "DeliverSignal")
		}
		fromDbtContext(&dctx, regs)

		c.mu.Lock()
		c.currentSiginfo = info
		c.currentSigno = signo
		c.mu.Unlock()
		c.ready.Signal()

		return c.setupHandler(action, signo, info, regs)
	})
}

// setupHandler builds the signal frame and redirects regs to land in the
// handler on resume (spec.md §4.5 step 4).
func (c *Core) setupHandler(action Action, signo int, info SigInfo, regs *winproc.Context) error {
	sp := regs.Rsp - redZoneSize

	fpuBase := alignDown(sp-fpuAreaSize, fpuAreaAlign)
	if err := c.saveFPU(uintptr(fpuBase)); err != nil {
		return errors.Wrap(err, "saveFPU")
	}

	frameBase := fpuBase - uint64(sigFrameSize)
	// align so that (sp + 4) % 16 == 0, the rt_sigframe alignment the wire
	// format requires.
	frameBase &^= 0xf
	frameBase -= 4

	restorer := action.Restorer
	if restorer == 0 {
		c.mu.Lock()
		restorer = c.defaultRestorer
		c.mu.Unlock()
	}

	preMask := c.Mask()
	buf := encodeSigFrame(sigFrameFields{
		Restorer:  restorer,
		Signo:     signo,
		FrameAddr: frameBase,
		Info:      info,
		Regs:      toDbtContext(regs),
		FPUPtr:    fpuBase,
		PreMask:   preMask,
	})

	if !c.mem.CheckWrite(uintptr(frameBase), len(buf)) {
		return corepkg.New(corepkg.KindBadAddress)
	}
	if err := c.mem.WriteBytes(uintptr(frameBase), buf); err != nil {
		return err
	}

	c.mu.Lock()
	c.mask |= action.Mask | sigbit(signo)
	c.canAcceptSignal = true
	c.mu.Unlock()
	c.ready.Clear()

	regs.Rsp = frameBase
	regs.Rip = uint64(action.Handler)
	regs.Rdi = uint64(signo)
	regs.Rsi = frameBase + infoOffset
	regs.Rdx = frameBase + ucOffset
	return nil
}

// saveFPU is a placeholder for the host FPU-save call spec.md §4.5 step 4
// names ("invoke host FPU save into it"); a real implementation would
// issue XSAVE/FXSAVE through the same guest-memory boundary. dbtfake's
// GuestMemory only models integer bytes, so this zero-fills the reserved
// area rather than performing a real FPU capture.
func (c *Core) saveFPU(base uintptr) error {
	zero := make([]byte, fpuAreaSize)
	if !c.mem.CheckWrite(base, len(zero)) {
		return corepkg.New(corepkg.KindBadAddress)
	}
	return c.mem.WriteBytes(base, zero)
}

func toDbtContext(r *winproc.Context) dbt.Context {
	return dbt.Context{
		Rax: r.Rax, Rbx: r.Rbx, Rcx: r.Rcx, Rdx: r.Rdx, Rsi: r.Rsi, Rdi: r.Rdi,
		Rbp: r.Rbp, Rsp: r.Rsp, Rip: r.Rip,
		R8: r.R8, R9: r.R9, R10: r.R10, R11: r.R11,
		R12: r.R12, R13: r.R13, R14: r.R14, R15: r.R15,
		EFlags: r.EFlags,
	}
}

func fromDbtContext(d *dbt.Context, r *winproc.Context) {
	r.Rax, r.Rbx, r.Rcx, r.Rdx, r.Rsi, r.Rdi = d.Rax, d.Rbx, d.Rcx, d.Rdx, d.Rsi, d.Rdi
	r.Rbp, r.Rsp, r.Rip = d.Rbp, d.Rsp, d.Rip
	r.R8, r.R9, r.R10, r.R11 = d.R8, d.R9, d.R10, d.R11
	r.R12, r.R13, r.R14, r.R15 = d.R12, d.R13, d.R14, d.R15
	r.EFlags = d.EFlags
}
