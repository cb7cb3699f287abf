package signal

import (
	"context"
	"encoding/binary"

	"github.com/pkg/errors"

	"github.com/flinuxgo/core/corepkg"
	"github.com/flinuxgo/core/dbt"
)

// RtSigreturn implements rt_sigreturn (spec.md §4.5 step 5): validate the
// frame pointer, restore the mask from uc_sigmask, re-enqueue a reconsider
// packet if that newly unmasks a pending signal, then hand the restored
// mcontext to the translator for register restore.
func (c *Core) RtSigreturn(ctx context.Context, framePtr uintptr) error {
	if !c.mem.CheckRead(framePtr, sigFrameSize) {
		return corepkg.New(corepkg.KindBadAddress)
	}
	buf := make([]byte, sigFrameSize)
	if err := c.mem.ReadBytes(framePtr, buf); err != nil {
		return errors.Wrap(err, "read sigframe")
	}

	le := binary.LittleEndian
	mcOff := ucOffset + ucHeaderSize

	var regs dbt.Context
	regPtrs := []*uint64{
		&regs.Rax, &regs.Rbx, &regs.Rcx, &regs.Rdx, &regs.Rsi, &regs.Rdi,
		&regs.Rbp, &regs.Rsp, &regs.Rip,
		&regs.R8, &regs.R9, &regs.R10, &regs.R11,
		&regs.R12, &regs.R13, &regs.R14, &regs.R15,
		&regs.EFlags,
	}
	for i, p := range regPtrs {
		*p = le.Uint64(buf[mcOff+i*8 : mcOff+i*8+8])
	}
	fpuPtr := le.Uint64(buf[mcOff+18*8 : mcOff+18*8+8])
	preMask := le.Uint64(buf[mcOff+18*8+8 : mcOff+18*8+16])
	sigmask := le.Uint64(buf[sigmaskOff : sigmaskOff+8])

	mctx := dbt.MContext{Regs: regs, FPUArea: uintptr(fpuPtr), PreMask: preMask}

	c.mu.Lock()
	c.mask = sigmask
	ready := c.pending &^ c.mask
	c.mu.Unlock()

	if ready != 0 {
		if err := c.pipe.Send(packet{kind: packetReconsider}); err != nil {
			c.log.WithError(err).Error("failed to enqueue post-sigreturn reconsider packet")
		}
	}

	return c.translator.SigReturn(ctx, &mctx)
}
