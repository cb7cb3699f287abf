// +build windows

package winproc

import (
	"github.com/pkg/errors"
	"golang.org/x/sys/windows"
)

// withSuspended is the Windows realisation: SuspendThread, GetThreadContext,
// fn, SetThreadContext, ResumeThread. GetThreadContext/SetThreadContext
// require CONTEXT_FULL | CONTEXT_CONTROL; only the integer+control subset
// the core cares about is translated to and from Context.
func withSuspended(t Thread, fn func(*Context) error) error {
	h := windows.Handle(t)

	if _, err := windows.SuspendThread(h); err != nil {
		return errors.Wrap(err, "SuspendThread")
	}
	defer windows.ResumeThread(h) //nolint:errcheck // best-effort resume even on error path below

	var winCtx windows.Context
	winCtx.ContextFlags = windows.CONTEXT_FULL
	if err := windows.GetThreadContext(h, &winCtx); err != nil {
		return errors.Wrap(err, "GetThreadContext")
	}

	ctx := fromWinContext(&winCtx)
	fnErr := fn(ctx)
	toWinContext(ctx, &winCtx)

	if err := windows.SetThreadContext(h, &winCtx); err != nil {
		return errors.Wrap(err, "SetThreadContext")
	}
	return fnErr
}

func fromWinContext(w *windows.Context) *Context {
	return &Context{
		Rax: w.Rax, Rbx: w.Rbx, Rcx: w.Rcx, Rdx: w.Rdx,
		Rsi: w.Rsi, Rdi: w.Rdi, Rbp: w.Rbp, Rsp: w.Rsp, Rip: w.Rip,
		R8: w.R8, R9: w.R9, R10: w.R10, R11: w.R11,
		R12: w.R12, R13: w.R13, R14: w.R14, R15: w.R15,
		EFlags: uint64(w.EFlags),
	}
}

func toWinContext(c *Context, w *windows.Context) {
	w.Rax, w.Rbx, w.Rcx, w.Rdx = c.Rax, c.Rbx, c.Rcx, c.Rdx
	w.Rsi, w.Rdi, w.Rbp, w.Rsp, w.Rip = c.Rsi, c.Rdi, c.Rbp, c.Rsp, c.Rip
	w.R8, w.R9, w.R10, w.R11 = c.R8, c.R9, c.R10, c.R11
	w.R12, w.R13, w.R14, w.R15 = c.R12, c.R13, c.R14, c.R15
	w.EFlags = uint32(c.EFlags)
}
