// Package dbt names the external collaborators the signal core and the
// syscall boundary consume but never implement: the memory manager's
// pointer-validity checks and the dynamic binary translator's context
// rewriting and resume primitives (spec.md §6). Modeling them as interfaces
// lets the core be built and exercised in tests (dbt/dbtfake) without a
// real MM or DBT present.
package dbt

import "context"

// MemoryChecker validates guest pointer ranges before the core touches
// them. A real implementation consults the guest's page tables; the core
// never materializes a pointer it hasn't first checked.
type MemoryChecker interface {
	CheckRead(ptr uintptr, length int) bool
	CheckWrite(ptr uintptr, length int) bool
	CheckReadString(ptr uintptr) bool
}

// GuestMemory additionally exposes byte-level guest memory access, needed
// to place an rt_sigframe at a guest stack address (SPEC_FULL.md §5). A
// real implementation maps guest memory directly into the host process;
// callers MUST check CheckWrite/CheckRead before calling WriteBytes/
// ReadBytes — these do not re-validate.
type GuestMemory interface {
	MemoryChecker
	ReadBytes(ptr uintptr, buf []byte) error
	WriteBytes(ptr uintptr, buf []byte) error
}

// Context is the subset of the guest main thread's integer and control
// register state the signal core reads and rewrites during delivery and
// sigreturn (spec.md §4.5 steps 3-5).
type Context struct {
	Rax, Rbx, Rcx, Rdx, Rsi, Rdi, Rbp, Rsp, Rip uint64
	R8, R9, R10, R11, R12, R13, R14, R15        uint64
	EFlags                                      uint64
}

// MContext is the subset of saved state an rt_sigframe carries and that
// rt_sigreturn hands back to the translator for restore (spec.md §4.5
// step 5): the integer registers, a pointer to the FPU save area, and the
// process mask in force immediately before delivery.
type MContext struct {
	Regs      Context
	FPUArea   uintptr
	PreMask   uint64
}

// Translator is the dynamic binary translator boundary (spec.md §6
// dbt_deliver_signal / dbt_sigreturn).
type Translator interface {
	// DeliverSignal prepares the main thread to resume at the emulator's
	// signal-setup trampoline. MUST be called with the thread already
	// suspended; ctx is mutated in place.
	DeliverSignal(goCtx context.Context, ctx *Context) error

	// SigReturn hands the restored mcontext back to the translator, which
	// resumes guest execution from it. A real translator never returns
	// from this call on success; dbtfake's implementation returns nil so
	// tests can observe the call happened.
	SigReturn(goCtx context.Context, mctx *MContext) error
}
