// Package winproc isolates the one operation in the whole core that is
// inherently unsafe: suspending the guest main thread and rewriting its
// register context (spec.md §9 "replace thread-suspend/set-context
// intrusion with a bounded unsafe boundary"). Every other package touches
// the main thread only through WithSuspended.
package winproc

// Context mirrors the subset of the guest main thread's integer and
// control registers the signal core needs; it is the platform-independent
// shape dbt.Context is built from and written back to.
type Context struct {
	Rax, Rbx, Rcx, Rdx, Rsi, Rdi, Rbp, Rsp, Rip uint64
	R8, R9, R10, R11, R12, R13, R14, R15        uint64
	EFlags                                      uint64
}

// Thread identifies the guest's main OS thread. On Windows this wraps a
// duplicated thread handle.
type Thread uintptr

// Suspender is satisfied by Thread; callers depend on this interface
// rather than the concrete type so tests can substitute a fake that never
// touches a real OS thread.
type Suspender interface {
	WithSuspended(fn func(*Context) error) error
}

// WithSuspended suspends t, fetches its context, runs fn against a mutable
// copy, writes the (possibly modified) context back, and resumes t — even
// if fn returns an error. This is the single abstract operation spec.md §9
// calls for; the rest of the core is safe code built on top of it.
func (t Thread) WithSuspended(fn func(*Context) error) error {
	return withSuspended(t, fn)
}
