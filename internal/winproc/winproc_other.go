// +build !windows

package winproc

import "github.com/flinuxgo/core/corepkg"

// withSuspended has no realisation on a non-Windows host in this core: the
// guest main thread only exists as a Win32 thread. Ports to other hosts
// substitute ucontext or a signal-trampoline boundary here (spec.md §9);
// this stub exists so the module stays buildable off Windows for tests
// that fake out Suspender entirely (signal package tests use a fake
// Suspender, never this path).
func withSuspended(t Thread, fn func(*Context) error) error {
	return corepkg.New(corepkg.KindNotSupported)
}
