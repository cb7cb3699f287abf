// Package dbtfake provides test doubles for the dbt package's external
// collaborator interfaces, letting the signal core and VFS be exercised in
// tests without a real DBT or MM present (SPEC_FULL.md §2.4).
package dbtfake

import (
	"context"
	"sync"

	"github.com/pkg/errors"

	"github.com/flinuxgo/core/dbt"
)

var errOutOfRange = errors.New("dbtfake: address out of range")

// MemoryChecker allows every pointer by default; tests can set Deny to
// force a specific range to fail CheckRead/CheckWrite/CheckReadString.
type MemoryChecker struct {
	Deny func(ptr uintptr, length int) bool
}

func (m *MemoryChecker) CheckRead(ptr uintptr, length int) bool {
	return m.Deny == nil || !m.Deny(ptr, length)
}

func (m *MemoryChecker) CheckWrite(ptr uintptr, length int) bool {
	return m.Deny == nil || !m.Deny(ptr, length)
}

func (m *MemoryChecker) CheckReadString(ptr uintptr) bool {
	return m.Deny == nil || !m.Deny(ptr, 0)
}

// GuestMemory fakes a mapped guest address range with a plain byte slice:
// Base is the guest address of buf[0]. Tests construct one sized for a
// fake "stack" and pass a Sp near the top of it to the signal core.
type GuestMemory struct {
	MemoryChecker
	Base uintptr
	Buf  []byte
}

func NewGuestMemory(base uintptr, size int) *GuestMemory {
	return &GuestMemory{Base: base, Buf: make([]byte, size)}
}

func (g *GuestMemory) offset(ptr uintptr) (int, error) {
	if ptr < g.Base || ptr >= g.Base+uintptr(len(g.Buf)) {
		return 0, errOutOfRange
	}
	return int(ptr - g.Base), nil
}

func (g *GuestMemory) ReadBytes(ptr uintptr, buf []byte) error {
	off, err := g.offset(ptr)
	if err != nil {
		return err
	}
	if off+len(buf) > len(g.Buf) {
		return errOutOfRange
	}
	copy(buf, g.Buf[off:off+len(buf)])
	return nil
}

func (g *GuestMemory) WriteBytes(ptr uintptr, buf []byte) error {
	off, err := g.offset(ptr)
	if err != nil {
		return err
	}
	if off+len(buf) > len(g.Buf) {
		return errOutOfRange
	}
	copy(g.Buf[off:off+len(buf)], buf)
	return nil
}

// Translator records every DeliverSignal/SigReturn call it receives so
// tests can assert on delivery without a real thread-context rewrite.
type Translator struct {
	mu        sync.Mutex
	Delivered []dbt.Context
	Returned  []dbt.MContext

	// RewriteRip, when non-zero, is written into ctx.Rip by DeliverSignal
	// to emulate the translator landing the thread at the signal
	// trampoline, the way the real translator would.
	RewriteRip uint64

	// Notify, when non-nil, receives a value after every DeliverSignal
	// call so tests can wait for asynchronous worker delivery instead of
	// polling or sleeping.
	Notify chan struct{}
}

func (t *Translator) DeliverSignal(ctx context.Context, regs *dbt.Context) error {
	t.mu.Lock()
	t.Delivered = append(t.Delivered, *regs)
	if t.RewriteRip != 0 {
		regs.Rip = t.RewriteRip
	}
	notify := t.Notify
	t.mu.Unlock()
	if notify != nil {
		select {
		case notify <- struct{}{}:
		default:
		}
	}
	return nil
}

func (t *Translator) SigReturn(ctx context.Context, mctx *dbt.MContext) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.Returned = append(t.Returned, *mctx)
	return nil
}

func (t *Translator) DeliverCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.Delivered)
}
