package process

import (
	"context"
	"io"

	"github.com/flinuxgo/core/signal"
)

// ChildHandle is the host-side record of a spawned guest child. WriteEnd is
// the death pipe's write end, handed to the child process at creation time
// (CreateProcess's inherited-handle list on Windows); the host never writes
// to it — its sole purpose is to be closed automatically when the child
// process exits, which is how WatchChild (armed on the read end below)
// learns of the exit (spec.md §4.5 step 6).
type ChildHandle struct {
	Pid      int
	PipeName string
	WriteEnd io.Closer
}

// SpawnChild creates a per-child death pipe named per the go-winio/uuid
// convention shared with the signal ingress pipe (SPEC_FULL.md §3), arms
// sigCore.WatchChild on its read end, and returns the write end for the
// caller to pass into process creation as an inheritable handle.
func SpawnChild(ctx context.Context, sigCore *signal.Core, pid int) (*ChildHandle, error) {
	name, writeEnd, readEnd, err := newChildPipe(ctx)
	if err != nil {
		return nil, err
	}
	sigCore.WatchChild(ctx, pid, readEnd)
	return &ChildHandle{Pid: pid, PipeName: name, WriteEnd: writeEnd}, nil
}
