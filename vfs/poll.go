package vfs

import "context"

// Linux poll event bits (spec.md §6).
const (
	POLLIN   = 0x1
	POLLPRI  = 0x2
	POLLOUT  = 0x4
	POLLERR  = 0x8
	POLLHUP  = 0x10
	POLLNVAL = 0x20
)

// PollEntry is one element of a poll()/select() request, addressed by fd.
type PollEntry struct {
	FD     int
	Events uint32 // requested events
}

// PollResultEntry is one element of the reply: FD plus the ready events.
type PollResultEntry struct {
	FD      int
	Revents uint32
}

// Poll evaluates the ready state of each requested fd against the VFS
// descriptor table, synchronously (files with GetPollHandle ok==false, e.g.
// ordinary disk files, are always reported ready for their requested
// events — matching Linux's behavior that regular files never block).
// A caller wanting to actually block until something becomes ready drives
// this in a loop composed with a host wait primitive (signal.Core.Wait);
// this function itself never blocks.
func (v *VFS) Poll(ctx context.Context, entries []PollEntry) ([]PollResultEntry, error) {
	out := make([]PollResultEntry, 0, len(entries))
	for _, e := range entries {
		f, ok := v.fdtable.Get(e.FD)
		if !ok {
			out = append(out, PollResultEntry{FD: e.FD, Revents: POLLNVAL})
			continue
		}
		if _, waitable := f.GetPollHandle(); !waitable {
			out = append(out, PollResultEntry{FD: e.FD, Revents: e.Events &^ (POLLERR | POLLHUP | POLLNVAL)})
			continue
		}
		events, err := f.GetPollStatus(ctx)
		if err != nil {
			out = append(out, PollResultEntry{FD: e.FD, Revents: POLLERR})
			continue
		}
		out = append(out, PollResultEntry{FD: e.FD, Revents: events & (e.Events | POLLERR | POLLHUP | POLLNVAL)})
	}
	return out, nil
}

// WaitHandles returns the host-waitable handles for every entry that has
// a real one, for a caller composing this poll with other wait objects
// (e.g. the signal-ready event, per spec.md §4.5's signal_wait). A handle
// of 0 means "GetPollStatus is meaningful but there's no native object to
// wait on" (e.g. pipefs) and is never included here — such files must be
// re-polled synchronously instead.
func (v *VFS) WaitHandles(entries []PollEntry) []uintptr {
	var handles []uintptr
	for _, e := range entries {
		f, ok := v.fdtable.Get(e.FD)
		if !ok {
			continue
		}
		if h, waitable := f.GetPollHandle(); waitable && h != 0 {
			handles = append(handles, h)
		}
	}
	return handles
}
