// Package pipefs implements anonymous pipes (SPEC_FULL.md §4's "Anonymous
// pipes"). Unlike backend/local and backend/devfs, pipes are never reached
// through a mounted vfs.FileSystem — spec.md's File object lifecycle names
// "pipe/socket allocators" as a second, direct way to create a File — so
// this package exposes a constructor, New, rather than a FileSystem.
package pipefs

import (
	"sync"

	"github.com/pkg/errors"

	"github.com/flinuxgo/core/vfs"
)

// capacity bounds the in-memory ring buffer, matching the default Linux
// pipe capacity order of magnitude without needing the exact value.
const capacity = 64 * 1024

// errReadEndClosed is returned to a writer once every reader reference has
// closed (the anonymous-pipe analogue of SIGPIPE/EPIPE); this core has no
// SIGPIPE delivery path (not named by spec.md's signal set), so it
// surfaces as a plain write error rather than a corepkg.Errno kind.
var errReadEndClosed = errors.New("pipefs: read end closed")

// pipe is the shared ring buffer a read/write File pair wraps. Grounded on
// the same mutex+condvar shape as signal/event.go's semaphore, generalized
// from a counter to a byte buffer.
type pipe struct {
	mu          sync.Mutex
	cond        *sync.Cond
	buf         []byte
	readClosed  bool
	writeClosed bool
}

func newPipe() *pipe {
	p := &pipe{buf: make([]byte, 0, capacity)}
	p.cond = sync.NewCond(&p.mu)
	return p
}

// New allocates a connected read/write File pair (the pipe(2) / pipe2(2)
// syscall's File-level half; fd installation is the caller's job via
// vfs.FDTable.Store).
func New(flags int) (readFile, writeFile vfs.File, err error) {
	p := newPipe()
	return &pipeReader{p: p, flags: flags}, &pipeWriter{p: p, flags: flags}, nil
}
