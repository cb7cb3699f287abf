package pipefs

import (
	"context"

	"github.com/flinuxgo/core/vfs"
)

// pipeReader is the read end's vfs.File. Read blocks (via the shared
// pipe's condvar) until data is available or the write end has closed,
// in which case it reports (0, nil) for EOF, matching Linux read(2).
type pipeReader struct {
	p     *pipe
	flags int
}

func (r *pipeReader) Read(ctx context.Context, out []byte) (int, error) {
	r.p.mu.Lock()
	defer r.p.mu.Unlock()
	for len(r.p.buf) == 0 && !r.p.writeClosed {
		r.p.cond.Wait()
	}
	if len(r.p.buf) == 0 {
		return 0, nil // EOF: write end closed with nothing left buffered
	}
	n := copy(out, r.p.buf)
	r.p.buf = r.p.buf[n:]
	r.p.cond.Broadcast() // wake any writer blocked on a full buffer
	return n, nil
}

func (r *pipeReader) Pread(ctx context.Context, p []byte, offset int64) (int, error) {
	return 0, vfs.NotSupportedAs("pread")
}

func (r *pipeReader) Write(ctx context.Context, p []byte) (int, error) {
	return 0, vfs.NotSupportedAs("write")
}

func (r *pipeReader) Pwrite(ctx context.Context, p []byte, offset int64) (int, error) {
	return 0, vfs.NotSupportedAs("pwrite")
}

func (r *pipeReader) Llseek(ctx context.Context, offset int64, whence int) (int64, error) {
	return 0, vfs.NotSupportedAs("llseek")
}

func (r *pipeReader) Stat(ctx context.Context) (vfs.StatResult, error) {
	const sIFIFO = 0o010000
	return vfs.StatResult{Mode: sIFIFO | 0o600, Nlink: 1}, nil
}

func (r *pipeReader) Statfs(ctx context.Context) (vfs.StatfsResult, error) {
	return vfs.StatfsResult{}, vfs.NotSupportedAs("statfs")
}

func (r *pipeReader) Getdents(ctx context.Context, offset int64) ([]vfs.DirEntry, error) {
	return nil, vfs.NotSupportedAs("getdents")
}

func (r *pipeReader) Ioctl(ctx context.Context, request uintptr, arg uintptr) (int, error) {
	return 0, vfs.NotSupportedAs("ioctl")
}

func (r *pipeReader) Utimens(ctx context.Context, atime, mtime int64) error {
	return vfs.NotSupportedAs("utimens")
}

func (r *pipeReader) Close(ctx context.Context) error {
	r.p.mu.Lock()
	r.p.readClosed = true
	r.p.cond.Broadcast()
	r.p.mu.Unlock()
	return nil
}

// GetPollHandle reports ok=true with no real handle: a pipe has no native
// waitable object in this portable implementation, but (unlike a regular
// disk file) it genuinely can block, so vfs.Poll must consult
// GetPollStatus synchronously rather than assume it's always ready.
func (r *pipeReader) GetPollHandle() (uintptr, bool) { return 0, true }

func (r *pipeReader) GetPollStatus(ctx context.Context) (uint32, error) {
	r.p.mu.Lock()
	defer r.p.mu.Unlock()
	var events uint32
	if len(r.p.buf) > 0 || r.p.writeClosed {
		events |= vfs.POLLIN
	}
	if r.p.writeClosed {
		events |= vfs.POLLHUP
	}
	return events, nil
}

func (r *pipeReader) Flags() int { return r.flags }

func (r *pipeReader) SetFlags(flags int) { r.flags = flags }

// pipeWriter is the write end's vfs.File. Write blocks until there is
// room in the shared buffer or the read end has closed, in which case it
// reports errReadEndClosed (no reader will ever drain the buffer again).
type pipeWriter struct {
	p     *pipe
	flags int
}

func (w *pipeWriter) Write(ctx context.Context, p []byte) (int, error) {
	w.p.mu.Lock()
	defer w.p.mu.Unlock()
	total := 0
	for len(p) > 0 {
		for len(w.p.buf) >= capacity && !w.p.readClosed {
			w.p.cond.Wait()
		}
		if w.p.readClosed {
			return total, errReadEndClosed
		}
		room := capacity - len(w.p.buf)
		n := len(p)
		if n > room {
			n = room
		}
		w.p.buf = append(w.p.buf, p[:n]...)
		p = p[n:]
		total += n
		w.p.cond.Broadcast()
	}
	return total, nil
}

func (w *pipeWriter) Read(ctx context.Context, p []byte) (int, error) {
	return 0, vfs.NotSupportedAs("read")
}

func (w *pipeWriter) Pread(ctx context.Context, p []byte, offset int64) (int, error) {
	return 0, vfs.NotSupportedAs("pread")
}

func (w *pipeWriter) Pwrite(ctx context.Context, p []byte, offset int64) (int, error) {
	return 0, vfs.NotSupportedAs("pwrite")
}

func (w *pipeWriter) Llseek(ctx context.Context, offset int64, whence int) (int64, error) {
	return 0, vfs.NotSupportedAs("llseek")
}

func (w *pipeWriter) Stat(ctx context.Context) (vfs.StatResult, error) {
	const sIFIFO = 0o010000
	return vfs.StatResult{Mode: sIFIFO | 0o600, Nlink: 1}, nil
}

func (w *pipeWriter) Statfs(ctx context.Context) (vfs.StatfsResult, error) {
	return vfs.StatfsResult{}, vfs.NotSupportedAs("statfs")
}

func (w *pipeWriter) Getdents(ctx context.Context, offset int64) ([]vfs.DirEntry, error) {
	return nil, vfs.NotSupportedAs("getdents")
}

func (w *pipeWriter) Ioctl(ctx context.Context, request uintptr, arg uintptr) (int, error) {
	return 0, vfs.NotSupportedAs("ioctl")
}

func (w *pipeWriter) Utimens(ctx context.Context, atime, mtime int64) error {
	return vfs.NotSupportedAs("utimens")
}

func (w *pipeWriter) Close(ctx context.Context) error {
	w.p.mu.Lock()
	w.p.writeClosed = true
	w.p.cond.Broadcast()
	w.p.mu.Unlock()
	return nil
}

// GetPollHandle reports ok=true for the same reason pipeReader's does: no
// native handle, but a real blocking/ready state GetPollStatus can answer.
func (w *pipeWriter) GetPollHandle() (uintptr, bool) { return 0, true }

func (w *pipeWriter) GetPollStatus(ctx context.Context) (uint32, error) {
	w.p.mu.Lock()
	defer w.p.mu.Unlock()
	var events uint32
	if len(w.p.buf) < capacity || w.p.readClosed {
		events |= vfs.POLLOUT
	}
	if w.p.readClosed {
		events |= vfs.POLLERR
	}
	return events, nil
}

func (w *pipeWriter) Flags() int { return w.flags }

func (w *pipeWriter) SetFlags(flags int) { w.flags = flags }
