package vfs

import (
	"context"
	"sync"

	"github.com/flinuxgo/core/corepkg"
)

// IOVec mirrors the guest's struct iovec: a base pointer (already validated
// and materialized into a Go slice by the syscall boundary's mm_check_read/
// mm_check_write) and its length.
type IOVec = []byte

// scratchPool pools 64 KiB temporary buffers handed out by getScratch;
// Readv/Writev below do not use it.
var scratchPool = sync.Pool{New: func() any { return make([]byte, 0, 64*1024) }}

// Readv implements readv/preadv: reads into each vector in order, stopping
// early on a short read or error, and returns the total bytes read.
func Readv(ctx context.Context, f File, vecs []IOVec, offset int64, usePread bool) (int64, error) {
	var total int64
	for _, v := range vecs {
		if len(v) == 0 {
			continue
		}
		var n int
		var err error
		if usePread {
			n, err = f.Pread(ctx, v, offset+total)
		} else {
			n, err = f.Read(ctx, v)
		}
		total += int64(n)
		if err != nil {
			return total, err
		}
		if n < len(v) {
			// short read: stop, matching Linux readv's behavior of not
			// padding across vectors past a short underlying read.
			break
		}
	}
	return total, nil
}

// Writev implements writev/pwritev: writes each vector in order, stopping
// early on a short write or error, and returns the total bytes written.
func Writev(ctx context.Context, f File, vecs []IOVec, offset int64, usePwrite bool) (int64, error) {
	var total int64
	for _, v := range vecs {
		if len(v) == 0 {
			continue
		}
		var n int
		var err error
		if usePwrite {
			n, err = f.Pwrite(ctx, v, offset+total)
		} else {
			n, err = f.Write(ctx, v)
		}
		total += int64(n)
		if err != nil {
			return total, err
		}
		if n < len(v) {
			break
		}
	}
	return total, nil
}

// getScratch and putScratch let callers coalesce a small vector set into a
// single contiguous buffer when the underlying File's Read/Write is
// cheaper called once than N times (e.g. a pipe with syscall-per-call
// overhead). They are unexported and nothing in the package calls them,
// Readv/Writev above included.
func getScratch() []byte  { return scratchPool.Get().([]byte)[:0] }
func putScratch(b []byte) { scratchPool.Put(b) } //nolint:staticcheck // pool element, not a leak

// Readv implements readv/preadv at the fd level: look fd up in the
// descriptor table and drive the package-level Readv against its File.
func (v *VFS) Readv(ctx context.Context, fd int, vecs []IOVec, offset int64, usePread bool) (int64, error) {
	f, ok := v.fdtable.Get(fd)
	if !ok {
		return 0, corepkg.New(corepkg.KindBadFd)
	}
	return Readv(ctx, f, vecs, offset, usePread)
}

// Writev implements writev/pwritev at the fd level, the write-side
// counterpart of Readv above.
func (v *VFS) Writev(ctx context.Context, fd int, vecs []IOVec, offset int64, usePwrite bool) (int64, error) {
	f, ok := v.fdtable.Get(fd)
	if !ok {
		return 0, corepkg.New(corepkg.KindBadFd)
	}
	return Writev(ctx, f, vecs, offset, usePwrite)
}
