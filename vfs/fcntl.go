package vfs

import "github.com/flinuxgo/core/corepkg"

// DupFD implements fcntl(F_DUPFD) / fcntl(F_DUPFD_CLOEXEC): duplicate fd
// onto the lowest-numbered empty slot that is >= minFD (spec.md §4.4 extends
// naturally here — F_DUPFD is "dup, but constrained to a floor" rather than
// a distinct operation).
func (t *FDTable) DupFD(fd, minFD int, cloexec bool) (int, error) {
	if minFD < 0 {
		return 0, corepkg.New(corepkg.KindInvalidArgument)
	}
	t.mu.Lock()
	src, ok := t.getLocked(fd)
	if !ok {
		t.mu.Unlock()
		return 0, corepkg.New(corepkg.KindBadFd)
	}
	idx := t.firstEmptyFromLocked(minFD)
	if idx < 0 {
		t.mu.Unlock()
		return 0, corepkg.New(corepkg.KindTooManyOpenFiles)
	}
	src.file.ref()
	t.slots[idx] = slot{file: src.file, cloexec: cloexec, path: src.path}
	t.mu.Unlock()
	return idx, nil
}

func (t *FDTable) firstEmptyFromLocked(start int) int {
	if start >= t.capacity {
		return -1
	}
	if start < 0 {
		start = 0
	}
	for i := start; i < t.capacity; i++ {
		if t.slots[i].file == nil {
			return i
		}
	}
	return -1
}

// GetFL implements fcntl(F_GETFL): the guest-visible open flags the file
// was opened with (access mode plus any of O_APPEND/O_NONBLOCK/... that
// have since been changed by SetFL).
func (t *FDTable) GetFL(fd int) (int, error) {
	f, ok := t.Get(fd)
	if !ok {
		return 0, corepkg.New(corepkg.KindBadFd)
	}
	return f.Flags(), nil
}

// SetFL implements fcntl(F_SETFL): replace the mutable subset of a file's
// open flags. The caller is responsible for masking flags down to the bits
// Linux actually lets F_SETFL change (O_APPEND, O_NONBLOCK, O_ASYNC,
// O_DIRECT) before calling this — FDTable has no opinion on which those
// are, it just stores what it's given on the File itself (spec.md §3 "File
// object" flags field is per-file, not per-descriptor, so a SetFL through
// one fd is visible through every fd sharing that file via dup).
func (t *FDTable) SetFL(fd int, flags int) error {
	f, ok := t.Get(fd)
	if !ok {
		return corepkg.New(corepkg.KindBadFd)
	}
	f.SetFlags(flags)
	return nil
}
