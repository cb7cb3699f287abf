package vfs

import (
	"context"
	"sync"

	"github.com/flinuxgo/core/corepkg"
)

// O_CLOEXEC is the guest-visible dup3/open flag bit this table inspects.
// Value matches the Linux x86-64 ABI.
const O_CLOEXEC = 0o2000000

// slot is one entry of the descriptor table (spec.md §3 "Descriptor table").
// path records the absolute guest path the fd was opened against, the way
// a real dentry would; fchdir reads it back through FDTable.Path.
type slot struct {
	file    *refcounted
	cloexec bool
	path    string
}

// FDTable is the fixed-capacity dense array of MAX_FD_COUNT slots
// (Component D). Every non-empty slot holds a strong reference contributing
// to the referenced file's refcount; the cloexec flag is per-slot.
type FDTable struct {
	mu       sync.Mutex
	slots    []slot
	capacity int
}

// NewFDTable builds a table with the given capacity (spec.md's MAX_FD_COUNT).
func NewFDTable(capacity int) *FDTable {
	return &FDTable{slots: make([]slot, capacity), capacity: capacity}
}

// Store allocates the first empty slot for file, transferring the caller's
// reference (the refcount is unchanged by Store itself — see spec.md §4.4).
func (t *FDTable) Store(f File, cloexec bool, path string) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	idx := t.firstEmptyLocked()
	if idx < 0 {
		return 0, corepkg.New(corepkg.KindTooManyOpenFiles)
	}
	t.slots[idx] = slot{file: newRefcounted(f), cloexec: cloexec, path: path}
	return idx, nil
}

// Path returns the absolute path fd was opened against.
func (t *FDTable) Path(fd int) (string, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	s, ok := t.getLocked(fd)
	if !ok {
		return "", false
	}
	return s.path, true
}

func (t *FDTable) firstEmptyLocked() int {
	for i := 0; i < t.capacity; i++ {
		if t.slots[i].file == nil {
			return i
		}
	}
	return -1
}

// Get returns the File at fd, or (nil, false) if fd is out of range or
// unoccupied.
func (t *FDTable) Get(fd int) (File, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	s, ok := t.getLocked(fd)
	if !ok {
		return nil, false
	}
	return s.file.file, true
}

func (t *FDTable) getLocked(fd int) (slot, bool) {
	if fd < 0 || fd >= t.capacity || t.slots[fd].file == nil {
		return slot{}, false
	}
	return t.slots[fd], true
}

// Cloexec reports the per-slot cloexec bit for fd.
func (t *FDTable) Cloexec(fd int) (bool, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	s, ok := t.getLocked(fd)
	return s.cloexec, ok
}

// SetCloexec sets the per-slot cloexec bit for fd (F_SETFD).
func (t *FDTable) SetCloexec(fd int, v bool) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if fd < 0 || fd >= t.capacity || t.slots[fd].file == nil {
		return false
	}
	t.slots[fd].cloexec = v
	return true
}

// Close releases one reference held by fd's slot and clears the slot.
func (t *FDTable) Close(ctx context.Context, fd int) error {
	t.mu.Lock()
	if fd < 0 || fd >= t.capacity || t.slots[fd].file == nil {
		t.mu.Unlock()
		return corepkg.New(corepkg.KindBadFd)
	}
	rc := t.slots[fd].file
	t.slots[fd] = slot{}
	t.mu.Unlock()
	return rc.release(ctx)
}

// Dup implements dup/dup2/dup3 (spec.md §4.4). newfd == -1 requests the
// first empty slot; otherwise newfd must be in range and distinct from fd,
// and any prior occupant of newfd is released after newfd has been
// installed.
func (t *FDTable) Dup(ctx context.Context, fd, newfd int, cloexec bool) (int, error) {
	t.mu.Lock()
	src, ok := t.getLocked(fd)
	if !ok {
		t.mu.Unlock()
		return 0, corepkg.New(corepkg.KindBadFd)
	}

	if newfd == -1 {
		idx := t.firstEmptyLocked()
		if idx < 0 {
			t.mu.Unlock()
			return 0, corepkg.New(corepkg.KindTooManyOpenFiles)
		}
		src.file.ref()
		t.slots[idx] = slot{file: src.file, cloexec: cloexec, path: src.path}
		t.mu.Unlock()
		return idx, nil
	}

	if newfd < 0 || newfd >= t.capacity {
		t.mu.Unlock()
		return 0, corepkg.New(corepkg.KindBadFd)
	}
	if newfd == fd {
		t.mu.Unlock()
		return 0, corepkg.New(corepkg.KindInvalidArgument)
	}

	prior := t.slots[newfd].file
	src.file.ref()
	t.slots[newfd] = slot{file: src.file, cloexec: cloexec, path: src.path}
	t.mu.Unlock()

	// newfd is already live and aliasing fd at this point; a failure closing
	// the file it displaced doesn't make the dup2 itself fail, matching
	// Linux's dup2(2) (the close side-effect failing is not reported).
	if prior != nil {
		_ = prior.release(ctx)
	}
	return newfd, nil
}

// ResetOnExec closes every slot whose cloexec bit is set (spec.md §4.4);
// the umask reset itself lives on process.State, not here.
func (t *FDTable) ResetOnExec(ctx context.Context) error {
	t.mu.Lock()
	var toClose []*refcounted
	for i := range t.slots {
		if t.slots[i].file != nil && t.slots[i].cloexec {
			toClose = append(toClose, t.slots[i].file)
			t.slots[i] = slot{}
		}
	}
	t.mu.Unlock()

	var firstErr error
	for _, rc := range toClose {
		if err := rc.release(ctx); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Shutdown closes every open slot.
func (t *FDTable) Shutdown(ctx context.Context) error {
	t.mu.Lock()
	var toClose []*refcounted
	for i := range t.slots {
		if t.slots[i].file != nil {
			toClose = append(toClose, t.slots[i].file)
			t.slots[i] = slot{}
		}
	}
	t.mu.Unlock()

	var firstErr error
	for _, rc := range toClose {
		if err := rc.release(ctx); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Ref borrows an additional reference to the file at fd without going
// through the table (vfs_ref, spec.md §3).
func (t *FDTable) Ref(fd int) (*refcounted, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	s, ok := t.getLocked(fd)
	if !ok {
		return nil, false
	}
	s.file.ref()
	return s.file, true
}

// Release drops a reference obtained via Ref (vfs_release, spec.md §3).
func (t *FDTable) Release(ctx context.Context, rc *refcounted) error {
	return rc.release(ctx)
}
