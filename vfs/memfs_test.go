package vfs

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/flinuxgo/core/corepkg"
)

// memFS is a minimal in-memory FileSystem used to exercise the resolver
// loop (Component C) without touching the host filesystem. It supports
// regular files, directories, and symlinks, and faithfully returns
// OpenResult.Target / ENOENT the way the external-collaborator contract
// (spec.md §6) requires.
type memFS struct {
	mu    sync.Mutex
	nodes map[string]*memNode // keyed by subpath, "" is the FS root
	opens int                 // counts calls to Open, for S2/S3 trace assertions
}

type memNode struct {
	isDir    bool
	isLink   bool
	linkDest string
	data     []byte
}

func newMemFS() *memFS {
	return &memFS{nodes: map[string]*memNode{"": {isDir: true}}}
}

func (m *memFS) capability() *FileSystem {
	return &FileSystem{
		Name:     "mem",
		Open:     m.open,
		Readlink: m.readlink,
		Mkdir:    m.mkdir,
		Unlink:   m.unlink,
		Symlink:  m.symlink,
		Rename:   m.rename,
		Link:     m.link,
	}
}

func (m *memFS) put(subpath string, n *memNode) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nodes[subpath] = n
}

func (m *memFS) open(ctx context.Context, subpath string, flags int, mode uint32) (OpenResult, error) {
	m.mu.Lock()
	m.opens++
	n, ok := m.nodes[subpath]
	m.mu.Unlock()
	if !ok {
		return OpenResult{}, corepkg.New(corepkg.KindNoEntry)
	}
	if n.isLink {
		return OpenResult{Target: n.linkDest}, nil
	}
	return OpenResult{File: &memFile{data: n.data}}, nil
}

func (m *memFS) readlink(ctx context.Context, subpath string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n, ok := m.nodes[subpath]
	if !ok || !n.isLink {
		return "", corepkg.New(corepkg.KindNoEntry)
	}
	return n.linkDest, nil
}

func (m *memFS) mkdir(ctx context.Context, subpath string, mode uint32) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.nodes[subpath]; ok {
		return corepkg.New(corepkg.KindExists)
	}
	m.nodes[subpath] = &memNode{isDir: true}
	return nil
}

func (m *memFS) unlink(ctx context.Context, subpath string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.nodes[subpath]; !ok {
		return corepkg.New(corepkg.KindNoEntry)
	}
	delete(m.nodes, subpath)
	return nil
}

func (m *memFS) symlink(ctx context.Context, target, subpath string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.nodes[subpath]; ok {
		return corepkg.New(corepkg.KindExists)
	}
	m.nodes[subpath] = &memNode{isLink: true, linkDest: target}
	return nil
}

func (m *memFS) rename(ctx context.Context, oldSubpath, newSubpath string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	n, ok := m.nodes[oldSubpath]
	if !ok {
		return corepkg.New(corepkg.KindNoEntry)
	}
	delete(m.nodes, oldSubpath)
	m.nodes[newSubpath] = n
	return nil
}

func (m *memFS) link(ctx context.Context, oldSubpath, newSubpath string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	n, ok := m.nodes[oldSubpath]
	if !ok {
		return corepkg.New(corepkg.KindNoEntry)
	}
	if _, exists := m.nodes[newSubpath]; exists {
		return corepkg.New(corepkg.KindExists)
	}
	m.nodes[newSubpath] = n
	return nil
}

// opensOf reports how many Open calls memFS has seen so far; tests subtract
// an earlier reading to assert "exactly N calls after this point" deltas.
func (m *memFS) opensOf() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.opens
}

// memFile is a trivial in-memory File satisfying the vtable with
// NotSupported for everything this test package doesn't exercise.
type memFile struct {
	data  []byte
	pos   int64
	flags int
}

func (f *memFile) Read(ctx context.Context, p []byte) (int, error) {
	n := copy(p, f.data[f.pos:])
	f.pos += int64(n)
	return n, nil
}
func (f *memFile) Write(ctx context.Context, p []byte) (int, error) {
	f.data = append(f.data[:f.pos], p...)
	f.pos += int64(len(p))
	return len(p), nil
}
func (f *memFile) Pread(ctx context.Context, p []byte, offset int64) (int, error) {
	if offset >= int64(len(f.data)) {
		return 0, nil
	}
	return copy(p, f.data[offset:]), nil
}
func (f *memFile) Pwrite(ctx context.Context, p []byte, offset int64) (int, error) {
	return len(p), nil
}
func (f *memFile) Llseek(ctx context.Context, offset int64, whence int) (int64, error) {
	return offset, nil
}
func (f *memFile) Stat(ctx context.Context) (StatResult, error) {
	return StatResult{Size: int64(len(f.data)), Mtime: time.Unix(0, 0)}, nil
}
func (f *memFile) Statfs(ctx context.Context) (StatfsResult, error) { return StatfsResult{}, nil }
func (f *memFile) Getdents(ctx context.Context, offset int64) ([]DirEntry, error) {
	return nil, NotSupportedAs("getdents")
}
func (f *memFile) Ioctl(ctx context.Context, request uintptr, arg uintptr) (int, error) {
	return 0, NotSupportedAs("ioctl")
}
func (f *memFile) Utimens(ctx context.Context, atime, mtime int64) error { return nil }
func (f *memFile) Close(ctx context.Context) error                      { return nil }
func (f *memFile) GetPollHandle() (uintptr, bool)                       { return 0, false }
func (f *memFile) GetPollStatus(ctx context.Context) (uint32, error)    { return POLLIN | POLLOUT, nil }
func (f *memFile) Flags() int                                           { return f.flags }
func (f *memFile) SetFlags(flags int)                                   { f.flags = flags }

// joinSub joins components the way a real mount-relative subpath would be
// built, used by tests that need to predict memFS keys.
func joinSub(parts ...string) string {
	return strings.Join(parts, "/")
}
