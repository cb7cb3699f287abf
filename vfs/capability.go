// Package vfs implements the multiplexed virtual filesystem: the mount
// registry (Component B), the symlink-aware resolver (Component C), the
// descriptor table (Component D), and the surrounding stat/dirent/poll/
// iovec plumbing (spec.md §2, ~20% share).
package vfs

import (
	"context"
	"time"

	"github.com/flinuxgo/core/corepkg"
)

// OpenResult is returned by FileSystem.Open. It models the three-way return
// the external collaborator contract allows (spec.md §6): success, "leaf is
// a symlink", or an error.
type OpenResult struct {
	File   File
	Target string // non-empty only when the leaf is a symlink
}

// FileSystem is the per-filesystem capability record (spec.md §3). Every
// operation may be nil; a nil operation is "not-found" at that component,
// per spec.md §3's "absence is treated as not-found" rule.
type FileSystem struct {
	Name string

	Open     func(ctx context.Context, subpath string, flags int, mode uint32) (OpenResult, error)
	Link     func(ctx context.Context, oldSubpath, newSubpath string) error
	Unlink   func(ctx context.Context, subpath string) error
	Symlink  func(ctx context.Context, target, subpath string) error
	Readlink func(ctx context.Context, subpath string) (string, error)
	Mkdir    func(ctx context.Context, subpath string, mode uint32) error
	Rmdir    func(ctx context.Context, subpath string) error
	Rename   func(ctx context.Context, oldSubpath, newSubpath string) error
	Statfs   func(ctx context.Context, subpath string) (StatfsResult, error)
}

// StatfsResult is the filesystem-level statfs/statfs64 payload before the
// syscall boundary narrows it into the wire struct (spec.md §6).
type StatfsResult struct {
	BlockSize  int64
	Blocks     uint64
	BlocksFree uint64
	Files      uint64
	FilesFree  uint64
	NameMax    int64
}

// StatResult is the filesystem-neutral stat payload; the syscall boundary
// converts this into stat/stat64/newstat with overflow checks (spec.md §6).
type StatResult struct {
	Mode    uint32
	Size    int64
	Nlink   uint64
	Uid     uint32
	Gid     uint32
	Rdev    uint64
	Blksize int64
	Blocks  int64
	Atime   time.Time
	Mtime   time.Time
	Ctime   time.Time
	Ino     uint64
	Dev     uint64
}

// DirEntry is one entry as returned by a File's Getdents, prior to the
// linux_dirent/linux_dirent64 wire encoding (spec.md §6).
type DirEntry struct {
	Ino    uint64
	Name   string
	Type   uint8 // DT_* constant
	Offset int64 // seekable position of the *next* entry, for llseek resume
}

// errAbsent is the sentinel error used internally when a capability record
// has a nil operation; callers translate it via NotSupportedAs.
var errAbsent = corepkg.New(corepkg.KindNotSupported)

// NotSupportedAs maps the generic "operation not supported" error this
// package produces for an absent vtable entry to the op-specific errno the
// syscall boundary expects (spec.md §9 "Replace EBADF-on-absent-vtable").
func NotSupportedAs(op string) error {
	switch op {
	case "llseek":
		return corepkg.New(corepkg.KindSpipe)
	case "ioctl":
		return corepkg.New(corepkg.KindNoTTY)
	default:
		return corepkg.New(corepkg.KindNotSupported)
	}
}
