// Package sockfs implements sockets (SPEC_FULL.md §4's "Sockets"). Like
// pipefs, sockets are created directly via an allocator rather than
// reached through a mounted vfs.FileSystem (spec.md's "pipe/socket
// allocators"). Only the connected AF_UNIX SOCK_STREAM pair socketpair(2)
// needs — a full socket() /connect()/accept() state machine is out of
// scope the way multithreaded guests and remote signal delivery are
// (spec.md §1 Non-goals): nothing in spec.md's signal/VFS core talks to a
// network peer.
package sockfs

import (
	"context"
	"net"

	"github.com/flinuxgo/core/vfs"
)

// NewPair builds a connected, bidirectional socket pair backing
// socketpair(2); each end is a full-duplex vfs.File, unlike pipefs's
// unidirectional halves.
func NewPair(flags int) (a, b vfs.File, err error) {
	ca, cb := net.Pipe()
	return &sockFile{conn: ca, flags: flags}, &sockFile{conn: cb, flags: flags}, nil
}

// sockFile adapts a net.Conn (the in-memory net.Pipe implementation) to
// vfs.File.
type sockFile struct {
	conn  net.Conn
	flags int
}

func (s *sockFile) Read(ctx context.Context, p []byte) (int, error) {
	return s.conn.Read(p)
}

func (s *sockFile) Write(ctx context.Context, p []byte) (int, error) {
	return s.conn.Write(p)
}

func (s *sockFile) Pread(ctx context.Context, p []byte, offset int64) (int, error) {
	return 0, vfs.NotSupportedAs("pread")
}

func (s *sockFile) Pwrite(ctx context.Context, p []byte, offset int64) (int, error) {
	return 0, vfs.NotSupportedAs("pwrite")
}

func (s *sockFile) Llseek(ctx context.Context, offset int64, whence int) (int64, error) {
	return 0, vfs.NotSupportedAs("llseek")
}

func (s *sockFile) Stat(ctx context.Context) (vfs.StatResult, error) {
	const sIFSOCK = 0o140000
	return vfs.StatResult{Mode: sIFSOCK | 0o600, Nlink: 1}, nil
}

func (s *sockFile) Statfs(ctx context.Context) (vfs.StatfsResult, error) {
	return vfs.StatfsResult{}, vfs.NotSupportedAs("statfs")
}

func (s *sockFile) Getdents(ctx context.Context, offset int64) ([]vfs.DirEntry, error) {
	return nil, vfs.NotSupportedAs("getdents")
}

func (s *sockFile) Ioctl(ctx context.Context, request uintptr, arg uintptr) (int, error) {
	return 0, vfs.NotSupportedAs("ioctl")
}

func (s *sockFile) Utimens(ctx context.Context, atime, mtime int64) error {
	return vfs.NotSupportedAs("utimens")
}

func (s *sockFile) Close(ctx context.Context) error {
	return s.conn.Close()
}

func (s *sockFile) GetPollHandle() (uintptr, bool) { return 0, false }

func (s *sockFile) GetPollStatus(ctx context.Context) (uint32, error) {
	// net.Pipe's Conn offers no non-blocking peek; report read/write-ready
	// optimistically the same way vfs.Poll's own fallback treats files with
	// no native waitable handle.
	return vfs.POLLIN | vfs.POLLOUT, nil
}

func (s *sockFile) Flags() int { return s.flags }

func (s *sockFile) SetFlags(flags int) { s.flags = flags }
