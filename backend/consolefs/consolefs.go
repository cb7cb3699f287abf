// Package consolefs implements the console device (SPEC_FULL.md §4's
// "Console"): a single console node backed by the host process's own
// stdin/stdout, the way a real Windows console host process is the guest's
// controlling terminal. The node answers at the mountpoint itself (corevm
// mounts it at /dev/console) and at the names "console" and "tty" directly
// below it; corevm mounts no consolefs at /dev/tty.
package consolefs

import (
	"context"
	"io"
	"strings"

	"github.com/flinuxgo/core/corepkg"
	"github.com/flinuxgo/core/vfs"
)

// New builds the consolefs vfs.FileSystem. in/out are the host streams to
// read from / write to — normally os.Stdin/os.Stdout, parameterized here
// so tests can substitute pipes.
func New(in io.Reader, out io.Writer) *vfs.FileSystem {
	return &vfs.FileSystem{
		Name: "consolefs",
		Open: func(ctx context.Context, subpath string, flags int, mode uint32) (vfs.OpenResult, error) {
			name := strings.TrimPrefix(subpath, "/")
			if name != "" && name != "console" && name != "tty" {
				return vfs.OpenResult{}, corepkg.New(corepkg.KindNoEntry)
			}
			return vfs.OpenResult{File: &consoleFile{in: in, out: out, flags: flags}}, nil
		},
	}
}

// consoleFile is a vfs.File that reads from in and writes to out; it has
// no seek position (a TTY is not seekable) and no native pollable handle
// in this portable form — signal.Core's own waitable IOCP handle is the
// one real wait primitive this core wires to the OS (spec.md §4.5).
type consoleFile struct {
	in    io.Reader
	out   io.Writer
	flags int
}

func (c *consoleFile) Read(ctx context.Context, p []byte) (int, error) {
	return c.in.Read(p)
}

func (c *consoleFile) Write(ctx context.Context, p []byte) (int, error) {
	return c.out.Write(p)
}

func (c *consoleFile) Pread(ctx context.Context, p []byte, offset int64) (int, error) {
	return 0, vfs.NotSupportedAs("pread")
}

func (c *consoleFile) Pwrite(ctx context.Context, p []byte, offset int64) (int, error) {
	return 0, vfs.NotSupportedAs("pwrite")
}

func (c *consoleFile) Llseek(ctx context.Context, offset int64, whence int) (int64, error) {
	return 0, vfs.NotSupportedAs("llseek")
}

func (c *consoleFile) Stat(ctx context.Context) (vfs.StatResult, error) {
	const sIFCHR = 0o020000
	return vfs.StatResult{Mode: sIFCHR | 0o620, Nlink: 1}, nil
}

func (c *consoleFile) Statfs(ctx context.Context) (vfs.StatfsResult, error) {
	return vfs.StatfsResult{}, vfs.NotSupportedAs("statfs")
}

func (c *consoleFile) Getdents(ctx context.Context, offset int64) ([]vfs.DirEntry, error) {
	return nil, vfs.NotSupportedAs("getdents")
}

// Ioctl reports ENOTTY for every request: this core implements no termios
// control (raw/cooked mode, window size) — a real terminal driver's job,
// out of scope for the signal/VFS core spec.md describes.
func (c *consoleFile) Ioctl(ctx context.Context, request uintptr, arg uintptr) (int, error) {
	return 0, vfs.NotSupportedAs("ioctl")
}

func (c *consoleFile) Utimens(ctx context.Context, atime, mtime int64) error {
	return vfs.NotSupportedAs("utimens")
}

func (c *consoleFile) Close(ctx context.Context) error { return nil }

func (c *consoleFile) GetPollHandle() (uintptr, bool) { return 0, false }

func (c *consoleFile) GetPollStatus(ctx context.Context) (uint32, error) {
	return vfs.POLLIN | vfs.POLLOUT, nil
}

func (c *consoleFile) Flags() int { return c.flags }

func (c *consoleFile) SetFlags(flags int) { c.flags = flags }
