package devfs

import (
	"context"
	"crypto/rand"

	"github.com/flinuxgo/core/corepkg"
	"github.com/flinuxgo/core/vfs"
)

// devFile is a vfs.File backed by one of the device generators above; it
// has no offset-dependent state (Pread/Pwrite ignore the offset, matching
// Linux's char-device semantics for these nodes).
type devFile struct {
	kind         deviceKind
	major, minor uint32
	flags        int
}

func (d *devFile) Read(ctx context.Context, p []byte) (int, error) {
	switch d.kind {
	case kindNull:
		return 0, nil
	case kindZero, kindFull:
		for i := range p {
			p[i] = 0
		}
		return len(p), nil
	case kindRandom:
		return rand.Read(p)
	default:
		return 0, nil
	}
}

func (d *devFile) Write(ctx context.Context, p []byte) (int, error) {
	if d.kind == kindFull {
		return 0, corepkg.New(corepkg.KindNoSpace)
	}
	// null, zero, random/urandom all discard writes successfully.
	return len(p), nil
}

func (d *devFile) Pread(ctx context.Context, p []byte, offset int64) (int, error) {
	return d.Read(ctx, p)
}

func (d *devFile) Pwrite(ctx context.Context, p []byte, offset int64) (int, error) {
	return d.Write(ctx, p)
}

func (d *devFile) Llseek(ctx context.Context, offset int64, whence int) (int64, error) {
	return 0, vfs.NotSupportedAs("llseek")
}

func (d *devFile) Stat(ctx context.Context) (vfs.StatResult, error) {
	const sIFCHR = 0o020000
	return vfs.StatResult{
		Mode:  sIFCHR | 0o666,
		Nlink: 1,
		Rdev:  uint64(d.major)<<8 | uint64(d.minor),
	}, nil
}

func (d *devFile) Statfs(ctx context.Context) (vfs.StatfsResult, error) {
	return vfs.StatfsResult{}, vfs.NotSupportedAs("statfs")
}

func (d *devFile) Getdents(ctx context.Context, offset int64) ([]vfs.DirEntry, error) {
	return nil, vfs.NotSupportedAs("getdents")
}

func (d *devFile) Ioctl(ctx context.Context, request uintptr, arg uintptr) (int, error) {
	return 0, vfs.NotSupportedAs("ioctl")
}

func (d *devFile) Utimens(ctx context.Context, atime, mtime int64) error {
	return nil
}

func (d *devFile) Close(ctx context.Context) error { return nil }

func (d *devFile) GetPollHandle() (uintptr, bool) { return 0, false }

func (d *devFile) GetPollStatus(ctx context.Context) (uint32, error) {
	return vfs.POLLIN | vfs.POLLOUT, nil
}

func (d *devFile) Flags() int { return d.flags }

func (d *devFile) SetFlags(flags int) { d.flags = flags }
