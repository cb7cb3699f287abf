package local

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/flinuxgo/core/vfs"
)

// localFile adapts an *os.File to vfs.File. Disk files have no native
// waitable handle and never block, so GetPollHandle always reports false
// and GetPollStatus always reports ready (spec.md §3, mirrored by
// vfs.Poll's own "regular files never block" fallback).
type localFile struct {
	f     *os.File
	flags int
	path  string
}

func (lf *localFile) Read(ctx context.Context, p []byte) (int, error) {
	n, err := lf.f.Read(p)
	return n, translateIOErr(err)
}

func (lf *localFile) Write(ctx context.Context, p []byte) (int, error) {
	n, err := lf.f.Write(p)
	return n, translateIOErr(err)
}

func (lf *localFile) Pread(ctx context.Context, p []byte, offset int64) (int, error) {
	n, err := lf.f.ReadAt(p, offset)
	return n, translateIOErr(err)
}

func (lf *localFile) Pwrite(ctx context.Context, p []byte, offset int64) (int, error) {
	n, err := lf.f.WriteAt(p, offset)
	return n, translateIOErr(err)
}

func (lf *localFile) Llseek(ctx context.Context, offset int64, whence int) (int64, error) {
	n, err := lf.f.Seek(offset, whence)
	if err != nil {
		return 0, translateErr(err)
	}
	return n, nil
}

func (lf *localFile) Stat(ctx context.Context) (vfs.StatResult, error) {
	fi, err := lf.f.Stat()
	if err != nil {
		return vfs.StatResult{}, translateErr(err)
	}
	mtime, atime, ctime, err := fileTimes(lf.path)
	if err != nil {
		mtime, atime, ctime = fi.ModTime(), fi.ModTime(), fi.ModTime()
	}
	return vfs.StatResult{
		Mode:    statMode(fi),
		Size:    fi.Size(),
		Nlink:   1,
		Blksize: 4096,
		Blocks:  (fi.Size() + 511) / 512,
		Atime:   atime,
		Mtime:   mtime,
		Ctime:   ctime,
	}, nil
}

// statMode maps os.FileMode to the Linux S_IF* bits the syscall boundary
// expects; regular-vs-directory is all the host reports us reliably.
func statMode(fi os.FileInfo) uint32 {
	const (
		sIFDIR = 0o040000
		sIFREG = 0o100000
		sIFLNK = 0o120000
	)
	perm := uint32(fi.Mode().Perm())
	switch {
	case fi.Mode()&os.ModeSymlink != 0:
		return sIFLNK | perm
	case fi.IsDir():
		return sIFDIR | perm
	default:
		return sIFREG | perm
	}
}

func (lf *localFile) Statfs(ctx context.Context) (vfs.StatfsResult, error) {
	fs := &Fs{root: lf.path}
	return fs.statfs("")
}

func (lf *localFile) Getdents(ctx context.Context, offset int64) ([]vfs.DirEntry, error) {
	// Getdents may be called repeatedly with an increasing offset (each call
	// returns every entry from offset onward). Readdirnames only ever advances
	// the host directory stream, so rewind it first or every call after the
	// first would see EOF.
	if _, err := lf.f.Seek(0, io.SeekStart); err != nil {
		return nil, translateErr(err)
	}
	names, err := lf.f.Readdirnames(-1)
	if err != nil && err != io.EOF {
		return nil, translateErr(err)
	}
	entries := make([]vfs.DirEntry, 0, len(names))
	for i, n := range names {
		if int64(i) < offset {
			continue
		}
		typ := vfs.DTUnknown
		if fi, statErr := os.Lstat(lf.path + string(os.PathSeparator) + n); statErr == nil {
			switch {
			case fi.Mode()&os.ModeSymlink != 0:
				typ = vfs.DTLnk
			case fi.IsDir():
				typ = vfs.DTDir
			default:
				typ = vfs.DTReg
			}
		}
		entries = append(entries, vfs.DirEntry{
			Name:   decodeName(n),
			Type:   uint8(typ),
			Offset: int64(i) + 1,
		})
	}
	return entries, nil
}

func (lf *localFile) Ioctl(ctx context.Context, request uintptr, arg uintptr) (int, error) {
	return 0, vfs.NotSupportedAs("ioctl")
}

func (lf *localFile) Utimens(ctx context.Context, atime, mtime int64) error {
	now := time.Now()
	a, m := now, now
	if atime != 0 {
		a = time.Unix(0, atime)
	}
	if mtime != 0 {
		m = time.Unix(0, mtime)
	}
	if err := os.Chtimes(lf.path, a, m); err != nil {
		return translateErr(err)
	}
	return nil
}

func (lf *localFile) Close(ctx context.Context) error {
	return translateErr(lf.f.Close())
}

func (lf *localFile) GetPollHandle() (uintptr, bool) { return 0, false }

func (lf *localFile) GetPollStatus(ctx context.Context) (uint32, error) {
	return vfs.POLLIN | vfs.POLLOUT, nil
}

func (lf *localFile) Flags() int { return lf.flags }

func (lf *localFile) SetFlags(flags int) { lf.flags = flags }

// translateIOErr is translateErr plus io.EOF passthrough, since io.EOF is a
// meaningful Go-level sentinel callers (Readv/Writev) already check for.
func translateIOErr(err error) error {
	if err == nil || err == io.EOF {
		return err
	}
	return translateErr(err)
}
