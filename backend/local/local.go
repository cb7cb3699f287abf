package local

import (
	"context"
	"os"
	"path/filepath"

	"github.com/flinuxgo/core/corepkg"
	"github.com/flinuxgo/core/internal/corelog"
	"github.com/flinuxgo/core/vfs"
)

// Fs is the host-backed filesystem driver's closure state: the host
// directory a mountpoint is rooted at.
type Fs struct {
	root string
}

// New builds a vfs.FileSystem rooted at hostRoot (an absolute host path).
// Every guest subpath this FileSystem receives is joined under hostRoot
// after per-component encoding (encode_windows.go / encode_other.go).
func New(name, hostRoot string) *vfs.FileSystem {
	f := &Fs{root: filepath.Clean(hostRoot)}
	log := corelog.For("hostfs")

	return &vfs.FileSystem{
		Name: name,
		Open: func(ctx context.Context, subpath string, flags int, mode uint32) (vfs.OpenResult, error) {
			return f.open(ctx, subpath, flags, mode)
		},
		Link: func(ctx context.Context, oldSubpath, newSubpath string) error {
			return translateErr(os.Link(f.hostPath(oldSubpath), f.hostPath(newSubpath)))
		},
		Unlink: func(ctx context.Context, subpath string) error {
			if err := os.Remove(f.hostPath(subpath)); err != nil {
				return translateErr(err)
			}
			return nil
		},
		Symlink: func(ctx context.Context, target, subpath string) error {
			if err := os.Symlink(target, f.hostPath(subpath)); err != nil {
				return translateErr(err)
			}
			return nil
		},
		Readlink: func(ctx context.Context, subpath string) (string, error) {
			target, err := os.Readlink(f.hostPath(subpath))
			if err != nil {
				return "", translateErr(err)
			}
			return target, nil
		},
		Mkdir: func(ctx context.Context, subpath string, mode uint32) error {
			if err := os.Mkdir(f.hostPath(subpath), os.FileMode(mode&0o777)); err != nil {
				return translateErr(err)
			}
			return nil
		},
		Rmdir: func(ctx context.Context, subpath string) error {
			if err := os.Remove(f.hostPath(subpath)); err != nil {
				return translateErr(err)
			}
			return nil
		},
		Rename: func(ctx context.Context, oldSubpath, newSubpath string) error {
			if err := os.Rename(f.hostPath(oldSubpath), f.hostPath(newSubpath)); err != nil {
				return translateErr(err)
			}
			return nil
		},
		Statfs: func(ctx context.Context, subpath string) (vfs.StatfsResult, error) {
			res, err := f.statfs(subpath)
			if err != nil {
				log.WithError(err).Warn("statfs degraded: host disk-space query failed")
			}
			return res, err
		},
	}
}

func (f *Fs) hostPath(subpath string) string {
	if subpath == "" {
		return f.root
	}
	return filepath.Join(f.root, filepath.FromSlash(encodePath(subpath)))
}

// open translation table: guest open(2) flags (x86-64 ABI) to os.OpenFile's
// portable flag bits.
const (
	oAccmode = 0o3
	oWronly  = 0o1
	oRdwr    = 0o2
	oCreat   = 0o100
	oExcl    = 0o200
	oTrunc   = 0o1000
	oAppend  = 0o2000
	oDirect  = 0o40000
)

func (f *Fs) open(ctx context.Context, subpath string, flags int, mode uint32) (vfs.OpenResult, error) {
	hostPath := f.hostPath(subpath)

	if fi, err := os.Lstat(hostPath); err == nil && fi.Mode()&os.ModeSymlink != 0 {
		target, rerr := os.Readlink(hostPath)
		if rerr != nil {
			return vfs.OpenResult{}, translateErr(rerr)
		}
		return vfs.OpenResult{Target: target}, nil
	}

	var osFlags int
	switch flags & oAccmode {
	case oWronly:
		osFlags = os.O_WRONLY
	case oRdwr:
		osFlags = os.O_RDWR
	default:
		osFlags = os.O_RDONLY
	}
	if flags&oCreat != 0 {
		osFlags |= os.O_CREATE
	}
	if flags&oExcl != 0 {
		osFlags |= os.O_EXCL
	}
	if flags&oTrunc != 0 {
		osFlags |= os.O_TRUNC
	}
	if flags&oAppend != 0 {
		osFlags |= os.O_APPEND
	}

	osFile, err := os.OpenFile(hostPath, osFlags, os.FileMode(mode&0o777))
	if err != nil {
		if isCircularSymlinkError(err) {
			return vfs.OpenResult{}, corepkg.New(corepkg.KindLoop)
		}
		return vfs.OpenResult{}, translateErr(err)
	}
	return vfs.OpenResult{File: &localFile{f: osFile, flags: flags, path: hostPath}}, nil
}

func (f *Fs) statfs(subpath string) (vfs.StatfsResult, error) {
	_, total, totalFree, err := diskFreeSpace(f.hostPath(subpath))
	if err != nil {
		return vfs.StatfsResult{}, corepkg.Wrap(corepkg.KindNotSupported, err, "statfs")
	}
	const blockSize = 4096
	return vfs.StatfsResult{
		BlockSize:  blockSize,
		Blocks:     total / blockSize,
		BlocksFree: totalFree / blockSize,
		Files:      0,
		FilesFree:  0,
		NameMax:    255,
	}, nil
}

// translateErr maps the handful of os-package sentinel errors the VFS
// resolver and syscall boundary care about; anything else is wrapped as
// KindNotSupported with the host error as its cause.
func translateErr(err error) error {
	switch {
	case err == nil:
		return nil
	case os.IsNotExist(err):
		return corepkg.New(corepkg.KindNoEntry)
	case os.IsExist(err):
		return corepkg.New(corepkg.KindExists)
	case os.IsPermission(err):
		return corepkg.New(corepkg.KindNoPermission)
	default:
		return corepkg.Wrap(corepkg.KindNotSupported, err, "host filesystem")
	}
}
