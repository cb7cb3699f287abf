package vfs

import (
	"context"

	"github.com/flinuxgo/core/corepkg"
	"github.com/flinuxgo/core/vfspath"
)

// VFS is the top-level handle for Components B, C, D and the surrounding
// plumbing. It owns the mount registry and the descriptor table for a
// single emulated process.
type VFS struct {
	registry *Registry
	fdtable  *FDTable
	cfg      corepkg.Config
}

// New builds a VFS with an empty registry and a fresh descriptor table
// sized per cfg.MaxFDCount.
func New(cfg corepkg.Config) *VFS {
	return &VFS{
		registry: NewRegistry(),
		fdtable:  NewFDTable(cfg.MaxFDCount),
		cfg:      cfg,
	}
}

// Mount registers fs at mountpoint (mountpoint must already be normalised).
func (v *VFS) Mount(mountpoint string, fs *FileSystem) error {
	return v.registry.Mount(mountpoint, fs)
}

// FDTable exposes the descriptor table for direct fd operations (dup/close/
// get) that don't go through the resolver.
func (v *VFS) FDTable() *FDTable { return v.fdtable }

// Open implements the open syscall's VFS half: resolve the path through
// the symlink loop, and on success store the returned File in the
// descriptor table.
func (v *VFS) Open(ctx context.Context, cwd, path string, flags int, mode uint32) (int, error) {
	var opened File
	_, _, resolvedPath, err := v.resolve(ctx, cwd, path, func(ctx context.Context, fs *FileSystem, subpath string) opResult {
		if fs.Open == nil {
			return opResult{err: corepkg.New(corepkg.KindNoEntry)}
		}
		res, err := fs.Open(ctx, subpath, flags, mode)
		if err != nil {
			return opResult{err: err}
		}
		if res.Target != "" {
			return opResult{target: res.Target}
		}
		opened = res.File
		return opResult{ok: true}
	})
	if err != nil {
		return 0, err
	}
	cloexec := flags&O_CLOEXEC != 0
	return v.fdtable.Store(opened, cloexec, resolvedPath)
}

// Unlink implements unlink's VFS half.
func (v *VFS) Unlink(ctx context.Context, cwd, path string) error {
	_, _, _, err := v.resolve(ctx, cwd, path, func(ctx context.Context, fs *FileSystem, subpath string) opResult {
		if fs.Unlink == nil {
			return opResult{err: corepkg.New(corepkg.KindNoEntry)}
		}
		if err := fs.Unlink(ctx, subpath); err != nil {
			return opResult{err: err}
		}
		return opResult{ok: true}
	})
	return err
}

// Mkdir implements mkdir's VFS half.
func (v *VFS) Mkdir(ctx context.Context, cwd, path string, mode uint32) error {
	_, _, _, err := v.resolve(ctx, cwd, path, func(ctx context.Context, fs *FileSystem, subpath string) opResult {
		if fs.Mkdir == nil {
			return opResult{err: corepkg.New(corepkg.KindNoEntry)}
		}
		if err := fs.Mkdir(ctx, subpath, mode); err != nil {
			return opResult{err: err}
		}
		return opResult{ok: true}
	})
	return err
}

// Rmdir implements rmdir's VFS half.
func (v *VFS) Rmdir(ctx context.Context, cwd, path string) error {
	_, _, _, err := v.resolve(ctx, cwd, path, func(ctx context.Context, fs *FileSystem, subpath string) opResult {
		if fs.Rmdir == nil {
			return opResult{err: corepkg.New(corepkg.KindNoEntry)}
		}
		if err := fs.Rmdir(ctx, subpath); err != nil {
			return opResult{err: err}
		}
		return opResult{ok: true}
	})
	return err
}

// Readlink implements readlink's VFS half, returning the link target text.
func (v *VFS) Readlink(ctx context.Context, cwd, path string) (string, error) {
	var target string
	_, _, _, err := v.resolve(ctx, cwd, path, func(ctx context.Context, fs *FileSystem, subpath string) opResult {
		if fs.Readlink == nil {
			return opResult{err: corepkg.New(corepkg.KindNoEntry)}
		}
		t, err := fs.Readlink(ctx, subpath)
		if err != nil {
			return opResult{err: err}
		}
		target = t
		return opResult{ok: true}
	})
	return target, err
}

// Symlink implements symlink's VFS half: linkpath will point at target.
func (v *VFS) Symlink(ctx context.Context, cwd, target, linkpath string) error {
	_, _, _, err := v.resolve(ctx, cwd, linkpath, func(ctx context.Context, fs *FileSystem, subpath string) opResult {
		if fs.Symlink == nil {
			return opResult{err: corepkg.New(corepkg.KindNoEntry)}
		}
		if err := fs.Symlink(ctx, target, subpath); err != nil {
			return opResult{err: err}
		}
		return opResult{ok: true}
	})
	return err
}

// resolveForLinkage runs the ordinary resolver loop using Open as the
// per-attempt probe, then immediately closes the probe file. This is used
// for oldpath, which — unlike newpath — must already exist: Open is the
// only capability that already reports "leaf is a symlink" and ENOENT
// uniformly, so it doubles as the resolution probe here rather than
// duplicating the loop per op.
func (v *VFS) resolveForLinkage(ctx context.Context, cwd, path string) (*FileSystem, string, error) {
	fs, subpath, _, err := v.resolve(ctx, cwd, path, func(ctx context.Context, fs *FileSystem, subpath string) opResult {
		if fs.Open == nil {
			return opResult{err: corepkg.New(corepkg.KindNoEntry)}
		}
		res, err := fs.Open(ctx, subpath, openProbeFlags, 0)
		if err != nil {
			return opResult{err: err}
		}
		if res.Target != "" {
			return opResult{target: res.Target}
		}
		_ = res.File.Close(ctx)
		return opResult{ok: true}
	})
	return fs, subpath, err
}

// openProbeFlags marks a resolve-only Open: the underlying filesystem is
// expected to not follow a trailing symlink (so link/rename see the link
// itself, not its target) and the caller closes the handle immediately.
const openProbeFlags = 0

// resolveParentForLinkage resolves path's parent directory — expanding any
// ancestor symlink along the way, via the same Open-as-probe loop
// resolveForLinkage uses — and returns the owning filesystem together with
// the subpath for path itself (parent subpath plus path's raw basename).
// Unlike resolveForLinkage, this never requires path itself to exist:
// newpath for link(2)/rename(2) is a name, usually absent, not a leaf to
// probe.
func (v *VFS) resolveParentForLinkage(ctx context.Context, cwd, path string) (*FileSystem, string, error) {
	normalized := vfspath.Normalize(cwd, path)
	base := basename(normalized)
	if base == "" {
		return nil, "", corepkg.New(corepkg.KindIsDirectory)
	}

	fs, parentSub, err := v.resolveForLinkage(ctx, cwd, dirname(normalized))
	if err != nil {
		return nil, "", err
	}
	if parentSub == "" {
		return fs, base, nil
	}
	return fs, parentSub + "/" + base, nil
}

// Link implements link's VFS half. oldpath is resolved (and must already
// exist) the way every other op resolves a leaf; newpath's parent is
// resolved instead, so Link sees newpath's raw name rather than requiring
// it to already be an openable file — link(2) itself returns EEXIST for an
// existing newpath, which is the underlying filesystem's business, not a
// precondition the VFS half should enforce via a leaf-existence probe.
// Both paths are required to resolve within the same filesystem; if they
// do not, Link fails with KindNotSupported without calling either
// filesystem's Link.
func (v *VFS) Link(ctx context.Context, cwd, oldpath, newpath string) error {
	oldFS, oldSub, err := v.resolveForLinkage(ctx, cwd, oldpath)
	if err != nil {
		return err
	}
	newFS, newSub, err := v.resolveParentForLinkage(ctx, cwd, newpath)
	if err != nil {
		return err
	}
	if oldFS != newFS {
		return corepkg.New(corepkg.KindNotSupported)
	}
	if oldFS.Link == nil {
		return corepkg.New(corepkg.KindNoEntry)
	}
	return oldFS.Link(ctx, oldSub, newSub)
}

// Rename implements rename's VFS half. newpath's parent is resolved rather
// than newpath itself, so renaming onto a name that doesn't exist yet — the
// overwhelmingly common case — doesn't fail resolution before oldFS.Rename
// even gets a chance to run; whether an existing newpath is overwritten is
// the underlying filesystem's Rename to decide.
func (v *VFS) Rename(ctx context.Context, cwd, oldpath, newpath string) error {
	oldFS, oldSub, err := v.resolveForLinkage(ctx, cwd, oldpath)
	if err != nil {
		return err
	}
	newFS, newSub, err := v.resolveParentForLinkage(ctx, cwd, newpath)
	if err != nil {
		return err
	}
	if oldFS != newFS {
		return corepkg.New(corepkg.KindNotSupported)
	}
	if oldFS.Rename == nil {
		return corepkg.New(corepkg.KindNoEntry)
	}
	return oldFS.Rename(ctx, oldSub, newSub)
}
