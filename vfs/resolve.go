package vfs

import (
	"context"
	"strings"

	"github.com/flinuxgo/core/corepkg"
	"github.com/flinuxgo/core/vfspath"
)

// opResult is the three-way outcome an individual filesystem operation can
// report to the resolver loop, matching spec.md §6's "0 success, 1 leaf is
// a symlink, negative errno otherwise" external-collaborator contract
// (generalized here past Open to every resolver-driven op).
type opResult struct {
	ok     bool
	target string // set when the op reports "leaf is a symlink"
	err    error
}

// resolverOp is implemented by each of open/link/unlink/rename/mkdir/
// rmdir/readlink/symlink's entry points below; it performs exactly one
// attempt of the underlying filesystem operation against subpath.
type resolverOp func(ctx context.Context, fs *FileSystem, subpath string) opResult

// resolve drives the core loop from spec.md §4.3: normalise, then repeatedly
// find the owning filesystem, attempt op, and on ENOENT probe for a
// component symlink before giving up. depth counts symlink hops across
// re-entry (a leaf IsSymlinkTarget result re-enters with the same counter).
func (v *VFS) resolve(ctx context.Context, cwd, userPath string, op resolverOp) (*FileSystem, string, string, error) {
	path := vfspath.Normalize(cwd, userPath)

	for depth := 0; depth < v.cfg.MaxSymlinkLevel; depth++ {
		fs, subpath, err := v.registry.Find(path)
		if err != nil {
			return nil, "", "", corepkg.New(corepkg.KindNoEntry)
		}

		res := op(ctx, fs, subpath)
		switch {
		case res.ok:
			return fs, subpath, path, nil
		case res.target != "":
			path = rewriteWithTarget(path, res.target)
			continue
		case corepkg.Is(res.err, corepkg.KindNoEntry):
			newPath, progressed := v.resolveComponentSymlink(ctx, fs, path, subpath)
			if !progressed {
				return nil, "", "", corepkg.New(corepkg.KindNoEntry)
			}
			path = newPath
			continue
		default:
			return nil, "", "", res.err
		}
	}
	return nil, "", "", corepkg.New(corepkg.KindLoop)
}

// rewriteWithTarget strips the basename of path and renormalises it with
// target as the new remainder, per spec.md §4.3's leaf-symlink re-entry.
func rewriteWithTarget(path, target string) string {
	dir := dirname(path)
	return vfspath.Normalize(dir, target)
}

// resolveComponentSymlink implements spec.md §4.3's `resolve_component_symlink`:
// scan subpath's '/' separators right-to-left, probing fs.Readlink at each
// truncation point. On the first success at position p, reconstruct the
// remainder as target + "/" + subpath[p+1:], strip the symlink's basename
// from the absolute path, and renormalise. Reports false ("no progress") if
// the filesystem has no Readlink or no component was a symlink.
func (v *VFS) resolveComponentSymlink(ctx context.Context, fs *FileSystem, path, subpath string) (string, bool) {
	if fs.Readlink == nil {
		return "", false
	}
	// mountPrefix is the portion of the absolute path consumed by the
	// mountpoint; truncating subpath at byte p corresponds to truncating
	// the absolute path at len(mountPrefix)+p.
	mountPrefix := path[:len(path)-len(subpath)]

	for p := strings.LastIndexByte(subpath, '/'); p >= 0; p = strings.LastIndexByte(subpath[:p], '/') {
		truncated := subpath[:p]
		target, err := fs.Readlink(ctx, truncated)
		if err == nil {
			remainder := target + "/" + subpath[p+1:]
			abs := dirname(mountPrefix + truncated)
			return vfspath.Normalize(abs, remainder), true
		}
	}
	return "", false
}

// dirname strips the final component of an absolute, normalised path.
func dirname(path string) string {
	if path == "/" {
		return "/"
	}
	idx := strings.LastIndexByte(path, '/')
	if idx <= 0 {
		return "/"
	}
	return path[:idx]
}

func basename(path string) string {
	idx := strings.LastIndexByte(path, '/')
	return path[idx+1:]
}
