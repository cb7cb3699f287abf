package vfs

import (
	"context"

	"github.com/flinuxgo/core/corepkg"
	"github.com/flinuxgo/core/vfspath"
)

// symlinkStatMode/symlinkStatPerm are the Mode bits lstat reports for a
// symlink it isn't following: S_IFLNK, permissions 0777 (Linux always
// reports a symlink's own mode as rwxrwxrwx; access control happens on the
// target, not the link).
const (
	symlinkStatMode = 0o120000
	symlinkStatPerm = 0o777
)

// Stat implements stat/lstat/fstatat's path-resolving half. When noFollow
// is false (stat, or fstatat without AT_SYMLINK_NOFOLLOW) every component,
// including the last, is resolved through symlinks as usual. When noFollow
// is true (lstat, or fstatat with AT_SYMLINK_NOFOLLOW) every component
// except the last still resolves through the normal spec.md §4.3 loop, but
// a symlink at the final component is reported as itself — synthesized as
// S_IFLNK with Size equal to the target string's length, matching real
// lstat(2) — instead of being followed.
func (v *VFS) Stat(ctx context.Context, cwd, path string, noFollow bool) (StatResult, error) {
	if !noFollow {
		return v.statFollowingLeaf(ctx, cwd, path)
	}

	normalized := vfspath.Normalize(cwd, path)
	for depth := 0; depth < v.cfg.MaxSymlinkLevel; depth++ {
		fs, subpath, err := v.registry.Find(normalized)
		if err != nil {
			return StatResult{}, corepkg.New(corepkg.KindNoEntry)
		}
		if fs.Open == nil {
			return StatResult{}, corepkg.New(corepkg.KindNoEntry)
		}
		res, err := fs.Open(ctx, subpath, 0, 0)
		switch {
		case err == nil && res.Target != "":
			return StatResult{Mode: symlinkStatMode | symlinkStatPerm, Size: int64(len(res.Target)), Nlink: 1}, nil
		case err == nil:
			defer res.File.Close(ctx)
			return res.File.Stat(ctx)
		case corepkg.Is(err, corepkg.KindNoEntry):
			newPath, progressed := v.resolveComponentSymlink(ctx, fs, normalized, subpath)
			if !progressed {
				return StatResult{}, corepkg.New(corepkg.KindNoEntry)
			}
			normalized = newPath
		default:
			return StatResult{}, err
		}
	}
	return StatResult{}, corepkg.New(corepkg.KindLoop)
}

// statFollowingLeaf is plain stat: drive the shared resolver loop, which
// already follows a leaf symlink by re-entering with its target
// (spec.md §4.3), and Stat whatever File it ultimately opens.
func (v *VFS) statFollowingLeaf(ctx context.Context, cwd, path string) (StatResult, error) {
	var result StatResult
	_, _, _, err := v.resolve(ctx, cwd, path, func(ctx context.Context, fs *FileSystem, subpath string) opResult {
		if fs.Open == nil {
			return opResult{err: corepkg.New(corepkg.KindNoEntry)}
		}
		res, err := fs.Open(ctx, subpath, 0, 0)
		if err != nil {
			return opResult{err: err}
		}
		if res.Target != "" {
			return opResult{target: res.Target}
		}
		defer res.File.Close(ctx)
		st, err := res.File.Stat(ctx)
		if err != nil {
			return opResult{err: err}
		}
		result = st
		return opResult{ok: true}
	})
	return result, err
}
