package vfs

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flinuxgo/core/backend/local"
	"github.com/flinuxgo/core/corepkg"
)

func newMountedVFS(t *testing.T, dir string) *VFS {
	t.Helper()
	v := New(corepkg.DefaultConfig())
	require.NoError(t, v.Mount("/", local.New("test", dir)))
	return v
}

func TestStatFollowsSymlinkByDefault(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "target.txt"), []byte("hello"), 0o644))
	if err := os.Symlink("target.txt", filepath.Join(dir, "link")); err != nil {
		t.Skip("symlinks not supported in this environment")
	}
	v := newMountedVFS(t, dir)

	st, err := v.Stat(context.Background(), "/", "/link", false)
	require.NoError(t, err)
	assert.EqualValues(t, 5, st.Size, "expected following the symlink to report the target's size 5")
}

func TestStatNoFollowReportsSymlinkItself(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "target.txt"), []byte("hello"), 0o644))
	if err := os.Symlink("target.txt", filepath.Join(dir, "link")); err != nil {
		t.Skip("symlinks not supported in this environment")
	}
	v := newMountedVFS(t, dir)

	st, err := v.Stat(context.Background(), "/", "/link", true)
	require.NoError(t, err)
	assert.NotZero(t, st.Mode&symlinkStatMode, "expected lstat to report S_IFLNK, got mode %#o", st.Mode)
	assert.EqualValues(t, len("target.txt"), st.Size, "expected lstat size to equal the target string's length")
}

func TestStatNoFollowStillResolvesIntermediateSymlinks(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "realdir"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "realdir", "f.txt"), []byte("hi"), 0o644))
	if err := os.Symlink("realdir", filepath.Join(dir, "dirlink")); err != nil {
		t.Skip("symlinks not supported in this environment")
	}
	v := newMountedVFS(t, dir)

	st, err := v.Stat(context.Background(), "/", "/dirlink/f.txt", true)
	require.NoError(t, err)
	assert.EqualValues(t, 2, st.Size, "expected the regular file through the intermediate symlink dir")
}

func TestStatMissingPathIsNoEntry(t *testing.T) {
	v := newMountedVFS(t, t.TempDir())
	_, err := v.Stat(context.Background(), "/", "/nope", false)
	assert.True(t, corepkg.Is(err, corepkg.KindNoEntry), "expected ENOENT, got %v", err)
}
