package local

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenReadWriteRoundtrip(t *testing.T) {
	dir := t.TempDir()
	fs := New("test", dir)
	ctx := context.Background()

	res, err := fs.Open(ctx, "greeting.txt", oCreat|oWronly, 0o644)
	require.NoError(t, err)
	_, err = res.File.Write(ctx, []byte("hello"))
	require.NoError(t, err)
	require.NoError(t, res.File.Close(ctx))

	res, err = fs.Open(ctx, "greeting.txt", 0, 0)
	require.NoError(t, err)
	defer res.File.Close(ctx)
	buf := make([]byte, 5)
	n, err := res.File.Read(ctx, buf)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(buf[:n]))
}

func TestOpenMissingReturnsNoEntry(t *testing.T) {
	dir := t.TempDir()
	fs := New("test", dir)
	_, err := fs.Open(context.Background(), "nope.txt", 0, 0)
	assert.Error(t, err, "expected error for missing file")
}

func TestSymlinkReportedAsTarget(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "real.txt")
	require.NoError(t, os.WriteFile(target, []byte("x"), 0o644))
	if err := os.Symlink("real.txt", filepath.Join(dir, "link.txt")); err != nil {
		t.Skipf("symlinks not supported in this environment: %v", err)
	}

	fs := New("test", dir)
	res, err := fs.Open(context.Background(), "link.txt", 0, 0)
	require.NoError(t, err)
	assert.Equal(t, "real.txt", res.Target)
}

func TestMkdirRmdir(t *testing.T) {
	dir := t.TempDir()
	fs := New("test", dir)
	ctx := context.Background()

	require.NoError(t, fs.Mkdir(ctx, "sub", 0o755))
	_, err := os.Stat(filepath.Join(dir, "sub"))
	require.NoError(t, err)

	require.NoError(t, fs.Rmdir(ctx, "sub"))
	_, err = os.Stat(filepath.Join(dir, "sub"))
	assert.True(t, os.IsNotExist(err), "expected sub to be removed")
}
