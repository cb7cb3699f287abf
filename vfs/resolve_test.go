package vfs

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flinuxgo/core/corepkg"
)

func TestOpenComponentSymlink_S2(t *testing.T) {
	mem := newMemFS()
	mem.put("link", &memNode{isLink: true, linkDest: "/real"})
	mem.put("real", &memNode{isDir: true})
	mem.put("real/file", &memNode{data: []byte("hi")})

	v := New(corepkg.DefaultConfig())
	require.NoError(t, v.Mount("/", mem.capability()))

	before := mem.opensOf()
	fd, err := v.Open(context.Background(), "/", "/link/file", 0, 0)
	require.NoError(t, err, "Open")
	assert.GreaterOrEqual(t, fd, 0, "bad fd")
	// Exactly one readlink("link") after the initial ENOENT on "link/file",
	// then exactly one more Open that succeeds on "real/file" — total two
	// Open calls across this request (spec.md §8 S2, invariant 6).
	gotOpens := mem.opensOf() - before
	assert.Equal(t, 2, gotOpens, "expected 2 Open calls (1 failed + 1 succeeded)")
}

func TestOpenELOOP_S3(t *testing.T) {
	mem := newMemFS()
	mem.put("a", &memNode{isLink: true, linkDest: "/a"})

	v := New(corepkg.DefaultConfig())
	require.NoError(t, v.Mount("/", mem.capability()))

	_, err := v.Open(context.Background(), "/", "/a", 0, 0)
	assert.True(t, corepkg.Is(err, corepkg.KindLoop), "expected ELOOP, got %v", err)
}

func TestOpenPlainFile(t *testing.T) {
	mem := newMemFS()
	mem.put("f", &memNode{data: []byte("data")})

	v := New(corepkg.DefaultConfig())
	_ = v.Mount("/", mem.capability())

	fd, err := v.Open(context.Background(), "/", "/f", 0, 0)
	require.NoError(t, err, "Open")
	f, ok := v.FDTable().Get(fd)
	require.True(t, ok, "fd not found after open")
	buf := make([]byte, 16)
	n, err := f.Read(context.Background(), buf)
	require.NoError(t, err)
	assert.Equal(t, "data", string(buf[:n]))
}

func TestOpenMissingNoComponentProbe(t *testing.T) {
	mem := newMemFS()
	mem.put("dir", &memNode{isDir: true})
	// no "dir/missing", and "dir" is a real directory, not a symlink, so
	// the component probe finds nothing and ENOENT propagates directly.
	v := New(corepkg.DefaultConfig())
	_ = v.Mount("/", mem.capability())

	_, err := v.Open(context.Background(), "/", "/dir/missing", 0, 0)
	assert.True(t, corepkg.Is(err, corepkg.KindNoEntry), "expected ENOENT, got %v", err)
}

func TestMkdirUnlinkSymlinkReadlink(t *testing.T) {
	mem := newMemFS()
	v := New(corepkg.DefaultConfig())
	_ = v.Mount("/", mem.capability())
	ctx := context.Background()

	require.NoError(t, v.Mkdir(ctx, "/", "/d", 0755))
	require.NoError(t, v.Symlink(ctx, "/", "/d", "/link-to-d"))
	target, err := v.Readlink(ctx, "/", "/link-to-d")
	require.NoError(t, err)
	assert.Equal(t, "/d", target)

	require.NoError(t, v.Unlink(ctx, "/", "/link-to-d"))
	_, err = v.Readlink(ctx, "/", "/link-to-d")
	assert.True(t, corepkg.Is(err, corepkg.KindNoEntry), "expected ENOENT after unlink, got %v", err)
}

func TestRenameToNewNameSucceeds(t *testing.T) {
	mem := newMemFS()
	mem.put("a", &memNode{data: []byte("hi")})
	v := New(corepkg.DefaultConfig())
	_ = v.Mount("/", mem.capability())
	ctx := context.Background()

	// "b" does not exist yet — the overwhelmingly common mv case — and must
	// not be rejected by a leaf-existence probe on newpath.
	require.NoError(t, v.Rename(ctx, "/", "/a", "/b"), "Rename")
	_, err := v.Open(ctx, "/", "/a", 0, 0)
	assert.True(t, corepkg.Is(err, corepkg.KindNoEntry), "expected /a gone after rename, got %v", err)

	fd, err := v.Open(ctx, "/", "/b", 0, 0)
	require.NoError(t, err, "expected /b to exist after rename")
	f, _ := v.FDTable().Get(fd)
	buf := make([]byte, 16)
	n, _ := f.Read(ctx, buf)
	assert.Equal(t, "hi", string(buf[:n]))
}

func TestRenameMissingOldpathIsNoEntry(t *testing.T) {
	mem := newMemFS()
	v := New(corepkg.DefaultConfig())
	_ = v.Mount("/", mem.capability())

	err := v.Rename(context.Background(), "/", "/nope", "/b")
	assert.True(t, corepkg.Is(err, corepkg.KindNoEntry), "expected ENOENT, got %v", err)
}

func TestLinkToNewNameSucceeds(t *testing.T) {
	mem := newMemFS()
	mem.put("a", &memNode{data: []byte("hi")})
	v := New(corepkg.DefaultConfig())
	_ = v.Mount("/", mem.capability())
	ctx := context.Background()

	// "b" must not already exist — the reverse of Open's leaf-existence
	// probe, matching link(2) semantics.
	require.NoError(t, v.Link(ctx, "/", "/a", "/b"), "Link")
	_, err := v.Open(ctx, "/", "/a", 0, 0)
	assert.NoError(t, err, "expected /a to still exist after link")
	_, err = v.Open(ctx, "/", "/b", 0, 0)
	assert.NoError(t, err, "expected /b to exist after link")
}

func TestLinkExistingNewpathIsExists(t *testing.T) {
	mem := newMemFS()
	mem.put("a", &memNode{data: []byte("hi")})
	mem.put("b", &memNode{data: []byte("bye")})
	v := New(corepkg.DefaultConfig())
	_ = v.Mount("/", mem.capability())

	err := v.Link(context.Background(), "/", "/a", "/b")
	assert.True(t, corepkg.Is(err, corepkg.KindExists), "expected EEXIST, got %v", err)
}

func TestRenameIntoSubdirectory(t *testing.T) {
	mem := newMemFS()
	mem.put("a", &memNode{data: []byte("hi")})
	mem.put("d", &memNode{isDir: true})
	v := New(corepkg.DefaultConfig())
	_ = v.Mount("/", mem.capability())
	ctx := context.Background()

	// newpath's parent ("/d") must resolve even though newpath itself
	// ("/d/a") has never existed.
	require.NoError(t, v.Rename(ctx, "/", "/a", "/d/a"), "Rename")
	_, err := v.Open(ctx, "/", "/d/a", 0, 0)
	assert.NoError(t, err, "expected /d/a to exist after rename")
}
