package vfs

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flinuxgo/core/corepkg"
)

func TestFDTableCloexecReset_S5(t *testing.T) {
	tbl := NewFDTable(16)
	ctx := context.Background()

	fd, err := tbl.Store(&memFile{}, true, "/f")
	require.NoError(t, err)
	cx, ok := tbl.Cloexec(fd)
	require.True(t, ok && cx, "expected cloexec set on fd %d", fd)

	require.NoError(t, tbl.ResetOnExec(ctx))
	_, ok = tbl.Get(fd)
	assert.False(t, ok, "fd %d should have been closed by ResetOnExec", fd)
}

func TestFDTableDup2Replaces_S6(t *testing.T) {
	tbl := NewFDTable(16)
	ctx := context.Background()

	fdA, err := tbl.Store(&memFile{data: []byte("a")}, false, "/a")
	require.NoError(t, err)
	fdB, err := tbl.Store(&memFile{data: []byte("b")}, false, "/b")
	require.NoError(t, err)

	got, err := tbl.Dup(ctx, fdA, fdB, false)
	require.NoError(t, err)
	assert.Equal(t, fdB, got, "dup2 should return target fd")

	f, ok := tbl.Get(fdB)
	require.True(t, ok, "fdB missing after dup2")
	assert.Equal(t, byte('a'), f.(*memFile).data[0], "fdB should now alias fdA's file")

	// Both slots now point at fdA's underlying file.
	fA, ok := tbl.Get(fdA)
	require.True(t, ok, "fdA missing")
	assert.Same(t, f, fA, "fdA and fdB should alias the same File after dup2")
}

func TestFDTableRefcountInvariant(t *testing.T) {
	tbl := NewFDTable(4)
	ctx := context.Background()

	fd, err := tbl.Store(&memFile{}, false, "/f")
	require.NoError(t, err)
	rc, ok := tbl.Ref(fd)
	require.True(t, ok, "ref failed")
	assert.Equal(t, int64(2), rc.Count(), "expected count 2 (slot + borrow)")

	require.NoError(t, tbl.Release(ctx, rc))
	assert.Equal(t, int64(1), rc.Count(), "expected count 1 after release")

	require.NoError(t, tbl.Close(ctx, fd))
	assert.Equal(t, int64(0), rc.Count(), "expected count 0 after close")
}

func TestFDTableDupRejectsSameFD(t *testing.T) {
	tbl := NewFDTable(4)
	fd, err := tbl.Store(&memFile{}, false, "/f")
	require.NoError(t, err)
	_, err = tbl.Dup(context.Background(), fd, fd, false)
	assert.True(t, corepkg.Is(err, corepkg.KindInvalidArgument), "expected EINVAL for dup2(fd, fd), got %v", err)
}

func TestFDTableEMFILE(t *testing.T) {
	tbl := NewFDTable(1)
	_, err := tbl.Store(&memFile{}, false, "/f")
	require.NoError(t, err)
	_, err = tbl.Store(&memFile{}, false, "/g")
	assert.True(t, corepkg.Is(err, corepkg.KindTooManyOpenFiles), "expected EMFILE, got %v", err)
}
