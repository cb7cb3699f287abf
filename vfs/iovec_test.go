package vfs

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flinuxgo/core/corepkg"
)

func TestWritevThenReadvRoundtrip(t *testing.T) {
	tbl := NewFDTable(4)
	ctx := context.Background()

	fd, err := tbl.Store(&memFile{}, false, "/f")
	require.NoError(t, err)
	v := &VFS{fdtable: tbl, cfg: corepkg.DefaultConfig()}

	n, err := v.Writev(ctx, fd, []IOVec{[]byte("hel"), []byte("lo")}, 0, false)
	require.NoError(t, err)
	assert.EqualValues(t, 5, n, "expected 5 bytes written")

	buf1 := make([]byte, 3)
	buf2 := make([]byte, 2)
	n, err = v.Readv(ctx, fd, []IOVec{buf1, buf2}, 0, true)
	require.NoError(t, err)
	assert.EqualValues(t, 5, n, "expected 5 bytes read")
	assert.Equal(t, "hello", string(buf1)+string(buf2))
}

func TestReadvBadFD(t *testing.T) {
	v := &VFS{fdtable: NewFDTable(4), cfg: corepkg.DefaultConfig()}
	_, err := v.Readv(context.Background(), 0, []IOVec{make([]byte, 1)}, 0, false)
	assert.True(t, corepkg.Is(err, corepkg.KindBadFd), "expected EBADF, got %v", err)
}

func TestWritevWritesSingleVectorFully(t *testing.T) {
	vecs := []IOVec{[]byte("abc")}
	n, err := Writev(context.Background(), &memFile{}, vecs, 0, false)
	require.NoError(t, err)
	assert.EqualValues(t, 3, n, "expected full 3-byte write")
}
