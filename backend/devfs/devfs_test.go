package devfs

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flinuxgo/core/corepkg"
)

func TestDevNullDiscardsAndReadsEOF(t *testing.T) {
	fs := New()
	ctx := context.Background()
	res, err := fs.Open(ctx, "null", 0, 0)
	require.NoError(t, err)

	n, err := res.File.Write(ctx, []byte("anything"))
	require.NoError(t, err)
	assert.Equal(t, 8, n, "expected write to succeed and report 8 bytes")

	buf := make([]byte, 4)
	n, err = res.File.Read(ctx, buf)
	require.NoError(t, err)
	assert.Equal(t, 0, n, "expected /dev/null read to report 0 bytes")
}

func TestDevZeroFillsBuffer(t *testing.T) {
	fs := New()
	ctx := context.Background()
	res, err := fs.Open(ctx, "zero", 0, 0)
	require.NoError(t, err)

	buf := []byte{1, 2, 3}
	n, err := res.File.Read(ctx, buf)
	require.NoError(t, err)
	require.Equal(t, 3, n)
	assert.Equal(t, []byte{0, 0, 0}, buf, "expected all-zero buffer")
}

func TestDevFullRejectsWrite(t *testing.T) {
	fs := New()
	ctx := context.Background()
	res, err := fs.Open(ctx, "full", 0, 0)
	require.NoError(t, err)

	_, err = res.File.Write(ctx, []byte("x"))
	assert.Truef(t, corepkg.Is(err, corepkg.KindNoSpace), "expected ENOSPC from /dev/full, got %v", err)
}

func TestUnknownDeviceIsNoEntry(t *testing.T) {
	fs := New()
	_, err := fs.Open(context.Background(), "nope", 0, 0)
	assert.Error(t, err, "expected ENOENT for an unregistered device name")
}
