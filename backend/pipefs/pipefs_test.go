package pipefs

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteThenReadRoundtrip(t *testing.T) {
	r, w, err := New(0)
	require.NoError(t, err)
	ctx := context.Background()

	_, err = w.Write(ctx, []byte("hello"))
	require.NoError(t, err)
	buf := make([]byte, 5)
	n, err := r.Read(ctx, buf)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(buf[:n]))
}

func TestReadBlocksUntilWriteCloses(t *testing.T) {
	r, w, err := New(0)
	require.NoError(t, err)
	ctx := context.Background()

	done := make(chan struct{})
	var n int
	var readErr error
	go func() {
		buf := make([]byte, 4)
		n, readErr = r.Read(ctx, buf)
		close(done)
	}()

	time.Sleep(20 * time.Millisecond)
	select {
	case <-done:
		t.Fatal("read should still be blocked with no data and write end open")
	default:
	}

	require.NoError(t, w.Close(ctx))

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for EOF read to unblock")
	}
	assert.NoError(t, readErr)
	assert.Equal(t, 0, n, "expected EOF (n=0, err=nil)")
}

func TestWriteAfterReadCloseFails(t *testing.T) {
	r, w, err := New(0)
	require.NoError(t, err)
	ctx := context.Background()
	require.NoError(t, r.Close(ctx))
	_, err = w.Write(ctx, []byte("x"))
	assert.Error(t, err, "expected write to a closed read end to fail")
}
