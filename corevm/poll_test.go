package corevm

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flinuxgo/core/corepkg"
	"github.com/flinuxgo/core/dbt/dbtfake"
	"github.com/flinuxgo/core/vfs"
)

func TestPpollReturnsImmediatelyWhenDeviceIsReady(t *testing.T) {
	mem := dbtfake.NewGuestMemory(0x1000, 4096)
	c, err := New(context.Background(), corepkg.DefaultConfig(), t.TempDir(), &fakeThread{}, &dbtfake.Translator{}, mem)
	require.NoError(t, err)
	defer c.Shutdown(context.Background())

	fd, err := c.VFS.Open(context.Background(), "/", "/dev/null", 0, 0)
	require.NoError(t, err)
	defer c.VFS.FDTable().Close(context.Background(), fd)

	start := time.Now()
	results, err := c.Ppoll(context.Background(), []vfs.PollEntry{{FD: fd, Events: vfs.POLLIN}}, time.Second, nil)
	require.NoError(t, err)
	assert.LessOrEqual(t, time.Since(start), 200*time.Millisecond, "expected /dev/null to report ready immediately (no native poll handle)")
	require.Len(t, results, 1)
	assert.NotZero(t, results[0].Revents&vfs.POLLIN, "expected POLLIN ready, got %+v", results)
}

func TestPpollTimesOutWhenNothingReady(t *testing.T) {
	mem := dbtfake.NewGuestMemory(0x1000, 4096)
	c, err := New(context.Background(), corepkg.DefaultConfig(), t.TempDir(), &fakeThread{}, &dbtfake.Translator{}, mem)
	require.NoError(t, err)
	defer c.Shutdown(context.Background())

	r, w, err := c.Pipe(0)
	require.NoError(t, err)
	defer c.VFS.FDTable().Close(context.Background(), w)
	defer c.VFS.FDTable().Close(context.Background(), r)

	start := time.Now()
	results, err := c.Ppoll(context.Background(), []vfs.PollEntry{{FD: r, Events: vfs.POLLIN}}, 30*time.Millisecond, nil)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 30*time.Millisecond, "expected Ppoll to honor its timeout before returning")
	require.Len(t, results, 1)
	assert.Zero(t, results[0].Revents, "expected no ready events, got %+v", results)
}
