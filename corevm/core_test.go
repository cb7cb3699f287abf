package corevm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flinuxgo/core/corepkg"
	"github.com/flinuxgo/core/dbt/dbtfake"
	"github.com/flinuxgo/core/internal/winproc"
)

type fakeThread struct{ ctx winproc.Context }

func (f *fakeThread) WithSuspended(fn func(*winproc.Context) error) error {
	return fn(&f.ctx)
}

func TestNewWiresSignalAndVFS(t *testing.T) {
	mem := dbtfake.NewGuestMemory(0x1000, 4096)
	c, err := New(context.Background(), corepkg.DefaultConfig(), t.TempDir(), &fakeThread{}, &dbtfake.Translator{}, mem)
	require.NoError(t, err)
	defer c.Shutdown(context.Background())

	assert.Equal(t, "/", c.Process.Getcwd(), "expected default cwd /")
	assert.Equal(t, corepkg.DefaultConfig().DefaultUmask, c.Process.Umask(), "expected default umask wired from config")
	assert.NotNil(t, c.VFS.FDTable(), "expected a descriptor table")
}

func TestNewMountsDevAndConsoleBeforeDev(t *testing.T) {
	mem := dbtfake.NewGuestMemory(0x1000, 4096)
	c, err := New(context.Background(), corepkg.DefaultConfig(), t.TempDir(), &fakeThread{}, &dbtfake.Translator{}, mem)
	require.NoError(t, err)
	defer c.Shutdown(context.Background())

	fd, err := c.VFS.Open(context.Background(), "/", "/dev/null", 0, 0)
	require.NoError(t, err, "expected /dev/null to open via devfs mount")
	_ = c.VFS.FDTable().Close(context.Background(), fd)

	fd, err = c.VFS.Open(context.Background(), "/", "/dev/console", 0, 0)
	require.NoError(t, err, "expected /dev/console to open via consolefs mount")
	_ = c.VFS.FDTable().Close(context.Background(), fd)
}

func TestPipeAndSocketPairAllocateDistinctFDs(t *testing.T) {
	mem := dbtfake.NewGuestMemory(0x1000, 4096)
	c, err := New(context.Background(), corepkg.DefaultConfig(), t.TempDir(), &fakeThread{}, &dbtfake.Translator{}, mem)
	require.NoError(t, err)
	defer c.Shutdown(context.Background())

	r, w, err := c.Pipe(0)
	require.NoError(t, err)
	assert.NotEqual(t, w, r, "expected distinct read/write fds")

	a, b, err := c.SocketPair(0)
	require.NoError(t, err)
	assert.NotEqual(t, b, a, "expected socketpair fds distinct from pipe fds")
	assert.NotEqual(t, r, a, "expected socketpair fds distinct from pipe fds")
	assert.NotEqual(t, w, a, "expected socketpair fds distinct from pipe fds")
}
