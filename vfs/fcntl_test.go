package vfs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDupFDRespectsFloor(t *testing.T) {
	tbl := NewFDTable(16)

	fd, err := tbl.Store(&memFile{data: []byte("a")}, false, "/a")
	require.NoError(t, err)
	require.Equal(t, 0, fd, "expected first store at fd 0")

	newFD, err := tbl.DupFD(fd, 5, false)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, newFD, 5, "expected duplicated fd >= 5")
	cx, ok := tbl.Cloexec(newFD)
	assert.True(t, ok, "expected new fd to be occupied")
	assert.False(t, cx, "expected F_DUPFD to leave cloexec unset")

	cloexecFD, err := tbl.DupFD(fd, 5, true)
	require.NoError(t, err)
	cx, ok = tbl.Cloexec(cloexecFD)
	assert.True(t, ok)
	assert.True(t, cx, "expected F_DUPFD_CLOEXEC to set cloexec on the new fd")
}

func TestDupFDRejectsBadFD(t *testing.T) {
	tbl := NewFDTable(4)
	_, err := tbl.DupFD(3, 0, false)
	assert.Error(t, err, "expected an error duplicating an unoccupied fd")
}

func TestDupFDExhaustsCapacity(t *testing.T) {
	tbl := NewFDTable(2)
	fd, err := tbl.Store(&memFile{}, false, "/f")
	require.NoError(t, err)
	_, err = tbl.DupFD(fd, 5, false)
	assert.Error(t, err, "expected ETOOMANYOPENFILES when the floor exceeds capacity")
}

func TestGetFLAndSetFLRoundtrip(t *testing.T) {
	tbl := NewFDTable(4)
	fd, err := tbl.Store(&memFile{}, false, "/f")
	require.NoError(t, err)

	flags, err := tbl.GetFL(fd)
	require.NoError(t, err)
	assert.Equal(t, 0, flags, "expected initial flags 0")

	const oAppend = 0o2000
	require.NoError(t, tbl.SetFL(fd, oAppend))
	flags, err = tbl.GetFL(fd)
	require.NoError(t, err)
	assert.Equal(t, oAppend, flags, "expected O_APPEND to stick after SetFL")
}

func TestSetFLBadFD(t *testing.T) {
	tbl := NewFDTable(4)
	err := tbl.SetFL(0, 0)
	assert.Error(t, err, "expected EBADF setting flags on an unoccupied fd")
}
