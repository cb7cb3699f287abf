package vfs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryFirstMatchWins(t *testing.T) {
	r := NewRegistry()
	fsA := &FileSystem{Name: "a"}
	fsB := &FileSystem{Name: "b"}

	require.NoError(t, r.Mount("/mnt", fsA))
	require.NoError(t, r.Mount("/mnt/sub", fsB))

	got, sub, err := r.Find("/mnt/sub/file")
	require.NoError(t, err)
	assert.Same(t, fsA, got, "expected first-registered mount (fsA) to win")
	assert.Equal(t, "sub/file", sub)
}

func TestRegistryStringPrefixNotComponentAware(t *testing.T) {
	r := NewRegistry()
	fsA := &FileSystem{Name: "a"}
	require.NoError(t, r.Mount("/mnt", fsA))

	// "/mnt2/x" is matched by the "/mnt" mountpoint even though "/mnt2" is
	// not a path-component descendant of "/mnt" — spec.md §4.2 and the
	// literal-string-prefix open-question decision in DESIGN.md.
	got, sub, err := r.Find("/mnt2/x")
	require.NoError(t, err)
	assert.Same(t, fsA, got, "expected /mnt to match /mnt2/x by literal string prefix")
	assert.Equal(t, "2/x", sub)
}

func TestRegistryNoMatch(t *testing.T) {
	r := NewRegistry()
	_, _, err := r.Find("/nowhere")
	assert.Error(t, err, "expected error for unmounted path")
}

func TestRegistryUnmount(t *testing.T) {
	r := NewRegistry()
	fsA := &FileSystem{Name: "a"}
	_ = r.Mount("/mnt", fsA)

	assert.True(t, r.Unmount("/mnt"), "expected Unmount to find and remove the entry")
	_, _, err := r.Find("/mnt/x")
	assert.Error(t, err, "expected no match after unmount")
	assert.False(t, r.Unmount("/mnt"), "second Unmount of the same mountpoint should report false")
}

func TestRegistryRootMount(t *testing.T) {
	r := NewRegistry()
	root := &FileSystem{Name: "root"}
	_ = r.Mount("/", root)

	got, sub, err := r.Find("/etc/passwd")
	require.NoError(t, err)
	assert.Same(t, root, got, "expected root mount to match")
	assert.Equal(t, "etc/passwd", sub)
}
