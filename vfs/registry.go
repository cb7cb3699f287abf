package vfs

import (
	"strings"
	"sync"

	"github.com/flinuxgo/core/corepkg"
)

// mountEntry is one entry of the registry (spec.md §3 "Mount entry").
type mountEntry struct {
	mountpoint string // normalised absolute path
	fs         *FileSystem
}

// Registry is the mount-table lookup (Component B). It is a slice of
// entries ordered by insertion; lookups use first-match on literal
// prefix, not longest-prefix (spec.md §4.2, §9 open question #3 — preserved
// as the source implements it).
type Registry struct {
	mu      sync.RWMutex
	entries []mountEntry
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Mount appends a new entry. mountpoint must already be a normalised
// absolute path (spec.md §3 invariant).
func (r *Registry) Mount(mountpoint string, fs *FileSystem) error {
	if !strings.HasPrefix(mountpoint, "/") {
		return corepkg.New(corepkg.KindInvalidArgument)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, mountEntry{mountpoint: mountpoint, fs: fs})
	return nil
}

// Unmount removes the first entry whose mountpoint equals mountpoint.
func (r *Registry) Unmount(mountpoint string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, e := range r.entries {
		if e.mountpoint == mountpoint {
			r.entries = append(r.entries[:i], r.entries[i+1:]...)
			return true
		}
	}
	return false
}

// Find implements the Component B contract: find(path) -> (fs, subpath) |
// NotFound. The first entry whose mountpoint is a literal string prefix of
// path wins — this is intentionally NOT component-boundary aware (a mount
// at "/mnt" matches "/mnt2/x" too); spec.md §4.2 and §9 open question #3
// preserve this exactly as the source implements it.
func (r *Registry) Find(path string) (*FileSystem, string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, e := range r.entries {
		if strings.HasPrefix(path, e.mountpoint) {
			sub := strings.TrimPrefix(path, e.mountpoint)
			sub = strings.TrimPrefix(sub, "/")
			return e.fs, sub, nil
		}
	}
	return nil, "", corepkg.New(corepkg.KindNoEntry)
}
