// Package process holds the per-guest-process state spec.md §3 names
// outside the VFS and signal core: the current working directory and the
// umask. Both are guarded by a single State value constructed once at
// Core init and threaded explicitly (spec.md §9 "Replace global statics").
package process

import (
	"context"
	"sync"

	"github.com/flinuxgo/core/corepkg"
	"github.com/flinuxgo/core/vfs"
	"github.com/flinuxgo/core/vfspath"
)

const (
	sIFMT  = 0o170000
	sIFDIR = 0o040000
)

// State is the process-wide CWD + umask pair.
type State struct {
	mu    sync.RWMutex
	cwd   string
	umask uint32
}

// NewState builds a State rooted at "/" with the config's default umask.
func NewState(cfg corepkg.Config) *State {
	return &State{cwd: "/", umask: cfg.DefaultUmask}
}

// Getcwd returns the current working directory.
func (s *State) Getcwd() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cwd
}

// Umask returns the current umask.
func (s *State) Umask() uint32 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.umask
}

// SetUmask sets the umask and returns the prior value (umask(2) semantics).
func (s *State) SetUmask(v uint32) uint32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	old := s.umask
	s.umask = v & 0o7777
	return old
}

// ResetUmask restores the default umask (vfs_reset's cloexec/umask pairing,
// spec.md §4.4 "reset_on_exec").
func (s *State) ResetUmask(cfg corepkg.Config) {
	s.mu.Lock()
	s.umask = cfg.DefaultUmask
	s.mu.Unlock()
}

// Chdir implements chdir: the target must resolve and stat as a directory.
func (s *State) Chdir(ctx context.Context, v *vfs.VFS, path string) error {
	cwd := s.Getcwd()
	target := vfspath.Normalize(cwd, path)

	fd, err := v.Open(ctx, cwd, path, 0, 0)
	if err != nil {
		return err
	}
	f, ok := v.FDTable().Get(fd)
	if !ok {
		return corepkg.New(corepkg.KindNoEntry)
	}
	st, err := f.Stat(ctx)
	_ = v.FDTable().Close(ctx, fd)
	if err != nil {
		return err
	}
	if st.Mode&sIFMT != sIFDIR {
		return corepkg.New(corepkg.KindNotDirectory)
	}

	s.mu.Lock()
	s.cwd = target
	s.mu.Unlock()
	return nil
}

// Fchdir implements fchdir: same as Chdir but against an already-open fd,
// whose originating path the descriptor table tracked at Open time (the way
// a real fchdir derives the new cwd from the fd's own dentry rather than
// from any caller-supplied string).
func (s *State) Fchdir(ctx context.Context, v *vfs.VFS, fd int) error {
	f, ok := v.FDTable().Get(fd)
	if !ok {
		return corepkg.New(corepkg.KindBadFd)
	}
	st, err := f.Stat(ctx)
	if err != nil {
		return err
	}
	if st.Mode&sIFMT != sIFDIR {
		return corepkg.New(corepkg.KindNotDirectory)
	}
	path, ok := v.FDTable().Path(fd)
	if !ok {
		return corepkg.New(corepkg.KindBadFd)
	}
	s.mu.Lock()
	s.cwd = vfspath.Normalize("/", path)
	s.mu.Unlock()
	return nil
}
