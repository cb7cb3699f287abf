package signal

import "github.com/flinuxgo/core/internal/winproc"

// fakeThread is a winproc.Suspender that never touches a real OS thread: it
// just hands fn the same Context struct every time, matching the contract
// WithSuspended documents (suspend, mutate, write back, resume) without any
// of the Windows mechanics.
type fakeThread struct {
	ctx winproc.Context
}

func (f *fakeThread) WithSuspended(fn func(*winproc.Context) error) error {
	return fn(&f.ctx)
}
