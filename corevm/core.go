// Package corevm bundles the signal core, VFS, and process state into a
// single handle constructed once per guest process, replacing the fixed-
// virtual-address globals the original design used (spec.md §9 "Replace
// global statics").
package corevm

import (
	"context"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/flinuxgo/core/backend/consolefs"
	"github.com/flinuxgo/core/backend/devfs"
	"github.com/flinuxgo/core/backend/local"
	"github.com/flinuxgo/core/backend/pipefs"
	"github.com/flinuxgo/core/backend/sockfs"
	"github.com/flinuxgo/core/corepkg"
	"github.com/flinuxgo/core/dbt"
	"github.com/flinuxgo/core/internal/corelog"
	"github.com/flinuxgo/core/internal/winproc"
	"github.com/flinuxgo/core/process"
	"github.com/flinuxgo/core/signal"
	"github.com/flinuxgo/core/vfs"
)

// Core is the single handle a guest-process host wires up once: the
// signal subsystem, the VFS, and the CWD/umask process state, all built
// from the same Config rather than read from package-level vars.
type Core struct {
	Config  corepkg.Config
	Signal  *signal.Core
	VFS     *vfs.VFS
	Process *process.State

	log *logrus.Entry
}

// New wires up a Core. mainThread and the DBT/MM collaborators are the
// external boundary spec.md §6 names; cfg supplies the process-wide
// tunables (spec.md §9 "Replace global statics"); hostRoot is the host
// directory the guest's "/" mounts onto. The device and console
// filesystems are always mounted at "/dev" and "/dev/console" — the more
// specific "/dev/console" entry is registered first so first-match-wins
// prefix lookup (spec.md §4.2/§9) reaches it ahead of the general "/dev"
// device table.
func New(ctx context.Context, cfg corepkg.Config, hostRoot string, mainThread winproc.Suspender, translator dbt.Translator, mem dbt.GuestMemory) (*Core, error) {
	log := corelog.For("corevm")

	sigCore, err := signal.New(ctx, mainThread, translator, mem, log)
	if err != nil {
		log.WithError(err).Error("failed to construct signal core")
		return nil, err
	}

	v := vfs.New(cfg)
	if err := v.Mount("/dev/console", consolefs.New(os.Stdin, os.Stdout)); err != nil {
		return nil, err
	}
	if err := v.Mount("/dev", devfs.New()); err != nil {
		return nil, err
	}
	if err := v.Mount("/", local.New("local", hostRoot)); err != nil {
		return nil, err
	}

	c := &Core{
		Config:  cfg,
		Signal:  sigCore,
		VFS:     v,
		Process: process.NewState(cfg),
		log:     log,
	}
	return c, nil
}

// Pipe allocates a connected pipe(2) file pair and installs both ends into
// the descriptor table, returning their fds.
func (c *Core) Pipe(flags int) (readFD, writeFD int, err error) {
	r, w, err := pipefs.New(flags)
	if err != nil {
		return 0, 0, err
	}
	readFD, err = c.VFS.FDTable().Store(r, flags&vfs.O_CLOEXEC != 0, "pipe:")
	if err != nil {
		return 0, 0, err
	}
	writeFD, err = c.VFS.FDTable().Store(w, flags&vfs.O_CLOEXEC != 0, "pipe:")
	if err != nil {
		_ = c.VFS.FDTable().Close(context.Background(), readFD)
		return 0, 0, err
	}
	return readFD, writeFD, nil
}

// SocketPair allocates a connected socketpair(2) file pair and installs
// both ends into the descriptor table, returning their fds.
func (c *Core) SocketPair(flags int) (fdA, fdB int, err error) {
	a, b, err := sockfs.NewPair(flags)
	if err != nil {
		return 0, 0, err
	}
	fdA, err = c.VFS.FDTable().Store(a, flags&vfs.O_CLOEXEC != 0, "socket:")
	if err != nil {
		return 0, 0, err
	}
	fdB, err = c.VFS.FDTable().Store(b, flags&vfs.O_CLOEXEC != 0, "socket:")
	if err != nil {
		_ = c.VFS.FDTable().Close(context.Background(), fdA)
		return 0, 0, err
	}
	return fdA, fdB, nil
}

// Shutdown tears down the signal core's worker and closes every open fd.
func (c *Core) Shutdown(ctx context.Context) {
	c.Signal.Shutdown()
	if err := c.VFS.FDTable().Shutdown(ctx); err != nil {
		c.log.WithError(err).Error("error closing descriptor table at shutdown")
	}
}
