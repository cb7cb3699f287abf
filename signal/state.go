package signal

import (
	"context"
	"os"
	"sync"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/flinuxgo/core/corepkg"
	"github.com/flinuxgo/core/dbt"
	"github.com/flinuxgo/core/internal/winproc"
)

// Disposition is a signal action's handler disposition.
type Disposition int

const (
	DispositionDefault Disposition = iota
	DispositionIgnore
	DispositionCustom
)

// Action is one entry of the signal action table (spec.md §3).
type Action struct {
	Disposition Disposition
	Handler     uintptr // guest address, valid when Disposition == DispositionCustom
	Mask        uint64  // sa_mask, ORed into the process mask during delivery
	Restorer    uintptr // 0 means "use the emulator's default restorer"
}

// SigInfo is the siginfo_t subset this core carries and writes into a
// signal frame.
type SigInfo struct {
	Code int32
	Pid  int32
	UID  int32
}

// Core is the signal subsystem (Component E): action table, mask, pending
// set, and the worker goroutine that performs context-rewriting delivery.
// All mutations of mask/pending/canAcceptSignal happen under mu (spec.md §3
// invariant).
type Core struct {
	mu              sync.Mutex
	actions         [NSIG]Action
	mask            uint64
	pending         uint64
	info            [NSIG]SigInfo
	currentSiginfo  SigInfo
	currentSigno    int
	canAcceptSignal bool

	mainThread      winproc.Suspender
	translator      dbt.Translator
	mem             dbt.GuestMemory
	pipe            Pipe
	ready           *readyEvent
	childSem        *semaphore
	defaultRestorer uintptr
	selfPid         int

	// OnDefaultAction, if set, is invoked (without the thread suspended)
	// when a signal with DispositionDefault is delivered — process
	// termination semantics live with the caller (corevm), not here.
	OnDefaultAction func(signo int)

	log *logrus.Entry

	workerDone chan struct{}
}

// New constructs a Core and starts its worker goroutine. mainThread is the
// bounded unsafe boundary to the guest's only thread (spec.md §9);
// translator and mem are the DBT/MM external collaborators (spec.md §6).
func New(ctx context.Context, mainThread winproc.Suspender, translator dbt.Translator, mem dbt.GuestMemory, log *logrus.Entry) (*Core, error) {
	pipe, err := newPipe(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "signal pipe")
	}
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	c := &Core{
		mainThread:      mainThread,
		translator:      translator,
		mem:             mem,
		pipe:            pipe,
		ready:           newReadyEvent(),
		childSem:        newSemaphore(),
		canAcceptSignal: true,
		log:             log.WithField("subsystem", "signal"),
		workerDone:      make(chan struct{}),
		selfPid:         os.Getpid(),
	}
	go c.runWorker(ctx)
	return c, nil
}

// Shutdown stops the worker; no signals are drained after this returns
// (spec.md §4.5 "Cancellation").
func (c *Core) Shutdown() {
	_ = c.pipe.Send(packet{kind: packetShutdown})
	<-c.workerDone
	c.pipe.Close()
}

// RtSigaction implements rt_sigaction. SIGKILL/SIGSTOP are immutable
// (spec.md §8 invariant 4); old receives the prior action when non-nil.
func (c *Core) RtSigaction(signo int, act *Action, old *Action) error {
	if !validSigno(signo) {
		return corepkg.New(corepkg.KindInvalidArgument)
	}
	if signo == SIGKILL || signo == SIGSTOP {
		if act != nil {
			return corepkg.New(corepkg.KindInvalidArgument)
		}
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if old != nil {
		*old = c.actions[signo-1]
	}
	if act != nil && signo != SIGKILL && signo != SIGSTOP {
		c.actions[signo-1] = *act
	}
	return nil
}

// rt_sigprocmask `how` values.
const (
	SIG_BLOCK = iota
	SIG_UNBLOCK
	SIG_SETMASK
)

// RtSigprocmask implements rt_sigprocmask: applies set under how, returns
// the prior mask, and — per spec.md §8 invariant 5 — kicks a reconsider
// packet if the new mask newly unmasks a pending signal.
func (c *Core) RtSigprocmask(ctx context.Context, how int, set *uint64) (oldMask uint64, err error) {
	c.mu.Lock()
	oldMask = c.mask
	if set != nil {
		switch how {
		case SIG_BLOCK:
			c.mask |= *set
		case SIG_UNBLOCK:
			c.mask &^= *set
		case SIG_SETMASK:
			c.mask = *set
		default:
			c.mu.Unlock()
			return 0, corepkg.New(corepkg.KindInvalidArgument)
		}
		// SIGKILL/SIGSTOP can never be masked.
		c.mask &^= sigbit(SIGKILL) | sigbit(SIGSTOP)
	}
	needsKick := c.pending&^c.mask != 0
	c.mu.Unlock()

	if needsKick {
		if err := c.pipe.Send(packet{kind: packetReconsider}); err != nil {
			c.log.WithError(err).Error("failed to enqueue reconsider packet")
		}
	}
	return oldMask, nil
}

// RtSigpending implements rt_sigpending.
func (c *Core) RtSigpending() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pending
}

// Mask returns the current process signal mask.
func (c *Core) Mask() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mask
}

// snapshotAction reads an action entry under the mutex and returns a copy,
// per spec.md §9 "Replace acknowledged races": never touch guest memory
// or do anything else while holding the lock past this point.
func (c *Core) snapshotAction(signo int) Action {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.actions[signo-1]
}
