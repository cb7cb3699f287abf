package signal

import "sync"

// readyEvent models the "signal-ready" event spec.md §4.5 describes as a
// manual-reset event: Signal marks it set, Clear resets it, and Chan
// returns the channel a waiter can select on for the "currently set"
// signal. Signal closes the channel, so every current waiter wakes and the
// event stays set until Clear swaps in a fresh channel.
type readyEvent struct {
	mu sync.Mutex
	ch chan struct{}
}

func newReadyEvent() *readyEvent {
	return &readyEvent{ch: make(chan struct{})}
}

// Signal sets the event, waking any current waiter. Idempotent: signaling
// an already-set event is a no-op.
func (e *readyEvent) Signal() {
	e.mu.Lock()
	defer e.mu.Unlock()
	select {
	case <-e.ch:
		// already set (closed); leave it
	default:
		close(e.ch)
	}
}

// Clear resets the event to unset.
func (e *readyEvent) Clear() {
	e.mu.Lock()
	defer e.mu.Unlock()
	select {
	case <-e.ch:
		e.ch = make(chan struct{})
	default:
	}
}

// Chan returns the channel to select on; it is closed exactly while the
// event is set.
func (e *readyEvent) Chan() <-chan struct{} {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ch
}

// semaphore is the child-wait counting semaphore (spec.md §4.5.6): each
// child death increments it, and a waiter (wait4-style) decrements.
type semaphore struct {
	mu    sync.Mutex
	cond  *sync.Cond
	count int
}

func newSemaphore() *semaphore {
	s := &semaphore{}
	s.cond = sync.NewCond(&s.mu)
	return s
}

func (s *semaphore) increment() {
	s.mu.Lock()
	s.count++
	s.cond.Signal()
	s.mu.Unlock()
}

// decrementBlocking blocks until count > 0, then consumes one unit.
func (s *semaphore) decrementBlocking() {
	s.mu.Lock()
	for s.count == 0 {
		s.cond.Wait()
	}
	s.count--
	s.mu.Unlock()
}

// tryDecrement consumes one unit without blocking; reports whether it did.
func (s *semaphore) tryDecrement() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.count == 0 {
		return false
	}
	s.count--
	return true
}
