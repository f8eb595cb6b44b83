// Package debounce coalesces bursts of input into a single delayed action.
package debounce

import (
	"sync"
	"time"
)

const DefaultDelay = 500 * time.Millisecond

// A Dispatcher runs fn on the caller's event loop.
type Dispatcher func(fn func())

// Scheduler owns at most one pending action.
//
// Scheduling while an action is pending replaces it: the replaced action
// never runs, even when its timer has already fired and the callback is
// waiting in the dispatcher queue.
type Scheduler struct {
	mu       sync.Mutex
	timer    *time.Timer
	gen      uint64
	dispatch Dispatcher
}

// New returns a Scheduler delivering actions through dispatch.
// A nil dispatch runs actions on the timer goroutine.
func New(dispatch Dispatcher) *Scheduler {
	if dispatch == nil {
		dispatch = func(fn func()) { fn() }
	}
	return &Scheduler{dispatch: dispatch}
}

// Schedule cancels the pending action, if any, and arranges for
// action(input) to run after delay.
func (s *Scheduler) Schedule(
	input string, delay time.Duration, action func(string),
) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopLocked()
	s.gen++
	gen := s.gen
	s.timer = time.AfterFunc(max(delay, 0), func() {
		s.dispatch(func() {
			if s.claim(gen) {
				action(input)
			}
		})
	})
}

// CancelPending drops the pending action. It is a no-op when none is pending.
func (s *Scheduler) CancelPending() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked()
	s.gen++
}

func (s *Scheduler) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.timer != nil
}

func (s *Scheduler) stopLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

// claim reports whether gen is still the current generation and, if so,
// marks it as consumed.
func (s *Scheduler) claim(gen uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen || s.timer == nil {
		return false
	}
	s.timer = nil
	return true
}
