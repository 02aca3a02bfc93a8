// Package timers provides a named set of cancellable fire-once timers.
// Each player session owns one set, so destroying the session cancels
// every pending callback in one call and nothing fires against a
// session that no longer exists.
package timers

import (
	"sync"
	"time"
)

// Set tracks named timers. Scheduling a name that is already pending
// replaces the previous timer. Safe for concurrent use.
type Set struct {
	mu     sync.Mutex
	timers map[string]*time.Timer
}

// NewSet returns an empty timer set.
func NewSet() *Set {
	return &Set{timers: make(map[string]*time.Timer)}
}

// Schedule runs fn after d, replacing any pending timer with the same name.
// The entry is removed from the set right before fn runs. A callback whose
// timer was replaced or cancelled while it waited to run is dropped and
// never touches the replacement's entry.
func (s *Set) Schedule(name string, d time.Duration, fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t, ok := s.timers[name]; ok {
		t.Stop()
	}
	var t *time.Timer
	t = time.AfterFunc(d, func() {
		s.mu.Lock()
		current := s.timers[name] == t
		if current {
			delete(s.timers, name)
		}
		s.mu.Unlock()
		if current {
			fn()
		}
	})
	s.timers[name] = t
}

// Cancel stops a pending timer by name. Returns false if nothing was pending.
func (s *Set) Cancel(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.timers[name]
	if !ok {
		return false
	}
	t.Stop()
	delete(s.timers, name)
	return true
}

// CancelAll stops every pending timer in the set.
func (s *Set) CancelAll() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for name, t := range s.timers {
		t.Stop()
		delete(s.timers, name)
	}
}

// Pending returns the number of timers that have not fired or been cancelled.
func (s *Set) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers)
}
