package timers

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestScheduleFires(t *testing.T) {
	s := NewSet()
	fired := make(chan struct{})

	s.Schedule("a", 10*time.Millisecond, func() { close(fired) })

	select {
	case <-fired:
	case <-time.After(time.Second):
		t.Fatal("timer did not fire")
	}
	if s.Pending() != 0 {
		t.Errorf("expected 0 pending after fire, got %d", s.Pending())
	}
}

func TestScheduleReplacesSameName(t *testing.T) {
	s := NewSet()
	var count int32
	done := make(chan struct{})

	s.Schedule("a", 20*time.Millisecond, func() { atomic.AddInt32(&count, 1) })
	s.Schedule("a", 20*time.Millisecond, func() {
		atomic.AddInt32(&count, 1)
		close(done)
	})

	<-done
	time.Sleep(50 * time.Millisecond)
	if got := atomic.LoadInt32(&count); got != 1 {
		t.Errorf("expected exactly one callback, got %d", got)
	}
}

func TestReplacementSurvivesStaleCallback(t *testing.T) {
	s := NewSet()

	// Zero-duration timers fire immediately, so their callbacks race
	// with the re-scheduling below. A stale callback must never remove
	// the entry of the timer that replaced it.
	for i := 0; i < 200; i++ {
		s.Schedule("a", 0, func() {})
	}
	s.Schedule("a", time.Hour, func() {})

	time.Sleep(50 * time.Millisecond)
	if got := s.Pending(); got != 1 {
		t.Fatalf("expected the replacement to stay tracked, got %d pending", got)
	}
	if !s.Cancel("a") {
		t.Error("replacement timer was not cancellable")
	}
}

func TestCancel(t *testing.T) {
	s := NewSet()
	var count int32

	s.Schedule("a", 20*time.Millisecond, func() { atomic.AddInt32(&count, 1) })
	if !s.Cancel("a") {
		t.Fatal("Cancel returned false for a pending timer")
	}
	if s.Cancel("a") {
		t.Error("Cancel returned true for an already-cancelled timer")
	}

	time.Sleep(60 * time.Millisecond)
	if got := atomic.LoadInt32(&count); got != 0 {
		t.Errorf("cancelled timer fired %d times", got)
	}
}

func TestCancelAll(t *testing.T) {
	s := NewSet()
	var count int32

	s.Schedule("a", 20*time.Millisecond, func() { atomic.AddInt32(&count, 1) })
	s.Schedule("b", 20*time.Millisecond, func() { atomic.AddInt32(&count, 1) })
	s.Schedule("c", 20*time.Millisecond, func() { atomic.AddInt32(&count, 1) })

	s.CancelAll()
	if s.Pending() != 0 {
		t.Errorf("expected 0 pending after CancelAll, got %d", s.Pending())
	}

	time.Sleep(60 * time.Millisecond)
	if got := atomic.LoadInt32(&count); got != 0 {
		t.Errorf("cancelled timers fired %d times", got)
	}
}
