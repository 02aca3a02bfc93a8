package dispatch

import (
	"testing"
	"time"
)

// fakeClock lets tests move time without sleeping.
type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestLedger() (*Ledger, *fakeClock) {
	clock := &fakeClock{t: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	l := NewLedger()
	l.now = clock.Now
	return l, clock
}

func TestCheckWithoutRecordAllows(t *testing.T) {
	l, _ := newTestLedger()
	status := l.Check("play", "user-1", 3*time.Second)
	if !status.Allowed {
		t.Error("fresh pair should be allowed")
	}
	if status.Remaining != 0 {
		t.Errorf("remaining = %v, want 0", status.Remaining)
	}
}

func TestRecordThenCheckBlocks(t *testing.T) {
	l, _ := newTestLedger()
	window := 3 * time.Second

	l.Record("play", "user-1", window)
	status := l.Check("play", "user-1", window)
	if status.Allowed {
		t.Fatal("immediate re-check should be blocked")
	}
	if status.Remaining != window {
		t.Errorf("remaining = %v, want %v", status.Remaining, window)
	}
}

func TestCheckBoundary(t *testing.T) {
	l, clock := newTestLedger()
	window := 3 * time.Second

	l.Record("play", "user-1", window)

	// One tick before the window closes: still blocked.
	clock.Advance(window - time.Millisecond)
	if status := l.Check("play", "user-1", window); status.Allowed {
		t.Error("check at window-ε should be blocked")
	}

	// Exactly at the window: allowed, even though the entry may still
	// physically exist until its sweep fires.
	clock.Advance(time.Millisecond)
	if status := l.Check("play", "user-1", window); !status.Allowed {
		t.Error("check at window should be allowed")
	}
}

func TestEntriesAreIndependentPerPair(t *testing.T) {
	l, _ := newTestLedger()
	window := 3 * time.Second

	l.Record("play", "user-1", window)

	if status := l.Check("play", "user-2", window); !status.Allowed {
		t.Error("other user should not be affected")
	}
	if status := l.Check("skip", "user-1", window); !status.Allowed {
		t.Error("other command should not be affected")
	}
}

func TestEntryExpiresAndIsSwept(t *testing.T) {
	l := NewLedger()
	window := 20 * time.Millisecond

	l.Record("play", "user-1", window)
	if l.Len() != 1 {
		t.Fatalf("len = %d, want 1", l.Len())
	}

	deadline := time.Now().Add(time.Second)
	for l.Len() != 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if l.Len() != 0 {
		t.Error("expired entry was not swept")
	}
	if status := l.Check("play", "user-1", window); !status.Allowed {
		t.Error("pair should be allowed after expiry")
	}
}

func TestReRecordOverwrites(t *testing.T) {
	l, clock := newTestLedger()
	window := 3 * time.Second

	l.Record("play", "user-1", window)
	clock.Advance(window)
	if status := l.Check("play", "user-1", window); !status.Allowed {
		t.Fatal("should be allowed after window")
	}

	l.Record("play", "user-1", window)
	if l.Len() != 1 {
		t.Errorf("len = %d, want exactly one live entry per pair", l.Len())
	}
	if status := l.Check("play", "user-1", window); status.Allowed {
		t.Error("re-recorded pair should be blocked again")
	}
}
