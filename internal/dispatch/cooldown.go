package dispatch

import (
	"sync"
	"time"
)

type cooldownKey struct {
	command string
	user    string
}

// CooldownStatus is the outcome of a ledger check.
type CooldownStatus struct {
	Allowed   bool
	Remaining time.Duration
}

// Ledger tracks per-command, per-user invocation timestamps. Entries
// self-expire after their window; checks compare against the wall
// clock, never against mere presence, so a stale entry that has not
// been swept yet still reads as allowed.
type Ledger struct {
	mu      sync.Mutex
	entries map[cooldownKey]time.Time
	now     func() time.Time
}

// NewLedger returns an empty cooldown ledger.
func NewLedger() *Ledger {
	return &Ledger{
		entries: make(map[cooldownKey]time.Time),
		now:     time.Now,
	}
}

// Check reports whether the pair may run and, if not, how long remains.
func (l *Ledger) Check(commandID, userID string, window time.Duration) CooldownStatus {
	l.mu.Lock()
	defer l.mu.Unlock()

	ts, ok := l.entries[cooldownKey{commandID, userID}]
	if !ok {
		return CooldownStatus{Allowed: true}
	}

	elapsed := l.now().Sub(ts)
	if elapsed >= window {
		return CooldownStatus{Allowed: true}
	}
	return CooldownStatus{Remaining: window - elapsed}
}

// Record stores the invocation time and schedules removal once the
// window elapses. At most one live entry exists per pair: re-recording
// overwrites, and the sweep only deletes the timestamp it was armed for.
func (l *Ledger) Record(commandID, userID string, window time.Duration) {
	key := cooldownKey{commandID, userID}

	l.mu.Lock()
	ts := l.now()
	l.entries[key] = ts
	l.mu.Unlock()

	time.AfterFunc(window, func() {
		l.mu.Lock()
		if cur, ok := l.entries[key]; ok && cur.Equal(ts) {
			delete(l.entries, key)
		}
		l.mu.Unlock()
	})
}

// Len returns the number of live entries.
func (l *Ledger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}
