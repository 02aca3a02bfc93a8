package discord

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"

	"melobot/internal/player"
	"melobot/internal/timers"
)

// recordingMessenger tracks which messages are currently live.
type recordingMessenger struct {
	mu      sync.Mutex
	nextID  int
	live    map[string]bool
	sends   int
	deletes int
}

func newRecordingMessenger() *recordingMessenger {
	return &recordingMessenger{live: make(map[string]bool)}
}

func (m *recordingMessenger) SendEmbed(channelID string, embed *discordgo.MessageEmbed, components []discordgo.MessageComponent) (string, error) {
	return m.Send(channelID, "")
}

func (m *recordingMessenger) Send(channelID, content string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	id := string(rune('a' + m.nextID))
	m.live[id] = true
	m.sends++
	return id, nil
}

func (m *recordingMessenger) Delete(channelID, messageID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deletes++
	if !m.live[messageID] {
		return errors.New("unknown message")
	}
	delete(m.live, messageID)
	return nil
}

func (m *recordingMessenger) liveCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.live)
}

// syncSession is a controllable player session for synchronizer tests.
type syncSession struct {
	mu       sync.Mutex
	queue    *player.Queue
	events   chan player.Event
	playing  bool
	destroys int
	skips    int
}

func newSyncSession() *syncSession {
	return &syncSession{queue: player.NewQueue(), events: make(chan player.Event, 16)}
}

func (s *syncSession) GuildID() string        { return "guild-1" }
func (s *syncSession) TextChannelID() string  { return "chan-1" }
func (s *syncSession) VoiceChannelID() string { return "vc-1" }
func (s *syncSession) Play() error            { return nil }
func (s *syncSession) Pause(paused bool) error {
	return nil
}
func (s *syncSession) Skip() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.skips++
	return nil
}
func (s *syncSession) Stop() error                  { return nil }
func (s *syncSession) SetVolume(percent int) error  { return nil }
func (s *syncSession) SetLoop(mode player.LoopMode) {}
func (s *syncSession) Queue() *player.Queue         { return s.queue }
func (s *syncSession) Playing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.playing
}
func (s *syncSession) Paused() bool                { return false }
func (s *syncSession) Volume() int                 { return 80 }
func (s *syncSession) Loop() player.LoopMode       { return player.LoopNone }
func (s *syncSession) Events() <-chan player.Event { return s.events }
func (s *syncSession) Destroy() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.destroys++
}

func (s *syncSession) destroyCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.destroys
}

func testTrack(title string, length time.Duration) *player.Track {
	return &player.Track{Title: title, URI: "https://example.test/" + title, Author: "artist", Length: length, RequesterID: "user-1"}
}

func newTestState() *npState {
	return &npState{timers: timers.NewSet()}
}

func TestStartThenStartLeavesOneMessage(t *testing.T) {
	msgs := newRecordingMessenger()
	y := newSynchronizer(msgs, nil, Timings{NowPlayingBuffer: time.Hour})
	sess := newSyncSession()
	st := newTestState()

	y.onStart(sess, st, testTrack("first", 3*time.Minute))
	y.onStart(sess, st, testTrack("second", 3*time.Minute))

	if msgs.liveCount() != 1 {
		t.Fatalf("live messages = %d, want exactly 1 after back-to-back starts", msgs.liveCount())
	}
}

func TestEndDeletesMessage(t *testing.T) {
	msgs := newRecordingMessenger()
	y := newSynchronizer(msgs, nil, Timings{NowPlayingBuffer: time.Hour})
	sess := newSyncSession()
	st := newTestState()

	y.onStart(sess, st, testTrack("song", 3*time.Minute))
	y.onEnd(sess, st)

	if msgs.liveCount() != 0 {
		t.Errorf("live messages = %d, want 0 after end", msgs.liveCount())
	}
	if st.timers.Pending() != 0 {
		t.Errorf("pending timers = %d, want 0 after end", st.timers.Pending())
	}
}

func TestStreamGetsNoAutoDelete(t *testing.T) {
	msgs := newRecordingMessenger()
	y := newSynchronizer(msgs, nil, Timings{NowPlayingBuffer: time.Millisecond})
	sess := newSyncSession()
	st := newTestState()

	stream := testTrack("radio", 0)
	stream.IsStream = true
	y.onStart(sess, st, stream)

	if st.timers.Pending() != 0 {
		t.Errorf("pending timers = %d, want 0 for a live stream", st.timers.Pending())
	}
}

func TestEmptyIdleDisconnectDestroysOnce(t *testing.T) {
	msgs := newRecordingMessenger()
	y := newSynchronizer(msgs, nil, Timings{QueueNoticeTTL: time.Hour, IdleDisconnect: 20 * time.Millisecond})
	sess := newSyncSession()
	st := newTestState()

	y.onEmpty(sess, st)

	deadline := time.Now().Add(time.Second)
	for sess.destroyCount() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if got := sess.destroyCount(); got != 1 {
		t.Errorf("destroys = %d, want exactly 1", got)
	}
}

func TestEmptyIdleDisconnectSparedByNewTrack(t *testing.T) {
	msgs := newRecordingMessenger()
	y := newSynchronizer(msgs, nil, Timings{QueueNoticeTTL: time.Hour, IdleDisconnect: 20 * time.Millisecond})
	sess := newSyncSession()
	st := newTestState()

	y.onEmpty(sess, st)
	// A track arrives before the idle check fires.
	sess.queue.SetCurrent(testTrack("rescue", time.Minute))

	time.Sleep(100 * time.Millisecond)
	if got := sess.destroyCount(); got != 0 {
		t.Errorf("destroys = %d, want 0 when a track was added in time", got)
	}
}

// fakeSettings flags specific guilds as running in 24/7 mode.
type fakeSettings map[string]bool

func (f fakeSettings) TwentyFourSeven(guildID string) bool { return f[guildID] }

func TestIdleDisconnectHonorsTwentyFourSeven(t *testing.T) {
	tests := []struct {
		name         string
		enabled      bool
		wantDestroys int
	}{
		{"enabled keeps session alive", true, 0},
		{"disabled disconnects idle session", false, 1},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			msgs := newRecordingMessenger()
			settings := fakeSettings{"guild-1": tc.enabled}
			y := newSynchronizer(msgs, settings, Timings{IdleDisconnect: 20 * time.Millisecond})
			sess := newSyncSession()
			st := newTestState()

			y.onEmpty(sess, st)

			deadline := time.Now().Add(300 * time.Millisecond)
			for sess.destroyCount() != tc.wantDestroys && time.Now().Before(deadline) {
				time.Sleep(5 * time.Millisecond)
			}
			time.Sleep(50 * time.Millisecond)
			if got := sess.destroyCount(); got != tc.wantDestroys {
				t.Errorf("destroys = %d, want %d", got, tc.wantDestroys)
			}
		})
	}
}

func TestExceptionSchedulesAutoSkip(t *testing.T) {
	msgs := newRecordingMessenger()
	y := newSynchronizer(msgs, nil, Timings{AutoSkipDelay: 10 * time.Millisecond})
	sess := newSyncSession()
	sess.queue.Add(*testTrack("next", time.Minute))
	st := newTestState()

	y.onException(sess, st, errors.New("decode failed"))

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		sess.mu.Lock()
		skips := sess.skips
		sess.mu.Unlock()
		if skips == 1 {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Error("auto-skip never fired")
}

func TestExceptionWithEmptyQueueDoesNotSkip(t *testing.T) {
	msgs := newRecordingMessenger()
	y := newSynchronizer(msgs, nil, Timings{AutoSkipDelay: time.Millisecond})
	sess := newSyncSession()
	st := newTestState()

	y.onException(sess, st, errors.New("decode failed"))

	time.Sleep(50 * time.Millisecond)
	sess.mu.Lock()
	defer sess.mu.Unlock()
	if sess.skips != 0 {
		t.Errorf("skips = %d, want 0 with empty queue", sess.skips)
	}
}

func TestDestroyEventTearsDownState(t *testing.T) {
	msgs := newRecordingMessenger()
	y := newSynchronizer(msgs, nil, Timings{NowPlayingBuffer: time.Hour, QueueNoticeTTL: time.Hour, IdleDisconnect: time.Hour})
	sess := newSyncSession()

	y.Watch(sess)
	sess.events <- player.Event{Type: player.EventStart, Track: testTrack("song", 3*time.Minute)}
	sess.events <- player.Event{Type: player.EventDestroy}
	close(sess.events)

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		y.mu.Lock()
		gone := len(y.guilds) == 0
		y.mu.Unlock()
		if gone && msgs.liveCount() == 0 {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Errorf("state not torn down: %d guilds, %d live messages", len(y.guilds), msgs.liveCount())
}

func TestWatchIsIdempotentPerGuild(t *testing.T) {
	msgs := newRecordingMessenger()
	y := newSynchronizer(msgs, nil, Timings{})
	sess := newSyncSession()

	y.Watch(sess)
	y.Watch(sess)

	y.mu.Lock()
	defer y.mu.Unlock()
	if len(y.guilds) != 1 {
		t.Errorf("guild states = %d, want 1", len(y.guilds))
	}
}
