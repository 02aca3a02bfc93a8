package lavalink

import (
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"

	"melobot/internal/player"
)

// patchRecorder captures the encoded tracks PATCHed to the fake node.
type patchRecorder struct {
	mu     sync.Mutex
	tracks []string
}

func (r *patchRecorder) handler(w http.ResponseWriter, req *http.Request) {
	if req.Method == http.MethodPatch {
		var upd struct {
			Track *struct {
				Encoded *string `json:"encoded"`
			} `json:"track"`
		}
		if err := json.NewDecoder(req.Body).Decode(&upd); err == nil &&
			upd.Track != nil && upd.Track.Encoded != nil {
			r.mu.Lock()
			r.tracks = append(r.tracks, *upd.Track.Encoded)
			r.mu.Unlock()
		}
	}
	w.Write([]byte("{}"))
}

func (r *patchRecorder) sent() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.tracks...)
}

func newTestNode(t *testing.T, handler http.HandlerFunc) *Node {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	host, portStr, err := net.SplitHostPort(srv.Listener.Addr().String())
	if err != nil {
		t.Fatalf("split addr: %v", err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		t.Fatalf("parse port: %v", err)
	}

	return &Node{
		opts:      Options{Host: host, Port: port, Password: "pw"},
		httpc:     srv.Client(),
		sessionID: "session-1",
		sessions:  make(map[string]*Session),
		readyCh:   make(chan struct{}),
		done:      make(chan struct{}),
	}
}

func drainEvents(s *Session) []player.EventType {
	var types []player.EventType
	for {
		select {
		case evt := <-s.events:
			types = append(types, evt.Type)
		default:
			return types
		}
	}
}

func TestLoadFailedNotRetriedUnderTrackLoop(t *testing.T) {
	rec := &patchRecorder{}
	n := newTestNode(t, rec.handler)

	sess := newSession(n, player.CreateOptions{GuildID: "guild-1"})
	defer sess.Destroy()
	sess.SetLoop(player.LoopTrack)
	sess.queue.SetCurrent(&player.Track{Title: "broken", Encoded: "BROKEN"})

	sess.handleNodeEvent(wsMessage{Type: "TrackEndEvent", Reason: endReasonLoadFailed})

	if got := rec.sent(); len(got) != 0 {
		t.Fatalf("node received tracks %v, want none after a failed load", got)
	}
	if sess.queue.Current() != nil {
		t.Error("failed track is still current")
	}

	types := drainEvents(sess)
	if len(types) != 2 || types[0] != player.EventEnd || types[1] != player.EventEmpty {
		t.Errorf("events = %v, want [end empty]", types)
	}
}

func TestLoadFailedAdvancesPastFailedTrack(t *testing.T) {
	rec := &patchRecorder{}
	n := newTestNode(t, rec.handler)

	sess := newSession(n, player.CreateOptions{GuildID: "guild-1"})
	defer sess.Destroy()
	sess.SetLoop(player.LoopTrack)
	sess.queue.SetCurrent(&player.Track{Title: "broken", Encoded: "BROKEN"})
	sess.queue.Add(player.Track{Title: "next", Encoded: "NEXT"})

	sess.handleNodeEvent(wsMessage{Type: "TrackEndEvent", Reason: endReasonLoadFailed})

	if got := rec.sent(); len(got) != 1 || got[0] != "NEXT" {
		t.Fatalf("node received tracks %v, want only NEXT", got)
	}
}

func TestFinishedTrackReplaysUnderTrackLoop(t *testing.T) {
	rec := &patchRecorder{}
	n := newTestNode(t, rec.handler)

	sess := newSession(n, player.CreateOptions{GuildID: "guild-1"})
	defer sess.Destroy()
	sess.SetLoop(player.LoopTrack)
	sess.queue.SetCurrent(&player.Track{Title: "song", Encoded: "GOOD"})

	sess.handleNodeEvent(wsMessage{Type: "TrackEndEvent", Reason: endReasonFinished})

	if got := rec.sent(); len(got) != 1 || got[0] != "GOOD" {
		t.Fatalf("node received tracks %v, want GOOD replayed", got)
	}
	if sess.queue.Current() == nil {
		t.Error("looping track is no longer current")
	}
}
