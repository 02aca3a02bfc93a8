package lavalink

import (
	"context"
	"log"
	"sync"
	"time"

	"melobot/internal/player"
)

const restTimeout = 10 * time.Second

// Session is one guild's player on the node. Node events are delivered
// on an internal channel and processed by a single goroutine, so
// lifecycle events for a guild always come out in emission order.
type Session struct {
	node *Node

	guildID        string
	textChannelID  string
	voiceChannelID string

	queue *player.Queue

	mu      sync.Mutex
	loop    player.LoopMode
	volume  int
	playing bool
	paused  bool

	// Discord voice credentials; the node gets them once both halves arrive.
	voiceToken     string
	voiceEndpoint  string
	voiceSessionID string

	raw         chan wsMessage
	events      chan player.Event
	destroyOnce sync.Once
	done        chan struct{}
}

func newSession(n *Node, opts player.CreateOptions) *Session {
	volume := opts.Volume
	if volume <= 0 {
		volume = 80
	}
	s := &Session{
		node:           n,
		guildID:        opts.GuildID,
		textChannelID:  opts.TextChannelID,
		voiceChannelID: opts.VoiceChannelID,
		queue:          player.NewQueue(),
		loop:           player.LoopNone,
		volume:         volume,
		raw:            make(chan wsMessage, 16),
		events:         make(chan player.Event, 16),
		done:           make(chan struct{}),
	}
	go s.eventLoop()
	return s
}

func (s *Session) GuildID() string       { return s.guildID }
func (s *Session) TextChannelID() string { return s.textChannelID }

func (s *Session) VoiceChannelID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.voiceChannelID
}

func (s *Session) Queue() *player.Queue { return s.queue }

func (s *Session) Playing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.playing
}

func (s *Session) Paused() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.paused
}

func (s *Session) Volume() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.volume
}

func (s *Session) Loop() player.LoopMode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loop
}

func (s *Session) SetLoop(mode player.LoopMode) {
	s.mu.Lock()
	s.loop = mode
	s.mu.Unlock()
}

// Events returns the lifecycle stream; closed after EventDestroy.
func (s *Session) Events() <-chan player.Event { return s.events }

// Play starts playback of the current track, advancing the queue first
// if nothing is current.
func (s *Session) Play() error {
	if s.closed() {
		return player.ErrSessionClosed
	}
	if s.Playing() {
		return nil
	}

	track := s.queue.Current()
	if track == nil {
		track = s.queue.Advance(s.Loop())
	}
	if track == nil {
		return player.ErrNoTracksInQueue
	}
	return s.playTrack(track)
}

// Pause suspends or resumes the current track.
func (s *Session) Pause(paused bool) error {
	if s.closed() {
		return player.ErrSessionClosed
	}
	if !s.Playing() {
		return player.ErrNoTrackPlaying
	}

	ctx, cancel := context.WithTimeout(context.Background(), restTimeout)
	defer cancel()
	if err := s.node.updatePlayer(ctx, s.guildID, playerUpdate{Paused: &paused}); err != nil {
		return err
	}

	s.mu.Lock()
	s.paused = paused
	s.mu.Unlock()
	return nil
}

// Skip advances to the next queued track. A track-loop is overridden:
// skipping means the user wants out of the current track. Returns
// ErrNoTracksInQueue without touching playback when there is nothing
// to advance to.
func (s *Session) Skip() error {
	if s.closed() {
		return player.ErrSessionClosed
	}

	mode := s.Loop()
	if mode == player.LoopTrack {
		mode = player.LoopNone
	}
	if s.queue.Size() == 0 && mode != player.LoopQueue {
		return player.ErrNoTracksInQueue
	}

	next := s.queue.Advance(mode)
	if next == nil {
		return player.ErrNoTracksInQueue
	}
	// The node reports the old track as ended with reason "replaced",
	// which the event loop ignores; the new start event follows.
	return s.playTrack(next)
}

// Stop halts playback and clears the queue; the session stays alive.
func (s *Session) Stop() error {
	if s.closed() {
		return player.ErrSessionClosed
	}

	s.queue.Clear()

	ctx, cancel := context.WithTimeout(context.Background(), restTimeout)
	defer cancel()
	var none *string
	return s.node.updatePlayer(ctx, s.guildID, playerUpdate{Track: &updateTrack{Encoded: none}})
}

// SetVolume sets playback volume in percent (0-150).
func (s *Session) SetVolume(percent int) error {
	if s.closed() {
		return player.ErrSessionClosed
	}
	if percent < 0 {
		percent = 0
	}
	if percent > 150 {
		percent = 150
	}

	ctx, cancel := context.WithTimeout(context.Background(), restTimeout)
	defer cancel()
	if err := s.node.updatePlayer(ctx, s.guildID, playerUpdate{Volume: &percent}); err != nil {
		return err
	}

	s.mu.Lock()
	s.volume = percent
	s.mu.Unlock()
	return nil
}

// Destroy releases the node player and ends the session. Safe to call
// more than once.
func (s *Session) Destroy() {
	s.destroyOnce.Do(func() {
		close(s.done)
		s.node.removeSession(s.guildID)

		ctx, cancel := context.WithTimeout(context.Background(), restTimeout)
		defer cancel()
		if err := s.node.destroyPlayer(ctx, s.guildID); err != nil {
			log.Printf("[WARN] Failed to destroy node player for guild %s: %v", s.guildID, err)
		}

		s.mu.Lock()
		s.playing = false
		s.paused = false
		s.mu.Unlock()
		s.queue.Clear()
		s.queue.SetCurrent(nil)
	})
}

func (s *Session) closed() bool {
	select {
	case <-s.done:
		return true
	default:
		return false
	}
}

// playTrack pushes a track to the node; the start event comes back over
// the websocket.
func (s *Session) playTrack(t *player.Track) error {
	s.queue.SetCurrent(t)

	ctx, cancel := context.WithTimeout(context.Background(), restTimeout)
	defer cancel()

	s.mu.Lock()
	volume := s.volume
	s.mu.Unlock()

	encoded := t.Encoded
	return s.node.updatePlayer(ctx, s.guildID, playerUpdate{
		Track:  &updateTrack{Encoded: &encoded},
		Volume: &volume,
	})
}

// deliver hands a raw node event to the session's goroutine.
func (s *Session) deliver(msg wsMessage) {
	select {
	case s.raw <- msg:
	case <-s.done:
	}
}

// eventLoop is the single consumer of node events for this guild, and
// the only goroutine that sends on the events channel. On destroy it
// emits the final event and closes the channel.
func (s *Session) eventLoop() {
	for {
		select {
		case <-s.done:
			s.emit(player.Event{Type: player.EventDestroy})
			close(s.events)
			return
		case msg := <-s.raw:
			s.handleNodeEvent(msg)
		}
	}
}

func (s *Session) handleNodeEvent(msg wsMessage) {
	switch msg.Type {
	case "TrackStartEvent":
		s.mu.Lock()
		s.playing = true
		s.paused = false
		s.mu.Unlock()
		s.emit(player.Event{Type: player.EventStart, Track: s.queue.Current()})

	case "TrackEndEvent":
		s.mu.Lock()
		s.playing = false
		s.mu.Unlock()

		ended := s.queue.Current()

		switch msg.Reason {
		case endReasonReplaced:
			// A skip already queued the next track; its start follows.
		case endReasonFinished, endReasonLoadFailed:
			s.emit(player.Event{Type: player.EventEnd, Track: ended})
			mode := s.Loop()
			if msg.Reason == endReasonLoadFailed && mode == player.LoopTrack {
				// Never replay a track the node could not load.
				mode = player.LoopNone
			}
			next := s.queue.Advance(mode)
			if next == nil {
				s.emit(player.Event{Type: player.EventEmpty})
				return
			}
			if err := s.playTrack(next); err != nil {
				log.Printf("[ERR] Failed to start next track in guild %s: %v", s.guildID, err)
				s.emit(player.Event{Type: player.EventException, Err: err})
			}
		default: // stopped, cleanup
			s.queue.SetCurrent(nil)
			s.emit(player.Event{Type: player.EventEnd, Track: ended})
		}

	case "TrackExceptionEvent":
		var err error
		if msg.Exception != nil {
			err = msg.Exception
		}
		s.emit(player.Event{Type: player.EventException, Err: err})

	case "WebSocketClosedEvent":
		log.Printf("[WARN] Voice websocket closed for guild %s (code %d, remote %v)",
			s.guildID, msg.Code, msg.ByRemote)

	default:
		log.Printf("[WARN] Unknown node event %q for guild %s", msg.Type, s.guildID)
	}
}

// emit delivers a lifecycle event without blocking the event loop.
// Matches the buffered-drop approach used elsewhere; a full channel
// means the consumer is gone or wedged.
func (s *Session) emit(evt player.Event) {
	select {
	case s.events <- evt:
	default:
		log.Printf("[WARN] Player event %s dropped for guild %s (channel full)", evt.Type, s.guildID)
	}
}

// setVoiceServer records Discord's voice server half of the handshake.
func (s *Session) setVoiceServer(token, endpoint string) {
	s.mu.Lock()
	s.voiceToken = token
	s.voiceEndpoint = endpoint
	s.mu.Unlock()
	s.pushVoiceState()
}

// setVoiceSession records the bot's own voice state half.
func (s *Session) setVoiceSession(sessionID, channelID string) {
	s.mu.Lock()
	s.voiceSessionID = sessionID
	if channelID != "" {
		s.voiceChannelID = channelID
	}
	s.mu.Unlock()
	s.pushVoiceState()
}

// pushVoiceState forwards the voice credentials once both halves exist.
func (s *Session) pushVoiceState() {
	s.mu.Lock()
	ready := s.voiceToken != "" && s.voiceEndpoint != "" && s.voiceSessionID != ""
	update := playerUpdate{Voice: &voiceState{
		Token:     s.voiceToken,
		Endpoint:  s.voiceEndpoint,
		SessionID: s.voiceSessionID,
	}}
	s.mu.Unlock()

	if !ready || s.closed() {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), restTimeout)
	defer cancel()
	if err := s.node.updatePlayer(ctx, s.guildID, update); err != nil {
		log.Printf("[ERR] Failed to push voice state for guild %s: %v", s.guildID, err)
	}
}
