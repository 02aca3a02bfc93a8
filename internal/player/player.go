// Package player defines the contract between the bot and its audio
// backend: search, per-guild playback sessions with transport controls,
// a queue, and an ordered stream of lifecycle events.
package player

import (
	"context"
	"errors"
)

var (
	ErrNoTrackPlaying  = errors.New("no track is currently playing")
	ErrNoTracksInQueue = errors.New("no tracks in queue")
	ErrSessionClosed   = errors.New("player session is destroyed")
)

// EventType identifies a playback lifecycle event.
type EventType int

const (
	// EventStart fires when a track begins playing.
	EventStart EventType = iota
	// EventEnd fires when a track finishes, is skipped, or is stopped.
	EventEnd
	// EventEmpty fires when a track ends and nothing is left to play.
	EventEmpty
	// EventException fires when the backend reports a playback error.
	EventException
	// EventDestroy fires once when the session is torn down. It is the
	// last event on the channel; the channel is closed right after.
	EventDestroy
)

func (t EventType) String() string {
	switch t {
	case EventStart:
		return "start"
	case EventEnd:
		return "end"
	case EventEmpty:
		return "empty"
	case EventException:
		return "exception"
	case EventDestroy:
		return "destroy"
	default:
		return "unknown"
	}
}

// Event is one lifecycle notification. Track is set for start/end,
// Err for exception.
type Event struct {
	Type  EventType
	Track *Track
	Err   error
}

// CreateOptions describes the session to create for a guild.
type CreateOptions struct {
	GuildID        string
	TextChannelID  string
	VoiceChannelID string
	Volume         int
	Deaf           bool
}

// Manager owns at most one live Session per guild.
type Manager interface {
	// Create returns the guild's session, creating it if absent.
	Create(ctx context.Context, opts CreateOptions) (Session, error)
	// Get returns the guild's live session, if any.
	Get(guildID string) (Session, bool)
	// Search resolves a query or URL into tracks.
	Search(ctx context.Context, query, requesterID string) (*SearchResult, error)
}

// Session is one guild's playback handle. Events are delivered in
// emission order on the channel returned by Events; no ordering holds
// across sessions.
type Session interface {
	GuildID() string
	TextChannelID() string
	VoiceChannelID() string

	// Play starts the next queued track if nothing is playing.
	Play() error
	Pause(paused bool) error
	Skip() error
	// Stop ends playback and clears the queue without destroying the session.
	Stop() error
	SetVolume(percent int) error
	SetLoop(mode LoopMode)

	Queue() *Queue
	Playing() bool
	Paused() bool
	Volume() int
	Loop() LoopMode

	// Events returns the session's lifecycle stream. The channel is
	// closed after EventDestroy; consumers need no other unsubscribe.
	Events() <-chan Event

	// Destroy releases the voice connection and ends the session.
	Destroy()
}
