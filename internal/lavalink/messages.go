package lavalink

import (
	"encoding/json"
	"time"

	"melobot/internal/player"
)

// Wire types for the Lavalink v4 REST and websocket APIs.

type restTrack struct {
	Encoded string    `json:"encoded"`
	Info    trackInfo `json:"info"`
}

type trackInfo struct {
	Identifier string `json:"identifier"`
	Title      string `json:"title"`
	Author     string `json:"author"`
	URI        string `json:"uri"`
	ArtworkURL string `json:"artworkUrl"`
	SourceName string `json:"sourceName"`
	Length     int64  `json:"length"` // milliseconds
	IsStream   bool   `json:"isStream"`
	IsSeekable bool   `json:"isSeekable"`
}

func (t restTrack) toTrack(requesterID string) player.Track {
	return player.Track{
		Encoded:     t.Encoded,
		Title:       t.Info.Title,
		Author:      t.Info.Author,
		URI:         t.Info.URI,
		ArtworkURL:  t.Info.ArtworkURL,
		SourceName:  t.Info.SourceName,
		RequesterID: requesterID,
		Length:      time.Duration(t.Info.Length) * time.Millisecond,
		IsStream:    t.Info.IsStream,
	}
}

type exception struct {
	Message  string `json:"message"`
	Severity string `json:"severity"`
	Cause    string `json:"cause"`
}

func (e exception) Error() string {
	if e.Cause != "" {
		return e.Message + ": " + e.Cause
	}
	return e.Message
}

// wsMessage is the envelope for every inbound websocket message.
type wsMessage struct {
	Op        string `json:"op"`
	SessionID string `json:"sessionId,omitempty"` // op=ready
	Resumed   bool   `json:"resumed,omitempty"`

	// op=event
	Type      string     `json:"type,omitempty"`
	GuildID   string     `json:"guildId,omitempty"`
	Track     *restTrack `json:"track,omitempty"`
	Reason    string     `json:"reason,omitempty"`
	Exception *exception `json:"exception,omitempty"`
	Code      int        `json:"code,omitempty"`
	ByRemote  bool       `json:"byRemote,omitempty"`
}

// Track end reasons, as the node reports them.
const (
	endReasonFinished   = "finished"
	endReasonLoadFailed = "loadFailed"
	endReasonStopped    = "stopped"
	endReasonReplaced   = "replaced"
	endReasonCleanup    = "cleanup"
)

// playerUpdate is the PATCH body for /v4/sessions/{id}/players/{guild}.
// Pointer fields are omitted when unset so a partial update leaves the
// rest of the player untouched.
type playerUpdate struct {
	Track  *updateTrack `json:"track,omitempty"`
	Paused *bool        `json:"paused,omitempty"`
	Volume *int         `json:"volume,omitempty"`
	Voice  *voiceState  `json:"voice,omitempty"`
}

type updateTrack struct {
	Encoded *string `json:"encoded"` // explicit null stops playback
}

type voiceState struct {
	Token     string `json:"token"`
	Endpoint  string `json:"endpoint"`
	SessionID string `json:"sessionId"`
}

// loadResult is the /v4/loadtracks response. Data's shape depends on
// LoadType, so it stays raw until decoded.
type loadResult struct {
	LoadType string          `json:"loadType"`
	Data     json.RawMessage `json:"data"`
}

type playlistData struct {
	Info struct {
		Name string `json:"name"`
	} `json:"info"`
	Tracks []restTrack `json:"tracks"`
}
