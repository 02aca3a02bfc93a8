package player

import (
	"fmt"
	"time"
)

// Track is one playable item as resolved by the audio node.
type Track struct {
	Encoded     string
	Title       string
	Author      string
	URI         string
	ArtworkURL  string
	SourceName  string
	RequesterID string
	Length      time.Duration
	IsStream    bool
}

// FormatLength renders the track length as m:ss or h:mm:ss.
// Live streams have no meaningful length.
func (t Track) FormatLength() string {
	if t.IsStream {
		return "live"
	}
	total := int(t.Length / time.Second)
	h := total / 3600
	m := (total % 3600) / 60
	s := total % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

// LoopMode controls what happens when a track finishes.
type LoopMode string

const (
	LoopNone  LoopMode = "none"
	LoopTrack LoopMode = "track"
	LoopQueue LoopMode = "queue"
)

// ParseLoopMode maps user input to a LoopMode, defaulting to none.
func ParseLoopMode(s string) LoopMode {
	switch s {
	case string(LoopTrack):
		return LoopTrack
	case string(LoopQueue):
		return LoopQueue
	default:
		return LoopNone
	}
}

// SearchType classifies what a search query resolved to.
type SearchType string

const (
	SearchTypeTrack    SearchType = "TRACK"
	SearchTypePlaylist SearchType = "PLAYLIST"
	SearchTypeSearch   SearchType = "SEARCH"
	SearchTypeEmpty    SearchType = "EMPTY"
)

// SearchResult is the outcome of resolving a query on the audio node.
type SearchResult struct {
	Type         SearchType
	Tracks       []Track
	PlaylistName string
}
