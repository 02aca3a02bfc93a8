package player

import (
	"errors"
	"math/rand"
	"slices"
	"sync"
)

var ErrIndexOutOfRange = errors.New("queue index out of range")

// Queue holds the current track plus upcoming tracks for one session.
// Safe for concurrent use; the session mutates it from its event
// goroutine while command handlers read it.
type Queue struct {
	mu       sync.Mutex
	current  *Track
	previous *Track
	tracks   []Track
}

func NewQueue() *Queue {
	return &Queue{}
}

// Current returns the track being played, or nil.
func (q *Queue) Current() *Track {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.current
}

// Previous returns the last finished track, or nil.
func (q *Queue) Previous() *Track {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.previous
}

// Size returns the number of upcoming tracks (excluding current).
func (q *Queue) Size() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.tracks)
}

// Tracks returns a copy of the upcoming tracks.
func (q *Queue) Tracks() []Track {
	q.mu.Lock()
	defer q.mu.Unlock()
	return slices.Clone(q.tracks)
}

// Add appends tracks to the queue.
func (q *Queue) Add(tracks ...Track) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.tracks = append(q.tracks, tracks...)
}

// Remove deletes the upcoming track at index i (zero-based).
func (q *Queue) Remove(i int) (Track, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if i < 0 || i >= len(q.tracks) {
		return Track{}, ErrIndexOutOfRange
	}
	track := q.tracks[i]
	q.tracks = append(q.tracks[:i], q.tracks[i+1:]...)
	return track, nil
}

// Clear drops all upcoming tracks. The current track is untouched.
func (q *Queue) Clear() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.tracks = nil
}

// Shuffle randomizes the order of upcoming tracks.
func (q *Queue) Shuffle() {
	q.mu.Lock()
	defer q.mu.Unlock()
	rand.Shuffle(len(q.tracks), func(i, j int) {
		q.tracks[i], q.tracks[j] = q.tracks[j], q.tracks[i]
	})
}

// SetCurrent marks a track as playing without touching the upcoming list.
func (q *Queue) SetCurrent(t *Track) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.current = t
}

// Advance moves to the next track according to the loop mode and returns
// it, or nil when the queue is exhausted. With LoopTrack the current
// track is returned again; with LoopQueue the finished track is
// re-appended before advancing.
func (q *Queue) Advance(mode LoopMode) *Track {
	q.mu.Lock()
	defer q.mu.Unlock()

	if mode == LoopTrack && q.current != nil {
		return q.current
	}

	if q.current != nil {
		q.previous = q.current
		if mode == LoopQueue {
			q.tracks = append(q.tracks, *q.current)
		}
	}

	if len(q.tracks) == 0 {
		q.current = nil
		return nil
	}

	next := q.tracks[0]
	q.tracks = q.tracks[1:]
	q.current = &next
	return q.current
}
