// Package lavalink is a minimal Lavalink v4 client backing the player
// contract: track search over REST, per-guild sessions with client-side
// queues, and lifecycle events fanned out from the node's websocket.
package lavalink

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"melobot/internal/player"
	"melobot/internal/version"
)

// Options configures the node connection.
type Options struct {
	Host     string
	Port     int
	Password string
	Secure   bool
	UserID   string // bot user ID, required by the node handshake
}

// Node is one Lavalink server connection implementing player.Manager.
type Node struct {
	opts      Options
	httpc     *http.Client
	ws        *websocket.Conn
	sessionID string

	mu       sync.RWMutex
	sessions map[string]*Session

	readyCh chan struct{}
	done    chan struct{}
}

// Connect dials the node's websocket and waits for the ready handshake.
func Connect(ctx context.Context, opts Options) (*Node, error) {
	n := &Node{
		opts:     opts,
		httpc:    &http.Client{Timeout: 15 * time.Second},
		sessions: make(map[string]*Session),
		readyCh:  make(chan struct{}),
		done:     make(chan struct{}),
	}

	scheme := "ws"
	if opts.Secure {
		scheme = "wss"
	}
	wsURL := fmt.Sprintf("%s://%s:%d/v4/websocket", scheme, opts.Host, opts.Port)

	header := http.Header{}
	header.Set("Authorization", opts.Password)
	header.Set("User-Id", opts.UserID)
	header.Set("Client-Name", "melobot/"+version.Version)

	ws, _, err := websocket.DefaultDialer.DialContext(ctx, wsURL, header)
	if err != nil {
		return nil, fmt.Errorf("failed to dial lavalink node: %w", err)
	}
	n.ws = ws

	go n.readLoop()

	select {
	case <-n.readyCh:
	case <-ctx.Done():
		ws.Close()
		return nil, ctx.Err()
	case <-time.After(10 * time.Second):
		ws.Close()
		return nil, fmt.Errorf("timed out waiting for lavalink ready")
	}

	log.Printf("[INFO] Connected to lavalink node %s:%d (session %s)", opts.Host, opts.Port, n.sessionID)
	return n, nil
}

// Close tears down every session and the websocket.
func (n *Node) Close() {
	n.mu.Lock()
	sessions := make([]*Session, 0, len(n.sessions))
	for _, s := range n.sessions {
		sessions = append(sessions, s)
	}
	n.mu.Unlock()

	for _, s := range sessions {
		s.Destroy()
	}

	close(n.done)
	if n.ws != nil {
		n.ws.Close()
	}
}

// readLoop consumes websocket messages and routes events to sessions.
func (n *Node) readLoop() {
	for {
		var msg wsMessage
		if err := n.ws.ReadJSON(&msg); err != nil {
			select {
			case <-n.done:
			default:
				log.Printf("[ERR] Lavalink websocket read failed: %v", err)
			}
			return
		}

		switch msg.Op {
		case "ready":
			n.sessionID = msg.SessionID
			select {
			case <-n.readyCh:
			default:
				close(n.readyCh)
			}
		case "event":
			n.mu.RLock()
			s, ok := n.sessions[msg.GuildID]
			n.mu.RUnlock()
			if ok {
				s.deliver(msg)
			}
		case "playerUpdate", "stats":
			// Position/stats tracking is not needed here.
		default:
			log.Printf("[WARN] Unknown lavalink op %q", msg.Op)
		}
	}
}

// Create returns the guild's session, creating one if absent.
// At most one live session exists per guild.
func (n *Node) Create(ctx context.Context, opts player.CreateOptions) (player.Session, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if s, ok := n.sessions[opts.GuildID]; ok {
		return s, nil
	}

	s := newSession(n, opts)
	n.sessions[opts.GuildID] = s
	return s, nil
}

// Get returns the guild's live session, if any.
func (n *Node) Get(guildID string) (player.Session, bool) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	s, ok := n.sessions[guildID]
	if !ok {
		return nil, false
	}
	return s, true
}

// removeSession drops a destroyed session from the registry.
func (n *Node) removeSession(guildID string) {
	n.mu.Lock()
	delete(n.sessions, guildID)
	n.mu.Unlock()
}

// Search resolves a query on the node. Bare text is sent as a YouTube
// search; URLs are loaded directly.
func (n *Node) Search(ctx context.Context, query, requesterID string) (*player.SearchResult, error) {
	identifier := query
	if !strings.HasPrefix(query, "http://") && !strings.HasPrefix(query, "https://") {
		identifier = "ytsearch:" + query
	}

	endpoint := fmt.Sprintf("%s/loadtracks?identifier=%s", n.restBase(), url.QueryEscape(identifier))
	body, err := n.restDo(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	var result loadResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to decode load result: %w", err)
	}

	switch result.LoadType {
	case "track":
		var t restTrack
		if err := json.Unmarshal(result.Data, &t); err != nil {
			return nil, fmt.Errorf("failed to decode track: %w", err)
		}
		return &player.SearchResult{
			Type:   player.SearchTypeTrack,
			Tracks: []player.Track{t.toTrack(requesterID)},
		}, nil

	case "playlist":
		var pl playlistData
		if err := json.Unmarshal(result.Data, &pl); err != nil {
			return nil, fmt.Errorf("failed to decode playlist: %w", err)
		}
		tracks := make([]player.Track, 0, len(pl.Tracks))
		for _, t := range pl.Tracks {
			tracks = append(tracks, t.toTrack(requesterID))
		}
		return &player.SearchResult{
			Type:         player.SearchTypePlaylist,
			Tracks:       tracks,
			PlaylistName: pl.Info.Name,
		}, nil

	case "search":
		var found []restTrack
		if err := json.Unmarshal(result.Data, &found); err != nil {
			return nil, fmt.Errorf("failed to decode search results: %w", err)
		}
		tracks := make([]player.Track, 0, len(found))
		for _, t := range found {
			tracks = append(tracks, t.toTrack(requesterID))
		}
		return &player.SearchResult{Type: player.SearchTypeSearch, Tracks: tracks}, nil

	case "empty":
		return &player.SearchResult{Type: player.SearchTypeEmpty}, nil

	case "error":
		var ex exception
		if err := json.Unmarshal(result.Data, &ex); err == nil && ex.Message != "" {
			return nil, fmt.Errorf("track load failed: %s", ex.Error())
		}
		return nil, fmt.Errorf("track load failed")

	default:
		return nil, fmt.Errorf("unknown load type %q", result.LoadType)
	}
}

// HandleVoiceServerUpdate forwards Discord's voice server token to the
// node so it can open the voice connection for the guild.
func (n *Node) HandleVoiceServerUpdate(guildID, token, endpoint string) {
	n.mu.RLock()
	s, ok := n.sessions[guildID]
	n.mu.RUnlock()
	if ok {
		s.setVoiceServer(token, endpoint)
	}
}

// HandleVoiceStateUpdate forwards the bot's own voice session ID.
func (n *Node) HandleVoiceStateUpdate(guildID, sessionID, channelID string) {
	n.mu.RLock()
	s, ok := n.sessions[guildID]
	n.mu.RUnlock()
	if ok {
		s.setVoiceSession(sessionID, channelID)
	}
}

func (n *Node) restBase() string {
	scheme := "http"
	if n.opts.Secure {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s:%d/v4", scheme, n.opts.Host, n.opts.Port)
}

// updatePlayer PATCHes the guild's player on the node.
func (n *Node) updatePlayer(ctx context.Context, guildID string, update playerUpdate) error {
	endpoint := fmt.Sprintf("%s/sessions/%s/players/%s?noReplace=false", n.restBase(), n.sessionID, guildID)
	payload, err := json.Marshal(update)
	if err != nil {
		return err
	}
	_, err = n.restDo(ctx, http.MethodPatch, endpoint, payload)
	return err
}

// destroyPlayer removes the guild's player from the node.
func (n *Node) destroyPlayer(ctx context.Context, guildID string) error {
	endpoint := fmt.Sprintf("%s/sessions/%s/players/%s", n.restBase(), n.sessionID, guildID)
	_, err := n.restDo(ctx, http.MethodDelete, endpoint, nil)
	return err
}

func (n *Node) restDo(ctx context.Context, method, endpoint string, payload []byte) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", n.opts.Password)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := n.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("lavalink request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("lavalink returned status %d: %s", resp.StatusCode, string(body))
	}
	return body, nil
}
