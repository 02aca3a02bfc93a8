package discord

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"

	"melobot/internal/player"
	"melobot/internal/timers"
)

// Messenger is the message surface the synchronizer drives. Kept narrow
// so tests can fake it.
type Messenger interface {
	SendEmbed(channelID string, embed *discordgo.MessageEmbed, components []discordgo.MessageComponent) (string, error)
	Send(channelID, content string) (string, error)
	Delete(channelID, messageID string) error
}

// sessionMessenger sends through the live gateway session.
type sessionMessenger struct {
	s *discordgo.Session
}

func (m sessionMessenger) SendEmbed(channelID string, embed *discordgo.MessageEmbed, components []discordgo.MessageComponent) (string, error) {
	msg, err := m.s.ChannelMessageSendComplex(channelID, &discordgo.MessageSend{
		Embeds:     []*discordgo.MessageEmbed{embed},
		Components: components,
	})
	if err != nil {
		return "", err
	}
	return msg.ID, nil
}

func (m sessionMessenger) Send(channelID, content string) (string, error) {
	return MessageSend(m.s, channelID, content)
}

func (m sessionMessenger) Delete(channelID, messageID string) error {
	return m.s.ChannelMessageDelete(channelID, messageID)
}

// SettingsSource reports the per-guild flags the synchronizer honors.
type SettingsSource interface {
	// TwentyFourSeven reports whether the guild keeps the bot in voice
	// after the queue runs out.
	TwentyFourSeven(guildID string) bool
}

// Timings are the synchronizer's timer windows.
type Timings struct {
	// NowPlayingBuffer pads the now-playing message lifetime past the
	// track length before self-deletion.
	NowPlayingBuffer time.Duration
	// QueueNoticeTTL is how long the queue-finished notice lives.
	QueueNoticeTTL time.Duration
	// IdleDisconnect is how long an empty idle session survives.
	IdleDisconnect time.Duration
	// AutoSkipDelay is the pause before skipping past a failed track.
	AutoSkipDelay time.Duration
}

const (
	timerNowPlaying = "nowplaying-delete"
	timerNotice     = "notice-delete"
	timerIdle       = "idle-check"
	timerAutoSkip   = "auto-skip"
)

// Synchronizer mirrors player lifecycle events into chat: one
// now-playing message per guild session, created on track start and
// torn down on end, exhaustion or session destruction. Each watched
// session gets its own consumer goroutine; events for one guild are
// processed in emission order. Every send and delete is best-effort.
type Synchronizer struct {
	msgs     Messenger
	settings SettingsSource
	timings  Timings

	mu     sync.Mutex
	guilds map[string]*npState
}

// npState is the per-guild synchronizer state: the live now-playing
// message reference and the session's pending timers.
type npState struct {
	channelID string
	messageID string
	timers    *timers.Set
}

// NewSynchronizer builds a synchronizer sending through the given
// gateway session. A nil settings source disables the 24/7 override.
func NewSynchronizer(s *discordgo.Session, settings SettingsSource, timings Timings) *Synchronizer {
	return newSynchronizer(sessionMessenger{s: s}, settings, timings)
}

func newSynchronizer(msgs Messenger, settings SettingsSource, timings Timings) *Synchronizer {
	if timings.AutoSkipDelay <= 0 {
		timings.AutoSkipDelay = 3 * time.Second
	}
	return &Synchronizer{
		msgs:     msgs,
		settings: settings,
		timings:  timings,
		guilds:   make(map[string]*npState),
	}
}

// stayConnected reports whether 24/7 mode keeps the guild's session
// alive through idle periods.
func (y *Synchronizer) stayConnected(guildID string) bool {
	return y.settings != nil && y.settings.TwentyFourSeven(guildID)
}

// Manager decorates a player manager so every session created through
// it is watched. Get and Search pass through untouched.
func (y *Synchronizer) Manager(inner player.Manager) player.Manager {
	return &watchingManager{inner: inner, sync: y}
}

// Watch starts consuming a session's event stream. Watching the same
// guild twice is a no-op; the first consumer stays attached.
func (y *Synchronizer) Watch(sess player.Session) {
	y.mu.Lock()
	if _, ok := y.guilds[sess.GuildID()]; ok {
		y.mu.Unlock()
		return
	}
	st := &npState{timers: timers.NewSet()}
	y.guilds[sess.GuildID()] = st
	y.mu.Unlock()

	go y.consume(sess, st)
}

func (y *Synchronizer) consume(sess player.Session, st *npState) {
	for evt := range sess.Events() {
		switch evt.Type {
		case player.EventStart:
			y.onStart(sess, st, evt.Track)
		case player.EventEnd:
			y.onEnd(sess, st)
		case player.EventEmpty:
			y.onEmpty(sess, st)
		case player.EventException:
			y.onException(sess, st, evt.Err)
		case player.EventDestroy:
			y.onDestroy(sess, st)
			return
		}
	}
	// Channel closed without a destroy event: clean up anyway.
	y.onDestroy(sess, st)
}

// onStart replaces the now-playing message. The previous one is deleted
// first, so two back-to-back starts never leave two live messages.
func (y *Synchronizer) onStart(sess player.Session, st *npState, t *player.Track) {
	y.deleteNowPlaying(st)
	st.timers.Cancel(timerNowPlaying)

	if t == nil {
		return
	}
	msgID, err := y.msgs.SendEmbed(sess.TextChannelID(), nowPlayingEmbed(t, sess), ControlsRow(sess.Paused()))
	if err != nil {
		log.Printf("[WARN] Failed to send now-playing message for guild %s: %v", sess.GuildID(), err)
		return
	}

	y.mu.Lock()
	st.channelID = sess.TextChannelID()
	st.messageID = msgID
	y.mu.Unlock()

	// Streams have no meaningful length; their message lives until the
	// next lifecycle event.
	if !t.IsStream && t.Length > 0 {
		st.timers.Schedule(timerNowPlaying, t.Length+y.timings.NowPlayingBuffer, func() {
			y.deleteNowPlaying(st)
		})
	}
}

func (y *Synchronizer) onEnd(sess player.Session, st *npState) {
	st.timers.Cancel(timerNowPlaying)
	y.deleteNowPlaying(st)
}

// onEmpty announces queue exhaustion and arms the idle-disconnect
// check. The session survives if anything is queued or playing again by
// the time the check fires, or if the guild runs in 24/7 mode.
func (y *Synchronizer) onEmpty(sess player.Session, st *npState) {
	st.timers.Cancel(timerNowPlaying)
	y.deleteNowPlaying(st)

	notice := "Queue finished. Add more tracks or I'll leave shortly."
	if y.stayConnected(sess.GuildID()) {
		notice = "Queue finished."
	}
	noticeID, err := y.msgs.Send(sess.TextChannelID(), notice)
	if err != nil {
		log.Printf("[WARN] Failed to send queue notice for guild %s: %v", sess.GuildID(), err)
	} else if y.timings.QueueNoticeTTL > 0 {
		channelID := sess.TextChannelID()
		st.timers.Schedule(timerNotice, y.timings.QueueNoticeTTL, func() {
			if err := y.msgs.Delete(channelID, noticeID); err != nil {
				log.Printf("[DEBUG] Queue notice already gone in guild %s: %v", sess.GuildID(), err)
			}
		})
	}

	if y.timings.IdleDisconnect > 0 {
		st.timers.Schedule(timerIdle, y.timings.IdleDisconnect, func() {
			// 24/7 is re-read at fire time so a toggle during the idle
			// window takes effect.
			if y.stayConnected(sess.GuildID()) {
				return
			}
			if sess.Queue().Current() == nil && sess.Queue().Size() == 0 && !sess.Playing() {
				log.Printf("[INFO] Guild %s idle for %v, disconnecting", sess.GuildID(), y.timings.IdleDisconnect)
				sess.Destroy()
			}
		})
	}
}

// onException reports the failure and, when more tracks wait, arms a
// short-delay skip so playback continues.
func (y *Synchronizer) onException(sess player.Session, st *npState, cause error) {
	log.Printf("[ERR] Playback error in guild %s: %v", sess.GuildID(), cause)

	if _, err := y.msgs.Send(sess.TextChannelID(), fmt.Sprintf("Playback error: %v", cause)); err != nil {
		log.Printf("[WARN] Failed to send error notice for guild %s: %v", sess.GuildID(), err)
	}

	if sess.Queue().Size() > 0 {
		st.timers.Schedule(timerAutoSkip, y.timings.AutoSkipDelay, func() {
			if err := sess.Skip(); err != nil {
				log.Printf("[WARN] Auto-skip failed in guild %s: %v", sess.GuildID(), err)
			}
		})
	}
}

func (y *Synchronizer) onDestroy(sess player.Session, st *npState) {
	st.timers.CancelAll()
	y.deleteNowPlaying(st)

	y.mu.Lock()
	delete(y.guilds, sess.GuildID())
	y.mu.Unlock()
}

// deleteNowPlaying removes the live message, if any. Failures are
// cosmetic; the message may already be gone.
func (y *Synchronizer) deleteNowPlaying(st *npState) {
	y.mu.Lock()
	channelID, messageID := st.channelID, st.messageID
	st.channelID, st.messageID = "", ""
	y.mu.Unlock()

	if messageID == "" {
		return
	}
	if err := y.msgs.Delete(channelID, messageID); err != nil {
		log.Printf("[DEBUG] Now-playing message already gone: %v", err)
	}
}

func nowPlayingEmbed(t *player.Track, sess player.Session) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "Now Playing",
		Description: fmt.Sprintf("[%s](%s)\nby %s", t.Title, t.URI, t.Author),
		Color:       EmbedColor,
		Thumbnail:   &discordgo.MessageEmbedThumbnail{URL: t.ArtworkURL},
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Duration", Value: t.FormatLength(), Inline: true},
			{Name: "Requested by", Value: fmt.Sprintf("<@%s>", t.RequesterID), Inline: true},
			{Name: "Volume", Value: fmt.Sprintf("%d%%", sess.Volume()), Inline: true},
		},
	}
}

// watchingManager attaches the synchronizer to every created session.
type watchingManager struct {
	inner player.Manager
	sync  *Synchronizer
}

func (m *watchingManager) Create(ctx context.Context, opts player.CreateOptions) (player.Session, error) {
	sess, err := m.inner.Create(ctx, opts)
	if err != nil {
		return nil, err
	}
	m.sync.Watch(sess)
	return sess, nil
}

func (m *watchingManager) Get(guildID string) (player.Session, bool) {
	return m.inner.Get(guildID)
}

func (m *watchingManager) Search(ctx context.Context, query, requesterID string) (*player.SearchResult, error) {
	return m.inner.Search(ctx, query, requesterID)
}
