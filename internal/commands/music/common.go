// Package music implements the playback slash commands. Each command is
// a thin descriptor over the shared player session; all gating happens
// in the dispatcher before Run is called.
package music

import (
	"context"
	"fmt"

	"melobot/internal/command"
	"melobot/internal/player"
)

const categoryMusic = "🎵 Music"

// callerVoiceChannel returns the invoking user's voice channel, or empty.
func callerVoiceChannel(ctx *command.Context) string {
	guild, err := ctx.Session.State.Guild(ctx.Event.GuildID)
	if err != nil {
		return ""
	}
	userID := ctx.UserID()
	for _, vs := range guild.VoiceStates {
		if vs.UserID == userID {
			return vs.ChannelID
		}
	}
	return ""
}

// ensureSession returns the guild's session, creating one bound to the
// caller's voice channel when none exists. Creation also moves the bot
// into the channel.
func ensureSession(ctx *command.Context) (player.Session, error) {
	if sess, ok := ctx.Players.Get(ctx.Event.GuildID); ok {
		return sess, nil
	}

	channelID := callerVoiceChannel(ctx)
	if channelID == "" {
		return nil, fmt.Errorf("caller is not in a voice channel")
	}

	volume := 0
	if settings, err := ctx.Store.Settings(ctx.Event.GuildID); err == nil {
		volume = settings.Volume
	}

	sess, err := ctx.Players.Create(context.Background(), player.CreateOptions{
		GuildID:        ctx.Event.GuildID,
		TextChannelID:  ctx.Event.ChannelID,
		VoiceChannelID: channelID,
		Volume:         volume,
		Deaf:           true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create player session: %w", err)
	}

	if err := joinVoice(ctx, channelID); err != nil {
		sess.Destroy()
		return nil, err
	}
	return sess, nil
}

// joinVoice asks the gateway for a voice connection without opening a
// local voice socket; the audio node receives the credentials instead.
func joinVoice(ctx *command.Context, channelID string) error {
	if err := ctx.Session.ChannelVoiceJoinManual(ctx.Event.GuildID, channelID, false, true); err != nil {
		return fmt.Errorf("failed to join voice channel: %w", err)
	}
	return nil
}

// leaveVoice drops the gateway voice connection for the guild.
func leaveVoice(ctx *command.Context) error {
	return ctx.Session.ChannelVoiceJoinManual(ctx.Event.GuildID, "", false, true)
}

// mustSession returns the live session. The voice gate guarantees one
// exists for commands that declare NeedsActivePlayer.
func mustSession(ctx *command.Context) (player.Session, error) {
	sess, ok := ctx.Players.Get(ctx.Event.GuildID)
	if !ok {
		return nil, player.ErrNoTrackPlaying
	}
	return sess, nil
}
