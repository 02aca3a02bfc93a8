package dispatch

import (
	"github.com/bwmarrin/discordgo"

	"melobot/internal/command"
)

// VoiceResult classifies the outcome of the voice-state gate.
type VoiceResult int

const (
	VoiceAllowed VoiceResult = iota
	VoiceCallerNotInVoice
	VoiceBotMissingPermissions
	VoiceCallerWrongChannel
	VoiceNoActivePlayer
)

func (r VoiceResult) String() string {
	switch r {
	case VoiceAllowed:
		return "allowed"
	case VoiceCallerNotInVoice:
		return "caller not in voice"
	case VoiceBotMissingPermissions:
		return "bot missing voice permissions"
	case VoiceCallerWrongChannel:
		return "caller in wrong channel"
	case VoiceNoActivePlayer:
		return "no active player"
	default:
		return "unknown"
	}
}

// VoiceContext is the voice-state snapshot the gate evaluates. Plain
// data only; this gate never mutates anything.
type VoiceContext struct {
	// CallerChannelID is the voice channel the caller occupies, if any.
	CallerChannelID string
	// BotChannelID is the voice channel the bot occupies, if any.
	BotChannelID string
	// BotVoicePermissions is the bot's permission set in the caller's
	// voice channel.
	BotVoicePermissions int64
	// HasSession reports a live player session for the guild.
	HasSession bool
	// HasCurrentTrack reports that the session's queue has a current track.
	HasCurrentTrack bool
}

// EvaluateVoice runs the voice-state gate. An already-connected bot is
// never stolen into another channel: the caller must share it exactly.
func EvaluateVoice(req command.VoiceRequirements, vctx *VoiceContext) VoiceResult {
	if req.NeedsCaller {
		if vctx.CallerChannelID == "" {
			return VoiceCallerNotInVoice
		}
		needed := int64(discordgo.PermissionVoiceConnect | discordgo.PermissionVoiceSpeak)
		if vctx.BotVoicePermissions&needed != needed {
			return VoiceBotMissingPermissions
		}
		if vctx.BotChannelID != "" && vctx.BotChannelID != vctx.CallerChannelID {
			return VoiceCallerWrongChannel
		}
	}

	if req.NeedsActivePlayer {
		if !vctx.HasSession || !vctx.HasCurrentTrack {
			return VoiceNoActivePlayer
		}
	}

	return VoiceAllowed
}
