package discord

import (
	"github.com/bwmarrin/discordgo"
)

// SessionPermissions resolves permissions through the gateway state cache.
type SessionPermissions struct {
	S *discordgo.Session
}

func (p SessionPermissions) ChannelPermissions(userID, channelID string) (int64, error) {
	return p.S.UserChannelPermissions(userID, channelID)
}

func (p SessionPermissions) BotUserID() string {
	return p.S.State.User.ID
}

// SessionVoiceStates reads voice occupancy from the gateway state cache.
type SessionVoiceStates struct {
	S *discordgo.Session
}

func (v SessionVoiceStates) VoiceChannelID(guildID, userID string) string {
	guild, err := v.S.State.Guild(guildID)
	if err != nil {
		return ""
	}
	for _, vs := range guild.VoiceStates {
		if vs.UserID == userID {
			return vs.ChannelID
		}
	}
	return ""
}
