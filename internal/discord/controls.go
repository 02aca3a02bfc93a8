package discord

import (
	"github.com/bwmarrin/discordgo"
)

// Control button custom IDs. The part before the colon names the
// owning command so the dispatcher can route the component through the
// same gates as the slash command.
const (
	ControlPauseID = "nowplaying:pause"
	ControlSkipID  = "nowplaying:skip"
	ControlStopID  = "nowplaying:stop"
	ControlQueueID = "nowplaying:queue"
)

// ControlsRow builds the transport buttons attached to the now-playing
// message. Paused flips the pause button's label.
func ControlsRow(paused bool) []discordgo.MessageComponent {
	pauseLabel := "Pause"
	if paused {
		pauseLabel = "Resume"
	}
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.Button{
					Label:    pauseLabel,
					Style:    discordgo.PrimaryButton,
					CustomID: ControlPauseID,
				},
				discordgo.Button{
					Label:    "Skip",
					Style:    discordgo.SecondaryButton,
					CustomID: ControlSkipID,
				},
				discordgo.Button{
					Label:    "Stop",
					Style:    discordgo.DangerButton,
					CustomID: ControlStopID,
				},
				discordgo.Button{
					Label:    "Queue",
					Style:    discordgo.SecondaryButton,
					CustomID: ControlQueueID,
				},
			},
		},
	}
}
