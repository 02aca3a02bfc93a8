package music

import (
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"

	"melobot/internal/command"
)

type VolumeCommand struct{}

func (c *VolumeCommand) Name() string            { return "volume" }
func (c *VolumeCommand) Description() string     { return "Set the playback volume (0-150)" }
func (c *VolumeCommand) Category() string        { return categoryMusic }
func (c *VolumeCommand) Cooldown() time.Duration { return 0 }
func (c *VolumeCommand) Requirements() command.Requirements {
	return command.Requirements{DJ: true}
}
func (c *VolumeCommand) Voice() command.VoiceRequirements {
	return command.VoiceRequirements{NeedsCaller: true, NeedsActivePlayer: true}
}

func (c *VolumeCommand) SlashDefinition() *discordgo.ApplicationCommand {
	minVolume := float64(0)
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionInteger,
				Name:        "level",
				Description: "Volume percentage",
				Required:    true,
				MinValue:    &minVolume,
				MaxValue:    150,
			},
		},
	}
}

func (c *VolumeCommand) Run(ctx *command.Context) error {
	level := int(ctx.IntOption("level"))
	if level < 0 || level > 150 {
		return ctx.Replier.ReplyEphemeral("Volume must be between 0 and 150.")
	}

	sess, err := mustSession(ctx)
	if err != nil {
		return err
	}
	if err := sess.SetVolume(level); err != nil {
		return err
	}

	// Persist so the next session starts at the same level.
	if err := ctx.Store.SetVolume(ctx.Event.GuildID, level); err != nil {
		return err
	}
	return ctx.Replier.Reply(fmt.Sprintf("Volume set to **%d%%**.", level))
}
