package music

import (
	"time"

	"github.com/bwmarrin/discordgo"

	"melobot/internal/command"
	"melobot/internal/player"
)

type LoopCommand struct{}

func (c *LoopCommand) Name() string            { return "loop" }
func (c *LoopCommand) Description() string     { return "Set the loop mode" }
func (c *LoopCommand) Category() string        { return categoryMusic }
func (c *LoopCommand) Cooldown() time.Duration { return 0 }
func (c *LoopCommand) Requirements() command.Requirements {
	return command.Requirements{DJ: true}
}
func (c *LoopCommand) Voice() command.VoiceRequirements {
	return command.VoiceRequirements{NeedsCaller: true, NeedsActivePlayer: true}
}

func (c *LoopCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "mode",
				Description: "What to repeat",
				Required:    true,
				Choices: []*discordgo.ApplicationCommandOptionChoice{
					{Name: "Off", Value: string(player.LoopNone)},
					{Name: "Track", Value: string(player.LoopTrack)},
					{Name: "Queue", Value: string(player.LoopQueue)},
				},
			},
		},
	}
}

func (c *LoopCommand) Run(ctx *command.Context) error {
	sess, err := mustSession(ctx)
	if err != nil {
		return err
	}

	mode := player.ParseLoopMode(ctx.StringOption("mode"))
	sess.SetLoop(mode)

	switch mode {
	case player.LoopTrack:
		return ctx.Replier.Reply("Looping the current track.")
	case player.LoopQueue:
		return ctx.Replier.Reply("Looping the whole queue.")
	default:
		return ctx.Replier.Reply("Loop disabled.")
	}
}
