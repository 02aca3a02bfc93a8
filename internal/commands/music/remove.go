package music

import (
	"errors"
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"

	"melobot/internal/command"
	"melobot/internal/player"
)

type RemoveCommand struct{}

func (c *RemoveCommand) Name() string            { return "remove" }
func (c *RemoveCommand) Description() string     { return "Remove a track from the queue by position" }
func (c *RemoveCommand) Category() string        { return categoryMusic }
func (c *RemoveCommand) Cooldown() time.Duration { return 0 }
func (c *RemoveCommand) Requirements() command.Requirements {
	return command.Requirements{DJ: true}
}
func (c *RemoveCommand) Voice() command.VoiceRequirements {
	return command.VoiceRequirements{NeedsCaller: true, NeedsActivePlayer: true}
}

func (c *RemoveCommand) SlashDefinition() *discordgo.ApplicationCommand {
	minPos := float64(1)
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionInteger,
				Name:        "position",
				Description: "Queue position as shown by /queue",
				Required:    true,
				MinValue:    &minPos,
			},
		},
	}
}

func (c *RemoveCommand) Run(ctx *command.Context) error {
	sess, err := mustSession(ctx)
	if err != nil {
		return err
	}

	position := int(ctx.IntOption("position"))
	removed, err := sess.Queue().Remove(position - 1)
	if err != nil {
		if errors.Is(err, player.ErrIndexOutOfRange) {
			return ctx.Replier.ReplyEphemeral(
				fmt.Sprintf("No track at position %d; the queue has %d tracks.", position, sess.Queue().Size()))
		}
		return err
	}
	return ctx.Replier.Reply(fmt.Sprintf("Removed **%s** from the queue.", removed.Title))
}
