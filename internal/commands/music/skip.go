package music

import (
	"errors"
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"

	"melobot/internal/command"
	"melobot/internal/player"
)

type SkipCommand struct{}

func (c *SkipCommand) Name() string            { return "skip" }
func (c *SkipCommand) Description() string     { return "Skip to the next track in the queue" }
func (c *SkipCommand) Category() string        { return categoryMusic }
func (c *SkipCommand) Cooldown() time.Duration { return 0 }
func (c *SkipCommand) Requirements() command.Requirements {
	return command.Requirements{DJ: true}
}
func (c *SkipCommand) Voice() command.VoiceRequirements {
	return command.VoiceRequirements{NeedsCaller: true, NeedsActivePlayer: true}
}

func (c *SkipCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{Name: c.Name(), Description: c.Description()}
}

func (c *SkipCommand) Run(ctx *command.Context) error {
	sess, err := mustSession(ctx)
	if err != nil {
		return err
	}

	current := sess.Queue().Current()
	if err := sess.Skip(); err != nil {
		if errors.Is(err, player.ErrNoTracksInQueue) {
			return ctx.Replier.ReplyEphemeral("Nothing left in the queue to skip to.")
		}
		return err
	}

	if current != nil {
		return ctx.Replier.Reply(fmt.Sprintf("Skipped **%s**.", current.Title))
	}
	return ctx.Replier.Reply("Skipped.")
}
