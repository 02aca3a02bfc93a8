package music

import (
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"

	"melobot/internal/command"
)

type ClearQueueCommand struct{}

func (c *ClearQueueCommand) Name() string            { return "clearqueue" }
func (c *ClearQueueCommand) Description() string     { return "Remove every queued track, keeping the current one" }
func (c *ClearQueueCommand) Category() string        { return categoryMusic }
func (c *ClearQueueCommand) Cooldown() time.Duration { return 0 }
func (c *ClearQueueCommand) Requirements() command.Requirements {
	return command.Requirements{DJ: true}
}
func (c *ClearQueueCommand) Voice() command.VoiceRequirements {
	return command.VoiceRequirements{NeedsCaller: true, NeedsActivePlayer: true}
}

func (c *ClearQueueCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{Name: c.Name(), Description: c.Description()}
}

func (c *ClearQueueCommand) Run(ctx *command.Context) error {
	sess, err := mustSession(ctx)
	if err != nil {
		return err
	}
	cleared := sess.Queue().Size()
	sess.Queue().Clear()
	return ctx.Replier.Reply(fmt.Sprintf("Cleared **%d** tracks from the queue.", cleared))
}
