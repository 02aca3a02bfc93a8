package music

import (
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"

	"melobot/internal/command"
)

type ShuffleCommand struct{}

func (c *ShuffleCommand) Name() string            { return "shuffle" }
func (c *ShuffleCommand) Description() string     { return "Shuffle the queue" }
func (c *ShuffleCommand) Category() string        { return categoryMusic }
func (c *ShuffleCommand) Cooldown() time.Duration { return 0 }
func (c *ShuffleCommand) Requirements() command.Requirements {
	return command.Requirements{DJ: true}
}
func (c *ShuffleCommand) Voice() command.VoiceRequirements {
	return command.VoiceRequirements{NeedsCaller: true, NeedsActivePlayer: true}
}

func (c *ShuffleCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{Name: c.Name(), Description: c.Description()}
}

func (c *ShuffleCommand) Run(ctx *command.Context) error {
	sess, err := mustSession(ctx)
	if err != nil {
		return err
	}
	if sess.Queue().Size() < 2 {
		return ctx.Replier.ReplyEphemeral("Not enough tracks in the queue to shuffle.")
	}
	sess.Queue().Shuffle()
	return ctx.Replier.Reply(fmt.Sprintf("Shuffled **%d** tracks.", sess.Queue().Size()))
}
