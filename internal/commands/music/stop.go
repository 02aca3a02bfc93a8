package music

import (
	"time"

	"github.com/bwmarrin/discordgo"

	"melobot/internal/command"
)

type StopCommand struct{}

func (c *StopCommand) Name() string            { return "stop" }
func (c *StopCommand) Description() string     { return "Stop playback and clear the queue" }
func (c *StopCommand) Category() string        { return categoryMusic }
func (c *StopCommand) Cooldown() time.Duration { return 0 }
func (c *StopCommand) Requirements() command.Requirements {
	return command.Requirements{DJ: true}
}
func (c *StopCommand) Voice() command.VoiceRequirements {
	return command.VoiceRequirements{NeedsCaller: true, NeedsActivePlayer: true}
}

func (c *StopCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{Name: c.Name(), Description: c.Description()}
}

func (c *StopCommand) Run(ctx *command.Context) error {
	sess, err := mustSession(ctx)
	if err != nil {
		return err
	}
	if err := sess.Stop(); err != nil {
		return err
	}
	return ctx.Replier.Reply("Stopped playback and cleared the queue.")
}
