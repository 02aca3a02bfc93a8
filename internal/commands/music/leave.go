package music

import (
	"time"

	"github.com/bwmarrin/discordgo"

	"melobot/internal/command"
)

type LeaveCommand struct{}

func (c *LeaveCommand) Name() string            { return "leave" }
func (c *LeaveCommand) Description() string     { return "Disconnect the bot and drop the session" }
func (c *LeaveCommand) Category() string        { return categoryMusic }
func (c *LeaveCommand) Cooldown() time.Duration { return 0 }
func (c *LeaveCommand) Requirements() command.Requirements {
	return command.Requirements{DJ: true}
}
func (c *LeaveCommand) Voice() command.VoiceRequirements {
	return command.VoiceRequirements{NeedsCaller: true}
}

func (c *LeaveCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{Name: c.Name(), Description: c.Description()}
}

func (c *LeaveCommand) Run(ctx *command.Context) error {
	sess, ok := ctx.Players.Get(ctx.Event.GuildID)
	if !ok {
		return ctx.Replier.ReplyEphemeral("I'm not connected to a voice channel.")
	}

	sess.Destroy()
	if err := leaveVoice(ctx); err != nil {
		return err
	}
	return ctx.Replier.Reply("Disconnected. See you next time!")
}
