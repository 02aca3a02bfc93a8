package music

import (
	"time"

	"github.com/bwmarrin/discordgo"

	"melobot/internal/command"
)

type PauseCommand struct{}

func (c *PauseCommand) Name() string            { return "pause" }
func (c *PauseCommand) Description() string     { return "Pause the current track" }
func (c *PauseCommand) Category() string        { return categoryMusic }
func (c *PauseCommand) Cooldown() time.Duration { return 0 }
func (c *PauseCommand) Requirements() command.Requirements {
	return command.Requirements{DJ: true}
}
func (c *PauseCommand) Voice() command.VoiceRequirements {
	return command.VoiceRequirements{NeedsCaller: true, NeedsActivePlayer: true}
}

func (c *PauseCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{Name: c.Name(), Description: c.Description()}
}

func (c *PauseCommand) Run(ctx *command.Context) error {
	sess, err := mustSession(ctx)
	if err != nil {
		return err
	}
	if sess.Paused() {
		return ctx.Replier.ReplyEphemeral("Playback is already paused.")
	}
	if err := sess.Pause(true); err != nil {
		return err
	}
	return ctx.Replier.Reply("Paused.")
}

type ResumeCommand struct{}

func (c *ResumeCommand) Name() string            { return "resume" }
func (c *ResumeCommand) Description() string     { return "Resume the paused track" }
func (c *ResumeCommand) Category() string        { return categoryMusic }
func (c *ResumeCommand) Cooldown() time.Duration { return 0 }
func (c *ResumeCommand) Requirements() command.Requirements {
	return command.Requirements{DJ: true}
}
func (c *ResumeCommand) Voice() command.VoiceRequirements {
	return command.VoiceRequirements{NeedsCaller: true, NeedsActivePlayer: true}
}

func (c *ResumeCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{Name: c.Name(), Description: c.Description()}
}

func (c *ResumeCommand) Run(ctx *command.Context) error {
	sess, err := mustSession(ctx)
	if err != nil {
		return err
	}
	if !sess.Paused() {
		return ctx.Replier.ReplyEphemeral("Playback is not paused.")
	}
	if err := sess.Pause(false); err != nil {
		return err
	}
	return ctx.Replier.Reply("Resumed.")
}
