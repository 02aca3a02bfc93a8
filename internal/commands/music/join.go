package music

import (
	"time"

	"github.com/bwmarrin/discordgo"

	"melobot/internal/command"
)

type JoinCommand struct{}

func (c *JoinCommand) Name() string                       { return "join" }
func (c *JoinCommand) Description() string                { return "Summon the bot to your voice channel" }
func (c *JoinCommand) Category() string                   { return categoryMusic }
func (c *JoinCommand) Cooldown() time.Duration            { return 0 }
func (c *JoinCommand) Requirements() command.Requirements { return command.Requirements{} }
func (c *JoinCommand) Voice() command.VoiceRequirements {
	return command.VoiceRequirements{NeedsCaller: true}
}

func (c *JoinCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{Name: c.Name(), Description: c.Description()}
}

func (c *JoinCommand) Run(ctx *command.Context) error {
	if _, err := ensureSession(ctx); err != nil {
		return err
	}
	return ctx.Replier.Reply("Joined your voice channel.")
}
