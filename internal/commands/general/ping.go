// Package general implements the utility commands.
package general

import (
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"

	"melobot/internal/command"
)

const categoryGeneral = "🧰 General"

type PingCommand struct{}

func (c *PingCommand) Name() string                       { return "ping" }
func (c *PingCommand) Description() string                { return "Check the bot's gateway latency" }
func (c *PingCommand) Category() string                   { return categoryGeneral }
func (c *PingCommand) Cooldown() time.Duration            { return 0 }
func (c *PingCommand) Requirements() command.Requirements { return command.Requirements{} }
func (c *PingCommand) Voice() command.VoiceRequirements   { return command.VoiceRequirements{} }

func (c *PingCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{Name: c.Name(), Description: c.Description()}
}

func (c *PingCommand) Run(ctx *command.Context) error {
	latency := ctx.Session.HeartbeatLatency().Round(time.Millisecond)
	return ctx.Replier.Reply(fmt.Sprintf("Pong! Gateway latency: `%s`.", latency))
}
