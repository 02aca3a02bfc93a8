package general

import (
	"fmt"
	"runtime"
	"time"

	"github.com/bwmarrin/discordgo"

	"melobot/internal/command"
	"melobot/internal/version"
)

var startedAt = time.Now()

type StatsCommand struct{}

func (c *StatsCommand) Name() string                       { return "stats" }
func (c *StatsCommand) Description() string                { return "Show bot statistics" }
func (c *StatsCommand) Category() string                   { return categoryGeneral }
func (c *StatsCommand) Cooldown() time.Duration            { return 10 * time.Second }
func (c *StatsCommand) Requirements() command.Requirements { return command.Requirements{} }
func (c *StatsCommand) Voice() command.VoiceRequirements   { return command.VoiceRequirements{} }

func (c *StatsCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{Name: c.Name(), Description: c.Description()}
}

func (c *StatsCommand) Run(ctx *command.Context) error {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	uptime := time.Since(startedAt).Round(time.Second)
	return ctx.Replier.ReplyEmbed(&discordgo.MessageEmbed{
		Title: fmt.Sprintf("%s %s", version.AppName, version.Version),
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Uptime", Value: uptime.String(), Inline: true},
			{Name: "Servers", Value: fmt.Sprintf("%d", len(ctx.Session.State.Guilds)), Inline: true},
			{Name: "Memory", Value: fmt.Sprintf("%d MiB", mem.Alloc/1024/1024), Inline: true},
			{Name: "Go", Value: runtime.Version(), Inline: true},
		},
	})
}
