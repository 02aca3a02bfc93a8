package settings

import (
	"time"

	"github.com/bwmarrin/discordgo"

	"melobot/internal/command"
)

type TwentyFourSevenCommand struct{}

func (c *TwentyFourSevenCommand) Name() string                       { return "247" }
func (c *TwentyFourSevenCommand) Description() string                { return "Keep the bot in voice around the clock" }
func (c *TwentyFourSevenCommand) Category() string                   { return categorySettings }
func (c *TwentyFourSevenCommand) Cooldown() time.Duration            { return 0 }
func (c *TwentyFourSevenCommand) Requirements() command.Requirements { return manageGuildOnly() }
func (c *TwentyFourSevenCommand) Voice() command.VoiceRequirements {
	return command.VoiceRequirements{}
}

func (c *TwentyFourSevenCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionBoolean,
				Name:        "enabled",
				Description: "Stay connected when the queue runs out (omit to toggle)",
			},
		},
	}
}

func (c *TwentyFourSevenCommand) Run(ctx *command.Context) error {
	var enabled bool
	if opt, ok := ctx.Options()["enabled"]; ok {
		enabled = opt.BoolValue()
	} else {
		settings, err := ctx.Store.Settings(ctx.Event.GuildID)
		if err != nil {
			return err
		}
		enabled = !settings.TwentyFourSeven
	}

	if err := ctx.Store.SetTwentyFourSeven(ctx.Event.GuildID, enabled); err != nil {
		return err
	}
	if enabled {
		return ctx.Replier.Reply("24/7 mode enabled. I'll stay in voice after the queue ends.")
	}
	return ctx.Replier.Reply("24/7 mode disabled.")
}
