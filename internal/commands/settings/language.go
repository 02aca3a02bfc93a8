package settings

import (
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"

	"melobot/internal/command"
)

type LanguageCommand struct{}

func (c *LanguageCommand) Name() string                       { return "language" }
func (c *LanguageCommand) Description() string                { return "Set the bot's reply language" }
func (c *LanguageCommand) Category() string                   { return categorySettings }
func (c *LanguageCommand) Cooldown() time.Duration            { return 0 }
func (c *LanguageCommand) Requirements() command.Requirements { return manageGuildOnly() }
func (c *LanguageCommand) Voice() command.VoiceRequirements   { return command.VoiceRequirements{} }

func (c *LanguageCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "language",
				Description: "Language code",
				Required:    true,
				Choices: []*discordgo.ApplicationCommandOptionChoice{
					{Name: "English", Value: "en"},
					{Name: "Русский", Value: "ru"},
					{Name: "Deutsch", Value: "de"},
					{Name: "Français", Value: "fr"},
				},
			},
		},
	}
}

func (c *LanguageCommand) Run(ctx *command.Context) error {
	language := ctx.StringOption("language")
	if err := ctx.Store.SetLanguage(ctx.Event.GuildID, language); err != nil {
		return err
	}
	return ctx.Replier.Reply(fmt.Sprintf("Language set to `%s`.", language))
}
