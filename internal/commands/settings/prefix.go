package settings

import (
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"

	"melobot/internal/command"
)

type PrefixCommand struct{}

func (c *PrefixCommand) Name() string                       { return "prefix" }
func (c *PrefixCommand) Description() string                { return "Change the text command prefix" }
func (c *PrefixCommand) Category() string                   { return categorySettings }
func (c *PrefixCommand) Cooldown() time.Duration            { return 0 }
func (c *PrefixCommand) Requirements() command.Requirements { return manageGuildOnly() }
func (c *PrefixCommand) Voice() command.VoiceRequirements   { return command.VoiceRequirements{} }

func (c *PrefixCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "prefix",
				Description: "New prefix, up to 5 characters",
				Required:    true,
			},
		},
	}
}

func (c *PrefixCommand) Run(ctx *command.Context) error {
	prefix := ctx.StringOption("prefix")
	if prefix == "" || len(prefix) > 5 {
		return ctx.Replier.ReplyEphemeral("The prefix must be 1 to 5 characters.")
	}
	if err := ctx.Store.SetPrefix(ctx.Event.GuildID, prefix); err != nil {
		return err
	}
	return ctx.Replier.Reply(fmt.Sprintf("Prefix set to `%s`.", prefix))
}
