package settings

import (
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"

	"melobot/internal/command"
)

type IgnoreCommand struct{}

func (c *IgnoreCommand) Name() string                       { return "ignore" }
func (c *IgnoreCommand) Description() string                { return "Toggle whether commands work in a channel" }
func (c *IgnoreCommand) Category() string                   { return categorySettings }
func (c *IgnoreCommand) Cooldown() time.Duration            { return 0 }
func (c *IgnoreCommand) Requirements() command.Requirements { return manageGuildOnly() }
func (c *IgnoreCommand) Voice() command.VoiceRequirements   { return command.VoiceRequirements{} }

func (c *IgnoreCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionChannel,
				Name:        "channel",
				Description: "Channel to toggle; defaults to the current one",
				Required:    false,
			},
		},
	}
}

func (c *IgnoreCommand) Run(ctx *command.Context) error {
	guildID := ctx.Event.GuildID
	channelID := ctx.Event.ChannelID
	if opt, ok := ctx.Options()["channel"]; ok {
		channelID = opt.ChannelValue(ctx.Session).ID
	}

	ignored := !ctx.Store.IsChannelIgnored(guildID, channelID)
	if err := ctx.Store.SetChannelIgnored(guildID, channelID, ignored); err != nil {
		return err
	}
	if ignored {
		return ctx.Replier.Reply(fmt.Sprintf("Commands are now ignored in <#%s>.", channelID))
	}
	return ctx.Replier.Reply(fmt.Sprintf("Commands work again in <#%s>.", channelID))
}
