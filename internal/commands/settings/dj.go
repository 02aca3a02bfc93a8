// Package settings implements the per-guild configuration commands.
// Every command here requires Manage Server.
package settings

import (
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"

	"melobot/internal/command"
)

const categorySettings = "⚙️ Settings"

func manageGuildOnly() command.Requirements {
	return command.Requirements{UserPermissions: []int64{discordgo.PermissionManageGuild}}
}

// DJCommand manages the DJ role list and DJ mode.
type DJCommand struct{}

func (c *DJCommand) Name() string                       { return "dj" }
func (c *DJCommand) Description() string                { return "Manage DJ roles and DJ mode" }
func (c *DJCommand) Category() string                   { return categorySettings }
func (c *DJCommand) Cooldown() time.Duration            { return 0 }
func (c *DJCommand) Requirements() command.Requirements { return manageGuildOnly() }
func (c *DJCommand) Voice() command.VoiceRequirements   { return command.VoiceRequirements{} }

func (c *DJCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "add",
				Description: "Add a DJ role",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Type:        discordgo.ApplicationCommandOptionRole,
						Name:        "role",
						Description: "Role to grant DJ rights",
						Required:    true,
					},
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "remove",
				Description: "Remove a DJ role",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Type:        discordgo.ApplicationCommandOptionRole,
						Name:        "role",
						Description: "Role to revoke",
						Required:    true,
					},
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "mode",
				Description: "Enable or disable DJ mode",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Type:        discordgo.ApplicationCommandOptionBoolean,
						Name:        "enabled",
						Description: "Whether DJ mode restricts playback commands",
						Required:    true,
					},
				},
			},
		},
	}
}

func (c *DJCommand) Run(ctx *command.Context) error {
	options := ctx.Event.ApplicationCommandData().Options
	if len(options) == 0 {
		return ctx.Replier.ReplyEphemeral("Missing subcommand.")
	}
	sub := options[0]
	guildID := ctx.Event.GuildID

	switch sub.Name {
	case "add":
		role := sub.Options[0].RoleValue(ctx.Session, guildID)
		if err := ctx.Store.AddDJRole(guildID, role.ID); err != nil {
			return err
		}
		return ctx.Replier.Reply(fmt.Sprintf("Added <@&%s> to the DJ roles.", role.ID))

	case "remove":
		role := sub.Options[0].RoleValue(ctx.Session, guildID)
		if err := ctx.Store.RemoveDJRole(guildID, role.ID); err != nil {
			return err
		}
		return ctx.Replier.Reply(fmt.Sprintf("Removed <@&%s> from the DJ roles.", role.ID))

	case "mode":
		enabled := sub.Options[0].BoolValue()
		if err := ctx.Store.SetDJMode(guildID, enabled); err != nil {
			return err
		}
		if enabled {
			return ctx.Replier.Reply("DJ mode enabled. Playback commands now require a DJ role.")
		}
		return ctx.Replier.Reply("DJ mode disabled.")

	default:
		return ctx.Replier.ReplyEphemeral("Unknown subcommand.")
	}
}
