package command

import (
	"time"

	"github.com/bwmarrin/discordgo"

	"melobot/internal/player"
	"melobot/internal/storage"
)

// DefaultCooldown applies when a command does not declare its own.
const DefaultCooldown = 3 * time.Second

// Requirements is the declarative permission set evaluated by the
// dispatcher before a command runs. Zero value means open command.
type Requirements struct {
	// BotPermissions the bot needs in the invocation channel (all required).
	BotPermissions []int64
	// UserPermissions the caller needs in the invocation channel (all required).
	UserPermissions []int64
	// OwnerOnly restricts the command to configured bot owners.
	OwnerOnly bool
	// VoteRequired gates the command behind a top.gg vote.
	VoteRequired bool
	// DJ requires the caller to hold a DJ role or the fallback
	// moderation permission (see DJPermission).
	DJ bool
	// DJPermission overrides the fallback permission for the DJ check.
	// Zero means mute-members, manage-server or administrator.
	DJPermission int64
}

// VoiceRequirements is the declarative voice-state set evaluated by the
// dispatcher. Zero value means no voice constraints.
type VoiceRequirements struct {
	// NeedsCaller requires the caller to occupy a voice channel; if the
	// bot is already in one, it must be the same channel.
	NeedsCaller bool
	// NeedsActivePlayer requires a live session with a current track.
	NeedsActivePlayer bool
}

// Command is one slash command: identity, gating metadata and handler.
// Immutable after registration.
type Command interface {
	Name() string
	Description() string
	Category() string
	// Cooldown per user; zero means DefaultCooldown.
	Cooldown() time.Duration
	Requirements() Requirements
	Voice() VoiceRequirements
	Run(ctx *Context) error
}

// SlashProvider is implemented by commands that register a slash definition.
type SlashProvider interface {
	SlashDefinition() *discordgo.ApplicationCommand
}

// ComponentHandler is implemented by commands that also react to message
// components (buttons) carrying their custom ID prefix.
type ComponentHandler interface {
	Component(ctx *Context, customID string) error
}

// Context is what the dispatcher hands a running command.
type Context struct {
	Session *discordgo.Session
	Event   *discordgo.InteractionCreate
	Replier Replier
	Store   *storage.Storage
	Players player.Manager
}

// Replier is the single-initial-reply resource for one interaction:
// exactly one reply or deferral, then any number of follow-ups.
type Replier interface {
	Reply(content string) error
	ReplyEphemeral(content string) error
	ReplyEmbed(embed *discordgo.MessageEmbed) error
	Defer() error
	Edit(content string) error
	EditEmbed(embed *discordgo.MessageEmbed) error
	Followup(content string) error
	FollowupEphemeral(content string) error
	// Acked reports whether an initial reply or deferral happened.
	Acked() bool
}

// UserID returns the invoking user's ID from either guild or DM shape.
func (c *Context) UserID() string {
	if c.Event.Member != nil && c.Event.Member.User != nil {
		return c.Event.Member.User.ID
	}
	if c.Event.User != nil {
		return c.Event.User.ID
	}
	return ""
}

// Options returns the interaction's options keyed by name.
func (c *Context) Options() map[string]*discordgo.ApplicationCommandInteractionDataOption {
	opts := c.Event.ApplicationCommandData().Options
	m := make(map[string]*discordgo.ApplicationCommandInteractionDataOption, len(opts))
	for _, opt := range opts {
		m[opt.Name] = opt
	}
	return m
}

// StringOption returns a string option value, or empty when absent.
func (c *Context) StringOption(name string) string {
	if opt, ok := c.Options()[name]; ok {
		return opt.StringValue()
	}
	return ""
}

// IntOption returns an integer option value, or 0 when absent.
func (c *Context) IntOption(name string) int64 {
	if opt, ok := c.Options()[name]; ok {
		return opt.IntValue()
	}
	return 0
}

// BoolOption returns a boolean option value, or false when absent.
func (c *Context) BoolOption(name string) bool {
	if opt, ok := c.Options()[name]; ok {
		return opt.BoolValue()
	}
	return false
}
