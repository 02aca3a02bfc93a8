package dispatch

import (
	"context"
	"fmt"
	"log"
	"strings"

	"melobot/internal/command"
	"melobot/internal/player"
	"melobot/internal/storage"
	"melobot/internal/vote"
)

// PermissionReader resolves permission sets against the chat platform.
// Implemented over the discordgo session; faked in tests.
type PermissionReader interface {
	// ChannelPermissions returns the user's resolved permissions in a channel.
	ChannelPermissions(userID, channelID string) (int64, error)
	BotUserID() string
}

// VoiceStateReader resolves current voice-channel occupancy.
type VoiceStateReader interface {
	// VoiceChannelID returns the voice channel a user occupies in a
	// guild, or empty.
	VoiceChannelID(guildID, userID string) string
}

// Dispatcher orchestrates one interaction: resolve the command, run the
// gates in order, keep cooldown bookkeeping, invoke the handler, and
// normalize failures into a single user-visible reply. All collaborators
// are injected at construction.
type Dispatcher struct {
	registry  *command.Registry
	cooldowns *Ledger
	store     *storage.Storage
	votes     vote.Checker
	players   player.Manager
	perms     PermissionReader
	voices    VoiceStateReader
	owners    map[string]bool
}

// New builds a dispatcher. Owners bypass cooldowns and the vote gate.
func New(
	registry *command.Registry,
	cooldowns *Ledger,
	store *storage.Storage,
	votes vote.Checker,
	players player.Manager,
	perms PermissionReader,
	voices VoiceStateReader,
	ownerIDs []string,
) *Dispatcher {
	owners := make(map[string]bool, len(ownerIDs))
	for _, id := range ownerIDs {
		owners[id] = true
	}
	return &Dispatcher{
		registry:  registry,
		cooldowns: cooldowns,
		store:     store,
		votes:     votes,
		players:   players,
		perms:     perms,
		voices:    voices,
		owners:    owners,
	}
}

// Handle processes one slash-command interaction. Every step is a hard
// gate: the first failure replies and stops. Handler errors are caught
// here and never propagate.
func (d *Dispatcher) Handle(ctx context.Context, cctx *command.Context) {
	name := cctx.Event.ApplicationCommandData().Name
	cmd := d.registry.Get(name)
	if cmd == nil {
		d.reply(cctx, "This command is currently unavailable.")
		return
	}

	userID := cctx.UserID()
	guildID := cctx.Event.GuildID
	channelID := cctx.Event.ChannelID

	if d.store.IsUserBlacklisted(userID) {
		d.reply(cctx, "You are blacklisted from using this bot.")
		return
	}

	if d.store.IsChannelIgnored(guildID, channelID) {
		d.reply(cctx, "Commands are disabled in this channel.")
		return
	}

	if ok := d.checkPermissions(ctx, cmd, cctx, userID, guildID, channelID); !ok {
		return
	}

	if ok := d.checkVoice(cmd, cctx, userID, guildID); !ok {
		return
	}

	window := cmd.Cooldown()
	if window <= 0 {
		window = command.DefaultCooldown
	}
	if !d.owners[userID] {
		if status := d.cooldowns.Check(cmd.Name(), userID, window); !status.Allowed {
			d.reply(cctx, fmt.Sprintf("Please wait `%.1fs` before reusing `/%s`.",
				status.Remaining.Seconds(), cmd.Name()))
			return
		}
		// Recorded only once every gate has passed, uniformly for all
		// commands: a denied precondition costs no cooldown.
		d.cooldowns.Record(cmd.Name(), userID, window)
	}

	d.invoke(cmd, cctx, userID)
}

// HandleComponent processes one message-component interaction. The
// custom ID carries the owning command's name before the first colon;
// components pass through the same gates as the slash command, minus
// the cooldown ledger.
func (d *Dispatcher) HandleComponent(ctx context.Context, cctx *command.Context) {
	customID := cctx.Event.MessageComponentData().CustomID
	name, _, _ := strings.Cut(customID, ":")

	cmd := d.registry.Get(name)
	if cmd == nil {
		d.reply(cctx, "This control is currently unavailable.")
		return
	}
	handler, ok := cmd.(command.ComponentHandler)
	if !ok {
		d.reply(cctx, "This control is currently unavailable.")
		return
	}

	userID := cctx.UserID()
	guildID := cctx.Event.GuildID
	channelID := cctx.Event.ChannelID

	if d.store.IsUserBlacklisted(userID) {
		d.reply(cctx, "You are blacklisted from using this bot.")
		return
	}

	if ok := d.checkPermissions(ctx, cmd, cctx, userID, guildID, channelID); !ok {
		return
	}
	if ok := d.checkVoice(cmd, cctx, userID, guildID); !ok {
		return
	}

	defer func() {
		if r := recover(); r != nil {
			log.Printf("[ERR] Component %s panicked (user %s): %v", customID, userID, r)
			d.sendError(cctx)
		}
	}()
	if err := handler.Component(cctx, customID); err != nil {
		log.Printf("[ERR] Component %s failed (user %s): %v", customID, userID, err)
		d.sendError(cctx)
	}
}

// checkPermissions runs the permission gate and emits the denial reply.
func (d *Dispatcher) checkPermissions(ctx context.Context, cmd command.Command, cctx *command.Context, userID, guildID, channelID string) bool {
	botPerms, err := d.perms.ChannelPermissions(d.perms.BotUserID(), channelID)
	if err != nil {
		log.Printf("[ERR] Failed to resolve bot permissions in channel %s: %v", channelID, err)
		d.reply(cctx, "Something went wrong while checking permissions.")
		return false
	}

	var userPerms int64
	if cctx.Event.Member != nil {
		userPerms = cctx.Event.Member.Permissions
	}

	var roleIDs []string
	if cctx.Event.Member != nil {
		roleIDs = cctx.Event.Member.Roles
	}

	settings, err := d.store.Settings(guildID)
	if err != nil {
		log.Printf("[WARN] Failed to load settings for guild %s: %v", guildID, err)
		settings = nil
	}

	check := EvaluatePermissions(ctx, cmd.Requirements(), &PermContext{
		BotPermissions:  botPerms,
		UserPermissions: userPerms,
		UserID:          userID,
		IsOwner:         d.owners[userID],
		RoleIDs:         roleIDs,
		Settings:        settings,
		Votes:           d.votes,
	})

	switch check.Result {
	case PermAllowed:
		return true
	case PermMissingBotPermissions:
		d.reply(cctx, fmt.Sprintf("I need the following permissions in this channel to run `/%s`:\n`%s`",
			cmd.Name(), joinPermissionNames(check.Missing)))
	case PermMissingUserPermissions:
		d.reply(cctx, fmt.Sprintf("You need the following permissions to run `/%s`:\n`%s`",
			cmd.Name(), joinPermissionNames(check.Missing)))
	case PermNotOwner:
		d.reply(cctx, "Sorry! This is an owner-only command.")
	case PermVoteRequired:
		d.reply(cctx, "You need to vote for the bot on top.gg to use this command.")
	case PermNotDJ:
		d.reply(cctx, "You don't have enough permissions or the DJ role to use this command.")
	}
	return false
}

// checkVoice runs the voice-state gate and emits the denial reply.
func (d *Dispatcher) checkVoice(cmd command.Command, cctx *command.Context, userID, guildID string) bool {
	req := cmd.Voice()
	if !req.NeedsCaller && !req.NeedsActivePlayer {
		return true
	}

	vctx := &VoiceContext{
		CallerChannelID: d.voices.VoiceChannelID(guildID, userID),
		BotChannelID:    d.voices.VoiceChannelID(guildID, d.perms.BotUserID()),
	}

	if vctx.CallerChannelID != "" {
		perms, err := d.perms.ChannelPermissions(d.perms.BotUserID(), vctx.CallerChannelID)
		if err != nil {
			log.Printf("[WARN] Failed to resolve bot voice permissions in channel %s: %v",
				vctx.CallerChannelID, err)
		} else {
			vctx.BotVoicePermissions = perms
		}
	}

	if session, ok := d.players.Get(guildID); ok {
		vctx.HasSession = true
		vctx.HasCurrentTrack = session.Queue().Current() != nil
	}

	switch EvaluateVoice(req, vctx) {
	case VoiceAllowed:
		return true
	case VoiceCallerNotInVoice:
		d.reply(cctx, fmt.Sprintf("You must be connected to a voice channel to use `/%s`.", cmd.Name()))
	case VoiceBotMissingPermissions:
		d.reply(cctx, "I need `Connect` and `Speak` permissions in your voice channel.")
	case VoiceCallerWrongChannel:
		d.reply(cctx, "You must be in the same voice channel as me to use this command.")
	case VoiceNoActivePlayer:
		d.reply(cctx, "Nothing is playing right now!")
	}
	return false
}

// invoke runs the handler, converting any error or panic into exactly
// one generic reply. If the handler already replied or deferred, the
// error goes out as a follow-up instead of a second initial reply.
func (d *Dispatcher) invoke(cmd command.Command, cctx *command.Context, userID string) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[ERR] Command /%s panicked (user %s): %v", cmd.Name(), userID, r)
			d.sendError(cctx)
		}
	}()

	if err := cmd.Run(cctx); err != nil {
		log.Printf("[ERR] Command /%s failed (user %s): %v", cmd.Name(), userID, err)
		d.sendError(cctx)
	}
}

func (d *Dispatcher) sendError(cctx *command.Context) {
	var err error
	if cctx.Replier.Acked() {
		err = cctx.Replier.FollowupEphemeral("There was an error while executing this command.")
	} else {
		err = cctx.Replier.ReplyEphemeral("There was an error while executing this command.")
	}
	if err != nil {
		log.Printf("[WARN] Failed to deliver error reply: %v", err)
	}
}

// reply sends an ephemeral gate-denial message; failures only get logged.
func (d *Dispatcher) reply(cctx *command.Context, content string) {
	if err := cctx.Replier.ReplyEphemeral(content); err != nil {
		log.Printf("[WARN] Failed to send reply: %v", err)
	}
}

func joinPermissionNames(perms []int64) string {
	names := make([]string, 0, len(perms))
	for _, p := range perms {
		names = append(names, PermissionName(p))
	}
	return strings.Join(names, "`, `")
}
