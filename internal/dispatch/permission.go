package dispatch

import (
	"context"
	"fmt"
	"log"

	"github.com/bwmarrin/discordgo"

	"melobot/internal/command"
	"melobot/internal/storage"
	"melobot/internal/vote"
)

// PermissionResult classifies the outcome of the permission gate.
type PermissionResult int

const (
	PermAllowed PermissionResult = iota
	PermMissingBotPermissions
	PermMissingUserPermissions
	PermNotOwner
	PermVoteRequired
	PermNotDJ
)

func (r PermissionResult) String() string {
	switch r {
	case PermAllowed:
		return "allowed"
	case PermMissingBotPermissions:
		return "missing bot permissions"
	case PermMissingUserPermissions:
		return "missing user permissions"
	case PermNotOwner:
		return "not owner"
	case PermVoteRequired:
		return "vote required"
	case PermNotDJ:
		return "not dj"
	default:
		return "unknown"
	}
}

// PermissionCheck carries the result plus the missing permission bits
// for the two capability variants.
type PermissionCheck struct {
	Result  PermissionResult
	Missing []int64
}

// PermContext is everything the permission gate reads. It is plain data
// plus the vote collaborator, so evaluation stays pure and testable.
type PermContext struct {
	// BotPermissions is the bot's resolved permission set in the
	// invocation channel; UserPermissions is the caller's.
	BotPermissions  int64
	UserPermissions int64
	UserID          string
	IsOwner         bool
	// RoleIDs are the caller's guild roles, for the DJ check.
	RoleIDs []string
	// Settings is the guild's persisted configuration; nil means no record.
	Settings *storage.GuildSettings
	Votes    vote.Checker
}

// djFallbackPermissions is the default moderation capability for the DJ
// check: any of mute-members, manage-server or administrator.
const djFallbackPermissions = discordgo.PermissionVoiceMuteMembers |
	discordgo.PermissionManageGuild |
	discordgo.PermissionAdministrator

// EvaluatePermissions runs the permission gate. Checks run in a fixed
// order and short-circuit on the first failure: bot capabilities, user
// capabilities, owner flag, vote gate, DJ requirement. The vote gate
// fails open on collaborator errors. Pure evaluation; the caller emits
// the denial message.
func EvaluatePermissions(ctx context.Context, req command.Requirements, pctx *PermContext) PermissionCheck {
	if missing := missingBits(pctx.BotPermissions, req.BotPermissions); len(missing) > 0 {
		return PermissionCheck{Result: PermMissingBotPermissions, Missing: missing}
	}

	if missing := missingBits(pctx.UserPermissions, req.UserPermissions); len(missing) > 0 {
		return PermissionCheck{Result: PermMissingUserPermissions, Missing: missing}
	}

	if req.OwnerOnly && !pctx.IsOwner {
		return PermissionCheck{Result: PermNotOwner}
	}

	if req.VoteRequired && !pctx.IsOwner {
		voted, err := hasVoted(ctx, pctx)
		if err != nil {
			// Infrastructure failure never blocks the command.
			log.Printf("[WARN] Vote check failed for user %s, failing open: %v", pctx.UserID, err)
		} else if !voted {
			return PermissionCheck{Result: PermVoteRequired}
		}
	}

	if req.DJ && !isDJ(req, pctx) {
		return PermissionCheck{Result: PermNotDJ}
	}

	return PermissionCheck{Result: PermAllowed}
}

func hasVoted(ctx context.Context, pctx *PermContext) (bool, error) {
	if pctx.Votes == nil {
		return false, fmt.Errorf("no vote checker configured")
	}
	return pctx.Votes.HasVoted(ctx, pctx.UserID)
}

// isDJ applies the DJ rule: without guild DJ configuration the caller
// needs the fallback moderation capability; with DJ mode enabled any
// configured DJ role also passes; DJ configuration with the mode
// switched off leaves the command open.
func isDJ(req command.Requirements, pctx *PermContext) bool {
	fallback := req.DJPermission
	if fallback == 0 {
		fallback = djFallbackPermissions
	}
	hasFallback := pctx.UserPermissions&fallback != 0

	settings := pctx.Settings
	if settings == nil || (len(settings.DJRoles) == 0 && !settings.DJMode) {
		return hasFallback
	}

	if !settings.DJMode {
		return true
	}

	for _, roleID := range pctx.RoleIDs {
		for _, djRole := range settings.DJRoles {
			if roleID == djRole {
				return true
			}
		}
	}
	return hasFallback
}

// missingBits returns the required permission bits absent from held.
func missingBits(held int64, required []int64) []int64 {
	var missing []int64
	for _, p := range required {
		if held&p == 0 {
			missing = append(missing, p)
		}
	}
	return missing
}

// PermissionNames maps the permission bits this bot asks for to their
// display names, for denial messages.
var PermissionNames = map[int64]string{
	discordgo.PermissionAdministrator:      "Administrator",
	discordgo.PermissionManageGuild:        "Manage Server",
	discordgo.PermissionManageChannels:     "Manage Channels",
	discordgo.PermissionManageMessages:     "Manage Messages",
	discordgo.PermissionManageRoles:        "Manage Roles",
	discordgo.PermissionViewChannel:        "View Channel",
	discordgo.PermissionSendMessages:       "Send Messages",
	discordgo.PermissionEmbedLinks:         "Embed Links",
	discordgo.PermissionAttachFiles:        "Attach Files",
	discordgo.PermissionAddReactions:       "Add Reactions",
	discordgo.PermissionVoiceConnect:       "Connect",
	discordgo.PermissionVoiceSpeak:         "Speak",
	discordgo.PermissionVoiceMuteMembers:   "Mute Members",
	discordgo.PermissionVoiceDeafenMembers: "Deafen Members",
	discordgo.PermissionModerateMembers:    "Moderate Members",
}

// PermissionName returns a display name for a permission bit.
func PermissionName(p int64) string {
	if name, ok := PermissionNames[p]; ok {
		return name
	}
	return fmt.Sprintf("0x%x", p)
}
