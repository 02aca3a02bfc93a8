package dispatch

import (
	"context"
	"errors"
	"testing"

	"github.com/bwmarrin/discordgo"

	"melobot/internal/command"
	"melobot/internal/storage"
)

// stubVotes is a canned vote checker.
type stubVotes struct {
	voted bool
	err   error
}

func (s *stubVotes) HasVoted(ctx context.Context, userID string) (bool, error) {
	return s.voted, s.err
}

func TestPermissionsOpenCommand(t *testing.T) {
	check := EvaluatePermissions(context.Background(), command.Requirements{}, &PermContext{})
	if check.Result != PermAllowed {
		t.Errorf("result = %v, want allowed", check.Result)
	}
}

func TestPermissionsBotCheckedBeforeUser(t *testing.T) {
	// Both capability checks fail; the bot one must win every time.
	req := command.Requirements{
		BotPermissions:  []int64{discordgo.PermissionSendMessages},
		UserPermissions: []int64{discordgo.PermissionManageGuild},
	}
	for i := 0; i < 50; i++ {
		check := EvaluatePermissions(context.Background(), req, &PermContext{})
		if check.Result != PermMissingBotPermissions {
			t.Fatalf("result = %v, want missing bot permissions", check.Result)
		}
	}
}

func TestPermissionsMissingBitsReported(t *testing.T) {
	req := command.Requirements{
		BotPermissions: []int64{
			discordgo.PermissionSendMessages,
			discordgo.PermissionEmbedLinks,
			discordgo.PermissionVoiceConnect,
		},
	}
	pctx := &PermContext{BotPermissions: discordgo.PermissionSendMessages}

	check := EvaluatePermissions(context.Background(), req, pctx)
	if check.Result != PermMissingBotPermissions {
		t.Fatalf("result = %v, want missing bot permissions", check.Result)
	}
	if len(check.Missing) != 2 {
		t.Fatalf("missing = %v, want 2 bits", check.Missing)
	}
}

func TestPermissionsAllOfUserBits(t *testing.T) {
	req := command.Requirements{
		UserPermissions: []int64{
			discordgo.PermissionManageGuild,
			discordgo.PermissionManageChannels,
		},
	}
	pctx := &PermContext{UserPermissions: discordgo.PermissionManageGuild}

	check := EvaluatePermissions(context.Background(), req, pctx)
	if check.Result != PermMissingUserPermissions {
		t.Errorf("result = %v, want missing user permissions", check.Result)
	}
}

func TestPermissionsOwnerOnly(t *testing.T) {
	req := command.Requirements{OwnerOnly: true}

	if check := EvaluatePermissions(context.Background(), req, &PermContext{}); check.Result != PermNotOwner {
		t.Errorf("non-owner result = %v, want not owner", check.Result)
	}
	if check := EvaluatePermissions(context.Background(), req, &PermContext{IsOwner: true}); check.Result != PermAllowed {
		t.Errorf("owner result = %v, want allowed", check.Result)
	}
}

func TestPermissionsVoteGate(t *testing.T) {
	req := command.Requirements{VoteRequired: true}

	tests := []struct {
		name  string
		pctx  *PermContext
		wants PermissionResult
	}{
		{"voted", &PermContext{Votes: &stubVotes{voted: true}}, PermAllowed},
		{"not voted", &PermContext{Votes: &stubVotes{}}, PermVoteRequired},
		{"checker error fails open", &PermContext{Votes: &stubVotes{err: errors.New("api down")}}, PermAllowed},
		{"no checker fails open", &PermContext{}, PermAllowed},
		{"owner bypasses", &PermContext{IsOwner: true, Votes: &stubVotes{}}, PermAllowed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			check := EvaluatePermissions(context.Background(), req, tt.pctx)
			if check.Result != tt.wants {
				t.Errorf("result = %v, want %v", check.Result, tt.wants)
			}
		})
	}
}

func TestPermissionsDJ(t *testing.T) {
	req := command.Requirements{DJ: true}
	djSettings := func(mode bool, roles ...string) *storage.GuildSettings {
		s := storage.DefaultSettings()
		s.DJMode = mode
		s.DJRoles = roles
		return s
	}

	tests := []struct {
		name  string
		pctx  *PermContext
		wants PermissionResult
	}{
		{
			"no config, no fallback",
			&PermContext{Settings: nil},
			PermNotDJ,
		},
		{
			"no config, mute-members fallback",
			&PermContext{UserPermissions: discordgo.PermissionVoiceMuteMembers},
			PermAllowed,
		},
		{
			"no config, admin fallback",
			&PermContext{UserPermissions: discordgo.PermissionAdministrator},
			PermAllowed,
		},
		{
			"mode on, holds dj role",
			&PermContext{RoleIDs: []string{"r1", "r2"}, Settings: djSettings(true, "r2")},
			PermAllowed,
		},
		{
			"mode on, wrong role, no fallback",
			&PermContext{RoleIDs: []string{"r1"}, Settings: djSettings(true, "r9")},
			PermNotDJ,
		},
		{
			"mode on, wrong role, fallback saves",
			&PermContext{
				UserPermissions: discordgo.PermissionManageGuild,
				RoleIDs:         []string{"r1"},
				Settings:        djSettings(true, "r9"),
			},
			PermAllowed,
		},
		{
			"roles configured, mode off",
			&PermContext{RoleIDs: []string{"r1"}, Settings: djSettings(false, "r9")},
			PermAllowed,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			check := EvaluatePermissions(context.Background(), req, tt.pctx)
			if check.Result != tt.wants {
				t.Errorf("result = %v, want %v", check.Result, tt.wants)
			}
		})
	}
}

func TestPermissionsDJOverrideBit(t *testing.T) {
	req := command.Requirements{DJ: true, DJPermission: discordgo.PermissionManageMessages}

	pctx := &PermContext{UserPermissions: discordgo.PermissionManageMessages}
	if check := EvaluatePermissions(context.Background(), req, pctx); check.Result != PermAllowed {
		t.Errorf("result = %v, want allowed with override bit", check.Result)
	}

	// The default fallback bits no longer apply once overridden.
	pctx = &PermContext{UserPermissions: discordgo.PermissionVoiceMuteMembers}
	if check := EvaluatePermissions(context.Background(), req, pctx); check.Result != PermNotDJ {
		t.Errorf("result = %v, want not dj", check.Result)
	}
}

func TestPermissionNameFallback(t *testing.T) {
	if got := PermissionName(discordgo.PermissionVoiceSpeak); got != "Speak" {
		t.Errorf("name = %q, want Speak", got)
	}
	if got := PermissionName(1 << 40); got != "0x10000000000" {
		t.Errorf("name = %q, want hex fallback", got)
	}
}
