package storage

import (
	"path/filepath"
	"testing"
)

func newTestStorage(t *testing.T) *Storage {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "test.json"))
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSettingsDefaults(t *testing.T) {
	s := newTestStorage(t)

	settings, err := s.Settings("guild-1")
	if err != nil {
		t.Fatalf("Settings() error: %v", err)
	}
	if settings.Prefix != "!" {
		t.Errorf("default prefix = %q, want %q", settings.Prefix, "!")
	}
	if settings.Volume != 80 {
		t.Errorf("default volume = %d, want 80", settings.Volume)
	}
	if settings.DJMode {
		t.Error("DJ mode should default to off")
	}
}

func TestSaveSettingsRoundTrip(t *testing.T) {
	s := newTestStorage(t)

	settings, err := s.Settings("guild-1")
	if err != nil {
		t.Fatalf("Settings() error: %v", err)
	}
	settings.Prefix = "?"
	settings.TwentyFourSeven = true
	if err := s.SaveSettings("guild-1", settings); err != nil {
		t.Fatalf("SaveSettings() error: %v", err)
	}

	got, err := s.Settings("guild-1")
	if err != nil {
		t.Fatalf("Settings() error: %v", err)
	}
	if got.Prefix != "?" {
		t.Errorf("prefix = %q, want %q", got.Prefix, "?")
	}
	if !got.TwentyFourSeven {
		t.Error("24/7 flag was not persisted")
	}
}

func TestDJRoles(t *testing.T) {
	s := newTestStorage(t)

	if err := s.AddDJRole("guild-1", "role-a"); err != nil {
		t.Fatalf("AddDJRole() error: %v", err)
	}
	if err := s.AddDJRole("guild-1", "role-a"); err != nil {
		t.Fatalf("AddDJRole() duplicate error: %v", err)
	}
	if err := s.AddDJRole("guild-1", "role-b"); err != nil {
		t.Fatalf("AddDJRole() error: %v", err)
	}

	settings, _ := s.Settings("guild-1")
	if len(settings.DJRoles) != 2 {
		t.Fatalf("DJ roles = %v, want 2 entries", settings.DJRoles)
	}

	if err := s.RemoveDJRole("guild-1", "role-a"); err != nil {
		t.Fatalf("RemoveDJRole() error: %v", err)
	}
	settings, _ = s.Settings("guild-1")
	if len(settings.DJRoles) != 1 || settings.DJRoles[0] != "role-b" {
		t.Errorf("DJ roles = %v, want [role-b]", settings.DJRoles)
	}
}

func TestBlacklist(t *testing.T) {
	s := newTestStorage(t)

	if s.IsUserBlacklisted("user-1") {
		t.Error("fresh store should have no blacklisted users")
	}
	if err := s.BlacklistUser("user-1", true); err != nil {
		t.Fatalf("BlacklistUser() error: %v", err)
	}
	if !s.IsUserBlacklisted("user-1") {
		t.Error("user-1 should be blacklisted")
	}
	if err := s.BlacklistUser("user-1", false); err != nil {
		t.Fatalf("BlacklistUser() error: %v", err)
	}
	if s.IsUserBlacklisted("user-1") {
		t.Error("user-1 should no longer be blacklisted")
	}
}

func TestIgnoredChannels(t *testing.T) {
	s := newTestStorage(t)

	if err := s.SetChannelIgnored("guild-1", "chan-1", true); err != nil {
		t.Fatalf("SetChannelIgnored() error: %v", err)
	}
	if !s.IsChannelIgnored("guild-1", "chan-1") {
		t.Error("chan-1 should be ignored")
	}
	if s.IsChannelIgnored("guild-1", "chan-2") {
		t.Error("chan-2 should not be ignored")
	}
	if err := s.SetChannelIgnored("guild-1", "chan-1", false); err != nil {
		t.Fatalf("SetChannelIgnored() error: %v", err)
	}
	if s.IsChannelIgnored("guild-1", "chan-1") {
		t.Error("chan-1 should no longer be ignored")
	}
}
