// /internal/storage/storage.go
package storage

import (
	"encoding/json"
	"fmt"

	"github.com/keshon/datastore"
)

const blacklistKey = "__blacklist"

// Storage wraps the JSON datastore with typed per-guild records.
// Simple findOne/save/delete semantics, no transactions.
type Storage struct {
	ds *datastore.DataStore
}

// GuildSettings is the persisted per-guild configuration.
type GuildSettings struct {
	Prefix          string   `json:"prefix"`
	DJRoles         []string `json:"dj_roles"`
	DJMode          bool     `json:"dj_mode"`
	IgnoredChannels []string `json:"ignored_channels"`
	Language        string   `json:"language"`
	NoPrefix        bool     `json:"no_prefix"`
	Volume          int      `json:"volume"`
	TwentyFourSeven bool     `json:"twenty_four_seven"`
}

// DefaultSettings returns the settings applied to a guild with no record.
func DefaultSettings() *GuildSettings {
	return &GuildSettings{
		Prefix:   "!",
		Language: "en",
		Volume:   80,
	}
}

// Record is the stored shape for one guild.
type Record struct {
	Settings *GuildSettings `json:"settings"`
}

// blacklistRecord is stored under a reserved key, shared across guilds.
type blacklistRecord struct {
	Users  map[string]bool `json:"users"`
	Guilds map[string]bool `json:"guilds"`
}

func New(filePath string) (*Storage, error) {
	ds, err := datastore.New(filePath)
	if err != nil {
		return nil, err
	}
	return &Storage{ds: ds}, nil
}

func (s *Storage) Close() error {
	return s.ds.Close()
}

// getOrCreateGuildRecord fetches a guild record, creating an empty one if missing.
func (s *Storage) getOrCreateGuildRecord(guildID string) (*Record, error) {
	data, exists := s.ds.Get(guildID)
	if !exists {
		newRecord := &Record{Settings: DefaultSettings()}
		s.ds.Add(guildID, newRecord)
		return newRecord, nil
	}

	jsonData, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("error marshalling data: %w", err)
	}

	var record Record
	if err := json.Unmarshal(jsonData, &record); err != nil {
		return nil, fmt.Errorf("error unmarshalling to *Record: %w", err)
	}

	if record.Settings == nil {
		record.Settings = DefaultSettings()
	}

	return &record, nil
}

// Settings returns the guild's settings, creating defaults on first access.
func (s *Storage) Settings(guildID string) (*GuildSettings, error) {
	record, err := s.getOrCreateGuildRecord(guildID)
	if err != nil {
		return nil, err
	}
	return record.Settings, nil
}

// SaveSettings upserts the guild's settings.
func (s *Storage) SaveSettings(guildID string, settings *GuildSettings) error {
	record, err := s.getOrCreateGuildRecord(guildID)
	if err != nil {
		return err
	}
	record.Settings = settings
	s.ds.Add(guildID, record)
	return nil
}

// DeleteSettings removes everything stored for a guild.
func (s *Storage) DeleteSettings(guildID string) {
	s.ds.Delete(guildID)
}

// SetDJMode toggles DJ mode for a guild.
func (s *Storage) SetDJMode(guildID string, enabled bool) error {
	settings, err := s.Settings(guildID)
	if err != nil {
		return err
	}
	settings.DJMode = enabled
	return s.SaveSettings(guildID, settings)
}

// AddDJRole adds a role to the guild's DJ role list.
func (s *Storage) AddDJRole(guildID, roleID string) error {
	settings, err := s.Settings(guildID)
	if err != nil {
		return err
	}
	for _, id := range settings.DJRoles {
		if id == roleID {
			return nil
		}
	}
	settings.DJRoles = append(settings.DJRoles, roleID)
	return s.SaveSettings(guildID, settings)
}

// RemoveDJRole removes a role from the guild's DJ role list.
func (s *Storage) RemoveDJRole(guildID, roleID string) error {
	settings, err := s.Settings(guildID)
	if err != nil {
		return err
	}
	kept := settings.DJRoles[:0]
	for _, id := range settings.DJRoles {
		if id != roleID {
			kept = append(kept, id)
		}
	}
	settings.DJRoles = kept
	return s.SaveSettings(guildID, settings)
}

// SetVolume persists the default playback volume for a guild.
func (s *Storage) SetVolume(guildID string, volume int) error {
	settings, err := s.Settings(guildID)
	if err != nil {
		return err
	}
	settings.Volume = volume
	return s.SaveSettings(guildID, settings)
}

// SetPrefix changes the guild's text command prefix.
func (s *Storage) SetPrefix(guildID, prefix string) error {
	settings, err := s.Settings(guildID)
	if err != nil {
		return err
	}
	settings.Prefix = prefix
	return s.SaveSettings(guildID, settings)
}

// SetLanguage changes the guild's reply language.
func (s *Storage) SetLanguage(guildID, language string) error {
	settings, err := s.Settings(guildID)
	if err != nil {
		return err
	}
	settings.Language = language
	return s.SaveSettings(guildID, settings)
}

// SetTwentyFourSeven toggles the always-connected mode for a guild.
func (s *Storage) SetTwentyFourSeven(guildID string, enabled bool) error {
	settings, err := s.Settings(guildID)
	if err != nil {
		return err
	}
	settings.TwentyFourSeven = enabled
	return s.SaveSettings(guildID, settings)
}

// TwentyFourSeven reports whether the guild keeps the bot in voice
// after the queue runs out.
func (s *Storage) TwentyFourSeven(guildID string) bool {
	settings, err := s.Settings(guildID)
	if err != nil {
		return false
	}
	return settings.TwentyFourSeven
}

// SetChannelIgnored adds or removes a channel from the ignored set.
func (s *Storage) SetChannelIgnored(guildID, channelID string, ignored bool) error {
	settings, err := s.Settings(guildID)
	if err != nil {
		return err
	}
	kept := settings.IgnoredChannels[:0]
	for _, id := range settings.IgnoredChannels {
		if id != channelID {
			kept = append(kept, id)
		}
	}
	settings.IgnoredChannels = kept
	if ignored {
		settings.IgnoredChannels = append(settings.IgnoredChannels, channelID)
	}
	return s.SaveSettings(guildID, settings)
}

// IsChannelIgnored reports whether commands are ignored in the channel.
func (s *Storage) IsChannelIgnored(guildID, channelID string) bool {
	settings, err := s.Settings(guildID)
	if err != nil {
		return false
	}
	for _, id := range settings.IgnoredChannels {
		if id == channelID {
			return true
		}
	}
	return false
}
