package storage

import (
	"encoding/json"
	"fmt"
)

// getOrCreateBlacklist fetches the shared blacklist record.
func (s *Storage) getOrCreateBlacklist() (*blacklistRecord, error) {
	data, exists := s.ds.Get(blacklistKey)
	if !exists {
		record := &blacklistRecord{
			Users:  map[string]bool{},
			Guilds: map[string]bool{},
		}
		s.ds.Add(blacklistKey, record)
		return record, nil
	}

	jsonData, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("error marshalling blacklist: %w", err)
	}

	var record blacklistRecord
	if err := json.Unmarshal(jsonData, &record); err != nil {
		return nil, fmt.Errorf("error unmarshalling blacklist: %w", err)
	}

	if record.Users == nil {
		record.Users = map[string]bool{}
	}
	if record.Guilds == nil {
		record.Guilds = map[string]bool{}
	}

	return &record, nil
}

// IsUserBlacklisted reports whether the user is barred from the bot.
// A storage error reads as not blacklisted; the caller logs and moves on.
func (s *Storage) IsUserBlacklisted(userID string) bool {
	record, err := s.getOrCreateBlacklist()
	if err != nil {
		return false
	}
	return record.Users[userID]
}

// IsGuildBlacklisted reports whether the guild is barred from the bot.
func (s *Storage) IsGuildBlacklisted(guildID string) bool {
	record, err := s.getOrCreateBlacklist()
	if err != nil {
		return false
	}
	return record.Guilds[guildID]
}

// BlacklistUser adds or removes a user from the blacklist.
func (s *Storage) BlacklistUser(userID string, blacklisted bool) error {
	record, err := s.getOrCreateBlacklist()
	if err != nil {
		return err
	}
	if blacklisted {
		record.Users[userID] = true
	} else {
		delete(record.Users, userID)
	}
	s.ds.Add(blacklistKey, record)
	return nil
}

// BlacklistGuild adds or removes a guild from the blacklist.
func (s *Storage) BlacklistGuild(guildID string, blacklisted bool) error {
	record, err := s.getOrCreateBlacklist()
	if err != nil {
		return err
	}
	if blacklisted {
		record.Guilds[guildID] = true
	} else {
		delete(record.Guilds, guildID)
	}
	s.ds.Add(blacklistKey, record)
	return nil
}
