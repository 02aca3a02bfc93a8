package config

import (
	"log"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds all runtime settings, populated from the environment.
type Config struct {
	DiscordToken string   `env:"DISCORD_TOKEN,required"`
	StoragePath  string   `env:"STORAGE_PATH" envDefault:"melobot.json"`
	OwnerIDs     []string `env:"OWNER_IDS" envSeparator:","`

	LavalinkHost     string `env:"LAVALINK_HOST" envDefault:"localhost"`
	LavalinkPort     int    `env:"LAVALINK_PORT" envDefault:"2333"`
	LavalinkPassword string `env:"LAVALINK_PASSWORD" envDefault:"youshallnotpass"`
	LavalinkSecure   bool   `env:"LAVALINK_SECURE" envDefault:"false"`

	TopggToken string `env:"TOPGG_TOKEN"`

	InitSlashCommands bool `env:"INIT_SLASH_COMMANDS" envDefault:"true"`

	// Synchronizer timings: the buffer pads the now-playing message
	// lifetime past the track length, the notice TTL controls
	// queue-finished cleanup, the idle delay drives auto-disconnect.
	NowPlayingBuffer time.Duration `env:"NOW_PLAYING_BUFFER" envDefault:"10s"`
	QueueNoticeTTL   time.Duration `env:"QUEUE_NOTICE_TTL" envDefault:"30s"`
	IdleDisconnect   time.Duration `env:"IDLE_DISCONNECT" envDefault:"5m"`
}

// New loads the configuration, preferring a local .env file when present.
func New() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[INFO] No .env file found, falling back to system environment variables")
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		log.Fatalf("[ERR] Failed to parse config: %v", err)
	}
	return cfg
}

// IsOwner reports whether the given user ID is a configured bot owner.
func (c *Config) IsOwner(userID string) bool {
	for _, id := range c.OwnerIDs {
		if id == userID {
			return true
		}
	}
	return false
}
