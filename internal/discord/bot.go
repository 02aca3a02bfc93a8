package discord

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"

	"melobot/internal/command"
	"melobot/internal/config"
	"melobot/internal/dispatch"
	"melobot/internal/lavalink"
	"melobot/internal/player"
	"melobot/internal/storage"
	"melobot/internal/vote"
)

// Bot owns the gateway session and wires interactions into the
// dispatcher and player events into the synchronizer.
type Bot struct {
	cfg      *config.Config
	store    *storage.Storage
	registry *command.Registry

	mu         sync.RWMutex
	dg         *discordgo.Session
	node       *lavalink.Node
	players    player.Manager
	dispatcher *dispatch.Dispatcher
	npSync     *Synchronizer
}

// NewBot builds a bot around an already-populated command registry.
func NewBot(cfg *config.Config, store *storage.Storage, registry *command.Registry) *Bot {
	return &Bot{cfg: cfg, store: store, registry: registry}
}

// Run opens the gateway, connects the audio node and blocks until the
// context is cancelled.
func (b *Bot) Run(ctx context.Context) error {
	dg, err := discordgo.New("Bot " + b.cfg.DiscordToken)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	b.mu.Lock()
	b.dg = dg
	b.mu.Unlock()

	dg.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsGuildVoiceStates

	dg.AddHandler(b.onReady)
	dg.AddHandler(b.onInteractionCreate)
	dg.AddHandler(b.onGuildCreate)
	dg.AddHandler(b.onVoiceServerUpdate)
	dg.AddHandler(b.onVoiceStateUpdate)

	if err := dg.Open(); err != nil {
		return fmt.Errorf("failed to open Discord session: %w", err)
	}
	defer dg.Close()

	node, err := lavalink.Connect(ctx, lavalink.Options{
		Host:     b.cfg.LavalinkHost,
		Port:     b.cfg.LavalinkPort,
		Password: b.cfg.LavalinkPassword,
		Secure:   b.cfg.LavalinkSecure,
		UserID:   dg.State.User.ID,
	})
	if err != nil {
		return fmt.Errorf("failed to connect audio node: %w", err)
	}
	defer node.Close()

	npSync := NewSynchronizer(dg, b.store, Timings{
		NowPlayingBuffer: b.cfg.NowPlayingBuffer,
		QueueNoticeTTL:   b.cfg.QueueNoticeTTL,
		IdleDisconnect:   b.cfg.IdleDisconnect,
	})
	players := npSync.Manager(node)

	var votes vote.Checker
	if b.cfg.TopggToken != "" {
		votes = vote.NewClient(b.cfg.TopggToken, dg.State.User.ID)
	}

	b.mu.Lock()
	b.node = node
	b.npSync = npSync
	b.players = players
	b.dispatcher = dispatch.New(
		b.registry,
		dispatch.NewLedger(),
		b.store,
		votes,
		players,
		SessionPermissions{S: dg},
		SessionVoiceStates{S: dg},
		b.cfg.OwnerIDs,
	)
	b.mu.Unlock()

	<-ctx.Done()
	log.Println("[INFO] Shutdown signal received. Cleaning up...")
	return nil
}

// onReady enforces the guild blacklist and registers slash commands.
func (b *Bot) onReady(s *discordgo.Session, r *discordgo.Ready) {
	for _, g := range r.Guilds {
		if b.store.IsGuildBlacklisted(g.ID) {
			log.Printf("[INFO] Leaving blacklisted guild: %s", g.ID)
			if err := s.GuildLeave(g.ID); err != nil {
				log.Printf("[ERR] Failed to leave guild %s: %v", g.ID, err)
			}
			continue
		}

		if b.cfg.InitSlashCommands {
			if err := b.registerCommands(g.ID); err != nil {
				log.Printf("[ERR] Failed to register slash commands for guild %s: %v", g.ID, err)
			}
		}
	}
	if !b.cfg.InitSlashCommands {
		log.Println("[INFO] Registering slash commands skipped")
	}

	log.Printf("[INFO] Discord bot %v is running.", s.State.User.Username)
}

func (b *Bot) onGuildCreate(s *discordgo.Session, g *discordgo.GuildCreate) {
	log.Printf("[INFO] Bot added to guild: %s (%s)", g.Guild.ID, g.Guild.Name)

	if b.store.IsGuildBlacklisted(g.Guild.ID) {
		log.Printf("[INFO] Leaving blacklisted guild: %s (%s)", g.Guild.ID, g.Guild.Name)
		if err := s.GuildLeave(g.Guild.ID); err != nil {
			log.Printf("[ERR] Failed to leave guild %s: %v", g.Guild.ID, err)
		}
		return
	}

	if b.cfg.InitSlashCommands {
		if err := b.registerCommands(g.Guild.ID); err != nil {
			log.Printf("[ERR] Failed to register commands for new guild %s: %v", g.Guild.ID, err)
		}
	}
}

func (b *Bot) onInteractionCreate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	b.mu.RLock()
	dispatcher := b.dispatcher
	players := b.players
	b.mu.RUnlock()
	if dispatcher == nil {
		// Interaction arrived before startup finished wiring.
		return
	}

	cctx := &command.Context{
		Session: s,
		Event:   i,
		Replier: NewReplier(s, i),
		Store:   b.store,
		Players: players,
	}

	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		dispatcher.Handle(context.Background(), cctx)
	case discordgo.InteractionMessageComponent:
		dispatcher.HandleComponent(context.Background(), cctx)
	}
}

// onVoiceServerUpdate forwards voice credentials to the audio node.
func (b *Bot) onVoiceServerUpdate(s *discordgo.Session, e *discordgo.VoiceServerUpdate) {
	b.mu.RLock()
	node := b.node
	b.mu.RUnlock()
	if node != nil {
		node.HandleVoiceServerUpdate(e.GuildID, e.Token, e.Endpoint)
	}
}

// onVoiceStateUpdate forwards the bot's own voice session to the node.
func (b *Bot) onVoiceStateUpdate(s *discordgo.Session, e *discordgo.VoiceStateUpdate) {
	if e.UserID != s.State.User.ID {
		return
	}
	b.mu.RLock()
	node := b.node
	b.mu.RUnlock()
	if node != nil {
		node.HandleVoiceStateUpdate(e.GuildID, e.SessionID, e.ChannelID)
	}
}

// registerCommands reconciles the guild's slash commands with the
// registry: obsolete ones are deleted, the rest recreated. Creates are
// throttled to stay under the application-command rate limit.
func (b *Bot) registerCommands(guildID string) error {
	b.mu.RLock()
	dg := b.dg
	b.mu.RUnlock()

	appID := dg.State.User.ID

	var wanted []*discordgo.ApplicationCommand
	names := make(map[string]bool)
	for _, cmd := range b.registry.All() {
		slash, ok := cmd.(command.SlashProvider)
		if !ok {
			continue
		}
		def := slash.SlashDefinition()
		if def == nil {
			continue
		}
		if def.Type == 0 {
			def.Type = discordgo.ChatApplicationCommand
		}
		wanted = append(wanted, def)
		names[def.Name] = true
	}

	existing, _ := dg.ApplicationCommands(appID, guildID)
	for _, old := range existing {
		if !names[old.Name] {
			log.Printf("[INFO] [%s] Deleting obsolete command: %s", guildID, old.Name)
			if err := dg.ApplicationCommandDelete(appID, guildID, old.ID); err != nil {
				log.Printf("[ERR] [%s] Failed to delete %s: %v", guildID, old.Name, err)
			}
		}
	}

	ticker := time.NewTicker(time.Second / 40)
	defer ticker.Stop()
	for _, def := range wanted {
		<-ticker.C
		if _, err := dg.ApplicationCommandCreate(appID, guildID, def); err != nil {
			log.Printf("[ERR] [%s] Can't create command %s: %v", guildID, def.Name, err)
		}
	}
	return nil
}
