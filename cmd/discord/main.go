// cmd/discord/main.go
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"melobot/internal/command"
	"melobot/internal/commands/general"
	"melobot/internal/commands/music"
	"melobot/internal/commands/settings"
	"melobot/internal/config"
	"melobot/internal/discord"
	"melobot/internal/storage"
	v "melobot/internal/version"
)

func main() {
	log.Printf("[INFO] Starting %v bot...", v.AppName)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg := config.New()

	store, err := storage.New(cfg.StoragePath)
	if err != nil {
		log.Fatal(err)
	}
	defer store.Close()

	registry := command.NewRegistry()
	logged := command.WithCommandLogger()
	for _, c := range []command.Command{
		&music.PlayCommand{},
		&music.SkipCommand{},
		&music.StopCommand{},
		&music.PauseCommand{},
		&music.ResumeCommand{},
		&music.VolumeCommand{},
		&music.LoopCommand{},
		&music.QueueCommand{},
		&music.NowPlayingCommand{},
		&music.ShuffleCommand{},
		&music.RemoveCommand{},
		&music.ClearQueueCommand{},
		&music.JoinCommand{},
		&music.LeaveCommand{},
		&settings.PrefixCommand{},
		&settings.DJCommand{},
		&settings.TwentyFourSevenCommand{},
		&settings.IgnoreCommand{},
		&settings.LanguageCommand{},
		&general.PingCommand{},
		&general.StatsCommand{},
	} {
		registry.Register(c, logged)
	}

	bot := discord.NewBot(cfg, store, registry)

	errCh := make(chan error, 1)
	go func() {
		if err := bot.Run(ctx); err != nil {
			errCh <- err
		}
		close(errCh)
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	select {
	case s := <-sig:
		log.Printf("[INFO] Received signal %s, shutting down...\n", s)
		cancel()
	case err := <-errCh:
		if err != nil {
			log.Println("[ERR] Discord bot error:", err)
		}
		cancel()
	case <-ctx.Done():
	}

	log.Println("[INFO] Discord bot exited cleanly")
}
