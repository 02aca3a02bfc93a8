package music

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"

	"melobot/internal/command"
	"melobot/internal/player"
)

type PlayCommand struct{}

func (c *PlayCommand) Name() string                       { return "play" }
func (c *PlayCommand) Description() string                { return "Play a track or playlist by name or URL" }
func (c *PlayCommand) Category() string                   { return categoryMusic }
func (c *PlayCommand) Cooldown() time.Duration            { return 0 }
func (c *PlayCommand) Requirements() command.Requirements { return command.Requirements{} }
func (c *PlayCommand) Voice() command.VoiceRequirements {
	return command.VoiceRequirements{NeedsCaller: true}
}

func (c *PlayCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "query",
				Description: "Track name or URL",
				Required:    true,
			},
		},
	}
}

func (c *PlayCommand) Run(ctx *command.Context) error {
	// Search can be slow, claim the reply slot first.
	if err := ctx.Replier.Defer(); err != nil {
		return err
	}

	query := ctx.StringOption("query")
	result, err := ctx.Players.Search(context.Background(), query, ctx.UserID())
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}
	if result.Type == player.SearchTypeEmpty || len(result.Tracks) == 0 {
		return ctx.Replier.Edit(fmt.Sprintf("No results for `%s`.", query))
	}

	sess, err := ensureSession(ctx)
	if err != nil {
		return err
	}

	queue := sess.Queue()
	var reply string
	if result.Type == player.SearchTypePlaylist {
		for _, t := range result.Tracks {
			queue.Add(t)
		}
		reply = fmt.Sprintf("Queued **%d** tracks from **%s**.", len(result.Tracks), result.PlaylistName)
	} else {
		t := result.Tracks[0]
		queue.Add(t)
		reply = fmt.Sprintf("Queued [%s](%s) `%s`.", t.Title, t.URI, t.FormatLength())
	}

	if !sess.Playing() {
		if err := sess.Play(); err != nil {
			return fmt.Errorf("failed to start playback: %w", err)
		}
	}

	return ctx.Replier.Edit(reply)
}
