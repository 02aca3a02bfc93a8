package music

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"melobot/internal/command"
	"melobot/internal/discord"
	"melobot/internal/player"
)

// NowPlayingCommand shows the current track and owns the transport
// buttons attached to the synchronizer's now-playing message.
type NowPlayingCommand struct{}

func (c *NowPlayingCommand) Name() string                       { return "nowplaying" }
func (c *NowPlayingCommand) Description() string                { return "Show the track playing right now" }
func (c *NowPlayingCommand) Category() string                   { return categoryMusic }
func (c *NowPlayingCommand) Cooldown() time.Duration            { return 0 }
func (c *NowPlayingCommand) Requirements() command.Requirements { return command.Requirements{} }
func (c *NowPlayingCommand) Voice() command.VoiceRequirements {
	return command.VoiceRequirements{NeedsActivePlayer: true}
}

func (c *NowPlayingCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{Name: c.Name(), Description: c.Description()}
}

func (c *NowPlayingCommand) Run(ctx *command.Context) error {
	sess, err := mustSession(ctx)
	if err != nil {
		return err
	}
	current := sess.Queue().Current()
	if current == nil {
		return ctx.Replier.ReplyEphemeral("Nothing is playing right now!")
	}

	state := "Playing"
	if sess.Paused() {
		state = "Paused"
	}
	return ctx.Replier.ReplyEmbed(&discordgo.MessageEmbed{
		Title:       state,
		Description: fmt.Sprintf("[%s](%s)\nby %s", current.Title, current.URI, current.Author),
		Thumbnail:   &discordgo.MessageEmbedThumbnail{URL: current.ArtworkURL},
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Duration", Value: current.FormatLength(), Inline: true},
			{Name: "Requested by", Value: fmt.Sprintf("<@%s>", current.RequesterID), Inline: true},
		},
	})
}

// Component handles the now-playing transport buttons. The dispatcher
// has already run the permission and voice gates.
func (c *NowPlayingCommand) Component(ctx *command.Context, customID string) error {
	sess, err := mustSession(ctx)
	if err != nil {
		return err
	}

	switch customID {
	case discord.ControlPauseID:
		paused := !sess.Paused()
		if err := sess.Pause(paused); err != nil {
			return err
		}
		if paused {
			return ctx.Replier.ReplyEphemeral("Paused.")
		}
		return ctx.Replier.ReplyEphemeral("Resumed.")

	case discord.ControlSkipID:
		if err := sess.Skip(); err != nil {
			if errors.Is(err, player.ErrNoTracksInQueue) {
				return ctx.Replier.ReplyEphemeral("Nothing left in the queue to skip to.")
			}
			return err
		}
		return ctx.Replier.ReplyEphemeral("Skipped.")

	case discord.ControlStopID:
		if err := sess.Stop(); err != nil {
			return err
		}
		return ctx.Replier.ReplyEphemeral("Stopped playback and cleared the queue.")

	case discord.ControlQueueID:
		return ctx.Replier.ReplyEmbed(queueEmbed(sess))

	default:
		return fmt.Errorf("unknown control %q", strings.TrimSpace(customID))
	}
}
