package music

import (
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"melobot/internal/command"
	"melobot/internal/player"
)

const queuePageSize = 10

type QueueCommand struct{}

func (c *QueueCommand) Name() string                       { return "queue" }
func (c *QueueCommand) Description() string                { return "Show the current queue" }
func (c *QueueCommand) Category() string                   { return categoryMusic }
func (c *QueueCommand) Cooldown() time.Duration            { return 0 }
func (c *QueueCommand) Requirements() command.Requirements { return command.Requirements{} }
func (c *QueueCommand) Voice() command.VoiceRequirements {
	return command.VoiceRequirements{NeedsActivePlayer: true}
}

func (c *QueueCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{Name: c.Name(), Description: c.Description()}
}

func (c *QueueCommand) Run(ctx *command.Context) error {
	sess, err := mustSession(ctx)
	if err != nil {
		return err
	}
	return ctx.Replier.ReplyEmbed(queueEmbed(sess))
}

func queueEmbed(sess player.Session) *discordgo.MessageEmbed {
	var sb strings.Builder

	if current := sess.Queue().Current(); current != nil {
		fmt.Fprintf(&sb, "**Now:** [%s](%s) `%s`\n\n", current.Title, current.URI, current.FormatLength())
	}

	tracks := sess.Queue().Tracks()
	if len(tracks) == 0 {
		sb.WriteString("The queue is empty.")
	}
	for i, t := range tracks {
		if i == queuePageSize {
			fmt.Fprintf(&sb, "... and %d more", len(tracks)-queuePageSize)
			break
		}
		fmt.Fprintf(&sb, "`%d.` [%s](%s) `%s`\n", i+1, t.Title, t.URI, t.FormatLength())
	}

	footer := fmt.Sprintf("%d tracks | loop: %s | volume: %d%%",
		len(tracks), sess.Loop(), sess.Volume())
	return &discordgo.MessageEmbed{
		Title:       "Queue",
		Description: sb.String(),
		Footer:      &discordgo.MessageEmbedFooter{Text: footer},
	}
}
