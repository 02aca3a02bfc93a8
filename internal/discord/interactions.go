package discord

import (
	"sync"

	"github.com/bwmarrin/discordgo"
)

const EmbedColor = 0x5865f2

// InteractionReplier wraps one interaction's reply channel. An
// interaction gets exactly one initial reply or deferral; everything
// after that goes out as a follow-up. The wrapper enforces that, so a
// handler double-replying degrades to a follow-up instead of an API error.
type InteractionReplier struct {
	s *discordgo.Session
	i *discordgo.Interaction

	mu    sync.Mutex
	acked bool
}

func NewReplier(s *discordgo.Session, i *discordgo.InteractionCreate) *InteractionReplier {
	return &InteractionReplier{s: s, i: i.Interaction}
}

// Acked reports whether the initial reply or deferral already happened.
func (r *InteractionReplier) Acked() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.acked
}

func (r *InteractionReplier) Reply(content string) error {
	return r.respond(&discordgo.InteractionResponseData{Content: content})
}

func (r *InteractionReplier) ReplyEphemeral(content string) error {
	return r.respond(&discordgo.InteractionResponseData{
		Content: content,
		Flags:   discordgo.MessageFlagsEphemeral,
	})
}

func (r *InteractionReplier) ReplyEmbed(embed *discordgo.MessageEmbed) error {
	if embed.Color == 0 {
		embed.Color = EmbedColor
	}
	return r.respond(&discordgo.InteractionResponseData{
		Embeds: []*discordgo.MessageEmbed{embed},
	})
}

func (r *InteractionReplier) Defer() error {
	r.mu.Lock()
	if r.acked {
		r.mu.Unlock()
		return nil
	}
	r.acked = true
	r.mu.Unlock()

	return r.s.InteractionRespond(r.i, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
	})
}

// Edit rewrites the initial reply; only valid after Reply or Defer.
func (r *InteractionReplier) Edit(content string) error {
	_, err := r.s.InteractionResponseEdit(r.i, &discordgo.WebhookEdit{
		Content: &content,
	})
	return err
}

func (r *InteractionReplier) EditEmbed(embed *discordgo.MessageEmbed) error {
	if embed.Color == 0 {
		embed.Color = EmbedColor
	}
	embeds := []*discordgo.MessageEmbed{embed}
	_, err := r.s.InteractionResponseEdit(r.i, &discordgo.WebhookEdit{
		Embeds: &embeds,
	})
	return err
}

func (r *InteractionReplier) Followup(content string) error {
	_, err := r.s.FollowupMessageCreate(r.i, true, &discordgo.WebhookParams{
		Content: content,
	})
	return err
}

func (r *InteractionReplier) FollowupEphemeral(content string) error {
	_, err := r.s.FollowupMessageCreate(r.i, true, &discordgo.WebhookParams{
		Content: content,
		Flags:   discordgo.MessageFlagsEphemeral,
	})
	return err
}

// respond sends the initial reply, or a follow-up when one already went out.
func (r *InteractionReplier) respond(data *discordgo.InteractionResponseData) error {
	r.mu.Lock()
	if r.acked {
		r.mu.Unlock()
		_, err := r.s.FollowupMessageCreate(r.i, true, &discordgo.WebhookParams{
			Content: data.Content,
			Embeds:  data.Embeds,
			Flags:   data.Flags,
		})
		return err
	}
	r.acked = true
	r.mu.Unlock()

	return r.s.InteractionRespond(r.i, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: data,
	})
}

func MessageSend(s *discordgo.Session, channelID, content string) (string, error) {
	msg, err := s.ChannelMessageSend(channelID, content)
	if err != nil {
		return "", err
	}
	return msg.ID, nil
}

func MessageEmbed(s *discordgo.Session, channelID string, embed *discordgo.MessageEmbed) (string, error) {
	if embed.Color == 0 {
		embed.Color = EmbedColor
	}
	msg, err := s.ChannelMessageSendEmbed(channelID, embed)
	if err != nil {
		return "", err
	}
	return msg.ID, nil
}
