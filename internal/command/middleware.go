package command

import (
	"log"

	"github.com/bwmarrin/discordgo"
)

// Middleware wraps a command (e.g. logging). The wrapped value remains
// a Command; provider interfaces are forwarded to the inner command.
type Middleware func(Command) Command

// Apply applies middlewares in order; the first in the list is the outermost.
func Apply(c Command, mws ...Middleware) Command {
	for _, mw := range mws {
		c = mw(c)
	}
	return c
}

type wrappedCommand struct {
	Command
	wrap func(ctx *Context) error
}

func (w *wrappedCommand) Run(ctx *Context) error {
	if w.wrap != nil {
		return w.wrap(ctx)
	}
	return w.Command.Run(ctx)
}

func (w *wrappedCommand) SlashDefinition() *discordgo.ApplicationCommand {
	if sp, ok := w.Command.(SlashProvider); ok {
		return sp.SlashDefinition()
	}
	return nil
}

func (w *wrappedCommand) Component(ctx *Context, customID string) error {
	if ch, ok := w.Command.(ComponentHandler); ok {
		return ch.Component(ctx, customID)
	}
	return nil
}

// WithCommandLogger wraps a command to log each invocation.
func WithCommandLogger() Middleware {
	return func(cmd Command) Command {
		return &wrappedCommand{
			Command: cmd,
			wrap: func(ctx *Context) error {
				err := cmd.Run(ctx)
				if err != nil {
					log.Printf("[WARN] Command /%s by %s in guild %s failed: %v",
						cmd.Name(), ctx.UserID(), ctx.Event.GuildID, err)
				} else {
					log.Printf("[INFO] Command /%s by %s in guild %s",
						cmd.Name(), ctx.UserID(), ctx.Event.GuildID)
				}
				return err
			},
		}
	}
}
