package command

import (
	"context"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"

	"github.com/tarakania/rpg-bot/internal/ledger"
	"github.com/tarakania/rpg-bot/internal/player"
	"github.com/tarakania/rpg-bot/internal/rpg"
)

// PrefixResolver reports the prefix shown to users in a given guild
// ("" for direct messages uses the default).
type PrefixResolver interface {
	LocalPrefix(guildID string) string
}

// Context carries everything a command runner may need for one
// invocation. Responses sent through it are recorded in the ledger
// against the triggering message.
type Context struct {
	Session *discordgo.Session
	Message *discordgo.Message

	Command *Command
	Prefix  string // the prefix actually used
	Alias   string // the alias actually used

	Registry *Registry
	Players  *player.Store
	Catalogs *rpg.Catalogs
	Ledger   *ledger.Ledger
	Prefixes PrefixResolver
	IsOwner  func(userID string) bool

	Log zerolog.Logger
}

// GuildID returns the guild scope of the invocation, "" in DMs.
func (c *Context) GuildID() string { return c.Message.GuildID }

// Author returns the invoking user.
func (c *Context) Author() *discordgo.User { return c.Message.Author }

// LocalPrefix returns the prefix to show in usage strings.
func (c *Context) LocalPrefix() string {
	return c.Prefixes.LocalPrefix(c.Message.GuildID)
}

// Send sends content to the invoking channel and records it in the
// ledger as a response to the triggering message.
func (c *Context) Send(ctx context.Context, content string) (*discordgo.Message, error) {
	return c.SendTo(ctx, c.Message.ChannelID, content)
}

// SendTo sends content to an arbitrary channel, still recorded against
// the triggering message.
func (c *Context) SendTo(ctx context.Context, channelID, content string) (*discordgo.Message, error) {
	msg, err := c.Session.ChannelMessageSend(channelID, content, discordgo.WithContext(ctx))
	if err != nil {
		return nil, err
	}
	if err := c.Ledger.RecordMessage(ctx, c.Message.ID, msg.ChannelID, msg.ID); err != nil {
		c.Log.Warn().Err(err).Str("message", msg.ID).Msg("failed to record response")
	}
	return msg, nil
}

// React adds a reaction to the triggering message and records it.
func (c *Context) React(ctx context.Context, emoji string) error {
	err := c.Session.MessageReactionAdd(c.Message.ChannelID, c.Message.ID, emoji, discordgo.WithContext(ctx))
	if err != nil {
		return err
	}
	if err := c.Ledger.RecordReaction(ctx, c.Message.ID, c.Message.ChannelID, c.Message.ID, emoji); err != nil {
		c.Log.Warn().Err(err).Str("emoji", emoji).Msg("failed to record reaction")
	}
	return nil
}
