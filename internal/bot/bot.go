// Package bot owns the Discord session: login, gateway event routing
// and the post-login initialization (prefix patterns, command load,
// file watcher).
package bot

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"

	"github.com/tarakania/rpg-bot/internal/command"
	"github.com/tarakania/rpg-bot/internal/config"
	"github.com/tarakania/rpg-bot/internal/handler"
)

// Bot is the Discord bot.
type Bot struct {
	session  *discordgo.Session
	cfg      *config.Config
	registry *command.Registry
	handler  *handler.Handler
	prefixes *handler.PrefixTable
	onReady  func(ctx context.Context)
	log      zerolog.Logger

	runCtx context.Context
}

// New creates a bot over its collaborators. onReady, when non-nil, runs
// once after the first successful login (used for boot notifications).
func New(
	cfg *config.Config,
	registry *command.Registry,
	dispatcher *handler.Handler,
	prefixes *handler.PrefixTable,
	onReady func(ctx context.Context),
	log zerolog.Logger,
) (*Bot, error) {
	session, err := discordgo.New("Bot " + cfg.DiscordToken)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	b := &Bot{
		session:  session,
		cfg:      cfg,
		registry: registry,
		handler:  dispatcher,
		prefixes: prefixes,
		onReady:  onReady,
		log:      log,
	}

	session.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMembers |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsDirectMessages |
		discordgo.IntentsMessageContent

	session.AddHandler(b.handleReady)
	session.AddHandler(b.handleMessageCreate)
	session.AddHandler(b.handleMessageUpdate)
	session.AddHandler(b.handleMessageDelete)

	return b, nil
}

// Session exposes the underlying Discord session.
func (b *Bot) Session() *discordgo.Session { return b.session }

// Run opens the gateway connection and blocks until ctx is cancelled.
func (b *Bot) Run(ctx context.Context) error {
	b.runCtx = ctx

	if err := b.session.Open(); err != nil {
		return fmt.Errorf("open gateway connection: %w", err)
	}
	defer b.session.Close()

	<-ctx.Done()
	b.log.Info().Msg("shutdown signal received, closing gateway connection")
	return nil
}

func (b *Bot) handleReady(s *discordgo.Session, r *discordgo.Ready) {
	ctx := b.runCtx
	if ctx == nil {
		ctx = context.Background()
	}

	b.log.Info().
		Str("user", r.User.Username).
		Str("id", r.User.ID).
		Int("guilds", len(r.Guilds)).
		Msg("logged in")

	if err := b.prefixes.Prepare(r.User.ID); err != nil {
		b.log.Error().Err(err).Msg("failed to prepare prefixes")
	}

	if err := b.registry.LoadAll(ctx); err != nil {
		b.log.Error().Err(err).Msg("failed to load commands")
	}

	if b.onReady != nil {
		b.onReady(ctx)
		b.onReady = nil
	}
}

func (b *Bot) handleMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	b.handler.HandleMessage(b.eventCtx(), s, m.Message)
}

func (b *Bot) handleMessageUpdate(s *discordgo.Session, m *discordgo.MessageUpdate) {
	// author is absent on embed-only updates
	if m.Author == nil {
		return
	}
	b.handler.HandleMessageEdit(b.eventCtx(), s, m.Message)
}

func (b *Bot) handleMessageDelete(s *discordgo.Session, m *discordgo.MessageDelete) {
	b.handler.HandleMessageDelete(b.eventCtx(), s, m.ID)
}

// Notify sends content to the configured update channel; used for
// restart and boot notifications.
func (b *Bot) Notify(ctx context.Context, content string) {
	if b.cfg.UpdateChannelID == "" {
		return
	}
	_, err := b.session.ChannelMessageSend(b.cfg.UpdateChannelID, content, discordgo.WithContext(ctx))
	if err != nil {
		b.log.Warn().Err(err).Str("content", content).Msg("failed to deliver notification")
	}
}

func (b *Bot) eventCtx() context.Context {
	if b.runCtx != nil {
		return b.runCtx
	}
	return context.Background()
}
