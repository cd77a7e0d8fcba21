package handler

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"strings"
	"sync"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"

	"github.com/tarakania/rpg-bot/internal/command"
	"github.com/tarakania/rpg-bot/internal/converter"
	"github.com/tarakania/rpg-bot/internal/ledger"
	"github.com/tarakania/rpg-bot/internal/parser"
	"github.com/tarakania/rpg-bot/internal/player"
	"github.com/tarakania/rpg-bot/internal/rpg"
	"github.com/tarakania/rpg-bot/pkg/retrylimit"
)

// Handler turns incoming messages into command executions. Each
// execution runs under its own cancellable context keyed by the
// triggering message id, so edits and deletions can interrupt commands
// still in flight.
type Handler struct {
	registry *command.Registry
	prefixes *PrefixTable
	players  *player.Store
	catalogs *rpg.Catalogs
	ledger   *ledger.Ledger
	isOwner  func(userID string) bool
	cooldown *retrylimit.KeyedLimiter
	log      zerolog.Logger

	mu      sync.Mutex
	running map[string]context.CancelFunc
}

// New creates a Handler. isOwner decides who may run owner-only
// commands.
func New(
	registry *command.Registry,
	prefixes *PrefixTable,
	players *player.Store,
	catalogs *rpg.Catalogs,
	responses *ledger.Ledger,
	cooldown *retrylimit.KeyedLimiter,
	isOwner func(userID string) bool,
	log zerolog.Logger,
) *Handler {
	return &Handler{
		registry: registry,
		prefixes: prefixes,
		players:  players,
		catalogs: catalogs,
		ledger:   responses,
		isOwner:  isOwner,
		cooldown: cooldown,
		log:      log,
		running:  make(map[string]context.CancelFunc),
	}
}

// sessionRetractor undoes responses through the live Discord session.
type sessionRetractor struct {
	s *discordgo.Session
}

func (r sessionRetractor) DeleteMessage(ctx context.Context, channelID, messageID string) error {
	return r.s.ChannelMessageDelete(channelID, messageID, discordgo.WithContext(ctx))
}

func (r sessionRetractor) RemoveReaction(ctx context.Context, channelID, messageID, emoji string) error {
	return r.s.MessageReactionRemove(channelID, messageID, emoji, "@me", discordgo.WithContext(ctx))
}

// HandleMessage processes one incoming message end to end: prefix
// separation, command resolution, checks, argument conversion and
// execution. Non-command messages return immediately.
func (h *Handler) HandleMessage(ctx context.Context, s *discordgo.Session, msg *discordgo.Message) {
	if msg.Author == nil || msg.Author.Bot {
		return
	}

	_, alias, tail, ok := h.prefixes.Separate(msg.Content, msg.GuildID)
	if !ok {
		return
	}

	cmd, ok := h.registry.Get(strings.ToLower(alias))
	if !ok {
		return
	}

	if h.cooldown != nil && !h.cooldown.Allow(msg.Author.ID) {
		h.log.Debug().Str("user", msg.Author.ID).Str("command", cmd.Name()).
			Msg("command dropped by cooldown")
		return
	}

	runCtx, cancel := context.WithCancel(ctx)
	h.track(msg.ID, cancel)
	defer h.untrack(msg.ID)

	invocation := &command.Context{
		Session:  s,
		Message:  msg,
		Command:  cmd,
		Prefix:   h.prefixes.LocalPrefix(msg.GuildID),
		Alias:    strings.ToLower(alias),
		Registry: h.registry,
		Players:  h.players,
		Catalogs: h.catalogs,
		Ledger:   h.ledger,
		Prefixes: h.prefixes,
		IsOwner:  h.isOwner,
		Log:      h.log.With().Str("command", cmd.Name()).Logger(),
	}

	if reason, ok := h.checkCommand(cmd, msg); !ok {
		h.respond(ctx, invocation, reason)
		return
	}

	args, err := parser.Parse(tail)
	if err == nil {
		env := &converter.Env{
			GuildID:  msg.GuildID,
			Session:  s,
			Commands: h.registry,
			Players:  h.players,
			Catalogs: h.catalogs,
			Log:      invocation.Log,
		}
		err = args.Convert(runCtx, env, cmd.Converters())
	}
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		if parser.IsParseError(err) {
			h.respond(ctx, invocation, fmt.Sprintf(
				"Error while processing command **%s**: %s\nUsage: `%s`",
				cmd.Name(), err, cmd.Usage(invocation.Prefix)))
			return
		}
		invocation.Log.Error().Err(err).Msg("argument conversion failed")
		h.respond(ctx, invocation, genericFailure(cmd.Name()))
		return
	}

	response, err := h.run(runCtx, invocation, args)
	var stop *command.StopExecution
	switch {
	case errors.As(err, &stop):
		if stop.Message != "" {
			h.respond(ctx, invocation, stop.Message)
		}
		return
	case errors.Is(err, context.Canceled) || runCtx.Err() != nil:
		invocation.Log.Debug().Str("message", msg.ID).Msg("command cancelled")
		return
	case err != nil:
		invocation.Log.Error().Err(err).Str("message", msg.ID).Msg("command failed")
		h.respond(ctx, invocation, genericFailure(cmd.Name()))
		return
	}

	if response != "" {
		h.respond(ctx, invocation, response)
	}
}

// run executes the command body, converting panics into errors so one
// broken command cannot take the whole dispatcher down.
func (h *Handler) run(ctx context.Context, invocation *command.Context, args *parser.Arguments) (response string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v\n%s", r, debug.Stack())
		}
	}()
	return invocation.Command.Run(ctx, invocation, args)
}

// checkCommand applies the descriptor's scope checks.
func (h *Handler) checkCommand(cmd *command.Command, msg *discordgo.Message) (reason string, ok bool) {
	if cmd.GuildOnly() && msg.GuildID == "" {
		return fmt.Sprintf("Command **%s** can only be used in a server", cmd.Name()), false
	}
	if cmd.OwnerOnly() && !h.isOwner(msg.Author.ID) {
		return fmt.Sprintf("Command **%s** can only be used by the bot owner", cmd.Name()), false
	}
	return "", true
}

func (h *Handler) respond(ctx context.Context, invocation *command.Context, content string) {
	if _, err := invocation.Send(ctx, content); err != nil {
		invocation.Log.Warn().Err(err).Msg("failed to send response")
	}
}

func genericFailure(name string) string {
	return fmt.Sprintf("Error while running command **%s**. This incident has been reported", name)
}

// HandleMessageEdit reprocesses an edited message: the in-flight
// execution (if any) is cancelled, earlier responses are retracted and
// the new content is dispatched as if just received.
func (h *Handler) HandleMessageEdit(ctx context.Context, s *discordgo.Session, msg *discordgo.Message) {
	if msg.Author == nil || msg.Author.Bot {
		return
	}
	h.CancelCommand(msg.ID)
	h.retract(ctx, s, msg.ID)
	h.HandleMessage(ctx, s, msg)
}

// HandleMessageDelete cancels any execution still running for the
// deleted message and retracts its recorded responses.
func (h *Handler) HandleMessageDelete(ctx context.Context, s *discordgo.Session, messageID string) {
	h.CancelCommand(messageID)
	h.retract(ctx, s, messageID)
}

// CancelCommand cancels the running execution for a message, if any.
func (h *Handler) CancelCommand(messageID string) bool {
	h.mu.Lock()
	cancel, ok := h.running[messageID]
	delete(h.running, messageID)
	h.mu.Unlock()
	if ok {
		cancel()
	}
	return ok
}

// Running reports how many commands are currently executing.
func (h *Handler) Running() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.running)
}

func (h *Handler) retract(ctx context.Context, s *discordgo.Session, sourceID string) {
	if err := h.ledger.RetractAll(ctx, sourceID, sessionRetractor{s}); err != nil {
		h.log.Warn().Err(err).Str("message", sourceID).Msg("failed to retract responses")
	}
}

func (h *Handler) track(messageID string, cancel context.CancelFunc) {
	h.mu.Lock()
	h.running[messageID] = cancel
	h.mu.Unlock()
}

func (h *Handler) untrack(messageID string) {
	h.mu.Lock()
	cancel, ok := h.running[messageID]
	delete(h.running, messageID)
	h.mu.Unlock()
	if ok {
		cancel()
	}
}
