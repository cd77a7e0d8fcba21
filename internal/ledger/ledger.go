// Package ledger records every bot response (message or reaction) tied
// to the source message that caused it, so responses can be retracted
// when the source is edited or deleted. Entries expire on their own
// after RetentionTTL if never consumed.
package ledger

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// RetentionTTL is how long response records are kept for a source
// message that is never edited or deleted.
const RetentionTTL = 24 * time.Hour

// Kind discriminates response entries.
type Kind string

const (
	KindMessage  Kind = "message"
	KindReaction Kind = "reaction"
)

// Entry is one recorded bot response.
type Entry struct {
	Kind      Kind
	ChannelID string
	MessageID string
	Emoji     string // reactions only
}

// encode renders the wire form stored in the list:
// "message:<channel>:<message>" or "reaction:<channel>:<message>:<emoji>".
func (e Entry) encode() string {
	if e.Kind == KindReaction {
		return fmt.Sprintf("%s:%s:%s:%s", KindReaction, e.ChannelID, e.MessageID, e.Emoji)
	}
	return fmt.Sprintf("%s:%s:%s", KindMessage, e.ChannelID, e.MessageID)
}

func decodeEntry(raw string) (Entry, error) {
	parts := strings.SplitN(raw, ":", 4)
	switch {
	case len(parts) >= 3 && parts[0] == string(KindMessage):
		return Entry{Kind: KindMessage, ChannelID: parts[1], MessageID: parts[2]}, nil
	case len(parts) == 4 && parts[0] == string(KindReaction):
		return Entry{Kind: KindReaction, ChannelID: parts[1], MessageID: parts[2], Emoji: parts[3]}, nil
	}
	return Entry{}, fmt.Errorf("malformed ledger entry: %q", raw)
}

// Store is the persistence backend for response lists keyed by source
// message id.
type Store interface {
	// Append adds a value to the end of the key's list and resets its TTL.
	Append(ctx context.Context, key, value string, ttl time.Duration) error
	// Drain returns the key's full list in insertion order and deletes it.
	Drain(ctx context.Context, key string) ([]string, error)
	Close() error
}

// Retractor undoes a single response on the platform.
type Retractor interface {
	DeleteMessage(ctx context.Context, channelID, messageID string) error
	RemoveReaction(ctx context.Context, channelID, messageID, emoji string) error
}

// Ledger is the response ledger over a Store.
type Ledger struct {
	store Store
	log   zerolog.Logger
}

// New creates a Ledger.
func New(store Store, log zerolog.Logger) *Ledger {
	return &Ledger{store: store, log: log.With().Str("component", "ledger").Logger()}
}

func key(sourceID string) string { return "message_responses:" + sourceID }

// RecordMessage records a message sent in response to sourceID.
func (l *Ledger) RecordMessage(ctx context.Context, sourceID, channelID, messageID string) error {
	e := Entry{Kind: KindMessage, ChannelID: channelID, MessageID: messageID}
	return l.store.Append(ctx, key(sourceID), e.encode(), RetentionTTL)
}

// RecordReaction records a reaction added in response to sourceID.
func (l *Ledger) RecordReaction(ctx context.Context, sourceID, channelID, messageID, emoji string) error {
	e := Entry{Kind: KindReaction, ChannelID: channelID, MessageID: messageID, Emoji: emoji}
	return l.store.Append(ctx, key(sourceID), e.encode(), RetentionTTL)
}

// RetractAll undoes every recorded response for sourceID in reverse
// insertion order (a later response may depend on an earlier one still
// existing). Individual undo failures are logged and skipped; they
// never abort the remaining retractions.
func (l *Ledger) RetractAll(ctx context.Context, sourceID string, r Retractor) error {
	raws, err := l.store.Drain(ctx, key(sourceID))
	if err != nil {
		return fmt.Errorf("drain responses: %w", err)
	}

	for i := len(raws) - 1; i >= 0; i-- {
		entry, err := decodeEntry(raws[i])
		if err != nil {
			l.log.Warn().Err(err).Str("source", sourceID).Msg("skipping ledger entry")
			continue
		}

		switch entry.Kind {
		case KindMessage:
			err = r.DeleteMessage(ctx, entry.ChannelID, entry.MessageID)
		case KindReaction:
			err = r.RemoveReaction(ctx, entry.ChannelID, entry.MessageID, entry.Emoji)
		}
		if err != nil {
			l.log.Warn().Err(err).
				Str("source", sourceID).
				Str("kind", string(entry.Kind)).
				Str("message", entry.MessageID).
				Msg("failed to retract response")
		}
	}
	return nil
}
