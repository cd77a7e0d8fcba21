// Package misc implements commands without a gameplay role: latency,
// version and invocation diagnostics.
package misc

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/tarakania/rpg-bot/internal/command"
	"github.com/tarakania/rpg-bot/internal/parser"
	"github.com/tarakania/rpg-bot/pkg/util"
)

func init() {
	command.RegisterRunner("ping", command.Runner{Run: runPing})
}

func runPing(ctx context.Context, c *command.Context, args *parser.Arguments) (string, error) {
	received := time.Now()

	msg, err := c.Send(ctx, "Pinging...")
	if err != nil {
		return "", err
	}
	sent := time.Now()

	origin := c.Message.Timestamp
	if c.Message.EditedTimestamp != nil {
		origin = *c.Message.EditedTimestamp
	}

	report := util.Codeblock(fmt.Sprintf(
		"Receive diff: %dms\nMessage send: %dms\nTotal diff:   %dms\nWS latency:   %dms",
		received.Sub(origin).Milliseconds(),
		sent.Sub(received).Milliseconds(),
		msg.Timestamp.Sub(origin).Milliseconds(),
		c.Session.HeartbeatLatency().Milliseconds(),
	))

	_, err = c.Session.ChannelMessageEdit(msg.ChannelID, msg.ID, report, discordgo.WithContext(ctx))
	return "", err
}
