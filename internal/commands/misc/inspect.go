package misc

import (
	"context"
	"fmt"
	"time"

	"github.com/tarakania/rpg-bot/internal/command"
	"github.com/tarakania/rpg-bot/internal/parser"
	"github.com/tarakania/rpg-bot/pkg/util"
)

func init() {
	command.RegisterRunner("inspect", command.Runner{Run: runInspect})
}

// runInspect dumps the resolved invocation, useful when debugging
// prefix or argument handling.
func runInspect(ctx context.Context, c *command.Context, args *parser.Arguments) (string, error) {
	guild := c.GuildID()
	if guild == "" {
		guild = "(direct message)"
	}

	return util.Codeblock(fmt.Sprintf(
		"time:      %s\nprefix:    %s\nalias:     %s\narguments: %d\nauthor:    %s (%s)\nguild:     %s",
		time.Now().UTC().Format(time.RFC3339),
		c.Prefix,
		c.Alias,
		args.Len(),
		c.Author().Username, c.Author().ID,
		guild,
	)), nil
}
