package core

import (
	"context"
	"fmt"

	"github.com/tarakania/rpg-bot/internal/command"
	"github.com/tarakania/rpg-bot/internal/converter"
	"github.com/tarakania/rpg-bot/internal/parser"
)

func init() {
	command.RegisterRunner("reload", command.Runner{Run: runReload})
}

// runReload re-reads the named commands' descriptors and rebinds their
// logic. A failed reload leaves the old command in place.
func runReload(ctx context.Context, c *command.Context, args *parser.Arguments) (string, error) {
	for _, arg := range args.All() {
		name := arg.(converter.CommandRef).Name()

		reloaded, err := c.Registry.Reload(ctx, name)
		if err != nil {
			if _, err := c.Send(ctx, fmt.Sprintf("Error reloading **%s**: %s", name, err)); err != nil {
				return "", err
			}
			continue
		}

		if _, err := c.Send(ctx, fmt.Sprintf("Reloaded command **%s**", reloaded.Name())); err != nil {
			return "", err
		}
	}
	return "", nil
}
