package inventory

import (
	"context"
	"errors"
	"fmt"

	"github.com/tarakania/rpg-bot/internal/command"
	"github.com/tarakania/rpg-bot/internal/parser"
	"github.com/tarakania/rpg-bot/internal/player"
	"github.com/tarakania/rpg-bot/internal/rpg"
)

func init() {
	command.RegisterRunner("get", command.Runner{Run: runGet})
	command.RegisterRunner("remove", command.Runner{Run: runRemove})
}

// runGet grants an item out of thin air. Owner only, for testing the
// economy.
func runGet(ctx context.Context, c *command.Context, args *parser.Arguments) (string, error) {
	p, refusal, err := ownPlayer(ctx, c)
	if err != nil || refusal != "" {
		return refusal, err
	}

	item := args.Get(0).(rpg.Item)
	if err := c.Players.AddItem(ctx, p, item); err != nil {
		return "", err
	}
	return fmt.Sprintf("Added **%s**", item.Name), nil
}

func runRemove(ctx context.Context, c *command.Context, args *parser.Arguments) (string, error) {
	p, refusal, err := ownPlayer(ctx, c)
	if err != nil || refusal != "" {
		return refusal, err
	}

	item := args.Get(0).(rpg.Item)

	err = c.Players.RemoveItem(ctx, p, item)
	if errors.Is(err, player.ErrItemNotFound) {
		return fmt.Sprintf("Your inventory has no **%s**", item.Name), nil
	}
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Removed **%s**", item.Name), nil
}
