package account

import (
	"context"
	"errors"

	"github.com/tarakania/rpg-bot/internal/command"
	"github.com/tarakania/rpg-bot/internal/parser"
	"github.com/tarakania/rpg-bot/internal/player"
)

func init() {
	command.RegisterRunner("delete", command.Runner{Run: runDelete})
}

func runDelete(ctx context.Context, c *command.Context, args *parser.Arguments) (string, error) {
	err := c.Players.Delete(ctx, c.Author().ID)
	if errors.Is(err, player.ErrUnknownPlayer) {
		return "You do not have a character", nil
	}
	if err != nil {
		return "", err
	}
	return "Your character has been deleted", nil
}
