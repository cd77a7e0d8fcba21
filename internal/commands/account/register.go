// Package account implements character lifecycle commands: register,
// delete and profile.
package account

import (
	"context"
	"errors"
	"fmt"

	"github.com/tarakania/rpg-bot/internal/command"
	"github.com/tarakania/rpg-bot/internal/parser"
	"github.com/tarakania/rpg-bot/internal/player"
	"github.com/tarakania/rpg-bot/internal/rpg"
)

const (
	minNickLength = 1
	maxNickLength = 128
)

func init() {
	command.RegisterRunner("register", command.Runner{Run: runRegister})
}

func runRegister(ctx context.Context, c *command.Context, args *parser.Arguments) (string, error) {
	nick := args.String(0)
	if len(nick) < minNickLength || len(nick) > maxNickLength {
		return fmt.Sprintf(
			"Character name must be between **%d** and **%d** characters long.\nYours is **%d**",
			minNickLength, maxNickLength, len(nick)), nil
	}

	race := args.Get(1).(rpg.Race)
	class := args.Get(2).(rpg.Class)

	_, err := c.Players.Create(ctx, c.Author().ID, nick, race, class, race.StartLocation)
	if errors.Is(err, player.ErrNickOrIDUsed) {
		return "A character with that name already exists or you already have one", nil
	}
	if err != nil {
		return "", err
	}

	return "Character created", nil
}
