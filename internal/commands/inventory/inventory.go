// Package inventory implements the item management commands:
// inventory and equipment listings, equip/unequip, item grants and
// gifting between characters.
package inventory

import (
	"context"
	"errors"
	"strings"

	"github.com/tarakania/rpg-bot/internal/command"
	"github.com/tarakania/rpg-bot/internal/parser"
	"github.com/tarakania/rpg-bot/internal/player"
	"github.com/tarakania/rpg-bot/pkg/util"
)

func init() {
	command.RegisterRunner("inventory", command.Runner{Run: runInventory})
}

// ownPlayer loads the invoking user's character. The string return is
// the user-facing refusal when they have none.
func ownPlayer(ctx context.Context, c *command.Context) (*player.Player, string, error) {
	p, err := c.Players.ByID(ctx, c.Author().ID)
	if errors.Is(err, player.ErrUnknownPlayer) {
		return nil, "You do not have a character", nil
	}
	if err != nil {
		return nil, "", err
	}
	return p, "", nil
}

func runInventory(ctx context.Context, c *command.Context, args *parser.Arguments) (string, error) {
	p, refusal, err := ownPlayer(ctx, c)
	if err != nil || refusal != "" {
		return refusal, err
	}

	if len(p.Inventory) == 0 {
		return "Your inventory is empty", nil
	}

	var lines []string
	for _, id := range p.Inventory {
		item, err := c.Catalogs.ItemByID(id)
		if err != nil {
			c.Log.Warn().Int("item", id).Msg("inventory references unknown item")
			continue
		}
		lines = append(lines, item.String())
	}
	return util.CodeblockTruncated(strings.Join(lines, "\n"), 2000), nil
}
