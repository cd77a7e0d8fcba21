package inventory

import (
	"context"
	"fmt"
	"strings"

	"github.com/tarakania/rpg-bot/internal/command"
	"github.com/tarakania/rpg-bot/internal/parser"
	"github.com/tarakania/rpg-bot/internal/player"
	"github.com/tarakania/rpg-bot/pkg/util"
)

func init() {
	command.RegisterRunner("equipment", command.Runner{Run: runEquipment})
}

func runEquipment(ctx context.Context, c *command.Context, args *parser.Arguments) (string, error) {
	p, refusal, err := ownPlayer(ctx, c)
	if err != nil || refusal != "" {
		return refusal, err
	}

	eq, err := c.Players.EquipmentByID(ctx, p.DiscordID)
	if err != nil {
		return "", err
	}

	var lines []string
	for _, slot := range player.Slots {
		value := "-"
		if id := eq.Slot(slot); id != nil {
			item, err := c.Catalogs.ItemByID(*id)
			if err == nil {
				value = item.String()
			}
		}
		lines = append(lines, fmt.Sprintf("%-10s: %s", slot, value))
	}
	return util.Codeblock(strings.Join(lines, "\n")), nil
}
