package catalog

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/tarakania/rpg-bot/internal/command"
	"github.com/tarakania/rpg-bot/internal/parser"
	"github.com/tarakania/rpg-bot/internal/rpg"
	"github.com/tarakania/rpg-bot/pkg/util"
)

func init() {
	command.RegisterRunner("item", command.Runner{Run: runItem})
}

func runItem(ctx context.Context, c *command.Context, args *parser.Arguments) (string, error) {
	item := args.Get(0).(rpg.Item)

	lines := []string{
		fmt.Sprintf("id:   %d", item.ID),
		fmt.Sprintf("name: %s", item.Name),
		fmt.Sprintf("kind: %s", item.Kind),
	}

	switch item.Kind {
	case rpg.ItemWeapon:
		lines = append(lines, fmt.Sprintf("damage: %s", item.Damage))
		if item.Ammo != nil {
			lines = append(lines, fmt.Sprintf("ammo:   %d", *item.Ammo))
		}
	case rpg.ItemArmor:
		lines = append(lines, fmt.Sprintf("slot: %s", item.Slot))
	case rpg.ItemConsumable:
		if item.Effect != "" {
			lines = append(lines, fmt.Sprintf("effect: %s", item.Effect))
		}
	}

	if len(item.Modifiers) > 0 {
		names := make([]string, 0, len(item.Modifiers))
		for name := range item.Modifiers {
			names = append(names, name)
		}
		sort.Strings(names)

		lines = append(lines, "modifiers:")
		for _, name := range names {
			lines = append(lines, fmt.Sprintf("  %s: %+d", name, item.Modifiers[name]))
		}
	}

	return util.Codeblock(strings.Join(lines, "\n")), nil
}
