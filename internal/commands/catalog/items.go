// Package catalog implements commands that browse the static game
// catalogs.
package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/tarakania/rpg-bot/internal/command"
	"github.com/tarakania/rpg-bot/internal/parser"
	"github.com/tarakania/rpg-bot/pkg/util"
)

func init() {
	command.RegisterRunner("items", command.Runner{Run: runItems})
}

func runItems(ctx context.Context, c *command.Context, args *parser.Arguments) (string, error) {
	items := c.Catalogs.Items()
	if len(items) == 0 {
		return "No items are defined", nil
	}

	var lines []string
	for _, item := range items {
		lines = append(lines, fmt.Sprintf("%3d %s", item.ID, item.Name))
	}
	return util.CodeblockTruncated(strings.Join(lines, "\n"), 2000), nil
}
