// Package core implements the commands that manage the bot itself:
// help, command reloading and guild prefix configuration.
package core

import (
	"context"
	"fmt"
	"strings"

	"github.com/tarakania/rpg-bot/internal/command"
	"github.com/tarakania/rpg-bot/internal/converter"
	"github.com/tarakania/rpg-bot/internal/parser"
	"github.com/tarakania/rpg-bot/pkg/util"
)

func init() {
	command.RegisterRunner("help", command.Runner{Run: runHelp})
}

func runHelp(ctx context.Context, c *command.Context, args *parser.Arguments) (string, error) {
	if args.Len() == 0 {
		withHidden := c.IsOwner(c.Author().ID)

		var lines []string
		for _, cmd := range c.Registry.All(withHidden) {
			lines = append(lines, fmt.Sprintf("%-12s: %s", cmd.Name(), cmd.ShortHelp()))
		}
		return util.Codeblock(strings.Join(lines, "\n")), nil
	}

	ref := args.Get(0).(converter.CommandRef)
	cmd, ok := ref.(*command.Command)
	if !ok {
		return ref.Usage(c.Prefix), nil
	}
	return cmd.Help(c.Prefix), nil
}
