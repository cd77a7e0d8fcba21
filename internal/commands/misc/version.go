package misc

import (
	"context"
	"fmt"

	"github.com/tarakania/rpg-bot/internal/command"
	"github.com/tarakania/rpg-bot/internal/parser"
	"github.com/tarakania/rpg-bot/internal/version"
	"github.com/tarakania/rpg-bot/pkg/util"
)

func init() {
	command.RegisterRunner("version", command.Runner{Run: runVersion})
}

func runVersion(ctx context.Context, c *command.Context, args *parser.Arguments) (string, error) {
	return fmt.Sprintf("Running **%s %s**:%s",
		version.AppName, version.Version,
		util.Codeblock(fmt.Sprintf(
			"commit:     %s\nbuild date: %s\ngo version: %s",
			version.Commit, version.BuildDate, version.GoVersion,
		))), nil
}
