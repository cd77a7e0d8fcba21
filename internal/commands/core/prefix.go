package core

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/tarakania/rpg-bot/internal/command"
	"github.com/tarakania/rpg-bot/internal/parser"
)

const maxPrefixLength = 16

// prefixManager is the write side of the prefix table; the handler's
// table implements it.
type prefixManager interface {
	SetCustom(guildID, prefix string) error
	ClearCustom(guildID string) error
}

func init() {
	command.RegisterRunner("prefix", command.Runner{Run: runPrefix})
}

func runPrefix(ctx context.Context, c *command.Context, args *parser.Arguments) (string, error) {
	if args.Len() == 0 {
		return fmt.Sprintf("Prefix on this server: **%s**", c.LocalPrefix()), nil
	}

	if !canManagePrefix(c) {
		return "Changing the prefix requires the **Manage Server** permission", nil
	}

	manager, ok := c.Prefixes.(prefixManager)
	if !ok {
		return "", fmt.Errorf("prefix store is read-only")
	}

	prefix := strings.ToLower(args.String(0))
	if prefix == "reset" {
		if err := manager.ClearCustom(c.GuildID()); err != nil {
			return "", err
		}
		return fmt.Sprintf("Prefix reset to **%s**", c.LocalPrefix()), nil
	}

	if len(prefix) > maxPrefixLength {
		return fmt.Sprintf("Prefix cannot be longer than **%d** characters", maxPrefixLength), nil
	}

	if err := manager.SetCustom(c.GuildID(), prefix); err != nil {
		return "", err
	}
	return fmt.Sprintf("Prefix on this server set to **%s**", prefix), nil
}

func canManagePrefix(c *command.Context) bool {
	if c.IsOwner(c.Author().ID) {
		return true
	}
	perms, err := c.Session.UserChannelPermissions(c.Author().ID, c.Message.ChannelID)
	if err != nil {
		return false
	}
	return perms&discordgo.PermissionManageServer != 0
}
