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
	command.RegisterRunner("equip", command.Runner{Run: runEquip})
	command.RegisterRunner("unequip", command.Runner{Run: runUnequip})
}

func runEquip(ctx context.Context, c *command.Context, args *parser.Arguments) (string, error) {
	p, refusal, err := ownPlayer(ctx, c)
	if err != nil || refusal != "" {
		return refusal, err
	}

	item := args.Get(0).(rpg.Item)

	replaced, err := c.Players.Equip(ctx, p, item, c.Catalogs)
	switch {
	case errors.Is(err, player.ErrItemNotFound):
		return fmt.Sprintf("Your inventory has no **%s**", item.Name), nil
	case errors.Is(err, player.ErrItemUnequippable):
		return fmt.Sprintf("**%s** cannot be equipped", item.Name), nil
	case errors.Is(err, player.ErrItemAlreadyEquipped):
		return fmt.Sprintf("**%s** is already equipped", item.Name), nil
	case err != nil:
		return "", err
	}

	if replaced == nil {
		return fmt.Sprintf("Equipped **%s**", item.Name), nil
	}
	return fmt.Sprintf("Replaced **%s** with **%s**", replaced.Name, item.Name), nil
}

func runUnequip(ctx context.Context, c *command.Context, args *parser.Arguments) (string, error) {
	p, refusal, err := ownPlayer(ctx, c)
	if err != nil || refusal != "" {
		return refusal, err
	}

	item := args.Get(0).(rpg.Item)

	err = c.Players.Unequip(ctx, p, item)
	if errors.Is(err, player.ErrItemNotEquipped) {
		return fmt.Sprintf("**%s** is not equipped", item.Name), nil
	}
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Unequipped **%s**", item.Name), nil
}
