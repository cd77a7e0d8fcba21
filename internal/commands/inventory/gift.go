package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/tarakania/rpg-bot/internal/command"
	"github.com/tarakania/rpg-bot/internal/parser"
	"github.com/tarakania/rpg-bot/internal/player"
	"github.com/tarakania/rpg-bot/internal/rpg"
)

const confirmationTimeout = 30 * time.Second

const (
	emojiConfirm = "✅"
	emojiDecline = "❌"
)

func init() {
	command.RegisterRunner("gift", command.Runner{Run: runGift})
}

func runGift(ctx context.Context, c *command.Context, args *parser.Arguments) (string, error) {
	giver, refusal, err := ownPlayer(ctx, c)
	if err != nil || refusal != "" {
		return refusal, err
	}

	item := args.Get(0).(rpg.Item)
	recipient := args.Get(1).(*player.Player)

	if giver.DiscordID == recipient.DiscordID {
		return "You cannot gift items to yourself", nil
	}

	fromEquipment := false
	if !giver.HasItem(item.ID) {
		eq, err := c.Players.EquipmentByID(ctx, giver.DiscordID)
		if err != nil {
			return "", err
		}
		if !eq.Contains(item.ID) {
			return fmt.Sprintf("Your inventory and equipment have no **%s**", item.Name), nil
		}
		fromEquipment = true
	}

	request, err := c.Send(ctx, fmt.Sprintf(
		"Do you really want to give **%s** to **%s**?", item.Name, recipient.Nick))
	if err != nil {
		return "", err
	}

	confirmed, err := awaitConfirmation(ctx, c, request)
	if err != nil {
		return "", err
	}
	if !confirmed {
		_, err = c.Session.ChannelMessageEdit(request.ChannelID, request.ID,
			"You did not confirm the transfer", discordgo.WithContext(ctx))
		return "", err
	}

	if fromEquipment {
		if err := c.Players.Unequip(ctx, giver, item); err != nil {
			return "", err
		}
	}
	if err := c.Players.RemoveItem(ctx, giver, item); err != nil {
		return "", err
	}
	if err := c.Players.AddItem(ctx, recipient, item); err != nil {
		return "", err
	}

	suffix := ""
	if fromEquipment {
		suffix = " from their equipment"
	}
	_, err = c.Session.ChannelMessageEdit(request.ChannelID, request.ID,
		fmt.Sprintf("**%s** gave **%s** to **%s**%s", giver.Nick, item.Name, recipient.Nick, suffix),
		discordgo.WithContext(ctx))
	return "", err
}

// awaitConfirmation reacts to the request with confirm/decline emojis
// and waits for the invoking user to pick one. Timing out counts as a
// decline.
func awaitConfirmation(ctx context.Context, c *command.Context, request *discordgo.Message) (bool, error) {
	for _, emoji := range []string{emojiConfirm, emojiDecline} {
		if err := c.Session.MessageReactionAdd(request.ChannelID, request.ID, emoji, discordgo.WithContext(ctx)); err != nil {
			return false, err
		}
	}

	answer := make(chan bool, 1)
	remove := c.Session.AddHandler(func(s *discordgo.Session, r *discordgo.MessageReactionAdd) {
		if r.MessageID != request.ID || r.UserID != c.Author().ID {
			return
		}
		switch r.Emoji.Name {
		case emojiConfirm:
			select {
			case answer <- true:
			default:
			}
		case emojiDecline:
			select {
			case answer <- false:
			default:
			}
		}
	})
	defer remove()

	select {
	case confirmed := <-answer:
		return confirmed, nil
	case <-time.After(confirmationTimeout):
		return false, nil
	case <-ctx.Done():
		return false, ctx.Err()
	}
}
