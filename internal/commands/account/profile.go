package account

import (
	"context"
	"errors"
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/tarakania/rpg-bot/internal/command"
	"github.com/tarakania/rpg-bot/internal/parser"
	"github.com/tarakania/rpg-bot/internal/player"
)

func init() {
	command.RegisterRunner("profile", command.Runner{Run: runProfile})
}

func runProfile(ctx context.Context, c *command.Context, args *parser.Arguments) (string, error) {
	var subject *player.Player
	if args.Len() == 0 {
		var err error
		subject, err = c.Players.ByID(ctx, c.Author().ID)
		if errors.Is(err, player.ErrUnknownPlayer) {
			return "You do not have a character", nil
		}
		if err != nil {
			return "", err
		}
	} else {
		subject = args.Get(0).(*player.Player)
	}

	race, err := c.Catalogs.RaceByID(subject.RaceID)
	if err != nil {
		return "", err
	}
	class, err := c.Catalogs.ClassByID(subject.ClassID)
	if err != nil {
		return "", err
	}
	location, err := c.Catalogs.LocationByID(subject.LocationID)
	if err != nil {
		return "", err
	}

	embed := &discordgo.MessageEmbed{
		Title: "Character information",
		Author: &discordgo.MessageEmbedAuthor{Name: subject.Nick},
		Description: fmt.Sprintf(
			"Race: **%s**\nClass: **%s**\nLocation: **%s**\nLevel: **%d**\nXP to next level: **%d**\nMoney: **%d**\nInventory size: **%d**",
			race.Name, class.Name, location.Name,
			subject.Level(), subject.XPToNextLevel(), subject.Money, len(subject.Inventory),
		),
	}

	msg, err := c.Session.ChannelMessageSendEmbed(c.Message.ChannelID, embed, discordgo.WithContext(ctx))
	if err != nil {
		return "", err
	}
	if err := c.Ledger.RecordMessage(ctx, c.Message.ID, msg.ChannelID, msg.ID); err != nil {
		c.Log.Warn().Err(err).Str("message", msg.ID).Msg("failed to record response")
	}
	return "", nil
}
