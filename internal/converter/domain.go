package converter

import (
	"context"
	"errors"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/tarakania/rpg-bot/internal/player"
	"github.com/tarakania/rpg-bot/internal/rpg"
)

type playerConverter struct{ base }

func newPlayer(spec Spec) (Converter, error) {
	b, err := newBase(spec)
	if err != nil {
		return nil, err
	}
	return &playerConverter{b}, nil
}

func (c *playerConverter) Convert(ctx context.Context, env *Env, value string) (any, error) {
	p, err := env.Players.ByNick(ctx, value)
	if errors.Is(err, player.ErrUnknownPlayer) {
		return nil, failf(c.spec, value, "no player with nickname **%s**", value)
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// normalizeCatalogName matches the lookup rules for catalog objects:
// lowercase, dashes allowed in place of spaces.
func normalizeCatalogName(value string) string {
	return strings.ReplaceAll(strings.ToLower(value), "-", " ")
}

type itemConverter struct{ base }

func newItem(spec Spec) (Converter, error) {
	b, err := newBase(spec)
	if err != nil {
		return nil, err
	}
	return &itemConverter{b}, nil
}

func (c *itemConverter) Convert(ctx context.Context, env *Env, value string) (any, error) {
	var (
		it  rpg.Item
		err error
	)
	if id, convErr := strconv.Atoi(value); convErr == nil {
		it, err = env.Catalogs.ItemByID(id)
	} else {
		it, err = env.Catalogs.ItemByName(normalizeCatalogName(value))
	}
	if errors.Is(err, rpg.ErrUnknownObject) {
		return nil, failf(c.spec, value, "no such item: **%s**", value)
	}
	if err != nil {
		return nil, err
	}
	return it, nil
}

type raceConverter struct{ base }

func newRace(spec Spec) (Converter, error) {
	b, err := newBase(spec)
	if err != nil {
		return nil, err
	}
	return &raceConverter{b}, nil
}

func (c *raceConverter) Convert(ctx context.Context, env *Env, value string) (any, error) {
	var (
		r   rpg.Race
		err error
	)
	if id, convErr := strconv.Atoi(value); convErr == nil {
		r, err = env.Catalogs.RaceByID(id)
	} else {
		r, err = env.Catalogs.RaceByName(normalizeCatalogName(value))
	}
	if errors.Is(err, rpg.ErrUnknownObject) {
		return nil, failf(c.spec, value, "no such race: **%s**", value)
	}
	if err != nil {
		return nil, err
	}
	return r, nil
}

type classConverter struct{ base }

func newClass(spec Spec) (Converter, error) {
	b, err := newBase(spec)
	if err != nil {
		return nil, err
	}
	return &classConverter{b}, nil
}

func (c *classConverter) Convert(ctx context.Context, env *Env, value string) (any, error) {
	var (
		cl  rpg.Class
		err error
	)
	if id, convErr := strconv.Atoi(value); convErr == nil {
		cl, err = env.Catalogs.ClassByID(id)
	} else {
		cl, err = env.Catalogs.ClassByName(normalizeCatalogName(value))
	}
	if errors.Is(err, rpg.ErrUnknownObject) {
		return nil, failf(c.spec, value, "no such class: **%s**", value)
	}
	if err != nil {
		return nil, err
	}
	return cl, nil
}

type locationConverter struct{ base }

func newLocation(spec Spec) (Converter, error) {
	b, err := newBase(spec)
	if err != nil {
		return nil, err
	}
	return &locationConverter{b}, nil
}

func (c *locationConverter) Convert(ctx context.Context, env *Env, value string) (any, error) {
	var (
		l   rpg.Location
		err error
	)
	if id, convErr := strconv.Atoi(value); convErr == nil {
		l, err = env.Catalogs.LocationByID(id)
	} else {
		l, err = env.Catalogs.LocationByName(normalizeCatalogName(value))
	}
	if errors.Is(err, rpg.ErrUnknownObject) {
		return nil, failf(c.spec, value, "no such location: **%s**", value)
	}
	if err != nil {
		return nil, err
	}
	return l, nil
}

// userMentionOrID matches <@id>, <@!id> or a bare numeric id.
var userMentionOrID = regexp.MustCompile(`^(?:<@!?(\d+)>|\d+)$`)

type userConverter struct{ base }

func newUser(spec Spec) (Converter, error) {
	b, err := newBase(spec)
	if err != nil {
		return nil, err
	}
	return &userConverter{b}, nil
}

// Convert resolves a platform user by mention, id or fuzzy member name
// match within the current guild.
func (c *userConverter) Convert(ctx context.Context, env *Env, value string) (any, error) {
	if m := userMentionOrID.FindStringSubmatch(value); m != nil {
		id := m[1]
		if id == "" {
			id = value
		}
		if env.GuildID != "" {
			if member, err := env.Session.State.Member(env.GuildID, id); err == nil {
				return member.User, nil
			}
		}
		if user, err := env.Session.User(id, discordgo.WithContext(ctx)); err == nil {
			return user, nil
		}
	}

	if env.GuildID == "" {
		return nil, failf(c.spec, value, "user not found")
	}

	guild, err := env.Session.State.Guild(env.GuildID)
	if err != nil {
		return nil, err
	}

	type match struct {
		member *discordgo.Member
		pos    int
	}
	pattern := strings.ToLower(value)
	var found []match

	for _, member := range guild.Members {
		pos := -1
		if member.Nick != "" {
			pos = strings.Index(strings.ToLower(member.Nick), pattern)
		}
		if pos == -1 {
			pos = strings.Index(strings.ToLower(member.User.Username), pattern)
		}
		if pos == -1 {
			continue
		}
		found = append(found, match{member: member, pos: pos})
	}

	if len(found) == 0 {
		return nil, failf(c.spec, value, "user not found")
	}

	// earlier match position wins; earlier guild join breaks ties
	sort.Slice(found, func(i, j int) bool {
		if found[i].pos != found[j].pos {
			return found[i].pos < found[j].pos
		}
		return found[i].member.JoinedAt.Before(found[j].member.JoinedAt)
	})

	return found[0].member.User, nil
}
