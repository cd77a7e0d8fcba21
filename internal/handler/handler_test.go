package handler

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tarakania/rpg-bot/internal/command"
	"github.com/tarakania/rpg-bot/internal/converter"
	"github.com/tarakania/rpg-bot/internal/parser"
)

func loadCommand(t *testing.T, name, descriptor string) *command.Command {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, name+".yaml")
	require.NoError(t, os.WriteFile(path, []byte(descriptor), 0o644))

	command.RegisterRunner(name, command.Runner{
		Run: func(ctx context.Context, c *command.Context, args *parser.Arguments) (string, error) {
			return "", nil
		},
	})

	registry := command.NewRegistry(dir, converter.NewDefault(zerolog.Nop()), zerolog.Nop())
	cmd, err := registry.Load(context.Background(), path)
	require.NoError(t, err)
	return cmd
}

func testHandler(isOwner func(string) bool) *Handler {
	return New(nil, NewPrefixTable("!", nil), nil, nil, nil, nil, isOwner, zerolog.Nop())
}

func message(guildID, authorID string) *discordgo.Message {
	return &discordgo.Message{
		ID:      "msg1",
		GuildID: guildID,
		Author:  &discordgo.User{ID: authorID},
	}
}

func TestCheckCommandGuildOnly(t *testing.T) {
	cmd := loadCommand(t, "guildish", "guild_only: true\n")
	h := testHandler(func(string) bool { return false })

	reason, ok := h.checkCommand(cmd, message("", "user1"))
	assert.False(t, ok)
	assert.Contains(t, reason, "guildish")
	assert.Contains(t, reason, "server")

	_, ok = h.checkCommand(cmd, message("guild1", "user1"))
	assert.True(t, ok)
}

func TestCheckCommandOwnerOnly(t *testing.T) {
	cmd := loadCommand(t, "owned", "owner_only: true\n")
	h := testHandler(func(id string) bool { return id == "the-owner" })

	reason, ok := h.checkCommand(cmd, message("guild1", "user1"))
	assert.False(t, ok)
	assert.Contains(t, reason, "owner")

	_, ok = h.checkCommand(cmd, message("guild1", "the-owner"))
	assert.True(t, ok)
}

func TestCancelCommand(t *testing.T) {
	h := testHandler(func(string) bool { return false })

	assert.False(t, h.CancelCommand("unknown"), "nothing running")

	ctx, cancel := context.WithCancel(context.Background())
	h.track("msg1", cancel)
	assert.Equal(t, 1, h.Running())

	assert.True(t, h.CancelCommand("msg1"))
	assert.Error(t, ctx.Err(), "tracked context must be cancelled")
	assert.Equal(t, 0, h.Running())

	assert.False(t, h.CancelCommand("msg1"), "second cancel is a no-op")
}

func TestUntrackCancels(t *testing.T) {
	h := testHandler(func(string) bool { return false })

	ctx, cancel := context.WithCancel(context.Background())
	h.track("msg1", cancel)
	h.untrack("msg1")

	assert.Error(t, ctx.Err())
	assert.Equal(t, 0, h.Running())
}
