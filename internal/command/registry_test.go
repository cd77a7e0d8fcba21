package command

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tarakania/rpg-bot/internal/converter"
	"github.com/tarakania/rpg-bot/internal/parser"
)

func writeDescriptor(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name+".yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func testRegistry(t *testing.T, dir string) *Registry {
	t.Helper()
	return NewRegistry(dir, converter.NewDefault(zerolog.Nop()), zerolog.Nop())
}

func noopRunner() Runner {
	return Runner{Run: func(ctx context.Context, c *Context, args *parser.Arguments) (string, error) {
		return "ok", nil
	}}
}

func TestLoadAndGet(t *testing.T) {
	dir := t.TempDir()
	writeDescriptor(t, dir, "greet", `
aliases: [hello, HI]
short_help: say hello
arguments:
  - name: nick
    type: string
  - name: amount
    type: integer
    optional: true
    default: 1
`)
	RegisterRunner("greet", noopRunner())

	registry := testRegistry(t, dir)
	require.NoError(t, registry.LoadAll(context.Background()))

	cmd, ok := registry.Get("greet")
	require.True(t, ok)
	assert.Equal(t, "greet", cmd.Name())
	assert.Equal(t, []string{"greet", "hello", "hi"}, cmd.Aliases())
	assert.Equal(t, "say hello", cmd.ShortHelp())
	assert.False(t, cmd.Hidden())
	assert.Len(t, cmd.Converters(), 2)

	// aliases answer too, case-insensitively
	for _, alias := range []string{"hello", "HI", "Greet"} {
		got, ok := registry.Get(alias)
		require.True(t, ok, alias)
		assert.Same(t, cmd, got)
	}

	assert.Equal(t, "!(greet|hello|hi) <nick> [amount=1]", cmd.Usage("!"))
}

func TestLoadWithoutRunnerFails(t *testing.T) {
	dir := t.TempDir()
	path := writeDescriptor(t, dir, "orphaned", "short_help: nothing to run\n")

	registry := testRegistry(t, dir)
	_, err := registry.Load(context.Background(), path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no runner registered")
}

func TestOwnerOnlyDefaultsHidden(t *testing.T) {
	dir := t.TempDir()
	path := writeDescriptor(t, dir, "secret", "owner_only: true\n")
	RegisterRunner("secret", noopRunner())

	registry := testRegistry(t, dir)
	cmd, err := registry.Load(context.Background(), path)
	require.NoError(t, err)
	assert.True(t, cmd.Hidden())
	assert.True(t, cmd.OwnerOnly())
	assert.Equal(t, "no description", cmd.ShortHelp())

	assert.Empty(t, registry.All(false))
	assert.Len(t, registry.All(true), 1)
}

func TestReloadSwapsAliases(t *testing.T) {
	dir := t.TempDir()
	path := writeDescriptor(t, dir, "swap", "aliases: [before]\nshort_help: v1\n")
	RegisterRunner("swap", noopRunner())

	registry := testRegistry(t, dir)
	_, err := registry.Load(context.Background(), path)
	require.NoError(t, err)

	writeDescriptor(t, dir, "swap", "aliases: [after]\nshort_help: v2\n")
	reloaded, err := registry.Reload(context.Background(), "swap")
	require.NoError(t, err)
	assert.Equal(t, "v2", reloaded.ShortHelp())

	_, ok := registry.Get("before")
	assert.False(t, ok, "old alias must be dropped")
	got, ok := registry.Get("after")
	require.True(t, ok)
	assert.Same(t, reloaded, got)
}

func TestReloadFailureKeepsOldCommand(t *testing.T) {
	dir := t.TempDir()
	path := writeDescriptor(t, dir, "sturdy", "short_help: works\n")
	RegisterRunner("sturdy", noopRunner())

	registry := testRegistry(t, dir)
	old, err := registry.Load(context.Background(), path)
	require.NoError(t, err)

	// a descriptor that fails validation
	writeDescriptor(t, dir, "sturdy", `
arguments:
  - name: broken
`)
	_, err = registry.Reload(context.Background(), "sturdy")
	require.Error(t, err)

	got, ok := registry.Get("sturdy")
	require.True(t, ok, "the old command must keep answering")
	assert.Same(t, old, got)
}

func TestReloadRunsHooks(t *testing.T) {
	dir := t.TempDir()
	path := writeDescriptor(t, dir, "hooked", "short_help: hooks\n")

	var inits, unloads int
	RegisterRunner("hooked", Runner{
		Run: func(ctx context.Context, c *Context, args *parser.Arguments) (string, error) {
			return "", nil
		},
		Init:   func(ctx context.Context) error { inits++; return nil },
		Unload: func(ctx context.Context) error { unloads++; return nil },
	})

	registry := testRegistry(t, dir)
	_, err := registry.Load(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, 1, inits)

	_, err = registry.Reload(context.Background(), "hooked")
	require.NoError(t, err)
	assert.Equal(t, 2, inits)
	assert.Equal(t, 1, unloads)
}

func TestDescriptorRejectsMisdeclaredArguments(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		content string
	}{
		{"required with default", `
arguments:
  - name: x
    type: string
    default: y
`},
		{"greedy not final", `
arguments:
  - name: x
    type: string
    greedy: true
  - name: y
    type: string
`},
		{"duplicate alias", "aliases: [dup, DUP]\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeDescriptor(t, dir, "bad", tt.content)
			_, err := ReadDescriptor(path)
			assert.Error(t, err)
		})
	}
}
