package command

import (
	"context"
	"fmt"
	"strings"

	"github.com/tarakania/rpg-bot/internal/converter"
	"github.com/tarakania/rpg-bot/internal/parser"
)

// Command pairs an immutable descriptor with its converters and bound
// runner. Replaced wholesale on reload, never mutated in place.
type Command struct {
	desc       *Descriptor
	path       string
	converters []converter.Converter
	runner     Runner
}

// Name returns the canonical lowercase command name.
func (c *Command) Name() string { return c.desc.Name }

// Aliases returns every name the command answers to.
func (c *Command) Aliases() []string { return c.desc.AllAliases() }

// ShortHelp returns the one-line description.
func (c *Command) ShortHelp() string { return c.desc.ShortHelp }

// LongHelp returns the extended description, possibly empty.
func (c *Command) LongHelp() string { return c.desc.LongHelp }

// Hidden reports whether the command is omitted from listings.
func (c *Command) Hidden() bool { return *c.desc.Hidden }

// GuildOnly reports whether the command requires a guild context.
func (c *Command) GuildOnly() bool { return c.desc.GuildOnly }

// OwnerOnly reports whether only bot owners may run the command.
func (c *Command) OwnerOnly() bool { return c.desc.OwnerOnly }

// Converters returns the parameter converters in declaration order.
func (c *Command) Converters() []converter.Converter { return c.converters }

// Usage renders the invocation rule, e.g. "!(gift|give) <player> <item...>".
func (c *Command) Usage(prefix string) string {
	aliases := c.Aliases()
	name := aliases[0]
	if len(aliases) > 1 {
		name = "(" + strings.Join(aliases, "|") + ")"
	}

	parts := make([]string, 0, len(c.converters)+1)
	parts = append(parts, prefix+name)
	for _, conv := range c.converters {
		parts = append(parts, conv.Spec().Usage())
	}
	return strings.Join(parts, " ")
}

// Help renders the full help page for the command.
func (c *Command) Help(prefix string) string {
	help := fmt.Sprintf("```\n%s\n\n%s```", c.Usage(prefix), c.ShortHelp())
	if c.LongHelp() != "" {
		help += "\n" + c.LongHelp()
	}
	return help
}

// Run executes the bound runner.
func (c *Command) Run(ctx context.Context, invocation *Context, args *parser.Arguments) (string, error) {
	return c.runner.Run(ctx, invocation, args)
}
