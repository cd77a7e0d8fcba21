// Package converter turns raw command tokens into typed values. Each
// parameter of a command descriptor names a converter type; the registry
// maps type names to converter factories, registered explicitly at
// startup.
package converter

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"

	"github.com/tarakania/rpg-bot/internal/player"
	"github.com/tarakania/rpg-bot/internal/rpg"
)

// Spec is a single declared parameter, as read from a command
// descriptor file.
type Spec struct {
	DisplayName string `yaml:"name"`
	Type        string `yaml:"type"`
	Optional    bool   `yaml:"optional"`
	Default     any    `yaml:"default"`
	Greedy      bool   `yaml:"greedy"`
}

// DefaultString returns the default value as a raw token, and whether a
// default is declared at all.
func (s Spec) DefaultString() (string, bool) {
	if s.Default == nil {
		return "", false
	}
	return fmt.Sprint(s.Default), true
}

// Usage renders the parameter for a usage string: <required>,
// [optional], trailing "..." for greedy, "=default" when defaulted.
func (s Spec) Usage() string {
	markers := ""
	if s.Greedy {
		markers += "..."
	}
	if def, ok := s.DefaultString(); ok {
		markers += "=" + def
	}
	name := s.DisplayName
	if name == "" {
		name = s.Type
	}
	if s.Optional {
		return "[" + name + markers + "]"
	}
	return "<" + name + markers + ">"
}

// Validate enforces descriptor-level invariants on the parameter.
func (s Spec) Validate() error {
	if s.Type == "" {
		return fmt.Errorf("parameter %q has no type", s.DisplayName)
	}
	if _, ok := s.DefaultString(); ok && !s.Optional {
		return fmt.Errorf("parameter %q: a required parameter can not carry a default value", s.DisplayName)
	}
	return nil
}

// Converter converts one raw token into a typed value. Conversion
// failures meant for the user are returned as *ConvertError; anything
// else is wrapped by the pipeline.
type Converter interface {
	Spec() Spec
	Convert(ctx context.Context, env *Env, value string) (any, error)
}

// Factory builds a converter instance for a declared parameter.
type Factory func(spec Spec) (Converter, error)

// CommandRef is the view of a resolved command the command converter
// returns. The concrete type is the command registry's command.
type CommandRef interface {
	Name() string
	ShortHelp() string
	Hidden() bool
	Usage(prefix string) string
}

// CommandFinder resolves a command alias.
type CommandFinder interface {
	FindCommand(alias string) (CommandRef, bool)
}

// Env carries the collaborators converters may need. Fields not needed
// by the converters a command declares may be left zero.
type Env struct {
	GuildID  string
	Session  *discordgo.Session
	Commands CommandFinder
	Players  *player.Store
	Catalogs *rpg.Catalogs
	Log      zerolog.Logger
}

// base implements Spec() for every converter.
type base struct {
	spec Spec
}

func (b base) Spec() Spec { return b.spec }

func newBase(spec Spec) (base, error) {
	if err := spec.Validate(); err != nil {
		return base{}, err
	}
	return base{spec: spec}, nil
}
