// Package command holds the command registry: declarative descriptors
// read from YAML files, executable runners registered by command
// packages, and the alias-keyed lookup table with single-command hot
// reload.
package command

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/tarakania/rpg-bot/internal/converter"
)

// Descriptor is the declarative half of a command, read from its YAML
// file. Immutable once loaded; a reload builds a fresh one.
type Descriptor struct {
	Name      string           `yaml:"-"`
	Aliases   stringList       `yaml:"aliases"`
	ShortHelp string           `yaml:"short_help"`
	LongHelp  string           `yaml:"long_help"`
	Hidden    *bool            `yaml:"hidden"`
	GuildOnly bool             `yaml:"guild_only"`
	OwnerOnly bool             `yaml:"owner_only"`
	Arguments []converter.Spec `yaml:"arguments"`
}

// stringList accepts either a single YAML string or a sequence.
type stringList []string

func (s *stringList) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		var one string
		if err := node.Decode(&one); err != nil {
			return err
		}
		*s = []string{one}
		return nil
	}
	var many []string
	if err := node.Decode(&many); err != nil {
		return err
	}
	*s = many
	return nil
}

// ReadDescriptor loads and validates the descriptor at path. The command
// name is the file stem.
func ReadDescriptor(path string) (*Descriptor, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read descriptor: %w", err)
	}

	d := &Descriptor{}
	if err := yaml.Unmarshal(raw, d); err != nil {
		return nil, fmt.Errorf("parse descriptor: %w", err)
	}

	d.Name = strings.ToLower(strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)))
	if err := d.validate(); err != nil {
		return nil, fmt.Errorf("descriptor %s: %w", d.Name, err)
	}
	return d, nil
}

func (d *Descriptor) validate() error {
	if d.ShortHelp == "" {
		d.ShortHelp = "no description"
	}
	// owner-only commands are hidden unless the descriptor says otherwise
	if d.Hidden == nil {
		hidden := d.OwnerOnly
		d.Hidden = &hidden
	}

	seen := map[string]struct{}{d.Name: {}}
	for _, alias := range d.Aliases {
		lower := strings.ToLower(alias)
		if _, dup := seen[lower]; dup {
			return fmt.Errorf("alias %q declared twice", alias)
		}
		seen[lower] = struct{}{}
	}

	for i, spec := range d.Arguments {
		if err := spec.Validate(); err != nil {
			return err
		}
		if spec.Greedy && i != len(d.Arguments)-1 {
			return fmt.Errorf("parameter %q: only the final parameter may be greedy", spec.DisplayName)
		}
	}
	return nil
}

// AllAliases returns the canonical name followed by the extra aliases,
// all lowercase.
func (d *Descriptor) AllAliases() []string {
	out := make([]string, 0, len(d.Aliases)+1)
	out = append(out, d.Name)
	for _, alias := range d.Aliases {
		out = append(out, strings.ToLower(alias))
	}
	return out
}
