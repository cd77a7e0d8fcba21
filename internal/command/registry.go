package command

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/tarakania/rpg-bot/internal/converter"
)

// Registry is the alias-keyed command lookup table. Reads are frequent
// (every inbound message); mutation happens only at startup and on
// operator-triggered reloads, so a single RWMutex guards the table.
//
// Alias collisions follow a last-loaded-wins policy: loading a command
// whose alias is already taken rebinds that alias to the newer command.
type Registry struct {
	mu       sync.RWMutex
	commands map[string]*Command // alias -> command

	dir        string
	converters *converter.Registry
	log        zerolog.Logger
}

// NewRegistry creates an empty registry that discovers descriptors
// under dir.
func NewRegistry(dir string, converters *converter.Registry, log zerolog.Logger) *Registry {
	return &Registry{
		commands:   make(map[string]*Command),
		dir:        dir,
		converters: converters,
		log:        log.With().Str("component", "commands").Logger(),
	}
}

// build constructs a complete, validated command from a descriptor file
// without touching the lookup table.
func (r *Registry) build(path string) (*Command, error) {
	desc, err := ReadDescriptor(path)
	if err != nil {
		return nil, err
	}

	converters := make([]converter.Converter, 0, len(desc.Arguments))
	for _, spec := range desc.Arguments {
		conv, err := r.converters.New(spec)
		if err != nil {
			return nil, fmt.Errorf("command %s: %w", desc.Name, err)
		}
		converters = append(converters, conv)
	}

	runner, ok := LookupRunner(desc.Name)
	if !ok {
		return nil, fmt.Errorf("command %s: no runner registered", desc.Name)
	}

	return &Command{desc: desc, path: path, converters: converters, runner: runner}, nil
}

// Load reads, validates and binds the command at path, then atomically
// inserts all its aliases. Nothing is inserted on failure.
func (r *Registry) Load(ctx context.Context, path string) (*Command, error) {
	cmd, err := r.build(path)
	if err != nil {
		return nil, err
	}

	if cmd.runner.Init != nil {
		if err := cmd.runner.Init(ctx); err != nil {
			return nil, fmt.Errorf("command %s: init: %w", cmd.Name(), err)
		}
	}

	r.mu.Lock()
	for _, alias := range cmd.Aliases() {
		r.commands[alias] = cmd
	}
	r.mu.Unlock()

	r.log.Debug().Str("command", cmd.Name()).Strs("aliases", cmd.Aliases()).Msg("loaded command")
	return cmd, nil
}

// LoadAll walks the descriptor directory and loads every *.yaml file.
// A command that fails to load is logged and skipped; the rest are
// unaffected.
func (r *Registry) LoadAll(ctx context.Context) error {
	count := 0
	err := filepath.WalkDir(r.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".yaml") {
			return nil
		}
		if _, err := r.Load(ctx, path); err != nil {
			r.log.Error().Err(err).Str("path", path).Msg("failed to load command")
			return nil
		}
		count++
		return nil
	})
	if err != nil {
		return fmt.Errorf("walk %s: %w", r.dir, err)
	}

	r.mu.RLock()
	aliases := len(r.commands)
	r.mu.RUnlock()
	r.log.Info().Int("commands", count).Int("aliases", aliases).Msg("commands loaded")
	return nil
}

// Reload re-reads and re-binds a single command. The new command is
// fully built and validated before any alias changes; if anything
// fails, the old bindings keep answering.
func (r *Registry) Reload(ctx context.Context, name string) (*Command, error) {
	old, ok := r.Get(name)
	if !ok {
		return nil, fmt.Errorf("unknown command: %s", name)
	}

	replacement, err := r.build(old.path)
	if err != nil {
		return nil, err
	}

	if old.runner.Unload != nil {
		if err := old.runner.Unload(ctx); err != nil {
			r.log.Warn().Err(err).Str("command", name).Msg("unload hook failed")
		}
	}
	if replacement.runner.Init != nil {
		if err := replacement.runner.Init(ctx); err != nil {
			return nil, fmt.Errorf("command %s: init: %w", name, err)
		}
	}

	r.mu.Lock()
	for _, alias := range old.Aliases() {
		// only drop aliases still owned by the old command
		if r.commands[alias] == old {
			delete(r.commands, alias)
		}
	}
	for _, alias := range replacement.Aliases() {
		r.commands[alias] = replacement
	}
	r.mu.Unlock()

	r.log.Info().Str("command", name).Msg("reloaded command")
	return replacement, nil
}

// Get returns the command answering to the given alias.
func (r *Registry) Get(alias string) (*Command, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cmd, ok := r.commands[strings.ToLower(alias)]
	return cmd, ok
}

// FindCommand implements converter.CommandFinder.
func (r *Registry) FindCommand(alias string) (converter.CommandRef, bool) {
	return r.Get(alias)
}

// All returns the distinct registered commands sorted by name, skipping
// hidden ones unless withHidden is set.
func (r *Registry) All(withHidden bool) []*Command {
	r.mu.RLock()
	seen := make(map[string]*Command, len(r.commands))
	for _, cmd := range r.commands {
		if cmd.Hidden() && !withHidden {
			continue
		}
		seen[cmd.Name()] = cmd
	}
	r.mu.RUnlock()

	out := make([]*Command, 0, len(seen))
	for _, cmd := range seen {
		out = append(out, cmd)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out
}
