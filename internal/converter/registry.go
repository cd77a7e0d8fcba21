package converter

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"
)

// ErrDuplicateTypeName is returned when a type name is registered twice.
// Registration happens once at process initialization, so this is a
// startup integrity failure, not a recoverable condition.
var ErrDuplicateTypeName = errors.New("duplicate converter type name")

// Registry maps type names to converter factories.
type Registry struct {
	factories map[string]Factory
	log       zerolog.Logger
}

// NewRegistry returns an empty registry.
func NewRegistry(log zerolog.Logger) *Registry {
	return &Registry{
		factories: make(map[string]Factory),
		log:       log.With().Str("component", "converter").Logger(),
	}
}

// Register binds a factory to a type name.
func (r *Registry) Register(typeName string, factory Factory) error {
	if _, exists := r.factories[typeName]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateTypeName, typeName)
	}
	r.factories[typeName] = factory
	return nil
}

// Resolve returns the factory for typeName, falling back to the String
// converter (with a warning) when the name is unknown. It never fails.
func (r *Registry) Resolve(typeName string) Factory {
	factory, ok := r.factories[typeName]
	if !ok {
		r.log.Warn().Str("type", typeName).Msg("no converter for type, falling back to string")
		return newString
	}
	return factory
}

// New builds a converter for the given parameter spec.
func (r *Registry) New(spec Spec) (Converter, error) {
	return r.Resolve(spec.Type)(spec)
}

// NewDefault returns a registry with every built-in converter bound.
func NewDefault(log zerolog.Logger) *Registry {
	r := NewRegistry(log)

	builtins := map[string]Factory{
		"string":   newString,
		"number":   newNumber,
		"integer":  newInteger,
		"command":  newCommand,
		"player":   newPlayer,
		"item":     newItem,
		"race":     newRace,
		"class":    newClass,
		"location": newLocation,
		"user":     newUser,
	}
	for name, factory := range builtins {
		if err := r.Register(name, factory); err != nil {
			panic(err) // built-in names are unique by construction
		}
	}
	return r
}
