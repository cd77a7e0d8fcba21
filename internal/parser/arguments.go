package parser

import (
	"context"

	"github.com/tarakania/rpg-bot/internal/converter"
)

// Arguments holds the raw tokens of one invocation and, after Convert,
// the parallel typed values. Index access before conversion is a
// programming error and panics.
type Arguments struct {
	raw       []string
	converted []any
	done      bool
}

// Parse tokenizes a raw argument tail.
func Parse(tail string) (*Arguments, error) {
	tokens, err := Tokenize(tail)
	if err != nil {
		return nil, err
	}
	return NewArguments(tokens), nil
}

// NewArguments wraps pre-split tokens.
func NewArguments(tokens []string) *Arguments {
	return &Arguments{raw: tokens}
}

// Convert pairs tokens with converters positionally and converts each
// pair, filling the typed value sequence.
//
// Pairing rules: when tokens run out, optional parameters are skipped
// or filled from their default; a missing required parameter is
// ErrTooFewArguments. When converters run out, the final declared
// parameter is reused for every remaining token if it is greedy;
// otherwise ErrTooManyArguments.
func (a *Arguments) Convert(ctx context.Context, env *converter.Env, converters []converter.Converter) error {
	var (
		values []string
		actual []converter.Converter
	)

	steps := len(a.raw)
	if len(converters) > steps {
		steps = len(converters)
	}

	for i := 0; i < steps; i++ {
		if i >= len(a.raw) {
			// tokens exhausted
			spec := converters[i].Spec()
			if !spec.Optional {
				return ErrTooFewArguments
			}
			def, ok := spec.DefaultString()
			if !ok {
				continue
			}
			values = append(values, def)
			actual = append(actual, converters[i])
			continue
		}

		values = append(values, a.raw[i])

		if i >= len(converters) {
			// converters exhausted
			if len(actual) == 0 {
				return ErrTooManyArguments
			}
			last := actual[len(actual)-1]
			if !last.Spec().Greedy {
				return ErrTooManyArguments
			}
			actual = append(actual, last)
			continue
		}

		actual = append(actual, converters[i])
	}

	converted := make([]any, 0, len(values))
	for i, value := range values {
		conv := actual[i]
		typed, err := conv.Convert(ctx, env, value)
		if err != nil {
			if convErr, ok := err.(*converter.ConvertError); ok {
				return convErr
			}
			return &converter.ConvertError{Value: value, Spec: conv.Spec(), Cause: err}
		}
		converted = append(converted, typed)
	}

	a.converted = converted
	a.done = true
	return nil
}

// Len returns the raw token count.
func (a *Arguments) Len() int { return len(a.raw) }

// Raw returns the raw tokens.
func (a *Arguments) Raw() []string { return a.raw }

// Get returns the i-th converted value.
func (a *Arguments) Get(i int) any {
	a.mustConvert()
	return a.converted[i]
}

// All returns every converted value in order.
func (a *Arguments) All() []any {
	a.mustConvert()
	return a.converted
}

// String returns the i-th converted value as a string.
func (a *Arguments) String(i int) string { return a.Get(i).(string) }

// Int returns the i-th converted value as an int.
func (a *Arguments) Int(i int) int { return a.Get(i).(int) }

// Float returns the i-th converted value as a float64.
func (a *Arguments) Float(i int) float64 { return a.Get(i).(float64) }

func (a *Arguments) mustConvert() {
	if !a.done {
		panic("arguments accessed before Convert was called")
	}
}
