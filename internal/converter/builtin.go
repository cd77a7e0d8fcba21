package converter

import (
	"context"
	"strconv"
	"strings"
)

type stringConverter struct{ base }

func newString(spec Spec) (Converter, error) {
	b, err := newBase(spec)
	if err != nil {
		return nil, err
	}
	return &stringConverter{b}, nil
}

func (c *stringConverter) Convert(ctx context.Context, env *Env, value string) (any, error) {
	return value, nil
}

type numberConverter struct{ base }

func newNumber(spec Spec) (Converter, error) {
	b, err := newBase(spec)
	if err != nil {
		return nil, err
	}
	return &numberConverter{b}, nil
}

func (c *numberConverter) Convert(ctx context.Context, env *Env, value string) (any, error) {
	n, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil, err
	}
	return n, nil
}

type integerConverter struct{ base }

func newInteger(spec Spec) (Converter, error) {
	b, err := newBase(spec)
	if err != nil {
		return nil, err
	}
	return &integerConverter{b}, nil
}

func (c *integerConverter) Convert(ctx context.Context, env *Env, value string) (any, error) {
	n, err := strconv.Atoi(value)
	if err != nil {
		return nil, err
	}
	return n, nil
}

type commandConverter struct{ base }

func newCommand(spec Spec) (Converter, error) {
	b, err := newBase(spec)
	if err != nil {
		return nil, err
	}
	return &commandConverter{b}, nil
}

func (c *commandConverter) Convert(ctx context.Context, env *Env, value string) (any, error) {
	cmd, ok := env.Commands.FindCommand(strings.ToLower(value))
	if !ok {
		return nil, failf(c.spec, value, "no such command: **%s**", value)
	}
	return cmd, nil
}
