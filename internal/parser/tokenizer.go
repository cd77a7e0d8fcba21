// Package parser splits a raw command tail into tokens and drives the
// converter pipeline that pairs tokens with declared parameters.
package parser

import (
	"fmt"

	"github.com/google/shlex"
)

// Tokenize splits tail using shell-style word splitting: whitespace
// separates tokens, quoted substrings stay together. An unbalanced
// quote yields ErrUnterminatedQuote.
func Tokenize(tail string) ([]string, error) {
	if tail == "" {
		return nil, nil
	}
	tokens, err := shlex.Split(tail)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnterminatedQuote, err)
	}
	return tokens, nil
}
