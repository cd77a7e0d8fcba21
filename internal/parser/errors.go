package parser

import (
	"errors"

	"github.com/tarakania/rpg-bot/internal/converter"
)

// Parse-level failures shown to the user together with the command's
// usage string.
var (
	ErrTooFewArguments   = errors.New("not enough arguments given to the command")
	ErrTooManyArguments  = errors.New("too many arguments given to the command")
	ErrUnterminatedQuote = errors.New("unbalanced quote in arguments")
)

// IsParseError reports whether err belongs to the parse-error taxonomy
// (tokenizer, pairing or conversion failures).
func IsParseError(err error) bool {
	if errors.Is(err, ErrTooFewArguments) ||
		errors.Is(err, ErrTooManyArguments) ||
		errors.Is(err, ErrUnterminatedQuote) {
		return true
	}
	var convErr *converter.ConvertError
	return errors.As(err, &convErr)
}
