package converter

import "fmt"

// ConvertError reports a token that could not be converted. When Message
// is set it is shown to the user verbatim; otherwise a generic line
// naming the parameter is used.
type ConvertError struct {
	Value   string
	Spec    Spec
	Message string
	Cause   error
}

func (e *ConvertError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	name := e.Spec.DisplayName
	if name == "" {
		name = e.Spec.Type
	}
	return fmt.Sprintf("unable to interpret %q as **%s**", e.Value, name)
}

func (e *ConvertError) Unwrap() error { return e.Cause }

// failf builds a user-facing conversion error for value against spec.
func failf(spec Spec, value, format string, args ...any) *ConvertError {
	return &ConvertError{Value: value, Spec: spec, Message: fmt.Sprintf(format, args...)}
}
