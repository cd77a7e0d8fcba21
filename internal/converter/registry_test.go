package converter

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterDuplicate(t *testing.T) {
	registry := NewRegistry(zerolog.Nop())

	require.NoError(t, registry.Register("custom", newString))
	err := registry.Register("custom", newString)
	assert.ErrorIs(t, err, ErrDuplicateTypeName)
}

func TestUnknownTypeFallsBackToString(t *testing.T) {
	registry := NewDefault(zerolog.Nop())

	conv, err := registry.New(Spec{DisplayName: "arg", Type: "no-such-type"})
	require.NoError(t, err)

	value, err := conv.Convert(context.Background(), &Env{}, "raw token")
	require.NoError(t, err)
	assert.Equal(t, "raw token", value)
}

func TestBuiltinConversions(t *testing.T) {
	registry := NewDefault(zerolog.Nop())
	ctx := context.Background()

	number, err := registry.New(Spec{DisplayName: "n", Type: "number"})
	require.NoError(t, err)

	value, err := number.Convert(ctx, &Env{}, "3.5")
	require.NoError(t, err)
	assert.Equal(t, 3.5, value)

	// Converters fail with the raw error; wrapping into ConvertError is
	// left to the argument pipeline.
	_, err = number.Convert(ctx, &Env{}, "three")
	require.Error(t, err)
	var convErr *ConvertError
	assert.NotErrorAs(t, err, &convErr)

	integer, err := registry.New(Spec{DisplayName: "i", Type: "integer"})
	require.NoError(t, err)

	value, err = integer.Convert(ctx, &Env{}, "42")
	require.NoError(t, err)
	assert.Equal(t, 42, value)
}

func TestSpecValidate(t *testing.T) {
	assert.Error(t, Spec{DisplayName: "x", Type: "string", Default: "y"}.Validate(),
		"required parameter with a default must be rejected")
	assert.NoError(t, Spec{DisplayName: "x", Type: "string", Optional: true, Default: "y"}.Validate())
	assert.Error(t, Spec{DisplayName: "x"}.Validate(), "a parameter without a type must be rejected")
}

func TestSpecUsage(t *testing.T) {
	assert.Equal(t, "<nick>", Spec{DisplayName: "nick", Type: "string"}.Usage())
	assert.Equal(t, "[amount=1]", Spec{DisplayName: "amount", Type: "integer", Optional: true, Default: 1}.Usage())
	assert.Equal(t, "[target]", Spec{DisplayName: "target", Type: "string", Optional: true}.Usage())
}
