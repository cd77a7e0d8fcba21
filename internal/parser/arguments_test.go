package parser

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tarakania/rpg-bot/internal/converter"
)

func makeConverters(t *testing.T, specs ...converter.Spec) []converter.Converter {
	t.Helper()
	registry := converter.NewDefault(zerolog.Nop())

	out := make([]converter.Converter, 0, len(specs))
	for _, spec := range specs {
		conv, err := registry.New(spec)
		require.NoError(t, err)
		out = append(out, conv)
	}
	return out
}

func TestConvertPairing(t *testing.T) {
	nickAndAmount := []converter.Spec{
		{DisplayName: "nick", Type: "string"},
		{DisplayName: "amount", Type: "integer", Optional: true, Default: 1},
	}

	tests := []struct {
		name  string
		tail  string
		specs []converter.Spec
		want  []any
		err   error
	}{
		{
			name:  "exact fit",
			tail:  "Bob 5",
			specs: nickAndAmount,
			want:  []any{"Bob", 5},
		},
		{
			name:  "default fills missing optional",
			tail:  "Bob",
			specs: nickAndAmount,
			want:  []any{"Bob", 1},
		},
		{
			name:  "missing required",
			tail:  "",
			specs: nickAndAmount,
			err:   ErrTooFewArguments,
		},
		{
			name:  "surplus token",
			tail:  "Bob 5 extra",
			specs: nickAndAmount,
			err:   ErrTooManyArguments,
		},
		{
			name: "optional without default is skipped",
			tail: "Bob",
			specs: []converter.Spec{
				{DisplayName: "nick", Type: "string"},
				{DisplayName: "target", Type: "string", Optional: true},
			},
			want: []any{"Bob"},
		},
		{
			name: "greedy final reuses converter",
			tail: "1 2 3",
			specs: []converter.Spec{
				{DisplayName: "first", Type: "integer"},
				{DisplayName: "rest", Type: "integer", Greedy: true},
			},
			want: []any{1, 2, 3},
		},
		{
			name:  "tokens with zero parameters",
			tail:  "anything",
			specs: nil,
			err:   ErrTooManyArguments,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args, err := Parse(tt.tail)
			require.NoError(t, err)

			err = args.Convert(context.Background(), &converter.Env{}, makeConverters(t, tt.specs...))
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
				assert.True(t, IsParseError(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, args.All())
		})
	}
}

func TestConvertFailureIsParseError(t *testing.T) {
	args, err := Parse("notanumber")
	require.NoError(t, err)

	specs := []converter.Spec{{DisplayName: "amount", Type: "integer"}}
	err = args.Convert(context.Background(), &converter.Env{}, makeConverters(t, specs...))

	require.Error(t, err)
	assert.True(t, IsParseError(err))

	var convErr *converter.ConvertError
	require.ErrorAs(t, err, &convErr)
	assert.Equal(t, "amount", convErr.Spec.DisplayName)
	assert.Equal(t, "notanumber", convErr.Value)
}

func TestAccessBeforeConvertPanics(t *testing.T) {
	args := NewArguments([]string{"a"})
	assert.Panics(t, func() { args.Get(0) })
}

func TestRawPreserved(t *testing.T) {
	args, err := Parse(`"two words" three`)
	require.NoError(t, err)
	assert.Equal(t, []string{"two words", "three"}, args.Raw())
	assert.Equal(t, 2, args.Len())
}
