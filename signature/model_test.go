package signature

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Parallel()

	t.Run("empty signature", func(t *testing.T) {
		m, err := Parse("", Options{})
		require.NoError(t, err)
		assert.False(t, m.HasPositional())
		assert.False(t, m.HasNamed())
		assert.False(t, m.HasInvocant())
		assert.Equal(t, 0, m.SlurpyCount())
		assert.Empty(t, m.Params())
	})

	t.Run("positional indexes are contiguous", func(t *testing.T) {
		m, err := Parse("$a, $b, @rest", Options{})
		require.NoError(t, err)

		pos := m.Positional()
		require.Len(t, pos, 3)
		for i, d := range pos {
			assert.Equal(t, i, d.Index)
			assert.Equal(t, Positional, d.Role)
		}
		assert.Equal(t, 1, m.SlurpyCount())
		assert.False(t, m.HasOptionalPositional())
	})

	t.Run("named parameters keep declaration order", func(t *testing.T) {
		m, err := Parse(":$year!, :$month = 1, :$day = 1", Options{})
		require.NoError(t, err)

		named := m.Named()
		require.Len(t, named, 3)
		assert.Equal(t, "year", named[0].Name)
		assert.Equal(t, "month", named[1].Name)
		assert.Equal(t, "day", named[2].Name)
		assert.False(t, named[0].Optional)
		assert.True(t, named[1].Optional)
		for _, d := range named {
			assert.Equal(t, -1, d.Index)
		}
		assert.True(t, m.HasNamed())
		assert.False(t, m.HasPositional())
	})

	t.Run("required positionals then named", func(t *testing.T) {
		m, err := Parse("$a, $b, :$c", Options{})
		require.NoError(t, err)
		assert.Len(t, m.Positional(), 2)
		assert.Len(t, m.Named(), 1)
	})

	t.Run("implied invocant", func(t *testing.T) {
		m, err := Parse("$a", Options{Invocant: "self"})
		require.NoError(t, err)
		name, ok := m.Invocant()
		assert.True(t, ok)
		assert.Equal(t, "self", name)
		assert.Len(t, m.Positional(), 1)
	})

	t.Run("invocant prefix overrides implied name", func(t *testing.T) {
		m, err := Parse("$class: $a, $b", Options{Invocant: "self"})
		require.NoError(t, err)
		name, _ := m.Invocant()
		assert.Equal(t, "class", name)
		assert.Len(t, m.Positional(), 2)
	})

	t.Run("bare invocant prefix declares an invocant", func(t *testing.T) {
		m, err := Parse("this:", Options{})
		require.NoError(t, err)
		name, ok := m.Invocant()
		assert.True(t, ok)
		assert.Equal(t, "this", name)
		assert.Empty(t, m.Params())
	})

	t.Run("passthrough is not a parameter", func(t *testing.T) {
		m, err := Parse("$self: @_", Options{})
		require.NoError(t, err)
		assert.True(t, m.Passthrough())
		assert.True(t, m.HasInvocant())
		assert.Empty(t, m.Params())
		assert.Equal(t, 0, m.SlurpyCount())
	})

	t.Run("passthrough alongside a slurpy", func(t *testing.T) {
		m, err := Parse("@_, @rest", Options{})
		require.NoError(t, err)
		assert.Equal(t, 1, m.SlurpyCount())
	})

	t.Run("required marker wins over default when not strict", func(t *testing.T) {
		m, err := Parse("$x! = 5", Options{})
		require.NoError(t, err)
		d := m.Positional()[0]
		assert.False(t, d.Optional)
		assert.Equal(t, "5", d.Default)
	})

	t.Run("text is recorded", func(t *testing.T) {
		m, err := Parse("  $a, $b  ", Options{})
		require.NoError(t, err)
		assert.Equal(t, "$a, $b", m.Text())
	})
}

func TestParseErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		text   string
		opts   Options
		reason error
		param  string
		other  string
	}{
		{
			name:   "positional array then positional hash",
			text:   "@a, %b",
			reason: ErrMultipleSlurpy,
			param:  "%b",
			other:  "@a",
		},
		{
			name:   "two slurpies regardless of names",
			text:   "$x, %first, @second",
			reason: ErrMultipleSlurpy,
			param:  "@second",
			other:  "%first",
		},
		{
			name:   "named slurpy counts too",
			text:   ":@a, :%b",
			reason: ErrMultipleSlurpy,
			param:  ":%b",
			other:  ":@a",
		},
		{
			name:   "optional positional before named",
			text:   "$a, $b?, :$c",
			reason: ErrNamedAfterOptional,
			param:  ":$c",
			other:  "$b",
		},
		{
			name:   "defaulted positional before named",
			text:   "$a = 1, :$c",
			reason: ErrNamedAfterOptional,
			param:  ":$c",
			other:  "$a",
		},
		{
			name:   "positional after named",
			text:   "$a, :$b, $c",
			reason: ErrPositionalAfterNamed,
			param:  "$c",
			other:  ":$b",
		},
		{
			name:   "named after slurpy positional",
			text:   "@rest, :$flag",
			reason: ErrNamedAfterSlurpy,
			param:  ":$flag",
			other:  "@rest",
		},
		{
			name:   "duplicate name",
			text:   "$a, @a",
			reason: ErrDuplicateName,
			param:  "@a",
			other:  "$a",
		},
		{
			name:   "named duplicate with another sigil",
			text:   "$x, :%x",
			reason: ErrDuplicateName,
			param:  ":%x",
			other:  "$x",
		},
		{
			name:   "parameter shadows invocant",
			text:   "$self",
			opts:   Options{Invocant: "self"},
			reason: ErrDuplicateName,
			param:  "$self",
			other:  "$self",
		},
		{
			name:   "required with default in strict mode",
			text:   "$x! = 5",
			opts:   Options{StrictRequired: true},
			reason: ErrRequiredWithDefault,
			param:  "$x",
		},
		{
			name:   "malformed clause",
			text:   "$a, b",
			reason: ErrMalformed,
			param:  "b",
		},
		{
			name:   "unbalanced text",
			text:   "$a = (1",
			reason: ErrMalformed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			m, err := Parse(tt.text, tt.opts)
			require.Error(t, err)
			assert.Nil(t, m)
			require.ErrorIs(t, err, ErrSignature)
			require.ErrorIs(t, err, tt.reason)

			var sigErr *SignatureError
			require.ErrorAs(t, err, &sigErr)
			assert.Equal(t, tt.param, sigErr.Param)
			assert.Equal(t, tt.other, sigErr.Other)
			assert.Equal(t, tt.text, sigErr.Text)
			assert.Contains(t, err.Error(), tt.reason.Error())
		})
	}
}

func TestSplitInvocant(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in       string
		invocant string
		rest     string
	}{
		{in: "$self: $a", invocant: "self", rest: " $a"},
		{in: "class:$a", invocant: "class", rest: "$a"},
		{in: "  me :", invocant: "me", rest: ""},
		{in: "$a, $b", invocant: "", rest: "$a, $b"},
		{in: ":$named", invocant: "", rest: ":$named"},
		{in: "$a, :$b", invocant: "", rest: "$a, :$b"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			invocant, rest := SplitInvocant(tt.in)
			assert.Equal(t, tt.invocant, invocant)
			assert.Equal(t, tt.rest, rest)
		})
	}
}

func TestModelIsImmutable(t *testing.T) {
	t.Parallel()

	m, err := Parse("$a is ro, :$b", Options{})
	require.NoError(t, err)

	pos := m.Positional()
	pos[0].Name = "changed"
	pos[0].Traits["alias"] = true

	again := m.Positional()
	assert.Equal(t, "a", again[0].Name)
	assert.False(t, again[0].Traits.Has("alias"))
	assert.True(t, again[0].Traits.Has("ro"))
}

func TestModelString(t *testing.T) {
	t.Parallel()

	m, err := Parse("$self:  $a,$b  ,  :$c! ,:$d = 2", Options{})
	require.NoError(t, err)
	assert.Equal(t, "$self: $a, $b, :$c!, :$d = 2", m.String())

	again, err := Parse(m.String(), Options{})
	require.NoError(t, err)
	assert.Equal(t, m.String(), again.String())
}
