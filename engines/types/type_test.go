package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input   string
		want    Type
		wantErr bool
	}{
		{"starlark", Starlark, false},
		{" Risor ", Risor, false},
		{"HCL", HCL, false},
		{"extism", Extism, false},
		{"lua", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := Parse(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, string(tt.want), got.String())
		})
	}
}

func TestValid(t *testing.T) {
	t.Parallel()
	for _, typ := range All {
		assert.True(t, typ.Valid())
	}
	assert.False(t, Type("python").Valid())
}
