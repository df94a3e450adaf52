package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nvalden/arsenal/internal/domain"
)

func TestParseVersion(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Version
		wantErr bool
	}{
		{name: "three components", input: "2.3.1", want: Version{2, 3, 1}},
		{name: "two components", input: "2.3", want: Version{2, 3, 0}},
		{name: "one component", input: "7", want: Version{7, 0, 0}},
		{name: "surrounding whitespace", input: " 1.2.3 ", want: Version{1, 2, 3}},
		{name: "empty", input: "", wantErr: true},
		{name: "blank", input: "   ", wantErr: true},
		{name: "non-numeric", input: "1.x.0", wantErr: true},
		{name: "negative component", input: "1.-2.0", wantErr: true},
		{name: "four components", input: "1.2.3.4", wantErr: true},
		{name: "trailing dot", input: "1.2.", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseVersion(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrVersionFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestVersion_Compare(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"1.0.0", "1.0.0", 0},
		{"2.3", "2.3.0", 0},
		{"1.0.0", "1.0.1", -1},
		{"1.1", "1.0.9", 1},
		{"2.0.0", "1.9.9", 1},
		{"0.9", "1.0", -1},
	}

	for _, tt := range tests {
		a, err := ParseVersion(tt.a)
		require.NoError(t, err)
		b, err := ParseVersion(tt.b)
		require.NoError(t, err)
		assert.Equal(t, tt.want, a.Compare(b), "%s vs %s", tt.a, tt.b)
	}
}

func TestVersion_String(t *testing.T) {
	v, err := ParseVersion("2.3")
	require.NoError(t, err)
	assert.Equal(t, "2.3.0", v.String())
}
