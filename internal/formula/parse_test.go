package formula

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSimpleSequence(t *testing.T) {
	seq, err := Parse("R U R' U'")
	require.NoError(t, err)
	require.Len(t, seq, 4)
	assert.Equal(t, "R U R' U'", Normalize(seq))
}

func TestParseModifiers(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"R2", "R2"},
		{"U'", "U'"},
		{"M2 U M U2 M' U M2", "M2 U M U2 M' U M2"},
		{"x y' z2", "x y' z2"},
		{"Rw U Fw'", "r U f'"},
		{"r u f", "r u f"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			seq, err := Parse(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, Normalize(seq))
		})
	}
}

func TestParseBeats(t *testing.T) {
	t.Run("same axis accepted", func(t *testing.T) {
		for _, input := range []string{"U+D", "U+D'", "U2+D2", "R+L'", "F+B", "M+R", "E+U", "S+F2"} {
			seq, err := Parse(input)
			require.NoError(t, err, "input %q", input)
			require.Len(t, seq, 1)
			assert.Len(t, seq[0], 2)
		}
	})

	t.Run("axis mismatch rejected", func(t *testing.T) {
		for _, input := range []string{"U+R", "F+U", "R+F'", "M+E"} {
			_, err := Parse(input)
			var perr *ParseError
			require.ErrorAs(t, err, &perr, "input %q", input)
			assert.Contains(t, perr.Message, "rotation axis")
		}
	})

	t.Run("beat inside sequence", func(t *testing.T) {
		seq, err := Parse("R U+D R'")
		require.NoError(t, err)
		require.Len(t, seq, 3)
		assert.Equal(t, "R U+D R'", Normalize(seq))
	})
}

func TestParseGroupsAndRepeats(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"(R U R' U')2", "R U R' U' R U R' U'"},
		{"(R U)^3", "R U R U R U"},
		{"M^2", "M M"},
		{"(R (U D)2)2", "R U D U D R U D U D"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			seq, err := Parse(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, Normalize(seq))
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"whitespace only", "   "},
		{"unknown token", "Q"},
		{"unsupported character", "R & U"},
		{"trailing plus", "U+"},
		{"empty plus operand", "U++D"},
		{"unclosed paren", "(R U"},
		{"stray close paren", "R U)"},
		{"caret without integer", "R^"},
		{"zero repeat", "(R U)0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.input)
			var perr *ParseError
			require.ErrorAs(t, err, &perr)
		})
	}
}

func TestParseErrorPosition(t *testing.T) {
	_, err := Parse("R U Q")
	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, 4, perr.Position)
}

func TestNormalizeIsWhitespaceInsensitive(t *testing.T) {
	a, err := NormalizeText("R   U\tR'  U'")
	require.NoError(t, err)
	b, err := NormalizeText("R U R' U'")
	require.NoError(t, err)
	assert.Equal(t, a, b)
}
