package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseQuality_Aliases(t *testing.T) {
	tests := []struct {
		input string
		want  Quality
	}{
		{"draft", QualityDraft},
		{"ql", QualityDraft},
		{"fast", QualityDraft},
		{"low", QualityDraft},
		{"standard", QualityStandard},
		{"qm", QualityStandard},
		{"normal", QualityStandard},
		{"medium", QualityStandard},
		{"high", QualityHigh},
		{"qh", QualityHigh},
		{"hq", QualityHigh},
		{"final", QualityFinal},
		{"qk", QualityFinal},
		{"ultra", QualityFinal},
		{"production", QualityFinal},
		{"  QH  ", QualityHigh},
		{"Draft", QualityDraft},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseQuality(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseQuality_Invalid(t *testing.T) {
	for _, input := range []string{"", "4k", "best", "q", "draft2"} {
		t.Run(input, func(t *testing.T) {
			_, err := ParseQuality(input)
			require.Error(t, err)

			var qe *InvalidQualityError
			require.ErrorAs(t, err, &qe)
			assert.Equal(t, input, qe.Input)
		})
	}
}

func TestQuality_ManimFlagAndMediaDir(t *testing.T) {
	tests := []struct {
		quality Quality
		flag    string
		dir     string
	}{
		{QualityDraft, "ql", "480p15"},
		{QualityStandard, "qm", "720p30"},
		{QualityHigh, "qh", "1080p60"},
		{QualityFinal, "qk", "2160p60"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.flag, tt.quality.ManimFlag())
		assert.Equal(t, tt.dir, tt.quality.MediaDir())
	}
}
