// Package render resolves render-cache hits and drives the manim
// renderer that turns a move formula into an animation clip.
package render

import "strings"

// Quality is a canonical render quality tier.
type Quality string

const (
	QualityDraft    Quality = "draft"
	QualityStandard Quality = "standard"
	QualityHigh     Quality = "high"
	QualityFinal    Quality = "final"
)

// Qualities lists the canonical tiers in ascending fidelity order.
var Qualities = []Quality{QualityDraft, QualityStandard, QualityHigh, QualityFinal}

// qualityAliases maps accepted spellings to canonical tiers. Canonical
// names are included so ParseQuality is a single lookup.
var qualityAliases = map[string]Quality{
	"draft":      QualityDraft,
	"ql":         QualityDraft,
	"fast":       QualityDraft,
	"low":        QualityDraft,
	"standard":   QualityStandard,
	"qm":         QualityStandard,
	"normal":     QualityStandard,
	"medium":     QualityStandard,
	"high":       QualityHigh,
	"qh":         QualityHigh,
	"hq":         QualityHigh,
	"final":      QualityFinal,
	"qk":         QualityFinal,
	"ultra":      QualityFinal,
	"production": QualityFinal,
}

// ParseQuality resolves a user-supplied quality string, case
// insensitively, through the alias table.
func ParseQuality(input string) (Quality, error) {
	q, ok := qualityAliases[strings.ToLower(strings.TrimSpace(input))]
	if !ok {
		return "", &InvalidQualityError{Input: input}
	}
	return q, nil
}

// ManimFlag is the manim CLI quality flag for the tier, without the
// leading dash.
func (q Quality) ManimFlag() string {
	switch q {
	case QualityDraft:
		return "ql"
	case QualityStandard:
		return "qm"
	case QualityHigh:
		return "qh"
	case QualityFinal:
		return "qk"
	}
	return "ql"
}

// MediaDir is the resolution directory manim writes the tier into.
func (q Quality) MediaDir() string {
	switch q {
	case QualityDraft:
		return "480p15"
	case QualityStandard:
		return "720p30"
	case QualityHigh:
		return "1080p60"
	case QualityFinal:
		return "2160p60"
	}
	return "480p15"
}

func (q Quality) String() string {
	return string(q)
}
