package render

import (
	"path/filepath"
	"strings"
	"unicode"
)

// Slug converts a formula or algorithm name into a filesystem-safe
// output name: lowercase, primes become "p", whitespace becomes "_" and
// any other non-alphanumeric rune becomes "-".
func Slug(text string) string {
	var sb strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(text)) {
		switch {
		case r == '\'':
			sb.WriteByte('p')
		case unicode.IsSpace(r):
			sb.WriteByte('_')
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9' || r == '_':
			sb.WriteRune(r)
		default:
			sb.WriteByte('-')
		}
	}
	return sb.String()
}

// OutputPath is the canonical location of a rendered clip below the
// media root: <mediaRoot>/videos/<GROUP>/<quality>/<name>.mp4, keyed by
// the canonical tier name. Manim's resolution directories are only a
// staging area before the clip is moved here. Paths are stored with
// forward slashes regardless of platform.
func OutputPath(mediaRoot, group string, quality Quality, outputName string) string {
	return filepath.ToSlash(filepath.Join(mediaRoot, "videos", group, quality.String(), outputName+".mp4"))
}
