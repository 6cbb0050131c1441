package catalog

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var deaccent = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Slug derives a stable catalog ID from a festival name: lowercase, diacritics
// stripped, runs of non-alphanumerics collapsed to single hyphens.
func Slug(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	if folded, _, err := transform.String(deaccent, s); err == nil {
		s = folded
	}

	var b strings.Builder
	lastHyphen := true // suppress leading hyphen
	for _, r := range s {
		switch {
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'):
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}

	return strings.TrimRight(b.String(), "-")
}

// foldName lowercases, strips diacritics and trims a name for
// case-insensitive catalog comparisons.
func foldName(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	if folded, _, err := transform.String(deaccent, s); err == nil {
		return folded
	}
	return s
}
