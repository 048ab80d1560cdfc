// Package util contains small helpers shared across the application
package util

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var deaccent = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Slugify turns arbitrary text into a URL-safe slug: accents stripped,
// lowercased, runs of anything non-alphanumeric collapsed to single
// hyphens.
func Slugify(s string) string {
	if flat, _, err := transform.String(deaccent, s); err == nil {
		s = flat
	}

	var b strings.Builder
	lastHyphen := true

	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}

	return strings.Trim(b.String(), "-")
}
