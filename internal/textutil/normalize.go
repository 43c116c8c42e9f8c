package textutil

import (
	"strings"
	"unicode"
)

// Normalize collapses every run of whitespace, including tabs and newlines,
// into a single space and trims leading and trailing whitespace. Empty input
// yields an empty string. Applying it twice gives the same result as once.
func Normalize(s string) string {
	if s == "" {
		return ""
	}
	var b strings.Builder
	b.Grow(len(s))
	lastSpace := false
	for _, r := range s {
		if unicode.IsSpace(r) {
			if !lastSpace {
				b.WriteByte(' ')
				lastSpace = true
			}
			continue
		}
		b.WriteRune(r)
		lastSpace = false
	}
	return strings.TrimSpace(b.String())
}
