package utils

import (
	"strings"
	"unicode"
)

// NormalizeWS canonicalizes user-entered text:
//   - every Unicode whitespace char (tabs, newlines, NBSP, ...) becomes an
//     ASCII space
//   - runs of spaces collapse to a single space
//   - leading/trailing spaces are trimmed
//
// The result of applying it twice equals applying it once.
func NormalizeWS(input string) string {
	var b strings.Builder
	b.Grow(len(input))
	lastSpace := true // swallows leading whitespace
	for _, r := range input {
		if unicode.IsSpace(r) {
			if !lastSpace {
				b.WriteByte(' ')
				lastSpace = true
			}
		} else {
			b.WriteRune(r)
			lastSpace = false
		}
	}
	return strings.TrimRight(b.String(), " ")
}

// DigitsOnly strips every non-digit character. Used for postal codes, where
// the persisted form keeps digits only.
func DigitsOnly(input string) string {
	var b strings.Builder
	b.Grow(len(input))
	for _, r := range input {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// NormalizeCountry trims and upper-cases a country code so the comparison
// with ISO-3166 alpha-2 codes is case-insensitive.
func NormalizeCountry(input string) string {
	return strings.ToUpper(NormalizeWS(input))
}
