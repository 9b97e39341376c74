package answer

import (
	"strings"
	"unicode"
)

// maxInputLength bounds the worst-case cost of downstream regex/parsing.
const maxInputLength = 10000

// SanitizeInput strips zero-width and control characters from a raw submission
// and truncates it to maxInputLength characters. Invisible characters would
// otherwise let two visually identical answers normalize differently.
func SanitizeInput(s string) string {
	if s == "" {
		return ""
	}
	var b strings.Builder
	b.Grow(len(s))
	n := 0
	for _, r := range s {
		if isStrippable(r) {
			continue
		}
		if n >= maxInputLength {
			break
		}
		b.WriteRune(r)
		n++
	}
	return b.String()
}

func isStrippable(r rune) bool {
	switch r {
	case '\u200b', '\u200c', '\u200d', '\ufeff': // zero-width space/non-joiner/joiner, BOM
		return true
	}
	return unicode.IsControl(r) // C0/C1
}
