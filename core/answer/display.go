package answer

import (
	"regexp"
	"strings"
)

var (
	displayFracRe = regexp.MustCompile(`(-?\d+)/(\d+)`)
	displaySqrtRe = regexp.MustCompile(`sqrt\(([^()]*)\)`)
	displayCbrtRe = regexp.MustCompile(`cbrt\(([^()]*)\)`)

	displayReplacer = strings.NewReplacer(
		"<=", `\leq `,
		">=", `\geq `,
		"!=", `\neq `,
		"*", `\times `,
		"pi", `\pi `,
		"theta", `\theta `,
		"infinity", `\infty `,
	)
)

// FormatForDisplay converts a canonical answer string back into delimited
// LaTeX for rendering. It is a display convenience, not an inverse of
// Normalize; unknown fragments pass through untouched.
func FormatForDisplay(s string) string {
	s = Normalize(s)
	if s == "" {
		return ""
	}
	s = displayFracRe.ReplaceAllString(s, `\frac{$1}{$2}`)
	s = displaySqrtRe.ReplaceAllString(s, `\sqrt{$1}`)
	s = displayCbrtRe.ReplaceAllString(s, `\sqrt[3]{$1}`)
	s = displayReplacer.Replace(s)
	return `\(` + strings.TrimSpace(s) + `\)`
}
