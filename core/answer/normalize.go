package answer

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode"
)

// replacement is one ordered rewrite rule. Rules are applied in slice order;
// later rules may assume earlier ones already ran.
type replacement struct {
	old string
	new string
}

// latexCommands translates LaTeX commands to plain-operator equivalents.
// Structural commands (\frac, \sqrt) are handled separately since they carry
// brace groups.
var latexCommands = []replacement{
	{`\left`, ""},
	{`\right`, ""},
	{`\times`, "*"},
	{`\cdot`, "*"},
	{`\div`, "/"},
	{`\pm`, "+-"},
	{`\leq`, "<="},
	{`\geq`, ">="},
	{`\neq`, "!="},
	{`\infty`, "infinity"},
	{`\pi`, "pi"},
	{`\theta`, "theta"},
	{`\alpha`, "alpha"},
	{`\beta`, "beta"},
	{`\gamma`, "gamma"},
	{`\delta`, "delta"},
	{`\lambda`, "lambda"},
	{`\mu`, "mu"},
	{`\sigma`, "sigma"},
	{`\phi`, "phi"},
	{`\omega`, "omega"},
	{`\sin`, "sin"},
	{`\cos`, "cos"},
	{`\tan`, "tan"},
	{`\log`, "log"},
	{`\ln`, "ln"},
}

// unicodeSymbols translates Unicode math symbols to the same canonical tokens
// the LaTeX rules produce. Greek and blackboard-bold letters map to lowercase
// names so a second normalization pass is a no-op.
var unicodeSymbols = []replacement{
	{"×", "*"},
	{"⋅", "*"},
	{"÷", "/"},
	{"−", "-"},
	{"–", "-"},
	{"—", "-"},
	{"±", "+-"},
	{"²", "^2"},
	{"³", "^3"},
	{"½", "0.5"},
	{"¼", "0.25"},
	{"¾", "0.75"},
	{"⅓", "0.3333333333"},
	{"⅔", "0.6666666667"},
	{"π", "pi"},
	{"θ", "theta"},
	{"α", "alpha"},
	{"β", "beta"},
	{"γ", "gamma"},
	{"δ", "delta"},
	{"Δ", "delta"},
	{"λ", "lambda"},
	{"μ", "mu"},
	{"σ", "sigma"},
	{"φ", "phi"},
	{"ω", "omega"},
	{"∈", "in"},
	{"∪", "union"},
	{"∩", "intersect"},
	{"⊂", "subset"},
	{"⊃", "superset"},
	{"∅", "emptyset"},
	{"√", "sqrt"},
	{"∛", "cbrt"},
	{"ℝ", "r"},
	{"ℤ", "z"},
	{"ℕ", "n"},
	{"ℂ", "c"},
	{"≤", "<="},
	{"≥", ">="},
	{"≠", "!="},
	{"∞", "infinity"},
}

var (
	delimiterReplacer = strings.NewReplacer(`\(`, "", `\)`, "", `\[`, "", `\]`, "", "$", "")

	// innermost brace groups only; applied repeatedly so nesting unwinds
	fracRe    = regexp.MustCompile(`\\frac\{([^{}]*)\}\{([^{}]*)\}`)
	sqrtNRe   = regexp.MustCompile(`\\sqrt\[([^\[\]]*)\]\{([^{}]*)\}`)
	sqrtRe    = regexp.MustCompile(`\\sqrt\{([^{}]*)\}`)
	varPrefix = regexp.MustCompile(`^[a-z]\s*=\s*`)

	// measurement units recognized when trailing a number; longest first
	unitRe = regexp.MustCompile(`(\d)\s*(?:` +
		`millimeters|millimetres|milliliters|millilitres|centimeters|centimetres|kilometers|kilometres|kilograms|milligrams|` +
		`minutes|seconds|gallons|pounds|ounces|inches|liters|litres|meters|metres|miles|yards|hours|grams|days|feet|foot|inch|mile|yard|cups|` +
		`hrs|cm|mm|km|kg|mg|ml|lbs|lb|oz|gal|ft|yd|hr|min|sec|[hglms])\s*\.?\s*$`)
)

// Normalize canonicalizes a raw answer string. It is a pure, total and
// idempotent function: normalize(normalize(x)) == normalize(x), and no input
// (malformed LaTeX included) makes it panic.
func Normalize(raw string) string {
	s := SanitizeInput(raw)
	s = strings.ToLower(strings.TrimSpace(s))
	s = delimiterReplacer.Replace(s)
	s = translateLatex(s)
	s = translateSymbols(s)
	s = stripUnits(s)
	s = canonicalizeList(s)
	s = stripWhitespace(s)
	return s
}

func translateLatex(s string) string {
	if !strings.ContainsRune(s, '\\') {
		return s
	}

	// structural commands: rewrite innermost groups until stable
	for i := 0; i < maxInputLength; i++ {
		next := fracRe.ReplaceAllStringFunc(s, func(m string) string {
			parts := fracRe.FindStringSubmatch(m)
			return wrapOperand(parts[1]) + "/" + wrapOperand(parts[2])
		})
		next = sqrtNRe.ReplaceAllString(next, "root($2,$1)")
		next = sqrtRe.ReplaceAllString(next, "sqrt($1)")
		if next == s {
			break
		}
		s = next
	}

	for _, r := range latexCommands {
		s = strings.ReplaceAll(s, r.old, r.new)
	}
	return s
}

// wrapOperand parenthesizes a \frac operand unless it is a single atom,
// so "x+1 over 2" keeps its precedence as (x+1)/2.
func wrapOperand(s string) string {
	if s == "" {
		return s
	}
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '.' {
			return "(" + s + ")"
		}
	}
	return s
}

func translateSymbols(s string) string {
	for _, r := range unicodeSymbols {
		s = strings.ReplaceAll(s, r.old, r.new)
	}
	return s
}

// stripUnits drops a fixed vocabulary of measurement units trailing a number,
// so "5 meters" and "5" normalize identically.
func stripUnits(s string) string {
	return unitRe.ReplaceAllString(s, "$1")
}

// canonicalizeList strips a leading "x =" prefix and sorts comma-separated
// numeric lists ascending, so "x = 3, 1, 2" and "1,2,3" compare equal.
func canonicalizeList(s string) string {
	for {
		stripped := varPrefix.ReplaceAllString(s, "")
		if stripped == s {
			break
		}
		s = stripped
	}

	parts := strings.Split(s, ",")
	if len(parts) < 2 {
		return s
	}
	nums := make([]float64, 0, len(parts))
	for _, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return s // not a pure numeric list; leave untouched
		}
		nums = append(nums, f)
	}
	sort.Float64s(nums)
	strs := make([]string, 0, len(nums))
	for _, f := range nums {
		strs = append(strs, strconv.FormatFloat(f, 'f', -1, 64))
	}
	return strings.Join(strs, ",")
}

func stripWhitespace(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}
