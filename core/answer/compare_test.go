package answer

import (
	"strings"
	"testing"
)

func TestCompareMathAnswersPermissive(t *testing.T) {
	c := NewChecker(ModePermissive)

	tests := []struct {
		name string
		a, b string
		want bool
	}{
		{name: "identical", a: "5", b: "5", want: true},
		{name: "whitespace and case", a: " X + 1 ", b: "x+1", want: true},
		{name: "latex vs plain fraction", a: `\frac{1}{2}`, b: "1/2", want: true},
		{name: "fraction vs decimal", a: "1/2", b: "0.5", want: true},
		{name: "unequal fractions", a: "1/4", b: "1/2", want: false},
		{name: "equivalent fractions", a: "2/4", b: "1/2", want: true},
		{name: "percentage vs decimal", a: "50%", b: "0.5", want: true},
		{name: "scientific vs plain", a: "3.2e4", b: "32000", want: true},
		{name: "scientific power form", a: "3.2×10^4", b: "32000", want: true},
		{name: "mixed number vs decimal", a: "1 1/2", b: "1.5", want: true},
		{name: "mixed number dash form", a: "1-1/2", b: "1.5", want: true},
		{name: "mixed number is not its collapsed fraction", a: "1 1/2", b: "5.5", want: false},
		{name: "improper fraction keeps its value", a: "11/2", b: "5.5", want: true},
		{name: "tolerance inside band", a: "0.99", b: "0.9909", want: true},
		{name: "tolerance outside band", a: "0.99", b: "0.992", want: false},
		{name: "unit stripped", a: "5 meters", b: "5", want: true},
		{name: "list order", a: "3, 1, 2", b: "1,2,3", want: true},
		{name: "expression equivalence", a: "2x+2", b: "2(x+1)", want: true},
		{name: "expression mismatch", a: "2x+2", b: "2x+3", want: false},
		{name: "vulgar fraction", a: "½", b: "1/2", want: true},
		{name: "empty never matches", a: "", b: "", want: false},
		{name: "garbage", a: "?!#", b: "5", want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.CompareMathAnswers(tt.a, tt.b); got != tt.want {
				t.Errorf("CompareMathAnswers(%q, %q) = %v; want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestCompareMathAnswersStrict(t *testing.T) {
	c := NewChecker(ModeStrict)

	tests := []struct {
		name string
		a, b string
		want bool
	}{
		{name: "exact still matches", a: "0.5", b: "0.5", want: true},
		{name: "fraction vs decimal allowed", a: "1/2", b: "0.5", want: true},
		{name: "mixed number allowed", a: "1 1/2", b: "1.5", want: true},
		{name: "percentage cross-form rejected", a: "50%", b: "0.5", want: false},
		{name: "same-form percentages allowed", a: "50.0%", b: "50%", want: true},
		{name: "scientific cross-form rejected", a: "3.2e4", b: "32000", want: false},
		{name: "expression equivalence rejected", a: "2x+2", b: "2(x+1)", want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.CompareMathAnswers(tt.a, tt.b); got != tt.want {
				t.Errorf("strict CompareMathAnswers(%q, %q) = %v; want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

// compareMathAnswers(a,b) == compareMathAnswers(b,a) when no alternates are involved.
func TestCompareMathAnswersSymmetric(t *testing.T) {
	c := NewChecker(ModePermissive)
	pairs := [][2]string{
		{"1/2", "0.5"}, {"50%", "0.5"}, {"3.2e4", "32000"}, {"1 1/2", "1.5"},
		{"2x+2", "2(x+1)"}, {"0.99", "0.9909"}, {"0.99", "0.992"}, {"abc", "5"},
	}
	for _, p := range pairs {
		ab := c.CompareMathAnswers(p[0], p[1])
		ba := c.CompareMathAnswers(p[1], p[0])
		if ab != ba {
			t.Errorf("CompareMathAnswers not symmetric for (%q, %q): %v != %v", p[0], p[1], ab, ba)
		}
	}
}

func TestCompareMathAnswersAlternates(t *testing.T) {
	c := NewChecker(ModePermissive)

	if !c.CompareMathAnswers("four", "4", "four", "iv") {
		t.Error("alternate should match")
	}
	if c.CompareMathAnswers("five", "4", "four", "iv") {
		t.Error("non-alternate should not match")
	}
}

func TestCompareNumericAnswers(t *testing.T) {
	c := NewChecker(ModePermissive)
	tol := 0.5

	tests := []struct {
		name     string
		in       string
		expected float64
		opts     []NumericOptions
		want     bool
	}{
		{name: "plain match", in: "32", expected: 32, want: true},
		{name: "unevaluated power rejected", in: "2^5", expected: 32, want: false},
		{name: "unevaluated sum rejected", in: "30+2", expected: 32, want: false},
		{name: "unevaluated product rejected", in: "4*8", expected: 32, want: false},
		{name: "unevaluated sqrt rejected", in: "sqrt(1024)", expected: 32, want: false},
		{name: "fraction accepted", in: "64/2", expected: 32, want: true},
		{name: "scientific accepted", in: "3.2e1", expected: 32, want: true},
		{name: "signed number accepted", in: "-32", expected: -32, want: true},
		{name: "mixed number accepted", in: "1 1/2", expected: 1.5, want: true},
		{name: "within band", in: "32.01", expected: 32, want: true},
		{name: "outside band", in: "32.2", expected: 32, want: false},
		{name: "explicit tolerance wins", in: "32.4", expected: 32, opts: []NumericOptions{{Tolerance: &tol}}, want: true},
		{name: "expressions allowed when opted in", in: "2^5", expected: 32, opts: []NumericOptions{{AllowExpressions: true}}, want: true},
		{name: "garbage", in: "lots", expected: 32, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.CompareNumericAnswers(tt.in, tt.expected, tt.opts...); got != tt.want {
				t.Errorf("CompareNumericAnswers(%q, %v) = %v; want %v", tt.in, tt.expected, got, tt.want)
			}
		})
	}
}

func TestParseMode(t *testing.T) {
	if ParseMode("strict") != ModeStrict {
		t.Error(`ParseMode("strict") should be ModeStrict`)
	}
	if ParseMode("STRICT ") != ModeStrict {
		t.Error("ParseMode should be case-insensitive")
	}
	if ParseMode("permissive") != ModePermissive {
		t.Error(`ParseMode("permissive") should be ModePermissive`)
	}
	if ParseMode("") != ModePermissive {
		t.Error("unknown mode should default to permissive")
	}
}

// No input may panic: the engine degrades to "no match" on anything.
func TestEngineNeverPanics(t *testing.T) {
	c := NewChecker(ModePermissive)
	corpus := []string{
		"", " ", "((((((", "))))", `\frac{`, `\frac{1}{0}`, "1/0", "%", "^", "-",
		"'; DROP TABLE attempts;--", "<script>alert(1)</script>",
		"\u200b\u200b\u200b", "𝔸𝔹ℂ", "NaN", "Inf", "-Inf", "1e99999",
		strings.Repeat("(", 10000), strings.Repeat("1+", 5000),
		strings.Repeat(`\frac{1}{`, 200), strings.Repeat("√", 1000),
	}
	for _, s := range corpus {
		// none of these calls may panic
		_ = c.CompareMathAnswers(s, s)
		_ = c.CompareNumericAnswers(s, 42)
		_ = Normalize(s)
		_ = FormatForDisplay(s)
		_ = c.Validate(s, s, TypeNumeric, NumericSpec{})
		_ = c.Validate(s, s, TypeShortAnswer, ShortAnswerSpec{})
	}
}
