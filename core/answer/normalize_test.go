package answer

import (
	"strings"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "empty", in: "", want: ""},
		{name: "trim and lower", in: "  ABC  ", want: "abc"},
		{name: "whitespace removed", in: "2 + 3", want: "2+3"},
		{name: "inline math delimiters", in: `\(\frac{1}{2}\)`, want: "1/2"},
		{name: "dollar delimiters", in: `$0.5$`, want: "0.5"},
		{name: "display delimiters", in: `\[x^2\]`, want: "x^2"},
		{name: "frac", in: `\frac{3}{4}`, want: "3/4"},
		{name: "frac with compound numerator", in: `\frac{x+1}{2}`, want: "(x+1)/2"},
		{name: "nested frac", in: `\frac{\frac{1}{2}}{3}`, want: "(1/2)/3"},
		{name: "sqrt", in: `\sqrt{16}`, want: "sqrt(16)"},
		{name: "nth root", in: `\sqrt[3]{8}`, want: "root(8,3)"},
		{name: "times and cdot", in: `3\times4\cdot5`, want: "3*4*5"},
		{name: "div", in: `8\div2`, want: "8/2"},
		{name: "pm", in: `3\pm1`, want: "3+-1"},
		{name: "left right parens", in: `\left(3\right)`, want: "(3)"},
		{name: "latex greek", in: `2\pi`, want: "2pi"},
		{name: "latex comparison", in: `x\leq5`, want: "x<=5"},
		{name: "latex trig", in: `\sin(x)`, want: "sin(x)"},
		{name: "unicode multiply divide", in: "3×4÷2", want: "3*4/2"},
		{name: "unicode minus variants", in: "5−3–1—1", want: "5-3-1-1"},
		{name: "superscripts", in: "3²+2³", want: "3^2+2^3"},
		{name: "vulgar fraction half", in: "½", want: "0.5"},
		{name: "vulgar fraction quarters", in: "¼+¾", want: "0.25+0.75"},
		{name: "greek letter", in: "2π", want: "2pi"},
		{name: "set symbols", in: "x ∈ A", want: "xina"},
		{name: "blackboard bold", in: "x∈ℝ", want: "xinr"},
		{name: "sqrt symbol", in: "√(9)", want: "sqrt(9)"},
		{name: "unit meters", in: "5 meters", want: "5"},
		{name: "unit abbreviation", in: "25cm", want: "25"},
		{name: "unit with period", in: "12 in. is not a unit we strip", want: "12in.isnotaunitwestrip"},
		{name: "unit hours", in: "3 hours", want: "3"},
		{name: "variable prefix", in: "x = 7", want: "7"},
		{name: "list sorted", in: "3, 1, 2", want: "1,2,3"},
		{name: "list with prefix", in: "x = 3, 1, 2", want: "1,2,3"},
		{name: "non numeric list untouched", in: "b,a", want: "b,a"},
		{name: "coordinates untouched", in: "(3,1)", want: "(3,1)"},
		{name: "unterminated latex passes through", in: `\frac{1}{`, want: `\frac{1}{`},
		{name: "unknown command passes through", in: `\unknown{3}`, want: `\unknown{3}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.in); got != tt.want {
				t.Errorf("Normalize(%q) = %q; want %q", tt.in, got, tt.want)
			}
		})
	}
}

// normalize(normalize(x)) == normalize(x) must hold for arbitrary input.
func TestNormalizeIdempotent(t *testing.T) {
	corpus := []string{
		"", "42", "1/2", "1 1/2", "50%", "3.2e4", `\frac{1}{2}`, `\sqrt{16}`,
		`\sqrt[3]{8}`, "½", "3²", "2π", "x = 3, 1, 2", "5 meters", "y = x = 2",
		"x∈ℝ", `$\left(\frac{x+1}{2}\right)$`, `\frac{1}{`, "((((((((1))))))))",
		"'; DROP TABLE answers;--", "<script>alert(1)</script>", "√√√√9",
		strings.Repeat("(", 500), strings.Repeat("½", 100),
	}
	for _, s := range corpus {
		once := Normalize(s)
		twice := Normalize(once)
		if once != twice {
			t.Errorf("Normalize not idempotent for %q: %q != %q", s, once, twice)
		}
	}
}
