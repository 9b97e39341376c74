package answer

import "testing"

func TestFormatForDisplay(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "empty", in: "", want: ""},
		{name: "whitespace only", in: "   ", want: ""},
		{name: "plain number", in: "5", want: `\(5\)`},
		{name: "fraction", in: "1/2", want: `\(\frac{1}{2}\)`},
		{name: "negative fraction", in: "-3/4", want: `\(\frac{-3}{4}\)`},
		{name: "latex round trip", in: `\frac{1}{2}`, want: `\(\frac{1}{2}\)`},
		{name: "square root", in: "sqrt(2)", want: `\(\sqrt{2}\)`},
		{name: "cube root", in: "cbrt(8)", want: `\(\sqrt[3]{8}\)`},
		{name: "unicode sqrt", in: "√(2)", want: `\(\sqrt{2}\)`},
		{name: "pi constant", in: "2*pi", want: `\(2\times \pi\)`},
		{name: "inequality", in: "x <= 5", want: `\(x\leq 5\)`},
		{name: "unknown fragments pass through", in: "x+1", want: `\(x+1\)`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatForDisplay(tt.in); got != tt.want {
				t.Errorf("FormatForDisplay(%q) = %q; want %q", tt.in, got, tt.want)
			}
		})
	}
}
