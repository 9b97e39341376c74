package answer

import (
	"math"
	"strings"
	"testing"
)

func TestParseExprEval(t *testing.T) {
	tests := []struct {
		name string
		in   string
		vars map[string]float64
		want float64
		ok   bool
	}{
		{name: "number", in: "42", want: 42, ok: true},
		{name: "addition", in: "2+3", want: 5, ok: true},
		{name: "precedence", in: "2+3*4", want: 14, ok: true},
		{name: "parens", in: "(2+3)*4", want: 20, ok: true},
		{name: "power right assoc", in: "2^3^2", want: 512, ok: true},
		{name: "unary minus", in: "-5+3", want: -2, ok: true},
		{name: "pi", in: "2*pi", want: 2 * math.Pi, ok: true},
		{name: "euler", in: "e", want: math.E, ok: true},
		{name: "sqrt", in: "sqrt(16)", want: 4, ok: true},
		{name: "cbrt", in: "cbrt(27)", want: 3, ok: true},
		{name: "nth root", in: "root(8,3)", want: 2, ok: true},
		{name: "log base 10", in: "log(100)", want: 2, ok: true},
		{name: "natural log", in: "ln(e)", want: 1, ok: true},
		{name: "variable", in: "2x+1", vars: map[string]float64{"x": 3}, want: 7, ok: true},
		{name: "implicit product of groups", in: "(x+1)(x-1)", vars: map[string]float64{"x": 3}, want: 8, ok: true},
		{name: "two variables", in: "x*y", vars: map[string]float64{"x": 2, "y": 5}, want: 10, ok: true},
		{name: "empty", in: "", ok: false},
		{name: "dangling operator", in: "2+", ok: false},
		{name: "unknown function", in: "foo(2)", ok: false},
		{name: "too many variables", in: "x+y+z", ok: false},
		{name: "unbalanced parens", in: "(2+3", ok: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ast, _, ok := parseExpr(tt.in)
			if ok != tt.ok {
				t.Fatalf("parseExpr(%q) ok = %v; want %v", tt.in, ok, tt.ok)
			}
			if !ok {
				return
			}
			got, err := ast.eval(tt.vars)
			if err != nil {
				t.Fatalf("eval(%q) error: %v", tt.in, err)
			}
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("eval(%q) = %v; want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestEvalDomainFailures(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{name: "division by zero", in: "1/(2-2)"},
		{name: "sqrt of negative", in: "sqrt(0-4)"},
		{name: "log of zero", in: "log(0)"},
		{name: "ln of negative", in: "ln(0-1)"},
		{name: "zero to negative power", in: "0^(0-1)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ast, _, ok := parseExpr(tt.in)
			if !ok {
				t.Fatalf("parseExpr(%q) failed to parse", tt.in)
			}
			if v, err := ast.eval(nil); err == nil {
				t.Errorf("eval(%q) = %v; want domain error", tt.in, v)
			}
		})
	}
}

func TestExprEquivalent(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want bool
	}{
		{name: "identical", a: "x+1", b: "x+1", want: true},
		{name: "distributed", a: "2x+2", b: "2(x+1)", want: true},
		{name: "commuted", a: "x*y", b: "y*x", want: true},
		{name: "expanded square", a: "(x+1)^2", b: "x^2+2x+1", want: true},
		{name: "constant forms", a: "sqrt(16)", b: "4", want: true},
		{name: "different expressions", a: "x+1", b: "x+2", want: false},
		{name: "different slope", a: "2x", b: "3x", want: false},
		{name: "parse failure fails closed", a: "x+", b: "x", want: false},
		{name: "domain error fails closed", a: "sqrt(0-x)", b: "x", want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := exprEquivalent(tt.a, tt.b); got != tt.want {
				t.Errorf("exprEquivalent(%q, %q) = %v; want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestParseExprCapsNesting(t *testing.T) {
	deep := strings.Repeat("(", 200) + "1" + strings.Repeat(")", 200)
	if _, _, ok := parseExpr(deep); ok {
		t.Error("parseExpr accepted input beyond the depth cap")
	}
	wide := strings.Repeat("1+", 300) + "1"
	if _, _, ok := parseExpr(wide); ok {
		t.Error("parseExpr accepted input beyond the node cap")
	}
}

func TestIsUnevaluatedExpression(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{in: "2+3", want: true},
		{in: "2^5", want: true},
		{in: "6*7", want: true},
		{in: "sqrt(16)", want: true},
		{in: "10-4", want: true},
		{in: "(5)", want: true},
		{in: "5", want: false},
		{in: "-5", want: false},
		{in: "1/2", want: false},
		{in: "1-1/2", want: false},
		{in: "3.2e4", want: false},
		{in: "50%", want: false},
		{in: "", want: false},
		{in: "abc", want: false},
	}
	for _, tt := range tests {
		if got := isUnevaluatedExpression(tt.in); got != tt.want {
			t.Errorf("isUnevaluatedExpression(%q) = %v; want %v", tt.in, got, tt.want)
		}
	}
}
