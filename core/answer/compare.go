package answer

import (
	"math"
	"strings"
)

// Mode selects the grading policy. The two policies return different verdicts
// on identical inputs (e.g. "50%" vs "0.5" passes permissive and fails
// strict), so callers must choose explicitly; the zero value is permissive.
type Mode int

const (
	// ModePermissive applies the full multi-tier equivalence ladder,
	// including percentage/decimal, scientific-notation and
	// algebraic-expression matches.
	ModePermissive Mode = iota

	// ModeStrict accepts exact, fraction, mixed-number and tolerance-banded
	// numeric matches only; cross-notation percentage, scientific and
	// expression matches are treated as false positives.
	ModeStrict
)

// ParseMode maps a configuration string to a Mode; anything but "strict" is
// permissive.
func ParseMode(s string) Mode {
	if strings.EqualFold(strings.TrimSpace(s), "strict") {
		return ModeStrict
	}
	return ModePermissive
}

func (m Mode) String() string {
	if m == ModeStrict {
		return "strict"
	}
	return "permissive"
}

// Checker grades answers under a fixed matching Mode. It is stateless and
// safe for concurrent use from any number of request handlers.
type Checker struct {
	mode Mode
}

func NewChecker(mode Mode) *Checker {
	return &Checker{mode: mode}
}

func (c *Checker) Mode() Mode { return c.mode }

// NumericOptions tunes CompareNumericAnswers.
type NumericOptions struct {
	// Tolerance overrides the magnitude-based tolerance band when non-nil.
	Tolerance *float64
	// AllowExpressions bypasses the unevaluated-expression rejection, for
	// questions that legitimately accept "sqrt(16)" as an answer.
	AllowExpressions bool
}

// CompareMathAnswers reports whether two free-typed math answers are the same
// answer. Both sides are normalized, then the equivalence tiers run in order
// until one matches. The function is total: no input ever makes it panic.
func (c *Checker) CompareMathAnswers(a, b string, alternates ...string) bool {
	match, _ := c.compareMath(a, b, alternates)
	return match
}

// compareMath runs the tier ladder and reports which tier matched.
func (c *Checker) compareMath(a, b string, alternates []string) (bool, MatchType) {
	na, nb := Normalize(a), Normalize(b)

	// tier 1: exact equality post-normalization
	if na != "" && na == nb {
		return true, MatchExact
	}

	// tiers 2-3: both sides resolve to numeric values
	va, ka, okA := parseNumericLoose(a)
	vb, kb, okB := parseNumericLoose(b)
	if okA && okB {
		tol := smartTolerance(math.Max(math.Abs(va), math.Abs(vb)))
		if withinTolerance(va, vb, tol) && c.allowKinds(ka, kb) {
			return true, numericMatchType(ka, kb)
		}
	}

	// tier 4: algebraic-expression equivalence by point sampling
	if c.mode == ModePermissive && !(okA && okB) {
		if exprEquivalent(na, nb) {
			return true, MatchExpression
		}
	}

	// tier 5: alternates list
	for _, alt := range alternates {
		if nalt := Normalize(alt); nalt != "" && nalt == na {
			return true, MatchAlternate
		}
	}
	return false, MatchNone
}

// allowKinds applies the strict-mode policy: a cross-notation match involving
// percentages or scientific notation is rejected as a false positive.
func (c *Checker) allowKinds(ka, kb numericKind) bool {
	if c.mode == ModePermissive {
		return true
	}
	if ka == kindPercentage || kb == kindPercentage {
		return ka == kb
	}
	if ka == kindScientific || kb == kindScientific {
		return ka == kb
	}
	return true
}

// CompareNumericAnswers reports whether a free-typed answer matches an
// expected numeric result. Unevaluated expressions ("2^5" for 32) are
// rejected unless AllowExpressions is set: students must submit the computed
// value, not restate the question.
func (c *Checker) CompareNumericAnswers(s string, expected float64, opts ...NumericOptions) bool {
	match, _ := c.compareNumeric(s, expected, opts...)
	return match
}

func (c *Checker) compareNumeric(s string, expected float64, opts ...NumericOptions) (bool, MatchType) {
	var o NumericOptions
	if len(opts) > 0 {
		o = opts[0]
	}

	ns := Normalize(s)
	if !o.AllowExpressions && isUnevaluatedExpression(ns) {
		return false, MatchNone
	}

	tol := smartTolerance(math.Abs(expected))
	if o.Tolerance != nil {
		tol = *o.Tolerance
	}

	if v, kind, ok := parseNumericLoose(s); ok {
		if withinTolerance(v, expected, tol) {
			return true, numericMatchType(kind, kindPlain)
		}
		return false, MatchNone
	}

	// accepted expressions (AllowExpressions) may still evaluate to the answer
	if o.AllowExpressions && c.mode == ModePermissive {
		if ast, vars, ok := parseExpr(ns); ok && len(vars) == 0 {
			if v, err := ast.eval(nil); err == nil && withinTolerance(v, expected, tol) {
				return true, MatchExpression
			}
		}
	}
	return false, MatchNone
}

// parseNumericLoose parses using every accepted notation. Mixed numbers go
// first, on a lightly cleaned form that preserves their interior space: full
// normalization collapses "1 1/2" into "11/2", which the fraction parser
// would then misread as 5.5.
func parseNumericLoose(s string) (float64, numericKind, bool) {
	clean := strings.Join(strings.Fields(strings.ToLower(SanitizeInput(s))), " ")
	clean = translateSymbols(clean)
	if v, ok := parseMixedNumber(clean); ok {
		return v, kindMixedNumber, true
	}
	return parseNumeric(Normalize(s))
}

func numericMatchType(ka, kb numericKind) MatchType {
	for _, k := range [...]numericKind{ka, kb} {
		switch k {
		case kindFraction:
			return MatchFraction
		case kindMixedNumber:
			return MatchMixedNumber
		case kindPercentage:
			return MatchPercentage
		case kindScientific:
			return MatchScientific
		}
	}
	return MatchNumeric
}
