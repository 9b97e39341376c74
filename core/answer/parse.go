package answer

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// numericKind identifies which accepted notation a value was parsed from.
type numericKind int

const (
	kindPlain numericKind = iota
	kindFraction
	kindMixedNumber
	kindPercentage
	kindScientific
)

var (
	fractionRe = regexp.MustCompile(`^(-?\d+)\s*/\s*(\d+)$`)
	mixedRe    = regexp.MustCompile(`^(-?)(\d+)[ -](\d+)/(\d+)$`)
	percentRe  = regexp.MustCompile(`^(-?\d+(?:\.\d+)?)\s*%$`)
	sciERe     = regexp.MustCompile(`^(-?\d+(?:\.\d+)?)e\s*(-?\d+)$`)
	sciPowRe   = regexp.MustCompile(`^(-?\d+(?:\.\d+)?)\*10\^\(?(-?\d+)\)?$`)
)

// parseFraction recognizes ["-"] digits "/" digits and returns the quotient.
// A zero denominator is a non-match, not an error.
func parseFraction(s string) (float64, bool) {
	m := fractionRe.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	num, err1 := strconv.ParseFloat(m[1], 64)
	den, err2 := strconv.ParseFloat(m[2], 64)
	if err1 != nil || err2 != nil || den == 0 {
		return 0, false
	}
	return num / den, true
}

// parseMixedNumber recognizes ["-"] integer (space|"-") digits "/" digits,
// e.g. "1 1/2" or "1-1/2".
func parseMixedNumber(s string) (float64, bool) {
	m := mixedRe.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	whole, err1 := strconv.ParseFloat(m[2], 64)
	num, err2 := strconv.ParseFloat(m[3], 64)
	den, err3 := strconv.ParseFloat(m[4], 64)
	if err1 != nil || err2 != nil || err3 != nil || den == 0 {
		return 0, false
	}
	v := whole + num/den
	if m[1] == "-" {
		v = -v
	}
	return v, true
}

// parsePercentage recognizes number "%" and returns number/100.
func parsePercentage(s string) (float64, bool) {
	m := percentRe.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, false
	}
	return v / 100, true
}

// parseScientific recognizes both "aEb" and "a*10^b" forms.
func parseScientific(s string) (float64, bool) {
	m := sciERe.FindStringSubmatch(s)
	if m == nil {
		m = sciPowRe.FindStringSubmatch(s)
	}
	if m == nil {
		return 0, false
	}
	mantissa, err1 := strconv.ParseFloat(m[1], 64)
	exp, err2 := strconv.ParseFloat(m[2], 64)
	if err1 != nil || err2 != nil {
		return 0, false
	}
	v := mantissa * math.Pow(10, exp)
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, false
	}
	return v, true
}

func parsePlainNumber(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, false
	}
	return v, true
}

// parseNumeric tries every accepted numeric notation in turn.
func parseNumeric(s string) (float64, numericKind, bool) {
	// plain numbers include the "aEb" scientific form for ParseFloat, so try
	// the explicit notations first to report the right kind.
	if v, ok := parseFraction(s); ok {
		return v, kindFraction, true
	}
	if v, ok := parseMixedNumber(s); ok {
		return v, kindMixedNumber, true
	}
	if v, ok := parsePercentage(s); ok {
		return v, kindPercentage, true
	}
	if v, ok := parseScientific(s); ok {
		return v, kindScientific, true
	}
	if v, ok := parsePlainNumber(s); ok {
		return v, kindPlain, true
	}
	return 0, kindPlain, false
}
