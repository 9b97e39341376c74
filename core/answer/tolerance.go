package answer

import "math"

// smartTolerance maps a numeric magnitude to an absolute comparison epsilon.
// Rounding slack scales with answer size: a student rounding 0.333 is held to
// a tighter bound than one rounding 12,345.
func smartTolerance(magnitude float64) float64 {
	m := math.Abs(magnitude)
	switch {
	case m < 1:
		return 0.001
	case m < 10:
		return 0.01
	case m < 100:
		return 0.05
	default:
		return m * 0.001
	}
}

func withinTolerance(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}
