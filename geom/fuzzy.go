package geom

import "math"

// Epsilon is the machine epsilon for float64.
const Epsilon = 2.220446049250313e-16

// maxULPs is the tolerance of FuzzyEqual in units in the last place.
const maxULPs = 4

// FuzzyEqual reports whether a and b are equal within a few ULPs.
func FuzzyEqual(a, b float64) bool {
	if a == b {
		return true
	}
	if math.IsNaN(a) || math.IsNaN(b) {
		return false
	}
	if math.Signbit(a) != math.Signbit(b) {
		return false
	}
	ia := int64(math.Float64bits(a))
	ib := int64(math.Float64bits(b))
	diff := ia - ib
	if diff < 0 {
		diff = -diff
	}
	return diff <= maxULPs
}

// FuzzyZero reports whether v is equal to zero within a few ULPs.
func FuzzyZero(v float64) bool {
	return FuzzyEqual(v, 0)
}

// IsValidLength reports whether v is a positive finite number.
func IsValidLength(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}

// Clamp bounds v to [lo, hi].
func Clamp(lo, v, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
