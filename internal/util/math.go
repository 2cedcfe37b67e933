package util

import "math"

// InSignedUnit reports whether x is a number in [-1, 1].
func InSignedUnit(x float64) bool {
	return !math.IsNaN(x) && x >= -1 && x <= 1
}
