package utils

import "golang.org/x/exp/constraints"

// Clamp bounds t to the interval [min, max]. The bounds may be passed in either order.
func Clamp[T constraints.Ordered](t, min, max T) T {
	if min > max {
		min, max = max, min
	}
	if t < min {
		return min
	}
	if t > max {
		return max
	}
	return t
}

// FloorMod returns x modulo m with the sign of m, so negative offsets wrap backwards.
func FloorMod(x, m int) int {
	r := x % m
	if r != 0 && (r < 0) != (m < 0) {
		r += m
	}
	return r
}

// ToUnitClamp returns a function that scales a number from the interval [rMin, rMax] to the
// unit interval, clamping results that fall outside [0, 1].
func ToUnitClamp(rMin, rMax float64) func(m float64) float64 {
	return func(m float64) float64 {
		if rMin == rMax {
			return 0
		}
		return Clamp((m-rMin)/(rMax-rMin), 0, 1)
	}
}
