package common

import "math"

// Coalesce returns the first non-zero value from the provided values, or the zero value if all are zero.
//
// Parameters:
//   - values: a variadic list of values to check for non-zero status
//
// Returns:
//   - T: the first non-zero value from the input, or the zero value if all are zero
func Coalesce[T comparable](values ...T) T {
	var zero T
	for _, v := range values {
		if v != zero {
			return v
		}
	}
	return zero
}

// Wrap maps any real parameter onto [0, 1) with period 1, so Wrap(t) == Wrap(t+1).
// Non-finite input maps to 0.
//
// Parameters:
//   - t: the parameter to wrap
//
// Returns:
//   - float64: t minus floor(t)
func Wrap(t float64) float64 {
	if math.IsNaN(t) || math.IsInf(t, 0) {
		return 0
	}
	w := t - math.Floor(t)
	if w >= 1 {
		return 0
	}
	return w
}

// AbsMod returns |t mod 1| using truncated modulo. Negative progress is mirrored into [0, 1)
// instead of wrapped, matching how reverse playback has always sampled the path.
//
// Parameters:
//   - t: the parameter to fold
//
// Returns:
//   - float64: a value in [0, 1)
func AbsMod(t float64) float64 {
	if math.IsNaN(t) || math.IsInf(t, 0) {
		return 0
	}
	return math.Abs(math.Mod(t, 1))
}

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
