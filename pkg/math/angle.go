// Package math provides math helpers for game development on top of mgl32.
package math

import "github.com/chewxy/math32"

// Tau is one full turn in radians.
const Tau = 2 * math32.Pi

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Wrap folds v into the half-open range [lo, hi).
// Values that land on hi after float rounding are returned as lo.
func Wrap(v, lo, hi float32) float32 {
	width := hi - lo
	if width <= 0 {
		return lo
	}
	r := math32.Mod(v-lo, width)
	if r < 0 {
		r += width
	}
	r += lo
	if r >= hi {
		return lo
	}
	return r
}

// Finite reports whether f is neither NaN nor infinite.
func Finite(f float32) bool {
	return !math32.IsNaN(f) && !math32.IsInf(f, 0)
}
