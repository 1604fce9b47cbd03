package math

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Epsilon is the squared length below which a vector is treated as zero.
const Epsilon = 1e-12

// NormalizeOrZero returns a unit vector, or the zero vector when v has no length.
// mgl32's Normalize divides by zero on empty input.
func NormalizeOrZero(v mgl32.Vec3) mgl32.Vec3 {
	l2 := v.LenSqr()
	if l2 <= Epsilon || !Finite(l2) {
		return mgl32.Vec3{}
	}
	return v.Mul(1 / math32.Sqrt(l2))
}

// ProjectOnPlane removes the component of v along the unit normal n.
func ProjectOnPlane(v, n mgl32.Vec3) mgl32.Vec3 {
	return v.Sub(n.Mul(v.Dot(n)))
}

// Horizontal returns v with its component along up removed.
func Horizontal(v, up mgl32.Vec3) mgl32.Vec3 {
	return ProjectOnPlane(v, up)
}

// FiniteVec3 reports whether every component of v is finite.
func FiniteVec3(v mgl32.Vec3) bool {
	return Finite(v[0]) && Finite(v[1]) && Finite(v[2])
}

// FiniteVec2 reports whether both components of v are finite.
func FiniteVec2(v mgl32.Vec2) bool {
	return Finite(v[0]) && Finite(v[1])
}
