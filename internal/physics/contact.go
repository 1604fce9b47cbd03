package physics

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	gmath "github.com/Faultbox/charctl/pkg/math"
)

// Contact describes the closest approach between a query shape and a collider.
type Contact struct {
	// Distance is the separation; zero or negative when the shapes overlap.
	// Only half-spaces report a depth below zero.
	Distance float32
	// Normal points from the collider toward the query shape.
	Normal mgl32.Vec3
	// PointShape and PointCollider are the witness points in world space.
	PointShape, PointCollider mgl32.Vec3
}

// contact computes the closest approach between shape at pose and collider c.
func contact(shape Convex, pose Iso, c *Collider) Contact {
	switch other := c.Shape.(type) {
	case HalfSpace:
		n := other.worldNormal(c.Pose)
		deepest := worldSupport(shape, pose, n.Mul(-1))
		d := deepest.Sub(c.Pose.Translation).Dot(n)
		return Contact{
			Distance:      d,
			Normal:        n,
			PointShape:    deepest,
			PointCollider: deepest.Sub(n.Mul(d)),
		}
	case Convex:
		res := gjkDistance(shape, pose, other, c.Pose)
		if res.Intersecting || res.Distance <= 1e-6 {
			return Contact{
				Distance:      0,
				Normal:        pushOutNormal(pose.Translation, other, c.Pose),
				PointShape:    res.PointA,
				PointCollider: res.PointB,
			}
		}
		return Contact{
			Distance:      res.Distance,
			Normal:        res.PointA.Sub(res.PointB).Mul(1 / res.Distance),
			PointShape:    res.PointA,
			PointCollider: res.PointB,
		}
	default:
		return Contact{Distance: math32.MaxFloat32, Normal: gmath.AxisY}
	}
}

// pushOutNormal estimates the direction that moves a point out of a convex
// collider when exact witness points are unavailable because the shapes touch
// or overlap. For boxes it picks the face with the smallest penetration.
func pushOutNormal(p mgl32.Vec3, other Convex, pose Iso) mgl32.Vec3 {
	local := pose.InverseApply(p)
	switch s := other.(type) {
	case Cuboid:
		best := 0
		bestDepth := float32(math32.MaxFloat32)
		for axis := 0; axis < 3; axis++ {
			depth := s.HalfExtents[axis] - math32.Abs(local[axis])
			if depth < bestDepth {
				best, bestDepth = axis, depth
			}
		}
		var n mgl32.Vec3
		n[best] = sign(local[best])
		return pose.Rotation.Rotate(n)
	case Cylinder:
		radial := mgl32.Vec3{local[0], 0, local[2]}
		radialDepth := s.Radius - radial.Len()
		capDepth := s.HalfHeight - math32.Abs(local[1])
		if capDepth < radialDepth || radial.LenSqr() < 1e-9 {
			return pose.Rotation.Rotate(mgl32.Vec3{0, sign(local[1]), 0})
		}
		return pose.Rotation.Rotate(gmath.NormalizeOrZero(radial))
	default:
		n := gmath.NormalizeOrZero(p.Sub(pose.Translation))
		if n.LenSqr() == 0 {
			return gmath.AxisY
		}
		return n
	}
}

// Contact returns the closest approach between shape placed at pose and the
// collider h. ok is false if h is unknown.
func (w *World) Contact(shape Convex, pose Iso, h Handle) (Contact, bool) {
	c, ok := w.colliders[h]
	if !ok {
		return Contact{}, false
	}
	return contact(shape, pose, c), true
}
