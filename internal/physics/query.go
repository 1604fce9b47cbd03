package physics

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	castMaxIterations     = 32
	castTolerance         = 1e-4
	castParallelTolerance = 1e-4
	broadphaseMargin      = 0.1
)

// ShapeCastOptions tunes a shape cast.
type ShapeCastOptions struct {
	// MaxToi bounds the time of impact, in units of the cast velocity.
	MaxToi float32
	// TargetDistance makes the cast stop this far away from obstacles.
	TargetDistance float32
}

// ShapeHit is the first obstacle met by a shape cast.
type ShapeHit struct {
	Collider Handle
	Body     BodyType
	// Toi is the time of impact in units of the cast velocity.
	Toi float32
	// Normal points from the obstacle toward the cast shape.
	Normal mgl32.Vec3
	// WitnessShape and WitnessCollider are the contact points at impact.
	WitnessShape, WitnessCollider mgl32.Vec3
}

// IntersectionWithShape returns the first collider overlapping shape at pose.
func (w *World) IntersectionWithShape(shape Convex, pose Iso, filter Filter) (Handle, bool) {
	area, _ := shape.Bounds(pose)
	area = area.Grow(castTolerance)

	var found Handle
	w.candidates(area, filter, func(c *Collider) bool {
		if contact(shape, pose, c).Distance <= 0 {
			found = c.Handle
			return false
		}
		return true
	})
	return found, found != 0
}

// CastShape sweeps shape from pose along vel and returns the earliest hit.
// Colliders that already touch the shape at the start only count when vel
// moves further into them.
func (w *World) CastShape(shape Convex, pose Iso, vel mgl32.Vec3, opts ShapeCastOptions, filter Filter) (ShapeHit, bool) {
	if vel.LenSqr() == 0 || opts.MaxToi <= 0 {
		return ShapeHit{}, false
	}
	area, _ := shape.Bounds(pose)
	area = area.Extend(vel.Mul(opts.MaxToi)).Grow(opts.TargetDistance + broadphaseMargin)

	best := ShapeHit{Toi: math32.MaxFloat32}
	found := false
	w.candidates(area, filter, func(c *Collider) bool {
		toi, ct, ok := castAgainst(shape, pose, vel, opts, c)
		if ok && toi < best.Toi {
			found = true
			best = ShapeHit{
				Collider:        c.Handle,
				Body:            c.Body,
				Toi:             toi,
				Normal:          ct.Normal,
				WitnessShape:    ct.PointShape,
				WitnessCollider: ct.PointCollider,
			}
		}
		return true
	})
	return best, found
}

// castAgainst runs conservative advancement of shape along vel toward one
// collider. Each step moves the shape to the supporting plane of the current
// closest points, which never overshoots for convex shapes.
func castAgainst(shape Convex, pose Iso, vel mgl32.Vec3, opts ShapeCastOptions, c *Collider) (float32, Contact, bool) {
	speed := vel.Len()
	var t float32
	var ct Contact
	for i := 0; i < castMaxIterations; i++ {
		ct = contact(shape, pose.Translated(vel.Mul(t)), c)
		gap := ct.Distance - opts.TargetDistance
		closing := -vel.Dot(ct.Normal)
		if gap <= castTolerance {
			if i == 0 && closing <= castParallelTolerance*speed {
				return 0, ct, false
			}
			return t, ct, true
		}
		if closing <= castParallelTolerance*speed {
			return 0, ct, false
		}
		t += gap / closing
		if t > opts.MaxToi {
			return 0, ct, false
		}
	}
	return t, ct, true
}
