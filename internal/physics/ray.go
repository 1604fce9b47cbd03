package physics

import (
	"github.com/chewxy/math32"
	"github.com/ethaniccc/float32-cube/cube"
	"github.com/go-gl/mathgl/mgl32"

	gmath "github.com/Faultbox/charctl/pkg/math"
)

// Ray represents a ray in 3D space with origin and direction.
type Ray struct {
	Origin mgl32.Vec3
	Dir    mgl32.Vec3
}

// At returns the point at parameter t along the ray.
func (r Ray) At(t float32) mgl32.Vec3 {
	return r.Origin.Add(r.Dir.Mul(t))
}

// RayHit is the result of a ray cast.
type RayHit struct {
	Collider Handle
	// Toi is the distance along the ray in units of Dir.
	Toi float32
	// Normal is the surface normal at the hit point. It is zero when a solid
	// cast starts inside a shape.
	Normal mgl32.Vec3
}

// CastRay returns the closest collider hit by ray within maxToi. With solid set,
// a ray starting inside a shape hits it at toi 0; otherwise it reports the
// point where it leaves the shape.
func (w *World) CastRay(ray Ray, maxToi float32, solid bool, filter Filter) (RayHit, bool) {
	if ray.Dir.LenSqr() == 0 || maxToi <= 0 {
		return RayHit{}, false
	}
	end := ray.At(maxToi)
	area := cube.Box(
		math32.Min(ray.Origin[0], end[0]), math32.Min(ray.Origin[1], end[1]), math32.Min(ray.Origin[2], end[2]),
		math32.Max(ray.Origin[0], end[0]), math32.Max(ray.Origin[1], end[1]), math32.Max(ray.Origin[2], end[2]),
	).Grow(castTolerance)

	best := RayHit{Toi: math32.MaxFloat32}
	found := false
	w.candidates(area, filter, func(c *Collider) bool {
		toi, n, ok := rayCollider(ray, maxToi, solid, c)
		if ok && toi < best.Toi {
			best = RayHit{Collider: c.Handle, Toi: toi, Normal: n}
			found = true
		}
		return true
	})
	return best, found
}

func rayCollider(ray Ray, maxToi float32, solid bool, c *Collider) (float32, mgl32.Vec3, bool) {
	local := Ray{
		Origin: c.Pose.InverseApply(ray.Origin),
		Dir:    c.Pose.InverseRotate(ray.Dir),
	}
	var (
		toi float32
		n   mgl32.Vec3
		ok  bool
	)
	switch s := c.Shape.(type) {
	case Cuboid:
		toi, n, ok = local.intersectBox(s.HalfExtents, solid)
	case Cylinder:
		toi, n, ok = local.intersectCylinder(s, solid)
	case HalfSpace:
		toi, n, ok = local.intersectHalfSpace(gmath.NormalizeOrZero(s.Normal), solid)
	}
	if !ok || toi > maxToi {
		return 0, mgl32.Vec3{}, false
	}
	return toi, c.Pose.Rotation.Rotate(n), true
}

// intersectBox is the slab test against a box centred on the origin.
func (r Ray) intersectBox(half mgl32.Vec3, solid bool) (float32, mgl32.Vec3, bool) {
	tmin := float32(-math32.MaxFloat32)
	tmax := float32(math32.MaxFloat32)
	var nEnter, nExit mgl32.Vec3

	for axis := 0; axis < 3; axis++ {
		o, d := r.Origin[axis], r.Dir[axis]
		if d == 0 {
			if o < -half[axis] || o > half[axis] {
				return 0, mgl32.Vec3{}, false
			}
			continue
		}
		t1 := (-half[axis] - o) / d
		t2 := (half[axis] - o) / d
		// Entering through the -axis face when moving toward +axis.
		n1 := float32(-1)
		if t1 > t2 {
			t1, t2 = t2, t1
			n1 = 1
		}
		if t1 > tmin {
			tmin = t1
			nEnter = mgl32.Vec3{}
			nEnter[axis] = n1
		}
		if t2 < tmax {
			tmax = t2
			nExit = mgl32.Vec3{}
			nExit[axis] = -n1
		}
	}

	if tmax < tmin || tmax < 0 {
		return 0, mgl32.Vec3{}, false
	}
	if tmin < 0 {
		// Starting inside.
		if solid {
			return 0, mgl32.Vec3{}, true
		}
		return tmax, nExit, true
	}
	return tmin, nEnter, true
}

func (r Ray) intersectHalfSpace(n mgl32.Vec3, solid bool) (float32, mgl32.Vec3, bool) {
	s := r.Origin.Dot(n)
	denom := r.Dir.Dot(n)
	if s <= 0 {
		if solid {
			return 0, mgl32.Vec3{}, true
		}
		// Half-spaces have no exit point.
		return 0, mgl32.Vec3{}, false
	}
	if denom >= 0 {
		return 0, mgl32.Vec3{}, false
	}
	return -s / denom, n, true
}

func (r Ray) intersectCylinder(c Cylinder, solid bool) (float32, mgl32.Vec3, bool) {
	o, d := r.Origin, r.Dir
	inside := o[0]*o[0]+o[2]*o[2] <= c.Radius*c.Radius && math32.Abs(o[1]) <= c.HalfHeight
	if inside && solid {
		return 0, mgl32.Vec3{}, true
	}

	best := float32(math32.MaxFloat32)
	var bestN mgl32.Vec3
	consider := func(t float32, n mgl32.Vec3) {
		if t >= 0 && t < best {
			best, bestN = t, n
		}
	}

	// Side wall.
	a := d[0]*d[0] + d[2]*d[2]
	if a > 1e-12 {
		b := 2 * (o[0]*d[0] + o[2]*d[2])
		cc := o[0]*o[0] + o[2]*o[2] - c.Radius*c.Radius
		disc := b*b - 4*a*cc
		if disc >= 0 {
			sq := math32.Sqrt(disc)
			for _, t := range [2]float32{(-b - sq) / (2 * a), (-b + sq) / (2 * a)} {
				p := r.At(t)
				if math32.Abs(p[1]) <= c.HalfHeight {
					consider(t, gmath.NormalizeOrZero(mgl32.Vec3{p[0], 0, p[2]}))
				}
			}
		}
	}
	// Caps.
	if d[1] != 0 {
		for _, y := range [2]float32{-c.HalfHeight, c.HalfHeight} {
			t := (y - o[1]) / d[1]
			p := r.At(t)
			if p[0]*p[0]+p[2]*p[2] <= c.Radius*c.Radius {
				consider(t, mgl32.Vec3{0, sign(y), 0})
			}
		}
	}
	if best == math32.MaxFloat32 {
		return 0, mgl32.Vec3{}, false
	}
	return best, bestN, true
}
