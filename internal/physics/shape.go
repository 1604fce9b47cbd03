// Package physics provides a small query-only collision world: static and
// kinematic colliders, overlap tests, ray casts, shape casts and a kinematic
// character controller built on top of them.
package physics

import (
	"github.com/chewxy/math32"
	"github.com/ethaniccc/float32-cube/cube"
	"github.com/go-gl/mathgl/mgl32"

	gmath "github.com/Faultbox/charctl/pkg/math"
)

// Shape is the geometry of a collider.
type Shape interface {
	// Bounds returns the world-space bounding box of the shape at pose.
	// Unbounded shapes report ok == false.
	Bounds(pose Iso) (box cube.BBox, ok bool)
}

// Convex is a bounded convex shape that can take part in GJK queries.
type Convex interface {
	Shape
	// Support returns the point of the shape, in local space, farthest along dir.
	Support(dir mgl32.Vec3) mgl32.Vec3
}

// Cuboid is a box centred on its local origin.
type Cuboid struct {
	HalfExtents mgl32.Vec3
}

// Support implements Convex.
func (c Cuboid) Support(dir mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{
		sign(dir[0]) * c.HalfExtents[0],
		sign(dir[1]) * c.HalfExtents[1],
		sign(dir[2]) * c.HalfExtents[2],
	}
}

// Bounds implements Shape.
func (c Cuboid) Bounds(pose Iso) (cube.BBox, bool) {
	return orientedBounds(c.HalfExtents, pose), true
}

// Cylinder is a solid cylinder whose axis is the local Y axis.
type Cylinder struct {
	HalfHeight float32
	Radius     float32
}

// Support implements Convex.
func (c Cylinder) Support(dir mgl32.Vec3) mgl32.Vec3 {
	out := mgl32.Vec3{0, sign(dir[1]) * c.HalfHeight, 0}
	l := math32.Sqrt(dir[0]*dir[0] + dir[2]*dir[2])
	if l > 1e-9 {
		out[0] = dir[0] / l * c.Radius
		out[2] = dir[2] / l * c.Radius
	}
	return out
}

// Bounds implements Shape.
func (c Cylinder) Bounds(pose Iso) (cube.BBox, bool) {
	return orientedBounds(mgl32.Vec3{c.Radius, c.HalfHeight, c.Radius}, pose), true
}

// HalfSpace is everything below the plane through the collider origin with the
// given outward normal.
type HalfSpace struct {
	Normal mgl32.Vec3
}

// Bounds implements Shape. Half-spaces are unbounded.
func (HalfSpace) Bounds(Iso) (cube.BBox, bool) {
	return cube.BBox{}, false
}

// worldNormal returns the unit outward normal of h at pose.
func (h HalfSpace) worldNormal(pose Iso) mgl32.Vec3 {
	return gmath.NormalizeOrZero(pose.Rotation.Rotate(h.Normal))
}

// Iso is a rigid pose: a rotation followed by a translation.
type Iso struct {
	Translation mgl32.Vec3
	Rotation    mgl32.Quat
}

// Identity returns the identity pose.
func Identity() Iso {
	return Iso{Rotation: mgl32.QuatIdent()}
}

// At returns an unrotated pose at translation t.
func At(t mgl32.Vec3) Iso {
	return Iso{Translation: t, Rotation: mgl32.QuatIdent()}
}

// Apply transforms a local point into world space.
func (i Iso) Apply(p mgl32.Vec3) mgl32.Vec3 {
	return i.Rotation.Rotate(p).Add(i.Translation)
}

// InverseApply transforms a world point into local space.
func (i Iso) InverseApply(p mgl32.Vec3) mgl32.Vec3 {
	return i.Rotation.Conjugate().Rotate(p.Sub(i.Translation))
}

// InverseRotate transforms a world direction into local space.
func (i Iso) InverseRotate(v mgl32.Vec3) mgl32.Vec3 {
	return i.Rotation.Conjugate().Rotate(v)
}

// Translated returns the pose moved by d.
func (i Iso) Translated(d mgl32.Vec3) Iso {
	i.Translation = i.Translation.Add(d)
	return i
}

// worldSupport returns the support point of c at pose along a world direction.
func worldSupport(c Convex, pose Iso, dir mgl32.Vec3) mgl32.Vec3 {
	return pose.Apply(c.Support(pose.InverseRotate(dir)))
}

// orientedBounds returns the world AABB of a box with half extents h at pose.
func orientedBounds(h mgl32.Vec3, pose Iso) cube.BBox {
	m := pose.Rotation.Mat4().Mat3()
	var ext mgl32.Vec3
	for row := 0; row < 3; row++ {
		ext[row] = math32.Abs(m.At(row, 0))*h[0] + math32.Abs(m.At(row, 1))*h[1] + math32.Abs(m.At(row, 2))*h[2]
	}
	min := pose.Translation.Sub(ext)
	max := pose.Translation.Add(ext)
	return cube.Box(min[0], min[1], min[2], max[0], max[1], max[2])
}

func sign(f float32) float32 {
	if f < 0 {
		return -1
	}
	return 1
}
