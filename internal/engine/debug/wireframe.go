// Package debug provides debug visualization utilities.
package debug

import (
	"github.com/chewxy/math32"
	"github.com/ethaniccc/float32-cube/cube"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/charctl/internal/physics"
)

// Vertex is a colored line vertex.
type Vertex struct {
	X, Y, Z float32 // Position
	R, G, B float32 // Color
}

// VertexStride is the number of floats per Vertex in a Flatten buffer.
const VertexStride = 6

// Color is an RGB triple.
type Color [3]float32

// Wireframe colors per body type.
var (
	ColorFixed     = Color{0.15, 0.15, 0.15}
	ColorKinematic = Color{1.0, 0.55, 0.1}
	ColorDynamic   = Color{0.2, 0.4, 1.0}
	ColorBounds    = Color{0.5, 0.5, 0.5}
)

// Cylinder and grid resolution used by ColliderLines.
const (
	CylinderSegments = 24
	GridHalfSize     = 50
	GridCells        = 20
)

// BodyColor returns the wireframe color for a body type.
func BodyColor(b physics.BodyType) Color {
	switch b {
	case physics.BodyKinematicPositionBased:
		return ColorKinematic
	case physics.BodyDynamic:
		return ColorDynamic
	default:
		return ColorFixed
	}
}

func line(dst []Vertex, a, b mgl32.Vec3, c Color) []Vertex {
	return append(dst,
		Vertex{a[0], a[1], a[2], c[0], c[1], c[2]},
		Vertex{b[0], b[1], b[2], c[0], c[1], c[2]},
	)
}

// boxEdges lists the 12 edges of a box as pairs of corner indices. Corner i
// has bit 0 set for +X, bit 1 for +Y and bit 2 for +Z.
var boxEdges = [12][2]int{
	// Bottom face
	{0, 1}, {1, 5}, {5, 4}, {4, 0},
	// Top face
	{2, 3}, {3, 7}, {7, 6}, {6, 2},
	// Vertical edges
	{0, 2}, {1, 3}, {5, 7}, {4, 6},
}

// BoxVertexCount is the number of vertices in a box wireframe (12 edges × 2).
const BoxVertexCount = 24

func boxLines(corner func(i int) mgl32.Vec3, c Color) []Vertex {
	var corners [8]mgl32.Vec3
	for i := range corners {
		corners[i] = corner(i)
	}
	vs := make([]Vertex, 0, BoxVertexCount)
	for _, e := range boxEdges {
		vs = line(vs, corners[e[0]], corners[e[1]], c)
	}
	return vs
}

// BoxLines returns the wireframe of a box with half extents half at pose.
func BoxLines(half mgl32.Vec3, pose physics.Iso, c Color) []Vertex {
	return boxLines(func(i int) mgl32.Vec3 {
		local := mgl32.Vec3{-half[0], -half[1], -half[2]}
		if i&1 != 0 {
			local[0] = half[0]
		}
		if i&2 != 0 {
			local[1] = half[1]
		}
		if i&4 != 0 {
			local[2] = half[2]
		}
		return pose.Apply(local)
	}, c)
}

// BoundsLines returns the wireframe of an axis-aligned box.
func BoundsLines(b cube.BBox, c Color) []Vertex {
	lo, hi := b.Min(), b.Max()
	return boxLines(func(i int) mgl32.Vec3 {
		p := lo
		if i&1 != 0 {
			p[0] = hi[0]
		}
		if i&2 != 0 {
			p[1] = hi[1]
		}
		if i&4 != 0 {
			p[2] = hi[2]
		}
		return p
	}, c)
}

// CylinderVertexCount returns the number of vertices CylinderLines produces:
// two rings plus four struts.
func CylinderVertexCount(segments int) int {
	return 2 * (2*segments + 4)
}

// CylinderLines returns two rings and four struts for a Y-axis cylinder.
func CylinderLines(cyl physics.Cylinder, pose physics.Iso, segments int, c Color) []Vertex {
	if segments < 4 {
		segments = 4
	}
	ring := func(k int, y float32) mgl32.Vec3 {
		s, co := math32.Sincos(2 * math32.Pi * float32(k) / float32(segments))
		return pose.Apply(mgl32.Vec3{co * cyl.Radius, y, s * cyl.Radius})
	}

	vs := make([]Vertex, 0, CylinderVertexCount(segments))
	for k := 0; k < segments; k++ {
		vs = line(vs, ring(k, -cyl.HalfHeight), ring(k+1, -cyl.HalfHeight), c)
		vs = line(vs, ring(k, cyl.HalfHeight), ring(k+1, cyl.HalfHeight), c)
	}
	for q := 0; q < 4; q++ {
		k := q * segments / 4
		vs = line(vs, ring(k, -cyl.HalfHeight), ring(k, cyl.HalfHeight), c)
	}
	return vs
}

// GridVertexCount returns the number of vertices HalfSpaceGrid produces.
func GridVertexCount(cells int) int {
	return 2 * 2 * (cells + 1)
}

// HalfSpaceGrid returns a square grid patch of the half-space boundary plane,
// centred on the pose origin.
func HalfSpaceGrid(h physics.HalfSpace, pose physics.Iso, halfSize float32, cells int, c Color) []Vertex {
	if cells < 1 {
		cells = 1
	}
	n := pose.Rotation.Rotate(h.Normal)
	if n.Len() == 0 {
		return nil
	}
	n = n.Normalize()

	ref := mgl32.Vec3{0, 1, 0}
	if math32.Abs(n[1]) > 0.9 {
		ref = mgl32.Vec3{1, 0, 0}
	}
	u := ref.Cross(n).Normalize()
	v := n.Cross(u)

	origin := pose.Translation
	at := func(a, b float32) mgl32.Vec3 {
		return origin.Add(u.Mul(a)).Add(v.Mul(b))
	}

	vs := make([]Vertex, 0, GridVertexCount(cells))
	step := 2 * halfSize / float32(cells)
	for i := 0; i <= cells; i++ {
		t := -halfSize + float32(i)*step
		vs = line(vs, at(t, -halfSize), at(t, halfSize), c)
		vs = line(vs, at(-halfSize, t), at(halfSize, t), c)
	}
	return vs
}

// ColliderLines returns the wireframe of a collider in its body color.
func ColliderLines(col *physics.Collider) []Vertex {
	c := BodyColor(col.Body)
	switch s := col.Shape.(type) {
	case physics.Cuboid:
		return BoxLines(s.HalfExtents, col.Pose, c)
	case physics.Cylinder:
		return CylinderLines(s, col.Pose, CylinderSegments, c)
	case physics.HalfSpace:
		return HalfSpaceGrid(s, col.Pose, GridHalfSize, GridCells, c)
	default:
		if b, ok := col.Bounds(); ok {
			return BoundsLines(b, ColorBounds)
		}
		return nil
	}
}

// SceneLines returns the wireframes of every collider in w except skip.
func SceneLines(w *physics.World, skip physics.Handle) []Vertex {
	var vs []Vertex
	for _, col := range w.Colliders() {
		if col.Handle == skip {
			continue
		}
		vs = append(vs, ColliderLines(col)...)
	}
	return vs
}

// Flatten packs vertices as [x, y, z, r, g, b] for upload.
func Flatten(vs []Vertex) []float32 {
	out := make([]float32, 0, len(vs)*VertexStride)
	for _, v := range vs {
		out = append(out, v.X, v.Y, v.Z, v.R, v.G, v.B)
	}
	return out
}
