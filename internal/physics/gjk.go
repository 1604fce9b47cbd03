package physics

import (
	"github.com/go-gl/mathgl/mgl32"
)

const (
	gjkMaxIterations = 64
	gjkRelTolerance  = 1e-6
	gjkAbsTolerance  = 1e-10
)

// simplexVertex is a point of the Minkowski difference A - B together with the
// support points of A and B that produced it.
type simplexVertex struct {
	w, a, b mgl32.Vec3
}

// distanceResult is the outcome of a GJK distance query.
type distanceResult struct {
	// Distance between the shapes; zero when they intersect.
	Distance float32
	// PointA and PointB are the closest points on A and B in world space.
	PointA, PointB mgl32.Vec3
	// Intersecting is set when the shapes overlap (or touch within tolerance).
	Intersecting bool
}

// gjkDistance computes the distance between two convex shapes.
func gjkDistance(a Convex, pa Iso, b Convex, pb Iso) distanceResult {
	support := func(d mgl32.Vec3) simplexVertex {
		sa := worldSupport(a, pa, d)
		sb := worldSupport(b, pb, d.Mul(-1))
		return simplexVertex{w: sa.Sub(sb), a: sa, b: sb}
	}

	dir := pa.Translation.Sub(pb.Translation)
	if dir.LenSqr() < gjkAbsTolerance {
		dir = mgl32.Vec3{1, 0, 0}
	}
	first := support(dir.Mul(-1))
	simplex := []simplexVertex{first}
	bary := []float32{1}
	v := first.w

	for i := 0; i < gjkMaxIterations; i++ {
		vv := v.Dot(v)
		if vv <= gjkAbsTolerance {
			return distanceResult{Intersecting: true, PointA: first.a, PointB: first.a}
		}

		p := support(v.Mul(-1))
		// No further progress toward the origin is possible.
		if vv-v.Dot(p.w) <= gjkRelTolerance*vv {
			break
		}
		if containsVertex(simplex, p.w) {
			break
		}

		candidate := append(append([]simplexVertex(nil), simplex...), p)
		nv, ns, nb := closestOnSimplex(candidate)
		if len(ns) == 4 {
			return distanceResult{Intersecting: true, PointA: p.a, PointB: p.a}
		}
		// Guard against numerical stalling.
		if nv.Dot(nv) >= vv {
			break
		}
		v, simplex, bary = nv, ns, nb
	}

	var ptA, ptB mgl32.Vec3
	for i, s := range simplex {
		ptA = ptA.Add(s.a.Mul(bary[i]))
		ptB = ptB.Add(s.b.Mul(bary[i]))
	}
	return distanceResult{
		Distance: v.Len(),
		PointA:   ptA,
		PointB:   ptB,
	}
}

func containsVertex(simplex []simplexVertex, w mgl32.Vec3) bool {
	for _, s := range simplex {
		if s.w.Sub(w).LenSqr() <= gjkAbsTolerance {
			return true
		}
	}
	return false
}

// closestOnSimplex returns the point of the simplex closest to the origin, the
// smallest sub-simplex containing it and the barycentric weights on that
// sub-simplex. A returned simplex of four vertices means the origin is inside.
func closestOnSimplex(s []simplexVertex) (mgl32.Vec3, []simplexVertex, []float32) {
	switch len(s) {
	case 1:
		return s[0].w, s, []float32{1}
	case 2:
		return closestOnSegment(s[0], s[1])
	case 3:
		return closestOnTriangle(s[0], s[1], s[2])
	default:
		return closestOnTetrahedron(s[0], s[1], s[2], s[3])
	}
}

func closestOnSegment(a, b simplexVertex) (mgl32.Vec3, []simplexVertex, []float32) {
	ab := b.w.Sub(a.w)
	denom := ab.Dot(ab)
	if denom <= gjkAbsTolerance {
		return a.w, []simplexVertex{a}, []float32{1}
	}
	t := -a.w.Dot(ab) / denom
	if t <= 0 {
		return a.w, []simplexVertex{a}, []float32{1}
	}
	if t >= 1 {
		return b.w, []simplexVertex{b}, []float32{1}
	}
	return a.w.Add(ab.Mul(t)), []simplexVertex{a, b}, []float32{1 - t, t}
}

// closestOnTriangle follows the Voronoi region walk from Ericson's
// Real-Time Collision Detection, with the query point at the origin.
func closestOnTriangle(a, b, c simplexVertex) (mgl32.Vec3, []simplexVertex, []float32) {
	ab := b.w.Sub(a.w)
	ac := c.w.Sub(a.w)
	ap := a.w.Mul(-1)

	d1 := ab.Dot(ap)
	d2 := ac.Dot(ap)
	if d1 <= 0 && d2 <= 0 {
		return a.w, []simplexVertex{a}, []float32{1}
	}

	bp := b.w.Mul(-1)
	d3 := ab.Dot(bp)
	d4 := ac.Dot(bp)
	if d3 >= 0 && d4 <= d3 {
		return b.w, []simplexVertex{b}, []float32{1}
	}

	vc := d1*d4 - d3*d2
	if vc <= 0 && d1 >= 0 && d3 <= 0 {
		t := d1 / (d1 - d3)
		return a.w.Add(ab.Mul(t)), []simplexVertex{a, b}, []float32{1 - t, t}
	}

	cp := c.w.Mul(-1)
	d5 := ab.Dot(cp)
	d6 := ac.Dot(cp)
	if d6 >= 0 && d5 <= d6 {
		return c.w, []simplexVertex{c}, []float32{1}
	}

	vb := d5*d2 - d1*d6
	if vb <= 0 && d2 >= 0 && d6 <= 0 {
		t := d2 / (d2 - d6)
		return a.w.Add(ac.Mul(t)), []simplexVertex{a, c}, []float32{1 - t, t}
	}

	va := d3*d6 - d5*d4
	if va <= 0 && (d4-d3) >= 0 && (d5-d6) >= 0 {
		t := (d4 - d3) / ((d4 - d3) + (d5 - d6))
		return b.w.Add(c.w.Sub(b.w).Mul(t)), []simplexVertex{b, c}, []float32{1 - t, t}
	}

	sum := va + vb + vc
	if sum <= gjkAbsTolerance && sum >= -gjkAbsTolerance {
		// Degenerate triangle: fall back to its longest edge.
		return closestOnSegment(a, c)
	}
	denom := 1 / sum
	v := vb * denom
	w := vc * denom
	p := a.w.Add(ab.Mul(v)).Add(ac.Mul(w))
	return p, []simplexVertex{a, b, c}, []float32{1 - v - w, v, w}
}

func closestOnTetrahedron(a, b, c, d simplexVertex) (mgl32.Vec3, []simplexVertex, []float32) {
	faces := [4][4]simplexVertex{
		{a, b, c, d},
		{a, c, d, b},
		{a, d, b, c},
		{b, d, c, a},
	}

	found := false
	var bestP mgl32.Vec3
	var bestS []simplexVertex
	var bestB []float32
	bestDist := float32(0)

	for _, f := range faces {
		if !originOutsideFace(f[0].w, f[1].w, f[2].w, f[3].w) {
			continue
		}
		p, s, bc := closestOnTriangle(f[0], f[1], f[2])
		if dist := p.Dot(p); !found || dist < bestDist {
			found = true
			bestP, bestS, bestB, bestDist = p, s, bc, dist
		}
	}
	if !found {
		return mgl32.Vec3{}, []simplexVertex{a, b, c, d}, []float32{0.25, 0.25, 0.25, 0.25}
	}
	return bestP, bestS, bestB
}

// originOutsideFace reports whether the origin lies on the opposite side of
// plane (a, b, c) from d. Degenerate faces are treated as outside so they are
// still searched.
func originOutsideFace(a, b, c, d mgl32.Vec3) bool {
	n := b.Sub(a).Cross(c.Sub(a))
	signD := d.Sub(a).Dot(n)
	if signD*signD <= gjkAbsTolerance*n.LenSqr() {
		return true
	}
	signP := a.Mul(-1).Dot(n)
	return signP*signD < 0
}
