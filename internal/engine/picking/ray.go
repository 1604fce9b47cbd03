// Package picking casts rays from screen positions into the physics world.
package picking

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/charctl/internal/physics"
)

// ScreenToRay converts screen coordinates to a world-space ray.
// screen is in pixels with the origin at the top-left, viewport is the
// viewport size and invViewProj is the inverse of projection * view.
// ok is false for an empty viewport or a degenerate matrix.
func ScreenToRay(screen, viewport mgl32.Vec2, invViewProj mgl32.Mat4) (physics.Ray, bool) {
	if viewport[0] <= 0 || viewport[1] <= 0 {
		return physics.Ray{}, false
	}

	// Convert screen coords to normalized device coords (-1 to 1)
	ndcX := 2*screen[0]/viewport[0] - 1
	ndcY := 1 - 2*screen[1]/viewport[1] // Flip Y

	// Unproject near and far points
	near := invViewProj.Mul4x1(mgl32.Vec4{ndcX, ndcY, -1, 1})
	far := invViewProj.Mul4x1(mgl32.Vec4{ndcX, ndcY, 1, 1})
	if near[3] == 0 || far[3] == 0 {
		return physics.Ray{}, false
	}

	// Perspective divide
	origin := near.Vec3().Mul(1 / near[3])
	dir := far.Vec3().Mul(1 / far[3]).Sub(origin)
	if dir.Len() == 0 {
		return physics.Ray{}, false
	}
	return physics.Ray{Origin: origin, Dir: dir.Normalize()}, true
}

// CenterRay returns the ray through the middle of the viewport.
func CenterRay(viewport mgl32.Vec2, invViewProj mgl32.Mat4) (physics.Ray, bool) {
	return ScreenToRay(viewport.Mul(0.5), viewport, invViewProj)
}

// Pick returns the first collider the ray hits within maxDist.
func Pick(w *physics.World, ray physics.Ray, maxDist float32, filter physics.Filter) (physics.RayHit, bool) {
	return w.CastRay(ray, maxDist, true, filter)
}
