package player

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/charctl/internal/physics"
)

// Probe overlap-tests a thin cylinder under the player's feet and updates
// Grounded. Overlapping while moving up never counts as grounded.
func (p *Player) Probe(w *physics.World) bool {
	centre := p.Position.Sub(mgl32.Vec3{0, p.Tunables.ProbeOffset, 0})
	_, hit := w.IntersectionWithShape(p.probe, physics.At(centre), physics.ExcludeCollider(p.collider))
	p.Grounded = hit && p.Velocity[1] <= 0
	return p.Grounded
}
