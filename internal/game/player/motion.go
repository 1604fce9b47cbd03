package player

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/charctl/internal/game/input"
	gmath "github.com/Faultbox/charctl/pkg/math"
)

// Look applies a pointer delta to yaw and pitch.
func (p *Player) Look(delta mgl32.Vec2) {
	if !gmath.FiniteVec2(delta) {
		return
	}
	delta = delta.Mul(p.Tunables.Sensitivity)
	p.Pitch = gmath.Clamp(p.Pitch-delta.Y(), -PitchLimit, PitchLimit)
	p.Yaw = gmath.Wrap(p.Yaw-delta.X(), 0, gmath.Tau)
}

// PlanarMove returns the horizontal velocity requested by snap at the current
// yaw. Its length is either zero or the movement speed.
func (p *Player) PlanarMove(snap input.Snapshot) mgl32.Vec3 {
	var forward, strafe float32
	if snap.Forward {
		forward--
	}
	if snap.Backward {
		forward++
	}
	if snap.Left {
		strafe--
	}
	if snap.Right {
		strafe++
	}

	sin, cos := math32.Sincos(p.Yaw)
	move := mgl32.Vec3{
		sin*forward + cos*strafe,
		0,
		cos*forward - sin*strafe,
	}
	return gmath.NormalizeOrZero(move).Mul(p.Tunables.Speed)
}

// Integrate advances look, velocity and acceleration by dt and returns the
// displacement the player wants to make this tick. A non-finite or negative
// dt integrates as zero.
func (p *Player) Integrate(snap input.Snapshot, dt float32) mgl32.Vec3 {
	if !gmath.Finite(dt) || dt < 0 {
		dt = 0
	}
	p.Look(snap.PointerDelta)

	move := p.PlanarMove(snap)

	if p.Grounded {
		if p.Acceleration[1] < 0 || p.Velocity[1] < 0 {
			p.Acceleration[1] = 0
			p.Velocity[1] = 0
		}
		// Impulse: re-applied every grounded tick the key is held.
		if snap.Jump {
			p.Velocity[1] += p.Tunables.JumpForce
		}
	} else if p.Velocity[1] >= 0 {
		p.Acceleration[1] = -p.Tunables.Gravity
	}

	p.Velocity = p.Velocity.Add(p.Acceleration.Mul(dt))
	p.Velocity[1] = gmath.Clamp(p.Velocity[1], -p.Tunables.TerminalVelocity, p.Tunables.TerminalVelocity)

	return move.Add(p.Velocity).Mul(dt)
}
