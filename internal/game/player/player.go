// Package player implements the kinematic character: look and motion
// integration, the collider sweep through the physics world and the grounded
// probe that feeds the next tick.
package player

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/charctl/internal/logger"
	"github.com/Faultbox/charctl/internal/physics"
)

// PitchEpsilon keeps pitch away from the poles.
const PitchEpsilon = 0.001953125

// PitchLimit is the largest absolute pitch.
const PitchLimit = math32.Pi/2 - PitchEpsilon

// Tunables are the per-session movement constants.
type Tunables struct {
	Speed            float32
	JumpForce        float32
	Mass             float32
	Gravity          float32
	TerminalVelocity float32
	Sensitivity      float32

	ColliderRadius     float32
	ColliderHalfHeight float32

	// The grounded probe is a thin cylinder ProbeOffset below the centre.
	ProbeRadius     float32
	ProbeHalfHeight float32
	ProbeOffset     float32

	// Autostep and SnapToGround apply only while grounded.
	Autostep     physics.Autostep
	SnapToGround float32

	// Sweep settings. Zero values fall back to physics.DefaultMoveShapeOptions.
	Skin               float32
	MaxSlopeClimbAngle float32
	MinSlopeSlideAngle float32
}

// DefaultTunables returns the stock controller settings.
func DefaultTunables() Tunables {
	return Tunables{
		Speed:              10,
		JumpForce:          9.8,
		Mass:               100,
		Gravity:            9.8,
		TerminalVelocity:   180,
		Sensitivity:        0.0015,
		ColliderRadius:     1.25,
		ColliderHalfHeight: 2.25,
		ProbeRadius:        1.24,
		ProbeHalfHeight:    0.05,
		ProbeOffset:        2.25,
		Autostep: physics.Autostep{
			MaxHeight:            1.65,
			MinWidth:             0.1,
			IncludeDynamicBodies: true,
		},
		SnapToGround:       0.05,
		Skin:               0.01,
		MaxSlopeClimbAngle: math32.Pi / 4,
		MinSlopeSlideAngle: math32.Pi / 6,
	}
}

// DefaultSpawn is where the player appears in the stock scene.
var DefaultSpawn = mgl32.Vec3{0, 3, 0}

// State is the mutable per-tick player state.
type State struct {
	Position     mgl32.Vec3
	Velocity     mgl32.Vec3
	Acceleration mgl32.Vec3
	// Yaw is kept in [0, 2π).
	Yaw float32
	// Pitch is kept within ±PitchLimit.
	Pitch    float32
	Grounded bool
}

// Player is the controlled character and its collider.
type Player struct {
	State
	Tunables Tunables

	collider physics.Handle
	shape    physics.Cylinder
	probe    physics.Cylinder
	log      *zap.Logger
}

// New inserts the player's kinematic collider at spawn and initialises the
// grounded flag from the probe.
func New(w *physics.World, spawn mgl32.Vec3, t Tunables) *Player {
	p := &Player{
		State:    State{Position: spawn},
		Tunables: t,
		shape:    physics.Cylinder{HalfHeight: t.ColliderHalfHeight, Radius: t.ColliderRadius},
		probe:    physics.Cylinder{HalfHeight: t.ProbeHalfHeight, Radius: t.ProbeRadius},
		log:      logger.Named("player"),
	}
	p.collider = w.Insert(p.shape, physics.At(spawn), physics.BodyKinematicPositionBased)
	p.Probe(w)

	p.log.Info("player spawned",
		logger.Vec3("position", spawn),
		zap.Bool("grounded", p.Grounded),
		zap.Uint32("collider", uint32(p.collider)),
	)
	return p
}

// Collider returns the handle of the player's collider.
func (p *Player) Collider() physics.Handle {
	return p.collider
}

// Shape returns the player's collision cylinder.
func (p *Player) Shape() physics.Cylinder {
	return p.shape
}
