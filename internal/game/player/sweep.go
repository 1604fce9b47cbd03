package player

import (
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/charctl/internal/logger"
	"github.com/Faultbox/charctl/internal/physics"
)

// Sweep moves the player's collider along displacement through w, sliding on
// contacts, and applies the resulting translation. Autostep and ground snapping
// are only enabled while grounded.
func (p *Player) Sweep(w *physics.World, displacement mgl32.Vec3) physics.MoveShapeOutput {
	opts := physics.DefaultMoveShapeOptions()
	opts.Slide = true
	if t := p.Tunables; t.Skin > 0 {
		opts.Offset = t.Skin
	}
	if t := p.Tunables; t.MaxSlopeClimbAngle > 0 {
		opts.MaxSlopeClimbAngle = t.MaxSlopeClimbAngle
	}
	if t := p.Tunables; t.MinSlopeSlideAngle > 0 {
		opts.MinSlopeSlideAngle = t.MinSlopeSlideAngle
	}
	if p.Grounded {
		step := p.Tunables.Autostep
		opts.Autostep = &step
		opts.SnapToGround = p.Tunables.SnapToGround
	}

	out := w.MoveShape(
		displacement,
		p.shape,
		p.Position,
		mgl32.QuatIdent(),
		p.Tunables.Mass,
		opts,
		physics.ExcludeCollider(p.collider),
		nil,
	)

	p.Position = p.Position.Add(out.EffectiveTranslation)
	w.SetTranslation(p.collider, p.Position)

	if ce := p.log.Check(zap.DebugLevel, "swept"); ce != nil {
		ce.Write(
			logger.Vec3("desired", displacement),
			logger.Vec3("effective", out.EffectiveTranslation),
			zap.Int("collisions", len(out.Collisions)),
		)
	}
	return out
}
