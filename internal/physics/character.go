package physics

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	gmath "github.com/Faultbox/charctl/pkg/math"
)

const (
	moveMaxIterations  = 20
	moveMinTranslation = 1e-6
	snapEpsilon        = 1e-5

	// groundedPrediction scales the skin offset when probing for ground at the
	// start of a move.
	groundedPrediction = 1.5
)

// Autostep configures automatic climbing of small ledges.
type Autostep struct {
	// MaxHeight is the tallest ledge that can be climbed.
	MaxHeight float32
	// MinWidth is the free horizontal room required on top of the ledge.
	MinWidth float32
	// IncludeDynamicBodies allows stepping onto dynamic colliders.
	IncludeDynamicBodies bool
}

// MoveShapeOptions configures a kinematic character move.
type MoveShapeOptions struct {
	// Up is the character's up direction.
	Up mgl32.Vec3
	// Offset is the skin gap kept between the character and obstacles.
	Offset float32
	// Slide enables sliding along obstacles instead of stopping at them.
	Slide bool
	// Autostep enables climbing ledges; nil disables it.
	Autostep *Autostep
	// MaxSlopeClimbAngle is the steepest slope, in radians, the character
	// can walk up. Steeper surfaces behave like walls.
	MaxSlopeClimbAngle float32
	// MinSlopeSlideAngle is the slope, in radians, below which the character
	// does not slide down under its own vertical motion.
	MinSlopeSlideAngle float32
	// SnapToGround pulls the character down onto ground within this distance
	// when it was grounded and is moving down. Zero disables snapping.
	SnapToGround float32
}

// DefaultMoveShapeOptions returns the controller defaults: Y up, 0.01 skin,
// sliding on, 45° climb limit, 30° slide threshold.
func DefaultMoveShapeOptions() MoveShapeOptions {
	return MoveShapeOptions{
		Up:                 gmath.AxisY,
		Offset:             0.01,
		Slide:              true,
		MaxSlopeClimbAngle: math32.Pi / 4,
		MinSlopeSlideAngle: math32.Pi / 6,
	}
}

// CharacterCollision records one obstacle met during MoveShape.
type CharacterCollision struct {
	Collider Handle
	Body     BodyType
	Toi      float32
	Normal   mgl32.Vec3
	// TranslationApplied is the character translation accumulated before the hit.
	TranslationApplied mgl32.Vec3
	// TranslationRemaining is what was left to move at the hit.
	TranslationRemaining mgl32.Vec3
	// Impulse is the mass-weighted translation pushed into a dynamic obstacle.
	// It is zero for fixed and kinematic obstacles.
	Impulse mgl32.Vec3
}

// MoveShapeOutput is the result of MoveShape.
type MoveShapeOutput struct {
	// EffectiveTranslation is the translation the character can safely apply.
	EffectiveTranslation mgl32.Vec3
	// Grounded reports contact with walkable ground during the move.
	Grounded bool
	// Collisions lists the obstacles met, in order.
	Collisions []CharacterCollision
}

// MoveShape computes how far a kinematic character shape can move along
// desired. It does not move any collider; callers apply EffectiveTranslation.
// onCollision, if non-nil, is called for every obstacle met.
func (w *World) MoveShape(desired mgl32.Vec3, shape Convex, pos mgl32.Vec3, rot mgl32.Quat, mass float32, opts MoveShapeOptions, filter Filter, onCollision func(CharacterCollision)) MoveShapeOutput {
	if opts.Up.LenSqr() == 0 {
		opts.Up = gmath.AxisY
	}
	opts.Up = gmath.NormalizeOrZero(opts.Up)

	var out MoveShapeOutput
	if !gmath.FiniteVec3(desired) {
		return out
	}

	start := Iso{Translation: pos, Rotation: rot}
	groundedAtStart := w.groundedAt(shape, start, opts, filter)
	out.Grounded = groundedAtStart

	remaining := desired
	var applied mgl32.Vec3
	castOpts := ShapeCastOptions{MaxToi: 1, TargetDistance: opts.Offset}

	for i := 0; i < moveMaxIterations && remaining.LenSqr() > moveMinTranslation*moveMinTranslation; i++ {
		current := start.Translated(applied)
		hit, ok := w.CastShape(shape, current, remaining, castOpts, filter)
		if !ok {
			applied = applied.Add(remaining)
			remaining = mgl32.Vec3{}
			break
		}

		moved := remaining.Mul(hit.Toi)
		applied = applied.Add(moved)
		remaining = remaining.Sub(moved)

		col := CharacterCollision{
			Collider:             hit.Collider,
			Body:                 hit.Body,
			Toi:                  hit.Toi,
			Normal:               hit.Normal,
			TranslationApplied:   applied,
			TranslationRemaining: remaining,
		}
		if hit.Body == BodyDynamic {
			if into := remaining.Dot(hit.Normal); into < 0 {
				col.Impulse = hit.Normal.Mul(into * mass)
			}
		}
		out.Collisions = append(out.Collisions, col)
		if onCollision != nil {
			onCollision(col)
		}

		walkable := isWalkable(hit.Normal, opts)
		if walkable {
			out.Grounded = true
		}

		if !walkable && opts.Autostep != nil && (groundedAtStart || out.Grounded) {
			if step, rest, ok := w.tryStep(shape, start.Translated(applied), remaining, hit, opts, filter); ok {
				applied = applied.Add(step)
				remaining = rest
				out.Grounded = true
				continue
			}
		}

		if !opts.Slide {
			break
		}
		remaining = slide(remaining, hit.Normal, walkable, opts)
	}

	if opts.SnapToGround > 0 && groundedAtStart && applied.Dot(opts.Up) < -snapEpsilon {
		if drop, ok := w.snapToGround(shape, start.Translated(applied), opts, filter); ok {
			applied = applied.Sub(opts.Up.Mul(drop))
			out.Grounded = true
		}
	}

	out.EffectiveTranslation = applied
	return out
}

// slide redirects the remaining translation along the obstacle surface.
func slide(remaining, normal mgl32.Vec3, walkable bool, opts MoveShapeOptions) mgl32.Vec3 {
	up := opts.Up
	if !walkable {
		// Too steep to climb: treat as a vertical wall so no height is gained.
		wallNormal := gmath.NormalizeOrZero(gmath.Horizontal(normal, up))
		if wallNormal.LenSqr() == 0 {
			// A ceiling: drop whatever pushes into it.
			if into := remaining.Dot(normal); into < 0 {
				remaining = remaining.Sub(normal.Mul(into))
			}
			return remaining
		}
		if into := remaining.Dot(wallNormal); into < 0 {
			remaining = remaining.Sub(wallNormal.Mul(into))
		}
		if into := remaining.Dot(normal); into < 0 {
			// Still pushing into the surface from above: keep only the part
			// sliding down along it.
			remaining = gmath.ProjectOnPlane(remaining, normal)
		}
		return remaining
	}

	tangent := gmath.ProjectOnPlane(remaining, normal)
	if slopeAngle(normal, up) < opts.MinSlopeSlideAngle {
		// Gentle slope: vertical motion does not turn into downhill sliding.
		if vertical := remaining.Dot(up); vertical < 0 {
			down := up.Mul(vertical)
			tangent = tangent.Sub(gmath.ProjectOnPlane(down, normal))
		}
	}
	return tangent
}

func slopeAngle(normal, up mgl32.Vec3) float32 {
	return math32.Acos(gmath.Clamp(normal.Dot(up), -1, 1))
}

func isWalkable(normal mgl32.Vec3, opts MoveShapeOptions) bool {
	return normal.Dot(opts.Up) > 0 && slopeAngle(normal, opts.Up) <= opts.MaxSlopeClimbAngle+1e-4
}

// groundedAt reports walkable ground within a little more than the skin offset
// below the shape.
func (w *World) groundedAt(shape Convex, pose Iso, opts MoveShapeOptions, filter Filter) bool {
	reach := opts.Offset*groundedPrediction + castTolerance
	area, _ := shape.Bounds(pose)
	area = area.Grow(reach)

	grounded := false
	w.candidates(area, filter, func(c *Collider) bool {
		ct := contact(shape, pose, c)
		if ct.Distance <= reach && isWalkable(ct.Normal, opts) {
			grounded = true
			return false
		}
		return true
	})
	return grounded
}

// tryStep attempts to climb the obstacle described by hit. It returns the
// step to apply and the horizontal translation left afterwards.
func (w *World) tryStep(shape Convex, pose Iso, remaining mgl32.Vec3, hit ShapeHit, opts MoveShapeOptions, filter Filter) (mgl32.Vec3, mgl32.Vec3, bool) {
	step := opts.Autostep
	if hit.Body == BodyDynamic && !step.IncludeDynamicBodies {
		return mgl32.Vec3{}, remaining, false
	}
	up := opts.Up
	horizontal := gmath.Horizontal(remaining, up)
	dir := gmath.NormalizeOrZero(horizontal)
	if dir.LenSqr() == 0 {
		return mgl32.Vec3{}, remaining, false
	}

	castOpts := ShapeCastOptions{MaxToi: 1, TargetDistance: opts.Offset}

	// Room above for the full step.
	if _, blocked := w.CastShape(shape, pose, up.Mul(step.MaxHeight), castOpts, filter); blocked {
		return mgl32.Vec3{}, remaining, false
	}
	raised := pose.Translated(up.Mul(step.MaxHeight))

	// Room on top of the ledge.
	if _, blocked := w.CastShape(shape, raised, dir.Mul(step.MinWidth), castOpts, filter); blocked {
		return mgl32.Vec3{}, remaining, false
	}
	ahead := raised.Translated(dir.Mul(step.MinWidth))

	// Drop back down onto the ledge top.
	floor, ok := w.CastShape(shape, ahead, up.Mul(-step.MaxHeight), castOpts, filter)
	if !ok || !isWalkable(floor.Normal, opts) {
		return mgl32.Vec3{}, remaining, false
	}
	climb := step.MaxHeight * (1 - floor.Toi)
	if climb <= castTolerance {
		return mgl32.Vec3{}, remaining, false
	}
	// Nudge onto the ledge so the next sweep does not catch its edge.
	nudge := dir.Mul(math32.Min(horizontal.Len(), step.MinWidth))
	return up.Mul(climb).Add(nudge), horizontal.Sub(nudge), true
}

// snapToGround returns how far the shape can drop onto walkable ground within
// the snap distance.
func (w *World) snapToGround(shape Convex, pose Iso, opts MoveShapeOptions, filter Filter) (float32, bool) {
	castOpts := ShapeCastOptions{MaxToi: 1, TargetDistance: opts.Offset}
	hit, ok := w.CastShape(shape, pose, opts.Up.Mul(-opts.SnapToGround), castOpts, filter)
	if !ok || !isWalkable(hit.Normal, opts) {
		return 0, false
	}
	return hit.Toi * opts.SnapToGround, true
}
