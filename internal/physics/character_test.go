package physics

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testCharacter = Cylinder{HalfHeight: 2.25, Radius: 1.25}

func moveCharacter(w *World, desired, pos mgl32.Vec3, opts MoveShapeOptions) MoveShapeOutput {
	return w.MoveShape(desired, testCharacter, pos, mgl32.QuatIdent(), 100, opts, Filter{}, nil)
}

func TestMoveShapeFree(t *testing.T) {
	w := NewWorld()
	desired := mgl32.Vec3{1, -2, 3}

	out := moveCharacter(w, desired, mgl32.Vec3{}, DefaultMoveShapeOptions())
	assert.Equal(t, desired, out.EffectiveTranslation)
	assert.False(t, out.Grounded)
	assert.Empty(t, out.Collisions)
}

func TestMoveShapeRejectsNonFinite(t *testing.T) {
	w := NewWorld()
	nan := math32.NaN()

	out := moveCharacter(w, mgl32.Vec3{nan, 0, 0}, mgl32.Vec3{}, DefaultMoveShapeOptions())
	assert.Equal(t, mgl32.Vec3{}, out.EffectiveTranslation)
}

func TestMoveShapeLandsOnGround(t *testing.T) {
	w := NewWorld()
	ground := w.Insert(HalfSpace{Normal: mgl32.Vec3{0, 1, 0}}, Identity(), BodyFixed)

	var seen []CharacterCollision
	out := w.MoveShape(mgl32.Vec3{0, -2, 0}, testCharacter, mgl32.Vec3{0, 3, 0}, mgl32.QuatIdent(), 100,
		DefaultMoveShapeOptions(), Filter{}, func(c CharacterCollision) { seen = append(seen, c) })

	assert.InDelta(t, -0.74, out.EffectiveTranslation[1], 1e-3)
	assert.InDelta(t, 0, out.EffectiveTranslation[0], 1e-6)
	assert.True(t, out.Grounded)
	require.Len(t, out.Collisions, 1)
	assert.Equal(t, out.Collisions, seen)
	assert.Equal(t, ground, seen[0].Collider)
	assert.Zero(t, seen[0].Impulse)
}

func TestMoveShapeSlidesAlongWall(t *testing.T) {
	w := NewWorld()
	w.Insert(HalfSpace{Normal: mgl32.Vec3{0, 1, 0}}, Identity(), BodyFixed)
	w.Insert(Cuboid{HalfExtents: mgl32.Vec3{1, 5, 5}}, At(mgl32.Vec3{5, 0, 0}), BodyFixed)

	out := moveCharacter(w, mgl32.Vec3{5, 0, 1}, mgl32.Vec3{0, 2.26, 0}, DefaultMoveShapeOptions())
	assert.InDelta(t, 2.74, out.EffectiveTranslation[0], 1e-3)
	assert.InDelta(t, 0, out.EffectiveTranslation[1], 1e-4)
	assert.InDelta(t, 1, out.EffectiveTranslation[2], 1e-3)
	assert.True(t, out.Grounded, "resting on the ground at the start")
}

func TestMoveShapeStopsWithoutSlide(t *testing.T) {
	w := NewWorld()
	w.Insert(Cuboid{HalfExtents: mgl32.Vec3{1, 5, 5}}, At(mgl32.Vec3{5, 0, 0}), BodyFixed)
	opts := DefaultMoveShapeOptions()
	opts.Slide = false

	out := moveCharacter(w, mgl32.Vec3{5, 0, 1}, mgl32.Vec3{}, opts)
	assert.InDelta(t, 2.74, out.EffectiveTranslation[0], 1e-3)
	assert.InDelta(t, 0.548, out.EffectiveTranslation[2], 1e-3)
}

func TestMoveShapeGentleSlopeDoesNotSlide(t *testing.T) {
	w := NewWorld()
	// 20° incline.
	n := mgl32.Vec3{0, math32.Cos(20 * math32.Pi / 180), math32.Sin(20 * math32.Pi / 180)}
	w.Insert(HalfSpace{Normal: n}, Identity(), BodyFixed)

	out := moveCharacter(w, mgl32.Vec3{0, -3, 0}, mgl32.Vec3{0, 4, 0}, DefaultMoveShapeOptions())
	require.NotEmpty(t, out.Collisions)
	assert.True(t, out.Grounded)
	assert.InDelta(t, 0, out.EffectiveTranslation[0], 1e-4)
	assert.InDelta(t, 0, out.EffectiveTranslation[2], 1e-4)
}

func TestMoveShapeSteeperSlopeSlides(t *testing.T) {
	w := NewWorld()
	// 40° incline: walkable, but steep enough to slide on.
	n := mgl32.Vec3{0, math32.Cos(40 * math32.Pi / 180), math32.Sin(40 * math32.Pi / 180)}
	w.Insert(HalfSpace{Normal: n}, Identity(), BodyFixed)

	out := moveCharacter(w, mgl32.Vec3{0, -3, 0}, mgl32.Vec3{0, 4, 0}, DefaultMoveShapeOptions())
	assert.True(t, out.Grounded)
	assert.Greater(t, out.EffectiveTranslation[2], float32(0.01), "slides downhill along +Z")
}

func TestMoveShapeSteepSlopeIsAWall(t *testing.T) {
	w := NewWorld()
	// 60° incline facing +Z.
	n := mgl32.Vec3{0, 0.5, math32.Sqrt(3) / 2}
	h := w.Insert(HalfSpace{Normal: n}, Identity(), BodyFixed)

	out := moveCharacter(w, mgl32.Vec3{0, 0, -10}, mgl32.Vec3{0, 5, 5}, DefaultMoveShapeOptions())
	require.Len(t, out.Collisions, 1)
	assert.Equal(t, h, out.Collisions[0].Collider)
	assert.InDelta(t, 0, out.EffectiveTranslation[1], 1e-5, "no height gained")
	assert.Less(t, out.EffectiveTranslation[2], float32(0))
	assert.Greater(t, out.EffectiveTranslation[2], float32(-10))
	assert.False(t, out.Grounded)
}

func TestMoveShapeAutostep(t *testing.T) {
	w := NewWorld()
	w.Insert(HalfSpace{Normal: mgl32.Vec3{0, 1, 0}}, Identity(), BodyFixed)
	// A 1 unit high ledge starting at x = 3.
	w.Insert(Cuboid{HalfExtents: mgl32.Vec3{2, 0.5, 5}}, At(mgl32.Vec3{5, 0.5, 0}), BodyFixed)

	opts := DefaultMoveShapeOptions()
	opts.Autostep = &Autostep{MaxHeight: 1.65, MinWidth: 0.1, IncludeDynamicBodies: true}

	out := moveCharacter(w, mgl32.Vec3{3, 0, 0}, mgl32.Vec3{0, 2.26, 0}, opts)
	assert.InDelta(t, 1, out.EffectiveTranslation[1], 0.05)
	assert.Greater(t, out.EffectiveTranslation[0], float32(2.5))
	assert.True(t, out.Grounded)

	opts.Autostep = nil
	out = moveCharacter(w, mgl32.Vec3{3, 0, 0}, mgl32.Vec3{0, 2.26, 0}, opts)
	assert.InDelta(t, 0, out.EffectiveTranslation[1], 1e-4)
	assert.InDelta(t, 1.74, out.EffectiveTranslation[0], 1e-3)
}

func TestMoveShapeAutostepTooHigh(t *testing.T) {
	w := NewWorld()
	w.Insert(HalfSpace{Normal: mgl32.Vec3{0, 1, 0}}, Identity(), BodyFixed)
	w.Insert(Cuboid{HalfExtents: mgl32.Vec3{2, 1.5, 5}}, At(mgl32.Vec3{5, 1.5, 0}), BodyFixed)

	opts := DefaultMoveShapeOptions()
	opts.Autostep = &Autostep{MaxHeight: 1.65, MinWidth: 0.1, IncludeDynamicBodies: true}

	out := moveCharacter(w, mgl32.Vec3{3, 0, 0}, mgl32.Vec3{0, 2.26, 0}, opts)
	assert.InDelta(t, 0, out.EffectiveTranslation[1], 1e-4)
	assert.InDelta(t, 1.74, out.EffectiveTranslation[0], 1e-3)
}

func TestMoveShapeAutostepSkipsDynamicBodies(t *testing.T) {
	w := NewWorld()
	w.Insert(HalfSpace{Normal: mgl32.Vec3{0, 1, 0}}, Identity(), BodyFixed)
	w.Insert(Cuboid{HalfExtents: mgl32.Vec3{2, 0.5, 5}}, At(mgl32.Vec3{5, 0.5, 0}), BodyDynamic)

	opts := DefaultMoveShapeOptions()
	opts.Autostep = &Autostep{MaxHeight: 1.65, MinWidth: 0.1}

	out := moveCharacter(w, mgl32.Vec3{3, 0, 0}, mgl32.Vec3{0, 2.26, 0}, opts)
	assert.InDelta(t, 0, out.EffectiveTranslation[1], 1e-4)
}

func TestMoveShapeSnapToGround(t *testing.T) {
	w := NewWorld()
	// Platform whose top is at y = 0, with lower ground at y = -0.04 past its edge.
	w.Insert(Cuboid{HalfExtents: mgl32.Vec3{5, 0.5, 5}}, At(mgl32.Vec3{0, -0.5, 0}), BodyFixed)
	w.Insert(HalfSpace{Normal: mgl32.Vec3{0, 1, 0}}, At(mgl32.Vec3{0, -0.04, 0}), BodyFixed)

	start := mgl32.Vec3{4, 2.265, 0}
	desired := mgl32.Vec3{3, -0.004, 0}

	opts := DefaultMoveShapeOptions()
	out := moveCharacter(w, desired, start, opts)
	assert.InDelta(t, -0.004, out.EffectiveTranslation[1], 1e-5, "no snapping when disabled")

	opts.SnapToGround = 0.05
	out = moveCharacter(w, desired, start, opts)
	assert.InDelta(t, -0.045, out.EffectiveTranslation[1], 1e-3)
	assert.InDelta(t, 3, out.EffectiveTranslation[0], 1e-5)
	assert.True(t, out.Grounded)
}

func TestMoveShapeDynamicImpulse(t *testing.T) {
	w := NewWorld()
	crate := w.Insert(Cuboid{HalfExtents: mgl32.Vec3{1, 5, 5}}, At(mgl32.Vec3{5, 0, 0}), BodyDynamic)

	out := moveCharacter(w, mgl32.Vec3{5, 0, 0}, mgl32.Vec3{}, DefaultMoveShapeOptions())
	require.Len(t, out.Collisions, 1)
	c := out.Collisions[0]
	assert.Equal(t, crate, c.Collider)
	assert.Equal(t, BodyDynamic, c.Body)
	assert.InDelta(t, 226, c.Impulse[0], 0.5)
	assert.InDelta(t, 0, c.Impulse[1], 1e-3)
	assert.InDelta(t, 2.26, c.TranslationRemaining[0], 1e-3)
}

func TestMoveShapeExcludesSelf(t *testing.T) {
	w := NewWorld()
	self := w.Insert(testCharacter, At(mgl32.Vec3{0, 3, 0}), BodyKinematicPositionBased)

	out := w.MoveShape(mgl32.Vec3{1, 0, 0}, testCharacter, mgl32.Vec3{0, 3, 0}, mgl32.QuatIdent(), 100,
		DefaultMoveShapeOptions(), ExcludeCollider(self), nil)
	assert.Equal(t, mgl32.Vec3{1, 0, 0}, out.EffectiveTranslation)
}
