package camera

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/charctl/internal/physics"
	gmath "github.com/Faultbox/charctl/pkg/math"
)

func assertVec3(t *testing.T, want, got mgl32.Vec3, delta float64) {
	t.Helper()
	for i := 0; i < 3; i++ {
		assert.InDelta(t, want[i], got[i], delta, "component %d of %v", i, got)
	}
}

func TestRigStartsFirstPerson(t *testing.T) {
	r := NewRig(DefaultSettings())
	assert.Equal(t, FirstPerson, r.Mode)
	assert.Equal(t, mgl32.Vec3{}, r.Offset())
}

func TestToggleSnapsSameTick(t *testing.T) {
	w := physics.NewWorld()
	r := NewRig(DefaultSettings())
	target := Target{Position: mgl32.Vec3{0, 3, 0}}

	r.Update(w, target, true)
	assert.Equal(t, ThirdPerson, r.Mode)
	assert.Equal(t, mgl32.Vec3{0, 0, 10}, r.Offset())

	r.Update(w, target, false)
	assert.Equal(t, ThirdPerson, r.Mode, "only edges toggle")

	r.Update(w, target, true)
	assert.Equal(t, FirstPerson, r.Mode)
	assert.Equal(t, mgl32.Vec3{}, r.Offset())
}

func TestOcclusionPullsCameraIn(t *testing.T) {
	w := physics.NewWorld()
	w.Insert(physics.HalfSpace{Normal: mgl32.Vec3{0, 1, 0}}, physics.Identity(), physics.BodyFixed)
	// Wall face 5 units behind the pivot along +Z.
	w.Insert(physics.Cuboid{HalfExtents: mgl32.Vec3{5, 5, 1}}, physics.At(mgl32.Vec3{0, 3, 6}), physics.BodyFixed)
	self := w.Insert(physics.Cylinder{HalfHeight: 2.25, Radius: 1.25}, physics.At(mgl32.Vec3{0, 3, 0}), physics.BodyKinematicPositionBased)

	r := NewRig(DefaultSettings())
	r.SetMode(ThirdPerson)
	r.Update(w, Target{Position: mgl32.Vec3{0, 3, 0}, Collider: self}, false)
	assertVec3(t, mgl32.Vec3{0, 0, 4}, r.Offset(), 1e-4)

	// Facing away from the wall leaves the default distance.
	r.Update(w, Target{Position: mgl32.Vec3{0, 3, 0}, Yaw: math32.Pi, Collider: self}, false)
	assertVec3(t, mgl32.Vec3{0, 0, 10}, r.Offset(), 1e-4)
}

func TestOcclusionSkippedInFirstPerson(t *testing.T) {
	w := physics.NewWorld()
	w.Insert(physics.Cuboid{HalfExtents: mgl32.Vec3{5, 5, 1}}, physics.At(mgl32.Vec3{0, 3, 6}), physics.BodyFixed)

	r := NewRig(DefaultSettings())
	r.Update(w, Target{Position: mgl32.Vec3{0, 3, 0}}, false)
	assert.Equal(t, mgl32.Vec3{}, r.Offset())
}

func TestBodyTakesYawPivotTakesPitch(t *testing.T) {
	r := NewRig(DefaultSettings())
	r.Update(physics.NewWorld(), Target{Position: mgl32.Vec3{1, 2, 3}, Yaw: 0.8, Pitch: -0.3}, false)

	assert.Equal(t, mgl32.Vec3{1, 2, 3}, r.Body.Translation)
	assert.True(t, r.Body.Rotation.ApproxEqualThreshold(gmath.Yaw(0.8), 1e-6))
	assert.True(t, r.Pivot.Rotation.ApproxEqualThreshold(gmath.Pitch(-0.3), 1e-6))

	// The body stays upright whatever the pitch.
	up := r.Body.Rotation.Rotate(mgl32.Vec3{0, 1, 0})
	assertVec3(t, mgl32.Vec3{0, 1, 0}, up, 1e-6)
}

func TestPoseThirdPerson(t *testing.T) {
	r := NewRig(DefaultSettings())
	r.SetMode(ThirdPerson)
	r.Update(physics.NewWorld(), Target{Position: mgl32.Vec3{0, 3, 0}, Yaw: math32.Pi / 2}, false)

	pos, rot := r.Pose()
	// Yawed a quarter turn left, so behind is +X.
	assertVec3(t, mgl32.Vec3{10, 3, 0}, pos, 1e-4)
	assertVec3(t, mgl32.Vec3{-1, 0, 0}, gmath.Forward(rot), 1e-5)
}

func TestViewMatrixCentresCamera(t *testing.T) {
	r := NewRig(DefaultSettings())
	r.SetMode(ThirdPerson)
	r.Update(physics.NewWorld(), Target{Position: mgl32.Vec3{2, 3, 4}, Yaw: 1, Pitch: 0.4}, false)

	pos, rot := r.Pose()
	view := r.ViewMatrix()

	eye := view.Mul4x1(pos.Vec4(1))
	assertVec3(t, mgl32.Vec3{}, eye.Vec3(), 1e-4)

	ahead := view.Mul4x1(pos.Add(gmath.Forward(rot)).Vec4(1))
	assertVec3(t, mgl32.Vec3{0, 0, -1}, ahead.Vec3(), 1e-4)
}

func TestParseMode(t *testing.T) {
	for _, m := range []Mode{FirstPerson, ThirdPerson} {
		got, err := ParseMode(m.String())
		require.NoError(t, err)
		assert.Equal(t, m, got)
	}
	_, err := ParseMode("orbit")
	assert.Error(t, err)
}
