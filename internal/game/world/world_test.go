package world

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/charctl/internal/physics"
)

func TestBuild(t *testing.T) {
	w := physics.NewWorld()
	s := Build(w)

	require.Len(t, s.Objects, 3)
	assert.Equal(t, 3, w.Len())

	for _, name := range []string{"ground", "box", "ramp"} {
		h, ok := s.Lookup(name)
		require.True(t, ok, name)
		c, ok := w.Collider(h)
		require.True(t, ok, name)
		assert.Equal(t, physics.BodyFixed, c.Body, name)
	}
	_, ok := s.Lookup("missing")
	assert.False(t, ok)

	box, _ := s.Lookup("box")
	name, ok := s.Name(box)
	assert.True(t, ok)
	assert.Equal(t, "box", name)
	_, ok = s.Name(physics.Handle(99))
	assert.False(t, ok)
}

func TestBuildGeometry(t *testing.T) {
	w := physics.NewWorld()
	s := Build(w)
	down := physics.Ray{Dir: mgl32.Vec3{0, -1, 0}}

	// Open ground.
	down.Origin = mgl32.Vec3{0, 50, 0}
	hit, ok := w.CastRay(down, 100, true, physics.Filter{})
	require.True(t, ok)
	ground, _ := s.Lookup("ground")
	assert.Equal(t, ground, hit.Collider)
	assert.InDelta(t, 50, hit.Toi, 1e-4)

	// Box top at y = 16.
	down.Origin = mgl32.Vec3{8, 50, 8}
	hit, ok = w.CastRay(down, 100, true, physics.Filter{})
	require.True(t, ok)
	box, _ := s.Lookup("box")
	assert.Equal(t, box, hit.Collider)
	assert.InDelta(t, 34, hit.Toi, 1e-4)

	// The ramp surface is tilted, so its normal leans along Z.
	down.Origin = mgl32.Vec3{-8, 50, -18}
	hit, ok = w.CastRay(down, 100, true, physics.Filter{})
	require.True(t, ok)
	ramp, _ := s.Lookup("ramp")
	assert.Equal(t, ramp, hit.Collider)
	assert.InDelta(t, 0.825, hit.Normal[1], 1e-3)
	assert.NotZero(t, hit.Normal[2])
}
