package input

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

type fakeCursor struct {
	calls []bool
}

func (c *fakeCursor) SetLocked(locked bool) {
	c.calls = append(c.calls, locked)
}

func TestSourceStartsDisabled(t *testing.T) {
	s := NewSource(nil)
	snap := s.Update(Frame{
		Held:          Keys{Forward: true, Jump: true},
		PointerDeltas: []mgl32.Vec2{{10, 5}},
	})
	assert.False(t, s.Enabled())
	assert.Equal(t, Snapshot{}, snap)
}

func TestSourceCursorLock(t *testing.T) {
	cursor := &fakeCursor{}
	s := NewSource(cursor)

	snap := s.Update(Frame{LockRequested: true, Held: Keys{Right: true}})
	assert.True(t, s.Enabled())
	assert.True(t, snap.Right, "input is live on the click frame")

	s.Update(Frame{LockRequested: true})
	snap = s.Update(Frame{UnlockRequested: true, Held: Keys{Right: true}})
	assert.False(t, s.Enabled())
	assert.Equal(t, Snapshot{}, snap)

	assert.Equal(t, []bool{true, false}, cursor.calls, "repeated lock requests do not re-grab")
}

func TestSourcePointerAccumulates(t *testing.T) {
	s := NewSource(nil)
	s.SetEnabled(true)

	snap := s.Update(Frame{PointerDeltas: []mgl32.Vec2{{1, 2}, {3, -1}, {math32.NaN(), 4}, {math32.Inf(1), 0}}})
	assert.Equal(t, mgl32.Vec2{4, 1}, snap.PointerDelta)

	snap = s.Update(Frame{})
	assert.Equal(t, mgl32.Vec2{}, snap.PointerDelta)
}

func TestSourceToggleEdge(t *testing.T) {
	s := NewSource(nil)
	s.SetEnabled(true)

	held := Frame{Held: Keys{ToggleView: true}}
	var edges []bool
	for _, f := range []Frame{held, held, held, {}, held} {
		edges = append(edges, s.Update(f).ToggleView)
	}
	assert.Equal(t, []bool{true, false, false, false, true}, edges)
}

func TestSourceToggleHeldWhileDisabled(t *testing.T) {
	s := NewSource(nil)
	held := Frame{Held: Keys{ToggleView: true}}

	// Pressed before capture: enabling mid-hold must not fire an edge.
	s.Update(held)
	s.SetEnabled(true)
	assert.False(t, s.Update(held).ToggleView)
}

func TestSourceOppositeKeysPassThrough(t *testing.T) {
	s := NewSource(nil)
	s.SetEnabled(true)

	snap := s.Update(Frame{Held: Keys{Forward: true, Backward: true, Left: true, Right: true}})
	assert.True(t, snap.Forward)
	assert.True(t, snap.Backward)
	assert.True(t, snap.Left)
	assert.True(t, snap.Right)
}
