// Package input turns raw per-frame device state into the player's input
// snapshot. It owns cursor capture: a primary click locks the cursor and
// enables input, Escape releases it and disables input.
package input

import (
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/charctl/internal/logger"
	gmath "github.com/Faultbox/charctl/pkg/math"
)

// Keys is the set of held controls.
type Keys struct {
	Forward    bool
	Backward   bool
	Left       bool
	Right      bool
	Jump       bool
	ToggleView bool
}

// Frame is one poll's worth of raw device state.
type Frame struct {
	Held Keys
	// PointerDeltas are the relative pointer motions received since the last poll.
	PointerDeltas []mgl32.Vec2
	// LockRequested is set when the primary button was pressed.
	LockRequested bool
	// UnlockRequested is set when Escape was pressed.
	UnlockRequested bool
	// Quit is set when the window was asked to close.
	Quit bool
}

// Snapshot is the per-tick input consumed by the controller.
type Snapshot struct {
	Forward  bool
	Backward bool
	Left     bool
	Right    bool
	Jump     bool
	// ToggleView is true only on the tick the toggle key goes down.
	ToggleView bool
	// PointerDelta is the pointer motion accumulated over the tick.
	PointerDelta mgl32.Vec2
}

// Cursor grabs or releases the pointer.
type Cursor interface {
	SetLocked(locked bool)
}

// Source tracks cursor capture and key edges across frames.
type Source struct {
	cursor     Cursor
	enabled    bool
	prevToggle bool
	log        *zap.Logger
}

// NewSource creates a Source that starts with input disabled. cursor may be
// nil when there is nothing to grab, e.g. in headless runs.
func NewSource(cursor Cursor) *Source {
	return &Source{
		cursor: cursor,
		log:    logger.Named("input"),
	}
}

// Enabled reports whether the cursor is captured and input is live.
func (s *Source) Enabled() bool {
	return s.enabled
}

// SetEnabled captures or releases the cursor directly.
func (s *Source) SetEnabled(enabled bool) {
	if s.enabled == enabled {
		return
	}
	s.enabled = enabled
	if s.cursor != nil {
		s.cursor.SetLocked(enabled)
	}
	s.log.Debug("input capture changed", zap.Bool("enabled", enabled))
}

// Update consumes one frame and returns the snapshot for the tick. While input
// is disabled the snapshot is empty and pointer motion is discarded.
func (s *Source) Update(f Frame) Snapshot {
	if f.LockRequested {
		s.SetEnabled(true)
	}
	if f.UnlockRequested {
		s.SetEnabled(false)
	}

	pressed := f.Held.ToggleView && !s.prevToggle
	s.prevToggle = f.Held.ToggleView

	if !s.enabled {
		return Snapshot{}
	}

	var delta mgl32.Vec2
	for _, d := range f.PointerDeltas {
		if !gmath.FiniteVec2(d) {
			continue
		}
		delta = delta.Add(d)
	}

	return Snapshot{
		Forward:      f.Held.Forward,
		Backward:     f.Held.Backward,
		Left:         f.Held.Left,
		Right:        f.Held.Right,
		Jump:         f.Held.Jump,
		ToggleView:   pressed,
		PointerDelta: delta,
	}
}
