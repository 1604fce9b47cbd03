// Package sim runs the controller tick: input, motion integration, collider
// sweep, grounded probe and camera, strictly in that order.
package sim

import (
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/charctl/internal/engine/camera"
	"github.com/Faultbox/charctl/internal/game/input"
	"github.com/Faultbox/charctl/internal/game/player"
	"github.com/Faultbox/charctl/internal/logger"
	"github.com/Faultbox/charctl/internal/physics"
)

// Default timing.
const (
	DefaultFixedStep    = time.Second / 60
	DefaultMaxFrameTime = 250 * time.Millisecond
)

// Timing controls how wall-clock time is turned into ticks.
type Timing struct {
	// FixedStep is the tick length. Zero runs one variable-length tick per frame.
	FixedStep time.Duration
	// MaxFrameTime caps the time consumed per frame, so a stall does not
	// trigger a burst of catch-up ticks.
	MaxFrameTime time.Duration
}

// Report summarises one tick.
type Report struct {
	Tick       uint64
	DT         float32
	Position   mgl32.Vec3
	Velocity   mgl32.Vec3
	Yaw        float32
	Pitch      float32
	Grounded   bool
	Collisions int
	Mode       camera.Mode
	Offset     mgl32.Vec3
}

// Simulation owns everything one tick touches. The physics world is written
// only through the player's sweep. Not safe for concurrent use.
type Simulation struct {
	World  *physics.World
	Player *player.Player
	Rig    *camera.Rig
	Input  *input.Source

	timing      Timing
	accumulator time.Duration
	pending     input.Frame
	// taps holds jump and toggle presses seen since the last tick.
	taps  input.Keys
	ticks uint64
	log   *zap.Logger
}

// New creates a simulation. player and rig may be nil; their stages are then
// skipped.
func New(w *physics.World, p *player.Player, rig *camera.Rig, src *input.Source, timing Timing) *Simulation {
	if timing.MaxFrameTime <= 0 {
		timing.MaxFrameTime = DefaultMaxFrameTime
	}
	if src == nil {
		src = input.NewSource(nil)
	}
	return &Simulation{
		World:  w,
		Player: p,
		Rig:    rig,
		Input:  src,
		timing: timing,
		log:    logger.Named("sim"),
	}
}

// Ticks returns the number of ticks run so far.
func (s *Simulation) Ticks() uint64 {
	return s.ticks
}

// Tick runs one tick of length dt seconds on frame f.
func (s *Simulation) Tick(f input.Frame, dt float32) Report {
	s.ticks++
	snap := s.Input.Update(f)
	report := Report{Tick: s.ticks, DT: dt}

	if s.Player == nil {
		s.log.Debug("tick skipped", zap.Uint64("tick", s.ticks), zap.String("reason", "no player"))
		return report
	}
	p := s.Player

	displacement := p.Integrate(snap, dt)
	out := p.Sweep(s.World, displacement)
	p.Probe(s.World)

	report.Position = p.Position
	report.Velocity = p.Velocity
	report.Yaw = p.Yaw
	report.Pitch = p.Pitch
	report.Grounded = p.Grounded
	report.Collisions = len(out.Collisions)

	if s.Rig == nil {
		s.log.Debug("camera skipped", zap.Uint64("tick", s.ticks), zap.String("reason", "no camera"))
		return report
	}
	s.Rig.Update(s.World, camera.Target{
		Position: p.Position,
		Yaw:      p.Yaw,
		Pitch:    p.Pitch,
		Collider: p.Collider(),
	}, snap.ToggleView)

	report.Mode = s.Rig.Mode
	report.Offset = s.Rig.Offset()
	return report
}

// Advance consumes elapsed wall-clock time and runs as many ticks as it covers.
// Pointer motion and lock requests are delivered to the next tick that runs,
// even if that is in a later frame. Held keys apply to every tick, and a jump
// or toggle press released before any tick ran still reaches the next one. It
// returns the reports of the ticks run.
func (s *Simulation) Advance(f input.Frame, elapsed time.Duration) []Report {
	if elapsed < 0 {
		elapsed = 0
	}
	if elapsed > s.timing.MaxFrameTime {
		s.log.Debug("frame time clamped", zap.Duration("elapsed", elapsed), zap.Duration("max", s.timing.MaxFrameTime))
		elapsed = s.timing.MaxFrameTime
	}
	s.queue(f)

	if s.timing.FixedStep <= 0 {
		return []Report{s.tickPending(float32(elapsed.Seconds()))}
	}

	s.accumulator += elapsed
	var reports []Report
	for s.accumulator >= s.timing.FixedStep {
		s.accumulator -= s.timing.FixedStep
		reports = append(reports, s.tickPending(float32(s.timing.FixedStep.Seconds())))
	}
	return reports
}

// queue merges f into the input waiting for the next tick.
func (s *Simulation) queue(f input.Frame) {
	s.pending.Held = f.Held
	s.taps.Jump = s.taps.Jump || f.Held.Jump
	s.taps.ToggleView = s.taps.ToggleView || f.Held.ToggleView
	s.pending.PointerDeltas = append(s.pending.PointerDeltas, f.PointerDeltas...)
	s.pending.LockRequested = s.pending.LockRequested || f.LockRequested
	s.pending.UnlockRequested = s.pending.UnlockRequested || f.UnlockRequested
	s.pending.Quit = s.pending.Quit || f.Quit
}

func (s *Simulation) tickPending(dt float32) Report {
	f := s.pending
	f.Held.Jump = f.Held.Jump || s.taps.Jump
	f.Held.ToggleView = f.Held.ToggleView || s.taps.ToggleView
	r := s.Tick(f, dt)
	s.pending = input.Frame{Held: s.pending.Held}
	s.taps = input.Keys{}
	return r
}

// Alpha is how far the accumulator is into the next fixed tick, in [0, 1).
func (s *Simulation) Alpha() float32 {
	if s.timing.FixedStep <= 0 {
		return 0
	}
	return float32(s.accumulator) / float32(s.timing.FixedStep)
}

// Interpolate blends a position from before the last tick toward the one after
// it by Alpha, for rendering between fixed ticks. With a variable step every
// frame ends on a tick, so cur is returned unchanged.
func (s *Simulation) Interpolate(prev, cur mgl32.Vec3) mgl32.Vec3 {
	if s.timing.FixedStep <= 0 {
		return cur
	}
	return prev.Add(cur.Sub(prev).Mul(s.Alpha()))
}
