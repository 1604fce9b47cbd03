// Package camera provides the player camera rig: a body that follows the
// player's yaw, a pivot that carries pitch, and a camera that sits on the pivot
// either at the eye or pulled back behind the player.
package camera

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/charctl/internal/logger"
	"github.com/Faultbox/charctl/internal/physics"
	gmath "github.com/Faultbox/charctl/pkg/math"
)

// Mode selects where the camera sits.
type Mode int

const (
	FirstPerson Mode = iota
	ThirdPerson
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case FirstPerson:
		return "first-person"
	case ThirdPerson:
		return "third-person"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode converts a mode name as printed by String.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "first-person", "first":
		return FirstPerson, nil
	case "third-person", "third":
		return ThirdPerson, nil
	default:
		return FirstPerson, fmt.Errorf("unknown camera mode %q", s)
	}
}

// Transform is a translation and rotation relative to a parent.
type Transform struct {
	Translation mgl32.Vec3
	Rotation    mgl32.Quat
}

// Identity returns a transform that changes nothing.
func Identity() Transform {
	return Transform{Rotation: mgl32.QuatIdent()}
}

// Mul returns child expressed in t's parent space.
func (t Transform) Mul(child Transform) Transform {
	return Transform{
		Translation: t.Translation.Add(t.Rotation.Rotate(child.Translation)),
		Rotation:    t.Rotation.Mul(child.Rotation),
	}
}

// Settings are the rig distances.
type Settings struct {
	// Distance is the third-person camera distance behind the pivot.
	Distance float32
	// RayLength is how far behind the pivot obstructions are looked for.
	RayLength float32
	// Margin keeps the camera this far in front of an obstruction.
	Margin float32
}

// DefaultSettings returns the stock rig distances.
func DefaultSettings() Settings {
	return Settings{
		Distance:  10,
		RayLength: 11,
		Margin:    1,
	}
}

// Target is what the rig follows each tick.
type Target struct {
	Position mgl32.Vec3
	Yaw      float32
	Pitch    float32
	// Collider is ignored by the occlusion ray.
	Collider physics.Handle
}

// Rig is a fixed three-level transform chain: Body in world space, Pivot
// relative to Body and Camera relative to Pivot.
type Rig struct {
	Mode     Mode
	Settings Settings

	Body   Transform
	Pivot  Transform
	Camera Transform

	log *zap.Logger
}

// NewRig creates a first-person rig.
func NewRig(s Settings) *Rig {
	return &Rig{
		Mode:     FirstPerson,
		Settings: s,
		Body:     Identity(),
		Pivot:    Identity(),
		Camera:   Identity(),
		log:      logger.Named("camera"),
	}
}

// Toggle flips between first and third person, snapping the camera offset.
func (r *Rig) Toggle() {
	switch r.Mode {
	case FirstPerson:
		r.Mode = ThirdPerson
		r.Camera.Translation = mgl32.Vec3{0, 0, r.Settings.Distance}
	default:
		r.Mode = FirstPerson
		r.Camera.Translation = mgl32.Vec3{}
	}
	r.log.Debug("camera mode changed", zap.Stringer("mode", r.Mode))
}

// SetMode switches to m if the rig is not already in it.
func (r *Rig) SetMode(m Mode) {
	if r.Mode != m {
		r.Toggle()
	}
}

// Update runs one tick: an optional toggle, then body yaw and pivot pitch from
// target, then third-person occlusion against w.
func (r *Rig) Update(w *physics.World, target Target, toggle bool) {
	if toggle {
		r.Toggle()
	}

	r.Body = Transform{Translation: target.Position, Rotation: gmath.Yaw(target.Yaw)}
	r.Pivot.Rotation = gmath.Pitch(target.Pitch)

	if r.Mode == ThirdPerson {
		r.occlude(w, target.Collider)
	}
}

// occlude pulls the camera in front of anything between the pivot and its
// third-person spot.
func (r *Rig) occlude(w *physics.World, exclude physics.Handle) {
	pivot := r.Body.Mul(r.Pivot)
	ray := physics.Ray{Origin: pivot.Translation, Dir: gmath.Back(pivot.Rotation)}

	hit, ok := w.CastRay(ray, r.Settings.RayLength, false, physics.ExcludeCollider(exclude))
	if !ok {
		r.Camera.Translation = mgl32.Vec3{0, 0, r.Settings.Distance}
		return
	}
	r.Camera.Translation = mgl32.Vec3{0, 0, hit.Toi - r.Settings.Margin}
}

// Offset returns the camera's local offset from the pivot.
func (r *Rig) Offset() mgl32.Vec3 {
	return r.Camera.Translation
}

// Pose returns the camera's world position and orientation.
func (r *Rig) Pose() (mgl32.Vec3, mgl32.Quat) {
	world := r.Body.Mul(r.Pivot).Mul(r.Camera)
	return world.Translation, world.Rotation
}

// ViewMatrix returns the world-to-camera matrix.
func (r *Rig) ViewMatrix() mgl32.Mat4 {
	pos, rot := r.Pose()
	return gmath.ViewFromPose(pos, rot)
}
