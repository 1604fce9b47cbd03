// Package world builds the static test scene the controller runs in.
package world

import (
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/charctl/internal/logger"
	"github.com/Faultbox/charctl/internal/physics"
	gmath "github.com/Faultbox/charctl/pkg/math"
)

// Object is a named collider placed by Build.
type Object struct {
	Name   string
	Handle physics.Handle
}

// Scene lists the colliders of the built scene in insertion order.
type Scene struct {
	Objects []Object
}

// Lookup returns the handle of the object called name.
func (s Scene) Lookup(name string) (physics.Handle, bool) {
	for _, o := range s.Objects {
		if o.Name == name {
			return o.Handle, true
		}
	}
	return 0, false
}

// Name returns the name of the object with handle h.
func (s Scene) Name(h physics.Handle) (string, bool) {
	for _, o := range s.Objects {
		if o.Handle == h {
			return o.Name, true
		}
	}
	return "", false
}

// RampTilt is the ramp's rotation about its local X axis, in radians.
const RampTilt = -0.6

// Build inserts the ground, a tall box and a tilted ramp into w.
func Build(w *physics.World) Scene {
	var s Scene
	add := func(name string, shape physics.Shape, pose physics.Iso) {
		h := w.Insert(shape, pose, physics.BodyFixed)
		s.Objects = append(s.Objects, Object{Name: name, Handle: h})
		logger.Debug("scene object added",
			zap.String("name", name),
			zap.Uint32("handle", uint32(h)),
			logger.Vec3("position", pose.Translation),
		)
	}

	add("ground", physics.HalfSpace{Normal: gmath.AxisY}, physics.Identity())

	add("box",
		physics.Cuboid{HalfExtents: mgl32.Vec3{5, 15, 5}},
		physics.At(mgl32.Vec3{8, 1, 8}),
	)

	add("ramp",
		physics.Cuboid{HalfExtents: mgl32.Vec3{5, 5, 15}},
		physics.Iso{
			Translation: mgl32.Vec3{-8, 1, -18},
			Rotation:    gmath.FromEulerXYZ(RampTilt, 0, 0),
		},
	)

	logger.Info("scene built", zap.Int("colliders", len(s.Objects)))
	return s
}
