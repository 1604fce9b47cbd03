package physics

import (
	"fmt"

	"github.com/ethaniccc/float32-cube/cube"
	"github.com/go-gl/mathgl/mgl32"
)

// Handle identifies a collider inside a World. The zero Handle is never issued.
type Handle uint32

// BodyType describes how a collider's pose is driven.
type BodyType int

const (
	// BodyFixed colliders never move.
	BodyFixed BodyType = iota
	// BodyKinematicPositionBased colliders are moved by setting their pose.
	BodyKinematicPositionBased
	// BodyDynamic colliders belong to simulated bodies. Steps onto them are optional.
	BodyDynamic
)

// String returns the body type name.
func (b BodyType) String() string {
	switch b {
	case BodyFixed:
		return "fixed"
	case BodyKinematicPositionBased:
		return "kinematic"
	case BodyDynamic:
		return "dynamic"
	default:
		return fmt.Sprintf("BodyType(%d)", int(b))
	}
}

// Collider is a shape placed in the world.
type Collider struct {
	Handle Handle
	Shape  Shape
	Pose   Iso
	Body   BodyType

	bounds  cube.BBox
	bounded bool
}

// Bounds returns the collider's world AABB; ok is false for unbounded shapes.
func (c *Collider) Bounds() (cube.BBox, bool) {
	return c.bounds, c.bounded
}

func (c *Collider) refresh() {
	c.bounds, c.bounded = c.Shape.Bounds(c.Pose)
}

// Filter restricts which colliders a query considers.
type Filter struct {
	// Exclude skips one collider, usually the querying character's own.
	Exclude Handle
}

// ExcludeCollider returns a filter that skips h.
func ExcludeCollider(h Handle) Filter {
	return Filter{Exclude: h}
}

func (f Filter) allows(c *Collider) bool {
	return f.Exclude == 0 || c.Handle != f.Exclude
}

// World holds colliders and answers geometric queries against them.
// It is not safe for concurrent use.
type World struct {
	colliders map[Handle]*Collider
	order     []Handle
	next      Handle
}

// NewWorld creates an empty world.
func NewWorld() *World {
	return &World{
		colliders: make(map[Handle]*Collider),
	}
}

// Insert adds a collider and returns its handle.
func (w *World) Insert(shape Shape, pose Iso, body BodyType) Handle {
	w.next++
	c := &Collider{
		Handle: w.next,
		Shape:  shape,
		Pose:   pose,
		Body:   body,
	}
	c.refresh()
	w.colliders[c.Handle] = c
	w.order = append(w.order, c.Handle)
	return c.Handle
}

// Collider returns the collider for h.
func (w *World) Collider(h Handle) (*Collider, bool) {
	c, ok := w.colliders[h]
	return c, ok
}

// Len returns the number of colliders.
func (w *World) Len() int {
	return len(w.order)
}

// Colliders returns all colliders in insertion order.
func (w *World) Colliders() []*Collider {
	out := make([]*Collider, 0, len(w.order))
	for _, h := range w.order {
		out = append(out, w.colliders[h])
	}
	return out
}

// SetTranslation moves a collider. It reports false if h is unknown.
func (w *World) SetTranslation(h Handle, t mgl32.Vec3) bool {
	c, ok := w.colliders[h]
	if !ok {
		return false
	}
	c.Pose.Translation = t
	c.refresh()
	return true
}

// candidates calls fn for every collider that passes filter and whose bounds
// intersect area. Unbounded colliders are always visited.
func (w *World) candidates(area cube.BBox, filter Filter, fn func(c *Collider) bool) {
	for _, h := range w.order {
		c := w.colliders[h]
		if !filter.allows(c) {
			continue
		}
		if c.bounded && !c.bounds.IntersectsWith(area) {
			continue
		}
		if !fn(c) {
			return
		}
	}
}
