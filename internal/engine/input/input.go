// Package input handles SDL2 input events.
package input

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/veandco/go-sdl2/sdl"

	ctl "github.com/Faultbox/charctl/internal/game/input"
)

// Event types for game use
type EventType int

const (
	EventNone EventType = iota
	EventQuit
	EventWindowResize
	EventKeyDown
	EventKeyUp
	EventMouseMove
	EventMouseDown
	EventMouseUp
)

// Event represents a processed input event.
type Event struct {
	Type   EventType
	Key    sdl.Scancode
	Width  int
	Height int
	MouseX int
	MouseY int
	// RelX and RelY are the relative motion of a mouse move.
	RelX   int
	RelY   int
	Button uint8
}

// Bindings maps controls to scancodes.
type Bindings struct {
	Forward    sdl.Scancode
	Backward   sdl.Scancode
	Left       sdl.Scancode
	Right      sdl.Scancode
	Jump       sdl.Scancode
	ToggleView sdl.Scancode
	Release    sdl.Scancode
}

// DefaultBindings is WASD, space to jump, Tab to switch view and Escape to
// release the cursor.
func DefaultBindings() Bindings {
	return Bindings{
		Forward:    sdl.SCANCODE_W,
		Backward:   sdl.SCANCODE_S,
		Left:       sdl.SCANCODE_A,
		Right:      sdl.SCANCODE_D,
		Jump:       sdl.SCANCODE_SPACE,
		ToggleView: sdl.SCANCODE_TAB,
		Release:    sdl.SCANCODE_ESCAPE,
	}
}

// Input handles all input processing.
type Input struct {
	bindings Bindings
	events   []Event
	frame    ctl.Frame
}

// New creates a new input handler.
func New(b Bindings) *Input {
	return &Input{
		bindings: b,
		events:   make([]Event, 0, 16),
	}
}

// Update polls SDL events, converts them to game events and builds the frame
// for the controller. Returns true if the game should quit.
func (i *Input) Update() bool {
	i.events = i.events[:0] // Clear previous events
	i.frame = ctl.Frame{PointerDeltas: i.frame.PointerDeltas[:0]}

	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch e := event.(type) {
		case *sdl.QuitEvent:
			i.events = append(i.events, Event{Type: EventQuit})
			i.frame.Quit = true

		case *sdl.WindowEvent:
			if e.Event == sdl.WINDOWEVENT_RESIZED {
				i.events = append(i.events, Event{
					Type:   EventWindowResize,
					Width:  int(e.Data1),
					Height: int(e.Data2),
				})
			}

		case *sdl.KeyboardEvent:
			if e.Type == sdl.KEYDOWN {
				i.events = append(i.events, Event{
					Type: EventKeyDown,
					Key:  e.Keysym.Scancode,
				})
				if e.Keysym.Scancode == i.bindings.Release {
					i.frame.UnlockRequested = true
				}
			} else if e.Type == sdl.KEYUP {
				i.events = append(i.events, Event{
					Type: EventKeyUp,
					Key:  e.Keysym.Scancode,
				})
			}

		case *sdl.MouseMotionEvent:
			i.events = append(i.events, Event{
				Type:   EventMouseMove,
				MouseX: int(e.X),
				MouseY: int(e.Y),
				RelX:   int(e.XRel),
				RelY:   int(e.YRel),
			})
			i.frame.PointerDeltas = append(i.frame.PointerDeltas, mgl32.Vec2{float32(e.XRel), float32(e.YRel)})

		case *sdl.MouseButtonEvent:
			if e.Type == sdl.MOUSEBUTTONDOWN {
				i.events = append(i.events, Event{
					Type:   EventMouseDown,
					MouseX: int(e.X),
					MouseY: int(e.Y),
					Button: e.Button,
				})
				if e.Button == sdl.BUTTON_LEFT {
					i.frame.LockRequested = true
				}
			} else if e.Type == sdl.MOUSEBUTTONUP {
				i.events = append(i.events, Event{
					Type:   EventMouseUp,
					MouseX: int(e.X),
					MouseY: int(e.Y),
					Button: e.Button,
				})
			}
		}
	}

	state := sdl.GetKeyboardState()
	down := func(sc sdl.Scancode) bool {
		return int(sc) < len(state) && state[sc] != 0
	}
	i.frame.Held = ctl.Keys{
		Forward:    down(i.bindings.Forward),
		Backward:   down(i.bindings.Backward),
		Left:       down(i.bindings.Left),
		Right:      down(i.bindings.Right),
		Jump:       down(i.bindings.Jump),
		ToggleView: down(i.bindings.ToggleView),
	}

	return i.frame.Quit
}

// Frame returns the controller frame built by the last Update. The pointer
// delta slice is reused by the next Update.
func (i *Input) Frame() ctl.Frame {
	return i.frame
}

// Events returns the events from the last Update.
func (i *Input) Events() []Event {
	return i.events
}

// Resized returns the last window size reported during the last Update.
func (i *Input) Resized() (width, height int, ok bool) {
	for _, e := range i.events {
		if e.Type == EventWindowResize {
			width, height, ok = e.Width, e.Height, true
		}
	}
	return width, height, ok
}

// IsKeyPressed checks if a specific key was pressed this frame.
func (i *Input) IsKeyPressed(scancode sdl.Scancode) bool {
	for _, e := range i.events {
		if e.Type == EventKeyDown && e.Key == scancode {
			return true
		}
	}
	return false
}
