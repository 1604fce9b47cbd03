package sim

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-gl/mathgl/mgl32"
	"gopkg.in/yaml.v3"

	"github.com/Faultbox/charctl/internal/game/input"
)

// ErrInvalidScript is wrapped by every script validation error.
var ErrInvalidScript = errors.New("invalid script")

// Script is a headless input recording: a list of steps, each holding a set of
// keys and pointer motion for a number of ticks.
type Script struct {
	// DT is the tick length in seconds. Defaults to 1/60.
	DT float32 `yaml:"dt"`
	// Spawn overrides the player's spawn position.
	Spawn *[3]float32 `yaml:"spawn,omitempty"`
	// ThirdPerson starts the camera in third person.
	ThirdPerson bool   `yaml:"third_person"`
	Steps       []Step `yaml:"steps"`
}

// Step is one segment of a script. Keys are held for every tick of the step,
// so toggle_view fires on the step's first tick only, and two consecutive
// toggle_view steps toggle once; separate them with a step that releases it.
// Pointer is a single motion delivered on the step's first tick.
type Step struct {
	Ticks      int        `yaml:"ticks"`
	Forward    bool       `yaml:"forward"`
	Backward   bool       `yaml:"backward"`
	Left       bool       `yaml:"left"`
	Right      bool       `yaml:"right"`
	Jump       bool       `yaml:"jump"`
	ToggleView bool       `yaml:"toggle_view"`
	Pointer    [2]float32 `yaml:"pointer"`
}

// Frame returns the input frame for tick i of the step, counting from zero.
func (st Step) Frame(i int) input.Frame {
	f := input.Frame{
		Held: input.Keys{
			Forward:    st.Forward,
			Backward:   st.Backward,
			Left:       st.Left,
			Right:      st.Right,
			Jump:       st.Jump,
			ToggleView: st.ToggleView,
		},
	}
	if i == 0 && st.Pointer != [2]float32{} {
		f.PointerDeltas = []mgl32.Vec2{{st.Pointer[0], st.Pointer[1]}}
	}
	return f
}

// LoadScript reads and parses a script file.
func LoadScript(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read script: %w", err)
	}
	sc, err := ParseScript(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return sc, nil
}

// ParseScript parses and validates a yaml script.
func ParseScript(data []byte) (*Script, error) {
	var sc Script
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("failed to parse script: %w", err)
	}
	if sc.DT == 0 {
		sc.DT = float32(DefaultFixedStep.Seconds())
	}
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	return &sc, nil
}

// Validate checks the script for values the simulation cannot run.
func (sc *Script) Validate() error {
	var errs []error
	if sc.DT <= 0 || sc.DT > 1 {
		errs = append(errs, fmt.Errorf("%w: dt must be in (0, 1], got %v", ErrInvalidScript, sc.DT))
	}
	if len(sc.Steps) == 0 {
		errs = append(errs, fmt.Errorf("%w: no steps", ErrInvalidScript))
	}
	for i, st := range sc.Steps {
		if st.Ticks <= 0 {
			errs = append(errs, fmt.Errorf("%w: step %d: ticks must be positive, got %d", ErrInvalidScript, i, st.Ticks))
		}
	}
	return errors.Join(errs...)
}

// TotalTicks returns the number of ticks the script runs.
func (sc *Script) TotalTicks() int {
	n := 0
	for _, st := range sc.Steps {
		n += st.Ticks
	}
	return n
}

// Run plays the script through s, calling fn after every tick. Input is
// enabled first since there is no cursor to capture. fn may be nil.
func (sc *Script) Run(s *Simulation, fn func(Report)) {
	s.Input.SetEnabled(true)
	for _, st := range sc.Steps {
		for i := 0; i < st.Ticks; i++ {
			r := s.Tick(st.Frame(i), sc.DT)
			if fn != nil {
				fn(r)
			}
		}
	}
}
