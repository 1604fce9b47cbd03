// Package config handles controller configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/charctl/internal/engine/camera"
	"github.com/Faultbox/charctl/internal/game/player"
	"github.com/Faultbox/charctl/internal/game/sim"
	"github.com/Faultbox/charctl/internal/physics"
)

// ErrInvalid is wrapped by every validation error.
var ErrInvalid = errors.New("invalid config")

// Config holds all settings.
type Config struct {
	Window     WindowConfig     `yaml:"window"`
	Controller ControllerConfig `yaml:"controller"`
	Physics    PhysicsConfig    `yaml:"physics"`
	Camera     CameraConfig     `yaml:"camera"`
	Input      InputConfig      `yaml:"input"`
	Simulation SimulationConfig `yaml:"simulation"`
	Debug      DebugConfig      `yaml:"debug"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// WindowConfig holds display settings.
type WindowConfig struct {
	Title      string `yaml:"title"`
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	Fullscreen bool   `yaml:"fullscreen"`
	VSync      bool   `yaml:"vsync"`
}

// ControllerConfig holds the player movement constants.
type ControllerConfig struct {
	Speed            float32    `yaml:"speed"`
	JumpForce        float32    `yaml:"jump_force"`
	Mass             float32    `yaml:"mass"`
	Gravity          float32    `yaml:"gravity"`
	TerminalVelocity float32    `yaml:"terminal_velocity"`
	Spawn            [3]float32 `yaml:"spawn"`

	ColliderRadius     float32 `yaml:"collider_radius"`
	ColliderHalfHeight float32 `yaml:"collider_half_height"`
	ProbeRadius        float32 `yaml:"probe_radius"`
	ProbeHalfHeight    float32 `yaml:"probe_half_height"`
	ProbeOffset        float32 `yaml:"probe_offset"`
}

// PhysicsConfig holds the character sweep settings. Angles are in degrees.
type PhysicsConfig struct {
	Skin            float32 `yaml:"skin"`
	MaxSlopeClimb   float32 `yaml:"max_slope_climb"`
	MinSlopeSlide   float32 `yaml:"min_slope_slide"`
	AutostepHeight  float32 `yaml:"autostep_height"`
	AutostepWidth   float32 `yaml:"autostep_width"`
	AutostepDynamic bool    `yaml:"autostep_dynamic"`
	SnapToGround    float32 `yaml:"snap_to_ground"`
}

// CameraConfig holds the camera rig settings.
type CameraConfig struct {
	Mode      string  `yaml:"mode"`
	Distance  float32 `yaml:"distance"`
	RayLength float32 `yaml:"ray_length"`
	Margin    float32 `yaml:"margin"`
	FOV       float32 `yaml:"fov"`
}

// InputConfig holds pointer settings.
type InputConfig struct {
	Sensitivity float32 `yaml:"sensitivity"`
}

// SimulationConfig holds tick timing. A zero fixed step runs one variable
// tick per frame.
type SimulationConfig struct {
	FixedStep    time.Duration `yaml:"fixed_step"`
	MaxFrameTime time.Duration `yaml:"max_frame_time"`
}

// DebugConfig holds diagnostics settings.
type DebugConfig struct {
	Wireframe bool   `yaml:"wireframe"`
	SentryDSN string `yaml:"sentry_dsn"`
	StatsView bool   `yaml:"statsview"`
	StatsAddr string `yaml:"stats_addr"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with the stock controller values.
func Default() *Config {
	t := player.DefaultTunables()
	cam := camera.DefaultSettings()
	return &Config{
		Window: WindowConfig{
			Title:      "charctl",
			Width:      1280,
			Height:     720,
			Fullscreen: false,
			VSync:      true,
		},
		Controller: ControllerConfig{
			Speed:              t.Speed,
			JumpForce:          t.JumpForce,
			Mass:               t.Mass,
			Gravity:            t.Gravity,
			TerminalVelocity:   t.TerminalVelocity,
			Spawn:              player.DefaultSpawn,
			ColliderRadius:     t.ColliderRadius,
			ColliderHalfHeight: t.ColliderHalfHeight,
			ProbeRadius:        t.ProbeRadius,
			ProbeHalfHeight:    t.ProbeHalfHeight,
			ProbeOffset:        t.ProbeOffset,
		},
		Physics: PhysicsConfig{
			Skin:            t.Skin,
			MaxSlopeClimb:   45,
			MinSlopeSlide:   30,
			AutostepHeight:  t.Autostep.MaxHeight,
			AutostepWidth:   t.Autostep.MinWidth,
			AutostepDynamic: t.Autostep.IncludeDynamicBodies,
			SnapToGround:    t.SnapToGround,
		},
		Camera: CameraConfig{
			Mode:      camera.FirstPerson.String(),
			Distance:  cam.Distance,
			RayLength: cam.RayLength,
			Margin:    cam.Margin,
			FOV:       45,
		},
		Input: InputConfig{
			Sensitivity: t.Sensitivity,
		},
		Simulation: SimulationConfig{
			FixedStep:    sim.DefaultFixedStep,
			MaxFrameTime: sim.DefaultMaxFrameTime,
		},
		Debug: DebugConfig{
			Wireframe: true,
			StatsAddr: "localhost:18066",
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Validate reports every value the controller cannot run with.
func (c *Config) Validate() error {
	var errs []error
	positive := func(name string, v float32) {
		if !(v > 0) {
			errs = append(errs, fmt.Errorf("%w: %s must be positive, got %v", ErrInvalid, name, v))
		}
	}
	nonNegative := func(name string, v float32) {
		if !(v >= 0) {
			errs = append(errs, fmt.Errorf("%w: %s must not be negative, got %v", ErrInvalid, name, v))
		}
	}

	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = append(errs, fmt.Errorf("%w: window size %dx%d", ErrInvalid, c.Window.Width, c.Window.Height))
	}

	positive("controller.speed", c.Controller.Speed)
	nonNegative("controller.jump_force", c.Controller.JumpForce)
	positive("controller.mass", c.Controller.Mass)
	nonNegative("controller.gravity", c.Controller.Gravity)
	positive("controller.terminal_velocity", c.Controller.TerminalVelocity)
	positive("controller.collider_radius", c.Controller.ColliderRadius)
	positive("controller.collider_half_height", c.Controller.ColliderHalfHeight)
	positive("controller.probe_radius", c.Controller.ProbeRadius)
	positive("controller.probe_half_height", c.Controller.ProbeHalfHeight)
	nonNegative("controller.probe_offset", c.Controller.ProbeOffset)

	positive("physics.skin", c.Physics.Skin)
	if !(c.Physics.MaxSlopeClimb > 0 && c.Physics.MaxSlopeClimb < 90) {
		errs = append(errs, fmt.Errorf("%w: physics.max_slope_climb must be in (0, 90), got %v", ErrInvalid, c.Physics.MaxSlopeClimb))
	}
	if !(c.Physics.MinSlopeSlide > 0 && c.Physics.MinSlopeSlide < 90) {
		errs = append(errs, fmt.Errorf("%w: physics.min_slope_slide must be in (0, 90), got %v", ErrInvalid, c.Physics.MinSlopeSlide))
	}
	nonNegative("physics.autostep_height", c.Physics.AutostepHeight)
	nonNegative("physics.autostep_width", c.Physics.AutostepWidth)
	nonNegative("physics.snap_to_ground", c.Physics.SnapToGround)

	if _, err := camera.ParseMode(c.Camera.Mode); err != nil {
		errs = append(errs, fmt.Errorf("%w: camera.mode: %v", ErrInvalid, err))
	}
	positive("camera.distance", c.Camera.Distance)
	positive("camera.ray_length", c.Camera.RayLength)
	nonNegative("camera.margin", c.Camera.Margin)
	if !(c.Camera.FOV > 0 && c.Camera.FOV < 180) {
		errs = append(errs, fmt.Errorf("%w: camera.fov must be in (0, 180), got %v", ErrInvalid, c.Camera.FOV))
	}

	positive("input.sensitivity", c.Input.Sensitivity)

	if c.Simulation.FixedStep < 0 {
		errs = append(errs, fmt.Errorf("%w: simulation.fixed_step must not be negative, got %v", ErrInvalid, c.Simulation.FixedStep))
	}
	if c.Simulation.MaxFrameTime <= 0 {
		errs = append(errs, fmt.Errorf("%w: simulation.max_frame_time must be positive, got %v", ErrInvalid, c.Simulation.MaxFrameTime))
	}

	return errors.Join(errs...)
}

// Tunables converts the controller and physics sections.
func (c *Config) Tunables() player.Tunables {
	return player.Tunables{
		Speed:              c.Controller.Speed,
		JumpForce:          c.Controller.JumpForce,
		Mass:               c.Controller.Mass,
		Gravity:            c.Controller.Gravity,
		TerminalVelocity:   c.Controller.TerminalVelocity,
		Sensitivity:        c.Input.Sensitivity,
		ColliderRadius:     c.Controller.ColliderRadius,
		ColliderHalfHeight: c.Controller.ColliderHalfHeight,
		ProbeRadius:        c.Controller.ProbeRadius,
		ProbeHalfHeight:    c.Controller.ProbeHalfHeight,
		ProbeOffset:        c.Controller.ProbeOffset,
		Autostep: physics.Autostep{
			MaxHeight:            c.Physics.AutostepHeight,
			MinWidth:             c.Physics.AutostepWidth,
			IncludeDynamicBodies: c.Physics.AutostepDynamic,
		},
		SnapToGround:       c.Physics.SnapToGround,
		Skin:               c.Physics.Skin,
		MaxSlopeClimbAngle: degrees(c.Physics.MaxSlopeClimb),
		MinSlopeSlideAngle: degrees(c.Physics.MinSlopeSlide),
	}
}

// CameraSettings converts the camera section.
func (c *Config) CameraSettings() camera.Settings {
	return camera.Settings{
		Distance:  c.Camera.Distance,
		RayLength: c.Camera.RayLength,
		Margin:    c.Camera.Margin,
	}
}

// CameraMode returns the starting camera mode, first person if unknown.
func (c *Config) CameraMode() camera.Mode {
	m, _ := camera.ParseMode(c.Camera.Mode)
	return m
}

// Timing converts the simulation section.
func (c *Config) Timing() sim.Timing {
	return sim.Timing{
		FixedStep:    c.Simulation.FixedStep,
		MaxFrameTime: c.Simulation.MaxFrameTime,
	}
}

func degrees(d float32) float32 {
	return d * math32.Pi / 180
}

// SpawnPoint returns the configured spawn position.
func (c *Config) SpawnPoint() mgl32.Vec3 {
	return mgl32.Vec3(c.Controller.Spawn)
}
