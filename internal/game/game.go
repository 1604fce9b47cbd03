// Package game implements the windowed main loop around the controller
// simulation.
package game

import (
	"fmt"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/charctl/internal/config"
	"github.com/Faultbox/charctl/internal/engine/camera"
	"github.com/Faultbox/charctl/internal/engine/debug"
	"github.com/Faultbox/charctl/internal/engine/input"
	"github.com/Faultbox/charctl/internal/engine/picking"
	"github.com/Faultbox/charctl/internal/engine/renderer"
	"github.com/Faultbox/charctl/internal/engine/window"
	ctl "github.com/Faultbox/charctl/internal/game/input"
	"github.com/Faultbox/charctl/internal/game/player"
	"github.com/Faultbox/charctl/internal/game/sim"
	"github.com/Faultbox/charctl/internal/game/world"
	"github.com/Faultbox/charctl/internal/logger"
	"github.com/Faultbox/charctl/internal/physics"
)

// ScreenshotKey saves the current frame.
const ScreenshotKey = sdl.SCANCODE_F12

// PickDistance is how far a right click looks for a collider.
const PickDistance = 200

// Game is the windowed controller instance.
type Game struct {
	config   *config.Config
	running  bool
	window   *window.Window
	renderer *renderer.Renderer
	input    *input.Input
	shots    *debug.Screenshots

	world *physics.World
	scene world.Scene
	sim   *sim.Simulation
	last  sim.Report
	// prev is the player position before the last tick, for interpolation.
	prev mgl32.Vec3

	log *zap.Logger
}

// New creates the window, renderer, scene and simulation.
func New(cfg *config.Config) (*Game, error) {
	g := &Game{
		config: cfg,
		log:    logger.Named("game"),
	}
	g.log.Info("initializing game",
		zap.String("title", cfg.Window.Title),
		zap.Int("width", cfg.Window.Width),
		zap.Int("height", cfg.Window.Height),
	)

	// Create window (this also creates OpenGL context)
	var err error
	g.window, err = window.New(window.Config{
		Title:      cfg.Window.Title,
		Width:      cfg.Window.Width,
		Height:     cfg.Window.Height,
		Fullscreen: cfg.Window.Fullscreen,
		VSync:      cfg.Window.VSync,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	// Create renderer (AFTER window, since OpenGL context must exist)
	width, height := g.window.GetSize()
	g.renderer, err = renderer.New(renderer.Config{
		Width:  width,
		Height: height,
		FOV:    cfg.Camera.FOV,
	})
	if err != nil {
		g.window.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	g.input = input.New(input.DefaultBindings())
	g.shots = debug.NewScreenshots("screenshots", "charctl")

	g.world = physics.NewWorld()
	g.scene = world.Build(g.world)

	p := player.New(g.world, cfg.SpawnPoint(), cfg.Tunables())
	rig := camera.NewRig(cfg.CameraSettings())
	rig.SetMode(cfg.CameraMode())
	g.sim = sim.New(g.world, p, rig, ctl.NewSource(g.window), cfg.Timing())
	g.prev = p.Position
	g.last.Position = p.Position

	if cfg.Debug.Wireframe {
		g.renderer.SetScene(debug.SceneLines(g.world, p.Collider()))
	}

	g.log.Info("game initialized successfully",
		zap.Int("objects", len(g.scene.Objects)),
		zap.Int("colliders", g.world.Len()),
	)
	return g, nil
}

// Run starts the main loop. It returns when the window is closed.
func (g *Game) Run() error {
	g.running = true

	// Timing
	lastTime := time.Now()
	frameCount := 0
	ticks := 0
	fpsTimer := time.Now()

	g.log.Info("starting game loop", zap.Duration("fixed_step", g.config.Simulation.FixedStep))

	for g.running {
		now := time.Now()
		elapsed := now.Sub(lastTime)
		lastTime = now

		// 1. Process input
		if g.input.Update() {
			g.running = false
			break
		}
		if w, h, ok := g.input.Resized(); ok {
			g.renderer.Resize(w, h)
		}
		for _, e := range g.input.Events() {
			if e.Type == input.EventMouseDown && e.Button == sdl.BUTTON_RIGHT {
				g.pick(e.MouseX, e.MouseY)
			}
		}

		// 2. Advance the controller
		reports := g.sim.Advance(g.input.Frame(), elapsed)
		if n := len(reports); n > 0 {
			g.prev = g.last.Position
			if n > 1 {
				g.prev = reports[n-2].Position
			}
			g.last = reports[n-1]
		}
		ticks += len(reports)

		// 3. Render
		g.render()
		if g.input.IsKeyPressed(ScreenshotKey) {
			g.screenshot()
		}

		// 4. Present (swap buffers)
		g.window.SwapBuffers()

		// FPS counter
		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			g.log.Debug("fps",
				zap.Int("frames", frameCount),
				zap.Int("ticks", ticks),
				logger.Vec3("position", g.last.Position),
				zap.Bool("grounded", g.last.Grounded),
			)
			g.window.SetTitle(fmt.Sprintf("%s - %d fps - %s", g.config.Window.Title, frameCount, g.last.Mode))
			frameCount = 0
			ticks = 0
			fpsTimer = time.Now()
		}
	}

	return nil
}

// Close cleans up game resources.
func (g *Game) Close() {
	g.log.Info("closing game", zap.Uint64("ticks", g.sim.Ticks()))

	if g.renderer != nil {
		g.renderer.Close()
	}
	if g.window != nil {
		g.window.Close()
	}
}

// render draws the current frame with the player and camera interpolated
// between the last two ticks.
func (g *Game) render() {
	g.renderer.Begin()

	p := g.sim.Player
	drawn := g.sim.Interpolate(g.prev, p.Position)
	// The rig follows the player, so shifting the view by the same lag keeps
	// the camera on the drawn position.
	lag := p.Position.Sub(drawn)
	view := g.sim.Rig.ViewMatrix().Mul4(mgl32.Translate3D(lag[0], lag[1], lag[2]))

	// The player's own cylinder would fill the screen in first person.
	var actor []debug.Vertex
	if g.config.Debug.Wireframe && g.sim.Rig.Mode == camera.ThirdPerson {
		actor = debug.CylinderLines(p.Shape(), physics.At(drawn), debug.CylinderSegments, debug.ColorKinematic)
	}
	g.renderer.Draw(view, actor)

	g.renderer.End()
}

// pick logs the collider under the cursor, or under the crosshair while the
// cursor is locked.
func (g *Game) pick(x, y int) {
	w, h := g.window.GetSize()
	viewport := mgl32.Vec2{float32(w), float32(h)}
	inv := g.renderer.Projection().Mul4(g.sim.Rig.ViewMatrix()).Inv()

	var (
		ray physics.Ray
		ok  bool
	)
	if g.window.Locked() {
		ray, ok = picking.CenterRay(viewport, inv)
	} else {
		ray, ok = picking.ScreenToRay(mgl32.Vec2{float32(x), float32(y)}, viewport, inv)
	}
	if !ok {
		return
	}

	hit, ok := picking.Pick(g.world, ray, PickDistance, physics.ExcludeCollider(g.sim.Player.Collider()))
	if !ok {
		g.log.Info("picked nothing")
		return
	}
	name, _ := g.scene.Name(hit.Collider)
	g.log.Info("picked",
		zap.String("object", name),
		zap.Uint32("handle", uint32(hit.Collider)),
		zap.Float32("distance", hit.Toi),
		logger.Vec3("point", ray.At(hit.Toi)),
	)
}

func (g *Game) screenshot() {
	pixels, w, h := g.renderer.ReadPixels()
	path, err := g.shots.Save(pixels, w, h)
	if err != nil {
		g.log.Warn("screenshot failed", zap.Error(err))
		return
	}
	g.log.Info("screenshot saved", zap.String("path", path))
}
