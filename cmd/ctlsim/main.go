// ctlsim runs the character controller headless from a yaml input script.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/charctl/internal/config"
	"github.com/Faultbox/charctl/internal/diag"
	"github.com/Faultbox/charctl/internal/engine/camera"
	"github.com/Faultbox/charctl/internal/game/input"
	"github.com/Faultbox/charctl/internal/game/player"
	"github.com/Faultbox/charctl/internal/game/sim"
	"github.com/Faultbox/charctl/internal/game/world"
	"github.com/Faultbox/charctl/internal/logger"
	"github.com/Faultbox/charctl/internal/physics"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "run":
		cmdRun(args)
	case "check":
		cmdCheck(args)
	case "scene":
		cmdScene(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`ctlsim - headless character controller runner

Usage:
  ctlsim <command> [options]

Commands:
  run [-every N] [-level L] [-statsview] <script.yaml>   Run a script, one line per tick
  check <script.yaml>...                                 Validate scripts
  scene                                                  List the scene colliders

Examples:
  ctlsim run walk.yaml
  ctlsim run -every 10 -level debug jump.yaml
  ctlsim check scripts/*.yaml`)
}

func cmdRun(args []string) {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	every := fs.Int("every", 1, "Print every Nth tick")
	level := fs.String("level", "info", "Log level")
	stats := fs.Bool("statsview", false, "Serve the runtime stats dashboard")
	fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: ctlsim run [options] <script.yaml>")
		os.Exit(1)
	}
	if *every < 1 {
		*every = 1
	}

	if err := logger.Init(*level, ""); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	sc, err := sim.LoadScript(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	dbg := config.Default().Debug
	dbg.StatsView = *stats
	d, err := diag.Start(dbg, "ctlsim")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer d.Close()

	s := newSimulation(sc)
	logger.Info("script loaded",
		zap.String("path", fs.Arg(0)),
		zap.Int("steps", len(sc.Steps)),
		zap.Int("ticks", sc.TotalTicks()),
		zap.Float32("dt", sc.DT),
	)

	var last sim.Report
	sc.Run(s, func(r sim.Report) {
		last = r
		if r.Tick%uint64(*every) != 0 {
			return
		}
		logger.Sugar.Infof("tick %5d pos (%7.3f %7.3f %7.3f) vel (%7.3f %7.3f %7.3f) grounded=%-5t cam=%s offset=%.3f",
			r.Tick,
			r.Position[0], r.Position[1], r.Position[2],
			r.Velocity[0], r.Velocity[1], r.Velocity[2],
			r.Grounded, r.Mode, r.Offset.Len(),
		)
	})

	fmt.Printf("Ticks:    %d\n", last.Tick)
	fmt.Printf("Position: (%.3f, %.3f, %.3f)\n", last.Position[0], last.Position[1], last.Position[2])
	fmt.Printf("Grounded: %t\n", last.Grounded)
	fmt.Printf("Camera:   %s\n", last.Mode)
}

// newSimulation builds the stock scene and a player for sc.
func newSimulation(sc *sim.Script) *sim.Simulation {
	w := physics.NewWorld()
	world.Build(w)

	spawn := player.DefaultSpawn
	if sc.Spawn != nil {
		spawn = mgl32.Vec3(*sc.Spawn)
	}
	p := player.New(w, spawn, player.DefaultTunables())

	rig := camera.NewRig(camera.DefaultSettings())
	if sc.ThirdPerson {
		rig.SetMode(camera.ThirdPerson)
	}
	return sim.New(w, p, rig, input.NewSource(nil), sim.Timing{})
}

func cmdCheck(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: ctlsim check <script.yaml>...")
		os.Exit(1)
	}

	failed := 0
	for _, path := range args {
		sc, err := sim.LoadScript(path)
		if err != nil {
			fmt.Printf("FAIL %s\n  %v\n", path, err)
			failed++
			continue
		}
		fmt.Printf("ok   %s (%d steps, %d ticks, %.1fs)\n", path, len(sc.Steps), sc.TotalTicks(), float32(sc.TotalTicks())*sc.DT)
	}
	if failed > 0 {
		os.Exit(1)
	}
}

func cmdScene(args []string) {
	fs := flag.NewFlagSet("scene", flag.ExitOnError)
	fs.Parse(args)

	w := physics.NewWorld()
	scene := world.Build(w)

	fmt.Printf("Colliders: %d\n\n", w.Len())
	for _, o := range scene.Objects {
		c, ok := w.Collider(o.Handle)
		if !ok {
			continue
		}
		t := c.Pose.Translation
		fmt.Printf("  %-8s #%-3d %-9s %T at (%.2f, %.2f, %.2f)\n", o.Name, o.Handle, c.Body, c.Shape, t[0], t[1], t[2])
	}
}
