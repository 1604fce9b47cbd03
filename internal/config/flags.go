package config

import "flag"

var (
	flagConfig      = flag.String("config", "", "Path to config file")
	flagDebug       = flag.Bool("debug", false, "Enable debug logging")
	flagWindowed    = flag.Bool("windowed", false, "Run in windowed mode")
	flagFullscreen  = flag.Bool("fullscreen", false, "Run in fullscreen mode")
	flagWidth       = flag.Int("width", 0, "Window width")
	flagHeight      = flag.Int("height", 0, "Window height")
	flagThirdPerson = flag.Bool("third-person", false, "Start with the third-person camera")
	flagFixedStep   = flag.Duration("fixed-step", -1, "Fixed tick length, 0 for one variable tick per frame")
	flagStatsView   = flag.Bool("statsview", false, "Serve the runtime stats dashboard")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
		cfg.Debug.Wireframe = true
	}
	if *flagWindowed {
		cfg.Window.Fullscreen = false
	}
	if *flagFullscreen {
		cfg.Window.Fullscreen = true
	}
	if *flagWidth > 0 {
		cfg.Window.Width = *flagWidth
	}
	if *flagHeight > 0 {
		cfg.Window.Height = *flagHeight
	}
	if *flagThirdPerson {
		cfg.Camera.Mode = "third-person"
	}
	if *flagFixedStep >= 0 {
		cfg.Simulation.FixedStep = *flagFixedStep
	}
	if *flagStatsView {
		cfg.Debug.StatsView = true
	}
}
