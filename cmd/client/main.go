// Package main is the entry point for the windowed character controller.
package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/Faultbox/charctl/internal/config"
	"github.com/Faultbox/charctl/internal/diag"
	"github.com/Faultbox/charctl/internal/game"
	"github.com/Faultbox/charctl/internal/logger"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	// Parse CLI flags first
	config.ParseFlags()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		return 1
	}

	// Initialize logger
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		return 1
	}
	defer logger.Sync()

	logger.Info("=== charctl ===", zap.String("version", version))
	logger.Sugar.Debugf("Config: %+v", cfg)

	d, err := diag.Start(cfg.Debug, "charctl@"+version)
	if err != nil {
		logger.Error("failed to start diagnostics", zap.Error(err))
		return 1
	}
	defer d.Close()
	defer d.Recover()

	g, err := game.New(cfg)
	if err != nil {
		logger.Error("failed to create game", zap.Error(err))
		d.CaptureError(err)
		return 1
	}
	defer g.Close()

	// Run the game loop
	if err := g.Run(); err != nil {
		logger.Error("game error", zap.Error(err))
		d.CaptureError(err)
		return 1
	}

	logger.Info("game closed normally")
	return 0
}
