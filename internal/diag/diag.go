// Package diag starts the optional crash reporting and runtime stats
// dashboard for the binaries.
package diag

import (
	"fmt"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/go-echarts/statsview"
	"github.com/go-echarts/statsview/viewer"
	"go.uber.org/zap"

	"github.com/Faultbox/charctl/internal/config"
	"github.com/Faultbox/charctl/internal/logger"
)

// FlushTimeout bounds how long pending crash reports are sent on exit.
const FlushTimeout = 5 * time.Second

// Diagnostics holds whatever Start enabled.
type Diagnostics struct {
	sentry bool
	stats  *statsview.ViewManager
	log    *zap.Logger
}

// Start enables Sentry when a DSN is configured and the statsview dashboard
// when requested. release tags Sentry events.
func Start(cfg config.DebugConfig, release string) (*Diagnostics, error) {
	d := &Diagnostics{log: logger.Named("diag")}

	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:     cfg.SentryDSN,
			Release: release,
		}); err != nil {
			return nil, fmt.Errorf("sentry init: %w", err)
		}
		d.sentry = true
		d.log.Info("crash reporting enabled")
	}

	if cfg.StatsView {
		// set configurations before calling `statsview.New()` method
		viewer.SetConfiguration(viewer.WithTheme(viewer.ThemeWesteros), viewer.WithAddr(cfg.StatsAddr))
		d.stats = statsview.New()
		go d.stats.Start()
		d.log.Info("stats dashboard started", zap.String("addr", "http://"+cfg.StatsAddr+"/debug/statsview"))
	}

	return d, nil
}

// Recover reports a panic to Sentry, flushes and panics again. Use it as
// `defer d.Recover()` at the top of a goroutine.
func (d *Diagnostics) Recover() {
	err := recover()
	if err == nil {
		return
	}
	d.log.Error("panic", zap.Any("error", err), zap.Stack("stack"))
	if d.sentry {
		hub := sentry.CurrentHub().Clone()
		hub.ConfigureScope(func(scope *sentry.Scope) {
			scope.SetTag("component", "main")
		})
		hub.Recover(err)
		hub.Flush(FlushTimeout)
	}
	panic(err)
}

// CaptureError sends a non-fatal error to Sentry when enabled.
func (d *Diagnostics) CaptureError(err error) {
	if d.sentry && err != nil {
		sentry.CaptureException(err)
	}
}

// Enabled reports which diagnostics are running.
func (d *Diagnostics) Enabled() (crashReports, stats bool) {
	return d.sentry, d.stats != nil
}

// Close stops the dashboard and flushes pending reports.
func (d *Diagnostics) Close() {
	if d.stats != nil {
		d.stats.Stop()
	}
	if d.sentry {
		sentry.Flush(FlushTimeout)
	}
}
