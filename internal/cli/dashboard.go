package cli

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ncmu-dev/ncmu/internal/config"
	"github.com/ncmu-dev/ncmu/internal/gui"
	"github.com/ncmu-dev/ncmu/internal/logwriter"
	"github.com/ncmu-dev/ncmu/internal/pipeline"
	"github.com/ncmu-dev/ncmu/internal/reconcile"
	"github.com/ncmu-dev/ncmu/internal/source"
	"github.com/ncmu-dev/ncmu/internal/telemetry"
)

func runDashboard(cmd *cobra.Command) {
	r, result, warnings, err := settings(cmd)
	if err != nil {
		outputError(err.Error())
	}
	printWarnings(warnings)

	logs, err := logwriter.Setup(r.LogFile, r.LogMaxSize, r.LogMaxFiles, r.LogLevel)
	if err != nil {
		outputError(err.Error())
	}
	defer logs.Close()

	slog.Info("ncmu starting",
		"version", Version,
		"config", result.Path,
		"interval", r.Interval,
		"metric", r.Metric.String(),
		"replay", replayFlag,
		"strict", debugFlag,
	)

	src, err := snapshotSource(r)
	if err != nil {
		outputError(err.Error())
	}
	poller := newPoller(src, r)
	if emitter := newEmitter(r); emitter != nil {
		defer emitter.Close()
		poller.Emitter = emitter
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = gui.Run(ctx, poller, gui.Options{
		Version:    Version,
		Metric:     r.Metric.String(),
		Interval:   r.Interval,
		Reconciler: &reconcile.Reconciler{MinDelta: r.MinChange, Strict: debugFlag},
	})
	if err != nil {
		slog.Error("dashboard failed", "error", err)
		outputError(err.Error())
	}
	slog.Info("ncmu stopped")
}

func newPoller(src source.Source, r *config.Resolved) *pipeline.Poller {
	p := pipeline.New(src, r.Interval)
	if replayFlag == "" {
		p.Memory = source.ReadSystemMemory
	}
	return p
}

// newEmitter dials telegraf when telemetry is configured. A dial failure is
// logged and telemetry stays off.
func newEmitter(r *config.Resolved) *telemetry.TelegrafEmitter {
	if !r.TelegrafEnabled {
		return nil
	}
	e, err := telemetry.NewTelegrafEmitter(r.TelegrafAddr, r.TelegrafMeas, r.TelegrafTop)
	if err != nil {
		slog.Warn("telegraf disabled", "error", err)
		return nil
	}
	slog.Info("telegraf enabled", "addr", r.TelegrafAddr.String(), "measurement", r.TelegrafMeas)
	return e
}
