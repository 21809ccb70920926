package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/eytandecker/pfd-bridge/internal/bridge"
	"github.com/eytandecker/pfd-bridge/internal/config"
	"github.com/eytandecker/pfd-bridge/internal/mavlink"
	internalmcp "github.com/eytandecker/pfd-bridge/internal/mcp"
	"github.com/eytandecker/pfd-bridge/internal/observability"
	"github.com/eytandecker/pfd-bridge/internal/sim"
	"github.com/eytandecker/pfd-bridge/internal/state"
)

func newRunCmd() *cobra.Command {
	var enableMCP bool
	cfg := config.Load()

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Step the bridge and stream frames to the display",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), cfg, enableMCP)
		},
	}

	f := cmd.Flags()
	f.StringVar(&cfg.Display.Host, "host", cfg.Display.Host, "display host")
	f.IntVar(&cfg.Display.Port, "port", cfg.Display.Port, "display UDP port")
	f.StringVar(&cfg.Stepping.ScenarioFile, "scenario", cfg.Stepping.ScenarioFile, "YAML replay scenario (default: synthetic profile)")
	f.Uint64Var(&cfg.Stepping.MaxSteps, "steps", cfg.Stepping.MaxSteps, "stop after this many steps (0: unbounded)")
	f.DurationVar(&cfg.Stepping.Interval, "interval", cfg.Stepping.Interval, "simulation step interval")
	f.BoolVar(&enableMCP, "mcp", false, "serve the get_bridge_status MCP tool on stdio")
	return cmd
}

func run(parent context.Context, cfg config.Config, enableMCP bool) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := signal.NotifyContext(parent, syscall.SIGTERM, syscall.SIGINT)
	defer cancel()

	logger := observability.SetupLogger(cfg.Log)
	defer func() { _ = logger.Sync() }()

	src, err := newSource(cfg)
	if err != nil {
		return err
	}

	metrics := observability.NewMetrics()
	if cfg.Metrics.Addr != "" {
		go func() {
			if err := metrics.Serve(ctx, cfg.Metrics.Addr); err != nil {
				logger.Error("metrics server stopped", zap.Error(err))
			}
		}()
	}

	status := state.NewManager(cfg.Stepping.StaleThreshold)
	if enableMCP {
		mcpServer := internalmcp.NewServer(status, cfg.Display.Address())
		go func() {
			if err := mcpServer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("mcp server stopped", zap.Error(err))
			}
		}()
	}

	dispatcher := bridge.New(bridge.Config{
		Destination: cfg.Display.Address(),
		Identity: mavlink.Identity{
			SystemID:    cfg.MAVLink.SystemID,
			ComponentID: cfg.MAVLink.ComponentID,
		},
	}, bridge.WithObserver(metrics))

	runCfg := sim.DefaultRunnerConfig()
	if cfg.Stepping.Interval > 0 {
		runCfg.StepInterval = cfg.Stepping.Interval
	}
	runCfg.MaxSteps = cfg.Stepping.MaxSteps
	runner := sim.NewRunner(dispatcher, src, status, metrics, runCfg, logger)

	logger.Info("run started",
		zap.String("destination", cfg.Display.Address()),
		zap.Duration("interval", runCfg.StepInterval),
		zap.Uint64("max_steps", runCfg.MaxSteps),
	)

	err = runner.Run(ctx)
	totals := status.Totals()
	logger.Info("run ended",
		zap.Uint64("steps", totals.Steps),
		zap.Uint64("failed_steps", totals.FailedSteps),
		zap.Uint64("frames_sent", totals.FramesSent),
	)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
