package sim

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/eytandecker/pfd-bridge/pkg/types"
)

// Bridge is implemented by bridge.Dispatcher.
// Defined here (consuming side) to keep the runner testable without sockets.
type Bridge interface {
	OnRunStart(ctx context.Context) error
	OnStep(frame types.InputFrame) error
	OnRunEnd()
	FramesPerStep() int
}

// StatusRecorder is implemented by state.Manager.
type StatusRecorder interface {
	Record(r types.StepReport)
	Fail(err error)
	Reset()
}

// StepObserver receives per-step timing, e.g. observability.Metrics.
type StepObserver interface {
	ObserveStep(d time.Duration, failed bool)
}

// RunnerConfig holds configuration for the Runner.
type RunnerConfig struct {
	StepInterval time.Duration
	MaxSteps     uint64
}

// DefaultRunnerConfig returns a RunnerConfig stepping at 50 Hz without limit.
func DefaultRunnerConfig() RunnerConfig {
	return RunnerConfig{StepInterval: 20 * time.Millisecond}
}

// Runner is the host loop: it opens the bridge once, feeds it one frame per
// tick, and closes it once when the run ends.
type Runner struct {
	bridge   Bridge
	source   Source
	recorder StatusRecorder
	observer StepObserver
	cfg      RunnerConfig
	logger   *zap.Logger
}

// NewRunner creates a Runner. observer may be nil.
func NewRunner(b Bridge, src Source, rec StatusRecorder, observer StepObserver, cfg RunnerConfig, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{bridge: b, source: src, recorder: rec, observer: observer, cfg: cfg, logger: logger}
}

// Run blocks until the source is exhausted, MaxSteps is reached, or ctx is
// cancelled. A run-start failure is returned before any step executes.
// Status left over from a previous run is cleared first.
func (r *Runner) Run(ctx context.Context) error {
	r.recorder.Reset()
	if err := r.bridge.OnRunStart(ctx); err != nil {
		r.recorder.Fail(err)
		return err
	}
	defer r.bridge.OnRunEnd()

	interval := r.cfg.StepInterval
	if interval <= 0 {
		interval = 20 * time.Millisecond
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var step uint64
	for {
		if r.cfg.MaxSteps > 0 && step >= r.cfg.MaxSteps {
			r.logger.Info("run reached step limit", zap.Uint64("steps", step))
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}

		frame, ok := r.source.Next()
		if !ok {
			r.logger.Info("source exhausted", zap.Uint64("steps", step))
			return nil
		}
		step++
		r.dispatch(step, frame)
	}
}

func (r *Runner) dispatch(step uint64, frame types.InputFrame) {
	start := time.Now()
	err := r.bridge.OnStep(frame)
	elapsed := time.Since(start)

	sent := r.bridge.FramesPerStep()
	var stepErr *types.StepError
	switch {
	case errors.As(err, &stepErr):
		sent = max(stepErr.Attempts-len(stepErr.Failures), 0)
	case err != nil:
		sent = 0
	}

	if err != nil {
		r.logger.Warn("step reported send failures", zap.Uint64("step", step), zap.Error(err))
	}
	if r.observer != nil {
		r.observer.ObserveStep(elapsed, err != nil)
	}
	r.recorder.Record(types.StepReport{
		Step:       step,
		Frame:      frame,
		FramesSent: sent,
		Err:        err,
		At:         start,
	})
}
