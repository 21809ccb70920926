package state

import (
	"sync"
	"time"

	"github.com/eytandecker/pfd-bridge/pkg/types"
)

// Totals are run-wide counters of dispatched steps.
type Totals struct {
	Steps       uint64
	FailedSteps uint64
	FramesSent  uint64
}

// Manager holds a concurrent-safe cache of the bridge's step status.
type Manager struct {
	mu             sync.RWMutex
	last           types.StepReport
	totals         Totals
	runErr         error
	lastUpdated    time.Time
	staleThreshold time.Duration
}

// NewManager creates a Manager with the given stale threshold.
// A zero threshold disables staleness checking.
func NewManager(staleThreshold time.Duration) *Manager {
	return &Manager{staleThreshold: staleThreshold}
}

// Record stores the report of a completed step and records the current time.
func (m *Manager) Record(r types.StepReport) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.last = r
	m.lastUpdated = time.Now()
	m.totals.Steps++
	if r.FramesSent > 0 {
		m.totals.FramesSent += uint64(r.FramesSent)
	}
	if r.Failed() {
		m.totals.FailedSteps++
	}
}

// Fail records a run-level failure, such as the transport not opening.
// It takes precedence over step reports until Reset, which the runner
// calls at the start of every run.
func (m *Manager) Fail(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.runErr = err
}

// Reset clears the run-level failure and all cached reports.
func (m *Manager) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.last = types.StepReport{}
	m.totals = Totals{}
	m.runErr = nil
	m.lastUpdated = time.Time{}
}

// GetStatus returns the last step report, the run-level failure if one was
// recorded, or ErrStale if no step was reported within the stale threshold.
func (m *Manager) GetStatus() (types.StepReport, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.runErr != nil {
		return types.StepReport{}, m.runErr
	}
	if m.lastUpdated.IsZero() {
		return types.StepReport{}, ErrStale
	}
	if m.staleThreshold > 0 && time.Since(m.lastUpdated) > m.staleThreshold {
		return types.StepReport{}, ErrStale
	}
	return m.last, nil
}

// Totals returns the run-wide counters.
func (m *Manager) Totals() Totals {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.totals
}

// LastUpdated returns the time of the most recent Record, or zero if never updated.
func (m *Manager) LastUpdated() time.Time {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lastUpdated
}
