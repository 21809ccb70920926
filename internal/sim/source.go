package sim

import (
	"errors"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/eytandecker/pfd-bridge/pkg/types"
)

// Source yields one InputFrame per simulation step. ok is false once the
// source is exhausted.
type Source interface {
	Next() (frame types.InputFrame, ok bool)
}

// Synthetic flies a steady climbing orbit with a draining battery. Frames
// depend only on the step index, so runs are reproducible.
type Synthetic struct {
	dt   float64
	step int
}

// NewSynthetic creates a Synthetic source advancing dt seconds per step.
func NewSynthetic(dt float64) *Synthetic {
	return &Synthetic{dt: dt}
}

const (
	orbitAirspeed   = 28.0 // m/s
	orbitBank       = 0.35 // rad
	orbitTurnRate   = 0.12 // rad/s
	orbitClimbRate  = 1.2  // m/s
	orbitStartAlt   = 120.0
	packFullVoltage = 12.6
	packEmptyVolts  = 10.5
	packCapacityAs  = 5.0 * 3600 // 5 Ah
	cruiseCurrent   = 8.0        // A
)

func (s *Synthetic) Next() (types.InputFrame, bool) {
	t := float64(s.step) * s.dt
	s.step++

	yaw := math.Mod(orbitTurnRate*t, 2*math.Pi)
	pitch := 0.05 + 0.02*math.Sin(0.5*t)
	remaining := math.Max(0, 1-cruiseCurrent*t/packCapacityAs)

	return types.InputFrame{
		Attitude:            types.Vec3{orbitBank, pitch, yaw},
		Airspeed:            orbitAirspeed + 0.5*math.Sin(0.3*t),
		Groundspeed:         orbitAirspeed - 2*math.Cos(yaw),
		NavHeading:          yaw,
		AngleOfAttack:       pitch - 0.02,
		SideslipAngle:       0.01 * math.Sin(0.7*t),
		ClimbRate:           orbitClimbRate,
		Altitude:            orbitStartAlt + orbitClimbRate*t,
		BatteryRemainingPct: 100 * remaining,
		BatteryCurrentA:     cruiseCurrent,
		BatteryVoltageV:     packEmptyVolts + (packFullVoltage-packEmptyVolts)*remaining,
		NavAttitude:         types.Vec3{orbitBank, 0.05, math.Mod(yaw+0.2, 2*math.Pi)},
	}, true
}

// Scenario is a recorded sequence of frames loaded from YAML.
type Scenario struct {
	Loop   bool               `yaml:"loop"`
	Frames []types.InputFrame `yaml:"frames"`
}

// LoadScenario reads a Scenario from a YAML file.
func LoadScenario(path string) (Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Scenario{}, fmt.Errorf("read scenario: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario decodes a YAML scenario document.
func ParseScenario(data []byte) (Scenario, error) {
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return Scenario{}, fmt.Errorf("parse scenario: %w", err)
	}
	if len(sc.Frames) == 0 {
		return Scenario{}, errors.New("parse scenario: no frames")
	}
	return sc, nil
}

// Replay plays back a Scenario, wrapping around when it loops.
type Replay struct {
	sc  Scenario
	pos int
}

func NewReplay(sc Scenario) *Replay {
	return &Replay{sc: sc}
}

func (r *Replay) Next() (types.InputFrame, bool) {
	if r.pos >= len(r.sc.Frames) {
		if !r.sc.Loop || len(r.sc.Frames) == 0 {
			return types.InputFrame{}, false
		}
		r.pos = 0
	}
	f := r.sc.Frames[r.pos]
	r.pos++
	return f, true
}
