package mavlink

import (
	"math"

	"github.com/eytandecker/pfd-bridge/pkg/types"
)

const (
	// UnknownCellVoltage marks a cell slot that is not measured.
	UnknownCellVoltage = math.MaxUint16
	// UnknownConsumed marks consumed charge or energy that is not tracked.
	UnknownConsumed = -1
	// PlaceholderTemperature is reported until a temperature input exists.
	PlaceholderTemperature = 15

	batteryID             = 0
	batteryFunctionAll    = 1
	batteryTypeLiPo       = 1
	maxMeasuredCellMilliV = math.MaxUint16 - 1
)

// NewVFRHUD maps the flight-vector summary. The heading input is truncated
// as-is; it is not converted from radians to degrees.
func NewVFRHUD(f types.InputFrame) VFRHUD {
	return VFRHUD{
		Airspeed:    float32(f.Airspeed),
		Groundspeed: float32(f.Groundspeed),
		Alt:         float32(f.Altitude),
		Climb:       float32(f.ClimbRate),
		Heading:     truncInt16(f.NavHeading),
		Throttle:    0,
	}
}

func NewAttitude(f types.InputFrame) Attitude {
	return Attitude{
		Roll:  float32(f.Attitude[0]),
		Pitch: float32(f.Attitude[1]),
		Yaw:   float32(f.Attitude[2]),
	}
}

func NewAoaSsa(f types.InputFrame) AoaSsa {
	return AoaSsa{
		AOA: float32(f.AngleOfAttack),
		SSA: float32(f.SideslipAngle),
	}
}

// NewBatteryStatus reports a single generic battery. Only the first cell slot
// carries the pack voltage; the rest are marked unknown.
func NewBatteryStatus(f types.InputFrame) BatteryStatus {
	m := BatteryStatus{
		CurrentConsumed:  UnknownConsumed,
		EnergyConsumed:   UnknownConsumed,
		Temperature:      PlaceholderTemperature,
		CurrentBattery:   truncInt16(f.BatteryCurrentA * 100),
		ID:               batteryID,
		BatteryFunction:  batteryFunctionAll,
		Type:             batteryTypeLiPo,
		BatteryRemaining: truncInt8(f.BatteryRemainingPct),
	}
	for i := range m.Voltages {
		m.Voltages[i] = UnknownCellVoltage
	}
	m.Voltages[0] = clampUint16(f.BatteryVoltageV*1000, maxMeasuredCellMilliV)
	return m
}

func NewNavControllerOutput(f types.InputFrame) NavControllerOutput {
	return NavControllerOutput{
		NavRoll:    float32(f.NavAttitude[0]),
		NavPitch:   float32(f.NavAttitude[1]),
		NavBearing: truncInt16(f.NavAttitude[2]),
	}
}

// Integer conversions truncate toward zero and saturate at the target range.
// NaN maps to zero so out-of-range inputs encode deterministically.

func truncInt16(v float64) int16 {
	switch {
	case math.IsNaN(v):
		return 0
	case v >= math.MaxInt16:
		return math.MaxInt16
	case v <= math.MinInt16:
		return math.MinInt16
	}
	return int16(v)
}

func truncInt8(v float64) int8 {
	switch {
	case math.IsNaN(v):
		return 0
	case v >= math.MaxInt8:
		return math.MaxInt8
	case v <= math.MinInt8:
		return math.MinInt8
	}
	return int8(v)
}

func clampUint16(v float64, upper uint16) uint16 {
	switch {
	case math.IsNaN(v), v <= 0:
		return 0
	case v >= float64(upper):
		return upper
	}
	return uint16(v)
}
