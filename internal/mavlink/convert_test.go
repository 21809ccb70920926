package mavlink

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eytandecker/pfd-bridge/pkg/types"
)

func TestNewBatteryStatusEncoding(t *testing.T) {
	f := types.InputFrame{
		BatteryVoltageV:     12.6,
		BatteryCurrentA:     3.5,
		BatteryRemainingPct: 80,
	}

	_, msg, err := Decode(Encode(DefaultIdentity, 0, NewBatteryStatus(f)))
	require.NoError(t, err)
	bs, ok := msg.(BatteryStatus)
	require.True(t, ok)

	assert.Equal(t, uint16(12600), bs.Voltages[0])
	for i := 1; i < len(bs.Voltages); i++ {
		assert.Equal(t, uint16(UnknownCellVoltage), bs.Voltages[i], "cell %d", i)
	}
	assert.Equal(t, int16(350), bs.CurrentBattery)
	assert.Equal(t, int8(80), bs.BatteryRemaining)
	assert.Equal(t, int32(-1), bs.CurrentConsumed)
	assert.Equal(t, int32(-1), bs.EnergyConsumed)
	assert.Equal(t, int16(15), bs.Temperature)
	assert.Equal(t, uint8(0), bs.ID)
	assert.Equal(t, uint8(1), bs.BatteryFunction)
	assert.Equal(t, uint8(1), bs.Type)
	assert.Equal(t, [4]uint16{}, bs.VoltagesExt)
}

func TestNewBatteryStatusClampsCellVoltage(t *testing.T) {
	tests := []struct {
		name  string
		volts float64
		want  uint16
	}{
		{"negative", -1, 0},
		{"nan", math.NaN(), 0},
		{"above range", 70, math.MaxUint16 - 1},
		{"infinite", math.Inf(1), math.MaxUint16 - 1},
		{"truncates millivolts", 3.7004, 3700},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewBatteryStatus(types.InputFrame{BatteryVoltageV: tt.volts})
			assert.Equal(t, tt.want, m.Voltages[0])
		})
	}
}

func TestNewVFRHUDHeadingTruncatedWithoutConversion(t *testing.T) {
	f := types.InputFrame{
		Airspeed:    25.5,
		Groundspeed: 24,
		NavHeading:  3.14159,
		ClimbRate:   -2,
		Altitude:    150,
	}
	m := NewVFRHUD(f)
	assert.Equal(t, int16(3), m.Heading)
	assert.Equal(t, uint16(0), m.Throttle)
	assert.Equal(t, float32(25.5), m.Airspeed)
	assert.Equal(t, float32(24), m.Groundspeed)
	assert.Equal(t, float32(150), m.Alt)
	assert.Equal(t, float32(-2), m.Climb)
}

func TestNewAttitudeAndAngles(t *testing.T) {
	f := sampleFrame()

	att := NewAttitude(f)
	assert.Equal(t, float32(0.1), att.Roll)
	assert.Equal(t, float32(-0.05), att.Pitch)
	assert.Equal(t, float32(1.2), att.Yaw)

	aoa := NewAoaSsa(f)
	assert.Equal(t, float32(0.07), aoa.AOA)
	assert.Equal(t, float32(-0.01), aoa.SSA)
}

func TestNewNavControllerOutput(t *testing.T) {
	m := NewNavControllerOutput(types.InputFrame{NavAttitude: types.Vec3{0.2, -0.1, -2.7}})
	assert.Equal(t, float32(0.2), m.NavRoll)
	assert.Equal(t, float32(-0.1), m.NavPitch)
	assert.Equal(t, int16(-2), m.NavBearing)
}

func TestTruncationSaturates(t *testing.T) {
	assert.Equal(t, int16(math.MaxInt16), truncInt16(1e9))
	assert.Equal(t, int16(math.MinInt16), truncInt16(math.Inf(-1)))
	assert.Equal(t, int16(0), truncInt16(math.NaN()))
	assert.Equal(t, int16(-1), truncInt16(-1.9))

	assert.Equal(t, int8(math.MaxInt8), truncInt8(250))
	assert.Equal(t, int8(math.MinInt8), truncInt8(-250))
	assert.Equal(t, int8(0), truncInt8(math.NaN()))
}
