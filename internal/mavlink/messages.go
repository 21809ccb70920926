package mavlink

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Kind is a MAVLink message id.
type Kind uint32

// Message kinds emitted by the bridge.
const (
	KindAttitude            Kind = 30
	KindNavControllerOutput Kind = 62
	KindVFRHUD              Kind = 74
	KindBatteryStatus       Kind = 147
	KindAoaSsa              Kind = 11020
)

type kindInfo struct {
	name       string
	crcExtra   byte
	payloadLen int
}

var kinds = map[Kind]kindInfo{
	KindAttitude:            {name: "ATTITUDE", crcExtra: 39, payloadLen: 28},
	KindNavControllerOutput: {name: "NAV_CONTROLLER_OUTPUT", crcExtra: 183, payloadLen: 26},
	KindVFRHUD:              {name: "VFR_HUD", crcExtra: 20, payloadLen: 20},
	KindBatteryStatus:       {name: "BATTERY_STATUS", crcExtra: 154, payloadLen: 54},
	KindAoaSsa:              {name: "AOA_SSA", crcExtra: 205, payloadLen: 16},
}

func (k Kind) String() string {
	if info, ok := kinds[k]; ok {
		return info.name
	}
	return fmt.Sprintf("MSG_%d", uint32(k))
}

// FrameLen returns the full encoded frame length of the kind, or 0 if unknown.
func (k Kind) FrameLen() int {
	info, ok := kinds[k]
	if !ok {
		return 0
	}
	return HeaderSize + info.payloadLen + ChecksumSize
}

// Message is a typed MAVLink payload.
type Message interface {
	Kind() Kind
	// AppendPayload appends the payload in wire order.
	AppendPayload(b []byte) []byte
}

// VFRHUD carries the flight-vector summary shown on a HUD.
type VFRHUD struct {
	Airspeed    float32
	Groundspeed float32
	Alt         float32
	Climb       float32
	Heading     int16
	Throttle    uint16
}

func (VFRHUD) Kind() Kind { return KindVFRHUD }

func (m VFRHUD) AppendPayload(b []byte) []byte {
	b = appendFloat32(b, m.Airspeed)
	b = appendFloat32(b, m.Groundspeed)
	b = appendFloat32(b, m.Alt)
	b = appendFloat32(b, m.Climb)
	b = binary.LittleEndian.AppendUint16(b, uint16(m.Heading)) //nolint:gosec // two's complement reinterpretation
	return binary.LittleEndian.AppendUint16(b, m.Throttle)
}

// Attitude is the vehicle attitude in radians.
type Attitude struct {
	TimeBootMs uint32
	Roll       float32
	Pitch      float32
	Yaw        float32
	RollSpeed  float32
	PitchSpeed float32
	YawSpeed   float32
}

func (Attitude) Kind() Kind { return KindAttitude }

func (m Attitude) AppendPayload(b []byte) []byte {
	b = binary.LittleEndian.AppendUint32(b, m.TimeBootMs)
	b = appendFloat32(b, m.Roll)
	b = appendFloat32(b, m.Pitch)
	b = appendFloat32(b, m.Yaw)
	b = appendFloat32(b, m.RollSpeed)
	b = appendFloat32(b, m.PitchSpeed)
	return appendFloat32(b, m.YawSpeed)
}

// AoaSsa carries angle of attack and sideslip angle.
type AoaSsa struct {
	TimeUsec uint64
	AOA      float32
	SSA      float32
}

func (AoaSsa) Kind() Kind { return KindAoaSsa }

func (m AoaSsa) AppendPayload(b []byte) []byte {
	b = binary.LittleEndian.AppendUint64(b, m.TimeUsec)
	b = appendFloat32(b, m.AOA)
	return appendFloat32(b, m.SSA)
}

// BatteryStatus describes a single battery. Voltages are millivolts, current
// is centiamps, UINT16_MAX and -1 mark values that are not measured.
type BatteryStatus struct {
	CurrentConsumed  int32
	EnergyConsumed   int32
	Temperature      int16
	Voltages         [10]uint16
	CurrentBattery   int16
	ID               uint8
	BatteryFunction  uint8
	Type             uint8
	BatteryRemaining int8

	// Extension fields.
	TimeRemaining int32
	ChargeState   uint8
	VoltagesExt   [4]uint16
	Mode          uint8
	FaultBitmask  uint32
}

func (BatteryStatus) Kind() Kind { return KindBatteryStatus }

//nolint:gosec // signed fields are reinterpreted as two's complement on the wire
func (m BatteryStatus) AppendPayload(b []byte) []byte {
	b = binary.LittleEndian.AppendUint32(b, uint32(m.CurrentConsumed))
	b = binary.LittleEndian.AppendUint32(b, uint32(m.EnergyConsumed))
	b = binary.LittleEndian.AppendUint16(b, uint16(m.Temperature))
	for _, v := range m.Voltages {
		b = binary.LittleEndian.AppendUint16(b, v)
	}
	b = binary.LittleEndian.AppendUint16(b, uint16(m.CurrentBattery))
	b = append(b, m.ID, m.BatteryFunction, m.Type, byte(m.BatteryRemaining))
	b = binary.LittleEndian.AppendUint32(b, uint32(m.TimeRemaining))
	b = append(b, m.ChargeState)
	for _, v := range m.VoltagesExt {
		b = binary.LittleEndian.AppendUint16(b, v)
	}
	b = append(b, m.Mode)
	return binary.LittleEndian.AppendUint32(b, m.FaultBitmask)
}

// NavControllerOutput is the navigation controller's commanded state.
type NavControllerOutput struct {
	NavRoll       float32
	NavPitch      float32
	AltError      float32
	AspdError     float32
	XtrackError   float32
	NavBearing    int16
	TargetBearing int16
	WpDist        uint16
}

func (NavControllerOutput) Kind() Kind { return KindNavControllerOutput }

//nolint:gosec // signed fields are reinterpreted as two's complement on the wire
func (m NavControllerOutput) AppendPayload(b []byte) []byte {
	b = appendFloat32(b, m.NavRoll)
	b = appendFloat32(b, m.NavPitch)
	b = appendFloat32(b, m.AltError)
	b = appendFloat32(b, m.AspdError)
	b = appendFloat32(b, m.XtrackError)
	b = binary.LittleEndian.AppendUint16(b, uint16(m.NavBearing))
	b = binary.LittleEndian.AppendUint16(b, uint16(m.TargetBearing))
	return binary.LittleEndian.AppendUint16(b, m.WpDist)
}

func appendFloat32(b []byte, v float32) []byte {
	return binary.LittleEndian.AppendUint32(b, math.Float32bits(v))
}

// parsePayload decodes a full-length payload into the message for kind.
//
//nolint:gosec // two's complement reinterpretation of signed wire fields
func parsePayload(kind Kind, p []byte) (Message, error) {
	r := payloadReader{buf: p}
	switch kind {
	case KindVFRHUD:
		return VFRHUD{
			Airspeed:    r.float32(),
			Groundspeed: r.float32(),
			Alt:         r.float32(),
			Climb:       r.float32(),
			Heading:     int16(r.uint16()),
			Throttle:    r.uint16(),
		}, nil
	case KindAttitude:
		return Attitude{
			TimeBootMs: r.uint32(),
			Roll:       r.float32(),
			Pitch:      r.float32(),
			Yaw:        r.float32(),
			RollSpeed:  r.float32(),
			PitchSpeed: r.float32(),
			YawSpeed:   r.float32(),
		}, nil
	case KindAoaSsa:
		return AoaSsa{
			TimeUsec: r.uint64(),
			AOA:      r.float32(),
			SSA:      r.float32(),
		}, nil
	case KindBatteryStatus:
		var m BatteryStatus
		m.CurrentConsumed = int32(r.uint32())
		m.EnergyConsumed = int32(r.uint32())
		m.Temperature = int16(r.uint16())
		for i := range m.Voltages {
			m.Voltages[i] = r.uint16()
		}
		m.CurrentBattery = int16(r.uint16())
		m.ID = r.uint8()
		m.BatteryFunction = r.uint8()
		m.Type = r.uint8()
		m.BatteryRemaining = int8(r.uint8())
		m.TimeRemaining = int32(r.uint32())
		m.ChargeState = r.uint8()
		for i := range m.VoltagesExt {
			m.VoltagesExt[i] = r.uint16()
		}
		m.Mode = r.uint8()
		m.FaultBitmask = r.uint32()
		return m, nil
	case KindNavControllerOutput:
		return NavControllerOutput{
			NavRoll:       r.float32(),
			NavPitch:      r.float32(),
			AltError:      r.float32(),
			AspdError:     r.float32(),
			XtrackError:   r.float32(),
			NavBearing:    int16(r.uint16()),
			TargetBearing: int16(r.uint16()),
			WpDist:        r.uint16(),
		}, nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownMessage, uint32(kind))
	}
}

// payloadReader reads little-endian fields sequentially; callers guarantee
// the buffer holds the kind's full payload length.
type payloadReader struct {
	buf []byte
	off int
}

func (r *payloadReader) uint8() uint8 {
	v := r.buf[r.off]
	r.off++
	return v
}

func (r *payloadReader) uint16() uint16 {
	v := binary.LittleEndian.Uint16(r.buf[r.off:])
	r.off += 2
	return v
}

func (r *payloadReader) uint32() uint32 {
	v := binary.LittleEndian.Uint32(r.buf[r.off:])
	r.off += 4
	return v
}

func (r *payloadReader) uint64() uint64 {
	v := binary.LittleEndian.Uint64(r.buf[r.off:])
	r.off += 8
	return v
}

func (r *payloadReader) float32() float32 {
	return math.Float32frombits(r.uint32())
}
