package mavlink

import (
	"encoding/binary"
	"fmt"
)

const (
	MagicV2      = 0xFD
	HeaderSize   = 10
	ChecksumSize = 2
)

// Identity is the sender's system and component id, constant for a run.
type Identity struct {
	SystemID    uint8
	ComponentID uint8
}

// DefaultIdentity is the identity the display expects from the bridge.
var DefaultIdentity = Identity{SystemID: 1, ComponentID: 200}

// Header is a decoded MAVLink 2 frame header.
type Header struct {
	PayloadLen    uint8
	IncompatFlags uint8
	CompatFlags   uint8
	Seq           uint8
	SystemID      uint8
	ComponentID   uint8
	MsgID         Kind
}

// Encode frames msg as a complete MAVLink 2 packet. Payloads are not trimmed,
// so every frame of a kind has the same length.
func Encode(id Identity, seq uint8, msg Message) []byte {
	kind := msg.Kind()
	info := kinds[kind]

	buf := make([]byte, HeaderSize, HeaderSize+info.payloadLen+ChecksumSize)
	buf = msg.AppendPayload(buf)
	payloadLen := len(buf) - HeaderSize

	buf[0] = MagicV2
	buf[1] = byte(payloadLen)
	buf[2] = 0
	buf[3] = 0
	buf[4] = seq
	buf[5] = id.SystemID
	buf[6] = id.ComponentID
	buf[7] = byte(kind)
	buf[8] = byte(kind >> 8)
	buf[9] = byte(kind >> 16)

	crc := frameChecksum(buf[1:], info.crcExtra)
	return binary.LittleEndian.AppendUint16(buf, crc)
}

// DecodeHeader parses the fixed 10-byte header.
func DecodeHeader(data []byte) (Header, error) {
	if len(data) < HeaderSize {
		return Header{}, fmt.Errorf("%w: header needs %d bytes, got %d", ErrTruncatedFrame, HeaderSize, len(data))
	}
	if data[0] != MagicV2 {
		return Header{}, fmt.Errorf("%w: 0x%02X", ErrInvalidMagic, data[0])
	}
	return Header{
		PayloadLen:    data[1],
		IncompatFlags: data[2],
		CompatFlags:   data[3],
		Seq:           data[4],
		SystemID:      data[5],
		ComponentID:   data[6],
		MsgID:         Kind(uint32(data[7]) | uint32(data[8])<<8 | uint32(data[9])<<16),
	}, nil
}

// Decode validates one frame and returns its header and typed message.
// Payloads shorter than the kind's length are zero-extended, as MAVLink 2
// senders may trim trailing zero bytes.
func Decode(data []byte) (Header, Message, error) {
	h, err := DecodeHeader(data)
	if err != nil {
		return Header{}, nil, err
	}
	end := HeaderSize + int(h.PayloadLen)
	if len(data) < end+ChecksumSize {
		return Header{}, nil, fmt.Errorf("%w: need %d bytes, got %d", ErrTruncatedFrame, end+ChecksumSize, len(data))
	}

	info, ok := kinds[h.MsgID]
	if !ok {
		return h, nil, fmt.Errorf("%w: %d", ErrUnknownMessage, uint32(h.MsgID))
	}

	want := binary.LittleEndian.Uint16(data[end:])
	if got := frameChecksum(data[1:end], info.crcExtra); got != want {
		return h, nil, fmt.Errorf("%w: %s got 0x%04X, want 0x%04X", ErrBadChecksum, h.MsgID, got, want)
	}
	if int(h.PayloadLen) > info.payloadLen {
		return h, nil, fmt.Errorf("%s payload of %d bytes exceeds %d", h.MsgID, h.PayloadLen, info.payloadLen)
	}

	payload := make([]byte, info.payloadLen)
	copy(payload, data[HeaderSize:end])
	msg, err := parsePayload(h.MsgID, payload)
	if err != nil {
		return h, nil, err
	}
	return h, msg, nil
}
