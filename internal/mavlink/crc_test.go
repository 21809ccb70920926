package mavlink

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChecksumCheckValue(t *testing.T) {
	// CRC-16/MCRF4XX check value.
	assert.Equal(t, uint16(0x6F91), Checksum([]byte("123456789")))
}

func TestChecksumEmpty(t *testing.T) {
	assert.Equal(t, crcInit, Checksum(nil))
}

func TestFrameChecksumFoldsExtra(t *testing.T) {
	data := []byte{0x14, 0x00, 0x00, 0x00, 0x01, 0xC8}
	assert.NotEqual(t, frameChecksum(data, 20), frameChecksum(data, 39))
	assert.Equal(t, crcAccumulate(20, Checksum(data)), frameChecksum(data, 20))
}
