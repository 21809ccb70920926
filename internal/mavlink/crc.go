package mavlink

// crcInit is the seed of the CRC-16/MCRF4XX (X.25) checksum used by MAVLink.
const crcInit uint16 = 0xFFFF

func crcAccumulate(b byte, crc uint16) uint16 {
	tmp := b ^ byte(crc&0xFF)
	tmp ^= tmp << 4
	t := uint16(tmp)
	return (crc >> 8) ^ (t << 8) ^ (t << 3) ^ (t >> 4)
}

// Checksum computes the X.25 checksum of data.
func Checksum(data []byte) uint16 {
	crc := crcInit
	for _, b := range data {
		crc = crcAccumulate(b, crc)
	}
	return crc
}

// frameChecksum covers everything after the start marker, then folds in the
// message's CRC_EXTRA seed.
func frameChecksum(headerAndPayload []byte, extra byte) uint16 {
	return crcAccumulate(extra, Checksum(headerAndPayload))
}
