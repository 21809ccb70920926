package mavlink

import "errors"

var (
	ErrInvalidMagic   = errors.New("mavlink: invalid start marker")
	ErrTruncatedFrame = errors.New("mavlink: truncated frame")
	ErrBadChecksum    = errors.New("mavlink: checksum mismatch")
	ErrUnknownMessage = errors.New("mavlink: unknown message id")
)
