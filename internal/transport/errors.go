package transport

import "errors"

var (
	ErrTransportUnavailable = errors.New("transport: unavailable")
	ErrSendFailed           = errors.New("transport: send failed")
	ErrClosed               = errors.New("transport: session closed")
)
