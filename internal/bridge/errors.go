package bridge

import "errors"

var (
	ErrNotActive     = errors.New("bridge: not active")
	ErrAlreadyActive = errors.New("bridge: already active")
)
