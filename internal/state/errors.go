package state

import "errors"

// ErrStale is returned when no step has been reported within the stale threshold.
var ErrStale = errors.New("state: step status is stale")
