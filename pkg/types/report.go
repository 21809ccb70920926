package types

import "time"

// StepReport records the outcome of one dispatched simulation step.
type StepReport struct {
	Step       uint64
	Frame      InputFrame
	FramesSent int
	Err        error
	At         time.Time
}

// Failed reports whether any message of the step failed to send.
func (r StepReport) Failed() bool { return r.Err != nil }
