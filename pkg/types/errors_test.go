package types

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errWire = errors.New("wire down")

func TestStepErrorMessageNamesKinds(t *testing.T) {
	err := &StepError{
		Step:     7,
		Attempts: 5,
		Failures: []SendFailure{{Kind: "BATTERY_STATUS", Err: fmt.Errorf("send: %w", errWire)}},
	}
	assert.Equal(t, "step 7: 1 of 5 messages failed: BATTERY_STATUS: send: wire down", err.Error())
	assert.Equal(t, []string{"BATTERY_STATUS"}, err.Kinds())
}

func TestStepErrorUnwrapsEveryCause(t *testing.T) {
	other := errors.New("other")
	var err error = &StepError{
		Step:     1,
		Attempts: 5,
		Failures: []SendFailure{
			{Kind: "VFR_HUD", Err: errWire},
			{Kind: "ATTITUDE", Err: other},
		},
	}
	assert.ErrorIs(t, err, errWire)
	assert.ErrorIs(t, err, other)

	var se *StepError
	require.ErrorAs(t, fmt.Errorf("wrapped: %w", err), &se)
	assert.Len(t, se.Failures, 2)
}

func TestStepReportFailed(t *testing.T) {
	assert.False(t, StepReport{FramesSent: 5}.Failed())
	assert.True(t, StepReport{Err: errWire}.Failed())
}
