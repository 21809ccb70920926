package types

import (
	"fmt"
	"strings"
)

// SendFailure is the transport failure of a single message kind within a step.
type SendFailure struct {
	Kind string
	Err  error
}

func (f SendFailure) Error() string {
	return fmt.Sprintf("%s: %v", f.Kind, f.Err)
}

func (f SendFailure) Unwrap() error {
	return f.Err
}

// StepError aggregates every send failure of one step. The step itself still
// completed; the remaining message kinds were sent.
type StepError struct {
	Step     uint64
	Attempts int
	Failures []SendFailure
}

func (e *StepError) Error() string {
	parts := make([]string, len(e.Failures))
	for i, f := range e.Failures {
		parts[i] = f.Error()
	}
	return fmt.Sprintf("step %d: %d of %d messages failed: %s",
		e.Step, len(e.Failures), e.Attempts, strings.Join(parts, "; "))
}

// Unwrap exposes each failure so errors.Is matches any underlying cause.
func (e *StepError) Unwrap() []error {
	errs := make([]error, len(e.Failures))
	for i, f := range e.Failures {
		errs[i] = f
	}
	return errs
}

// Kinds returns the failed message kinds in send order.
func (e *StepError) Kinds() []string {
	kinds := make([]string, len(e.Failures))
	for i, f := range e.Failures {
		kinds[i] = f.Kind
	}
	return kinds
}
