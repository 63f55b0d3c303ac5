package engine

import (
	"fmt"

	"github.com/vk/pixelflow/internal/step"
)

// StepError attributes an execution failure to the step that caused it.
// Index is the step's position in the authored pipeline, which downstream
// reporting maps back to the user-facing construct.
type StepError struct {
	Index int
	Step  *step.Step
	Err   error
}

// Error implements the error interface.
func (e *StepError) Error() string {
	return fmt.Sprintf("step %d (%s): %v", e.Index, e.Step.String(), e.Err)
}

// Unwrap exposes the dispatcher's original error to errors.Is/As.
func (e *StepError) Unwrap() error {
	return e.Err
}
