package billiard

import (
	"errors"
	"fmt"
)

// Domain errors for trajectory runs.
var (
	// ErrInvalidState indicates a start state with NaN or Inf components.
	ErrInvalidState = errors.New("billiard: invalid state (NaN or Inf)")

	// ErrDuration indicates a non-positive requested duration.
	ErrDuration = errors.New("billiard: duration must be positive")

	// ErrCanceled indicates the run was interrupted by its context.
	ErrCanceled = errors.New("billiard: run canceled by context")
)

// RunError wraps a failure with the step and simulated time where the
// run died. Collision-solver non-convergence arrives here wrapped, so
// errors.Is against roots.ErrNoConvergence still works.
type RunError struct {
	Step    int
	Time    float64
	State   State
	Wrapped error
}

func (e *RunError) Error() string {
	return fmt.Sprintf("step %d (t=%.6f): %v", e.Step, e.Time, e.Wrapped)
}

func (e *RunError) Unwrap() error {
	return e.Wrapped
}
