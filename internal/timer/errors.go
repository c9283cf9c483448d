package timer

import (
	"errors"
	"fmt"
)

// ErrPreconditionViolation matches every PreconditionError via errors.Is.
var ErrPreconditionViolation = errors.New("precondition violation")

// Specific precondition failures.
var (
	ErrSessionStopped  = errors.New("session is already stopped")
	ErrOpenSession     = errors.New("project already has an open session")
	ErrStartInFuture   = errors.New("start time is after the current time")
	ErrInvalidInterval = errors.New("end must be after start")
)

// PreconditionError reports a transition that was refused. The session it
// was attempted on is left untouched.
type PreconditionError struct {
	Op    string
	State State
	Err   error
}

func (e *PreconditionError) Error() string {
	if e.State == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s on %s session: %v", e.Op, e.State, e.Err)
}

func (e *PreconditionError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrPreconditionViolation.
func (e *PreconditionError) Is(target error) bool {
	return target == ErrPreconditionViolation
}

func refuse(op string, state State, err error) error {
	return &PreconditionError{Op: op, State: state, Err: err}
}
