package resolver

import (
	"fmt"

	errorskg "github.com/sweetpotato0/ticket-resolver/errors"
)

// StageError reports a capability failure inside one stage. It matches
// errors.ErrCapability and unwraps to the underlying cause.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s stage failed: %v", e.Stage, e.Err)
}

// Unwrap returns the underlying cause.
func (e *StageError) Unwrap() error { return e.Err }

// Is reports whether target is errors.ErrCapability.
func (e *StageError) Is(target error) bool { return target == errorskg.ErrCapability }

func stageError(stage string, err error) error {
	return &StageError{Stage: stage, Err: err}
}

// trimForLog bounds text written to logs.
func trimForLog(s string) string {
	const limit = 100
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit]) + "..."
}
