package services

import "errors"

var (
	ErrValidation  = errors.New("validation failed")
	ErrNotFound    = errors.New("not found")
	ErrConflict    = errors.New("conflict")
	ErrInvalidCode = errors.New("invalid verification code")
)

// VerificationFailure is the routine negative outcome of a session
// verification: the activity log did not support the claimed session. It is
// a policy decision, not a system error, so it carries its own type and the
// reason the check failed for the dispute queue.
type VerificationFailure struct {
	Reason string
}

func (e *VerificationFailure) Error() string {
	return "verification failed: " + e.Reason
}

func verificationFailed(reason string) error {
	return &VerificationFailure{Reason: reason}
}
