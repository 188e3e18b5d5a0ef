package models

import "errors"

var (
	// ErrNotFound is returned when an entity, quiz or notification ID does not resolve.
	ErrNotFound = errors.New("not found")
	// ErrQuizClosed is returned for operations on an expired quiz.
	ErrQuizClosed = errors.New("quiz closed")
	// ErrDuplicateAttempt is returned when a participant already has an active answer.
	ErrDuplicateAttempt = errors.New("attempt already recorded")
	// ErrNotAttempted is returned when clearing an attempt that does not exist.
	ErrNotAttempted = errors.New("no attempt recorded")
	// ErrInvalidOption is returned when an answer's option index is out of range.
	ErrInvalidOption = errors.New("option index out of range")
	// ErrUnauthenticated is returned when the connection handshake fails.
	ErrUnauthenticated = errors.New("authentication failed")
)

// Denial reasons carried by ForbiddenError so a caller can tell
// "not yours" apart from "too late to edit".
const (
	ReasonUnauthorized  = "unauthorized"
	ReasonWindowExpired = "window_expired"
)

// ForbiddenError is an authorization denial with a specific reason.
type ForbiddenError struct {
	Reason string
}

func (e *ForbiddenError) Error() string {
	return "forbidden: " + e.Reason
}

// Forbidden builds a ForbiddenError with the given reason.
func Forbidden(reason string) error {
	return &ForbiddenError{Reason: reason}
}

// IsForbidden reports whether err is a ForbiddenError.
func IsForbidden(err error) bool {
	var fe *ForbiddenError
	return errors.As(err, &fe)
}
