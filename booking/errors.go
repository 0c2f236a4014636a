package booking

import (
	"errors"
	"fmt"
)

// Domain errors. Callers match them with errors.Is.
var (
	ErrInvalidName      = errors.New("name cannot be empty")
	ErrInvalidContact   = errors.New("contact must be exactly 10 digits")
	ErrInvalidAge       = errors.New("age cannot be negative")
	ErrInvalidGender    = errors.New("gender must be one of Male, Female, Other")
	ErrDuplicatePatient = errors.New("patient with this name and contact already exists")
	ErrPatientNotFound  = errors.New("patient not found")
	ErrDateInPast       = errors.New("appointment date cannot be in the past")
	ErrDateFullyBooked  = errors.New("appointment slots for this date are fully booked")
)

var (
	// ErrNotFound is returned by lookups that found nothing. It is a result,
	// not a rejection.
	ErrNotFound = errors.New("not found")

	// ErrConflict is reported by a Store when a transaction lost a race with a
	// concurrent writer and may succeed if retried.
	ErrConflict = errors.New("concurrent modification")

	// ErrTransientFailure is the kind of every infrastructure error returned by
	// the service.
	ErrTransientFailure = errors.New("transient failure")
)

var domainErrors = []error{
	ErrInvalidName,
	ErrInvalidContact,
	ErrInvalidAge,
	ErrInvalidGender,
	ErrDuplicatePatient,
	ErrPatientNotFound,
	ErrDateInPast,
	ErrDateFullyBooked,
}

// IsDomainError reports whether err is one of the recoverable domain errors.
func IsDomainError(err error) bool {
	for _, target := range domainErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// TransientError wraps a store failure or an exhausted retry budget.
type TransientError struct {
	Op  string
	Err error
}

func (e *TransientError) Error() string {
	return fmt.Sprintf("%s: %v: %v", e.Op, ErrTransientFailure, e.Err)
}

func (e *TransientError) Unwrap() []error {
	return []error{ErrTransientFailure, e.Err}
}

func transient(op string, err error) error {
	return &TransientError{Op: op, Err: err}
}
