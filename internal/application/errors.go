package application

import (
	"errors"
	"fmt"

	"github.com/example/course-scheduler/internal/cancellation"
)

var (
	// ErrNotFound is returned when the requested resource does not exist.
	ErrNotFound = errors.New("application: not found")
	// ErrAlreadyExists is returned when a create collides with an existing record.
	ErrAlreadyExists = errors.New("application: already exists")
	// ErrCourseFull is returned when a course has no free enrollment slots.
	// It is an expected outcome, not a failure; callers surface it and do
	// not retry.
	ErrCourseFull = errors.New("application: course is full")
	// ErrAlreadyEnrolled is returned on a duplicate enroll attempt. The
	// service reports it distinctly for logging even though callers may
	// treat it as idempotent success.
	ErrAlreadyEnrolled = errors.New("application: already enrolled")
)

// CancellationDeniedError carries the policy reason so callers can render a
// precise message.
type CancellationDeniedError struct {
	Reason cancellation.Reason
}

// Error implements the error interface.
func (e *CancellationDeniedError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("application: cancellation denied (%s)", e.Reason)
}

// ValidationError captures field level validation issues that callers can
// surface to users.
type ValidationError struct {
	FieldErrors map[string]string
}

// Error implements the error interface.
func (v *ValidationError) Error() string {
	if v == nil {
		return ""
	}
	return "validation failed"
}

// HasErrors reports whether any field level issues were recorded.
func (v *ValidationError) HasErrors() bool {
	return v != nil && len(v.FieldErrors) > 0
}

// add records a field level validation error.
func (v *ValidationError) add(field, message string) {
	if v.FieldErrors == nil {
		v.FieldErrors = make(map[string]string)
	}
	v.FieldErrors[field] = message
}
