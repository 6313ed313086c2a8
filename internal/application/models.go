package application

import (
	"time"

	"github.com/example/course-scheduler/internal/recurrence"
)

// CourseInput captures caller provided course fields.
type CourseInput struct {
	Title         string
	Description   string
	Schedule      recurrence.Rule
	MaxAttendants int
}

// Course represents a persisted course offering.
type Course struct {
	ID            string
	Title         string
	Description   string
	Schedule      recurrence.Rule
	MaxAttendants int
	EnrolledCount int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Enrollment links a subject to a course.
type Enrollment struct {
	ID          string
	CourseID    string
	SubjectID   string
	EnrolledAt  time.Time
	CancelledAt *time.Time
}

// EnrollmentState names the per (subject, course) state machine states.
type EnrollmentState string

const (
	// StateEnrolled indicates an active enrollment exists.
	StateEnrolled EnrollmentState = "enrolled"
	// StateNotEnrolled indicates no active enrollment exists.
	StateNotEnrolled EnrollmentState = "not_enrolled"
)

// EnrollParams wraps the data required to enroll a subject.
type EnrollParams struct {
	CourseID  string
	SubjectID string
}

// CancelParams wraps the data required to cancel an enrollment.
type CancelParams struct {
	CourseID  string
	SubjectID string
}

// CancelResult reports the state after a cancel request. AlreadyInactive is
// true when the subject had no active enrollment and the call was a no-op.
type CancelResult struct {
	State           EnrollmentState
	AlreadyInactive bool
}

// OccurrenceQuery narrows an occurrence listing. Zero From/Until default to
// the course's own date range; a non-positive Limit returns everything in
// the window.
type OccurrenceQuery struct {
	CourseID string
	From     time.Time
	Until    time.Time
	Limit    int
}
