package persistence

import (
	"context"
	"time"
)

// CourseRepository exposes CRUD operations for courses.
type CourseRepository interface {
	CreateCourse(ctx context.Context, course Course) error
	UpdateCourse(ctx context.Context, course Course) error
	GetCourse(ctx context.Context, id string) (Course, error)
	ListCourses(ctx context.Context) ([]Course, error)
	DeleteCourse(ctx context.Context, id string) error
}

// EnrollmentRepository stores enrollment links between subjects and courses.
type EnrollmentRepository interface {
	CreateEnrollment(ctx context.Context, enrollment Enrollment) error
	// GetActiveEnrollment returns the uncancelled enrollment for the
	// (course, subject) pair, or ErrNotFound.
	GetActiveEnrollment(ctx context.Context, courseID, subjectID string) (Enrollment, error)
	ListEnrollmentsForCourse(ctx context.Context, courseID string) ([]Enrollment, error)
	CancelEnrollment(ctx context.Context, id string, cancelledAt time.Time) error
}
