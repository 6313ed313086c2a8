package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/example/course-scheduler/internal/cancellation"
	"github.com/example/course-scheduler/internal/capacity"
	"github.com/example/course-scheduler/internal/persistence"
	"github.com/example/course-scheduler/internal/recurrence"
)

// EnrollmentRepository captures the persistence interactions needed by the
// enrollment service.
type EnrollmentRepository interface {
	CreateEnrollment(ctx context.Context, enrollment Enrollment) (Enrollment, error)
	GetActiveEnrollment(ctx context.Context, courseID, subjectID string) (Enrollment, error)
	CancelEnrollment(ctx context.Context, id string, cancelledAt time.Time) error
}

// EnrollmentService runs the per (subject, course) enrollment state
// machine. It is the only writer of capacity counters: every transition
// goes through the tracker, so the enrolled count can never drift from the
// set of active enrollments it creates.
type EnrollmentService struct {
	courses      CourseReader
	enrollments  EnrollmentRepository
	tracker      capacity.Tracker
	cancelWindow time.Duration
	idGenerator  func() string
	now          func() time.Time
	logger       *slog.Logger
}

// NewEnrollmentService wires dependencies for enrollment operations. A
// non-positive cancelWindow falls back to cancellation.DefaultWindow.
func NewEnrollmentService(courses CourseReader, enrollments EnrollmentRepository, tracker capacity.Tracker, cancelWindow time.Duration, idGenerator func() string, now func() time.Time) *EnrollmentService {
	if cancelWindow <= 0 {
		cancelWindow = cancellation.DefaultWindow
	}
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &EnrollmentService{
		courses:      courses,
		enrollments:  enrollments,
		tracker:      tracker,
		cancelWindow: cancelWindow,
		idGenerator:  idGenerator,
		now:          now,
	}
}

// NewEnrollmentServiceWithLogger wires dependencies including a base logger.
func NewEnrollmentServiceWithLogger(courses CourseReader, enrollments EnrollmentRepository, tracker capacity.Tracker, cancelWindow time.Duration, idGenerator func() string, now func() time.Time, logger *slog.Logger) *EnrollmentService {
	svc := NewEnrollmentService(courses, enrollments, tracker, cancelWindow, idGenerator, now)
	svc.logger = defaultLogger(logger)
	return svc
}

// Enroll moves the (subject, course) pair from NotEnrolled to Enrolled. A
// duplicate attempt returns ErrAlreadyEnrolled; a full course returns
// ErrCourseFull. The capacity slot is reserved before the enrollment row is
// written and released again if that write fails, so the counter never
// counts an enrollment that does not exist.
func (s *EnrollmentService) Enroll(ctx context.Context, params EnrollParams) (Enrollment, error) {
	if s == nil || s.enrollments == nil || s.tracker == nil {
		return Enrollment{}, fmt.Errorf("enrollment service not configured")
	}

	logger := serviceLogger(ctx, s.logger, "enrollment", "enroll",
		"course_id", params.CourseID, "subject_id", params.SubjectID)

	if _, err := s.courseFor(ctx, params.CourseID); err != nil {
		return Enrollment{}, err
	}

	if _, err := s.enrollments.GetActiveEnrollment(ctx, params.CourseID, params.SubjectID); err == nil {
		logger.InfoContext(ctx, "duplicate enroll attempt", "error_kind", ErrorKind(ErrAlreadyEnrolled))
		return Enrollment{}, ErrAlreadyEnrolled
	} else if !isNotFound(err) {
		return Enrollment{}, err
	}

	if err := s.tracker.TryReserve(ctx, params.CourseID); err != nil {
		switch {
		case errors.Is(err, capacity.ErrFull):
			logger.InfoContext(ctx, "course full", "error_kind", ErrorKind(ErrCourseFull))
			return Enrollment{}, ErrCourseFull
		case errors.Is(err, capacity.ErrUnknownCourse):
			return Enrollment{}, ErrNotFound
		default:
			return Enrollment{}, err
		}
	}

	enrollment := Enrollment{
		ID:         s.idGenerator(),
		CourseID:   params.CourseID,
		SubjectID:  params.SubjectID,
		EnrolledAt: s.now(),
	}

	persisted, err := s.enrollments.CreateEnrollment(ctx, enrollment)
	if err != nil {
		// Give the reserved slot back; without this a failed write would
		// leak capacity.
		if relErr := s.tracker.Release(ctx, params.CourseID); relErr != nil {
			logger.ErrorContext(ctx, "failed to release reservation after write failure", "error", relErr)
		}
		if errors.Is(err, persistence.ErrDuplicate) {
			return Enrollment{}, ErrAlreadyEnrolled
		}
		logger.ErrorContext(ctx, "enrollment write failed", "error", err)
		return Enrollment{}, err
	}

	logger.InfoContext(ctx, "subject enrolled", "enrollment_id", persisted.ID)
	return persisted, nil
}

// Cancel moves the pair from Enrolled back to NotEnrolled when the
// cancellation policy allows it. Cancelling while not enrolled is an
// idempotent no-op: retried cancel requests must not fail.
func (s *EnrollmentService) Cancel(ctx context.Context, params CancelParams) (CancelResult, error) {
	if s == nil || s.enrollments == nil || s.tracker == nil {
		return CancelResult{}, fmt.Errorf("enrollment service not configured")
	}

	logger := serviceLogger(ctx, s.logger, "enrollment", "cancel",
		"course_id", params.CourseID, "subject_id", params.SubjectID)

	course, err := s.courseFor(ctx, params.CourseID)
	if err != nil {
		return CancelResult{}, err
	}

	enrollment, err := s.enrollments.GetActiveEnrollment(ctx, params.CourseID, params.SubjectID)
	if err != nil {
		if isNotFound(err) {
			logger.InfoContext(ctx, "cancel for inactive enrollment ignored")
			return CancelResult{State: StateNotEnrolled, AlreadyInactive: true}, nil
		}
		return CancelResult{}, err
	}

	courseStart, courseEnd, err := courseBounds(course.Schedule)
	if err != nil {
		return CancelResult{}, err
	}

	decision := cancellation.Decide(s.now(), courseStart, courseEnd, s.cancelWindow)
	if !decision.Allowed {
		logger.InfoContext(ctx, "cancellation denied", "reason", string(decision.Reason))
		return CancelResult{}, &CancellationDeniedError{Reason: decision.Reason}
	}

	if err := s.enrollments.CancelEnrollment(ctx, enrollment.ID, s.now()); err != nil {
		if isNotFound(err) {
			// Lost a race with another cancel of the same enrollment;
			// same outcome either way.
			return CancelResult{State: StateNotEnrolled, AlreadyInactive: true}, nil
		}
		return CancelResult{}, err
	}

	if err := s.tracker.Release(ctx, params.CourseID); err != nil {
		logger.ErrorContext(ctx, "failed to release slot after cancellation", "error", err)
		return CancelResult{}, err
	}

	logger.InfoContext(ctx, "enrollment cancelled", "enrollment_id", enrollment.ID)
	return CancelResult{State: StateNotEnrolled}, nil
}

// GetCapacity reports the live counter for a course.
func (s *EnrollmentService) GetCapacity(ctx context.Context, courseID string) (capacity.Snapshot, error) {
	if s == nil || s.tracker == nil {
		return capacity.Snapshot{}, fmt.Errorf("capacity tracker not configured")
	}
	snapshot, err := s.tracker.Capacity(ctx, courseID)
	if err != nil {
		if errors.Is(err, capacity.ErrUnknownCourse) {
			return capacity.Snapshot{}, ErrNotFound
		}
		return capacity.Snapshot{}, err
	}
	return snapshot, nil
}

func (s *EnrollmentService) courseFor(ctx context.Context, courseID string) (Course, error) {
	if s.courses == nil {
		return Course{}, fmt.Errorf("course reader not configured")
	}
	course, err := s.courses.GetCourse(ctx, courseID)
	if err != nil {
		return Course{}, mapCourseRepoError(err)
	}
	return course, nil
}

// courseBounds derives the instants the cancellation policy compares
// against: the start of the first actual session (exclusion dates can push
// it past the rule's start date) and the end of the last scheduled day.
func courseBounds(rule recurrence.Rule) (time.Time, time.Time, error) {
	gen, err := recurrence.NewGenerator(rule, time.Time{}, time.Time{})
	if err != nil {
		return time.Time{}, time.Time{}, err
	}

	var start time.Time
	if first, ok := gen.Next(); ok {
		start = first.Start
	}

	loc, err := rule.Location()
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	year, month, day := rule.EndDate.Date()
	end := time.Date(year, month, day, rule.EndTime.Hour, rule.EndTime.Minute, 0, 0, loc)

	return start, end, nil
}

func isNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, persistence.ErrNotFound)
}
