package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/example/course-scheduler/internal/persistence"
	"github.com/example/course-scheduler/internal/recurrence"
)

// CourseRepository captures the persistence interactions needed by the
// course service.
type CourseRepository interface {
	CreateCourse(ctx context.Context, course Course) (Course, error)
	GetCourse(ctx context.Context, id string) (Course, error)
	UpdateCourse(ctx context.Context, course Course) (Course, error)
	ListCourses(ctx context.Context) ([]Course, error)
	DeleteCourse(ctx context.Context, id string) error
}

// CourseReader is the read-only subset consumed by the schedule and
// enrollment services.
type CourseReader interface {
	GetCourse(ctx context.Context, id string) (Course, error)
}

// CourseService orchestrates validation and persistence for course
// operations.
type CourseService struct {
	courses     CourseRepository
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
}

// NewCourseService wires dependencies for course operations.
func NewCourseService(courses CourseRepository, idGenerator func() string, now func() time.Time) *CourseService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &CourseService{courses: courses, idGenerator: idGenerator, now: now}
}

// NewCourseServiceWithLogger wires dependencies including a base logger.
func NewCourseServiceWithLogger(courses CourseRepository, idGenerator func() string, now func() time.Time, logger *slog.Logger) *CourseService {
	svc := NewCourseService(courses, idGenerator, now)
	svc.logger = defaultLogger(logger)
	return svc
}

// CreateCourse validates the input before delegating to persistence.
func (s *CourseService) CreateCourse(ctx context.Context, input CourseInput) (Course, error) {
	if s == nil {
		return Course{}, fmt.Errorf("CourseService is nil")
	}

	logger := serviceLogger(ctx, s.logger, "course", "create")

	vErr := &ValidationError{}
	validateCourseCore(input, vErr)
	if vErr.HasErrors() {
		logger.InfoContext(ctx, "course rejected", "error_kind", ErrorKind(vErr))
		return Course{}, vErr
	}

	createdAt := s.now()
	course := Course{
		ID:            s.idGenerator(),
		Title:         strings.TrimSpace(input.Title),
		Description:   input.Description,
		Schedule:      input.Schedule,
		MaxAttendants: input.MaxAttendants,
		CreatedAt:     createdAt,
		UpdatedAt:     createdAt,
	}

	if s.courses == nil {
		return course, nil
	}

	persisted, err := s.courses.CreateCourse(ctx, course)
	if err != nil {
		logger.ErrorContext(ctx, "course creation failed", "error", err, "error_kind", ErrorKind(err))
		return Course{}, mapCourseRepoError(err)
	}

	logger.InfoContext(ctx, "course created", "course_id", persisted.ID)
	return persisted, nil
}

// GetCourse retrieves a course by ID.
func (s *CourseService) GetCourse(ctx context.Context, id string) (Course, error) {
	if s == nil || s.courses == nil {
		return Course{}, fmt.Errorf("course repository not configured")
	}
	course, err := s.courses.GetCourse(ctx, id)
	if err != nil {
		return Course{}, mapCourseRepoError(err)
	}
	return course, nil
}

// ListCourses enumerates all courses.
func (s *CourseService) ListCourses(ctx context.Context) ([]Course, error) {
	if s == nil || s.courses == nil {
		return nil, fmt.Errorf("course repository not configured")
	}
	courses, err := s.courses.ListCourses(ctx)
	if err != nil {
		return nil, mapCourseRepoError(err)
	}
	return courses, nil
}

// UpdateCourse validates the input and rewrites an existing course's
// schedule and capacity limit.
func (s *CourseService) UpdateCourse(ctx context.Context, courseID string, input CourseInput) (Course, error) {
	if s == nil || s.courses == nil {
		return Course{}, fmt.Errorf("course repository not configured")
	}

	logger := serviceLogger(ctx, s.logger, "course", "update", "course_id", courseID)

	existing, err := s.courses.GetCourse(ctx, courseID)
	if err != nil {
		return Course{}, mapCourseRepoError(err)
	}

	vErr := &ValidationError{}
	validateCourseCore(input, vErr)
	if input.MaxAttendants < existing.EnrolledCount {
		vErr.add("max_attendants", "max attendants cannot drop below the enrolled count")
	}
	if vErr.HasErrors() {
		logger.InfoContext(ctx, "course update rejected", "error_kind", ErrorKind(vErr))
		return Course{}, vErr
	}

	updated := existing
	updated.Title = strings.TrimSpace(input.Title)
	updated.Description = input.Description
	updated.Schedule = input.Schedule
	updated.MaxAttendants = input.MaxAttendants
	updated.UpdatedAt = s.now()

	persisted, err := s.courses.UpdateCourse(ctx, updated)
	if err != nil {
		logger.ErrorContext(ctx, "course update failed", "error", err, "error_kind", ErrorKind(err))
		return Course{}, mapCourseRepoError(err)
	}

	logger.InfoContext(ctx, "course updated")
	return persisted, nil
}

// DeleteCourse removes a course and, through persistence, its enrollments.
func (s *CourseService) DeleteCourse(ctx context.Context, courseID string) error {
	if s == nil || s.courses == nil {
		return fmt.Errorf("course repository not configured")
	}

	if err := s.courses.DeleteCourse(ctx, courseID); err != nil {
		return mapCourseRepoError(err)
	}

	serviceLogger(ctx, s.logger, "course", "delete", "course_id", courseID).InfoContext(ctx, "course deleted")
	return nil
}

func validateCourseCore(input CourseInput, vErr *ValidationError) {
	if strings.TrimSpace(input.Title) == "" {
		vErr.add("title", "title is required")
	}
	if input.MaxAttendants <= 0 {
		vErr.add("max_attendants", "max attendants must be positive")
	}
	if err := input.Schedule.Validate(); err != nil {
		addRuleErrors(err, vErr)
	}
}

// addRuleErrors translates recurrence validation sentinels into the field
// level shape the transport layer renders.
func addRuleErrors(err error, vErr *ValidationError) {
	for sentinel, field := range ruleErrorFields {
		if errors.Is(err, sentinel) {
			vErr.add(field, strings.TrimPrefix(sentinel.Error(), "recurrence: "))
		}
	}
}

var ruleErrorFields = map[error]string{
	recurrence.ErrUnknownPeriodicity: "periodicity",
	recurrence.ErrInvalidTimeOfDay:   "start_time",
	recurrence.ErrDateOrder:          "start_date",
	recurrence.ErrTimeOrder:          "end_time",
	recurrence.ErrMissingWeekdays:    "weekdays",
	recurrence.ErrInvalidWeekday:     "weekdays",
	recurrence.ErrInvalidInterval:    "interval",
	recurrence.ErrInvalidWeekOfMonth: "week_of_month",
	recurrence.ErrUnknownTimezone:    "timezone",
}

func mapCourseRepoError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrNotFound) || errors.Is(err, persistence.ErrNotFound) {
		return ErrNotFound
	}
	if errors.Is(err, persistence.ErrDuplicate) {
		return ErrAlreadyExists
	}
	if errors.Is(err, persistence.ErrConstraintViolation) {
		vErr := &ValidationError{}
		vErr.add("max_attendants", "max attendants must be positive")
		return vErr
	}
	return err
}
