package application

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/example/course-scheduler/internal/recurrence"
	"github.com/example/course-scheduler/internal/schedule"
)

// ScheduleService answers schedule queries: structured summaries for the
// rendering collaborator and concrete occurrence listings.
type ScheduleService struct {
	courses   CourseReader
	describer *schedule.Describer
	cache     *summaryCache
	logger    *slog.Logger
}

// NewScheduleService wires dependencies for schedule queries. upcoming
// bounds the NextOccurrences in summaries; now feeds both future filtering
// and cache expiry.
func NewScheduleService(courses CourseReader, upcoming int, now func() time.Time) *ScheduleService {
	if now == nil {
		now = time.Now
	}
	return &ScheduleService{
		courses:   courses,
		describer: schedule.NewDescriber(upcoming, now),
		cache:     newSummaryCache(30*time.Second, 128, now),
	}
}

// NewScheduleServiceWithLogger wires dependencies including a base logger.
func NewScheduleServiceWithLogger(courses CourseReader, upcoming int, now func() time.Time, logger *slog.Logger) *ScheduleService {
	svc := NewScheduleService(courses, upcoming, now)
	svc.logger = defaultLogger(logger)
	return svc
}

// DescribeCourse returns the structured schedule summary for a course.
func (s *ScheduleService) DescribeCourse(ctx context.Context, courseID string) (schedule.Summary, error) {
	if s == nil || s.courses == nil {
		return schedule.Summary{}, fmt.Errorf("course reader not configured")
	}

	course, err := s.courses.GetCourse(ctx, courseID)
	if err != nil {
		return schedule.Summary{}, mapCourseRepoError(err)
	}

	key := summaryCacheKey(course)
	if summary, ok := s.cache.Get(key); ok {
		return summary, nil
	}

	summary, err := s.describer.Describe(course.Schedule)
	if err != nil {
		serviceLogger(ctx, s.logger, "schedule", "describe", "course_id", courseID).
			ErrorContext(ctx, "describe failed", "error", err)
		return schedule.Summary{}, err
	}

	s.cache.Store(key, summary)
	return summary, nil
}

// ListOccurrences expands the course's rule inside the query window.
func (s *ScheduleService) ListOccurrences(ctx context.Context, query OccurrenceQuery) ([]recurrence.Occurrence, error) {
	if s == nil || s.courses == nil {
		return nil, fmt.Errorf("course reader not configured")
	}

	course, err := s.courses.GetCourse(ctx, query.CourseID)
	if err != nil {
		return nil, mapCourseRepoError(err)
	}

	gen, err := recurrence.NewGenerator(course.Schedule, query.From, query.Until)
	if err != nil {
		return nil, err
	}

	if query.Limit > 0 {
		return gen.Take(query.Limit), nil
	}

	occurrences := make([]recurrence.Occurrence, 0)
	for {
		occ, ok := gen.Next()
		if !ok {
			return occurrences, nil
		}
		occurrences = append(occurrences, occ)
	}
}
