package testfixtures

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/example/course-scheduler/internal/application"
	"github.com/example/course-scheduler/internal/recurrence"
)

var (
	courseCounter     uint64
	enrollmentCounter uint64
)

var referenceTime = time.Date(2025, time.January, 6, 9, 0, 0, 0, time.UTC)

// ReferenceTime returns the canonical baseline timestamp used by fixtures.
// It is a Monday so weekday based rules line up with the rule start date.
func ReferenceTime() time.Time {
	return referenceTime
}

// WeeklyRule returns a valid weekly recurrence rule spanning eight weeks from
// the reference date, meeting on the given weekdays.
func WeeklyRule(days ...time.Weekday) recurrence.Rule {
	if len(days) == 0 {
		days = []time.Weekday{time.Wednesday}
	}
	return recurrence.Rule{
		StartDate:    time.Date(2025, time.January, 6, 0, 0, 0, 0, time.UTC),
		EndDate:      time.Date(2025, time.March, 2, 0, 0, 0, 0, time.UTC),
		StartTime:    recurrence.TimeOfDay{Hour: 10, Minute: 0},
		EndTime:      recurrence.TimeOfDay{Hour: 12, Minute: 0},
		Timezone:     "UTC",
		Periodicity:  recurrence.PeriodicityWeekly,
		Weekdays:     append([]time.Weekday(nil), days...),
		ExcludeDates: recurrence.NewDateSet(),
	}
}

// OnceRule returns a single occurrence rule on the given date.
func OnceRule(date time.Time) recurrence.Rule {
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	return recurrence.Rule{
		StartDate:    day,
		EndDate:      day,
		StartTime:    recurrence.TimeOfDay{Hour: 9, Minute: 0},
		EndTime:      recurrence.TimeOfDay{Hour: 17, Minute: 0},
		Timezone:     "UTC",
		Periodicity:  recurrence.PeriodicityOnce,
		ExcludeDates: recurrence.NewDateSet(),
	}
}

// CourseOption configures the generated course fixture.
type CourseOption func(*application.Course)

// NewCourseFixture returns a deterministic course with optional overrides.
func NewCourseFixture(opts ...CourseOption) application.Course {
	idx := atomic.AddUint64(&courseCounter, 1)
	created := referenceTime.Add(time.Duration(idx) * time.Minute)
	course := application.Course{
		ID:            fmt.Sprintf("course-%03d", idx),
		Title:         fmt.Sprintf("Course %03d", idx),
		Description:   "fixture course",
		Schedule:      WeeklyRule(time.Wednesday),
		MaxAttendants: 10,
		CreatedAt:     created,
		UpdatedAt:     created,
	}
	for _, opt := range opts {
		opt(&course)
	}
	return course
}

// WithCourseID overrides the generated course ID.
func WithCourseID(id string) CourseOption {
	return func(c *application.Course) {
		c.ID = id
	}
}

// WithSchedule overrides the generated recurrence rule.
func WithSchedule(rule recurrence.Rule) CourseOption {
	return func(c *application.Course) {
		c.Schedule = rule
	}
}

// WithMaxAttendants overrides the capacity limit.
func WithMaxAttendants(max int) CourseOption {
	return func(c *application.Course) {
		c.MaxAttendants = max
	}
}

// WithEnrolledCount overrides the stored enrolment counter.
func WithEnrolledCount(count int) CourseOption {
	return func(c *application.Course) {
		c.EnrolledCount = count
	}
}

// NewEnrollmentFixture returns a deterministic active enrollment linking the
// given subject to the given course.
func NewEnrollmentFixture(courseID, subjectID string) application.Enrollment {
	idx := atomic.AddUint64(&enrollmentCounter, 1)
	return application.Enrollment{
		ID:         fmt.Sprintf("enrollment-%03d", idx),
		CourseID:   courseID,
		SubjectID:  subjectID,
		EnrolledAt: referenceTime.Add(time.Duration(idx) * time.Second),
	}
}
