package main

import (
	"context"
	"time"

	"github.com/example/course-scheduler/internal/application"
	"github.com/example/course-scheduler/internal/persistence"
	"github.com/example/course-scheduler/internal/recurrence"
)

// courseRepositoryAdapter bridges the application service, which works in
// recurrence rules, to the persistence layer, which stores flat columns.
type courseRepositoryAdapter struct {
	repo persistence.CourseRepository
}

func newCourseRepositoryAdapter(repo persistence.CourseRepository) *courseRepositoryAdapter {
	return &courseRepositoryAdapter{repo: repo}
}

func (a *courseRepositoryAdapter) CreateCourse(ctx context.Context, course application.Course) (application.Course, error) {
	if err := a.repo.CreateCourse(ctx, toPersistenceCourse(course)); err != nil {
		return application.Course{}, err
	}
	return a.GetCourse(ctx, course.ID)
}

func (a *courseRepositoryAdapter) GetCourse(ctx context.Context, id string) (application.Course, error) {
	stored, err := a.repo.GetCourse(ctx, id)
	if err != nil {
		return application.Course{}, err
	}
	return toApplicationCourse(stored)
}

func (a *courseRepositoryAdapter) UpdateCourse(ctx context.Context, course application.Course) (application.Course, error) {
	if err := a.repo.UpdateCourse(ctx, toPersistenceCourse(course)); err != nil {
		return application.Course{}, err
	}
	return a.GetCourse(ctx, course.ID)
}

func (a *courseRepositoryAdapter) ListCourses(ctx context.Context) ([]application.Course, error) {
	models, err := a.repo.ListCourses(ctx)
	if err != nil {
		return nil, err
	}
	if len(models) == 0 {
		return nil, nil
	}
	courses := make([]application.Course, 0, len(models))
	for _, model := range models {
		course, err := toApplicationCourse(model)
		if err != nil {
			return nil, err
		}
		courses = append(courses, course)
	}
	return courses, nil
}

func (a *courseRepositoryAdapter) DeleteCourse(ctx context.Context, id string) error {
	return a.repo.DeleteCourse(ctx, id)
}

type enrollmentRepositoryAdapter struct {
	repo persistence.EnrollmentRepository
}

func newEnrollmentRepositoryAdapter(repo persistence.EnrollmentRepository) *enrollmentRepositoryAdapter {
	return &enrollmentRepositoryAdapter{repo: repo}
}

func (a *enrollmentRepositoryAdapter) CreateEnrollment(ctx context.Context, enrollment application.Enrollment) (application.Enrollment, error) {
	if err := a.repo.CreateEnrollment(ctx, toPersistenceEnrollment(enrollment)); err != nil {
		return application.Enrollment{}, err
	}
	return enrollment, nil
}

func (a *enrollmentRepositoryAdapter) GetActiveEnrollment(ctx context.Context, courseID, subjectID string) (application.Enrollment, error) {
	stored, err := a.repo.GetActiveEnrollment(ctx, courseID, subjectID)
	if err != nil {
		return application.Enrollment{}, err
	}
	return toApplicationEnrollment(stored), nil
}

func (a *enrollmentRepositoryAdapter) CancelEnrollment(ctx context.Context, id string, cancelledAt time.Time) error {
	return a.repo.CancelEnrollment(ctx, id, cancelledAt)
}

func toPersistenceCourse(course application.Course) persistence.Course {
	rule := course.Schedule
	return persistence.Course{
		ID:            course.ID,
		Title:         course.Title,
		Description:   course.Description,
		Timezone:      rule.Timezone,
		Periodicity:   rule.Periodicity.String(),
		StartDate:     rule.StartDate,
		EndDate:       rule.EndDate,
		StartTime:     rule.StartTime.String(),
		EndTime:       rule.EndTime.String(),
		Weekdays:      append([]time.Weekday(nil), rule.Weekdays...),
		WeekOfMonth:   rule.WeekOfMonth,
		Interval:      rule.Interval,
		ExcludeDates:  rule.ExcludeDates.Dates(),
		MaxAttendants: course.MaxAttendants,
		EnrolledCount: course.EnrolledCount,
		CreatedAt:     course.CreatedAt,
		UpdatedAt:     course.UpdatedAt,
	}
}

func toApplicationCourse(model persistence.Course) (application.Course, error) {
	periodicity, err := recurrence.ParsePeriodicity(model.Periodicity)
	if err != nil {
		return application.Course{}, err
	}
	startTime, err := recurrence.ParseTimeOfDay(model.StartTime)
	if err != nil {
		return application.Course{}, err
	}
	endTime, err := recurrence.ParseTimeOfDay(model.EndTime)
	if err != nil {
		return application.Course{}, err
	}

	rule := recurrence.Rule{
		StartDate:    model.StartDate,
		EndDate:      model.EndDate,
		StartTime:    startTime,
		EndTime:      endTime,
		Timezone:     model.Timezone,
		Periodicity:  periodicity,
		Weekdays:     append([]time.Weekday(nil), model.Weekdays...),
		WeekOfMonth:  model.WeekOfMonth,
		Interval:     model.Interval,
		ExcludeDates: recurrence.NewDateSet(model.ExcludeDates...),
	}

	return application.Course{
		ID:            model.ID,
		Title:         model.Title,
		Description:   model.Description,
		Schedule:      rule,
		MaxAttendants: model.MaxAttendants,
		EnrolledCount: model.EnrolledCount,
		CreatedAt:     model.CreatedAt,
		UpdatedAt:     model.UpdatedAt,
	}, nil
}

func toPersistenceEnrollment(enrollment application.Enrollment) persistence.Enrollment {
	return persistence.Enrollment{
		ID:          enrollment.ID,
		CourseID:    enrollment.CourseID,
		SubjectID:   enrollment.SubjectID,
		EnrolledAt:  enrollment.EnrolledAt,
		CancelledAt: cloneTime(enrollment.CancelledAt),
	}
}

func toApplicationEnrollment(model persistence.Enrollment) application.Enrollment {
	return application.Enrollment{
		ID:          model.ID,
		CourseID:    model.CourseID,
		SubjectID:   model.SubjectID,
		EnrolledAt:  model.EnrolledAt,
		CancelledAt: cloneTime(model.CancelledAt),
	}
}

func cloneTime(value *time.Time) *time.Time {
	if value == nil {
		return nil
	}
	clone := *value
	return &clone
}
