package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/example/course-scheduler/internal/persistence"
	"github.com/example/course-scheduler/internal/recurrence"
)

func testRule() recurrence.Rule {
	return recurrence.Rule{
		StartDate:    time.Date(2025, time.January, 6, 0, 0, 0, 0, time.UTC),
		EndDate:      time.Date(2025, time.March, 2, 0, 0, 0, 0, time.UTC),
		StartTime:    recurrence.TimeOfDay{Hour: 10, Minute: 0},
		EndTime:      recurrence.TimeOfDay{Hour: 12, Minute: 0},
		Timezone:     "UTC",
		Periodicity:  recurrence.PeriodicityWeekly,
		Weekdays:     []time.Weekday{time.Wednesday},
		ExcludeDates: recurrence.NewDateSet(),
	}
}

func testClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

type courseRepoStub struct {
	createErr error
	created   Course

	getCourse Course
	getErr    error

	updateErr error
	updated   Course

	deleteErr error
	deletedID string

	list    []Course
	listErr error
}

func (r *courseRepoStub) CreateCourse(ctx context.Context, course Course) (Course, error) {
	if r.createErr != nil {
		return Course{}, r.createErr
	}
	r.created = course
	return course, nil
}

func (r *courseRepoStub) GetCourse(ctx context.Context, id string) (Course, error) {
	if r.getErr != nil {
		return Course{}, r.getErr
	}
	if r.getCourse.ID == "" {
		return Course{}, persistence.ErrNotFound
	}
	return r.getCourse, nil
}

func (r *courseRepoStub) UpdateCourse(ctx context.Context, course Course) (Course, error) {
	if r.updateErr != nil {
		return Course{}, r.updateErr
	}
	r.updated = course
	return course, nil
}

func (r *courseRepoStub) ListCourses(ctx context.Context) ([]Course, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	return append([]Course(nil), r.list...), nil
}

func (r *courseRepoStub) DeleteCourse(ctx context.Context, id string) error {
	if r.deleteErr != nil {
		return r.deleteErr
	}
	r.deletedID = id
	return nil
}

func TestCourseService_CreateCourse(t *testing.T) {
	t.Run("validates required attributes", func(t *testing.T) {
		svc := NewCourseService(&courseRepoStub{}, nil, nil)

		rule := testRule()
		rule.StartTime = recurrence.TimeOfDay{Hour: 12, Minute: 0}
		rule.EndTime = recurrence.TimeOfDay{Hour: 10, Minute: 0}

		_, err := svc.CreateCourse(context.Background(), CourseInput{
			Title:         "   ",
			Schedule:      rule,
			MaxAttendants: 0,
		})

		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
		for _, field := range []string{"title", "max_attendants", "end_time"} {
			if _, ok := vErr.FieldErrors[field]; !ok {
				t.Fatalf("expected %s validation error, got %v", field, vErr.FieldErrors)
			}
		}
	})

	t.Run("reports schedule rule violations by field", func(t *testing.T) {
		svc := NewCourseService(&courseRepoStub{}, nil, nil)

		rule := testRule()
		rule.Periodicity = recurrence.PeriodicityCustom
		rule.Interval = 0
		rule.Weekdays = nil

		_, err := svc.CreateCourse(context.Background(), CourseInput{
			Title:         "Go for Gophers",
			Schedule:      rule,
			MaxAttendants: 10,
		})

		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
		for _, field := range []string{"interval", "weekdays"} {
			if _, ok := vErr.FieldErrors[field]; !ok {
				t.Fatalf("expected %s validation error, got %v", field, vErr.FieldErrors)
			}
		}
	})

	t.Run("persists a valid course with generated identity", func(t *testing.T) {
		repo := &courseRepoStub{}
		now := time.Date(2025, time.January, 2, 12, 0, 0, 0, time.UTC)
		svc := NewCourseService(repo, func() string { return "course-1" }, testClock(now))

		created, err := svc.CreateCourse(context.Background(), CourseInput{
			Title:         "  Go for Gophers  ",
			Description:   "An introduction",
			Schedule:      testRule(),
			MaxAttendants: 12,
		})
		if err != nil {
			t.Fatalf("CreateCourse returned %v", err)
		}

		if created.ID != "course-1" {
			t.Fatalf("expected generated ID, got %q", created.ID)
		}
		if created.Title != "Go for Gophers" {
			t.Fatalf("expected trimmed title, got %q", created.Title)
		}
		if !created.CreatedAt.Equal(now) || !created.UpdatedAt.Equal(now) {
			t.Fatalf("expected timestamps %v, got %v / %v", now, created.CreatedAt, created.UpdatedAt)
		}
		if repo.created.ID != "course-1" {
			t.Fatalf("expected course persisted, got %+v", repo.created)
		}
	})

	t.Run("maps duplicate rows to ErrAlreadyExists", func(t *testing.T) {
		repo := &courseRepoStub{createErr: persistence.ErrDuplicate}
		svc := NewCourseService(repo, func() string { return "course-1" }, nil)

		_, err := svc.CreateCourse(context.Background(), CourseInput{
			Title:         "Go for Gophers",
			Schedule:      testRule(),
			MaxAttendants: 12,
		})
		if !errors.Is(err, ErrAlreadyExists) {
			t.Fatalf("expected ErrAlreadyExists, got %v", err)
		}
	})
}

func TestCourseService_GetCourse(t *testing.T) {
	t.Run("maps missing rows to ErrNotFound", func(t *testing.T) {
		svc := NewCourseService(&courseRepoStub{}, nil, nil)
		if _, err := svc.GetCourse(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("returns the stored course", func(t *testing.T) {
		stored := Course{ID: "course-1", Title: "Go for Gophers", Schedule: testRule(), MaxAttendants: 12}
		svc := NewCourseService(&courseRepoStub{getCourse: stored}, nil, nil)

		course, err := svc.GetCourse(context.Background(), "course-1")
		if err != nil {
			t.Fatalf("GetCourse returned %v", err)
		}
		if course.ID != "course-1" || course.Title != "Go for Gophers" {
			t.Fatalf("unexpected course %+v", course)
		}
	})
}

func TestCourseService_UpdateCourse(t *testing.T) {
	stored := Course{
		ID:            "course-1",
		Title:         "Go for Gophers",
		Schedule:      testRule(),
		MaxAttendants: 12,
		EnrolledCount: 5,
		CreatedAt:     time.Date(2025, time.January, 2, 12, 0, 0, 0, time.UTC),
	}

	t.Run("rejects a limit below the enrolled count", func(t *testing.T) {
		svc := NewCourseService(&courseRepoStub{getCourse: stored}, nil, nil)

		_, err := svc.UpdateCourse(context.Background(), "course-1", CourseInput{
			Title:         "Go for Gophers",
			Schedule:      testRule(),
			MaxAttendants: 3,
		})

		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
		if _, ok := vErr.FieldErrors["max_attendants"]; !ok {
			t.Fatalf("expected max_attendants error, got %v", vErr.FieldErrors)
		}
	})

	t.Run("rewrites schedule and limit", func(t *testing.T) {
		repo := &courseRepoStub{getCourse: stored}
		now := time.Date(2025, time.January, 3, 9, 0, 0, 0, time.UTC)
		svc := NewCourseService(repo, nil, testClock(now))

		newRule := testRule()
		newRule.Weekdays = []time.Weekday{time.Friday}

		updated, err := svc.UpdateCourse(context.Background(), "course-1", CourseInput{
			Title:         "Advanced Go",
			Schedule:      newRule,
			MaxAttendants: 20,
		})
		if err != nil {
			t.Fatalf("UpdateCourse returned %v", err)
		}

		if updated.Title != "Advanced Go" || updated.MaxAttendants != 20 {
			t.Fatalf("unexpected update %+v", updated)
		}
		if updated.EnrolledCount != 5 {
			t.Fatalf("enrolled count must survive updates, got %d", updated.EnrolledCount)
		}
		if !updated.UpdatedAt.Equal(now) {
			t.Fatalf("expected UpdatedAt %v, got %v", now, updated.UpdatedAt)
		}
		if !updated.CreatedAt.Equal(stored.CreatedAt) {
			t.Fatalf("CreatedAt must not change, got %v", updated.CreatedAt)
		}
	})

	t.Run("maps missing rows to ErrNotFound", func(t *testing.T) {
		svc := NewCourseService(&courseRepoStub{}, nil, nil)
		_, err := svc.UpdateCourse(context.Background(), "missing", CourseInput{
			Title:         "Advanced Go",
			Schedule:      testRule(),
			MaxAttendants: 20,
		})
		if !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestCourseService_DeleteCourse(t *testing.T) {
	repo := &courseRepoStub{}
	svc := NewCourseService(repo, nil, nil)

	if err := svc.DeleteCourse(context.Background(), "course-1"); err != nil {
		t.Fatalf("DeleteCourse returned %v", err)
	}
	if repo.deletedID != "course-1" {
		t.Fatalf("expected delete of course-1, got %q", repo.deletedID)
	}

	repo.deleteErr = persistence.ErrNotFound
	if err := svc.DeleteCourse(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
