package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/example/course-scheduler/internal/recurrence"
)

func TestScheduleService_DescribeCourse(t *testing.T) {
	course := Course{
		ID:        "course-1",
		Title:     "Go for Gophers",
		Schedule:  testRule(),
		UpdatedAt: time.Date(2025, time.January, 2, 12, 0, 0, 0, time.UTC),
	}
	now := time.Date(2025, time.January, 10, 9, 0, 0, 0, time.UTC)
	svc := NewScheduleService(&courseReaderStub{course: course}, 3, testClock(now))

	summary, err := svc.DescribeCourse(context.Background(), "course-1")
	if err != nil {
		t.Fatalf("DescribeCourse returned %v", err)
	}

	if summary.DurationHours != 2 {
		t.Fatalf("expected 2 hour sessions, got %v", summary.DurationHours)
	}
	if summary.Label.Periodicity != recurrence.PeriodicityWeekly {
		t.Fatalf("expected weekly label, got %v", summary.Label.Periodicity)
	}
	want := []string{"2025-01-15", "2025-01-22", "2025-01-29"}
	if len(summary.NextOccurrences) != len(want) {
		t.Fatalf("expected %d occurrences, got %d", len(want), len(summary.NextOccurrences))
	}
	for i, occ := range summary.NextOccurrences {
		if got := occ.Date.Format("2006-01-02"); got != want[i] {
			t.Fatalf("occurrence %d: expected %s, got %s", i, want[i], got)
		}
	}

	// A repeated query serves the cached summary.
	cached, err := svc.DescribeCourse(context.Background(), "course-1")
	if err != nil {
		t.Fatalf("DescribeCourse returned %v", err)
	}
	if len(cached.NextOccurrences) != len(summary.NextOccurrences) {
		t.Fatalf("cached summary differs: %+v vs %+v", cached, summary)
	}
}

func TestScheduleService_DescribeCourseNotFound(t *testing.T) {
	svc := NewScheduleService(&courseReaderStub{err: ErrNotFound}, 3, nil)
	if _, err := svc.DescribeCourse(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestScheduleService_ListOccurrences(t *testing.T) {
	course := Course{ID: "course-1", Schedule: testRule()}
	svc := NewScheduleService(&courseReaderStub{course: course}, 3, nil)

	t.Run("defaults to the course's own range", func(t *testing.T) {
		occurrences, err := svc.ListOccurrences(context.Background(), OccurrenceQuery{CourseID: "course-1"})
		if err != nil {
			t.Fatalf("ListOccurrences returned %v", err)
		}
		if len(occurrences) != 8 {
			t.Fatalf("expected 8 occurrences, got %d", len(occurrences))
		}
	})

	t.Run("narrows to the requested window", func(t *testing.T) {
		occurrences, err := svc.ListOccurrences(context.Background(), OccurrenceQuery{
			CourseID: "course-1",
			From:     time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC),
			Until:    time.Date(2025, time.February, 14, 0, 0, 0, 0, time.UTC),
		})
		if err != nil {
			t.Fatalf("ListOccurrences returned %v", err)
		}
		if len(occurrences) != 2 {
			t.Fatalf("expected 2 occurrences, got %d", len(occurrences))
		}
		if got := occurrences[0].Date.Format("2006-01-02"); got != "2025-02-05" {
			t.Fatalf("expected 2025-02-05 first, got %s", got)
		}
	})

	t.Run("honors the limit", func(t *testing.T) {
		occurrences, err := svc.ListOccurrences(context.Background(), OccurrenceQuery{CourseID: "course-1", Limit: 3})
		if err != nil {
			t.Fatalf("ListOccurrences returned %v", err)
		}
		if len(occurrences) != 3 {
			t.Fatalf("expected 3 occurrences, got %d", len(occurrences))
		}
	})
}
