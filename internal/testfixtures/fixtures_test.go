package testfixtures

import (
	"testing"
	"time"
)

func TestClock(t *testing.T) {
	clock := NewClock(time.Time{})
	if !clock.Now().Equal(ReferenceTime()) {
		t.Fatalf("expected ReferenceTime, got %v", clock.Now())
	}

	nowFn := clock.NowFunc()
	updated := clock.Advance(90 * time.Minute)
	if !nowFn().Equal(updated) {
		t.Fatalf("expected NowFunc to track the clock, got %v", nowFn())
	}

	target := time.Date(2025, time.June, 1, 8, 0, 0, 0, time.UTC)
	clock.Set(target)
	if !clock.Now().Equal(target) {
		t.Fatalf("expected %v, got %v", target, clock.Now())
	}
}

func TestIDGeneratorSequence(t *testing.T) {
	gen := NewIDGenerator("course")
	if got := gen.Next(); got != "course-1" {
		t.Fatalf("expected course-1, got %q", got)
	}
	if got := gen.Next(); got != "course-2" {
		t.Fatalf("expected course-2, got %q", got)
	}

	fn := NewIDGenerator("").NextFunc()
	if got := fn(); got != "id-1" {
		t.Fatalf("expected id-1, got %q", got)
	}
}

func TestRuleFixturesAreValid(t *testing.T) {
	if err := WeeklyRule(time.Monday, time.Friday).Validate(); err != nil {
		t.Fatalf("weekly fixture invalid: %v", err)
	}
	if err := OnceRule(time.Date(2025, time.May, 1, 0, 0, 0, 0, time.UTC)).Validate(); err != nil {
		t.Fatalf("once fixture invalid: %v", err)
	}
}

func TestCourseFixtureOptions(t *testing.T) {
	course := NewCourseFixture(
		WithCourseID("course-override"),
		WithMaxAttendants(1),
		WithEnrolledCount(1),
	)

	if course.ID != "course-override" {
		t.Fatalf("expected overridden ID, got %q", course.ID)
	}
	if course.MaxAttendants != 1 || course.EnrolledCount != 1 {
		t.Fatalf("expected overridden capacity, got %+v", course)
	}
	if err := course.Schedule.Validate(); err != nil {
		t.Fatalf("fixture schedule invalid: %v", err)
	}

	other := NewCourseFixture()
	if other.ID == course.ID {
		t.Fatal("expected distinct IDs across fixtures")
	}
}

func TestEnrollmentFixtureLinksPair(t *testing.T) {
	enrollment := NewEnrollmentFixture("course-1", "subject-1")
	if enrollment.CourseID != "course-1" || enrollment.SubjectID != "subject-1" {
		t.Fatalf("unexpected enrollment %+v", enrollment)
	}
	if enrollment.CancelledAt != nil {
		t.Fatal("fixtures start active")
	}
}
