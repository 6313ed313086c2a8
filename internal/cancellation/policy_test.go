package cancellation

import (
	"testing"
	"time"
)

func TestDecide(t *testing.T) {
	courseStart := time.Date(2025, time.March, 10, 9, 0, 0, 0, time.UTC)
	courseEnd := time.Date(2025, time.March, 10, 17, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		now     time.Time
		allowed bool
		reason  Reason
	}{
		{
			name:    "well before the window",
			now:     time.Date(2025, time.March, 8, 10, 0, 0, 0, time.UTC),
			allowed: true,
		},
		{
			name:   "inside the 24h window",
			now:    time.Date(2025, time.March, 9, 10, 0, 0, 0, time.UTC),
			reason: ReasonWithinWindow,
		},
		{
			name:   "exactly at the window boundary",
			now:    courseStart.Add(-DefaultWindow),
			reason: ReasonWithinWindow,
		},
		{
			name:   "exactly at course start",
			now:    courseStart,
			reason: ReasonCourseStarted,
		},
		{
			name:   "after the course started",
			now:    time.Date(2025, time.March, 10, 9, 1, 0, 0, time.UTC),
			reason: ReasonCourseStarted,
		},
		{
			name:   "after the course ended",
			now:    courseEnd.Add(time.Minute),
			reason: ReasonCourseEnded,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decision := Decide(tt.now, courseStart, courseEnd, 0)
			if decision.Allowed != tt.allowed {
				t.Fatalf("expected allowed=%v, got %+v", tt.allowed, decision)
			}
			if decision.Reason != tt.reason {
				t.Fatalf("expected reason %q, got %q", tt.reason, decision.Reason)
			}
		})
	}
}

func TestDecideWithCustomWindow(t *testing.T) {
	courseStart := time.Date(2025, time.March, 10, 9, 0, 0, 0, time.UTC)

	// With a 48h window, 30h before the start is already too late.
	decision := Decide(courseStart.Add(-30*time.Hour), courseStart, time.Time{}, 48*time.Hour)
	if decision.Allowed || decision.Reason != ReasonWithinWindow {
		t.Fatalf("expected within window, got %+v", decision)
	}

	decision = Decide(courseStart.Add(-72*time.Hour), courseStart, time.Time{}, 48*time.Hour)
	if !decision.Allowed {
		t.Fatalf("expected allowed, got %+v", decision)
	}
}

func TestDecideSkipsEndedRuleWithoutEnd(t *testing.T) {
	courseStart := time.Date(2025, time.March, 10, 9, 0, 0, 0, time.UTC)

	decision := Decide(courseStart.Add(time.Hour), courseStart, time.Time{}, 0)
	if decision.Reason != ReasonCourseStarted {
		t.Fatalf("expected course started, got %+v", decision)
	}
}
