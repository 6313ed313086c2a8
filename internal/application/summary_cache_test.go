package application

import (
	"fmt"
	"testing"
	"time"

	"github.com/example/course-scheduler/internal/schedule"
)

func TestSummaryCacheExpiry(t *testing.T) {
	current := time.Date(2025, time.January, 2, 12, 0, 0, 0, time.UTC)
	cache := newSummaryCache(30*time.Second, 4, func() time.Time { return current })

	cache.Store("key", schedule.Summary{DurationHours: 2})

	if _, ok := cache.Get("key"); !ok {
		t.Fatal("expected a fresh entry to be served")
	}

	current = current.Add(31 * time.Second)
	if _, ok := cache.Get("key"); ok {
		t.Fatal("expected the entry to expire")
	}
}

func TestSummaryCacheEviction(t *testing.T) {
	cache := newSummaryCache(time.Minute, 2, nil)

	for i := 0; i < 3; i++ {
		cache.Store(fmt.Sprintf("key-%d", i), schedule.Summary{})
	}

	if len(cache.entries) > 2 {
		t.Fatalf("expected at most 2 entries, got %d", len(cache.entries))
	}
}

func TestSummaryCacheKeyChangesOnUpdate(t *testing.T) {
	course := Course{ID: "course-1", UpdatedAt: time.Date(2025, time.January, 2, 12, 0, 0, 0, time.UTC)}
	before := summaryCacheKey(course)

	course.UpdatedAt = course.UpdatedAt.Add(time.Second)
	after := summaryCacheKey(course)

	if before == after {
		t.Fatal("expected the cache key to change when the course is updated")
	}
}
