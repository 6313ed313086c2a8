package capacity

import (
	"context"
	"fmt"
	"sync"
)

// MemoryTracker is an in-process Tracker keyed by course ID. Each course
// owns its own mutex, so reservations for different courses never contend.
type MemoryTracker struct {
	mu       sync.RWMutex
	counters map[string]*counter
}

type counter struct {
	mu       sync.Mutex
	enrolled int
	max      int
}

// NewMemoryTracker returns an empty tracker.
func NewMemoryTracker() *MemoryTracker {
	return &MemoryTracker{counters: make(map[string]*counter)}
}

// Register creates the counter for a course. The starting enrolled count is
// clamped into [0, maxAttendants].
func (t *MemoryTracker) Register(courseID string, maxAttendants, enrolled int) error {
	if maxAttendants <= 0 {
		return fmt.Errorf("capacity: max attendants must be positive, got %d", maxAttendants)
	}
	if enrolled < 0 {
		enrolled = 0
	}
	if enrolled > maxAttendants {
		enrolled = maxAttendants
	}

	t.mu.Lock()
	t.counters[courseID] = &counter{enrolled: enrolled, max: maxAttendants}
	t.mu.Unlock()
	return nil
}

// Remove drops the counter for a course.
func (t *MemoryTracker) Remove(courseID string) {
	t.mu.Lock()
	delete(t.counters, courseID)
	t.mu.Unlock()
}

// TryReserve implements Tracker.
func (t *MemoryTracker) TryReserve(ctx context.Context, courseID string) error {
	c, err := t.counter(courseID)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.enrolled >= c.max {
		return ErrFull
	}
	c.enrolled++
	return nil
}

// Release implements Tracker.
func (t *MemoryTracker) Release(ctx context.Context, courseID string) error {
	c, err := t.counter(courseID)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.enrolled > 0 {
		c.enrolled--
	}
	return nil
}

// Capacity implements Tracker.
func (t *MemoryTracker) Capacity(ctx context.Context, courseID string) (Snapshot, error) {
	c, err := t.counter(courseID)
	if err != nil {
		return Snapshot{}, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	return Snapshot{EnrolledCount: c.enrolled, MaxAttendants: c.max}, nil
}

func (t *MemoryTracker) counter(courseID string) (*counter, error) {
	t.mu.RLock()
	c, ok := t.counters[courseID]
	t.mu.RUnlock()
	if !ok {
		return nil, ErrUnknownCourse
	}
	return c, nil
}
