// Package capacity tracks enrolled counts against per-course limits. All
// mutation of a course's counter goes through a Tracker, which serializes
// concurrent reservations for the same course.
package capacity

import (
	"context"
	"errors"
)

var (
	// ErrFull is returned when a course has no free slots. Reservations
	// fail fast; they never wait for a slot to free up.
	ErrFull = errors.New("capacity: course is full")
	// ErrUnknownCourse is returned when no counter exists for the course.
	ErrUnknownCourse = errors.New("capacity: unknown course")
)

// Snapshot is a read-only view of a course's capacity.
type Snapshot struct {
	EnrolledCount int
	MaxAttendants int
}

// Remaining returns the number of free slots.
func (s Snapshot) Remaining() int {
	return s.MaxAttendants - s.EnrolledCount
}

// Tracker maintains the invariant 0 <= enrolledCount <= maxAttendants for
// every course. TryReserve and Release for the same course must be
// serialized by the implementation; counters of different courses are
// independent.
type Tracker interface {
	// TryReserve atomically claims one slot, returning ErrFull when the
	// course is at capacity. No two concurrent callers may both succeed
	// for the last remaining slot.
	TryReserve(ctx context.Context, courseID string) error
	// Release frees one slot, flooring the count at zero. The caller is
	// responsible for releasing at most once per successful reservation;
	// the tracker holds an aggregate count, not individual holders.
	Release(ctx context.Context, courseID string) error
	// Capacity reports the current counter state.
	Capacity(ctx context.Context, courseID string) (Snapshot, error)
}
