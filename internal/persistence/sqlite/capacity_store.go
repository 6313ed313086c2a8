package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/example/course-scheduler/internal/capacity"
)

// CapacityStore implements capacity.Tracker on the courses table. The
// read-then-increment race is resolved by the database: the conditional
// UPDATE only succeeds while a slot is free, and SQLite serializes the row
// write, so concurrent reservations for the last slot produce exactly one
// affected row.
type CapacityStore struct {
	pool *ConnectionPool
}

// NewCapacityStore creates a SQL-backed capacity tracker.
func NewCapacityStore(pool *ConnectionPool) *CapacityStore {
	return &CapacityStore{pool: pool}
}

// TryReserve implements capacity.Tracker.
func (s *CapacityStore) TryReserve(ctx context.Context, courseID string) error {
	return s.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx,
			`UPDATE courses SET enrolled_count = enrolled_count + 1
				WHERE id = ? AND enrolled_count < max_attendants`,
			courseID)
		if err != nil {
			return mapError(err)
		}

		affected, err := result.RowsAffected()
		if err != nil {
			return err
		}
		if affected == 1 {
			return nil
		}

		// No row moved: either the course is full or it does not exist.
		var exists int
		err = tx.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM courses WHERE id = ?`, courseID).Scan(&exists)
		if err != nil {
			return mapError(err)
		}
		if exists == 0 {
			return capacity.ErrUnknownCourse
		}
		return capacity.ErrFull
	})
}

// Release implements capacity.Tracker, flooring the count at zero.
func (s *CapacityStore) Release(ctx context.Context, courseID string) error {
	result, err := s.pool.db.ExecContext(ctx,
		`UPDATE courses SET enrolled_count = enrolled_count - 1
			WHERE id = ? AND enrolled_count > 0`,
		courseID)
	if err != nil {
		return mapError(err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 1 {
		return nil
	}

	var exists int
	err = s.pool.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM courses WHERE id = ?`, courseID).Scan(&exists)
	if err != nil {
		return mapError(err)
	}
	if exists == 0 {
		return capacity.ErrUnknownCourse
	}
	return nil
}

// Capacity implements capacity.Tracker.
func (s *CapacityStore) Capacity(ctx context.Context, courseID string) (capacity.Snapshot, error) {
	var snapshot capacity.Snapshot
	err := s.pool.db.QueryRowContext(ctx,
		`SELECT enrolled_count, max_attendants FROM courses WHERE id = ?`,
		courseID).Scan(&snapshot.EnrolledCount, &snapshot.MaxAttendants)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return capacity.Snapshot{}, capacity.ErrUnknownCourse
		}
		return capacity.Snapshot{}, mapError(err)
	}
	return snapshot, nil
}
