package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/course-scheduler/internal/persistence"
)

// EnrollmentRepository implements persistence.EnrollmentRepository on SQLite.
type EnrollmentRepository struct {
	pool *ConnectionPool
}

// NewEnrollmentRepository creates a SQLite-backed enrollment repository.
func NewEnrollmentRepository(pool *ConnectionPool) *EnrollmentRepository {
	return &EnrollmentRepository{pool: pool}
}

// CreateEnrollment inserts an active enrollment. The partial unique index
// on (course_id, subject_id) rejects a second active enrollment for the
// same pair, surfacing as persistence.ErrDuplicate.
func (r *EnrollmentRepository) CreateEnrollment(ctx context.Context, enrollment persistence.Enrollment) error {
	query := `INSERT INTO enrollments (id, course_id, subject_id, enrolled_at, cancelled_at)
		VALUES (?, ?, ?, ?, NULL)`

	_, err := r.pool.db.ExecContext(ctx, query,
		enrollment.ID,
		enrollment.CourseID,
		enrollment.SubjectID,
		enrollment.EnrolledAt.UTC().Format(timestampLayout),
	)
	return mapError(err)
}

// GetActiveEnrollment returns the uncancelled enrollment for the pair.
func (r *EnrollmentRepository) GetActiveEnrollment(ctx context.Context, courseID, subjectID string) (persistence.Enrollment, error) {
	row := r.pool.db.QueryRowContext(ctx,
		`SELECT id, course_id, subject_id, enrolled_at, cancelled_at
			FROM enrollments
			WHERE course_id = ? AND subject_id = ? AND cancelled_at IS NULL`,
		courseID, subjectID)
	return scanEnrollment(row)
}

// ListEnrollmentsForCourse returns all enrollments for a course, active
// first, ordered by enrollment time.
func (r *EnrollmentRepository) ListEnrollmentsForCourse(ctx context.Context, courseID string) ([]persistence.Enrollment, error) {
	rows, err := r.pool.db.QueryContext(ctx,
		`SELECT id, course_id, subject_id, enrolled_at, cancelled_at
			FROM enrollments
			WHERE course_id = ?
			ORDER BY cancelled_at IS NOT NULL, enrolled_at, id`,
		courseID)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	enrollments := make([]persistence.Enrollment, 0)
	for rows.Next() {
		enrollment, err := scanEnrollment(rows)
		if err != nil {
			return nil, err
		}
		enrollments = append(enrollments, enrollment)
	}
	return enrollments, rows.Err()
}

// CancelEnrollment marks an enrollment as cancelled. Cancelling an already
// cancelled enrollment reports ErrNotFound so callers can treat it as an
// idempotent no-op.
func (r *EnrollmentRepository) CancelEnrollment(ctx context.Context, id string, cancelledAt time.Time) error {
	result, err := r.pool.db.ExecContext(ctx,
		`UPDATE enrollments SET cancelled_at = ? WHERE id = ? AND cancelled_at IS NULL`,
		cancelledAt.UTC().Format(timestampLayout), id)
	if err != nil {
		return mapError(err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return persistence.ErrNotFound
	}
	return nil
}

func scanEnrollment(row rowScanner) (persistence.Enrollment, error) {
	var (
		enrollment  persistence.Enrollment
		enrolledAt  string
		cancelledAt sql.NullString
	)

	err := row.Scan(
		&enrollment.ID,
		&enrollment.CourseID,
		&enrollment.SubjectID,
		&enrolledAt,
		&cancelledAt,
	)
	if err != nil {
		return persistence.Enrollment{}, mapError(err)
	}

	if enrollment.EnrolledAt, err = time.Parse(timestampLayout, enrolledAt); err != nil {
		return persistence.Enrollment{}, fmt.Errorf("sqlite: parse enrolled_at: %w", err)
	}
	if cancelledAt.Valid {
		parsed, err := time.Parse(timestampLayout, cancelledAt.String)
		if err != nil {
			return persistence.Enrollment{}, fmt.Errorf("sqlite: parse cancelled_at: %w", err)
		}
		enrollment.CancelledAt = &parsed
	}

	return enrollment, nil
}
