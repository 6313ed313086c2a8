package sqlite

import (
	"context"
	"fmt"
)

// Migrate applies the schema. Statements are idempotent so the migration
// can run on every startup.
func (cp *ConnectionPool) Migrate(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS courses (
			id             TEXT PRIMARY KEY,
			title          TEXT NOT NULL,
			description    TEXT NOT NULL DEFAULT '',
			timezone       TEXT NOT NULL,
			periodicity    TEXT NOT NULL,
			start_date     TEXT NOT NULL,
			end_date       TEXT NOT NULL,
			start_time     TEXT NOT NULL,
			end_time       TEXT NOT NULL,
			weekdays       TEXT NOT NULL DEFAULT '',
			week_of_month  INTEGER NOT NULL DEFAULT 0,
			interval       INTEGER NOT NULL DEFAULT 1,
			exclude_dates  TEXT NOT NULL DEFAULT '',
			max_attendants INTEGER NOT NULL CHECK (max_attendants > 0),
			enrolled_count INTEGER NOT NULL DEFAULT 0
				CHECK (enrolled_count >= 0 AND enrolled_count <= max_attendants),
			created_at     TEXT NOT NULL,
			updated_at     TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS enrollments (
			id           TEXT PRIMARY KEY,
			course_id    TEXT NOT NULL REFERENCES courses(id) ON DELETE CASCADE,
			subject_id   TEXT NOT NULL,
			enrolled_at  TEXT NOT NULL,
			cancelled_at TEXT
		)`,
		// One active enrollment per (course, subject); cancelled rows stay
		// behind for auditing without blocking re-enrollment.
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_enrollments_active
			ON enrollments (course_id, subject_id)
			WHERE cancelled_at IS NULL`,
		`CREATE INDEX IF NOT EXISTS idx_enrollments_course
			ON enrollments (course_id)`,
	}

	for _, stmt := range statements {
		if _, err := cp.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("sqlite: migrate: %w", err)
		}
	}
	return nil
}
