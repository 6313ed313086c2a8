package testfixtures

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/example/course-scheduler/internal/persistence/sqlite"
)

// SQLiteHarness provides repository access backed by a temporary SQLite
// database for integration-style persistence tests.
type SQLiteHarness struct {
	Pool        *sqlite.ConnectionPool
	Courses     *sqlite.CourseRepository
	Enrollments *sqlite.EnrollmentRepository
	Capacity    *sqlite.CapacityStore

	cleanup func()
}

// Close releases resources associated with the harness.
func (h *SQLiteHarness) Close() {
	if h != nil && h.cleanup != nil {
		h.cleanup()
		h.cleanup = nil
	}
}

// NewSQLiteHarness constructs a SQLiteHarness using a temporary file that is
// migrated automatically. A cleanup callback is registered with the provided
// testing.TB so callers do not have to invoke Close themselves.
func NewSQLiteHarness(tb testing.TB) *SQLiteHarness {
	tb.Helper()

	path := filepath.Join(tb.TempDir(), "courses.db")

	pool, err := sqlite.Open(path)
	if err != nil {
		tb.Fatalf("failed to open storage: %v", err)
	}

	if err := pool.Migrate(context.Background()); err != nil {
		_ = pool.Close()
		tb.Fatalf("failed to migrate storage: %v", err)
	}

	harness := &SQLiteHarness{
		Pool:        pool,
		Courses:     sqlite.NewCourseRepository(pool),
		Enrollments: sqlite.NewEnrollmentRepository(pool),
		Capacity:    sqlite.NewCapacityStore(pool),
		cleanup: func() {
			_ = pool.Close()
		},
	}

	tb.Cleanup(harness.Close)
	return harness
}
