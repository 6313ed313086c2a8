package sqlite

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/example/course-scheduler/internal/persistence"
)

const (
	dateLayout      = "2006-01-02"
	timestampLayout = time.RFC3339Nano
)

// CourseRepository implements persistence.CourseRepository on SQLite.
type CourseRepository struct {
	pool *ConnectionPool
}

// NewCourseRepository creates a SQLite-backed course repository.
func NewCourseRepository(pool *ConnectionPool) *CourseRepository {
	return &CourseRepository{pool: pool}
}

const courseColumns = `id, title, description, timezone, periodicity,
	start_date, end_date, start_time, end_time, weekdays, week_of_month,
	interval, exclude_dates, max_attendants, enrolled_count, created_at, updated_at`

// CreateCourse inserts a new course row.
func (r *CourseRepository) CreateCourse(ctx context.Context, course persistence.Course) error {
	query := `INSERT INTO courses (` + courseColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.pool.db.ExecContext(ctx, query,
		course.ID,
		course.Title,
		course.Description,
		course.Timezone,
		course.Periodicity,
		course.StartDate.Format(dateLayout),
		course.EndDate.Format(dateLayout),
		course.StartTime,
		course.EndTime,
		encodeWeekdays(course.Weekdays),
		course.WeekOfMonth,
		course.Interval,
		encodeDates(course.ExcludeDates),
		course.MaxAttendants,
		course.EnrolledCount,
		course.CreatedAt.UTC().Format(timestampLayout),
		course.UpdatedAt.UTC().Format(timestampLayout),
	)
	return mapError(err)
}

// UpdateCourse rewrites the schedule fields of an existing course. The
// enrolled count is deliberately not touched here; it only moves through
// the CapacityStore.
func (r *CourseRepository) UpdateCourse(ctx context.Context, course persistence.Course) error {
	query := `UPDATE courses SET
			title = ?, description = ?, timezone = ?, periodicity = ?,
			start_date = ?, end_date = ?, start_time = ?, end_time = ?,
			weekdays = ?, week_of_month = ?, interval = ?, exclude_dates = ?,
			max_attendants = ?, updated_at = ?
		WHERE id = ?`

	result, err := r.pool.db.ExecContext(ctx, query,
		course.Title,
		course.Description,
		course.Timezone,
		course.Periodicity,
		course.StartDate.Format(dateLayout),
		course.EndDate.Format(dateLayout),
		course.StartTime,
		course.EndTime,
		encodeWeekdays(course.Weekdays),
		course.WeekOfMonth,
		course.Interval,
		encodeDates(course.ExcludeDates),
		course.MaxAttendants,
		course.UpdatedAt.UTC().Format(timestampLayout),
		course.ID,
	)
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

// GetCourse retrieves a course by ID.
func (r *CourseRepository) GetCourse(ctx context.Context, id string) (persistence.Course, error) {
	row := r.pool.db.QueryRowContext(ctx,
		`SELECT `+courseColumns+` FROM courses WHERE id = ?`, id)
	return scanCourse(row)
}

// ListCourses returns all courses ordered by start date, then ID.
func (r *CourseRepository) ListCourses(ctx context.Context) ([]persistence.Course, error) {
	rows, err := r.pool.db.QueryContext(ctx,
		`SELECT `+courseColumns+` FROM courses ORDER BY start_date, id`)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	courses := make([]persistence.Course, 0)
	for rows.Next() {
		course, err := scanCourse(rows)
		if err != nil {
			return nil, err
		}
		courses = append(courses, course)
	}
	return courses, rows.Err()
}

// DeleteCourse removes a course; enrollments cascade.
func (r *CourseRepository) DeleteCourse(ctx context.Context, id string) error {
	result, err := r.pool.db.ExecContext(ctx, `DELETE FROM courses WHERE id = ?`, id)
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

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCourse(row rowScanner) (persistence.Course, error) {
	var (
		course               persistence.Course
		startDate, endDate   string
		weekdays, excludes   string
		createdAt, updatedAt string
	)

	err := row.Scan(
		&course.ID,
		&course.Title,
		&course.Description,
		&course.Timezone,
		&course.Periodicity,
		&startDate,
		&endDate,
		&course.StartTime,
		&course.EndTime,
		&weekdays,
		&course.WeekOfMonth,
		&course.Interval,
		&excludes,
		&course.MaxAttendants,
		&course.EnrolledCount,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return persistence.Course{}, mapError(err)
	}

	if course.StartDate, err = time.Parse(dateLayout, startDate); err != nil {
		return persistence.Course{}, fmt.Errorf("sqlite: parse start_date: %w", err)
	}
	if course.EndDate, err = time.Parse(dateLayout, endDate); err != nil {
		return persistence.Course{}, fmt.Errorf("sqlite: parse end_date: %w", err)
	}
	if course.CreatedAt, err = time.Parse(timestampLayout, createdAt); err != nil {
		return persistence.Course{}, fmt.Errorf("sqlite: parse created_at: %w", err)
	}
	if course.UpdatedAt, err = time.Parse(timestampLayout, updatedAt); err != nil {
		return persistence.Course{}, fmt.Errorf("sqlite: parse updated_at: %w", err)
	}
	if course.Weekdays, err = decodeWeekdays(weekdays); err != nil {
		return persistence.Course{}, err
	}
	if course.ExcludeDates, err = decodeDates(excludes); err != nil {
		return persistence.Course{}, err
	}

	return course, nil
}

func encodeWeekdays(days []time.Weekday) string {
	if len(days) == 0 {
		return ""
	}
	parts := make([]string, len(days))
	for i, day := range days {
		parts[i] = strconv.Itoa(int(day))
	}
	return strings.Join(parts, ",")
}

func decodeWeekdays(encoded string) ([]time.Weekday, error) {
	if encoded == "" {
		return nil, nil
	}
	parts := strings.Split(encoded, ",")
	days := make([]time.Weekday, 0, len(parts))
	for _, part := range parts {
		value, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("sqlite: parse weekdays %q: %w", encoded, err)
		}
		days = append(days, time.Weekday(value))
	}
	return days, nil
}

func encodeDates(dates []time.Time) string {
	if len(dates) == 0 {
		return ""
	}
	parts := make([]string, len(dates))
	for i, date := range dates {
		parts[i] = date.Format(dateLayout)
	}
	return strings.Join(parts, ",")
}

func decodeDates(encoded string) ([]time.Time, error) {
	if encoded == "" {
		return nil, nil
	}
	parts := strings.Split(encoded, ",")
	dates := make([]time.Time, 0, len(parts))
	for _, part := range parts {
		date, err := time.Parse(dateLayout, part)
		if err != nil {
			return nil, fmt.Errorf("sqlite: parse exclude_dates %q: %w", encoded, err)
		}
		dates = append(dates, date)
	}
	return dates, nil
}
