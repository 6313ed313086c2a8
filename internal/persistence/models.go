package persistence

import "time"

// Course is a stored course together with its recurrence configuration and
// capacity counter. Weekdays use Go's time.Weekday; the SQLite layer owns
// the wire encoding.
type Course struct {
	ID            string
	Title         string
	Description   string
	Timezone      string
	Periodicity   string
	StartDate     time.Time
	EndDate       time.Time
	StartTime     string
	EndTime       string
	Weekdays      []time.Weekday
	WeekOfMonth   int
	Interval      int
	ExcludeDates  []time.Time
	MaxAttendants int
	EnrolledCount int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Enrollment links a subject to a course. CancelledAt is nil while the
// enrollment is active; cancelled rows are kept for auditing.
type Enrollment struct {
	ID          string
	CourseID    string
	SubjectID   string
	EnrolledAt  time.Time
	CancelledAt *time.Time
}
