package http

import (
	"sort"
	"time"

	"github.com/example/course-scheduler/internal/application"
	"github.com/example/course-scheduler/internal/recurrence"
	"github.com/example/course-scheduler/internal/schedule"
)

const wireDateLayout = "2006-01-02"

// Weekdays cross the wire as 0=Monday..6=Sunday; internally the services
// use time.Weekday (0=Sunday). These two helpers own the conversion.

func weekdayFromIndex(index int) (time.Weekday, bool) {
	if index < 0 || index > 6 {
		return 0, false
	}
	return time.Weekday((index + 1) % 7), true
}

func indexFromWeekday(day time.Weekday) int {
	return (int(day) + 6) % 7
}

type courseRequest struct {
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	Timezone      string   `json:"timezone"`
	Periodicity   string   `json:"periodicity"`
	StartDate     string   `json:"start_date"`
	EndDate       string   `json:"end_date"`
	StartTime     string   `json:"start_time"`
	EndTime       string   `json:"end_time"`
	Weekdays      []int    `json:"weekdays"`
	WeekOfMonth   int      `json:"week_of_month"`
	Interval      int      `json:"interval"`
	ExcludeDates  []string `json:"exclude_dates"`
	MaxAttendants int      `json:"max_attendants"`
}

// toInput converts the wire shape into a service input, reporting parse
// failures as field errors so malformed values render like any other
// validation issue.
func (req courseRequest) toInput() (application.CourseInput, error) {
	fieldErrors := make(map[string]string)

	rule := recurrence.Rule{
		Timezone:     req.Timezone,
		WeekOfMonth:  req.WeekOfMonth,
		Interval:     req.Interval,
		ExcludeDates: recurrence.NewDateSet(),
	}

	periodicity, err := recurrence.ParsePeriodicity(req.Periodicity)
	if err != nil {
		fieldErrors["periodicity"] = "unknown periodicity"
	}
	rule.Periodicity = periodicity

	if rule.StartDate, err = time.Parse(wireDateLayout, req.StartDate); err != nil {
		fieldErrors["start_date"] = "must be a YYYY-MM-DD date"
	}
	if rule.EndDate, err = time.Parse(wireDateLayout, req.EndDate); err != nil {
		fieldErrors["end_date"] = "must be a YYYY-MM-DD date"
	}
	if rule.StartTime, err = recurrence.ParseTimeOfDay(req.StartTime); err != nil {
		fieldErrors["start_time"] = "must be a HH:MM time"
	}
	if rule.EndTime, err = recurrence.ParseTimeOfDay(req.EndTime); err != nil {
		fieldErrors["end_time"] = "must be a HH:MM time"
	}

	for _, index := range req.Weekdays {
		day, ok := weekdayFromIndex(index)
		if !ok {
			fieldErrors["weekdays"] = "weekday indices must be 0 (Monday) through 6 (Sunday)"
			continue
		}
		rule.Weekdays = append(rule.Weekdays, day)
	}

	for _, value := range req.ExcludeDates {
		date, err := time.Parse(wireDateLayout, value)
		if err != nil {
			fieldErrors["exclude_dates"] = "entries must be YYYY-MM-DD dates"
			continue
		}
		rule.ExcludeDates.Add(date)
	}

	if len(fieldErrors) > 0 {
		return application.CourseInput{}, &application.ValidationError{FieldErrors: fieldErrors}
	}

	return application.CourseInput{
		Title:         req.Title,
		Description:   req.Description,
		Schedule:      rule,
		MaxAttendants: req.MaxAttendants,
	}, nil
}

type courseResponse struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	Description   string   `json:"description,omitempty"`
	Timezone      string   `json:"timezone"`
	Periodicity   string   `json:"periodicity"`
	StartDate     string   `json:"start_date"`
	EndDate       string   `json:"end_date"`
	StartTime     string   `json:"start_time"`
	EndTime       string   `json:"end_time"`
	Weekdays      []int    `json:"weekdays,omitempty"`
	WeekOfMonth   int      `json:"week_of_month,omitempty"`
	Interval      int      `json:"interval,omitempty"`
	ExcludeDates  []string `json:"exclude_dates,omitempty"`
	MaxAttendants int      `json:"max_attendants"`
	EnrolledCount int      `json:"enrolled_count"`
	CreatedAt     string   `json:"created_at"`
	UpdatedAt     string   `json:"updated_at"`
}

func toCourseResponse(course application.Course) courseResponse {
	rule := course.Schedule

	weekdays := make([]int, 0, len(rule.Weekdays))
	for _, day := range rule.Weekdays {
		weekdays = append(weekdays, indexFromWeekday(day))
	}

	excludes := make([]string, 0, len(rule.ExcludeDates))
	for _, date := range rule.ExcludeDates.Dates() {
		excludes = append(excludes, date.Format(wireDateLayout))
	}
	sort.Strings(excludes)

	return courseResponse{
		ID:            course.ID,
		Title:         course.Title,
		Description:   course.Description,
		Timezone:      rule.Timezone,
		Periodicity:   rule.Periodicity.String(),
		StartDate:     rule.StartDate.Format(wireDateLayout),
		EndDate:       rule.EndDate.Format(wireDateLayout),
		StartTime:     rule.StartTime.String(),
		EndTime:       rule.EndTime.String(),
		Weekdays:      weekdays,
		WeekOfMonth:   rule.WeekOfMonth,
		Interval:      rule.Interval,
		ExcludeDates:  excludes,
		MaxAttendants: course.MaxAttendants,
		EnrolledCount: course.EnrolledCount,
		CreatedAt:     course.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:     course.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

type occurrenceResponse struct {
	Date  string `json:"date"`
	Start string `json:"start"`
	End   string `json:"end"`
}

func toOccurrenceResponses(occurrences []recurrence.Occurrence) []occurrenceResponse {
	out := make([]occurrenceResponse, 0, len(occurrences))
	for _, occ := range occurrences {
		out = append(out, occurrenceResponse{
			Date:  occ.Date.Format(wireDateLayout),
			Start: occ.Start.Format(time.RFC3339),
			End:   occ.End.Format(time.RFC3339),
		})
	}
	return out
}

type scheduleLabelResponse struct {
	Periodicity string `json:"periodicity"`
	Interval    int    `json:"interval,omitempty"`
	WeekOfMonth int    `json:"week_of_month,omitempty"`
}

type scheduleResponse struct {
	DurationHours   float64               `json:"duration_hours"`
	Label           scheduleLabelResponse `json:"label"`
	Weekdays        []int                 `json:"weekdays,omitempty"`
	NextOccurrences []occurrenceResponse  `json:"next_occurrences"`
}

func toScheduleResponse(summary schedule.Summary) scheduleResponse {
	weekdays := make([]int, 0, len(summary.Weekdays))
	for _, day := range summary.Weekdays {
		weekdays = append(weekdays, indexFromWeekday(day))
	}

	return scheduleResponse{
		DurationHours: summary.DurationHours,
		Label: scheduleLabelResponse{
			Periodicity: summary.Label.Periodicity.String(),
			Interval:    summary.Label.Interval,
			WeekOfMonth: summary.Label.WeekOfMonth,
		},
		Weekdays:        weekdays,
		NextOccurrences: toOccurrenceResponses(summary.NextOccurrences),
	}
}

type capacityResponse struct {
	EnrolledCount int `json:"enrolled_count"`
	MaxAttendants int `json:"max_attendants"`
}

type enrollmentRequest struct {
	SubjectID string `json:"subject_id"`
}

type enrollmentResponse struct {
	ID         string `json:"id"`
	CourseID   string `json:"course_id"`
	SubjectID  string `json:"subject_id"`
	EnrolledAt string `json:"enrolled_at"`
	State      string `json:"state"`
}

type cancelResponse struct {
	State           string `json:"state"`
	AlreadyInactive bool   `json:"already_inactive,omitempty"`
}
