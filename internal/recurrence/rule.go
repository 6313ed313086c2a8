package recurrence

import (
	"errors"
	"fmt"
	"time"
)

// Periodicity identifies the repetition pattern of a course's sessions.
type Periodicity int

const (
	// PeriodicityUnspecified indicates the rule periodicity is not set.
	PeriodicityUnspecified Periodicity = iota
	// PeriodicityOnce produces a single session on the start date.
	PeriodicityOnce
	// PeriodicityDaily produces a session on every day within the range.
	PeriodicityDaily
	// PeriodicityWeekly produces sessions on the selected weekdays every week.
	PeriodicityWeekly
	// PeriodicityBiweekly produces sessions on the selected weekdays every second week.
	PeriodicityBiweekly
	// PeriodicityMonthly repeats monthly, either on the same calendar day or
	// on the Nth selected weekday when WeekOfMonth is set.
	PeriodicityMonthly
	// PeriodicityCustom generalizes weekly repetition with an arbitrary
	// week interval.
	PeriodicityCustom
)

// String returns the canonical wire name of the periodicity.
func (p Periodicity) String() string {
	switch p {
	case PeriodicityOnce:
		return "once"
	case PeriodicityDaily:
		return "daily"
	case PeriodicityWeekly:
		return "weekly"
	case PeriodicityBiweekly:
		return "biweekly"
	case PeriodicityMonthly:
		return "monthly"
	case PeriodicityCustom:
		return "custom"
	default:
		return "unspecified"
	}
}

// ParsePeriodicity converts a wire name into a Periodicity.
func ParsePeriodicity(value string) (Periodicity, error) {
	switch value {
	case "once":
		return PeriodicityOnce, nil
	case "daily":
		return PeriodicityDaily, nil
	case "weekly":
		return PeriodicityWeekly, nil
	case "biweekly":
		return PeriodicityBiweekly, nil
	case "monthly":
		return PeriodicityMonthly, nil
	case "custom":
		return PeriodicityCustom, nil
	default:
		return PeriodicityUnspecified, fmt.Errorf("%w: %q", ErrUnknownPeriodicity, value)
	}
}

// WeekLast selects the final instance of a weekday within a month.
const WeekLast = -1

// TimeOfDay is a wall-clock time with minute precision. Sessions never need
// finer resolution and keeping it zone-free makes the value stable across
// DST transitions.
type TimeOfDay struct {
	Hour   int
	Minute int
}

// ParseTimeOfDay reads a "15:04" formatted wall-clock time.
func ParseTimeOfDay(value string) (TimeOfDay, error) {
	var t TimeOfDay
	if _, err := fmt.Sscanf(value, "%d:%d", &t.Hour, &t.Minute); err != nil {
		return TimeOfDay{}, fmt.Errorf("%w: %q", ErrInvalidTimeOfDay, value)
	}
	if t.Hour < 0 || t.Hour > 23 || t.Minute < 0 || t.Minute > 59 {
		return TimeOfDay{}, fmt.Errorf("%w: %q", ErrInvalidTimeOfDay, value)
	}
	return t, nil
}

// String renders the time in "15:04" form.
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// Minutes returns the offset from midnight in minutes.
func (t TimeOfDay) Minutes() int {
	return t.Hour*60 + t.Minute
}

// Before reports whether t is earlier in the day than other.
func (t TimeOfDay) Before(other TimeOfDay) bool {
	return t.Minutes() < other.Minutes()
}

const dateLayout = "2006-01-02"

// DateSet holds calendar dates for O(1) membership checks. Only the
// year/month/day of added values is significant.
type DateSet map[string]struct{}

// NewDateSet builds a set from the calendar dates of the given times.
func NewDateSet(dates ...time.Time) DateSet {
	set := make(DateSet, len(dates))
	for _, d := range dates {
		set.Add(d)
	}
	return set
}

// Add inserts the calendar date of t.
func (s DateSet) Add(t time.Time) {
	s[t.Format(dateLayout)] = struct{}{}
}

// Contains reports whether the calendar date of t is in the set.
func (s DateSet) Contains(t time.Time) bool {
	if len(s) == 0 {
		return false
	}
	_, ok := s[t.Format(dateLayout)]
	return ok
}

// Dates returns the member dates as UTC midnights in unspecified order.
func (s DateSet) Dates() []time.Time {
	dates := make([]time.Time, 0, len(s))
	for key := range s {
		if t, err := time.Parse(dateLayout, key); err == nil {
			dates = append(dates, t)
		}
	}
	return dates
}

// Rule describes when a course runs. It is treated as an immutable value;
// Validate must pass before the rule is handed to a Generator or persisted.
type Rule struct {
	StartDate    time.Time
	EndDate      time.Time
	StartTime    TimeOfDay
	EndTime      TimeOfDay
	Timezone     string
	Periodicity  Periodicity
	Weekdays     []time.Weekday
	WeekOfMonth  int
	Interval     int
	ExcludeDates DateSet
}

var (
	// ErrUnknownPeriodicity indicates the rule periodicity is not supported.
	ErrUnknownPeriodicity = errors.New("recurrence: unknown periodicity")
	// ErrInvalidTimeOfDay indicates a malformed wall-clock time.
	ErrInvalidTimeOfDay = errors.New("recurrence: invalid time of day")
	// ErrDateOrder indicates the start date falls after the end date.
	ErrDateOrder = errors.New("recurrence: start date must not be after end date")
	// ErrTimeOrder indicates the session end time does not follow its start time.
	ErrTimeOrder = errors.New("recurrence: end time must be after start time")
	// ErrMissingWeekdays indicates a weekday-driven periodicity without weekdays.
	ErrMissingWeekdays = errors.New("recurrence: at least one weekday is required")
	// ErrInvalidWeekday indicates a weekday outside Monday..Sunday.
	ErrInvalidWeekday = errors.New("recurrence: invalid weekday")
	// ErrInvalidInterval indicates a non-positive interval.
	ErrInvalidInterval = errors.New("recurrence: interval must be at least 1")
	// ErrInvalidWeekOfMonth indicates an ordinal outside 1..5 or WeekLast.
	ErrInvalidWeekOfMonth = errors.New("recurrence: week of month must be 1..5 or last")
	// ErrUnknownTimezone indicates the IANA zone could not be loaded.
	ErrUnknownTimezone = errors.New("recurrence: unknown timezone")
)

// Validate checks the rule invariants and reports every violation joined
// into a single error. Malformed rules are rejected here, never silently
// corrected.
func (r Rule) Validate() error {
	var errs []error

	switch r.Periodicity {
	case PeriodicityOnce, PeriodicityDaily, PeriodicityWeekly, PeriodicityBiweekly, PeriodicityMonthly, PeriodicityCustom:
	default:
		errs = append(errs, ErrUnknownPeriodicity)
	}

	if r.StartDate.IsZero() || r.EndDate.IsZero() {
		errs = append(errs, ErrDateOrder)
	} else if dateOf(r.StartDate).After(dateOf(r.EndDate)) {
		errs = append(errs, ErrDateOrder)
	}

	if !r.StartTime.Before(r.EndTime) {
		errs = append(errs, ErrTimeOrder)
	}

	if requiresWeekdays(r.Periodicity) && len(r.Weekdays) == 0 {
		errs = append(errs, ErrMissingWeekdays)
	}
	for _, day := range r.Weekdays {
		if day < time.Sunday || day > time.Saturday {
			errs = append(errs, ErrInvalidWeekday)
			break
		}
	}

	if r.Periodicity == PeriodicityCustom && r.Interval < 1 {
		errs = append(errs, ErrInvalidInterval)
	}

	if r.Periodicity == PeriodicityMonthly && r.WeekOfMonth != 0 {
		if r.WeekOfMonth != WeekLast && (r.WeekOfMonth < 1 || r.WeekOfMonth > 5) {
			errs = append(errs, ErrInvalidWeekOfMonth)
		}
		if len(r.Weekdays) == 0 {
			errs = append(errs, ErrMissingWeekdays)
		}
	}

	if _, err := r.Location(); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

// Location resolves the rule timezone. An empty timezone resolves to UTC so
// that date-only computations remain well defined.
func (r Rule) Location() (*time.Location, error) {
	if r.Timezone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(r.Timezone)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTimezone, r.Timezone)
	}
	return loc, nil
}

// EffectiveInterval returns the week step applied by weekday-driven
// periodicities: 1 for weekly, 2 for biweekly, Interval for custom.
func (r Rule) EffectiveInterval() int {
	switch r.Periodicity {
	case PeriodicityBiweekly:
		return 2
	case PeriodicityCustom:
		if r.Interval >= 1 {
			return r.Interval
		}
	}
	return 1
}

func requiresWeekdays(p Periodicity) bool {
	switch p {
	case PeriodicityWeekly, PeriodicityBiweekly, PeriodicityCustom:
		return true
	}
	return false
}

// dateOf strips the clock and zone from t, keeping the calendar date as a
// UTC midnight. Date arithmetic happens on these values so that DST shifts
// in the rule zone cannot skip or repeat a day.
func dateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
