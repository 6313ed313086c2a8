// Package schedule renders recurrence rules into locale-agnostic summaries
// for the presentation layer. Labels are tagged values, never prose, so
// callers localize them.
package schedule

import (
	"sort"
	"time"

	"github.com/example/course-scheduler/internal/recurrence"
)

// DefaultUpcoming is the number of upcoming occurrences included in a
// summary when the describer is not configured otherwise.
const DefaultUpcoming = 6

// Label is the tagged periodicity descriptor. Interval is meaningful for
// custom rules, WeekOfMonth for monthly Nth-weekday rules.
type Label struct {
	Periodicity recurrence.Periodicity
	Interval    int
	WeekOfMonth int
}

// Summary is the structured description of a course's schedule.
type Summary struct {
	// DurationHours is the wall-clock session length, end time minus
	// start time.
	DurationHours float64
	Label         Label
	// Weekdays holds the rule's weekday set ordered Monday first.
	Weekdays []time.Weekday
	// NextOccurrences are the first K occurrences starting after "now".
	NextOccurrences []recurrence.Occurrence
}

// Describer builds summaries. It carries an injected clock so that the
// future-filtering of upcoming occurrences is deterministic under test.
type Describer struct {
	upcoming int
	now      func() time.Time
}

// NewDescriber constructs a Describer returning up to upcoming occurrences
// per summary. Non-positive values fall back to DefaultUpcoming; a nil
// clock falls back to time.Now.
func NewDescriber(upcoming int, now func() time.Time) *Describer {
	if upcoming <= 0 {
		upcoming = DefaultUpcoming
	}
	if now == nil {
		now = time.Now
	}
	return &Describer{upcoming: upcoming, now: now}
}

// Describe summarizes the rule. It has no side effects; the only inputs are
// the rule and the describer's clock.
func (d *Describer) Describe(rule recurrence.Rule) (Summary, error) {
	summary := Summary{
		DurationHours: float64(rule.EndTime.Minutes()-rule.StartTime.Minutes()) / 60,
		Label: Label{
			Periodicity: rule.Periodicity,
			Interval:    rule.EffectiveInterval(),
			WeekOfMonth: rule.WeekOfMonth,
		},
		Weekdays: orderWeekdays(rule.Weekdays),
	}

	next, err := d.upcomingOccurrences(rule)
	if err != nil {
		return Summary{}, err
	}
	summary.NextOccurrences = next

	return summary, nil
}

func (d *Describer) upcomingOccurrences(rule recurrence.Rule) ([]recurrence.Occurrence, error) {
	now := d.now()

	// Start the window a day early: today's occurrence may still lie in
	// the future when its start time has not passed yet.
	gen, err := recurrence.NewGenerator(rule, now.AddDate(0, 0, -1), rule.EndDate)
	if err != nil {
		return nil, err
	}

	upcoming := make([]recurrence.Occurrence, 0, d.upcoming)
	for len(upcoming) < d.upcoming {
		occ, ok := gen.Next()
		if !ok {
			break
		}
		if !occ.Start.After(now) {
			continue
		}
		upcoming = append(upcoming, occ)
	}
	return upcoming, nil
}

// orderWeekdays sorts a weekday set Monday first, matching the order the
// wire format (0=Monday..6=Sunday) implies.
func orderWeekdays(days []time.Weekday) []time.Weekday {
	ordered := make([]time.Weekday, len(days))
	copy(ordered, days)
	sort.Slice(ordered, func(i, j int) bool {
		return mondayIndex(ordered[i]) < mondayIndex(ordered[j])
	})
	return ordered
}

func mondayIndex(day time.Weekday) int {
	return (int(day) + 6) % 7
}
