package recurrence

import (
	"sort"
	"time"
)

// Occurrence is a single generated course session. Occurrences are derived
// views: computed on demand, never persisted.
type Occurrence struct {
	// Date is the session's calendar date as a UTC midnight.
	Date time.Time
	// Start and End are zone-aware instants in the rule's timezone.
	Start time.Time
	End   time.Time
}

// Generator lazily expands a rule into occurrences inside a window. It is a
// restartable cursor: construct a new Generator to replay the sequence, or
// keep calling Next to advance. The sequence is a pure function of the rule
// and window, so two generators over the same inputs yield identical runs.
type Generator struct {
	rule     Rule
	loc      *time.Location
	lower    time.Time
	upper    time.Time
	weekdays map[time.Weekday]struct{}

	cursor  time.Time
	pending []time.Time
	emitted bool
	done    bool
}

// NewGenerator builds a cursor over the rule's occurrences intersected with
// [windowStart, windowEnd]. Zero window bounds default to the rule's own
// date range, which keeps the sequence finite. A rule whose start date falls
// after its end date produces an empty sequence rather than an error.
func NewGenerator(rule Rule, windowStart, windowEnd time.Time) (*Generator, error) {
	loc, err := rule.Location()
	if err != nil {
		return nil, err
	}

	lower := dateOf(rule.StartDate)
	if !windowStart.IsZero() && dateOf(windowStart).After(lower) {
		lower = dateOf(windowStart)
	}
	upper := dateOf(rule.EndDate)
	if !windowEnd.IsZero() && dateOf(windowEnd).Before(upper) {
		upper = dateOf(windowEnd)
	}

	g := &Generator{
		rule:     rule,
		loc:      loc,
		lower:    lower,
		upper:    upper,
		weekdays: weekdaySet(rule.Weekdays),
	}

	if lower.After(upper) {
		g.done = true
		return g, nil
	}

	switch rule.Periodicity {
	case PeriodicityDaily:
		g.cursor = lower
	case PeriodicityWeekly, PeriodicityBiweekly, PeriodicityCustom:
		g.cursor = alignedWeek(dateOf(rule.StartDate), lower, rule.EffectiveInterval())
	case PeriodicityMonthly:
		g.cursor = firstOfMonth(lower)
	case PeriodicityOnce:
		// Emitted from refill exactly once.
	default:
		g.done = true
	}

	return g, nil
}

// Next returns the next occurrence in chronological order. The second
// result is false once the sequence is exhausted.
func (g *Generator) Next() (Occurrence, bool) {
	for {
		if g.done && len(g.pending) == 0 {
			return Occurrence{}, false
		}
		if len(g.pending) == 0 {
			g.refill()
			continue
		}

		date := g.pending[0]
		g.pending = g.pending[1:]
		if !g.accept(date) {
			continue
		}
		return g.occurrenceOn(date), true
	}
}

// Take returns up to n occurrences, advancing the cursor.
func (g *Generator) Take(n int) []Occurrence {
	if n <= 0 {
		return nil
	}
	occurrences := make([]Occurrence, 0, n)
	for len(occurrences) < n {
		occ, ok := g.Next()
		if !ok {
			break
		}
		occurrences = append(occurrences, occ)
	}
	return occurrences
}

// Generate drains a fresh generator over the window into a slice.
func Generate(rule Rule, windowStart, windowEnd time.Time) ([]Occurrence, error) {
	g, err := NewGenerator(rule, windowStart, windowEnd)
	if err != nil {
		return nil, err
	}
	occurrences := make([]Occurrence, 0)
	for {
		occ, ok := g.Next()
		if !ok {
			return occurrences, nil
		}
		occurrences = append(occurrences, occ)
	}
}

// refill stages the next batch of candidate dates for the active
// periodicity. Candidates may fall outside the window or on excluded dates;
// the shared accept filter drops those, so exclusion semantics cannot drift
// between branches.
func (g *Generator) refill() {
	switch g.rule.Periodicity {
	case PeriodicityOnce:
		if g.emitted {
			g.done = true
			return
		}
		g.emitted = true
		g.pending = append(g.pending, dateOf(g.rule.StartDate))

	case PeriodicityDaily:
		if g.cursor.After(g.upper) {
			g.done = true
			return
		}
		g.pending = append(g.pending, g.cursor)
		g.cursor = g.cursor.AddDate(0, 0, 1)

	case PeriodicityWeekly, PeriodicityBiweekly, PeriodicityCustom:
		if g.cursor.After(g.upper) {
			g.done = true
			return
		}
		for offset := 0; offset < 7; offset++ {
			day := g.cursor.AddDate(0, 0, offset)
			if _, ok := g.weekdays[day.Weekday()]; ok {
				g.pending = append(g.pending, day)
			}
		}
		g.cursor = g.cursor.AddDate(0, 0, 7*g.rule.EffectiveInterval())

	case PeriodicityMonthly:
		if g.cursor.After(g.upper) {
			g.done = true
			return
		}
		g.pending = append(g.pending, g.monthDates(g.cursor)...)
		g.cursor = g.cursor.AddDate(0, 1, 0)

	default:
		g.done = true
	}
}

// monthDates resolves the candidate dates within the month starting at
// monthStart. With WeekOfMonth set the rule means "the Nth (or last)
// instance of each selected weekday"; months lacking an Nth instance are
// skipped. Otherwise the rule repeats on the start date's day-of-month,
// clamped to the final day of shorter months.
func (g *Generator) monthDates(monthStart time.Time) []time.Time {
	year, month, _ := monthStart.Date()
	lastDay := daysInMonth(year, month)

	if g.rule.WeekOfMonth != 0 {
		dates := make([]time.Time, 0, len(g.rule.Weekdays))
		for _, weekday := range g.rule.Weekdays {
			day := nthWeekday(year, month, weekday, g.rule.WeekOfMonth)
			if day == 0 {
				continue
			}
			dates = append(dates, time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
		}
		sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
		return dates
	}

	day := g.rule.StartDate.Day()
	if day > lastDay {
		day = lastDay
	}
	return []time.Time{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

func (g *Generator) accept(date time.Time) bool {
	if date.Before(g.lower) || date.After(g.upper) {
		return false
	}
	return !g.rule.ExcludeDates.Contains(date)
}

func (g *Generator) occurrenceOn(date time.Time) Occurrence {
	year, month, day := date.Date()
	return Occurrence{
		Date:  date,
		Start: time.Date(year, month, day, g.rule.StartTime.Hour, g.rule.StartTime.Minute, 0, 0, g.loc),
		End:   time.Date(year, month, day, g.rule.EndTime.Hour, g.rule.EndTime.Minute, 0, 0, g.loc),
	}
}

func weekdaySet(days []time.Weekday) map[time.Weekday]struct{} {
	set := make(map[time.Weekday]struct{}, len(days))
	for _, day := range days {
		set[day] = struct{}{}
	}
	return set
}

// startOfWeek returns the Monday beginning the week containing date.
func startOfWeek(date time.Time) time.Time {
	offset := (int(date.Weekday()) + 6) % 7
	return date.AddDate(0, 0, -offset)
}

// alignedWeek finds the first week at or after lower whose distance from the
// anchor week is a multiple of interval weeks.
func alignedWeek(anchorDate, lower time.Time, interval int) time.Time {
	if interval < 1 {
		interval = 1
	}
	anchor := startOfWeek(anchorDate)
	target := startOfWeek(lower)

	weeks := int(target.Sub(anchor).Hours() / (24 * 7))
	if weeks <= 0 {
		return anchor
	}
	if rem := weeks % interval; rem != 0 {
		weeks += interval - rem
	}
	return anchor.AddDate(0, 0, weeks*7)
}

func firstOfMonth(date time.Time) time.Time {
	year, month, _ := date.Date()
	return time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
}

func daysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// nthWeekday returns the day-of-month of the nth instance of weekday in the
// given month, 0 when the month has no such instance. n may be WeekLast.
func nthWeekday(year int, month time.Month, weekday time.Weekday, n int) int {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	offset := (int(weekday) - int(first.Weekday()) + 7) % 7
	last := daysInMonth(year, month)

	if n == WeekLast {
		day := 1 + offset
		for day+7 <= last {
			day += 7
		}
		return day
	}

	day := 1 + offset + (n-1)*7
	if day > last {
		return 0
	}
	return day
}
