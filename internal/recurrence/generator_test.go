package recurrence

import (
	"testing"
	"time"
)

func mustGenerate(t *testing.T, rule Rule, windowStart, windowEnd time.Time) []Occurrence {
	t.Helper()
	occurrences, err := Generate(rule, windowStart, windowEnd)
	if err != nil {
		t.Fatalf("Generate returned %v", err)
	}
	return occurrences
}

func dates(occurrences []Occurrence) []string {
	out := make([]string, 0, len(occurrences))
	for _, occ := range occurrences {
		out = append(out, occ.Date.Format("2006-01-02"))
	}
	return out
}

func assertDates(t *testing.T, occurrences []Occurrence, want ...string) {
	t.Helper()
	got := dates(occurrences)
	if len(got) != len(want) {
		t.Fatalf("expected %d occurrences %v, got %d %v", len(want), want, len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("occurrence %d: expected %s, got %s (full: %v)", i, want[i], got[i], got)
		}
	}
}

func TestGeneratorOnce(t *testing.T) {
	rule := validWeeklyRule()
	rule.Periodicity = PeriodicityOnce
	rule.Weekdays = nil
	rule.StartDate = time.Date(2025, time.May, 1, 0, 0, 0, 0, time.UTC)
	rule.EndDate = rule.StartDate

	occurrences := mustGenerate(t, rule, time.Time{}, time.Time{})
	assertDates(t, occurrences, "2025-05-01")

	occ := occurrences[0]
	if occ.Start.Hour() != 10 || occ.End.Hour() != 12 {
		t.Fatalf("expected 10:00-12:00 session, got %v-%v", occ.Start, occ.End)
	}
}

func TestGeneratorDaily(t *testing.T) {
	rule := validWeeklyRule()
	rule.Periodicity = PeriodicityDaily
	rule.Weekdays = nil
	rule.EndDate = time.Date(2025, time.January, 10, 0, 0, 0, 0, time.UTC)

	occurrences := mustGenerate(t, rule, time.Time{}, time.Time{})
	assertDates(t, occurrences,
		"2025-01-06", "2025-01-07", "2025-01-08", "2025-01-09", "2025-01-10")
}

func TestGeneratorWeekly(t *testing.T) {
	occurrences := mustGenerate(t, validWeeklyRule(), time.Time{}, time.Time{})
	assertDates(t, occurrences,
		"2025-01-08", "2025-01-15", "2025-01-22", "2025-01-29",
		"2025-02-05", "2025-02-12", "2025-02-19", "2025-02-26")

	for _, occ := range occurrences {
		if occ.Date.Weekday() != time.Wednesday {
			t.Fatalf("expected only Wednesdays, got %v", occ.Date)
		}
	}
}

func TestGeneratorWeeklyMultipleWeekdays(t *testing.T) {
	rule := validWeeklyRule()
	rule.Weekdays = []time.Weekday{time.Friday, time.Monday}
	rule.EndDate = time.Date(2025, time.January, 19, 0, 0, 0, 0, time.UTC)

	// Within each week the days come out in chronological order regardless
	// of the order they were configured in.
	occurrences := mustGenerate(t, rule, time.Time{}, time.Time{})
	assertDates(t, occurrences,
		"2025-01-06", "2025-01-10", "2025-01-13", "2025-01-17")
}

func TestGeneratorExcludeDates(t *testing.T) {
	rule := validWeeklyRule()
	rule.ExcludeDates = NewDateSet(time.Date(2025, time.January, 15, 0, 0, 0, 0, time.UTC))

	occurrences := mustGenerate(t, rule, time.Time{}, time.Time{})
	assertDates(t, occurrences,
		"2025-01-08", "2025-01-22", "2025-01-29",
		"2025-02-05", "2025-02-12", "2025-02-19", "2025-02-26")
}

func TestGeneratorBiweekly(t *testing.T) {
	rule := validWeeklyRule()
	rule.Periodicity = PeriodicityBiweekly
	rule.Weekdays = []time.Weekday{time.Monday}
	rule.EndDate = time.Date(2025, time.February, 16, 0, 0, 0, 0, time.UTC)

	occurrences := mustGenerate(t, rule, time.Time{}, time.Time{})
	assertDates(t, occurrences, "2025-01-06", "2025-01-20", "2025-02-03")
}

func TestGeneratorBiweeklyWindowKeepsAnchorParity(t *testing.T) {
	rule := validWeeklyRule()
	rule.Periodicity = PeriodicityBiweekly
	rule.Weekdays = []time.Weekday{time.Monday}

	// The window opens during an off week; the next session must stay on the
	// cadence anchored at the rule start date, not restart at the window.
	occurrences := mustGenerate(t, rule,
		time.Date(2025, time.January, 21, 0, 0, 0, 0, time.UTC), time.Time{})
	assertDates(t, occurrences, "2025-02-03", "2025-02-17")
}

func TestGeneratorCustomInterval(t *testing.T) {
	rule := validWeeklyRule()
	rule.Periodicity = PeriodicityCustom
	rule.Interval = 3
	rule.Weekdays = []time.Weekday{time.Monday}

	occurrences := mustGenerate(t, rule, time.Time{}, time.Time{})
	assertDates(t, occurrences, "2025-01-06", "2025-01-27", "2025-02-17")
}

func TestGeneratorMonthlySameDay(t *testing.T) {
	rule := validWeeklyRule()
	rule.Periodicity = PeriodicityMonthly
	rule.Weekdays = nil
	rule.StartDate = time.Date(2025, time.January, 31, 0, 0, 0, 0, time.UTC)
	rule.EndDate = time.Date(2025, time.April, 30, 0, 0, 0, 0, time.UTC)

	// Months shorter than the start day clamp to their final day.
	occurrences := mustGenerate(t, rule, time.Time{}, time.Time{})
	assertDates(t, occurrences, "2025-01-31", "2025-02-28", "2025-03-31", "2025-04-30")
}

func TestGeneratorMonthlyNthWeekday(t *testing.T) {
	rule := validWeeklyRule()
	rule.Periodicity = PeriodicityMonthly
	rule.Weekdays = []time.Weekday{time.Tuesday}
	rule.WeekOfMonth = 2
	rule.StartDate = time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	rule.EndDate = time.Date(2025, time.March, 31, 0, 0, 0, 0, time.UTC)

	occurrences := mustGenerate(t, rule, time.Time{}, time.Time{})
	assertDates(t, occurrences, "2025-01-14", "2025-02-11", "2025-03-11")
}

func TestGeneratorMonthlyLastWeekday(t *testing.T) {
	rule := validWeeklyRule()
	rule.Periodicity = PeriodicityMonthly
	rule.Weekdays = []time.Weekday{time.Friday}
	rule.WeekOfMonth = WeekLast
	rule.StartDate = time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	rule.EndDate = time.Date(2025, time.March, 31, 0, 0, 0, 0, time.UTC)

	occurrences := mustGenerate(t, rule, time.Time{}, time.Time{})
	assertDates(t, occurrences, "2025-01-31", "2025-02-28", "2025-03-28")
}

func TestGeneratorMonthlyFifthWeekdaySkipsShortMonths(t *testing.T) {
	rule := validWeeklyRule()
	rule.Periodicity = PeriodicityMonthly
	rule.Weekdays = []time.Weekday{time.Friday}
	rule.WeekOfMonth = 5
	rule.StartDate = time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	rule.EndDate = time.Date(2025, time.June, 30, 0, 0, 0, 0, time.UTC)

	// Only January (Jan 31) and May (May 30) of 2025 contain five Fridays.
	occurrences := mustGenerate(t, rule, time.Time{}, time.Time{})
	assertDates(t, occurrences, "2025-01-31", "2025-05-30")
}

func TestGeneratorEmptyForInvertedRange(t *testing.T) {
	rule := validWeeklyRule()
	rule.StartDate, rule.EndDate = rule.EndDate, rule.StartDate

	occurrences := mustGenerate(t, rule, time.Time{}, time.Time{})
	if len(occurrences) != 0 {
		t.Fatalf("expected no occurrences, got %v", dates(occurrences))
	}
}

func TestGeneratorIsRestartable(t *testing.T) {
	rule := validWeeklyRule()

	first := mustGenerate(t, rule, time.Time{}, time.Time{})
	second := mustGenerate(t, rule, time.Time{}, time.Time{})

	if len(first) != len(second) {
		t.Fatalf("runs differ in length: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if !first[i].Start.Equal(second[i].Start) || !first[i].End.Equal(second[i].End) {
			t.Fatalf("occurrence %d differs between runs: %v vs %v", i, first[i], second[i])
		}
	}
}

func TestGeneratorTake(t *testing.T) {
	gen, err := NewGenerator(validWeeklyRule(), time.Time{}, time.Time{})
	if err != nil {
		t.Fatalf("NewGenerator returned %v", err)
	}

	head := gen.Take(3)
	assertDates(t, head, "2025-01-08", "2025-01-15", "2025-01-22")

	// The cursor advances; the next call continues where Take stopped.
	next, ok := gen.Next()
	if !ok {
		t.Fatal("expected more occurrences")
	}
	if got := next.Date.Format("2006-01-02"); got != "2025-01-29" {
		t.Fatalf("expected 2025-01-29, got %s", got)
	}

	if got := gen.Take(0); got != nil {
		t.Fatalf("Take(0) should return nil, got %v", got)
	}
}

func TestGeneratorSessionsKeepWallClockAcrossDST(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}

	rule := validWeeklyRule()
	rule.Periodicity = PeriodicityDaily
	rule.Weekdays = nil
	rule.Timezone = "America/New_York"
	rule.StartDate = time.Date(2025, time.March, 8, 0, 0, 0, 0, time.UTC)
	rule.EndDate = time.Date(2025, time.March, 9, 0, 0, 0, 0, time.UTC)

	occurrences := mustGenerate(t, rule, time.Time{}, time.Time{})
	if len(occurrences) != 2 {
		t.Fatalf("expected 2 occurrences, got %d", len(occurrences))
	}

	for _, occ := range occurrences {
		if got := occ.Start.In(loc).Hour(); got != 10 {
			t.Fatalf("expected sessions to start at 10:00 local, got %d:00 on %v", got, occ.Date)
		}
		if d := occ.End.Sub(occ.Start); d != 2*time.Hour {
			t.Fatalf("expected 2h session, got %v", d)
		}
	}

	// Spring forward: the instant gap between consecutive 10:00 starts
	// shrinks to 23 hours while the wall clock stays put.
	if gap := occurrences[1].Start.Sub(occurrences[0].Start); gap != 23*time.Hour {
		t.Fatalf("expected 23h between starts across the transition, got %v", gap)
	}
}
