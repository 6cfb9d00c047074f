// Package period computes household budget cycles anchored to a configurable
// start-of-month day, e.g. payday-aligned cycles running from the 25th of one
// month through the 24th of the next.
package period

import (
	"fmt"
	"time"
)

// dateLayout is the canonical string form used for persistence and queries.
const dateLayout = "2006-01-02"

// Period is one budget cycle. Start and End are inclusive calendar days;
// StartStr and EndStr carry the same dates as YYYY-MM-DD strings.
type Period struct {
	Start    time.Time
	End      time.Time
	StartStr string
	EndStr   string
}

// Current returns the budget period containing ref. With startDay 25 a
// reference of Jan 20 falls in the period Dec 25 - Jan 24, while Jan 26 falls
// in Jan 25 - Feb 24.
func Current(startDay int, ref time.Time) Period {
	return NAgo(startDay, 0, ref)
}

// NAgo returns the period n whole cycles before the one containing ref.
// NAgo(startDay, 0, ref) is identical to Current(startDay, ref): both apply
// the same "day-of-month before startDay belongs to the previous cycle"
// adjustment before walking back.
func NAgo(startDay, n int, ref time.Time) Period {
	startDay = clampStartDay(startDay)

	year, month := ref.Year(), ref.Month()
	if ref.Day() < startDay {
		month--
	}

	return build(year, month-time.Month(n), startDay)
}

// Recent returns count periods ending with the one containing ref, most
// recent first.
func Recent(startDay, count int, ref time.Time) []Period {
	periods := make([]Period, 0, count)
	for i := 0; i < count; i++ {
		periods = append(periods, NAgo(startDay, i, ref))
	}
	return periods
}

// build constructs the period starting on startDay of the given month.
// time.Date normalizes out-of-range months, so callers may pass month values
// below January or above December and year rollover happens here.
func build(year int, month time.Month, startDay int) Period {
	start := time.Date(year, month, startDay, 0, 0, 0, 0, time.UTC)

	// A start day beyond the month's length (day 31 of February) rolls into
	// the next month; clamp back to the month's final day.
	if start.Day() != startDay {
		start = lastDayOf(year, month)
	}

	// The period ends the day before startDay of the following month. Day
	// zero resolves to the last day of the prior month, which handles
	// startDay 1 (plain calendar months) directly.
	end := time.Date(year, month+1, startDay-1, 0, 0, 0, 0, time.UTC)

	// Short target months roll the end date forward (day 30 of February
	// lands in March); clamp to the last actual day of the intended month
	// rather than spilling into the one after.
	if startDay > 1 {
		intended := time.Date(year, month+1, 1, 0, 0, 0, 0, time.UTC)
		if end.Month() != intended.Month() || end.Year() != intended.Year() {
			end = lastDayOf(intended.Year(), intended.Month())
		}
	}

	return Period{
		Start:    start,
		End:      end,
		StartStr: start.Format(dateLayout),
		EndStr:   end.Format(dateLayout),
	}
}

func lastDayOf(year int, month time.Month) time.Time {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC)
}

func clampStartDay(startDay int) int {
	switch {
	case startDay < 1:
		return 1
	case startDay > 31:
		return 31
	}
	return startDay
}

// Label renders a human-readable form: "Jan 1-31, 2024" when both ends share
// a month, otherwise "Jan 25 - Feb 24, 2024".
func (p Period) Label() string {
	if p.Start.Month() == p.End.Month() && p.Start.Year() == p.End.Year() {
		return fmt.Sprintf("%s %d-%d, %d",
			p.Start.Format("Jan"), p.Start.Day(), p.End.Day(), p.End.Year())
	}
	return fmt.Sprintf("%s %d - %s %d, %d",
		p.Start.Format("Jan"), p.Start.Day(), p.End.Format("Jan"), p.End.Day(), p.End.Year())
}

// Contains reports whether the calendar day of t falls inside the period.
func (p Period) Contains(t time.Time) bool {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return !day.Before(p.Start) && !day.After(p.End)
}
