package period

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestCurrent(t *testing.T) {
	tests := []struct {
		name      string
		ref       time.Time
		wantStart string
		wantEnd   string
		startDay  int
	}{
		{
			name:      "before start day falls in previous cycle",
			startDay:  25,
			ref:       date(2024, time.January, 20),
			wantStart: "2023-12-25",
			wantEnd:   "2024-01-24",
		},
		{
			name:      "after start day falls in current cycle",
			startDay:  25,
			ref:       date(2024, time.January, 26),
			wantStart: "2024-01-25",
			wantEnd:   "2024-02-24",
		},
		{
			name:      "on start day falls in current cycle",
			startDay:  25,
			ref:       date(2024, time.January, 25),
			wantStart: "2024-01-25",
			wantEnd:   "2024-02-24",
		},
		{
			name:      "start day 1 is the calendar month",
			startDay:  1,
			ref:       date(2024, time.June, 15),
			wantStart: "2024-06-01",
			wantEnd:   "2024-06-30",
		},
		{
			name:      "end clamps to leap February",
			startDay:  31,
			ref:       date(2024, time.January, 31),
			wantStart: "2024-01-31",
			wantEnd:   "2024-02-29",
		},
		{
			name:      "end clamps to non-leap February",
			startDay:  31,
			ref:       date(2023, time.January, 31),
			wantStart: "2023-01-31",
			wantEnd:   "2023-02-28",
		},
		{
			name:      "end clamps in thirty day month",
			startDay:  31,
			ref:       date(2024, time.March, 31),
			wantStart: "2024-03-31",
			wantEnd:   "2024-04-30",
		},
		{
			name:      "year boundary",
			startDay:  15,
			ref:       date(2024, time.January, 3),
			wantStart: "2023-12-15",
			wantEnd:   "2024-01-14",
		},
		{
			name:      "start day zero treated as one",
			startDay:  0,
			ref:       date(2024, time.June, 15),
			wantStart: "2024-06-01",
			wantEnd:   "2024-06-30",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Current(tt.startDay, tt.ref)
			assert.Equal(t, tt.wantStart, p.StartStr)
			assert.Equal(t, tt.wantEnd, p.EndStr)
			assert.True(t, p.Contains(tt.ref), "period should contain its reference date")
		})
	}
}

func TestNAgo(t *testing.T) {
	ref := date(2024, time.March, 10) // before the 25th, so current cycle began Feb 25

	tests := []struct {
		wantStart string
		wantEnd   string
		n         int
	}{
		{n: 0, wantStart: "2024-02-25", wantEnd: "2024-03-24"},
		{n: 1, wantStart: "2024-01-25", wantEnd: "2024-02-24"},
		{n: 2, wantStart: "2023-12-25", wantEnd: "2024-01-24"},
		{n: 14, wantStart: "2022-12-25", wantEnd: "2023-01-24"},
	}

	for _, tt := range tests {
		p := NAgo(25, tt.n, ref)
		assert.Equal(t, tt.wantStart, p.StartStr, "n=%d", tt.n)
		assert.Equal(t, tt.wantEnd, p.EndStr, "n=%d", tt.n)
	}
}

func TestNAgo_ZeroMatchesCurrent(t *testing.T) {
	// Both functions apply the same before-start-day adjustment, so walking
	// back zero periods always lands on the current one.
	for _, ref := range []time.Time{
		date(2024, time.January, 20),
		date(2024, time.January, 25),
		date(2024, time.January, 26),
		date(2024, time.December, 31),
	} {
		assert.Equal(t, Current(25, ref), NAgo(25, 0, ref), "ref=%s", ref.Format("2006-01-02"))
	}
}

func TestNAgo_StartClampsInShortMonth(t *testing.T) {
	// Walking back from March 31 with startDay 31 lands the previous cycle
	// in February; its start clamps to the month's final day.
	p := NAgo(31, 1, date(2024, time.March, 31))
	assert.Equal(t, "2024-02-29", p.StartStr)
	assert.Equal(t, "2024-03-30", p.EndStr)
}

func TestRecent(t *testing.T) {
	ref := date(2024, time.March, 26)
	periods := Recent(25, 3, ref)

	assert.Len(t, periods, 3)
	assert.Equal(t, "2024-03-25", periods[0].StartStr)
	assert.Equal(t, "2024-02-25", periods[1].StartStr)
	assert.Equal(t, "2024-01-25", periods[2].StartStr)

	// Most recent first, contiguous coverage.
	for i := 1; i < len(periods); i++ {
		gap := periods[i-1].Start.Sub(periods[i].End.AddDate(0, 0, 1))
		assert.Zero(t, gap, "periods must be contiguous")
	}
}

func TestLabel(t *testing.T) {
	tests := []struct {
		name string
		p    Period
		want string
	}{
		{
			name: "same month",
			p:    Current(1, date(2024, time.January, 10)),
			want: "Jan 1-31, 2024",
		},
		{
			name: "cross month",
			p:    Current(25, date(2024, time.January, 26)),
			want: "Jan 25 - Feb 24, 2024",
		},
		{
			name: "cross year",
			p:    Current(25, date(2024, time.January, 20)),
			want: "Dec 25 - Jan 24, 2024",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.p.Label())
		})
	}
}
