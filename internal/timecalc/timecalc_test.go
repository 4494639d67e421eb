package timecalc_test

import (
	"testing"
	"time"

	"go-timeclock/internal/timecalc"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var day = time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

func at(hour, minute int) time.Time {
	return day.Add(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute)
}

func in(h, m int) timecalc.Entry  { return timecalc.Entry{Kind: timecalc.KindIn, At: at(h, m)} }
func out(h, m int) timecalc.Entry { return timecalc.Entry{Kind: timecalc.KindOut, At: at(h, m)} }

func TestSummarize(t *testing.T) {
	tests := []struct {
		name      string
		entries   []timecalc.Entry
		now       time.Time
		live      bool
		wantHours float64
		wantBreak float64
	}{
		{
			name:      "no punches",
			wantHours: 0,
			wantBreak: 0,
		},
		{
			name:      "two sessions with lunch",
			entries:   []timecalc.Entry{in(9, 0), out(12, 0), in(13, 0), out(17, 0)},
			wantHours: 7,
			wantBreak: 60,
		},
		{
			name:      "unordered input is sorted first",
			entries:   []timecalc.Entry{out(17, 0), in(13, 0), out(12, 0), in(9, 0)},
			wantHours: 7,
			wantBreak: 60,
		},
		{
			name:      "open session live",
			entries:   []timecalc.Entry{in(9, 0)},
			now:       at(11, 0),
			live:      true,
			wantHours: 2,
		},
		{
			name:      "open session not live",
			entries:   []timecalc.Entry{in(9, 0)},
			now:       at(11, 0),
			wantHours: 0,
		},
		{
			name:      "consecutive ins keep the later one",
			entries:   []timecalc.Entry{in(9, 0), in(9, 5), out(12, 0)},
			wantHours: 2 + 55.0/60,
		},
		{
			name:      "orphan out is ignored",
			entries:   []timecalc.Entry{out(8, 0), in(9, 0), out(10, 0)},
			wantHours: 1,
			wantBreak: 60,
		},
		{
			name:      "double out counts once",
			entries:   []timecalc.Entry{in(9, 0), out(10, 0), out(11, 0)},
			wantHours: 1,
		},
		{
			name:      "break counted on raw adjacency",
			entries:   []timecalc.Entry{in(9, 0), out(10, 0), in(10, 30), in(11, 0), out(12, 0)},
			wantHours: 2,
			wantBreak: 30,
		},
		{
			name:      "live session after break",
			entries:   []timecalc.Entry{in(8, 0), out(12, 0), in(12, 30)},
			now:       at(14, 30),
			live:      true,
			wantHours: 6,
			wantBreak: 30,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := timecalc.Summarize(tt.entries, tt.now, tt.live)
			assert.InDelta(t, tt.wantHours, got.HoursWorked, 1e-9)
			assert.InDelta(t, tt.wantBreak, got.BreakMinutes, 1e-9)
		})
	}
}

func TestDay(t *testing.T) {
	entries := []timecalc.Entry{
		{Kind: timecalc.KindIn, At: day.Add(-2 * time.Hour)}, // previous day
		in(9, 0),
	}

	t.Run("today gets live add-on", func(t *testing.T) {
		got := timecalc.Day(entries, day, at(11, 0))
		assert.Equal(t, "2025-03-10", got.Date)
		assert.True(t, got.Live)
		assert.InDelta(t, 2.0, got.HoursWorked, 1e-9)
	})

	t.Run("past day is not extrapolated", func(t *testing.T) {
		got := timecalc.Day(entries, day, day.AddDate(0, 0, 3))
		assert.False(t, got.Live)
		assert.Equal(t, 0.0, got.HoursWorked)
	})

	t.Run("previous day only sees its own punch", func(t *testing.T) {
		got := timecalc.Day(entries, day.AddDate(0, 0, -1), at(11, 0))
		assert.Equal(t, "2025-03-09", got.Date)
		assert.Equal(t, 0.0, got.HoursWorked)
	})
}

func TestWeek(t *testing.T) {
	var entries []timecalc.Entry
	for i := 0; i < 5; i++ {
		d := day.AddDate(0, 0, i)
		entries = append(entries,
			timecalc.Entry{Kind: timecalc.KindIn, At: d.Add(9 * time.Hour)},
			timecalc.Entry{Kind: timecalc.KindOut, At: d.Add(12 * time.Hour)},
			timecalc.Entry{Kind: timecalc.KindIn, At: d.Add(13 * time.Hour)},
		)
		if i < 4 {
			entries = append(entries, timecalc.Entry{Kind: timecalc.KindOut, At: d.Add(17 * time.Hour)})
		}
	}
	// friday 15:00, still clocked in since 13:00
	now := day.AddDate(0, 0, 4).Add(15 * time.Hour)

	got := timecalc.Week(entries, day, now)
	require.Len(t, got.Days, 7)
	assert.Equal(t, "2025-03-10", got.WeekStart)
	for i := 0; i < 4; i++ {
		assert.InDelta(t, 7.0, got.Days[i].HoursWorked, 1e-9)
		assert.False(t, got.Days[i].Live)
	}
	assert.True(t, got.Days[4].Live)
	assert.InDelta(t, 5.0, got.Days[4].HoursWorked, 1e-9)
	assert.Equal(t, 0.0, got.Days[5].HoursWorked)
	assert.InDelta(t, 33.0, got.TotalHours, 1e-9)
	assert.InDelta(t, 300.0, got.TotalBreakMinutes, 1e-9)
}

func TestBounds(t *testing.T) {
	start, end := timecalc.DayBounds(at(15, 30))
	assert.Equal(t, day, start)
	assert.Equal(t, day.AddDate(0, 0, 1), end)

	ws, we := timecalc.WeekBounds(at(8, 0))
	assert.Equal(t, day, ws)
	assert.Equal(t, day.AddDate(0, 0, 7), we)
}
