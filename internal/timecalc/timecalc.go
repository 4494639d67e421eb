// Package timecalc reconstructs worked time and break time from a stream of
// clock-in/clock-out events that carries no pairing guarantees.
package timecalc

import (
	"sort"
	"time"
)

const (
	KindIn  = "in"
	KindOut = "out"
)

type Entry struct {
	Kind string
	At   time.Time
}

type Summary struct {
	HoursWorked  float64 `json:"hours_worked"`
	BreakMinutes float64 `json:"break_minutes"`
}

type DaySummary struct {
	Date string `json:"date"`
	Summary
	Live bool `json:"live"`
}

type WeekSummary struct {
	WeekStart         string       `json:"week_start"`
	Days              []DaySummary `json:"days"`
	TotalHours        float64      `json:"total_hours"`
	TotalBreakMinutes float64      `json:"total_break_minutes"`
}

// Summarize walks entries in chronological order. A later "in" replaces an
// unclosed earlier one, an "out" with no open "in" is ignored, and when live
// is set an open session is extended to now. Break time is the sum of every
// out->in gap between adjacent entries.
func Summarize(entries []Entry, now time.Time, live bool) Summary {
	sorted := sortEntries(entries)

	var (
		worked   time.Duration
		lastIn   time.Time
		haveOpen bool
	)
	for _, e := range sorted {
		switch e.Kind {
		case KindIn:
			lastIn = e.At
			haveOpen = true
		case KindOut:
			if haveOpen {
				worked += e.At.Sub(lastIn)
				haveOpen = false
			}
		}
	}
	if live && haveOpen && now.After(lastIn) {
		worked += now.Sub(lastIn)
	}

	var breaks time.Duration
	for i := 0; i+1 < len(sorted); i++ {
		if sorted[i].Kind == KindOut && sorted[i+1].Kind == KindIn {
			breaks += sorted[i+1].At.Sub(sorted[i].At)
		}
	}

	return Summary{
		HoursWorked:  float64(worked.Milliseconds()) / 3_600_000,
		BreakMinutes: float64(breaks.Milliseconds()) / 60_000,
	}
}

// Day summarizes the entries that fall on day's calendar date in day's
// location. Only the bucket containing now gets the live add-on.
func Day(entries []Entry, day, now time.Time) DaySummary {
	start := startOfDay(day)
	end := start.AddDate(0, 0, 1)
	live := within(now, start, end)

	bucket := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if within(e.At, start, end) {
			bucket = append(bucket, e)
		}
	}

	return DaySummary{
		Date:    start.Format(time.DateOnly),
		Summary: Summarize(bucket, now, live),
		Live:    live,
	}
}

// Week returns seven independent day buckets starting at weekStart.
func Week(entries []Entry, weekStart, now time.Time) WeekSummary {
	start := startOfDay(weekStart)
	ws := WeekSummary{
		WeekStart: start.Format(time.DateOnly),
		Days:      make([]DaySummary, 0, 7),
	}
	for i := 0; i < 7; i++ {
		d := Day(entries, start.AddDate(0, 0, i), now)
		ws.TotalHours += d.HoursWorked
		ws.TotalBreakMinutes += d.BreakMinutes
		ws.Days = append(ws.Days, d)
	}
	return ws
}

// WeekBounds returns [start, end) covering the seven days from weekStart.
func WeekBounds(weekStart time.Time) (time.Time, time.Time) {
	start := startOfDay(weekStart)
	return start, start.AddDate(0, 0, 7)
}

// DayBounds returns [localMidnight, next localMidnight) for t.
func DayBounds(t time.Time) (time.Time, time.Time) {
	start := startOfDay(t)
	return start, start.AddDate(0, 0, 1)
}

func sortEntries(entries []Entry) []Entry {
	sorted := make([]Entry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].At.Before(sorted[j].At)
	})
	return sorted
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func within(t, start, end time.Time) bool {
	return !t.Before(start) && t.Before(end)
}
