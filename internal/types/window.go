package types

import "time"

// ReportWindow is a closed time range [Start, End].
type ReportWindow struct {
	Start time.Time
	End   time.Time
}

// TrailingWeek returns the seven-day window ending the day before now,
// inclusive on both ends, in now's location. Start is the first instant
// of the earliest day; End is the last instant of yesterday.
func TrailingWeek(now time.Time) ReportWindow {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return ReportWindow{
		Start: today.AddDate(0, 0, -7),
		End:   today.Add(-time.Nanosecond),
	}
}

// Contains reports whether t falls within the window, inclusive.
func (w ReportWindow) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

// Label renders the window for the report subtitle,
// e.g. "Aug 24, 2026 - Aug 30, 2026".
func (w ReportWindow) Label() string {
	return w.Start.Format("Jan 2, 2006") + " - " + w.End.Format("Jan 2, 2006")
}
