package calendar

import "time"

const (
	DateFmt = "Monday, January 2"
	TimeFmt = "3:04 PM"
	LongFmt = "Monday, January 2, 2006 at 03:04 PM"
)

// FormatTime splits a millisecond timestamp into a display date and time in loc.
func FormatTime(ms int64, loc *time.Location) (string, string) {
	if loc == nil {
		loc = time.Local
	}
	t := time.UnixMilli(ms).In(loc)
	return t.Format(DateFmt), t.Format(TimeFmt)
}

// FormatRange renders the start and end of the event for the detail view.
func (e Event) FormatRange(loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	start := e.Start().In(loc)
	end := e.End().In(loc)
	if start.YearDay() == end.YearDay() && start.Year() == end.Year() {
		return start.Format(LongFmt) + " - " + end.Format(TimeFmt)
	}
	return start.Format(LongFmt) + " - " + end.Format(LongFmt)
}
