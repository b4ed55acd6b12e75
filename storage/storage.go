package storage

import (
	"time"

	"git.sr.ht/~mariusor/hackcal/calendar"
)

// DateCursor selects the events starting in the [T, T+D] interval. A zero
// cursor selects everything.
type DateCursor struct {
	T time.Time
	D time.Duration
}

func Cursor(st time.Time, d time.Duration) DateCursor {
	return DateCursor{
		T: st,
		D: d,
	}
}

var AllTime = DateCursor{}

func (c DateCursor) IsZero() bool {
	return c.T.IsZero() && c.D == 0
}

// Contains reports whether t falls in the cursor interval, bounds included.
func (c DateCursor) Contains(t time.Time) bool {
	if c.IsZero() {
		return true
	}
	from, to := c.T, c.T.Add(c.D)
	if c.D < 0 {
		from, to = to, from
	}
	return !t.Before(from) && !t.After(to)
}

type Saver interface {
	SaveEvents(calendar.Events) error
}

type Loader interface {
	LoadEvents(DateCursor, ...calendar.EventType) (calendar.Events, error)
	LoadEvent(int64) (calendar.Event, error)
}

// Repository is a local copy of the last fetched catalog.
type Repository interface {
	Saver
	Loader
}
