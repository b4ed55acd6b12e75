package browse

import (
	"fmt"

	"git.sr.ht/~mariusor/hackcal/calendar"
)

// Navigator tracks the event shown in the detail panel. It is either closed
// or open on a single event id; opening another event replaces the current
// one, there is no history.
type Navigator struct {
	open bool
	id   int64
}

func (n *Navigator) Open(id int64) {
	n.open = true
	n.id = id
}

// Close returns false when the panel was already closed.
func (n *Navigator) Close() bool {
	if !n.open {
		return false
	}
	n.open = false
	n.id = 0
	return true
}

func (n Navigator) IsOpen() bool {
	return n.open
}

func (n Navigator) Selected() (int64, bool) {
	return n.id, n.open
}

// Resolve looks up the selected event in c. A selection that is missing from
// the catalog closes the panel.
func (n *Navigator) Resolve(c calendar.Catalog) (calendar.Event, bool) {
	if !n.open {
		return calendar.Event{}, false
	}
	ev, ok := c.Get(n.id)
	if !ok {
		n.Close()
		return calendar.Event{}, false
	}
	return ev, true
}

func (n Navigator) String() string {
	if !n.open {
		return "Closed"
	}
	return fmt.Sprintf("Open(%d)", n.id)
}
