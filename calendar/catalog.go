package calendar

import "slices"

// Catalog is the read-only set of events loaded for a session. It keeps the
// load order and can be shared between readers without locking.
type Catalog struct {
	events Events
	index  map[int64]int
}

// NewCatalog builds a catalog over a copy of events. When ids repeat, lookups
// return the first occurrence.
func NewCatalog(events ...Event) Catalog {
	c := Catalog{
		events: make(Events, len(events)),
		index:  make(map[int64]int, len(events)),
	}
	for i, ev := range events {
		c.events[i] = ev.clone()
	}
	for i, ev := range c.events {
		if _, ok := c.index[ev.ID]; ok {
			continue
		}
		c.index[ev.ID] = i
	}
	return c
}

func (c Catalog) Len() int {
	return len(c.events)
}

// Events returns a copy of the events in load order.
func (c Catalog) Events() Events {
	out := make(Events, len(c.events))
	for i, ev := range c.events {
		out[i] = ev.clone()
	}
	return out
}

func (c Catalog) Get(id int64) (Event, bool) {
	i, ok := c.index[id]
	if !ok {
		return Event{}, false
	}
	return c.events[i].clone(), true
}

// clone copies the slices of ev, so changes to the result don't reach the
// catalog.
func (ev Event) clone() Event {
	ev.Speakers = slices.Clone(ev.Speakers)
	ev.RelatedEvents = slices.Clone(ev.RelatedEvents)
	return ev
}

func (c Catalog) Has(id int64) bool {
	_, ok := c.index[id]
	return ok
}
