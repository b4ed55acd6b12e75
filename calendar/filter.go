package calendar

import (
	"slices"
	"strings"
)

// IsRestricted reports whether the content of e must be hidden from a viewer
// with the given login state.
func IsRestricted(e Event, loggedIn bool) bool {
	return e.Perm() == Private && !loggedIn
}

// Visible returns the catalog events ordered by start time, keeping the ones
// matching typ (when not nil) and query. Restricted events are not removed.
func Visible(c Catalog, typ *EventType, query string) Events {
	events := c.Events()
	slices.SortStableFunc(events, func(a, b Event) int {
		switch {
		case a.StartTime < b.StartTime:
			return -1
		case a.StartTime > b.StartTime:
			return 1
		}
		return 0
	})

	query = strings.ToLower(query)
	visible := make(Events, 0, len(events))
	for _, ev := range events {
		if typ != nil && ev.Type != *typ {
			continue
		}
		if !Matches(ev, query) {
			continue
		}
		visible = append(visible, ev)
	}
	return visible
}

// Matches reports whether q is a case-insensitive substring of the event's
// name or description. An empty q matches every event.
func Matches(e Event, q string) bool {
	if q == "" {
		return true
	}
	q = strings.ToLower(q)
	return strings.Contains(strings.ToLower(e.Name), q) ||
		strings.Contains(strings.ToLower(e.Description), q)
}

// Related returns the catalog events that e links to, in catalog order.
// Ids missing from the catalog are dropped.
func Related(e Event, c Catalog) Events {
	if len(e.RelatedEvents) == 0 {
		return nil
	}
	related := make(Events, 0, len(e.RelatedEvents))
	seen := make(map[int64]struct{}, len(e.RelatedEvents))
	for _, ev := range c.events {
		if _, ok := seen[ev.ID]; ok {
			continue
		}
		if !slices.Contains(e.RelatedEvents, ev.ID) {
			continue
		}
		seen[ev.ID] = struct{}{}
		related = append(related, ev)
	}
	return related
}
