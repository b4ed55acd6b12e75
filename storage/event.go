package storage

import (
	"cmp"
	"slices"

	"git.sr.ht/~mariusor/hackcal/calendar"
)

// Item is the stored form of an event. Position is the index of the event in
// the fetched catalog, which the bucket layout doesn't preserve.
type Item struct {
	Position int            `json:"position"`
	Event    calendar.Event `json:"event"`
}

func (i Item) IsValid() bool {
	return i.Position >= 0 && i.Event.IsValid()
}

type Items []Item

// Events returns the events in catalog order.
func (it Items) Events() calendar.Events {
	sorted := slices.Clone(it)
	slices.SortStableFunc(sorted, func(a, b Item) int {
		return cmp.Compare(a.Position, b.Position)
	})
	events := make(calendar.Events, len(sorted))
	for i, item := range sorted {
		events[i] = item.Event
	}
	return events
}

// ToItems numbers the events by their position.
func ToItems(events calendar.Events) Items {
	items := make(Items, len(events))
	for i, ev := range events {
		items[i] = Item{Position: i, Event: ev}
	}
	return items
}
