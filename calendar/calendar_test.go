package calendar

import (
	"encoding/json"
	"testing"

	"github.com/go-ap/errors"
)

func validEvent(id int64) Event {
	return Event{
		ID:         id,
		Name:       "Intro to React",
		Type:       TypeWorkshop,
		Permission: Public,
		StartTime:  1000,
		EndTime:    2000,
		Speakers:   Speakers{{Name: "Jane Doe"}},
		PrivateURL: "https://example.com/react",
	}
}

func TestEventUnmarshalDefaults(t *testing.T) {
	data := `{
		"id": 3,
		"name": "Hackathon Kickoff",
		"event_type": "activity",
		"start_time": 1700000000000,
		"end_time": 1700001800000,
		"speakers": [{"name": "Bob Wilson"}],
		"private_url": "https://example.com/kickoff",
		"related_events": [],
		"unknown_field": {"nested": true}
	}`

	ev := Event{}
	if err := json.Unmarshal([]byte(data), &ev); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if ev.Permission != Public {
		t.Errorf("expected permission %q, got %q", Public, ev.Permission)
	}
	if ev.Description != "" {
		t.Errorf("expected empty description, got %q", ev.Description)
	}
	if ev.PublicURL != "" {
		t.Errorf("expected empty public url, got %q", ev.PublicURL)
	}
	if got := ev.Speakers.Names(); len(got) != 1 || got[0] != "Bob Wilson" {
		t.Errorf("unexpected speakers %v", got)
	}
	if err := ev.Validate(); err != nil {
		t.Errorf("expected valid event, got %s", err)
	}
}

func TestEventPermDefault(t *testing.T) {
	ev := validEvent(1)
	ev.Permission = ""
	if ev.Perm() != Public {
		t.Errorf("expected empty permission to be %q, got %q", Public, ev.Perm())
	}
}

func TestEventValidate(t *testing.T) {
	tests := []struct {
		name  string
		alter func(*Event)
		valid bool
	}{
		{name: "valid", alter: func(*Event) {}, valid: true},
		{name: "no permission", alter: func(e *Event) { e.Permission = "" }, valid: true},
		{name: "zero duration", alter: func(e *Event) { e.EndTime = e.StartTime }, valid: true},
		{name: "no speakers", alter: func(e *Event) { e.Speakers = nil }, valid: true},
		{name: "missing id", alter: func(e *Event) { e.ID = 0 }},
		{name: "empty name", alter: func(e *Event) { e.Name = "  " }},
		{name: "bad type", alter: func(e *Event) { e.Type = "keynote" }},
		{name: "bad permission", alter: func(e *Event) { e.Permission = "secret" }},
		{name: "ends before start", alter: func(e *Event) { e.EndTime = e.StartTime - 1 }},
		{name: "empty speaker", alter: func(e *Event) { e.Speakers = Speakers{{Name: ""}} }},
		{name: "no private url", alter: func(e *Event) { e.PrivateURL = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev := validEvent(1)
			tt.alter(&ev)
			err := ev.Validate()
			if tt.valid && err != nil {
				t.Errorf("expected valid event, got %s", err)
			}
			if !tt.valid {
				if err == nil {
					t.Fatalf("expected validation error")
				}
				if !errors.IsNotValid(err) {
					t.Errorf("expected not valid error, got %T: %s", err, err)
				}
			}
		})
	}
}

func TestParseEventType(t *testing.T) {
	tests := []struct {
		in      string
		want    *EventType
		wantErr bool
	}{
		{in: "", want: nil},
		{in: "all", want: nil},
		{in: "workshop", want: ptr(TypeWorkshop)},
		{in: "Activities", want: ptr(TypeActivity)},
		{in: "tech-talk", want: ptr(TypeTechTalk)},
		{in: " tech_talk ", want: ptr(TypeTechTalk)},
		{in: "keynote", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseEventType(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Errorf("expected error for %q", tt.in)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %s", err)
			}
			if (got == nil) != (tt.want == nil) {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
			if got != nil && *got != *tt.want {
				t.Errorf("expected %s, got %s", *tt.want, *got)
			}
		})
	}
}

func TestEventEquals(t *testing.T) {
	a := validEvent(1)
	b := validEvent(1)
	b.Permission = ""
	if !a.Equals(b) {
		t.Errorf("expected events with default and explicit public permission to be equal")
	}
	b.RelatedEvents = []int64{2}
	if a.Equals(b) {
		t.Errorf("expected events with different related events to differ")
	}
}

func TestCatalog(t *testing.T) {
	first := validEvent(1)
	dup := validEvent(1)
	dup.Name = "Duplicate"
	c := NewCatalog(first, validEvent(2), dup)

	if c.Len() != 3 {
		t.Errorf("expected 3 events, got %d", c.Len())
	}
	ev, ok := c.Get(1)
	if !ok {
		t.Fatalf("expected to find event 1")
	}
	if ev.Name != first.Name {
		t.Errorf("expected first occurrence %q, got %q", first.Name, ev.Name)
	}
	if _, ok := c.Get(999); ok {
		t.Errorf("expected missing event 999")
	}

	events := c.Events()
	events[0].Name = "changed"
	if ev, _ := c.Get(1); ev.Name == "changed" {
		t.Errorf("catalog was mutated through Events()")
	}
}

func TestCatalogSharesNoSlices(t *testing.T) {
	src := validEvent(1)
	src.RelatedEvents = []int64{2, 3}
	c := NewCatalog(src)

	src.Speakers[0].Name = "changed"
	src.RelatedEvents[0] = 99

	events := c.Events()
	events[0].Speakers[0].Name = "changed"
	events[0].RelatedEvents[1] = 99

	ev, _ := c.Get(1)
	ev.Speakers = append(ev.Speakers[:0], Speaker{Name: "changed"})
	ev.RelatedEvents[0] = 99

	ev, _ = c.Get(1)
	if ev.Speakers[0].Name != "Jane Doe" {
		t.Errorf("expected speakers to be kept, got %v", ev.Speakers)
	}
	if ev.RelatedEvents[0] != 2 || ev.RelatedEvents[1] != 3 {
		t.Errorf("expected related events [2 3], got %v", ev.RelatedEvents)
	}
}

func ptr[T any](v T) *T {
	return &v
}
