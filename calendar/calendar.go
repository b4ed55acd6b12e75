package calendar

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/go-ap/errors"
)

// EventType is the closed set of session kinds an event can have.
type EventType string

const (
	TypeWorkshop EventType = "workshop"
	TypeActivity EventType = "activity"
	TypeTechTalk EventType = "tech_talk"
)

var ValidTypes = [...]EventType{TypeWorkshop, TypeActivity, TypeTechTalk}

var Labels = map[EventType]string{
	TypeWorkshop: "Workshop",
	TypeActivity: "Activity",
	TypeTechTalk: "Tech Talk",
}

var aliases = map[string]EventType{
	"workshop":   TypeWorkshop,
	"workshops":  TypeWorkshop,
	"activity":   TypeActivity,
	"activities": TypeActivity,
	"tech_talk":  TypeTechTalk,
	"tech-talk":  TypeTechTalk,
	"tech_talks": TypeTechTalk,
	"talks":      TypeTechTalk,
}

func (t EventType) Valid() bool {
	return slices.Contains(ValidTypes[:], t)
}

func (t EventType) Label() string {
	if l, ok := Labels[t]; ok {
		return l
	}
	return string(t)
}

func (t EventType) String() string {
	return string(t)
}

// ParseEventType returns the type filter for s. An empty value, or "all",
// means no filter and returns nil.
func ParseEventType(s string) (*EventType, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" || s == "all" {
		return nil, nil
	}
	typ, ok := aliases[s]
	if !ok {
		return nil, errors.NotValidf("invalid event type %q", s)
	}
	return &typ, nil
}

// Permission is the visibility tier of an event.
type Permission string

const (
	Public  Permission = "public"
	Private Permission = "private"

	// DefaultPermission applies to events that don't specify one.
	DefaultPermission = Public
)

func (p Permission) Valid() bool {
	return p == Public || p == Private
}

type Speaker struct {
	Name string `json:"name"`
}

type Speakers []Speaker

// Names returns the speaker names in display order.
func (s Speakers) Names() []string {
	names := make([]string, 0, len(s))
	for _, sp := range s {
		names = append(names, sp.Name)
	}
	return names
}

func (s Speakers) String() string {
	return strings.Join(s.Names(), ", ")
}

// Event is one scheduled session. Times are milliseconds since the epoch.
type Event struct {
	ID            int64      `json:"id"`
	Name          string     `json:"name"`
	Type          EventType  `json:"event_type"`
	Permission    Permission `json:"permission,omitempty"`
	StartTime     int64      `json:"start_time"`
	EndTime       int64      `json:"end_time"`
	Description   string     `json:"description,omitempty"`
	Speakers      Speakers   `json:"speakers"`
	PublicURL     string     `json:"public_url,omitempty"`
	PrivateURL    string     `json:"private_url"`
	RelatedEvents []int64    `json:"related_events"`
}

type Events []Event

// UnmarshalJSON decodes an event, filling in the default permission when the
// payload omits it.
func (e *Event) UnmarshalJSON(data []byte) error {
	type raw Event
	r := raw{}
	if err := json.Unmarshal(data, &r); err != nil {
		return err
	}
	*e = Event(r)
	if e.Permission == "" {
		e.Permission = DefaultPermission
	}
	return nil
}

// Perm returns the permission of the event, the default one if it's not set.
func (e Event) Perm() Permission {
	if e.Permission == "" {
		return DefaultPermission
	}
	return e.Permission
}

func (e Event) Start() time.Time {
	return time.UnixMilli(e.StartTime)
}

func (e Event) End() time.Time {
	return time.UnixMilli(e.EndTime)
}

func (e Event) Duration() time.Duration {
	return time.Duration(e.EndTime-e.StartTime) * time.Millisecond
}

func (e Event) Validate() error {
	if e.ID == 0 {
		return errors.NotValidf("missing id")
	}
	if strings.TrimSpace(e.Name) == "" {
		return errors.NotValidf("event %d: empty name", e.ID)
	}
	if !e.Type.Valid() {
		return errors.NotValidf("event %d: invalid type %q", e.ID, e.Type)
	}
	if !e.Perm().Valid() {
		return errors.NotValidf("event %d: invalid permission %q", e.ID, e.Permission)
	}
	if e.EndTime < e.StartTime {
		return errors.NotValidf("event %d: ends before it starts", e.ID)
	}
	for i, sp := range e.Speakers {
		if strings.TrimSpace(sp.Name) == "" {
			return errors.NotValidf("event %d: speaker %d has no name", e.ID, i)
		}
	}
	if e.PrivateURL == "" {
		return errors.NotValidf("event %d: missing private url", e.ID)
	}
	return nil
}

func (e Event) IsValid() bool {
	return e.Validate() == nil
}

func (e Event) Equals(other Event) bool {
	return e.ID == other.ID &&
		e.Name == other.Name &&
		e.Type == other.Type &&
		e.Perm() == other.Perm() &&
		e.StartTime == other.StartTime &&
		e.EndTime == other.EndTime &&
		e.Description == other.Description &&
		slices.Equal(e.Speakers, other.Speakers) &&
		e.PublicURL == other.PublicURL &&
		e.PrivateURL == other.PrivateURL &&
		slices.Equal(e.RelatedEvents, other.RelatedEvents)
}

func (e Event) String() string {
	return e.GoString()
}

func (e Event) GoString() string {
	fmtTime := e.Start().Format("2006-01-02 15:04 MST")
	return fmt.Sprintf("<[%d] %s:%s:%s @ %s//%s>", e.ID, e.Type, e.Perm(), e.Name, fmtTime, e.Duration())
}

func (e Events) String() string {
	return e.GoString()
}

func (e Events) GoString() string {
	ss := make([]string, len(e))
	for i, ev := range e {
		ss[i] = ev.GoString()
	}
	return fmt.Sprintf("Events[%d]:\n\t%s\n", len(e), strings.Join(ss, "\n\t"))
}

func (e Events) Contains(inc Event) bool {
	for _, ev := range e {
		if ev.Equals(inc) {
			return true
		}
	}
	return false
}

func (e Events) IDs() []int64 {
	ids := make([]int64, len(e))
	for i, ev := range e {
		ids[i] = ev.ID
	}
	return ids
}
