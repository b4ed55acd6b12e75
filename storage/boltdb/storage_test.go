package boltdb

import (
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/go-ap/errors"

	"git.sr.ht/~mariusor/hackcal/calendar"
	"git.sr.ht/~mariusor/hackcal/storage"
)

func ms(t time.Time) int64 {
	return t.UnixMilli()
}

var base = time.Date(2025, time.January, 17, 18, 0, 0, 0, time.UTC)

func testEvents() calendar.Events {
	return calendar.Events{
		{ID: 12, Name: "Hackathon Kickoff", Type: calendar.TypeActivity, StartTime: ms(base.Add(2 * time.Hour)), EndTime: ms(base.Add(3 * time.Hour)), PrivateURL: "p12", RelatedEvents: []int64{3}},
		{ID: 3, Name: "Intro to React", Type: calendar.TypeWorkshop, Permission: calendar.Private, StartTime: ms(base), EndTime: ms(base.Add(time.Hour)), PrivateURL: "p3", Speakers: calendar.Speakers{{Name: "Jane Doe"}}},
		{ID: 7, Name: "AI Ethics Panel", Type: calendar.TypeTechTalk, StartTime: ms(base.Add(48 * time.Hour)), EndTime: ms(base.Add(49 * time.Hour)), PrivateURL: "p7", PublicURL: "u7"},
		{ID: 4, Name: "Go Workshop", Type: calendar.TypeWorkshop, StartTime: ms(base.Add(24 * time.Hour)), EndTime: ms(base.Add(25 * time.Hour)), PrivateURL: "p4"},
	}
}

func newRepo(t *testing.T) *repo {
	t.Helper()
	return New(Config{Path: filepath.Join(t.TempDir(), DefaultFile)})
}

func TestSaveAndLoadEvents(t *testing.T) {
	r := newRepo(t)
	events := testEvents()
	if err := r.SaveEvents(events); err != nil {
		t.Fatalf("unable to save events: %s", err)
	}

	loaded, err := r.LoadEvents(storage.AllTime)
	if err != nil {
		t.Fatalf("unable to load events: %s", err)
	}
	if got, want := loaded.IDs(), events.IDs(); !slices.Equal(got, want) {
		t.Errorf("expected catalog order %v, got %v", want, got)
	}
	for i := range events {
		if !events[i].Equals(loaded[i]) {
			t.Errorf("event %d changed after round trip: %v vs %v", events[i].ID, events[i], loaded[i])
		}
	}
}

func TestSaveEventsReplacesCatalog(t *testing.T) {
	r := newRepo(t)
	if err := r.SaveEvents(testEvents()); err != nil {
		t.Fatalf("unable to save events: %s", err)
	}
	if err := r.SaveEvents(testEvents()[:1]); err != nil {
		t.Fatalf("unable to save events: %s", err)
	}
	loaded, err := r.LoadEvents(storage.AllTime)
	if err != nil {
		t.Fatalf("unable to load events: %s", err)
	}
	if got := loaded.IDs(); !slices.Equal(got, []int64{12}) {
		t.Errorf("expected only event 12 to remain, got %v", got)
	}
}

func TestLoadEventsByType(t *testing.T) {
	r := newRepo(t)
	if err := r.SaveEvents(testEvents()); err != nil {
		t.Fatalf("unable to save events: %s", err)
	}
	loaded, err := r.LoadEvents(storage.AllTime, calendar.TypeWorkshop)
	if err != nil {
		t.Fatalf("unable to load events: %s", err)
	}
	if got := loaded.IDs(); !slices.Equal(got, []int64{3, 4}) {
		t.Errorf("expected workshops [3 4], got %v", got)
	}
}

func TestLoadEventsByCursor(t *testing.T) {
	r := newRepo(t)
	if err := r.SaveEvents(testEvents()); err != nil {
		t.Fatalf("unable to save events: %s", err)
	}
	tests := []struct {
		name   string
		cursor storage.DateCursor
		want   []int64
	}{
		{name: "first day", cursor: storage.Cursor(base, 24*time.Hour-time.Minute), want: []int64{12, 3}},
		{name: "second day", cursor: storage.Cursor(base.Add(24*time.Hour), 24*time.Hour-time.Minute), want: []int64{4}},
		{name: "backwards", cursor: storage.Cursor(base.Add(48*time.Hour), -24*time.Hour), want: []int64{7, 4}},
		{name: "nothing", cursor: storage.Cursor(base.Add(-48*time.Hour), time.Hour), want: []int64{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loaded, err := r.LoadEvents(tt.cursor)
			if err != nil {
				t.Fatalf("unable to load events: %s", err)
			}
			if got := loaded.IDs(); !slices.Equal(got, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestSaveIntoMissingBucket(t *testing.T) {
	err := save(nil, storage.Item{Event: testEvents()[0]})
	e, ok := err.(*errors.Err)
	if !ok {
		t.Fatalf("expected an annotated error, got %T: %v", err, err)
	}
	if !strings.HasPrefix(e.Error(), "unable to find activity/25/01/17/20/00") {
		t.Errorf("expected the bucket path in the error, got %q", e.Error())
	}
	if e.Unwrap() == nil {
		t.Errorf("expected the cause to be kept")
	}
}

func TestLoadEvent(t *testing.T) {
	r := newRepo(t)
	if err := r.SaveEvents(testEvents()); err != nil {
		t.Fatalf("unable to save events: %s", err)
	}
	ev, err := r.LoadEvent(3)
	if err != nil {
		t.Fatalf("unable to load event: %s", err)
	}
	if ev.Name != "Intro to React" || ev.Perm() != calendar.Private {
		t.Errorf("unexpected event %v", ev)
	}
	if _, err := r.LoadEvent(999); !errors.IsNotFound(err) {
		t.Errorf("expected not found error, got %v", err)
	}
}

func TestLoggedInFlag(t *testing.T) {
	r := newRepo(t)

	v, err := r.LoadLoggedIn()
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if v {
		t.Errorf("expected a fresh store to be logged out")
	}
	if err := r.SaveLoggedIn(true); err != nil {
		t.Fatalf("unable to save flag: %s", err)
	}
	if v, _ := r.LoadLoggedIn(); !v {
		t.Errorf("expected persisted flag to be true")
	}
	if err := r.SaveLoggedIn(false); err != nil {
		t.Fatalf("unable to save flag: %s", err)
	}
	if v, _ := r.LoadLoggedIn(); v {
		t.Errorf("expected persisted flag to be false")
	}
}

func TestItemBucketPath(t *testing.T) {
	got := string(itemBucketPath(time.Date(2025, time.March, 4, 9, 7, 0, 0, time.UTC)))
	if got != "25/03/04/09/07" {
		t.Errorf("unexpected path %q", got)
	}
}

func TestInRange(t *testing.T) {
	min := []byte("25/01/17/18/00")
	max := []byte("25/01/18/17/59")
	tests := []struct {
		path string
		want bool
	}{
		{"25", true},
		{"24", false},
		{"25/01", true},
		{"25/02", false},
		{"25/01/16", false},
		{"25/01/18/17", true},
		{"25/01/18/18", false},
	}
	for _, tt := range tests {
		if got := inRange([]byte(tt.path), min, max); got != tt.want {
			t.Errorf("inRange(%q) = %t, want %t", tt.path, got, tt.want)
		}
	}
}
