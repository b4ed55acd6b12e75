package tui

import (
	"context"
	"io"
	"slices"
	"strings"
	"testing"

	"git.sr.ht/~mariusor/lw"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/go-ap/errors"

	"git.sr.ht/~mariusor/hackcal/auth"
	"git.sr.ht/~mariusor/hackcal/browse"
	"git.sr.ht/~mariusor/hackcal/calendar"
)

func testEvents() calendar.Events {
	return calendar.Events{
		{ID: 1, Name: "Kickoff", Type: calendar.TypeActivity, StartTime: 1736791200000, EndTime: 1736794800000, Description: "Get ready", PrivateURL: "https://example.com/kickoff", RelatedEvents: []int64{2, 3}},
		{ID: 2, Name: "Intro to React", Type: calendar.TypeWorkshop, Permission: calendar.Private, StartTime: 1736780400000, EndTime: 1736784000000, Description: "Hidden basics", PrivateURL: "https://example.com/react", RelatedEvents: []int64{1}},
		{ID: 3, Name: "AI Ethics", Type: calendar.TypeTechTalk, StartTime: 1736798400000, EndTime: 1736802000000, Description: "Panel talk", PrivateURL: "https://example.com/ai"},
	}
}

func newTestModel(t *testing.T, fetch FetchFn) (*Model, *auth.MemStore) {
	t.Helper()
	l := lw.Dev(lw.SetOutput(io.Discard))
	store := &auth.MemStore{}
	b := browse.New(auth.NewSession(store, auth.DefaultCredentials, l))
	return New(context.Background(), b, fetch, l), store
}

func loadedModel(t *testing.T) (*Model, *auth.MemStore) {
	t.Helper()
	m, store := newTestModel(t, func(context.Context) (calendar.Events, error) {
		return testEvents(), nil
	})
	m.Update(m.Init()())
	return m, store
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		return tea.KeyMsg{Type: tea.KeyShiftTab}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

func press(m *Model, keys ...string) tea.Cmd {
	var cmd tea.Cmd
	for _, k := range keys {
		_, cmd = m.Update(keyMsg(k))
	}
	return cmd
}

func typeText(m *Model, s string) {
	for _, r := range s {
		m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

func selected(m *Model) (int64, bool) {
	return m.Browser().Navigator().Selected()
}

func TestLoading(t *testing.T) {
	m, _ := newTestModel(t, func(context.Context) (calendar.Events, error) {
		return testEvents(), nil
	})
	if !strings.Contains(m.View(), "Loading events") {
		t.Errorf("expected loading view before the catalog arrives")
	}
	m.Update(m.Init()())
	if m.Browser().State() != browse.Loaded {
		t.Fatalf("expected loaded state, got %s", m.Browser().State())
	}
	if got := m.Browser().Grid().IDs(); !slices.Equal(got, []int64{2, 1, 3}) {
		t.Errorf("expected grid ordered by start time, got %v", got)
	}
	view := m.View()
	for _, s := range []string{"Kickoff", "AI Ethics", "Intro to React", lockedCard} {
		if !strings.Contains(view, s) {
			t.Errorf("expected view to contain %q", s)
		}
	}
}

func TestFailedLoadAndRetry(t *testing.T) {
	calls := 0
	m, _ := newTestModel(t, func(context.Context) (calendar.Events, error) {
		calls++
		if calls == 1 {
			return nil, errors.Newf("connection refused")
		}
		return testEvents(), nil
	})
	m.Update(m.Init()())
	if m.Browser().State() != browse.Failed {
		t.Fatalf("expected failed state, got %s", m.Browser().State())
	}
	if !strings.Contains(m.View(), "connection refused") {
		t.Errorf("expected the error in the view")
	}
	if cmd := press(m, "enter"); cmd != nil {
		t.Errorf("expected no command when opening on an empty grid")
	}
	if _, ok := selected(m); ok {
		t.Errorf("expected the panel to stay closed")
	}

	cmd := press(m, "r")
	if cmd == nil {
		t.Fatalf("expected retry to reload the catalog")
	}
	m.Update(cmd())
	if m.Browser().State() != browse.Loaded || len(m.Browser().Grid()) != 3 {
		t.Errorf("expected the retry to load the catalog")
	}
}

func TestOpenAndClose(t *testing.T) {
	m, _ := loadedModel(t)

	press(m, "down", "enter")
	if id, ok := selected(m); !ok || id != 1 {
		t.Fatalf("expected event 1 to be open, got %d %t", id, ok)
	}
	if !strings.Contains(m.View(), "Get ready") {
		t.Errorf("expected the description in the panel")
	}

	press(m, "esc")
	if _, ok := selected(m); ok {
		t.Errorf("expected the panel to be closed")
	}
	if cmd := press(m, "esc"); cmd != nil {
		t.Errorf("expected closing twice to be a no-op")
	}
	if _, ok := selected(m); ok {
		t.Errorf("expected the panel to stay closed")
	}
}

func TestRelatedNavigation(t *testing.T) {
	m, _ := loadedModel(t)

	press(m, "down", "enter", "2")
	if id, _ := selected(m); id != 3 {
		t.Errorf("expected the second related event to open, got %d", id)
	}
	// event 3 has no related events
	press(m, "1")
	if id, _ := selected(m); id != 3 {
		t.Errorf("expected the panel to stay on 3, got %d", id)
	}
}

func TestRelatedPrivateEvent(t *testing.T) {
	m, _ := loadedModel(t)

	press(m, "down", "enter", "enter")
	if id, _ := selected(m); id != 2 {
		t.Fatalf("expected related event 2 to open, got %d", id)
	}
	view := m.View()
	if !strings.Contains(view, lockedPanel) {
		t.Errorf("expected the locked panel")
	}
	if strings.Contains(view, "Hidden basics") {
		t.Errorf("expected the private description to be hidden")
	}
	// a restricted panel lists no related events
	press(m, "1")
	if id, _ := selected(m); id != 2 {
		t.Errorf("expected the panel to stay on 2, got %d", id)
	}
}

func TestLoginRevealsOpenPanel(t *testing.T) {
	m, store := loadedModel(t)

	press(m, "enter")
	if id, _ := selected(m); id != 2 {
		t.Fatalf("expected event 2 to be open, got %d", id)
	}

	press(m, "l")
	if m.login == nil {
		t.Fatalf("expected the login modal")
	}
	typeText(m, "hacker")
	press(m, "tab")
	typeText(m, "wrong")
	press(m, "enter")
	if m.Browser().LoggedIn() {
		t.Fatalf("expected wrong credentials to be rejected")
	}
	if !strings.Contains(m.View(), invalidCredentials) {
		t.Errorf("expected %q in the view", invalidCredentials)
	}

	typeText(m, "htn2025")
	press(m, "enter")
	if !m.Browser().LoggedIn() {
		t.Fatalf("expected to be logged in")
	}
	if v, _ := store.LoadLoggedIn(); !v {
		t.Errorf("expected the login to be persisted")
	}
	if m.login != nil {
		t.Errorf("expected the modal to close")
	}
	view := m.View()
	if !strings.Contains(view, "Hidden basics") || strings.Contains(view, lockedPanel) {
		t.Errorf("expected the open panel to reveal the event")
	}
	if id, _ := selected(m); id != 2 {
		t.Errorf("expected the panel to stay on 2, got %d", id)
	}

	press(m, "L")
	if v, _ := store.LoadLoggedIn(); v || m.Browser().LoggedIn() {
		t.Errorf("expected to be logged out")
	}
	if !strings.Contains(m.View(), lockedPanel) {
		t.Errorf("expected the panel to be locked again")
	}
}

func TestLoginCancel(t *testing.T) {
	m, _ := loadedModel(t)
	press(m, "l")
	typeText(m, "hacker")
	press(m, "esc")
	if m.login != nil || m.Browser().LoggedIn() {
		t.Errorf("expected the modal to close without logging in")
	}
}

func TestTypeFilter(t *testing.T) {
	m, _ := loadedModel(t)
	tests := []struct {
		key  string
		want []int64
	}{
		{"tab", []int64{2}},
		{"tab", []int64{1}},
		{"tab", []int64{3}},
		{"tab", []int64{2, 1, 3}},
		{"shift+tab", []int64{3}},
	}
	for _, tt := range tests {
		press(m, tt.key)
		if got := m.Browser().Grid().IDs(); !slices.Equal(got, tt.want) {
			t.Errorf("after %s expected %v, got %v", tt.key, tt.want, got)
		}
	}
}

func TestSearch(t *testing.T) {
	m, _ := loadedModel(t)

	press(m, "/")
	typeText(m, "KICK")
	if got := m.Browser().Grid().IDs(); !slices.Equal(got, []int64{1}) {
		t.Errorf("expected search to match Kickoff, got %v", got)
	}
	press(m, "enter")
	if m.search.Focused() {
		t.Errorf("expected enter to leave the search field")
	}
	if m.Browser().Query() != "KICK" {
		t.Errorf("expected the query to be kept, got %q", m.Browser().Query())
	}

	press(m, "/")
	typeText(m, "zzz")
	if len(m.Browser().Grid()) != 0 {
		t.Errorf("expected an empty grid")
	}
	press(m, "esc")
	if !strings.Contains(m.View(), "No events found") {
		t.Errorf("expected the empty state")
	}
}

func TestQuit(t *testing.T) {
	tests := []struct {
		name string
		keys []string
	}{
		{name: "q", keys: []string{"q"}},
		{name: "ctrl+c while searching", keys: []string{"/", "ctrl+c"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, _ := loadedModel(t)
			cmd := press(m, tt.keys...)
			if cmd == nil {
				t.Fatalf("expected a quit command")
			}
			if _, ok := cmd().(tea.QuitMsg); !ok {
				t.Errorf("expected a quit message")
			}
		})
	}
}
