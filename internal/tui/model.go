package tui

import (
	"context"
	"time"

	"git.sr.ht/~mariusor/lw"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"git.sr.ht/~mariusor/hackcal/browse"
	"git.sr.ht/~mariusor/hackcal/calendar"
)

// FetchFn loads the event catalog.
type FetchFn func(context.Context) (calendar.Events, error)

type catalogMsg struct {
	events calendar.Events
	err    error
}

// filters are the type tabs, the first one showing every type.
var filters = append([]*calendar.EventType{nil}, typePtrs()...)

func typePtrs() []*calendar.EventType {
	r := make([]*calendar.EventType, 0, len(calendar.ValidTypes))
	for i := range calendar.ValidTypes {
		r = append(r, &calendar.ValidTypes[i])
	}
	return r
}

// Model is the interactive event browser.
type Model struct {
	ctx   context.Context
	b     *browse.Browser
	fetch FetchFn

	cursor  int
	related int
	filter  int

	search textinput.Model
	login  *loginForm
	status string

	width, height int

	loc *time.Location
	l   lw.Logger
}

func New(ctx context.Context, b *browse.Browser, fetch FetchFn, l lw.Logger) *Model {
	search := textinput.New()
	search.Prompt = "Search: "
	search.Placeholder = "name or description"
	search.CharLimit = 80
	search.Width = 40

	return &Model{
		ctx:    ctx,
		b:      b,
		fetch:  fetch,
		search: search,
		loc:    time.Local,
		l:      l,
	}
}

// Run starts the browser in the current terminal and blocks until it exits.
func Run(ctx context.Context, b *browse.Browser, fetch FetchFn, l lw.Logger) error {
	_, err := tea.NewProgram(New(ctx, b, fetch, l), tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}

func (m *Model) Init() tea.Cmd {
	return m.load
}

func (m *Model) load() tea.Msg {
	events, err := m.fetch(m.ctx)
	return catalogMsg{events: events, err: err}
}

func (m *Model) Browser() *browse.Browser {
	return m.b
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil
	case catalogMsg:
		if msg.err != nil {
			m.l.Errorf("Unable to load events: %s", msg.err)
			m.b.Failed(msg.err)
			return m, nil
		}
		m.b.Loaded(calendar.NewCatalog(msg.events...))
		m.l.WithContext(lw.Ctx{"count": len(msg.events)}).Debugf("Loaded events")
		m.clampCursor()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		switch {
		case m.login != nil:
			return m, m.updateLogin(msg)
		case m.search.Focused():
			return m, m.updateSearch(msg)
		}
		return m, m.updateBrowse(msg)
	}
	return m, nil
}

func (m *Model) updateLogin(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEsc:
		m.login = nil
		return nil
	case tea.KeyTab, tea.KeyShiftTab, tea.KeyUp, tea.KeyDown:
		return m.login.switchFocus()
	case tea.KeyEnter:
		if !m.login.submitting() {
			return m.login.switchFocus()
		}
		if err := m.b.Login(m.login.username.Value(), m.login.password.Value()); err != nil {
			m.l.Warnf("Login failed: %s", err)
			return m.login.fail()
		}
		m.login = nil
		m.status = "Logged in successfully"
		return nil
	}
	return m.login.update(msg)
}

func (m *Model) updateSearch(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEsc, tea.KeyEnter:
		m.search.Blur()
		return nil
	}
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if m.search.Value() != m.b.Query() {
		m.b.SetQuery(m.search.Value())
		m.cursor = 0
	}
	return cmd
}

func (m *Model) updateBrowse(msg tea.KeyMsg) tea.Cmd {
	panel := m.b.Panel()
	switch {
	case key.Matches(msg, keys.Quit):
		return tea.Quit
	case key.Matches(msg, keys.Close):
		if m.b.Close() {
			m.related = 0
		}
	case key.Matches(msg, keys.Up):
		if panel.Open {
			m.related = max(m.related-1, 0)
		} else {
			m.cursor = max(m.cursor-1, 0)
		}
	case key.Matches(msg, keys.Down):
		if panel.Open {
			m.related = min(m.related+1, max(len(panel.Related)-1, 0))
		} else {
			m.cursor++
			m.clampCursor()
		}
	case key.Matches(msg, keys.Open):
		if panel.Open {
			if m.related < len(panel.Related) {
				m.openRelated(panel.Related[m.related].ID)
			}
			return nil
		}
		if grid := m.b.Grid(); m.cursor < len(grid) {
			m.b.Open(grid[m.cursor].ID)
			m.related = 0
		}
	case key.Matches(msg, keys.Related):
		n := int(msg.Runes[0] - '1')
		if panel.Open && n < len(panel.Related) {
			m.openRelated(panel.Related[n].ID)
		}
	case key.Matches(msg, keys.Next):
		m.setFilter(m.filter + 1)
	case key.Matches(msg, keys.Prev):
		m.setFilter(m.filter - 1)
	case key.Matches(msg, keys.Search):
		return m.search.Focus()
	case key.Matches(msg, keys.Login):
		if !m.b.LoggedIn() {
			m.login = newLoginForm()
			m.status = ""
			return textinput.Blink
		}
	case key.Matches(msg, keys.Logout):
		if m.b.LoggedIn() {
			if err := m.b.Logout(); err != nil {
				m.l.Errorf("Unable to log out: %s", err)
				m.status = err.Error()
				return nil
			}
			m.status = "Logged out"
		}
	case key.Matches(msg, keys.Retry):
		if m.b.State() == browse.Failed {
			m.b.Reload()
			return m.load
		}
	}
	return nil
}

func (m *Model) openRelated(id int64) {
	if err := m.b.OpenRelated(id); err != nil {
		m.l.Warnf("%s", err)
		return
	}
	m.related = 0
}

func (m *Model) setFilter(i int) {
	n := len(filters)
	m.filter = ((i % n) + n) % n
	m.b.SetTypeFilter(filters[m.filter])
	m.cursor = 0
}

func (m *Model) clampCursor() {
	n := len(m.b.Grid())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}
