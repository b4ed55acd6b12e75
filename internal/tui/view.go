package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"git.sr.ht/~mariusor/hackcal/browse"
	"git.sr.ht/~mariusor/hackcal/calendar"
)

const (
	lockedCard  = "🔒 Please login to view private event details"
	lockedPanel = "This is a private event"
)

func (m *Model) View() string {
	s := strings.Builder{}
	s.WriteString(m.headerView())
	s.WriteString("\n")
	s.WriteString(m.search.View())
	s.WriteString("\n\n")

	switch {
	case m.login != nil:
		s.WriteString(m.login.View())
	case m.b.State() == browse.Loading:
		s.WriteString(mutedStyle.Render("Loading events..."))
	case m.b.State() == browse.Failed:
		s.WriteString(errorStyle.Render(fmt.Sprintf("Unable to load events: %s", m.b.Err())))
		s.WriteString("\n")
		s.WriteString(mutedStyle.Render("Press r to retry."))
	default:
		grid := m.gridView()
		if p := m.b.Panel(); p.Open {
			grid = lipgloss.JoinHorizontal(lipgloss.Top, grid, "  ", m.panelView(p))
		}
		s.WriteString(grid)
	}

	s.WriteString("\n\n")
	s.WriteString(m.footerView())
	return s.String()
}

func (m *Model) headerView() string {
	tabs := make([]string, 0, len(filters))
	for i, f := range filters {
		label := "All Events"
		if f != nil {
			label = f.Label()
		}
		if i == m.filter {
			tabs = append(tabs, activeTabStyle.Render(label))
		} else {
			tabs = append(tabs, tabStyle.Render(label))
		}
	}
	account := mutedStyle.Render("Log in (l)")
	if m.b.LoggedIn() {
		account = statusStyle.Render("Logged in")
	}
	return lipgloss.JoinHorizontal(lipgloss.Center, titleStyle.Render("Hackathon Events"), " ",
		strings.Join(tabs, ""), "  ", account)
}

// visibleRange returns the window of grid rows that fit on screen.
func (m *Model) visibleRange(n int) (int, int) {
	rows := n
	if m.height > 0 {
		// two lines per card, about eight for the header and footer
		rows = max((m.height-8)/2, 1)
	}
	if rows >= n {
		return 0, n
	}
	start := max(m.cursor-rows/2, 0)
	end := min(start+rows, n)
	return end - rows, end
}

func (m *Model) gridView() string {
	grid := m.b.Grid()
	if len(grid) == 0 {
		return mutedStyle.Render("No events found")
	}

	loggedIn := m.b.LoggedIn()
	start, end := m.visibleRange(len(grid))
	cards := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		cards = append(cards, m.cardView(grid[i], loggedIn, i == m.cursor))
	}
	return lipgloss.JoinVertical(lipgloss.Left, cards...)
}

func (m *Model) cardView(ev calendar.Event, loggedIn, selected bool) string {
	s := strings.Builder{}
	s.WriteString(badge(ev.Type))
	if ev.Perm() == calendar.Private {
		s.WriteString(" " + mutedStyle.Render("Private"))
	}
	s.WriteString("  " + headingStyle.Render(ev.Name))
	s.WriteString("\n")
	if calendar.IsRestricted(ev, loggedIn) {
		s.WriteString(lockedStyle.Render(lockedCard))
	} else {
		date, start := calendar.FormatTime(ev.StartTime, m.loc)
		_, end := calendar.FormatTime(ev.EndTime, m.loc)
		s.WriteString(mutedStyle.Render(fmt.Sprintf("%s, %s - %s", date, start, end)))
		if len(ev.Speakers) > 0 {
			s.WriteString(mutedStyle.Render(" • " + ev.Speakers.String()))
		}
	}
	if selected {
		return selectedStyle.Render(s.String())
	}
	return cardStyle.Render(s.String())
}

func (m *Model) panelView(p browse.PanelView) string {
	ev := p.Event
	s := strings.Builder{}
	s.WriteString(badge(ev.Type))
	if ev.Perm() == calendar.Private {
		s.WriteString(" " + mutedStyle.Render("Private"))
	}
	s.WriteString("\n")
	s.WriteString(headingStyle.Render(ev.Name))
	s.WriteString("\n\n")

	if p.Restricted {
		s.WriteString(lockedStyle.Render(lockedPanel))
		s.WriteString("\n")
		s.WriteString(mutedStyle.Render("Press l to log in and see its details."))
		return panelStyle.Render(s.String())
	}

	s.WriteString(ev.FormatRange(m.loc))
	s.WriteString("\n")
	if len(ev.Speakers) > 0 {
		s.WriteString("Speakers: " + ev.Speakers.String() + "\n")
	}
	s.WriteString("\n")
	s.WriteString(headingStyle.Render("About this event"))
	s.WriteString("\n")
	s.WriteString(ev.Description)
	s.WriteString("\n")

	if len(p.Related) > 0 {
		s.WriteString("\n")
		s.WriteString(headingStyle.Render("Related Events"))
		for i, r := range p.Related {
			line := fmt.Sprintf("%d. %s (%s)", i+1, r.Name, r.Type.Label())
			if i == m.related {
				line = activeTabStyle.Render("> " + line)
			} else {
				line = "  " + line
			}
			s.WriteString("\n" + line)
		}
		s.WriteString("\n")
	}

	s.WriteString("\nJoin Event: " + ev.PrivateURL)
	if ev.PublicURL != "" {
		s.WriteString("\nPublic Info: " + ev.PublicURL)
	}
	return panelStyle.Render(s.String())
}

func (m *Model) footerView() string {
	help := make([]string, 0, 8)
	for _, b := range keys.help(m.b.LoggedIn()) {
		h := b.Help()
		help = append(help, h.Key+" "+h.Desc)
	}
	s := mutedStyle.Render(strings.Join(help, " • "))
	if m.status != "" {
		s = statusStyle.Render(m.status) + "\n" + s
	}
	return s
}
