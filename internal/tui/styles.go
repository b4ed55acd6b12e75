package tui

import (
	"github.com/charmbracelet/lipgloss"

	"git.sr.ht/~mariusor/hackcal/calendar"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#f8fafc")).
			Background(lipgloss.Color("#1e3a8a")).Padding(0, 1)
	tabStyle       = lipgloss.NewStyle().Padding(0, 1).Foreground(lipgloss.Color("#64748b"))
	activeTabStyle = tabStyle.Copy().Bold(true).Foreground(lipgloss.Color("#2563eb")).Underline(true)

	cardStyle     = lipgloss.NewStyle().PaddingLeft(2)
	selectedStyle = cardStyle.Copy().PaddingLeft(1).Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(lipgloss.Color("#2563eb"))
	lockedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#94a3b8")).Italic(true)
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#64748b"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#dc2626"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#16a34a"))

	panelStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#cbd5e1")).Padding(0, 1).Width(56)
	modalStyle = lipgloss.NewStyle().Border(lipgloss.DoubleBorder()).
			BorderForeground(lipgloss.Color("#2563eb")).Padding(1, 2)
	headingStyle = lipgloss.NewStyle().Bold(true)
)

var badgeColors = map[calendar.EventType]lipgloss.Color{
	calendar.TypeWorkshop: lipgloss.Color("#10b981"),
	calendar.TypeActivity: lipgloss.Color("#9333ea"),
	calendar.TypeTechTalk: lipgloss.Color("#2563eb"),
}

func badge(t calendar.EventType) string {
	s := lipgloss.NewStyle().Bold(true)
	if c, ok := badgeColors[t]; ok {
		s = s.Foreground(c)
	}
	return s.Render(t.Label())
}
