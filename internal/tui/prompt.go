package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/go-ap/errors"
)

type prompt struct {
	label     string
	textInput *textinput.Model
	cancelled bool
}

func initialPrompt(label string, secret bool) prompt {
	ti := textinput.New()
	ti.Placeholder = "..."
	ti.Focus()
	ti.CharLimit = 156
	ti.Width = 45
	if secret {
		ti.EchoMode = textinput.EchoPassword
	}
	return prompt{label: label, textInput: &ti}
}

func (m prompt) Init() tea.Cmd {
	return textinput.Blink
}

func (m prompt) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.Type {
		case tea.KeyEnter:
			return m, tea.Quit
		case tea.KeyCtrlC, tea.KeyEsc:
			m.cancelled = true
			return m, tea.Quit
		}
	}

	*m.textInput, cmd = m.textInput.Update(msg)
	return m, cmd
}

func (m prompt) View() string {
	return fmt.Sprintf("%s\n\n%s", m.label, m.textInput.View()) + "\n"
}

// Prompt reads a single line from the terminal. When secret is set the
// input is masked.
func Prompt(label string, secret bool) (string, error) {
	res, err := tea.NewProgram(initialPrompt(label, secret)).Run()
	if err != nil {
		return "", err
	}
	m, ok := res.(prompt)
	if !ok {
		return "", errors.Newf("unexpected prompt result %T", res)
	}
	if m.cancelled {
		return "", errors.Newf("cancelled")
	}
	return m.textInput.Value(), nil
}
