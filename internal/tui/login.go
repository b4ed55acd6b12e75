package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

const invalidCredentials = "Invalid credentials"

// loginForm is the modal asking for a username and a password.
type loginForm struct {
	username textinput.Model
	password textinput.Model
	err      string
}

func newInput(placeholder string, echo textinput.EchoMode) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = 156
	ti.Width = 32
	ti.EchoMode = echo
	return ti
}

func newLoginForm() *loginForm {
	f := loginForm{
		username: newInput("username", textinput.EchoNormal),
		password: newInput("password", textinput.EchoPassword),
	}
	f.username.Prompt = "Username: "
	f.password.Prompt = "Password: "
	f.username.Focus()
	return &f
}

// switchFocus moves between the two fields.
func (f *loginForm) switchFocus() tea.Cmd {
	if f.username.Focused() {
		f.username.Blur()
		return f.password.Focus()
	}
	f.password.Blur()
	return f.username.Focus()
}

// submitting reports whether enter should submit the form, which happens
// from the password field.
func (f *loginForm) submitting() bool {
	return f.password.Focused()
}

func (f *loginForm) update(msg tea.Msg) tea.Cmd {
	var c1, c2 tea.Cmd
	f.username, c1 = f.username.Update(msg)
	f.password, c2 = f.password.Update(msg)
	return tea.Batch(c1, c2)
}

func (f *loginForm) fail() tea.Cmd {
	f.err = invalidCredentials
	f.password.Reset()
	if !f.password.Focused() {
		return f.switchFocus()
	}
	return nil
}

func (f *loginForm) View() string {
	s := fmt.Sprintf("%s\n\n%s\n%s", headingStyle.Render("Log in"), f.username.View(), f.password.View())
	if f.err != "" {
		s += "\n\n" + errorStyle.Render(f.err)
	}
	s += "\n\n" + mutedStyle.Render("tab switch field • enter submit • esc cancel")
	return modalStyle.Render(s)
}
