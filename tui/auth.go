package tui

import (
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"venuespace-cli/model"
)

const (
	authFieldName = iota
	authFieldEmail
	authFieldRole
	authFieldCount
)

type authState struct {
	name   textinput.Model
	email  textinput.Model
	role   model.Role
	focus  int
	err    error
	notice string
}

func newAuthState(current model.User) authState {
	a := authState{role: model.RoleGuest}
	a.name = textinput.New()
	a.name.Placeholder = "Your name"
	a.name.CharLimit = 80
	a.email = textinput.New()
	a.email.Placeholder = "you@example.com"
	a.email.CharLimit = 120
	if current.Email != "" {
		a.name.SetValue(current.Name)
		a.email.SetValue(current.Email)
		if current.Role != "" {
			a.role = current.Role
		}
	}
	a.name.Focus()
	return a
}

func (a *authState) focusCmd() tea.Cmd {
	return textinput.Blink
}

func (a *authState) move(delta int) {
	a.focus = (a.focus + delta + authFieldCount) % authFieldCount
	a.name.Blur()
	a.email.Blur()
	switch a.focus {
	case authFieldName:
		a.name.Focus()
	case authFieldEmail:
		a.email.Focus()
	}
}

func (a *authState) toggleRole() {
	if a.role == model.RoleHost {
		a.role = model.RoleGuest
	} else {
		a.role = model.RoleHost
	}
}

func (a *authState) updateInputs(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch a.focus {
	case authFieldName:
		a.name, cmd = a.name.Update(msg)
	case authFieldEmail:
		a.email, cmd = a.email.Update(msg)
	}
	return cmd
}

func (m appModel) handleAuthKey(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	a := &m.auth
	a.err = nil
	a.notice = ""
	switch msg.String() {
	case "tab", "down":
		a.move(1)
	case "shift+tab", "up":
		a.move(-1)
	case "left", "right", " ":
		if a.focus != authFieldRole {
			return m, nil, false
		}
		a.toggleRole()
	case "ctrl+l":
		if m.deps.Session == nil {
			return m, nil, true
		}
		if err := m.deps.Session.Logout(); err != nil {
			a.err = err
			return m, nil, true
		}
		m.auth = newAuthState(model.User{})
		m.auth.notice = "Signed out."
	case "enter":
		if a.focus != authFieldRole {
			a.move(1)
			return m, nil, true
		}
		return m.signIn()
	case "ctrl+s":
		return m.signIn()
	default:
		return m, nil, false
	}
	return m, nil, true
}

func (m appModel) signIn() (tea.Model, tea.Cmd, bool) {
	if m.deps.Session == nil {
		m.auth.err = errors.New("sessions are not available")
		return m, nil, true
	}
	user, err := m.deps.Session.Login(model.User{
		Name:  m.auth.name.Value(),
		Email: m.auth.email.Value(),
		Role:  m.auth.role,
	})
	if err != nil {
		m.auth.err = err
		return m, nil, true
	}
	m.deps.Log.WithField("role", user.Role).Info("signed in")
	if user.Role == model.RoleHost {
		return m, navigateCmd("/host-dashboard", nil), true
	}
	return m, navigateCmd("/", nil), true
}

func (m appModel) authView() string {
	a := m.auth
	guest, host := "( ) guest", "( ) host"
	if a.role == model.RoleHost {
		host = "(x) host"
	} else {
		guest = "(x) guest"
	}
	rows := []string{
		accentStyle.Render("Sign in to VenueSpace"),
		"",
		cursorLine(a.focus == authFieldName, "Name   "+a.name.View()),
		cursorLine(a.focus == authFieldEmail, "Email  "+a.email.View()),
		cursorLine(a.focus == authFieldRole, "Role   "+guest+"  "+host),
		"",
		hint("Press enter on the role to sign in."),
	}
	if _, ok := m.currentUser(); ok {
		rows = append(rows, hint("ctrl+l signs you out."))
	}
	if a.notice != "" {
		rows = append(rows, "", a.notice)
	}
	if a.err != nil {
		rows = append(rows, "", errorStyle.Render(a.err.Error()))
	}
	return strings.Join(rows, "\n")
}
