package view

import (
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/finflow/internal/auth"
)

type loginMode string

const (
	loginModeSignIn loginMode = "Sign in"
	loginModeSignUp loginMode = "Create account"
)

type loginFields struct {
	mode     loginMode
	email    string
	password string
	fullName string
}

// LoggedInMsg carries the session created by a successful sign in.
type LoggedInMsg struct {
	Session Session
}

type LoginModel struct {
	svc    *auth.Service
	fields *loginFields
	form   *huh.Form
	busy   bool
	status string
	err    error
}

func NewLoginModel(svc *auth.Service) LoginModel {
	m := LoginModel{svc: svc, fields: &loginFields{mode: loginModeSignIn}}
	m.form = m.buildForm()

	return m
}

func (m LoginModel) Title() string { return "Sign in" }

func (m LoginModel) ShortHelp() string { return "Tab: next field | Enter: submit | Ctrl+C: quit" }

func (m LoginModel) Init() tea.Cmd {
	return m.form.Init()
}

func (m LoginModel) buildForm() *huh.Form {
	f := m.fields

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[loginMode]().
				Title("FinFlow").
				Options(
					huh.NewOption(string(loginModeSignIn), loginModeSignIn),
					huh.NewOption(string(loginModeSignUp), loginModeSignUp),
				).
				Value(&f.mode),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Email").
				Value(&f.email).
				Validate(func(s string) error {
					if !strings.Contains(s, "@") {
						return errors.New("enter an email address")
					}
					return nil
				}),
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(&f.password),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Full name").
				Value(&f.fullName),
		).WithHideFunc(func() bool { return f.mode != loginModeSignUp }),
	).WithWidth(50).WithShowHelp(false)
}

func (m LoginModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loginResultMsg:
		m.busy = false

		if msg.err != nil {
			m.err = msg.err
			m.fields.password = ""
			m.form = m.buildForm()

			return m, m.form.Init()
		}

		if msg.session != nil {
			session := *msg.session
			return m, func() tea.Msg { return LoggedInMsg{Session: session} }
		}

		m.err = nil
		m.status = fmt.Sprintf("Account created. Open the verification link sent to %s, then sign in.", m.fields.email)
		m.fields.mode = loginModeSignIn
		m.fields.password = ""
		m.form = m.buildForm()

		return m, m.form.Init()
	}

	if m.busy {
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	m.busy = true

	return m, m.submitCmd()
}

func (m LoginModel) View() string {
	var notice string

	switch {
	case m.err != nil:
		notice = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render(loginError(m.err)) + "\n\n"
	case m.status != "":
		notice = lipgloss.NewStyle().Foreground(lipgloss.Color("46")).Render(m.status) + "\n\n"
	}

	if m.busy {
		return lipgloss.NewStyle().Padding(2).Render(notice + "Signing in...")
	}

	return lipgloss.NewStyle().Padding(2).Render(notice + m.form.View())
}

func loginError(err error) string {
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		return "Invalid email or password."
	case errors.Is(err, auth.ErrNotVerified):
		return "Verify your email address before signing in."
	case errors.Is(err, auth.ErrEmailTaken):
		return "That email is already registered."
	}

	return fmt.Sprintf("Error: %v", err)
}

type loginResultMsg struct {
	session *Session
	err     error
}

func (m LoginModel) submitCmd() tea.Cmd {
	f := *m.fields

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		if f.mode == loginModeSignUp {
			_, err := m.svc.SignUp(ctx, auth.SignUpParams{Email: f.email, Password: f.password, FullName: f.fullName})
			return loginResultMsg{err: err}
		}

		tok, u, err := m.svc.SignIn(ctx, f.email, f.password)
		if err != nil {
			return loginResultMsg{err: err}
		}

		sess, err := m.svc.Authenticate(ctx, tok.Value)
		if err != nil {
			return loginResultMsg{err: err}
		}

		return loginResultMsg{session: &Session{User: u, Token: sess}}
	}
}
