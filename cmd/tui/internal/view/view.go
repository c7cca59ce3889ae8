package view

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/finflow/internal/auth"
	"github.com/MrJamesThe3rd/finflow/internal/cash"
	"github.com/MrJamesThe3rd/finflow/internal/cheque"
	"github.com/MrJamesThe3rd/finflow/internal/dashboard"
	"github.com/MrJamesThe3rd/finflow/internal/digital"
	"github.com/MrJamesThe3rd/finflow/internal/notify"
	"github.com/MrJamesThe3rd/finflow/internal/report"
	"github.com/MrJamesThe3rd/finflow/internal/search"
	"github.com/MrJamesThe3rd/finflow/internal/statement"
)

// View is the interface that all TUI screens implement.
type View interface {
	tea.Model
	Title() string
	ShortHelp() string
}

// Services are the domain services the screens call directly.
type Services struct {
	Auth       *auth.Service
	Cash       *cash.Service
	Cheques    *cheque.Service
	Digital    *digital.Service
	Dashboard  *dashboard.Service
	Reports    *report.Service
	Search     *search.Service
	Statements *statement.Service
	Hub        *notify.Hub
}

// Session is the signed-in user, passed to every screen.
type Session struct {
	User  *auth.User
	Token auth.Session
}

func (s Session) UserID() uuid.UUID {
	return s.Token.UserID
}

// Accent is the highlight colour for the user's theme.
func (s Session) Accent() lipgloss.Color {
	if s.User != nil && s.User.Theme == auth.ThemeLight {
		return lipgloss.Color("25")
	}

	return lipgloss.Color("205")
}

// CommonModel is embedded by all views.
type CommonModel struct {
	Session  Session
	Services Services
}

func (c CommonModel) accent(s string) string {
	return lipgloss.NewStyle().Foreground(c.Session.Accent()).Render(s)
}

type BackMsg struct{}

func Back() tea.Msg {
	return BackMsg{}
}
