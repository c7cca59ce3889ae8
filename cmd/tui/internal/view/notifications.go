package view

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/finflow/internal/notify"
)

const notificationLimit = 20

type NotificationsModel struct {
	CommonModel

	events  []notify.Event
	pending int
	dropped uint64
}

func NewNotificationsModel(common CommonModel) NotificationsModel {
	m := NotificationsModel{CommonModel: common}
	m.refresh()

	return m
}

func (m NotificationsModel) Title() string     { return "Notifications" }
func (m NotificationsModel) ShortHelp() string { return "Esc: back | r: refresh | c: clear" }

func (m NotificationsModel) Init() tea.Cmd {
	return nil
}

func (m *NotificationsModel) refresh() {
	userID := m.Session.UserID()
	m.events = m.Services.Hub.Peek(userID, notificationLimit)
	m.pending, m.dropped = m.Services.Hub.Stats(userID)
}

func (m NotificationsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			m.refresh()
		case "c":
			m.Services.Hub.Clear(m.Session.UserID())
			m.refresh()
		}
	}

	return m, nil
}

func (m NotificationsModel) View() string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s  %s\n\n",
		lipgloss.NewStyle().Bold(true).Render("Latest changes"),
		lipgloss.NewStyle().Faint(true).Render(fmt.Sprintf("%d pending, %d dropped", m.pending, m.dropped)),
	)

	if len(m.events) == 0 {
		b.WriteString(lipgloss.NewStyle().Faint(true).Render("Nothing new."))
	}

	for _, e := range m.events {
		fmt.Fprintf(&b, "  %s  %s\n", e.At.Local().Format("2006-01-02 15:04"), m.accent(e.Description()))
	}

	return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
}
