package view

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/finflow/internal/dashboard"
	"github.com/MrJamesThe3rd/finflow/internal/ledger"
)

type DashboardModel struct {
	CommonModel

	summary dashboard.Summary
	banks   []dashboard.BankTotal
	loading bool
	err     error
}

func NewDashboardModel(common CommonModel) DashboardModel {
	return DashboardModel{
		CommonModel: common,
		summary:     dashboard.Zero(),
		loading:     true,
	}
}

func (m DashboardModel) Title() string     { return "Dashboard" }
func (m DashboardModel) ShortHelp() string { return "Esc: back | r: refresh" }

func (m DashboardModel) Init() tea.Cmd {
	return m.loadCmd()
}

type dashboardLoadedMsg struct {
	summary dashboard.Summary
	banks   []dashboard.BankTotal
	err     error
}

func (m DashboardModel) loadCmd() tea.Cmd {
	svc := m.Services.Dashboard
	userID := m.Session.UserID()

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		summary, err := svc.Summary(ctx, userID)
		if err != nil {
			return dashboardLoadedMsg{summary: dashboard.Zero(), err: err}
		}

		banks, err := svc.Banks(ctx, userID)

		return dashboardLoadedMsg{summary: summary, banks: banks, err: err}
	}
}

func (m DashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case dashboardLoadedMsg:
		m.loading = false
		m.summary = msg.summary
		m.banks = msg.banks
		m.err = msg.err

		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadCmd()
		}
	}

	return m, nil
}

func (m DashboardModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading dashboard...")
	}

	var b strings.Builder

	s := m.summary
	fmt.Fprintf(&b, "%s %s\n\n", lipgloss.NewStyle().Bold(true).Render("Total inflow"), m.accent(FormatAmount(s.TotalInflow)))
	fmt.Fprintf(&b, "  Cash      %4d  %s\n", s.CashTransactions, FormatAmount(s.CashAmount))
	fmt.Fprintf(&b, "  Cheques   %4d  %s\n", s.ChequeTransactions, FormatAmount(s.ChequeAmount))
	fmt.Fprintf(&b, "  Digital   %4d  %s\n", s.DigitalTransactions, FormatAmount(s.DigitalAmount))

	b.WriteString("\nRecent\n")

	if len(s.Recent) == 0 {
		b.WriteString(lipgloss.NewStyle().Faint(true).Render("  No transactions this financial year.") + "\n")
	}

	for _, r := range s.Recent {
		e := r.Common()
		fmt.Fprintf(&b, "  %s  %-8s %-24s %14s %s\n",
			FormatDate(e.Date), r.Kind(), truncate(e.Party, 24), FormatAmount(e.Amount), directionArrow(e.Direction))
	}

	if len(m.banks) > 0 {
		b.WriteString("\nBy bank\n")

		for _, bt := range m.banks {
			fmt.Fprintf(&b, "  %-24s %14s\n", truncate(bt.Name, 24), FormatAmount(bt.Amount))
		}
	}

	if m.err != nil {
		b.WriteString("\n" + lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render(fmt.Sprintf("Error: %v", m.err)))
	}

	return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
}

func directionArrow(d ledger.Direction) string {
	if d == ledger.DirectionOutgoing {
		return lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render("↑")
	}

	return lipgloss.NewStyle().Foreground(lipgloss.Color("46")).Render("↓")
}
