package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/finflow/internal/ledger"
)

var (
	searchCategories = []string{"", "cash", "digital", "cheque"}
	categoryLabels   = []string{"All", "Cash", "Digital", "Cheques"}
)

type SearchModel struct {
	CommonModel

	input       textinput.Model
	table       table.Model
	results     []ledger.Record
	categoryIdx int
	searched    string
	err         error
}

func NewSearchModel(common CommonModel) SearchModel {
	ti := textinput.New()
	ti.Placeholder = "Party name"
	ti.CharLimit = 100
	ti.Width = 40
	ti.Focus()

	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "Kind", Width: 8},
			{Title: "Date", Width: 12},
			{Title: "Party", Width: 28},
			{Title: "Amount", Width: 16},
			{Title: "Dir", Width: 9},
			{Title: "Bank", Width: 18},
		}),
		table.WithHeight(15),
	)

	return SearchModel{CommonModel: common, input: ti, table: t}
}

func (m SearchModel) Title() string { return "Search" }

func (m SearchModel) ShortHelp() string {
	return "Enter: search | Tab: category | ↑/↓: results | Esc: back"
}

func (m SearchModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m SearchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case searchResultMsg:
		m.err = msg.err
		m.results = msg.records
		m.searched = msg.query

		rows := make([]table.Row, 0, len(msg.records))
		for _, r := range msg.records {
			e := r.Common()
			rows = append(rows, table.Row{
				string(r.Kind()),
				FormatDate(e.Date),
				truncate(e.Party, 28),
				FormatAmount(e.Amount),
				string(e.Direction),
				truncate(ledger.BankOf(r), 18),
			})
		}

		m.table.SetRows(rows)
		m.table.SetCursor(0)

		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyEsc:
			return m, Back
		case tea.KeyEnter:
			return m, m.searchCmd()
		case tea.KeyTab:
			m.categoryIdx = (m.categoryIdx + 1) % len(searchCategories)
			if strings.TrimSpace(m.input.Value()) != "" {
				return m, m.searchCmd()
			}

			return m, nil
		case tea.KeyUp, tea.KeyDown, tea.KeyPgUp, tea.KeyPgDown:
			var cmd tea.Cmd
			m.table, cmd = m.table.Update(msg)

			return m, cmd
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)

	return m, cmd
}

func (m SearchModel) View() string {
	header := fmt.Sprintf("Search %s   [Tab] Category: %s", m.input.View(), m.accent(categoryLabels[m.categoryIdx]))

	var body string

	switch {
	case m.err != nil:
		body = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render(fmt.Sprintf("Error: %v", m.err))
	case m.searched == "":
		body = lipgloss.NewStyle().Faint(true).Render("Type a party name and press Enter.")
	case len(m.results) == 0:
		body = lipgloss.NewStyle().Faint(true).Render(fmt.Sprintf("No transactions match %q.", m.searched))
	default:
		body = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("240")).
			Render(m.table.View())
	}

	return lipgloss.NewStyle().Padding(1).Render(lipgloss.JoinVertical(lipgloss.Left, header, "", body))
}

type searchResultMsg struct {
	query   string
	records []ledger.Record
	err     error
}

func (m SearchModel) searchCmd() tea.Cmd {
	svc := m.Services.Search
	userID := m.Session.UserID()
	query := strings.TrimSpace(m.input.Value())
	category := searchCategories[m.categoryIdx]

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		records, err := svc.Search(ctx, userID, query, category)

		return searchResultMsg{query: query, records: records, err: err}
	}
}
