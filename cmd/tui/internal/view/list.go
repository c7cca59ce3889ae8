package view

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/finflow/internal/ledger"
)

type listState int

const (
	listStateBrowse listState = iota
	listStateSearch
	listStateAdd
)

var (
	directionFilters = []*ledger.Direction{nil, new(ledger.DirectionIncoming), new(ledger.DirectionOutgoing)}
	directionLabels  = []string{"All", "Incoming", "Outgoing"}

	dateFilters = []Timeframe{TimeframeThisFinancialYear, TimeframeThisMonth, TimeframeLastMonth, TimeframeLastFinancialYear}
)

type ListModel struct {
	CommonModel
	book book

	state   listState
	table   table.Model
	records []ledger.Record
	form    *huh.Form
	fields  *entryFields
	search  textinput.Model

	directionIdx int
	dateIdx      int
	term         string

	loading bool
	err     error
	status  string
}

func NewListModel(common CommonModel, kind ledger.Kind) ListModel {
	var b book

	switch kind {
	case ledger.KindCheque:
		b = chequeBook{svc: common.Services.Cheques}
	case ledger.KindDigital:
		b = digitalBook{svc: common.Services.Digital}
	default:
		b = cashBook{svc: common.Services.Cash}
	}

	t := table.New(
		table.WithColumns(b.columns()),
		table.WithFocused(true),
		table.WithHeight(15),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	ti := textinput.New()
	ti.Placeholder = "party, description, bank, reference..."
	ti.CharLimit = 100
	ti.Width = 40

	return ListModel{
		CommonModel: common,
		book:        b,
		table:       t,
		search:      ti,
		loading:     true,
	}
}

func (m ListModel) Title() string {
	switch m.book.kind() {
	case ledger.KindCheque:
		return "Cheques"
	case ledger.KindDigital:
		return "Digital Transfers"
	}

	return "Cash Transactions"
}

func (m ListModel) ShortHelp() string {
	switch m.state {
	case listStateAdd:
		return "Navigate form | Esc: cancel"
	case listStateSearch:
		return "Enter: apply | Esc: cancel"
	}

	help := "Esc: back | a: add | x: delete | /: search | f: direction | d: dates | r: refresh"
	if m.book.kind() == ledger.KindCheque {
		help += " | c: next status"
	}

	return help
}

func (m ListModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m ListModel) filter() ledger.Filter {
	start, end := TimeframeRange(dateFilters[m.dateIdx], time.Now())

	return ledger.Filter{
		UserID:    m.Session.UserID(),
		Direction: directionFilters[m.directionIdx],
		StartDate: &start,
		EndDate:   &end,
		Term:      m.term,
	}
}

func (m ListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case listLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.err = nil
		m.records = msg.records
		m.refreshTable()

		return m, nil

	case listChangedMsg:
		m.status = msg.status
		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
		}

		m.state = listStateBrowse
		m.form = nil
		m.table.Focus()

		return m, m.loadCmd()

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 10)
		return m, nil
	}

	switch m.state {
	case listStateSearch:
		return m.updateSearch(msg)
	case listStateAdd:
		return m.updateAdd(msg)
	}

	return m.updateBrowse(msg)
}

func (m ListModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadCmd()
		case "f":
			m.directionIdx = (m.directionIdx + 1) % len(directionFilters)
			return m, m.loadCmd()
		case "d":
			m.dateIdx = (m.dateIdx + 1) % len(dateFilters)
			return m, m.loadCmd()
		case "/":
			m.state = listStateSearch
			m.search.SetValue(m.term)
			m.search.Focus()
			m.table.Blur()

			return m, textinput.Blink
		case "a":
			return m.enterAddMode()
		case "x":
			return m, m.deleteCmd()
		case "c":
			return m, m.nextStatusCmd()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m ListModel) updateSearch(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.Type {
		case tea.KeyEsc:
			m.state = listStateBrowse
			m.search.Blur()
			m.table.Focus()

			return m, nil
		case tea.KeyEnter:
			m.term = strings.TrimSpace(m.search.Value())
			m.state = listStateBrowse
			m.search.Blur()
			m.table.Focus()

			return m, m.loadCmd()
		}
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)

	return m, cmd
}

func requiredText(name string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s cannot be empty", name)
		}
		return nil
	}
}

func (m ListModel) enterAddMode() (tea.Model, tea.Cmd) {
	f := newEntryFields(time.Now())
	m.fields = f

	common := huh.NewGroup(
		huh.NewInput().Title("Date").Placeholder("YYYY-MM-DD").Value(&f.date).
			Validate(func(s string) error {
				if _, err := time.Parse(time.DateOnly, strings.TrimSpace(s)); err != nil {
					return errors.New("use YYYY-MM-DD")
				}
				return nil
			}),
		huh.NewInput().Title("Party").Value(&f.party).Validate(requiredText("party")),
		huh.NewInput().Title("Amount (₹)").Placeholder("1250.50").Value(&f.amount).
			Validate(func(s string) error {
				_, err := parseAmount(s)
				return err
			}),
		huh.NewSelect[ledger.Direction]().Title("Direction").
			Options(
				huh.NewOption("Incoming", ledger.DirectionIncoming),
				huh.NewOption("Outgoing", ledger.DirectionOutgoing),
			).
			Value(&f.direction),
		huh.NewInput().Title("Description").Value(&f.description),
	)

	groups := []*huh.Group{common}

	switch m.book.kind() {
	case ledger.KindCheque:
		groups = append(groups, huh.NewGroup(
			huh.NewInput().Title("Cheque number").Value(&f.chequeNumber).Validate(requiredText("cheque number")),
			huh.NewInput().Title("Bank").Value(&f.bank).Validate(requiredText("bank")),
			huh.NewSelect[ledger.ChequeStatus]().Title("Status").
				Options(
					huh.NewOption("Pending", ledger.ChequePending),
					huh.NewOption("Cleared", ledger.ChequeCleared),
					huh.NewOption("Bounced", ledger.ChequeBounced),
					huh.NewOption("Cancelled", ledger.ChequeCancelled),
				).
				Value(&f.status),
		))
	case ledger.KindDigital:
		groups = append(groups, huh.NewGroup(
			huh.NewInput().Title("Bank").Value(&f.bank).Validate(requiredText("bank")),
			huh.NewSelect[ledger.TransferType]().Title("Transfer type").
				Options(
					huh.NewOption("NEFT", ledger.TransferNEFT),
					huh.NewOption("IMPS", ledger.TransferIMPS),
					huh.NewOption("UPI", ledger.TransferUPI),
					huh.NewOption("RTGS", ledger.TransferRTGS),
				).
				Value(&f.transferType),
			huh.NewInput().Title("Reference").Value(&f.reference),
		))
	}

	m.form = huh.NewForm(groups...).WithWidth(45).WithShowHelp(false)
	m.state = listStateAdd
	m.table.Blur()

	return m, m.form.Init()
}

func (m ListModel) updateAdd(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = listStateBrowse
		m.form = nil
		m.table.Focus()

		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	m.state = listStateBrowse
	m.form = nil
	m.table.Focus()
	m.status = "Saving..."

	return m, m.createCmd()
}

func (m ListModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading transactions...")
	}

	header := fmt.Sprintf(
		"%s | [f] Direction: %s | [d] Dates: %s",
		lipgloss.NewStyle().Bold(true).Render(m.Title()),
		m.accent(directionLabels[m.directionIdx]),
		m.accent(dateFilters[m.dateIdx].String()),
	)

	if m.term != "" {
		header += " | Search: " + m.accent(m.term)
	}

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		tableView,
		m.totals(),
	)

	if m.state == listStateSearch {
		content = lipgloss.JoinVertical(lipgloss.Left, "Search: "+m.search.View(), content)
	}

	if m.state == listStateAdd && m.form != nil {
		panel := lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Width(48).
			Render("New " + string(m.book.kind()) + " transaction\n\n" + m.form.View())

		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel)
	}

	if m.err != nil {
		content = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render(fmt.Sprintf("Error: %v", m.err)) + "\n" + content
	} else if m.status != "" {
		content = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func (m ListModel) totals() string {
	var in, out int64

	for _, r := range m.records {
		e := r.Common()
		if e.Direction == ledger.DirectionOutgoing {
			out += e.Amount
		} else {
			in += e.Amount
		}
	}

	return lipgloss.NewStyle().Faint(true).Render(fmt.Sprintf(
		"%d records | in %s | out %s | net %s",
		len(m.records), FormatAmount(in), FormatAmount(out), FormatAmount(in-out),
	))
}

func (m *ListModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.records))
	for _, r := range m.records {
		rows = append(rows, m.book.row(r))
	}

	m.table.SetRows(rows)
}

func (m ListModel) selected() ledger.Record {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.records) {
		return nil
	}

	return m.records[idx]
}

type listLoadedMsg struct {
	records []ledger.Record
	err     error
}

func (m ListModel) loadCmd() tea.Cmd {
	b := m.book
	filter := m.filter()

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		records, err := b.list(ctx, filter)

		return listLoadedMsg{records: records, err: err}
	}
}

type listChangedMsg struct {
	status string
	err    error
}

func (m ListModel) createCmd() tea.Cmd {
	b := m.book
	f := m.fields
	userID := m.Session.UserID()

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		if err := b.create(ctx, userID, f); err != nil {
			return listChangedMsg{err: err}
		}

		return listChangedMsg{status: fmt.Sprintf("Added %s for %s", FormatAmount(mustPaise(f.amount)), strings.TrimSpace(f.party))}
	}
}

func mustPaise(s string) int64 {
	p, _ := parseAmount(s)
	return p
}

func (m ListModel) deleteCmd() tea.Cmd {
	r := m.selected()
	if r == nil {
		return nil
	}

	b := m.book
	userID := m.Session.UserID()
	e := r.Common()

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		if err := b.remove(ctx, userID, e.ID); err != nil {
			return listChangedMsg{err: err}
		}

		return listChangedMsg{status: fmt.Sprintf("Deleted %s for %s", FormatAmount(e.Amount), e.Party)}
	}
}

func (m ListModel) nextStatusCmd() tea.Cmd {
	cb, ok := m.book.(chequeBook)
	if !ok {
		return nil
	}

	c, ok := m.selected().(*ledger.Cheque)
	if !ok {
		return nil
	}

	userID := m.Session.UserID()

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		status, err := cb.nextStatus(ctx, userID, c)
		if err != nil {
			return listChangedMsg{err: err}
		}

		return listChangedMsg{status: fmt.Sprintf("Cheque %s is now %s", c.ChequeNumber, status)}
	}
}
