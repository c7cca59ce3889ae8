package view

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/finflow/internal/digital"
	"github.com/MrJamesThe3rd/finflow/internal/ledger"
)

const importTimeout = 2 * time.Minute

// autoDetectBank leaves the bank name to the statement layout.
const autoDetectBank = ""

var importBanks = []string{autoDetectBank, "SBI", "HDFC Bank", "ICICI Bank"}

type importStage int

const (
	importStageBank importStage = iota
	importStageFile
	importStageWorking
	importStageReview
	importStageDone
)

type ImportModel struct {
	CommonModel

	stage      importStage
	bank       *string
	bankForm   *huh.Form
	filePicker filepicker.Model
	file       string

	pending   []digital.CreateParams
	conflicts []digital.Conflict
	keep      []bool
	review    table.Model

	summary string
	err     error
}

func NewImportModel(common CommonModel) ImportModel {
	fp := filepicker.New()
	fp.CurrentDirectory, _ = os.Getwd()
	fp.AllowedTypes = []string{".csv", ".txt"}
	fp.DirAllowed = false
	fp.FileAllowed = true
	fp.SetHeight(15)

	m := ImportModel{CommonModel: common, filePicker: fp}
	m.resetBank()

	return m
}

func (m *ImportModel) resetBank() {
	bank := autoDetectBank
	m.bank = &bank

	opts := make([]huh.Option[string], len(importBanks))
	for i, b := range importBanks {
		label := b
		if b == autoDetectBank {
			label = "Detect from statement"
		}

		opts[i] = huh.NewOption(label, b)
	}

	m.bankForm = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Bank").
				Description("Overrides the bank named by the statement layout").
				Options(opts...).
				Value(m.bank),
		),
	).WithWidth(50).WithShowHelp(false)
}

func (m ImportModel) Title() string { return "Import Bank Statement" }

func (m ImportModel) ShortHelp() string {
	switch m.stage {
	case importStageReview:
		return "Space: keep/skip | a: keep all | n: skip all | Enter: import | Esc: cancel"
	case importStageWorking:
		return "Importing..."
	}

	return "Esc: back | Enter: select"
}

func (m ImportModel) Init() tea.Cmd {
	return m.bankForm.Init()
}

func (m ImportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case statementCheckedMsg:
		return m.handleChecked(msg), nil
	case statementImportedMsg:
		m.stage = importStageDone
		m.err = msg.err
		m.summary = fmt.Sprintf("Imported %d transfers from %s.", msg.count, m.file)

		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			return m.back()
		}
	}

	switch m.stage {
	case importStageBank:
		return m.updateBank(msg)
	case importStageFile:
		return m.updateFile(msg)
	case importStageReview:
		return m.updateReview(msg)
	}

	return m, nil
}

func (m ImportModel) back() (tea.Model, tea.Cmd) {
	switch m.stage {
	case importStageBank:
		return m, Back
	case importStageWorking:
		return m, nil
	}

	m.stage = importStageBank
	m.err = nil
	m.pending, m.conflicts, m.keep = nil, nil, nil
	m.resetBank()

	return m, m.bankForm.Init()
}

func (m ImportModel) updateBank(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := m.bankForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.bankForm = f
	}

	if m.bankForm.State != huh.StateCompleted {
		return m, cmd
	}

	m.stage = importStageFile

	return m, m.filePicker.Init()
}

func (m ImportModel) updateFile(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.filePicker, cmd = m.filePicker.Update(msg)

	if ok, path := m.filePicker.DidSelectFile(msg); ok {
		m.file = path
		m.stage = importStageWorking

		return m, m.checkCmd(path)
	}

	return m, cmd
}

func (m ImportModel) handleChecked(msg statementCheckedMsg) ImportModel {
	if msg.err != nil {
		m.stage = importStageDone
		m.err = msg.err

		return m
	}

	if len(msg.result.Conflicts) == 0 {
		m.stage = importStageDone
		m.summary = fmt.Sprintf("Imported %d transfers from %s.", len(msg.result.Imported), m.file)

		return m
	}

	m.stage = importStageReview
	m.pending = msg.result.New
	m.conflicts = msg.result.Conflicts
	m.keep = make([]bool, len(msg.result.Conflicts))
	m.review = table.New(
		table.WithColumns([]table.Column{
			{Title: "Keep", Width: 5},
			{Title: "Date", Width: 12},
			{Title: "Amount", Width: 14},
			{Title: "Dir", Width: 9},
			{Title: "Statement party", Width: 26},
			{Title: "Already stored as", Width: 26},
			{Title: "Reference", Width: 14},
		}),
		table.WithFocused(true),
		table.WithHeight(min(len(m.conflicts)+1, 15)),
	)
	m.refreshReview()

	return m
}

func (m *ImportModel) refreshReview() {
	rows := make([]table.Row, len(m.conflicts))
	for i, c := range m.conflicts {
		mark := "skip"
		if m.keep[i] {
			mark = "keep"
		}

		rows[i] = table.Row{
			mark,
			FormatDate(c.Incoming.Date),
			FormatAmount(c.Incoming.Amount),
			string(c.Incoming.Direction),
			truncate(c.Incoming.Party, 26),
			truncate(c.Existing.Party, 26),
			truncate(c.Incoming.ReferenceNumber, 14),
		}
	}

	m.review.SetRows(rows)
}

func (m ImportModel) updateReview(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case " ":
			if i := m.review.Cursor(); i >= 0 && i < len(m.keep) {
				m.keep[i] = !m.keep[i]
				m.refreshReview()
			}

			return m, nil
		case "a", "n":
			for i := range m.keep {
				m.keep[i] = keyMsg.String() == "a"
			}

			m.refreshReview()

			return m, nil
		case "enter":
			m.stage = importStageWorking
			return m, m.confirmCmd()
		}
	}

	var cmd tea.Cmd
	m.review, cmd = m.review.Update(msg)

	return m, cmd
}

func (m ImportModel) View() string {
	pad := lipgloss.NewStyle().Padding(1, 2)

	switch m.stage {
	case importStageBank:
		return pad.Render(m.bankForm.View())
	case importStageFile:
		bank := *m.bank
		if bank == autoDetectBank {
			bank = "bank from statement"
		}

		return pad.Render(fmt.Sprintf("Pick a statement (%s):\n\n%s", bank, m.filePicker.View()))
	case importStageWorking:
		return pad.Render("Importing " + m.file + "...")
	case importStageReview:
		kept := 0
		for _, k := range m.keep {
			if k {
				kept++
			}
		}

		header := fmt.Sprintf("%d new transfers ready. %d rows match stored transfers; %d marked to import anyway.",
			len(m.pending), len(m.conflicts), kept)

		return pad.Render(lipgloss.JoinVertical(lipgloss.Left, header, "", m.review.View()))
	case importStageDone:
		if m.err != nil {
			return pad.Render(lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render(importError(m.err)) + "\n\n(Esc to go back)")
		}

		return pad.Render(lipgloss.NewStyle().Foreground(lipgloss.Color("46")).Render(m.summary) + "\n\n(Esc to go back)")
	}

	return ""
}

func importError(err error) string {
	var fe *ledger.FieldError
	if errors.As(err, &fe) && fe.Field == "bank_name" {
		return "This statement layout does not name its bank. Go back and pick one."
	}

	return "Error: " + err.Error()
}

type statementCheckedMsg struct {
	result *digital.ImportResult
	err    error
}

type statementImportedMsg struct {
	count int
	err   error
}

func (m ImportModel) checkCmd(path string) tea.Cmd {
	svc := m.Services.Statements
	userID := m.Session.UserID()
	bank := *m.bank

	return func() tea.Msg {
		f, err := os.Open(path)
		if err != nil {
			return statementCheckedMsg{err: err}
		}
		defer f.Close()

		ctx, cancel := context.WithTimeout(context.Background(), importTimeout)
		defer cancel()

		result, err := svc.Import(ctx, userID, f, bank)

		return statementCheckedMsg{result: result, err: err}
	}
}

func (m ImportModel) confirmCmd() tea.Cmd {
	svc := m.Services.Digital
	userID := m.Session.UserID()

	params := append([]digital.CreateParams{}, m.pending...)
	for i, c := range m.conflicts {
		if m.keep[i] {
			params = append(params, c.Incoming)
		}
	}

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), importTimeout)
		defer cancel()

		created, err := svc.CreateBatch(ctx, userID, params)

		return statementImportedMsg{count: len(created), err: err}
	}
}
