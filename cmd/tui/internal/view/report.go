package view

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/finflow/internal/report"
)

const reportTimeout = 2 * time.Minute

type reportState int

const (
	reportStateTimeframe reportState = iota
	reportStateLoadingBanks
	reportStateOptions
	reportStateGenerating
	reportStateResult
)

type reportFields struct {
	kind   report.Type
	bank   string
	format report.Format
	dir    string
}

type ReportModel struct {
	CommonModel

	state           reportState
	err             error
	timeframePicker TimeframePicker

	start time.Time
	end   time.Time
	label string
	banks []string

	fields  *reportFields
	form    *huh.Form
	spinner spinner.Model
	summary string
}

func NewReportModel(common CommonModel) ReportModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(common.Session.Accent())

	return ReportModel{
		CommonModel:     common,
		state:           reportStateTimeframe,
		timeframePicker: NewTimeframePicker(TimeframeThisWeek),
		fields:          &reportFields{kind: report.TypeAll, format: report.FormatPDF, dir: "./reports"},
		spinner:         s,
	}
}

func (m ReportModel) Title() string { return "Reports" }

func (m ReportModel) ShortHelp() string {
	switch m.state {
	case reportStateResult:
		return "Esc: back to menu"
	case reportStateGenerating, reportStateLoadingBanks:
		return "Working..."
	}

	return "Esc: back | Enter: confirm"
}

func (m ReportModel) Init() tea.Cmd {
	return m.timeframePicker.Init()
}

func (m ReportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case TimeframeSelectedMsg:
		m.start, m.end, m.label = msg.Start, msg.End, msg.Label
		m.state = reportStateLoadingBanks

		return m, tea.Batch(m.spinner.Tick, m.loadBanksCmd())

	case reportBanksMsg:
		if msg.err != nil {
			m.state = reportStateResult
			m.err = msg.err

			return m, nil
		}

		m.banks = msg.banks
		m.form = m.buildOptionsForm()
		m.state = reportStateOptions

		return m, m.form.Init()
	}

	switch m.state {
	case reportStateTimeframe:
		return m.updateTimeframe(msg)
	case reportStateOptions:
		return m.updateOptions(msg)
	case reportStateLoadingBanks, reportStateGenerating:
		return m.updateWorking(msg)
	case reportStateResult:
		if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
			return m, Back
		}
	}

	return m, nil
}

func (m ReportModel) updateTimeframe(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc && m.timeframePicker.IsSelecting() {
			return m, Back
		}
	}

	var cmd tea.Cmd
	m.timeframePicker, cmd = m.timeframePicker.Update(msg)

	return m, cmd
}

func (m ReportModel) updateOptions(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = reportStateTimeframe
		m.timeframePicker.Reset()

		return m, m.timeframePicker.Init()
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	m.state = reportStateGenerating
	m.err = nil

	return m, tea.Batch(m.spinner.Tick, m.generateCmd())
}

func (m ReportModel) updateWorking(msg tea.Msg) (tea.Model, tea.Cmd) {
	if result, ok := msg.(reportResultMsg); ok {
		m.state = reportStateResult
		m.err = result.err
		m.summary = result.summary

		return m, nil
	}

	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(msg)

	return m, cmd
}

func (m ReportModel) buildOptionsForm() *huh.Form {
	f := m.fields

	types := []huh.Option[report.Type]{
		huh.NewOption("Complete", report.TypeAll),
		huh.NewOption("Cash only", report.TypeCashOnly),
		huh.NewOption("Digital & cheque", report.TypeDigitalCheque),
	}

	if len(m.banks) > 0 {
		types = append(types, huh.NewOption("Single bank", report.TypeBankWise))
		f.bank = m.banks[0]
	} else if f.kind == report.TypeBankWise {
		f.kind = report.TypeAll
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[report.Type]().
				Title("Report").
				Description(m.label).
				Options(types...).
				Value(&f.kind),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Bank").
				Options(huh.NewOptions(m.banks...)...).
				Value(&f.bank),
		).WithHideFunc(func() bool { return f.kind != report.TypeBankWise }),
		huh.NewGroup(
			huh.NewSelect[report.Format]().
				Title("Format").
				Options(
					huh.NewOption("PDF", report.FormatPDF),
					huh.NewOption("Excel", report.FormatXLSX),
				).
				Value(&f.format),
			huh.NewInput().
				Title("Output Path").
				Description("Directory will be created if it doesn't exist").
				Placeholder("./reports").
				Value(&f.dir),
		),
	).WithWidth(50).WithShowHelp(false)
}

func (m ReportModel) View() string {
	switch m.state {
	case reportStateTimeframe:
		return lipgloss.NewStyle().Padding(1).Render(m.timeframePicker.View())
	case reportStateLoadingBanks:
		return lipgloss.NewStyle().Padding(1).Render(m.spinner.View() + " Looking up banks...")
	case reportStateOptions:
		return lipgloss.NewStyle().Padding(1).Render(m.form.View())
	case reportStateGenerating:
		return lipgloss.NewStyle().Padding(1).Render(m.spinner.View() + " Generating report...")
	case reportStateResult:
		return m.viewResult()
	}

	return ""
}

func (m ReportModel) viewResult() string {
	if m.err != nil {
		return lipgloss.NewStyle().Padding(1).Render(
			lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render(fmt.Sprintf("Error: %v", m.err)),
		)
	}

	header := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("46")).
		Render("Report Ready")

	return lipgloss.NewStyle().Padding(1).Render(
		lipgloss.JoinVertical(lipgloss.Left, header, "", m.summary),
	)
}

type reportBanksMsg struct {
	banks []string
	err   error
}

func (m ReportModel) loadBanksCmd() tea.Cmd {
	svc := m.Services.Reports
	userID := m.Session.UserID()
	start, end := m.start, m.end

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		banks, err := svc.Banks(ctx, userID, start, end)

		return reportBanksMsg{banks: banks, err: err}
	}
}

type reportResultMsg struct {
	summary string
	err     error
}

func (m ReportModel) generateCmd() tea.Cmd {
	svc := m.Services.Reports
	userID := m.Session.UserID()
	f := *m.fields
	req := report.Request{Start: m.start, End: m.end, Type: f.kind}

	if f.kind == report.TypeBankWise {
		req.Bank = f.bank
	}

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), reportTimeout)
		defer cancel()

		rep, err := svc.Generate(ctx, userID, req)
		if err != nil {
			return reportResultMsg{err: err}
		}

		path, err := writeReport(rep, f.format, f.dir)
		if err != nil {
			return reportResultMsg{err: err}
		}

		return reportResultMsg{summary: reportSummary(rep, path)}
	}
}

func writeReport(rep *report.Report, format report.Format, dir string) (string, error) {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		dir = "."
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	path := filepath.Join(dir, rep.Request.Filename(format))

	out, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create report file: %w", err)
	}
	defer out.Close()

	if format == report.FormatXLSX {
		err = report.WriteXLSX(out, rep)
	} else {
		err = report.WritePDF(out, rep)
	}

	if err != nil {
		return "", err
	}

	return path, out.Close()
}

func reportSummary(rep *report.Report, path string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s\n%s to %s\n\n", rep.Request.Title(), FormatDate(rep.Request.Start), FormatDate(rep.Request.End))

	for _, s := range rep.Sections {
		fmt.Fprintf(&b, "  %-40s %4d rows  net %s\n", s.Title(), len(s.Rows), FormatAmount(s.Net()))
	}

	fmt.Fprintf(&b, "\nGrand total %s\nSaved to %s", FormatAmount(rep.GrandTotal()), path)

	return b.String()
}
