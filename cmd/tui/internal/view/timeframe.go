package view

import (
	"errors"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/finflow/internal/ledger"
)

// Timeframe represents a predefined or custom date range selection.
type Timeframe int

const (
	TimeframeThisWeek Timeframe = iota
	TimeframeLastWeek
	TimeframeThisMonth
	TimeframeLastMonth
	TimeframeThisFinancialYear
	TimeframeLastFinancialYear
	TimeframeCustom
)

func (t Timeframe) String() string {
	switch t {
	case TimeframeThisWeek:
		return "This Week"
	case TimeframeLastWeek:
		return "Last Week"
	case TimeframeThisMonth:
		return "This Month"
	case TimeframeLastMonth:
		return "Last Month"
	case TimeframeThisFinancialYear:
		return "This Financial Year"
	case TimeframeLastFinancialYear:
		return "Last Financial Year"
	case TimeframeCustom:
		return "Custom Range"
	}

	return "Unknown"
}

// TimeframeRange returns the inclusive first and last day of tf as of now.
// Ranges that are still running end today.
func TimeframeRange(tf Timeframe, now time.Time) (time.Time, time.Time) {
	today := ledger.Day(now)

	var start, end time.Time

	switch tf {
	case TimeframeThisWeek:
		offset := int(today.Weekday())
		if offset == 0 {
			offset = 7
		}

		start = today.AddDate(0, 0, -offset+1)
		end = today
	case TimeframeLastWeek:
		offset := int(today.Weekday())
		if offset == 0 {
			offset = 7
		}

		end = today.AddDate(0, 0, -offset)
		start = end.AddDate(0, 0, -6)
	case TimeframeThisMonth:
		start = time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)
		end = today
	case TimeframeLastMonth:
		first := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)
		start = first.AddDate(0, -1, 0)
		end = first.AddDate(0, 0, -1)
	case TimeframeThisFinancialYear:
		start, _ = ledger.FinancialYearOf(today).Bounds()
		end = today
	case TimeframeLastFinancialYear:
		start, end = ledger.FinancialYearOf(today.AddDate(-1, 0, 0)).Bounds()
	}

	return start, end
}

// TimeframeSelectedMsg is emitted when the user has selected a valid date range.
type TimeframeSelectedMsg struct {
	Start time.Time
	End   time.Time
	Label string
}

type timeframeFields struct {
	frame Timeframe
	start string
	end   string
}

func (f *timeframeFields) customRange() (time.Time, time.Time, error) {
	start, err := time.Parse(time.DateOnly, strings.TrimSpace(f.start))
	if err != nil {
		return time.Time{}, time.Time{}, errors.New("start date must be YYYY-MM-DD")
	}

	end, err := time.Parse(time.DateOnly, strings.TrimSpace(f.end))
	if err != nil {
		return time.Time{}, time.Time{}, errors.New("end date must be YYYY-MM-DD")
	}

	if end.Before(start) {
		return time.Time{}, time.Time{}, errors.New("end date is before start date")
	}

	return start, end, nil
}

// TimeframePicker selects a preset or custom date range and emits TimeframeSelectedMsg.
type TimeframePicker struct {
	first  Timeframe
	fields *timeframeFields
	form   *huh.Form
	err    error
}

// NewTimeframePicker offers the presets from first onwards, plus a custom range.
func NewTimeframePicker(first Timeframe) TimeframePicker {
	m := TimeframePicker{first: first}
	m.Reset()

	return m
}

func (m TimeframePicker) Init() tea.Cmd {
	return m.form.Init()
}

func (m TimeframePicker) buildForm() *huh.Form {
	f := m.fields

	var opts []huh.Option[Timeframe]
	for tf := m.first; tf <= TimeframeCustom; tf++ {
		opts = append(opts, huh.NewOption(tf.String(), tf))
	}

	date := func(s string) error {
		if _, err := time.Parse(time.DateOnly, strings.TrimSpace(s)); err != nil {
			return errors.New("use YYYY-MM-DD")
		}
		return nil
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[Timeframe]().
				Title("Timeframe").
				Options(opts...).
				Value(&f.frame),
		),
		huh.NewGroup(
			huh.NewInput().Title("Start date").Placeholder("YYYY-MM-DD").Value(&f.start).Validate(date),
			huh.NewInput().Title("End date").Placeholder("YYYY-MM-DD").Value(&f.end).Validate(date),
		).WithHideFunc(func() bool { return f.frame != TimeframeCustom }),
	).WithWidth(40).WithShowHelp(false)
}

func (m TimeframePicker) Update(msg tea.Msg) (TimeframePicker, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.Reset()
		return m, m.form.Init()
	}

	if _, ok := msg.(tea.KeyMsg); ok {
		m.err = nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	f := *m.fields

	if f.frame != TimeframeCustom {
		start, end := TimeframeRange(f.frame, time.Now())
		label := f.frame.String()

		return m, func() tea.Msg { return TimeframeSelectedMsg{Start: start, End: end, Label: label} }
	}

	start, end, err := f.customRange()
	if err != nil {
		m.fields.end = ""
		m.form = m.buildForm()
		m.err = err

		return m, m.form.Init()
	}

	label := FormatDate(start) + " to " + FormatDate(end)

	return m, func() tea.Msg { return TimeframeSelectedMsg{Start: start, End: end, Label: label} }
}

func (m TimeframePicker) View() string {
	s := m.form.View() + "\n\n(Enter to select, Esc to back)"
	if m.err != nil {
		s += "\n\n" + lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render("Error: "+m.err.Error())
	}

	return s
}

// IsSelecting reports whether Esc should leave the picker rather than reset it.
func (m TimeframePicker) IsSelecting() bool {
	return m.fields.frame != TimeframeCustom || m.form.State == huh.StateCompleted
}

// Reset returns the picker to its first preset.
func (m *TimeframePicker) Reset() {
	m.fields = &timeframeFields{frame: m.first}
	m.form = m.buildForm()
}
