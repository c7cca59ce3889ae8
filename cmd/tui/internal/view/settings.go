package view

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/finflow/internal/auth"
)

type profileFields struct {
	fullName string
	theme    auth.Theme
}

// ProfileUpdatedMsg carries the user after a successful profile change.
type ProfileUpdatedMsg struct {
	User *auth.User
}

type SettingsModel struct {
	CommonModel

	fields *profileFields
	form   *huh.Form
	saving bool
	err    error
}

func NewSettingsModel(common CommonModel) SettingsModel {
	f := &profileFields{theme: auth.ThemeSystem}
	if u := common.Session.User; u != nil {
		f.fullName = u.FullName
		if u.Theme.Valid() {
			f.theme = u.Theme
		}
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Full name").
				Value(&f.fullName),
			huh.NewSelect[auth.Theme]().
				Title("Theme").
				Options(
					huh.NewOption("System", auth.ThemeSystem),
					huh.NewOption("Light", auth.ThemeLight),
					huh.NewOption("Dark", auth.ThemeDark),
				).
				Value(&f.theme),
		),
	).WithWidth(50).WithShowHelp(false)

	return SettingsModel{CommonModel: common, fields: f, form: form}
}

func (m SettingsModel) Title() string     { return "Settings" }
func (m SettingsModel) ShortHelp() string { return "Enter: save | Esc: back" }

func (m SettingsModel) Init() tea.Cmd {
	return m.form.Init()
}

func (m SettingsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case settingsSavedMsg:
		m.saving = false

		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		user := msg.user

		return m, tea.Sequence(
			func() tea.Msg { return ProfileUpdatedMsg{User: user} },
			Back,
		)
	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			return m, Back
		}
	}

	if m.saving {
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	m.saving = true

	return m, m.saveCmd()
}

func (m SettingsModel) View() string {
	content := m.form.View()

	if u := m.Session.User; u != nil {
		content = lipgloss.NewStyle().Faint(true).Render(u.Email) + "\n\n" + content
	}

	if m.err != nil {
		content += "\n\n" + lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render(fmt.Sprintf("Error: %v", m.err))
	}

	return lipgloss.NewStyle().Padding(1, 2).Render(content)
}

type settingsSavedMsg struct {
	user *auth.User
	err  error
}

func (m SettingsModel) saveCmd() tea.Cmd {
	svc := m.Services.Auth
	userID := m.Session.UserID()
	name, theme := m.fields.fullName, m.fields.theme

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		u, err := svc.UpdateProfile(ctx, userID, auth.ProfileParams{FullName: &name, Theme: &theme})

		return settingsSavedMsg{user: u, err: err}
	}
}
