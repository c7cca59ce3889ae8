package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/finflow/cmd/tui/internal/view"
	"github.com/MrJamesThe3rd/finflow/internal/auth"
	authStore "github.com/MrJamesThe3rd/finflow/internal/auth/store"
	"github.com/MrJamesThe3rd/finflow/internal/cash"
	cashStore "github.com/MrJamesThe3rd/finflow/internal/cash/store"
	"github.com/MrJamesThe3rd/finflow/internal/cheque"
	chequeStore "github.com/MrJamesThe3rd/finflow/internal/cheque/store"
	"github.com/MrJamesThe3rd/finflow/internal/config"
	"github.com/MrJamesThe3rd/finflow/internal/dashboard"
	"github.com/MrJamesThe3rd/finflow/internal/database"
	"github.com/MrJamesThe3rd/finflow/internal/digital"
	digitalStore "github.com/MrJamesThe3rd/finflow/internal/digital/store"
	"github.com/MrJamesThe3rd/finflow/internal/ledger"
	"github.com/MrJamesThe3rd/finflow/internal/logging"
	"github.com/MrJamesThe3rd/finflow/internal/matching"
	matchingStore "github.com/MrJamesThe3rd/finflow/internal/matching/store"
	"github.com/MrJamesThe3rd/finflow/internal/notify"
	"github.com/MrJamesThe3rd/finflow/internal/report"
	"github.com/MrJamesThe3rd/finflow/internal/search"
	"github.com/MrJamesThe3rd/finflow/internal/statement"
)

type menuItem struct {
	key   string
	label string
	open  func(view.CommonModel) view.View
}

var menu = []menuItem{
	{"1", "Dashboard", func(c view.CommonModel) view.View { return view.NewDashboardModel(c) }},
	{"2", "Cash Transactions", func(c view.CommonModel) view.View { return view.NewListModel(c, ledger.KindCash) }},
	{"3", "Cheques", func(c view.CommonModel) view.View { return view.NewListModel(c, ledger.KindCheque) }},
	{"4", "Digital Transfers", func(c view.CommonModel) view.View { return view.NewListModel(c, ledger.KindDigital) }},
	{"5", "Import Bank Statement", func(c view.CommonModel) view.View { return view.NewImportModel(c) }},
	{"6", "Reports", func(c view.CommonModel) view.View { return view.NewReportModel(c) }},
	{"7", "Search", func(c view.CommonModel) view.View { return view.NewSearchModel(c) }},
	{"8", "Notifications", func(c view.CommonModel) view.View { return view.NewNotificationsModel(c) }},
	{"9", "Settings", func(c view.CommonModel) view.View { return view.NewSettingsModel(c) }},
}

type model struct {
	services view.Services
	session  *view.Session

	login  view.LoginModel
	active view.View
}

func initialModel() (model, error) {
	cfg, err := config.Load()
	if err != nil {
		return model{}, fmt.Errorf("failed to load config: %w", err)
	}

	// The terminal is owned by the UI, so logs go to a file or nowhere.
	var logOut io.Writer = io.Discard

	if path := os.Getenv(config.Prefix + "_TUI_LOG"); path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return model{}, fmt.Errorf("failed to open log file: %w", err)
		}

		logOut = f
	}

	logger, err := logging.New(logOut, logging.Options{Level: cfg.App.LogLevel, Format: cfg.App.LogFormat, App: cfg.App.Name + " tui"})
	if err != nil {
		return model{}, fmt.Errorf("failed to set up logging: %w", err)
	}

	slog.SetDefault(logger)

	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		return model{}, fmt.Errorf("failed to connect to database: %w", err)
	}

	hub := notify.NewHub(cfg.Notify.QueueSize)

	var (
		cashService     = cash.NewService(cashStore.New(db), hub)
		chequeService   = cheque.NewService(chequeStore.New(db), hub)
		digitalService  = digital.NewService(digitalStore.New(db), hub)
		matchingService = matching.NewService(matchingStore.New(db))
		books           = ledger.Books{Cash: cashService, Cheques: chequeService, Digital: digitalService}
	)

	services := view.Services{
		Auth: auth.NewService(authStore.New(db), auth.LogMailer{Logger: logger}, auth.Config{
			Secret:              cfg.Auth.JWTSecret,
			TokenTTL:            cfg.Auth.TokenTTL,
			ResetTTL:            cfg.Auth.ResetTTL,
			ResendInterval:      cfg.Auth.ResendInterval,
			BaseURL:             cfg.App.BaseURL,
			RevocationCacheSize: cfg.Auth.RevocationCacheSize,
		}),
		Cash:       cashService,
		Cheques:    chequeService,
		Digital:    digitalService,
		Dashboard:  dashboard.NewService(books),
		Reports:    report.NewService(books, cfg.Report.RowsPerPage),
		Search:     search.NewService(books),
		Statements: statement.NewService(matchingService, digitalService),
		Hub:        hub,
	}

	return model{
		services: services,
		login:    view.NewLoginModel(services.Auth),
	}, nil
}

func (m model) common() view.CommonModel {
	return view.CommonModel{Session: *m.session, Services: m.services}
}

func (m model) Init() tea.Cmd {
	return m.login.Init()
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}

	switch msg := msg.(type) {
	case view.LoggedInMsg:
		m.session = &msg.Session
		m.active = nil

		return m, nil
	case view.ProfileUpdatedMsg:
		if m.session != nil {
			m.session.User = msg.User
		}

		return m, nil
	case view.BackMsg:
		m.active = nil
		return m, nil
	}

	if m.session == nil {
		newModel, cmd := m.login.Update(msg)
		m.login = newModel.(view.LoginModel)

		return m, cmd
	}

	if m.active != nil {
		newModel, cmd := m.active.Update(msg)
		m.active = newModel.(view.View)

		return m, cmd
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "q":
		return m, tea.Quit
	case "o":
		if err := m.services.Auth.SignOut(context.Background(), m.session.Token); err != nil {
			slog.Warn("sign out failed", "error", err)
		}
		m.session = nil
		m.login = view.NewLoginModel(m.services.Auth)

		return m, m.login.Init()
	}

	for _, item := range menu {
		if keyMsg.String() == item.key {
			m.active = item.open(m.common())
			return m, m.active.Init()
		}
	}

	return m, nil
}

func (m model) View() string {
	if m.session == nil {
		return m.login.View()
	}

	if m.active != nil {
		help := lipgloss.NewStyle().Faint(true).Render(m.active.ShortHelp())
		return m.active.View() + "\n" + lipgloss.NewStyle().PaddingLeft(2).Render(help)
	}

	var b strings.Builder

	name := m.session.User.Email
	if m.session.User.FullName != "" {
		name = m.session.User.FullName
	}

	accent := lipgloss.NewStyle().Foreground(m.session.Accent())
	fmt.Fprintf(&b, "%s  %s\n\n", lipgloss.NewStyle().Bold(true).Render("FinFlow"), accent.Render(name))

	pending, _ := m.services.Hub.Stats(m.session.UserID())

	for _, item := range menu {
		label := item.label
		if item.label == "Notifications" && pending > 0 {
			label += accent.Render(fmt.Sprintf(" (%d)", pending))
		}

		fmt.Fprintf(&b, "%s. %s\n", item.key, label)
	}

	b.WriteString("\no. Sign out\nq. Quit")

	return lipgloss.NewStyle().Padding(2).Render(b.String())
}

func main() {
	m, err := initialModel()
	if err != nil {
		slog.Error("failed to start TUI", "error", err)
		os.Exit(1)
	}

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		os.Exit(1)
	}
}
