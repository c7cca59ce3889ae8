package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/MrJamesThe3rd/finflow/internal/amqp"
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
	finflowHttp "github.com/MrJamesThe3rd/finflow/internal/http"
	authHandler "github.com/MrJamesThe3rd/finflow/internal/http/auth"
	cashHandler "github.com/MrJamesThe3rd/finflow/internal/http/cash"
	chequeHandler "github.com/MrJamesThe3rd/finflow/internal/http/cheque"
	dashboardHandler "github.com/MrJamesThe3rd/finflow/internal/http/dashboard"
	digitalHandler "github.com/MrJamesThe3rd/finflow/internal/http/digital"
	matchingHandler "github.com/MrJamesThe3rd/finflow/internal/http/matching"
	notifyHandler "github.com/MrJamesThe3rd/finflow/internal/http/notify"
	reportHandler "github.com/MrJamesThe3rd/finflow/internal/http/report"
	searchHandler "github.com/MrJamesThe3rd/finflow/internal/http/search"
	"github.com/MrJamesThe3rd/finflow/internal/ledger"
	"github.com/MrJamesThe3rd/finflow/internal/logging"
	"github.com/MrJamesThe3rd/finflow/internal/matching"
	matchingStore "github.com/MrJamesThe3rd/finflow/internal/matching/store"
	"github.com/MrJamesThe3rd/finflow/internal/notify"
	"github.com/MrJamesThe3rd/finflow/internal/report"
	"github.com/MrJamesThe3rd/finflow/internal/search"
	"github.com/MrJamesThe3rd/finflow/internal/statement"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := logging.Setup(os.Stderr, logging.Options{
		Level:  cfg.App.LogLevel,
		Format: cfg.App.LogFormat,
		App:    cfg.App.Name,
	}); err != nil {
		return fmt.Errorf("failed to set up logging: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := database.Migrate(cfg.ConnectionString()); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	hub := notify.NewHub(cfg.Notify.QueueSize)

	var notifier ledger.Notifier = hub

	if cfg.AMQP.URL != "" {
		client, err := amqp.Dial(cfg.AMQP.URL, cfg.AMQP.Exchange)
		if err != nil {
			return fmt.Errorf("failed to connect to broker: %w", err)
		}
		defer client.Close()

		publisher := amqp.NewNotifier(client, hub)
		defer publisher.Close()

		notifier = publisher

		go func() {
			if err := client.Consume(ctx, hub); err != nil && !errors.Is(err, context.Canceled) {
				slog.Error("change consumer stopped", "error", err)
			}
		}()
	}

	var (
		cashService     = cash.NewService(cashStore.New(db), notifier)
		chequeService   = cheque.NewService(chequeStore.New(db), notifier)
		digitalService  = digital.NewService(digitalStore.New(db), notifier)
		matchingService = matching.NewService(matchingStore.New(db))
		books           = ledger.Books{Cash: cashService, Cheques: chequeService, Digital: digitalService}
		authService     = auth.NewService(authStore.New(db), nil, auth.Config{
			Secret:              cfg.Auth.JWTSecret,
			TokenTTL:            cfg.Auth.TokenTTL,
			ResetTTL:            cfg.Auth.ResetTTL,
			ResendInterval:      cfg.Auth.ResendInterval,
			BaseURL:             cfg.App.BaseURL,
			RevocationCacheSize: cfg.Auth.RevocationCacheSize,
		})
	)

	handlers := finflowHttp.Handlers{
		Auth:          authHandler.NewHandler(authService),
		Cash:          cashHandler.NewHandler(cashService),
		Cheques:       chequeHandler.NewHandler(chequeService),
		Digital:       digitalHandler.NewHandler(digitalService, statement.NewService(matchingService, digitalService)),
		Dashboard:     dashboardHandler.NewHandler(dashboard.NewService(books)),
		Reports:       reportHandler.NewHandler(report.NewService(books, cfg.Report.RowsPerPage)),
		Search:        searchHandler.NewHandler(search.NewService(books)),
		Notifications: notifyHandler.NewHandler(hub),
		Matching:      matchingHandler.NewHandler(matchingService),
	}

	router := finflowHttp.New(handlers, authService, db, finflowHttp.Options{
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		Timeout:        cfg.Server.Timeout,
	})

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.App.Port),
		Handler: router,
	}

	errCh := make(chan error, 1)

	go func() {
		slog.Info("starting server", "addr", srv.Addr)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}

		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}

	return nil
}
