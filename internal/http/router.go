package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/MrJamesThe3rd/finflow/internal/auth"
	authapi "github.com/MrJamesThe3rd/finflow/internal/http/auth"
	"github.com/MrJamesThe3rd/finflow/internal/http/cash"
	"github.com/MrJamesThe3rd/finflow/internal/http/cheque"
	"github.com/MrJamesThe3rd/finflow/internal/http/dashboard"
	"github.com/MrJamesThe3rd/finflow/internal/http/digital"
	"github.com/MrJamesThe3rd/finflow/internal/http/matching"
	"github.com/MrJamesThe3rd/finflow/internal/http/notify"
	"github.com/MrJamesThe3rd/finflow/internal/http/report"
	"github.com/MrJamesThe3rd/finflow/internal/http/search"
)

type Handlers struct {
	Auth          *authapi.Handler
	Cash          *cash.Handler
	Cheques       *cheque.Handler
	Digital       *digital.Handler
	Dashboard     *dashboard.Handler
	Reports       *report.Handler
	Search        *search.Handler
	Notifications *notify.Handler
	Matching      *matching.Handler
}

type Pinger interface {
	PingContext(ctx context.Context) error
}

type Options struct {
	AllowedOrigins []string
	Timeout        time.Duration
}

func New(h Handlers, authn *auth.Service, db Pinger, opts Options) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	if opts.Timeout > 0 {
		router.Use(middleware.Timeout(opts.Timeout))
	}

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	router.Get("/healthz", health(db))

	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			h.Auth.Routes(r)
		})

		r.Group(func(r chi.Router) {
			r.Use(authn.Middleware)

			r.Route("/profile", h.Auth.ProfileRoutes)

			r.Route("/cash", func(r chi.Router) {
				r.Use(middleware.AllowContentType("application/json"))
				h.Cash.Routes(r)
			})

			r.Route("/cheques", func(r chi.Router) {
				r.Use(middleware.AllowContentType("application/json"))
				h.Cheques.Routes(r)
			})

			// Statement upload is multipart, so no content type restriction here.
			r.Route("/digital", h.Digital.Routes)

			r.Route("/dashboard", h.Dashboard.Routes)
			r.Route("/reports", h.Reports.Routes)
			r.Route("/search", h.Search.Routes)
			r.Route("/notifications", h.Notifications.Routes)

			r.Route("/matching", func(r chi.Router) {
				r.Use(middleware.AllowContentType("application/json"))
				h.Matching.Routes(r)
			})
		})
	})

	return router
}

func health(db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := db.PingContext(ctx); err != nil {
			http.Error(w, "database unavailable", http.StatusServiceUnavailable)
			return
		}

		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	}
}
