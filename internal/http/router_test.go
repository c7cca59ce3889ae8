package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"golang.org/x/crypto/bcrypt"

	"github.com/MrJamesThe3rd/finflow/internal/auth"
	"github.com/MrJamesThe3rd/finflow/internal/cash"
	"github.com/MrJamesThe3rd/finflow/internal/cheque"
	"github.com/MrJamesThe3rd/finflow/internal/dashboard"
	"github.com/MrJamesThe3rd/finflow/internal/digital"
	api "github.com/MrJamesThe3rd/finflow/internal/http"
	authapi "github.com/MrJamesThe3rd/finflow/internal/http/auth"
	cashapi "github.com/MrJamesThe3rd/finflow/internal/http/cash"
	chequeapi "github.com/MrJamesThe3rd/finflow/internal/http/cheque"
	dashboardapi "github.com/MrJamesThe3rd/finflow/internal/http/dashboard"
	digitalapi "github.com/MrJamesThe3rd/finflow/internal/http/digital"
	matchingapi "github.com/MrJamesThe3rd/finflow/internal/http/matching"
	notifyapi "github.com/MrJamesThe3rd/finflow/internal/http/notify"
	reportapi "github.com/MrJamesThe3rd/finflow/internal/http/report"
	searchapi "github.com/MrJamesThe3rd/finflow/internal/http/search"
	"github.com/MrJamesThe3rd/finflow/internal/ledger"
	"github.com/MrJamesThe3rd/finflow/internal/matching"
	"github.com/MrJamesThe3rd/finflow/internal/notify"
	"github.com/MrJamesThe3rd/finflow/internal/report"
	"github.com/MrJamesThe3rd/finflow/internal/search"
	"github.com/MrJamesThe3rd/finflow/internal/statement"
)

type pinger struct{ err error }

func (p pinger) PingContext(context.Context) error { return p.err }

type mocks struct {
	users *auth.MockRepository
	cash  *cash.MockRepository
}

func newServer(t *testing.T, db pinger) (http.Handler, mocks) {
	t.Helper()

	ctrl := gomock.NewController(t)
	m := mocks{
		users: auth.NewMockRepository(ctrl),
		cash:  cash.NewMockRepository(ctrl),
	}

	hub := notify.NewHub(50)

	cashSvc := cash.NewService(m.cash, hub)
	chequeSvc := cheque.NewService(cheque.NewMockRepository(ctrl), hub)
	digitalSvc := digital.NewService(digital.NewMockRepository(ctrl), hub)
	matchingSvc := matching.NewService(matching.NewMockRepository(ctrl))
	books := ledger.Books{Cash: cashSvc, Cheques: chequeSvc, Digital: digitalSvc}

	authSvc := auth.NewService(m.users, nil, auth.Config{
		Secret:   "0123456789abcdef0123456789abcdef",
		TokenTTL: time.Hour,
	})

	handler := api.New(api.Handlers{
		Auth:          authapi.NewHandler(authSvc),
		Cash:          cashapi.NewHandler(cashSvc),
		Cheques:       chequeapi.NewHandler(chequeSvc),
		Digital:       digitalapi.NewHandler(digitalSvc, statement.NewService(matchingSvc, digitalSvc)),
		Dashboard:     dashboardapi.NewHandler(dashboard.NewService(books)),
		Reports:       reportapi.NewHandler(report.NewService(books, report.DefaultRowsPerPage)),
		Search:        searchapi.NewHandler(search.NewService(books)),
		Notifications: notifyapi.NewHandler(hub),
		Matching:      matchingapi.NewHandler(matchingSvc),
	}, authSvc, db, api.Options{
		AllowedOrigins: []string{"http://localhost:5173"},
		Timeout:        5 * time.Second,
	})

	return handler, m
}

func serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	return rec
}

func TestRouter_Health(t *testing.T) {
	t.Run("OK", func(t *testing.T) {
		h, _ := newServer(t, pinger{})

		rec := serve(h, httptest.NewRequest(http.MethodGet, "/healthz", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "ok", rec.Body.String())
	})

	t.Run("DatabaseDown", func(t *testing.T) {
		h, _ := newServer(t, pinger{err: errors.New("connection refused")})

		rec := serve(h, httptest.NewRequest(http.MethodGet, "/healthz", nil))
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})
}

func TestRouter_RequiresToken(t *testing.T) {
	h, _ := newServer(t, pinger{})

	for _, path := range []string{
		"/api/v1/cash",
		"/api/v1/cheques",
		"/api/v1/digital",
		"/api/v1/dashboard",
		"/api/v1/reports",
		"/api/v1/search?query=x",
		"/api/v1/notifications",
		"/api/v1/profile",
	} {
		rec := serve(h, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code, path)
	}
}

func TestRouter_CORSPreflight(t *testing.T) {
	h, _ := newServer(t, pinger{})

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/cash", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "Authorization, Content-Type")

	rec := serve(h, req)
	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodOptions, "/api/v1/cash", nil)
	req.Header.Set("Origin", "https://evil.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)

	rec = serve(h, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRouter_AuthenticatedFlow(t *testing.T) {
	h, m := newServer(t, pinger{})

	hash, err := bcrypt.GenerateFromPassword([]byte("password1"), bcrypt.MinCost)
	require.NoError(t, err)

	u := &auth.User{
		ID:           uuid.New(),
		Email:        "owner@shop.in",
		PasswordHash: string(hash),
		VerifiedAt:   new(time.Now()),
	}
	m.users.EXPECT().GetUserByEmail(gomock.Any(), "owner@shop.in").Return(u, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/signin",
		strings.NewReader(`{"email":"owner@shop.in","password":"password1"}`))
	req.Header.Set("Content-Type", "application/json")

	rec := serve(h, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var tok struct {
		AccessToken string `json:"access_token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tok))

	m.cash.EXPECT().
		CreateTransaction(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, tx *ledger.Cash) error {
			assert.Equal(t, u.ID, tx.UserID)
			tx.ID = uuid.New()

			return nil
		})

	req = httptest.NewRequest(http.MethodPost, "/api/v1/cash/",
		strings.NewReader(`{"date":"2025-05-09","party":"Gupta Stores","amount":"500","direction":"incoming"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+tok.AccessToken)

	rec = serve(h, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/api/v1/notifications/", nil)
	req.Header.Set("Authorization", "Bearer "+tok.AccessToken)

	rec = serve(h, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "New INSERT in cash_transactions")

	req = httptest.NewRequest(http.MethodPost, "/api/v1/cash/", strings.NewReader(`party=x`))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "Bearer "+tok.AccessToken)

	rec = serve(h, req)
	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
}
