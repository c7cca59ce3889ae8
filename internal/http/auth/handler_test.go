package auth_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"golang.org/x/crypto/bcrypt"

	"github.com/MrJamesThe3rd/finflow/internal/auth"
	authapi "github.com/MrJamesThe3rd/finflow/internal/http/auth"
)

type silentMailer struct{}

func (silentMailer) SendVerification(context.Context, string, string) error  { return nil }
func (silentMailer) SendPasswordReset(context.Context, string, string) error { return nil }

func newRouter(t *testing.T) (http.Handler, *auth.MockRepository) {
	t.Helper()

	ctrl := gomock.NewController(t)
	repo := auth.NewMockRepository(ctrl)

	svc := auth.NewService(repo, silentMailer{}, auth.Config{
		Secret:         "fedcba9876543210fedcba9876543210",
		TokenTTL:       time.Hour,
		ResetTTL:       time.Hour,
		ResendInterval: time.Minute,
		BaseURL:        "http://localhost:5173",
	})

	h := authapi.NewHandler(svc)

	r := chi.NewRouter()
	r.Route("/auth", h.Routes)
	r.Group(func(r chi.Router) {
		r.Use(svc.Middleware)
		r.Route("/profile", h.ProfileRoutes)
	})

	return r, repo
}

func send(h http.Handler, method, target, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	return rec
}

func owner(t *testing.T) *auth.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("correct horse"), bcrypt.MinCost)
	require.NoError(t, err)

	return &auth.User{
		ID:           uuid.New(),
		Email:        "owner@shop.in",
		PasswordHash: string(hash),
		FullName:     "Ravi Kumar",
		Theme:        auth.ThemeSystem,
		VerifiedAt:   new(time.Now().Add(-24 * time.Hour)),
	}
}

func TestHandler_SignUp(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		setupMock func(m *auth.MockRepository)
		wantCode  int
	}{
		{
			name: "Created",
			body: `{"email":"owner@shop.in","password":"password1","full_name":"Ravi Kumar"}`,
			setupMock: func(m *auth.MockRepository) {
				m.EXPECT().CreateUser(gomock.Any(), gomock.Any()).Return(nil)
			},
			wantCode: http.StatusCreated,
		},
		{
			name: "EmailTaken",
			body: `{"email":"owner@shop.in","password":"password1"}`,
			setupMock: func(m *auth.MockRepository) {
				m.EXPECT().CreateUser(gomock.Any(), gomock.Any()).Return(auth.ErrEmailTaken)
			},
			wantCode: http.StatusConflict,
		},
		{
			name:     "ShortPassword",
			body:     `{"email":"owner@shop.in","password":"abc"}`,
			wantCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, repo := newRouter(t)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			rec := send(h, http.MethodPost, "/auth/signup", tt.body, "")
			assert.Equal(t, tt.wantCode, rec.Code, rec.Body.String())

			if tt.wantCode == http.StatusCreated {
				assert.Contains(t, rec.Body.String(), `"verified":false`)
				assert.NotContains(t, rec.Body.String(), "password")
			}
		})
	}
}

func TestHandler_SessionLifecycle(t *testing.T) {
	h, repo := newRouter(t)
	u := owner(t)

	repo.EXPECT().GetUserByEmail(gomock.Any(), "owner@shop.in").Return(u, nil)
	repo.EXPECT().GetUserByID(gomock.Any(), u.ID).Return(u, nil)

	rec := send(h, http.MethodPost, "/auth/signin", `{"email":"Owner@Shop.in","password":"correct horse"}`, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var tok struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
		User        struct {
			Email string `json:"email"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tok))
	assert.Equal(t, "Bearer", tok.TokenType)
	assert.Equal(t, "owner@shop.in", tok.User.Email)
	require.NotEmpty(t, tok.AccessToken)

	rec = send(h, http.MethodGet, "/profile/", "", tok.AccessToken)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"full_name":"Ravi Kumar"`)

	rec = send(h, http.MethodPost, "/auth/signout", "", tok.AccessToken)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = send(h, http.MethodGet, "/profile/", "", tok.AccessToken)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHandler_SignInErrors(t *testing.T) {
	t.Run("WrongPassword", func(t *testing.T) {
		h, repo := newRouter(t)
		repo.EXPECT().GetUserByEmail(gomock.Any(), "owner@shop.in").Return(owner(t), nil)

		rec := send(h, http.MethodPost, "/auth/signin", `{"email":"owner@shop.in","password":"wrong"}`, "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("NotVerified", func(t *testing.T) {
		h, repo := newRouter(t)
		u := owner(t)
		u.VerifiedAt = nil
		repo.EXPECT().GetUserByEmail(gomock.Any(), "owner@shop.in").Return(u, nil)

		rec := send(h, http.MethodPost, "/auth/signin", `{"email":"owner@shop.in","password":"correct horse"}`, "")
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}

func TestHandler_Verify(t *testing.T) {
	t.Run("MissingToken", func(t *testing.T) {
		h, _ := newRouter(t)
		rec := send(h, http.MethodGet, "/auth/verify", "", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("UnknownToken", func(t *testing.T) {
		h, repo := newRouter(t)
		repo.EXPECT().GetUserByVerificationToken(gomock.Any(), gomock.Any()).Return(nil, auth.ErrUserNotFound)

		rec := send(h, http.MethodPost, "/auth/verify", `{"token":"abc"}`, "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("Verified", func(t *testing.T) {
		h, repo := newRouter(t)
		u := owner(t)
		u.VerifiedAt = nil
		repo.EXPECT().GetUserByVerificationToken(gomock.Any(), gomock.Any()).Return(u, nil)
		repo.EXPECT().UpdateUser(gomock.Any(), u).Return(nil)

		rec := send(h, http.MethodGet, "/auth/verify?token=abc", "", "")
		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.True(t, u.Verified())
	})
}

func TestHandler_ForgotPassword(t *testing.T) {
	h, repo := newRouter(t)
	repo.EXPECT().GetUserByEmail(gomock.Any(), "nobody@shop.in").Return(nil, auth.ErrUserNotFound)

	rec := send(h, http.MethodPost, "/auth/password/forgot", `{"email":"nobody@shop.in"}`, "")
	assert.Equal(t, http.StatusAccepted, rec.Code)
}

func TestHandler_UpdateProfile(t *testing.T) {
	h, repo := newRouter(t)
	u := owner(t)

	repo.EXPECT().GetUserByEmail(gomock.Any(), "owner@shop.in").Return(u, nil)
	repo.EXPECT().GetUserByID(gomock.Any(), u.ID).Return(u, nil)
	repo.EXPECT().UpdateUser(gomock.Any(), u).Return(nil)

	rec := send(h, http.MethodPost, "/auth/signin", `{"email":"owner@shop.in","password":"correct horse"}`, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var tok struct {
		AccessToken string `json:"access_token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tok))

	rec = send(h, http.MethodPatch, "/profile/", `{"theme":"neon"}`, tok.AccessToken)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = send(h, http.MethodPatch, "/profile/", `{"theme":"dark"}`, tok.AccessToken)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"theme":"dark"`)
}
