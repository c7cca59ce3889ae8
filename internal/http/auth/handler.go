package auth

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/finflow/internal/auth"
	"github.com/MrJamesThe3rd/finflow/internal/http/respond"
)

type Handler struct {
	svc *auth.Service
}

func NewHandler(svc *auth.Service) *Handler {
	return &Handler{svc: svc}
}

// Routes mounts the account endpoints. Only sign out needs a token.
func (h *Handler) Routes(r chi.Router) {
	r.Post("/signup", h.signUp)
	r.Post("/signin", h.signIn)
	r.Get("/verify", h.verify)
	r.Post("/verify", h.verify)
	r.Post("/verify/resend", h.resend)
	r.Post("/password/forgot", h.forgotPassword)
	r.Post("/password/reset", h.resetPassword)
	r.With(h.svc.Middleware).Post("/signout", h.signOut)
}

// ProfileRoutes mounts the settings endpoints; they expect auth.Middleware upstream.
func (h *Handler) ProfileRoutes(r chi.Router) {
	r.Get("/", h.profile)
	r.Patch("/", h.updateProfile)
}

type userResponse struct {
	ID       uuid.UUID  `json:"id"`
	Email    string     `json:"email"`
	FullName string     `json:"full_name"`
	Theme    auth.Theme `json:"theme"`
	Verified bool       `json:"verified"`
}

func toUserResponse(u *auth.User) userResponse {
	return userResponse{
		ID:       u.ID,
		Email:    u.Email,
		FullName: u.FullName,
		Theme:    u.Theme,
		Verified: u.Verified(),
	}
}

type signUpRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
}

func (h *Handler) signUp(w http.ResponseWriter, r *http.Request) {
	var req signUpRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	u, err := h.svc.SignUp(r.Context(), auth.SignUpParams{
		Email:    req.Email,
		Password: req.Password,
		FullName: req.FullName,
	})
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusCreated, toUserResponse(u))
}

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	ExpiresAt   time.Time    `json:"expires_at"`
	User        userResponse `json:"user"`
}

func (h *Handler) signIn(w http.ResponseWriter, r *http.Request) {
	var req signInRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	tok, u, err := h.svc.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, tokenResponse{
		AccessToken: tok.Value,
		TokenType:   "Bearer",
		ExpiresAt:   tok.ExpiresAt,
		User:        toUserResponse(u),
	})
}

func (h *Handler) signOut(w http.ResponseWriter, r *http.Request) {
	sess, ok := auth.FromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	if err := h.svc.SignOut(r.Context(), sess); err != nil {
		respond.Error(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type tokenRequest struct {
	Token string `json:"token"`
}

// verify accepts the token from the emailed link's query string or a JSON body.
func (h *Handler) verify(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" && r.Method == http.MethodPost {
		var req tokenRequest
		if !respond.Decode(w, r, &req) {
			return
		}

		token = req.Token
	}

	if token == "" {
		http.Error(w, "token is required", http.StatusBadRequest)
		return
	}

	if err := h.svc.Verify(r.Context(), token); err != nil {
		respond.Error(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type emailRequest struct {
	Email string `json:"email"`
}

func (h *Handler) resend(w http.ResponseWriter, r *http.Request) {
	var req emailRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	if err := h.svc.ResendVerification(r.Context(), req.Email); err != nil {
		respond.Error(w, r, err)
		return
	}

	w.WriteHeader(http.StatusAccepted)
}

func (h *Handler) forgotPassword(w http.ResponseWriter, r *http.Request) {
	var req emailRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	if err := h.svc.RequestPasswordReset(r.Context(), req.Email); err != nil {
		respond.Error(w, r, err)
		return
	}

	w.WriteHeader(http.StatusAccepted)
}

type resetRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

func (h *Handler) resetPassword(w http.ResponseWriter, r *http.Request) {
	var req resetRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	if err := h.svc.ResetPassword(r.Context(), req.Token, req.Password); err != nil {
		respond.Error(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) profile(w http.ResponseWriter, r *http.Request) {
	userID, ok := respond.UserID(w, r)
	if !ok {
		return
	}

	u, err := h.svc.Profile(r.Context(), userID)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toUserResponse(u))
}

type profileRequest struct {
	FullName *string     `json:"full_name,omitempty"`
	Theme    *auth.Theme `json:"theme,omitempty"`
}

func (h *Handler) updateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := respond.UserID(w, r)
	if !ok {
		return
	}

	var req profileRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	u, err := h.svc.UpdateProfile(r.Context(), userID, auth.ProfileParams{
		FullName: req.FullName,
		Theme:    req.Theme,
	})
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toUserResponse(u))
}
