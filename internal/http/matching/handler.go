package matching

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/finflow/internal/http/respond"
	"github.com/MrJamesThe3rd/finflow/internal/matching"
)

type Handler struct {
	svc *matching.Service
}

func NewHandler(svc *matching.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/suggest", h.suggest)
	r.Post("/", h.learn)
}

type suggestResponse struct {
	Raw   string `json:"raw"`
	Party string `json:"party"`
}

func (h *Handler) suggest(w http.ResponseWriter, r *http.Request) {
	userID, ok := respond.UserID(w, r)
	if !ok {
		return
	}

	raw := r.URL.Query().Get("raw")
	if raw == "" {
		http.Error(w, "raw query parameter is required", http.StatusBadRequest)
		return
	}

	party, err := h.svc.Suggest(r.Context(), userID, raw)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, suggestResponse{Raw: raw, Party: party})
}

type learnRequest struct {
	RawPattern string `json:"raw_pattern"`
	Party      string `json:"party"`
}

func (h *Handler) learn(w http.ResponseWriter, r *http.Request) {
	userID, ok := respond.UserID(w, r)
	if !ok {
		return
	}

	var req learnRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	if err := h.svc.Learn(r.Context(), userID, req.RawPattern, req.Party); err != nil {
		respond.Error(w, r, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
}
