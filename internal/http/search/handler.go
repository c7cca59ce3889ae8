package search

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/finflow/internal/http/respond"
	"github.com/MrJamesThe3rd/finflow/internal/search"
)

type Handler struct {
	svc *search.Service
}

func NewHandler(svc *search.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.search)
}

func (h *Handler) search(w http.ResponseWriter, r *http.Request) {
	userID, ok := respond.UserID(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()

	records, err := h.svc.Search(r.Context(), userID, q.Get("query"), q.Get("category"))
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, respond.ToRecords(records))
}
