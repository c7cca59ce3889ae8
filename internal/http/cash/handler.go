package cash

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/finflow/internal/cash"
	"github.com/MrJamesThe3rd/finflow/internal/http/respond"
	"github.com/MrJamesThe3rd/finflow/internal/ledger"
)

type Handler struct {
	svc *cash.Service
}

func NewHandler(svc *cash.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
	r.Patch("/{id}", h.update)
	r.Delete("/{id}", h.delete)
}

type createRequest struct {
	Date        respond.Date     `json:"date"`
	Party       string           `json:"party"`
	Amount      decimal.Decimal  `json:"amount"`
	Description string           `json:"description"`
	Direction   ledger.Direction `json:"direction"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	userID, ok := respond.UserID(w, r)
	if !ok {
		return
	}

	var req createRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	amount, err := respond.Paise(req.Amount)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	tx, err := h.svc.Create(r.Context(), userID, cash.CreateParams{
		Date:        req.Date.Time(),
		Party:       req.Party,
		Amount:      amount,
		Description: req.Description,
		Direction:   req.Direction,
	})
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusCreated, respond.ToRecord(tx))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	userID, ok := respond.UserID(w, r)
	if !ok {
		return
	}

	filter, err := respond.ListFilter(r, userID)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	txs, err := h.svc.List(r.Context(), filter)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, respond.Records(txs))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	userID, ok := respond.UserID(w, r)
	if !ok {
		return
	}

	id, ok := respond.ID(w, r)
	if !ok {
		return
	}

	tx, err := h.svc.Get(r.Context(), userID, id)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, respond.ToRecord(tx))
}

type updateRequest struct {
	Date        *respond.Date     `json:"date,omitempty"`
	Party       *string           `json:"party,omitempty"`
	Amount      *decimal.Decimal  `json:"amount,omitempty"`
	Description *string           `json:"description,omitempty"`
	Direction   *ledger.Direction `json:"direction,omitempty"`
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	userID, ok := respond.UserID(w, r)
	if !ok {
		return
	}

	id, ok := respond.ID(w, r)
	if !ok {
		return
	}

	var req updateRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	amount, err := respond.PaisePtr(req.Amount)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	tx, err := h.svc.Update(r.Context(), userID, id, cash.UpdateParams{
		Date:        respond.TimePtr(req.Date),
		Party:       req.Party,
		Amount:      amount,
		Description: req.Description,
		Direction:   req.Direction,
	})
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, respond.ToRecord(tx))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := respond.UserID(w, r)
	if !ok {
		return
	}

	id, ok := respond.ID(w, r)
	if !ok {
		return
	}

	if err := h.svc.Delete(r.Context(), userID, id); err != nil {
		respond.Error(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
