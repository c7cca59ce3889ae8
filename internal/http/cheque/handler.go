package cheque

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/finflow/internal/cheque"
	"github.com/MrJamesThe3rd/finflow/internal/http/respond"
	"github.com/MrJamesThe3rd/finflow/internal/ledger"
)

type Handler struct {
	svc *cheque.Service
}

func NewHandler(svc *cheque.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
	r.Patch("/{id}/status", h.updateStatus)
	r.Patch("/{id}", h.update)
	r.Delete("/{id}", h.delete)
}

type createRequest struct {
	Date         respond.Date        `json:"date"`
	Party        string              `json:"party"`
	Amount       decimal.Decimal     `json:"amount"`
	Description  string              `json:"description"`
	Direction    ledger.Direction    `json:"direction"`
	ChequeNumber string              `json:"cheque_number"`
	BankName     string              `json:"bank_name"`
	Status       ledger.ChequeStatus `json:"status,omitempty"`
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

	c, err := h.svc.Create(r.Context(), userID, cheque.CreateParams{
		Date:         req.Date.Time(),
		Party:        req.Party,
		Amount:       amount,
		Description:  req.Description,
		Direction:    req.Direction,
		ChequeNumber: req.ChequeNumber,
		BankName:     req.BankName,
		Status:       req.Status,
	})
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusCreated, respond.ToRecord(c))
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

	cheques, err := h.svc.List(r.Context(), filter)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, respond.Records(cheques))
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

	c, err := h.svc.Get(r.Context(), userID, id)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, respond.ToRecord(c))
}

type updateRequest struct {
	Date         *respond.Date        `json:"date,omitempty"`
	Party        *string              `json:"party,omitempty"`
	Amount       *decimal.Decimal     `json:"amount,omitempty"`
	Description  *string              `json:"description,omitempty"`
	Direction    *ledger.Direction    `json:"direction,omitempty"`
	ChequeNumber *string              `json:"cheque_number,omitempty"`
	BankName     *string              `json:"bank_name,omitempty"`
	Status       *ledger.ChequeStatus `json:"status,omitempty"`
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

	c, err := h.svc.Update(r.Context(), userID, id, cheque.UpdateParams{
		Date:         respond.TimePtr(req.Date),
		Party:        req.Party,
		Amount:       amount,
		Description:  req.Description,
		Direction:    req.Direction,
		ChequeNumber: req.ChequeNumber,
		BankName:     req.BankName,
		Status:       req.Status,
	})
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, respond.ToRecord(c))
}

type updateStatusRequest struct {
	Status ledger.ChequeStatus `json:"status"`
}

func (h *Handler) updateStatus(w http.ResponseWriter, r *http.Request) {
	userID, ok := respond.UserID(w, r)
	if !ok {
		return
	}

	id, ok := respond.ID(w, r)
	if !ok {
		return
	}

	var req updateStatusRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	if err := h.svc.UpdateStatus(r.Context(), userID, id, req.Status); err != nil {
		respond.Error(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
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
