package dashboard

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/finflow/internal/dashboard"
	"github.com/MrJamesThe3rd/finflow/internal/http/respond"
)

type Handler struct {
	svc *dashboard.Service
}

func NewHandler(svc *dashboard.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.summary)
	r.Get("/banks", h.banks)
	r.Get("/parties", h.parties)
}

type summaryResponse struct {
	TotalInflow         json.Number      `json:"total_inflow"`
	ChequeTransactions  int              `json:"cheque_transactions"`
	ChequeAmount        json.Number      `json:"cheque_amount"`
	CashTransactions    int              `json:"cash_transactions"`
	CashAmount          json.Number      `json:"cash_amount"`
	DigitalTransactions int              `json:"digital_transactions"`
	DigitalAmount       json.Number      `json:"digital_amount"`
	Recent              []respond.Record `json:"recent_transactions"`
}

func toSummaryResponse(s dashboard.Summary) summaryResponse {
	return summaryResponse{
		TotalInflow:         respond.Amount(s.TotalInflow),
		ChequeTransactions:  s.ChequeTransactions,
		ChequeAmount:        respond.Amount(s.ChequeAmount),
		CashTransactions:    s.CashTransactions,
		CashAmount:          respond.Amount(s.CashAmount),
		DigitalTransactions: s.DigitalTransactions,
		DigitalAmount:       respond.Amount(s.DigitalAmount),
		Recent:              respond.ToRecords(s.Recent),
	}
}

// summary answers 503 with the all-zero summary when the books could not be read,
// so clients can still render an empty dashboard.
func (h *Handler) summary(w http.ResponseWriter, r *http.Request) {
	userID, ok := respond.UserID(w, r)
	if !ok {
		return
	}

	s, err := h.svc.Summary(r.Context(), userID)
	if err != nil {
		slog.ErrorContext(r.Context(), "dashboard summary failed", "user_id", userID, "error", err)
		respond.JSON(w, http.StatusServiceUnavailable, toSummaryResponse(s))

		return
	}

	respond.JSON(w, http.StatusOK, toSummaryResponse(s))
}

type bankResponse struct {
	Name   string      `json:"name"`
	Amount json.Number `json:"amount"`
}

func (h *Handler) banks(w http.ResponseWriter, r *http.Request) {
	userID, ok := respond.UserID(w, r)
	if !ok {
		return
	}

	banks, err := h.svc.Banks(r.Context(), userID)

	resp := make([]bankResponse, len(banks))
	for i, b := range banks {
		resp[i] = bankResponse{Name: b.Name, Amount: respond.Amount(b.Amount)}
	}

	if err != nil {
		slog.ErrorContext(r.Context(), "bank distribution failed", "user_id", userID, "error", err)
		respond.JSON(w, http.StatusServiceUnavailable, resp)

		return
	}

	respond.JSON(w, http.StatusOK, resp)
}

type partyResponse struct {
	Party    string      `json:"party"`
	Incoming json.Number `json:"incoming"`
	Outgoing json.Number `json:"outgoing"`
	Net      json.Number `json:"net"`
}

func (h *Handler) parties(w http.ResponseWriter, r *http.Request) {
	userID, ok := respond.UserID(w, r)
	if !ok {
		return
	}

	parties, err := h.svc.Parties(r.Context(), userID)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	resp := make([]partyResponse, len(parties))
	for i, p := range parties {
		resp[i] = partyResponse{
			Party:    p.Party,
			Incoming: respond.Amount(p.Incoming),
			Outgoing: respond.Amount(p.Outgoing),
			Net:      respond.Amount(p.Net()),
		}
	}

	respond.JSON(w, http.StatusOK, resp)
}
