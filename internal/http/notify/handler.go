package notify

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/finflow/internal/http/respond"
	"github.com/MrJamesThe3rd/finflow/internal/ledger"
	"github.com/MrJamesThe3rd/finflow/internal/notify"
)

// DefaultLimit is how many notifications the header feed shows.
const DefaultLimit = 5

type Handler struct {
	hub *notify.Hub
}

func NewHandler(hub *notify.Hub) *Handler {
	return &Handler{hub: hub}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.peek)
	r.Post("/drain", h.drain)
	r.Delete("/", h.clear)
}

type eventResponse struct {
	Seq         uint64        `json:"seq"`
	Table       string        `json:"table"`
	Action      ledger.Action `json:"action"`
	RecordID    uuid.UUID     `json:"record_id"`
	Description string        `json:"description"`
	At          time.Time     `json:"at"`
}

type feedResponse struct {
	Pending int             `json:"pending"`
	Dropped uint64          `json:"dropped"`
	Events  []eventResponse `json:"events"`
}

func (h *Handler) feed(userID uuid.UUID, events []notify.Event) feedResponse {
	pending, dropped := h.hub.Stats(userID)

	resp := feedResponse{Pending: pending, Dropped: dropped, Events: make([]eventResponse, len(events))}
	for i, e := range events {
		resp.Events[i] = eventResponse{
			Seq:         e.Seq,
			Table:       e.Table,
			Action:      e.Action,
			RecordID:    e.RecordID,
			Description: e.Description(),
			At:          e.At,
		}
	}

	return resp
}

func (h *Handler) peek(w http.ResponseWriter, r *http.Request) {
	userID, ok := respond.UserID(w, r)
	if !ok {
		return
	}

	events := h.hub.Peek(userID, respond.Limit(r, DefaultLimit))
	respond.JSON(w, http.StatusOK, h.feed(userID, events))
}

func (h *Handler) drain(w http.ResponseWriter, r *http.Request) {
	userID, ok := respond.UserID(w, r)
	if !ok {
		return
	}

	events := h.hub.Drain(userID, respond.Limit(r, DefaultLimit))
	respond.JSON(w, http.StatusOK, h.feed(userID, events))
}

func (h *Handler) clear(w http.ResponseWriter, r *http.Request) {
	userID, ok := respond.UserID(w, r)
	if !ok {
		return
	}

	h.hub.Clear(userID)
	w.WriteHeader(http.StatusNoContent)
}
