package digital

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/finflow/internal/digital"
	"github.com/MrJamesThe3rd/finflow/internal/http/respond"
	"github.com/MrJamesThe3rd/finflow/internal/ledger"
	"github.com/MrJamesThe3rd/finflow/internal/statement"
)

const maxStatementBytes = 10 << 20

type Handler struct {
	svc        *digital.Service
	statements *statement.Service
}

func NewHandler(svc *digital.Service, statements *statement.Service) *Handler {
	return &Handler{svc: svc, statements: statements}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Post("/import", h.importStatement)
	r.Post("/import/confirm", h.confirmImport)
	r.Get("/{id}", h.get)
	r.Patch("/{id}", h.update)
	r.Delete("/{id}", h.delete)
}

type createRequest struct {
	Date            respond.Date        `json:"date"`
	Party           string              `json:"party"`
	Amount          decimal.Decimal     `json:"amount"`
	Description     string              `json:"description"`
	Direction       ledger.Direction    `json:"direction"`
	BankName        string              `json:"bank_name"`
	TransferType    ledger.TransferType `json:"transfer_type"`
	ReferenceNumber string              `json:"reference_number"`
}

func (c createRequest) params() (digital.CreateParams, error) {
	amount, err := respond.Paise(c.Amount)
	if err != nil {
		return digital.CreateParams{}, err
	}

	return digital.CreateParams{
		Date:            c.Date.Time(),
		Party:           c.Party,
		Amount:          amount,
		Description:     c.Description,
		Direction:       c.Direction,
		BankName:        c.BankName,
		TransferType:    c.TransferType,
		ReferenceNumber: c.ReferenceNumber,
	}, nil
}

func toRequest(p digital.CreateParams) createRequest {
	return createRequest{
		Date:            respond.Date(p.Date),
		Party:           p.Party,
		Amount:          decimal.New(p.Amount, -2),
		Description:     p.Description,
		Direction:       p.Direction,
		BankName:        p.BankName,
		TransferType:    p.TransferType,
		ReferenceNumber: p.ReferenceNumber,
	}
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

	params, err := req.params()
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	d, err := h.svc.Create(r.Context(), userID, params)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusCreated, respond.ToRecord(d))
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

	transfers, err := h.svc.List(r.Context(), filter)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, respond.Records(transfers))
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

	d, err := h.svc.Get(r.Context(), userID, id)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, respond.ToRecord(d))
}

type updateRequest struct {
	Date            *respond.Date        `json:"date,omitempty"`
	Party           *string              `json:"party,omitempty"`
	Amount          *decimal.Decimal     `json:"amount,omitempty"`
	Description     *string              `json:"description,omitempty"`
	Direction       *ledger.Direction    `json:"direction,omitempty"`
	BankName        *string              `json:"bank_name,omitempty"`
	TransferType    *ledger.TransferType `json:"transfer_type,omitempty"`
	ReferenceNumber *string              `json:"reference_number,omitempty"`
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

	d, err := h.svc.Update(r.Context(), userID, id, digital.UpdateParams{
		Date:            respond.TimePtr(req.Date),
		Party:           req.Party,
		Amount:          amount,
		Description:     req.Description,
		Direction:       req.Direction,
		BankName:        req.BankName,
		TransferType:    req.TransferType,
		ReferenceNumber: req.ReferenceNumber,
	})
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, respond.ToRecord(d))
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

type importSuccessResponse struct {
	Imported     int              `json:"imported"`
	Transactions []respond.Record `json:"transactions"`
}

type conflictDTO struct {
	Incoming createRequest  `json:"incoming"`
	Existing respond.Record `json:"existing"`
}

type importConflictResponse struct {
	New       []createRequest `json:"new"`
	Conflicts []conflictDTO   `json:"conflicts"`
}

type confirmRequest struct {
	Params []createRequest `json:"params"`
}

// importStatement takes a multipart upload with a "file" field and an optional
// "bank" field. Duplicates answer 409 with the rows for the user to confirm.
func (h *Handler) importStatement(w http.ResponseWriter, r *http.Request) {
	userID, ok := respond.UserID(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxStatementBytes)
	if err := r.ParseMultipartForm(maxStatementBytes); err != nil {
		http.Error(w, "failed to parse form: "+err.Error(), http.StatusBadRequest)
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "file field is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	result, err := h.statements.Import(r.Context(), userID, file, r.FormValue("bank"))
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	if len(result.Conflicts) > 0 {
		resp := importConflictResponse{
			New:       make([]createRequest, 0, len(result.New)),
			Conflicts: make([]conflictDTO, 0, len(result.Conflicts)),
		}

		for _, p := range result.New {
			resp.New = append(resp.New, toRequest(p))
		}

		for _, c := range result.Conflicts {
			resp.Conflicts = append(resp.Conflicts, conflictDTO{
				Incoming: toRequest(c.Incoming),
				Existing: respond.ToRecord(c.Existing),
			})
		}

		respond.JSON(w, http.StatusConflict, resp)

		return
	}

	respond.JSON(w, http.StatusCreated, importSuccessResponse{
		Imported:     len(result.Imported),
		Transactions: respond.Records(result.Imported),
	})
}

func (h *Handler) confirmImport(w http.ResponseWriter, r *http.Request) {
	userID, ok := respond.UserID(w, r)
	if !ok {
		return
	}

	var req confirmRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	params := make([]digital.CreateParams, 0, len(req.Params))
	for i, p := range req.Params {
		cp, err := p.params()
		if err != nil {
			respond.Error(w, r, fmt.Errorf("params[%d]: %w", i, err))
			return
		}

		params = append(params, cp)
	}

	transfers, err := h.svc.CreateBatch(r.Context(), userID, params)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusCreated, importSuccessResponse{
		Imported:     len(transfers),
		Transactions: respond.Records(transfers),
	})
}
