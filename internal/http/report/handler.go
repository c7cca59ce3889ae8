package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/finflow/internal/http/respond"
	"github.com/MrJamesThe3rd/finflow/internal/ledger"
	"github.com/MrJamesThe3rd/finflow/internal/report"
)

type Handler struct {
	svc *report.Service
}

func NewHandler(svc *report.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.download)
	r.Get("/banks", h.banks)
}

// dateRange reads ?start and ?end. Both missing means the service default.
func dateRange(r *http.Request) (time.Time, time.Time, error) {
	var start, end time.Time

	for _, p := range []struct {
		name string
		dst  *time.Time
	}{
		{"start", &start},
		{"end", &end},
	} {
		s := r.URL.Query().Get(p.name)
		if s == "" {
			continue
		}

		t, err := respond.ParseDate(s)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("%w: %s: %w", report.ErrInvalidRequest, p.name, err)
		}

		*p.dst = t
	}

	return start, end, nil
}

func (h *Handler) download(w http.ResponseWriter, r *http.Request) {
	userID, ok := respond.UserID(w, r)
	if !ok {
		return
	}

	format, err := report.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	start, end, err := dateRange(r)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	rep, err := h.svc.Generate(r.Context(), userID, report.Request{
		Start: start,
		End:   end,
		Type:  report.Type(r.URL.Query().Get("type")),
		Bank:  r.URL.Query().Get("bank"),
	})
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	var buf bytes.Buffer

	switch format {
	case report.FormatPDF:
		err = report.WritePDF(&buf, rep)
	case report.FormatXLSX:
		err = report.WriteXLSX(&buf, rep)
	case report.FormatJSON:
		err = json.NewEncoder(&buf).Encode(toReportResponse(rep))
	}

	if err != nil {
		respond.Error(w, r, fmt.Errorf("rendering %s report: %w", format, err))
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", rep.Request.Filename(format)))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))

	if _, err := buf.WriteTo(w); err != nil {
		slog.ErrorContext(r.Context(), "failed to write report", "error", err)
	}
}

type rowResponse struct {
	Date         respond.Date     `json:"date"`
	Description  string           `json:"description"`
	ChequeNumber string           `json:"cheque_number,omitempty"`
	Bank         string           `json:"bank,omitempty"`
	Direction    ledger.Direction `json:"direction"`
	Amount       json.Number      `json:"amount"`
}

type sectionResponse struct {
	Kind    ledger.Kind   `json:"kind"`
	Title   string        `json:"title"`
	Credits json.Number   `json:"credits"`
	Debits  json.Number   `json:"debits"`
	Net     json.Number   `json:"net"`
	Rows    []rowResponse `json:"rows"`
}

type reportResponse struct {
	Title       string            `json:"title"`
	Type        report.Type       `json:"type"`
	Bank        string            `json:"bank,omitempty"`
	Start       respond.Date      `json:"start"`
	End         respond.Date      `json:"end"`
	GeneratedAt time.Time         `json:"generated_at"`
	GrandTotal  json.Number       `json:"grand_total"`
	Sections    []sectionResponse `json:"sections"`
}

func toReportResponse(rep *report.Report) reportResponse {
	resp := reportResponse{
		Title:       rep.Request.Title(),
		Type:        rep.Request.Type,
		Bank:        rep.Request.Bank,
		Start:       respond.Date(rep.Request.Start),
		End:         respond.Date(rep.Request.End),
		GeneratedAt: rep.GeneratedAt,
		GrandTotal:  respond.Amount(rep.GrandTotal()),
		Sections:    make([]sectionResponse, 0, len(rep.Sections)),
	}

	for _, sec := range rep.Sections {
		rows := make([]rowResponse, len(sec.Rows))
		for i, row := range sec.Rows {
			rows[i] = rowResponse{
				Date:         respond.Date(row.Date),
				Description:  row.Description,
				ChequeNumber: row.ChequeNumber,
				Bank:         row.Bank,
				Direction:    row.Direction,
				Amount:       respond.Amount(row.Amount),
			}
		}

		resp.Sections = append(resp.Sections, sectionResponse{
			Kind:    sec.Kind,
			Title:   sec.Title(),
			Credits: respond.Amount(sec.Credits),
			Debits:  respond.Amount(sec.Debits),
			Net:     respond.Amount(sec.Net()),
			Rows:    rows,
		})
	}

	return resp
}

func (h *Handler) banks(w http.ResponseWriter, r *http.Request) {
	userID, ok := respond.UserID(w, r)
	if !ok {
		return
	}

	start, end, err := dateRange(r)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	banks, err := h.svc.Banks(r.Context(), userID, start, end)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, banks)
}
