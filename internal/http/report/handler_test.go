package report_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/finflow/internal/auth"
	reportapi "github.com/MrJamesThe3rd/finflow/internal/http/report"
	"github.com/MrJamesThe3rd/finflow/internal/ledger"
	"github.com/MrJamesThe3rd/finflow/internal/report"
)

var userID = uuid.New()

type cashList []*ledger.Cash

func (l cashList) List(context.Context, ledger.Filter) ([]*ledger.Cash, error) { return l, nil }

type chequeList []*ledger.Cheque

func (l chequeList) List(context.Context, ledger.Filter) ([]*ledger.Cheque, error) { return l, nil }

type digitalList []*ledger.Digital

func (l digitalList) List(context.Context, ledger.Filter) ([]*ledger.Digital, error) { return l, nil }

func newRouter() http.Handler {
	day := time.Date(2025, 4, 12, 0, 0, 0, 0, time.UTC)

	books := ledger.Books{
		Cash: cashList{{Entry: ledger.Entry{
			ID: uuid.New(), Date: day, Party: "Gupta Stores", Amount: 150000,
			Description: "Counter sale", Direction: ledger.DirectionIncoming,
		}}},
		Cheques: chequeList{{
			Entry: ledger.Entry{
				ID: uuid.New(), Date: day, Party: "Mehta & Sons", Amount: 50000,
				Description: "Rent", Direction: ledger.DirectionOutgoing,
			},
			ChequeNumber: "000451",
			BankName:     "HDFC Bank",
			Status:       ledger.ChequeCleared,
		}},
		Digital: digitalList{{
			Entry: ledger.Entry{
				ID: uuid.New(), Date: day, Party: "Sharma Traders", Amount: 25000,
				Description: "UPI", Direction: ledger.DirectionIncoming,
			},
			BankName:     "SBI",
			TransferType: ledger.TransferUPI,
		}},
	}

	svc := report.NewService(books, report.DefaultRowsPerPage).WithClock(func() time.Time {
		return time.Date(2025, 4, 20, 15, 0, 0, 0, time.UTC)
	})

	r := chi.NewRouter()
	reportapi.NewHandler(svc).Routes(r)

	return r
}

func get(h http.Handler, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	req = req.WithContext(auth.NewContext(req.Context(), auth.Session{UserID: userID}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	return rec
}

func TestHandler_Download(t *testing.T) {
	tests := []struct {
		name           string
		target         string
		wantCode       int
		wantType       string
		wantFilename   string
		wantBodyPrefix string
	}{
		{
			name:           "DefaultPDF",
			target:         "/",
			wantCode:       http.StatusOK,
			wantType:       "application/pdf",
			wantFilename:   "all-transactions-2025-04-01-to-2025-04-30.pdf",
			wantBodyPrefix: "%PDF",
		},
		{
			name:           "XLSX",
			target:         "/?format=xlsx&type=cash-only&start=2025-04-01&end=2025-04-15",
			wantCode:       http.StatusOK,
			wantType:       "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
			wantFilename:   "cash-transactions-2025-04-01-to-2025-04-15.xlsx",
			wantBodyPrefix: "PK",
		},
		{
			name:     "UnknownFormat",
			target:   "/?format=docx",
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "BadDate",
			target:   "/?start=12-04-2025&end=2025-04-30",
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "EndBeforeStart",
			target:   "/?start=2025-04-30&end=2025-04-01",
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "BankWiseWithoutBank",
			target:   "/?type=bank-wise",
			wantCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(newRouter(), tt.target)
			require.Equal(t, tt.wantCode, rec.Code, rec.Body.String())

			if tt.wantCode != http.StatusOK {
				return
			}

			assert.Equal(t, tt.wantType, rec.Header().Get("Content-Type"))
			assert.Equal(t, `attachment; filename="`+tt.wantFilename+`"`, rec.Header().Get("Content-Disposition"))
			assert.Equal(t, strconv.Itoa(rec.Body.Len()), rec.Header().Get("Content-Length"))
			assert.True(t, len(rec.Body.String()) > len(tt.wantBodyPrefix))
			assert.Equal(t, tt.wantBodyPrefix, rec.Body.String()[:len(tt.wantBodyPrefix)])
		})
	}
}

func TestHandler_DownloadJSON(t *testing.T) {
	rec := get(newRouter(), "/?format=json&start=2025-04-01&end=2025-04-30")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var got struct {
		Title      string  `json:"title"`
		Type       string  `json:"type"`
		Start      string  `json:"start"`
		End        string  `json:"end"`
		GrandTotal float64 `json:"grand_total"`
		Sections   []struct {
			Kind    string  `json:"kind"`
			Credits float64 `json:"credits"`
			Debits  float64 `json:"debits"`
			Rows    []struct {
				ChequeNumber string `json:"cheque_number"`
			} `json:"rows"`
		} `json:"sections"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))

	assert.Equal(t, "Complete Transaction Report", got.Title)
	assert.Equal(t, "all", got.Type)
	assert.Equal(t, "2025-04-01", got.Start)
	assert.Equal(t, "2025-04-30", got.End)
	require.Len(t, got.Sections, 3)
	assert.Equal(t, "cash", got.Sections[0].Kind)
	assert.Equal(t, "digital", got.Sections[1].Kind)
	assert.Equal(t, "cheque", got.Sections[2].Kind)
	assert.InDelta(t, 500, got.Sections[2].Debits, 0.001)
	require.Len(t, got.Sections[2].Rows, 1)
	assert.Equal(t, "000451", got.Sections[2].Rows[0].ChequeNumber)
}

func TestHandler_Banks(t *testing.T) {
	rec := get(newRouter(), "/banks?start=2025-04-01&end=2025-04-30")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `["HDFC Bank","SBI"]`, rec.Body.String())

	for _, target := range []string{
		"/banks?start=2025-04-01",
		"/banks?end=2025-04-30",
		"/banks?start=2025-04-30&end=2025-04-01",
	} {
		rec := get(newRouter(), target)
		assert.Equal(t, http.StatusBadRequest, rec.Code, target)
	}
}
