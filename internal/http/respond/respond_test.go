package respond_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/finflow/internal/auth"
	"github.com/MrJamesThe3rd/finflow/internal/http/respond"
	"github.com/MrJamesThe3rd/finflow/internal/ledger"
	"github.com/MrJamesThe3rd/finflow/internal/report"
)

func TestStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{err: &ledger.FieldError{Field: "party", Message: "is required"}, want: http.StatusBadRequest},
		{err: fmt.Errorf("getting cheque: %w", ledger.ErrNotFound), want: http.StatusNotFound},
		{err: auth.ErrInvalidCredentials, want: http.StatusUnauthorized},
		{err: auth.ErrInvalidToken, want: http.StatusUnauthorized},
		{err: auth.ErrNotVerified, want: http.StatusForbidden},
		{err: auth.ErrEmailTaken, want: http.StatusConflict},
		{err: auth.ErrTooSoon, want: http.StatusTooManyRequests},
		{err: fmt.Errorf("%w: %w", auth.ErrRevocationsFull, errors.New("cache full")), want: http.StatusServiceUnavailable},
		{err: fmt.Errorf("%w: bad range", report.ErrInvalidRequest), want: http.StatusBadRequest},
		{err: errors.New("connection refused"), want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.Equal(t, tt.want, respond.Status(tt.err))
		})
	}
}

func TestError_HidesInternalErrors(t *testing.T) {
	rec := httptest.NewRecorder()
	respond.Error(rec, httptest.NewRequest(http.MethodGet, "/", nil), errors.New("pq: password authentication failed"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "password")
}

func TestToRecord(t *testing.T) {
	c := &ledger.Cheque{
		Entry: ledger.Entry{
			ID:            uuid.New(),
			Date:          time.Date(2025, 4, 9, 0, 0, 0, 0, time.UTC),
			Party:         "Mehta & Sons",
			Amount:        125050,
			Direction:     ledger.DirectionOutgoing,
			FinancialYear: "2025-2026",
		},
		ChequeNumber: "000123",
		BankName:     "HDFC Bank",
		Status:       ledger.ChequePending,
	}

	body, err := json.Marshal(respond.ToRecord(c))
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(body, &got))

	assert.Equal(t, "cheque", got["kind"])
	assert.Equal(t, "2025-04-09", got["date"])
	assert.InDelta(t, 1250.50, got["amount"], 0.001)
	assert.Contains(t, string(body), `"amount":1250.50`)
	assert.Equal(t, "000123", got["cheque_number"])
	assert.Equal(t, "pending", got["status"])
	assert.NotContains(t, got, "transfer_type")
}

func TestDate_UnmarshalJSON(t *testing.T) {
	var d respond.Date
	require.NoError(t, json.Unmarshal([]byte(`"2025-04-01"`), &d))
	assert.Equal(t, time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC), d.Time())

	require.NoError(t, json.Unmarshal([]byte(`"2025-04-01T10:30:00+05:30"`), &d))
	assert.Equal(t, 1, d.Time().Day())

	assert.Error(t, json.Unmarshal([]byte(`"01/04/2025"`), &d))
}

func TestListFilter(t *testing.T) {
	userID := uuid.New()

	t.Run("AllFields", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet,
			"/?direction=incoming&financial_year=2024-2025&start_date=2024-04-01&end_date=2024-06-30&party=gupta&q=neft&bank=SBI", nil)

		f, err := respond.ListFilter(r, userID)
		require.NoError(t, err)
		assert.Equal(t, userID, f.UserID)
		assert.Equal(t, ledger.DirectionIncoming, *f.Direction)
		assert.Equal(t, ledger.FinancialYear("2024-2025"), *f.FinancialYear)
		assert.Equal(t, time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC), *f.EndDate)
		assert.Equal(t, "gupta", f.Party)
		assert.Equal(t, "neft", f.Term)
		assert.Equal(t, "SBI", f.Bank)
	})

	t.Run("Invalid", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/?direction=up&financial_year=2024&start_date=yesterday", nil)

		_, err := respond.ListFilter(r, userID)
		assert.ErrorIs(t, err, ledger.ErrInvalid)

		for _, field := range []string{"direction", "financial_year", "start_date"} {
			assert.Contains(t, err.Error(), field)
		}
	})
}
