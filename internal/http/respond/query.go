package respond

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/finflow/internal/ledger"
)

// ListFilter reads the listing query parameters shared by every kind:
// direction, financial_year, start_date, end_date, party, q and bank.
func ListFilter(r *http.Request, userID uuid.UUID) (ledger.Filter, error) {
	q := r.URL.Query()
	filter := ledger.Filter{
		UserID: userID,
		Party:  strings.TrimSpace(q.Get("party")),
		Term:   strings.TrimSpace(q.Get("q")),
		Bank:   strings.TrimSpace(q.Get("bank")),
	}

	var errs []error

	if s := q.Get("direction"); s != "" {
		d := ledger.Direction(s)
		if !d.Valid() {
			errs = append(errs, &ledger.FieldError{Field: "direction", Message: "must be incoming or outgoing"})
		} else {
			filter.Direction = &d
		}
	}

	if s := q.Get("financial_year"); s != "" {
		fy, err := ledger.ParseFinancialYear(s)
		if err != nil {
			errs = append(errs, &ledger.FieldError{Field: "financial_year", Message: err.Error()})
		} else {
			filter.FinancialYear = &fy
		}
	}

	for _, p := range []struct {
		name string
		dst  **time.Time
	}{
		{"start_date", &filter.StartDate},
		{"end_date", &filter.EndDate},
	} {
		s := q.Get(p.name)
		if s == "" {
			continue
		}

		t, err := ParseDate(s)
		if err != nil {
			errs = append(errs, &ledger.FieldError{Field: p.name, Message: err.Error()})
			continue
		}

		*p.dst = new(t)
	}

	return filter, errors.Join(errs...)
}

// Limit reads ?limit, falling back to def for missing or non-positive values.
func Limit(r *http.Request, def int) int {
	n, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || n <= 0 {
		return def
	}

	return n
}
