package report

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/finflow/internal/ledger"
)

type Service struct {
	books       ledger.Books
	rowsPerPage int
	now         func() time.Time
}

func NewService(books ledger.Books, rowsPerPage int) *Service {
	if rowsPerPage <= 0 {
		rowsPerPage = DefaultRowsPerPage
	}

	return &Service{books: books, rowsPerPage: rowsPerPage, now: time.Now}
}

func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Generate fetches the kinds the report type needs for the inclusive date range and builds the report.
func (s *Service) Generate(ctx context.Context, userID uuid.UUID, req Request) (*Report, error) {
	req = req.Normalize(s.now())
	if err := req.Validate(); err != nil {
		return nil, err
	}

	filter := ledger.Filter{UserID: userID, StartDate: &req.Start, EndDate: &req.End}
	if req.Type == TypeBankWise {
		filter.Bank = req.Bank
	}

	set, err := s.books.Fetch(ctx, filter, req.Type.Kinds()...)
	if err != nil {
		return nil, fmt.Errorf("generating report: %w", err)
	}

	return Build(req, set, s.rowsPerPage, s.now()), nil
}

// Banks lists the distinct bank names used by digital and cheque records in the range, sorted.
func (s *Service) Banks(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]string, error) {
	switch {
	case start.IsZero() && end.IsZero():
		start, end = CurrentMonth(s.now())
	case start.IsZero() || end.IsZero():
		return nil, fmt.Errorf("%w: start and end dates are required together", ErrInvalidRequest)
	}

	start, end = ledger.Day(start), ledger.Day(end)
	if end.Before(start) {
		return nil, fmt.Errorf("%w: end date is before start date", ErrInvalidRequest)
	}

	set, err := s.books.Fetch(ctx, ledger.Filter{UserID: userID, StartDate: &start, EndDate: &end},
		ledger.KindDigital, ledger.KindCheque)
	if err != nil {
		return nil, fmt.Errorf("listing report banks: %w", err)
	}

	banks := []string{}
	for _, rec := range set.Records() {
		if name := strings.TrimSpace(ledger.BankOf(rec)); name != "" {
			banks = append(banks, name)
		}
	}

	slices.Sort(banks)

	return slices.Compact(banks), nil
}
