package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/finflow/internal/ledger"
)

type Service struct {
	books ledger.Books
	now   func() time.Time
}

func NewService(books ledger.Books) *Service {
	return &Service{books: books, now: time.Now}
}

func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

func (s *Service) currentYear(userID uuid.UUID) ledger.Filter {
	fy := ledger.FinancialYearOf(s.now())
	return ledger.Filter{UserID: userID, FinancialYear: &fy}
}

// Summary aggregates the current financial year. On failure it returns the
// zero summary together with the error, so callers can still render something
// while knowing the numbers are not real.
func (s *Service) Summary(ctx context.Context, userID uuid.UUID) (Summary, error) {
	set, err := s.books.Fetch(ctx, s.currentYear(userID))
	if err != nil {
		return Zero(), fmt.Errorf("dashboard summary: %w", err)
	}

	return Summarize(set), nil
}

// Banks returns the current financial year's bank distribution.
func (s *Service) Banks(ctx context.Context, userID uuid.UUID) ([]BankTotal, error) {
	set, err := s.books.Fetch(ctx, s.currentYear(userID))
	if err != nil {
		return []BankTotal{}, fmt.Errorf("bank distribution: %w", err)
	}

	return BankDistribution(set), nil
}

// Parties returns per-party totals across all years.
func (s *Service) Parties(ctx context.Context, userID uuid.UUID) ([]PartyTotal, error) {
	set, err := s.books.Fetch(ctx, ledger.Filter{UserID: userID})
	if err != nil {
		return nil, fmt.Errorf("party overview: %w", err)
	}

	return PartyTotals(set), nil
}
