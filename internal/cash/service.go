package cash

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/finflow/internal/ledger"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=cash
type Repository interface {
	CreateTransaction(ctx context.Context, tx *ledger.Cash) error
	GetTransaction(ctx context.Context, userID, id uuid.UUID) (*ledger.Cash, error)
	ListTransactions(ctx context.Context, filter ledger.Filter) ([]*ledger.Cash, error)
	UpdateTransaction(ctx context.Context, tx *ledger.Cash) error
	DeleteTransaction(ctx context.Context, userID, id uuid.UUID) error
}

type Service struct {
	repo     Repository
	notifier ledger.Notifier
	now      func() time.Time
}

func NewService(repo Repository, notifier ledger.Notifier) *Service {
	if notifier == nil {
		notifier = ledger.NopNotifier{}
	}

	return &Service{repo: repo, notifier: notifier, now: time.Now}
}

// WithClock replaces the time source used to stamp the financial year.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

type CreateParams struct {
	Date        time.Time
	Party       string
	Amount      int64
	Description string
	Direction   ledger.Direction
}

type UpdateParams struct {
	Date        *time.Time
	Party       *string
	Amount      *int64
	Description *string
	Direction   *ledger.Direction
}

func (s *Service) Create(ctx context.Context, userID uuid.UUID, params CreateParams) (*ledger.Cash, error) {
	tx := &ledger.Cash{
		Entry: ledger.Entry{
			UserID:        userID,
			Date:          ledger.Day(params.Date),
			Party:         strings.TrimSpace(params.Party),
			Amount:        params.Amount,
			Description:   strings.TrimSpace(params.Description),
			Direction:     params.Direction,
			FinancialYear: ledger.FinancialYearOf(s.now()),
		},
	}

	if err := ledger.ValidateEntry(&tx.Entry); err != nil {
		return nil, err
	}

	if err := s.repo.CreateTransaction(ctx, tx); err != nil {
		return nil, err
	}

	s.notifier.Notify(ctx, ledger.NewChange(tx, ledger.ActionInsert, s.now()))

	return tx, nil
}

func (s *Service) Get(ctx context.Context, userID, id uuid.UUID) (*ledger.Cash, error) {
	return s.repo.GetTransaction(ctx, userID, id)
}

func (s *Service) List(ctx context.Context, filter ledger.Filter) ([]*ledger.Cash, error) {
	return s.repo.ListTransactions(ctx, filter)
}

func (s *Service) Update(ctx context.Context, userID, id uuid.UUID, params UpdateParams) (*ledger.Cash, error) {
	tx, err := s.repo.GetTransaction(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if params.Date != nil {
		tx.Date = ledger.Day(*params.Date)
	}

	if params.Party != nil {
		tx.Party = strings.TrimSpace(*params.Party)
	}

	if params.Amount != nil {
		tx.Amount = *params.Amount
	}

	if params.Description != nil {
		tx.Description = strings.TrimSpace(*params.Description)
	}

	if params.Direction != nil {
		tx.Direction = *params.Direction
	}

	if err := ledger.ValidateEntry(&tx.Entry); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateTransaction(ctx, tx); err != nil {
		return nil, err
	}

	s.notifier.Notify(ctx, ledger.NewChange(tx, ledger.ActionUpdate, s.now()))

	return tx, nil
}

func (s *Service) Delete(ctx context.Context, userID, id uuid.UUID) error {
	if err := s.repo.DeleteTransaction(ctx, userID, id); err != nil {
		return err
	}

	s.notifier.Notify(ctx, ledger.Change{
		Table:    ledger.KindCash.Table(),
		Action:   ledger.ActionDelete,
		RecordID: id,
		UserID:   userID,
		At:       s.now(),
	})

	return nil
}
