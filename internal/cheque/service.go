package cheque

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/finflow/internal/ledger"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=cheque
type Repository interface {
	CreateCheque(ctx context.Context, c *ledger.Cheque) error
	GetCheque(ctx context.Context, userID, id uuid.UUID) (*ledger.Cheque, error)
	ListCheques(ctx context.Context, filter ledger.Filter) ([]*ledger.Cheque, error)
	UpdateCheque(ctx context.Context, c *ledger.Cheque) error
	UpdateStatus(ctx context.Context, userID, id uuid.UUID, status ledger.ChequeStatus) error
	DeleteCheque(ctx context.Context, userID, id uuid.UUID) error
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

func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

type CreateParams struct {
	Date         time.Time
	Party        string
	Amount       int64
	Description  string
	Direction    ledger.Direction
	ChequeNumber string
	BankName     string
	// Status defaults to pending.
	Status ledger.ChequeStatus
}

type UpdateParams struct {
	Date         *time.Time
	Party        *string
	Amount       *int64
	Description  *string
	Direction    *ledger.Direction
	ChequeNumber *string
	BankName     *string
	Status       *ledger.ChequeStatus
}

func (s *Service) Create(ctx context.Context, userID uuid.UUID, params CreateParams) (*ledger.Cheque, error) {
	status := params.Status
	if status == "" {
		status = ledger.ChequePending
	}

	c := &ledger.Cheque{
		Entry: ledger.Entry{
			UserID:        userID,
			Date:          ledger.Day(params.Date),
			Party:         strings.TrimSpace(params.Party),
			Amount:        params.Amount,
			Description:   strings.TrimSpace(params.Description),
			Direction:     params.Direction,
			FinancialYear: ledger.FinancialYearOf(s.now()),
		},
		ChequeNumber: strings.TrimSpace(params.ChequeNumber),
		BankName:     strings.TrimSpace(params.BankName),
		Status:       status,
	}

	if err := ledger.ValidateCheque(c); err != nil {
		return nil, err
	}

	if err := s.repo.CreateCheque(ctx, c); err != nil {
		return nil, err
	}

	s.notifier.Notify(ctx, ledger.NewChange(c, ledger.ActionInsert, s.now()))

	return c, nil
}

func (s *Service) Get(ctx context.Context, userID, id uuid.UUID) (*ledger.Cheque, error) {
	return s.repo.GetCheque(ctx, userID, id)
}

func (s *Service) List(ctx context.Context, filter ledger.Filter) ([]*ledger.Cheque, error) {
	return s.repo.ListCheques(ctx, filter)
}

func (s *Service) Update(ctx context.Context, userID, id uuid.UUID, params UpdateParams) (*ledger.Cheque, error) {
	c, err := s.repo.GetCheque(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if params.Date != nil {
		c.Date = ledger.Day(*params.Date)
	}

	if params.Party != nil {
		c.Party = strings.TrimSpace(*params.Party)
	}

	if params.Amount != nil {
		c.Amount = *params.Amount
	}

	if params.Description != nil {
		c.Description = strings.TrimSpace(*params.Description)
	}

	if params.Direction != nil {
		c.Direction = *params.Direction
	}

	if params.ChequeNumber != nil {
		c.ChequeNumber = strings.TrimSpace(*params.ChequeNumber)
	}

	if params.BankName != nil {
		c.BankName = strings.TrimSpace(*params.BankName)
	}

	if params.Status != nil {
		c.Status = *params.Status
	}

	if err := ledger.ValidateCheque(c); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateCheque(ctx, c); err != nil {
		return nil, err
	}

	s.notifier.Notify(ctx, ledger.NewChange(c, ledger.ActionUpdate, s.now()))

	return c, nil
}

// UpdateStatus moves a cheque to another clearing state without touching its other fields.
func (s *Service) UpdateStatus(ctx context.Context, userID, id uuid.UUID, status ledger.ChequeStatus) error {
	if !status.Valid() {
		return &ledger.FieldError{Field: "status", Message: "must be pending, cleared, bounced or cancelled"}
	}

	if err := s.repo.UpdateStatus(ctx, userID, id, status); err != nil {
		return err
	}

	s.notifier.Notify(ctx, ledger.Change{
		Table:    ledger.KindCheque.Table(),
		Action:   ledger.ActionUpdate,
		RecordID: id,
		UserID:   userID,
		At:       s.now(),
	})

	return nil
}

func (s *Service) Delete(ctx context.Context, userID, id uuid.UUID) error {
	if err := s.repo.DeleteCheque(ctx, userID, id); err != nil {
		return err
	}

	s.notifier.Notify(ctx, ledger.Change{
		Table:    ledger.KindCheque.Table(),
		Action:   ledger.ActionDelete,
		RecordID: id,
		UserID:   userID,
		At:       s.now(),
	})

	return nil
}
