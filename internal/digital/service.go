package digital

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/finflow/internal/ledger"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=digital
type Repository interface {
	CreateTransfer(ctx context.Context, d *ledger.Digital) error
	GetTransfer(ctx context.Context, userID, id uuid.UUID) (*ledger.Digital, error)
	ListTransfers(ctx context.Context, filter ledger.Filter) ([]*ledger.Digital, error)
	UpdateTransfer(ctx context.Context, d *ledger.Digital) error
	DeleteTransfer(ctx context.Context, userID, id uuid.UUID) error

	BeginImport(ctx context.Context, userID uuid.UUID, minDate, maxDate time.Time) (ImportTx, error)
}

type ImportTx interface {
	FindDuplicates(ctx context.Context, records []*ledger.Digital) ([]*ledger.Digital, error)
	CreateTransfers(ctx context.Context, records []*ledger.Digital) error
	Commit() error
	Rollback() error
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
	Date            time.Time
	Party           string
	Amount          int64
	Description     string
	Direction       ledger.Direction
	BankName        string
	TransferType    ledger.TransferType
	ReferenceNumber string
}

type UpdateParams struct {
	Date            *time.Time
	Party           *string
	Amount          *int64
	Description     *string
	Direction       *ledger.Direction
	BankName        *string
	TransferType    *ledger.TransferType
	ReferenceNumber *string
}

func (s *Service) newTransfer(userID uuid.UUID, p CreateParams, fy ledger.FinancialYear) *ledger.Digital {
	return &ledger.Digital{
		Entry: ledger.Entry{
			UserID:        userID,
			Date:          ledger.Day(p.Date),
			Party:         strings.TrimSpace(p.Party),
			Amount:        p.Amount,
			Description:   strings.TrimSpace(p.Description),
			Direction:     p.Direction,
			FinancialYear: fy,
		},
		BankName:        strings.TrimSpace(p.BankName),
		TransferType:    p.TransferType,
		ReferenceNumber: strings.TrimSpace(p.ReferenceNumber),
	}
}

func (s *Service) Create(ctx context.Context, userID uuid.UUID, params CreateParams) (*ledger.Digital, error) {
	d := s.newTransfer(userID, params, ledger.FinancialYearOf(s.now()))

	if err := ledger.ValidateDigital(d); err != nil {
		return nil, err
	}

	if err := s.repo.CreateTransfer(ctx, d); err != nil {
		return nil, err
	}

	s.notifier.Notify(ctx, ledger.NewChange(d, ledger.ActionInsert, s.now()))

	return d, nil
}

func (s *Service) Get(ctx context.Context, userID, id uuid.UUID) (*ledger.Digital, error) {
	return s.repo.GetTransfer(ctx, userID, id)
}

func (s *Service) List(ctx context.Context, filter ledger.Filter) ([]*ledger.Digital, error) {
	return s.repo.ListTransfers(ctx, filter)
}

func (s *Service) Update(ctx context.Context, userID, id uuid.UUID, params UpdateParams) (*ledger.Digital, error) {
	d, err := s.repo.GetTransfer(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if params.Date != nil {
		d.Date = ledger.Day(*params.Date)
	}

	if params.Party != nil {
		d.Party = strings.TrimSpace(*params.Party)
	}

	if params.Amount != nil {
		d.Amount = *params.Amount
	}

	if params.Description != nil {
		d.Description = strings.TrimSpace(*params.Description)
	}

	if params.Direction != nil {
		d.Direction = *params.Direction
	}

	if params.BankName != nil {
		d.BankName = strings.TrimSpace(*params.BankName)
	}

	if params.TransferType != nil {
		d.TransferType = *params.TransferType
	}

	if params.ReferenceNumber != nil {
		d.ReferenceNumber = strings.TrimSpace(*params.ReferenceNumber)
	}

	if err := ledger.ValidateDigital(d); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateTransfer(ctx, d); err != nil {
		return nil, err
	}

	s.notifier.Notify(ctx, ledger.NewChange(d, ledger.ActionUpdate, s.now()))

	return d, nil
}

func (s *Service) Delete(ctx context.Context, userID, id uuid.UUID) error {
	if err := s.repo.DeleteTransfer(ctx, userID, id); err != nil {
		return err
	}

	s.notifier.Notify(ctx, ledger.Change{
		Table:    ledger.KindDigital.Table(),
		Action:   ledger.ActionDelete,
		RecordID: id,
		UserID:   userID,
		At:       s.now(),
	})

	return nil
}

type ImportResult struct {
	Imported  []*ledger.Digital
	New       []CreateParams
	Conflicts []Conflict
}

// Conflict pairs a statement row with the stored transfer it duplicates.
type Conflict struct {
	Incoming CreateParams
	Existing *ledger.Digital
}

// dupKey identifies a statement row: same day, amount, direction and bank reference.
type dupKey struct {
	Date      string
	Amount    int64
	Direction ledger.Direction
	Reference string
}

func keyOf(d *ledger.Digital) dupKey {
	return dupKey{
		Date:      d.Date.Format(time.DateOnly),
		Amount:    d.Amount,
		Direction: d.Direction,
		Reference: d.ReferenceNumber,
	}
}

// ImportBatch writes a parsed statement unless some rows already exist.
// When duplicates are found nothing is written: the caller gets the new rows and
// the conflicts back and decides which to send to CreateBatch.
func (s *Service) ImportBatch(ctx context.Context, userID uuid.UUID, params []CreateParams) (*ImportResult, error) {
	if len(params) == 0 {
		return &ImportResult{}, nil
	}

	records, err := s.prepare(userID, params)
	if err != nil {
		return nil, err
	}

	minDate, maxDate := dateRange(records)

	itx, err := s.repo.BeginImport(ctx, userID, minDate, maxDate)
	if err != nil {
		return nil, fmt.Errorf("begin import: %w", err)
	}
	defer itx.Rollback()

	duplicates, err := itx.FindDuplicates(ctx, records)
	if err != nil {
		return nil, fmt.Errorf("find duplicates: %w", err)
	}

	lookup := make(map[dupKey]*ledger.Digital, len(duplicates))
	for _, d := range duplicates {
		lookup[keyOf(d)] = d
	}

	var (
		newParams  []CreateParams
		newRecords []*ledger.Digital
		conflicts  []Conflict
	)

	for i, r := range records {
		if existing, found := lookup[keyOf(r)]; found {
			conflicts = append(conflicts, Conflict{Incoming: params[i], Existing: existing})
			continue
		}

		newParams = append(newParams, params[i])
		newRecords = append(newRecords, r)
	}

	if len(conflicts) > 0 {
		return &ImportResult{New: newParams, Conflicts: conflicts}, nil
	}

	if err := itx.CreateTransfers(ctx, newRecords); err != nil {
		return nil, fmt.Errorf("create transfers: %w", err)
	}

	if err := itx.Commit(); err != nil {
		return nil, fmt.Errorf("commit import: %w", err)
	}

	s.notifyInserted(ctx, newRecords)

	return &ImportResult{Imported: newRecords}, nil
}

// CreateBatch writes every row without duplicate checks, after the user confirmed them.
func (s *Service) CreateBatch(ctx context.Context, userID uuid.UUID, params []CreateParams) ([]*ledger.Digital, error) {
	if len(params) == 0 {
		return nil, nil
	}

	records, err := s.prepare(userID, params)
	if err != nil {
		return nil, err
	}

	minDate, maxDate := dateRange(records)

	itx, err := s.repo.BeginImport(ctx, userID, minDate, maxDate)
	if err != nil {
		return nil, fmt.Errorf("begin import: %w", err)
	}
	defer itx.Rollback()

	if err := itx.CreateTransfers(ctx, records); err != nil {
		return nil, fmt.Errorf("create transfers: %w", err)
	}

	if err := itx.Commit(); err != nil {
		return nil, fmt.Errorf("commit import: %w", err)
	}

	s.notifyInserted(ctx, records)

	return records, nil
}

func (s *Service) prepare(userID uuid.UUID, params []CreateParams) ([]*ledger.Digital, error) {
	fy := ledger.FinancialYearOf(s.now())

	records := make([]*ledger.Digital, len(params))
	for i, p := range params {
		records[i] = s.newTransfer(userID, p, fy)

		if err := ledger.ValidateDigital(records[i]); err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
	}

	return records, nil
}

func (s *Service) notifyInserted(ctx context.Context, records []*ledger.Digital) {
	at := s.now()
	for _, r := range records {
		s.notifier.Notify(ctx, ledger.NewChange(r, ledger.ActionInsert, at))
	}
}

func dateRange(records []*ledger.Digital) (time.Time, time.Time) {
	minDate := records[0].Date
	maxDate := records[0].Date

	for _, r := range records[1:] {
		if r.Date.Before(minDate) {
			minDate = r.Date
		}

		if r.Date.After(maxDate) {
			maxDate = r.Date
		}
	}

	return minDate, maxDate
}
