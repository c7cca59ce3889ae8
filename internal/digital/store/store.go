package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"hash/fnv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/finflow/internal/database"
	"github.com/MrJamesThe3rd/finflow/internal/digital"
	"github.com/MrJamesThe3rd/finflow/internal/ledger"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

const selectColumns = `
	id, user_id, date, party, amount, description, direction, financial_year,
	bank_name, transfer_type, reference_number, created_at, updated_at
`

const insertQuery = `
	INSERT INTO digital_transactions (user_id, date, party, amount, description, direction, financial_year,
		bank_name, transfer_type, reference_number, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW())
	RETURNING id, created_at
`

// queryer is satisfied by both *sql.DB and *sql.Tx.
type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func scanDigital(s scanner) (*ledger.Digital, error) {
	var d ledger.Digital

	var direction, fy, transferType string

	if err := s.Scan(
		&d.ID, &d.UserID, &d.Date, &d.Party, &d.Amount, &d.Description, &direction, &fy,
		&d.BankName, &transferType, &d.ReferenceNumber, &d.CreatedAt, &d.UpdatedAt,
	); err != nil {
		return nil, err
	}

	d.Direction = ledger.Direction(direction)
	d.FinancialYear = ledger.FinancialYear(fy)
	d.TransferType = ledger.TransferType(transferType)

	return &d, nil
}

func insert(ctx context.Context, q queryer, d *ledger.Digital) error {
	return q.QueryRowContext(ctx, insertQuery,
		d.UserID,
		d.Date,
		d.Party,
		d.Amount,
		d.Description,
		d.Direction,
		d.FinancialYear,
		d.BankName,
		d.TransferType,
		d.ReferenceNumber,
	).Scan(&d.ID, &d.CreatedAt)
}

func (s *Store) CreateTransfer(ctx context.Context, d *ledger.Digital) error {
	if err := insert(ctx, s.db, d); err != nil {
		return fmt.Errorf("creating digital transaction: %w", err)
	}

	return nil
}

func (s *Store) GetTransfer(ctx context.Context, userID, id uuid.UUID) (*ledger.Digital, error) {
	query := `SELECT ` + selectColumns + ` FROM digital_transactions WHERE id = $1 AND user_id = $2`

	d, err := scanDigital(s.db.QueryRowContext(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ledger.ErrNotFound
		}

		return nil, fmt.Errorf("getting digital transaction: %w", err)
	}

	return d, nil
}

func (s *Store) ListTransfers(ctx context.Context, filter ledger.Filter) ([]*ledger.Digital, error) {
	var args database.Args

	query := `SELECT ` + selectColumns + ` FROM digital_transactions WHERE ` + database.EntryFilter(filter, &args)

	if term := strings.TrimSpace(filter.Term); term != "" {
		query += " AND " + database.AnyContains(term, &args, "party", "bank_name", "reference_number")
	}

	if bank := strings.TrimSpace(filter.Bank); bank != "" {
		query += " AND TRIM(bank_name) = " + args.Add(bank)
	}

	query += " ORDER BY date DESC, created_at DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing digital transactions: %w", err)
	}
	defer rows.Close()

	return collect(rows)
}

func collect(rows *sql.Rows) ([]*ledger.Digital, error) {
	var out []*ledger.Digital

	for rows.Next() {
		d, err := scanDigital(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning digital transaction: %w", err)
		}

		out = append(out, d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating digital transactions: %w", err)
	}

	return out, nil
}

func (s *Store) UpdateTransfer(ctx context.Context, d *ledger.Digital) error {
	query := `
		UPDATE digital_transactions
		SET date = $1, party = $2, amount = $3, description = $4, direction = $5,
			bank_name = $6, transfer_type = $7, reference_number = $8, updated_at = NOW()
		WHERE id = $9 AND user_id = $10
		RETURNING updated_at
	`

	err := s.db.QueryRowContext(ctx, query,
		d.Date,
		d.Party,
		d.Amount,
		d.Description,
		d.Direction,
		d.BankName,
		d.TransferType,
		d.ReferenceNumber,
		d.ID,
		d.UserID,
	).Scan(&d.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ledger.ErrNotFound
		}

		return fmt.Errorf("updating digital transaction: %w", err)
	}

	return nil
}

func (s *Store) DeleteTransfer(ctx context.Context, userID, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM digital_transactions WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("deleting digital transaction: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting digital transaction: %w", err)
	}

	if n == 0 {
		return ledger.ErrNotFound
	}

	return nil
}

// importLockKey scopes the advisory lock to one user and one date range, so
// overlapping imports of the same statement serialize.
func importLockKey(userID uuid.UUID, minDate, maxDate time.Time) int64 {
	h := fnv.New64a()
	h.Write(userID[:])
	h.Write([]byte(minDate.Format(time.DateOnly)))
	h.Write([]byte{0})
	h.Write([]byte(maxDate.Format(time.DateOnly)))

	return int64(h.Sum64())
}

type importTx struct {
	tx               *sql.Tx
	userID           uuid.UUID
	minDate, maxDate time.Time
}

func (s *Store) BeginImport(ctx context.Context, userID uuid.UUID, minDate, maxDate time.Time) (digital.ImportTx, error) {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning import tx: %w", err)
	}

	if _, err := dbTx.ExecContext(ctx, "SELECT pg_advisory_xact_lock($1)", importLockKey(userID, minDate, maxDate)); err != nil {
		dbTx.Rollback()
		return nil, fmt.Errorf("acquiring import lock: %w", err)
	}

	return &importTx{tx: dbTx, userID: userID, minDate: minDate, maxDate: maxDate}, nil
}

func (itx *importTx) Commit() error   { return itx.tx.Commit() }
func (itx *importTx) Rollback() error { return itx.tx.Rollback() }

type lookupKey struct {
	Date      string
	Amount    int64
	Direction ledger.Direction
	Reference string
}

func keyOf(d *ledger.Digital) lookupKey {
	return lookupKey{
		Date:      d.Date.Format(time.DateOnly),
		Amount:    d.Amount,
		Direction: d.Direction,
		Reference: d.ReferenceNumber,
	}
}

// FindDuplicates returns stored transfers in the batch's date range that share
// date, amount, direction and reference with an incoming record.
func (itx *importTx) FindDuplicates(ctx context.Context, records []*ledger.Digital) ([]*ledger.Digital, error) {
	if len(records) == 0 {
		return nil, nil
	}

	keySet := make(map[lookupKey]struct{}, len(records))
	for _, r := range records {
		keySet[keyOf(r)] = struct{}{}
	}

	query := `SELECT ` + selectColumns + `
		FROM digital_transactions
		WHERE user_id = $1 AND date >= $2 AND date <= $3
		ORDER BY date ASC`

	rows, err := itx.tx.QueryContext(ctx, query, itx.userID, itx.minDate, itx.maxDate)
	if err != nil {
		return nil, fmt.Errorf("finding duplicates: %w", err)
	}
	defer rows.Close()

	stored, err := collect(rows)
	if err != nil {
		return nil, err
	}

	var duplicates []*ledger.Digital

	for _, d := range stored {
		if _, found := keySet[keyOf(d)]; found {
			duplicates = append(duplicates, d)
		}
	}

	return duplicates, nil
}

func (itx *importTx) CreateTransfers(ctx context.Context, records []*ledger.Digital) error {
	for _, d := range records {
		if err := insert(ctx, itx.tx, d); err != nil {
			return fmt.Errorf("creating digital transaction: %w", err)
		}
	}

	return nil
}
