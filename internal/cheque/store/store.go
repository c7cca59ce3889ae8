package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/finflow/internal/database"
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
	cheque_number, bank_name, status, created_at, updated_at
`

func scanCheque(s scanner) (*ledger.Cheque, error) {
	var c ledger.Cheque

	var direction, fy, status string

	if err := s.Scan(
		&c.ID, &c.UserID, &c.Date, &c.Party, &c.Amount, &c.Description, &direction, &fy,
		&c.ChequeNumber, &c.BankName, &status, &c.CreatedAt, &c.UpdatedAt,
	); err != nil {
		return nil, err
	}

	c.Direction = ledger.Direction(direction)
	c.FinancialYear = ledger.FinancialYear(fy)
	c.Status = ledger.ChequeStatus(status)

	return &c, nil
}

func (s *Store) CreateCheque(ctx context.Context, c *ledger.Cheque) error {
	query := `
		INSERT INTO cheques (user_id, date, party, amount, description, direction, financial_year,
			cheque_number, bank_name, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW())
		RETURNING id, created_at
	`

	err := s.db.QueryRowContext(ctx, query,
		c.UserID,
		c.Date,
		c.Party,
		c.Amount,
		c.Description,
		c.Direction,
		c.FinancialYear,
		c.ChequeNumber,
		c.BankName,
		c.Status,
	).Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		return fmt.Errorf("creating cheque: %w", err)
	}

	return nil
}

func (s *Store) GetCheque(ctx context.Context, userID, id uuid.UUID) (*ledger.Cheque, error) {
	query := `SELECT ` + selectColumns + ` FROM cheques WHERE id = $1 AND user_id = $2`

	c, err := scanCheque(s.db.QueryRowContext(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ledger.ErrNotFound
		}

		return nil, fmt.Errorf("getting cheque: %w", err)
	}

	return c, nil
}

func (s *Store) ListCheques(ctx context.Context, filter ledger.Filter) ([]*ledger.Cheque, error) {
	var args database.Args

	query := `SELECT ` + selectColumns + ` FROM cheques WHERE ` + database.EntryFilter(filter, &args)

	if term := strings.TrimSpace(filter.Term); term != "" {
		query += " AND " + database.AnyContains(term, &args, "cheque_number", "party", "bank_name")
	}

	if bank := strings.TrimSpace(filter.Bank); bank != "" {
		query += " AND TRIM(bank_name) = " + args.Add(bank)
	}

	query += " ORDER BY date DESC, created_at DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing cheques: %w", err)
	}
	defer rows.Close()

	var cheques []*ledger.Cheque

	for rows.Next() {
		c, err := scanCheque(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning cheque: %w", err)
		}

		cheques = append(cheques, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating cheques: %w", err)
	}

	return cheques, nil
}

func (s *Store) UpdateCheque(ctx context.Context, c *ledger.Cheque) error {
	query := `
		UPDATE cheques
		SET date = $1, party = $2, amount = $3, description = $4, direction = $5,
			cheque_number = $6, bank_name = $7, status = $8, updated_at = NOW()
		WHERE id = $9 AND user_id = $10
		RETURNING updated_at
	`

	err := s.db.QueryRowContext(ctx, query,
		c.Date,
		c.Party,
		c.Amount,
		c.Description,
		c.Direction,
		c.ChequeNumber,
		c.BankName,
		c.Status,
		c.ID,
		c.UserID,
	).Scan(&c.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ledger.ErrNotFound
		}

		return fmt.Errorf("updating cheque: %w", err)
	}

	return nil
}

func (s *Store) UpdateStatus(ctx context.Context, userID, id uuid.UUID, status ledger.ChequeStatus) error {
	query := `
		UPDATE cheques
		SET status = $1, updated_at = NOW()
		WHERE id = $2 AND user_id = $3
	`

	res, err := s.db.ExecContext(ctx, query, status, id, userID)
	if err != nil {
		return fmt.Errorf("updating status: %w", err)
	}

	return requireRow(res)
}

func (s *Store) DeleteCheque(ctx context.Context, userID, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM cheques WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("deleting cheque: %w", err)
	}

	return requireRow(res)
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading affected rows: %w", err)
	}

	if n == 0 {
		return ledger.ErrNotFound
	}

	return nil
}
