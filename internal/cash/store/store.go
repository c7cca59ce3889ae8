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

const selectColumns = `id, user_id, date, party, amount, description, direction, financial_year, created_at, updated_at`

func scanCash(s scanner) (*ledger.Cash, error) {
	var tx ledger.Cash

	var direction, fy string

	if err := s.Scan(
		&tx.ID, &tx.UserID, &tx.Date, &tx.Party, &tx.Amount, &tx.Description,
		&direction, &fy, &tx.CreatedAt, &tx.UpdatedAt,
	); err != nil {
		return nil, err
	}

	tx.Direction = ledger.Direction(direction)
	tx.FinancialYear = ledger.FinancialYear(fy)

	return &tx, nil
}

func (s *Store) CreateTransaction(ctx context.Context, tx *ledger.Cash) error {
	query := `
		INSERT INTO cash_transactions (user_id, date, party, amount, description, direction, financial_year, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
		RETURNING id, created_at
	`

	err := s.db.QueryRowContext(ctx, query,
		tx.UserID,
		tx.Date,
		tx.Party,
		tx.Amount,
		tx.Description,
		tx.Direction,
		tx.FinancialYear,
	).Scan(&tx.ID, &tx.CreatedAt)
	if err != nil {
		return fmt.Errorf("creating cash transaction: %w", err)
	}

	return nil
}

func (s *Store) GetTransaction(ctx context.Context, userID, id uuid.UUID) (*ledger.Cash, error) {
	query := `SELECT ` + selectColumns + ` FROM cash_transactions WHERE id = $1 AND user_id = $2`

	tx, err := scanCash(s.db.QueryRowContext(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ledger.ErrNotFound
		}

		return nil, fmt.Errorf("getting cash transaction: %w", err)
	}

	return tx, nil
}

func (s *Store) ListTransactions(ctx context.Context, filter ledger.Filter) ([]*ledger.Cash, error) {
	var args database.Args

	query := `SELECT ` + selectColumns + ` FROM cash_transactions WHERE ` + database.EntryFilter(filter, &args)

	if term := strings.TrimSpace(filter.Term); term != "" {
		query += " AND " + database.AnyContains(term, &args, "party", "description")
	}

	query += " ORDER BY date DESC, created_at DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing cash transactions: %w", err)
	}
	defer rows.Close()

	var txs []*ledger.Cash

	for rows.Next() {
		tx, err := scanCash(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning cash transaction: %w", err)
		}

		txs = append(txs, tx)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating cash transactions: %w", err)
	}

	return txs, nil
}

func (s *Store) UpdateTransaction(ctx context.Context, tx *ledger.Cash) error {
	query := `
		UPDATE cash_transactions
		SET date = $1, party = $2, amount = $3, description = $4, direction = $5, updated_at = NOW()
		WHERE id = $6 AND user_id = $7
		RETURNING updated_at
	`

	err := s.db.QueryRowContext(ctx, query,
		tx.Date,
		tx.Party,
		tx.Amount,
		tx.Description,
		tx.Direction,
		tx.ID,
		tx.UserID,
	).Scan(&tx.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ledger.ErrNotFound
		}

		return fmt.Errorf("updating cash transaction: %w", err)
	}

	return nil
}

func (s *Store) DeleteTransaction(ctx context.Context, userID, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM cash_transactions WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("deleting cash transaction: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting cash transaction: %w", err)
	}

	if n == 0 {
		return ledger.ErrNotFound
	}

	return nil
}
