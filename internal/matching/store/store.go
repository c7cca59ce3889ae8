package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) FindMatch(ctx context.Context, userID uuid.UUID, rawDescription string) (string, error) {
	query := `
		SELECT party
		FROM party_mappings
		WHERE user_id = $1 AND $2 ILIKE '%' || raw_pattern || '%'
		ORDER BY LENGTH(raw_pattern) DESC, created_at DESC
		LIMIT 1
	`

	var party string

	err := s.db.QueryRowContext(ctx, query, userID, rawDescription).Scan(&party)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}

		return "", fmt.Errorf("finding match: %w", err)
	}

	return party, nil
}

func (s *Store) CreateMapping(ctx context.Context, userID uuid.UUID, rawPattern, party string) error {
	query := `
		INSERT INTO party_mappings (user_id, raw_pattern, party, created_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (user_id, raw_pattern) DO UPDATE SET party = EXCLUDED.party
	`

	_, err := s.db.ExecContext(ctx, query, userID, rawPattern, party)
	if err != nil {
		return fmt.Errorf("creating mapping: %w", err)
	}

	return nil
}
