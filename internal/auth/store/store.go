package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/MrJamesThe3rd/finflow/internal/auth"
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
	id, email, password_hash, full_name, theme, verified_at,
	verification_token_hash, verification_sent_at, reset_token_hash, reset_expires_at,
	created_at, updated_at
`

func scanUser(s scanner) (*auth.User, error) {
	var u auth.User

	var theme string

	var verifyHash, resetHash sql.NullString

	if err := s.Scan(
		&u.ID, &u.Email, &u.PasswordHash, &u.FullName, &theme, &u.VerifiedAt,
		&verifyHash, &u.VerificationSentAt, &resetHash, &u.ResetExpiresAt,
		&u.CreatedAt, &u.UpdatedAt,
	); err != nil {
		return nil, err
	}

	u.Theme = auth.Theme(theme)
	u.VerificationTokenHash = verifyHash.String
	u.ResetTokenHash = resetHash.String

	return &u, nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func (s *Store) CreateUser(ctx context.Context, u *auth.User) error {
	query := `
		INSERT INTO users (email, password_hash, full_name, theme, verification_token_hash, verification_sent_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		RETURNING id, created_at
	`

	err := s.db.QueryRowContext(ctx, query,
		u.Email,
		u.PasswordHash,
		u.FullName,
		u.Theme,
		nullable(u.VerificationTokenHash),
		u.VerificationSentAt,
	).Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return auth.ErrEmailTaken
		}

		return fmt.Errorf("creating user: %w", err)
	}

	return nil
}

func (s *Store) getBy(ctx context.Context, column string, value any) (*auth.User, error) {
	query := `SELECT ` + selectColumns + ` FROM users WHERE ` + column + ` = $1`

	u, err := scanUser(s.db.QueryRowContext(ctx, query, value))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, auth.ErrUserNotFound
		}

		return nil, fmt.Errorf("getting user by %s: %w", column, err)
	}

	return u, nil
}

func (s *Store) GetUserByID(ctx context.Context, id uuid.UUID) (*auth.User, error) {
	return s.getBy(ctx, "id", id)
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*auth.User, error) {
	return s.getBy(ctx, "email", email)
}

func (s *Store) GetUserByVerificationToken(ctx context.Context, tokenHash string) (*auth.User, error) {
	return s.getBy(ctx, "verification_token_hash", tokenHash)
}

func (s *Store) GetUserByResetToken(ctx context.Context, tokenHash string) (*auth.User, error) {
	return s.getBy(ctx, "reset_token_hash", tokenHash)
}

func (s *Store) UpdateUser(ctx context.Context, u *auth.User) error {
	query := `
		UPDATE users
		SET password_hash = $1, full_name = $2, theme = $3, verified_at = $4,
			verification_token_hash = $5, verification_sent_at = $6,
			reset_token_hash = $7, reset_expires_at = $8, updated_at = NOW()
		WHERE id = $9
		RETURNING updated_at
	`

	err := s.db.QueryRowContext(ctx, query,
		u.PasswordHash,
		u.FullName,
		u.Theme,
		u.VerifiedAt,
		nullable(u.VerificationTokenHash),
		u.VerificationSentAt,
		nullable(u.ResetTokenHash),
		u.ResetExpiresAt,
		u.ID,
	).Scan(&u.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return auth.ErrUserNotFound
		}

		return fmt.Errorf("updating user: %w", err)
	}

	return nil
}
