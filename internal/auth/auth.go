// Package auth handles accounts, email verification, password resets, JWT
// sessions and per-user profile settings.
package auth

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email already registered")
	ErrNotVerified        = errors.New("email not verified")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidInput       = errors.New("invalid input")
	ErrTooSoon            = errors.New("verification email sent recently")
	ErrRevocationsFull    = errors.New("too many signed-out sessions")
)

// Theme is the user's colour scheme preference.
type Theme string

const (
	ThemeLight  Theme = "light"
	ThemeDark   Theme = "dark"
	ThemeSystem Theme = "system"
)

func (t Theme) Valid() bool {
	return t == ThemeLight || t == ThemeDark || t == ThemeSystem
}

type User struct {
	ID                    uuid.UUID
	Email                 string
	PasswordHash          string
	FullName              string
	Theme                 Theme
	VerifiedAt            *time.Time
	VerificationTokenHash string
	VerificationSentAt    *time.Time
	ResetTokenHash        string
	ResetExpiresAt        *time.Time
	CreatedAt             time.Time
	UpdatedAt             *time.Time
}

func (u *User) Verified() bool { return u.VerifiedAt != nil }

// Session is the authenticated caller of a request.
type Session struct {
	UserID    uuid.UUID
	Email     string
	TokenID   string
	ExpiresAt time.Time
}

type sessionKey struct{}

func NewContext(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

func FromContext(ctx context.Context) (Session, bool) {
	s, ok := ctx.Value(sessionKey{}).(Session)
	return s, ok
}
