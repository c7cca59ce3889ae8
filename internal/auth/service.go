package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"net/url"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/MrJamesThe3rd/finflow/internal/cache"
)

const minPasswordLength = 8

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=auth
type Repository interface {
	CreateUser(ctx context.Context, u *User) error
	GetUserByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	GetUserByVerificationToken(ctx context.Context, tokenHash string) (*User, error)
	GetUserByResetToken(ctx context.Context, tokenHash string) (*User, error)
	UpdateUser(ctx context.Context, u *User) error
}

type Config struct {
	Secret              string
	TokenTTL            time.Duration
	ResetTTL            time.Duration
	ResendInterval      time.Duration
	BaseURL             string
	RevocationCacheSize int
}

type Service struct {
	repo    Repository
	mailer  Mailer
	cfg     Config
	revoked *cache.LRU[struct{}]
	now     func() time.Time
}

func NewService(repo Repository, mailer Mailer, cfg Config) *Service {
	if mailer == nil {
		mailer = LogMailer{}
	}

	if cfg.RevocationCacheSize <= 0 {
		cfg.RevocationCacheSize = 10000
	}

	return &Service{
		repo:    repo,
		mailer:  mailer,
		cfg:     cfg,
		revoked: cache.NewLRU[struct{}](cfg.RevocationCacheSize, cfg.TokenTTL),
		now:     time.Now,
	}
}

func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	s.revoked.WithClock(now)

	return s
}

// Claims are the JWT claims of an access token.
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

type Token struct {
	Value     string
	ExpiresAt time.Time
}

type SignUpParams struct {
	Email    string
	Password string
	FullName string
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateEmail(email string) error {
	if _, err := mail.ParseAddress(email); err != nil || !strings.Contains(email, "@") {
		return fmt.Errorf("%w: email %q is not valid", ErrInvalidInput, email)
	}

	return nil
}

func validatePassword(password string) error {
	if len(password) < minPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters", ErrInvalidInput, minPasswordLength)
	}

	return nil
}

// newToken returns a random URL-safe token and the hash stored in its place.
func newToken() (string, string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", "", fmt.Errorf("generating token: %w", err)
	}

	token := base64.RawURLEncoding.EncodeToString(b)

	return token, hashToken(token), nil
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func (s *Service) link(path, token string) string {
	return strings.TrimRight(s.cfg.BaseURL, "/") + path + "?token=" + url.QueryEscape(token)
}

// SignUp creates an unverified account and mails its verification link.
func (s *Service) SignUp(ctx context.Context, params SignUpParams) (*User, error) {
	email := normalizeEmail(params.Email)

	if err := errors.Join(validateEmail(email), validatePassword(params.Password)); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(params.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	token, tokenHash, err := newToken()
	if err != nil {
		return nil, err
	}

	now := s.now()
	u := &User{
		Email:                 email,
		PasswordHash:          string(hash),
		FullName:              strings.TrimSpace(params.FullName),
		Theme:                 ThemeSystem,
		VerificationTokenHash: tokenHash,
		VerificationSentAt:    &now,
	}

	if err := s.repo.CreateUser(ctx, u); err != nil {
		return nil, err
	}

	if err := s.mailer.SendVerification(ctx, email, s.link("/auth/verify", token)); err != nil {
		slog.ErrorContext(ctx, "failed to send verification email", "email", email, "error", err)
	}

	return u, nil
}

// Verify marks the account owning token as verified.
func (s *Service) Verify(ctx context.Context, token string) error {
	u, err := s.repo.GetUserByVerificationToken(ctx, hashToken(strings.TrimSpace(token)))
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return ErrInvalidToken
		}

		return err
	}

	now := s.now()
	u.VerifiedAt = &now
	u.VerificationTokenHash = ""

	return s.repo.UpdateUser(ctx, u)
}

// ResendVerification mails a fresh link. Unknown and already verified emails
// succeed silently so the endpoint does not reveal which accounts exist.
func (s *Service) ResendVerification(ctx context.Context, email string) error {
	email = normalizeEmail(email)

	u, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil
		}

		return err
	}

	if u.Verified() {
		return nil
	}

	now := s.now()
	if u.VerificationSentAt != nil && now.Sub(*u.VerificationSentAt) < s.cfg.ResendInterval {
		return ErrTooSoon
	}

	token, tokenHash, err := newToken()
	if err != nil {
		return err
	}

	u.VerificationTokenHash = tokenHash
	u.VerificationSentAt = &now

	if err := s.repo.UpdateUser(ctx, u); err != nil {
		return err
	}

	return s.mailer.SendVerification(ctx, email, s.link("/auth/verify", token))
}

// SignIn checks the password and issues an access token.
func (s *Service) SignIn(ctx context.Context, email, password string) (Token, *User, error) {
	u, err := s.repo.GetUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return Token{}, nil, ErrInvalidCredentials
		}

		return Token{}, nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return Token{}, nil, ErrInvalidCredentials
	}

	if !u.Verified() {
		return Token{}, nil, ErrNotVerified
	}

	tok, err := s.issue(u)
	if err != nil {
		return Token{}, nil, err
	}

	return tok, u, nil
}

func (s *Service) issue(u *User) (Token, error) {
	now := s.now()
	expires := now.Add(s.cfg.TokenTTL)

	claims := Claims{
		Email: u.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID.String(),
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.Secret))
	if err != nil {
		return Token{}, fmt.Errorf("signing token: %w", err)
	}

	return Token{Value: signed, ExpiresAt: expires}, nil
}

// Authenticate validates an access token and returns its session.
func (s *Service) Authenticate(_ context.Context, token string) (Session, error) {
	var claims Claims

	_, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		return []byte(s.cfg.Secret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return Session{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	if claims.ID == "" || s.revoked.Contains(claims.ID) {
		return Session{}, ErrInvalidToken
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return Session{}, fmt.Errorf("%w: subject: %w", ErrInvalidToken, err)
	}

	return Session{
		UserID:    userID,
		Email:     claims.Email,
		TokenID:   claims.ID,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// SignOut revokes the session's token until it would have expired anyway.
// Live revocations are never evicted; when the revocation list is full of
// them SignOut fails with ErrRevocationsFull and the token stays valid.
func (s *Service) SignOut(_ context.Context, sess Session) error {
	if err := s.revoked.Add(sess.TokenID, struct{}{}, sess.ExpiresAt); err != nil {
		return fmt.Errorf("%w: %w", ErrRevocationsFull, err)
	}

	return nil
}

// RequestPasswordReset mails a reset link. Unknown emails succeed silently.
func (s *Service) RequestPasswordReset(ctx context.Context, email string) error {
	email = normalizeEmail(email)

	u, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil
		}

		return err
	}

	token, tokenHash, err := newToken()
	if err != nil {
		return err
	}

	expires := s.now().Add(s.cfg.ResetTTL)
	u.ResetTokenHash = tokenHash
	u.ResetExpiresAt = &expires

	if err := s.repo.UpdateUser(ctx, u); err != nil {
		return err
	}

	return s.mailer.SendPasswordReset(ctx, email, s.link("/reset-password", token))
}

// ResetPassword sets a new password for the owner of an unexpired reset token.
func (s *Service) ResetPassword(ctx context.Context, token, password string) error {
	if err := validatePassword(password); err != nil {
		return err
	}

	u, err := s.repo.GetUserByResetToken(ctx, hashToken(strings.TrimSpace(token)))
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return ErrInvalidToken
		}

		return err
	}

	if u.ResetExpiresAt == nil || !s.now().Before(*u.ResetExpiresAt) {
		return ErrInvalidToken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	u.PasswordHash = string(hash)
	u.ResetTokenHash = ""
	u.ResetExpiresAt = nil

	return s.repo.UpdateUser(ctx, u)
}

func (s *Service) Profile(ctx context.Context, userID uuid.UUID) (*User, error) {
	return s.repo.GetUserByID(ctx, userID)
}

type ProfileParams struct {
	FullName *string
	Theme    *Theme
}

func (s *Service) UpdateProfile(ctx context.Context, userID uuid.UUID, params ProfileParams) (*User, error) {
	if params.Theme != nil && !params.Theme.Valid() {
		return nil, fmt.Errorf("%w: theme must be light, dark or system", ErrInvalidInput)
	}

	u, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if params.FullName != nil {
		u.FullName = strings.TrimSpace(*params.FullName)
	}

	if params.Theme != nil {
		u.Theme = *params.Theme
	}

	if err := s.repo.UpdateUser(ctx, u); err != nil {
		return nil, err
	}

	return u, nil
}
