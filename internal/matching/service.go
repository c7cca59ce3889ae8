package matching

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/finflow/internal/ledger"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=matching
type Repository interface {
	FindMatch(ctx context.Context, userID uuid.UUID, rawDescription string) (string, error)
	CreateMapping(ctx context.Context, userID uuid.UUID, rawPattern, party string) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Suggest returns the party the user mapped to the longest pattern contained
// in rawDescription, or "" when nothing matches.
func (s *Service) Suggest(ctx context.Context, userID uuid.UUID, rawDescription string) (string, error) {
	raw := strings.TrimSpace(rawDescription)
	if raw == "" {
		return "", nil
	}

	return s.repo.FindMatch(ctx, userID, raw)
}

// Learn maps a statement fragment to a party name. Learning the same pattern
// again replaces its party.
func (s *Service) Learn(ctx context.Context, userID uuid.UUID, rawPattern, party string) error {
	pattern := strings.TrimSpace(rawPattern)
	party = strings.TrimSpace(party)

	var errs []error
	if pattern == "" {
		errs = append(errs, &ledger.FieldError{Field: "raw_pattern", Message: "is required"})
	}

	if party == "" {
		errs = append(errs, &ledger.FieldError{Field: "party", Message: "is required"})
	}

	if err := errors.Join(errs...); err != nil {
		return err
	}

	return s.repo.CreateMapping(ctx, userID, pattern, party)
}
