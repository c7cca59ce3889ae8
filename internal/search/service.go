// Package search finds transactions by party name across the three kinds.
package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/finflow/internal/ledger"
)

type Service struct {
	books ledger.Books
}

func NewService(books ledger.Books) *Service {
	return &Service{books: books}
}

// kinds maps a category to the kinds it searches. The empty category searches all of them.
func kinds(category string) ([]ledger.Kind, bool) {
	switch strings.ToLower(strings.TrimSpace(category)) {
	case "":
		return []ledger.Kind{ledger.KindCash, ledger.KindDigital, ledger.KindCheque}, true
	case "cash":
		return []ledger.Kind{ledger.KindCash}, true
	case "digital":
		return []ledger.Kind{ledger.KindDigital}, true
	case "cheque", "cheques":
		return []ledger.Kind{ledger.KindCheque}, true
	}

	return nil, false
}

// Search returns records whose party contains query, ignoring case. Results
// are concatenated as cash, digital, cheques. A blank query or an unknown
// category matches nothing and touches no table.
func (s *Service) Search(ctx context.Context, userID uuid.UUID, query, category string) ([]ledger.Record, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []ledger.Record{}, nil
	}

	ks, ok := kinds(category)
	if !ok {
		return []ledger.Record{}, nil
	}

	set, err := s.books.Fetch(ctx, ledger.Filter{UserID: userID, Party: query}, ks...)
	if err != nil {
		return nil, fmt.Errorf("searching %q: %w", query, err)
	}

	return set.Records(), nil
}
