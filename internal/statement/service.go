package statement

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/finflow/internal/digital"
	"github.com/MrJamesThe3rd/finflow/internal/ledger"
)

type Suggester interface {
	Suggest(ctx context.Context, userID uuid.UUID, rawDescription string) (string, error)
}

type Importer interface {
	ImportBatch(ctx context.Context, userID uuid.UUID, params []digital.CreateParams) (*digital.ImportResult, error)
}

type Service struct {
	parser   *Parser
	matcher  Suggester
	importer Importer
}

func NewService(matcher Suggester, importer Importer) *Service {
	return &Service{parser: NewParser(), matcher: matcher, importer: importer}
}

// Import parses a statement and hands its rows to the digital import.
// bank overrides the bank name implied by the statement layout.
func (s *Service) Import(ctx context.Context, userID uuid.UUID, r io.Reader, bank string) (*digital.ImportResult, error) {
	st, err := s.parser.Parse(r)
	if err != nil {
		return nil, err
	}

	params, err := s.Params(ctx, userID, st, bank)
	if err != nil {
		return nil, err
	}

	return s.importer.ImportBatch(ctx, userID, params)
}

// Params converts statement rows to create params. The party comes from the
// user's party mappings when one matches, otherwise the narration is used.
func (s *Service) Params(ctx context.Context, userID uuid.UUID, st *Statement, bank string) ([]digital.CreateParams, error) {
	bank = strings.TrimSpace(bank)
	if bank == "" {
		bank = st.Bank
	}

	if bank == "" {
		return nil, &ledger.FieldError{Field: "bank_name", Message: "is required for this statement layout"}
	}

	suggested := make(map[string]string)
	params := make([]digital.CreateParams, 0, len(st.Rows))

	for _, row := range st.Rows {
		party, seen := suggested[row.Description]
		if !seen {
			var err error

			party, err = s.matcher.Suggest(ctx, userID, row.Description)
			if err != nil {
				return nil, fmt.Errorf("suggesting party for line %d: %w", row.Line, err)
			}

			suggested[row.Description] = party
		}

		if party == "" {
			party = row.Description
		}

		params = append(params, digital.CreateParams{
			Date:            row.Date,
			Party:           party,
			Amount:          row.Amount,
			Description:     row.Description,
			Direction:       row.Direction,
			BankName:        bank,
			TransferType:    row.TransferType,
			ReferenceNumber: row.Reference,
		})
	}

	return params, nil
}
