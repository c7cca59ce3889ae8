package ledger

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Filter narrows a listing. Zero-valued fields do not filter.
type Filter struct {
	UserID        uuid.UUID
	Direction     *Direction
	FinancialYear *FinancialYear
	StartDate     *time.Time
	EndDate       *time.Time
	// Party matches a case-insensitive substring of the party name.
	Party string
	// Term matches a case-insensitive substring of the kind's searchable columns.
	Term string
	// Bank matches the trimmed bank name exactly. Cash listings ignore it.
	Bank string
}

type CashLister interface {
	List(ctx context.Context, filter Filter) ([]*Cash, error)
}

type ChequeLister interface {
	List(ctx context.Context, filter Filter) ([]*Cheque, error)
}

type DigitalLister interface {
	List(ctx context.Context, filter Filter) ([]*Digital, error)
}

// Books gives read access to all three transaction kinds.
type Books struct {
	Cash    CashLister
	Cheques ChequeLister
	Digital DigitalLister
}

// Set is the result of one fetch across kinds.
type Set struct {
	Cash    []*Cash
	Cheques []*Cheque
	Digital []*Digital
}

// Records flattens the set in cash, digital, cheque order.
func (s Set) Records() []Record {
	out := make([]Record, 0, len(s.Cash)+len(s.Digital)+len(s.Cheques))
	for _, c := range s.Cash {
		out = append(out, c)
	}

	for _, d := range s.Digital {
		out = append(out, d)
	}

	for _, c := range s.Cheques {
		out = append(out, c)
	}

	return out
}

// Len is the number of records across kinds.
func (s Set) Len() int {
	return len(s.Cash) + len(s.Cheques) + len(s.Digital)
}

// Fetch lists the requested kinds concurrently with the same filter.
// With no kinds it fetches all three. The first error cancels the rest.
func (b Books) Fetch(ctx context.Context, filter Filter, kinds ...Kind) (Set, error) {
	if len(kinds) == 0 {
		kinds = []Kind{KindCash, KindCheque, KindDigital}
	}

	var set Set

	g, ctx := errgroup.WithContext(ctx)

	if slices.Contains(kinds, KindCash) {
		g.Go(func() error {
			rows, err := b.Cash.List(ctx, filter)
			if err != nil {
				return fmt.Errorf("fetching cash transactions: %w", err)
			}

			set.Cash = rows

			return nil
		})
	}

	if slices.Contains(kinds, KindCheque) {
		g.Go(func() error {
			rows, err := b.Cheques.List(ctx, filter)
			if err != nil {
				return fmt.Errorf("fetching cheques: %w", err)
			}

			set.Cheques = rows

			return nil
		})
	}

	if slices.Contains(kinds, KindDigital) {
		g.Go(func() error {
			rows, err := b.Digital.List(ctx, filter)
			if err != nil {
				return fmt.Errorf("fetching digital transactions: %w", err)
			}

			set.Digital = rows

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return Set{}, err
	}

	return set, nil
}
