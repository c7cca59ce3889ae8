package database

import (
	"strconv"
	"strings"

	"github.com/MrJamesThe3rd/finflow/internal/ledger"
)

// Args collects positional query arguments for the pgx driver.
type Args []any

// Add appends v and returns its placeholder ($1, $2, ...).
func (a *Args) Add(v any) string {
	*a = append(*a, v)
	return "$" + strconv.Itoa(len(*a))
}

// EntryFilter renders the conditions shared by every transaction table, starting with the owner.
// Kind-specific conditions (term, bank) are added by the caller.
func EntryFilter(f ledger.Filter, args *Args) string {
	var b strings.Builder

	b.WriteString("user_id = " + args.Add(f.UserID))

	if f.Direction != nil {
		b.WriteString(" AND direction = " + args.Add(string(*f.Direction)))
	}

	if f.FinancialYear != nil {
		b.WriteString(" AND financial_year = " + args.Add(string(*f.FinancialYear)))
	}

	if f.StartDate != nil {
		b.WriteString(" AND date >= " + args.Add(ledger.Day(*f.StartDate)))
	}

	if f.EndDate != nil {
		b.WriteString(" AND date <= " + args.Add(ledger.Day(*f.EndDate)))
	}

	if p := strings.TrimSpace(f.Party); p != "" {
		b.WriteString(" AND party ILIKE " + args.Add(ContainsPattern(p)))
	}

	return b.String()
}

// AnyContains renders "(col1 ILIKE $n OR col2 ILIKE $n ...)" sharing one argument.
func AnyContains(term string, args *Args, columns ...string) string {
	ph := args.Add(ContainsPattern(term))

	parts := make([]string, len(columns))
	for i, c := range columns {
		parts[i] = c + " ILIKE " + ph
	}

	return "(" + strings.Join(parts, " OR ") + ")"
}
