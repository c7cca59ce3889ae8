package view

import (
	"context"
	"time"

	"github.com/MrJamesThe3rd/finflow/internal/ledger"
)

const dbTimeout = 5 * time.Second

// FormatAmount formats paise as rupees with Indian digit grouping.
func FormatAmount(paise int64) string {
	return "₹" + ledger.FormatINR(paise)
}

// FormatDate formats a time.Time into YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(time.DateOnly)
}

// DbCtx returns a context with a standard timeout for database operations.
func DbCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), dbTimeout)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}

	return string(r[:n-1]) + "…"
}
