package statement

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/finflow/internal/ledger"
)

var currencyMarks = strings.NewReplacer("₹", "", "INR", "", "Rs.", "", "Rs", "", ",", "", " ", "", "\u00a0", "")

// parseIndianAmount parses amounts such as "1,23,456.78", "-500.00", "(250.00)"
// or "1,000.00 Dr" into signed paise.
func parseIndianAmount(s string) (int64, error) {
	clean := strings.TrimSpace(s)
	sign := int64(1)

	upper := strings.ToUpper(clean)
	switch {
	case strings.HasSuffix(upper, "DR"):
		sign = -1
		clean = clean[:len(clean)-2]
	case strings.HasSuffix(upper, "CR"):
		clean = clean[:len(clean)-2]
	}

	clean = strings.TrimSpace(clean)
	if strings.HasPrefix(clean, "(") && strings.HasSuffix(clean, ")") {
		sign = -sign
		clean = clean[1 : len(clean)-1]
	}

	clean = currencyMarks.Replace(clean)
	if clean == "" || clean == "-" {
		return 0, fmt.Errorf("amount %q: empty", s)
	}

	d, err := decimal.NewFromString(clean)
	if err != nil {
		return 0, fmt.Errorf("amount %q: %w", s, err)
	}

	paise, err := ledger.ToPaise(d)
	if err != nil {
		return 0, fmt.Errorf("amount %q: %w", s, err)
	}

	return sign * paise, nil
}
