package ledger

import (
	"strings"

	"github.com/shopspring/decimal"
)

// MaxPaise bounds a single amount so that totals over many entries stay in int64.
const MaxPaise int64 = 1_000_000_000_000_000

var (
	hundred  = decimal.NewFromInt(100)
	maxPaise = decimal.NewFromInt(MaxPaise)
)

// ToPaise converts a rupee amount to integer paise, rounding half away from zero.
// Amounts beyond MaxPaise in either direction are rejected.
func ToPaise(rupees decimal.Decimal) (int64, error) {
	paise := rupees.Mul(hundred).Round(0)
	if paise.Abs().GreaterThan(maxPaise) {
		return 0, &FieldError{Field: "amount", Message: "must not exceed " + FormatINR(MaxPaise)}
	}

	return paise.IntPart(), nil
}

// Rupees converts paise back to a two-decimal rupee value.
func Rupees(paise int64) decimal.Decimal {
	return decimal.New(paise, -2)
}

// FormatINR renders paise with Indian digit grouping, e.g. 12345678 -> "1,23,456.78".
func FormatINR(paise int64) string {
	neg := paise < 0
	s := Rupees(paise).Abs().StringFixed(2)

	whole, frac, _ := strings.Cut(s, ".")
	whole = groupIndian(whole)

	if neg {
		return "-" + whole + "." + frac
	}

	return whole + "." + frac
}

// groupIndian groups the last three digits, then every two.
func groupIndian(digits string) string {
	if len(digits) <= 3 {
		return digits
	}

	head, tail := digits[:len(digits)-3], digits[len(digits)-3:]

	var parts []string
	for len(head) > 2 {
		parts = append([]string{head[len(head)-2:]}, parts...)
		head = head[:len(head)-2]
	}

	if head != "" {
		parts = append([]string{head}, parts...)
	}

	return strings.Join(append(parts, tail), ",")
}
