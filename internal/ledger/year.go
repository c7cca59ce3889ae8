package ledger

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// FinancialYear is an April-to-March accounting period written as "2025-2026".
type FinancialYear string

// FinancialYearOf returns the financial year containing t.
func FinancialYearOf(t time.Time) FinancialYear {
	start := t.Year()
	if t.Month() < time.April {
		start--
	}

	return FinancialYear(fmt.Sprintf("%d-%d", start, start+1))
}

// ParseFinancialYear validates s and returns it as a FinancialYear.
func ParseFinancialYear(s string) (FinancialYear, error) {
	first, second, ok := strings.Cut(strings.TrimSpace(s), "-")
	if !ok {
		return "", fmt.Errorf("financial year %q: expected YYYY-YYYY", s)
	}

	a, err := strconv.Atoi(first)
	if err != nil {
		return "", fmt.Errorf("financial year %q: %w", s, err)
	}

	b, err := strconv.Atoi(second)
	if err != nil {
		return "", fmt.Errorf("financial year %q: %w", s, err)
	}

	if b != a+1 {
		return "", fmt.Errorf("financial year %q: years must be consecutive", s)
	}

	return FinancialYear(fmt.Sprintf("%d-%d", a, b)), nil
}

// StartYear returns the calendar year in which the period begins.
func (fy FinancialYear) StartYear() int {
	first, _, _ := strings.Cut(string(fy), "-")
	y, _ := strconv.Atoi(first)

	return y
}

// Bounds returns the first and last day of the period (1 April to 31 March).
func (fy FinancialYear) Bounds() (time.Time, time.Time) {
	y := fy.StartYear()
	start := time.Date(y, time.April, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(y+1, time.March, 31, 0, 0, 0, 0, time.UTC)

	return start, end
}

func (fy FinancialYear) String() string { return string(fy) }

// Day truncates t to its calendar date at midnight UTC, the form dates are stored in.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
