package statement

import "strings"

// amountMode determines how amounts are extracted from a row.
type amountMode int

const (
	// amountSingle means one signed column.
	amountSingle amountMode = iota
	// amountSplit means separate withdrawal and deposit columns.
	amountSplit
)

// Profile describes the column layout of one bank's CSV export.
type Profile struct {
	Name       string
	Bank       string
	DateCol    string
	DescCol    string
	RefCol     string // optional
	AmountMode amountMode
	AmountCol  string
	DebitCol   string
	CreditCol  string
}

func (p Profile) requiredCols() []string {
	cols := []string{p.DateCol, p.DescCol}

	switch p.AmountMode {
	case amountSingle:
		cols = append(cols, p.AmountCol)
	case amountSplit:
		cols = append(cols, p.DebitCol, p.CreditCol)
	}

	return cols
}

// profiles is tried in order; more specific layouts come first.
var profiles = []Profile{
	{
		Name:       "sbi",
		Bank:       "SBI",
		DateCol:    "Txn Date",
		DescCol:    "Description",
		RefCol:     "Ref No./Cheque No.",
		AmountMode: amountSplit,
		DebitCol:   "Debit",
		CreditCol:  "Credit",
	},
	{
		Name:       "icici",
		Bank:       "ICICI Bank",
		DateCol:    "Transaction Date",
		DescCol:    "Transaction Remarks",
		RefCol:     "Cheque Number",
		AmountMode: amountSplit,
		DebitCol:   "Withdrawal Amount (INR )",
		CreditCol:  "Deposit Amount (INR )",
	},
	{
		Name:       "hdfc",
		Bank:       "HDFC Bank",
		DateCol:    "Date",
		DescCol:    "Narration",
		RefCol:     "Chq./Ref.No.",
		AmountMode: amountSplit,
		DebitCol:   "Withdrawal Amt.",
		CreditCol:  "Deposit Amt.",
	},
	{
		Name:       "generic",
		DateCol:    "Date",
		DescCol:    "Description",
		RefCol:     "Reference",
		AmountMode: amountSingle,
		AmountCol:  "Amount",
	},
}

// headerKey folds case and whitespace so "Withdrawal Amount (INR )" and
// "withdrawal amount(INR)" compare equal.
func headerKey(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), "")
}
