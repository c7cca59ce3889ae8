package respond

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/finflow/internal/ledger"
)

// Date is a calendar date on the wire, "2006-01-02". RFC 3339 input is accepted too.
type Date time.Time

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Time(d).Format(time.DateOnly))
}

func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}

	t, err := ParseDate(s)
	if err != nil {
		return err
	}

	*d = Date(t)

	return nil
}

func (d Date) Time() time.Time { return time.Time(d) }

func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)

	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, nil
	}

	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("date %q: expected YYYY-MM-DD", s)
	}

	return t, nil
}

// Amount renders paise as a rupee number with two decimals, e.g. 1250.50.
func Amount(paise int64) json.Number {
	return json.Number(ledger.Rupees(paise).StringFixed(2))
}

// Paise converts a rupee amount from a request.
func Paise(rupees decimal.Decimal) (int64, error) {
	return ledger.ToPaise(rupees)
}

func PaisePtr(rupees *decimal.Decimal) (*int64, error) {
	if rupees == nil {
		return nil, nil
	}

	paise, err := ledger.ToPaise(*rupees)
	if err != nil {
		return nil, err
	}

	return &paise, nil
}

func TimePtr(d *Date) *time.Time {
	if d == nil {
		return nil
	}

	return new(d.Time())
}

// Record is the JSON form of every transaction kind, told apart by Kind.
type Record struct {
	Kind            ledger.Kind          `json:"kind"`
	ID              uuid.UUID            `json:"id"`
	Date            Date                 `json:"date"`
	Party           string               `json:"party"`
	Amount          json.Number          `json:"amount"`
	Description     string               `json:"description"`
	Direction       ledger.Direction     `json:"direction"`
	FinancialYear   ledger.FinancialYear `json:"financial_year"`
	ChequeNumber    string               `json:"cheque_number,omitempty"`
	BankName        string               `json:"bank_name,omitempty"`
	Status          ledger.ChequeStatus  `json:"status,omitempty"`
	TransferType    ledger.TransferType  `json:"transfer_type,omitempty"`
	ReferenceNumber string               `json:"reference_number,omitempty"`
	CreatedAt       time.Time            `json:"created_at"`
	UpdatedAt       *time.Time           `json:"updated_at,omitempty"`
}

func ToRecord(rec ledger.Record) Record {
	e := rec.Common()

	out := Record{
		Kind:          rec.Kind(),
		ID:            e.ID,
		Date:          Date(e.Date),
		Party:         e.Party,
		Amount:        Amount(e.Amount),
		Description:   e.Description,
		Direction:     e.Direction,
		FinancialYear: e.FinancialYear,
		CreatedAt:     e.CreatedAt,
		UpdatedAt:     e.UpdatedAt,
	}

	switch r := rec.(type) {
	case *ledger.Cheque:
		out.ChequeNumber = r.ChequeNumber
		out.BankName = r.BankName
		out.Status = r.Status
	case *ledger.Digital:
		out.BankName = r.BankName
		out.TransferType = r.TransferType
		out.ReferenceNumber = r.ReferenceNumber
	}

	return out
}

func ToRecords(recs []ledger.Record) []Record {
	out := make([]Record, len(recs))
	for i, r := range recs {
		out[i] = ToRecord(r)
	}

	return out
}

// Records converts a typed slice such as []*ledger.Cash.
func Records[T ledger.Record](recs []T) []Record {
	out := make([]Record, len(recs))
	for i, r := range recs {
		out[i] = ToRecord(r)
	}

	return out
}
