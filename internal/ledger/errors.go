package ledger

import (
	"errors"
	"strings"
)

var (
	ErrNotFound = errors.New("transaction not found")
	ErrInvalid  = errors.New("invalid transaction")
)

// FieldError reports one invalid field. It matches ErrInvalid with errors.Is.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return e.Field + ": " + e.Message
}

func (e *FieldError) Unwrap() error {
	return ErrInvalid
}

// ValidateEntry checks the fields every kind requires.
func ValidateEntry(e *Entry) error {
	var errs []error

	if strings.TrimSpace(e.Party) == "" {
		errs = append(errs, &FieldError{Field: "party", Message: "is required"})
	}

	if e.Date.IsZero() {
		errs = append(errs, &FieldError{Field: "date", Message: "is required"})
	}

	if e.Amount <= 0 {
		errs = append(errs, &FieldError{Field: "amount", Message: "must be greater than zero"})
	}

	if !e.Direction.Valid() {
		errs = append(errs, &FieldError{Field: "direction", Message: "must be incoming or outgoing"})
	}

	return errors.Join(errs...)
}

// ValidateCheque checks common fields plus cheque number, bank and status.
func ValidateCheque(c *Cheque) error {
	errs := []error{ValidateEntry(&c.Entry)}

	if strings.TrimSpace(c.ChequeNumber) == "" {
		errs = append(errs, &FieldError{Field: "cheque_number", Message: "is required"})
	}

	if strings.TrimSpace(c.BankName) == "" {
		errs = append(errs, &FieldError{Field: "bank_name", Message: "is required"})
	}

	if !c.Status.Valid() {
		errs = append(errs, &FieldError{Field: "status", Message: "must be pending, cleared, bounced or cancelled"})
	}

	return errors.Join(errs...)
}

// ValidateDigital checks common fields plus bank and transfer type.
func ValidateDigital(d *Digital) error {
	errs := []error{ValidateEntry(&d.Entry)}

	if strings.TrimSpace(d.BankName) == "" {
		errs = append(errs, &FieldError{Field: "bank_name", Message: "is required"})
	}

	if !d.TransferType.Valid() {
		errs = append(errs, &FieldError{Field: "transfer_type", Message: "must be NEFT, IMPS, UPI or RTGS"})
	}

	return errors.Join(errs...)
}
