package ledger

import (
	"time"

	"github.com/google/uuid"
)

// Kind discriminates the three transaction variants.
type Kind string

const (
	KindCash    Kind = "cash"
	KindCheque  Kind = "cheque"
	KindDigital Kind = "digital"
)

// Table returns the database table backing the kind.
func (k Kind) Table() string {
	switch k {
	case KindCash:
		return "cash_transactions"
	case KindCheque:
		return "cheques"
	case KindDigital:
		return "digital_transactions"
	}

	return ""
}

// Direction tells whether money was received or paid out.
type Direction string

const (
	DirectionIncoming Direction = "incoming"
	DirectionOutgoing Direction = "outgoing"
)

func (d Direction) Valid() bool {
	return d == DirectionIncoming || d == DirectionOutgoing
}

// ChequeStatus is the clearing state of a cheque.
type ChequeStatus string

const (
	ChequePending   ChequeStatus = "pending"
	ChequeCleared   ChequeStatus = "cleared"
	ChequeBounced   ChequeStatus = "bounced"
	ChequeCancelled ChequeStatus = "cancelled"
)

func (s ChequeStatus) Valid() bool {
	switch s {
	case ChequePending, ChequeCleared, ChequeBounced, ChequeCancelled:
		return true
	}

	return false
}

// TransferType is the payment rail of a digital transfer.
type TransferType string

const (
	TransferNEFT TransferType = "NEFT"
	TransferIMPS TransferType = "IMPS"
	TransferUPI  TransferType = "UPI"
	TransferRTGS TransferType = "RTGS"
)

func (t TransferType) Valid() bool {
	switch t {
	case TransferNEFT, TransferIMPS, TransferUPI, TransferRTGS:
		return true
	}

	return false
}

// Entry holds the fields shared by every transaction kind.
type Entry struct {
	ID            uuid.UUID
	UserID        uuid.UUID
	Date          time.Time
	Party         string
	Amount        int64 // Amount in paise
	Description   string
	Direction     Direction
	FinancialYear FinancialYear
	CreatedAt     time.Time
	UpdatedAt     *time.Time
}

// Record is implemented by *Cash, *Cheque and *Digital only.
type Record interface {
	Kind() Kind
	Common() *Entry
	record()
}

// Cash is a cash-in-hand transaction.
type Cash struct {
	Entry
}

// Cheque is a paper cheque issued or received.
type Cheque struct {
	Entry
	ChequeNumber string
	BankName     string
	Status       ChequeStatus
}

// Digital is an electronic bank transfer.
type Digital struct {
	Entry
	BankName        string
	TransferType    TransferType
	ReferenceNumber string
}

func (c *Cash) Kind() Kind     { return KindCash }
func (c *Cash) Common() *Entry { return &c.Entry }
func (c *Cash) record()        {}

func (c *Cheque) Kind() Kind     { return KindCheque }
func (c *Cheque) Common() *Entry { return &c.Entry }
func (c *Cheque) record()        {}

func (d *Digital) Kind() Kind     { return KindDigital }
func (d *Digital) Common() *Entry { return &d.Entry }
func (d *Digital) record()        {}

// BankOf returns the bank name of cheque and digital records and "" for cash.
func BankOf(r Record) string {
	switch v := r.(type) {
	case *Cheque:
		return v.BankName
	case *Digital:
		return v.BankName
	}

	return ""
}
