package view

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/finflow/internal/cash"
	"github.com/MrJamesThe3rd/finflow/internal/cheque"
	"github.com/MrJamesThe3rd/finflow/internal/digital"
	"github.com/MrJamesThe3rd/finflow/internal/ledger"
)

// entryFields are the form bindings for a new transaction of any kind.
type entryFields struct {
	date         string
	party        string
	amount       string
	description  string
	direction    ledger.Direction
	chequeNumber string
	bank         string
	status       ledger.ChequeStatus
	transferType ledger.TransferType
	reference    string
}

func newEntryFields(now time.Time) *entryFields {
	return &entryFields{
		date:         FormatDate(now),
		direction:    ledger.DirectionIncoming,
		status:       ledger.ChequePending,
		transferType: ledger.TransferNEFT,
	}
}

func (f *entryFields) parse() (time.Time, int64, error) {
	date, err := time.Parse(time.DateOnly, strings.TrimSpace(f.date))
	if err != nil {
		return time.Time{}, 0, errors.New("date must be YYYY-MM-DD")
	}

	amount, err := parseAmount(f.amount)
	if err != nil {
		return time.Time{}, 0, err
	}

	return date, amount, nil
}

func parseAmount(s string) (int64, error) {
	d, err := decimal.NewFromString(strings.ReplaceAll(strings.TrimSpace(s), ",", ""))
	if err != nil {
		return 0, errors.New("amount must be a number")
	}

	if !d.IsPositive() {
		return 0, errors.New("amount must be greater than zero")
	}

	paise, err := ledger.ToPaise(d)
	if err != nil {
		return 0, errors.New("amount is too large")
	}

	return paise, nil
}

// book adapts one transaction kind's service to the list screen.
type book interface {
	kind() ledger.Kind
	columns() []table.Column
	list(ctx context.Context, filter ledger.Filter) ([]ledger.Record, error)
	row(r ledger.Record) table.Row
	create(ctx context.Context, userID uuid.UUID, f *entryFields) error
	remove(ctx context.Context, userID, id uuid.UUID) error
}

var commonColumns = []table.Column{
	{Title: "Date", Width: 12},
	{Title: "Party", Width: 24},
	{Title: "Amount", Width: 16},
	{Title: "Dir", Width: 9},
}

func commonCells(e *ledger.Entry) table.Row {
	return table.Row{FormatDate(e.Date), truncate(e.Party, 24), FormatAmount(e.Amount), string(e.Direction)}
}

type cashBook struct{ svc *cash.Service }

func (b cashBook) kind() ledger.Kind { return ledger.KindCash }

func (b cashBook) columns() []table.Column {
	return append(append([]table.Column{}, commonColumns...), table.Column{Title: "Description", Width: 40})
}

func (b cashBook) list(ctx context.Context, filter ledger.Filter) ([]ledger.Record, error) {
	txs, err := b.svc.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	out := make([]ledger.Record, len(txs))
	for i, tx := range txs {
		out[i] = tx
	}

	return out, nil
}

func (b cashBook) row(r ledger.Record) table.Row {
	e := r.Common()
	return append(commonCells(e), truncate(e.Description, 40))
}

func (b cashBook) create(ctx context.Context, userID uuid.UUID, f *entryFields) error {
	date, amount, err := f.parse()
	if err != nil {
		return err
	}

	_, err = b.svc.Create(ctx, userID, cash.CreateParams{
		Date:        date,
		Party:       f.party,
		Amount:      amount,
		Description: f.description,
		Direction:   f.direction,
	})

	return err
}

func (b cashBook) remove(ctx context.Context, userID, id uuid.UUID) error {
	return b.svc.Delete(ctx, userID, id)
}

type chequeBook struct{ svc *cheque.Service }

func (b chequeBook) kind() ledger.Kind { return ledger.KindCheque }

func (b chequeBook) columns() []table.Column {
	return append(append([]table.Column{}, commonColumns...),
		table.Column{Title: "Number", Width: 10},
		table.Column{Title: "Bank", Width: 18},
		table.Column{Title: "Status", Width: 10},
	)
}

func (b chequeBook) list(ctx context.Context, filter ledger.Filter) ([]ledger.Record, error) {
	cheques, err := b.svc.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	out := make([]ledger.Record, len(cheques))
	for i, c := range cheques {
		out[i] = c
	}

	return out, nil
}

func (b chequeBook) row(r ledger.Record) table.Row {
	c := r.(*ledger.Cheque)
	return append(commonCells(&c.Entry), c.ChequeNumber, truncate(c.BankName, 18), string(c.Status))
}

func (b chequeBook) create(ctx context.Context, userID uuid.UUID, f *entryFields) error {
	date, amount, err := f.parse()
	if err != nil {
		return err
	}

	_, err = b.svc.Create(ctx, userID, cheque.CreateParams{
		Date:         date,
		Party:        f.party,
		Amount:       amount,
		Description:  f.description,
		Direction:    f.direction,
		ChequeNumber: f.chequeNumber,
		BankName:     f.bank,
		Status:       f.status,
	})

	return err
}

func (b chequeBook) remove(ctx context.Context, userID, id uuid.UUID) error {
	return b.svc.Delete(ctx, userID, id)
}

// nextStatus moves a cheque one step along pending, cleared, bounced, cancelled.
func (b chequeBook) nextStatus(ctx context.Context, userID uuid.UUID, c *ledger.Cheque) (ledger.ChequeStatus, error) {
	order := []ledger.ChequeStatus{ledger.ChequePending, ledger.ChequeCleared, ledger.ChequeBounced, ledger.ChequeCancelled}

	next := order[0]
	for i, s := range order {
		if s == c.Status {
			next = order[(i+1)%len(order)]
			break
		}
	}

	if err := b.svc.UpdateStatus(ctx, userID, c.ID, next); err != nil {
		return c.Status, fmt.Errorf("cheque %s: %w", c.ChequeNumber, err)
	}

	return next, nil
}

type digitalBook struct{ svc *digital.Service }

func (b digitalBook) kind() ledger.Kind { return ledger.KindDigital }

func (b digitalBook) columns() []table.Column {
	return append(append([]table.Column{}, commonColumns...),
		table.Column{Title: "Bank", Width: 18},
		table.Column{Title: "Type", Width: 6},
		table.Column{Title: "Reference", Width: 16},
	)
}

func (b digitalBook) list(ctx context.Context, filter ledger.Filter) ([]ledger.Record, error) {
	transfers, err := b.svc.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	out := make([]ledger.Record, len(transfers))
	for i, d := range transfers {
		out[i] = d
	}

	return out, nil
}

func (b digitalBook) row(r ledger.Record) table.Row {
	d := r.(*ledger.Digital)
	return append(commonCells(&d.Entry), truncate(d.BankName, 18), string(d.TransferType), truncate(d.ReferenceNumber, 16))
}

func (b digitalBook) create(ctx context.Context, userID uuid.UUID, f *entryFields) error {
	date, amount, err := f.parse()
	if err != nil {
		return err
	}

	_, err = b.svc.Create(ctx, userID, digital.CreateParams{
		Date:            date,
		Party:           f.party,
		Amount:          amount,
		Description:     f.description,
		Direction:       f.direction,
		BankName:        f.bank,
		TransferType:    f.transferType,
		ReferenceNumber: f.reference,
	})

	return err
}

func (b digitalBook) remove(ctx context.Context, userID, id uuid.UUID) error {
	return b.svc.Delete(ctx, userID, id)
}
