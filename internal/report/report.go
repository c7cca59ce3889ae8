// Package report builds period statements of the three transaction kinds and
// renders them as paginated PDF or XLSX documents.
package report

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/MrJamesThe3rd/finflow/internal/ledger"
)

var ErrInvalidRequest = errors.New("invalid report request")

// DefaultRowsPerPage is the table page size when none is configured.
const DefaultRowsPerPage = 10

type Type string

const (
	TypeAll           Type = "all"
	TypeCashOnly      Type = "cash-only"
	TypeDigitalCheque Type = "digital-cheque"
	TypeBankWise      Type = "bank-wise"
)

func (t Type) Valid() bool {
	switch t {
	case TypeAll, TypeCashOnly, TypeDigitalCheque, TypeBankWise:
		return true
	}

	return false
}

// Kinds lists the sections of a report type in print order.
func (t Type) Kinds() []ledger.Kind {
	switch t {
	case TypeAll:
		return []ledger.Kind{ledger.KindCash, ledger.KindDigital, ledger.KindCheque}
	case TypeCashOnly:
		return []ledger.Kind{ledger.KindCash}
	case TypeDigitalCheque, TypeBankWise:
		return []ledger.Kind{ledger.KindDigital, ledger.KindCheque}
	}

	return nil
}

type Format string

const (
	FormatPDF  Format = "pdf"
	FormatXLSX Format = "xlsx"
	FormatJSON Format = "json"
)

func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatPDF, nil
	case FormatPDF, FormatXLSX, FormatJSON:
		return f, nil
	}

	return "", fmt.Errorf("%w: unknown format %q", ErrInvalidRequest, s)
}

func (f Format) ContentType() string {
	switch f {
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case FormatJSON:
		return "application/json"
	}

	return "application/pdf"
}

type Request struct {
	Start time.Time
	End   time.Time
	Type  Type
	// Bank selects the bank of a bank-wise report.
	Bank string
}

// CurrentMonth returns the first and last day of the month containing now.
func CurrentMonth(now time.Time) (time.Time, time.Time) {
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	return first, first.AddDate(0, 1, -1)
}

// Normalize fills defaults: the current month and the complete report type.
func (r Request) Normalize(now time.Time) Request {
	if r.Start.IsZero() && r.End.IsZero() {
		r.Start, r.End = CurrentMonth(now)
	}

	if r.Type == "" {
		r.Type = TypeAll
	}

	r.Start = ledger.Day(r.Start)
	r.End = ledger.Day(r.End)
	r.Bank = strings.TrimSpace(r.Bank)

	return r
}

func (r Request) Validate() error {
	var errs []error

	if r.Start.IsZero() || r.End.IsZero() {
		errs = append(errs, errors.New("start and end dates are required"))
	} else if r.End.Before(r.Start) {
		errs = append(errs, errors.New("end date is before start date"))
	}

	if !r.Type.Valid() {
		errs = append(errs, fmt.Errorf("unknown report type %q", r.Type))
	}

	if r.Type == TypeBankWise && strings.TrimSpace(r.Bank) == "" {
		errs = append(errs, errors.New("bank is required for a bank-wise report"))
	}

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}

	return nil
}

func (r Request) Title() string {
	switch r.Type {
	case TypeCashOnly:
		return "Cash Transactions Report"
	case TypeDigitalCheque:
		return "Digital & Cheque Transactions Report"
	case TypeBankWise:
		return "Bank Transactions Report - " + r.Bank
	}

	return "Complete Transaction Report"
}

// Filename is the download name, e.g. cash-transactions-2025-04-01-to-2025-04-30.pdf.
func (r Request) Filename(f Format) string {
	var prefix string

	switch r.Type {
	case TypeCashOnly:
		prefix = "cash"
	case TypeDigitalCheque:
		prefix = "digital-cheque"
	case TypeBankWise:
		prefix = slug(r.Bank)
	default:
		prefix = "all"
	}

	return fmt.Sprintf("%s-transactions-%s-to-%s.%s",
		prefix, r.Start.Format(time.DateOnly), r.End.Format(time.DateOnly), f)
}

// slug keeps letters, digits, dashes and underscores and folds everything else into dashes.
func slug(s string) string {
	mapped := strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' || r == '_' {
			return r
		}

		return '-'
	}, strings.ToLower(strings.TrimSpace(s)))

	for strings.Contains(mapped, "--") {
		mapped = strings.ReplaceAll(mapped, "--", "-")
	}

	if mapped = strings.Trim(mapped, "-"); mapped == "" {
		return "bank"
	}

	return mapped
}

type Column struct {
	Header string
	// Width in millimetres on an A4 portrait page.
	Width float64
}

var (
	cashColumns = []Column{
		{"Date", 30}, {"Description", 90}, {"Credit/Debit", 30}, {"Amount", 40},
	}
	digitalColumns = []Column{
		{"Date", 28}, {"Description", 62}, {"Bank", 40}, {"Credit/Debit", 25}, {"Amount", 35},
	}
	chequeColumns = []Column{
		{"Date", 26}, {"Description", 50}, {"Cheque #", 25}, {"Bank", 34}, {"Credit/Debit", 22}, {"Amount", 33},
	}
)

type Row struct {
	Date         time.Time
	Description  string
	ChequeNumber string
	Bank         string
	Direction    ledger.Direction
	Amount       int64
}

func (r Row) CreditDebit() string {
	if r.Direction == ledger.DirectionIncoming {
		return "Credit"
	}

	return "Debit"
}

// Cells renders the row in the column order of kind.
func (r Row) Cells(kind ledger.Kind) []string {
	date := r.Date.Format("Jan 2, 2006")
	amount := ledger.FormatINR(r.Amount)

	switch kind {
	case ledger.KindDigital:
		return []string{date, r.Description, r.Bank, r.CreditDebit(), amount}
	case ledger.KindCheque:
		return []string{date, r.Description, r.ChequeNumber, r.Bank, r.CreditDebit(), amount}
	}

	return []string{date, r.Description, r.CreditDebit(), amount}
}

func newRow(rec ledger.Record) Row {
	e := rec.Common()

	desc := e.Description
	if desc == "" {
		desc = e.Party
	}

	row := Row{
		Date:        e.Date,
		Description: desc,
		Bank:        ledger.BankOf(rec),
		Direction:   e.Direction,
		Amount:      e.Amount,
	}

	if c, ok := rec.(*ledger.Cheque); ok {
		row.ChequeNumber = c.ChequeNumber
	}

	return row
}

type Section struct {
	Kind    ledger.Kind
	Rows    []Row
	Credits int64
	Debits  int64
}

func (s Section) Title() string {
	switch s.Kind {
	case ledger.KindDigital:
		return "Digital Transactions"
	case ledger.KindCheque:
		return "Cheque Transactions"
	}

	return "Cash Transactions"
}

func (s Section) Columns() []Column {
	switch s.Kind {
	case ledger.KindDigital:
		return digitalColumns
	case ledger.KindCheque:
		return chequeColumns
	}

	return cashColumns
}

func (s Section) EmptyMessage() string {
	return fmt.Sprintf("No %s transactions in this period.", s.Kind)
}

func (s Section) Net() int64 { return s.Credits - s.Debits }

// Pages splits the rows into chunks of at most size rows.
func (s Section) Pages(size int) [][]Row {
	if size <= 0 {
		size = DefaultRowsPerPage
	}

	var pages [][]Row
	for i := 0; i < len(s.Rows); i += size {
		pages = append(pages, s.Rows[i:min(i+size, len(s.Rows))])
	}

	return pages
}

type Report struct {
	Request     Request
	Sections    []Section
	RowsPerPage int
	GeneratedAt time.Time
}

// GrandTotal is the net of every section: credits minus debits.
func (r *Report) GrandTotal() int64 {
	var total int64
	for _, s := range r.Sections {
		total += s.Net()
	}

	return total
}

// Build arranges the fetched records into the sections of req.Type. For a
// bank-wise report only digital and cheque rows of the selected bank are kept.
func Build(req Request, set ledger.Set, rowsPerPage int, generatedAt time.Time) *Report {
	if rowsPerPage <= 0 {
		rowsPerPage = DefaultRowsPerPage
	}

	rep := &Report{Request: req, RowsPerPage: rowsPerPage, GeneratedAt: generatedAt}

	keep := func(rec ledger.Record) bool {
		if req.Type != TypeBankWise {
			return true
		}

		return strings.TrimSpace(ledger.BankOf(rec)) == strings.TrimSpace(req.Bank)
	}

	for _, kind := range req.Type.Kinds() {
		sec := Section{Kind: kind, Rows: []Row{}}

		for _, rec := range recordsOf(set, kind) {
			if !keep(rec) {
				continue
			}

			row := newRow(rec)
			if row.Direction == ledger.DirectionIncoming {
				sec.Credits += row.Amount
			} else {
				sec.Debits += row.Amount
			}

			sec.Rows = append(sec.Rows, row)
		}

		rep.Sections = append(rep.Sections, sec)
	}

	return rep
}

func recordsOf(set ledger.Set, kind ledger.Kind) []ledger.Record {
	switch kind {
	case ledger.KindCash:
		return ledger.Set{Cash: set.Cash}.Records()
	case ledger.KindDigital:
		return ledger.Set{Digital: set.Digital}.Records()
	case ledger.KindCheque:
		return ledger.Set{Cheques: set.Cheques}.Records()
	}

	return nil
}

// Page is one printed page: the summary page or a slice of one section's table.
type Page struct {
	Summary bool
	Section *Section
	Rows    []Row
	// Part is 1-based; Parts is how many pages the section spans.
	Part, Parts int
}

// Layout lays the report out as a summary page followed by each section's
// table pages. An empty section still gets one page carrying its empty message.
func (r *Report) Layout() []Page {
	pages := []Page{{Summary: true}}

	for i := range r.Sections {
		sec := &r.Sections[i]

		chunks := sec.Pages(r.RowsPerPage)
		if len(chunks) == 0 {
			pages = append(pages, Page{Section: sec, Part: 1, Parts: 1})
			continue
		}

		for j, rows := range chunks {
			pages = append(pages, Page{Section: sec, Rows: rows, Part: j + 1, Parts: len(chunks)})
		}
	}

	return pages
}
