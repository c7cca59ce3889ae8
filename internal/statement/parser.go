// Package statement turns bank CSV exports into digital transfers.
package statement

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"
	"unicode"

	"github.com/MrJamesThe3rd/finflow/internal/ledger"
)

var ErrUnknownFormat = fmt.Errorf("%w: no known statement layout found, expected SBI, HDFC, ICICI or Date/Description/Amount columns", ledger.ErrInvalid)

var dateLayouts = []string{
	"02/01/2006",
	"02-01-2006",
	"2 Jan 2006",
	"2-Jan-2006",
	"2006-01-02",
	"02/01/06",
}

var delimiters = []rune{',', ';', '\t'}

// Row is one transaction line of a statement.
type Row struct {
	Line         int
	Date         time.Time
	Description  string
	Reference    string
	Amount       int64
	Direction    ledger.Direction
	TransferType ledger.TransferType
}

type Statement struct {
	Profile string
	Bank    string
	Rows    []Row
}

// Parser reads bank CSV exports. The layout is detected by matching header
// columns against known profiles.
type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

func (p *Parser) Parse(r io.Reader) (*Statement, error) {
	utf8r, err := NewUTF8Reader(r)
	if err != nil {
		return nil, fmt.Errorf("detect encoding: %w", err)
	}

	data, err := io.ReadAll(utf8r)
	if err != nil {
		return nil, fmt.Errorf("read statement: %w", err)
	}

	for _, comma := range delimiters {
		rows, err := readCSV(data, comma)
		if err != nil {
			continue
		}

		profile, cols, headerIdx := detectProfile(rows)
		if profile == nil {
			continue
		}

		parsed, err := parseRows(profile, cols, rows[headerIdx+1:], headerIdx+1)
		if err != nil {
			return nil, err
		}

		return &Statement{Profile: profile.Name, Bank: profile.Bank, Rows: parsed}, nil
	}

	return nil, ErrUnknownFormat
}

func readCSV(data []byte, comma rune) ([][]string, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = comma
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	return reader.ReadAll()
}

// colIndex maps folded header names to their index in the row.
type colIndex map[string]int

func (c colIndex) get(row []string, name string) string {
	idx, ok := c[headerKey(name)]
	if !ok {
		return ""
	}

	return cellValue(row, idx)
}

func detectProfile(rows [][]string) (*Profile, colIndex, int) {
	for rowIdx, row := range rows {
		cols := make(colIndex)

		for i, cell := range row {
			if name := headerKey(cell); name != "" {
				cols[name] = i
			}
		}

		for i := range profiles {
			if matchesProfile(&profiles[i], cols) {
				return &profiles[i], cols, rowIdx
			}
		}
	}

	return nil, nil, 0
}

func matchesProfile(p *Profile, cols colIndex) bool {
	for _, name := range p.requiredCols() {
		if _, ok := cols[headerKey(name)]; !ok {
			return false
		}
	}

	return true
}

// parseRows skips lines without a date or amount (balances, footers) and
// fails on a dated line without a description.
func parseRows(p *Profile, cols colIndex, rows [][]string, headerRowNum int) ([]Row, error) {
	var out []Row

	for i, row := range rows {
		line := headerRowNum + i + 1

		date, ok := parseDate(cols.get(row, p.DateCol))
		if !ok {
			continue
		}

		paise, ok, err := rowAmount(p, cols, row)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		if !ok {
			continue
		}

		desc := strings.Join(strings.Fields(cols.get(row, p.DescCol)), " ")
		if desc == "" {
			return nil, fmt.Errorf("line %d: %w", line, &ledger.FieldError{Field: "description", Message: "is required"})
		}

		direction := ledger.DirectionIncoming
		if paise < 0 {
			direction = ledger.DirectionOutgoing
			paise = -paise
		}

		out = append(out, Row{
			Line:         line,
			Date:         date,
			Description:  desc,
			Reference:    cleanReference(cols.get(row, p.RefCol)),
			Amount:       paise,
			Direction:    direction,
			TransferType: InferTransferType(desc),
		})
	}

	return out, nil
}

func parseDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}

	return time.Time{}, false
}

// rowAmount returns signed paise: withdrawals negative, deposits positive.
// Unreadable cells skip the row; amounts out of range fail it.
func rowAmount(p *Profile, cols colIndex, row []string) (int64, bool, error) {
	switch p.AmountMode {
	case amountSingle:
		paise, err := cellAmount(cols.get(row, p.AmountCol))
		if err != nil || paise == 0 {
			return 0, false, err
		}

		return paise, true, nil
	case amountSplit:
		paise, err := cellAmount(cols.get(row, p.DebitCol))
		if err != nil {
			return 0, false, err
		}

		if paise != 0 {
			return -abs(paise), true, nil
		}

		paise, err = cellAmount(cols.get(row, p.CreditCol))
		if err != nil {
			return 0, false, err
		}

		if paise != 0 {
			return abs(paise), true, nil
		}
	}

	return 0, false, nil
}

// cellAmount reads an amount cell, treating unparseable text as empty.
func cellAmount(s string) (int64, error) {
	paise, err := parseIndianAmount(s)
	if errors.Is(err, ledger.ErrInvalid) {
		return 0, err
	}

	if err != nil {
		return 0, nil
	}

	return paise, nil
}

// InferTransferType picks the payment rail named in a narration, defaulting to NEFT.
func InferTransferType(description string) ledger.TransferType {
	tokens := strings.FieldsFunc(strings.ToUpper(description), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	for _, tok := range tokens {
		if tt := ledger.TransferType(tok); tt.Valid() {
			return tt
		}
	}

	return ledger.TransferNEFT
}

// cleanReference strips the ="..." wrapping spreadsheet exports put around numbers.
func cleanReference(s string) string {
	s = strings.TrimPrefix(s, "=")
	return strings.TrimSpace(strings.Trim(s, `"'`))
}

func cellValue(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}

	return strings.TrimSpace(row[idx])
}

func abs(n int64) int64 {
	if n < 0 {
		return -n
	}

	return n
}
