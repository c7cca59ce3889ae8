package report

import (
	"fmt"
	"io"

	"github.com/tealeg/xlsx"

	"github.com/MrJamesThe3rd/finflow/internal/ledger"
)

// WriteXLSX writes a Summary sheet followed by one sheet per section.
func WriteXLSX(w io.Writer, r *Report) error {
	file := xlsx.NewFile()

	summary, err := file.AddSheet("Summary")
	if err != nil {
		return fmt.Errorf("adding summary sheet: %w", err)
	}

	addRow(summary, r.Request.Title())
	addRow(summary, "Period", r.Request.Start.Format("2006-01-02"), r.Request.End.Format("2006-01-02"))
	addRow(summary)
	addRow(summary, "Section", "Entries", "Credits", "Debits", "Net")

	for _, s := range r.Sections {
		row := summary.AddRow()
		row.AddCell().SetString("Total " + s.Title())
		row.AddCell().SetInt(len(s.Rows))
		addRupees(row, s.Credits)
		addRupees(row, s.Debits)
		addRupees(row, s.Net())
	}

	total := summary.AddRow()
	total.AddCell().SetString("Grand Total")
	total.AddCell()
	total.AddCell()
	total.AddCell()
	addRupees(total, r.GrandTotal())

	addRow(summary)
	addRow(summary, "Generated on "+r.GeneratedAt.Format("January 2, 2006 at 3:04 PM"))

	for _, s := range r.Sections {
		sheet, err := file.AddSheet(s.Title())
		if err != nil {
			return fmt.Errorf("adding %s sheet: %w", s.Kind, err)
		}

		header := make([]string, 0, len(s.Columns()))
		for _, c := range s.Columns() {
			header = append(header, c.Header)
		}

		addRow(sheet, header...)

		if len(s.Rows) == 0 {
			addRow(sheet, s.EmptyMessage())
			continue
		}

		for _, r := range s.Rows {
			cells := r.Cells(s.Kind)

			row := sheet.AddRow()
			row.AddCell().SetDate(r.Date)

			for _, v := range cells[1 : len(cells)-1] {
				row.AddCell().SetString(v)
			}

			addRupees(row, r.Amount)
		}
	}

	if err := file.Write(w); err != nil {
		return fmt.Errorf("writing xlsx: %w", err)
	}

	return nil
}

func addRow(sheet *xlsx.Sheet, values ...string) {
	row := sheet.AddRow()
	for _, v := range values {
		row.AddCell().SetString(v)
	}
}

func addRupees(row *xlsx.Row, paise int64) {
	row.AddCell().SetFloatWithFormat(ledger.Rupees(paise).InexactFloat64(), "#,##0.00")
}
