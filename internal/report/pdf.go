package report

import (
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"

	"github.com/MrJamesThe3rd/finflow/internal/ledger"
)

const (
	rowHeight  = 8.0
	pageMargin = 10.0
)

// WritePDF renders the report onto A4 pages following Layout.
func WritePDF(w io.Writer, r *Report) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AliasNbPages("")

	tr := pdf.UnicodeTranslatorFromDescriptor("")

	generated := "Generated on " + r.GeneratedAt.Format("January 2, 2006 at 3:04 PM")

	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Arial", "I", 8)
		pdf.SetTextColor(102, 102, 102)
		pdf.CellFormat(95, 10, generated, "", 0, "L", false, 0, "")
		pdf.CellFormat(95, 10, fmt.Sprintf("Page %d/{nb}", pdf.PageNo()), "", 0, "R", false, 0, "")
		pdf.SetTextColor(0, 0, 0)
	})

	for _, page := range r.Layout() {
		pdf.AddPage()

		if page.Summary {
			writeSummary(pdf, tr, r)
			continue
		}

		writeTablePage(pdf, tr, page)
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("rendering pdf: %w", err)
	}

	return nil
}

func writeSummary(pdf *gofpdf.Fpdf, tr func(string) string, r *Report) {
	pdf.SetFont("Arial", "B", 20)
	pdf.CellFormat(0, 12, tr(r.Request.Title()), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Arial", "B", 12)
	period := fmt.Sprintf("Report Period: %s - %s",
		r.Request.Start.Format("January 2, 2006"), r.Request.End.Format("January 2, 2006"))
	pdf.CellFormat(0, 8, period, "", 1, "L", false, 0, "")
	pdf.Ln(2)

	pdf.SetFillColor(245, 245, 245)
	pdf.SetFont("Arial", "B", 10)

	for _, h := range []string{"Section", "Entries", "Credits", "Debits", "Net"} {
		width := 30.0
		if h == "Section" {
			width = 70
		}

		pdf.CellFormat(width, rowHeight, h, "1", 0, "L", true, 0, "")
	}

	pdf.Ln(rowHeight)
	pdf.SetFont("Arial", "", 10)

	for _, s := range r.Sections {
		pdf.CellFormat(70, rowHeight, "Total "+s.Title(), "1", 0, "L", false, 0, "")
		pdf.CellFormat(30, rowHeight, fmt.Sprint(len(s.Rows)), "1", 0, "R", false, 0, "")
		pdf.CellFormat(30, rowHeight, ledger.FormatINR(s.Credits), "1", 0, "R", false, 0, "")
		pdf.CellFormat(30, rowHeight, ledger.FormatINR(s.Debits), "1", 0, "R", false, 0, "")
		pdf.CellFormat(30, rowHeight, ledger.FormatINR(s.Net()), "1", 1, "R", false, 0, "")
	}

	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(160, rowHeight, "Grand Total", "1", 0, "L", true, 0, "")
	pdf.CellFormat(30, rowHeight, ledger.FormatINR(r.GrandTotal()), "1", 1, "R", true, 0, "")

	pdf.Ln(4)
	pdf.SetFont("Arial", "I", 9)
	pdf.CellFormat(0, 6, "Amounts in INR.", "", 1, "L", false, 0, "")
}

func writeTablePage(pdf *gofpdf.Fpdf, tr func(string) string, page Page) {
	sec := page.Section

	title := sec.Title()
	if page.Parts > 1 {
		title = fmt.Sprintf("%s (%d of %d)", title, page.Part, page.Parts)
	}

	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(0, 10, title, "B", 1, "L", false, 0, "")
	pdf.Ln(3)

	cols := sec.Columns()

	pdf.SetFillColor(245, 245, 245)
	pdf.SetFont("Arial", "B", 10)

	for _, c := range cols {
		pdf.CellFormat(c.Width, rowHeight, tr(c.Header), "1", 0, "L", true, 0, "")
	}

	pdf.Ln(rowHeight)

	if len(page.Rows) == 0 {
		pdf.SetFont("Arial", "I", 10)
		pdf.CellFormat(0, rowHeight+2, sec.EmptyMessage(), "", 1, "L", false, 0, "")

		return
	}

	pdf.SetFont("Arial", "", 9)

	for _, row := range page.Rows {
		cells := row.Cells(sec.Kind)
		for i, c := range cols {
			align := "L"
			if i == len(cols)-1 {
				align = "R"
			}

			pdf.CellFormat(c.Width, rowHeight, fit(pdf, tr, cells[i], c.Width-2), "1", 0, align, false, 0, "")
		}

		pdf.Ln(rowHeight)
	}
}

// fit shortens s with an ellipsis until it fits in width millimetres and
// returns it translated for the core fonts. Runes are dropped from the UTF-8
// text, never from the translated bytes.
func fit(pdf *gofpdf.Fpdf, tr func(string) string, s string, width float64) string {
	if out := tr(s); pdf.GetStringWidth(out) <= width {
		return out
	}

	runes := []rune(s)
	for len(runes) > 0 && pdf.GetStringWidth(tr(string(runes)+"...")) > width {
		runes = runes[:len(runes)-1]
	}

	return tr(string(runes) + "...")
}
