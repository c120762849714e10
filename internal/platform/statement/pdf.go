// Package statement renders transaction statements as PDF documents.
package statement

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/SscSPs/personal_finance_app/internal/core/domain"
	portssvc "github.com/SscSPs/personal_finance_app/internal/core/ports/services"
	"github.com/SscSPs/personal_finance_app/internal/utils"
	"github.com/phpdave11/gofpdf"
)

const (
	dateLayout = "2006-01-02"
	// Rows below this Y position start a new page (A4 is 297mm tall).
	pageBreakY = 270
)

var columnWidths = []float64{24, 22, 62, 38, 36}

// PDFRenderer lays out a statement on A4 pages.
type PDFRenderer struct {
	Title string
}

var _ portssvc.StatementRenderer = (*PDFRenderer)(nil)

func NewPDFRenderer(title string) *PDFRenderer {
	return &PDFRenderer{Title: title}
}

func (r *PDFRenderer) Render(st domain.Statement) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(14, 14, 14)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetTextColor(20, 20, 20)
	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, tr(r.Title))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(80, 80, 80)
	pdf.Cell(0, 6, tr(fmt.Sprintf("Period: %s to %s", st.Period.Start.Format(dateLayout), st.Period.End.Format(dateLayout))))
	pdf.Ln(5)
	pdf.Cell(0, 6, tr(fmt.Sprintf("Account holder: %s <%s>", st.UserName, st.Email)))
	pdf.Ln(10)

	// Totals
	pdf.SetDrawColor(200, 200, 200)
	pdf.SetFillColor(248, 248, 248)
	pdf.SetTextColor(20, 20, 20)
	pdf.SetFont("Helvetica", "B", 11)
	sumW := []float64{60.6, 60.6, 60.6}
	pdf.CellFormat(sumW[0], 10, "Income ("+st.Currency+")", "1", 0, "C", true, 0, "")
	pdf.CellFormat(sumW[1], 10, "Expense ("+st.Currency+")", "1", 0, "C", true, 0, "")
	pdf.CellFormat(sumW[2], 10, "Net ("+st.Currency+")", "1", 1, "C", true, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(sumW[0], 10, utils.FormatGrouped(st.TotalIncome, 2), "1", 0, "C", false, 0, "")
	pdf.CellFormat(sumW[1], 10, utils.FormatGrouped(st.TotalExpense, 2), "1", 0, "C", false, 0, "")
	pdf.CellFormat(sumW[2], 10, utils.FormatGrouped(st.TotalIncome.Sub(st.TotalExpense), 2), "1", 1, "C", false, 0, "")
	pdf.Ln(6)

	writeHeader(pdf)
	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(30, 30, 30)

	if len(st.Transactions) == 0 {
		pdf.SetFont("Helvetica", "I", 9)
		pdf.CellFormat(0, 8, "No transactions in this period", "1", 1, "C", false, 0, "")
	}
	for _, t := range st.Transactions {
		if pdf.GetY() > pageBreakY {
			pdf.AddPage()
			writeHeader(pdf)
			pdf.SetFont("Helvetica", "", 9)
		}
		pdf.CellFormat(columnWidths[0], 8, t.Date.Format(dateLayout), "1", 0, "C", false, 0, "")
		pdf.CellFormat(columnWidths[1], 8, strings.ToUpper(string(t.Type)), "1", 0, "C", false, 0, "")
		pdf.CellFormat(columnWidths[2], 8, tr(trimTo(t.Title, 36)), "1", 0, "L", false, 0, "")
		pdf.CellFormat(columnWidths[3], 8, tr(trimTo(t.CategoryName, 22)), "1", 0, "L", false, 0, "")
		pdf.CellFormat(columnWidths[4], 8, signed(t)+" "+t.CardCurrency, "1", 1, "R", false, 0, "")
	}

	pdf.SetY(-18)
	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(120, 120, 120)
	pdf.CellFormat(0, 10, "Generated "+st.GeneratedAt.UTC().Format("2006-01-02 15:04 MST"), "", 0, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to build statement pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func writeHeader(pdf *gofpdf.Fpdf) {
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(245, 245, 245)
	headers := []string{"DATE", "TYPE", "TITLE", "CATEGORY", "AMOUNT"}
	for i, h := range headers {
		ln := 0
		if i == len(headers)-1 {
			ln = 1
		}
		pdf.CellFormat(columnWidths[i], 8, h, "1", ln, "C", true, 0, "")
	}
}

// signed prefixes expenses with a minus sign. Amounts are in the card's currency.
func signed(t domain.Transaction) string {
	if t.Type == domain.Expense {
		return "-" + utils.FormatGrouped(t.Amount, 2)
	}
	return utils.FormatGrouped(t.Amount, 2)
}

func trimTo(s string, max int) string {
	s = strings.TrimSpace(s)
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
