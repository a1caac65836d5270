package export

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/warp/interest-engine/defaultinterest"
)

// Report is the input of WritePDF.
type Report struct {
	Case        defaultinterest.Case
	Result      defaultinterest.Result
	GeneratedAt time.Time
}

var columnWidths = []float64{80, 20, 35, 45}

// WritePDF renders the report as an A4 document.
func WritePDF(w io.Writer, r Report) error {
	if r.GeneratedAt.IsZero() {
		r.GeneratedAt = time.Now()
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	// Core fonts are cp1252; translate € and umlauts.
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AliasNbPages("")

	pdf.SetHeaderFunc(func() {
		pdf.SetFont("Helvetica", "B", 14)
		pdf.Cell(0, 10, tr("Zinsberechnung & Tilgung"))
		pdf.Ln(10)
		pdf.SetFont("Helvetica", "", 10)
		pdf.Cell(0, 5, tr(fmt.Sprintf("AZ: %s | Schuldner: %s", r.Case.Reference, r.Case.Debtor)))
		pdf.Ln(5)
		pdf.Cell(0, 5, tr("Erstellt am: "+r.GeneratedAt.Format("02.01.2006")))
		pdf.Ln(10)
	})
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.CellFormat(0, 10, fmt.Sprintf("Seite %d/{nb}", pdf.PageNo()), "", 0, "C", false, 0, "")
	})

	pdf.AddPage()
	writeTable(pdf, tr, r.Result)
	pdf.Ln(8)
	writeSummary(pdf, tr, r.Result)

	return pdf.Output(w)
}

func writeTable(pdf *fpdf.Fpdf, tr func(string) string, res defaultinterest.Result) {
	header := []string{"Zeitraum", "Tage", "Zinssatz", "Betrag"}

	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(240, 240, 240)
	for i, h := range header {
		pdf.CellFormat(columnWidths[i], 7, tr(h), "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 10)
	for _, p := range res.Accrual.Periods {
		pdf.CellFormat(columnWidths[0], 6, p.Period.Label(), "1", 0, "L", false, 0, "")
		pdf.CellFormat(columnWidths[1], 6, strconv.Itoa(p.DayCount), "1", 0, "R", false, 0, "")
		pdf.CellFormat(columnWidths[2], 6, FormatPercent(p.Rate), "1", 0, "R", false, 0, "")
		pdf.CellFormat(columnWidths[3], 6, tr(FormatEuro(p.RoundedInterest())), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}
}

func writeSummary(pdf *fpdf.Fpdf, tr func(string) string, res defaultinterest.Result) {
	line := func(label, value string) {
		pdf.CellFormat(80, 8, tr(label), "", 0, "L", false, 0, "")
		pdf.CellFormat(50, 8, tr(value), "", 1, "R", false, 0, "")
	}

	pdf.SetFont("Helvetica", "", 11)
	line("Hauptforderung:", FormatEuro(res.Claim.Principal))
	line("Zinsen:", FormatEuro(res.Accrual.TotalInterestRounded()))
	pdf.SetFont("Helvetica", "B", 11)
	line("Gesamt:", FormatEuro(res.TotalClaim()))

	if !res.HasPayment() {
		return
	}
	a := res.Allocation.Rounded()
	pdf.Ln(4)
	pdf.SetFont("Helvetica", "", 11)
	line("Zahlungseingang:", FormatEuro(a.Payment))
	line("Tilgung Zinsen:", FormatEuro(a.InterestPaid))
	line("Tilgung Hauptforderung:", FormatEuro(a.PrincipalPaid))
	pdf.SetFont("Helvetica", "B", 11)
	line("Offene Restforderung:", FormatEuro(a.RemainingPrincipal))
	if a.Overpayment.IsPositive() {
		pdf.SetFont("Helvetica", "", 11)
		line("Überzahlung:", FormatEuro(a.Overpayment))
	}
}
