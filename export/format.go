/*
Package export renders a defaultinterest.Result for people.

PURPOSE:
  The engine hands out decimals and dates; this package turns them into the
  German-formatted table (CSV) and the paginated report (PDF) a clerk sends
  to a debtor. Nothing here changes a number, it only formats.

FORMATS:
  CSV: Zeitraum;Tage;Zinssatz;Betrag, comma decimal mark
  PDF: header (Aktenzeichen, Schuldner, date), period table, summary

SEE ALSO:
  - defaultinterest/types.go: Result
  - api/handlers.go: /api/calculations/csv and /pdf
*/
package export

import (
	"strings"

	"github.com/shopspring/decimal"
)

// FormatAmount formats d with two decimals, "." as thousands separator and
// "," as decimal mark: 1073.761 -> "1.073,76".
func FormatAmount(d decimal.Decimal) string {
	s := d.StringFixed(2)

	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	intPart, frac, _ := strings.Cut(s, ".")

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	b.WriteByte(',')
	b.WriteString(frac)
	return b.String()
}

// FormatEuro is FormatAmount with a trailing euro sign.
func FormatEuro(d decimal.Decimal) string {
	return FormatAmount(d) + " €"
}

// FormatPercent formats a rate as "6,62%".
func FormatPercent(d decimal.Decimal) string {
	return strings.Replace(d.StringFixed(2), ".", ",", 1) + "%"
}

// FormatPlain formats with a comma decimal mark and no grouping, as used in
// spreadsheet cells: 1073.761 -> "1073,76".
func FormatPlain(d decimal.Decimal) string {
	return strings.Replace(d.StringFixed(2), ".", ",", 1)
}
