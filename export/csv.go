package export

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/warp/interest-engine/defaultinterest"
)

// CSVHeader is the first row of every CSV export.
var CSVHeader = []string{"Zeitraum", "Tage", "Zinssatz", "Betrag"}

// WriteCSV writes one row per period, semicolon separated.
func WriteCSV(w io.Writer, res defaultinterest.Result) error {
	cw := csv.NewWriter(w)
	cw.Comma = ';'

	if err := cw.Write(CSVHeader); err != nil {
		return err
	}
	for _, p := range res.Accrual.Periods {
		row := []string{
			p.Period.Label(),
			strconv.Itoa(p.DayCount),
			FormatPercent(p.Rate),
			FormatPlain(p.RoundedInterest()),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
