package report

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/verte-zerg/hublog/internal/model"
)

// WriteSummaryCSV emits the summary rows as CSV. Columns follow the
// hub's established summary layout; min/max/mean/std stay empty when
// undefined.
func WriteSummaryCSV(w io.Writer, rows []model.SummaryRow) error {
	cw := csv.NewWriter(w)
	header := []string{"sensor", "count", "min", "max", "mean", "std", "alert_count"}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, row := range rows {
		record := []string{
			string(row.Sensor),
			strconv.Itoa(row.Count),
			"",
			"",
			"",
			"",
			strconv.Itoa(row.AlertCount),
		}
		if row.Count > 0 {
			record[2] = formatFloat(row.Min)
			record[3] = formatFloat(row.Max)
			record[4] = formatFloat(row.Mean)
		}
		if row.HasStd {
			record[5] = formatFloat(row.Std)
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
