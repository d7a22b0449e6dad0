package report

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/verte-zerg/hublog/internal/analysis"
	"github.com/verte-zerg/hublog/internal/model"
)

const histogramBarWidth = 40

// WriteSummaryTable prints the per-sensor summary as an aligned text
// table.
func WriteSummaryTable(w io.Writer, title string, rows []model.SummaryRow) error {
	if _, err := fmt.Fprintln(w, title); err != nil {
		return err
	}
	if len(rows) == 0 {
		_, err := fmt.Fprintln(w, "No samples found.")
		return err
	}
	headers := []string{"Sensor", "Count", "Min", "Max", "Mean", "Std", "Alerts"}
	tableRows := make([][]string, 0, len(rows))
	for _, row := range rows {
		std := "-"
		if row.HasStd {
			std = fmt.Sprintf("%.3f", row.Std)
		}
		tableRows = append(tableRows, []string{
			string(row.Sensor),
			strconv.Itoa(row.Count),
			fmt.Sprintf("%.3f", row.Min),
			fmt.Sprintf("%.3f", row.Max),
			fmt.Sprintf("%.3f", row.Mean),
			std,
			strconv.Itoa(row.AlertCount),
		})
	}
	rightAlign := map[int]bool{1: true, 2: true, 3: true, 4: true, 5: true, 6: true}
	for _, line := range formatTable(headers, tableRows, rightAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// WriteTimeseries renders one sensor's raw values and moving average as
// a plot, headed by the count/mean/std stats of the channel.
func WriteTimeseries(w io.Writer, sensor model.SensorType, points []model.MovingAveragePoint, window, width int) error {
	if len(points) == 0 {
		return nil
	}
	raw := make([]float64, len(points))
	ma := make([]float64, len(points))
	var sum float64
	for i, p := range points {
		raw[i] = p.Raw
		ma[i] = p.RollingMean
		sum += p.Raw
	}
	mu := sum / float64(len(points))
	header := fmt.Sprintf("%s - samples and moving average\ncount: %d  mean: %.2f", sensor, len(points), mu)
	if len(points) >= 2 {
		var sq float64
		for _, v := range raw {
			d := v - mu
			sq += d * d
		}
		header += fmt.Sprintf("  std: %.2f", sampleStdFromSum(sq, len(raw)))
	}
	header += fmt.Sprintf("\nspan: %dms .. %dms", points[0].TimestampMs, points[len(points)-1].TimestampMs)
	if _, err := fmt.Fprintln(w, header); err != nil {
		return err
	}
	return PlotSeries(w, "", []Series{
		{Name: "raw", Values: raw},
		{Name: fmt.Sprintf("moving avg (%d)", window), Values: ma},
	}, width, 0)
}

func sampleStdFromSum(sqSum float64, n int) float64 {
	return math.Sqrt(sqSum / float64(n-1))
}

// WriteHistogram prints a binned distribution as horizontal bars.
func WriteHistogram(w io.Writer, sensor model.SensorType, hist analysis.Histogram, width int) error {
	if hist.Total() == 0 {
		return nil
	}
	if width <= 0 {
		width = histogramBarWidth
	}
	if _, err := fmt.Fprintf(w, "%s distribution (%d samples)\n", sensor, hist.Total()); err != nil {
		return err
	}
	maxCount := 0
	for _, c := range hist.Counts {
		if c > maxCount {
			maxCount = c
		}
	}
	bins := len(hist.Counts)
	binWidth := (hist.Max - hist.Min) / float64(bins)
	for i, count := range hist.Counts {
		lo := hist.Min + float64(i)*binWidth
		hi := lo + binWidth
		bar := ""
		if maxCount > 0 {
			bar = strings.Repeat("█", count*width/maxCount)
		}
		if count > 0 && bar == "" {
			bar = "▏"
		}
		if _, err := fmt.Fprintf(w, "%10.2f-%-10.2f %s %d\n", lo, hi, bar, count); err != nil {
			return err
		}
	}
	return nil
}

// WriteAlertsTimeline prints one track per sensor with a marker at each
// alert position along the run.
func WriteAlertsTimeline(w io.Writer, alerts []model.Alert, width int) error {
	if len(alerts) == 0 {
		_, err := fmt.Fprintln(w, "No alerts found.")
		return err
	}
	if width < minPlotWidth {
		width = terminalWidthBackup
	}
	ordered := append([]model.Alert(nil), alerts...)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].TimestampMs < ordered[j].TimestampMs
	})
	first := ordered[0].TimestampMs
	last := ordered[len(ordered)-1].TimestampMs
	span := last - first

	byType := map[model.SensorType][]model.Alert{}
	for _, a := range ordered {
		byType[a.Sensor] = append(byType[a.Sensor], a)
	}
	sensors := make([]model.SensorType, 0, len(byType))
	for sensor := range byType {
		sensors = append(sensors, sensor)
	}
	sort.Slice(sensors, func(i, j int) bool { return sensors[i] < sensors[j] })

	labelWidth := 0
	for _, sensor := range sensors {
		if len(sensor) > labelWidth {
			labelWidth = len(sensor)
		}
	}
	track := width - labelWidth - len(axisSeparator)
	if track < minPlotWidth {
		track = minPlotWidth
	}

	if _, err := fmt.Fprintf(w, "Alerts timeline (%dms .. %dms)\n", first, last); err != nil {
		return err
	}
	for _, sensor := range sensors {
		cells := make([]rune, track)
		for i := range cells {
			cells[i] = '·'
		}
		for _, a := range byType[sensor] {
			pos := 0
			if span > 0 {
				pos = int(int64(track-1) * (a.TimestampMs - first) / span)
			}
			cells[pos] = '●'
		}
		if _, err := fmt.Fprintf(w, "%*s%s%s (%d)\n", labelWidth, sensor, axisSeparator, string(cells), len(byType[sensor])); err != nil {
			return err
		}
	}
	return nil
}
