package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/verte-zerg/hublog/internal/analysis"
	"github.com/verte-zerg/hublog/internal/model"
)

func TestWriteSummaryTableAlignsColumns(t *testing.T) {
	rows := []model.SummaryRow{
		{Sensor: model.SensorTemp, Count: 10, Min: 20.1, Max: 22.9, Mean: 21.5, Std: 0.8, HasStd: true, AlertCount: 1},
		{Sensor: model.SensorPress, Count: 1, Min: 1010, Max: 1010, Mean: 1010, AlertCount: 0},
	}
	var buf bytes.Buffer
	if err := WriteSummaryTable(&buf, "Sensor Summary", rows); err != nil {
		t.Fatalf("write table: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "Sensor Summary") {
		t.Fatalf("expected title in output:\n%s", out)
	}
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected title + header + 2 rows, got %d lines", len(lines))
	}
	if !strings.HasPrefix(lines[1], "Sensor") {
		t.Fatalf("unexpected header line: %q", lines[1])
	}
	// Std column shows a dash when undefined.
	if !strings.Contains(lines[3], "-") {
		t.Fatalf("expected dash for missing std: %q", lines[3])
	}
}

func TestWriteSummaryTableEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteSummaryTable(&buf, "Sensor Summary", nil); err != nil {
		t.Fatalf("write table: %v", err)
	}
	if !strings.Contains(buf.String(), "No samples found.") {
		t.Fatalf("expected empty marker, got %q", buf.String())
	}
}

func TestWriteTimeseries(t *testing.T) {
	points := []model.MovingAveragePoint{
		{TimestampMs: 0, Raw: 20, RollingMean: 20},
		{TimestampMs: 500, Raw: 22, RollingMean: 21},
		{TimestampMs: 1000, Raw: 24, RollingMean: 22},
	}
	var buf bytes.Buffer
	if err := WriteTimeseries(&buf, model.SensorTemp, points, 5, 40); err != nil {
		t.Fatalf("write timeseries: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"TEMP", "count: 3", "mean: 22.00", "Legend:", "moving avg (5)"} {
		if !strings.Contains(out, want) {
			t.Fatalf("timeseries missing %q:\n%s", want, out)
		}
	}
}

func TestPlotSeriesSmoke(t *testing.T) {
	var buf bytes.Buffer
	err := PlotSeries(&buf, "Test Plot", []Series{
		{Name: "A", Values: []float64{1, 2, 3, 2, 1}},
		{Name: "B", Values: []float64{1, 1, 2, 3, 4}},
	}, 20, 4)
	if err != nil {
		t.Fatalf("PlotSeries failed: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "Test Plot") {
		t.Fatalf("expected title in output")
	}
	if !strings.Contains(out, "Legend:") {
		t.Fatalf("expected legend in output")
	}
	// Shared scale: top axis label is the overall max, bottom the min.
	if !strings.Contains(out, "4.00") || !strings.Contains(out, "1.00") {
		t.Fatalf("expected value axis labels:\n%s", out)
	}
}

func TestWriteHistogram(t *testing.T) {
	hist := analysis.BinValues([]float64{1, 1, 2, 3, 3, 3}, 3)
	var buf bytes.Buffer
	if err := WriteHistogram(&buf, model.SensorHum, hist, 20); err != nil {
		t.Fatalf("write histogram: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "HUM distribution (6 samples)") {
		t.Fatalf("expected header:\n%s", out)
	}
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected header + 3 bins, got %d lines", len(lines))
	}
}

func TestWriteAlertsTimeline(t *testing.T) {
	alerts := []model.Alert{
		{Sensor: model.SensorTemp, Value: 25, TimestampMs: 3000, Info: "high"},
		{Sensor: model.SensorTemp, Value: 26, TimestampMs: 4000, Info: "high"},
		{Sensor: model.SensorHum, Value: 91, TimestampMs: 3500, Info: "humid"},
	}
	var buf bytes.Buffer
	if err := WriteAlertsTimeline(&buf, alerts, 60); err != nil {
		t.Fatalf("write timeline: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "Alerts timeline (3000ms .. 4000ms)") {
		t.Fatalf("expected timeline header:\n%s", out)
	}
	if !strings.Contains(out, "TEMP") || !strings.Contains(out, "(2)") {
		t.Fatalf("expected TEMP track with count:\n%s", out)
	}
	if !strings.Contains(out, "HUM") || !strings.Contains(out, "(1)") {
		t.Fatalf("expected HUM track with count:\n%s", out)
	}
}

func TestWriteAlertsTimelineEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteAlertsTimeline(&buf, nil, 60); err != nil {
		t.Fatalf("write timeline: %v", err)
	}
	if !strings.Contains(buf.String(), "No alerts found.") {
		t.Fatalf("expected empty marker, got %q", buf.String())
	}
}
