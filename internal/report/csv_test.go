package report

import (
	"bytes"
	"encoding/csv"
	"testing"

	"github.com/verte-zerg/hublog/internal/model"
)

func TestWriteSummaryCSV(t *testing.T) {
	rows := []model.SummaryRow{
		{Sensor: model.SensorHum, Count: 1, Min: 50, Max: 50, Mean: 50, AlertCount: 0},
		{Sensor: model.SensorTemp, Count: 3, Min: 20.5, Max: 22.5, Mean: 21.5, Std: 1, HasStd: true, AlertCount: 2},
	}
	var buf bytes.Buffer
	if err := WriteSummaryCSV(&buf, rows); err != nil {
		t.Fatalf("write csv: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("read back csv: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected header + 2 rows, got %d records", len(records))
	}
	header := records[0]
	expected := []string{"sensor", "count", "min", "max", "mean", "std", "alert_count"}
	for i, col := range expected {
		if header[i] != col {
			t.Fatalf("header column %d: expected %q, got %q", i, col, header[i])
		}
	}
	if records[1][0] != "HUM" || records[1][5] != "" {
		t.Fatalf("single-sample row must omit std: %v", records[1])
	}
	if records[2][0] != "TEMP" || records[2][5] != "1" || records[2][6] != "2" {
		t.Fatalf("unexpected TEMP row: %v", records[2])
	}
}
