package analysis

import (
	"math"
	"testing"

	"github.com/verte-zerg/hublog/internal/model"
)

func TestSummarizeOmitsAbsentSensors(t *testing.T) {
	samples := []model.Sample{
		{Sensor: model.SensorTemp, Value: 20, TimestampMs: 0},
		{Sensor: model.SensorTemp, Value: 22, TimestampMs: 500},
	}
	rows := Summarize(samples, nil)
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	if rows[0].Sensor != model.SensorTemp {
		t.Fatalf("unexpected sensor: %s", rows[0].Sensor)
	}
}

func TestSummarizeSingleSampleHasNoStd(t *testing.T) {
	samples := []model.Sample{{Sensor: model.SensorHum, Value: 55, TimestampMs: 0}}
	rows := Summarize(samples, nil)
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	row := rows[0]
	if row.HasStd {
		t.Fatalf("std must be undefined for a single sample")
	}
	if row.Min != 55 || row.Max != 55 || row.Mean != 55 {
		t.Fatalf("unexpected stats: %+v", row)
	}
}

func TestSummarizeStats(t *testing.T) {
	samples := []model.Sample{
		{Sensor: model.SensorTemp, Value: 2, TimestampMs: 0},
		{Sensor: model.SensorTemp, Value: 4, TimestampMs: 500},
		{Sensor: model.SensorTemp, Value: 6, TimestampMs: 1000},
	}
	alerts := []model.Alert{
		{Sensor: model.SensorTemp, Value: 6, TimestampMs: 1000, Info: "high"},
		{Sensor: model.SensorHum, Value: 90, TimestampMs: 1000, Info: "humid"},
	}
	rows := Summarize(samples, alerts)
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	row := rows[0]
	if row.Count != 3 || row.Min != 2 || row.Max != 6 || row.Mean != 4 {
		t.Fatalf("unexpected stats: %+v", row)
	}
	if !row.HasStd || math.Abs(row.Std-2) > 1e-9 {
		t.Fatalf("expected sample std 2, got %v (has=%v)", row.Std, row.HasStd)
	}
	// HUM has an alert but no samples, so it stays absent; the TEMP
	// alert counts toward the TEMP row.
	if row.AlertCount != 1 {
		t.Fatalf("expected 1 TEMP alert, got %d", row.AlertCount)
	}
}

func TestSummarizeSortsRowsBySensor(t *testing.T) {
	samples := []model.Sample{
		{Sensor: model.SensorTemp, Value: 20, TimestampMs: 0},
		{Sensor: model.SensorHum, Value: 50, TimestampMs: 0},
		{Sensor: model.SensorPress, Value: 1010, TimestampMs: 0},
	}
	rows := Summarize(samples, nil)
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
	if rows[0].Sensor != model.SensorHum || rows[1].Sensor != model.SensorPress || rows[2].Sensor != model.SensorTemp {
		t.Fatalf("expected alphabetical order, got %v %v %v", rows[0].Sensor, rows[1].Sensor, rows[2].Sensor)
	}
}
