package analysis

import (
	"math"
	"testing"

	"github.com/verte-zerg/hublog/internal/model"
)

func tempSamples(values []float64) []model.Sample {
	samples := make([]model.Sample, len(values))
	for i, v := range values {
		samples[i] = model.Sample{Sensor: model.SensorTemp, Value: v, TimestampMs: int64(i) * 500}
	}
	return samples
}

func TestMovingAverageSeriesSingleElement(t *testing.T) {
	points := MovingAverageSeries(tempSamples([]float64{21.5}), 5)
	if len(points) != 1 {
		t.Fatalf("expected 1 point, got %d", len(points))
	}
	if points[0].RollingMean != 21.5 || points[0].Raw != 21.5 {
		t.Fatalf("expected rolling mean equal to raw value, got %+v", points[0])
	}
}

func TestMovingAverageSeriesConstantInput(t *testing.T) {
	values := make([]float64, 12)
	for i := range values {
		values[i] = 7.25
	}
	points := MovingAverageSeries(tempSamples(values), 5)
	if len(points) != len(values) {
		t.Fatalf("expected %d points, got %d", len(values), len(points))
	}
	for i, p := range points {
		if math.Abs(p.RollingMean-7.25) > 1e-9 {
			t.Fatalf("point %d: expected constant mean 7.25, got %v", i, p.RollingMean)
		}
	}
}

func TestMovingAverageSeriesShrinkingHead(t *testing.T) {
	points := MovingAverageSeries(tempSamples([]float64{1, 2, 3, 4, 5, 6}), 3)
	expected := []float64{1, 1.5, 2, 3, 4, 5}
	for i, want := range expected {
		if math.Abs(points[i].RollingMean-want) > 1e-9 {
			t.Fatalf("point %d: expected %v, got %v", i, want, points[i].RollingMean)
		}
	}
}

func TestMovingAverageSeriesSortsByTimestamp(t *testing.T) {
	samples := []model.Sample{
		{Sensor: model.SensorTemp, Value: 3, TimestampMs: 1000},
		{Sensor: model.SensorTemp, Value: 1, TimestampMs: 0},
		{Sensor: model.SensorTemp, Value: 2, TimestampMs: 500},
	}
	points := MovingAverageSeries(samples, 2)
	if points[0].TimestampMs != 0 || points[1].TimestampMs != 500 || points[2].TimestampMs != 1000 {
		t.Fatalf("expected ascending timestamps, got %+v", points)
	}
	if points[0].Raw != 1 || points[2].Raw != 3 {
		t.Fatalf("values must follow sorted order, got %+v", points)
	}
	// Input slice stays untouched.
	if samples[0].TimestampMs != 1000 {
		t.Fatalf("input slice was mutated: %+v", samples)
	}
}

func TestMovingAverageSeriesEmptyInput(t *testing.T) {
	if points := MovingAverageSeries(nil, 5); points != nil {
		t.Fatalf("expected nil for empty input, got %v", points)
	}
}
