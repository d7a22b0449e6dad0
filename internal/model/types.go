// Package model defines shared data structures.
package model

import "time"

// SensorType identifies one of the hub's sensor channels.
type SensorType string

// Known sensor channels.
const (
	SensorTemp  SensorType = "TEMP"
	SensorHum   SensorType = "HUM"
	SensorPress SensorType = "PRESS"
)

// Sensors lists the known channels in report order.
var Sensors = []SensorType{SensorTemp, SensorHum, SensorPress}

// KnownSensor reports whether s is one of the known channels.
func KnownSensor(s SensorType) bool {
	switch s {
	case SensorTemp, SensorHum, SensorPress:
		return true
	}
	return false
}

// Sample is one periodic measurement record.
type Sample struct {
	Sensor      SensorType
	Value       float64
	TimestampMs int64
}

// Alert is one threshold-triggered warning record. Info is free-form
// diagnostic text and is never parsed further.
type Alert struct {
	Sensor      SensorType
	Value       float64
	TimestampMs int64
	Info        string
}

// Rates maps a sensor channel to its nominal sampling interval in
// milliseconds.
type Rates map[SensorType]int64

// DefaultRates returns the hub's nominal sampling intervals.
func DefaultRates() Rates {
	return Rates{
		SensorTemp:  500,
		SensorHum:   700,
		SensorPress: 1200,
	}
}

// DefaultWindow is the moving-average window shared by the series
// computation and the alert-feasibility check.
const DefaultWindow = 5

// DefaultBins is the default histogram bin count.
const DefaultBins = 30

// SummaryRow holds per-sensor descriptive statistics. Min, Max, Mean,
// and Std carry no meaning when Count is 0; Std additionally requires
// Count >= 2 (see HasStd).
type SummaryRow struct {
	Sensor     SensorType
	Count      int
	Min        float64
	Max        float64
	Mean       float64
	Std        float64
	HasStd     bool
	AlertCount int
}

// MovingAveragePoint pairs a raw sample with its trailing rolling mean.
type MovingAveragePoint struct {
	TimestampMs int64
	Raw         float64
	RollingMean float64
}

// CheckConfig carries the inputs of a validation run.
type CheckConfig struct {
	Rates      Rates
	Window     int
	DurationMs int64
}

// ReportConfig carries the inputs of an analysis/reporting run.
type ReportConfig struct {
	Window int
	Bins   int
}

// RunRecord is one persisted analysis run.
type RunRecord struct {
	RunID      int64
	CheckedAt  time.Time
	LogFile    string
	DurationMs int64
	TotalLines int
	Passed     bool
}

// RunSensorStats is one persisted per-sensor summary row of a run.
type RunSensorStats struct {
	RunID       int64
	Sensor      SensorType
	SampleCount int
	Min         float64
	Max         float64
	Mean        float64
	Std         float64
	AlertCount  int
}

// HistoryFilter selects runs from the history store.
type HistoryFilter struct {
	LogFile string
	Last    int
}
