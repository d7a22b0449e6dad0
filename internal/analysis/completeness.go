// Package analysis contains the log validation checks and derived
// statistics.
package analysis

import "github.com/verte-zerg/hublog/internal/model"

// SensorCheck is the completeness outcome for one sensor channel.
type SensorCheck struct {
	Sensor   model.SensorType
	Observed int
	Expected int
	OK       bool
}

// ExpectedCount computes the minimum sample count a sensor must show
// for the given run duration and sampling interval. The -1 tolerates
// startup skew and scheduling jitter; the floor of 1 keeps the check
// meaningful for runs shorter than one interval.
func ExpectedCount(durationMs, rateMs int64) int {
	if rateMs <= 0 {
		return 1
	}
	raw := durationMs / rateMs
	if raw-1 < 1 {
		return 1
	}
	return int(raw - 1)
}

// CheckCompleteness compares observed per-sensor sample counts against
// the expectation derived from the run duration. Every sensor is
// checked; a failing channel never short-circuits the others.
func CheckCompleteness(counts map[model.SensorType]int, durationMs int64, rates model.Rates) []SensorCheck {
	checks := make([]SensorCheck, 0, len(model.Sensors))
	for _, sensor := range model.Sensors {
		expected := ExpectedCount(durationMs, rates[sensor])
		observed := counts[sensor]
		checks = append(checks, SensorCheck{
			Sensor:   sensor,
			Observed: observed,
			Expected: expected,
			OK:       observed >= expected,
		})
	}
	return checks
}

// SampleCounts tallies samples per sensor channel.
func SampleCounts(samples []model.Sample) map[model.SensorType]int {
	counts := map[model.SensorType]int{}
	for _, s := range samples {
		counts[s.Sensor]++
	}
	return counts
}

// AlertCounts tallies alerts per sensor channel.
func AlertCounts(alerts []model.Alert) map[model.SensorType]int {
	counts := map[model.SensorType]int{}
	for _, a := range alerts {
		counts[a.Sensor]++
	}
	return counts
}
