package analysis

import (
	"fmt"

	"github.com/verte-zerg/hublog/internal/logparse"
	"github.com/verte-zerg/hublog/internal/model"
)

// FailureKind distinguishes the soft validation failures of a run.
type FailureKind int

// Validation failure kinds.
const (
	InsufficientSamples FailureKind = iota
	MissingExpectedAlert
)

// Failure is one accumulated validation failure.
type Failure struct {
	Kind   FailureKind
	Sensor model.SensorType
	Detail string
}

// CheckResult aggregates every outcome of a validation run. Failures
// are accumulated, never short-circuited, so one run surfaces all
// problems at once.
type CheckResult struct {
	DurationMs   int64
	TotalLines   int
	SampleCounts map[model.SensorType]int
	AlertCounts  map[model.SensorType]int
	Completeness []SensorCheck
	AlertPolicy  AlertPolicyResult
	Failures     []Failure
}

// Passed reports whether every check succeeded.
func (r CheckResult) Passed() bool {
	return len(r.Failures) == 0
}

// CheckLog runs the completeness and alert-policy checks over a parsed
// log.
func CheckLog(parsed logparse.Result, cfg model.CheckConfig) CheckResult {
	result := CheckResult{
		DurationMs:   cfg.DurationMs,
		TotalLines:   parsed.TotalLines,
		SampleCounts: SampleCounts(parsed.Samples),
		AlertCounts:  AlertCounts(parsed.Alerts),
	}

	result.Completeness = CheckCompleteness(result.SampleCounts, cfg.DurationMs, cfg.Rates)
	for _, check := range result.Completeness {
		if check.OK {
			continue
		}
		result.Failures = append(result.Failures, Failure{
			Kind:   InsufficientSamples,
			Sensor: check.Sensor,
			Detail: fmt.Sprintf("%s sample count too low: got %d, expected >= %d", check.Sensor, check.Observed, check.Expected),
		})
	}

	result.AlertPolicy = CheckAlertPolicy(result.AlertCounts[model.SensorTemp], cfg.DurationMs, cfg.Window, cfg.Rates[model.SensorTemp])
	if !result.AlertPolicy.OK {
		result.Failures = append(result.Failures, Failure{
			Kind:   MissingExpectedAlert,
			Sensor: model.SensorTemp,
			Detail: fmt.Sprintf("No TEMP ALERT found, but duration %dms >= %dms (window size).", cfg.DurationMs, result.AlertPolicy.ThresholdMs),
		})
	}

	return result
}
