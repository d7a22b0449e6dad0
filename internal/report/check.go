package report

import (
	"fmt"
	"io"

	"github.com/verte-zerg/hublog/internal/analysis"
	"github.com/verte-zerg/hublog/internal/model"
)

// WriteCheckReport prints the human-readable validation report for a
// run: duration, line totals, and per-sensor counts against their
// expectations.
func WriteCheckReport(w io.Writer, logfile string, result analysis.CheckResult) error {
	expected := map[model.SensorType]int{}
	for _, c := range result.Completeness {
		expected[c.Sensor] = c.Expected
	}

	var err error
	p := func(format string, args ...any) {
		if err != nil {
			return
		}
		_, err = fmt.Fprintf(w, format, args...)
	}

	p("Log: %s\n", logfile)
	p("Duration (s): %.1f, duration_ms: %d\n", float64(result.DurationMs)/1000.0, result.DurationMs)
	p("Total log lines: %d\n", result.TotalLines)
	p("\n")
	p("Sample counts:\n")
	for _, sensor := range model.Sensors {
		p("  %s: %d  (expected >= %d)\n", sensor, result.SampleCounts[sensor], expected[sensor])
	}
	p("\n")
	p("Alert counts:\n")
	for _, sensor := range model.Sensors {
		p("  %s: %d\n", sensor, result.AlertCounts[sensor])
	}
	if result.AlertPolicy.Applicable && result.AlertPolicy.OK {
		p("OK: TEMP ALERTs found: %d\n", result.AlertPolicy.AlertCount)
	}
	if result.Passed() {
		p("\nCHECK PASSED\n")
	}
	return err
}

// WriteCheckFailures prints the accumulated failure reasons followed by
// the CHECK FAILED marker. It writes nothing for a passing run.
func WriteCheckFailures(w io.Writer, result analysis.CheckResult) error {
	if result.Passed() {
		return nil
	}
	for _, f := range result.Failures {
		if _, err := fmt.Fprintf(w, "ERROR: %s\n", f.Detail); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "\nCHECK FAILED\n")
	return err
}
