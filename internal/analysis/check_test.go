package analysis

import (
	"fmt"
	"strings"
	"testing"

	"github.com/verte-zerg/hublog/internal/logparse"
	"github.com/verte-zerg/hublog/internal/model"
)

// healthyLog builds a log with 10 TEMP samples at 500ms spacing, enough
// HUM/PRESS samples for a 5000ms run, and optionally one TEMP alert.
func healthyLog(withAlert bool) string {
	var b strings.Builder
	for i := 0; i < 10; i++ {
		fmt.Fprintf(&b, "SAMPLE|TEMP|%0.1f|%d\n", 20.0+float64(i)*0.1, i*500)
	}
	for i := 0; i < 7; i++ {
		fmt.Fprintf(&b, "SAMPLE|HUM|%0.1f|%d\n", 50.0+float64(i), i*700)
	}
	for i := 0; i < 4; i++ {
		fmt.Fprintf(&b, "SAMPLE|PRESS|%0.1f|%d\n", 1010.0+float64(i), i*1200)
	}
	if withAlert {
		b.WriteString("ALERT|TEMP|25.0|3000|moving avg above threshold\n")
	}
	return b.String()
}

func checkFixture(t *testing.T, log string, durationMs int64) CheckResult {
	t.Helper()
	parsed, err := logparse.ParseReader(strings.NewReader(log))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return CheckLog(parsed, model.CheckConfig{
		Rates:      model.DefaultRates(),
		Window:     model.DefaultWindow,
		DurationMs: durationMs,
	})
}

func TestCheckLogHealthyRunPasses(t *testing.T) {
	result := checkFixture(t, healthyLog(true), 5000)
	if !result.Passed() {
		t.Fatalf("expected pass, got failures: %+v", result.Failures)
	}
	for _, c := range result.Completeness {
		if c.Sensor == model.SensorTemp {
			if c.Expected != 9 || c.Observed != 10 {
				t.Fatalf("unexpected TEMP check: %+v", c)
			}
		}
	}
	if result.AlertPolicy.ThresholdMs != 2500 || !result.AlertPolicy.Applicable {
		t.Fatalf("unexpected alert policy: %+v", result.AlertPolicy)
	}
}

func TestCheckLogMissingAlertFailsOnlyAlertPolicy(t *testing.T) {
	result := checkFixture(t, healthyLog(false), 5000)
	if result.Passed() {
		t.Fatalf("expected failure without TEMP alert")
	}
	if len(result.Failures) != 1 {
		t.Fatalf("expected exactly 1 failure, got %+v", result.Failures)
	}
	f := result.Failures[0]
	if f.Kind != MissingExpectedAlert || f.Sensor != model.SensorTemp {
		t.Fatalf("unexpected failure: %+v", f)
	}
	for _, c := range result.Completeness {
		if !c.OK {
			t.Fatalf("completeness should be unaffected: %+v", c)
		}
	}
}

func TestCheckLogAccumulatesAllFailures(t *testing.T) {
	// TEMP samples only; HUM and PRESS are missing and the alert policy
	// applies.
	var b strings.Builder
	for i := 0; i < 10; i++ {
		fmt.Fprintf(&b, "SAMPLE|TEMP|21.0|%d\n", i*500)
	}
	result := checkFixture(t, b.String(), 5000)
	if len(result.Failures) != 3 {
		t.Fatalf("expected 3 accumulated failures, got %+v", result.Failures)
	}
	kinds := map[FailureKind]int{}
	for _, f := range result.Failures {
		kinds[f.Kind]++
	}
	if kinds[InsufficientSamples] != 2 || kinds[MissingExpectedAlert] != 1 {
		t.Fatalf("unexpected failure kinds: %+v", result.Failures)
	}
}
