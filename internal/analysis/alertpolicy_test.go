package analysis

import "testing"

func TestCheckAlertPolicyVacuousBelowThreshold(t *testing.T) {
	// 5 * 500ms = 2500ms threshold.
	result := CheckAlertPolicy(0, 2499, 5, 500)
	if !result.OK {
		t.Fatalf("expected vacuous pass below window-fill threshold")
	}
	if result.Applicable {
		t.Fatalf("check should not be applicable below threshold")
	}
	if result.ThresholdMs != 2500 {
		t.Fatalf("expected threshold 2500, got %d", result.ThresholdMs)
	}
}

func TestCheckAlertPolicyFailsWithoutAlerts(t *testing.T) {
	result := CheckAlertPolicy(0, 2500, 5, 500)
	if result.OK {
		t.Fatalf("expected failure: duration at threshold with zero alerts")
	}
	if !result.Applicable {
		t.Fatalf("check should be applicable at threshold")
	}
}

func TestCheckAlertPolicyPassesWithAlert(t *testing.T) {
	result := CheckAlertPolicy(1, 5000, 5, 500)
	if !result.OK {
		t.Fatalf("expected pass with one alert past threshold")
	}
	if result.AlertCount != 1 {
		t.Fatalf("expected alert count 1, got %d", result.AlertCount)
	}
}
