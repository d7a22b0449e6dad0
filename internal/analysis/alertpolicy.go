package analysis

// AlertPolicyResult is the outcome of the TEMP alert-presence check.
// ThresholdMs is the minimum duration after which the moving-average
// window for TEMP is guaranteed to have filled at least once.
type AlertPolicyResult struct {
	Applicable  bool
	OK          bool
	ThresholdMs int64
	AlertCount  int
}

// CheckAlertPolicy verifies that a run long enough to fill the TEMP
// moving-average window produced at least one TEMP alert. Shorter runs
// satisfy the check vacuously: before the window fills no alert can
// legitimately exist, so its absence is not evidence of malfunction.
func CheckAlertPolicy(tempAlertCount int, durationMs int64, window int, tempRateMs int64) AlertPolicyResult {
	threshold := int64(window) * tempRateMs
	result := AlertPolicyResult{
		ThresholdMs: threshold,
		AlertCount:  tempAlertCount,
	}
	if durationMs < threshold {
		result.OK = true
		return result
	}
	result.Applicable = true
	result.OK = tempAlertCount >= 1
	return result
}
